// Package source reads the bulk-loaded raw tables and hands them to the
// pipeline as typed raw records. The bulk load itself is an external
// concern; this package treats the raw schema as a read-only snapshot.
// A table that cannot be read is a structural failure and aborts the run.
package source

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"starforge/pkg/errors"
	"starforge/pkg/models"
)

// Raw table names within the raw schema.
const (
	tableCustomers    = "CRM_CUSTOMERS"
	tableProducts     = "CRM_PRODUCTS"
	tableSalesDetails = "CRM_SALES_DETAILS"
	tableDemographics = "ERP_CUSTOMER_DEMO"
	tableLocations    = "ERP_CUSTOMER_LOC"
	tableCategories   = "ERP_PRODUCT_CATEGORY"
)

// Extractor reads raw records from the warehouse.
type Extractor struct {
	db     *sql.DB
	schema string
}

// NewExtractor creates an extractor over an open connection and the schema
// holding the raw tables.
func NewExtractor(db *sql.DB, schema string) *Extractor {
	return &Extractor{db: db, schema: schema}
}

// ExtractBatch reads one full raw snapshot, all entities.
func (e *Extractor) ExtractBatch(ctx context.Context) (*models.RawBatch, error) {
	batch := &models.RawBatch{}
	var err error

	if batch.Customers, err = e.Customers(ctx); err != nil {
		return nil, err
	}
	if batch.Products, err = e.Products(ctx); err != nil {
		return nil, err
	}
	if batch.Sales, err = e.Sales(ctx); err != nil {
		return nil, err
	}
	if batch.Demographics, err = e.Demographics(ctx); err != nil {
		return nil, err
	}
	if batch.Locations, err = e.Locations(ctx); err != nil {
		return nil, err
	}
	if batch.Categories, err = e.Categories(ctx); err != nil {
		return nil, err
	}

	return batch, nil
}

// Customers reads the raw CRM customer table.
func (e *Extractor) Customers(ctx context.Context) ([]models.RawCustomer, error) {
	query := fmt.Sprintf(
		"SELECT customer_id, customer_key, first_name, last_name, marital_status, gender, created_at FROM %s.%s",
		e.schema, tableCustomers,
	)

	rows, err := e.db.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.QueryError("Failed to read raw customers", query, err)
	}
	defer rows.Close()

	var out []models.RawCustomer
	for rows.Next() {
		var id sql.NullInt64
		var key, first, last, marital, gender sql.NullString
		var createdAt sql.NullTime
		if err := rows.Scan(&id, &key, &first, &last, &marital, &gender, &createdAt); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeScanFailed, "Failed to scan raw customer row")
		}

		out = append(out, models.RawCustomer{
			ID:            nullableInt(id),
			Key:           key.String,
			FirstName:     first.String,
			LastName:      last.String,
			MaritalStatus: marital.String,
			Gender:        gender.String,
			CreatedAt:     nullableTime(createdAt),
		})
	}
	return out, rows.Err()
}

// Products reads the raw CRM product table.
func (e *Extractor) Products(ctx context.Context) ([]models.RawProduct, error) {
	query := fmt.Sprintf(
		"SELECT product_id, product_key, product_name, product_cost, product_line, start_date, end_date FROM %s.%s",
		e.schema, tableProducts,
	)

	rows, err := e.db.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.QueryError("Failed to read raw products", query, err)
	}
	defer rows.Close()

	var out []models.RawProduct
	for rows.Next() {
		var id sql.NullInt64
		var key, name, line sql.NullString
		var cost sql.NullFloat64
		var start, end sql.NullTime
		if err := rows.Scan(&id, &key, &name, &cost, &line, &start, &end); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeScanFailed, "Failed to scan raw product row")
		}

		out = append(out, models.RawProduct{
			ID:        nullableInt(id),
			Key:       key.String,
			Name:      name.String,
			Cost:      nullableFloat(cost),
			Line:      line.String,
			StartDate: nullableTime(start),
			EndDate:   nullableTime(end),
		})
	}
	return out, rows.Err()
}

// Sales reads the raw CRM sales detail table. Date columns arrive as
// integer codes, not dates; decoding is the conformance stage's job.
func (e *Extractor) Sales(ctx context.Context) ([]models.RawSale, error) {
	query := fmt.Sprintf(
		"SELECT order_number, product_key, customer_id, order_date_code, ship_date_code, due_date_code, sales_amount, quantity, price FROM %s.%s",
		e.schema, tableSalesDetails,
	)

	rows, err := e.db.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.QueryError("Failed to read raw sales details", query, err)
	}
	defer rows.Close()

	var out []models.RawSale
	for rows.Next() {
		var orderNumber, productKey sql.NullString
		var customerID, orderCode, shipCode, dueCode, quantity sql.NullInt64
		var sales, price sql.NullFloat64
		if err := rows.Scan(&orderNumber, &productKey, &customerID, &orderCode, &shipCode, &dueCode, &sales, &quantity, &price); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeScanFailed, "Failed to scan raw sales row")
		}

		out = append(out, models.RawSale{
			OrderNumber:   orderNumber.String,
			ProductKey:    productKey.String,
			CustomerID:    nullableInt(customerID),
			OrderDateCode: nullableInt(orderCode),
			ShipDateCode:  nullableInt(shipCode),
			DueDateCode:   nullableInt(dueCode),
			Sales:         nullableFloat(sales),
			Quantity:      nullableInt(quantity),
			Price:         nullableFloat(price),
		})
	}
	return out, rows.Err()
}

// Demographics reads the raw ERP customer demographic table.
func (e *Extractor) Demographics(ctx context.Context) ([]models.RawDemographic, error) {
	query := fmt.Sprintf(
		"SELECT cid, birth_date, gender FROM %s.%s",
		e.schema, tableDemographics,
	)

	rows, err := e.db.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.QueryError("Failed to read raw demographics", query, err)
	}
	defer rows.Close()

	var out []models.RawDemographic
	for rows.Next() {
		var cid, gender sql.NullString
		var birthDate sql.NullTime
		if err := rows.Scan(&cid, &birthDate, &gender); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeScanFailed, "Failed to scan raw demographic row")
		}

		out = append(out, models.RawDemographic{
			CID:       cid.String,
			BirthDate: nullableTime(birthDate),
			Gender:    gender.String,
		})
	}
	return out, rows.Err()
}

// Locations reads the raw ERP customer location table.
func (e *Extractor) Locations(ctx context.Context) ([]models.RawLocation, error) {
	query := fmt.Sprintf(
		"SELECT cid, country FROM %s.%s",
		e.schema, tableLocations,
	)

	rows, err := e.db.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.QueryError("Failed to read raw locations", query, err)
	}
	defer rows.Close()

	var out []models.RawLocation
	for rows.Next() {
		var cid, country sql.NullString
		if err := rows.Scan(&cid, &country); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeScanFailed, "Failed to scan raw location row")
		}

		out = append(out, models.RawLocation{
			CID:     cid.String,
			Country: country.String,
		})
	}
	return out, rows.Err()
}

// Categories reads the raw ERP product category table.
func (e *Extractor) Categories(ctx context.Context) ([]models.RawCategory, error) {
	query := fmt.Sprintf(
		"SELECT category_id, category, subcategory, maintenance FROM %s.%s",
		e.schema, tableCategories,
	)

	rows, err := e.db.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.QueryError("Failed to read raw categories", query, err)
	}
	defer rows.Close()

	var out []models.RawCategory
	for rows.Next() {
		var id, category, subcategory, maintenance sql.NullString
		if err := rows.Scan(&id, &category, &subcategory, &maintenance); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeScanFailed, "Failed to scan raw category row")
		}

		out = append(out, models.RawCategory{
			ID:          id.String,
			Category:    category.String,
			Subcategory: subcategory.String,
			Maintenance: maintenance.String,
		})
	}
	return out, rows.Err()
}

// Null-scan helpers.

func nullableInt(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	i := int(v.Int64)
	return &i
}

func nullableFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func nullableTime(v sql.NullTime) *time.Time {
	if !v.Valid {
		return nil
	}
	t := v.Time
	return &t
}
