// Package loader publishes conformed and dimensional batches to the
// warehouse. Each table is rebuilt in a staging table and swapped into
// place, so a concurrent reader sees either the previous load or the new
// one, never a truncated table mid-reload. The swap is scoped per table;
// a failure while loading one entity leaves every other table untouched.
package loader

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"starforge/pkg/errors"
	"starforge/pkg/models"
)

const defaultBatchSize = 500

// Loader writes pipeline output tables.
type Loader struct {
	db        *sql.DB
	layers    models.Layers
	batchSize int
}

// New creates a loader over an open connection.
func New(db *sql.DB, layers models.Layers, batchSize int) *Loader {
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	return &Loader{db: db, layers: layers, batchSize: batchSize}
}

// tableSpec describes one target table.
type tableSpec struct {
	schema  string
	name    string
	columns []string
	ddl     string
}

func (t tableSpec) qualified() string {
	return fmt.Sprintf("%s.%s", t.schema, t.name)
}

func (t tableSpec) staging() string {
	return fmt.Sprintf("%s.%s__STAGE", t.schema, t.name)
}

// LoadConformed replaces every conformed-layer table with the batch.
func (l *Loader) LoadConformed(ctx context.Context, batch *models.ConformedBatch) error {
	if err := l.loadCustomers(ctx, batch.Customers); err != nil {
		return err
	}
	if err := l.loadProducts(ctx, batch.Products); err != nil {
		return err
	}
	if err := l.loadSales(ctx, batch.Sales); err != nil {
		return err
	}
	if err := l.loadDemographics(ctx, batch.Demographics); err != nil {
		return err
	}
	if err := l.loadLocations(ctx, batch.Locations); err != nil {
		return err
	}
	return l.loadCategories(ctx, batch.Categories)
}

// LoadDimensional replaces the star-schema tables with the batch.
func (l *Loader) LoadDimensional(ctx context.Context, batch *models.DimensionalBatch) error {
	if err := l.loadDimCustomers(ctx, batch.Customers); err != nil {
		return err
	}
	if err := l.loadDimProducts(ctx, batch.Products); err != nil {
		return err
	}
	return l.loadFactSales(ctx, batch.Sales)
}

func (l *Loader) loadCustomers(ctx context.Context, records []models.CustomerRecord) error {
	spec := tableSpec{
		schema:  l.layers.Conformed,
		name:    "CUSTOMERS",
		columns: []string{"customer_id", "customer_key", "first_name", "last_name", "marital_status", "gender", "created_at"},
		ddl:     "customer_id INTEGER, customer_key VARCHAR, first_name VARCHAR, last_name VARCHAR, marital_status VARCHAR, gender VARCHAR, created_at TIMESTAMP_NTZ",
	}
	rows := make([][]interface{}, 0, len(records))
	for _, r := range records {
		rows = append(rows, []interface{}{r.ID, r.Key, r.FirstName, r.LastName, r.MaritalStatus, r.Gender, r.CreatedAt})
	}
	return l.replaceTable(ctx, spec, rows)
}

func (l *Loader) loadProducts(ctx context.Context, records []models.ProductRecord) error {
	spec := tableSpec{
		schema:  l.layers.Conformed,
		name:    "PRODUCTS",
		columns: []string{"product_id", "category_id", "product_key", "product_name", "product_cost", "product_line", "start_date", "end_date"},
		ddl:     "product_id INTEGER, category_id VARCHAR, product_key VARCHAR, product_name VARCHAR, product_cost FLOAT, product_line VARCHAR, start_date DATE, end_date DATE",
	}
	rows := make([][]interface{}, 0, len(records))
	for _, r := range records {
		rows = append(rows, []interface{}{r.ID, r.CategoryID, r.Key, r.Name, r.Cost, r.Line, r.StartDate, timeOrNil(r.EndDate)})
	}
	return l.replaceTable(ctx, spec, rows)
}

func (l *Loader) loadSales(ctx context.Context, records []models.SalesTransaction) error {
	spec := tableSpec{
		schema:  l.layers.Conformed,
		name:    "SALES",
		columns: []string{"order_number", "product_key", "customer_id", "order_date", "ship_date", "due_date", "sales_amount", "quantity", "price"},
		ddl:     "order_number VARCHAR, product_key VARCHAR, customer_id INTEGER, order_date DATE, ship_date DATE, due_date DATE, sales_amount FLOAT, quantity INTEGER, price FLOAT",
	}
	rows := make([][]interface{}, 0, len(records))
	for _, r := range records {
		rows = append(rows, []interface{}{
			r.OrderNumber, r.ProductKey, r.CustomerID,
			timeOrNil(r.OrderDate), timeOrNil(r.ShipDate), timeOrNil(r.DueDate),
			floatOrNil(r.Sales), intOrNil(r.Quantity), floatOrNil(r.Price),
		})
	}
	return l.replaceTable(ctx, spec, rows)
}

func (l *Loader) loadDemographics(ctx context.Context, records []models.CustomerDemographic) error {
	spec := tableSpec{
		schema:  l.layers.Conformed,
		name:    "CUSTOMER_DEMO",
		columns: []string{"cid", "birth_date", "gender"},
		ddl:     "cid VARCHAR, birth_date DATE, gender VARCHAR",
	}
	rows := make([][]interface{}, 0, len(records))
	for _, r := range records {
		rows = append(rows, []interface{}{r.CID, timeOrNil(r.BirthDate), r.Gender})
	}
	return l.replaceTable(ctx, spec, rows)
}

func (l *Loader) loadLocations(ctx context.Context, records []models.LocationRecord) error {
	spec := tableSpec{
		schema:  l.layers.Conformed,
		name:    "CUSTOMER_LOC",
		columns: []string{"cid", "country"},
		ddl:     "cid VARCHAR, country VARCHAR",
	}
	rows := make([][]interface{}, 0, len(records))
	for _, r := range records {
		rows = append(rows, []interface{}{r.CID, r.Country})
	}
	return l.replaceTable(ctx, spec, rows)
}

func (l *Loader) loadCategories(ctx context.Context, records []models.ProductCategory) error {
	spec := tableSpec{
		schema:  l.layers.Conformed,
		name:    "PRODUCT_CATEGORY",
		columns: []string{"category_id", "category", "subcategory", "maintenance"},
		ddl:     "category_id VARCHAR, category VARCHAR, subcategory VARCHAR, maintenance VARCHAR",
	}
	rows := make([][]interface{}, 0, len(records))
	for _, r := range records {
		rows = append(rows, []interface{}{r.ID, r.Category, r.Subcategory, r.Maintenance})
	}
	return l.replaceTable(ctx, spec, rows)
}

func (l *Loader) loadDimCustomers(ctx context.Context, records []models.DimCustomerRow) error {
	spec := tableSpec{
		schema:  l.layers.Mart,
		name:    "DIM_CUSTOMERS",
		columns: []string{"customer_key", "customer_id", "customer_number", "first_name", "last_name", "country", "marital_status", "gender", "birth_date", "created_at"},
		ddl:     "customer_key INTEGER, customer_id INTEGER, customer_number VARCHAR, first_name VARCHAR, last_name VARCHAR, country VARCHAR, marital_status VARCHAR, gender VARCHAR, birth_date DATE, created_at TIMESTAMP_NTZ",
	}
	rows := make([][]interface{}, 0, len(records))
	for _, r := range records {
		rows = append(rows, []interface{}{
			r.CustomerKey, r.CustomerID, r.CustomerNumber, r.FirstName, r.LastName,
			r.Country, r.MaritalStatus, r.Gender, timeOrNil(r.BirthDate), r.CreatedAt,
		})
	}
	return l.replaceTable(ctx, spec, rows)
}

func (l *Loader) loadDimProducts(ctx context.Context, records []models.DimProductRow) error {
	spec := tableSpec{
		schema:  l.layers.Mart,
		name:    "DIM_PRODUCTS",
		columns: []string{"product_key", "product_id", "product_number", "product_name", "category_id", "category", "subcategory", "maintenance", "cost", "product_line", "start_date"},
		ddl:     "product_key INTEGER, product_id INTEGER, product_number VARCHAR, product_name VARCHAR, category_id VARCHAR, category VARCHAR, subcategory VARCHAR, maintenance VARCHAR, cost FLOAT, product_line VARCHAR, start_date DATE",
	}
	rows := make([][]interface{}, 0, len(records))
	for _, r := range records {
		rows = append(rows, []interface{}{
			r.ProductKey, r.ProductID, r.ProductNumber, r.Name, r.CategoryID,
			r.Category, r.Subcategory, r.Maintenance, r.Cost, r.Line, r.StartDate,
		})
	}
	return l.replaceTable(ctx, spec, rows)
}

func (l *Loader) loadFactSales(ctx context.Context, records []models.FactSalesRow) error {
	spec := tableSpec{
		schema:  l.layers.Mart,
		name:    "FACT_SALES",
		columns: []string{"order_number", "product_key", "customer_key", "order_date", "ship_date", "due_date", "sales_amount", "quantity", "price"},
		ddl:     "order_number VARCHAR, product_key INTEGER, customer_key INTEGER, order_date DATE, ship_date DATE, due_date DATE, sales_amount FLOAT, quantity INTEGER, price FLOAT",
	}
	rows := make([][]interface{}, 0, len(records))
	for _, r := range records {
		rows = append(rows, []interface{}{
			r.OrderNumber, intOrNil(r.ProductKey), intOrNil(r.CustomerKey),
			timeOrNil(r.OrderDate), timeOrNil(r.ShipDate), timeOrNil(r.DueDate),
			floatOrNil(r.Sales), intOrNil(r.Quantity), floatOrNil(r.Price),
		})
	}
	return l.replaceTable(ctx, spec, rows)
}

// replaceTable rebuilds one table: fill a staging table, swap it into
// place, drop the leftovers. Readers of the target table never observe the
// intermediate state.
func (l *Loader) replaceTable(ctx context.Context, spec tableSpec, rows [][]interface{}) error {
	staging := spec.staging()

	createStage := fmt.Sprintf("CREATE OR REPLACE TABLE %s (%s)", staging, spec.ddl)
	if _, err := l.db.ExecContext(ctx, createStage); err != nil {
		return errors.Wrap(err, errors.ErrCodeStagingFailed,
			fmt.Sprintf("Failed to create staging table for %s", spec.qualified())).
			WithContext("table", spec.qualified())
	}

	if err := l.insertRows(ctx, staging, spec.columns, rows); err != nil {
		return err
	}

	ensure := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s LIKE %s", spec.qualified(), staging)
	if _, err := l.db.ExecContext(ctx, ensure); err != nil {
		return errors.Wrap(err, errors.ErrCodeLoadFailed,
			fmt.Sprintf("Failed to ensure target table %s", spec.qualified())).
			WithContext("table", spec.qualified())
	}

	swap := fmt.Sprintf("ALTER TABLE %s SWAP WITH %s", spec.qualified(), staging)
	if _, err := l.db.ExecContext(ctx, swap); err != nil {
		return errors.Wrap(err, errors.ErrCodeSwapFailed,
			fmt.Sprintf("Failed to swap %s into place", spec.qualified())).
			WithContext("table", spec.qualified())
	}

	drop := fmt.Sprintf("DROP TABLE IF EXISTS %s", staging)
	if _, err := l.db.ExecContext(ctx, drop); err != nil {
		return errors.Wrap(err, errors.ErrCodeLoadFailed,
			fmt.Sprintf("Failed to drop staging table for %s", spec.qualified())).
			WithContext("table", spec.qualified())
	}

	return nil
}

// insertRows writes rows into the staging table in batches.
func (l *Loader) insertRows(ctx context.Context, table string, columns []string, rows [][]interface{}) error {
	placeholder := "(" + strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ") + ")"

	for start := 0; start < len(rows); start += l.batchSize {
		end := start + l.batchSize
		if end > len(rows) {
			end = len(rows)
		}
		batch := rows[start:end]

		placeholders := make([]string, len(batch))
		args := make([]interface{}, 0, len(batch)*len(columns))
		for i, row := range batch {
			placeholders[i] = placeholder
			args = append(args, row...)
		}

		query := fmt.Sprintf("INSERT INTO %s (%s) VALUES %s",
			table, strings.Join(columns, ", "), strings.Join(placeholders, ", "))

		if _, err := l.db.ExecContext(ctx, query, args...); err != nil {
			return errors.QueryError(fmt.Sprintf("Failed to insert batch into %s", table), query, err).
				WithContext("rows", len(batch))
		}
	}

	return nil
}

// Null-bind helpers: typed nil pointers must become untyped nils so the
// driver writes SQL NULL.

func timeOrNil(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return *t
}

func intOrNil(i *int) interface{} {
	if i == nil {
		return nil
	}
	return *i
}

func floatOrNil(f *float64) interface{} {
	if f == nil {
		return nil
	}
	return *f
}
