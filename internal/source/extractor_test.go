package source

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "starforge/pkg/errors"
)

func TestCustomersScansNullableColumns(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	created := time.Date(2025, time.October, 6, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{
		"customer_id", "customer_key", "first_name", "last_name", "marital_status", "gender", "created_at",
	}).
		AddRow(1, "AW00000001", "Jon", "Yang", "M", "M", created).
		AddRow(nil, nil, nil, nil, nil, nil, nil)

	mock.ExpectQuery("SELECT (.+) FROM RAW.CRM_CUSTOMERS").WillReturnRows(rows)

	e := NewExtractor(db, "RAW")
	out, err := e.Customers(context.Background())
	require.NoError(t, err)
	require.Len(t, out, 2)

	require.NotNil(t, out[0].ID)
	assert.Equal(t, 1, *out[0].ID)
	assert.Equal(t, "AW00000001", out[0].Key)
	require.NotNil(t, out[0].CreatedAt)
	assert.Equal(t, created, *out[0].CreatedAt)

	assert.Nil(t, out[1].ID)
	assert.Empty(t, out[1].Key)
	assert.Nil(t, out[1].CreatedAt)
}

func TestSalesScansDateCodesAsIntegers(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows([]string{
		"order_number", "product_key", "customer_id",
		"order_date_code", "ship_date_code", "due_date_code",
		"sales_amount", "quantity", "price",
	}).
		AddRow("SO43697", "FR-R92B-58", 1, 20250106, 0, nil, 10.0, 2, 5.0)

	mock.ExpectQuery("SELECT (.+) FROM RAW.CRM_SALES_DETAILS").WillReturnRows(rows)

	e := NewExtractor(db, "RAW")
	out, err := e.Sales(context.Background())
	require.NoError(t, err)
	require.Len(t, out, 1)

	require.NotNil(t, out[0].OrderDateCode)
	assert.Equal(t, 20250106, *out[0].OrderDateCode)
	require.NotNil(t, out[0].ShipDateCode)
	assert.Equal(t, 0, *out[0].ShipDateCode)
	assert.Nil(t, out[0].DueDateCode)
}

func TestExtractBatchReadsEveryEntity(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM RAW.CRM_CUSTOMERS").
		WillReturnRows(sqlmock.NewRows([]string{"customer_id", "customer_key", "first_name", "last_name", "marital_status", "gender", "created_at"}))
	mock.ExpectQuery("SELECT (.+) FROM RAW.CRM_PRODUCTS").
		WillReturnRows(sqlmock.NewRows([]string{"product_id", "product_key", "product_name", "product_cost", "product_line", "start_date", "end_date"}))
	mock.ExpectQuery("SELECT (.+) FROM RAW.CRM_SALES_DETAILS").
		WillReturnRows(sqlmock.NewRows([]string{"order_number", "product_key", "customer_id", "order_date_code", "ship_date_code", "due_date_code", "sales_amount", "quantity", "price"}))
	mock.ExpectQuery("SELECT (.+) FROM RAW.ERP_CUSTOMER_DEMO").
		WillReturnRows(sqlmock.NewRows([]string{"cid", "birth_date", "gender"}))
	mock.ExpectQuery("SELECT (.+) FROM RAW.ERP_CUSTOMER_LOC").
		WillReturnRows(sqlmock.NewRows([]string{"cid", "country"}))
	mock.ExpectQuery("SELECT (.+) FROM RAW.ERP_PRODUCT_CATEGORY").
		WillReturnRows(sqlmock.NewRows([]string{"category_id", "category", "subcategory", "maintenance"}))

	e := NewExtractor(db, "RAW")
	batch, err := e.ExtractBatch(context.Background())
	require.NoError(t, err)
	require.NotNil(t, batch)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExtractBatchAbortsOnQueryFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM RAW.CRM_CUSTOMERS").
		WillReturnError(fmt.Errorf("table CRM_CUSTOMERS does not exist"))

	e := NewExtractor(db, "RAW")
	_, err = e.ExtractBatch(context.Background())
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeQueryFailed, apperrors.GetErrorCode(err))
}
