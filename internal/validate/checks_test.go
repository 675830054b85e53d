package validate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"starforge/pkg/models"
)

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

func timePtr(t time.Time) *time.Time { return &t }

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// cleanBatch builds a conformed/dimensional pair that passes every check.
func cleanBatch() (*models.ConformedBatch, *models.DimensionalBatch) {
	conformed := &models.ConformedBatch{
		Customers: []models.CustomerRecord{{ID: 1, Key: "AW1"}},
		Products: []models.ProductRecord{
			{ID: 10, Key: "FR-1", Cost: 100, StartDate: day(2012, time.July, 1)},
		},
		Sales: []models.SalesTransaction{
			{
				OrderNumber: "SO1", ProductKey: "FR-1", CustomerID: 1,
				OrderDate: timePtr(day(2025, time.January, 6)),
				ShipDate:  timePtr(day(2025, time.January, 13)),
				Sales:     floatPtr(10), Quantity: intPtr(2), Price: floatPtr(5),
			},
		},
	}
	dimensional := &models.DimensionalBatch{
		Customers: []models.DimCustomerRow{{CustomerKey: 1, CustomerID: 1}},
		Products:  []models.DimProductRow{{ProductKey: 1, ProductNumber: "FR-1"}},
		Sales: []models.FactSalesRow{
			{
				OrderNumber: "SO1", CustomerKey: intPtr(1), ProductKey: intPtr(1),
				Sales: floatPtr(10), Quantity: intPtr(2), Price: floatPtr(5),
			},
		},
	}
	return conformed, dimensional
}

func findingFor(t *testing.T, report *Report, table, check string) Finding {
	t.Helper()
	for _, f := range report.Findings {
		if f.Table == table && f.Check == check {
			return f
		}
	}
	t.Fatalf("no finding for %s/%s", table, check)
	return Finding{}
}

func TestRunCleanBatchPasses(t *testing.T) {
	conformed, dimensional := cleanBatch()

	report := Run(conformed, dimensional, Options{})

	assert.True(t, report.Passed())
	assert.Empty(t, report.Violations())
	assert.Len(t, report.Findings, 11, "every check reports even when clean")
}

func TestDuplicateBusinessKeyDetected(t *testing.T) {
	conformed, dimensional := cleanBatch()
	dimensional.Customers = append(dimensional.Customers, models.DimCustomerRow{CustomerKey: 2, CustomerID: 1})
	conformed.Customers = append(conformed.Customers, models.CustomerRecord{ID: 1})

	report := Run(conformed, dimensional, Options{})

	f := findingFor(t, report, "dim_customers", "business_key_unique")
	assert.Equal(t, 2, f.ViolatingCount, "both rows of the duplicate pair count")
	assert.False(t, report.Passed())
}

func TestOrphanedFactDetected(t *testing.T) {
	conformed, dimensional := cleanBatch()
	conformed.Sales = append(conformed.Sales, models.SalesTransaction{OrderNumber: "SO2", Sales: floatPtr(1), Quantity: intPtr(1), Price: floatPtr(1)})
	dimensional.Sales = append(dimensional.Sales, models.FactSalesRow{
		OrderNumber: "SO2", ProductKey: intPtr(1),
		Sales: floatPtr(1), Quantity: intPtr(1), Price: floatPtr(1),
	})

	report := Run(conformed, dimensional, Options{})

	f := findingFor(t, report, "fact_sales", "customer_connectivity")
	assert.Equal(t, 1, f.ViolatingCount)
	assert.Equal(t, []string{"order=SO2"}, f.SampleKeys)
}

func TestNullMeasureDetected(t *testing.T) {
	conformed, dimensional := cleanBatch()
	conformed.Sales = append(conformed.Sales, models.SalesTransaction{OrderNumber: "SO3", CustomerID: 1, ProductKey: "FR-1"})
	dimensional.Sales = append(dimensional.Sales, models.FactSalesRow{
		OrderNumber: "SO3", CustomerKey: intPtr(1), ProductKey: intPtr(1),
	})

	report := Run(conformed, dimensional, Options{})

	f := findingFor(t, report, "fact_sales", "measures_not_null")
	assert.Equal(t, 1, f.ViolatingCount)
}

func TestRowCountParity(t *testing.T) {
	conformed, dimensional := cleanBatch()
	// One conformed sale disappears from the projection.
	conformed.Sales = append(conformed.Sales, models.SalesTransaction{OrderNumber: "SO4", Sales: floatPtr(5), Quantity: intPtr(1), Price: floatPtr(5)})

	report := Run(conformed, dimensional, Options{})

	f := findingFor(t, report, "fact_sales", "row_count_parity")
	assert.Equal(t, 1, f.ViolatingCount, "a 2 vs 1 mismatch is one violation")
	assert.Equal(t, []string{"source=2 projected=1"}, f.SampleKeys)
}

func TestRowCountParityWideGapKeepsOneSample(t *testing.T) {
	conformed, dimensional := cleanBatch()
	for i := 0; i < 3; i++ {
		conformed.Sales = append(conformed.Sales, models.SalesTransaction{
			OrderNumber: "SO9", Sales: floatPtr(5), Quantity: intPtr(1), Price: floatPtr(5),
		})
	}

	report := Run(conformed, dimensional, Options{})

	f := findingFor(t, report, "fact_sales", "row_count_parity")
	assert.Equal(t, 3, f.ViolatingCount, "the count is the row difference")
	assert.Equal(t, []string{"source=4 projected=1"}, f.SampleKeys)
}

func TestProductParityCountsOnlyCurrentVersions(t *testing.T) {
	conformed, dimensional := cleanBatch()
	// A historical version must not unbalance the parity check.
	conformed.Products = append(conformed.Products, models.ProductRecord{
		ID: 9, Key: "FR-1-OLD", StartDate: day(2011, time.July, 1),
		EndDate: timePtr(day(2012, time.June, 30)),
	})

	report := Run(conformed, dimensional, Options{})

	f := findingFor(t, report, "dim_products", "row_count_parity")
	assert.True(t, f.Passed())
}

func TestNegativeCostReportedNotFatal(t *testing.T) {
	conformed, dimensional := cleanBatch()
	conformed.Products = append(conformed.Products, models.ProductRecord{
		ID: 11, Key: "FR-2", Cost: -3, StartDate: day(2012, time.July, 1),
	})
	dimensional.Products = append(dimensional.Products, models.DimProductRow{ProductKey: 2, ProductNumber: "FR-2", Cost: -3})

	report := Run(conformed, dimensional, Options{})

	f := findingFor(t, report, "products", "non_negative_cost")
	assert.Equal(t, 1, f.ViolatingCount)
	assert.Equal(t, []string{"product_id=11"}, f.SampleKeys)
}

func TestOrderAfterShipDetected(t *testing.T) {
	conformed, dimensional := cleanBatch()
	conformed.Sales[0].OrderDate = timePtr(day(2025, time.February, 1))
	conformed.Sales[0].ShipDate = timePtr(day(2025, time.January, 1))

	report := Run(conformed, dimensional, Options{})

	f := findingFor(t, report, "sales", "order_before_ship")
	assert.Equal(t, 1, f.ViolatingCount)
}

func TestInconsistentSalesDetected(t *testing.T) {
	conformed, dimensional := cleanBatch()
	conformed.Sales[0].Sales = floatPtr(999)

	report := Run(conformed, dimensional, Options{})

	f := findingFor(t, report, "sales", "sales_consistency")
	assert.Equal(t, 1, f.ViolatingCount)
}

func TestSampleKeysTruncated(t *testing.T) {
	conformed, dimensional := cleanBatch()
	for i := 0; i < 10; i++ {
		dimensional.Sales = append(dimensional.Sales, models.FactSalesRow{OrderNumber: "X"})
		conformed.Sales = append(conformed.Sales, models.SalesTransaction{OrderNumber: "X"})
	}

	report := Run(conformed, dimensional, Options{SampleKeys: 3})

	f := findingFor(t, report, "fact_sales", "customer_connectivity")
	assert.Equal(t, 10, f.ViolatingCount)
	require.Len(t, f.SampleKeys, 3)
}

func TestReportViolationsFiltersPassingChecks(t *testing.T) {
	conformed, dimensional := cleanBatch()
	conformed.Sales[0].Sales = floatPtr(999)
	dimensional.Sales[0].Sales = floatPtr(999)

	report := Run(conformed, dimensional, Options{})

	for _, f := range report.Violations() {
		assert.False(t, f.Passed())
	}
	assert.NotEmpty(t, report.Violations())
}
