// Package validate implements the integrity checks over the conformed and
// dimensional layers. Checks are read-only and never fatal: every check
// yields a finding with the count of violating rows and a sample of the
// offending keys, and a batch passes when every count is zero.
package validate

import (
	"fmt"
	"math"
	"time"

	"starforge/pkg/models"
)

// Finding is the result of one check against one table.
type Finding struct {
	Table          string   `json:"table"`
	Check          string   `json:"check"`
	ViolatingCount int      `json:"violating_count"`
	SampleKeys     []string `json:"sample_keys,omitempty"`
}

// Passed reports whether the check found no violations.
func (f Finding) Passed() bool {
	return f.ViolatingCount == 0
}

// Report aggregates the findings of one validation pass.
type Report struct {
	Findings  []Finding `json:"findings"`
	CheckedAt time.Time `json:"checked_at"`
}

// Passed reports whether every check in the report came back clean.
func (r *Report) Passed() bool {
	for _, f := range r.Findings {
		if !f.Passed() {
			return false
		}
	}
	return true
}

// Violations returns only the findings with at least one violating row.
func (r *Report) Violations() []Finding {
	var out []Finding
	for _, f := range r.Findings {
		if !f.Passed() {
			out = append(out, f)
		}
	}
	return out
}

// Options tunes a validation pass.
type Options struct {
	// SampleKeys caps the offending keys kept per finding. Zero means the
	// default of 5.
	SampleKeys int
}

const defaultSampleKeys = 5

// Run executes every check against a published batch and returns the
// combined report.
func Run(conformed *models.ConformedBatch, dimensional *models.DimensionalBatch, opts Options) *Report {
	limit := opts.SampleKeys
	if limit <= 0 {
		limit = defaultSampleKeys
	}

	c := collector{limit: limit}

	c.add("dim_customers", "business_key_unique", customerKeyDuplicates(dimensional.Customers))
	c.add("dim_products", "business_key_unique", productKeyDuplicates(dimensional.Products))
	c.add("fact_sales", "customer_connectivity", missingCustomerKeys(dimensional.Sales))
	c.add("fact_sales", "product_connectivity", missingProductKeys(dimensional.Sales))
	c.add("fact_sales", "measures_not_null", nullMeasures(dimensional.Sales))
	salesDiff, salesSample := rowCountParity(len(conformed.Sales), len(dimensional.Sales))
	c.addCount("fact_sales", "row_count_parity", salesDiff, salesSample)
	customerDiff, customerSample := rowCountParity(len(conformed.Customers), len(dimensional.Customers))
	c.addCount("dim_customers", "row_count_parity", customerDiff, customerSample)
	productDiff, productSample := rowCountParity(currentProductCount(conformed.Products), len(dimensional.Products))
	c.addCount("dim_products", "row_count_parity", productDiff, productSample)
	c.add("products", "non_negative_cost", negativeCosts(conformed.Products))
	c.add("sales", "order_before_ship", orderAfterShip(conformed.Sales))
	c.add("sales", "sales_consistency", inconsistentSales(conformed.Sales))

	return &Report{Findings: c.findings, CheckedAt: time.Now()}
}

// collector accumulates findings, truncating sample keys to the limit.
type collector struct {
	limit    int
	findings []Finding
}

func (c *collector) add(table, check string, keys []string) {
	f := Finding{Table: table, Check: check, ViolatingCount: len(keys)}
	if len(keys) > c.limit {
		keys = keys[:c.limit]
	}
	if len(keys) > 0 {
		f.SampleKeys = keys
	}
	c.findings = append(c.findings, f)
}

// addCount records a check whose violation count is not one-per-key, such
// as a row count mismatch, with a single descriptive sample.
func (c *collector) addCount(table, check string, count int, sample string) {
	f := Finding{Table: table, Check: check, ViolatingCount: count}
	if count > 0 && sample != "" {
		f.SampleKeys = []string{sample}
	}
	c.findings = append(c.findings, f)
}

// customerKeyDuplicates flags surrogate or business keys that are not
// unique across the customer dimension.
func customerKeyDuplicates(rows []models.DimCustomerRow) []string {
	surrogates := make(map[int]int)
	business := make(map[int]int)
	for _, r := range rows {
		surrogates[r.CustomerKey]++
		business[r.CustomerID]++
	}

	var keys []string
	for _, r := range rows {
		if surrogates[r.CustomerKey] > 1 || business[r.CustomerID] > 1 || r.CustomerKey == 0 {
			keys = append(keys, fmt.Sprintf("customer_id=%d", r.CustomerID))
		}
	}
	return keys
}

func productKeyDuplicates(rows []models.DimProductRow) []string {
	surrogates := make(map[int]int)
	business := make(map[string]int)
	for _, r := range rows {
		surrogates[r.ProductKey]++
		business[r.ProductNumber]++
	}

	var keys []string
	for _, r := range rows {
		if surrogates[r.ProductKey] > 1 || business[r.ProductNumber] > 1 || r.ProductKey == 0 || r.ProductNumber == "" {
			keys = append(keys, fmt.Sprintf("product_number=%s", r.ProductNumber))
		}
	}
	return keys
}

// missingCustomerKeys applies left-join-and-filter-null semantics: any fact
// row whose customer surrogate key failed to resolve is a violation.
func missingCustomerKeys(rows []models.FactSalesRow) []string {
	var keys []string
	for _, r := range rows {
		if r.CustomerKey == nil {
			keys = append(keys, fmt.Sprintf("order=%s", r.OrderNumber))
		}
	}
	return keys
}

func missingProductKeys(rows []models.FactSalesRow) []string {
	var keys []string
	for _, r := range rows {
		if r.ProductKey == nil {
			keys = append(keys, fmt.Sprintf("order=%s", r.OrderNumber))
		}
	}
	return keys
}

// nullMeasures flags fact rows missing any critical measure.
func nullMeasures(rows []models.FactSalesRow) []string {
	var keys []string
	for _, r := range rows {
		if r.Sales == nil || r.Quantity == nil || r.Price == nil {
			keys = append(keys, fmt.Sprintf("order=%s", r.OrderNumber))
		}
	}
	return keys
}

// rowCountParity detects silent row loss between a conformed table and its
// projected counterpart. The count is the absolute row difference.
func rowCountParity(source, projected int) (int, string) {
	if source == projected {
		return 0, ""
	}
	diff := source - projected
	if diff < 0 {
		diff = -diff
	}
	return diff, fmt.Sprintf("source=%d projected=%d", source, projected)
}

func currentProductCount(products []models.ProductRecord) int {
	n := 0
	for _, p := range products {
		if p.EndDate == nil {
			n++
		}
	}
	return n
}

// negativeCosts reports conformed products whose cost is negative.
// Conformance deliberately leaves negative costs untouched; this check is
// the only place they surface.
func negativeCosts(products []models.ProductRecord) []string {
	var keys []string
	for _, p := range products {
		if p.Cost < 0 {
			keys = append(keys, fmt.Sprintf("product_id=%d", p.ID))
		}
	}
	return keys
}

func orderAfterShip(sales []models.SalesTransaction) []string {
	var keys []string
	for _, s := range sales {
		if s.OrderDate != nil && s.ShipDate != nil && s.OrderDate.After(*s.ShipDate) {
			keys = append(keys, fmt.Sprintf("order=%s", s.OrderNumber))
		}
	}
	return keys
}

func inconsistentSales(sales []models.SalesTransaction) []string {
	var keys []string
	for _, s := range sales {
		if s.Sales == nil || s.Quantity == nil || s.Price == nil {
			continue
		}
		expected := float64(*s.Quantity) * math.Abs(*s.Price)
		if math.Abs(*s.Sales-expected) > 1e-9 {
			keys = append(keys, fmt.Sprintf("order=%s", s.OrderNumber))
		}
	}
	return keys
}
