package ui

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"starforge/internal/validate"
)

func TestRenderReportListsEveryCheck(t *testing.T) {
	report := &validate.Report{
		Findings: []validate.Finding{
			{Table: "dim_customers", Check: "business_key_unique"},
			{Table: "fact_sales", Check: "customer_connectivity", ViolatingCount: 2, SampleKeys: []string{"order=SO1", "order=SO2"}},
		},
		CheckedAt: time.Now(),
	}

	out := RenderReport(report)

	assert.Contains(t, out, "dim_customers")
	assert.Contains(t, out, "business_key_unique")
	assert.Contains(t, out, "customer_connectivity")
	assert.Contains(t, out, "order=SO1, order=SO2")
	assert.Contains(t, out, "1 of 2 checks found violations")
}

func TestRenderReportCleanRun(t *testing.T) {
	report := &validate.Report{
		Findings: []validate.Finding{
			{Table: "dim_products", Check: "business_key_unique"},
		},
		CheckedAt: time.Now(),
	}

	out := RenderReport(report)

	assert.Contains(t, out, "All integrity checks passed")
	assert.False(t, strings.Contains(out, "FAIL"))
}
