package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"starforge/internal/validate"
)

// RenderReport formats a validation report as a table. Each check is one
// row; failing checks carry the violating count and a key sample.
func RenderReport(report *validate.Report) string {
	var buf strings.Builder

	table := tablewriter.NewWriter(&buf)
	table.SetHeader([]string{"Table", "Check", "Status", "Violations", "Sample Keys"})
	table.SetBorder(false)
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)

	for _, f := range report.Findings {
		status := color.GreenString("PASS")
		violations := "-"
		sample := ""
		if !f.Passed() {
			status = color.RedString("FAIL")
			violations = fmt.Sprintf("%d", f.ViolatingCount)
			sample = strings.Join(f.SampleKeys, ", ")
		}
		table.Append([]string{f.Table, f.Check, status, violations, sample})
	}

	table.Render()

	if report.Passed() {
		buf.WriteString("\n" + color.GreenString("All integrity checks passed") + "\n")
	} else {
		buf.WriteString("\n" + color.RedString(fmt.Sprintf(
			"%d of %d checks found violations", len(report.Violations()), len(report.Findings))) + "\n")
	}

	return buf.String()
}

// ShowRunSummary prints the row counts of a completed run.
func ShowRunSummary(rawRows, conformedRows map[string]int, dimCustomers, dimProducts, factRows int, elapsed time.Duration) {
	fmt.Println(ColorBold("\nRun Summary"))
	fmt.Println(strings.Repeat("-", 50))

	for entity, n := range conformedRows {
		raw := rawRows[entity]
		PrintKeyValue(entity, fmt.Sprintf("%d raw -> %d conformed", raw, n))
	}

	fmt.Println()
	PrintKeyValue("dim_customers", fmt.Sprintf("%d rows", dimCustomers))
	PrintKeyValue("dim_products", fmt.Sprintf("%d rows", dimProducts))
	PrintKeyValue("fact_sales", fmt.Sprintf("%d rows", factRows))

	fmt.Printf("\n%s Completed in %s\n", ColorSuccess("OK"), formatDuration(elapsed))
}
