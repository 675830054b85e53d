package conform

import (
	"strings"

	"starforge/pkg/models"
)

// Categories conforms raw ERP product category rows. The maintenance flag
// is compared only after artifact stripping; bulk-loaded values routinely
// carry carriage returns or non-breaking spaces that would defeat a plain
// trim.
func Categories(raw []models.RawCategory) []models.ProductCategory {
	out := make([]models.ProductCategory, 0, len(raw))
	for _, r := range raw {
		out = append(out, models.ProductCategory{
			ID:          strings.TrimSpace(r.ID),
			Category:    strings.TrimSpace(r.Category),
			Subcategory: strings.TrimSpace(r.Subcategory),
			Maintenance: MaintenanceLabel(r.Maintenance),
		})
	}
	return out
}
