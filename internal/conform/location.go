package conform

import (
	"strings"

	"starforge/pkg/models"
)

// Locations conforms raw ERP location rows: removes the separator the
// source system embeds in customer IDs and canonicalizes the country value
// against the ordered prefix rules.
func Locations(raw []models.RawLocation) []models.LocationRecord {
	out := make([]models.LocationRecord, 0, len(raw))
	for _, r := range raw {
		cid := strings.ReplaceAll(strings.TrimSpace(r.CID), "-", "")

		out = append(out, models.LocationRecord{
			CID:     cid,
			Country: CountryLabel(r.Country),
		})
	}
	return out
}
