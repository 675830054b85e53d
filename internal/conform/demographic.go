package conform

import (
	"strings"
	"time"

	"starforge/pkg/models"
)

// demographicIDPrefix is the source-system prefix carried by ERP customer
// IDs; it is stripped so the ID joins against the CRM customer key.
const demographicIDPrefix = "NAS"

// Demographics conforms raw ERP demographic rows: strips the source-system
// prefix from the customer ID, nulls out birth dates that lie in the future
// relative to now or before the believable floor, and standardizes the
// gender value. now is injected so the stage stays deterministic for a
// given batch.
func Demographics(raw []models.RawDemographic, now time.Time) []models.CustomerDemographic {
	out := make([]models.CustomerDemographic, 0, len(raw))
	for _, r := range raw {
		cid := strings.TrimSpace(r.CID)
		cid = strings.TrimPrefix(cid, demographicIDPrefix)

		birthDate := r.BirthDate
		if birthDate != nil && (birthDate.After(now) || birthDate.Before(birthDateFloor)) {
			birthDate = nil
		}

		out = append(out, models.CustomerDemographic{
			CID:       cid,
			BirthDate: birthDate,
			Gender:    GenderLabel(r.Gender),
		})
	}
	return out
}
