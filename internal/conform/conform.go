// Package conform implements the raw-to-conformed transformation stages.
// Every stage is a pure, total function: malformed values resolve to
// defined defaults and never to an error, so conforming the same raw
// snapshot twice yields identical output.
package conform

import (
	"time"

	"starforge/pkg/models"
)

// Batch conforms a full raw snapshot sequentially in dependency order:
// the dimension-feeding entities first, sales last. The runner uses the
// individual stages directly when conforming entities concurrently.
func Batch(raw *models.RawBatch, now time.Time) *models.ConformedBatch {
	return &models.ConformedBatch{
		Customers:    Customers(raw.Customers),
		Products:     Products(raw.Products),
		Demographics: Demographics(raw.Demographics, now),
		Locations:    Locations(raw.Locations),
		Categories:   Categories(raw.Categories),
		Sales:        Sales(raw.Sales),
	}
}
