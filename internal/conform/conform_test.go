package conform

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"starforge/pkg/models"
)

// Shared test helpers.

func intPtr(v int) *int             { return &v }
func floatPtr(v float64) *float64   { return &v }
func timePtr(t time.Time) *time.Time { return &t }

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestBatchIsIdempotent(t *testing.T) {
	now := day(2026, time.January, 15)
	raw := &models.RawBatch{
		Customers: []models.RawCustomer{
			{ID: intPtr(1), Key: " AW00000001 ", FirstName: " Jon ", LastName: "Yang", MaritalStatus: "m", Gender: "M", CreatedAt: timePtr(day(2025, time.October, 6))},
			{ID: intPtr(1), Key: "AW00000001", FirstName: "Jon", LastName: "Yang", MaritalStatus: "S", Gender: "M", CreatedAt: timePtr(day(2025, time.October, 7))},
		},
		Products: []models.RawProduct{
			{ID: intPtr(210), Key: "FR-R92B-58", Name: "HL Road Frame", Cost: floatPtr(1059.31), Line: "R", StartDate: timePtr(day(2011, time.July, 1))},
		},
		Sales: []models.RawSale{
			{OrderNumber: "SO43697", ProductKey: "R92B-58", CustomerID: intPtr(1), OrderDateCode: intPtr(20250106), Sales: floatPtr(10), Quantity: intPtr(2), Price: floatPtr(5)},
		},
		Demographics: []models.RawDemographic{
			{CID: "NASAW00000001", BirthDate: timePtr(day(1971, time.October, 6)), Gender: "Male"},
		},
		Locations: []models.RawLocation{
			{CID: "AW-00000001", Country: "US"},
		},
		Categories: []models.RawCategory{
			{ID: "CO_RF", Category: "Components", Subcategory: "Road Frames", Maintenance: "Yes\r"},
		},
	}

	first := Batch(raw, now)
	second := Batch(raw, now)

	assert.Equal(t, first, second)
}
