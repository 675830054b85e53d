package conform

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"starforge/pkg/models"
)

func TestProductsDecomposesKey(t *testing.T) {
	tests := []struct {
		name       string
		key        string
		categoryID string
		productKey string
	}{
		{"standard key", "CO-RF-FR-R92B-58", "CO_RF", "FR-R92B-58"},
		{"short key keeps what exists", "AB-C", "AB_C", ""},
		{"exactly five chars", "AB-CD", "AB_CD", ""},
		{"six chars has no remainder", "AB-CDX", "AB_CD", ""},
		{"seven chars yields one char key", "AB-CD-X", "AB_CD", "X"},
		{"empty key", "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			categoryID, productKey := decomposeKey(tt.key)
			assert.Equal(t, tt.categoryID, categoryID)
			assert.Equal(t, tt.productKey, productKey)
		})
	}
}

func TestProductsDeduplicatesByLatestStartDate(t *testing.T) {
	raw := []models.RawProduct{
		{ID: intPtr(210), Key: "FR-R92B-58", Name: "Old Version", StartDate: timePtr(day(2011, time.July, 1))},
		{ID: intPtr(210), Key: "FR-R92B-58", Name: "New Version", StartDate: timePtr(day(2012, time.July, 1))},
	}

	out := Products(raw)

	require.Len(t, out, 1)
	assert.Equal(t, "New Version", out[0].Name)
}

func TestProductsMissingCostDefaultsToZero(t *testing.T) {
	raw := []models.RawProduct{
		{ID: intPtr(1), Key: "CO-RF-FR-R92B-58", StartDate: timePtr(day(2012, time.July, 1))},
	}

	out := Products(raw)

	require.Len(t, out, 1)
	assert.Equal(t, 0.0, out[0].Cost)
}

func TestProductsNegativeCostPreserved(t *testing.T) {
	raw := []models.RawProduct{
		{ID: intPtr(1), Key: "CO-RF-FR-R92B-58", Cost: floatPtr(-12.5), StartDate: timePtr(day(2012, time.July, 1))},
	}

	out := Products(raw)

	require.Len(t, out, 1)
	assert.Equal(t, -12.5, out[0].Cost)
}

func TestProductsDerivesEndDatesWithinKeyGroup(t *testing.T) {
	// Three versions of the same product key under distinct business IDs.
	raw := []models.RawProduct{
		{ID: intPtr(1), Key: "CO-RF-FR-R92B-58", StartDate: timePtr(day(2011, time.July, 1))},
		{ID: intPtr(2), Key: "CO-RF-FR-R92B-58", StartDate: timePtr(day(2012, time.July, 1))},
		{ID: intPtr(3), Key: "CO-RF-FR-R92B-58", StartDate: timePtr(day(2013, time.July, 1))},
	}

	out := Products(raw)
	require.Len(t, out, 3)

	byID := make(map[int]models.ProductRecord)
	for _, p := range out {
		byID[p.ID] = p
	}

	require.NotNil(t, byID[1].EndDate)
	assert.Equal(t, day(2012, time.June, 30), *byID[1].EndDate)
	require.NotNil(t, byID[2].EndDate)
	assert.Equal(t, day(2013, time.June, 30), *byID[2].EndDate)
	assert.Nil(t, byID[3].EndDate)
}

func TestProductsEndDatesIndependentAcrossGroups(t *testing.T) {
	raw := []models.RawProduct{
		{ID: intPtr(1), Key: "CO-RF-FR-R92B-58", StartDate: timePtr(day(2011, time.July, 1))},
		{ID: intPtr(2), Key: "CO-HB-HB-M243", StartDate: timePtr(day(2012, time.July, 1))},
	}

	out := Products(raw)
	require.Len(t, out, 2)

	for _, p := range out {
		assert.Nil(t, p.EndDate, "sole record of a group must stay current")
	}
}

func TestProductsStandardizesLine(t *testing.T) {
	raw := []models.RawProduct{
		{ID: intPtr(1), Key: "CO-RF-FR-R92B-58", Line: " r ", StartDate: timePtr(day(2012, time.July, 1))},
		{ID: intPtr(2), Key: "CO-HB-HB-M243", Line: "Z", StartDate: timePtr(day(2012, time.July, 1))},
	}

	out := Products(raw)

	require.Len(t, out, 2)
	assert.Equal(t, "Road", out[0].Line)
	assert.Equal(t, models.LabelUnknown, out[1].Line)
}
