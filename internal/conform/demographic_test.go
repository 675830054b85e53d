package conform

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"starforge/pkg/models"
)

func TestDemographicsStripsSourcePrefix(t *testing.T) {
	now := day(2026, time.January, 15)
	raw := []models.RawDemographic{
		{CID: "NASAW00000001", Gender: "Male"},
		{CID: "AW00000002", Gender: "Female"},
	}

	out := Demographics(raw, now)

	require.Len(t, out, 2)
	assert.Equal(t, "AW00000001", out[0].CID)
	assert.Equal(t, "AW00000002", out[1].CID)
}

func TestDemographicsBirthDateWindow(t *testing.T) {
	now := day(2026, time.January, 15)
	tests := []struct {
		name      string
		birthDate *time.Time
		wantNil   bool
	}{
		{"plausible date kept", timePtr(day(1971, time.October, 6)), false},
		{"future date nulled", timePtr(day(2030, time.January, 1)), true},
		{"before floor nulled", timePtr(day(1899, time.December, 31)), true},
		{"floor itself kept", timePtr(day(1900, time.January, 1)), false},
		{"today kept", timePtr(now), false},
		{"missing stays missing", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Demographics([]models.RawDemographic{{CID: "NAS1", BirthDate: tt.birthDate}}, now)
			require.Len(t, out, 1)
			if tt.wantNil {
				assert.Nil(t, out[0].BirthDate)
			} else {
				assert.NotNil(t, out[0].BirthDate)
			}
		})
	}
}

func TestLocationsRemoveIDSeparator(t *testing.T) {
	raw := []models.RawLocation{
		{CID: "AW-00000001", Country: "US"},
		{CID: " AW-000-02 ", Country: ""},
	}

	out := Locations(raw)

	require.Len(t, out, 2)
	assert.Equal(t, "AW00000001", out[0].CID)
	assert.Equal(t, "United States", out[0].Country)
	assert.Equal(t, "AW00002", out[1].CID)
	assert.Equal(t, models.LabelUnknown, out[1].Country)
}

func TestCategoriesConform(t *testing.T) {
	raw := []models.RawCategory{
		{ID: " CO_RF ", Category: " Components ", Subcategory: "Road Frames", Maintenance: "Yes\r"},
		{ID: "AC_HE", Category: "Accessories", Subcategory: "Helmets", Maintenance: "bogus"},
	}

	out := Categories(raw)

	require.Len(t, out, 2)
	assert.Equal(t, "CO_RF", out[0].ID)
	assert.Equal(t, "Components", out[0].Category)
	assert.Equal(t, models.LabelYes, out[0].Maintenance)
	assert.Equal(t, models.LabelUnknown, out[1].Maintenance)
}
