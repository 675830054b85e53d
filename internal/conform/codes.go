package conform

import (
	"strings"

	"starforge/pkg/models"
)

// Code standardization tables. Matching is case-insensitive after trimming;
// any code not present in a table resolves to models.LabelUnknown. The
// mapping is intentionally lossy: labels have no inverse.

var maritalStatusLabels = map[string]string{
	"S": models.LabelSingle,
	"M": models.LabelMarried,
}

var genderLabels = map[string]string{
	"F":      models.LabelFemale,
	"FEMALE": models.LabelFemale,
	"M":      models.LabelMale,
	"MALE":   models.LabelMale,
}

var productLineLabels = map[string]string{
	"M": "Mountain",
	"R": "Road",
	"S": "Other Sales",
	"T": "Touring",
}

// standardize resolves a raw short code against a mapping table.
func standardize(table map[string]string, code string) string {
	key := strings.ToUpper(strings.TrimSpace(code))
	if label, ok := table[key]; ok {
		return label
	}
	return models.LabelUnknown
}

// MaritalStatusLabel maps a marital status code to its label.
func MaritalStatusLabel(code string) string {
	return standardize(maritalStatusLabels, code)
}

// GenderLabel maps a gender code to its label. Both single-letter CRM codes
// and spelled-out ERP values are accepted.
func GenderLabel(code string) string {
	return standardize(genderLabels, code)
}

// ProductLineLabel maps a product line code to its label.
func ProductLineLabel(code string) string {
	return standardize(productLineLabels, code)
}

// countryRule maps a country value prefix to its canonical name.
type countryRule struct {
	prefix string
	label  string
}

// countryRules is evaluated in order; the first prefix match wins. Longer
// spellings come before their abbreviations so that, for example,
// "UNITED STATES" is not shadowed by "US".
var countryRules = []countryRule{
	{"GERMANY", "Germany"},
	{"DE", "Germany"},
	{"UNITED STATES", "United States"},
	{"USA", "United States"},
	{"US", "United States"},
	{"UNITED KINGDOM", "United Kingdom"},
	{"UK", "United Kingdom"},
	{"AUSTRALIA", "Australia"},
	{"CANADA", "Canada"},
	{"FRANCE", "France"},
}

// CountryLabel canonicalizes a raw country value. Values matching no rule,
// including blanks, resolve to models.LabelUnknown.
func CountryLabel(value string) string {
	v := strings.ToUpper(strings.TrimSpace(value))
	if v == "" {
		return models.LabelUnknown
	}
	for _, rule := range countryRules {
		if strings.HasPrefix(v, rule.prefix) {
			return rule.label
		}
	}
	return models.LabelUnknown
}

// MaintenanceLabel maps a raw maintenance flag to Yes/No. The raw value is
// stripped of whitespace and control artifacts before comparison because
// bulk-loaded flags frequently carry trailing carriage returns or
// non-breaking spaces.
func MaintenanceLabel(value string) string {
	switch strings.ToUpper(stripArtifacts(value)) {
	case "YES":
		return models.LabelYes
	case "NO":
		return models.LabelNo
	default:
		return models.LabelUnknown
	}
}
