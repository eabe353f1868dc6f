package catalog

import "strings"

// usStates maps US state full names to their abbreviations.
var usStates = map[string]string{
	"alabama":              "AL",
	"alaska":               "AK",
	"arizona":              "AZ",
	"arkansas":             "AR",
	"california":           "CA",
	"colorado":             "CO",
	"connecticut":          "CT",
	"delaware":             "DE",
	"district of columbia": "DC",
	"florida":              "FL",
	"georgia":              "GA",
	"hawaii":               "HI",
	"idaho":                "ID",
	"illinois":             "IL",
	"indiana":              "IN",
	"iowa":                 "IA",
	"kansas":               "KS",
	"kentucky":             "KY",
	"louisiana":            "LA",
	"maine":                "ME",
	"maryland":             "MD",
	"massachusetts":        "MA",
	"michigan":             "MI",
	"minnesota":            "MN",
	"mississippi":          "MS",
	"missouri":             "MO",
	"montana":              "MT",
	"nebraska":             "NE",
	"nevada":               "NV",
	"new hampshire":        "NH",
	"new jersey":           "NJ",
	"new mexico":           "NM",
	"new york":             "NY",
	"north carolina":       "NC",
	"north dakota":         "ND",
	"ohio":                 "OH",
	"oklahoma":             "OK",
	"oregon":               "OR",
	"pennsylvania":         "PA",
	"rhode island":         "RI",
	"south carolina":       "SC",
	"south dakota":         "SD",
	"tennessee":            "TN",
	"texas":                "TX",
	"utah":                 "UT",
	"vermont":              "VT",
	"virginia":             "VA",
	"washington":           "WA",
	"west virginia":        "WV",
	"wisconsin":            "WI",
	"wyoming":              "WY",
}

var stateCodes = func() map[string]bool {
	codes := make(map[string]bool, len(usStates))
	for _, code := range usStates {
		codes[code] = true
	}
	return codes
}()

// NormalizeUSState converts US state names to their 2-letter codes and
// upper-cases codes. Unrecognized input is returned trimmed.
func NormalizeUSState(s string) string {
	s = strings.TrimSpace(s)
	if code, ok := usStates[strings.ToLower(s)]; ok {
		return code
	}
	if upper := strings.ToUpper(s); stateCodes[upper] {
		return upper
	}
	return s
}

// IsUSState reports whether s is a 2-letter state code.
func IsUSState(s string) bool { return stateCodes[s] }

// NormalizeSKU upper-cases a SKU and collapses inner whitespace to hyphens.
func NormalizeSKU(s string) string {
	return strings.ToUpper(strings.Join(strings.Fields(s), "-"))
}
