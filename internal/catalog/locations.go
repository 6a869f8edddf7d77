package catalog

import "strings"

// cityCodes maps lower-cased, trimmed place names (and codes) to location codes.
var cityCodes = map[string]string{
	"new york":      "NYC",
	"nyc":           "NYC",
	"new york city": "NYC",
	"manhattan":     "NYC",
	"los angeles":   "LAX",
	"la":            "LAX",
	"lax":           "LAX",
	"hollywood":     "LAX",
	"san francisco": "SFO",
	"sf":            "SFO",
	"sfo":           "SFO",
	"sfx":           "SFO",
	"bay area":      "SFO",
	"miami":         "MIA",
	"mia":           "MIA",
	"south beach":   "MIA",
	"paris":         "PAR",
	"par":           "PAR",
	"france":        "PAR",
}

// cityNames maps location codes to display names.
var cityNames = map[string]string{
	"NYC": "New York",
	"LAX": "Los Angeles",
	"SFO": "San Francisco",
	"MIA": "Miami",
	"PAR": "Paris",
}

// NormalizeLocation turns free text into a location code.
// Known place names resolve through the name table (case-insensitive,
// trimmed); anything else is returned trimmed and upper-cased, so an unknown
// city is treated as if its text were a code.
func NormalizeLocation(input string) string {
	key := strings.ToLower(strings.TrimSpace(input))
	if code, ok := cityCodes[key]; ok {
		return code
	}
	return strings.ToUpper(strings.TrimSpace(input))
}

// CityName returns the display name for code, or code itself when unknown.
func CityName(code string) string {
	if name, ok := cityNames[code]; ok {
		return name
	}
	return code
}
