// Package geo canonicalizes the geography strings the judge site renders.
// Country cells map display names to the site's three-letter codes;
// affiliation codes are registrable domains (nus.edu.sg, mit.edu) and are
// collapsed with the public suffix list. Lookups never fail: an unknown
// display name falls back to the raw string, because a scraper that errors on
// new geography is worse than one that passes it through.
package geo

import (
	"strings"

	"github.com/weppos/publicsuffix-go/publicsuffix"
)

// countryCodes is the static lookup table from canonical code to display
// name, mirroring the select data the site embeds on its country ranklist.
var countryCodes = map[string]string{
	"ARG": "Argentina",
	"AUS": "Australia",
	"AUT": "Austria",
	"BGD": "Bangladesh",
	"BEL": "Belgium",
	"BRA": "Brazil",
	"BGR": "Bulgaria",
	"CAN": "Canada",
	"CHL": "Chile",
	"CHN": "China",
	"COL": "Colombia",
	"HRV": "Croatia",
	"CUB": "Cuba",
	"CZE": "Czechia",
	"DNK": "Denmark",
	"EGY": "Egypt",
	"EST": "Estonia",
	"FIN": "Finland",
	"FRA": "France",
	"DEU": "Germany",
	"GRC": "Greece",
	"HKG": "Hong Kong",
	"HUN": "Hungary",
	"ISL": "Iceland",
	"IND": "India",
	"IDN": "Indonesia",
	"IRN": "Iran",
	"IRL": "Ireland",
	"ISR": "Israel",
	"ITA": "Italy",
	"JPN": "Japan",
	"KAZ": "Kazakhstan",
	"KOR": "South Korea",
	"LVA": "Latvia",
	"LTU": "Lithuania",
	"MYS": "Malaysia",
	"MEX": "Mexico",
	"MAR": "Morocco",
	"NLD": "Netherlands",
	"NZL": "New Zealand",
	"NOR": "Norway",
	"PAK": "Pakistan",
	"PER": "Peru",
	"PHL": "Philippines",
	"POL": "Poland",
	"PRT": "Portugal",
	"ROU": "Romania",
	"RUS": "Russia",
	"SGP": "Singapore",
	"SVK": "Slovakia",
	"SVN": "Slovenia",
	"ZAF": "South Africa",
	"ESP": "Spain",
	"LKA": "Sri Lanka",
	"SWE": "Sweden",
	"CHE": "Switzerland",
	"SYR": "Syria",
	"TWN": "Taiwan",
	"THA": "Thailand",
	"TUN": "Tunisia",
	"TUR": "Turkey",
	"UKR": "Ukraine",
	"GBR": "United Kingdom",
	"USA": "United States",
	"URY": "Uruguay",
	"VEN": "Venezuela",
	"VNM": "Vietnam",
}

// countryNames is a reverse map generated from countryCodes for efficient
// lookups, keyed by lowercase display name.
var countryNames map[string]string

func init() {
	countryNames = make(map[string]string, len(countryCodes))
	for code, name := range countryCodes {
		countryNames[strings.ToLower(name)] = code
	}
}

// CountryCode maps a display name to its canonical code, falling back to the
// raw input when the name is unknown. Inputs that already look like codes
// pass through unchanged.
func CountryCode(display string) string {
	display = strings.TrimSpace(display)
	if display == "" {
		return ""
	}
	if _, ok := countryCodes[strings.ToUpper(display)]; ok {
		return strings.ToUpper(display)
	}
	if code, ok := countryNames[strings.ToLower(display)]; ok {
		return code
	}
	return display
}

// CountryName maps a canonical code back to its display name, falling back
// to the raw input.
func CountryName(code string) string {
	if name, ok := countryCodes[strings.ToUpper(strings.TrimSpace(code))]; ok {
		return name
	}
	return code
}

// affiliationDomains maps well-known affiliation display names to their
// domain codes. Most affiliations resolve through their ranklist link
// instead; this table only covers names that appear without one.
var affiliationDomains = map[string]string{
	"national university of singapore":      "nus.edu.sg",
	"massachusetts institute of technology": "mit.edu",
	"stanford university":                   "stanford.edu",
	"university of tokyo":                   "u-tokyo.ac.jp",
	"kth royal institute of technology":     "kth.se",
	"eth zurich":                            "ethz.ch",
	"binus university":                      "binus.ac.id",
	"university of waterloo":                "uwaterloo.ca",
	"tsinghua university":                   "tsinghua.edu.cn",
	"university of oxford":                  "ox.ac.uk",
	"university of cambridge":               "cam.ac.uk",
	"carnegie mellon university":            "cmu.edu",
}

// AffiliationCode maps an affiliation display name to its domain code,
// falling back to the raw string for unknown affiliations.
func AffiliationCode(display string) string {
	display = strings.TrimSpace(display)
	if code, ok := affiliationDomains[strings.ToLower(display)]; ok {
		return code
	}
	return display
}

// NormalizeAffiliationCode collapses an affiliation code scraped from a link
// to its registrable domain, so subdomain variants (www.comp.nus.edu.sg,
// nus.edu.sg) share one identity. Codes that are not parseable domains pass
// through untouched.
func NormalizeAffiliationCode(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" || !strings.Contains(code, ".") {
		return code
	}
	domain, err := publicsuffix.Domain(code)
	if err != nil {
		return code
	}
	return domain
}
