package geo

import "testing"

func TestCountryCode(t *testing.T) {
	tests := []struct{ in, want string }{
		{"Singapore", "SGP"},
		{"singapore", "SGP"},
		{"SGP", "SGP"},
		{"sgp", "SGP"},
		{"United States", "USA"},
		{"Atlantis", "Atlantis"},
		{"", ""},
		{"  Sweden  ", "SWE"},
	}
	for _, tt := range tests {
		if got := CountryCode(tt.in); got != tt.want {
			t.Fatalf("CountryCode(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCountryName(t *testing.T) {
	if got := CountryName("SGP"); got != "Singapore" {
		t.Fatalf("CountryName(SGP) = %q", got)
	}
	if got := CountryName("XXX"); got != "XXX" {
		t.Fatalf("unknown code must pass through, got %q", got)
	}
}

func TestAffiliationCode(t *testing.T) {
	if got := AffiliationCode("National University of Singapore"); got != "nus.edu.sg" {
		t.Fatalf("AffiliationCode = %q", got)
	}
	if got := AffiliationCode("Unknown Tech Institute"); got != "Unknown Tech Institute" {
		t.Fatalf("unknown affiliation must pass through, got %q", got)
	}
}

func TestNormalizeAffiliationCode(t *testing.T) {
	tests := []struct{ in, want string }{
		{"nus.edu.sg", "nus.edu.sg"},
		{"www.comp.nus.edu.sg", "nus.edu.sg"},
		{"MIT.EDU", "mit.edu"},
		{"notadomain", "notadomain"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormalizeAffiliationCode(tt.in); got != tt.want {
			t.Fatalf("NormalizeAffiliationCode(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
