package rules

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCountryListContains(t *testing.T) {
	list := NewCountryList([]string{"Germany", "DE", "DEU"})

	tests := []struct {
		value string
		want  bool
	}{
		{"Germany", true},
		{"germany", true},
		{"  DE  ", true},
		{"deu", true},
		{"France", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := list.Contains(tt.value); got != tt.want {
			t.Errorf("Contains(%q) = %v, want %v", tt.value, got, tt.want)
		}
	}

	var nilList *CountryList
	if nilList.Contains("Germany") {
		t.Error("nil list reported a match")
	}
}

func TestLoadCountries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "countries.yaml")
	content := `countries:
  - name: Germany
    alpha2: DE
    alpha3: DEU
  - name: France
    alpha2: FR
    alpha3: FRA
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	list, err := LoadCountries(path)
	if err != nil {
		t.Fatalf("LoadCountries failed: %v", err)
	}
	for _, v := range []string{"Germany", "de", "FRA", "france"} {
		if !list.Contains(v) {
			t.Errorf("Contains(%q) = false", v)
		}
	}
	if list.Contains("Spain") {
		t.Error("Contains(Spain) = true")
	}
}

func TestLoadCountries_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "countries.yaml")
	if err := os.WriteFile(path, []byte("countries: []\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadCountries(path); err == nil {
		t.Error("LoadCountries accepted an empty catalog")
	}
}
