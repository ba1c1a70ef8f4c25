package rules

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// CountryList is the known-country catalog consulted by Country checks.
// The list is supplied as external data (a YAML file or an explicit
// slice), never hardcoded in validator logic. Lookups accept official
// names and ISO alpha-2/alpha-3 codes, case-insensitively.
type CountryList struct {
	entries map[string]bool
}

// countryEntry is the YAML shape of one catalog entry.
type countryEntry struct {
	Name   string `yaml:"name"`
	Alpha2 string `yaml:"alpha2"`
	Alpha3 string `yaml:"alpha3"`
}

// NewCountryList builds a catalog from plain values (names or codes).
func NewCountryList(values []string) *CountryList {
	l := &CountryList{entries: make(map[string]bool, len(values))}
	for _, v := range values {
		l.add(v)
	}
	return l
}

// LoadCountries loads a country catalog from a YAML file containing a
// `countries` list of {name, alpha2, alpha3} entries.
func LoadCountries(path string) (*CountryList, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read country file %q: %w", path, err)
	}

	var doc struct {
		Countries []countryEntry `yaml:"countries"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse country file %q: %w", path, err)
	}
	if len(doc.Countries) == 0 {
		return nil, fmt.Errorf("country file %q contains no countries", path)
	}

	l := &CountryList{entries: make(map[string]bool, len(doc.Countries)*3)}
	for _, e := range doc.Countries {
		l.add(e.Name)
		l.add(e.Alpha2)
		l.add(e.Alpha3)
	}
	return l, nil
}

// Contains reports whether the value names a known country.
func (l *CountryList) Contains(value string) bool {
	if l == nil {
		return false
	}
	return l.entries[strings.ToLower(strings.TrimSpace(value))]
}

// Len returns the number of distinct lookup keys in the catalog.
func (l *CountryList) Len() int {
	if l == nil {
		return 0
	}
	return len(l.entries)
}

func (l *CountryList) add(v string) {
	v = strings.ToLower(strings.TrimSpace(v))
	if v != "" {
		l.entries[v] = true
	}
}
