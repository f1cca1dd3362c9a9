package catalog

import (
	"sort"
	"strings"
)

// Well-known spec keys.
const (
	SpecDisplay   = "display"
	SpecBattery   = "battery"
	SpecRAM       = "ram"
	SpecCamera    = "camera"
	SpecProcessor = "processor"
	SpecStorage   = "storage"
	SpecOS        = "os"
)

// ProductRef is the identity and display information of a catalog item. It
// is what the compare and favorites lists hold.
type ProductRef struct {
	ID    string `json:"id" validate:"required,max=128"`
	Name  string `json:"name" validate:"required,max=256"`
	Image string `json:"image" validate:"omitempty,uri"`
	Brand string `json:"brand,omitempty" validate:"max=64"`
}

type Specs map[string]string

// ProductDetail is a ProductRef plus its specification sheet. Optional
// fields are empty when the source does not know them.
type ProductDetail struct {
	ProductRef
	Specs       Specs  `json:"specs"`
	ReleaseDate string `json:"release_date,omitempty"`
	Weight      string `json:"weight,omitempty"`
	URL         string `json:"url,omitempty" validate:"omitempty,url"`
}

func (p ProductDetail) Ref() ProductRef { return p.ProductRef }

// Matches reports whether the lowercased term is a substring of the name,
// brand or any spec value, ignoring case.
func (p ProductDetail) Matches(term string) bool {
	if strings.Contains(strings.ToLower(p.Name), term) ||
		strings.Contains(strings.ToLower(p.Brand), term) {
		return true
	}
	for _, v := range p.Specs {
		if strings.Contains(strings.ToLower(v), term) {
			return true
		}
	}
	return false
}

// SpecKeys returns the union of spec keys across products, well-known keys
// first and the rest alphabetically. The comparison view renders one row per
// key.
func SpecKeys(products []ProductDetail) []string {
	known := []string{SpecDisplay, SpecBattery, SpecRAM, SpecCamera, SpecProcessor, SpecStorage, SpecOS}

	present := make(map[string]struct{})
	for _, p := range products {
		for k := range p.Specs {
			present[k] = struct{}{}
		}
	}

	out := make([]string, 0, len(present))
	for _, k := range known {
		if _, ok := present[k]; ok {
			out = append(out, k)
			delete(present, k)
		}
	}

	rest := make([]string, 0, len(present))
	for k := range present {
		rest = append(rest, k)
	}
	sort.Strings(rest)
	return append(out, rest...)
}

func normalizeQuery(q string) string {
	return strings.ToLower(strings.TrimSpace(q))
}
