// Package quality evaluates the output of an upstream message-classification
// pipeline against its taxonomy: validity, malformation, bias, subcategory
// format consistency, batch coverage and discovered themes.
package quality

import (
	"sort"
	"strings"
)

// Taxonomy sources reported on an Analysis.
const (
	SourceProvided = "provided"
	SourceDefault  = "default"
)

// defaultCategoryIDs back the fallback taxonomy used when none is available.
var defaultCategoryIDs = []string{"A", "B", "C", "D", "E", "F"}

// Taxonomy is the set of valid classification targets.
type Taxonomy struct {
	Categories []Category `yaml:"categories" json:"categories"`
}

// Category is one top-level classification target.
type Category struct {
	ID            string        `yaml:"id" json:"id"`
	Name          string        `yaml:"name" json:"name"`
	Description   string        `yaml:"description,omitempty" json:"description,omitempty"`
	Subcategories []Subcategory `yaml:"subcategories" json:"subcategories"`
}

// Subcategory belongs to exactly one Category.
type Subcategory struct {
	ID          string   `yaml:"id" json:"id"`
	Name        string   `yaml:"name" json:"name"`
	Description string   `yaml:"description,omitempty" json:"description,omitempty"`
	Examples    []string `yaml:"examples,omitempty" json:"examples,omitempty"`
}

// DefaultTaxonomy returns the fallback: six categories, no subcategories.
func DefaultTaxonomy() Taxonomy {
	t := Taxonomy{Categories: make([]Category, len(defaultCategoryIDs))}
	for i, id := range defaultCategoryIDs {
		t.Categories[i] = Category{ID: id, Name: "Category " + id}
	}
	return t
}

// ResolveTaxonomy picks the taxonomy to validate against. A nil taxonomy
// silently falls back to DefaultTaxonomy; one without any non-blank category
// id falls back too but returns a *TaxonomyMismatchError describing why.
func ResolveTaxonomy(run string, t *Taxonomy) (Taxonomy, string, error) {
	if t == nil {
		return DefaultTaxonomy(), SourceDefault, nil
	}
	for _, c := range t.Categories {
		if strings.TrimSpace(c.ID) != "" {
			return *t, SourceProvided, nil
		}
	}
	return DefaultTaxonomy(), SourceDefault, &TaxonomyMismatchError{Run: run}
}

// SubcategoryCount returns the number of subcategories across all categories.
func (t Taxonomy) SubcategoryCount() int {
	n := 0
	for _, c := range t.Categories {
		n += len(c.Subcategories)
	}
	return n
}

// Validator answers membership questions against one taxonomy. Identifiers
// are compared case-sensitively after trimming.
type Validator struct {
	order         []string
	names         map[string]string
	subcategories map[string]string // subcategory id -> owning category id
	families      []string          // category ids owning subcategories, longest first
}

// NewValidator indexes t.
func NewValidator(t Taxonomy) *Validator {
	v := &Validator{
		names:         make(map[string]string),
		subcategories: make(map[string]string),
	}
	for _, c := range t.Categories {
		id := strings.TrimSpace(c.ID)
		if id == "" {
			continue
		}
		if _, dup := v.names[id]; !dup {
			v.order = append(v.order, id)
		}
		v.names[id] = strings.TrimSpace(c.Name)
		owns := false
		for _, s := range c.Subcategories {
			sid := strings.TrimSpace(s.ID)
			if sid == "" {
				continue
			}
			v.subcategories[sid] = id
			owns = true
		}
		if owns {
			v.families = append(v.families, id)
		}
	}
	sort.SliceStable(v.families, func(i, j int) bool { return len(v.families[i]) > len(v.families[j]) })
	return v
}

// CategoryIDs returns the valid category ids in taxonomy order.
func (v *Validator) CategoryIDs() []string {
	return append([]string(nil), v.order...)
}

// ValidCategory reports whether id names a taxonomy category.
func (v *Validator) ValidCategory(id string) bool {
	_, ok := v.names[strings.TrimSpace(id)]
	return ok
}

// CategoryName returns the display name of a category id.
func (v *Validator) CategoryName(id string) string {
	return v.names[strings.TrimSpace(id)]
}

// KnownSubcategory reports whether id is a subcategory anywhere in the
// taxonomy.
func (v *Validator) KnownSubcategory(id string) bool {
	_, ok := v.subcategories[strings.TrimSpace(id)]
	return ok
}

// familyPrefix returns the longest subcategory-owning category id that
// prefixes value.
func (v *Validator) familyPrefix(value string) (string, bool) {
	for _, f := range v.families {
		if strings.HasPrefix(value, f) {
			return f, true
		}
	}
	return "", false
}

func (v *Validator) isFamily(value string) bool {
	for _, f := range v.families {
		if f == value {
			return true
		}
	}
	return false
}
