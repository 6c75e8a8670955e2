package compare

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// NameKey returns the key used to align categories across runs. Category
// identifiers are local to a run, so names are compared after Unicode
// compatibility normalization, case folding and whitespace collapsing.
func NameKey(name string) string {
	s := norm.NFKC.String(name)
	s = cases.Fold().String(s)
	return strings.Join(strings.Fields(s), " ")
}
