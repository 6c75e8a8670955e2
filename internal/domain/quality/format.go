package quality

import (
	"regexp"
	"strings"
)

// Subcategory format labels, in the order they are tested.
const (
	FormatCorrect       = "Correct"
	FormatEmpty         = "Null/Empty"
	FormatLetterOnly    = "Letter only"
	FormatLetterNumber  = "Letter+number"
	FormatAltPrefix     = "Alt prefix"
	FormatLowercase     = "Lowercase letter"
	FormatCategoryAsSub = "Category ID as subcategory"
	FormatWrongPrefix   = "Wrong category prefix"
	FormatOther         = "Other/Unrecognized"
)

// Formats lists every format label in cascade order.
var Formats = []string{
	FormatCorrect,
	FormatEmpty,
	FormatLetterOnly,
	FormatLetterNumber,
	FormatAltPrefix,
	FormatLowercase,
	FormatCategoryAsSub,
	FormatWrongPrefix,
	FormatOther,
}

var (
	nullPattern         = regexp.MustCompile(`(?i)^(none|null|n/?a|nan|-)?$`)
	letterOnlyPattern   = regexp.MustCompile(`^[A-Z]$`)
	letterNumberPattern = regexp.MustCompile(`^[A-Z][0-9]+$`)
	altPrefixPattern    = regexp.MustCompile(`^[A-Z][0-9]+[a-z]$`)
	lowercasePattern    = regexp.MustCompile(`^[a-z]$`)
)

// SubcategoryFormat buckets a subcategory value assigned alongside category.
// The first matching rule wins.
func (v *Validator) SubcategoryFormat(category, value string) string {
	value = strings.TrimSpace(value)
	category = strings.TrimSpace(category)
	switch {
	case v.KnownSubcategory(value):
		return FormatCorrect
	case nullPattern.MatchString(value):
		return FormatEmpty
	case letterOnlyPattern.MatchString(value):
		return FormatLetterOnly
	case letterNumberPattern.MatchString(value):
		return FormatLetterNumber
	case altPrefixPattern.MatchString(value):
		return FormatAltPrefix
	case lowercasePattern.MatchString(value):
		return FormatLowercase
	case v.isFamily(value):
		return FormatCategoryAsSub
	}
	if prefix, ok := v.familyPrefix(value); ok && prefix != category {
		return FormatWrongPrefix
	}
	return FormatOther
}
