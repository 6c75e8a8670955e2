// Package record turns delimited award exports into Records.
package record

import "strings"

// Required column names. Matching is exact and case-sensitive.
const (
	FieldMessage        = "message"
	FieldAwardTitle     = "award_title"
	FieldRecipientTitle = "recipient_title"
	FieldNominatorTitle = "nominator_title"
)

// RequiredFields lists the columns every input must carry, in output order.
var RequiredFields = []string{FieldMessage, FieldAwardTitle, FieldRecipientTitle, FieldNominatorTitle}

// Record is one award event. Values are trimmed; "" stands for null.
type Record struct {
	Message        string `json:"message"`
	AwardTitle     string `json:"award_title"`
	RecipientTitle string `json:"recipient_title"`
	NominatorTitle string `json:"nominator_title"`
}

// Field returns the value stored under a required column name.
func (r Record) Field(name string) string {
	switch name {
	case FieldMessage:
		return r.Message
	case FieldAwardTitle:
		return r.AwardTitle
	case FieldRecipientTitle:
		return r.RecipientTitle
	case FieldNominatorTitle:
		return r.NominatorTitle
	}
	return ""
}

// IsBlank reports whether every field is null.
func (r Record) IsBlank() bool {
	return r.Message == "" && r.AwardTitle == "" && r.RecipientTitle == "" && r.NominatorTitle == ""
}

// HasInteraction reports whether both titles are present, so the record forms
// a nominator -> recipient edge.
func (r Record) HasInteraction() bool {
	return r.NominatorTitle != "" && r.RecipientTitle != ""
}

func clean(v string) string { return strings.TrimSpace(v) }
