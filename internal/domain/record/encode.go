package record

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// Encode writes records as canonical four-column CSV with a header row.
// Parsing the output yields the same records.
func Encode(w io.Writer, records []Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(RequiredFields); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	row := make([]string, len(RequiredFields))
	for i, rec := range records {
		for j, f := range RequiredFields {
			row[j] = rec.Field(f)
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write record %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// EncodeString is Encode into a string.
func EncodeString(records []Record) (string, error) {
	var b strings.Builder
	if err := Encode(&b, records); err != nil {
		return "", err
	}
	return b.String(), nil
}
