package record

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

const utf8BOM = "\ufeff"

// Result is the outcome of parsing one export.
type Result struct {
	Records []Record
	// Header is the trimmed header row as found.
	Header []string
	// Discarded counts data rows dropped because every field was blank.
	Discarded int
}

// Parse reads comma-separated text with a header row. Quoted fields may hold
// delimiters, line breaks and doubled quotes; \r\n and \n both end a line.
// Stray quotes inside unquoted fields are kept as literal text. The only
// quoting error is a quoted field still open at end of input.
func Parse(in io.Reader) (Result, error) {
	data, err := io.ReadAll(in)
	if err != nil {
		return Result{}, fmt.Errorf("read records: %w", err)
	}
	if line, open := openQuote(data); open {
		return Result{}, &MalformedRecordError{Line: line, Err: csv.ErrQuote}
	}

	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return Result{}, &EmptyInputError{}
	}
	if err != nil {
		return Result{}, malformed(err)
	}
	for i := range header {
		header[i] = clean(header[i])
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], utf8BOM)
	}

	columns, err := locate(header)
	if err != nil {
		return Result{}, err
	}

	res := Result{Header: header}
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Result{}, malformed(err)
		}
		rec := Record{
			Message:        cell(row, columns[FieldMessage]),
			AwardTitle:     cell(row, columns[FieldAwardTitle]),
			RecipientTitle: cell(row, columns[FieldRecipientTitle]),
			NominatorTitle: cell(row, columns[FieldNominatorTitle]),
		}
		if rec.IsBlank() {
			res.Discarded++
			continue
		}
		res.Records = append(res.Records, rec)
	}

	if len(res.Records) == 0 {
		return Result{}, &EmptyInputError{Discarded: res.Discarded}
	}
	return res, nil
}

// ParseString is Parse over an in-memory string.
func ParseString(s string) ([]Record, error) {
	res, err := Parse(strings.NewReader(s))
	if err != nil {
		return nil, err
	}
	return res.Records, nil
}

// locate maps each required column to its index in the header.
func locate(header []string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, h := range header {
		if _, dup := index[h]; !dup {
			index[h] = i
		}
	}
	columns := make(map[string]int, len(RequiredFields))
	var missing []string
	for _, f := range RequiredFields {
		i, ok := index[f]
		if !ok {
			missing = append(missing, f)
			continue
		}
		columns[f] = i
	}
	if len(missing) > 0 {
		found := make([]string, len(header))
		copy(found, header)
		return nil, &SchemaError{Missing: missing, Found: found}
	}
	return columns, nil
}

func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return clean(row[i])
}

func malformed(err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return &MalformedRecordError{Line: pe.Line, Err: pe.Err}
	}
	return fmt.Errorf("read records: %w", err)
}

// openQuote walks data with the same lazy quoting rules as the reader and
// reports the line of a quoted field that never closes. Inside a quoted field
// a quote only closes it when followed by a delimiter, a line end or EOF.
func openQuote(data []byte) (line int, open bool) {
	line = 1
	start, fieldStart := 0, true
	for i := 0; i < len(data); i++ {
		c := data[i]
		if open {
			switch {
			case c == '\n':
				line++
			case c != '"':
			case i+1 < len(data) && data[i+1] == '"':
				i++
			case i+1 == len(data), data[i+1] == ',', data[i+1] == '\n', data[i+1] == '\r':
				open, fieldStart = false, false
			}
			continue
		}
		switch c {
		case ',':
			fieldStart = true
		case '\n':
			line++
			fieldStart = true
		case ' ', '\t':
		case '"':
			if fieldStart {
				open, start = true, line
			}
			fieldStart = false
		default:
			fieldStart = false
		}
	}
	return start, open
}
