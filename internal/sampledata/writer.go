package sampledata

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/okian/kudos/internal/domain/record"
)

// File names written by WriteDir.
const (
	AwardsFile          = "awards.csv"
	TaxonomyFile        = "taxonomy.yaml"
	ClassificationsFile = "classifications.json"
	SummaryFile         = "summary.json"
)

const (
	dirPermission  = 0o750
	filePermission = 0o600
)

// ErrWrite is returned when a dataset file cannot be written.
var ErrWrite = errors.New("write sample data")

// WriteDir writes ds into dir, creating it if needed.
func WriteDir(dir string, ds Dataset) error {
	if err := os.MkdirAll(dir, dirPermission); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	writers := []struct {
		name  string
		write func(io.Writer) error
	}{
		{AwardsFile, func(w io.Writer) error { return record.Encode(w, ds.Awards) }},
		{TaxonomyFile, func(w io.Writer) error {
			enc := yaml.NewEncoder(w)
			enc.SetIndent(2)
			if err := enc.Encode(ds.Taxonomy); err != nil {
				return err
			}
			return enc.Close()
		}},
		{ClassificationsFile, jsonWriter(ds.Classifications)},
		{SummaryFile, jsonWriter(ds.Summary)},
	}
	for _, fw := range writers {
		if err := writeFile(filepath.Join(dir, fw.name), fw.write); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrWrite, fw.name, err)
		}
	}
	return nil
}

func jsonWriter(v any) func(io.Writer) error {
	return func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
}

func writeFile(path string, write func(io.Writer) error) (err error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, filePermission)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return write(f)
}
