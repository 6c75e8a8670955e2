package service

import (
	"fmt"
	"os"
	"strings"

	"github.com/okian/kudos/internal/domain/quality"
)

// RunSource names the documents of one run on disk. TaxonomyPath and
// SummaryPath are optional.
type RunSource struct {
	Name                string
	TaxonomyPath        string
	ClassificationsPath string
	SummaryPath         string
}

// ParseRunSource parses name=taxonomy,classifications[,summary]. An empty
// taxonomy path selects the default taxonomy.
func ParseRunSource(arg string) (RunSource, error) {
	name, paths, ok := strings.Cut(arg, "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return RunSource{}, fmt.Errorf("%w: %q: want name=taxonomy,classifications[,summary]", ErrRunInput, arg)
	}
	parts := strings.Split(paths, ",")
	if len(parts) < 2 || len(parts) > 3 {
		return RunSource{}, fmt.Errorf("%w: %q: want name=taxonomy,classifications[,summary]", ErrRunInput, arg)
	}
	src := RunSource{
		Name:                name,
		TaxonomyPath:        strings.TrimSpace(parts[0]),
		ClassificationsPath: strings.TrimSpace(parts[1]),
	}
	if len(parts) == 3 {
		src.SummaryPath = strings.TrimSpace(parts[2])
	}
	if src.ClassificationsPath == "" {
		return RunSource{}, fmt.Errorf("%w: %q: classifications path is required", ErrRunInput, arg)
	}
	return src, nil
}

// LoadRun reads and decodes the documents named by src.
func LoadRun(src RunSource) (RunInput, error) {
	in := RunInput{Name: src.Name}

	if src.TaxonomyPath != "" {
		if err := decodeFile(src.TaxonomyPath, func(f *os.File) (err error) {
			in.Taxonomy, err = quality.DecodeTaxonomy(f)
			return err
		}); err != nil {
			return RunInput{}, err
		}
	}

	if err := decodeFile(src.ClassificationsPath, func(f *os.File) (err error) {
		in.Classifications, err = quality.DecodeClassifications(f)
		return err
	}); err != nil {
		return RunInput{}, err
	}

	if src.SummaryPath != "" {
		if err := decodeFile(src.SummaryPath, func(f *os.File) error {
			s, err := quality.DecodeRunSummary(f)
			in.Summary = &s
			return err
		}); err != nil {
			return RunInput{}, err
		}
	}
	return in, nil
}

func decodeFile(path string, decode func(*os.File) error) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrReadRun, err)
	}
	defer func() { _ = f.Close() }()
	if err := decode(f); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrReadRun, path, err)
	}
	return nil
}
