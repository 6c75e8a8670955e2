package quality

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// ClassificationSet is one run's classification output.
type ClassificationSet struct {
	Metadata            Metadata         `yaml:"metadata" json:"metadata"`
	Classifications     []Classification `yaml:"classifications" json:"classifications"`
	CandidateCategories map[string]int   `yaml:"candidate_categories,omitempty" json:"candidate_categories,omitempty"`
}

// Metadata carries the run-level counters reported by the pipeline.
type Metadata struct {
	TotalMessages   int `yaml:"total_messages" json:"total_messages"`
	TotalClassified int `yaml:"total_classified" json:"total_classified"`
	BatchSize       int `yaml:"batch_size" json:"batch_size"`
}

// Classification is the assignment made for a single message.
type Classification struct {
	MessageID   string   `yaml:"message_id,omitempty" json:"message_id,omitempty"`
	Batch       *int     `yaml:"batch" json:"batch,omitempty"`
	Category    string   `yaml:"category" json:"category"`
	Subcategory string   `yaml:"subcategory" json:"subcategory"`
	Themes      []string `yaml:"themes,omitempty" json:"themes,omitempty"`
	NewCategory string   `yaml:"new_category,omitempty" json:"new_category,omitempty"`
}

// RunSummary holds optional timing and discovery counts for a run.
type RunSummary struct {
	Pipeline PipelineTiming `yaml:"pipeline" json:"pipeline"`
	Results  RunResults     `yaml:"results" json:"results"`
}

// PipelineTiming is the timing section of a run summary.
type PipelineTiming struct {
	TotalTimeSeconds float64 `yaml:"total_time_seconds" json:"total_time_seconds"`
}

// RunResults is the results section of a run summary.
type RunResults struct {
	CategoriesDiscovered    *int           `yaml:"categories_discovered" json:"categories_discovered,omitempty"`
	SubcategoriesDiscovered *int           `yaml:"subcategories_discovered" json:"subcategories_discovered,omitempty"`
	Extra                   map[string]any `yaml:",inline" json:"-"`
}

var utf8BOM = []byte("\ufeff")

type taxonomyDocument struct {
	Taxonomy      `yaml:",inline"`
	FinalTaxonomy *Taxonomy `yaml:"final_taxonomy" json:"final_taxonomy"`
}

// DecodeTaxonomy reads a taxonomy document in JSON or YAML. Documents
// wrapping the taxonomy under final_taxonomy are unwrapped.
func DecodeTaxonomy(r io.Reader) (*Taxonomy, error) {
	var doc taxonomyDocument
	if err := decode(r, "taxonomy", &doc); err != nil {
		return nil, err
	}
	if len(doc.Categories) == 0 && doc.FinalTaxonomy != nil {
		return doc.FinalTaxonomy, nil
	}
	t := doc.Taxonomy
	return &t, nil
}

// DecodeClassifications reads a classification document.
func DecodeClassifications(r io.Reader) (ClassificationSet, error) {
	var set ClassificationSet
	err := decode(r, "classifications", &set)
	return set, err
}

// DecodeRunSummary reads a run summary document.
func DecodeRunSummary(r io.Reader) (RunSummary, error) {
	var s RunSummary
	err := decode(r, "run summary", &s)
	return s, err
}

// decode parses JSON when the document opens with an object or array and
// YAML otherwise.
func decode(r io.Reader, kind string, out any) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("%w: read %s: %w", ErrDecode, kind, err)
	}
	data = bytes.TrimPrefix(data, utf8BOM)
	unmarshal := yaml.Unmarshal
	if isJSON(data) {
		unmarshal = json.Unmarshal
	}
	if err := unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: parse %s: %w", ErrDecode, kind, err)
	}
	return nil
}

func isJSON(data []byte) bool {
	data = bytes.TrimLeft(data, " \t\r\n")
	return len(data) > 0 && (data[0] == '{' || data[0] == '[')
}

// scalarText renders a JSON scalar as text so numeric ids read the same as
// quoted ones. null and absent values become "".
func scalarText(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", nil
	}
	if raw[0] == '"' {
		var s string
		err := json.Unmarshal(raw, &s)
		return s, err
	}
	if raw[0] == '{' || raw[0] == '[' {
		return "", fmt.Errorf("expected a scalar, got %s", raw)
	}
	return string(raw), nil
}

// UnmarshalJSON accepts numeric as well as string ids.
func (c *Category) UnmarshalJSON(data []byte) error {
	type plain Category
	aux := struct {
		*plain
		ID json.RawMessage `json:"id"`
	}{plain: (*plain)(c)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	id, err := scalarText(aux.ID)
	c.ID = id
	return err
}

// UnmarshalJSON accepts numeric as well as string ids.
func (s *Subcategory) UnmarshalJSON(data []byte) error {
	type plain Subcategory
	aux := struct {
		*plain
		ID json.RawMessage `json:"id"`
	}{plain: (*plain)(s)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	id, err := scalarText(aux.ID)
	s.ID = id
	return err
}

// UnmarshalJSON accepts numeric message ids, categories and subcategories.
func (c *Classification) UnmarshalJSON(data []byte) error {
	type plain Classification
	aux := struct {
		*plain
		MessageID   json.RawMessage `json:"message_id"`
		Category    json.RawMessage `json:"category"`
		Subcategory json.RawMessage `json:"subcategory"`
	}{plain: (*plain)(c)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	var err error
	if c.MessageID, err = scalarText(aux.MessageID); err != nil {
		return fmt.Errorf("message_id: %w", err)
	}
	if c.Category, err = scalarText(aux.Category); err != nil {
		return fmt.Errorf("category: %w", err)
	}
	if c.Subcategory, err = scalarText(aux.Subcategory); err != nil {
		return fmt.Errorf("subcategory: %w", err)
	}
	return nil
}

// UnmarshalJSON decodes the known counters and keeps every other key in Extra.
func (r *RunResults) UnmarshalJSON(data []byte) error {
	type plain RunResults
	if err := json.Unmarshal(data, (*plain)(r)); err != nil {
		return err
	}
	var all map[string]any
	if err := json.Unmarshal(data, &all); err != nil {
		return err
	}
	delete(all, "categories_discovered")
	delete(all, "subcategories_discovered")
	if len(all) > 0 {
		r.Extra = all
	}
	return nil
}
