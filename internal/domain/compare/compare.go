// Package compare aligns the quality analyses of several classification runs
// and produces scorecards, a category overlap table, a taxonomy diff and
// radar-ready normalized metrics.
package compare

import (
	"fmt"
	"sort"
	"strings"

	"github.com/okian/kudos/internal/domain/numeric"
	"github.com/okian/kudos/internal/domain/quality"
)

// Radar axes, in row order.
const (
	AxisSuccess           = "Success rate"
	AxisFormatConsistency = "Format consistency"
	AxisCategoryRichness  = "Category richness"
	AxisDiscovery         = "Discovery count"
	AxisMalformed         = "Low malformation"
	AxisBias              = "Low bias"
)

// Fixed ceilings for the inverted axes.
const (
	MalformedCeiling = 100.0
	BiasCeiling      = 200.0
)

// RunAnalysis is one analyzed run as input to Compare.
type RunAnalysis struct {
	Name     string
	Taxonomy quality.Taxonomy
	Analysis quality.Analysis
	Summary  *quality.RunSummary
}

// Comparison is the cross-run result. Every per-run slice is aligned with
// Runs.
type Comparison struct {
	Runs     []string        `json:"runs"`
	Scores   []PipelineScore `json:"scores"`
	Overlap  []OverlapRow    `json:"overlap"`
	Taxonomy []DiffRow       `json:"taxonomy_diff"`
	Radar    Radar           `json:"radar"`
}

// OverlapRow counts the classifications of one matched category per run.
type OverlapRow struct {
	Category string `json:"category"`
	Counts   []int  `json:"counts"`
	Total    int    `json:"total"`
}

// DiffRow lists which runs define a category name.
type DiffRow struct {
	Category    string   `json:"category"`
	PresentIn   []string `json:"present_in"`
	MissingFrom []string `json:"missing_from"`
}

// Shared reports whether every run defines the category.
func (d DiffRow) Shared() bool { return len(d.MissingFrom) == 0 }

// Radar holds normalized metrics where higher is better on every axis.
type Radar struct {
	Axes []string   `json:"axes"`
	Rows []RadarRow `json:"rows"`
}

// RadarRow is one run's values, aligned with Radar.Axes.
type RadarRow struct {
	Run    string    `json:"run"`
	Values []float64 `json:"values"`
}

// Compare aligns at least two runs by category name.
func Compare(runs []RunAnalysis) (Comparison, error) {
	if len(runs) < 2 {
		return Comparison{}, fmt.Errorf("%w: got %d", ErrTooFewRuns, len(runs))
	}
	seen := make(map[string]struct{}, len(runs))
	c := Comparison{
		Runs:   make([]string, len(runs)),
		Scores: make([]PipelineScore, len(runs)),
	}
	for i, r := range runs {
		if _, dup := seen[r.Name]; dup {
			return Comparison{}, fmt.Errorf("%w: %q", ErrDuplicateRun, r.Name)
		}
		seen[r.Name] = struct{}{}
		c.Runs[i] = r.Name
		c.Scores[i] = Score(r.Name, r.Analysis, r.Summary)
	}

	names := newNameIndex()
	for i, r := range runs {
		for _, cat := range r.Taxonomy.Categories {
			if strings.TrimSpace(cat.ID) == "" {
				continue
			}
			names.define(displayName(cat.Name, cat.ID), i)
		}
	}
	c.Taxonomy = taxonomyDiff(names, c.Runs)
	c.Overlap = overlap(runs, names)
	c.Radar = radar(c.Scores)
	return c, nil
}

func displayName(name, id string) string {
	if n := strings.TrimSpace(name); n != "" {
		return n
	}
	return strings.TrimSpace(id)
}

// nameIndex maps name keys to the first display name seen and the runs
// defining it.
type nameIndex struct {
	display map[string]string
	runs    map[string]map[int]struct{}
	order   []string
}

func newNameIndex() *nameIndex {
	return &nameIndex{display: make(map[string]string), runs: make(map[string]map[int]struct{})}
}

func (n *nameIndex) define(name string, run int) string {
	key := NameKey(name)
	if _, ok := n.display[key]; !ok {
		n.display[key] = name
		n.runs[key] = make(map[int]struct{})
		n.order = append(n.order, key)
	}
	n.runs[key][run] = struct{}{}
	return key
}

func taxonomyDiff(names *nameIndex, runs []string) []DiffRow {
	rows := make([]DiffRow, 0, len(names.order))
	for _, key := range names.order {
		row := DiffRow{Category: names.display[key], PresentIn: []string{}, MissingFrom: []string{}}
		for i, run := range runs {
			if _, ok := names.runs[key][i]; ok {
				row.PresentIn = append(row.PresentIn, run)
			} else {
				row.MissingFrom = append(row.MissingFrom, run)
			}
		}
		rows = append(rows, row)
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Category < rows[j].Category })
	return rows
}

// overlap counts valid classifications per category name and run. Only names
// defined by more than one run are matched.
func overlap(runs []RunAnalysis, names *nameIndex) []OverlapRow {
	counts := make(map[string][]int)
	for i, r := range runs {
		ids := make(map[string]string, len(r.Taxonomy.Categories))
		for _, cat := range r.Taxonomy.Categories {
			ids[strings.TrimSpace(cat.ID)] = NameKey(displayName(cat.Name, cat.ID))
		}
		for _, b := range r.Analysis.Distribution {
			key, ok := ids[b.Category]
			if !b.Valid || !ok {
				continue
			}
			if counts[key] == nil {
				counts[key] = make([]int, len(runs))
			}
			counts[key][i] += b.Count
		}
	}

	var rows []OverlapRow
	for _, key := range names.order {
		if len(names.runs[key]) < 2 {
			continue
		}
		row := OverlapRow{Category: names.display[key], Counts: counts[key]}
		if row.Counts == nil {
			row.Counts = make([]int, len(runs))
		}
		for _, n := range row.Counts {
			row.Total += n
		}
		rows = append(rows, row)
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Total != rows[j].Total {
			return rows[i].Total > rows[j].Total
		}
		return rows[i].Category < rows[j].Category
	})
	if rows == nil {
		rows = []OverlapRow{}
	}
	return rows
}

func radar(scores []PipelineScore) Radar {
	maxCategories, maxDiscovery := 0, 0
	for _, s := range scores {
		maxCategories = max(maxCategories, s.CategoriesDiscovered)
		maxDiscovery = max(maxDiscovery, s.CandidateCategories)
	}
	r := Radar{
		Axes: []string{AxisSuccess, AxisFormatConsistency, AxisCategoryRichness, AxisDiscovery, AxisMalformed, AxisBias},
		Rows: make([]RadarRow, len(scores)),
	}
	for i, s := range scores {
		r.Rows[i] = RadarRow{Run: s.Run, Values: []float64{
			numeric.Round1(s.SuccessRate),
			numeric.Round1(s.FormatConsistency),
			scaled(s.CategoriesDiscovered, maxCategories),
			scaled(s.CandidateCategories, maxDiscovery),
			inverted(s.MalformedRate, MalformedCeiling),
			inverted(s.BiasScore, BiasCeiling),
		}}
	}
	return r
}

func scaled(v, maximum int) float64 {
	if maximum <= 0 {
		return 0
	}
	return numeric.Round1(float64(v) / float64(maximum) * 100)
}

func inverted(v, ceiling float64) float64 {
	return numeric.Round1(min(max(ceiling-v, 0), ceiling))
}
