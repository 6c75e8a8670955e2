// Package views reshapes aggregator output into chart-ready structures. It
// derives no new statistics; every number comes from a stats.Report.
package views

import (
	"sort"

	"github.com/okian/kudos/internal/domain/freq"
	"github.com/okian/kudos/internal/domain/numeric"
	"github.com/okian/kudos/internal/domain/stats"
	"github.com/okian/kudos/internal/domain/titles"
)

// Views bundles every derived shape.
type Views struct {
	Seniority   []SeniorityRow  `json:"seniority"`
	Departments []DepartmentRow `json:"departments"`
	Heatmap     Heatmap         `json:"heatmap"`
	Network     Network         `json:"network"`
	Bars        Bars            `json:"bars"`
}

// SeniorityRow compares awards received and given at one ladder level.
type SeniorityRow struct {
	Level    string `json:"level"`
	Received int    `json:"received"`
	Given    int    `json:"given"`
}

// DepartmentRow sums top-title activity per inferred department.
type DepartmentRow struct {
	Department string `json:"department"`
	Received   int    `json:"received"`
	Given      int    `json:"given"`
	Total      int    `json:"total"`
}

// Bars holds ranked bar rows per role.
type Bars struct {
	Awards     []BarRow `json:"awards"`
	Recipients []BarRow `json:"recipients"`
	Nominators []BarRow `json:"nominators"`
}

// BarRow is one ranked bar. Percent is the share of non-null values in the
// field, one decimal.
type BarRow struct {
	Rank    int     `json:"rank"`
	Label   string  `json:"label"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

// Build derives all views from rep.
func Build(rep stats.Report) Views {
	return Views{
		Seniority:   SeniorityTable(rep),
		Departments: DepartmentActivity(rep),
		Heatmap:     DepartmentHeatmap(rep.Interactions.TopPairs),
		Network:     BuildNetwork(rep),
		Bars: Bars{
			Awards:     barRows(rep.TopAwardTitles, rep.AwardTitles),
			Recipients: barRows(rep.TopRecipientTitles, rep.RecipientTitles),
			Nominators: barRows(rep.TopNominatorTitles, rep.NominatorTitles),
		},
	}
}

// SeniorityTable buckets the full recipient and nominator tables by ladder
// level. Titles without a seniority signal are skipped, as are levels with no
// activity.
func SeniorityTable(rep stats.Report) []SeniorityRow {
	received := make(map[string]int)
	given := make(map[string]int)
	for _, e := range rep.RecipientTitles {
		if level, ok := titles.Seniority(e.Value); ok {
			received[titles.LadderLevel(level)] += e.Count
		}
	}
	for _, e := range rep.NominatorTitles {
		if level, ok := titles.Seniority(e.Value); ok {
			given[titles.LadderLevel(level)] += e.Count
		}
	}

	rows := make([]SeniorityRow, 0, len(received)+len(given))
	for _, level := range titles.SeniorityLadder() {
		r, g := received[level], given[level]
		if r == 0 && g == 0 {
			continue
		}
		rows = append(rows, SeniorityRow{Level: level, Received: r, Given: g})
	}
	return rows
}

// DepartmentActivity classifies each top title and sums its frequency.
func DepartmentActivity(rep stats.Report) []DepartmentRow {
	byDept := make(map[string]*DepartmentRow)
	get := func(dept string) *DepartmentRow {
		row, ok := byDept[dept]
		if !ok {
			row = &DepartmentRow{Department: dept}
			byDept[dept] = row
		}
		return row
	}
	for _, e := range rep.TopRecipientTitles {
		get(titles.Department(e.Value)).Received += e.Count
	}
	for _, e := range rep.TopNominatorTitles {
		get(titles.Department(e.Value)).Given += e.Count
	}

	rows := make([]DepartmentRow, 0, len(byDept))
	for _, row := range byDept {
		row.Total = row.Received + row.Given
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Total != rows[j].Total {
			return rows[i].Total > rows[j].Total
		}
		return rows[i].Department < rows[j].Department
	})
	return rows
}

func barRows(top, full freq.Ranking) []BarRow {
	total := 0
	for _, e := range full {
		total += e.Count
	}
	rows := make([]BarRow, len(top))
	for i, e := range top {
		rows[i] = BarRow{
			Rank:    i + 1,
			Label:   e.Value,
			Count:   e.Count,
			Percent: numeric.Percent(e.Count, total),
		}
	}
	return rows
}
