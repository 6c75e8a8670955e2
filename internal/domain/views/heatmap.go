package views

import (
	"sort"

	"github.com/okian/kudos/internal/domain/stats"
	"github.com/okian/kudos/internal/domain/titles"
)

// Heatmap is a department x department matrix. Cells[i][j] sums the
// interaction counts of pairs whose nominator falls in Departments[i] and
// whose recipient falls in Departments[j].
type Heatmap struct {
	Departments []string `json:"departments"`
	Cells       [][]int  `json:"cells"`
}

// DepartmentHeatmap builds the matrix over the departments observed among the
// given pairs' endpoints, sorted by name.
func DepartmentHeatmap(pairs []stats.Pair) Heatmap {
	seen := make(map[string]bool)
	for _, p := range pairs {
		seen[titles.Department(p.Nominator)] = true
		seen[titles.Department(p.Recipient)] = true
	}
	depts := make([]string, 0, len(seen))
	for d := range seen {
		depts = append(depts, d)
	}
	sort.Strings(depts)

	pos := make(map[string]int, len(depts))
	for i, d := range depts {
		pos[d] = i
	}
	cells := make([][]int, len(depts))
	for i := range cells {
		cells[i] = make([]int, len(depts))
	}
	for _, p := range pairs {
		i := pos[titles.Department(p.Nominator)]
		j := pos[titles.Department(p.Recipient)]
		cells[i][j] += p.Count
	}
	return Heatmap{Departments: depts, Cells: cells}
}

// Cell returns the summed count for a nominator and recipient department, or
// 0 when either is absent.
func (h Heatmap) Cell(nominatorDept, recipientDept string) int {
	i, j := -1, -1
	for k, d := range h.Departments {
		if d == nominatorDept {
			i = k
		}
		if d == recipientDept {
			j = k
		}
	}
	if i < 0 || j < 0 {
		return 0
	}
	return h.Cells[i][j]
}
