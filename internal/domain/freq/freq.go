// Package freq implements frequency tables ranked by count with stable,
// first-seen tie breaking.
package freq

import "sort"

// Entry is one distinct value and how often it occurred.
type Entry struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// Ranking is a frequency table ordered by count descending. Entries with equal
// counts keep the order in which their values were first seen.
type Ranking []Entry

// Count returns the count recorded for value, or 0.
func (r Ranking) Count(value string) int {
	for _, e := range r {
		if e.Value == value {
			return e.Count
		}
	}
	return 0
}

// Values returns the ranked values.
func (r Ranking) Values() []string {
	out := make([]string, len(r))
	for i, e := range r {
		out[i] = e.Value
	}
	return out
}

// Top returns at most n leading entries.
func (r Ranking) Top(n int) Ranking {
	if n < 0 || n >= len(r) {
		return r
	}
	return r[:n]
}

// Lookup indexes the ranking by value.
func (r Ranking) Lookup() map[string]int {
	m := make(map[string]int, len(r))
	for _, e := range r {
		m[e.Value] = e.Count
	}
	return m
}

// Table accumulates counts. The zero value is not usable; call New.
type Table struct {
	index   map[string]int
	entries []Entry
	total   int
}

// New returns an empty table.
func New() *Table {
	return &Table{index: make(map[string]int)}
}

// Add records one occurrence of value.
func (t *Table) Add(value string) { t.AddN(value, 1) }

// AddN records n occurrences of value. Non-positive n only registers the
// value's first-seen position.
func (t *Table) AddN(value string, n int) {
	i, ok := t.index[value]
	if !ok {
		i = len(t.entries)
		t.index[value] = i
		t.entries = append(t.entries, Entry{Value: value})
	}
	if n > 0 {
		t.entries[i].Count += n
		t.total += n
	}
}

// Count returns how often value was added.
func (t *Table) Count(value string) int {
	if i, ok := t.index[value]; ok {
		return t.entries[i].Count
	}
	return 0
}

// Has reports whether value was ever added.
func (t *Table) Has(value string) bool {
	_, ok := t.index[value]
	return ok
}

// Len returns the number of distinct values.
func (t *Table) Len() int { return len(t.entries) }

// Total returns the sum of all counts.
func (t *Table) Total() int { return t.total }

// Ranked returns the entries ordered by count descending, ties in first-seen
// order.
func (t *Table) Ranked() Ranking {
	out := make(Ranking, len(t.entries))
	copy(out, t.entries)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}
