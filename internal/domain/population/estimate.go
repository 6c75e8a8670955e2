package population

import (
	"fmt"
	"math"

	"github.com/okian/kudos/internal/domain/numeric"
	"github.com/okian/kudos/internal/domain/stats"
)

// DefaultMultipliers are the "people per title" sensitivity scenarios.
var DefaultMultipliers = []float64{1.0, 1.25, 1.5, 2.0, 2.5}

// Assumptions behind the capture-recapture reading of the data.
var Assumptions = []string{
	"Closed population: no one joins or leaves between the two samples.",
	"Equal catchability: every title is as likely to appear as recipient as it is as nominator.",
	"Independent samples: being nominated does not change the chance of nominating.",
	"Titles stand in for individuals; several people may share one title.",
	"The overlap m is approximated from the top-title intersection, so the interval understates uncertainty.",
}

// Estimate is the full population report.
type Estimate struct {
	Chapman

	SharedTopTitles int     `json:"shared_top_titles"`
	OverlapRatio    float64 `json:"overlap_ratio"`

	Sensitivity []Scenario   `json:"sensitivity"`
	Density     DensityCheck `json:"density"`
	Assumptions []string     `json:"assumptions"`
}

// Scenario rescales the title estimate to people.
type Scenario struct {
	Multiplier      float64 `json:"multiplier"`
	Label           string  `json:"label"`
	EstimatedPeople int     `json:"estimated_people"`
	AwardsPerPerson float64 `json:"awards_per_person"`
}

// DensityCheck compares observed unique pairs with every possible
// nominator x recipient pair.
type DensityCheck struct {
	UniquePairs   int     `json:"unique_pairs"`
	PossiblePairs int     `json:"possible_pairs"`
	Density       float64 `json:"density"`
	Percent       float64 `json:"percent"`
}

type options struct {
	multipliers []float64
}

// Option applies a configuration option to FromReport.
type Option func(*options)

// WithMultipliers replaces the sensitivity multipliers. Callers pass them in
// ascending order; non-positive values are dropped.
func WithMultipliers(ks []float64) Option {
	return func(o *options) {
		var keep []float64
		for _, k := range ks {
			if k > 0 {
				keep = append(keep, k)
			}
		}
		if len(keep) > 0 {
			o.multipliers = keep
		}
	}
}

// FromReport derives n1, n2 and m from the aggregator output and runs the
// estimator. n1 is the unique recipient-title count, n2 the unique
// nominator-title count.
func FromReport(rep stats.Report, opts ...Option) Estimate {
	o := options{multipliers: DefaultMultipliers}
	for _, opt := range opts {
		opt(&o)
	}

	n1, n2 := rep.UniqueRecipientTitles, rep.UniqueNominatorTitles
	shared, ratio := topOverlap(rep)
	m := Overlap(n1, n2, ratio)

	est := Estimate{
		Chapman:         NewChapman(n1, n2, m),
		SharedTopTitles: shared,
		OverlapRatio:    numeric.RoundTo(ratio, 4),
		Assumptions:     append([]string(nil), Assumptions...),
	}
	est.Sensitivity = Sensitivity(est.Raw(), rep.TotalRecords, o.multipliers)
	est.Density = Density(rep.Interactions.UniquePairs, n1, n2)
	return est
}

// Overlap scales the top-list overlap ratio to the smaller unique count and
// floors it at 1. Empty samples yield 0.
func Overlap(n1, n2 int, ratio float64) int {
	small := min(n1, n2)
	if small <= 0 {
		return 0
	}
	m := int(math.Round(ratio * float64(small)))
	return min(max(m, 1), small)
}

func topOverlap(rep stats.Report) (shared int, ratio float64) {
	nominators := make(map[string]bool, len(rep.TopNominatorTitles))
	for _, e := range rep.TopNominatorTitles {
		nominators[e.Value] = true
	}
	for _, e := range rep.TopRecipientTitles {
		if nominators[e.Value] {
			shared++
		}
	}
	size := min(len(rep.TopRecipientTitles), len(rep.TopNominatorTitles))
	if size == 0 {
		return shared, 0
	}
	return shared, float64(shared) / float64(size)
}

// Sensitivity rescales estimate by each multiplier. Results are
// non-decreasing in the multiplier.
func Sensitivity(estimate float64, totalAwards int, multipliers []float64) []Scenario {
	out := make([]Scenario, 0, len(multipliers))
	for _, k := range multipliers {
		people := int(math.Round(estimate * k))
		s := Scenario{
			Multiplier:      k,
			Label:           fmt.Sprintf("%g people per title", k),
			EstimatedPeople: people,
		}
		if people > 0 {
			s.AwardsPerPerson = numeric.Round1(float64(totalAwards) / float64(people))
		}
		out = append(out, s)
	}
	return out
}

// Density computes uniquePairs / (n1 * n2), skipped when either side is 0.
func Density(uniquePairs, n1, n2 int) DensityCheck {
	d := DensityCheck{UniquePairs: uniquePairs, PossiblePairs: n1 * n2}
	if d.PossiblePairs <= 0 {
		return d
	}
	ratio := float64(uniquePairs) / float64(d.PossiblePairs)
	d.Density = numeric.RoundTo(ratio, 4)
	d.Percent = numeric.Round1(ratio * 100)
	return d
}
