// Package population estimates how many distinct people sit behind the
// observed job titles, using a two-sample capture-recapture model.
package population

import "math"

// z95 is the two-sided 95% normal quantile.
const z95 = 1.96

// Chapman is the bias-corrected Lincoln-Petersen estimate for two samples of
// sizes n1 and n2 with m individuals seen in both.
type Chapman struct {
	N1 int `json:"n1"`
	N2 int `json:"n2"`
	M  int `json:"m"`

	// PointEstimate is never below max(n1, n2).
	PointEstimate int     `json:"point_estimate"`
	StandardError int     `json:"standard_error"`
	Lower         int     `json:"ci_lower"`
	Upper         int     `json:"ci_upper"`
	raw           float64 // unrounded, clamped point estimate
}

// Raw returns the unrounded point estimate.
func (c Chapman) Raw() float64 { return c.raw }

// NewChapman computes the estimate. Negative inputs are treated as 0 and m is
// clamped to [0, min(n1, n2)].
func NewChapman(n1, n2, m int) Chapman {
	n1, n2 = max(n1, 0), max(n2, 0)
	m = min(max(m, 0), min(n1, n2))

	a, b, k := float64(n1), float64(n2), float64(m)
	estimate := (a+1)*(b+1)/(k+1) - 1
	variance := (a + 1) * (b + 1) * (a - k) * (b - k) / ((k + 1) * (k + 1) * (k + 2))
	se := math.Sqrt(math.Max(variance, 0))

	floor := float64(max(n1, n2))
	estimate = math.Max(estimate, floor)
	lower := math.Max(estimate-z95*se, floor)
	upper := estimate + z95*se

	return Chapman{
		N1:            n1,
		N2:            n2,
		M:             m,
		PointEstimate: int(math.Round(estimate)),
		StandardError: int(math.Round(se)),
		Lower:         int(math.Round(lower)),
		Upper:         int(math.Round(upper)),
		raw:           estimate,
	}
}
