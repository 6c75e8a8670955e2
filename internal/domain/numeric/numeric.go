// Package numeric holds the small numeric helpers shared by the report
// builders: moments, interpolated percentiles and fixed-precision rounding.
package numeric

import (
	"math"
	"sort"
)

// tenthsOfPercent is the number of one-decimal units in 100%.
const tenthsOfPercent = 1000

// Mean returns the arithmetic mean of values, or 0 for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// StdDev returns the population standard deviation (divide by n).
func StdDev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	mean := Mean(values)
	var ss float64
	for _, v := range values {
		d := v - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(values)))
}

// Percentile returns the p-th percentile of an ascending slice using linear
// interpolation between the order statistics at floor and ceil of
// p/100*(n-1). p is clamped to [0, 100].
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	p = math.Max(0, math.Min(100, p))
	rank := p / 100 * float64(n-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}
	return sorted[lo] + (sorted[hi]-sorted[lo])*(rank-float64(lo))
}

// Sorted returns an ascending copy of values.
func Sorted(values []float64) []float64 {
	out := make([]float64, len(values))
	copy(out, values)
	sort.Float64s(out)
	return out
}

// RoundTo rounds v to the given number of decimal places.
func RoundTo(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}

// Round1 rounds v to one decimal place.
func Round1(v float64) float64 { return RoundTo(v, 1) }

// RoundInt rounds v to the nearest integer.
func RoundInt(v float64) int { return int(math.Round(v)) }

// Percent returns part/whole as a one-decimal percentage, 0 when whole is 0.
func Percent(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return Round1(float64(part) / float64(whole) * 100)
}

// SharePercents converts counts into one-decimal percentages of their sum
// using largest-remainder rounding, so the result always adds up to exactly
// 100.0 when the sum is positive. Ties in the remainder go to the earlier
// index.
func SharePercents(counts []int) []float64 {
	out := make([]float64, len(counts))
	total := 0
	for _, c := range counts {
		total += c
	}
	if total <= 0 {
		return out
	}

	units := make([]int, len(counts))
	type remainder struct {
		idx  int
		frac float64
	}
	rems := make([]remainder, len(counts))
	assigned := 0
	for i, c := range counts {
		exact := float64(c) * tenthsOfPercent / float64(total)
		units[i] = int(math.Floor(exact))
		assigned += units[i]
		rems[i] = remainder{idx: i, frac: exact - float64(units[i])}
	}
	sort.SliceStable(rems, func(a, b int) bool { return rems[a].frac > rems[b].frac })
	for i := 0; assigned < tenthsOfPercent && i < len(rems); i++ {
		units[rems[i].idx]++
		assigned++
	}
	for i, u := range units {
		out[i] = float64(u) / 10
	}
	return out
}
