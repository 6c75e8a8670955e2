package stats

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/okian/kudos/internal/domain/freq"
	"github.com/okian/kudos/internal/domain/numeric"
	"github.com/okian/kudos/internal/domain/record"
)

// Aggregate computes the descriptive report for records. It is a pure
// function of its inputs.
func Aggregate(records []record.Record, opts ...Option) Report {
	o := applyOptions(opts)

	rep := Report{TotalRecords: len(records)}

	awards, recipients, nominators := freq.New(), freq.New(), freq.New()
	var (
		lengths []float64
		words   []float64
		samples []MessageSample
	)
	for _, rec := range records {
		countNulls(&rep.NullCounts, rec)

		if rec.Message != "" {
			s := MessageSample{
				Text:   rec.Message,
				Length: utf8.RuneCountInString(rec.Message),
				Words:  len(strings.Fields(rec.Message)),
			}
			samples = append(samples, s)
			lengths = append(lengths, float64(s.Length))
			words = append(words, float64(s.Words))
		}
		if rec.AwardTitle != "" {
			awards.Add(rec.AwardTitle)
		}
		if rec.RecipientTitle != "" {
			recipients.Add(rec.RecipientTitle)
		}
		if rec.NominatorTitle != "" {
			nominators.Add(rec.NominatorTitle)
		}
	}

	rep.MessageLength = Describe(lengths)
	rep.WordCount = Describe(words)
	rep.ShortestMessages, rep.LongestMessages = pickSamples(samples, o.sampleSize, o.previewLength)

	rep.AwardTitles = awards.Ranked()
	rep.RecipientTitles = recipients.Ranked()
	rep.NominatorTitles = nominators.Ranked()
	rep.UniqueAwardTitles = awards.Len()
	rep.UniqueRecipientTitles = recipients.Len()
	rep.UniqueNominatorTitles = nominators.Len()
	rep.TopAwardTitles = rep.AwardTitles.Top(o.topTitles)
	rep.TopRecipientTitles = rep.RecipientTitles.Top(o.topTitles)
	rep.TopNominatorTitles = rep.NominatorTitles.Top(o.topTitles)

	rep.Interactions = countInteractions(records, o.topPairs)
	return rep
}

func countNulls(n *NullCounts, rec record.Record) {
	if rec.Message == "" {
		n.Message++
	}
	if rec.AwardTitle == "" {
		n.AwardTitle++
	}
	if rec.RecipientTitle == "" {
		n.RecipientTitle++
	}
	if rec.NominatorTitle == "" {
		n.NominatorTitle++
	}
}

// Describe summarizes values. Percentiles interpolate between order
// statistics at rank p/100*(n-1).
func Describe(values []float64) Distribution {
	if len(values) == 0 {
		return Distribution{}
	}
	sorted := numeric.Sorted(values)
	return Distribution{
		Count:  len(sorted),
		Mean:   numeric.Round1(numeric.Mean(sorted)),
		StdDev: numeric.Round1(numeric.StdDev(sorted)),
		Min:    sorted[0],
		Max:    sorted[len(sorted)-1],
		P5:     numeric.Round1(numeric.Percentile(sorted, 5)),
		P25:    numeric.Round1(numeric.Percentile(sorted, 25)),
		P50:    numeric.Round1(numeric.Percentile(sorted, 50)),
		P75:    numeric.Round1(numeric.Percentile(sorted, 75)),
		P95:    numeric.Round1(numeric.Percentile(sorted, 95)),
	}
}

// pickSamples returns the n shortest and n longest messages. Equal lengths
// keep input order.
func pickSamples(all []MessageSample, n, previewLength int) (shortest, longest []MessageSample) {
	asc := make([]MessageSample, len(all))
	copy(asc, all)
	sort.SliceStable(asc, func(i, j int) bool { return asc[i].Length < asc[j].Length })

	desc := make([]MessageSample, len(all))
	copy(desc, all)
	sort.SliceStable(desc, func(i, j int) bool { return desc[i].Length > desc[j].Length })

	if len(asc) > n {
		asc = asc[:n]
	}
	if len(desc) > n {
		desc = desc[:n]
	}
	for i := range desc {
		desc[i] = preview(desc[i], previewLength)
	}
	return asc, desc
}

func preview(s MessageSample, limit int) MessageSample {
	if s.Length <= limit {
		return s
	}
	runes := []rune(s.Text)
	s.Text = string(runes[:limit]) + Ellipsis
	s.Truncated = true
	return s
}
