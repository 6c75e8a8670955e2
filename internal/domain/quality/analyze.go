package quality

import (
	"math"
	"slices"
	"sort"
	"strings"

	"github.com/okian/kudos/internal/domain/freq"
	"github.com/okian/kudos/internal/domain/numeric"
)

// EmptyCategory labels classifications whose category is blank.
const EmptyCategory = "(empty)"

const (
	defaultBatchSize = 50
	maxFormatSamples = 3
)

// Analysis is the quality report for one classification run.
type Analysis struct {
	Run                  string           `json:"run,omitempty"`
	TaxonomySource       string           `json:"taxonomy_source"`
	CategoriesDefined    int              `json:"categories_defined"`
	SubcategoriesDefined int              `json:"subcategories_defined"`
	TotalMessages        int              `json:"total_messages"`
	TotalClassified      int              `json:"total_classified"`
	Classifications      int              `json:"classifications"`
	SuccessRate          float64          `json:"success_rate"`
	Distribution         []CategoryBucket `json:"distribution"`
	ValidCount           int              `json:"valid_count"`
	MalformedCount       int              `json:"malformed_count"`
	MalformedRate        float64          `json:"malformed_rate"`
	SubcategoryFormats   []FormatBucket   `json:"subcategory_formats"`
	FormatConsistency    float64          `json:"format_consistency"`
	Batches              BatchCoverage    `json:"batches"`
	Themes               freq.Ranking     `json:"themes"`
	CandidateCategories  freq.Ranking     `json:"candidate_categories"`
	Bias                 Bias             `json:"bias"`
	Warnings             []string         `json:"warnings,omitempty"`
}

// CategoryBucket counts one distinct category value.
type CategoryBucket struct {
	Category string  `json:"category"`
	Name     string  `json:"name,omitempty"`
	Count    int     `json:"count"`
	Percent  float64 `json:"percent"`
	Valid    bool    `json:"valid"`
}

// FormatBucket counts subcategory values sharing one format.
type FormatBucket struct {
	Format   string   `json:"format"`
	Count    int      `json:"count"`
	Percent  float64  `json:"percent"`
	Examples []string `json:"examples"`
}

// BatchCoverage compares observed batch indexes with the expected range.
type BatchCoverage struct {
	BatchSize  int   `json:"batch_size"`
	Expected   int   `json:"expected"`
	Observed   int   `json:"observed"`
	Missing    []int `json:"missing"`
	OutOfRange []int `json:"out_of_range,omitempty"`
}

// Bias describes the most over-represented valid category.
type Bias struct {
	Category string  `json:"category"`
	Name     string  `json:"name,omitempty"`
	Count    int     `json:"count"`
	Expected float64 `json:"expected"`
	Score    float64 `json:"score"`
}

type options struct {
	run       string
	batchSize int
}

// Option applies a configuration option to Analyze.
type Option func(*options)

// WithRun names the run in the analysis and its warnings.
func WithRun(name string) Option {
	return func(o *options) { o.run = name }
}

// WithDefaultBatchSize sets the batch size assumed when the metadata
// declares none.
func WithDefaultBatchSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.batchSize = n
		}
	}
}

// Analyze scores set against taxonomy. A nil taxonomy selects the default
// one. Individual malformed classifications never fail the analysis; they
// are counted.
func Analyze(taxonomy *Taxonomy, set ClassificationSet, opts ...Option) Analysis {
	o := options{batchSize: defaultBatchSize}
	for _, opt := range opts {
		opt(&o)
	}

	tax, source, err := ResolveTaxonomy(o.run, taxonomy)
	v := NewValidator(tax)

	a := Analysis{
		Run:                  o.run,
		TaxonomySource:       source,
		CategoriesDefined:    len(v.order),
		SubcategoriesDefined: tax.SubcategoryCount(),
		Classifications:      len(set.Classifications),
	}
	if err != nil {
		a.Warnings = append(a.Warnings, err.Error())
	}

	a.TotalClassified = set.Metadata.TotalClassified
	if a.TotalClassified <= 0 {
		a.TotalClassified = a.Classifications
	}
	a.TotalMessages = set.Metadata.TotalMessages
	if a.TotalMessages <= 0 {
		a.TotalMessages = a.TotalClassified
	}
	a.SuccessRate = numeric.Percent(a.TotalClassified, a.TotalMessages)

	a.Distribution, a.ValidCount = distribution(v, set.Classifications)
	a.MalformedCount = a.Classifications - a.ValidCount
	a.MalformedRate = numeric.Percent(a.MalformedCount, a.Classifications)

	a.SubcategoryFormats = subcategoryFormats(v, set.Classifications)
	for _, b := range a.SubcategoryFormats {
		if b.Format == FormatCorrect {
			a.FormatConsistency = numeric.Percent(b.Count, a.Classifications)
		}
	}

	batchSize := set.Metadata.BatchSize
	if batchSize <= 0 {
		batchSize = o.batchSize
	}
	a.Batches = batchCoverage(set.Classifications, a.TotalMessages, batchSize)
	a.Themes = themes(set.Classifications)
	a.CandidateCategories = candidates(set)
	a.Bias = bias(v, a.Distribution, a.Classifications)
	return a
}

// NormalizeTheme lower-cases a theme and replaces underscores with spaces.
func NormalizeTheme(theme string) string {
	theme = strings.ReplaceAll(strings.ToLower(theme), "_", " ")
	return strings.Join(strings.Fields(theme), " ")
}

func distribution(v *Validator, cs []Classification) ([]CategoryBucket, int) {
	table := freq.New()
	for _, c := range cs {
		cat := strings.TrimSpace(c.Category)
		if cat == "" {
			cat = EmptyCategory
		}
		table.Add(cat)
	}
	ranked := table.Ranked()
	counts := make([]int, len(ranked))
	for i, e := range ranked {
		counts[i] = e.Count
	}
	percents := numeric.SharePercents(counts)

	valid := 0
	out := make([]CategoryBucket, len(ranked))
	for i, e := range ranked {
		ok := e.Value != EmptyCategory && v.ValidCategory(e.Value)
		if ok {
			valid += e.Count
		}
		out[i] = CategoryBucket{
			Category: e.Value,
			Name:     v.CategoryName(e.Value),
			Count:    e.Count,
			Percent:  percents[i],
			Valid:    ok,
		}
	}
	return out, valid
}

func subcategoryFormats(v *Validator, cs []Classification) []FormatBucket {
	counts := make(map[string]int, len(Formats))
	examples := make(map[string][]string, len(Formats))
	for _, c := range cs {
		f := v.SubcategoryFormat(c.Category, c.Subcategory)
		counts[f]++
		sample := strings.TrimSpace(c.Subcategory)
		if len(examples[f]) < maxFormatSamples && !slices.Contains(examples[f], sample) {
			examples[f] = append(examples[f], sample)
		}
	}

	var present []string
	var values []int
	for _, f := range Formats {
		if counts[f] > 0 {
			present = append(present, f)
			values = append(values, counts[f])
		}
	}
	percents := numeric.SharePercents(values)
	out := make([]FormatBucket, len(present))
	for i, f := range present {
		out[i] = FormatBucket{Format: f, Count: counts[f], Percent: percents[i], Examples: examples[f]}
	}
	return out
}

func batchCoverage(cs []Classification, totalMessages, batchSize int) BatchCoverage {
	cov := BatchCoverage{BatchSize: batchSize, Missing: []int{}}
	if batchSize > 0 && totalMessages > 0 {
		cov.Expected = int(math.Ceil(float64(totalMessages) / float64(batchSize)))
	}
	seen := make(map[int]struct{})
	for _, c := range cs {
		if c.Batch != nil {
			seen[*c.Batch] = struct{}{}
		}
	}
	cov.Observed = len(seen)
	for i := 0; i < cov.Expected; i++ {
		if _, ok := seen[i]; !ok {
			cov.Missing = append(cov.Missing, i)
		}
	}
	for b := range seen {
		if b < 0 || b >= cov.Expected {
			cov.OutOfRange = append(cov.OutOfRange, b)
		}
	}
	sort.Ints(cov.OutOfRange)
	return cov
}

func themes(cs []Classification) freq.Ranking {
	table := freq.New()
	for _, c := range cs {
		for _, t := range c.Themes {
			if n := NormalizeTheme(t); n != "" {
				table.Add(n)
			}
		}
	}
	return table.Ranked()
}

// candidates prefers the declared candidate table and falls back to the
// per-classification proposals.
func candidates(set ClassificationSet) freq.Ranking {
	if len(set.CandidateCategories) > 0 {
		out := make(freq.Ranking, 0, len(set.CandidateCategories))
		for name, n := range set.CandidateCategories {
			if name = strings.TrimSpace(name); name != "" {
				out = append(out, freq.Entry{Value: name, Count: n})
			}
		}
		sort.Slice(out, func(i, j int) bool {
			if out[i].Count != out[j].Count {
				return out[i].Count > out[j].Count
			}
			return out[i].Value < out[j].Value
		})
		return out
	}
	table := freq.New()
	for _, c := range set.Classifications {
		if name := strings.TrimSpace(c.NewCategory); name != "" {
			table.Add(name)
		}
	}
	return table.Ranked()
}

func bias(v *Validator, dist []CategoryBucket, total int) Bias {
	ids := v.CategoryIDs()
	if total == 0 || len(ids) == 0 {
		return Bias{}
	}
	counts := make(map[string]int, len(dist))
	for _, b := range dist {
		if b.Valid {
			counts[b.Category] = b.Count
		}
	}
	var top string
	best := 0
	for _, id := range ids {
		if counts[id] > best {
			top, best = id, counts[id]
		}
	}
	if best == 0 {
		return Bias{}
	}
	expected := float64(total) / float64(len(ids))
	return Bias{
		Category: top,
		Name:     v.CategoryName(top),
		Count:    best,
		Expected: numeric.Round1(expected),
		Score:    numeric.Round1((float64(best)/expected - 1) * 100),
	}
}
