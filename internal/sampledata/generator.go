// Package sampledata produces synthetic award exports and classification runs
// for local testing of the analytics engine.
package sampledata

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strconv"

	"github.com/google/uuid"

	"github.com/okian/kudos/internal/domain/quality"
	"github.com/okian/kudos/internal/domain/record"
	"github.com/okian/kudos/pkg/logger"
)

// Defaults used when no option overrides them.
const (
	DefaultRecords       = 500
	DefaultBatchSize     = 50
	DefaultBlankRate     = 0.02
	DefaultMalformedRate = 0.1
	DefaultSeed          = 42

	subcategoriesPerCategory = 3
	nullTitleRate            = 0.05
	newCategoryRate          = 0.03
	maxThemes                = 3
)

var (
	departments = []string{"Engineering", "Sales", "Marketing", "Finance", "Operations", "Customer Success", "People"}
	seniorities = []string{"", "Senior", "Lead", "Principal", "Associate"}
	roles       = []string{"Engineer", "Manager", "Analyst", "Specialist", "Director", "Coordinator"}
	awards      = []string{"Team Player", "Above and Beyond", "Customer Hero", "Innovator", "Mentor of the Month"}
	phrases     = []string{
		"Thanks for jumping in on the release",
		"Great work closing the quarter",
		"You made onboarding painless for the new hires",
		"Huge help with the customer escalation",
		"Really appreciate the late night debugging",
		"Your documentation saved us hours",
	}
	themes     = []string{"teamwork", "ownership", "customer focus", "mentorship", "innovation", "reliability"}
	candidates = []string{"Cross-team Support", "Process Improvement", "Wellbeing"}
	categories = []struct{ id, name string }{
		{"A", "Collaboration"},
		{"B", "Delivery"},
		{"C", "Customer Impact"},
		{"D", "Growth"},
		{"E", "Leadership"},
	}

	messageNamespace = uuid.MustParse("6f1c3a4e-2b8d-4c5e-9a7f-0d3b2e1c4a5f")
)

// Dataset is one generated award export with a matching classification run.
type Dataset struct {
	Awards          []record.Record
	Taxonomy        quality.Taxonomy
	Classifications quality.ClassificationSet
	Summary         quality.RunSummary
}

// Generator builds Datasets from a seeded random source.
type Generator struct {
	records       int
	seed          uint64
	blankRate     float64
	malformedRate float64
	batchSize     int
}

// New returns a Generator with defaults applied before opts.
func New(opts ...Option) *Generator {
	g := &Generator{
		records:       DefaultRecords,
		seed:          DefaultSeed,
		blankRate:     DefaultBlankRate,
		malformedRate: DefaultMalformedRate,
		batchSize:     DefaultBatchSize,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate produces a Dataset. The same options always yield the same Dataset.
func (g *Generator) Generate(ctx context.Context) (Dataset, error) {
	rng := rand.New(rand.NewPCG(g.seed, g.seed^0x9e3779b97f4a7c15))
	tax := buildTaxonomy()

	ds := Dataset{
		Awards:   make([]record.Record, 0, g.records),
		Taxonomy: tax,
		Classifications: quality.ClassificationSet{
			Metadata:            quality.Metadata{BatchSize: g.batchSize},
			CandidateCategories: map[string]int{},
		},
	}

	classified := 0
	for i := range g.records {
		if i%g.batchSize == 0 {
			if err := ctx.Err(); err != nil {
				return Dataset{}, fmt.Errorf("generate: %w", err)
			}
		}
		if rng.Float64() < g.blankRate {
			ds.Awards = append(ds.Awards, record.Record{})
			continue
		}
		rec := record.Record{
			Message:        pick(rng, phrases),
			AwardTitle:     pick(rng, awards),
			RecipientTitle: g.title(rng),
			NominatorTitle: g.title(rng),
		}
		ds.Awards = append(ds.Awards, rec)

		c := g.classify(rng, tax, classified)
		if c.NewCategory != "" {
			ds.Classifications.CandidateCategories[c.NewCategory]++
		}
		ds.Classifications.Classifications = append(ds.Classifications.Classifications, c)
		classified++
	}
	if len(ds.Classifications.CandidateCategories) == 0 {
		ds.Classifications.CandidateCategories = nil
	}

	ds.Classifications.Metadata.TotalMessages = classified
	ds.Classifications.Metadata.TotalClassified = classified

	cats, subs := len(tax.Categories), tax.SubcategoryCount()
	ds.Summary = quality.RunSummary{
		Pipeline: quality.PipelineTiming{TotalTimeSeconds: float64(classified) * (0.05 + rng.Float64()*0.05)},
		Results: quality.RunResults{
			CategoriesDiscovered:    &cats,
			SubcategoriesDiscovered: &subs,
		},
	}

	logger.Get().Info(ctx, "generated sample dataset",
		logger.Int("records", len(ds.Awards)),
		logger.Int("classified", classified),
		logger.Int("candidate_categories", len(ds.Classifications.CandidateCategories)))
	return ds, nil
}

func (g *Generator) title(rng *rand.Rand) string {
	if rng.Float64() < nullTitleRate {
		return ""
	}
	t := pick(rng, departments) + " " + pick(rng, roles)
	if s := pick(rng, seniorities); s != "" {
		t = s + " " + t
	}
	return t
}

func (g *Generator) classify(rng *rand.Rand, tax quality.Taxonomy, index int) quality.Classification {
	cat := tax.Categories[rng.IntN(len(tax.Categories))]
	sub := cat.Subcategories[rng.IntN(len(cat.Subcategories))].ID
	if rng.Float64() < g.malformedRate {
		sub = malform(rng, cat.ID, sub)
	}

	batch := index / g.batchSize
	c := quality.Classification{
		MessageID:   uuid.NewSHA1(messageNamespace, []byte(strconv.Itoa(index))).String(),
		Batch:       &batch,
		Category:    cat.ID,
		Subcategory: sub,
	}
	for range rng.IntN(maxThemes + 1) {
		c.Themes = append(c.Themes, pick(rng, themes))
	}
	if rng.Float64() < newCategoryRate {
		c.NewCategory = pick(rng, candidates)
	}
	return c
}

// malform rewrites a canonical "A1.2" subcategory into one of the
// non-canonical shapes pipelines tend to emit.
func malform(rng *rand.Rand, category, sub string) string {
	switch rng.IntN(4) {
	case 0:
		return category
	case 1:
		return category + sub[len(category):len(category)+1]
	case 2:
		return "null"
	default:
		return "sub-" + sub
	}
}

func buildTaxonomy() quality.Taxonomy {
	t := quality.Taxonomy{Categories: make([]quality.Category, len(categories))}
	for i, c := range categories {
		cat := quality.Category{ID: c.id, Name: c.name}
		for j := 1; j <= subcategoriesPerCategory; j++ {
			id := fmt.Sprintf("%s1.%d", c.id, j)
			cat.Subcategories = append(cat.Subcategories, quality.Subcategory{
				ID:   id,
				Name: fmt.Sprintf("%s %d", c.name, j),
			})
		}
		t.Categories[i] = cat
	}
	return t
}

func pick(rng *rand.Rand, from []string) string {
	return from[rng.IntN(len(from))]
}
