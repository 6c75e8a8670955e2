package sampledata

// Option configures a Generator.
type Option func(*Generator)

// WithRecords sets how many award rows are generated.
func WithRecords(n int) Option {
	return func(g *Generator) {
		if n >= 0 {
			g.records = n
		}
	}
}

// WithSeed fixes the random source so output is reproducible.
func WithSeed(seed uint64) Option {
	return func(g *Generator) { g.seed = seed }
}

// WithBlankRate sets the fraction of award rows left entirely blank.
func WithBlankRate(rate float64) Option {
	return func(g *Generator) {
		if rate >= 0 && rate <= 1 {
			g.blankRate = rate
		}
	}
}

// WithMalformedRate sets the fraction of classifications whose subcategory
// is written in a non-canonical form.
func WithMalformedRate(rate float64) Option {
	return func(g *Generator) {
		if rate >= 0 && rate <= 1 {
			g.malformedRate = rate
		}
	}
}

// WithBatchSize sets the batch size reported in classification metadata.
func WithBatchSize(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.batchSize = n
		}
	}
}
