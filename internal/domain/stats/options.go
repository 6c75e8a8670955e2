package stats

// Default aggregation sizes.
const (
	defaultTopTitles     = 15
	defaultTopPairs      = 10
	defaultSampleSize    = 5
	defaultPreviewLength = 110
)

// Ellipsis marks a truncated message preview.
const Ellipsis = "..."

type options struct {
	topTitles     int
	topPairs      int
	sampleSize    int
	previewLength int
}

// Option applies a configuration option to Aggregate.
type Option func(*options)

// WithTopTitles sets the length of the per-role top title lists.
func WithTopTitles(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.topTitles = n
		}
	}
}

// WithTopPairs sets the length of the top interaction pair list.
func WithTopPairs(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.topPairs = n
		}
	}
}

// WithSampleSize sets how many shortest and longest messages are kept.
func WithSampleSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.sampleSize = n
		}
	}
}

// WithPreviewLength sets the rune limit for longest-message previews.
func WithPreviewLength(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.previewLength = n
		}
	}
}

func applyOptions(opts []Option) options {
	o := options{
		topTitles:     defaultTopTitles,
		topPairs:      defaultTopPairs,
		sampleSize:    defaultSampleSize,
		previewLength: defaultPreviewLength,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
