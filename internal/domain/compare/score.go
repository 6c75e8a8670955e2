package compare

import (
	"github.com/okian/kudos/internal/domain/quality"
)

// PipelineScore is the per-run scorecard.
type PipelineScore struct {
	Run                     string  `json:"run"`
	SuccessRate             float64 `json:"success_rate"`
	MalformedRate           float64 `json:"malformed_rate"`
	BiasScore               float64 `json:"bias_score"`
	FormatConsistency       float64 `json:"format_consistency"`
	CategoriesDiscovered    int     `json:"categories_discovered"`
	SubcategoriesDiscovered int     `json:"subcategories_discovered"`
	ElapsedSeconds          float64 `json:"elapsed_seconds"`
	CandidateCategories     int     `json:"candidate_categories"`
}

// Score builds the scorecard of one analyzed run. Discovery counts come from
// the run summary when it reports them, otherwise from the taxonomy size.
func Score(name string, a quality.Analysis, summary *quality.RunSummary) PipelineScore {
	s := PipelineScore{
		Run:                     name,
		SuccessRate:             a.SuccessRate,
		MalformedRate:           a.MalformedRate,
		BiasScore:               a.Bias.Score,
		FormatConsistency:       a.FormatConsistency,
		CategoriesDiscovered:    a.CategoriesDefined,
		SubcategoriesDiscovered: a.SubcategoriesDefined,
		CandidateCategories:     len(a.CandidateCategories),
	}
	if summary == nil {
		return s
	}
	s.ElapsedSeconds = summary.Pipeline.TotalTimeSeconds
	if n := summary.Results.CategoriesDiscovered; n != nil {
		s.CategoriesDiscovered = *n
	}
	if n := summary.Results.SubcategoriesDiscovered; n != nil {
		s.SubcategoriesDiscovered = *n
	}
	return s
}
