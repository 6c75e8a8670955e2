// Package stats computes corpus-level descriptive statistics over award
// records: null counts, message length distributions, title frequency tables
// and the nominator -> recipient interaction multiset.
package stats

import "github.com/okian/kudos/internal/domain/freq"

// Report is the aggregator output consumed by the view builder and the
// population estimator.
type Report struct {
	TotalRecords int        `json:"total_records"`
	NullCounts   NullCounts `json:"null_counts"`

	MessageLength    Distribution    `json:"message_length"`
	WordCount        Distribution    `json:"word_count"`
	ShortestMessages []MessageSample `json:"shortest_messages"`
	LongestMessages  []MessageSample `json:"longest_messages"`

	AwardTitles     freq.Ranking `json:"award_titles"`
	RecipientTitles freq.Ranking `json:"recipient_titles"`
	NominatorTitles freq.Ranking `json:"nominator_titles"`

	UniqueAwardTitles     int `json:"unique_award_titles"`
	UniqueRecipientTitles int `json:"unique_recipient_titles"`
	UniqueNominatorTitles int `json:"unique_nominator_titles"`

	TopAwardTitles     freq.Ranking `json:"top_award_titles"`
	TopRecipientTitles freq.Ranking `json:"top_recipient_titles"`
	TopNominatorTitles freq.Ranking `json:"top_nominator_titles"`

	Interactions Interactions `json:"interactions"`
}

// NullCounts counts null (empty or whitespace-only) values per field.
type NullCounts struct {
	Message        int `json:"message"`
	AwardTitle     int `json:"award_title"`
	RecipientTitle int `json:"recipient_title"`
	NominatorTitle int `json:"nominator_title"`
}

// Distribution summarizes a numeric sample. Mean, StdDev and percentiles are
// rounded to one decimal.
type Distribution struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	P5     float64 `json:"p5"`
	P25    float64 `json:"p25"`
	P50    float64 `json:"p50"`
	P75    float64 `json:"p75"`
	P95    float64 `json:"p95"`
}

// MessageSample is a message picked for the shortest/longest lists.
type MessageSample struct {
	Text      string `json:"text"`
	Length    int    `json:"length"`
	Words     int    `json:"words"`
	Truncated bool   `json:"truncated,omitempty"`
}

// Pair is an ordered nominator -> recipient title pair with its count.
type Pair struct {
	Nominator string `json:"nominator"`
	Recipient string `json:"recipient"`
	Count     int    `json:"count"`
}

// IsSelf reports whether both ends carry the same title.
func (p Pair) IsSelf() bool { return p.Nominator == p.Recipient }

// Interactions describes the nominator -> recipient multiset.
type Interactions struct {
	// Total counts records that carry both titles.
	Total                int    `json:"total"`
	UniquePairs          int    `json:"unique_pairs"`
	BidirectionalPairs   int    `json:"bidirectional_pairs"`
	SelfRecognitionCount int    `json:"self_recognition_count"`
	Pairs                []Pair `json:"pairs"`
	TopPairs             []Pair `json:"top_pairs"`
}
