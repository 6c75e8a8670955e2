package stats

import (
	"sort"

	"github.com/okian/kudos/internal/domain/record"
)

type pairKey struct {
	nominator string
	recipient string
}

// countInteractions builds the ordered-pair multiset. Self pairs are counted
// per record; reciprocal pairs once per unordered pair.
func countInteractions(records []record.Record, top int) Interactions {
	var out Interactions
	index := make(map[pairKey]int)
	pairs := make([]Pair, 0)

	for _, rec := range records {
		if !rec.HasInteraction() {
			continue
		}
		out.Total++
		if rec.NominatorTitle == rec.RecipientTitle {
			out.SelfRecognitionCount++
		}
		k := pairKey{nominator: rec.NominatorTitle, recipient: rec.RecipientTitle}
		i, ok := index[k]
		if !ok {
			i = len(pairs)
			index[k] = i
			pairs = append(pairs, Pair{Nominator: k.nominator, Recipient: k.recipient})
		}
		pairs[i].Count++
	}

	out.UniquePairs = len(pairs)
	for k := range index {
		if k.nominator == k.recipient {
			continue
		}
		// count each unordered pair from its lexically smaller side only
		if k.nominator < k.recipient {
			if _, ok := index[pairKey{nominator: k.recipient, recipient: k.nominator}]; ok {
				out.BidirectionalPairs++
			}
		}
	}

	sort.SliceStable(pairs, func(i, j int) bool { return pairs[i].Count > pairs[j].Count })
	out.Pairs = pairs
	if len(pairs) > top {
		out.TopPairs = pairs[:top]
	} else {
		out.TopPairs = pairs
	}
	return out
}
