package views

import (
	"github.com/okian/kudos/internal/domain/stats"
	"github.com/okian/kudos/internal/domain/titles"
)

// Network is a directed title graph: nominator -> recipient.
type Network struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Node is one job title. Given and Received come from the full frequency
// tables, not just the top lists.
type Node struct {
	ID         string `json:"id"`
	Department string `json:"department"`
	Seniority  string `json:"seniority,omitempty"`
	Given      int    `json:"given"`
	Received   int    `json:"received"`
	Total      int    `json:"total"`
}

// Edge is a top interaction pair.
type Edge struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Weight int    `json:"weight"`
	Self   bool   `json:"self,omitempty"`
}

// BuildNetwork turns the top title lists and top pairs into nodes and edges.
// Pair endpoints missing from the top lists are added so every edge resolves.
func BuildNetwork(rep stats.Report) Network {
	given := rep.NominatorTitles.Lookup()
	received := rep.RecipientTitles.Lookup()

	var net Network
	seen := make(map[string]bool)
	add := func(title string) {
		if title == "" || seen[title] {
			return
		}
		seen[title] = true
		n := Node{
			ID:         title,
			Department: titles.Department(title),
			Given:      given[title],
			Received:   received[title],
		}
		if level, ok := titles.Seniority(title); ok {
			n.Seniority = titles.LadderLevel(level)
		}
		n.Total = n.Given + n.Received
		net.Nodes = append(net.Nodes, n)
	}

	for _, e := range rep.TopRecipientTitles {
		add(e.Value)
	}
	for _, e := range rep.TopNominatorTitles {
		add(e.Value)
	}
	for _, p := range rep.Interactions.TopPairs {
		add(p.Nominator)
		add(p.Recipient)
		net.Edges = append(net.Edges, Edge{
			Source: p.Nominator,
			Target: p.Recipient,
			Weight: p.Count,
			Self:   p.IsSelf(),
		})
	}
	return net
}
