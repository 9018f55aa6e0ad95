package retrieval

import (
	"sort"

	"github.com/fyrsmithlabs/smed/internal/domain"
	"github.com/fyrsmithlabs/smed/internal/vectorstore"
)

// Bundle pairs a domain with its ordered evidence passages.
//
// Passages are ordered by non-increasing similarity; ties are broken by
// document recency when an upload_date is present, else by stable insertion
// order. A bundle is built once during retrieval and treated as immutable
// afterwards.
type Bundle struct {
	// Domain is the consulted domain. Every passage carries this tag.
	Domain domain.Domain

	// Passages is the evidence, most relevant first. Empty is valid and
	// means "no evidence", not failure.
	Passages []vectorstore.Passage

	// Unavailable is true when this domain was attempted but its retrieval
	// failed. The bundle is then empty and the failure was absorbed.
	Unavailable bool
}

// Empty reports whether the bundle carries no evidence.
func (b Bundle) Empty() bool {
	return len(b.Passages) == 0
}

// TopSimilarity returns the best passage score, or 0 for an empty bundle.
func (b Bundle) TopSimilarity() float32 {
	if len(b.Passages) == 0 {
		return 0
	}
	return b.Passages[0].Similarity
}

// DocumentIDs returns the distinct source document IDs, in passage order.
func (b Bundle) DocumentIDs() []string {
	seen := make(map[string]bool, len(b.Passages))
	out := make([]string, 0, len(b.Passages))
	for _, p := range b.Passages {
		if p.DocumentID == "" || seen[p.DocumentID] {
			continue
		}
		seen[p.DocumentID] = true
		out = append(out, p.DocumentID)
	}
	return out
}

// sortPassages orders passages by descending similarity, breaking ties by
// upload_date recency when present.
func sortPassages(passages []vectorstore.Passage) {
	sort.SliceStable(passages, func(i, j int) bool {
		if passages[i].Similarity != passages[j].Similarity {
			return passages[i].Similarity > passages[j].Similarity
		}
		return passages[i].Metadata["upload_date"] > passages[j].Metadata["upload_date"]
	})
}
