package semantic

import (
	"strings"
	"unicode/utf8"
)

// MinQueryLength is the trimmed query length at which semantic ranking kicks in.
const MinQueryLength = 3

// Result is a single hit from the semantic search service.
type Result struct {
	ClientID string   `json:"clientId"`
	Score    float64  `json:"score"`
	Reasons  []string `json:"reasons,omitempty"`
}

// Match is a Result annotated with its position in the upstream result list.
// Index only breaks score ties.
type Match struct {
	Score   float64  `json:"score"`
	Index   int      `json:"index"`
	Reasons []string `json:"reasons,omitempty"`
}

// Index maps client ids to their semantic match.
type Index map[string]Match

// NewIndex builds an Index from results in upstream order. Results without a client id
// are dropped; when an id repeats, the first occurrence is kept.
func NewIndex(results []Result) Index {
	idx := make(Index, len(results))
	for i, r := range results {
		if strings.TrimSpace(r.ClientID) == "" {
			continue
		}
		if _, seen := idx[r.ClientID]; seen {
			continue
		}
		idx[r.ClientID] = Match{Score: r.Score, Index: i, Reasons: r.Reasons}
	}
	return idx
}

// Lookup returns the match for a client.
func (idx Index) Lookup(clientID string) (Match, bool) {
	m, ok := idx[clientID]
	return m, ok
}

// Active reports whether a query with this index should rank semantically.
func (idx Index) Active(query string, minQueryLength int) bool {
	if minQueryLength <= 0 {
		minQueryLength = MinQueryLength
	}
	return utf8.RuneCountInString(strings.TrimSpace(query)) >= minQueryLength && len(idx) > 0
}
