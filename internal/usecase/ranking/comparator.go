package ranking

import (
	"cmp"

	"github.com/kailas-cloud/clientrank/internal/domain/semantic"
)

// candidate is a client that passed the filters, with everything the comparator reads.
type candidate struct {
	item    RankedClient
	match   semantic.Match
	matched bool
}

// comparator orders candidates. Each level applies only while earlier levels tie:
// semantic relevance, recency, attention, then health score or AUM, then id.
type comparator struct {
	semanticMode bool
	recentOnly   bool
}

func (cp comparator) compare(a, b *candidate) int {
	if cp.semanticMode {
		if c := compareSemantic(a, b); c != 0 {
			return c
		}
	}
	if cp.recentOnly {
		// more recent first
		if c := cmp.Compare(b.item.AccessedAt, a.item.AccessedAt); c != 0 {
			return c
		}
	}
	if a.item.NeedsAttention != b.item.NeedsAttention {
		if a.item.NeedsAttention {
			return -1
		}
		return 1
	}
	if a.item.HealthScore != nil && b.item.HealthScore != nil {
		if c := cmp.Compare(*a.item.HealthScore, *b.item.HealthScore); c != 0 {
			return c
		}
	} else if c := cmp.Compare(b.item.AUMValue, a.item.AUMValue); c != 0 {
		return c
	}
	return cmp.Compare(a.item.ID, b.item.ID)
}

func compareSemantic(a, b *candidate) int {
	switch {
	case a.matched && !b.matched:
		return -1
	case !a.matched && b.matched:
		return 1
	case !a.matched:
		return 0
	}
	if c := cmp.Compare(b.match.Score, a.match.Score); c != 0 {
		return c
	}
	return cmp.Compare(a.match.Index, b.match.Index)
}
