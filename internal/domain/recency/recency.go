package recency

import (
	"sort"
	"time"
)

// DefaultCapacity is the number of recently opened clients kept.
const DefaultCapacity = 50

// Snapshot maps client id to the epoch millis of its last access.
type Snapshot map[string]int64

// AccessedAt returns the last access time in millis, or 0 when the client is absent.
func (s Snapshot) AccessedAt(clientID string) int64 {
	return s[clientID]
}

// Contains reports whether the client was opened recently.
func (s Snapshot) Contains(clientID string) bool {
	_, ok := s[clientID]
	return ok
}

// Clone returns an independent copy.
func (s Snapshot) Clone() Snapshot {
	c := make(Snapshot, len(s))
	for k, v := range s {
		c[k] = v
	}
	return c
}

// Touch returns a copy with clientID stamped at now and pruned to capacity.
// Repeated touches of one id refresh its stamp without consuming extra capacity.
// The stamp is strictly newer than every existing entry, so touches landing in
// the same millisecond keep their order and the touched id survives the prune.
func (s Snapshot) Touch(clientID string, now time.Time, capacity int) Snapshot {
	stamp := now.UnixMilli()
	if newest := s.newest(); stamp <= newest {
		stamp = newest + 1
	}
	next := s.Clone()
	next[clientID] = stamp
	return next.Prune(capacity)
}

func (s Snapshot) newest() int64 {
	var n int64
	for _, at := range s {
		n = max(n, at)
	}
	return n
}

// Prune keeps the capacity most recent entries. Equal stamps are ordered by id so
// the survivors do not depend on map iteration order.
func (s Snapshot) Prune(capacity int) Snapshot {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if len(s) <= capacity {
		return s
	}

	type entry struct {
		id string
		at int64
	}
	entries := make([]entry, 0, len(s))
	for id, at := range s {
		entries = append(entries, entry{id: id, at: at})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].at != entries[j].at {
			return entries[i].at > entries[j].at
		}
		return entries[i].id < entries[j].id
	})

	kept := make(Snapshot, capacity)
	for _, e := range entries[:capacity] {
		kept[e.id] = e.at
	}
	return kept
}
