// Package aggregate counts tag occurrences across question records.
package aggregate

import (
	"sort"

	"github.com/okian/tagtrend/internal/domain/model"
	"github.com/okian/tagtrend/internal/domain/types"
)

// Tally accumulates tag counts for a single pass over the data.
// It is not safe for concurrent use; each request builds its own.
type Tally struct {
	counts map[string]int
	// first-encountered order, used to break count ties
	order []string
	rows  int
}

// NewTally creates an empty Tally.
func NewTally() *Tally {
	return &Tally{counts: make(map[string]int)}
}

// AddRecords counts every record of a batch as processed and tallies its tags.
func (t *Tally) AddRecords(batch []model.Record) {
	for _, rec := range batch {
		t.rows++
		t.Add(rec.TagList())
	}
}

// Add tallies one occurrence of each tag. Repeated tags count repeatedly.
func (t *Tally) Add(tags []string) {
	for _, tag := range tags {
		if _, seen := t.counts[tag]; !seen {
			t.order = append(t.order, tag)
		}
		t.counts[tag]++
	}
}

// Rows returns the number of records added.
func (t *Tally) Rows() int { return t.rows }

// Distinct returns the number of distinct tags seen.
func (t *Tally) Distinct() int { return len(t.order) }

// Count returns the occurrences of tag.
func (t *Tally) Count(tag string) (int, bool) {
	n, ok := t.counts[tag]
	return n, ok
}

// Ranked returns every tag ordered by count descending. Equal counts keep
// the order in which the tags were first seen.
func (t *Tally) Ranked() []types.TagCount {
	tags := make([]string, len(t.order))
	copy(tags, t.order)
	sort.SliceStable(tags, func(i, j int) bool {
		return t.counts[tags[i]] > t.counts[tags[j]]
	})

	out := make([]types.TagCount, len(tags))
	for i, tag := range tags {
		out[i] = types.TagCount{Rank: i + 1, Tag: tag, Count: t.counts[tag]}
	}
	return out
}

// Top returns at most n entries of Ranked.
func (t *Tally) Top(n int) []types.TagCount {
	if n <= 0 {
		return []types.TagCount{}
	}
	ranked := t.Ranked()
	if n < len(ranked) {
		ranked = ranked[:n]
	}
	return ranked
}

// Rank returns the ranked entry for tag.
func (t *Tally) Rank(tag string) (types.TagCount, bool) {
	if _, ok := t.counts[tag]; !ok {
		return types.TagCount{}, false
	}
	for _, tc := range t.Ranked() {
		if tc.Tag == tag {
			return tc, true
		}
	}
	return types.TagCount{}, false
}
