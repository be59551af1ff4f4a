package tui

import (
	"testing"

	"github.com/vyshnavsdeepak/ideaforge-sub000/internal/listing"
)

func page(ids []string, pageNum, totalCount int, hasMore bool) *listing.Page {
	opps := make([]listing.Opportunity, len(ids))
	for i, id := range ids {
		opps[i] = listing.Opportunity{ID: id, Title: "Opportunity " + id}
	}
	return &listing.Page{
		Opportunities: opps,
		Pagination: listing.Pagination{
			Page:       pageNum,
			Limit:      len(ids),
			TotalCount: totalCount,
			HasMore:    hasMore,
		},
	}
}

func ids(a *accumulator) []string {
	out := make([]string, 0, len(a.items))
	for _, o := range a.items {
		out = append(out, o.ID)
	}
	return out
}

func TestAccumulatorReset(t *testing.T) {
	a := newAccumulator()
	a.reset(page([]string{"a", "b"}, 1, 10, true))
	a.append(page([]string{"c"}, 2, 10, true))

	a.reset(page([]string{"x", "y"}, 1, 2, false))

	got := ids(a)
	if len(got) != 2 || got[0] != "x" || got[1] != "y" {
		t.Errorf("after reset: %v", got)
	}
	if a.totalCount != 2 || a.hasMore {
		t.Errorf("metadata not adopted: total=%d hasMore=%v", a.totalCount, a.hasMore)
	}
}

func TestAccumulatorAppendDedupFirstSeenWins(t *testing.T) {
	a := newAccumulator()
	a.reset(page([]string{"a", "b", "c"}, 1, 6, true))

	// "c" straddles both pages; its original position must survive.
	a.append(page([]string{"c", "d", "e"}, 2, 6, false))

	got := ids(a)
	want := []string{"a", "b", "c", "d", "e"}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d (%v)", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d = %q, want %q", i, got[i], want[i])
		}
	}
	if a.index["c"] != 2 {
		t.Errorf("index[c] = %d, want 2", a.index["c"])
	}
}

func TestAccumulatorAppendAllDuplicatesIsNoop(t *testing.T) {
	a := newAccumulator()
	a.reset(page([]string{"a", "b"}, 1, 4, true))

	a.append(page([]string{"a", "b"}, 2, 4, true))

	if a.len() != 2 {
		t.Errorf("len = %d, want 2", a.len())
	}
	if a.index["a"] != 0 || a.index["b"] != 1 {
		t.Errorf("positions moved: %v", a.index)
	}
}

func TestAccumulatorTotalCountAuthoritative(t *testing.T) {
	a := newAccumulator()
	// Server reports more than we will ever hold locally.
	a.reset(page([]string{"a"}, 1, 93, true))
	if a.totalCount != 93 {
		t.Errorf("totalCount = %d, want 93", a.totalCount)
	}
	if a.nextPage() != 2 {
		t.Errorf("nextPage = %d, want 2", a.nextPage())
	}
}
