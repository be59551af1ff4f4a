package tui

import "github.com/vyshnavsdeepak/ideaforge-sub000/internal/listing"

// accumulator holds the listing built up within one generation: an append-only
// arena of items plus an id index for duplicate suppression. Pagination
// metadata is whatever the server last reported; the local item count is
// never used to derive it.
type accumulator struct {
	items []listing.Opportunity
	index map[string]int // id -> position in items

	page       int
	totalCount int
	totalPages int
	hasMore    bool
}

func newAccumulator() *accumulator {
	return &accumulator{index: make(map[string]int)}
}

// reset replaces the arena with the first page of a new generation.
func (a *accumulator) reset(p *listing.Page) {
	a.items = a.items[:0]
	a.index = make(map[string]int, len(p.Opportunities))
	for _, o := range p.Opportunities {
		if _, seen := a.index[o.ID]; seen {
			continue
		}
		a.index[o.ID] = len(a.items)
		a.items = append(a.items, o)
	}
	a.adopt(p)
}

// append adds a further page. An id already present keeps its original
// position and content; records straddling a shifting page boundary must not
// move or duplicate.
func (a *accumulator) append(p *listing.Page) {
	for _, o := range p.Opportunities {
		if _, seen := a.index[o.ID]; seen {
			continue
		}
		a.index[o.ID] = len(a.items)
		a.items = append(a.items, o)
	}
	a.adopt(p)
}

// adopt takes the server's pagination metadata verbatim.
func (a *accumulator) adopt(p *listing.Page) {
	a.page = p.Pagination.Page
	a.totalCount = p.Pagination.TotalCount
	a.totalPages = p.Pagination.TotalPages
	a.hasMore = p.Pagination.HasMore
}

func (a *accumulator) len() int {
	return len(a.items)
}

// nextPage is the page a load-more fetch should request.
func (a *accumulator) nextPage() int {
	return a.page + 1
}
