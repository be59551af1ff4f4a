package tui

import (
	"github.com/vyshnavsdeepak/ideaforge-sub000/internal/filter"
	"github.com/vyshnavsdeepak/ideaforge-sub000/internal/listing"
)

// fetchReq identifies one page request. Kept verbatim so a failed request
// can be retried with the identical (state, page, generation) triple.
type fetchReq struct {
	state filter.State
	page  int
	gen   int64
	reset bool
}

type pageLoadedMsg struct {
	req    fetchReq
	result *listing.Page
}

type pageErrMsg struct {
	req fetchReq
	err error
}

// searchDebounceMsg fires after the debounce window. seq is the input
// sequence number captured when the tick was scheduled; a newer keystroke
// bumps the model's counter and strands the stale tick.
type searchDebounceMsg struct {
	seq int
}

type scanTriggeredMsg struct {
	err error
}

// noticeMsg carries transient status-bar text for side effects that have no
// bearing on the list state machine.
type noticeMsg struct {
	text string
}
