package tui

// scrollTrigger decides when cursor movement should fetch the next page.
type scrollTrigger struct {
	// loadThreshold is how close to the end (in items) the cursor must be.
	loadThreshold int
	// topOffset is how far down a restored view can be before we offer a
	// jump back to the top.
	topOffset int
}

func newScrollTrigger() scrollTrigger {
	return scrollTrigger{loadThreshold: 10, topOffset: 20}
}

// shouldLoad reports whether a load-more fetch is due. A pending fetch or an
// exhausted listing always gates it; repeated scroll events while loading
// must not stack requests.
func (t scrollTrigger) shouldLoad(cursor, count int, pending, hasMore bool) bool {
	if pending || !hasMore || count == 0 {
		return false
	}
	return cursor >= count-t.loadThreshold
}

// offerTop reports whether the cursor is deep enough that jumping back to the
// top is worth suggesting.
func (t scrollTrigger) offerTop(cursor int) bool {
	return cursor >= t.topOffset
}
