// Package nav models the navigable address of the opportunity browser: a
// browser-style history of canonical filter addresses. One committed filter
// change pushes exactly one entry; back/forward walk the session without
// growing it, and pushing while rewound truncates the forward entries.
package nav

type History struct {
	entries []string
	pos     int
}

// New starts a history at the given initial address.
func New(initial string) *History {
	return &History{entries: []string{initial}}
}

// Current returns the address the session is on.
func (h *History) Current() string {
	return h.entries[h.pos]
}

// Push records a newly committed address. Pushing the current address again
// is a no-op, so a commit can never produce more than one history entry.
func (h *History) Push(addr string) {
	if addr == h.Current() {
		return
	}
	h.entries = append(h.entries[:h.pos+1], addr)
	h.pos = len(h.entries) - 1
}

// Back rewinds one entry. Returns false when already at the oldest address.
func (h *History) Back() (string, bool) {
	if h.pos == 0 {
		return "", false
	}
	h.pos--
	return h.entries[h.pos], true
}

// Forward re-advances after a Back. Returns false at the newest address.
func (h *History) Forward() (string, bool) {
	if h.pos >= len(h.entries)-1 {
		return "", false
	}
	h.pos++
	return h.entries[h.pos], true
}

// Len reports how many addresses the session has visited.
func (h *History) Len() int {
	return len(h.entries)
}
