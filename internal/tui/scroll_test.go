package tui

import "testing"

func TestScrollTriggerShouldLoad(t *testing.T) {
	tr := newScrollTrigger()

	tests := []struct {
		name    string
		cursor  int
		count   int
		pending bool
		hasMore bool
		want    bool
	}{
		{"far from bottom", 0, 100, false, true, false},
		{"within threshold", 95, 100, false, true, true},
		{"at bottom", 99, 100, false, true, true},
		{"pending gates", 99, 100, true, true, false},
		{"exhausted gates", 99, 100, false, false, false},
		{"empty list", 0, 0, false, true, false},
	}
	for _, tt := range tests {
		if got := tr.shouldLoad(tt.cursor, tt.count, tt.pending, tt.hasMore); got != tt.want {
			t.Errorf("%s: shouldLoad = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestScrollTriggerOfferTop(t *testing.T) {
	tr := newScrollTrigger()
	if tr.offerTop(0) {
		t.Error("offerTop at the top")
	}
	if !tr.offerTop(tr.topOffset) {
		t.Error("offerTop past the offset")
	}
}
