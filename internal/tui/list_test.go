package tui

import (
	"strings"
	"testing"

	"github.com/vyshnavsdeepak/ideaforge-sub000/internal/listing"
)

func TestTruncateStr(t *testing.T) {
	tests := []struct {
		s    string
		n    int
		want string
	}{
		{"short", 10, "short"},
		{"exactly ten", 11, "exactly ten"},
		{"this is a longer title", 10, "this is..."},
		{"abc", 2, "ab"},
		{"anything", 0, ""},
	}
	for _, tt := range tests {
		if got := truncateStr(tt.s, tt.n); got != tt.want {
			t.Errorf("truncateStr(%q, %d) = %q, want %q", tt.s, tt.n, got, tt.want)
		}
	}
}

func TestWrapText(t *testing.T) {
	got := wrapText("one two three four five", 9)
	want := "one two\nthree\nfour five"
	if got != want {
		t.Errorf("wrapText = %q, want %q", got, want)
	}

	if got := wrapText("", 10); got != "" {
		t.Errorf("wrapText(empty) = %q", got)
	}
	if got := wrapText("untouched", 0); got != "untouched" {
		t.Errorf("wrapText(width 0) = %q", got)
	}
}

func TestRenderListEmptyShowsMessage(t *testing.T) {
	out := renderList(nil, 0, 12, 40, "no matches")
	if !strings.Contains(out, "no matches") {
		t.Errorf("empty list output missing message: %q", out)
	}
}

func TestRenderListScrollsWindowToCursor(t *testing.T) {
	var items []listing.Opportunity
	for _, title := range []string{"alpha", "bravo", "charlie", "delta", "echo", "foxtrot"} {
		items = append(items, listing.Opportunity{Title: title, Score: 5})
	}

	// Height for two visible items; cursor at the end must scroll the
	// window so the last item is rendered and the first is not.
	out := renderList(items, 5, 6, 40, "")
	if !strings.Contains(out, "foxtrot") {
		t.Error("cursor item not visible")
	}
	if strings.Contains(out, "alpha") {
		t.Error("window did not scroll past the first item")
	}
}
