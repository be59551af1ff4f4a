package nav

import "testing"

func TestHistoryPushAndWalk(t *testing.T) {
	h := New("")

	h.Push("q=a")
	h.Push("q=a&viable=yes")
	if h.Len() != 3 {
		t.Fatalf("Len = %d, want 3", h.Len())
	}
	if h.Current() != "q=a&viable=yes" {
		t.Errorf("Current = %q", h.Current())
	}

	addr, ok := h.Back()
	if !ok || addr != "q=a" {
		t.Errorf("Back = %q, %v", addr, ok)
	}
	addr, ok = h.Back()
	if !ok || addr != "" {
		t.Errorf("Back = %q, %v", addr, ok)
	}
	if _, ok := h.Back(); ok {
		t.Error("Back past the oldest entry should fail")
	}

	addr, ok = h.Forward()
	if !ok || addr != "q=a" {
		t.Errorf("Forward = %q, %v", addr, ok)
	}
}

func TestHistoryPushDuplicateIsNoop(t *testing.T) {
	h := New("q=a")
	h.Push("q=a")
	if h.Len() != 1 {
		t.Errorf("Len = %d, want 1", h.Len())
	}
}

func TestHistoryPushTruncatesForward(t *testing.T) {
	h := New("")
	h.Push("q=a")
	h.Push("q=b")
	h.Back()
	h.Push("q=c")

	if h.Current() != "q=c" {
		t.Errorf("Current = %q", h.Current())
	}
	if _, ok := h.Forward(); ok {
		t.Error("Forward after a divergent push should fail")
	}
	if h.Len() != 3 {
		t.Errorf("Len = %d, want 3", h.Len())
	}
}
