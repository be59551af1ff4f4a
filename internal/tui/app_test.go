package tui

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/vyshnavsdeepak/ideaforge-sub000/internal/filter"
	"github.com/vyshnavsdeepak/ideaforge-sub000/internal/listing"
)

type listCall struct {
	state filter.State
	page  int
}

type fakeLister struct {
	calls []listCall
	pages map[int]*listing.Page
	err   error
}

func (f *fakeLister) List(_ context.Context, st filter.State, page int) (*listing.Page, error) {
	f.calls = append(f.calls, listCall{state: st, page: page})
	if f.err != nil {
		return nil, f.err
	}
	if p, ok := f.pages[page]; ok {
		return p, nil
	}
	return &listing.Page{Pagination: listing.Pagination{Page: page}}, nil
}

func (f *fakeLister) TriggerScan(context.Context) error { return nil }

// runCmds executes a command tree synchronously, feeding every resulting
// message back into the model. Spinner ticks are skipped to avoid the
// self-perpetuating tick loop.
func runCmds(t *testing.T, m *Model, cmd tea.Cmd) {
	t.Helper()
	if cmd == nil {
		return
	}
	msg := cmd()
	if msg == nil {
		return
	}
	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, c := range batch {
			runCmds(t, m, c)
		}
		return
	}
	if _, ok := msg.(spinner.TickMsg); ok {
		return
	}
	_, next := m.Update(msg)
	runCmds(t, m, next)
}

func key(s string) tea.KeyMsg {
	switch s {
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// newTestModel mounts a model and resolves its initial reset fetch.
func newTestModel(t *testing.T, f *fakeLister, initial filter.State) *Model {
	t.Helper()
	m := NewModel(f, initial, time.Millisecond)
	runCmds(t, m, m.Init())
	return m
}

func TestMountIssuesInitialResetFetch(t *testing.T) {
	f := &fakeLister{pages: map[int]*listing.Page{
		1: page([]string{"a", "b"}, 1, 2, false),
	}}
	m := newTestModel(t, f, filter.Default())

	if len(f.calls) != 1 || f.calls[0].page != 1 {
		t.Fatalf("calls = %+v", f.calls)
	}
	if m.phase != phaseExhausted {
		t.Errorf("phase = %v, want exhausted (hasMore=false)", m.phase)
	}
	if m.acc.len() != 2 {
		t.Errorf("accumulated = %d", m.acc.len())
	}
}

func TestDebounceCommitsOnlyLastValue(t *testing.T) {
	f := &fakeLister{pages: map[int]*listing.Page{
		1: page([]string{"a"}, 1, 1, false),
	}}
	m := newTestModel(t, f, filter.Default())
	histBefore := m.history.Len()
	genBefore := m.generation

	m.Update(key("/"))
	// Three rapid keystrokes; each opens a fresh debounce window.
	m.Update(key("w"))
	m.Update(key("i"))
	m.Update(key("d"))

	// The first two windows expire late: their sequence numbers are stale.
	m.Update(searchDebounceMsg{seq: m.searchSeq - 2})
	m.Update(searchDebounceMsg{seq: m.searchSeq - 1})
	if m.generation != genBefore {
		t.Fatal("stale debounce ticks must not commit")
	}

	_, cmd := m.Update(searchDebounceMsg{seq: m.searchSeq})
	if m.state.Search != "wid" {
		t.Errorf("Search = %q, want wid", m.state.Search)
	}
	if m.generation != genBefore+1 {
		t.Errorf("generation = %d, want exactly one bump", m.generation)
	}
	if m.history.Len() != histBefore+1 {
		t.Errorf("history grew by %d entries, want 1", m.history.Len()-histBefore)
	}
	runCmds(t, m, cmd)

	// Re-committing the identical value is a no-op.
	_, cmd = m.Update(searchDebounceMsg{seq: m.searchSeq})
	if cmd != nil || m.generation != genBefore+1 || m.history.Len() != histBefore+1 {
		t.Error("identical committed value must not produce another commit")
	}
}

func TestDiscreteControlCommitsImmediately(t *testing.T) {
	f := &fakeLister{pages: map[int]*listing.Page{
		1: page([]string{"a"}, 1, 1, false),
	}}
	m := newTestModel(t, f, filter.Default())
	genBefore := m.generation

	m.Update(key("v"))

	if m.state.Viable != filter.TriYes {
		t.Errorf("Viable = %v", m.state.Viable)
	}
	if m.generation != genBefore+1 {
		t.Error("facet toggle must commit on the same tick")
	}
	if m.phase != phaseLoadingReset {
		t.Errorf("phase = %v, want loading-reset", m.phase)
	}
	if m.history.Current() != "viable=yes" {
		t.Errorf("address = %q", m.history.Current())
	}
}

func TestGenerationOrderingDropsStaleResponse(t *testing.T) {
	f := &fakeLister{pages: map[int]*listing.Page{}}
	m := NewModel(f, filter.Default(), time.Millisecond)
	m.Init() // do not resolve: requests stay in flight

	gen1 := m.generation
	req1 := m.lastReq

	// A filter change supersedes generation 1 while its request is in flight.
	m.Update(key("v"))
	gen2 := m.generation
	if gen2 == gen1 {
		t.Fatal("commit must bump the generation")
	}

	// The newer generation's response lands first.
	m.Update(pageLoadedMsg{
		req:    fetchReq{state: m.state, page: 1, gen: gen2, reset: true},
		result: page([]string{"new1", "new2"}, 1, 2, false),
	})
	// The older response arrives afterwards and must be dropped silently.
	m.Update(pageLoadedMsg{
		req:    req1,
		result: page([]string{"old1"}, 1, 1, false),
	})

	got := ids(m.acc)
	if len(got) != 2 || got[0] != "new1" {
		t.Errorf("list reflects the wrong generation: %v", got)
	}
	if m.phase != phaseExhausted {
		t.Errorf("phase = %v", m.phase)
	}
}

func TestFilterChangeResetsPagination(t *testing.T) {
	f := &fakeLister{pages: map[int]*listing.Page{
		1: page([]string{"a", "b"}, 1, 60, true),
		2: page([]string{"c", "d"}, 2, 60, true),
		3: page([]string{"e", "f"}, 3, 60, true),
	}}
	m := newTestModel(t, f, filter.Default())

	// Walk to page 3 via load-more.
	runCmds(t, m, m.moveCursor(m.acc.len()))
	runCmds(t, m, m.moveCursor(m.acc.len()))
	if m.acc.page != 3 || m.acc.len() != 6 {
		t.Fatalf("setup: page=%d len=%d", m.acc.page, m.acc.len())
	}

	// A score-threshold change must reset to page 1 under a new generation.
	gen := m.generation
	_, cmd := m.Update(key("+"))

	if m.generation != gen+1 {
		t.Error("threshold change must open a new generation")
	}
	if m.acc.len() != 0 {
		t.Error("accumulated list must be cleared on commit")
	}
	if m.lastReq.page != 1 || !m.lastReq.reset {
		t.Errorf("lastReq = %+v, want reset fetch of page 1", m.lastReq)
	}
	if m.state.Page != filter.DefaultPage {
		t.Errorf("state.Page = %d", m.state.Page)
	}
	if m.state.MinScore != minScoreStep {
		t.Errorf("MinScore = %v", m.state.MinScore)
	}
	runCmds(t, m, cmd)
	if got := f.calls[len(f.calls)-1]; got.page != 1 || got.state.MinScore != minScoreStep {
		t.Errorf("refetch = %+v", got)
	}
}

func TestScrollLoadsExactlyOneNextPage(t *testing.T) {
	f := &fakeLister{pages: map[int]*listing.Page{
		1: page([]string{"a", "b", "c", "d", "e"}, 1, 93, true),
	}}
	m := newTestModel(t, f, filter.Default())
	if m.acc.totalCount != 93 || m.phase != phaseIdle {
		t.Fatalf("setup: total=%d phase=%v", m.acc.totalCount, m.phase)
	}

	// Near-bottom scroll: exactly one page-2 request goes out.
	_, cmd := m.Update(key("G"))
	if cmd == nil || !m.pending || m.lastReq.page != 2 {
		t.Fatalf("expected a pending page-2 fetch, lastReq=%+v", m.lastReq)
	}

	// A second near-bottom scroll before it resolves is a no-op.
	_, cmd2 := m.Update(key("k"))
	if cmd2 != nil {
		t.Error("second scroll while pending must not fetch")
	}
	_, cmd3 := m.Update(key("j"))
	if cmd3 != nil {
		t.Error("third scroll while pending must not fetch")
	}

	runCmds(t, m, cmd)
	if len(f.calls) != 2 {
		t.Errorf("requests = %d, want 2 (mount + one load-more)", len(f.calls))
	}
}

func TestClearAllProducesEmptyAddressAndRefetch(t *testing.T) {
	initial := filter.Default()
	initial.Search = "widget"
	initial.MinScore = 5

	f := &fakeLister{pages: map[int]*listing.Page{
		1: page([]string{"a"}, 1, 1, false),
	}}
	m := newTestModel(t, f, initial)

	// Leave a debounced draft pending to prove clearAll cancels it.
	m.Update(key("/"))
	m.Update(key("x"))
	m.Update(key("esc"))

	_, cmd := m.Update(key("c"))

	if m.state != filter.Default() {
		t.Errorf("state = %+v, want defaults", m.state)
	}
	if m.history.Current() != "" {
		t.Errorf("address = %q, want empty", m.history.Current())
	}
	if m.acc.len() != 0 || m.phase != phaseLoadingReset {
		t.Error("clearAll must reset the list and refetch")
	}
	runCmds(t, m, cmd)
	if got := f.calls[len(f.calls)-1].state; got.HasActiveFilters() {
		t.Errorf("refetch still filtered: %+v", got)
	}
}

func TestFetchErrorKeepsListAndRetriesIdentically(t *testing.T) {
	f := &fakeLister{pages: map[int]*listing.Page{
		1: page([]string{"a", "b"}, 1, 40, true),
	}}
	m := newTestModel(t, f, filter.Default())

	// Page-2 fetch fails.
	_, cmd := m.Update(key("G"))
	f.err = errors.New("connection reset")
	runCmds(t, m, cmd)

	if m.phase != phaseError {
		t.Fatalf("phase = %v, want error", m.phase)
	}
	if m.acc.len() != 2 {
		t.Error("accumulated list must survive a fetch failure")
	}
	failedReq := m.lastReq

	// Retry re-issues the identical request.
	f.err = nil
	f.pages[2] = page([]string{"c"}, 2, 40, false)
	_, cmd = m.Update(key("R"))
	if m.phase != phaseLoadingMore {
		t.Errorf("phase = %v, want loading-more", m.phase)
	}
	if m.lastReq != failedReq {
		t.Errorf("retry request changed: %+v != %+v", m.lastReq, failedReq)
	}
	runCmds(t, m, cmd)

	last := f.calls[len(f.calls)-1]
	if last.page != 2 {
		t.Errorf("retried page = %d, want 2", last.page)
	}
	if m.acc.len() != 3 || m.phase != phaseExhausted {
		t.Errorf("after retry: len=%d phase=%v", m.acc.len(), m.phase)
	}
}

func TestHistoryBackRestoresStateFromAddress(t *testing.T) {
	f := &fakeLister{pages: map[int]*listing.Page{
		1: page([]string{"a"}, 1, 1, false),
	}}
	m := newTestModel(t, f, filter.Default())

	runCmds(t, m, m.commit(func(s *filter.State) { s.Category = "SaaS" }))
	runCmds(t, m, m.commit(func(s *filter.State) { s.Viable = filter.TriYes }))

	gen := m.generation
	_, cmd := m.Update(key("["))
	if m.state.Viable != filter.TriAny || m.state.Category != "SaaS" {
		t.Errorf("state after back = %+v", m.state)
	}
	if m.generation != gen+1 {
		t.Error("history navigation must open a new generation")
	}
	runCmds(t, m, cmd)

	m.Update(key("]"))
	if m.state.Viable != filter.TriYes {
		t.Errorf("state after forward = %+v", m.state)
	}
}

func TestEmptyResultMessaging(t *testing.T) {
	f := &fakeLister{pages: map[int]*listing.Page{}}
	m := newTestModel(t, f, filter.Default())

	if got := m.emptyMessage(); got != "no opportunities yet — run ideaforge scan" {
		t.Errorf("unfiltered empty message = %q", got)
	}

	runCmds(t, m, m.commit(func(s *filter.State) { s.Search = "nothing" }))
	if got := m.emptyMessage(); got != "no matches for the current filters (c to clear)" {
		t.Errorf("filtered empty message = %q", got)
	}
}
