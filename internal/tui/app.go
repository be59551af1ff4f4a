package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/vyshnavsdeepak/ideaforge-sub000/internal/browser"
	"github.com/vyshnavsdeepak/ideaforge-sub000/internal/filter"
	"github.com/vyshnavsdeepak/ideaforge-sub000/internal/listing"
	"github.com/vyshnavsdeepak/ideaforge-sub000/internal/nav"
)

const (
	defaultDebounce = 500 * time.Millisecond
	fetchTimeout    = 20 * time.Second
	minScoreStep    = 0.5
)

// lister is the slice of the listing client the browser needs.
type lister interface {
	List(ctx context.Context, st filter.State, page int) (*listing.Page, error)
	TriggerScan(ctx context.Context) error
}

type focusPane int

const (
	focusList focusPane = iota
	focusPreview
)

type mode int

const (
	modeNormal mode = iota
	modeSearch
	modeFacet
	modeHelp
)

// phase is the list state machine. Loading a fresh generation and loading a
// further page are distinct states because only the former may replace the
// accumulated list.
type phase int

const (
	phaseLoadingReset phase = iota
	phaseIdle
	phaseLoadingMore
	phaseError
	phaseExhausted
)

// Model is the browsing session: the committed filter state, the address
// history that mirrors it, and the accumulated listing for the current
// generation. It is the only writer of the filter state, and fetch results
// are the only writer of the accumulator.
type Model struct {
	client   lister
	debounce time.Duration

	// Committed state. generation increases on every accepted commit; a
	// fetch result is applied only if its generation is still current when
	// it is consumed, never merely when it was sent.
	state      filter.State
	generation int64
	history    *nav.History

	phase   phase
	acc     *accumulator
	pending bool
	lastReq fetchReq
	err     error
	notice  string

	facets map[string][]listing.FacetOption
	stats  *listing.Stats

	cursor        int
	previewScroll int
	focus         focusPane
	mode          mode
	trigger       scrollTrigger
	showAddress   bool

	searchInput textinput.Model
	searchSeq   int
	spinner     spinner.Model
	facetBar    facetBar

	width  int
	height int
}

// RunOpts holds all parameters for launching the browser.
type RunOpts struct {
	Client   *listing.Client
	Initial  filter.State
	Debounce time.Duration
}

func NewModel(client lister, initial filter.State, debounce time.Duration) *Model {
	if debounce <= 0 {
		debounce = defaultDebounce
	}

	ti := textinput.New()
	ti.Placeholder = "Search opportunities..."
	ti.Prompt = searchPromptStyle.Render("/ ")
	ti.CharLimit = 100

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = spinnerStyle

	initial = filter.Normalize(initial)
	ti.SetValue(initial.Search)

	return &Model{
		client:      client,
		debounce:    debounce,
		state:       initial,
		history:     nav.New(filter.EncodeQuery(initial)),
		acc:         newAccumulator(),
		trigger:     newScrollTrigger(),
		searchInput: ti,
		spinner:     sp,
		facetBar:    newFacetBar(),
	}
}

// Init kicks off the first generation: mounting behaves exactly like a
// committed filter change, minus the address push.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.startGeneration(), textinput.Blink)
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		m.notice = ""
		return m.handleKey(msg)

	case searchDebounceMsg:
		// A newer keystroke opened a fresh window; this tick is stale.
		if msg.seq != m.searchSeq {
			return m, nil
		}
		return m, m.commit(func(s *filter.State) { s.Search = m.searchInput.Value() })

	case pageLoadedMsg:
		return m.handlePageLoaded(msg)

	case pageErrMsg:
		if msg.req.gen != m.generation {
			return m, nil
		}
		m.pending = false
		m.phase = phaseError
		m.err = msg.err
		m.lastReq = msg.req
		return m, nil

	case noticeMsg:
		m.notice = msg.text
		return m, nil

	case scanTriggeredMsg:
		if msg.err != nil {
			m.notice = fmt.Sprintf("scan trigger failed: %v", msg.err)
			return m, nil
		}
		m.notice = "scan queued, reloading"
		return m, m.startGeneration()

	case spinner.TickMsg:
		if m.pending {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	return m, nil
}

// handlePageLoaded applies a fetch result, or drops it when its generation
// has been superseded. The generation check at consume time is the whole
// stale-response defense: no cooperative abort is needed.
func (m *Model) handlePageLoaded(msg pageLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.req.gen != m.generation {
		return m, nil
	}

	m.pending = false
	m.err = nil

	if msg.result.Facets != nil {
		m.facets = msg.result.Facets
	}
	if msg.result.Stats != nil {
		m.stats = msg.result.Stats
	}

	if msg.req.reset {
		m.acc.reset(msg.result)
		m.cursor = 0
		m.previewScroll = 0
	} else {
		m.acc.append(msg.result)
	}
	if m.cursor >= m.acc.len() {
		m.cursor = max(0, m.acc.len()-1)
	}

	if m.acc.hasMore {
		m.phase = phaseIdle
	} else {
		m.phase = phaseExhausted
	}
	return m, nil
}

// commit merges a partial update into the committed filter state. Any
// non-pagination change invalidates the continuity of an existing page
// sequence, so the page is forced back to 1 before committing.
func (m *Model) commit(mut func(*filter.State)) tea.Cmd {
	next := m.state
	mut(&next)
	next.Page = filter.DefaultPage
	return m.commitState(next)
}

// commitState accepts a full candidate state. Committing a value identical
// to the current one produces no generation bump and no address push.
func (m *Model) commitState(next filter.State) tea.Cmd {
	next = filter.Normalize(next)
	if next == m.state {
		return nil
	}
	m.state = next
	m.history.Push(filter.EncodeQuery(next))
	return m.startGeneration()
}

// startGeneration opens a new filter epoch: the accumulated list is cleared,
// any in-flight response now belongs to a dead generation, and a reset fetch
// is issued for the state's own page.
func (m *Model) startGeneration() tea.Cmd {
	m.generation++
	m.acc = newAccumulator()
	m.cursor = 0
	m.previewScroll = 0
	m.err = nil
	m.pending = true
	m.phase = phaseLoadingReset
	m.lastReq = fetchReq{state: m.state, page: m.state.Page, gen: m.generation, reset: true}
	return tea.Batch(m.loadCmd(m.lastReq), m.spinner.Tick)
}

// loadCmd issues exactly one request for one page. The request parameters
// travel with the result so retries can replay them verbatim.
func (m *Model) loadCmd(req fetchReq) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		page, err := client.List(ctx, req.state, req.page)
		if err != nil {
			return pageErrMsg{req: req, err: err}
		}
		return pageLoadedMsg{req: req, result: page}
	}
}

// maybeLoadMore turns near-bottom cursor movement into at most one pending
// load-more fetch. Load-more advances through the accumulator's authoritative
// page counter under the same generation; it never touches the filter state
// or the address.
func (m *Model) maybeLoadMore() tea.Cmd {
	if m.phase != phaseIdle {
		return nil
	}
	if !m.trigger.shouldLoad(m.cursor, m.acc.len(), m.pending, m.acc.hasMore) {
		return nil
	}
	m.pending = true
	m.phase = phaseLoadingMore
	m.lastReq = fetchReq{state: m.state, page: m.acc.nextPage(), gen: m.generation}
	return tea.Batch(m.loadCmd(m.lastReq), m.spinner.Tick)
}

// retry replays the last failed request with its original parameters.
func (m *Model) retry() tea.Cmd {
	if m.phase != phaseError {
		return nil
	}
	m.err = nil
	m.pending = true
	if m.lastReq.reset {
		m.phase = phaseLoadingReset
	} else {
		m.phase = phaseLoadingMore
	}
	return tea.Batch(m.loadCmd(m.lastReq), m.spinner.Tick)
}

// clearAll resets every filter to its default, cancels any pending debounced
// search commit, and commits immediately.
func (m *Model) clearAll() tea.Cmd {
	m.searchSeq++
	m.searchInput.SetValue("")
	return m.commitState(filter.Default())
}

// navigateHistory restores a previously committed state from its address.
// The address alone is enough to rebuild the view.
func (m *Model) navigateHistory(back bool) tea.Cmd {
	var (
		addr string
		ok   bool
	)
	if back {
		addr, ok = m.history.Back()
	} else {
		addr, ok = m.history.Forward()
	}
	if !ok {
		return nil
	}
	st := filter.DecodeQuery(addr)
	if st == m.state {
		return nil
	}
	m.state = st
	m.searchSeq++
	m.searchInput.SetValue(st.Search)
	return m.startGeneration()
}

func (m *Model) rescan() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		return scanTriggeredMsg{err: client.TriggerScan(ctx)}
	}
}

func (m *Model) moveCursor(delta int) tea.Cmd {
	if m.acc.len() == 0 {
		return nil
	}
	m.cursor += delta
	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.cursor >= m.acc.len() {
		m.cursor = m.acc.len() - 1
	}
	m.previewScroll = 0
	return m.maybeLoadMore()
}

func (m *Model) selected() *listing.Opportunity {
	if m.acc.len() == 0 || m.cursor >= m.acc.len() {
		return nil
	}
	return &m.acc.items[m.cursor]
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.mode {
	case modeSearch:
		return m.handleSearchKey(msg)
	case modeFacet:
		return m.handleFacetKey(msg)
	case modeHelp:
		switch msg.String() {
		case "?", "esc", "q":
			m.mode = modeNormal
		}
		return m, nil
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "j", "down":
		if m.focus == focusPreview {
			m.previewScroll++
			return m, nil
		}
		return m, m.moveCursor(1)
	case "k", "up":
		if m.focus == focusPreview {
			if m.previewScroll > 0 {
				m.previewScroll--
			}
			return m, nil
		}
		return m, m.moveCursor(-1)
	case "ctrl+d":
		return m, m.moveCursor(10)
	case "ctrl+u":
		return m, m.moveCursor(-10)
	case "g":
		m.cursor = 0
		m.previewScroll = 0
		return m, nil
	case "G":
		return m, m.moveCursor(m.acc.len())
	case "tab":
		if m.focus == focusList {
			m.focus = focusPreview
		} else {
			m.focus = focusList
		}
		return m, nil
	case "o", "enter":
		if sel := m.selected(); sel != nil && len(sel.SourceItems) > 0 {
			return m, openLinkCmd(sel.SourceItems[0].Link)
		}
		return m, nil
	case "/":
		m.mode = modeSearch
		m.searchInput.Focus()
		return m, textinput.Blink
	case "f":
		m.mode = modeFacet
		m.facetBar.active = true
		return m, nil
	case "v":
		// Discrete control: committed on the same tick, no debounce.
		return m, m.commit(func(s *filter.State) { s.Viable = nextTri(s.Viable) })
	case "+", "=":
		return m, m.commit(func(s *filter.State) { s.MinScore += minScoreStep })
	case "-":
		return m, m.commit(func(s *filter.State) { s.MinScore -= minScoreStep })
	case "s":
		return m, m.commit(func(s *filter.State) { s.SortKey = nextSortKey(s.SortKey) })
	case "S":
		return m, m.commit(func(s *filter.State) { s.SortOrder = flipOrder(s.SortOrder) })
	case "c":
		return m, m.clearAll()
	case "R":
		return m, m.retry()
	case "r":
		m.notice = "triggering scan..."
		return m, m.rescan()
	case "[":
		return m, m.navigateHistory(true)
	case "]":
		return m, m.navigateHistory(false)
	case "y":
		m.showAddress = !m.showAddress
		return m, nil
	case "?":
		m.mode = modeHelp
		return m, nil
	}

	return m, nil
}

// handleSearchKey runs the free-text path: every keystroke updates the draft
// for display, but the value is only committed after a quiet debounce window,
// and only the last value within a window wins.
func (m *Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeNormal
		m.searchInput.Blur()
		m.searchSeq++
		m.searchInput.SetValue(m.state.Search)
		return m, nil
	case "enter":
		m.mode = modeNormal
		m.searchInput.Blur()
		m.searchSeq++
		return m, m.commit(func(s *filter.State) { s.Search = m.searchInput.Value() })
	}

	prev := m.searchInput.Value()
	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	if m.searchInput.Value() == prev {
		// Cursor movement and the like: no new debounce window.
		return m, cmd
	}

	m.searchSeq++
	seq := m.searchSeq
	return m, tea.Batch(cmd, tea.Tick(m.debounce, func(time.Time) tea.Msg {
		return searchDebounceMsg{seq: seq}
	}))
}

func (m *Model) handleFacetKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "f":
		m.mode = modeNormal
		m.facetBar.active = false
		return m, nil
	case "left", "h":
		m.facetBar.move(-1)
		return m, nil
	case "right", "l":
		m.facetBar.move(1)
		return m, nil
	case "down", "j", " ", "enter":
		return m, m.cycleFacet(m.facetBar.current(), 1)
	case "up", "k":
		return m, m.cycleFacet(m.facetBar.current(), -1)
	case "backspace", "x":
		key := m.facetBar.current()
		return m, m.commit(func(s *filter.State) { facetSet(s, key, "") })
	}
	return m, nil
}

// cycleFacet steps the current facet dimension through "any" plus the
// server-provided options for it. Facet selection is a discrete control.
func (m *Model) cycleFacet(key string, delta int) tea.Cmd {
	options := []string{""}
	for _, opt := range m.facets[key] {
		options = append(options, opt.Value)
	}
	cur := facetGet(m.state, key)
	idx := 0
	for i, o := range options {
		if o == cur {
			idx = i
			break
		}
	}
	idx = (idx + delta + len(options)) % len(options)
	val := options[idx]
	return m.commit(func(s *filter.State) { facetSet(s, key, val) })
}

func nextTri(t filter.Tri) filter.Tri {
	switch t {
	case filter.TriAny:
		return filter.TriYes
	case filter.TriYes:
		return filter.TriNo
	default:
		return filter.TriAny
	}
}

func nextSortKey(k filter.SortKey) filter.SortKey {
	switch k {
	case filter.SortScore:
		return filter.SortDate
	case filter.SortDate:
		return filter.SortTitle
	default:
		return filter.SortScore
	}
}

func flipOrder(o filter.SortOrder) filter.SortOrder {
	if o == filter.OrderDesc {
		return filter.OrderAsc
	}
	return filter.OrderDesc
}

func openLinkCmd(url string) tea.Cmd {
	return func() tea.Msg {
		if err := browser.Open(url); err != nil {
			return noticeMsg{text: err.Error()}
		}
		return nil
	}
}

// Run starts the browser.
func Run(opts RunOpts) error {
	m := NewModel(opts.Client, opts.Initial, opts.Debounce)
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
