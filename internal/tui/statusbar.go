package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/vyshnavsdeepak/ideaforge-sub000/internal/filter"
)

// statusLine summarizes the list state machine for the bottom bar.
func (m *Model) statusLine() string {
	switch m.phase {
	case phaseLoadingReset:
		return m.spinner.View() + " loading..."
	case phaseLoadingMore:
		return fmt.Sprintf("%d of %d · %s loading more...", m.acc.len(), m.acc.totalCount, m.spinner.View())
	case phaseError:
		return errorBannerStyle.Render(fmt.Sprintf("fetch failed: %v", m.err)) + "  R retry"
	case phaseExhausted:
		if m.acc.len() == 0 {
			return m.emptyMessage()
		}
		return fmt.Sprintf("%d of %d · end of results", m.acc.len(), m.acc.totalCount)
	default:
		if m.acc.len() == 0 {
			return m.emptyMessage()
		}
		return fmt.Sprintf("%d of %d", m.acc.len(), m.acc.totalCount)
	}
}

// emptyMessage distinguishes "your filters matched nothing" from "the
// collection is empty". An empty result is not an error.
func (m *Model) emptyMessage() string {
	if m.state.HasActiveFilters() {
		return "no matches for the current filters (c to clear)"
	}
	return "no opportunities yet — run ideaforge scan"
}

func (m *Model) filterSummary() string {
	s := m.state
	out := ""
	if s.MinScore > 0 {
		out += fmt.Sprintf(" · score ≥ %.1f", s.MinScore)
	}
	if s.Viable != filter.TriAny {
		out += " · viable: " + s.Viable.String()
	}
	if s.SortKey != filter.SortScore || s.SortOrder != filter.OrderDesc {
		out += fmt.Sprintf(" · sort %s/%s", s.SortKey, s.SortOrder)
	}
	return out
}

func (m *Model) renderStatusBar() string {
	left := " " + m.statusLine() + m.filterSummary()
	if m.notice != "" {
		left = " " + m.notice
	}
	if m.trigger.offerTop(m.cursor) {
		left += " · g top"
	}

	right := " / search  f facets  v viable  s sort  c clear  ? help  q quit "
	if m.mode == modeSearch {
		right = " esc cancel  enter apply "
	}
	if m.mode == modeFacet {
		right = " ←/→ dimension  ↑/↓ value  x clear  esc done "
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	bar := left + fmt.Sprintf("%*s", gap, "") + right
	return statusBarStyle.Width(m.width).Render(bar)
}
