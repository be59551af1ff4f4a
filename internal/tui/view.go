package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

func (m *Model) View() string {
	if m.width == 0 {
		return lipgloss.NewStyle().Foreground(colorAccent).Render("  ideaforge")
	}

	if m.mode == modeHelp {
		return m.renderHelp()
	}

	// Layout calculations
	headerHeight := 1
	facetHeight := 1
	statusHeight := 1
	addressHeight := 0
	if m.showAddress {
		addressHeight = 1
	}
	contentHeight := m.height - headerHeight - facetHeight - statusHeight - addressHeight - 4 // borders
	if contentHeight < 3 {
		contentHeight = 3
	}

	listWidth := int(float64(m.width) * 0.4)
	previewWidth := m.width - listWidth - 1 // gap

	// Header
	headerLeft := headerStyle.Render("ideaforge")
	headerRight := ""
	if m.stats != nil {
		headerRight = headerStatsStyle.Render(fmt.Sprintf(
			"%d opportunities · %d viable · avg %.1f",
			m.stats.TotalCount, m.stats.ViableCount, m.stats.AvgScore,
		))
	}
	headerGap := m.width - lipgloss.Width(headerLeft) - lipgloss.Width(headerRight)
	if headerGap < 0 {
		headerGap = 0
	}
	header := headerLeft + fmt.Sprintf("%*s", headerGap, "") + headerRight

	// Facet bar, replaced by the search input while searching
	facetRow := m.facetBar.render(m.state, m.width)
	if m.mode == modeSearch {
		facetRow = m.searchInput.View()
	}

	// List pane
	innerListW := listWidth - 4 // border + padding
	listContent := renderList(m.acc.items, m.cursor, contentHeight, innerListW, m.emptyMessage())

	var listPane string
	if m.focus == focusList {
		listPane = listPaneActiveStyle.Width(listWidth - 2).Height(contentHeight).Render(listContent)
	} else {
		listPane = listPaneStyle.Width(listWidth - 2).Height(contentHeight).Render(listContent)
	}

	// Preview pane
	innerPreviewW := previewWidth - 4
	previewContent := renderPreview(m.selected(), innerPreviewW, contentHeight, m.previewScroll)

	var previewPane string
	if m.focus == focusPreview {
		previewPane = previewPaneActiveStyle.Width(previewWidth - 2).Height(contentHeight).Render(previewContent)
	} else {
		previewPane = previewPaneStyle.Width(previewWidth - 2).Height(contentHeight).Render(previewContent)
	}

	content := lipgloss.JoinHorizontal(lipgloss.Top, listPane, previewPane)

	rows := []string{header, facetRow, content}
	if m.showAddress {
		rows = append(rows, addressStyle.Width(m.width).Render("/opportunities?"+m.history.Current()))
	}
	rows = append(rows, m.renderStatusBar())

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m *Model) renderHelp() string {
	title := lipgloss.NewStyle().Foreground(colorAccent).Bold(true).Render("ideaforge")
	dim := helpDimStyle

	help := title + dim.Render(" — Keyboard Shortcuts") + "\n\n" +
		dim.Render("Navigation") + "\n" +
		"  j/k, ↑/↓     Move through the list (auto-loads near the end)\n" +
		"  ctrl+d/u      Jump 10 items\n" +
		"  g / G         Top / bottom\n" +
		"  tab           Switch focus between list and preview\n" +
		"  [ / ]         Back / forward through filter history\n\n" +
		dim.Render("Filtering") + "\n" +
		"  /             Search (committed after a quiet half second)\n" +
		"  f             Facet mode (←/→ dimension, ↑/↓ value)\n" +
		"  v             Cycle viability: any → yes → no\n" +
		"  +/-           Raise / lower the minimum score\n" +
		"  s / S         Cycle sort key / flip sort order\n" +
		"  c             Clear all filters\n\n" +
		dim.Render("Actions") + "\n" +
		"  o, enter      Open the first source link\n" +
		"  r             Trigger a source scan and reload\n" +
		"  R             Retry after a fetch failure\n" +
		"  y             Show the shareable address\n\n" +
		dim.Render("General") + "\n" +
		"  ?             Toggle this help\n" +
		"  q, ctrl+c    Quit"

	card := helpCardStyle.Render(help)

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, card)
}
