package tui

import (
	"fmt"
	"strings"

	"github.com/vyshnavsdeepak/ideaforge-sub000/internal/listing"
)

func renderListItem(o listing.Opportunity, selected bool, width int) string {
	if width < 10 {
		width = 30
	}

	var title string
	if selected {
		title = itemSelectedStyle.Render("> " + truncateStr(o.Title, width-4))
	} else {
		title = itemTitleStyle.Render("  " + truncateStr(o.Title, width-4))
	}

	score := itemScoreStyle.Render(fmt.Sprintf("%.1f", o.Score))
	meta := "  " + score
	if o.Viable {
		meta += itemScoreStyle.Render(" ✓")
	}
	tail := o.Niche
	if tail == "" {
		tail = o.Category
	}
	if tail != "" {
		meta += itemMetaStyle.Render(" · " + truncateStr(tail, width-12))
	}

	return title + "\n" + meta
}

func truncateStr(s string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 3 {
		return string(runes[:n])
	}
	return string(runes[:n-3]) + "..."
}

func renderList(items []listing.Opportunity, cursor int, height int, width int, emptyMsg string) string {
	if len(items) == 0 {
		return centerText(emptyMsg, width, height)
	}

	// Each item is 2 lines + 1 blank line = 3 lines
	itemHeight := 3
	visible := height / itemHeight
	if visible < 1 {
		visible = 1
	}

	start := 0
	if cursor >= visible {
		start = cursor - visible + 1
	}
	end := start + visible
	if end > len(items) {
		end = len(items)
		start = end - visible
		if start < 0 {
			start = 0
		}
	}

	var b strings.Builder
	for i := start; i < end; i++ {
		b.WriteString(renderListItem(items[i], i == cursor, width))
		if i < end-1 {
			b.WriteString("\n")
		}
	}

	return b.String()
}

func centerText(s string, width, height int) string {
	pad := (width - len(s)) / 2
	if pad < 0 {
		pad = 0
	}
	return strings.Repeat("\n", height/3) + strings.Repeat(" ", pad) + s
}
