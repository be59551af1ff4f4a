package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/vyshnavsdeepak/ideaforge-sub000/internal/listing"
)

func renderPreview(o *listing.Opportunity, width, height, scroll int) string {
	if o == nil {
		return centerText("Select an opportunity", width, height)
	}

	contentWidth := width - 2
	if contentWidth < 10 {
		contentWidth = 10
	}

	title := previewTitleStyle.Width(contentWidth).Render(o.Title)

	viability := "not validated"
	if o.Viable {
		viability = "viable"
	}
	meta := previewMetaStyle.Render(
		fmt.Sprintf("score %.1f · %s · %s", o.Score, viability, o.CreatedAt.Format("Jan 2, 2006")),
	)

	var attrs []string
	for _, pair := range [][2]string{
		{"group", o.SourceGroup},
		{"category", o.Category},
		{"platform", o.Platform},
		{"audience", o.Audience},
		{"vertical", o.Vertical},
		{"niche", o.Niche},
	} {
		if pair[1] != "" {
			attrs = append(attrs, pair[0]+": "+pair[1])
		}
	}
	attrLine := itemMetaStyle.Width(contentWidth).Render(strings.Join(attrs, "  "))

	summary := o.Summary
	if summary == "" {
		summary = "(No summary available)"
	}
	body := previewBodyStyle.Width(contentWidth).Render(wrapText(summary, contentWidth))

	var sources string
	if len(o.SourceItems) > 0 {
		var b strings.Builder
		b.WriteString("Sources:")
		for i, item := range o.SourceItems {
			if i >= 5 {
				b.WriteString(fmt.Sprintf("\n  ... and %d more", len(o.SourceItems)-i))
				break
			}
			b.WriteString("\n  " + truncateStr(item.Title, contentWidth-4))
			b.WriteString("\n    " + truncateStr(item.Link, contentWidth-6))
		}
		sources = previewLinkStyle.Width(contentWidth).Render(b.String())
	}

	content := lipgloss.JoinVertical(lipgloss.Left, title, meta, attrLine, "", body, "", sources)

	// Apply scroll offset
	lines := strings.Split(content, "\n")
	if scroll > 0 && scroll < len(lines) {
		lines = lines[scroll:]
	}

	// Pad to fill height
	if len(lines) < height {
		lines = append(lines, make([]string, height-len(lines))...)
	} else if len(lines) > height {
		lines = lines[:height]
	}

	return strings.Join(lines, "\n")
}

func wrapText(s string, width int) string {
	if width <= 0 {
		return s
	}
	words := strings.Fields(s)
	if len(words) == 0 {
		return ""
	}

	var lines []string
	line := words[0]
	for _, w := range words[1:] {
		if len(line)+1+len(w) > width {
			lines = append(lines, line)
			line = w
		} else {
			line += " " + w
		}
	}
	lines = append(lines, line)
	return strings.Join(lines, "\n")
}
