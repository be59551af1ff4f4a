package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/vyshnavsdeepak/ideaforge-sub000/internal/filter"
)

// facetDims lists the facet dimensions in display order. The key doubles as
// the query parameter name and the server's facet map key.
var facetDims = []struct {
	key   string
	label string
}{
	{"group", "Group"},
	{"category", "Category"},
	{"platform", "Platform"},
	{"audience", "Audience"},
	{"vertical", "Vertical"},
	{"niche", "Niche"},
}

type facetBar struct {
	cursor int
	active bool
}

func newFacetBar() facetBar {
	return facetBar{}
}

func (f *facetBar) current() string {
	return facetDims[f.cursor].key
}

func (f *facetBar) move(delta int) {
	f.cursor += delta
	if f.cursor < 0 {
		f.cursor = 0
	}
	if f.cursor >= len(facetDims) {
		f.cursor = len(facetDims) - 1
	}
}

func facetGet(s filter.State, key string) string {
	switch key {
	case "group":
		return s.SourceGroup
	case "category":
		return s.Category
	case "platform":
		return s.Platform
	case "audience":
		return s.Audience
	case "vertical":
		return s.Vertical
	case "niche":
		return s.Niche
	}
	return ""
}

func facetSet(s *filter.State, key, val string) {
	switch key {
	case "group":
		s.SourceGroup = val
	case "category":
		s.Category = val
	case "platform":
		s.Platform = val
	case "audience":
		s.Audience = val
	case "vertical":
		s.Vertical = val
	case "niche":
		s.Niche = val
	}
}

// render draws one tab per facet dimension, highlighting set values and
// bracketing the cursor while facet mode is active. Tabs that would overflow
// the width are dropped from the right.
func (f facetBar) render(st filter.State, width int) string {
	sep := tabSeparatorStyle.Render(" · ")

	var parts []string
	for i, dim := range facetDims {
		val := facetGet(st, dim.key)
		label := dim.label
		if val != "" {
			label += ":" + val
		}
		if f.active && i == f.cursor {
			label = "[" + label + "]"
		}
		style := tabInactiveStyle
		if val != "" {
			style = tabActiveStyle
		}
		parts = append(parts, style.Render(label))
	}

	var row string
	for i, part := range parts {
		candidate := row
		if i > 0 {
			candidate += sep
		}
		candidate += part
		if lipgloss.Width(candidate) > width && row != "" {
			break
		}
		row = candidate
	}

	barStyle := lipgloss.NewStyle().
		Background(colorSurface).
		Width(width).
		PaddingLeft(1)
	return barStyle.Render(row)
}
