package scan

import (
	"testing"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/vyshnavsdeepak/ideaforge-sub000/internal/config"
)

func testSource() config.Source {
	return config.Source{
		Name:     "Freelance",
		Group:    "r/freelance",
		Platform: "web",
		Audience: "freelancers",
		Vertical: "services",
		Enabled:  true,
	}
}

func TestConvertMapsSourceAttributes(t *testing.T) {
	now := time.Now()
	items := []*gofeed.Item{{
		Title:           "I hate chasing clients to pay invoices manually",
		Description:     "<p>It takes hours every week and I would pay for a tool.</p>",
		Link:            "https://example.com/post/1",
		PublishedParsed: &now,
	}}

	opps := Convert(items, testSource())
	if len(opps) != 1 {
		t.Fatalf("len = %d", len(opps))
	}

	o := opps[0]
	if o.SourceGroup != "r/freelance" || o.Platform != "web" || o.Audience != "freelancers" {
		t.Errorf("source attributes not mapped: %+v", o)
	}
	if o.Score <= 0 {
		t.Errorf("score = %v", o.Score)
	}
	if len(o.SourceItems) != 1 || o.SourceItems[0].Link != "https://example.com/post/1" {
		t.Errorf("source items = %+v", o.SourceItems)
	}
	if o.Summary != "It takes hours every week and I would pay for a tool." {
		t.Errorf("summary = %q", o.Summary)
	}
}

func TestConvertIDsAreDeterministic(t *testing.T) {
	now := time.Now()
	item := &gofeed.Item{Title: "t", Link: "https://example.com/p", PublishedParsed: &now}

	a := Convert([]*gofeed.Item{item}, testSource())
	b := Convert([]*gofeed.Item{item}, testSource())
	if a[0].ID != b[0].ID {
		t.Errorf("ids differ: %s vs %s", a[0].ID, b[0].ID)
	}
}

func TestConvertSkipsOldAndLinkless(t *testing.T) {
	old := time.Now().Add(-60 * 24 * time.Hour)
	items := []*gofeed.Item{
		{Title: "ancient", Link: "https://example.com/old", PublishedParsed: &old},
		{Title: "no link"},
		nil,
	}
	if opps := Convert(items, testSource()); len(opps) != 0 {
		t.Errorf("kept %d items, want 0", len(opps))
	}
}

func TestNicheFor(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"I hate chasing invoices from clients", "hate chasing"},
		{"What should I do about churn?", "churn"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := nicheFor(tt.title); got != tt.want {
			t.Errorf("nicheFor(%q) = %q, want %q", tt.title, got, tt.want)
		}
	}
}

func TestStripHTML(t *testing.T) {
	got := stripHTML("<p>Hello <b>world</b></p>  extra")
	if got != "Hello world extra" {
		t.Errorf("stripHTML = %q", got)
	}
}
