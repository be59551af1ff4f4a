// Package score rates a mined opportunity from 0.0 to 10.0 using weighted
// heuristics over its source material. The browser treats these numbers as
// opaque; only the scanner computes them.
package score

import (
	"math"
	"strings"
	"time"
)

// Input holds the data needed to score an opportunity.
type Input struct {
	Title       string
	Summary     string
	Published   time.Time
	SourceCount int
}

// Breakdown shows how each component contributed to the final score.
type Breakdown struct {
	Demand       float64
	Monetization float64
	Recency      float64
	Depth        float64
	Final        float64
}

const (
	weightDemand       = 0.35
	weightMonetization = 0.25
	weightRecency      = 0.20
	weightDepth        = 0.20

	// ViableThreshold is the score at or above which an opportunity is
	// flagged viable.
	ViableThreshold = 6.0
)

// Score computes the final score for an opportunity.
func Score(input Input) float64 {
	return WithBreakdown(input).Final
}

// Viable reports whether a score clears the viability bar.
func Viable(s float64) bool {
	return s >= ViableThreshold
}

// WithBreakdown computes the score with component details.
func WithBreakdown(input Input) Breakdown {
	b := Breakdown{
		Demand:       demandScore(input.Title, input.Summary),
		Monetization: monetizationScore(input.Title, input.Summary),
		Recency:      recencyScore(input.Published),
		Depth:        depthScore(input.Summary, input.SourceCount),
	}
	raw := b.Demand*weightDemand +
		b.Monetization*weightMonetization +
		b.Recency*weightRecency +
		b.Depth*weightDepth
	b.Final = math.Round(raw*100) / 10 // scale to 0.0–10.0
	return b
}

// demandKeywords signal someone describing a real, recurring pain.
var demandKeywords = []string{
	"i hate", "frustrated", "tedious", "waste of time", "wish there was",
	"is there a tool", "how do you", "struggling", "pain", "manually",
	"every week", "every month", "takes hours", "annoying",
}

// monetizationKeywords signal willingness or an existing budget to pay.
var monetizationKeywords = []string{
	"pay for", "would pay", "pricing", "subscription", "budget",
	"invoice", "revenue", "clients", "customers", "billing", "paying",
	"expensive", "cost me",
}

func demandScore(title, summary string) float64 {
	return keywordHits(title+" "+summary, demandKeywords, 4)
}

func monetizationScore(title, summary string) float64 {
	return keywordHits(title+" "+summary, monetizationKeywords, 3)
}

// keywordHits returns hits/saturation capped at 1.0.
func keywordHits(text string, keywords []string, saturation int) float64 {
	text = strings.ToLower(text)
	hits := 0
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			hits++
		}
	}
	if hits > saturation {
		hits = saturation
	}
	return float64(hits) / float64(saturation)
}

// recencyScore is an exponential decay: 1.0 at publish, ~0.5 at 7 days.
func recencyScore(published time.Time) float64 {
	if published.IsZero() {
		return 0.5
	}
	age := time.Since(published)
	if age < 0 {
		age = 0
	}
	halfLife := 7 * 24 * time.Hour
	return math.Pow(0.5, age.Hours()/halfLife.Hours())
}

// depthScore rewards substantial source material: longer discussion and more
// independent source items.
func depthScore(summary string, sourceCount int) float64 {
	length := float64(len(summary)) / 600.0
	if length > 0.6 {
		length = 0.6
	}
	sources := float64(sourceCount) / 5.0
	if sources > 0.4 {
		sources = 0.4
	}
	return length + sources
}
