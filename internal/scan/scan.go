// Package scan mines configured community sources for opportunity signals
// and writes scored opportunities into the store. The browser never imports
// this; it only ever sees the listing endpoint.
package scan

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mmcdole/gofeed"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/vyshnavsdeepak/ideaforge-sub000/internal/config"
	"github.com/vyshnavsdeepak/ideaforge-sub000/internal/listing"
	"github.com/vyshnavsdeepak/ideaforge-sub000/internal/score"
)

// oppNamespace makes opportunity ids deterministic per source link, so
// re-scans upsert instead of duplicating.
var oppNamespace = uuid.MustParse("9f2c1b34-7a5e-4d26-9c61-3f08b2a4e7d1")

const maxItemAge = 30 * 24 * time.Hour

// Scanner fetches sources politely (rate-limited) and in parallel.
type Scanner struct {
	log     *logrus.Logger
	parser  *gofeed.Parser
	limiter *rate.Limiter
}

func New(log *logrus.Logger) *Scanner {
	return &Scanner{
		log:    log,
		parser: gofeed.NewParser(),
		// One source fetch per second, small burst: keeps community hosts happy.
		limiter: rate.NewLimiter(rate.Every(time.Second), 2),
	}
}

type Result struct {
	Opportunities []listing.Opportunity
	Errors        []error
}

// Run fetches every enabled source and converts its items into scored
// opportunities. Per-source failures are collected, not fatal.
func (s *Scanner) Run(ctx context.Context, sources []config.Source) Result {
	var (
		mu     sync.Mutex
		result Result
		wg     sync.WaitGroup
	)

	for _, src := range sources {
		wg.Add(1)
		go func(src config.Source) {
			defer wg.Done()
			opps, err := s.fetchSource(ctx, src)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.Errors = append(result.Errors, err)
				return
			}
			result.Opportunities = append(result.Opportunities, opps...)
		}(src)
	}

	wg.Wait()
	s.log.WithFields(logrus.Fields{
		"sources":       len(sources),
		"opportunities": len(result.Opportunities),
		"errors":        len(result.Errors),
	}).Info("scan finished")
	return result
}

func (s *Scanner) fetchSource(ctx context.Context, src config.Source) ([]listing.Opportunity, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	started := time.Now()
	feed, err := s.parser.ParseURLWithContext(src.URL, ctx)
	if err != nil {
		s.log.WithField("source", src.Name).WithError(err).Warn("source fetch failed")
		return nil, err
	}

	opps := Convert(feed.Items, src)
	s.log.WithFields(logrus.Fields{
		"source":   src.Name,
		"items":    len(feed.Items),
		"kept":     len(opps),
		"duration": time.Since(started).Round(time.Millisecond),
	}).Info("source scanned")
	return opps, nil
}

// Convert turns feed items into scored opportunities. Split out from the
// fetch path so it is testable without a network.
func Convert(items []*gofeed.Item, src config.Source) []listing.Opportunity {
	now := time.Now()
	cutoff := now.Add(-maxItemAge)

	opps := make([]listing.Opportunity, 0, len(items))
	for _, item := range items {
		if item == nil || item.Link == "" {
			continue
		}

		published := now
		if item.PublishedParsed != nil {
			published = *item.PublishedParsed
		} else if item.UpdatedParsed != nil {
			published = *item.UpdatedParsed
		}
		if published.Before(cutoff) {
			continue
		}

		summary := item.Description
		if summary == "" {
			summary = item.Content
		}
		summary = truncate(stripHTML(summary), 400)

		in := score.Input{
			Title:       item.Title,
			Summary:     summary,
			Published:   published,
			SourceCount: 1,
		}
		final := score.Score(in)

		opps = append(opps, listing.Opportunity{
			ID:          opportunityID(item.Link),
			Title:       item.Title,
			Summary:     summary,
			Score:       final,
			Viable:      score.Viable(final),
			SourceGroup: src.Group,
			Platform:    src.Platform,
			Audience:    src.Audience,
			Vertical:    src.Vertical,
			Niche:       nicheFor(item.Title),
			SourceItems: []listing.SourceItem{{
				ID:        opportunityID(item.Link),
				Title:     item.Title,
				Link:      item.Link,
				Published: published,
			}},
			CreatedAt: published,
		})
	}
	return opps
}

func opportunityID(link string) string {
	return uuid.NewSHA1(oppNamespace, []byte(link)).String()
}

// nicheFor derives a coarse niche label from the title: the first few
// meaningful words, lowercased. Good enough to group similar asks.
func nicheFor(title string) string {
	words := strings.Fields(strings.ToLower(title))
	var kept []string
	for _, w := range words {
		w = strings.Trim(w, ".,!?\"'()[]")
		if len(w) < 4 || stopWords[w] {
			continue
		}
		kept = append(kept, w)
		if len(kept) == 2 {
			break
		}
	}
	return strings.Join(kept, " ")
}

var stopWords = map[string]bool{
	"this": true, "that": true, "with": true, "from": true, "what": true,
	"when": true, "where": true, "have": true, "does": true, "anyone": true,
	"about": true, "there": true, "should": true, "would": true, "could": true,
	"your": true, "just": true, "like": true, "need": true, "help": true,
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 3 {
		return string(runes[:n])
	}
	return string(runes[:n-3]) + "..."
}

func stripHTML(s string) string {
	var b strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
