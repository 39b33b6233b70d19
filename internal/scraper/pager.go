package scraper

import (
	"context"
	"fmt"

	"github.com/pfrederiksen/mtg-worlds/internal/deck"
	"github.com/pfrederiksen/mtg-worlds/internal/logger"
)

// Sink receives scraped data in scrape order.
type Sink interface {
	AddRows(rows []deck.ResultRow)
	AddComposition(comp deck.Composition)
}

// StopReason tells why paging for a year ended.
type StopReason string

const (
	// StopExhausted: a page returned no result rows.
	StopExhausted StopReason = "exhausted"
	// StopFailed: a listing request failed or returned a non-200 status.
	StopFailed StopReason = "failed"
)

// YearStats summarises the scrape of one year.
type YearStats struct {
	Year  int        `json:"year"`
	Pages int        `json:"pages"` // listing pages that returned rows
	Rows  int        `json:"rows"`
	Decks int        `json:"decks"`
	Stop  StopReason `json:"stop"`
	Err   string     `json:"error,omitempty"`
}

// ScrapeYears scrapes each year in turn. Only context cancellation aborts the run.
func (s *Scraper) ScrapeYears(ctx context.Context, years []int, sink Sink) ([]YearStats, error) {
	all := make([]YearStats, 0, len(years))
	for _, year := range years {
		stats, err := s.ScrapeYear(ctx, year, sink)
		all = append(all, stats)
		if err != nil {
			return all, err
		}
	}
	return all, nil
}

// ScrapeYear pages through the search results of one year, starting at page 1,
// until a page has no result rows or a listing request fails. Each page's deck
// links are followed in order and their compositions handed to sink.
func (s *Scraper) ScrapeYear(ctx context.Context, year int, sink Sink) (YearStats, error) {
	stats := YearStats{Year: year}
	logger.Info("scraping year", logger.Fields{"year": year})

	for page := 1; ; page++ {
		doc, err := s.fetchListing(ctx, year, page)
		if err != nil {
			if ctx.Err() != nil {
				return stats, fmt.Errorf("scraping year %d: %w", year, ctx.Err())
			}
			logger.Warn("listing page failed, moving to next year", logger.Fields{
				"year":  year,
				"page":  page,
				"error": err.Error(),
			})
			logger.IncrCounter("pages.failed")
			stats.Stop = StopFailed
			stats.Err = err.Error()
			return stats, nil
		}
		logger.IncrCounter("pages.fetched")

		rows := ParseResultRows(doc)
		if len(rows) == 0 {
			logger.Info("finished year", logger.Fields{"year": year, "pages": stats.Pages})
			stats.Stop = StopExhausted
			return stats, nil
		}
		sink.AddRows(rows)
		stats.Rows += len(rows)

		links := rowLinks(rows, CollectDeckLinks(doc, s.base))
		for _, link := range links {
			comp, err := s.scrapeDeck(ctx, year, link)
			if err != nil {
				return stats, err
			}
			sink.AddComposition(comp)
			stats.Decks++
		}
		stats.Pages++
	}
}

// rowLinks keeps the deck links that belong to accepted result rows, one per
// row, in page order. Links of skipped rows and stray deck links elsewhere on
// the page are dropped so every composition pairs with a row.
func rowLinks(rows []deck.ResultRow, links []DeckLink) []DeckLink {
	want := make(map[string]int, len(rows))
	for _, r := range rows {
		want[r.DeckID]++
	}

	kept := make([]DeckLink, 0, len(rows))
	for _, link := range links {
		if want[link.DeckID] == 0 {
			logger.Debug("ignoring deck link without result row", logger.Fields{
				"deck_id": link.DeckID,
				"url":     link.URL,
			})
			continue
		}
		want[link.DeckID]--
		kept = append(kept, link)
	}
	return kept
}

// scrapeDeck fetches one deck page. A failed fetch yields an empty composition
// so the deck still pairs with its result row; only cancellation is an error.
func (s *Scraper) scrapeDeck(ctx context.Context, year int, link DeckLink) (deck.Composition, error) {
	logger.Debug("scraping deck", logger.Fields{"year": year, "deck": link.Name, "url": link.URL})

	doc, err := s.fetchDocument(ctx, link.URL, nil)
	if err != nil {
		if ctx.Err() != nil {
			return deck.Composition{}, fmt.Errorf("scraping deck %s: %w", link.DeckID, ctx.Err())
		}
		logger.Warn("deck page failed, recording empty composition", logger.Fields{
			"year":    year,
			"deck_id": link.DeckID,
			"url":     link.URL,
			"error":   err.Error(),
		})
		logger.IncrCounter("decks.failed")
		return deck.Composition{DeckID: link.DeckID}, nil
	}
	logger.IncrCounter("decks.fetched")

	comp, anomalies := ExtractComposition(doc, link.DeckID)
	for _, a := range anomalies {
		logger.Warn("irregular info block", logger.Fields{
			"deck_id": link.DeckID,
			"block":   a.Block,
			"kind":    string(a.Kind),
			"text":    a.Text,
		})
	}
	return comp, nil
}
