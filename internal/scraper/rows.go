package scraper

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/pfrederiksen/mtg-worlds/internal/deck"
	"github.com/pfrederiksen/mtg-worlds/internal/logger"
)

// resultColumns is the number of trailing cells that make up a result row:
// Deck, Player, Format, Event, Level, Rank, Date.
const resultColumns = 7

// ParseResultRows extracts the result rows of a search page in document order.
// Rows that are too short or have no deck link are skipped and logged.
func ParseResultRows(doc *goquery.Document) []deck.ResultRow {
	rows := make([]deck.ResultRow, 0)

	doc.Find("tr.hover_tr").Each(func(i int, tr *goquery.Selection) {
		cells := make([]string, 0, resultColumns+1)
		tr.Find("td").Each(func(_ int, td *goquery.Selection) {
			cells = append(cells, cleanText(td.Text()))
		})

		if len(cells) < resultColumns {
			logger.Warn("skipping short result row", logger.Fields{
				"row":   i,
				"cells": len(cells),
			})
			logger.IncrCounter("rows.skipped")
			return
		}
		cells = cells[len(cells)-resultColumns:]

		deckID := ""
		tr.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
			href, _ := a.Attr("href")
			if deckLinkPattern.MatchString(href) {
				if link, ok := deckLink(a, nil); ok {
					deckID = link.DeckID
				}
				return false
			}
			return true
		})
		if deckID == "" {
			logger.Warn("skipping result row without deck link", logger.Fields{
				"row":    i,
				"player": cells[1],
			})
			logger.IncrCounter("rows.skipped")
			return
		}

		rows = append(rows, deck.ResultRow{
			DeckID: deckID,
			Deck:   cells[0],
			Player: cells[1],
			Format: cells[2],
			Event:  cells[3],
			Level:  cells[4],
			Rank:   cells[5],
			Date:   cells[6],
		})
	})

	return rows
}

// cleanText trims the text and collapses inner whitespace runs to one space.
func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
