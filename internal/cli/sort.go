package cli

import (
	"sort"
	"strings"

	"github.com/pfrederiksen/mtg-worlds/internal/deck"
)

// SortOrder represents the available deck list orders
type SortOrder string

const (
	SortByDate   SortOrder = "date"
	SortByRank   SortOrder = "rank"
	SortByPlayer SortOrder = "player"
)

// Valid reports whether o is a known order.
func (o SortOrder) Valid() bool {
	switch o {
	case SortByDate, SortByRank, SortByPlayer:
		return true
	}
	return false
}

// sortRecords sorts records in place. Ties fall back to date, then rank.
func sortRecords(records []deck.Record, order SortOrder) {
	switch order {
	case SortByDate:
		sort.SliceStable(records, func(i, j int) bool {
			return compareByDate(records[i], records[j])
		})
	case SortByRank:
		sort.SliceStable(records, func(i, j int) bool {
			if records[i].Rank != records[j].Rank {
				return records[i].Rank < records[j].Rank
			}
			return records[i].Date.Before(records[j].Date)
		})
	case SortByPlayer:
		sort.SliceStable(records, func(i, j int) bool {
			pi, pj := strings.ToLower(records[i].Player), strings.ToLower(records[j].Player)
			if pi != pj {
				return pi < pj
			}
			return compareByDate(records[i], records[j])
		})
	}
}

// compareByDate orders by date, then by rank within a championship.
func compareByDate(a, b deck.Record) bool {
	if !a.Date.Equal(b.Date) {
		return a.Date.Before(b.Date)
	}
	return a.Rank < b.Rank
}
