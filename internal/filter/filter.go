// Package filter narrows canonical deck records for reporting.
//
// Users can restrict the summary to:
//   - A range of championship years (inclusive)
//   - Players (substring matching, case-insensitive)
//   - Events (substring matching, case-insensitive)
//   - Ranks (any of 1-4)
//
// Example usage:
//
//	// Decks of the 1990s that finished first or second
//	f := filter.NewFilter()
//	f.YearFrom, f.YearTo, _ = filter.ParseYearRange("1994-1999")
//	f.Ranks, _ = filter.ParseRanks("1,2")
//
//	filtered := f.Apply(records)
package filter

import (
	"fmt"
	"strings"

	"github.com/pfrederiksen/mtg-worlds/internal/deck"
)

// Filter represents record filtering criteria. Zero values match everything.
type Filter struct {
	// Year range filtering, 0 means unbounded
	YearFrom int `json:"year_from,omitempty"`
	YearTo   int `json:"year_to,omitempty"`

	// Player name filtering (case-insensitive substring match)
	Players []string `json:"players,omitempty"`

	// Event name filtering (case-insensitive substring match)
	Events []string `json:"events,omitempty"`

	// Rank filtering
	Ranks []deck.Rank `json:"ranks,omitempty"`
}

// NewFilter creates a new empty filter
func NewFilter() *Filter {
	return &Filter{}
}

// IsEmpty returns true if no filter criteria are set
func (f *Filter) IsEmpty() bool {
	return f.YearFrom == 0 &&
		f.YearTo == 0 &&
		len(f.Players) == 0 &&
		len(f.Events) == 0 &&
		len(f.Ranks) == 0
}

// Apply returns the records that match the filter, preserving order.
func (f *Filter) Apply(records []deck.Record) []deck.Record {
	if f.IsEmpty() {
		return records
	}

	filtered := make([]deck.Record, 0, len(records))
	for _, r := range records {
		if f.Matches(r) {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

// Matches checks if a single record matches all filter criteria
func (f *Filter) Matches(r deck.Record) bool {
	year := r.Date.Year()
	if f.YearFrom != 0 && year < f.YearFrom {
		return false
	}
	if f.YearTo != 0 && year > f.YearTo {
		return false
	}

	if len(f.Players) > 0 && !containsAny(r.Player, f.Players) {
		return false
	}
	if len(f.Events) > 0 && !containsAny(r.Event, f.Events) {
		return false
	}

	if len(f.Ranks) > 0 {
		found := false
		for _, rank := range f.Ranks {
			if r.Rank == rank {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	return true
}

// containsAny reports whether s contains any of the substrings, ignoring case.
func containsAny(s string, substrings []string) bool {
	lower := strings.ToLower(s)
	for _, sub := range substrings {
		if strings.Contains(lower, strings.ToLower(sub)) {
			return true
		}
	}
	return false
}

// Description returns a human-readable description of the filter
func (f *Filter) Description() string {
	if f.IsEmpty() {
		return "No filters"
	}

	var parts []string

	switch {
	case f.YearFrom != 0 && f.YearTo != 0 && f.YearFrom == f.YearTo:
		parts = append(parts, fmt.Sprintf("Year: %d", f.YearFrom))
	case f.YearFrom != 0 && f.YearTo != 0:
		parts = append(parts, fmt.Sprintf("Years: %d-%d", f.YearFrom, f.YearTo))
	case f.YearFrom != 0:
		parts = append(parts, fmt.Sprintf("Years: from %d", f.YearFrom))
	case f.YearTo != 0:
		parts = append(parts, fmt.Sprintf("Years: until %d", f.YearTo))
	}

	if len(f.Players) > 0 {
		parts = append(parts, fmt.Sprintf("Players: %s", strings.Join(f.Players, ", ")))
	}
	if len(f.Events) > 0 {
		parts = append(parts, fmt.Sprintf("Events: %s", strings.Join(f.Events, ", ")))
	}
	if len(f.Ranks) > 0 {
		ranks := make([]string, len(f.Ranks))
		for i, r := range f.Ranks {
			ranks[i] = r.String()
		}
		parts = append(parts, fmt.Sprintf("Ranks: %s", strings.Join(ranks, ", ")))
	}

	return strings.Join(parts, " | ")
}
