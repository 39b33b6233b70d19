package assembler

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/pfrederiksen/mtg-worlds/internal/dataset"
	"github.com/pfrederiksen/mtg-worlds/internal/deck"
)

var (
	// ErrRowCountMismatch is returned when the number of result rows and the
	// number of compositions differ.
	ErrRowCountMismatch = errors.New("result rows and compositions differ in count")
	// ErrUnmatchedDeck is returned when a result row has no composition.
	ErrUnmatchedDeck = errors.New("result row has no matching composition")
)

// MetaColumns are the leading columns of the raw table, in order.
var MetaColumns = []string{"Deck", "Player", "Format", "Event", "Level", "Rank", "Date"}

// Accumulator collects result rows and compositions across every scraped year.
// It implements scraper.Sink.
type Accumulator struct {
	rows   []deck.ResultRow
	comps  []deck.Composition
	byDeck map[string][]int // deck id -> indexes into comps, in arrival order
}

// New creates an empty Accumulator.
func New() *Accumulator {
	return &Accumulator{byDeck: make(map[string][]int)}
}

// AddRows appends result rows in scrape order.
func (a *Accumulator) AddRows(rows []deck.ResultRow) {
	a.rows = append(a.rows, rows...)
}

// AddComposition appends one deck composition.
func (a *Accumulator) AddComposition(comp deck.Composition) {
	a.byDeck[comp.DeckID] = append(a.byDeck[comp.DeckID], len(a.comps))
	a.comps = append(a.comps, comp)
}

// Rows returns the number of result rows collected.
func (a *Accumulator) Rows() int {
	return len(a.rows)
}

// Compositions returns the number of compositions collected.
func (a *Accumulator) Compositions() int {
	return len(a.comps)
}

// Assemble builds the raw table: the metadata columns followed by one column
// per composition label, in the order labels were first seen.
//
// A deck id that appears on several rows is consumed in order, so the n-th
// row linking to a deck pairs with the n-th composition fetched for it.
func (a *Accumulator) Assemble() (*dataset.Table, error) {
	if len(a.rows) != len(a.comps) {
		return nil, fmt.Errorf("%d rows, %d compositions: %w", len(a.rows), len(a.comps), ErrRowCountMismatch)
	}

	meta := dataset.New(MetaColumns...)
	counts := dataset.New()
	used := make(map[string]int, len(a.byDeck))

	for i, row := range a.rows {
		idx := a.byDeck[row.DeckID]
		n := used[row.DeckID]
		if n >= len(idx) {
			return nil, fmt.Errorf("row %d (deck %q, player %q): %w", i, row.DeckID, row.Player, ErrUnmatchedDeck)
		}
		used[row.DeckID] = n + 1
		comp := a.comps[idx[n]]

		if err := meta.AppendValues(row.Deck, row.Player, row.Format, row.Event, row.Level, row.Rank, row.Date); err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}

		names := make([]string, len(comp.Counts))
		values := make([]string, len(comp.Counts))
		for k, c := range comp.Counts {
			names[k] = c.Label
			values[k] = strconv.Itoa(c.Value)
		}
		if err := counts.AppendNamed(names, values); err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
	}

	raw, err := dataset.HConcat(meta, counts)
	if err != nil {
		return nil, fmt.Errorf("joining metadata and compositions: %w", err)
	}
	return raw, nil
}
