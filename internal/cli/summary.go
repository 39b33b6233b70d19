package cli

import (
	"sort"

	"github.com/pfrederiksen/mtg-worlds/internal/deck"
)

// Means are the average card-type counts of a group of decks.
type Means struct {
	Lands             float64 `json:"lands"`
	Creatures         float64 `json:"creatures"`
	InstantsSorceries float64 `json:"instants_sorceries"`
	OtherSpells       float64 `json:"other_spells"`
}

// RankSummary describes the decks that finished at one rank.
type RankSummary struct {
	Rank  deck.Rank `json:"rank"`
	Decks int       `json:"decks"`
	Means Means     `json:"means"`
}

// YearSummary describes the decks of one championship.
type YearSummary struct {
	Year  int   `json:"year"`
	Decks int   `json:"decks"`
	Means Means `json:"means"`
}

// Summary is a descriptive overview of the canonical table.
type Summary struct {
	Filter  string        `json:"filter,omitempty"`
	Decks   []deck.Record `json:"decks,omitempty"`
	Total   int           `json:"total"`
	Overall Means         `json:"overall"`
	ByRank  []RankSummary `json:"by_rank"`
	ByYear  []YearSummary `json:"by_year"`
}

type accumulator struct {
	n      int
	totals [4]int
}

func (a *accumulator) add(r deck.Record) {
	a.n++
	a.totals[0] += r.Lands
	a.totals[1] += r.Creatures
	a.totals[2] += r.InstantsSorceries
	a.totals[3] += r.OtherSpells
}

func (a *accumulator) means() Means {
	if a.n == 0 {
		return Means{}
	}
	n := float64(a.n)
	return Means{
		Lands:             float64(a.totals[0]) / n,
		Creatures:         float64(a.totals[1]) / n,
		InstantsSorceries: float64(a.totals[2]) / n,
		OtherSpells:       float64(a.totals[3]) / n,
	}
}

// Summarize computes per-rank and per-year deck counts and mean compositions.
// Every rank of the domain is listed, even with no decks.
func Summarize(records []deck.Record) *Summary {
	var overall accumulator
	byRank := make(map[deck.Rank]*accumulator, len(deck.Ranks))
	for _, r := range deck.Ranks {
		byRank[r] = &accumulator{}
	}
	byYear := make(map[int]*accumulator)

	for _, r := range records {
		overall.add(r)
		if acc, ok := byRank[r.Rank]; ok {
			acc.add(r)
		}
		year := r.Date.Year()
		if byYear[year] == nil {
			byYear[year] = &accumulator{}
		}
		byYear[year].add(r)
	}

	s := &Summary{Total: len(records), Overall: overall.means()}
	for _, r := range deck.Ranks {
		s.ByRank = append(s.ByRank, RankSummary{Rank: r, Decks: byRank[r].n, Means: byRank[r].means()})
	}

	years := make([]int, 0, len(byYear))
	for y := range byYear {
		years = append(years, y)
	}
	sort.Ints(years)
	for _, y := range years {
		s.ByYear = append(s.ByYear, YearSummary{Year: y, Decks: byYear[y].n, Means: byYear[y].means()})
	}
	return s
}
