package normalize

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/pfrederiksen/mtg-worlds/internal/dataset"
	"github.com/pfrederiksen/mtg-worlds/internal/deck"
	"github.com/pfrederiksen/mtg-worlds/internal/logger"
)

// Canonical column names.
const (
	ColPlayer            = "Player"
	ColEvent             = "Event"
	ColRank              = "Rank"
	ColDate              = "Date"
	ColLands             = "Lands"
	ColCreatures         = "Creatures"
	ColInstantsSorceries = "Instants_Sorceries"
	ColOtherSpells       = "Other_spells"
)

// CanonicalColumns is the column order of the canonical table.
var CanonicalColumns = []string{
	ColPlayer, ColEvent, ColRank, ColDate,
	ColLands, ColCreatures, ColInstantsSorceries, ColOtherSpells,
}

// countColumns are the card-type columns that hold integer counts.
var countColumns = []string{ColLands, ColCreatures, ColInstantsSorceries, ColOtherSpells}

// DroppedColumns are removed before anything else.
var DroppedColumns = []string{"Level", "SIDEBOARD", "Format"}

// ExcludedEvents are substrings marking team events and alternate-structure years.
var ExcludedEvents = []string{"Cup", "Undefeated", "15 points"}

// CategoryRenames maps scraped category labels to canonical columns.
var CategoryRenames = map[string]string{
	"CREATURES":          ColCreatures,
	"INSTANTS_and_SORC.": ColInstantsSorceries,
	"OTHER_SPELLS":       ColOtherSpells,
}

// landsLabel is the substring shared by every lands column variant.
const landsLabel = "LANDS"

// dualFacedLands matches lands columns carrying the maximum count, e.g. "LANDS_(27)".
var dualFacedLands = regexp.MustCompile(`^LANDS_\((\d+)\)$`)

// ErrMissingColumn is returned when the raw table lacks a required column.
var ErrMissingColumn = errors.New("required column missing")

// Normalizer converts raw checkpoint tables into canonical records.
type Normalizer struct {
	Overrides Overrides
	// DualFacedAsLands counts every dual-faced card as a land: a deck with a
	// LANDS_(N) value gets N lands instead of the scraped count.
	DualFacedAsLands bool
}

// New returns a Normalizer with the default override data.
func New() *Normalizer {
	return &Normalizer{Overrides: DefaultOverrides()}
}

// Result is the output of one normalization run.
type Result struct {
	Table   *dataset.Table
	Records []deck.Record
	Report  Report
}

// Report counts what each step did.
type Report struct {
	RowsIn          int          `json:"rows_in"`
	DroppedEvents   int          `json:"dropped_events"`
	RanksReset      int          `json:"ranks_reset"`
	RanksOverridden int          `json:"ranks_overridden"`
	NamesCorrected  int          `json:"names_corrected"`
	DroppedRanks    int          `json:"dropped_ranks"`
	UnresolvedTies  int          `json:"unresolved_ties"`
	LandsConflicts  int          `json:"lands_conflicts"`
	DroppedNoLands  int          `json:"dropped_no_lands"`
	DroppedColumns  []string     `json:"dropped_columns,omitempty"`
	Audit           []AuditEntry `json:"audit,omitempty"`
	RowsOut         int          `json:"rows_out"`
}

// Run normalizes raw. The input table is not modified.
func (n *Normalizer) Run(raw *dataset.Table) (*Result, error) {
	for _, c := range []string{ColPlayer, ColEvent, ColRank, ColDate} {
		if !raw.HasColumn(c) {
			return nil, fmt.Errorf("normalizing: %q: %w", c, ErrMissingColumn)
		}
	}

	t := raw.Clone()
	report := Report{RowsIn: t.Len()}

	t.Drop(DroppedColumns...)

	if err := parseDates(t); err != nil {
		return nil, err
	}

	report.DroppedEvents = t.Filter(func(i int) bool {
		return !excludedEvent(t.Get(i, ColEvent))
	})

	n.applyOverrides(t, &report)

	report.DroppedRanks = t.Filter(func(i int) bool {
		rank := t.Get(i, ColRank)
		if _, err := deck.ParseRank(rank); err != nil {
			if rank == "3-4" {
				report.UnresolvedTies++
				logger.Warn("dropping unresolved 3-4 rank", logger.Fields{
					"player": t.Get(i, ColPlayer),
					"date":   t.Get(i, ColDate),
				})
			}
			return false
		}
		return true
	})

	report.LandsConflicts = collapseLands(t, n.DualFacedAsLands)
	report.DroppedNoLands = t.Filter(func(i int) bool {
		if t.Get(i, ColLands) == dataset.Missing {
			logger.Warn("dropping deck with unknown lands", logger.Fields{
				"player": t.Get(i, ColPlayer),
				"date":   t.Get(i, ColDate),
			})
			return false
		}
		return true
	})

	dropped, err := renameCategories(t)
	if err != nil {
		return nil, err
	}
	report.DroppedColumns = dropped

	for i := 0; i < t.Len(); i++ {
		for _, c := range countColumns {
			if t.Get(i, c) == dataset.Missing {
				t.Set(i, c, "0")
			}
		}
	}

	records, err := coerce(t)
	if err != nil {
		return nil, err
	}
	report.RowsOut = len(records)

	logger.Info("normalized raw table", logger.Fields{
		"rows_in":          report.RowsIn,
		"rows_out":         report.RowsOut,
		"dropped_events":   report.DroppedEvents,
		"dropped_ranks":    report.DroppedRanks,
		"dropped_no_lands": report.DroppedNoLands,
	})

	table, err := Table(records)
	if err != nil {
		return nil, err
	}
	return &Result{Table: table, Records: records, Report: report}, nil
}

// parseDates rewrites the Date column from DD/MM/YY to YYYY-MM-DD.
func parseDates(t *dataset.Table) error {
	for i := 0; i < t.Len(); i++ {
		text := t.Get(i, ColDate)
		d, err := deck.ParseResultDate(text)
		if err != nil {
			return fmt.Errorf("row %d (player %q): %w", i, t.Get(i, ColPlayer), err)
		}
		t.Set(i, ColDate, deck.FormatCanonicalDate(d))
	}
	return nil
}

func excludedEvent(event string) bool {
	for _, s := range ExcludedEvents {
		if strings.Contains(event, s) {
			return true
		}
	}
	return false
}

// yearOf returns the year of a row whose date is already canonical.
func yearOf(t *dataset.Table, i int) int {
	d, err := deck.ParseCanonicalDate(t.Get(i, ColDate))
	if err != nil {
		return 0
	}
	return d.Year()
}

// collapseLands merges every LANDS column into Lands and drops the variants.
// When more than one variant holds a value, the last one in column order wins
// and the row is counted as a conflict.
func collapseLands(t *dataset.Table, dualFacedAsLands bool) int {
	var variants []string
	for _, c := range t.Columns() {
		if strings.Contains(c, landsLabel) {
			variants = append(variants, c)
		}
	}

	dualFaced := dualFacedColumns(variants)

	conflicts := 0
	for i := 0; i < t.Len(); i++ {
		value := dataset.Missing
		seen := 0
		for _, c := range variants {
			if v := t.Get(i, c); v != dataset.Missing {
				value = v
				seen++
			}
		}
		if seen > 1 {
			conflicts++
			logger.Warn("several lands values, keeping the last", logger.Fields{
				"player": t.Get(i, ColPlayer),
				"date":   t.Get(i, ColDate),
				"lands":  value,
			})
		}

		if dualFacedAsLands {
			for _, dc := range dualFaced {
				if t.Get(i, dc.column) != dataset.Missing {
					value = strconv.Itoa(dc.max)
					break
				}
			}
		}

		t.Set(i, ColLands, value)
	}
	t.Drop(variants...)
	return conflicts
}

type dualFacedColumn struct {
	column string
	max    int
}

// dualFacedColumns returns the LANDS_(N) columns ordered by N.
func dualFacedColumns(columns []string) []dualFacedColumn {
	var out []dualFacedColumn
	for _, c := range columns {
		m := dualFacedLands.FindStringSubmatch(c)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		out = append(out, dualFacedColumn{column: c, max: n})
	}
	sort.SliceStable(out, func(a, b int) bool { return out[a].max < out[b].max })
	return out
}

// renameCategories maps scraped labels to canonical names, adds absent count
// columns and drops everything that is not canonical. It returns the names of
// dropped category columns.
func renameCategories(t *dataset.Table) ([]string, error) {
	if err := t.Rename(CategoryRenames); err != nil {
		return nil, fmt.Errorf("renaming categories: %w", err)
	}
	for _, c := range countColumns {
		t.AddColumn(c)
	}

	canonical := make(map[string]bool, len(CanonicalColumns))
	for _, c := range CanonicalColumns {
		canonical[c] = true
	}

	var dropped []string
	for _, c := range t.Columns() {
		if canonical[c] || c == "Deck" {
			continue
		}
		dropped = append(dropped, c)
	}
	if len(dropped) > 0 {
		logger.Warn("dropping unknown category columns", logger.Fields{"columns": dropped})
	}
	t.Drop(append(dropped, "Deck")...)
	return dropped, nil
}

// coerce converts every row into a Record.
func coerce(t *dataset.Table) ([]deck.Record, error) {
	records := make([]deck.Record, 0, t.Len())
	for i := 0; i < t.Len(); i++ {
		r, err := recordAt(t, i)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, nil
}

func recordAt(t *dataset.Table, i int) (deck.Record, error) {
	rank, err := deck.ParseRank(t.Get(i, ColRank))
	if err != nil {
		return deck.Record{}, fmt.Errorf("row %d: %w", i, err)
	}
	date, err := deck.ParseCanonicalDate(t.Get(i, ColDate))
	if err != nil {
		return deck.Record{}, fmt.Errorf("row %d: %w", i, err)
	}

	counts := make([]int, len(countColumns))
	for k, c := range countColumns {
		n, err := parseCount(t.Get(i, c))
		if err != nil {
			return deck.Record{}, fmt.Errorf("row %d, column %s: %w", i, c, err)
		}
		counts[k] = n
	}

	return deck.Record{
		Player:            t.Get(i, ColPlayer),
		Event:             t.Get(i, ColEvent),
		Rank:              rank,
		Date:              date,
		Lands:             counts[0],
		Creatures:         counts[1],
		InstantsSorceries: counts[2],
		OtherSpells:       counts[3],
	}, nil
}

// parseCount accepts non-negative integers, including float renderings such as "24.0".
func parseCount(s string) (int, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 {
			return 0, fmt.Errorf("negative count %q", s)
		}
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid count %q", s)
	}
	if f < 0 || f != math.Trunc(f) || f > math.MaxInt32 {
		return 0, fmt.Errorf("invalid count %q", s)
	}
	return int(f), nil
}
