package normalize

import (
	"fmt"
	"strconv"

	"github.com/pfrederiksen/mtg-worlds/internal/dataset"
	"github.com/pfrederiksen/mtg-worlds/internal/deck"
)

// Table renders records as the canonical table.
func Table(records []deck.Record) (*dataset.Table, error) {
	t := dataset.New(CanonicalColumns...)
	for i, r := range records {
		err := t.AppendValues(
			r.Player,
			r.Event,
			r.Rank.String(),
			deck.FormatCanonicalDate(r.Date),
			strconv.Itoa(r.Lands),
			strconv.Itoa(r.Creatures),
			strconv.Itoa(r.InstantsSorceries),
			strconv.Itoa(r.OtherSpells),
		)
		if err != nil {
			return nil, fmt.Errorf("rendering record %d (%s): %w", i, r.Player, err)
		}
	}
	return t, nil
}

// Records parses a canonical table back into records.
func Records(t *dataset.Table) ([]deck.Record, error) {
	for _, c := range CanonicalColumns {
		if !t.HasColumn(c) {
			return nil, fmt.Errorf("reading canonical table: %q: %w", c, ErrMissingColumn)
		}
	}
	return coerce(t)
}
