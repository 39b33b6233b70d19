package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/pfrederiksen/mtg-worlds/internal/deck"
	"github.com/pfrederiksen/mtg-worlds/internal/logger"
	"github.com/pfrederiksen/mtg-worlds/internal/normalize"
)

// SheetName is the worksheet holding the decks.
const SheetName = "Decks"

// XLSX writes records to a workbook with a single Decks sheet whose header
// row matches the canonical CSV.
func XLSX(path string, records []deck.Record) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}

	sw, err := f.NewStreamWriter(SheetName)
	if err != nil {
		return fmt.Errorf("creating stream writer: %w", err)
	}

	header := make([]interface{}, len(normalize.CanonicalColumns))
	for i, c := range normalize.CanonicalColumns {
		header[i] = c
	}
	if err := sw.SetRow("A1", header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, r := range records {
		row := []interface{}{
			r.Player, r.Event, int(r.Rank), deck.FormatCanonicalDate(r.Date),
			r.Lands, r.Creatures, r.InstantsSorceries, r.OtherSpells,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, row); err != nil {
			return fmt.Errorf("writing row %d: %w", i, err)
		}
	}

	if err := sw.Flush(); err != nil {
		return fmt.Errorf("flushing sheet: %w", err)
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}

	logger.Info("exported decks to XLSX", logger.Fields{"path": path, "rows": len(records)})
	return nil
}
