package export

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/pfrederiksen/mtg-worlds/internal/deck"
	"github.com/pfrederiksen/mtg-worlds/internal/logger"
)

const insertDeck = `INSERT INTO decks
	(player, event, rank, date, lands, creatures, instants_sorceries, other_spells)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

// SQLite writes records to the decks table of the database at path, replacing
// any previous contents. The schema is migrated first.
func SQLite(ctx context.Context, path string, records []deck.Record) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating database directory: %w", err)
	}
	if err := Migrate(path); err != nil {
		return err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if _, err := tx.ExecContext(ctx, `DELETE FROM decks`); err != nil {
		return fmt.Errorf("clearing decks: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, insertDeck)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range records {
		_, err := stmt.ExecContext(ctx,
			r.Player, r.Event, int(r.Rank), deck.FormatCanonicalDate(r.Date),
			r.Lands, r.Creatures, r.InstantsSorceries, r.OtherSpells,
		)
		if err != nil {
			return fmt.Errorf("inserting record %d (%s): %w", i, r.Player, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing decks: %w", err)
	}

	logger.Info("exported decks to SQLite", logger.Fields{"path": path, "rows": len(records)})
	return nil
}

// ReadSQLite loads every deck from the database at path, ordered by date and rank.
func ReadSQLite(ctx context.Context, path string) ([]deck.Record, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, `SELECT player, event, rank, date, lands, creatures, instants_sorceries, other_spells
		FROM decks ORDER BY date, rank, id`)
	if err != nil {
		return nil, fmt.Errorf("querying decks: %w", err)
	}
	defer rows.Close()

	var records []deck.Record
	for rows.Next() {
		var (
			r    deck.Record
			rank int
			date string
		)
		if err := rows.Scan(&r.Player, &r.Event, &rank, &date, &r.Lands, &r.Creatures, &r.InstantsSorceries, &r.OtherSpells); err != nil {
			return nil, fmt.Errorf("scanning deck: %w", err)
		}
		r.Rank = deck.Rank(rank)
		if r.Date, err = deck.ParseCanonicalDate(date); err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating decks: %w", err)
	}
	return records, nil
}
