package export

import (
	"context"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/pfrederiksen/mtg-worlds/internal/deck"
	"github.com/pfrederiksen/mtg-worlds/internal/normalize"
)

func sampleRecords() []deck.Record {
	return []deck.Record{
		{
			Player: "Zvi Mowshowitz", Event: "Worlds 1996", Rank: deck.RankSecond,
			Date:  time.Date(1996, time.August, 18, 0, 0, 0, 0, time.UTC),
			Lands: 20, Creatures: 12, InstantsSorceries: 20, OtherSpells: 8,
		},
		{
			Player: "Olle Råde", Event: "Worlds 1996", Rank: deck.RankFourth,
			Date:  time.Date(1996, time.August, 18, 0, 0, 0, 0, time.UTC),
			Lands: 19, Creatures: 20, InstantsSorceries: 15, OtherSpells: 6,
		},
		{
			Player: "Jakub Slemr", Event: "Worlds 1997", Rank: deck.RankFirst,
			Date:  time.Date(1997, time.August, 17, 0, 0, 0, 0, time.UTC),
			Lands: 22, Creatures: 0, InstantsSorceries: 30, OtherSpells: 8,
		},
	}
}

func TestSQLite(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "out", "magic.db")
	records := sampleRecords()

	require.NoError(t, SQLite(ctx, path, records))

	got, err := ReadSQLite(ctx, path)
	require.NoError(t, err)
	require.Len(t, got, len(records))

	// Ordered by date then rank.
	require.Equal(t, "Zvi Mowshowitz", got[0].Player)
	require.Equal(t, "Olle Råde", got[1].Player)
	require.Equal(t, records[2], got[2])
}

func TestSQLite_ReplacesRows(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "magic.db")

	require.NoError(t, SQLite(ctx, path, sampleRecords()))
	require.NoError(t, SQLite(ctx, path, sampleRecords()[:1]))

	got, err := ReadSQLite(ctx, path)
	require.NoError(t, err)
	require.Len(t, got, 1)
}

func TestSQLite_RejectsInvalidRank(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "magic.db")
	bad := sampleRecords()
	bad[1].Rank = 0

	require.Error(t, SQLite(ctx, path, bad))

	// The failed export rolls back; the table stays empty.
	got, err := ReadSQLite(ctx, path)
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "magic.xlsx")
	records := sampleRecords()

	require.NoError(t, XLSX(path, records))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, len(records)+1)
	require.Equal(t, normalize.CanonicalColumns, rows[0])

	last := rows[len(rows)-1]
	require.Equal(t, "Jakub Slemr", last[0])
	require.Equal(t, "1", last[2])
	require.Equal(t, "1997-08-17", last[3])
	require.Equal(t, strconv.Itoa(records[2].InstantsSorceries), last[6])
}
