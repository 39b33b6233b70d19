package normalize

import (
	"bytes"
	"errors"
	"io"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/pfrederiksen/mtg-worlds/internal/dataset"
	"github.com/pfrederiksen/mtg-worlds/internal/deck"
	"github.com/pfrederiksen/mtg-worlds/internal/logger"
)

func TestMain(m *testing.M) {
	logger.SetDefault(logger.New(logger.LevelError, io.Discard))
	os.Exit(m.Run())
}

var rawColumns = []string{"Deck", "Player", "Format", "Event", "Level", "Rank", "Date"}

// rawTable builds a raw table from metadata rows and per-row category values.
func rawTable(t *testing.T, categories []string, rows ...[]string) *dataset.Table {
	t.Helper()
	tbl := dataset.New(append(append([]string(nil), rawColumns...), categories...)...)
	for _, r := range rows {
		require.NoError(t, tbl.AppendValues(r...))
	}
	return tbl
}

func meta(player, event, rank, date string) []string {
	return []string{"Some Deck", player, "Standard", event, "", rank, date}
}

func withCounts(m []string, counts ...string) []string {
	return append(m, counts...)
}

func TestRun_2014Standings(t *testing.T) {
	raw := rawTable(t, []string{"LANDS", "CREATURES"},
		withCounts(meta("Patrick Chapin", "Worlds 2014", "Other", "04/12/14"), "24", "4"),
		withCounts(meta("Shahar Shenhar", "Worlds 2014", "3-4", "04/12/14"), "25", "0"),
		withCounts(meta("Somebody Else", "Worlds 2014", "1", "04/12/14"), "23", "12"),
	)

	res, err := New().Run(raw)
	require.NoError(t, err)

	byPlayer := make(map[string]deck.Rank)
	for _, r := range res.Records {
		byPlayer[r.Player] = r.Rank
	}
	require.Equal(t, deck.RankSecond, byPlayer["Patrick Chapin"])
	require.Equal(t, deck.RankFirst, byPlayer["Shahar Shenhar"])
	require.NotContains(t, byPlayer, "Somebody Else", "2014 ranks are reset before overrides")
	require.Equal(t, 3, res.Report.RanksReset)
}

func TestRun_LandsCollapse(t *testing.T) {
	raw := rawTable(t, []string{"LANDS_(26)", "LANDS_(27)", "LANDS", "CREATURES", "INSTANTS_and_SORC.", "OTHER_SPELLS"},
		withCounts(meta("Paul McCabe", "Worlds 1997", "3-4", "17/08/97"), "", "24", "", "20", "12", "4"),
	)

	res, err := New().Run(raw)
	require.NoError(t, err)
	require.Len(t, res.Records, 1)

	got := res.Records[0]
	require.Equal(t, 24, got.Lands)
	require.Equal(t, deck.RankThird, got.Rank)
	require.Equal(t, 60, got.Total())

	for _, c := range res.Table.Columns() {
		require.NotContains(t, c, "LANDS")
	}
	require.Equal(t, CanonicalColumns, res.Table.Columns())
}

func TestRun_LandsConflictKeepsLast(t *testing.T) {
	raw := rawTable(t, []string{"LANDS", "LANDS_(27)"},
		withCounts(meta("Jon Finkel", "Worlds 1998", "3-4", "16/08/98"), "22", "24"),
	)

	res, err := New().Run(raw)
	require.NoError(t, err)
	require.Equal(t, 24, res.Records[0].Lands)
	require.Equal(t, 1, res.Report.LandsConflicts)
}

func TestRun_DualFacedAsLands(t *testing.T) {
	raw := rawTable(t, []string{"LANDS", "LANDS_(28)", "LANDS_(26)"},
		withCounts(meta("Oliver Tiu", "Worlds 2016", "3-4", "04/09/16"), "", "25", ""),
		withCounts(meta("Brian Braun-Duin", "Worlds 2016", "1", "04/09/16"), "23", "", ""),
	)

	n := New()
	n.DualFacedAsLands = true
	res, err := n.Run(raw)
	require.NoError(t, err)
	require.Len(t, res.Records, 2)
	require.Equal(t, 28, res.Records[0].Lands)
	require.Equal(t, 23, res.Records[1].Lands)
}

func TestRun_EventFilter(t *testing.T) {
	raw := rawTable(t, []string{"LANDS"},
		withCounts(meta("Team Player", "World Magic Cup 2015", "1", "13/12/15"), "24"),
		withCounts(meta("Day One", "Worlds 2009 Undefeated", "1", "19/11/09"), "24"),
		withCounts(meta("Points", "Worlds 15 points", "1", "19/11/09"), "24"),
		withCounts(meta("Seth Manfield", "Worlds 2015", "1", "29/08/15"), "24"),
	)

	res, err := New().Run(raw)
	require.NoError(t, err)
	require.Equal(t, 3, res.Report.DroppedEvents)
	require.Len(t, res.Records, 1)
	require.Equal(t, "Seth Manfield", res.Records[0].Player)
}

func TestRun_MissingCategoryIsZero(t *testing.T) {
	raw := rawTable(t, []string{"LANDS", "CREATURES", "OTHER_SPELLS"},
		withCounts(meta("Kai Budde", "Worlds 1999", "1", "08/08/99"), "22", "16", ""),
	)

	res, err := New().Run(raw)
	require.NoError(t, err)
	require.Len(t, res.Records, 1)
	require.Equal(t, 0, res.Records[0].OtherSpells)
	require.Equal(t, 0, res.Records[0].InstantsSorceries, "absent column is added and zero-filled")
	require.Equal(t, "0", res.Table.Get(0, ColOtherSpells))
}

func TestRun_NoLandsDropped(t *testing.T) {
	raw := rawTable(t, []string{"LANDS", "CREATURES"},
		withCounts(meta("Unknown Deck", "Worlds 2003", "1", "10/08/03"), "", "20"),
		withCounts(meta("Daniel Zink", "Worlds 2003", "1", "10/08/03"), "22", "20"),
	)

	res, err := New().Run(raw)
	require.NoError(t, err)
	require.Equal(t, 1, res.Report.DroppedNoLands)
	require.Len(t, res.Records, 1)
	require.Equal(t, "Daniel Zink", res.Records[0].Player)
}

func TestRun_RankFilter(t *testing.T) {
	raw := rawTable(t, []string{"LANDS"},
		withCounts(meta("Top Eight", "Worlds 2005", "5-8", "04/12/05"), "24"),
		withCounts(meta("Not Ranked", "Worlds 2005", "", "04/12/05"), "24"),
		withCounts(meta("Day 1", "Worlds 2005", "Day 1 undefeated", "04/12/05"), "24"),
		withCounts(meta("Unsplit Tie", "Worlds 2005", "3-4", "04/12/05"), "24"),
		withCounts(meta("Katsuhiro Mori", "Worlds 2005", "1", "04/12/05"), "24"),
	)

	res, err := New().Run(raw)
	require.NoError(t, err)
	require.Equal(t, 4, res.Report.DroppedRanks)
	require.Equal(t, 1, res.Report.UnresolvedTies)
	require.Len(t, res.Records, 1)
}

func TestRun_NameCorrectionAfterRank(t *testing.T) {
	raw := rawTable(t, []string{"LANDS"},
		withCounts(meta("Ben Stark", "Worlds 2013", "3-4", "01/08/13"), "24"),
		withCounts(meta("Josh Utter-leyton", "Worlds 2017", "3-4", "08/10/17"), "24"),
	)

	res, err := New().Run(raw)
	require.NoError(t, err)
	require.Len(t, res.Records, 2)

	require.Equal(t, "Benjamin Stark", res.Records[0].Player)
	require.Equal(t, deck.RankThird, res.Records[0].Rank)
	require.Equal(t, "Josh Utter-Leyton", res.Records[1].Player)
	require.Equal(t, deck.RankThird, res.Records[1].Rank)
	require.Equal(t, 2, res.Report.NamesCorrected)
}

func TestRun_AuditSuggestsClosestPlayer(t *testing.T) {
	raw := rawTable(t, []string{"LANDS"},
		withCounts(meta("Jon Finkel", "Worlds 1998", "3-4", "16/08/98"), "24"),
		withCounts(meta("Brian Selden", "Worlds 1998", "1", "16/08/98"), "24"),
	)

	n := &Normalizer{Overrides: Overrides{
		Ranks: []RankOverride{{1998, "Jon Finkle", "3"}},
	}}
	res, err := n.Run(raw)
	require.NoError(t, err)

	require.Len(t, res.Report.Audit, 1)
	entry := res.Report.Audit[0]
	require.Equal(t, "rank", entry.Kind)
	require.Equal(t, "Jon Finkle", entry.Player)
	require.Equal(t, "Jon Finkel", entry.Suggestion)
	require.Greater(t, entry.Similarity, 0.9)

	// The unmatched override leaves the tie unresolved.
	require.Len(t, res.Records, 1)
	require.Equal(t, "Brian Selden", res.Records[0].Player)
}

func TestRun_Idempotent(t *testing.T) {
	raw := rawTable(t, []string{"LANDS_(27)", "LANDS", "CREATURES", "INSTANTS_and_SORC.", "OTHER_SPELLS", "SIDEBOARD"},
		withCounts(meta("Alpha", "Worlds 2010", "1", "21/11/10"), "", "24", "12", "20", "4", "15"),
		withCounts(meta("Beta", "Worlds 2010", "2", "21/11/10"), "24", "", "", "30", "6", "15"),
		withCounts(meta("Paulo Vitor Damo da Rosa", "Worlds 2010", "3-4", "21/11/10"), "", "23", "16", "", "21", "15"),
	)

	render := func() []byte {
		res, err := New().Run(raw)
		require.NoError(t, err)
		var buf bytes.Buffer
		require.NoError(t, res.Table.WriteCSV(&buf))
		return buf.Bytes()
	}

	first := render()
	second := render()
	require.Equal(t, first, second)
	require.True(t, strings.HasPrefix(string(first), "Player,Event,Rank,Date,Lands,Creatures,Instants_Sorceries,Other_spells\n"))
}

func TestRun_DoesNotModifyInput(t *testing.T) {
	raw := rawTable(t, []string{"LANDS"},
		withCounts(meta("Kai Budde", "Worlds 1999", "1", "08/08/99"), "22"),
	)
	before := raw.Clone()

	_, err := New().Run(raw)
	require.NoError(t, err)
	if diff := cmp.Diff(before.Columns(), raw.Columns()); diff != "" {
		t.Errorf("columns changed (-before +after):\n%s", diff)
	}
	require.Equal(t, before.Row(0), raw.Row(0))
}

func TestRun_Errors(t *testing.T) {
	t.Run("bad date", func(t *testing.T) {
		raw := rawTable(t, []string{"LANDS"},
			withCounts(meta("Kai Budde", "Worlds 1999", "1", "1999-08-08"), "22"),
		)
		_, err := New().Run(raw)
		require.Error(t, err)
		require.Contains(t, err.Error(), "Kai Budde")
	})

	t.Run("missing column", func(t *testing.T) {
		raw := dataset.New("Player", "Event", "Date")
		_, err := New().Run(raw)
		if !errors.Is(err, ErrMissingColumn) {
			t.Fatalf("Run() error = %v, want ErrMissingColumn", err)
		}
	})

	t.Run("bad count", func(t *testing.T) {
		raw := rawTable(t, []string{"LANDS", "CREATURES"},
			withCounts(meta("Kai Budde", "Worlds 1999", "1", "08/08/99"), "22", "lots"),
		)
		_, err := New().Run(raw)
		require.Error(t, err)
	})
}

func TestRun_UnknownCategoryDropped(t *testing.T) {
	raw := rawTable(t, []string{"LANDS", "PLANESWALKERS"},
		withCounts(meta("Kai Budde", "Worlds 1999", "1", "08/08/99"), "22", "3"),
	)

	res, err := New().Run(raw)
	require.NoError(t, err)
	require.Equal(t, []string{"PLANESWALKERS"}, res.Report.DroppedColumns)
	require.Equal(t, CanonicalColumns, res.Table.Columns())
}

func TestTableRecordsRoundTrip(t *testing.T) {
	records := []deck.Record{
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

	table, err := Table(records)
	require.NoError(t, err)
	require.Equal(t, CanonicalColumns, table.Columns())
	require.Equal(t, 2, table.Len())

	var buf bytes.Buffer
	require.NoError(t, table.WriteCSV(&buf))

	tbl, err := dataset.ReadCSV(&buf)
	require.NoError(t, err)
	got, err := Records(tbl)
	require.NoError(t, err)

	if diff := cmp.Diff(records, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestParseCount(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"24", 24, false},
		{"24.0", 24, false},
		{" 0 ", 0, false},
		{"-1", 0, true},
		{"2.5", 0, true},
		{"NaN", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseCount(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseCount(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("parseCount(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestDefaultOverrides(t *testing.T) {
	o := DefaultOverrides()
	require.Equal(t, []int{2014}, o.ResetYears)
	require.Len(t, o.Ranks, 47)
	require.Len(t, o.Names, 2)

	seen := make(map[RankOverride]bool)
	for _, r := range o.Ranks {
		require.False(t, seen[r], "duplicate override %v", r)
		seen[r] = true
		_, err := deck.ParseRank(r.Rank)
		require.NoError(t, err)
	}
}
