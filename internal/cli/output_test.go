package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pfrederiksen/mtg-worlds/internal/normalize"
	"github.com/pfrederiksen/mtg-worlds/internal/pipeline"
	"github.com/pfrederiksen/mtg-worlds/internal/scraper"
	"github.com/pfrederiksen/mtg-worlds/internal/storage"
)

func TestWriteSummary_Text(t *testing.T) {
	var buf bytes.Buffer
	s := Summarize(sampleRecords())
	s.Decks = sampleRecords()

	require.NoError(t, WriteSummary(&buf, s, FormatText))

	out := buf.String()
	for _, want := range []string{"By rank", "By year", "Decks", "1998", "22.50", "Kai Budde"} {
		require.Contains(t, out, want)
	}
}

func TestWriteSummary_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSummary(&buf, Summarize(sampleRecords()), FormatJSON))

	var decoded Summary
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Equal(t, 4, decoded.Total)
	require.Len(t, decoded.ByRank, 4)
	require.Nil(t, decoded.Decks)
}

func TestWriteSummary_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSummary(&buf, Summarize(nil), FormatText))
	require.Equal(t, "No decks found.\n", buf.String())
}

func TestWriteRun(t *testing.T) {
	summary := &storage.RunSummary{
		Scraped: true,
		Years: []scraper.YearStats{
			{Year: 1997, Pages: 1, Rows: 8, Decks: 8, Stop: scraper.StopExhausted},
			{Year: 1998, Stop: scraper.StopFailed, Err: "unexpected status code: 503"},
		},
		Normalize: normalize.Report{
			RowsIn: 8, RowsOut: 4, DroppedRanks: 4,
			Audit: []normalize.AuditEntry{{Kind: "rank", Year: 1998, Player: "Jon Finkle", Suggestion: "Jon Finkel", Similarity: 0.97}},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteRun(&buf, summary, FormatText, true))
	out := buf.String()
	require.Contains(t, out, "1998")
	require.Contains(t, out, "failed")
	require.Contains(t, out, "Jon Finkel")
	require.Contains(t, out, "0.97")

	buf.Reset()
	summary.Scraped = false
	require.NoError(t, WriteRun(&buf, summary, FormatText, false))
	require.True(t, strings.HasPrefix(buf.String(), "Raw checkpoint found, scrape skipped."))
	require.NotContains(t, buf.String(), "ranks overridden")
}

func TestWriteScrape(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteScrape(&buf, &pipeline.ScrapeResult{Scraped: false}, "data/raw_magic.csv", FormatText))
	require.Contains(t, buf.String(), "already exists")

	buf.Reset()
	result := &pipeline.ScrapeResult{Scraped: true, Rows: 12, Years: []scraper.YearStats{{Year: 2000, Pages: 2, Rows: 12, Decks: 12}}}
	require.NoError(t, WriteScrape(&buf, result, "data/raw_magic.csv", FormatJSON))

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Equal(t, true, decoded["scraped"])
	require.Equal(t, float64(12), decoded["rows"])
}

func TestWriteExport(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteExport(&buf, []string{"data/magic.db", "data/magic.xlsx"}, FormatText))
	require.Equal(t, "Wrote data/magic.db\nWrote data/magic.xlsx\n", buf.String())
}
