package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/pfrederiksen/mtg-worlds/internal/deck"
	"github.com/pfrederiksen/mtg-worlds/internal/normalize"
	"github.com/pfrederiksen/mtg-worlds/internal/pipeline"
	"github.com/pfrederiksen/mtg-worlds/internal/scraper"
	"github.com/pfrederiksen/mtg-worlds/internal/storage"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// writeJSON outputs a value as indented JSON
func writeJSON(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	return t
}

func rightAligned(numbers ...int) []table.ColumnConfig {
	configs := make([]table.ColumnConfig, len(numbers))
	for i, n := range numbers {
		configs[i] = table.ColumnConfig{Number: n, Align: text.AlignRight}
	}
	return configs
}

// WriteRun writes the outcome of a full pipeline run.
func WriteRun(w io.Writer, summary *storage.RunSummary, format OutputFormat, verbose bool) error {
	if format == FormatJSON {
		return writeJSON(w, summary)
	}

	if summary.Scraped {
		writeYears(w, summary.Years)
	} else {
		fmt.Fprintln(w, "Raw checkpoint found, scrape skipped.")
	}
	writeReportText(w, &summary.Normalize, verbose)
	return nil
}

// scrapeOutput is the JSON shape of the scrape command.
type scrapeOutput struct {
	Scraped bool                `json:"scraped"`
	Path    string              `json:"path"`
	Rows    int                 `json:"rows"`
	Years   []scraper.YearStats `json:"years,omitempty"`
}

// WriteScrape writes the outcome of the scrape stage.
func WriteScrape(w io.Writer, result *pipeline.ScrapeResult, path string, format OutputFormat) error {
	if format == FormatJSON {
		return writeJSON(w, scrapeOutput{Scraped: result.Scraped, Path: path, Rows: result.Rows, Years: result.Years})
	}

	if !result.Scraped {
		fmt.Fprintf(w, "Raw checkpoint %s already exists, scrape skipped.\n", path)
		return nil
	}
	writeYears(w, result.Years)
	fmt.Fprintf(w, "Wrote %d rows to %s\n", result.Rows, path)
	return nil
}

func writeYears(w io.Writer, years []scraper.YearStats) {
	t := newTable(w)
	t.AppendHeader(table.Row{"Year", "Pages", "Rows", "Decks", "Stop", "Error"})
	for _, y := range years {
		t.AppendRow(table.Row{y.Year, y.Pages, y.Rows, y.Decks, string(y.Stop), y.Err})
	}
	t.SetColumnConfigs(rightAligned(2, 3, 4))
	t.Render()
}

// WriteReport writes the outcome of the clean stage.
func WriteReport(w io.Writer, report *normalize.Report, path string, format OutputFormat) error {
	if format == FormatJSON {
		return writeJSON(w, struct {
			Path   string            `json:"path"`
			Report *normalize.Report `json:"report"`
		}{path, report})
	}

	writeReportText(w, report, true)
	fmt.Fprintf(w, "Wrote %d decks to %s\n", report.RowsOut, path)
	return nil
}

func writeReportText(w io.Writer, report *normalize.Report, verbose bool) {
	t := newTable(w)
	t.AppendHeader(table.Row{"Step", "Rows"})
	t.AppendRow(table.Row{"raw rows", report.RowsIn})
	t.AppendRow(table.Row{"dropped: team or alternate event", report.DroppedEvents})
	t.AppendRow(table.Row{"dropped: rank outside top four", report.DroppedRanks})
	t.AppendRow(table.Row{"dropped: lands unknown", report.DroppedNoLands})
	if verbose {
		t.AppendRow(table.Row{"ranks reset", report.RanksReset})
		t.AppendRow(table.Row{"ranks overridden", report.RanksOverridden})
		t.AppendRow(table.Row{"names corrected", report.NamesCorrected})
		t.AppendRow(table.Row{"unresolved 3-4 ties", report.UnresolvedTies})
		t.AppendRow(table.Row{"lands conflicts", report.LandsConflicts})
	}
	t.AppendFooter(table.Row{"canonical decks", report.RowsOut})
	t.SetColumnConfigs(rightAligned(2))
	t.Render()

	if len(report.Audit) > 0 {
		a := newTable(w)
		a.SetTitle("Overrides that matched no row")
		a.AppendHeader(table.Row{"Kind", "Year", "Player", "Closest", "Similarity"})
		for _, e := range report.Audit {
			a.AppendRow(table.Row{e.Kind, e.Year, e.Player, e.Suggestion, fmt.Sprintf("%.2f", e.Similarity)})
		}
		a.Render()
	}
}

// WriteExport lists the files written by the export stage.
func WriteExport(w io.Writer, paths []string, format OutputFormat) error {
	if format == FormatJSON {
		return writeJSON(w, struct {
			Files []string `json:"files"`
		}{paths})
	}
	for _, p := range paths {
		fmt.Fprintf(w, "Wrote %s\n", p)
	}
	return nil
}

// WriteSummary writes the per-rank and per-year overview.
func WriteSummary(w io.Writer, s *Summary, format OutputFormat) error {
	if format == FormatJSON {
		return writeJSON(w, s)
	}

	if s.Filter != "" {
		fmt.Fprintf(w, "Filter: %s\n", s.Filter)
	}
	if s.Total == 0 {
		fmt.Fprintln(w, "No decks found.")
		return nil
	}

	header := table.Row{"", "Decks", "Lands", "Creatures", "Instants & Sorceries", "Other spells"}

	r := newTable(w)
	r.SetTitle("By rank")
	r.AppendHeader(header)
	for _, rs := range s.ByRank {
		r.AppendRow(meansRow(rs.Rank.String(), rs.Decks, rs.Means))
	}
	r.AppendFooter(meansRow("all", s.Total, s.Overall))
	r.SetColumnConfigs(rightAligned(2, 3, 4, 5, 6))
	r.Render()

	y := newTable(w)
	y.SetTitle("By year")
	y.AppendHeader(header)
	for _, ys := range s.ByYear {
		y.AppendRow(meansRow(fmt.Sprint(ys.Year), ys.Decks, ys.Means))
	}
	y.SetColumnConfigs(rightAligned(2, 3, 4, 5, 6))
	y.Render()

	if len(s.Decks) > 0 {
		writeDecks(w, s.Decks)
	}
	return nil
}

func meansRow(label string, decks int, m Means) table.Row {
	return table.Row{
		label, decks,
		fmt.Sprintf("%.2f", m.Lands),
		fmt.Sprintf("%.2f", m.Creatures),
		fmt.Sprintf("%.2f", m.InstantsSorceries),
		fmt.Sprintf("%.2f", m.OtherSpells),
	}
}

func writeDecks(w io.Writer, records []deck.Record) {
	t := newTable(w)
	t.SetTitle("Decks")
	t.AppendHeader(table.Row{"Date", "Rank", "Player", "Event", "Lands", "Creatures", "Inst/Sorc", "Other"})
	for _, r := range records {
		t.AppendRow(table.Row{
			deck.FormatCanonicalDate(r.Date), r.Rank.String(), r.Player, r.Event,
			r.Lands, r.Creatures, r.InstantsSorceries, r.OtherSpells,
		})
	}
	t.SetColumnConfigs(rightAligned(2, 5, 6, 7, 8))
	t.Render()
}
