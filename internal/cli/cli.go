package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"github.com/pfrederiksen/mtg-worlds/internal/config"
	"github.com/pfrederiksen/mtg-worlds/internal/filter"
	"github.com/pfrederiksen/mtg-worlds/internal/logger"
	"github.com/pfrederiksen/mtg-worlds/internal/pipeline"
	"github.com/pfrederiksen/mtg-worlds/internal/scraper"
)

const (
	ExitSuccess = 0
	ExitError   = 1
	// ExitPartial means the run finished but at least one year stopped on a failed page.
	ExitPartial = 2
)

// errPartialScrape marks a completed run in which some year failed.
var errPartialScrape = errors.New("some years stopped on a failed listing page")

var (
	flagConfig      string
	flagDataDir     string
	flagFormat      string
	flagVerbose     bool
	flagForceScrape bool
	flagSort        string
	flagList        bool
	flagSQLite      bool
	flagXLSX        bool
	flagYears       string
	flagPlayers     string
	flagEvents      string
	flagRanks       string
	flagWrite       bool
)

// NewRootCmd creates the root command. Without a subcommand it runs the full pipeline.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mtgworlds",
		Short: "Build a deck-composition dataset of the Magic World Championships",
		Long: `Scrapes the top finishing decks of the Magic: The Gathering World
Championships (standard format) from mtgtop8.com, applies the known historical
corrections and writes an analysis-ready table to the data directory.

The raw scrape is cached in raw_magic.csv; delete it or pass --force-scrape
to fetch again.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runPipeline,
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&flagConfig, "config", "config.toml", "Path to TOML config file (optional)")
	pf.StringVar(&flagDataDir, "data-dir", "", "Data directory for checkpoints (overrides config)")
	pf.StringVar(&flagFormat, "format", "text", "Output format: text or json")
	pf.BoolVar(&flagVerbose, "verbose", false, "Enable debug logging")

	cmd.Flags().BoolVar(&flagForceScrape, "force-scrape", false, "Scrape even if the raw checkpoint exists")

	cmd.AddCommand(newRunCmd(), newScrapeCmd(), newCleanCmd(), newExportCmd(), newSummaryCmd(), newConfigCmd())
	return cmd
}

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Scrape if needed, clean and write the canonical table",
		RunE:  runPipeline,
	}
	cmd.Flags().BoolVar(&flagForceScrape, "force-scrape", false, "Scrape even if the raw checkpoint exists")
	return cmd
}

func newScrapeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Write the raw checkpoint from mtgtop8.com",
		RunE:  runScrape,
	}
	cmd.Flags().BoolVar(&flagForceScrape, "force-scrape", false, "Scrape even if the raw checkpoint exists")
	return cmd
}

func newCleanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clean",
		Short: "Normalize the raw checkpoint into the canonical table",
		RunE:  runClean,
	}
}

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the canonical table to SQLite and/or XLSX",
		RunE:  runExport,
	}
	cmd.Flags().BoolVar(&flagSQLite, "sqlite", true, "Write the SQLite database")
	cmd.Flags().BoolVar(&flagXLSX, "xlsx", true, "Write the XLSX workbook")
	return cmd
}

func newSummaryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Describe the canonical table per rank and per year",
		RunE:  runSummary,
	}
	cmd.Flags().BoolVar(&flagList, "list", false, "Also list every deck")
	cmd.Flags().StringVar(&flagSort, "sort", string(SortByDate), "Deck list order: date, rank or player")
	cmd.Flags().StringVar(&flagYears, "years", "", "Year range, e.g. 1997, 1994-2002 or 2010-")
	cmd.Flags().StringVar(&flagPlayers, "player", "", "Comma-separated player name substrings")
	cmd.Flags().StringVar(&flagEvents, "event", "", "Comma-separated event name substrings")
	cmd.Flags().StringVar(&flagRanks, "rank", "", "Comma-separated ranks, e.g. 1,2")
	return cmd
}

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as TOML",
		RunE:  runConfig,
	}
	cmd.Flags().BoolVar(&flagWrite, "write", false, "Write the effective configuration to the --config path")
	return cmd
}

// setup loads configuration, applies flag overrides and configures logging.
func setup() (*config.Config, OutputFormat, error) {
	format := OutputFormat(strings.ToLower(flagFormat))
	if format != FormatText && format != FormatJSON {
		return nil, "", fmt.Errorf("invalid format: %s (must be 'text' or 'json')", flagFormat)
	}

	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, "", fmt.Errorf("loading config: %w", err)
	}
	if flagDataDir != "" {
		cfg.Data.Dir = flagDataDir
	}

	level, err := logger.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, "", fmt.Errorf("log.level: %w", err)
	}
	if flagVerbose {
		level = logger.LevelDebug
	}
	logger.SetDefault(logger.New(level, os.Stderr))

	return cfg, format, nil
}

func newPipeline() (*pipeline.Pipeline, OutputFormat, error) {
	cfg, format, err := setup()
	if err != nil {
		return nil, "", err
	}
	p, err := pipeline.New(cfg)
	if err != nil {
		return nil, "", fmt.Errorf("initializing pipeline: %w", err)
	}
	return p, format, nil
}

func runPipeline(cmd *cobra.Command, args []string) error {
	p, format, err := newPipeline()
	if err != nil {
		return err
	}

	summary, err := p.Run(cmd.Context(), pipeline.Options{ForceScrape: flagForceScrape})
	if err != nil {
		return err
	}

	if err := WriteRun(cmd.OutOrStdout(), summary, format, flagVerbose); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return partial(summary.Years)
}

func runScrape(cmd *cobra.Command, args []string) error {
	p, format, err := newPipeline()
	if err != nil {
		return err
	}

	result, err := p.Scrape(cmd.Context(), flagForceScrape)
	if err != nil {
		return err
	}

	if err := WriteScrape(cmd.OutOrStdout(), result, p.Storage().RawPath(), format); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return partial(result.Years)
}

func runClean(cmd *cobra.Command, args []string) error {
	p, format, err := newPipeline()
	if err != nil {
		return err
	}

	result, err := p.Clean()
	if err != nil {
		return err
	}
	return WriteReport(cmd.OutOrStdout(), &result.Report, p.Storage().CanonicalPath(), format)
}

func runExport(cmd *cobra.Command, args []string) error {
	if !flagSQLite && !flagXLSX {
		return fmt.Errorf("nothing to export: both --sqlite and --xlsx are disabled")
	}

	p, format, err := newPipeline()
	if err != nil {
		return err
	}

	paths, err := p.Export(cmd.Context(), pipeline.ExportTargets{SQLite: flagSQLite, XLSX: flagXLSX})
	if err != nil {
		return err
	}
	return WriteExport(cmd.OutOrStdout(), paths, format)
}

func runSummary(cmd *cobra.Command, args []string) error {
	order := SortOrder(strings.ToLower(flagSort))
	if !order.Valid() {
		return fmt.Errorf("invalid sort order: %s (must be 'date', 'rank' or 'player')", flagSort)
	}

	f, err := buildFilter()
	if err != nil {
		return err
	}

	p, format, err := newPipeline()
	if err != nil {
		return err
	}

	records, err := p.Storage().ReadCanonical()
	if err != nil {
		return fmt.Errorf("loading canonical table: %w", err)
	}
	records = f.Apply(records)

	summary := Summarize(records)
	if !f.IsEmpty() {
		summary.Filter = f.Description()
	}
	if flagList {
		sortRecords(records, order)
		summary.Decks = records
	}
	return WriteSummary(cmd.OutOrStdout(), summary, format)
}

func runConfig(cmd *cobra.Command, args []string) error {
	cfg, _, err := setup()
	if err != nil {
		return err
	}

	if flagWrite {
		if err := cfg.Save(flagConfig); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", flagConfig)
		return nil
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}

// buildFilter turns the summary flags into a record filter.
func buildFilter() (*filter.Filter, error) {
	f := filter.NewFilter()
	if flagYears != "" {
		from, to, err := filter.ParseYearRange(flagYears)
		if err != nil {
			return nil, err
		}
		f.YearFrom, f.YearTo = from, to
	}
	if flagRanks != "" {
		ranks, err := filter.ParseRanks(flagRanks)
		if err != nil {
			return nil, fmt.Errorf("--rank: %w", err)
		}
		f.Ranks = ranks
	}
	f.Players = filter.ParseList(flagPlayers)
	f.Events = filter.ParseList(flagEvents)
	return f, nil
}

// partial reports errPartialScrape when any year stopped on a failure.
func partial(years []scraper.YearStats) error {
	for _, y := range years {
		if y.Stop == scraper.StopFailed {
			return errPartialScrape
		}
	}
	return nil
}

// Execute runs the CLI until completion or until interrupted.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := NewRootCmd().ExecuteContext(ctx)
	stop()

	switch {
	case err == nil:
		os.Exit(ExitSuccess)
	case errors.Is(err, errPartialScrape):
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		os.Exit(ExitPartial)
	default:
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitError)
	}
}
