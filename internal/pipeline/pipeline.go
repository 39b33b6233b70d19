package pipeline

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/pfrederiksen/mtg-worlds/internal/assembler"
	"github.com/pfrederiksen/mtg-worlds/internal/config"
	"github.com/pfrederiksen/mtg-worlds/internal/dataset"
	"github.com/pfrederiksen/mtg-worlds/internal/export"
	"github.com/pfrederiksen/mtg-worlds/internal/logger"
	"github.com/pfrederiksen/mtg-worlds/internal/normalize"
	"github.com/pfrederiksen/mtg-worlds/internal/scraper"
	"github.com/pfrederiksen/mtg-worlds/internal/storage"
)

// Options control a pipeline run.
type Options struct {
	// ForceScrape scrapes even when the raw checkpoint exists, replacing it.
	ForceScrape bool
}

// Pipeline runs the stages against one configuration.
type Pipeline struct {
	cfg        *config.Config
	store      *storage.Storage
	scraper    *scraper.Scraper
	normalizer *normalize.Normalizer
}

// New builds a Pipeline from cfg, creating the data directory.
func New(cfg *config.Config) (*Pipeline, error) {
	timeout, err := cfg.TimeoutDuration()
	if err != nil {
		return nil, err
	}
	delay, err := cfg.RequestDelayDuration()
	if err != nil {
		return nil, err
	}

	s, err := scraper.New(scraper.Options{
		BaseURL:      cfg.Scrape.BaseURL,
		Timeout:      timeout,
		RequestDelay: delay,
		UserAgent:    cfg.Scrape.UserAgent,
		Search: scraper.SearchParams{
			EventTitle:       cfg.Scrape.EventTitle,
			Format:           cfg.Scrape.Format,
			CompetitiveLevel: cfg.Scrape.CompetitiveLevel,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("creating scraper: %w", err)
	}

	store, err := storage.New(cfg.Data.Dir)
	if err != nil {
		return nil, err
	}
	store.WithFiles(cfg.Data.RawFile, cfg.Data.CanonicalFile)

	n := normalize.New()
	n.DualFacedAsLands = cfg.Clean.DualFacedAsLands

	return &Pipeline{cfg: cfg, store: store, scraper: s, normalizer: n}, nil
}

// Storage returns the checkpoint store.
func (p *Pipeline) Storage() *storage.Storage {
	return p.store
}

// ScrapeResult describes the scrape stage.
type ScrapeResult struct {
	Scraped bool
	Years   []scraper.YearStats
	Rows    int
}

// Scrape produces the raw checkpoint. Unless force is set, an existing raw
// file is kept and nothing is fetched.
func (p *Pipeline) Scrape(ctx context.Context, force bool) (*ScrapeResult, error) {
	result := &ScrapeResult{}

	compute := func() (*dataset.Table, error) {
		acc := assembler.New()
		years, err := p.scraper.ScrapeYears(ctx, p.cfg.Years(), acc)
		result.Years = years
		if err != nil {
			return nil, fmt.Errorf("scraping: %w", err)
		}
		raw, err := acc.Assemble()
		if err != nil {
			return nil, fmt.Errorf("assembling raw table: %w", err)
		}
		result.Rows = raw.Len()
		logger.SetGauge("rows.raw", float64(raw.Len()))
		return raw, nil
	}

	if force {
		raw, err := compute()
		if err != nil {
			return result, err
		}
		result.Scraped = true
		return result, p.store.WriteRaw(raw)
	}

	ran, err := p.store.EnsureRaw(compute)
	result.Scraped = ran
	return result, err
}

// Clean reloads the raw checkpoint from disk, normalizes it and writes the
// canonical checkpoint.
func (p *Pipeline) Clean() (*normalize.Result, error) {
	raw, err := p.store.ReadRaw()
	if err != nil {
		return nil, fmt.Errorf("loading raw checkpoint: %w", err)
	}

	result, err := p.normalizer.Run(raw)
	if err != nil {
		return nil, fmt.Errorf("normalizing: %w", err)
	}

	if err := p.store.WriteCanonical(result.Records); err != nil {
		return nil, fmt.Errorf("writing canonical checkpoint: %w", err)
	}
	logger.SetGauge("rows.canonical", float64(len(result.Records)))
	logger.Info("wrote canonical checkpoint", logger.Fields{
		"path": p.store.CanonicalPath(),
		"rows": len(result.Records),
	})
	return result, nil
}

// Run scrapes if needed, cleans, and records a run summary.
func (p *Pipeline) Run(ctx context.Context, opts Options) (*storage.RunSummary, error) {
	scraped, err := p.Scrape(ctx, opts.ForceScrape)
	if err != nil {
		return nil, err
	}

	cleaned, err := p.Clean()
	if err != nil {
		return nil, err
	}

	summary := &storage.RunSummary{
		Scraped:       scraped.Scraped,
		Years:         scraped.Years,
		RawRows:       cleaned.Report.RowsIn,
		CanonicalRows: cleaned.Report.RowsOut,
		Normalize:     cleaned.Report,
		Metrics:       logger.GetMetricsSnapshot(),
	}
	if err := p.store.SaveRunSummary(summary); err != nil {
		return nil, err
	}

	logger.Info("run complete", logger.Fields{
		"scraped":        summary.Scraped,
		"raw_rows":       summary.RawRows,
		"canonical_rows": summary.CanonicalRows,
		"metrics":        summary.Metrics,
	})
	return summary, nil
}

// ExportTargets selects the export formats.
type ExportTargets struct {
	SQLite bool
	XLSX   bool
}

// Export writes the canonical checkpoint to the selected formats and returns
// the paths written.
func (p *Pipeline) Export(ctx context.Context, targets ExportTargets) ([]string, error) {
	records, err := p.store.ReadCanonical()
	if err != nil {
		return nil, fmt.Errorf("loading canonical checkpoint: %w", err)
	}

	var written []string
	if targets.SQLite {
		path := filepath.Join(p.store.Dir(), p.cfg.Data.SQLiteFile)
		if err := export.SQLite(ctx, path, records); err != nil {
			return written, fmt.Errorf("exporting SQLite: %w", err)
		}
		written = append(written, path)
	}
	if targets.XLSX {
		path := filepath.Join(p.store.Dir(), p.cfg.Data.XLSXFile)
		if err := export.XLSX(path, records); err != nil {
			return written, fmt.Errorf("exporting XLSX: %w", err)
		}
		written = append(written, path)
	}
	return written, nil
}
