package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pfrederiksen/mtg-worlds/internal/dataset"
	"github.com/pfrederiksen/mtg-worlds/internal/deck"
	"github.com/pfrederiksen/mtg-worlds/internal/logger"
	"github.com/pfrederiksen/mtg-worlds/internal/normalize"
	"github.com/pfrederiksen/mtg-worlds/internal/scraper"
)

// Default file names inside the data directory.
const (
	DefaultRawFile       = "raw_magic.csv"
	DefaultCanonicalFile = "magic.csv"
	RunSummaryFile       = "run.json"
)

// Storage handles the checkpoint files of one data directory.
type Storage struct {
	dataDir       string
	rawFile       string
	canonicalFile string
}

// New creates a Storage rooted at dataDir, creating the directory if needed.
func New(dataDir string) (*Storage, error) {
	// Expand ~ to home directory
	if strings.HasPrefix(dataDir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, dataDir[2:])
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	return &Storage{
		dataDir:       dataDir,
		rawFile:       DefaultRawFile,
		canonicalFile: DefaultCanonicalFile,
	}, nil
}

// WithFiles overrides the raw and canonical file names. Empty names keep the defaults.
func (s *Storage) WithFiles(raw, canonical string) *Storage {
	if raw != "" {
		s.rawFile = raw
	}
	if canonical != "" {
		s.canonicalFile = canonical
	}
	return s
}

// Dir returns the data directory.
func (s *Storage) Dir() string {
	return s.dataDir
}

// RawPath returns the path of the raw checkpoint.
func (s *Storage) RawPath() string {
	return filepath.Join(s.dataDir, s.rawFile)
}

// CanonicalPath returns the path of the canonical checkpoint.
func (s *Storage) CanonicalPath() string {
	return filepath.Join(s.dataDir, s.canonicalFile)
}

// Exists reports whether path exists. Other stat errors are returned.
func Exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("checking %s: %w", path, err)
}

// ComputeIfAbsent writes the table produced by compute to path unless path
// already exists. The file's existence is the only cache key; an existing
// file is never validated or refreshed. It reports whether compute ran.
func ComputeIfAbsent(path string, compute func() (*dataset.Table, error)) (bool, error) {
	exists, err := Exists(path)
	if err != nil {
		return false, err
	}
	if exists {
		logger.Info("checkpoint exists, skipping computation", logger.Fields{"path": path})
		return false, nil
	}

	t, err := compute()
	if err != nil {
		return true, err
	}
	if err := WriteTable(path, t); err != nil {
		return true, err
	}
	return true, nil
}

// EnsureRaw runs scrape only when the raw checkpoint is absent.
func (s *Storage) EnsureRaw(scrape func() (*dataset.Table, error)) (bool, error) {
	return ComputeIfAbsent(s.RawPath(), scrape)
}

// WriteRaw overwrites the raw checkpoint.
func (s *Storage) WriteRaw(t *dataset.Table) error {
	return WriteTable(s.RawPath(), t)
}

// ReadRaw loads the raw checkpoint from disk.
func (s *Storage) ReadRaw() (*dataset.Table, error) {
	return ReadTable(s.RawPath())
}

// WriteCanonical writes records as the canonical checkpoint.
func (s *Storage) WriteCanonical(records []deck.Record) error {
	t, err := normalize.Table(records)
	if err != nil {
		return err
	}
	return WriteTable(s.CanonicalPath(), t)
}

// ReadCanonical loads and parses the canonical checkpoint.
func (s *Storage) ReadCanonical() ([]deck.Record, error) {
	t, err := ReadTable(s.CanonicalPath())
	if err != nil {
		return nil, err
	}
	records, err := normalize.Records(t)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", s.CanonicalPath(), err)
	}
	return records, nil
}

// ReadTable reads a CSV checkpoint.
func ReadTable(path string) (*dataset.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening checkpoint: %w", err)
	}
	defer f.Close()

	t, err := dataset.ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return t, nil
}

// WriteTable writes t as CSV to path through a temporary file and a rename.
func WriteTable(path string, t *dataset.Table) error {
	return writeAtomic(path, func(f *os.File) error {
		return t.WriteCSV(f)
	})
}

func writeAtomic(path string, write func(f *os.File) error) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if err := write(tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", tmpName, err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		return fmt.Errorf("setting permissions: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("renaming into %s: %w", path, err)
	}
	return nil
}

// RunSummary records the outcome of the last pipeline run.
type RunSummary struct {
	UpdatedAt     string              `json:"updated_at"`
	Scraped       bool                `json:"scraped"`
	Years         []scraper.YearStats `json:"years,omitempty"`
	RawRows       int                 `json:"raw_rows"`
	CanonicalRows int                 `json:"canonical_rows"`
	Normalize     normalize.Report    `json:"normalize"`
	Metrics       map[string]any      `json:"metrics,omitempty"`
}

// LoadRunSummary loads run.json. A missing file yields an empty summary.
func (s *Storage) LoadRunSummary() (*RunSummary, error) {
	data, err := os.ReadFile(filepath.Join(s.dataDir, RunSummaryFile))
	if err != nil {
		if os.IsNotExist(err) {
			return &RunSummary{}, nil
		}
		return nil, fmt.Errorf("reading run summary: %w", err)
	}

	var summary RunSummary
	if err := json.Unmarshal(data, &summary); err != nil {
		return nil, fmt.Errorf("parsing run summary: %w", err)
	}
	return &summary, nil
}

// SaveRunSummary stamps and writes run.json.
func (s *Storage) SaveRunSummary(summary *RunSummary) error {
	summary.UpdatedAt = time.Now().UTC().Format(time.RFC3339)

	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding run summary: %w", err)
	}

	return writeAtomic(filepath.Join(s.dataDir, RunSummaryFile), func(f *os.File) error {
		_, err := f.Write(data)
		return err
	})
}
