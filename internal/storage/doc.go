// Package storage persists the pipeline's checkpoint files.
//
// The raw checkpoint (raw_magic.csv) holds the assembled scrape and doubles as
// a cache: when it exists the scrape is skipped and the file is trusted as-is.
// The canonical checkpoint (magic.csv) holds the normalized records, and
// run.json records what the last run did. Files are written to a temporary
// file in the data directory and renamed into place, so an interrupted run
// never leaves a half-written checkpoint behind.
package storage
