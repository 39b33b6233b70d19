// Package export writes the canonical records to SQLite and XLSX files.
//
// The SQLite schema is versioned with embedded golang-migrate migrations and
// every export replaces the contents of the decks table, so exporting the
// same records twice leaves an identical database.
package export
