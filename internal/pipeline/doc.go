// Package pipeline wires the scraper, assembler, normalizer and storage into
// the scrape, clean and export stages run by the CLI.
package pipeline
