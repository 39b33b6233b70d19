// Package cli implements the mtgworlds command-line interface.
//
// The root command runs the whole pipeline: scrape the World Championship
// results unless the raw checkpoint exists, normalize them and write the
// canonical table. Subcommands run single stages (scrape, clean, export) or
// describe the canonical table (summary) as text or JSON. The config
// subcommand prints or saves the effective configuration.
package cli
