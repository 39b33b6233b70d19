// Package assembler joins scraped result rows with deck compositions.
//
// The scraper hands rows and compositions to an Accumulator as it walks the
// listing pages. Assemble pairs every row with the composition of the deck
// it links to, using the deck id carried by both, and lays the result out as
// the raw checkpoint table.
package assembler
