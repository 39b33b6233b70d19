// Package deck provides the data model for World Championship deck records.
//
// A ResultRow is one line of a search results page, a Composition is the
// card-category breakdown scraped from a deck's detail page, and a Record is
// the canonical, cleaned unit of analysis with a categorical Rank limited to
// the top four finishes.
package deck
