// Package scraper provides HTTP fetching and HTML parsing for mtgtop8.com
// World Championship search results.
//
// The Scraper pages through the search form one year at a time, parses the
// result rows of each page, follows every deck link on the page and extracts
// the card-category counts from the deck's detail page. Requests are issued
// one at a time. A failed listing page ends the current year without failing
// the run.
package scraper
