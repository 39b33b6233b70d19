package scraper

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// deckLinkPattern matches hrefs that carry the deck id query key.
var deckLinkPattern = regexp.MustCompile(`[?&]d=`)

// DeckLink is a link from a results page to one deck's detail page.
type DeckLink struct {
	Name   string // link text, usually the deck name
	Href   string // href as written in the page
	URL    string // Href resolved against the site root
	DeckID string // value of the d query parameter
}

// CollectDeckLinks returns every deck link of a results page in document order.
// Nothing is de-duplicated.
func CollectDeckLinks(doc *goquery.Document, base *url.URL) []DeckLink {
	links := make([]DeckLink, 0)
	doc.Find("a[href]").Each(func(i int, sel *goquery.Selection) {
		if link, ok := deckLink(sel, base); ok {
			links = append(links, link)
		}
	})
	return links
}

// deckLink converts an anchor into a DeckLink if its href matches the deck pattern.
// A nil base leaves URL unresolved.
func deckLink(sel *goquery.Selection, base *url.URL) (DeckLink, bool) {
	href, exists := sel.Attr("href")
	if !exists || !deckLinkPattern.MatchString(href) {
		return DeckLink{}, false
	}

	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return DeckLink{}, false
	}

	resolved := ref.String()
	if base != nil {
		resolved = base.ResolveReference(ref).String()
	}

	return DeckLink{
		Name:   cleanText(sel.Text()),
		Href:   href,
		URL:    resolved,
		DeckID: ref.Query().Get("d"),
	}, true
}
