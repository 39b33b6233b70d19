package scraper

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"

	"github.com/pfrederiksen/mtg-worlds/internal/deck"
	"github.com/pfrederiksen/mtg-worlds/internal/logger"
)

const (
	DefaultBaseURL = "https://www.mtgtop8.com/"
	UserAgent      = "mtg-worlds/1.0 (github.com/pfrederiksen/mtg-worlds)"
	Timeout        = 30 * time.Second
	searchPath     = "search"
)

// ErrUnexpectedStatus is returned for any response other than 200 OK.
var ErrUnexpectedStatus = errors.New("unexpected status code")

// SearchParams are the fixed filters of the search form.
type SearchParams struct {
	EventTitle       string // event_titre
	Format           string // format code, "ST" for standard
	CompetitiveLevel string // compet_check key, "P" for professional
}

// Options configures a Scraper. Zero values fall back to the package defaults.
type Options struct {
	BaseURL      string
	Timeout      time.Duration
	RequestDelay time.Duration // 0 disables pacing
	UserAgent    string
	Search       SearchParams
}

// Scraper fetches search listings and deck pages from one site.
type Scraper struct {
	client  *resty.Client
	base    *url.URL
	limiter *rate.Limiter
	search  SearchParams
}

// New creates a Scraper.
func New(opts Options) (*Scraper, error) {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = Timeout
	}
	if opts.UserAgent == "" {
		opts.UserAgent = UserAgent
	}
	if opts.Search == (SearchParams{}) {
		opts.Search = SearchParams{EventTitle: "world", Format: "ST", CompetitiveLevel: "P"}
	}

	base, err := url.Parse(opts.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}
	if !base.IsAbs() {
		return nil, fmt.Errorf("base URL %q is not absolute", opts.BaseURL)
	}

	limit := rate.Inf
	if opts.RequestDelay > 0 {
		limit = rate.Every(opts.RequestDelay)
	}

	client := resty.New().
		SetTimeout(opts.Timeout).
		SetHeader("User-Agent", opts.UserAgent)

	return &Scraper{
		client:  client,
		base:    base,
		limiter: rate.NewLimiter(limit, 1),
		search:  opts.Search,
	}, nil
}

// searchQuery builds the query string of one listing page.
func (s *Scraper) searchQuery(year, page int) map[string]string {
	start, end := deck.YearRange(year)
	query := map[string]string{
		"current_page": strconv.Itoa(page),
		"event_titre":  s.search.EventTitle,
		"format":       s.search.Format,
		"date_start":   start,
		"date_end":     end,
	}
	query["compet_check["+s.search.CompetitiveLevel+"]"] = "1"
	return query
}

// fetchListing fetches and parses one page of search results.
func (s *Scraper) fetchListing(ctx context.Context, year, page int) (*goquery.Document, error) {
	target := s.base.ResolveReference(&url.URL{Path: searchPath})
	return s.fetchDocument(ctx, target.String(), s.searchQuery(year, page))
}

// fetchDocument issues one paced GET and parses the body as HTML.
func (s *Scraper) fetchDocument(ctx context.Context, target string, query map[string]string) (*goquery.Document, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("waiting for rate limiter: %w", err)
	}

	start := time.Now()
	req := s.client.R().SetContext(ctx)
	if len(query) > 0 {
		req.SetQueryParams(query)
	}
	resp, err := req.Get(target)
	logger.RecordTiming("http.request", time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("fetching page: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode())
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.Body()))
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}
	return doc, nil
}
