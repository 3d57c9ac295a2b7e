package parser

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/peterdokim/news-summary-ai/internal/extractor"
	"github.com/peterdokim/news-summary-ai/internal/ports"
)

// LinkMatcher yields candidate article hrefs from a search results page in
// document order. It is the part that changes when retargeting another surface.
type LinkMatcher interface {
	Links(doc *goquery.Document) []string
}

// MarkerMatcher selects elements whose trimmed text equals Marker and takes
// the href of the element itself or its enclosing anchor. On Naver the
// "네이버뉴스" label marks links to the publisher's in-house article page.
type MarkerMatcher struct {
	Selector string
	Marker   string
}

// Links implements LinkMatcher.
func (m MarkerMatcher) Links(doc *goquery.Document) []string {
	selector := m.Selector
	if selector == "" {
		selector = "a"
	}

	var hrefs []string
	doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
		if strings.TrimSpace(s.Text()) != m.Marker {
			return
		}
		anchor := s
		if !s.Is("a") {
			anchor = s.Closest("a")
		}
		if href, ok := anchor.Attr("href"); ok && strings.TrimSpace(href) != "" {
			hrefs = append(hrefs, strings.TrimSpace(href))
		}
	})
	return hrefs
}

// SearchOptions configures SearchDiscoverer.
type SearchOptions struct {
	Endpoint     string
	Matcher      LinkMatcher
	ArticleHosts []string
}

// SearchDiscoverer scrapes a news search results page for article URLs.
type SearchDiscoverer struct {
	client *http.Client
	opts   SearchOptions
	logger *slog.Logger
}

var _ ports.URLDiscoverer = (*SearchDiscoverer)(nil)

// NewSearchDiscoverer wires the shared HTTP client; a nil client gets a 10s default.
func NewSearchDiscoverer(client *http.Client, opts SearchOptions, log *slog.Logger) *SearchDiscoverer {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &SearchDiscoverer{client: client, opts: opts, logger: log}
}

// Discover issues one search request and returns at most limit unique article
// URLs in result order. Markup it does not recognise yields an empty slice.
func (d *SearchDiscoverer) Discover(ctx context.Context, keyword string, limit int) ([]string, error) {
	if limit < 1 {
		return nil, fmt.Errorf("limit must be at least 1, got %d", limit)
	}
	if strings.TrimSpace(keyword) == "" {
		return nil, fmt.Errorf("keyword is empty")
	}
	if d.opts.Matcher == nil {
		return nil, fmt.Errorf("link matcher is not configured")
	}

	searchURL, err := buildSearchURL(d.opts.Endpoint, keyword)
	if err != nil {
		return nil, err
	}
	d.debug("search", "url", searchURL, "limit", limit)

	raw, err := fetchPage(ctx, d.client, searchURL)
	if err != nil {
		return nil, fmt.Errorf("search request: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("parse search page: %w", err)
	}

	base, _ := url.Parse(searchURL)
	urls := make([]string, 0, limit)
	seen := map[string]struct{}{}
	for _, href := range d.opts.Matcher.Links(doc) {
		candidate, ok := d.accept(base, href)
		if !ok {
			continue
		}
		if _, dup := seen[candidate]; dup {
			continue
		}
		seen[candidate] = struct{}{}
		urls = append(urls, candidate)
		if len(urls) >= limit {
			break
		}
	}

	d.debug("search done", "accepted", len(urls))
	return urls, nil
}

// accept resolves href against the search page and keeps it only when it
// points at a configured article host.
func (d *SearchDiscoverer) accept(base *url.URL, href string) (string, bool) {
	u, err := url.Parse(href)
	if err != nil {
		return "", false
	}
	if base != nil {
		u = base.ResolveReference(u)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", false
	}
	for _, host := range d.opts.ArticleHosts {
		if extractor.HostMatches(u.Hostname(), host) {
			return u.String(), true
		}
	}
	return "", false
}

func buildSearchURL(endpoint, keyword string) (string, error) {
	parsed, err := url.Parse(endpoint)
	if err != nil {
		return "", fmt.Errorf("invalid search endpoint %s: %w", endpoint, err)
	}

	query := parsed.Query()
	query.Set("query", keyword)
	parsed.RawQuery = query.Encode()
	return parsed.String(), nil
}

func (d *SearchDiscoverer) debug(msg string, args ...any) {
	if d.logger != nil {
		d.logger.Debug(msg, args...)
	}
}
