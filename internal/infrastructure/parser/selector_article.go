package parser

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/peterdokim/news-summary-ai/internal/domain"
	"github.com/peterdokim/news-summary-ai/internal/extractor"
)

// SelectorTemplate names the CSS selectors of one site's article layout.
type SelectorTemplate struct {
	Title string
	Body  string
	Noise string
}

// NaverTemplate matches the in-house article page of news.naver.com.
var NaverTemplate = SelectorTemplate{
	Title: "#title_area",
	Body:  "#dic_area",
	Noise: "img, script, style, iframe, noscript",
}

// SelectorExtractor pulls title and body out of pages with a known layout.
type SelectorExtractor struct {
	name     string
	client   *http.Client
	template SelectorTemplate
	logger   *slog.Logger
}

var _ extractor.Strategy = (*SelectorExtractor)(nil)

// NewSelectorExtractor registers template under name; a nil client gets a 10s default.
func NewSelectorExtractor(name string, client *http.Client, template SelectorTemplate, log *slog.Logger) *SelectorExtractor {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &SelectorExtractor{name: name, client: client, template: template, logger: log}
}

// NewNaverExtractor is the "naver" strategy.
func NewNaverExtractor(client *http.Client, log *slog.Logger) *SelectorExtractor {
	return NewSelectorExtractor("naver", client, NaverTemplate, log)
}

// Name identifies the strategy inside the registry.
func (e *SelectorExtractor) Name() string {
	return e.name
}

// Extract never returns an error: every failure is folded into the result.
func (e *SelectorExtractor) Extract(ctx context.Context, pageURL string) domain.ExtractionResult {
	raw, err := fetchPage(ctx, e.client, pageURL)
	if err != nil {
		e.debug("fetch failed", "url", pageURL, "error", err)
		return domain.Failed(pageURL, "fetch failed: "+err.Error())
	}

	return parseSafely(pageURL, func() (string, string, error) {
		return e.parse(raw)
	})
}

func (e *SelectorExtractor) parse(raw []byte) (string, string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(raw))
	if err != nil {
		return "", "", err
	}

	title := joinText(doc.Find(e.template.Title).First())

	body := doc.Find(e.template.Body).First()
	if e.template.Noise != "" {
		body.Find(e.template.Noise).Remove()
	}
	return title, joinText(body), nil
}

func (e *SelectorExtractor) debug(msg string, args ...any) {
	if e.logger != nil {
		e.logger.Debug(msg, args...)
	}
}

// parseSafely runs parse and converts errors and panics into failed results.
func parseSafely(pageURL string, parse func() (string, string, error)) (res domain.ExtractionResult) {
	defer func() {
		if r := recover(); r != nil {
			res = domain.Failed(pageURL, fmt.Sprintf("parse failed: %v", r))
		}
	}()

	title, body, err := parse()
	if err != nil {
		return domain.Failed(pageURL, "parse failed: "+err.Error())
	}
	return domain.Extracted(pageURL, title, body)
}
