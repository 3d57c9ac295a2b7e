package parser

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"

	"github.com/peterdokim/news-summary-ai/internal/domain"
	"github.com/peterdokim/news-summary-ai/internal/extractor"
)

// ReadabilityExtractor handles article hosts without a selector template.
type ReadabilityExtractor struct {
	client *http.Client
	noise  string
	logger *slog.Logger
}

var _ extractor.Strategy = (*ReadabilityExtractor)(nil)

// NewReadabilityExtractor wires the shared client; a nil client gets a 10s default.
func NewReadabilityExtractor(client *http.Client, log *slog.Logger) *ReadabilityExtractor {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &ReadabilityExtractor{client: client, noise: NaverTemplate.Noise, logger: log}
}

// Name identifies the strategy inside the registry.
func (e *ReadabilityExtractor) Name() string {
	return "readability"
}

// Extract implements ports.ArticleExtractor.
func (e *ReadabilityExtractor) Extract(ctx context.Context, pageURL string) domain.ExtractionResult {
	parsedURL, err := url.Parse(pageURL)
	if err != nil {
		return domain.Failed(pageURL, "fetch failed: "+err.Error())
	}

	raw, err := fetchPage(ctx, e.client, pageURL)
	if err != nil {
		if e.logger != nil {
			e.logger.Debug("fetch failed", "url", pageURL, "error", err)
		}
		return domain.Failed(pageURL, "fetch failed: "+err.Error())
	}

	return parseSafely(pageURL, func() (string, string, error) {
		article, err := readability.FromReader(bytes.NewReader(raw), parsedURL)
		if err != nil {
			return "", "", err
		}

		doc, err := goquery.NewDocumentFromReader(strings.NewReader(article.Content))
		if err != nil {
			return "", "", err
		}
		doc.Find(e.noise).Remove()

		return collapseSpaces(article.Title), joinText(doc.Selection), nil
	})
}
