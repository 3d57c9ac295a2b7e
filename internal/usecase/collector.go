package usecase

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/peterdokim/news-summary-ai/internal/domain"
	"github.com/peterdokim/news-summary-ai/internal/metrics"
	"github.com/peterdokim/news-summary-ai/internal/ports"
)

// Collector runs the extractor over many URLs with bounded parallelism.
type Collector struct {
	extractor   ports.ArticleExtractor
	concurrency int
	logger      *slog.Logger
}

// NewCollector builds a collector; concurrency below 1 runs sequentially.
func NewCollector(extractor ports.ArticleExtractor, concurrency int, log *slog.Logger) *Collector {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Collector{extractor: extractor, concurrency: concurrency, logger: log}
}

// Collect returns one result per URL in input order. A single URL failing
// never affects the others.
func (c *Collector) Collect(ctx context.Context, urls []string) []domain.ExtractionResult {
	results := make([]domain.ExtractionResult, len(urls))

	var g errgroup.Group
	g.SetLimit(c.concurrency)
	for i, u := range urls {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i] = domain.Failed(u, "fetch failed: "+err.Error())
			} else {
				results[i] = c.extractor.Extract(ctx, u)
			}
			metrics.RecordExtraction(results[i].Success)
			if !results[i].Success && c.logger != nil {
				c.logger.Warn("extraction failed", "url", u, "error", results[i].Error)
			}
			return nil
		})
	}
	_ = g.Wait()

	return results
}
