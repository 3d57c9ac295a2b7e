package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/peterdokim/news-summary-ai/internal/cluster"
	"github.com/peterdokim/news-summary-ai/internal/domain"
	"github.com/peterdokim/news-summary-ai/internal/logging"
	"github.com/peterdokim/news-summary-ai/internal/metrics"
	"github.com/peterdokim/news-summary-ai/internal/ports"
)

// PipelineDeps wires all driven adapters into the orchestration pipeline.
type PipelineDeps struct {
	Discoverer  ports.URLDiscoverer
	Extractor   ports.ArticleExtractor
	Embedder    ports.Embedder
	Generator   ports.TextGenerator
	Concurrency int
	Clustering  cluster.Options
	Summary     SummaryOptions
	Logger      *slog.Logger
}

// Pipeline implements the keyword → grouped summaries workflow.
type Pipeline struct {
	discoverer ports.URLDiscoverer
	collector  *Collector
	grouper    *Grouper
	summarizer *Summarizer
	logger     *slog.Logger
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) (*Pipeline, error) {
	if deps.Discoverer == nil {
		return nil, fmt.Errorf("%w: discoverer is not configured", domain.ErrConfiguration)
	}
	if deps.Extractor == nil {
		return nil, fmt.Errorf("%w: extractor is not configured", domain.ErrConfiguration)
	}
	if deps.Embedder == nil {
		return nil, fmt.Errorf("%w: embedder is not configured", domain.ErrConfiguration)
	}
	if deps.Generator == nil {
		return nil, fmt.Errorf("%w: generator is not configured", domain.ErrConfiguration)
	}

	log := deps.Logger
	if log == nil {
		log = logging.Discard()
	}

	return &Pipeline{
		discoverer: deps.Discoverer,
		collector:  NewCollector(deps.Extractor, deps.Concurrency, log.With("component", "collector")),
		grouper:    NewGrouper(deps.Embedder, deps.Clustering, log.With("component", "grouper")),
		summarizer: NewSummarizer(deps.Generator, deps.Summary, log.With("component", "summarizer")),
		logger:     log,
	}, nil
}

// Run discovers, extracts, groups and summarizes articles for keyword.
// Runs that find nothing return a Result with Empty set and a nil error.
func (p *Pipeline) Run(ctx context.Context, keyword string, maxArticles, nClusters int) (res domain.Result, err error) {
	query := domain.SearchQuery{Keyword: keyword, MaxResults: maxArticles}
	if err := query.Validate(); err != nil {
		return domain.Result{}, err
	}
	if nClusters < 1 {
		return domain.Result{}, fmt.Errorf("%w: cluster count must be positive, got %d", domain.ErrInvalidQuery, nClusters)
	}

	log := p.logger.With("run_id", uuid.NewString(), "keyword", keyword)
	started := time.Now()
	defer func() {
		outcome := metrics.OutcomeSuccess
		switch {
		case err != nil:
			outcome = metrics.OutcomeError
			log.Error("run failed", "error", err, "elapsed", time.Since(started))
		case res.IsEmpty():
			outcome = metrics.OutcomeEmpty
			log.Info("run produced no groups", "reason", res.Empty, "elapsed", time.Since(started))
		default:
			log.Info("run finished", "groups", len(res.Groups), "elapsed", time.Since(started))
		}
		metrics.RunsTotal.WithLabelValues(outcome).Inc()
	}()

	res.Keyword = keyword

	stageStart := time.Now()
	urls, err := p.discoverer.Discover(ctx, keyword, maxArticles)
	if err != nil {
		return domain.Result{}, fmt.Errorf("%w: %w", domain.ErrDiscovery, err)
	}
	metrics.ObserveStage("discover", stageStart)
	metrics.DiscoveredURLsTotal.Add(float64(len(urls)))
	res.Discovered = len(urls)
	log.Debug("discovered urls", "count", len(urls))

	if len(urls) == 0 {
		res.Empty = domain.EmptyNoURLs
		return res, nil
	}
	if err := ctx.Err(); err != nil {
		return domain.Result{}, err
	}

	stageStart = time.Now()
	extracted := p.collector.Collect(ctx, urls)
	metrics.ObserveStage("extract", stageStart)
	for _, r := range extracted {
		if r.Success {
			res.Extracted++
		}
	}
	log.Debug("extracted articles", "ok", res.Extracted, "total", len(extracted))

	articles, texts := FilterArticles(extracted)
	res.Valid = len(articles)
	if len(articles) == 0 {
		res.Empty = domain.EmptyNoValidArticles
		return res, nil
	}
	if err := ctx.Err(); err != nil {
		return domain.Result{}, err
	}

	stageStart = time.Now()
	vectors, err := p.grouper.Embed(ctx, texts)
	if err != nil {
		return domain.Result{}, err
	}
	metrics.ObserveStage("embed", stageStart)

	stageStart = time.Now()
	clusters, err := p.grouper.Cluster(vectors, articles, nClusters)
	if err != nil {
		return domain.Result{}, err
	}
	metrics.ObserveStage("cluster", stageStart)
	log.Debug("grouped articles", "clusters", len(clusters))

	if err := ctx.Err(); err != nil {
		return domain.Result{}, err
	}

	stageStart = time.Now()
	groups, err := p.summarizer.SummarizeAll(ctx, clusters)
	if err != nil {
		return domain.Result{}, err
	}
	metrics.ObserveStage("summarize", stageStart)

	res.Groups = groups
	return res, nil
}
