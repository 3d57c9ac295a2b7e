package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/peterdokim/news-summary-ai/internal/cluster"
	"github.com/peterdokim/news-summary-ai/internal/config"
	"github.com/peterdokim/news-summary-ai/internal/domain"
	"github.com/peterdokim/news-summary-ai/internal/extractor"
	"github.com/peterdokim/news-summary-ai/internal/infrastructure/httpclient"
	"github.com/peterdokim/news-summary-ai/internal/infrastructure/llm"
	"github.com/peterdokim/news-summary-ai/internal/infrastructure/parser"
	"github.com/peterdokim/news-summary-ai/internal/infrastructure/telegram"
	"github.com/peterdokim/news-summary-ai/internal/logging"
	"github.com/peterdokim/news-summary-ai/internal/ports"
	"github.com/peterdokim/news-summary-ai/internal/usecase"
)

// Application wires configs to use cases.
type Application struct {
	cfg      config.Config
	pipeline *usecase.Pipeline
	notifier ports.Notifier
	logger   *slog.Logger
}

// RunOptions are the per-invocation inputs; zero bounds take config defaults.
type RunOptions struct {
	Keyword     string
	MaxArticles int
	Clusters    int
	Notify      bool
}

// New validates cfg and builds every adapter the pipeline needs.
func New(ctx context.Context, cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level, cfg.Logging.Format)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	baseLogger.Debug("configuration loaded", "config", cfg.String())

	client, err := httpclient.New(httpclient.Config{
		Timeout:     cfg.HTTP.Timeout,
		UserAgent:   cfg.HTTP.UserAgent,
		Fingerprint: httpclient.Profile(cfg.HTTP.Fingerprint),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: http client: %w", domain.ErrConfiguration, err)
	}

	registry := extractor.NewRegistry()
	registry.Register(parser.NewNaverExtractor(client, baseLogger.With("component", "extractor.naver")))
	registry.Register(parser.NewReadabilityExtractor(client, baseLogger.With("component", "extractor.readability")))

	sites := make([]extractor.Site, 0, len(cfg.Extraction.Sites))
	for _, s := range cfg.Extraction.Sites {
		sites = append(sites, extractor.Site{Host: s.Host, Strategy: s.Strategy})
	}
	router, err := extractor.NewRouter(registry, sites, cfg.Extraction.Fallback, baseLogger.With("component", "extractor"))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrConfiguration, err)
	}

	discoverer := parser.NewSearchDiscoverer(client, parser.SearchOptions{
		Endpoint: cfg.Search.Endpoint,
		Matcher: parser.MarkerMatcher{
			Selector: cfg.Search.MarkerSelector,
			Marker:   cfg.Search.Marker,
		},
		ArticleHosts: cfg.Search.ArticleHosts,
	}, baseLogger.With("component", "discoverer"))

	embedder, err := llm.NewEmbeddingProvider(ctx, cfg.Embedding, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrConfiguration, err)
	}
	generator, err := llm.NewGenerationProvider(ctx, cfg.Generation.ProviderConfig, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrConfiguration, err)
	}

	pipeline, err := usecase.NewPipeline(usecase.PipelineDeps{
		Discoverer:  discoverer,
		Extractor:   router,
		Embedder:    embedder,
		Generator:   generator,
		Concurrency: cfg.Extraction.Concurrency,
		Clustering: cluster.Options{
			Seed:    cfg.Clustering.Seed,
			NInit:   cfg.Clustering.NInit,
			MaxIter: cfg.Clustering.MaxIter,
		},
		Summary: usecase.SummaryOptions{
			MaxSentences: cfg.Generation.MaxSentences,
			MaxTokens:    cfg.Generation.MaxTokens,
			Temperature:  cfg.Generation.Temperature,
			MaxRetries:   cfg.Generation.MaxRetries,
			RetryBackoff: cfg.Generation.RetryBackoff,
		},
		Logger: baseLogger.With("component", "pipeline"),
	})
	if err != nil {
		return nil, err
	}

	var notifier ports.Notifier
	if tg := cfg.Notifications.Telegram; tg.Enabled() {
		notifier = telegram.NewNotifier(tg.Endpoint, tg.BotToken, tg.ChatID)
	}

	return &Application{cfg: cfg, pipeline: pipeline, notifier: notifier, logger: baseLogger}, nil
}

// Run executes the pipeline once and optionally publishes the digest.
func (a *Application) Run(ctx context.Context, opts RunOptions) (domain.Result, error) {
	if opts.MaxArticles <= 0 {
		opts.MaxArticles = a.cfg.Pipeline.MaxArticles
	}
	if opts.Clusters <= 0 {
		opts.Clusters = a.cfg.Pipeline.Clusters
	}

	res, err := a.pipeline.Run(ctx, opts.Keyword, opts.MaxArticles, opts.Clusters)
	if err != nil {
		return domain.Result{}, err
	}

	if !opts.Notify || res.IsEmpty() {
		return res, nil
	}
	if a.notifier == nil {
		a.logger.Warn("notification requested but telegram is not configured")
		return res, nil
	}
	if err := a.notifier.PublishDigest(ctx, usecase.FormatDigest(res)); err != nil {
		return res, fmt.Errorf("publish digest: %w", err)
	}
	return res, nil
}
