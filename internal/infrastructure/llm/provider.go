package llm

import (
	"context"
	"fmt"
	"net/http"

	"github.com/tmc/langchaingo/llms/googleai"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/peterdokim/news-summary-ai/internal/config"
	"github.com/peterdokim/news-summary-ai/internal/ports"
)

// NewEmbeddingProvider builds the embedder selected by cfg. client is only
// used by the http provider.
func NewEmbeddingProvider(ctx context.Context, cfg config.ProviderConfig, client *http.Client) (ports.Embedder, error) {
	switch cfg.Provider {
	case config.ProviderOpenAI:
		opts := []openai.Option{
			openai.WithToken(cfg.APIKey),
			openai.WithEmbeddingModel(cfg.Model),
		}
		if cfg.BaseURL != "" {
			opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
		}
		llm, err := openai.New(opts...)
		if err != nil {
			return nil, fmt.Errorf("create openai embedder: %w", err)
		}
		return NewEmbedder(llm), nil
	case config.ProviderGoogle:
		return NewGeminiEmbedder(ctx, cfg.Model, cfg.APIKey, cfg.Dimensions)
	case config.ProviderHTTP:
		return NewHTTPClient(cfg.BaseURL, cfg.APIKey, cfg.Model, client), nil
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", cfg.Provider)
	}
}

// NewGenerationProvider builds the text generator selected by cfg.
func NewGenerationProvider(ctx context.Context, cfg config.ProviderConfig, client *http.Client) (ports.TextGenerator, error) {
	switch cfg.Provider {
	case config.ProviderOpenAI:
		opts := []openai.Option{
			openai.WithToken(cfg.APIKey),
			openai.WithModel(cfg.Model),
		}
		if cfg.BaseURL != "" {
			opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
		}
		llm, err := openai.New(opts...)
		if err != nil {
			return nil, fmt.Errorf("create openai generator: %w", err)
		}
		return NewGenerator(llm), nil
	case config.ProviderGoogle:
		llm, err := googleai.New(ctx, googleai.WithAPIKey(cfg.APIKey), googleai.WithDefaultModel(cfg.Model))
		if err != nil {
			return nil, fmt.Errorf("create googleai generator: %w", err)
		}
		return NewGenerator(llm), nil
	case config.ProviderHTTP:
		return NewHTTPClient(cfg.BaseURL, cfg.APIKey, cfg.Model, client), nil
	default:
		return nil, fmt.Errorf("unknown generation provider %q", cfg.Provider)
	}
}
