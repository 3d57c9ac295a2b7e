package ports

import (
	"context"

	"github.com/peterdokim/news-summary-ai/internal/domain"
)

// URLDiscoverer turns a keyword into ordered, deduplicated article URLs.
type URLDiscoverer interface {
	Discover(ctx context.Context, keyword string, limit int) ([]string, error)
}

// ArticleExtractor fetches and parses one article page. Failures are
// reported inside the result, never as an error.
type ArticleExtractor interface {
	Extract(ctx context.Context, url string) domain.ExtractionResult
}

// Embedder converts a batch of texts into vectors in a single provider call.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// TextGenerator produces one completion for a system instruction and content.
type TextGenerator interface {
	Generate(ctx context.Context, req domain.GenerationRequest) (string, error)
}

// Notifier publishes a rendered digest to an outbound channel (Telegram, etc.).
type Notifier interface {
	PublishDigest(ctx context.Context, digest string) error
}
