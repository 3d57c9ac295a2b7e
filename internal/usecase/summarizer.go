package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/peterdokim/news-summary-ai/internal/domain"
	"github.com/peterdokim/news-summary-ai/internal/ports"
)

// NoBodySummary is reported for clusters whose representative has no body.
const NoBodySummary = "요약할 본문이 없습니다."

// SummaryOptions tunes the generation call made per cluster.
type SummaryOptions struct {
	MaxSentences int
	MaxTokens    int
	Temperature  float64
	MaxRetries   int
	RetryBackoff time.Duration
}

// DefaultSummaryOptions returns three sentences, 300 tokens, temperature 0.2 and no retries.
func DefaultSummaryOptions() SummaryOptions {
	return SummaryOptions{MaxSentences: 3, MaxTokens: 300, Temperature: 0.2, RetryBackoff: time.Second}
}

// Summarizer turns clusters into group summaries via the text generator.
type Summarizer struct {
	generator ports.TextGenerator
	opts      SummaryOptions
	logger    *slog.Logger
}

// NewSummarizer wires the generator; zero option fields take defaults.
func NewSummarizer(generator ports.TextGenerator, opts SummaryOptions, log *slog.Logger) *Summarizer {
	def := DefaultSummaryOptions()
	if opts.MaxSentences <= 0 {
		opts.MaxSentences = def.MaxSentences
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = def.MaxTokens
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}
	return &Summarizer{generator: generator, opts: opts, logger: log}
}

// Instruction is the system prompt sent with every representative body.
func (s *Summarizer) Instruction() string {
	return fmt.Sprintf("Summarize the following news article in at most %d sentences. "+
		"Write the summary in the same language as the article.", s.opts.MaxSentences)
}

// Summarize produces the summary of one cluster.
func (s *Summarizer) Summarize(ctx context.Context, c domain.Cluster) (domain.GroupSummary, error) {
	rep := c.Representative

	summary := NoBodySummary
	if rep.Body != "" {
		text, err := s.generate(ctx, domain.GenerationRequest{
			SystemInstruction: s.Instruction(),
			Content:           rep.Body,
			MaxTokens:         s.opts.MaxTokens,
			Temperature:       s.opts.Temperature,
		})
		if err != nil {
			return domain.GroupSummary{}, fmt.Errorf("cluster %d: %w", c.ID, err)
		}
		summary = text
	}

	related := make([]string, 0, len(c.Members))
	for i, m := range c.Members {
		if i == c.RepresentativeIndex {
			continue
		}
		related = append(related, m.Title)
	}

	return domain.GroupSummary{
		ClusterID:           c.ID,
		ArticleCount:        len(c.Members),
		Summary:             summary,
		RepresentativeTitle: rep.Title,
		RepresentativeURL:   rep.URL,
		RelatedTitles:       related,
	}, nil
}

// SummarizeAll summarizes clusters in order. The first failure aborts the batch.
func (s *Summarizer) SummarizeAll(ctx context.Context, clusters []domain.Cluster) ([]domain.GroupSummary, error) {
	out := make([]domain.GroupSummary, 0, len(clusters))
	for _, c := range clusters {
		summary, err := s.Summarize(ctx, c)
		if err != nil {
			return nil, err
		}
		out = append(out, summary)
	}
	return out, nil
}

// generate calls the provider with linear backoff between attempts.
func (s *Summarizer) generate(ctx context.Context, req domain.GenerationRequest) (string, error) {
	if s.generator == nil {
		return "", fmt.Errorf("%w: generator is not configured", domain.ErrGeneration)
	}

	var lastErr error
	for attempt := 0; attempt <= s.opts.MaxRetries; attempt++ {
		if attempt > 0 {
			if s.logger != nil {
				s.logger.Warn("retrying generation", "attempt", attempt+1, "last_error", lastErr)
			}
			select {
			case <-ctx.Done():
				return "", fmt.Errorf("%w: %w", domain.ErrGeneration, ctx.Err())
			case <-time.After(s.opts.RetryBackoff * time.Duration(attempt)):
			}
		}

		text, err := s.generator.Generate(ctx, req)
		if err == nil {
			return text, nil
		}
		lastErr = err
	}

	if errors.Is(lastErr, domain.ErrGeneration) {
		return "", lastErr
	}
	return "", fmt.Errorf("%w: %w", domain.ErrGeneration, lastErr)
}
