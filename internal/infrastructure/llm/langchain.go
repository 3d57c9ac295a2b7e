package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"

	"github.com/peterdokim/news-summary-ai/internal/domain"
	"github.com/peterdokim/news-summary-ai/internal/ports"
)

// Generator implements ports.TextGenerator on top of any langchaingo model
// (OpenAI, Gemini, ...).
type Generator struct {
	model llms.Model
}

var _ ports.TextGenerator = (*Generator)(nil)

// NewGenerator wraps a langchaingo model.
func NewGenerator(model llms.Model) *Generator {
	return &Generator{model: model}
}

// Generate sends the instruction as a system message and the content as the
// human turn, returning the first choice.
func (g *Generator) Generate(ctx context.Context, req domain.GenerationRequest) (string, error) {
	if g == nil || g.model == nil {
		return "", fmt.Errorf("llm model is not configured")
	}

	messages := make([]llms.MessageContent, 0, 2)
	if req.SystemInstruction != "" {
		messages = append(messages, llms.TextParts(llms.ChatMessageTypeSystem, req.SystemInstruction))
	}
	messages = append(messages, llms.TextParts(llms.ChatMessageTypeHuman, req.Content))

	var opts []llms.CallOption
	if req.MaxTokens > 0 {
		opts = append(opts, llms.WithMaxTokens(req.MaxTokens))
	}
	opts = append(opts, llms.WithTemperature(req.Temperature))

	resp, err := g.model.GenerateContent(ctx, messages, opts...)
	if err != nil {
		return "", fmt.Errorf("llm generation failed: %w", err)
	}
	if resp == nil || len(resp.Choices) == 0 {
		return "", fmt.Errorf("llm returned no choices")
	}

	text := strings.TrimSpace(resp.Choices[0].Content)
	if text == "" {
		return "", fmt.Errorf("llm returned empty content")
	}
	return text, nil
}

// embeddingCreator is satisfied by langchaingo's openai and googleai clients.
type embeddingCreator interface {
	CreateEmbedding(ctx context.Context, texts []string) ([][]float32, error)
}

// Embedder implements ports.Embedder with one batched CreateEmbedding call.
type Embedder struct {
	client embeddingCreator
}

var _ ports.Embedder = (*Embedder)(nil)

// NewEmbedder wraps a langchaingo embedding client.
func NewEmbedder(client embeddingCreator) *Embedder {
	return &Embedder{client: client}
}

// Embed implements ports.Embedder.
func (e *Embedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if e == nil || e.client == nil {
		return nil, fmt.Errorf("embedding client is not configured")
	}
	vectors, err := e.client.CreateEmbedding(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("create embedding: %w", err)
	}
	return vectors, nil
}
