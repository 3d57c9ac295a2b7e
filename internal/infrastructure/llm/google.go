package llm

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/peterdokim/news-summary-ai/internal/ports"
)

// clusteringTask asks Gemini for vectors tuned to grouping similar texts.
const clusteringTask = "CLUSTERING"

// GeminiEmbedder wraps Gemini embeddings.
type GeminiEmbedder struct {
	client     *genai.Client
	model      string
	dimensions int32
}

var _ ports.Embedder = (*GeminiEmbedder)(nil)

// NewGeminiEmbedder creates a Gemini API client authenticated by API key.
func NewGeminiEmbedder(ctx context.Context, model, apiKey string, dimensions int) (*GeminiEmbedder, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini API client: %w", err)
	}

	if dimensions <= 0 {
		dimensions = 1536
	}
	return &GeminiEmbedder{client: client, model: model, dimensions: int32(dimensions)}, nil
}

// Embed sends every text as one content entry of a single request.
func (e *GeminiEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	contents := make([]*genai.Content, 0, len(texts))
	for _, text := range texts {
		contents = append(contents, &genai.Content{
			Parts: []*genai.Part{
				{Text: text},
			},
		})
	}

	outputDim := e.dimensions
	res, err := e.client.Models.EmbedContent(ctx, e.model, contents, &genai.EmbedContentConfig{
		TaskType:             clusteringTask,
		OutputDimensionality: &outputDim,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to embed texts: %w", err)
	}
	if res == nil || len(res.Embeddings) == 0 {
		return nil, fmt.Errorf("empty embedding returned")
	}

	vectors := make([][]float32, 0, len(res.Embeddings))
	for i, emb := range res.Embeddings {
		if emb == nil || len(emb.Values) == 0 {
			return nil, fmt.Errorf("empty embedding returned for text %d", i)
		}
		vectors = append(vectors, emb.Values)
	}
	return vectors, nil
}
