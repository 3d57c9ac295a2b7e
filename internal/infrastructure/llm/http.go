package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/peterdokim/news-summary-ai/internal/domain"
	"github.com/peterdokim/news-summary-ai/internal/ports"
)

// HTTPClient talks to a self-hosted model service exposing /embed and /generate.
type HTTPClient struct {
	endpoint string
	apiKey   string
	model    string
	http     *http.Client
}

var _ ports.Embedder = (*HTTPClient)(nil)
var _ ports.TextGenerator = (*HTTPClient)(nil)

// NewHTTPClient creates a reusable client; a nil http client gets a 60s default.
func NewHTTPClient(endpoint, apiKey, model string, client *http.Client) *HTTPClient {
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}
	return &HTTPClient{
		endpoint: strings.TrimRight(endpoint, "/"),
		apiKey:   apiKey,
		model:    model,
		http:     client,
	}
}

// Embed requests one vector per input text.
func (c *HTTPClient) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	payload := map[string]any{
		"model": c.model,
		"input": texts,
	}

	var resp struct {
		Embeddings [][]float32 `json:"embeddings"`
	}
	if err := c.post(ctx, "/embed", payload, &resp); err != nil {
		return nil, err
	}
	return resp.Embeddings, nil
}

// Generate requests a completion for the instruction and content.
func (c *HTTPClient) Generate(ctx context.Context, req domain.GenerationRequest) (string, error) {
	payload := map[string]any{
		"model":       c.model,
		"system":      req.SystemInstruction,
		"content":     req.Content,
		"max_tokens":  req.MaxTokens,
		"temperature": req.Temperature,
	}

	var resp struct {
		Text string `json:"text"`
	}
	if err := c.post(ctx, "/generate", payload, &resp); err != nil {
		return "", err
	}

	text := strings.TrimSpace(resp.Text)
	if text == "" {
		return "", fmt.Errorf("model service returned empty text")
	}
	return text, nil
}

func (c *HTTPClient) post(ctx context.Context, path string, payload any, v any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("unexpected status %s: %s", resp.Status, strings.TrimSpace(string(msg)))
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
