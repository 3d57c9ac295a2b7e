package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/tmc/langchaingo/llms"

	"github.com/peterdokim/news-summary-ai/internal/config"
	"github.com/peterdokim/news-summary-ai/internal/domain"
)

type fakeModel struct {
	messages []llms.MessageContent
	opts     llms.CallOptions
	reply    string
	err      error
}

func (f *fakeModel) GenerateContent(_ context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	f.messages = messages
	for _, o := range options {
		o(&f.opts)
	}
	if f.err != nil {
		return nil, f.err
	}
	return &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: f.reply}}}, nil
}

func (f *fakeModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, f, prompt, options...)
}

func TestGeneratorBuildsMessages(t *testing.T) {
	t.Parallel()

	model := &fakeModel{reply: "  요약 결과  "}
	got, err := NewGenerator(model).Generate(context.Background(), domain.GenerationRequest{
		SystemInstruction: "Summarize.",
		Content:           "본문",
		MaxTokens:         300,
		Temperature:       0.2,
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got != "요약 결과" {
		t.Fatalf("unexpected text: %q", got)
	}

	if len(model.messages) != 2 {
		t.Fatalf("expected system and human messages, got %d", len(model.messages))
	}
	if model.messages[0].Role != llms.ChatMessageTypeSystem || model.messages[1].Role != llms.ChatMessageTypeHuman {
		t.Fatalf("unexpected roles: %v, %v", model.messages[0].Role, model.messages[1].Role)
	}
	if model.opts.MaxTokens != 300 || model.opts.Temperature != 0.2 {
		t.Fatalf("unexpected options: %+v", model.opts)
	}
}

func TestGeneratorErrors(t *testing.T) {
	t.Parallel()

	cause := errors.New("quota exceeded")
	if _, err := NewGenerator(&fakeModel{err: cause}).Generate(context.Background(), domain.GenerationRequest{Content: "x"}); !errors.Is(err, cause) {
		t.Fatalf("expected wrapped cause, got %v", err)
	}
	if _, err := NewGenerator(&fakeModel{reply: "   "}).Generate(context.Background(), domain.GenerationRequest{Content: "x"}); err == nil {
		t.Fatalf("expected error for empty reply")
	}
}

type fakeEmbeddingClient struct {
	texts []string
}

func (f *fakeEmbeddingClient) CreateEmbedding(_ context.Context, texts []string) ([][]float32, error) {
	f.texts = texts
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{float32(i)}
	}
	return out, nil
}

func TestEmbedderSingleBatch(t *testing.T) {
	t.Parallel()

	client := &fakeEmbeddingClient{}
	vectors, err := NewEmbedder(client).Embed(context.Background(), []string{"a", "b", "c"})
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if len(vectors) != 3 || len(client.texts) != 3 {
		t.Fatalf("expected one batched call with 3 texts, got %d vectors", len(vectors))
	}
}

func TestHTTPClientEmbed(t *testing.T) {
	t.Parallel()

	type embedRequest struct {
		Model string   `json:"model"`
		Input []string `json:"input"`
	}
	requests := make(chan embedRequest, 1)
	auth := make(chan string, 1)

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/embed" {
			http.NotFound(w, r)
			return
		}
		var req embedRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		requests <- req
		auth <- r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"embeddings":[[1,0],[0,1]]}`))
	}))
	defer ts.Close()

	c := NewHTTPClient(ts.URL+"/", "secret", "bge-m3", ts.Client())
	vectors, err := c.Embed(context.Background(), []string{"a", "b"})
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if len(vectors) != 2 || vectors[1][1] != 1 {
		t.Fatalf("unexpected vectors: %v", vectors)
	}

	req := <-requests
	if req.Model != "bge-m3" || strings.Join(req.Input, ",") != "a,b" {
		t.Fatalf("unexpected request: %+v", req)
	}
	if got := <-auth; got != "Bearer secret" {
		t.Fatalf("unexpected auth header: %q", got)
	}
}

func TestHTTPClientGenerate(t *testing.T) {
	t.Parallel()

	bodies := make(chan map[string]any, 1)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		bodies <- body
		_, _ = w.Write([]byte(`{"text":"짧은 요약"}`))
	}))
	defer ts.Close()

	c := NewHTTPClient(ts.URL, "", "qwen", ts.Client())
	got, err := c.Generate(context.Background(), domain.GenerationRequest{
		SystemInstruction: "Summarize.",
		Content:           "본문",
		MaxTokens:         100,
		Temperature:       0.5,
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got != "짧은 요약" {
		t.Fatalf("unexpected text: %q", got)
	}

	body := <-bodies
	if body["system"] != "Summarize." || body["content"] != "본문" || body["max_tokens"] != float64(100) {
		t.Fatalf("unexpected body: %v", body)
	}
}

func TestHTTPClientStatusError(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	_, err := NewHTTPClient(ts.URL, "", "m", ts.Client()).Embed(context.Background(), []string{"a"})
	if err == nil || !strings.Contains(err.Error(), "model not loaded") {
		t.Fatalf("expected status error with body, got %v", err)
	}
}

func TestProvidersUnknown(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	if _, err := NewEmbeddingProvider(ctx, config.ProviderConfig{Provider: "cohere"}, nil); err == nil {
		t.Fatalf("expected error for unknown embedding provider")
	}
	if _, err := NewGenerationProvider(ctx, config.ProviderConfig{Provider: "cohere"}, nil); err == nil {
		t.Fatalf("expected error for unknown generation provider")
	}
}

func TestProvidersHTTPAndOpenAI(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	emb, err := NewEmbeddingProvider(ctx, config.ProviderConfig{Provider: config.ProviderHTTP, BaseURL: "http://localhost:9000", Model: "m"}, nil)
	if err != nil {
		t.Fatalf("http embedder: %v", err)
	}
	if _, ok := emb.(*HTTPClient); !ok {
		t.Fatalf("unexpected embedder type %T", emb)
	}

	gen, err := NewGenerationProvider(ctx, config.ProviderConfig{Provider: config.ProviderOpenAI, APIKey: "sk-test", Model: "gpt-4o-mini"}, nil)
	if err != nil {
		t.Fatalf("openai generator: %v", err)
	}
	if _, ok := gen.(*Generator); !ok {
		t.Fatalf("unexpected generator type %T", gen)
	}
}
