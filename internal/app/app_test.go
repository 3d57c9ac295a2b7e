package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/peterdokim/news-summary-ai/internal/config"
	"github.com/peterdokim/news-summary-ai/internal/domain"
	"github.com/peterdokim/news-summary-ai/internal/logging"
)

func newsSite(t *testing.T) *httptest.Server {
	t.Helper()

	articles := map[string][2]string{
		"/article/1": {"chips rally", "chips demand rises"},
		"/article/2": {"election poll", "election campaign starts"},
		"/article/3": {"chips exports", "chips shipments grow"},
	}

	var ts *httptest.Server
	ts = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if r.URL.Path == "/search" {
			var b strings.Builder
			for _, p := range []string{"/article/1", "/article/2", "/article/3", "/article/404"} {
				fmt.Fprintf(&b, `<a href="%s%s"><span class="sds-comps-text">네이버뉴스</span></a>`, ts.URL, p)
			}
			_, _ = w.Write([]byte(b.String()))
			return
		}
		a, ok := articles[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		fmt.Fprintf(w, `<h2 id="title_area">%s</h2><div id="dic_area">%s</div>`, a[0], a[1])
	}))
	t.Cleanup(ts.Close)
	return ts
}

func modelService(t *testing.T) *httptest.Server {
	t.Helper()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Input   []string `json:"input"`
			Content string   `json:"content"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)

		switch r.URL.Path {
		case "/embed":
			vectors := make([][]float32, len(body.Input))
			for i, text := range body.Input {
				vectors[i] = []float32{0, 1}
				if strings.Contains(text, "chips") {
					vectors[i] = []float32{1, 0}
				}
			}
			_ = json.NewEncoder(w).Encode(map[string]any{"embeddings": vectors})
		case "/generate":
			_ = json.NewEncoder(w).Encode(map[string]any{"text": "summary: " + body.Content})
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(ts.Close)
	return ts
}

func testConfig(site, model *httptest.Server) config.Config {
	host, _ := url.Parse(site.URL)

	cfg := config.Default()
	cfg.Search.Endpoint = site.URL + "/search"
	cfg.Search.ArticleHosts = []string{host.Hostname()}
	cfg.Extraction.Sites = []config.SiteConfig{{Host: host.Hostname(), Strategy: "naver"}}
	cfg.Embedding = config.ProviderConfig{Provider: config.ProviderHTTP, BaseURL: model.URL, Model: "embed"}
	cfg.Generation.ProviderConfig = config.ProviderConfig{Provider: config.ProviderHTTP, BaseURL: model.URL, Model: "gen"}
	return cfg
}

func TestApplicationRunEndToEnd(t *testing.T) {
	t.Parallel()

	cfg := testConfig(newsSite(t), modelService(t))
	application, err := New(context.Background(), cfg, logging.Discard())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	res, err := application.Run(context.Background(), RunOptions{Keyword: "chips", MaxArticles: 4, Clusters: 2})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Discovered != 4 || res.Extracted != 3 || res.Valid != 3 {
		t.Fatalf("unexpected counters: %+v", res)
	}
	if len(res.Groups) != 2 {
		t.Fatalf("expected 2 groups, got %+v", res.Groups)
	}

	first := res.Groups[0]
	if first.RepresentativeTitle != "chips rally" || first.ArticleCount != 2 {
		t.Fatalf("unexpected first group: %+v", first)
	}
	if first.Summary != "summary: chips demand rises" {
		t.Fatalf("unexpected summary: %q", first.Summary)
	}
	if len(first.RelatedTitles) != 1 || first.RelatedTitles[0] != "chips exports" {
		t.Fatalf("unexpected related titles: %v", first.RelatedTitles)
	}
}

func TestNewRejectsMissingCredential(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.Embedding.APIKey = ""
	if _, err := New(context.Background(), cfg, logging.Discard()); !errors.Is(err, domain.ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}
}

func TestNewRejectsUnknownStrategy(t *testing.T) {
	t.Parallel()

	site, model := newsSite(t), modelService(t)
	cfg := testConfig(site, model)
	cfg.Extraction.Fallback = "mystery"
	if _, err := New(context.Background(), cfg, logging.Discard()); !errors.Is(err, domain.ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}
}
