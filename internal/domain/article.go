package domain

import (
	"fmt"
	"strings"
)

// SearchQuery is the input of a single pipeline run.
type SearchQuery struct {
	Keyword    string
	MaxResults int
}

// Validate rejects empty keywords and non-positive bounds.
func (q SearchQuery) Validate() error {
	if strings.TrimSpace(q.Keyword) == "" {
		return fmt.Errorf("%w: keyword is empty", ErrInvalidQuery)
	}
	if q.MaxResults <= 0 {
		return fmt.Errorf("%w: max results must be positive, got %d", ErrInvalidQuery, q.MaxResults)
	}
	return nil
}

// ExtractionResult is the outcome of fetching and parsing one candidate URL.
// A failed result never carries title or body text.
type ExtractionResult struct {
	URL     string
	Title   string
	Body    string
	Success bool
	Error   string
}

// Extracted builds a result from parsed text. When both title and body are
// empty the result is reported as a failure.
func Extracted(url, title, body string) ExtractionResult {
	if title == "" && body == "" {
		return Failed(url, "title and body not found")
	}
	return ExtractionResult{URL: url, Title: title, Body: body, Success: true}
}

// Failed builds a failed result for url.
func Failed(url, reason string) ExtractionResult {
	return ExtractionResult{URL: url, Success: false, Error: reason}
}

// Article is a usable extraction result ready for embedding. Embedding is
// filled by the grouper and stays attached to the article it describes.
type Article struct {
	URL           string
	Title         string
	Body          string
	EmbeddingText string
	Embedding     []float32
}

// Cluster is one group of semantically related articles. RepresentativeIndex
// is the position of Representative within Members.
type Cluster struct {
	ID                  int
	Members             []Article
	Representative      Article
	RepresentativeIndex int
	Centroid            []float32
}

// GroupSummary is the terminal artifact returned to callers for one cluster.
type GroupSummary struct {
	ClusterID           int      `json:"cluster_id"`
	ArticleCount        int      `json:"article_count"`
	Summary             string   `json:"summary"`
	RepresentativeTitle string   `json:"representative_title"`
	RepresentativeURL   string   `json:"representative_url"`
	RelatedTitles       []string `json:"related_titles"`
}
