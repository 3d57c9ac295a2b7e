package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/peterdokim/news-summary-ai/internal/cluster"
	"github.com/peterdokim/news-summary-ai/internal/domain"
	"github.com/peterdokim/news-summary-ai/internal/ports"
)

// Grouper embeds articles and partitions them into clusters of related stories.
type Grouper struct {
	embedder ports.Embedder
	opts     cluster.Options
	logger   *slog.Logger
}

// NewGrouper wires the embedding provider with k-means options.
func NewGrouper(embedder ports.Embedder, opts cluster.Options, log *slog.Logger) *Grouper {
	return &Grouper{embedder: embedder, opts: opts, logger: log}
}

// Embed sends every text in one batched provider call. Empty strings are
// replaced with a single space since providers reject them.
func (g *Grouper) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	if g.embedder == nil {
		return nil, fmt.Errorf("%w: embedder is not configured", domain.ErrEmbedding)
	}

	inputs := make([]string, len(texts))
	for i, t := range texts {
		if t == "" {
			t = " "
		}
		inputs[i] = t
	}

	vectors, err := g.embedder.Embed(ctx, inputs)
	if err != nil {
		if errors.Is(err, domain.ErrEmbedding) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrEmbedding, err)
	}
	if len(vectors) != len(inputs) {
		return nil, fmt.Errorf("%w: provider returned %d vectors for %d texts",
			domain.ErrEmbedding, len(vectors), len(inputs))
	}
	return vectors, nil
}

// Cluster partitions articles by their vectors into at most k non-empty
// groups. Clusters are ordered by their earliest article and numbered from 0.
func (g *Grouper) Cluster(vectors [][]float32, articles []domain.Article, k int) ([]domain.Cluster, error) {
	if len(articles) == 0 {
		return nil, nil
	}
	if len(vectors) != len(articles) {
		return nil, fmt.Errorf("%w: %d vectors for %d articles", domain.ErrEmbedding, len(vectors), len(articles))
	}

	points := make([][]float64, len(vectors))
	for i, v := range vectors {
		points[i] = cluster.ToFloat64(v)
	}

	k = cluster.Clamp(k, len(points))
	assignment, err := cluster.KMeans(points, k, g.opts)
	if err != nil {
		return nil, fmt.Errorf("cluster articles: %w", err)
	}

	groups := cluster.Groups(assignment.Labels)
	clusters := make([]domain.Cluster, 0, len(groups))
	for id, idx := range groups {
		memberPoints := make([][]float64, len(idx))
		members := make([]domain.Article, len(idx))
		for j, i := range idx {
			memberPoints[j] = points[i]
			members[j] = articles[i]
			members[j].Embedding = vectors[i]
		}

		centroid := cluster.Mean(memberPoints)
		rep := cluster.Representative(memberPoints, centroid)
		clusters = append(clusters, domain.Cluster{
			ID:                  id,
			Members:             members,
			Representative:      members[rep],
			RepresentativeIndex: rep,
			Centroid:            cluster.ToFloat32(centroid),
		})
	}

	if g.logger != nil {
		g.logger.Debug("clustered articles", "articles", len(articles), "requested", k, "clusters", len(clusters))
	}
	return clusters, nil
}
