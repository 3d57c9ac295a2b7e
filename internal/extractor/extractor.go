// Package extractor routes article URLs to per-site extraction strategies.
package extractor

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/peterdokim/news-summary-ai/internal/domain"
	"github.com/peterdokim/news-summary-ai/internal/ports"
)

// Strategy is one site-specific (or generic) extractor implementation.
type Strategy interface {
	Name() string
	ports.ArticleExtractor
}

// Site binds a host and its subdomains to a strategy name.
type Site struct {
	Host     string
	Strategy string
}

// Registry keeps a mapping from strategy names to their implementations.
type Registry struct {
	strategies map[string]Strategy
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{strategies: map[string]Strategy{}}
}

// Register adds or replaces a strategy implementation.
func (r *Registry) Register(strategy Strategy) {
	if r.strategies == nil {
		r.strategies = map[string]Strategy{}
	}
	r.strategies[strategy.Name()] = strategy
}

// Resolve returns a strategy by name or an error if it is absent.
func (r *Registry) Resolve(name string) (Strategy, error) {
	if strategy, ok := r.strategies[name]; ok {
		return strategy, nil
	}
	return nil, fmt.Errorf("extractor %s is not registered", name)
}

// Router implements ports.ArticleExtractor by dispatching each URL to the
// strategy configured for its host, or to the fallback strategy.
type Router struct {
	routes   []route
	fallback Strategy
	logger   *slog.Logger
}

type route struct {
	host     string
	strategy Strategy
}

var _ ports.ArticleExtractor = (*Router)(nil)

// NewRouter resolves every site strategy up front so misconfiguration fails
// at startup. An empty fallback leaves unknown hosts unhandled.
func NewRouter(reg *Registry, sites []Site, fallback string, log *slog.Logger) (*Router, error) {
	if reg == nil {
		return nil, fmt.Errorf("extractor registry is not configured")
	}

	r := &Router{logger: log}
	for _, site := range sites {
		strategy, err := reg.Resolve(site.Strategy)
		if err != nil {
			return nil, fmt.Errorf("site %s: %w", site.Host, err)
		}
		r.routes = append(r.routes, route{host: strings.ToLower(site.Host), strategy: strategy})
	}

	if fallback != "" {
		strategy, err := reg.Resolve(fallback)
		if err != nil {
			return nil, fmt.Errorf("fallback: %w", err)
		}
		r.fallback = strategy
	}
	return r, nil
}

// Extract implements ports.ArticleExtractor.
func (r *Router) Extract(ctx context.Context, rawURL string) domain.ExtractionResult {
	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		return domain.Failed(rawURL, fmt.Sprintf("fetch failed: invalid url %q", rawURL))
	}

	strategy := r.strategyFor(u.Hostname())
	if strategy == nil {
		return domain.Failed(rawURL, "no extractor for host "+u.Hostname())
	}

	r.debug("extract", "url", rawURL, "strategy", strategy.Name())
	return strategy.Extract(ctx, rawURL)
}

func (r *Router) strategyFor(host string) Strategy {
	for _, rt := range r.routes {
		if HostMatches(host, rt.host) {
			return rt.strategy
		}
	}
	return r.fallback
}

func (r *Router) debug(msg string, args ...any) {
	if r.logger != nil {
		r.logger.Debug(msg, args...)
	}
}

// HostMatches reports whether host equals pattern or is one of its subdomains.
func HostMatches(host, pattern string) bool {
	host = strings.ToLower(strings.TrimSuffix(host, "."))
	pattern = strings.ToLower(strings.TrimSpace(pattern))
	if host == "" || pattern == "" {
		return false
	}
	return host == pattern || strings.HasSuffix(host, "."+pattern)
}
