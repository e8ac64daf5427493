package service

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"portfolio_tracker/internal/app/port"
	"portfolio_tracker/internal/config"
	"portfolio_tracker/internal/domain/entity"
	"portfolio_tracker/internal/pkg/metrics"
)

// PriceServiceImpl implements port.PriceResolver as an ordered fallback
// chain: each source only sees the assets every earlier source left
// unresolved, and the chain stops as soon as nothing is left. Assets no
// source can price stay absent from the result; callers value them at zero.
type PriceServiceImpl struct {
	sources    []port.PriceSource
	quoteCache *gocache.Cache
	logger     port.Logger
}

// NewPriceService creates a resolver over the given sources, in fallback
// order. The quote cache is off by default; a positive TTL opts in to
// reusing quotes across nearby refresh cycles.
func NewPriceService(sources []port.PriceSource, cfg *config.Config, l port.Logger) port.PriceResolver {
	var cache *gocache.Cache
	if ttl := cfg.PriceResolver.QuoteCacheTTLSeconds; ttl > 0 {
		d := time.Duration(ttl) * time.Second
		cache = gocache.New(d, 2*d)
	}
	return &PriceServiceImpl{
		sources:    sources,
		quoteCache: cache,
		logger:     l,
	}
}

// ResolvePrices resolves USD quotes for the given asset IDs. It never
// returns an error: provider failures only shrink the result.
func (s *PriceServiceImpl) ResolvePrices(ctx context.Context, assetIDs []string) map[string]entity.PriceQuote {
	resolved := make(map[string]entity.PriceQuote, len(assetIDs))

	unresolved := make([]string, 0, len(assetIDs))
	for _, id := range assetIDs {
		if s.quoteCache != nil {
			if cached, found := s.quoteCache.Get(id); found {
				resolved[id] = cached.(entity.PriceQuote)
				continue
			}
		}
		unresolved = append(unresolved, id)
	}

	for _, source := range s.sources {
		if len(unresolved) == 0 {
			break
		}
		quotes, err := source.Quotes(ctx, unresolved)
		if err != nil {
			metrics.ProviderErrors.WithLabelValues(source.Name()).Inc()
			s.logger.Warn("Price source failed, falling through",
				"source", source.Name(), "unresolved", len(unresolved), "error", err)
		}
		if len(quotes) == 0 {
			continue
		}

		remaining := unresolved[:0]
		for _, id := range unresolved {
			quote, found := quotes[id]
			if !found {
				remaining = append(remaining, id)
				continue
			}
			resolved[id] = quote
			if s.quoteCache != nil {
				s.quoteCache.Set(id, quote, gocache.DefaultExpiration)
			}
		}
		unresolved = remaining
	}

	if len(unresolved) > 0 {
		s.logger.Warn("Assets left unpriced after fallback chain", "count", len(unresolved))
	}
	metrics.ResolvedAssets.WithLabelValues("resolved").Set(float64(len(resolved)))
	metrics.ResolvedAssets.WithLabelValues("unresolved").Set(float64(len(unresolved)))

	return resolved
}

var _ port.PriceResolver = (*PriceServiceImpl)(nil)
