package service

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"portfolio_tracker/internal/app/port"
	"portfolio_tracker/internal/client"
	"portfolio_tracker/internal/config"
	"portfolio_tracker/internal/domain/entity"
	"portfolio_tracker/internal/pkg/utils"
)

// dexScreenerSource is the primary price provider. Mints are queried in
// batches and, when an asset trades in several pools, the pair with the
// deepest USD liquidity wins; ties keep the pair seen first.
type dexScreenerSource struct {
	client    client.DEXScreenerClient
	batchSize int
	timeout   time.Duration
	limiter   *rate.Limiter
	logger    port.Logger
}

// NewDEXScreenerSource creates the batched DEX aggregator price source.
func NewDEXScreenerSource(c client.DEXScreenerClient, cfg *config.Config, l port.Logger) port.PriceSource {
	return &dexScreenerSource{
		client:    c,
		batchSize: cfg.PriceResolver.MaxMintsPerBatchRequest,
		timeout:   time.Duration(cfg.DEXScreener.RequestTimeoutMillis) * time.Millisecond,
		limiter:   rate.NewLimiter(rate.Limit(cfg.PriceResolver.RateLimit), cfg.PriceResolver.BurstLimit),
		logger:    l,
	}
}

func (s *dexScreenerSource) Name() string { return "dexscreener" }

func (s *dexScreenerSource) Quotes(ctx context.Context, assetIDs []string) (map[string]entity.PriceQuote, error) {
	// Mint addresses are case-sensitive; pairs are matched exactly.
	requested := make(map[string]struct{}, len(assetIDs))
	for _, id := range assetIDs {
		requested[id] = struct{}{}
	}

	quotes := make(map[string]entity.PriceQuote)
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	for _, batch := range utils.BatchStrings(assetIDs, s.batchSize) {
		batch := batch
		g.Go(func() error {
			if err := s.limiter.Wait(gctx); err != nil {
				return err
			}
			bctx, cancel := context.WithTimeout(gctx, s.timeout)
			defer cancel()

			pairs, err := s.client.GetTokenPairs(bctx, batch)
			if err != nil {
				return err
			}

			mu.Lock()
			defer mu.Unlock()
			for _, pair := range pairs {
				mint := pair.BaseToken.Address
				if _, ok := requested[mint]; !ok {
					continue
				}
				price, err := decimal.NewFromString(pair.PriceUsd)
				if err != nil || !price.IsPositive() {
					continue
				}
				liquidity := pair.LiquidityUSD()
				if existing, found := quotes[mint]; found && liquidity <= existing.LiquidityUSD {
					continue
				}
				quotes[mint] = entity.PriceQuote{
					AssetID:      mint,
					PriceUSD:     price,
					LiquidityUSD: liquidity,
					Symbol:       pair.BaseToken.Symbol,
					DisplayName:  pair.BaseToken.Name,
					Source:       s.Name(),
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		// A failed batch leaves its mints unresolved; the quotes that did
		// arrive are still usable.
		s.logger.Warn("DEX Screener batch failed", "error", err)
		if len(quotes) == 0 {
			return nil, err
		}
	}
	return quotes, nil
}

// jupiterSource is the secondary price provider. It reports no liquidity, so
// its quotes never outrank a primary quote for the same asset; it only sees
// assets the primary left unpriced.
type jupiterSource struct {
	client    client.JupiterClient
	batchSize int
	timeout   time.Duration
	logger    port.Logger
}

// NewJupiterSource creates the fallback DEX router price source.
func NewJupiterSource(c client.JupiterClient, cfg *config.Config, l port.Logger) port.PriceSource {
	return &jupiterSource{
		client:    c,
		batchSize: cfg.PriceResolver.MaxMintsPerBatchRequest,
		timeout:   time.Duration(cfg.Jupiter.RequestTimeoutMillis) * time.Millisecond,
		logger:    l,
	}
}

func (s *jupiterSource) Name() string { return "jupiter" }

func (s *jupiterSource) Quotes(ctx context.Context, assetIDs []string) (map[string]entity.PriceQuote, error) {
	quotes := make(map[string]entity.PriceQuote)
	for _, batch := range utils.BatchStrings(assetIDs, s.batchSize) {
		bctx, cancel := context.WithTimeout(ctx, s.timeout)
		prices, err := s.client.GetPrices(bctx, batch)
		cancel()
		if err != nil {
			if len(quotes) == 0 {
				return nil, err
			}
			s.logger.Warn("Jupiter batch failed", "error", err)
			continue
		}
		for mint, p := range prices {
			if p == nil {
				continue
			}
			price, err := decimal.NewFromString(p.Price)
			if err != nil || !price.IsPositive() {
				continue
			}
			quotes[mint] = entity.PriceQuote{
				AssetID:  mint,
				PriceUSD: price,
				Symbol:   p.MintSymbol,
				Source:   s.Name(),
			}
		}
	}
	return quotes, nil
}

// moralisSource is the final price provider, queried one mint at a time. It
// shares the token-index credential, so an invalid key disables the whole
// stage rather than producing a request per mint that can only fail.
type moralisSource struct {
	client  client.MoralisClient
	apiKey  string
	timeout time.Duration
	limiter *rate.Limiter
	logger  port.Logger
}

// NewMoralisSource creates the per-mint last-resort price source.
func NewMoralisSource(c client.MoralisClient, cfg *config.Config, l port.Logger) port.PriceSource {
	return &moralisSource{
		client:  c,
		apiKey:  cfg.Moralis.APIKey,
		timeout: time.Duration(cfg.Moralis.RequestTimeoutMillis) * time.Millisecond,
		limiter: rate.NewLimiter(rate.Limit(cfg.PriceResolver.RateLimit), cfg.PriceResolver.BurstLimit),
		logger:  l,
	}
}

func (s *moralisSource) Name() string { return "moralis" }

func (s *moralisSource) Quotes(ctx context.Context, assetIDs []string) (map[string]entity.PriceQuote, error) {
	if !config.IsValidMoralisKey(s.apiKey) {
		return nil, &entity.ConfigurationError{Provider: "moralis", Reason: "API key is not a valid JWT"}
	}

	quotes := make(map[string]entity.PriceQuote)
	for _, mint := range assetIDs {
		if err := s.limiter.Wait(ctx); err != nil {
			return quotes, err
		}
		mctx, cancel := context.WithTimeout(ctx, s.timeout)
		price, err := s.client.GetTokenPrice(mctx, mint)
		cancel()
		if err != nil {
			// Unlisted mints are routine here, keep going.
			s.logger.Debug("Moralis price lookup failed", "mint", mint, "error", err)
			continue
		}
		if price.UsdPrice <= 0 {
			continue
		}
		quotes[mint] = entity.PriceQuote{
			AssetID:     mint,
			PriceUSD:    decimal.NewFromFloat(price.UsdPrice),
			Symbol:      price.TokenSymbol,
			DisplayName: price.TokenName,
			Source:      s.Name(),
		}
	}
	return quotes, nil
}
