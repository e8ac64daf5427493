package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"portfolio_tracker/internal/app/port"
	"portfolio_tracker/internal/config"
	"portfolio_tracker/internal/domain/entity"
	"portfolio_tracker/internal/pkg/metrics"
	"portfolio_tracker/internal/pkg/utils"
)

const lastSnapshotKey = "lastPortfolioData"

// PortfolioServiceImpl implements port.PortfolioService: it fans balance
// collection out across wallets, resolves prices once for the union of
// assets and folds everything into one snapshot. A wallet that fails
// contributes nothing and is reported; only a configuration failure aborts
// the cycle.
type PortfolioServiceImpl struct {
	collector   port.BalanceCollector
	resolver    port.PriceResolver
	walletStore port.WalletStore
	settings    port.SettingsStore
	converter   port.CurrencyConverter
	notifier    port.TrayNotifier
	kv          port.KeyValueStore
	cfg         *config.Config
	logger      port.Logger

	inflight singleflight.Group
	now      func() time.Time

	mu   sync.RWMutex
	last *entity.PortfolioSnapshot
}

// NewPortfolioService creates a new PortfolioServiceImpl. The notifier may
// be nil when no notification surface is attached.
func NewPortfolioService(
	collector port.BalanceCollector,
	resolver port.PriceResolver,
	walletStore port.WalletStore,
	settings port.SettingsStore,
	converter port.CurrencyConverter,
	notifier port.TrayNotifier,
	kv port.KeyValueStore,
	cfg *config.Config,
	l port.Logger,
) *PortfolioServiceImpl {
	return &PortfolioServiceImpl{
		collector:   collector,
		resolver:    resolver,
		walletStore: walletStore,
		settings:    settings,
		converter:   converter,
		notifier:    notifier,
		kv:          kv,
		cfg:         cfg,
		logger:      l,
		now:         time.Now,
	}
}

// Aggregate runs one aggregation cycle over the given wallets. Disabled
// wallets and duplicate addresses are skipped; an empty effective set yields
// an empty snapshot without touching any provider.
func (s *PortfolioServiceImpl) Aggregate(ctx context.Context, wallets []entity.Wallet) (entity.PortfolioSnapshot, []entity.PortfolioError, error) {
	started := s.now()
	defer func() {
		metrics.AggregationDuration.Observe(time.Since(started).Seconds())
	}()

	// Addresses are case-sensitive base58; dedupe is exact, never folded.
	active := lo.Filter(wallets, func(w entity.Wallet, _ int) bool { return w.Enabled })
	active = lo.UniqBy(active, func(w entity.Wallet) string { return w.Address })
	if len(active) == 0 {
		return entity.ZeroSnapshot(started), nil, nil
	}

	if err := s.collector.ValidateCredentials(); err != nil {
		s.logger.Error("Aborting aggregation cycle", "error", err)
		return entity.PortfolioSnapshot{}, nil, err
	}

	var (
		mu         sync.Mutex
		collected  []entity.WalletBalances
		walletErrs []entity.PortfolioError
	)

	var g errgroup.Group
	g.SetLimit(s.cfg.Portfolio.MaxConcurrentWallets)
	for _, wallet := range active {
		wallet := wallet
		g.Go(func() error {
			balances, err := s.collector.Collect(ctx, wallet.Address)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				s.logger.Warn("Wallet balance collection failed",
					"wallet", wallet.Address, "error", err)
				metrics.WalletFailures.Inc()
				walletErrs = append(walletErrs, entity.PortfolioError{
					WalletAddress: wallet.Address,
					Message:       err.Error(),
				})
				return nil
			}
			collected = append(collected, balances)
			return nil
		})
	}
	_ = g.Wait()

	assetIDs := lo.Uniq(lo.FlatMap(collected, func(b entity.WalletBalances, _ int) []string {
		return b.AssetIDs()
	}))

	quotes := map[string]entity.PriceQuote{}
	if len(assetIDs) > 0 {
		quotes = s.resolver.ResolvePrices(ctx, assetIDs)
	}

	snapshot := s.buildSnapshot(collected, quotes, started)
	s.logger.Info("Aggregation cycle finished",
		"wallets", len(active),
		"failedWallets", len(walletErrs),
		"holdings", len(snapshot.Holdings),
		"totalValue", snapshot.TotalValue.String())
	return snapshot, walletErrs, nil
}

// buildSnapshot folds per-wallet balances and resolved quotes into one
// sorted snapshot. Assets without a quote are kept at zero value so the
// position stays visible.
func (s *PortfolioServiceImpl) buildSnapshot(
	collected []entity.WalletBalances,
	quotes map[string]entity.PriceQuote,
	capturedAt time.Time,
) entity.PortfolioSnapshot {
	// Wallet collection finishes in goroutine-completion order; fold in
	// wallet-address order so merged metadata does not depend on timing.
	sort.Slice(collected, func(i, j int) bool {
		return collected[i].WalletAddress < collected[j].WalletAddress
	})

	merged := make(map[string]entity.Holding)

	fold := func(h entity.Holding) {
		key := h.MergeKey()
		if existing, ok := merged[key]; ok {
			merged[key] = existing.Merge(h)
		} else {
			merged[key] = h
		}
	}

	for _, balances := range collected {
		if balances.NativeBalance.IsPositive() {
			quote := quotes[entity.SOLMint]
			fold(entity.Holding{
				AssetID:     entity.SOLMint,
				Symbol:      entity.SOLSymbol,
				DisplayName: entity.SOLName,
				Quantity:    balances.NativeBalance,
				UnitPrice:   quote.PriceUSD,
				Value:       balances.NativeBalance.Mul(quote.PriceUSD),
				Decimals:    entity.SOLDecimals,
			})
		}
		for _, token := range balances.Tokens {
			quote := quotes[token.Mint]
			// The balance provider's metadata wins; the quote only fills gaps.
			symbol := token.Symbol
			if symbol == "" {
				symbol = quote.Symbol
			}
			name := token.Name
			if name == "" {
				name = quote.DisplayName
			}
			fold(entity.Holding{
				AssetID:     token.Mint,
				Symbol:      symbol,
				DisplayName: name,
				Quantity:    token.Quantity,
				UnitPrice:   quote.PriceUSD,
				Value:       token.Quantity.Mul(quote.PriceUSD),
				Decimals:    token.Decimals,
			})
		}
	}

	holdings := lo.Values(merged)
	sort.Slice(holdings, func(i, j int) bool {
		if !holdings[i].Value.Equal(holdings[j].Value) {
			return holdings[i].Value.GreaterThan(holdings[j].Value)
		}
		if holdings[i].Symbol != holdings[j].Symbol {
			return holdings[i].Symbol < holdings[j].Symbol
		}
		return holdings[i].AssetID < holdings[j].AssetID
	})

	total := decimalSum(holdings)
	return entity.PortfolioSnapshot{
		TotalValue: total,
		Currency:   "USD",
		Holdings:   holdings,
		CapturedAt: capturedAt,
	}
}

// Refresh loads the tracked wallets, aggregates them, persists the result
// and pushes the converted total to the notification surface. Concurrent
// refreshes over the same wallet set collapse into one cycle.
func (s *PortfolioServiceImpl) Refresh(ctx context.Context) (entity.PortfolioSnapshot, []entity.PortfolioError, error) {
	wallets, err := s.walletStore.GetWallets()
	if err != nil {
		return entity.PortfolioSnapshot{}, nil, err
	}

	type refreshResult struct {
		snapshot entity.PortfolioSnapshot
		errs     []entity.PortfolioError
	}

	key := refreshKey(wallets)
	v, err, shared := s.inflight.Do(key, func() (any, error) {
		snapshot, walletErrs, err := s.Aggregate(ctx, wallets)
		if err != nil {
			return nil, err
		}
		s.storeSnapshot(snapshot)
		s.publish(ctx, snapshot)
		return refreshResult{snapshot: snapshot, errs: walletErrs}, nil
	})
	if err != nil {
		return entity.PortfolioSnapshot{}, nil, err
	}
	if shared {
		s.logger.Debug("Refresh coalesced with an in-flight cycle")
	}
	result := v.(refreshResult)
	return result.snapshot, result.errs, nil
}

// LastSnapshot returns the most recent snapshot, falling back to the
// persisted one from a previous run.
func (s *PortfolioServiceImpl) LastSnapshot() (entity.PortfolioSnapshot, bool) {
	s.mu.RLock()
	if s.last != nil {
		snapshot := *s.last
		s.mu.RUnlock()
		return snapshot, true
	}
	s.mu.RUnlock()

	var snapshot entity.PortfolioSnapshot
	found, err := s.kv.Get(lastSnapshotKey, &snapshot)
	if err != nil || !found {
		return entity.PortfolioSnapshot{}, false
	}
	s.mu.Lock()
	s.last = &snapshot
	s.mu.Unlock()
	return snapshot, true
}

func (s *PortfolioServiceImpl) storeSnapshot(snapshot entity.PortfolioSnapshot) {
	s.mu.Lock()
	s.last = &snapshot
	s.mu.Unlock()

	if err := s.kv.Set(lastSnapshotKey, snapshot); err != nil {
		s.logger.Warn("Failed to persist snapshot", "error", err)
	}
}

func (s *PortfolioServiceImpl) publish(ctx context.Context, snapshot entity.PortfolioSnapshot) {
	if s.notifier == nil {
		return
	}
	currency := s.settings.SelectedCurrency()
	converted := s.converter.Convert(ctx, snapshot, currency)
	s.notifier.PublishTotal(utils.FormatTotal(converted.TotalValue, converted.Currency))
}

// refreshKey canonicalizes a wallet set so concurrent refreshes over the
// same set share one in-flight cycle.
func refreshKey(wallets []entity.Wallet) string {
	addresses := lo.FilterMap(wallets, func(w entity.Wallet, _ int) (string, bool) {
		return w.Address, w.Enabled
	})
	sort.Strings(addresses)
	return strings.Join(addresses, ",")
}

func decimalSum(holdings []entity.Holding) (total decimal.Decimal) {
	for _, h := range holdings {
		total = total.Add(h.Value)
	}
	return total
}

var _ port.PortfolioService = (*PortfolioServiceImpl)(nil)
