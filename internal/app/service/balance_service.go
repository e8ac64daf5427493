package service

import (
	"context"
	"time"

	"portfolio_tracker/internal/app/port"
	"portfolio_tracker/internal/client"
	"portfolio_tracker/internal/config"
	"portfolio_tracker/internal/domain/entity"
	"portfolio_tracker/internal/pkg/utils"
)

// BalanceServiceImpl implements port.BalanceCollector. Native SOL comes from
// the node-RPC provider, SPL tokens from the token-index provider; the two
// sources are independent and both are required for a wallet to contribute.
type BalanceServiceImpl struct {
	heliusClient  client.HeliusClient
	moralisClient client.MoralisClient
	cfg           *config.Config
	logger        port.Logger
}

// NewBalanceService creates a new BalanceServiceImpl.
func NewBalanceService(
	hc client.HeliusClient,
	mc client.MoralisClient,
	cfg *config.Config,
	l port.Logger,
) port.BalanceCollector {
	return &BalanceServiceImpl{
		heliusClient:  hc,
		moralisClient: mc,
		cfg:           cfg,
		logger:        l,
	}
}

// ValidateCredentials checks both provider credentials without any network
// call, so a misconfigured cycle fails before it starts.
func (s *BalanceServiceImpl) ValidateCredentials() error {
	if s.cfg.Helius.APIKey == "" {
		return &entity.ConfigurationError{Provider: "helius", Reason: "API key not configured"}
	}
	if !config.IsValidHeliusKey(s.cfg.Helius.APIKey) {
		return &entity.ConfigurationError{Provider: "helius", Reason: "API key is not a valid UUID"}
	}
	if s.cfg.Moralis.APIKey == "" {
		return &entity.ConfigurationError{Provider: "moralis", Reason: "API key not configured"}
	}
	if !config.IsValidMoralisKey(s.cfg.Moralis.APIKey) {
		return &entity.ConfigurationError{Provider: "moralis", Reason: "API key is not a valid JWT"}
	}
	return nil
}

// Collect fetches the native balance and token balances for one wallet.
// Errors are returned to the caller, which treats them as a per-wallet
// failure and keeps processing the remaining wallets.
func (s *BalanceServiceImpl) Collect(ctx context.Context, walletAddress string) (entity.WalletBalances, error) {
	if err := s.ValidateCredentials(); err != nil {
		return entity.WalletBalances{}, err
	}

	rpcCtx, cancel := context.WithTimeout(ctx, time.Duration(s.cfg.Helius.RequestTimeoutMillis)*time.Millisecond)
	defer cancel()
	lamports, err := s.heliusClient.GetBalance(rpcCtx, walletAddress)
	if err != nil {
		return entity.WalletBalances{}, &entity.ProviderError{Provider: "helius", Err: err}
	}

	idxCtx, cancel := context.WithTimeout(ctx, time.Duration(s.cfg.Moralis.RequestTimeoutMillis)*time.Millisecond)
	defer cancel()
	rawHoldings, err := s.moralisClient.GetTokenHoldings(idxCtx, walletAddress)
	if err != nil {
		return entity.WalletBalances{}, &entity.ProviderError{Provider: "moralis", Err: err}
	}

	balances := entity.WalletBalances{
		WalletAddress: walletAddress,
		NativeBalance: utils.LamportsToSOL(lamports),
	}

	for _, h := range rawHoldings {
		quantity, err := utils.ParseQuantity(h.Amount)
		if err != nil {
			s.logger.Warn("Skipping token with unparseable amount",
				"wallet", walletAddress, "mint", h.Mint, "amount", h.Amount, "error", err)
			continue
		}
		if !quantity.IsPositive() {
			continue
		}
		decimals := h.Decimals
		if decimals == 0 {
			decimals = entity.DefaultTokenDecimals
		}
		balances.Tokens = append(balances.Tokens, entity.TokenBalance{
			Mint:     h.Mint,
			Quantity: quantity,
			Symbol:   h.Symbol,
			Name:     h.Name,
			Decimals: decimals,
		})
	}

	s.logger.Debug("Collected wallet balances",
		"wallet", walletAddress,
		"nativeBalance", balances.NativeBalance.String(),
		"tokenCount", len(balances.Tokens))
	return balances, nil
}

var _ port.BalanceCollector = (*BalanceServiceImpl)(nil)
