package client

import (
	"context"
	"fmt"
	"strings"
	"time"

	"portfolio_tracker/internal/entity"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

// MoralisClient defines the interface for the token-index provider: SPL
// token holdings per wallet plus a per-mint price endpoint used as the last
// stage of the price fallback chain.
type MoralisClient interface {
	GetTokenHoldings(ctx context.Context, walletAddress string) ([]entity.MoralisTokenHolding, error)
	GetTokenPrice(ctx context.Context, mint string) (entity.MoralisTokenPrice, error)
}

type moralisClientImpl struct {
	client  *fasthttp.Client
	baseURL string
	apiKey  string
	timeout time.Duration
	logger  *zap.Logger
}

// NewMoralisClient creates a new Moralis Solana gateway client.
func NewMoralisClient(baseURL, apiKey string, timeout time.Duration, logger *zap.Logger) MoralisClient {
	return &moralisClientImpl{
		client:  &fasthttp.Client{},
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		timeout: timeout,
		logger:  logger.Named("MoralisClient"),
	}
}

// GetTokenHoldings implements MoralisClient.
func (c *moralisClientImpl) GetTokenHoldings(ctx context.Context, walletAddress string) ([]entity.MoralisTokenHolding, error) {
	requestURL := fmt.Sprintf("%s/account/mainnet/%s/tokens?network=mainnet&excludeSpam=false", c.baseURL, walletAddress)

	body, err := c.doGet(ctx, requestURL)
	if err != nil {
		return nil, err
	}

	var holdings []entity.MoralisTokenHolding
	if err := json.Unmarshal(body, &holdings); err != nil {
		return nil, fmt.Errorf("failed to unmarshal token holdings response: %w", err)
	}

	c.logger.Debug("Fetched token holdings", zap.String("wallet", walletAddress), zap.Int("count", len(holdings)))
	return holdings, nil
}

// GetTokenPrice implements MoralisClient. The endpoint supports no batching,
// callers loop over individual mints.
func (c *moralisClientImpl) GetTokenPrice(ctx context.Context, mint string) (entity.MoralisTokenPrice, error) {
	requestURL := fmt.Sprintf("%s/token/mainnet/%s/price?network=mainnet", c.baseURL, mint)

	body, err := c.doGet(ctx, requestURL)
	if err != nil {
		return entity.MoralisTokenPrice{}, err
	}

	var price entity.MoralisTokenPrice
	if err := json.Unmarshal(body, &price); err != nil {
		return entity.MoralisTokenPrice{}, fmt.Errorf("failed to unmarshal token price response: %w", err)
	}
	return price, nil
}

func (c *moralisClientImpl) doGet(ctx context.Context, requestURL string) ([]byte, error) {
	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	req.SetRequestURI(requestURL)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("X-API-Key", c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	var err error
	if deadline, ok := ctx.Deadline(); ok {
		err = c.client.DoDeadline(req, resp, deadline)
	} else {
		err = c.client.DoTimeout(req, resp, c.timeout)
	}
	if err != nil {
		c.logger.Error("Failed to execute request to Moralis", zap.String("url", requestURL), zap.Error(err))
		return nil, fmt.Errorf("failed to execute request to %s: %w", requestURL, err)
	}

	if resp.StatusCode() == fasthttp.StatusUnauthorized {
		return nil, fmt.Errorf("moralis rejected the API key (status 401)")
	}
	if resp.StatusCode() != fasthttp.StatusOK {
		c.logger.Error("Moralis API request failed",
			zap.String("url", requestURL),
			zap.Int("statusCode", resp.StatusCode()))
		return nil, fmt.Errorf("moralis API request to %s failed with status %d", requestURL, resp.StatusCode())
	}

	body := resp.Body()
	out := make([]byte, len(body))
	copy(out, body)
	return out, nil
}
