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

// ExchangeRateClient defines the interface for the fiat exchange-rate
// provider.
type ExchangeRateClient interface {
	GetLatestRates(ctx context.Context) (map[string]float64, error)
}

type exchangeRateClientImpl struct {
	client  *fasthttp.Client
	baseURL string
	timeout time.Duration
	logger  *zap.Logger
}

// NewExchangeRateClient creates a new exchange-rate client.
func NewExchangeRateClient(baseURL string, timeout time.Duration, logger *zap.Logger) ExchangeRateClient {
	return &exchangeRateClientImpl{
		client:  &fasthttp.Client{},
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
		logger:  logger.Named("ExchangeRateClient"),
	}
}

// GetLatestRates implements ExchangeRateClient. Rates are USD-relative
// multipliers.
func (c *exchangeRateClientImpl) GetLatestRates(ctx context.Context) (map[string]float64, error) {
	requestURL := fmt.Sprintf("%s/v4/latest/USD", c.baseURL)

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	req.SetRequestURI(requestURL)
	req.Header.SetMethod(fasthttp.MethodGet)

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	var err error
	if deadline, ok := ctx.Deadline(); ok {
		err = c.client.DoDeadline(req, resp, deadline)
	} else {
		err = c.client.DoTimeout(req, resp, c.timeout)
	}
	if err != nil {
		c.logger.Error("Failed to execute request to exchange-rate provider", zap.String("url", requestURL), zap.Error(err))
		return nil, fmt.Errorf("failed to execute request to %s: %w", requestURL, err)
	}

	if resp.StatusCode() != fasthttp.StatusOK {
		c.logger.Error("Exchange-rate API request failed",
			zap.String("url", requestURL),
			zap.Int("statusCode", resp.StatusCode()))
		return nil, fmt.Errorf("exchange-rate API request to %s failed with status %d", requestURL, resp.StatusCode())
	}

	var parsed entity.ExchangeRateResponse
	if err := json.Unmarshal(resp.Body(), &parsed); err != nil {
		return nil, fmt.Errorf("failed to unmarshal exchange-rate response: %w", err)
	}
	if parsed.Rates == nil {
		return nil, fmt.Errorf("exchange-rate response contained no rates")
	}

	c.logger.Debug("Fetched exchange rates", zap.Int("currencyCount", len(parsed.Rates)))
	return parsed.Rates, nil
}
