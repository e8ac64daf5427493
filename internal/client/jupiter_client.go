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

// JupiterClient defines the interface for the secondary (batched) price
// provider. Jupiter reports no liquidity figures.
type JupiterClient interface {
	GetPrices(ctx context.Context, mints []string) (map[string]*entity.JupiterPrice, error)
}

type jupiterClientImpl struct {
	client  *fasthttp.Client
	baseURL string
	timeout time.Duration
	logger  *zap.Logger
}

// NewJupiterClient creates a new Jupiter price client.
func NewJupiterClient(baseURL string, timeout time.Duration, logger *zap.Logger) JupiterClient {
	return &jupiterClientImpl{
		client:  &fasthttp.Client{},
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
		logger:  logger.Named("JupiterClient"),
	}
}

// GetPrices implements JupiterClient.
func (c *jupiterClientImpl) GetPrices(ctx context.Context, mints []string) (map[string]*entity.JupiterPrice, error) {
	if len(mints) == 0 {
		return map[string]*entity.JupiterPrice{}, nil
	}

	requestURL := fmt.Sprintf("%s/price/v2?ids=%s", c.baseURL, strings.Join(mints, ","))
	c.logger.Debug("Requesting prices from Jupiter", zap.Int("mintCount", len(mints)))

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
		c.logger.Error("Failed to execute request to Jupiter", zap.String("url", requestURL), zap.Error(err))
		return nil, fmt.Errorf("failed to execute request to %s: %w", requestURL, err)
	}

	if resp.StatusCode() != fasthttp.StatusOK {
		c.logger.Error("Jupiter API request failed",
			zap.String("url", requestURL),
			zap.Int("statusCode", resp.StatusCode()))
		return nil, fmt.Errorf("jupiter API request to %s failed with status %d", requestURL, resp.StatusCode())
	}

	var parsed entity.JupiterPriceResponse
	if err := json.Unmarshal(resp.Body(), &parsed); err != nil {
		return nil, fmt.Errorf("failed to unmarshal Jupiter response: %w", err)
	}
	if parsed.Data == nil {
		return map[string]*entity.JupiterPrice{}, nil
	}
	return parsed.Data, nil
}
