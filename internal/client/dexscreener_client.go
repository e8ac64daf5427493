package client

import (
	"context"
	"fmt"
	"strings"
	"time"

	"portfolio_tracker/internal/entity"

	jsoniter "github.com/json-iterator/go"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// DEXScreenerClient defines the interface for interacting with the DEX
// Screener API, the primary (batched) price provider.
type DEXScreenerClient interface {
	GetTokenPairs(ctx context.Context, mints []string) ([]entity.PairData, error)
}

type dexScreenerClientImpl struct {
	client             *fasthttp.Client
	baseURL            string
	timeout            time.Duration
	logger             *zap.Logger
	maxMintsPerRequest int
}

// NewDEXScreenerClient creates a new DEX Screener client.
func NewDEXScreenerClient(baseURL string, timeout time.Duration, logger *zap.Logger, maxMintsPerRequest int) DEXScreenerClient {
	return &dexScreenerClientImpl{
		client:             &fasthttp.Client{},
		baseURL:            strings.TrimRight(baseURL, "/"),
		timeout:            timeout,
		logger:             logger.Named("DEXScreenerClient"),
		maxMintsPerRequest: maxMintsPerRequest,
	}
}

// GetTokenPairs fetches all trading pairs for the given mint addresses in a
// single batched request. One mint can yield several pairs; the caller picks
// the quote to keep.
func (c *dexScreenerClientImpl) GetTokenPairs(ctx context.Context, mints []string) ([]entity.PairData, error) {
	if len(mints) == 0 {
		return nil, fmt.Errorf("mints cannot be empty")
	}
	if len(mints) > c.maxMintsPerRequest {
		return nil, fmt.Errorf("number of mints (%d) exceeds max mints per request (%d)", len(mints), c.maxMintsPerRequest)
	}

	requestURL := fmt.Sprintf("%s/latest/dex/tokens/%s", c.baseURL, strings.Join(mints, ","))
	c.logger.Debug("Requesting token pairs from DEX Screener", zap.String("url", requestURL), zap.Int("mintCount", len(mints)))

	rawBody, err := c.doGet(ctx, requestURL)
	if err != nil {
		return nil, err
	}

	var wrapper entity.DEXTokenPairs
	if err := json.Unmarshal(rawBody, &wrapper); err == nil && wrapper.Pairs != nil {
		c.logger.Debug("Unmarshalled DEX Screener response (wrapped object)", zap.Int("pairCount", len(wrapper.Pairs)))
		return wrapper.Pairs, nil
	}

	var directPairs []entity.PairData
	if err := json.Unmarshal(rawBody, &directPairs); err != nil {
		c.logger.Error("Failed to unmarshal DEX Screener response",
			zap.String("url", requestURL),
			zap.ByteString("responseBody", rawBody),
			zap.Error(err))
		return nil, fmt.Errorf("failed to unmarshal DEX Screener response from %s: %w", requestURL, err)
	}

	c.logger.Debug("Unmarshalled DEX Screener response (direct array)", zap.Int("pairCount", len(directPairs)))
	return directPairs, nil
}

func (c *dexScreenerClientImpl) doGet(ctx context.Context, requestURL string) ([]byte, error) {
	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	req.SetRequestURI(requestURL)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.SetContentTypeBytes([]byte("application/json"))

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	if deadline, ok := ctx.Deadline(); ok {
		if err := c.client.DoDeadline(req, resp, deadline); err != nil {
			c.logger.Error("Failed to execute request to DEX Screener", zap.String("url", requestURL), zap.Error(err))
			return nil, fmt.Errorf("failed to execute request to %s: %w", requestURL, err)
		}
	} else {
		if err := c.client.DoTimeout(req, resp, c.timeout); err != nil {
			c.logger.Error("Failed to execute request to DEX Screener (with default timeout)", zap.String("url", requestURL), zap.Error(err))
			return nil, fmt.Errorf("failed to execute request to %s with default timeout: %w", requestURL, err)
		}
	}

	body := resp.Body()
	if resp.StatusCode() != fasthttp.StatusOK {
		c.logger.Error("DEX Screener API request failed",
			zap.String("url", requestURL),
			zap.Int("statusCode", resp.StatusCode()),
			zap.ByteString("responseBody", body))
		return nil, fmt.Errorf("DEX Screener API request to %s failed with status %d", requestURL, resp.StatusCode())
	}

	// Body is owned by the pooled response, copy before release.
	out := make([]byte, len(body))
	copy(out, body)
	return out, nil
}
