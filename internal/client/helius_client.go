package client

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

// HeliusClient defines the interface for the node-RPC provider. It exposes
// the single JSON-RPC method the tracker needs.
type HeliusClient interface {
	// GetBalance returns the native balance of a wallet in lamports.
	GetBalance(ctx context.Context, walletAddress string) (uint64, error)
}

type heliusClientImpl struct {
	client  *fasthttp.Client
	rpcURL  string
	timeout time.Duration
	logger  *zap.Logger
}

// NewHeliusClient creates a new Helius JSON-RPC client. The API key is baked
// into the endpoint URL, as the provider expects.
func NewHeliusClient(baseURL, apiKey string, timeout time.Duration, logger *zap.Logger) HeliusClient {
	return &heliusClientImpl{
		client:  &fasthttp.Client{},
		rpcURL:  fmt.Sprintf("%s/?api-key=%s", strings.TrimRight(baseURL, "/"), apiKey),
		timeout: timeout,
		logger:  logger.Named("HeliusClient"),
	}
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      string `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *rpcError) Error() string {
	return fmt.Sprintf("RPC error %d: %s", e.Code, e.Message)
}

type getBalanceResponse struct {
	Result *struct {
		Value uint64 `json:"value"`
	} `json:"result"`
	Error *rpcError `json:"error"`
}

// GetBalance implements HeliusClient.
func (c *heliusClientImpl) GetBalance(ctx context.Context, walletAddress string) (uint64, error) {
	body, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		ID:      "get-balance",
		Method:  "getBalance",
		Params:  []any{walletAddress},
	})
	if err != nil {
		return 0, fmt.Errorf("failed to marshal getBalance request: %w", err)
	}

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	req.SetRequestURI(c.rpcURL)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentTypeBytes([]byte("application/json"))
	req.SetBody(body)

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	if deadline, ok := ctx.Deadline(); ok {
		err = c.client.DoDeadline(req, resp, deadline)
	} else {
		err = c.client.DoTimeout(req, resp, c.timeout)
	}
	if err != nil {
		c.logger.Error("Failed to execute getBalance request", zap.String("wallet", walletAddress), zap.Error(err))
		return 0, fmt.Errorf("failed to execute getBalance request: %w", err)
	}

	if resp.StatusCode() != fasthttp.StatusOK {
		c.logger.Error("Node RPC request failed",
			zap.String("wallet", walletAddress),
			zap.Int("statusCode", resp.StatusCode()))
		return 0, fmt.Errorf("node RPC request failed with status %d", resp.StatusCode())
	}

	var parsed getBalanceResponse
	if err := json.Unmarshal(resp.Body(), &parsed); err != nil {
		return 0, fmt.Errorf("failed to unmarshal getBalance response: %w", err)
	}
	if parsed.Error != nil {
		return 0, fmt.Errorf("getBalance failed: %w", parsed.Error)
	}
	if parsed.Result == nil {
		return 0, nil
	}

	c.logger.Debug("Fetched native balance", zap.String("wallet", walletAddress), zap.Uint64("lamports", parsed.Result.Value))
	return parsed.Result.Value, nil
}
