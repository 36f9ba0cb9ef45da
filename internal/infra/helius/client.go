// Package helius fetches enhanced transaction history for a wallet. It is
// the raw-transfer source for trade marker extraction.
package helius

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"pnl-research/internal/infra/ratelimit"
)

const (
	// DefaultBaseURL is the Helius enhanced-API host.
	DefaultBaseURL = "https://api.helius.xyz"

	requestTimeout = 30 * time.Second
	maxErrorBody   = 200
)

// Client is the Helius REST client.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *ratelimit.Limiter
	logger     *slog.Logger
}

// NewClient creates a Helius client with its own rate limiter.
func NewClient(baseURL, apiKey string, limiter *ratelimit.Limiter) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:    10,
				IdleConnTimeout: 30 * time.Second,
			},
		},
		limiter: limiter,
		logger:  slog.Default().With("module", "helius_client"),
	}
}

// Transactions fetches up to limit enhanced transactions for a wallet,
// newest first. Failures return an error; the caller logs, skips and
// retries on the next sync run.
func (c *Client) Transactions(ctx context.Context, wallet string, limit int) ([]Transaction, error) {
	if err := c.limiter.Acquire(ctx); err != nil {
		return nil, err
	}

	reqCtx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	query := url.Values{"api-key": {c.apiKey}}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	endpoint := fmt.Sprintf("%s/v0/addresses/%s/transactions?%s", c.baseURL, url.PathEscape(wallet), query.Encode())

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		var netErr net.Error
		if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
			return nil, fmt.Errorf("timeout fetching transactions for %s: %w", wallet, err)
		}
		return nil, fmt.Errorf("transport error: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var txs []Transaction
		if err := json.NewDecoder(resp.Body).Decode(&txs); err != nil {
			return nil, fmt.Errorf("malformed payload: %w", err)
		}
		c.logger.Debug("transactions fetched", slog.String("wallet", wallet), slog.Int("count", len(txs)))
		return txs, nil

	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, fmt.Errorf("credential rejected (%d)", resp.StatusCode)

	case http.StatusTooManyRequests:
		return nil, errors.New("rate limited (429)")

	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, body)
	}
}
