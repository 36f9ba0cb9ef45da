// Package solscan is the backup price source. It only serves point queries
// and is consulted when the primary source fails; its response shapes vary,
// so extraction runs through an ordered strategy list (see extract.go).
package solscan

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
	"sync/atomic"
	"time"

	"pnl-research/internal/domain"
	"pnl-research/internal/infra/ratelimit"
)

const (
	// DefaultBaseURL is the Solscan Pro API host.
	DefaultBaseURL = "https://pro-api.solscan.io/v2.0"

	requestTimeout = 15 * time.Second
	maxErrorBody   = 100
)

// Client is the Solscan REST client. Same concurrency discipline as the
// primary client: limiter-serialized admission, atomic counters.
type Client struct {
	baseURL    string
	apiToken   string
	httpClient *http.Client
	limiter    *ratelimit.Limiter
	logger     *slog.Logger

	total     atomic.Uint64
	succeeded atomic.Uint64
	failed    atomic.Uint64
}

// NewClient creates a Solscan client with its own rate limiter.
func NewClient(baseURL, apiToken string, limiter *ratelimit.Limiter) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		apiToken: apiToken,
		httpClient: &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:    10,
				IdleConnTimeout: 30 * time.Second,
			},
		},
		limiter: limiter,
		logger:  slog.Default().With("module", "solscan_client"),
	}
}

// StatsSnapshot is a point-in-time view of the request counters.
type StatsSnapshot struct {
	TotalRequests      uint64 `json:"total_requests"`
	SuccessfulRequests uint64 `json:"successful_requests"`
	FailedRequests     uint64 `json:"failed_requests"`
}

// Stats returns the current counter values.
func (c *Client) Stats() StatsSnapshot {
	return StatsSnapshot{
		TotalRequests:      c.total.Load(),
		SuccessfulRequests: c.succeeded.Load(),
		FailedRequests:     c.failed.Load(),
	}
}

// TokenPrice fetches the token price over [from, to]. A to of zero defaults
// to from+1: the upstream models point queries as a degenerate one-second
// range, and that convention is kept as-is. Millisecond timestamps are
// normalized down to seconds.
func (c *Client) TokenPrice(ctx context.Context, address string, from, to int64) domain.PriceResult {
	from = domain.EpochSec(from)
	if to <= 0 {
		to = from + 1
	} else {
		to = domain.EpochSec(to)
	}

	if err := c.limiter.Acquire(ctx); err != nil {
		c.failed.Add(1)
		return domain.Failure(classifyTransport(err))
	}
	c.total.Add(1)

	reqCtx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	query := url.Values{
		"address":   {address},
		"from_time": {strconv.FormatInt(from, 10)},
		"to_time":   {strconv.FormatInt(to, 10)},
	}
	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, c.baseURL+"/token/price?"+query.Encode(), nil)
	if err != nil {
		c.failed.Add(1)
		return domain.Failure(fmt.Sprintf("transport error: %v", err))
	}
	req.Header.Set("accept", "application/json")
	req.Header.Set("token", c.apiToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.failed.Add(1)
		return domain.Failure(classifyTransport(err))
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var payload map[string]any
		if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
			c.failed.Add(1)
			return domain.Failure(fmt.Sprintf("malformed payload: %v", err))
		}

		price, strategy, ok := extractPrice(payload)
		if !ok {
			c.failed.Add(1)
			return domain.Failure("no price field in response")
		}

		c.succeeded.Add(1)
		c.logger.Debug("price extracted",
			slog.String("address", address),
			slog.String("strategy", strategy),
		)
		return domain.PriceResult{Success: true, Value: price, UpdatedAt: from}

	case http.StatusUnauthorized, http.StatusForbidden:
		c.failed.Add(1)
		return domain.Failure(fmt.Sprintf("credential rejected (%d)", resp.StatusCode))

	case http.StatusTooManyRequests:
		c.failed.Add(1)
		return domain.Failure("rate limited (429)")

	default:
		c.failed.Add(1)
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return domain.Failure(fmt.Sprintf("HTTP %d: %s", resp.StatusCode, body))
	}
}

// SolPrice fetches the SOL/USD price at a point in time.
func (c *Client) SolPrice(ctx context.Context, timestamp int64) domain.PriceResult {
	return c.TokenPrice(ctx, domain.SOLMint, timestamp, 0)
}

func classifyTransport(err error) string {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return "timeout"
	}
	if errors.Is(err, context.Canceled) {
		return "request canceled"
	}
	return fmt.Sprintf("transport error: %v", err)
}
