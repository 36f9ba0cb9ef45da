// Package birdeye is the primary price source client. Every outbound call
// goes through the client's rate limiter; outcomes are classified into
// total, error-carrying results — nothing in here panics or propagates
// transport errors to the caller.
package birdeye

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
	"sync"
	"time"

	"pnl-research/internal/domain"
	"pnl-research/internal/infra/ratelimit"
)

const (
	// DefaultBaseURL is the public Birdeye API host.
	DefaultBaseURL = "https://public-api.birdeye.so"

	pointPriceTimeout = 15 * time.Second
	rangeTimeout      = 30 * time.Second
	currentTimeout    = 10 * time.Second

	maxErrorBody = 200
)

type cacheKey struct {
	address string
	ts      int64
}

// Client is the Birdeye REST client. Safe for concurrent use: the limiter
// serializes admission, the point cache has its own mutex and the stats are
// atomic. Response order across concurrent callers is not guaranteed to
// match issue order.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *ratelimit.Limiter
	logger     *slog.Logger
	stats      Stats

	cacheMu sync.Mutex
	cache   map[cacheKey]domain.PriceResult
}

// NewClient creates a Birdeye client with its own rate limiter.
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
		logger:  slog.Default().With("module", "birdeye_client"),
		cache:   make(map[cacheKey]domain.PriceResult),
	}
}

// Stats returns a snapshot of this client's request counters.
func (c *Client) Stats() StatsSnapshot {
	return c.stats.Snapshot()
}

// ClearCache drops every cached point lookup.
func (c *Client) ClearCache() {
	c.cacheMu.Lock()
	defer c.cacheMu.Unlock()
	c.cache = make(map[cacheKey]domain.PriceResult)
}

// PriceAt fetches the token price at a specific unix timestamp.
// Millisecond timestamps are normalized down to seconds. Successful results
// are memoized under (address, timestamp) when useCache is set; failures are
// never cached.
func (c *Client) PriceAt(ctx context.Context, address string, timestamp int64, useCache bool) domain.PriceResult {
	timestamp = domain.EpochSec(timestamp)
	key := cacheKey{address: address, ts: timestamp}

	if useCache {
		c.cacheMu.Lock()
		cached, ok := c.cache[key]
		c.cacheMu.Unlock()
		if ok {
			c.stats.cacheHit()
			return cached
		}
	}

	result := c.fetchPrice(ctx, "/defi/historical_price_unix", url.Values{
		"address":  {address},
		"unixtime": {strconv.FormatInt(timestamp, 10)},
	}, pointPriceTimeout)

	if result.Success && useCache {
		c.cacheMu.Lock()
		c.cache[key] = result
		c.cacheMu.Unlock()
	}
	return result
}

// CurrentPrice fetches the live token price. Never cached.
func (c *Client) CurrentPrice(ctx context.Context, address string) domain.PriceResult {
	return c.fetchPrice(ctx, "/defi/price", url.Values{
		"address": {address},
	}, currentTimeout)
}

// PriceHistory fetches raw price points over [from, to]. History is
// best-effort: any failure yields an empty slice, never an error, because
// the downstream merge is idempotent and the caller just retries next run.
func (c *Client) PriceHistory(ctx context.Context, address string, from, to int64, interval domain.Interval) []domain.PricePoint {
	from, to = domain.EpochSec(from), domain.EpochSec(to)

	resp, err := c.get(ctx, "/defi/history_price", url.Values{
		"address":      {address},
		"address_type": {"token"},
		"type":         {string(interval)},
		"time_from":    {strconv.FormatInt(from, 10)},
		"time_to":      {strconv.FormatInt(to, 10)},
	}, rangeTimeout)
	if err != nil {
		c.stats.failure()
		c.logger.Warn("history fetch failed", slog.String("address", address), slog.Any("error", err))
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.stats.failure()
		c.logger.Warn("history fetch rejected", slog.String("address", address), slog.Int("status", resp.StatusCode))
		return nil
	}

	var decoded historyResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil || !decoded.Success || decoded.Data == nil {
		c.stats.failure()
		return nil
	}

	c.stats.success()
	return decoded.Data.Items
}

// OHLCV fetches raw candles over [from, to]. Same best-effort contract as
// PriceHistory, distinct upstream shape.
func (c *Client) OHLCV(ctx context.Context, address string, from, to int64, interval domain.Interval) []domain.OHLCVItem {
	from, to = domain.EpochSec(from), domain.EpochSec(to)

	resp, err := c.get(ctx, "/defi/ohlcv", url.Values{
		"address":   {address},
		"type":      {string(interval)},
		"time_from": {strconv.FormatInt(from, 10)},
		"time_to":   {strconv.FormatInt(to, 10)},
	}, rangeTimeout)
	if err != nil {
		c.stats.failure()
		c.logger.Warn("ohlcv fetch failed", slog.String("address", address), slog.Any("error", err))
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.stats.failure()
		c.logger.Warn("ohlcv fetch rejected", slog.String("address", address), slog.Int("status", resp.StatusCode))
		return nil
	}

	var decoded ohlcvResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil || !decoded.Success || decoded.Data == nil {
		c.stats.failure()
		return nil
	}

	c.stats.success()
	return decoded.Data.Items
}

// fetchPrice runs one point-price request and classifies the outcome.
func (c *Client) fetchPrice(ctx context.Context, path string, query url.Values, timeout time.Duration) domain.PriceResult {
	resp, err := c.get(ctx, path, query, timeout)
	if err != nil {
		c.stats.failure()
		return domain.Failure(classifyTransport(err))
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var decoded priceResponse
		if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
			c.stats.failure()
			return domain.Failure(fmt.Sprintf("malformed payload: %v", err))
		}
		if !decoded.Success || decoded.Data == nil {
			c.stats.failure()
			msg := decoded.Message
			if msg == "" {
				msg = "empty response"
			}
			return domain.Failure(msg)
		}
		c.stats.success()
		return domain.PriceResult{
			Success:   true,
			Value:     decoded.Data.Value,
			UpdatedAt: decoded.Data.UpdateUnixTime,
			Change24h: decoded.Data.PriceChange24h,
		}

	case http.StatusUnauthorized, http.StatusForbidden:
		c.stats.failure()
		return domain.Failure(fmt.Sprintf("credential rejected (%d)", resp.StatusCode))

	case http.StatusTooManyRequests:
		c.stats.failure()
		return domain.Failure("rate limited (429)")

	default:
		c.stats.failure()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return domain.Failure(fmt.Sprintf("HTTP %d: %s", resp.StatusCode, body))
	}
}

// get paces, builds and issues one GET request with a bounded timeout.
func (c *Client) get(ctx context.Context, path string, query url.Values, timeout time.Duration) (*http.Response, error) {
	if err := c.limiter.Acquire(ctx); err != nil {
		return nil, err
	}
	c.stats.request()

	ctx, cancel := context.WithTimeout(ctx, timeout)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+query.Encode(), nil)
	if err != nil {
		cancel()
		return nil, err
	}
	req.Header.Set("accept", "application/json")
	req.Header.Set("x-chain", "solana")
	req.Header.Set("X-API-KEY", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		cancel()
		return nil, err
	}
	// Tie the timeout context to the response body lifetime.
	resp.Body = &cancelBody{ReadCloser: resp.Body, cancel: cancel}
	return resp, nil
}

type cancelBody struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (b *cancelBody) Close() error {
	b.cancel()
	return b.ReadCloser.Close()
}

// classifyTransport maps transport-level failures to the two classes the
// callers care about: timeouts and everything else.
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
