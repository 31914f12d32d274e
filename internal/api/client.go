package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/dgnsrekt/barcache/internal/bars"
)

// HTTPClient talks to the Alpaca market data v2 REST API.
type HTTPClient struct {
	httpClient *http.Client
	baseURL    string
	keyID      string
	secretKey  string
	feed       string
	adjustment string
	pageLimit  int
	limiter    *rate.Limiter
	retryCount int
	retryDelay time.Duration
	logger     *zap.Logger
}

// Options carries the non-credential settings of HTTPClient.
type Options struct {
	Feed       string
	Adjustment string
	PageLimit  int
	RatePerSec int
	Timeout    time.Duration
	RetryCount int
	RetryDelay time.Duration
}

type barsResponse struct {
	Bars          map[string][]wireBar `json:"bars"`
	NextPageToken *string              `json:"next_page_token"`
}

type wireBar struct {
	Timestamp  time.Time `json:"t"`
	Open       float64   `json:"o"`
	High       float64   `json:"h"`
	Low        float64   `json:"l"`
	Close      float64   `json:"c"`
	Volume     float64   `json:"v"`
	TradeCount float64   `json:"n"`
	VWAP       float64   `json:"vw"`
}

func NewClient(baseURL, keyID, secretKey string, opts Options, logger *zap.Logger) *HTTPClient {
	transport := &http.Transport{
		MaxIdleConns:       100,
		MaxConnsPerHost:    10,
		IdleConnTimeout:    90 * time.Second,
		DisableCompression: false,
	}

	ratePerSec := opts.RatePerSec
	if ratePerSec < 1 {
		ratePerSec = 1
	}

	return &HTTPClient{
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   opts.Timeout,
		},
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		keyID:      keyID,
		secretKey:  secretKey,
		feed:       opts.Feed,
		adjustment: opts.Adjustment,
		pageLimit:  opts.PageLimit,
		limiter:    rate.NewLimiter(rate.Limit(ratePerSec), ratePerSec*2),
		retryCount: opts.RetryCount,
		retryDelay: opts.RetryDelay,
		logger:     logger,
	}
}

// FetchBars requests bars for symbols in [start, end] and follows pagination
// until the API stops returning a page token.
func (c *HTTPClient) FetchBars(ctx context.Context, symbols []string, tf bars.TimeFrame, start, end time.Time) (*bars.Table, error) {
	if c.keyID == "" || c.secretKey == "" {
		return nil, fmt.Errorf("%w: ALPACA_API_KEY and ALPACA_SECRET_KEY must be set", ErrAuthFailed)
	}

	var all []bars.Bar
	pageToken := ""
	pages := 0

	for {
		resp, err := c.getPage(ctx, c.pageURL(symbols, tf, start, end, pageToken))
		if err != nil {
			return nil, err
		}
		pages++

		for symbol, rows := range resp.Bars {
			for _, b := range rows {
				all = append(all, bars.Bar{
					Symbol:     symbol,
					Timestamp:  b.Timestamp.UTC(),
					Open:       b.Open,
					High:       b.High,
					Low:        b.Low,
					Close:      b.Close,
					Volume:     b.Volume,
					TradeCount: b.TradeCount,
					VWAP:       b.VWAP,
				})
			}
		}

		if resp.NextPageToken == nil || *resp.NextPageToken == "" {
			break
		}
		pageToken = *resp.NextPageToken
	}

	c.logger.Debug("fetched bars",
		zap.Int("symbols", len(symbols)),
		zap.String("timeframe", tf.String()),
		zap.Int("pages", pages),
		zap.Int("rows", len(all)),
	)

	return bars.NewTable(all), nil
}

func (c *HTTPClient) pageURL(symbols []string, tf bars.TimeFrame, start, end time.Time, pageToken string) string {
	q := url.Values{}
	q.Set("symbols", strings.Join(symbols, ","))
	q.Set("timeframe", tf.String())
	q.Set("start", start.UTC().Format(time.RFC3339))
	q.Set("end", end.UTC().Format(time.RFC3339))
	if c.pageLimit > 0 {
		q.Set("limit", strconv.Itoa(c.pageLimit))
	}
	if c.feed != "" {
		q.Set("feed", c.feed)
	}
	if c.adjustment != "" {
		q.Set("adjustment", c.adjustment)
	}
	if pageToken != "" {
		q.Set("page_token", pageToken)
	}
	return c.baseURL + "/v2/stocks/bars?" + q.Encode()
}

func (c *HTTPClient) getPage(ctx context.Context, url string) (*barsResponse, error) {
	// Wait for rate limiter
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	c.logger.Debug("requesting", zap.String("url", url))

	var lastErr error
	for attempt := 0; attempt <= c.retryCount; attempt++ {
		if attempt > 0 {
			delay := c.retryDelay * time.Duration(1<<(attempt-1)) // Exponential backoff
			c.logger.Debug("retrying request", zap.Int("attempt", attempt), zap.Duration("delay", delay))

			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, fmt.Errorf("creating request: %w", err)
		}

		req.Header.Set("APCA-API-KEY-ID", c.keyID)
		req.Header.Set("APCA-API-SECRET-KEY", c.secretKey)
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		// Read body before closing for error messages
		body, readErr := io.ReadAll(resp.Body)
		_ = resp.Body.Close()

		if readErr != nil {
			lastErr = readErr
			continue
		}

		switch {
		case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
			return nil, fmt.Errorf("%w: status %d: %s", ErrAuthFailed, resp.StatusCode, strings.TrimSpace(string(body)))
		case resp.StatusCode == http.StatusTooManyRequests:
			lastErr = ErrRateLimited
			continue
		case resp.StatusCode >= 500:
			lastErr = fmt.Errorf("server error: %d", resp.StatusCode)
			continue
		case resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnprocessableEntity:
			return nil, fmt.Errorf("%w: status %d: %s", ErrBadRequest, resp.StatusCode, strings.TrimSpace(string(body)))
		case resp.StatusCode != http.StatusOK:
			return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
		}

		var page barsResponse
		if err := json.Unmarshal(body, &page); err != nil {
			return nil, fmt.Errorf("decoding response: %w", err)
		}

		return &page, nil
	}

	if c.retryCount == 0 {
		return nil, lastErr
	}
	return nil, fmt.Errorf("max retries exceeded: %w", lastErr)
}
