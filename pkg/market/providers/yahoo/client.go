package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"marketsnap/pkg/market"
)

const (
	defaultBaseURL     = "https://query1.finance.yahoo.com"
	defaultHTTPTimeout = 15 * time.Second
	// Yahoo rejects Go's default user agent outright.
	defaultUserAgent = "Mozilla/5.0 (compatible; marketsnap/1.0)"
)

// Client wraps access to the Yahoo Finance v8 chart endpoint.
type Client struct {
	baseURL    string
	httpClient *http.Client
	userAgent  string
}

// Option configures a new Client.
type Option func(*Client)

// WithHTTPClient injects a custom http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithBaseURL overrides the default chart endpoint URL.
func WithBaseURL(url string) Option {
	return func(c *Client) {
		if url != "" {
			c.baseURL = url
		}
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// NewClient constructs a Yahoo Finance chart client.
func NewClient(opts ...Option) *Client {
	client := &Client{
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: defaultHTTPTimeout},
		userAgent:  defaultUserAgent,
	}
	for _, opt := range opts {
		opt(client)
	}
	if client.httpClient == nil {
		client.httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return client
}

// DailyCloses fetches the daily close series for one symbol over a named
// range. Requests are single shot; callers own any fallback policy.
func (c *Client) DailyCloses(ctx context.Context, symbol string, window market.Window) (market.Series, error) {
	endpoint := fmt.Sprintf("%s/v8/finance/chart/%s", c.baseURL, url.PathEscape(symbol))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("yahoo: build request: %w", err)
	}
	q := httpReq.URL.Query()
	q.Set("interval", "1d")
	q.Set("range", string(window))
	httpReq.URL.RawQuery = q.Encode()
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("yahoo: request %s: %w", symbol, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("yahoo: read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("yahoo: http status %d: %s", resp.StatusCode, string(body))
	}

	var payload chartResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("yahoo: decode response: %w", err)
	}
	return payload.series(symbol)
}

// series converts the chart payload into an ordered close series, preserving
// null closes as missing points.
func (r *chartResponse) series(symbol string) (market.Series, error) {
	if r.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo: chart error for %s: %s", symbol, r.Chart.Error)
	}
	if len(r.Chart.Result) == 0 {
		return nil, fmt.Errorf("yahoo: empty chart result for %s", symbol)
	}
	result := r.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, fmt.Errorf("yahoo: missing quote block for %s", symbol)
	}

	closes := result.Indicators.Quote[0].Close
	series := make(market.Series, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		point := market.Point{Time: time.Unix(ts, 0).UTC()}
		if i < len(closes) && closes[i] != nil {
			v := *closes[i]
			point.Close = &v
		}
		series = append(series, point)
	}
	return series, nil
}
