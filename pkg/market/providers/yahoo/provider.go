package yahoo

import (
	"context"
	"net/http"
	"time"

	"github.com/zeromicro/go-zero/core/logx"

	"marketsnap/pkg/market"
)

const defaultProviderTimeout = 8 * time.Second

// Provider adapts the chart client to the generic market.Provider contract.
// Symbols are fetched one at a time; a single request is in flight at once.
type Provider struct {
	client  *Client
	timeout time.Duration
}

type providerConfig struct {
	timeout      time.Duration
	clientConfig []Option
}

// ProviderOption customises the Yahoo provider.
type ProviderOption func(*providerConfig)

// WithTimeout overrides the default per-symbol timeout.
func WithTimeout(timeout time.Duration) ProviderOption {
	return func(cfg *providerConfig) {
		if timeout > 0 {
			cfg.timeout = timeout
		}
	}
}

// WithClientOptions passes options to the underlying chart client.
func WithClientOptions(options ...Option) ProviderOption {
	return func(cfg *providerConfig) {
		cfg.clientConfig = append(cfg.clientConfig, options...)
	}
}

// NewProvider constructs a Yahoo Finance history provider.
func NewProvider(opts ...ProviderOption) *Provider {
	cfg := &providerConfig{
		timeout: defaultProviderTimeout,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return &Provider{
		client:  NewClient(cfg.clientConfig...),
		timeout: cfg.timeout,
	}
}

func init() {
	market.RegisterProvider("yahoo", func(name string, cfg *market.ProviderConfig) (market.Provider, error) {
		opts := []ProviderOption{}
		clientOptions := []Option{}
		if cfg.Timeout > 0 {
			opts = append(opts, WithTimeout(cfg.Timeout))
		}
		if cfg.HTTPTimeout > 0 {
			clientOptions = append(clientOptions, WithHTTPClient(&http.Client{Timeout: cfg.HTTPTimeout}))
		}
		if cfg.BaseURL != "" {
			clientOptions = append(clientOptions, WithBaseURL(cfg.BaseURL))
		}
		if len(clientOptions) > 0 {
			opts = append(opts, WithClientOptions(clientOptions...))
		}
		return NewProvider(opts...), nil
	})
}

// History implements market.Provider. Failed symbols are logged and skipped;
// the call errors only when no symbol could be served at all.
func (p *Provider) History(ctx context.Context, symbols []string, window market.Window) (map[string]market.Series, error) {
	result := make(map[string]market.Series, len(symbols))
	var lastErr error
	for _, symbol := range symbols {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		series, err := p.fetchOne(ctx, symbol, window)
		if err != nil {
			lastErr = err
			logx.WithContext(ctx).Errorf("yahoo: history symbol=%s window=%s err=%v", symbol, window, err)
			continue
		}
		result[symbol] = series
	}
	if len(result) == 0 && lastErr != nil {
		return nil, lastErr
	}
	return result, nil
}

func (p *Provider) fetchOne(ctx context.Context, symbol string, window market.Window) (market.Series, error) {
	reqCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	return p.client.DailyCloses(reqCtx, symbol, window)
}
