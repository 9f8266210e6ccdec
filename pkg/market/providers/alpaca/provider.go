package alpaca

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"

	"marketsnap/pkg/market"
)

// barsClient is the slice of the Alpaca market data client the provider
// needs. Narrow so tests can stub the network edge.
type barsClient interface {
	GetMultiBars(symbols []string, req marketdata.GetBarsRequest) (map[string][]marketdata.Bar, error)
}

// Provider serves daily close history from the Alpaca market data API with
// one multi-symbol bars request per window.
type Provider struct {
	client barsClient
	feed   string
	nowFn  func() time.Time
}

// NewProvider constructs an Alpaca history provider. Credentials left empty
// in cfg fall back to the APCA_* environment variables inside the SDK.
func NewProvider(cfg *market.ProviderConfig) *Provider {
	opts := marketdata.ClientOpts{
		APIKey:    cfg.APIKey,
		APISecret: cfg.APISecret,
	}
	if cfg.BaseURL != "" {
		opts.BaseURL = cfg.BaseURL
	}
	return &Provider{
		client: marketdata.NewClient(opts),
		feed:   cfg.Feed,
		nowFn:  time.Now,
	}
}

func init() {
	market.RegisterProvider("alpaca", func(name string, cfg *market.ProviderConfig) (market.Provider, error) {
		return NewProvider(cfg), nil
	})
}

// History implements market.Provider.
func (p *Provider) History(ctx context.Context, symbols []string, window market.Window) (map[string]market.Series, error) {
	// The SDK call is not context aware, so honor cancellation up front.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	end := p.nowFn().UTC()
	start := end.Add(-window.Lookback())
	multiBars, err := p.client.GetMultiBars(symbols, marketdata.GetBarsRequest{
		TimeFrame: marketdata.OneDay,
		Start:     start,
		End:       end,
		Feed:      marketdata.Feed(p.feed),
	})
	if err != nil {
		return nil, fmt.Errorf("alpaca: multi bars window=%s: %w", window, err)
	}

	result := make(map[string]market.Series, len(multiBars))
	for symbol, bars := range multiBars {
		series := make(market.Series, 0, len(bars))
		for _, bar := range bars {
			closePrice := bar.Close
			series = append(series, market.Point{Time: bar.Timestamp, Close: &closePrice})
		}
		sort.Slice(series, func(i, j int) bool { return series[i].Time.Before(series[j].Time) })
		result[symbol] = series
	}
	return result, nil
}
