package market

import "context"

// Provider fetches daily close history from an external market data source.
type Provider interface {
	// History returns one ascending daily series per requested symbol over
	// the given lookback window. Symbols the source could not serve are
	// absent from the map.
	History(ctx context.Context, symbols []string, window Window) (map[string]Series, error)
}
