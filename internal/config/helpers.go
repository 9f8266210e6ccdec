package config

import (
	"marketsnap/pkg/market"
)

// MustLoadMarket loads the default market configuration and panics on error.
// It isolates the provider config so tests and one-off tools do not need the
// full application section.
func MustLoadMarket() *market.Config {
	return market.MustLoad()
}
