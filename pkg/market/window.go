package market

import (
	"fmt"
	"time"
)

// Window names a lookback range understood by history providers.
type Window string

// Known lookback windows, longest to shortest.
const (
	WindowYear     Window = "1y"
	WindowHalfYear Window = "6mo"
	WindowQuarter  Window = "3mo"
	WindowMonth    Window = "1mo"
)

// DefaultWindows returns the standard fallback sequence, longest first, so a
// failing range still leaves shorter ranges to try.
func DefaultWindows() []Window {
	return []Window{WindowYear, WindowHalfYear, WindowQuarter, WindowMonth}
}

// Lookback converts the window into an absolute duration for providers that
// take start and end times instead of named ranges.
func (w Window) Lookback() time.Duration {
	switch w {
	case WindowYear:
		return 365 * 24 * time.Hour
	case WindowHalfYear:
		return 182 * 24 * time.Hour
	case WindowQuarter:
		return 91 * 24 * time.Hour
	case WindowMonth:
		return 30 * 24 * time.Hour
	default:
		return 0
	}
}

// ParseWindow validates a window label read from configuration.
func ParseWindow(raw string) (Window, error) {
	switch w := Window(raw); w {
	case WindowYear, WindowHalfYear, WindowQuarter, WindowMonth:
		return w, nil
	default:
		return "", fmt.Errorf("unknown history window %q", raw)
	}
}
