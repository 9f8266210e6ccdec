package market

import (
	"context"
	"errors"
	"fmt"

	"github.com/zeromicro/go-zero/core/logx"
)

// ErrNoData reports that every fallback window came back empty. Its text is
// the marker recorded on snapshot entries when a whole run finds nothing.
var ErrNoData = errors.New("no_data")

// Fetcher retrieves close history for a batch of symbols. It walks a fixed
// window sequence longest first, then retries stragglers one symbol at a
// time through the same sequence. The window walk is the only retry policy;
// there is no backoff and no per-request retry.
type Fetcher struct {
	provider Provider
	windows  []Window
	initErr  error
}

// FetcherOption customises a Fetcher.
type FetcherOption func(*Fetcher)

// WithWindows overrides the fallback window sequence.
func WithWindows(windows []Window) FetcherOption {
	return func(f *Fetcher) {
		if len(windows) > 0 {
			f.windows = windows
		}
	}
}

// NewFetcher builds a Fetcher on top of a history provider.
func NewFetcher(provider Provider, opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		provider: provider,
		windows:  DefaultWindows(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// NewUnavailableFetcher builds a Fetcher that performs no requests and
// reports cause on every fetch. It stands in for a provider whose
// construction failed so the pipeline can still emit a fully marked
// snapshot.
func NewUnavailableFetcher(cause error) *Fetcher {
	return &Fetcher{initErr: cause}
}

// FetchAll fetches history for symbols and flattens it to one series per
// symbol with at least one valid close. Symbols with nothing recoverable are
// absent from the result. It returns ErrNoData when every window comes back
// empty for the whole batch, a wrapped init error when the provider never
// came up, and the context error on cancellation.
func (f *Fetcher) FetchAll(ctx context.Context, symbols []string) (map[string]Series, error) {
	if f.initErr != nil {
		return nil, fmt.Errorf("provider unavailable: %w", f.initErr)
	}
	if len(symbols) == 0 {
		return map[string]Series{}, nil
	}

	merged := f.fetchFirst(ctx, symbols)
	if merged == nil {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return nil, ErrNoData
	}

	// Second pass: symbols the batch left without a single valid close get
	// an individual walk through the same windows.
	for _, symbol := range symbols {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if merged[symbol].ValidCount() > 0 {
			continue
		}
		retried := f.fetchFirst(ctx, []string{symbol})
		for sym, series := range retried {
			if merged[sym].ValidCount() == 0 {
				merged[sym] = series
			}
		}
	}

	flat := make(map[string]Series, len(merged))
	for symbol, series := range merged {
		if series.ValidCount() == 0 {
			continue
		}
		flat[symbol] = series
	}
	return flat, nil
}

// fetchFirst walks the fallback windows longest first and returns the first
// batch holding any points at all. A window is abandoned on error or on an
// empty result. Returns nil when the whole sequence is exhausted.
func (f *Fetcher) fetchFirst(ctx context.Context, symbols []string) map[string]Series {
	for _, window := range f.windows {
		if ctx.Err() != nil {
			return nil
		}
		batch, err := f.provider.History(ctx, symbols, window)
		if err != nil {
			logx.WithContext(ctx).Errorf("history window %s failed for %d symbols: %v", window, len(symbols), err)
			continue
		}
		if totalPoints(batch) == 0 {
			continue
		}
		return batch
	}
	return nil
}

func totalPoints(batch map[string]Series) int {
	n := 0
	for _, series := range batch {
		n += len(series)
	}
	return n
}
