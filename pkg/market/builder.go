package market

import (
	"context"
	"time"
)

// Offsets into the valid-close history behind the standard snapshot columns.
const (
	offsetLatest    = 0
	offsetPrevClose = 1
	offsetWeek      = 5
	offsetMonth     = 20
)

// markerNoClosePrices flags an instrument whose symbol yielded no usable
// closes even though the batch as a whole succeeded.
const markerNoClosePrices = "no_close_prices"

// Instrument pairs a display name with the symbol requested upstream.
type Instrument struct {
	Name   string
	Symbol string
}

// Builder assembles snapshots for a fixed, ordered instrument list.
type Builder struct {
	fetcher *Fetcher
	list    []Instrument
	nowFn   func() time.Time
}

// BuilderOption customises a Builder.
type BuilderOption func(*Builder)

// WithClock overrides the snapshot timestamp source.
func WithClock(now func() time.Time) BuilderOption {
	return func(b *Builder) {
		if now != nil {
			b.nowFn = now
		}
	}
}

// NewBuilder constructs a Builder over fetcher for the given instruments.
func NewBuilder(fetcher *Fetcher, list []Instrument, opts ...BuilderOption) *Builder {
	b := &Builder{
		fetcher: fetcher,
		list:    list,
		nowFn:   time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build fetches history once and assembles exactly one entry per instrument
// in list order. Fetch failures fold into entry markers instead of aborting
// the run; the only error Build returns is context cancellation.
func (b *Builder) Build(ctx context.Context) (*Snapshot, error) {
	symbols := make([]string, 0, len(b.list))
	for _, inst := range b.list {
		symbols = append(symbols, inst.Symbol)
	}

	history, fetchErr := b.fetcher.FetchAll(ctx, symbols)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	marker := ""
	if fetchErr != nil {
		marker = fetchErr.Error()
	}

	items := make([]Entry, 0, len(b.list))
	for _, inst := range b.list {
		items = append(items, buildEntry(inst, history[inst.Symbol], marker))
	}
	return &Snapshot{
		UpdatedAt: b.nowFn().UTC(),
		Items:     items,
	}, nil
}

func buildEntry(inst Instrument, series Series, marker string) Entry {
	entry := Entry{Name: inst.Name, Symbol: inst.Symbol}
	if marker != "" {
		entry.Error = marker
		return entry
	}
	if series.ValidCount() == 0 {
		entry.Error = markerNoClosePrices
		return entry
	}
	entry.Price = series.LastNth(offsetLatest)
	entry.Change1D = PctChange(entry.Price, series.LastNth(offsetPrevClose))
	entry.Change5D = PctChange(entry.Price, series.LastNth(offsetWeek))
	entry.Change20D = PctChange(entry.Price, series.LastNth(offsetMonth))
	return entry
}
