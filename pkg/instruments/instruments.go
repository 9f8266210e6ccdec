// Package instruments loads and validates the instrument list driving each
// snapshot run. A broken or missing config never stops the pipeline; the
// built-in defaults take over instead.
package instruments

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/zeromicro/go-zero/core/logx"
)

// DefaultConfigPath is the registry file consulted when no explicit path is
// configured.
const DefaultConfigPath = "data/market_instruments.json"

// Instrument maps a display name onto the provider symbol that backs it.
// Order, when present, pins the instrument's position in display listings.
type Instrument struct {
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
	Order  *int   `json:"order,omitempty"`
}

// Defaults returns the built-in instrument list.
func Defaults() []Instrument {
	return []Instrument{
		{Name: "SPX", Symbol: "^GSPC", Order: order(0)},
		{Name: "NDX", Symbol: "^NDX", Order: order(1)},
		{Name: "10Y", Symbol: "^TNX", Order: order(2)},
		{Name: "DXY", Symbol: "DX-Y.NYB", Order: order(3)},
		{Name: "WTI", Symbol: "CL=F", Order: order(4)},
		{Name: "GOLD", Symbol: "GC=F", Order: order(5)},
		{Name: "BTC", Symbol: "BTC-USD", Order: order(6)},
	}
}

func order(n int) *int {
	return &n
}

// Parse decodes and validates a registry document: a non-empty JSON array of
// entries with unique, non-blank names and symbols.
func Parse(data []byte) ([]Instrument, error) {
	var items []Instrument
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("instrument config must be a JSON array: %w", err)
	}
	if len(items) == 0 {
		return nil, errors.New("instrument config is empty")
	}

	seenNames := make(map[string]struct{}, len(items))
	seenSymbols := make(map[string]struct{}, len(items))
	for i, inst := range items {
		if strings.TrimSpace(inst.Name) == "" {
			return nil, fmt.Errorf("instrument entry %d missing name", i)
		}
		if strings.TrimSpace(inst.Symbol) == "" {
			return nil, fmt.Errorf("instrument entry %d missing symbol", i)
		}
		if _, ok := seenNames[inst.Name]; ok {
			return nil, fmt.Errorf("duplicate instrument name %q", inst.Name)
		}
		if _, ok := seenSymbols[inst.Symbol]; ok {
			return nil, fmt.Errorf("duplicate instrument symbol %q", inst.Symbol)
		}
		seenNames[inst.Name] = struct{}{}
		seenSymbols[inst.Symbol] = struct{}{}
	}
	return items, nil
}

// Load reads the registry at path. It never fails: a missing or invalid file
// logs the reason and yields the defaults.
func Load(path string) []Instrument {
	if path == "" {
		path = DefaultConfigPath
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			logx.Infof("instrument config missing at %s, using defaults", path)
		} else {
			logx.Errorf("instrument config unreadable at %s: %v, using defaults", path, err)
		}
		return Defaults()
	}
	items, err := Parse(data)
	if err != nil {
		logx.Errorf("instrument config invalid at %s: %v, using defaults", path, err)
		return Defaults()
	}
	return items
}

// Symbols projects the provider symbols in list order.
func Symbols(list []Instrument) []string {
	symbols := make([]string, 0, len(list))
	for _, inst := range list {
		symbols = append(symbols, inst.Symbol)
	}
	return symbols
}

// DisplayOrder returns instrument names sorted for presentation: entries
// with an explicit order first, ascending, then the rest in file order.
func DisplayOrder(list []Instrument) []string {
	indexed := make([]int, len(list))
	for i := range indexed {
		indexed[i] = i
	}
	sort.SliceStable(indexed, func(a, b int) bool {
		oa, ob := list[indexed[a]].Order, list[indexed[b]].Order
		if oa == nil || ob == nil {
			return oa != nil && ob == nil
		}
		return *oa < *ob
	})

	names := make([]string, len(indexed))
	for i, idx := range indexed {
		names[i] = list[idx].Name
	}
	return names
}
