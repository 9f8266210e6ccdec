package market

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fp(v float64) *float64 { return &v }

func seriesOf(closes ...*float64) Series {
	base := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	s := make(Series, 0, len(closes))
	for i, c := range closes {
		s = append(s, Point{Time: base.AddDate(0, 0, i), Close: c})
	}
	return s
}

func TestSeriesLastNthSkipsMissingCloses(t *testing.T) {
	s := seriesOf(fp(1.0), nil, fp(3.0), fp(4.0))

	tests := []struct {
		name string
		n    int
		want *float64
	}{
		{name: "latest", n: 0, want: fp(4.0)},
		{name: "one back", n: 1, want: fp(3.0)},
		{name: "two back skips the gap", n: 2, want: fp(1.0)},
		{name: "beyond history", n: 3, want: nil},
		{name: "negative offset", n: -1, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.LastNth(tt.n)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.InDelta(t, *tt.want, *got, 1e-12)
		})
	}
}

func TestSeriesLastNthAllMissing(t *testing.T) {
	s := seriesOf(nil, nil, nil)
	assert.Nil(t, s.LastNth(0))
	assert.Equal(t, 0, s.ValidCount())
}

func TestSeriesLastNthEmpty(t *testing.T) {
	assert.Nil(t, Series{}.LastNth(0))
	assert.Nil(t, Series(nil).LastNth(0))
}

func TestSeriesLastNthDoesNotAliasOrMutate(t *testing.T) {
	s := seriesOf(fp(10.0), fp(20.0))

	first := s.LastNth(0)
	require.NotNil(t, first)
	*first = 999.0

	again := s.LastNth(0)
	require.NotNil(t, again)
	assert.InDelta(t, 20.0, *again, 1e-12)
	assert.InDelta(t, 20.0, *s[1].Close, 1e-12)
}

func TestPctChange(t *testing.T) {
	tests := []struct {
		name     string
		current  *float64
		previous *float64
		want     *float64
	}{
		{name: "gain", current: fp(110.0), previous: fp(100.0), want: fp(10.0)},
		{name: "loss", current: fp(90.0), previous: fp(100.0), want: fp(-10.0)},
		{name: "flat", current: fp(100.0), previous: fp(100.0), want: fp(0.0)},
		{name: "negative previous", current: fp(-50.0), previous: fp(-100.0), want: fp(-50.0)},
		{name: "zero previous", current: fp(5.0), previous: fp(0.0), want: nil},
		{name: "missing current", current: nil, previous: fp(100.0), want: nil},
		{name: "missing previous", current: fp(100.0), previous: nil, want: nil},
		{name: "both missing", current: nil, previous: nil, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PctChange(tt.current, tt.previous)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.InDelta(t, *tt.want, *got, 1e-9)
		})
	}
}

// A previous close that is merely tiny still divides; only exact zero is
// treated as undefined.
func TestPctChangeTinyPreviousStillDivides(t *testing.T) {
	got := PctChange(fp(1.0), fp(1e-12))
	require.NotNil(t, got)
	assert.Greater(t, *got, 1e10)
}

func TestPctChangeDoesNotAliasInputs(t *testing.T) {
	cur, prev := fp(110.0), fp(100.0)
	got := PctChange(cur, prev)
	require.NotNil(t, got)
	*got = -1
	assert.InDelta(t, 110.0, *cur, 1e-12)
	assert.InDelta(t, 100.0, *prev, 1e-12)
}

func TestParseWindow(t *testing.T) {
	for _, w := range DefaultWindows() {
		parsed, err := ParseWindow(string(w))
		require.NoError(t, err)
		assert.Equal(t, w, parsed)
	}

	_, err := ParseWindow("2w")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown history window")
}

func TestDefaultWindowsLongestFirst(t *testing.T) {
	windows := DefaultWindows()
	require.Equal(t, []Window{WindowYear, WindowHalfYear, WindowQuarter, WindowMonth}, windows)
	for i := 1; i < len(windows); i++ {
		assert.Greater(t, windows[i-1].Lookback(), windows[i].Lookback())
	}
}
