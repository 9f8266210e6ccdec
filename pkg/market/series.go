package market

import "time"

// Point is a single daily observation. A nil Close marks a session the
// source reported without a usable closing price.
type Point struct {
	Time  time.Time
	Close *float64
}

// Series is an ordered run of daily observations, oldest first.
type Series []Point

// ValidCount reports how many observations carry a close price.
func (s Series) ValidCount() int {
	n := 0
	for _, p := range s {
		if p.Close != nil {
			n++
		}
	}
	return n
}

// LastNth returns the close n valid observations back from the most recent
// one, skipping missing closes. n = 0 is the latest valid close. The result
// is nil when n is negative or the series does not reach that far back.
func (s Series) LastNth(n int) *float64 {
	if n < 0 {
		return nil
	}
	valid := make([]float64, 0, len(s))
	for _, p := range s {
		if p.Close != nil {
			valid = append(valid, *p.Close)
		}
	}
	if len(valid) <= n {
		return nil
	}
	v := valid[len(valid)-1-n]
	return &v
}

// PctChange returns the percentage change from previous to current, nil when
// either value is missing or previous is exactly zero.
func PctChange(current, previous *float64) *float64 {
	if current == nil || previous == nil || *previous == 0 {
		return nil
	}
	v := (*current - *previous) / *previous * 100
	return &v
}
