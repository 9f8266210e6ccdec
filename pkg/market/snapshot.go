package market

import "time"

// Entry is the per-instrument row of a snapshot. Numeric fields are nil when
// the value could not be computed; Error carries the reason.
type Entry struct {
	Name      string   `json:"name"`
	Symbol    string   `json:"symbol"`
	Price     *float64 `json:"price"`
	Change1D  *float64 `json:"change_1d_pct"`
	Change5D  *float64 `json:"change_5d_pct"`
	Change20D *float64 `json:"change_20d_pct"`
	Error     string   `json:"error"`
}

// Snapshot is one complete pipeline result. It replaces the previous
// snapshot wholesale; nothing is carried across runs.
type Snapshot struct {
	UpdatedAt time.Time `json:"updated_at"`
	Items     []Entry   `json:"items"`
}
