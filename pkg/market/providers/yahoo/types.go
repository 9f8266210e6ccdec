package yahoo

import "fmt"

// chartResponse mirrors the v8 finance chart payload.
type chartResponse struct {
	Chart struct {
		Result []chartResult `json:"result"`
		Error  *chartError   `json:"error"`
	} `json:"chart"`
}

type chartResult struct {
	Meta struct {
		Symbol   string `json:"symbol"`
		Currency string `json:"currency"`
	} `json:"meta"`
	Timestamp  []int64 `json:"timestamp"`
	Indicators struct {
		Quote []chartQuote `json:"quote"`
	} `json:"indicators"`
}

// chartQuote keeps closes as pointers so JSON nulls survive decoding as
// missing observations instead of zeros.
type chartQuote struct {
	Close []*float64 `json:"close"`
}

type chartError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

func (e *chartError) String() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}
