package domain

// PriceResult is the total outcome of a single point-in-time price query.
// Success implies Value is set; failure implies Err is set. Never both.
type PriceResult struct {
	Success   bool    `json:"success"`
	Value     float64 `json:"value,omitempty"`      // USD price
	UpdatedAt int64   `json:"updated_at,omitempty"` // epoch seconds the provider last updated the price
	Change24h float64 `json:"change_24h,omitempty"`
	Err       string  `json:"error,omitempty"`
}

// Failure builds a failed PriceResult with the given classification message.
func Failure(msg string) PriceResult {
	return PriceResult{Success: false, Err: msg}
}
