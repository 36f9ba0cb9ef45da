package domain

// Side marks the direction of a trade from the wallet's point of view.
type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

// Trade is one buy/sell event derived from an on-chain token transfer.
// Immutable once produced.
type Trade struct {
	TimestampSec int64   `json:"timestamp"`
	Signature    string  `json:"signature"`
	Side         Side    `json:"side"`
	TokenMint    string  `json:"token_mint"`
	TokenAmount  float64 `json:"token_amount"`
	SolAmount    float64 `json:"sol_amount"`
	Price        float64 `json:"price"` // SOL per token, 0 when TokenAmount is 0
}
