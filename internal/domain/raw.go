package domain

// Raw provider shapes, shared between the source clients and the
// canonicalizer. Field names mirror the upstream JSON.

// OHLCVItem is one raw candle from the OHLCV endpoint.
type OHLCVItem struct {
	Open     float64 `json:"o"`
	High     float64 `json:"h"`
	Low      float64 `json:"l"`
	Close    float64 `json:"c"`
	Volume   float64 `json:"v"`
	UnixTime int64   `json:"unixTime"`
}

// PricePoint is one raw sample from the history-price endpoint.
type PricePoint struct {
	UnixTime int64   `json:"unixTime"`
	Value    float64 `json:"value"`
}

// TokenTransfer is one token movement inside an enhanced transaction.
type TokenTransfer struct {
	FromUserAccount string  `json:"fromUserAccount"`
	ToUserAccount   string  `json:"toUserAccount"`
	Mint            string  `json:"mint"`
	TokenAmount     float64 `json:"tokenAmount"`
}
