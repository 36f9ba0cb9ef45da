package birdeye

import "pnl-research/internal/domain"

// priceData is the payload of the point-price and current-price endpoints.
type priceData struct {
	Value          float64 `json:"value"`
	UpdateUnixTime int64   `json:"updateUnixTime"`
	PriceChange24h float64 `json:"priceChange24h"`
}

type priceResponse struct {
	Success bool       `json:"success"`
	Message string     `json:"message"`
	Data    *priceData `json:"data"`
}

type historyResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    *struct {
		Items []domain.PricePoint `json:"items"`
	} `json:"data"`
}

type ohlcvResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    *struct {
		Items []domain.OHLCVItem `json:"items"`
	} `json:"data"`
}
