package export

import "pnl-research/internal/domain"

// Bar is the flat DTO used for exports. It carries both json and parquet
// tags so every saver serializes the same shape.
type Bar struct {
	Timestamp int64   `json:"t" parquet:"t"` // epoch milliseconds
	Open      float64 `json:"o" parquet:"o"`
	High      float64 `json:"h" parquet:"h"`
	Low       float64 `json:"l" parquet:"l"`
	Close     float64 `json:"c" parquet:"c"`
	Volume    float64 `json:"v" parquet:"v"`
}

// FromSeries converts a canonical series into export DTOs.
func FromSeries(bars []domain.Bar) []Bar {
	out := make([]Bar, 0, len(bars))
	for _, b := range bars {
		out = append(out, Bar{
			Timestamp: b.TimestampMs(),
			Open:      b.Open,
			High:      b.High,
			Low:       b.Low,
			Close:     b.Close,
			Volume:    b.Volume,
		})
	}
	return out
}
