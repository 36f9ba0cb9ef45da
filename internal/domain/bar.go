package domain

import "encoding/json"

// Bar is one canonical OHLCV observation. TimestampSec is the unique key
// within a series; a stored series is sorted ascending by it.
type Bar struct {
	TimestampSec int64
	Open         float64
	High         float64
	Low          float64
	Close        float64
	Volume       float64
}

// barDoc is the persisted wire shape. The chart library consumes
// millisecond timestamps, so the on-disk document carries them too.
type barDoc struct {
	Timestamp int64   `json:"timestamp"`
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Close     float64 `json:"close"`
	Volume    float64 `json:"volume"`
}

// TimestampMs returns the bar timestamp in milliseconds.
func (b Bar) TimestampMs() int64 {
	return b.TimestampSec * 1000
}

func (b Bar) MarshalJSON() ([]byte, error) {
	return json.Marshal(barDoc{
		Timestamp: b.TimestampSec * 1000,
		Open:      b.Open,
		High:      b.High,
		Low:       b.Low,
		Close:     b.Close,
		Volume:    b.Volume,
	})
}

func (b *Bar) UnmarshalJSON(data []byte) error {
	var doc barDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	*b = Bar{
		TimestampSec: EpochSec(doc.Timestamp),
		Open:         doc.Open,
		High:         doc.High,
		Low:          doc.Low,
		Close:        doc.Close,
		Volume:       doc.Volume,
	}
	return nil
}
