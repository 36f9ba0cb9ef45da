package domain

import "fmt"

// Interval is a supported candle interval.
type Interval string

const (
	Interval1m  Interval = "1m"
	Interval5m  Interval = "5m"
	Interval15m Interval = "15m"
	Interval1h  Interval = "1h"
	Interval4h  Interval = "4h"
	Interval1d  Interval = "1d"
)

// DefaultInterval is used when a caller does not specify one.
const DefaultInterval = Interval1m

var supportedIntervals = map[Interval]bool{
	Interval1m:  true,
	Interval5m:  true,
	Interval15m: true,
	Interval1h:  true,
	Interval4h:  true,
	Interval1d:  true,
}

// Valid reports whether the interval is one of the supported values.
func (i Interval) Valid() bool {
	return supportedIntervals[i]
}

// ParseInterval validates a raw interval string, defaulting when empty.
func ParseInterval(raw string) (Interval, error) {
	if raw == "" {
		return DefaultInterval, nil
	}
	iv := Interval(raw)
	if !iv.Valid() {
		return "", fmt.Errorf("unsupported interval: %q", raw)
	}
	return iv, nil
}
