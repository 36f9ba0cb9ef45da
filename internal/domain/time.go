package domain

// msEpochFloor: any epoch value above this is a millisecond timestamp.
const msEpochFloor = 10_000_000_000

// EpochSec normalizes an epoch timestamp to seconds. Millisecond inputs
// (13 digits) are divided down; 10-digit inputs pass through.
func EpochSec(ts int64) int64 {
	if ts > msEpochFloor {
		return ts / 1000
	}
	return ts
}
