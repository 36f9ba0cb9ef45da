// Package store persists canonical series documents as JSON files with
// atomic replacement, so a long-running sync writer and any number of
// concurrent readers never observe a partially written file.
//
// Two concurrent writers to the same path are not coordinated: the last
// rename wins. That is an accepted property of the single-sync-process
// deployment, not a hidden race.
package store

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"

	"pnl-research/internal/domain"
)

// Save atomically writes v as indented JSON to path. The document is
// serialized to a temp file in the target's own directory (same filesystem,
// so the final rename is atomic) and then renamed over the target. On any
// failure the temp file is removed and the previous target is untouched.
func Save(path string, v any) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	enc := json.NewEncoder(tmp)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return nil
}

// Load reads JSON at path into out. A missing file or unparseable content
// reports false and leaves out untouched, so the caller's default survives;
// parse failures are logged but never propagated.
func Load(path string, out any) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Warn("series load failed", slog.String("path", path), slog.Any("error", err))
		}
		return false
	}
	if err := json.Unmarshal(data, out); err != nil {
		slog.Warn("series parse failed", slog.String("path", path), slog.Any("error", err))
		return false
	}
	return true
}

// LoadSeries reads the bar series at path, empty when absent or corrupt.
func LoadSeries(path string) []domain.Bar {
	var bars []domain.Bar
	if !Load(path, &bars) {
		return []domain.Bar{}
	}
	return bars
}

// LoadTrades reads the trade list at path, empty when absent or corrupt.
func LoadTrades(path string) []domain.Trade {
	var trades []domain.Trade
	if !Load(path, &trades) {
		return []domain.Trade{}
	}
	return trades
}
