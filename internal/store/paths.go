package store

import (
	"path/filepath"
	"strings"
)

// Paths maps identities (mint address, wallet) to file locations under one
// data directory. Filenames derive deterministically from the address so
// the sync writer and the web reader always resolve the same file.
type Paths struct {
	DataDir string
}

// ChartDir is where per-token kline documents live.
func (p Paths) ChartDir() string {
	return filepath.Join(p.DataDir, "charts")
}

// TradeDir is where per-wallet trade documents live.
func (p Paths) TradeDir() string {
	return filepath.Join(p.DataDir, "trades")
}

// ExportDir is where on-demand exports are written.
func (p Paths) ExportDir() string {
	return filepath.Join(p.DataDir, "exports")
}

// IconDir is where downloaded token icons are cached.
func (p Paths) IconDir() string {
	return filepath.Join(p.DataDir, "icons")
}

// KlinePath resolves the series document for a token mint.
func (p Paths) KlinePath(mint string) string {
	return filepath.Join(p.ChartDir(), sanitize(mint)+".json")
}

// TradesPath resolves the trade document for a wallet.
func (p Paths) TradesPath(wallet string) string {
	return filepath.Join(p.TradeDir(), sanitize(wallet)+".json")
}

// sanitize keeps only characters that are safe in a filename. Base58
// addresses pass through unchanged; anything else cannot escape the data
// directory.
func sanitize(id string) string {
	var b strings.Builder
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "_"
	}
	return b.String()
}
