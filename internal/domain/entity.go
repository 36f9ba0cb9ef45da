package domain

import "time"

// SOLMint is the wrapped SOL mint address.
const SOLMint = "So11111111111111111111111111111111111111112"

// DefaultDecimals is the Solana-standard token decimals.
const DefaultDecimals = 9

// TokenInfo is the registry record for a tracked token.
type TokenInfo struct {
	Mint         string    `gorm:"primaryKey" json:"mint"`
	Symbol       string    `json:"symbol"`
	Name         string    `json:"name"`
	Decimals     int       `json:"decimals"`
	LogoURL      string    `json:"logo_url"`
	IconPath     string    `json:"icon_path"`
	IsActive     bool      `json:"is_active" gorm:"index"`   // Included in scheduled syncs
	IsFavorite   bool      `json:"is_favorite" gorm:"index"` // User favorite status
	LastSyncedAt time.Time `json:"last_synced_at"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
