// Package storage is the token registry: sqlite-backed metadata for every
// tracked mint (symbol, decimals, icon, sync state). The kline documents
// themselves live in the file store; this only answers "which tokens, with
// which decimals".
package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"pnl-research/internal/domain"
)

// Storage wraps the registry database.
type Storage struct {
	db *gorm.DB
}

// New opens (creating if needed) the registry database under dataDir.
func New(dataDir string) (*Storage, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	dbPath := filepath.Join(dataDir, "registry.db")

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(&domain.TokenInfo{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Storage{db: db}, nil
}

// UpsertToken creates or updates token metadata.
func (s *Storage) UpsertToken(token *domain.TokenInfo) error {
	return s.db.Save(token).Error
}

// GetToken retrieves token metadata by mint address. Not found is not an
// error; it returns nil.
func (s *Storage) GetToken(mint string) (*domain.TokenInfo, error) {
	var token domain.TokenInfo
	err := s.db.First(&token, "mint = ?", mint).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &token, err
}

// ListActiveTokens retrieves every token included in scheduled syncs.
func (s *Storage) ListActiveTokens() ([]domain.TokenInfo, error) {
	var tokens []domain.TokenInfo
	err := s.db.Where("is_active = ?", true).Find(&tokens).Error
	return tokens, err
}

// ListAllTokens retrieves every registered token.
func (s *Storage) ListAllTokens() ([]domain.TokenInfo, error) {
	var tokens []domain.TokenInfo
	err := s.db.Find(&tokens).Error
	return tokens, err
}

// MarkSynced records the completion time of a sync run for a mint.
func (s *Storage) MarkSynced(mint string, at time.Time) error {
	return s.db.Model(&domain.TokenInfo{}).
		Where("mint = ?", mint).
		Update("last_synced_at", at).Error
}

// ToggleFavorite flips the favorite flag and returns the new value.
func (s *Storage) ToggleFavorite(mint string) (bool, error) {
	var token domain.TokenInfo
	if err := s.db.First(&token, "mint = ?", mint).Error; err != nil {
		return false, err
	}

	token.IsFavorite = !token.IsFavorite
	err := s.db.Save(&token).Error
	return token.IsFavorite, err
}

// DeleteToken removes a token from the registry.
func (s *Storage) DeleteToken(mint string) error {
	return s.db.Where("mint = ?", mint).Delete(&domain.TokenInfo{}).Error
}

// Decimals returns the registered decimals for a mint, falling back to the
// Solana default when the mint is unknown.
func (s *Storage) Decimals(mint string) int {
	token, err := s.GetToken(mint)
	if err != nil || token == nil {
		return domain.DefaultDecimals
	}
	return token.Decimals
}
