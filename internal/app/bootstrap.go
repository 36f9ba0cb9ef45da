package app

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"pnl-research/internal/infra"
	"pnl-research/internal/infra/birdeye"
	"pnl-research/internal/infra/helius"
	"pnl-research/internal/infra/ratelimit"
	"pnl-research/internal/infra/solscan"
	"pnl-research/internal/infra/storage"
	"pnl-research/internal/store"
)

// Bootstrap orchestrates the application startup sequence
type Bootstrap struct {
	Config   *infra.Config
	Registry *storage.Storage
	Icons    *infra.IconDownloader
	Paths    store.Paths

	Birdeye *birdeye.Client
	Solscan *solscan.Client
	Helius  *helius.Client
}

// NewBootstrap creates a new Bootstrap instance
func NewBootstrap() *Bootstrap {
	return &Bootstrap{}
}

// Initialize performs core system initialization (config, logging, registry,
// source clients)
func (b *Bootstrap) Initialize(configPath string) error {
	slog.Info("🚀 Bootstrapping PnL Research...")

	// 1. Load Config
	cfg, err := infra.LoadConfig(configPath)
	if err != nil {
		return err // Let main handle the error
	}
	b.Config = cfg

	// 2. Setup Logger
	logger := infra.NewLogger(cfg)
	slog.SetDefault(logger)

	if missing := cfg.MissingKeys(); len(missing) > 0 {
		slog.Warn("⚠️ Missing API keys, affected sources fail closed",
			slog.String("keys", strings.Join(missing, ", ")))
	}

	// 3. Initialize storage (registry DB + data directories)
	b.Paths = store.Paths{DataDir: cfg.Data.Dir}
	registry, err := storage.New(cfg.Data.Dir)
	if err != nil {
		return err
	}
	b.Registry = registry
	slog.Info("✅ Token registry initialized")

	// 4. Initialize Icon Downloader
	icons, err := infra.NewIconDownloader(b.Paths.IconDir())
	if err != nil {
		return err
	}
	b.Icons = icons
	slog.Info("✅ Icon downloader ready")

	// 5. Source clients, one pacer per upstream — never shared
	b.Birdeye = birdeye.NewClient(
		cfg.API.Birdeye.BaseURL,
		cfg.API.Birdeye.APIKey,
		ratelimit.New(cfg.API.Birdeye.RequestsPerMinute,
			time.Duration(cfg.API.Birdeye.MinIntervalMS)*time.Millisecond),
	)
	b.Solscan = solscan.NewClient(
		cfg.API.Solscan.BaseURL,
		cfg.API.Solscan.APIKey,
		ratelimit.New(cfg.API.Solscan.RequestsPerMinute,
			time.Minute/time.Duration(cfg.API.Solscan.RequestsPerMinute)),
	)
	b.Helius = helius.NewClient(
		cfg.API.Helius.BaseURL,
		cfg.API.Helius.APIKey,
		ratelimit.New(cfg.API.Helius.RequestsPerMinute,
			time.Minute/time.Duration(cfg.API.Helius.RequestsPerMinute)),
	)
	slog.Info("✅ Source clients ready")

	return nil
}

// SyncIcons downloads missing token logos for registered tokens and records
// their paths. Best effort; runs in the background at startup.
func (b *Bootstrap) SyncIcons(ctx context.Context) {
	slog.Info("🔄 Starting icon synchronization...")

	tokens, err := b.Registry.ListAllTokens()
	if err != nil {
		slog.Error("Failed to list tokens for icon sync", slog.Any("error", err))
		return
	}

	for _, token := range tokens {
		if ctx.Err() != nil {
			return
		}
		if token.LogoURL == "" || token.IconPath != "" {
			continue
		}

		path, err := b.Icons.DownloadIcon(token.Mint, token.LogoURL)
		if err != nil {
			slog.Warn("Failed to download icon", slog.String("mint", token.Mint), slog.Any("error", err))
			continue
		}

		token.IconPath = path
		token.UpdatedAt = time.Now()
		if err := b.Registry.UpsertToken(&token); err != nil {
			slog.Error("Failed to record icon path", slog.String("mint", token.Mint), slog.Any("error", err))
		}
	}

	slog.Info("✨ Icon synchronization completed")
}
