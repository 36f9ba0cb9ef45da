package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pnl-research/internal/app"
	"pnl-research/internal/domain"
	"pnl-research/internal/scheduler"
	"pnl-research/internal/service"
	"pnl-research/internal/web"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to config file")
	flag.Parse()

	// 1. System Bootstrapping
	bootstrap := app.NewBootstrap()
	if err := bootstrap.Initialize(*configPath); err != nil {
		slog.Error("❌ Bootstrapping failed", slog.Any("error", err))
		os.Exit(1)
	}
	cfg := bootstrap.Config

	// 2. Graceful Shutdown Context
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Background Icon Sync
	go bootstrap.SyncIcons(ctx)

	// 4. Sync pipeline
	hub := web.NewHub()
	svc := service.NewSyncService(
		bootstrap.Birdeye,
		bootstrap.Solscan,
		bootstrap.Helius,
		bootstrap.Registry,
		bootstrap.Paths,
		hub,
	)

	// 5. Scheduler (cron expression with seconds field)
	if cfg.Sync.Cron != "" {
		sched := scheduler.New(ctx, svc, bootstrap.Registry,
			domain.Interval(cfg.Sync.Interval),
			time.Duration(cfg.Sync.LookbackHours)*time.Hour,
			cfg.Sync.Wallets,
		)
		if err := sched.Register(cfg.Sync.Cron); err != nil {
			slog.Error("❌ Failed to register sync schedule", slog.Any("error", err))
			os.Exit(1)
		}
		sched.Start()
		defer sched.Stop()
	}

	// 6. Web server (chart API + websocket hub)
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := web.NewServer(addr, svc, bootstrap.Registry, hub, cfg.App.Name, cfg.App.Version)

	go func() {
		if err := server.Start(); err != nil {
			slog.Error("❌ Web server failed", slog.Any("error", err))
			stop()
		}
	}()

	slog.InfoContext(ctx, "✨ PnL Research fully operational. Press Ctrl+C to exit.")

	// Wait for shutdown signal
	<-ctx.Done()

	slog.InfoContext(ctx, "👋 Shutting down gracefully...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Web server shutdown failed", slog.Any("error", err))
	}
}
