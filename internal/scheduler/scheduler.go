// Package scheduler drives periodic syncs of every active registry token.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"pnl-research/internal/domain"
	"pnl-research/internal/infra/storage"
	"pnl-research/internal/service"
)

// Scheduler owns the cron runner. Each token syncs as its own task;
// failures are logged and skipped so one bad token never stalls the run.
type Scheduler struct {
	cron     *cron.Cron
	svc      *service.SyncService
	registry *storage.Storage
	logger   *slog.Logger

	interval domain.Interval
	lookback time.Duration
	wallets  []string
	ctx      context.Context
}

// New creates a Scheduler. The cron spec uses a seconds field.
func New(ctx context.Context, svc *service.SyncService, registry *storage.Storage, interval domain.Interval, lookback time.Duration, wallets []string) *Scheduler {
	return &Scheduler{
		cron:     cron.New(cron.WithSeconds()),
		svc:      svc,
		registry: registry,
		logger:   slog.Default().With("module", "scheduler"),
		interval: interval,
		lookback: lookback,
		wallets:  wallets,
		ctx:      ctx,
	}
}

// Register adds the periodic sync task under the given cron expression.
func (s *Scheduler) Register(syncCron string) error {
	if _, err := s.cron.AddFunc(syncCron, s.syncAll); err != nil {
		return fmt.Errorf("register sync task: %w", err)
	}
	return nil
}

// Start launches the cron runner in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("scheduler started", slog.Int("wallets", len(s.wallets)))
}

// Stop halts the cron runner and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("scheduler stopped")
}

// syncAll runs one full pass: every active token's series, then every
// configured wallet's trades.
func (s *Scheduler) syncAll() {
	tokens, err := s.registry.ListActiveTokens()
	if err != nil {
		s.logger.Error("failed to list active tokens", slog.Any("error", err))
		return
	}

	for _, token := range tokens {
		if s.ctx.Err() != nil {
			return
		}
		if _, err := s.svc.SyncToken(s.ctx, token.Mint, s.interval, s.lookback); err != nil {
			s.logger.Warn("token sync failed",
				slog.String("mint", token.Mint),
				slog.Any("error", err),
			)
		}
	}

	for _, wallet := range s.wallets {
		if s.ctx.Err() != nil {
			return
		}
		if _, err := s.svc.SyncTrades(s.ctx, wallet, 100); err != nil {
			s.logger.Warn("trade sync failed",
				slog.String("wallet", wallet),
				slog.Any("error", err),
			)
		}
	}
}
