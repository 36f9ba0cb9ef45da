// Package service orchestrates the fetch → canonicalize → merge pipeline.
// Every sync operation is one logical task: it suspends only inside the
// rate limiter and the network calls, and every failure downgrades to
// "skip this data point and continue" — a sync run never aborts.
package service

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"time"

	"pnl-research/internal/domain"
	"pnl-research/internal/infra/birdeye"
	"pnl-research/internal/infra/helius"
	"pnl-research/internal/infra/solscan"
	"pnl-research/internal/infra/storage"
	"pnl-research/internal/normalize"
	"pnl-research/internal/store"
)

// BarBroadcaster pushes freshly merged bars to live chart subscribers.
type BarBroadcaster interface {
	BroadcastBar(mint string, bar domain.Bar)
}

// SyncService wires the source clients, the canonicalizer and the store.
type SyncService struct {
	primary  *birdeye.Client
	backup   *solscan.Client
	txSource *helius.Client
	registry *storage.Storage
	paths    store.Paths

	broadcaster BarBroadcaster // optional
	logger      *slog.Logger
}

// NewSyncService creates the sync orchestrator. broadcaster may be nil.
func NewSyncService(primary *birdeye.Client, backup *solscan.Client, txSource *helius.Client, registry *storage.Storage, paths store.Paths, broadcaster BarBroadcaster) *SyncService {
	return &SyncService{
		primary:     primary,
		backup:      backup,
		txSource:    txSource,
		registry:    registry,
		paths:       paths,
		broadcaster: broadcaster,
		logger:      slog.Default().With("module", "sync_service"),
	}
}

// SyncToken fetches OHLCV candles for a mint over the lookback window,
// canonicalizes them and merges them into the stored series. Returns the
// merged series. An empty fetch is not an error — the merge is idempotent
// and the next run simply tries again.
func (s *SyncService) SyncToken(ctx context.Context, mint string, interval domain.Interval, lookback time.Duration) ([]domain.Bar, error) {
	now := time.Now().Unix()
	from := now - int64(lookback.Seconds())

	items := s.primary.OHLCV(ctx, mint, from, now, interval)

	// Birdeye candles arrive already normalized to USD; decimals 0 is the
	// pass-through flag, not a zero-decimal token.
	bars := normalize.BarsFromOHLCV(items, 0)

	merged, err := store.MergeAndSave(s.paths.KlinePath(mint), bars)
	if err != nil {
		return nil, err
	}

	if err := s.registry.MarkSynced(mint, time.Now()); err != nil {
		s.logger.Warn("failed to mark token synced", slog.String("mint", mint), slog.Any("error", err))
	}

	if s.broadcaster != nil && len(merged) > 0 && len(bars) > 0 {
		s.broadcaster.BroadcastBar(mint, merged[len(merged)-1])
	}

	s.logger.Info("token synced",
		slog.String("mint", mint),
		slog.String("interval", string(interval)),
		slog.Int("fetched", len(bars)),
		slog.Int("series", len(merged)),
	)
	return merged, nil
}

// PriceAt resolves a point price with the fallback policy: primary first
// (cached), backup only when the primary reports failure. Both failing is
// a terminal outcome for this data point, not an error.
func (s *SyncService) PriceAt(ctx context.Context, address string, timestamp int64) domain.PriceResult {
	result := s.primary.PriceAt(ctx, address, timestamp, true)
	if result.Success {
		return result
	}

	s.logger.Debug("primary price lookup failed, trying backup",
		slog.String("address", address),
		slog.String("error", result.Err),
	)
	return s.backup.TokenPrice(ctx, address, timestamp, 0)
}

// SyncTrades fetches recent transactions for a wallet, extracts buy/sell
// events from their token transfers and persists the trade document.
func (s *SyncService) SyncTrades(ctx context.Context, wallet string, limit int) ([]domain.Trade, error) {
	if s.txSource == nil {
		return nil, errors.New("no transaction source configured")
	}

	txs, err := s.txSource.Transactions(ctx, wallet, limit)
	if err != nil {
		return nil, err
	}

	var trades []domain.Trade
	for _, tx := range txs {
		solDelta := tx.SolDelta(wallet)
		for _, transfer := range tx.TokenTransfers {
			trade := normalize.TradeFromTransfer(transfer, wallet, solDelta, tx.Timestamp, tx.Signature, s.registry.Decimals(transfer.Mint))
			if trade != nil {
				trades = append(trades, *trade)
			}
		}
	}

	sort.Slice(trades, func(i, j int) bool {
		return trades[i].TimestampSec < trades[j].TimestampSec
	})

	if err := store.Save(s.paths.TradesPath(wallet), trades); err != nil {
		return nil, err
	}

	s.logger.Info("trades synced", slog.String("wallet", wallet), slog.Int("count", len(trades)))
	return trades, nil
}

// SourceStats is a combined snapshot of both source clients' counters.
type SourceStats struct {
	Birdeye birdeye.StatsSnapshot `json:"birdeye"`
	Solscan solscan.StatsSnapshot `json:"solscan"`
}

// Stats returns the current request counters of both sources.
func (s *SyncService) Stats() SourceStats {
	return SourceStats{
		Birdeye: s.primary.Stats(),
		Solscan: s.backup.Stats(),
	}
}

// Paths exposes the path resolver for read-side collaborators.
func (s *SyncService) Paths() store.Paths {
	return s.paths
}
