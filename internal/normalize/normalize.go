// Package normalize holds the pure canonicalization functions that turn raw
// provider payloads into domain records. Nothing here performs I/O or
// suspends; everything is safe to call from any goroutine.
package normalize

import (
	"math"

	"github.com/shopspring/decimal"

	"pnl-research/internal/domain"
)

// Amount converts an integer-scaled on-chain value into a human-scale float
// by dividing by 10^decimals. Zero input stays zero. decimal.Shift keeps the
// division exact; float conversion happens once at the end.
func Amount(raw float64, decimals int) float64 {
	if raw == 0 {
		return 0
	}
	v, _ := decimal.NewFromFloat(raw).Shift(int32(-decimals)).Float64()
	return v
}

// BarFromOHLCV maps one raw OHLCV item to a canonical bar.
//
// decimals > 0 scales open/high/low/close by 10^decimals; decimals == 0 means
// the provider already returned normalized prices and values pass through
// unchanged. Volume is never scaled — providers return human-scale volume.
func BarFromOHLCV(item domain.OHLCVItem, decimals int) domain.Bar {
	scale := func(v float64) float64 { return v }
	if decimals > 0 {
		scale = func(v float64) float64 { return Amount(v, decimals) }
	}
	return domain.Bar{
		TimestampSec: item.UnixTime,
		Open:         scale(item.Open),
		High:         scale(item.High),
		Low:          scale(item.Low),
		Close:        scale(item.Close),
		Volume:       item.Volume,
	}
}

// BarsFromOHLCV maps a batch of raw items, preserving input order.
func BarsFromOHLCV(items []domain.OHLCVItem, decimals int) []domain.Bar {
	bars := make([]domain.Bar, 0, len(items))
	for _, item := range items {
		bars = append(bars, BarFromOHLCV(item, decimals))
	}
	return bars
}

// TradeFromTransfer classifies a token transfer against the wallet and
// produces a canonical trade, or nil when the transfer does not touch the
// wallet at all.
//
// solDelta is the wallet's SOL balance change for the enclosing transaction;
// its sign is irrelevant here, only the magnitude is kept.
func TradeFromTransfer(tr domain.TokenTransfer, wallet string, solDelta float64, timestampSec int64, signature string, tokenDecimals int) *domain.Trade {
	var side domain.Side
	switch {
	case tr.ToUserAccount == wallet:
		side = domain.SideBuy
	case tr.FromUserAccount == wallet:
		side = domain.SideSell
	default:
		return nil
	}

	tokenAmount := Amount(tr.TokenAmount, tokenDecimals)
	solAmount := math.Abs(solDelta)

	price := 0.0
	if tokenAmount > 0 {
		price = solAmount / tokenAmount
	}

	return &domain.Trade{
		TimestampSec: timestampSec,
		Signature:    signature,
		Side:         side,
		TokenMint:    tr.Mint,
		TokenAmount:  tokenAmount,
		SolAmount:    solAmount,
		Price:        price,
	}
}
