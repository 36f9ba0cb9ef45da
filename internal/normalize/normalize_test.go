package normalize

import (
	"math"
	"testing"

	"pnl-research/internal/domain"
)

func TestAmount(t *testing.T) {
	cases := []struct {
		raw      float64
		decimals int
		want     float64
	}{
		{1e9, 9, 1.0},
		{1e6, 6, 1.0},
		{1_500_000_000, 9, 1.5},
		{0, 9, 0},
		{123, 0, 123},
	}
	for _, tc := range cases {
		got := Amount(tc.raw, tc.decimals)
		if math.Abs(got-tc.want) > 1e-12 {
			t.Errorf("Amount(%v, %d) = %v, want %v", tc.raw, tc.decimals, got, tc.want)
		}
	}
}

func TestBarFromOHLCV(t *testing.T) {
	item := domain.OHLCVItem{
		Open:     2_000_000_000,
		High:     3_000_000_000,
		Low:      1_000_000_000,
		Close:    2_500_000_000,
		Volume:   42.5,
		UnixTime: 1700000000,
	}

	t.Run("Scaled", func(t *testing.T) {
		bar := BarFromOHLCV(item, 9)
		if bar.TimestampSec != 1700000000 {
			t.Errorf("Timestamp = %d", bar.TimestampSec)
		}
		if bar.Open != 2.0 || bar.High != 3.0 || bar.Low != 1.0 || bar.Close != 2.5 {
			t.Errorf("OHLC not scaled: %+v", bar)
		}
		// Volume is never scaled.
		if bar.Volume != 42.5 {
			t.Errorf("Volume = %v, want 42.5", bar.Volume)
		}
	})

	t.Run("Pass Through", func(t *testing.T) {
		bar := BarFromOHLCV(item, 0)
		if bar.Open != item.Open || bar.Close != item.Close {
			t.Errorf("decimals 0 must pass values through: %+v", bar)
		}
	})
}

func TestBarsFromOHLCV_PreservesOrder(t *testing.T) {
	items := []domain.OHLCVItem{
		{UnixTime: 30, Close: 3},
		{UnixTime: 10, Close: 1},
		{UnixTime: 20, Close: 2},
	}
	bars := BarsFromOHLCV(items, 0)
	if len(bars) != 3 {
		t.Fatalf("Expected 3 bars, got %d", len(bars))
	}
	for i, item := range items {
		if bars[i].TimestampSec != item.UnixTime {
			t.Errorf("Order changed at %d: got %d", i, bars[i].TimestampSec)
		}
	}
}

func TestTradeFromTransfer(t *testing.T) {
	const wallet = "WalletAAAA"

	t.Run("Buy", func(t *testing.T) {
		tr := domain.TokenTransfer{
			FromUserAccount: "pool",
			ToUserAccount:   wallet,
			Mint:            "MintBBBB",
			TokenAmount:     5_000_000_000, // 5 tokens at 9 decimals
		}
		trade := TradeFromTransfer(tr, wallet, -2.5, 1700000000, "sig1", 9)
		if trade == nil {
			t.Fatal("Expected a trade")
		}
		if trade.Side != domain.SideBuy {
			t.Errorf("Side = %s, want buy", trade.Side)
		}
		if trade.TokenAmount != 5.0 {
			t.Errorf("TokenAmount = %v, want 5", trade.TokenAmount)
		}
		// SOL amount keeps only the magnitude of the balance change.
		if trade.SolAmount != 2.5 {
			t.Errorf("SolAmount = %v, want 2.5", trade.SolAmount)
		}
		if trade.Price != 0.5 {
			t.Errorf("Price = %v, want 0.5", trade.Price)
		}
	})

	t.Run("Sell", func(t *testing.T) {
		tr := domain.TokenTransfer{
			FromUserAccount: wallet,
			ToUserAccount:   "pool",
			Mint:            "MintBBBB",
			TokenAmount:     1_000_000,
		}
		trade := TradeFromTransfer(tr, wallet, 0.25, 1700000001, "sig2", 6)
		if trade == nil {
			t.Fatal("Expected a trade")
		}
		if trade.Side != domain.SideSell {
			t.Errorf("Side = %s, want sell", trade.Side)
		}
		if trade.TokenAmount != 1.0 {
			t.Errorf("TokenAmount = %v, want 1", trade.TokenAmount)
		}
	})

	t.Run("Unrelated Transfer", func(t *testing.T) {
		tr := domain.TokenTransfer{
			FromUserAccount: "someone",
			ToUserAccount:   "else",
			Mint:            "MintBBBB",
			TokenAmount:     100,
		}
		if trade := TradeFromTransfer(tr, wallet, 1.0, 1700000002, "sig3", 9); trade != nil {
			t.Errorf("Expected nil for an unrelated transfer, got %+v", trade)
		}
	})

	t.Run("Zero Token Amount", func(t *testing.T) {
		tr := domain.TokenTransfer{
			ToUserAccount: wallet,
			Mint:          "MintBBBB",
			TokenAmount:   0,
		}
		trade := TradeFromTransfer(tr, wallet, 1.0, 1700000003, "sig4", 9)
		if trade == nil {
			t.Fatal("Expected a trade")
		}
		if trade.Price != 0 {
			t.Errorf("Price must stay 0 when token amount is 0, got %v", trade.Price)
		}
	})
}
