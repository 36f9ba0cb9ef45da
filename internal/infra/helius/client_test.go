package helius

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"pnl-research/internal/infra/ratelimit"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(server.URL, "test-key", ratelimit.New(1000, 0))
}

func TestTransactions_Success(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/v0/addresses/wallet1/transactions") {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("api-key"); got != "test-key" {
			t.Errorf("api-key = %q", got)
		}
		if got := r.URL.Query().Get("limit"); got != "50" {
			t.Errorf("limit = %q", got)
		}
		w.Write([]byte(`[
			{
				"signature": "sig1",
				"timestamp": 1700000000,
				"type": "SWAP",
				"tokenTransfers": [{"fromUserAccount": "pool", "toUserAccount": "wallet1", "mint": "m1", "tokenAmount": 5}],
				"accountData": [{"account": "wallet1", "nativeBalanceChange": -2500000000}]
			}
		]`))
	})

	txs, err := c.Transactions(context.Background(), "wallet1", 50)
	if err != nil {
		t.Fatalf("Transactions failed: %v", err)
	}
	if len(txs) != 1 {
		t.Fatalf("Expected 1 transaction, got %d", len(txs))
	}
	if txs[0].Signature != "sig1" || len(txs[0].TokenTransfers) != 1 {
		t.Errorf("Unexpected transaction: %+v", txs[0])
	}
}

func TestTransactions_ErrorStatuses(t *testing.T) {
	cases := []struct {
		status  int
		wantErr string
	}{
		{http.StatusUnauthorized, "credential rejected (401)"},
		{http.StatusTooManyRequests, "rate limited (429)"},
		{http.StatusInternalServerError, "HTTP 500"},
	}
	for _, tc := range cases {
		c := testClient(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(tc.status)
		})
		_, err := c.Transactions(context.Background(), "wallet1", 10)
		if err == nil {
			t.Errorf("Status %d: expected error", tc.status)
			continue
		}
		if !strings.Contains(err.Error(), tc.wantErr) {
			t.Errorf("Status %d: error = %q, want %q", tc.status, err, tc.wantErr)
		}
	}
}

func TestSolDelta(t *testing.T) {
	tx := Transaction{
		AccountData: []AccountData{
			{Account: "other", NativeBalanceChange: 1_000_000_000},
			{Account: "wallet1", NativeBalanceChange: -2_500_000_000},
		},
	}

	if got := tx.SolDelta("wallet1"); got != -2.5 {
		t.Errorf("SolDelta = %v, want -2.5", got)
	}
	if got := tx.SolDelta("missing"); got != 0 {
		t.Errorf("SolDelta for unknown wallet = %v, want 0", got)
	}
}
