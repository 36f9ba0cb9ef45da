package solscan

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"pnl-research/internal/domain"
	"pnl-research/internal/infra/ratelimit"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(server.URL, "test-token", ratelimit.New(1000, 0))
}

func TestTokenPrice_Success(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("token"); got != "test-token" {
			t.Errorf("token header = %q", got)
		}
		w.Write([]byte(`{"data": [{"price": 1.25}]}`))
	})

	res := c.TokenPrice(context.Background(), "mint", 1700000000, 1700000100)
	if !res.Success {
		t.Fatalf("Expected success, got: %s", res.Err)
	}
	if res.Value != 1.25 {
		t.Errorf("Value = %v", res.Value)
	}
}

func TestTokenPrice_DefaultsToOneSecondRange(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("from_time") != "1700000000" {
			t.Errorf("from_time = %q", q.Get("from_time"))
		}
		if q.Get("to_time") != "1700000001" {
			t.Errorf("to_time = %q, want from+1", q.Get("to_time"))
		}
		w.Write([]byte(`{"price": 1}`))
	})

	if res := c.TokenPrice(context.Background(), "mint", 1700000000, 0); !res.Success {
		t.Fatalf("Expected success, got: %s", res.Err)
	}
}

func TestTokenPrice_NormalizesMilliseconds(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("from_time"); got != "1700000000" {
			t.Errorf("from_time = %q, want seconds", got)
		}
		w.Write([]byte(`{"price": 1}`))
	})

	if res := c.TokenPrice(context.Background(), "mint", 1700000000000, 0); !res.Success {
		t.Fatalf("Expected success, got: %s", res.Err)
	}
}

func TestTokenPrice_NoPriceField(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"data": {"volume": 9}}`))
	})

	res := c.TokenPrice(context.Background(), "mint", 1700000000, 0)
	if res.Success {
		t.Fatal("Expected failure")
	}
	if res.Err != "no price field in response" {
		t.Errorf("Err = %q", res.Err)
	}
}

func TestTokenPrice_CredentialRejected(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})

	res := c.TokenPrice(context.Background(), "mint", 1700000000, 0)
	if res.Success || res.Err != "credential rejected (403)" {
		t.Errorf("Unexpected result: %+v", res)
	}

	stats := c.Stats()
	if stats.TotalRequests != 1 || stats.FailedRequests != 1 {
		t.Errorf("Unexpected stats: %+v", stats)
	}
}

func TestSolPrice_UsesSOLMint(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("address"); got != domain.SOLMint {
			t.Errorf("address = %q, want SOL mint", got)
		}
		w.Write([]byte(`{"price": 150.0}`))
	})

	res := c.SolPrice(context.Background(), 1700000000)
	if !res.Success || res.Value != 150.0 {
		t.Errorf("Unexpected result: %+v", res)
	}
}
