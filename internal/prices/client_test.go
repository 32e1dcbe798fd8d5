package prices

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
)

func TestSimplePrice(t *testing.T) {
	t.Run("decodes quotes", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/simple/price" {
				t.Errorf("unexpected path %s", r.URL.Path)
			}
			if got := r.URL.Query().Get("vs_currencies"); got != "usd" {
				t.Errorf("expected vs_currencies=usd, got %s", got)
			}
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{
				"bitcoin": {"usd": 50000.5, "usd_24h_change": 2.3},
				"ethereum": {"usd": 4000, "usd_24h_change": -1.2}
			}`))
		}))
		defer server.Close()

		client := NewClient(server.Client(), server.URL)
		quotes, err := client.SimplePrice(context.Background(), []string{"bitcoin", "ethereum"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(quotes) != 2 {
			t.Fatalf("expected 2 quotes, got %d", len(quotes))
		}
		if !quotes["bitcoin"].PriceUSD.Equal(decimal.RequireFromString("50000.5")) {
			t.Errorf("expected bitcoin price 50000.5, got %s", quotes["bitcoin"].PriceUSD.String())
		}
		if !quotes["ethereum"].Change24hPercent.Equal(decimal.RequireFromString("-1.2")) {
			t.Errorf("expected ethereum change -1.2, got %s", quotes["ethereum"].Change24hPercent.String())
		}
	})

	t.Run("skips non-positive prices", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"broken-coin": {"usd": 0}}`))
		}))
		defer server.Close()

		client := NewClient(server.Client(), server.URL)
		quotes, err := client.SimplePrice(context.Background(), []string{"broken-coin"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(quotes) != 0 {
			t.Errorf("expected zero-priced quote to be skipped, got %v", quotes)
		}
	})

	t.Run("empty id list short-circuits", func(t *testing.T) {
		client := NewClient(http.DefaultClient, "http://unreachable.invalid")
		quotes, err := client.SimplePrice(context.Background(), nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(quotes) != 0 {
			t.Errorf("expected empty result, got %v", quotes)
		}
	})

	t.Run("non-200 response", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		}))
		defer server.Close()

		client := NewClient(server.Client(), server.URL)
		if _, err := client.SimplePrice(context.Background(), []string{"bitcoin"}); err == nil {
			t.Error("expected error for non-200 response")
		}
	})
}
