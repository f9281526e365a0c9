package journal

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mfreitas/tradejournal/internal/domain/dto"
	"github.com/mfreitas/tradejournal/internal/domain/models"
)

func g(v float64) *float64 { return &v }

// newAPIServer fakes just enough of the Trade API for client tests.
func newAPIServer(t *testing.T) (*httptest.Server, *[]string) {
	t.Helper()
	var calls []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, r.Method+" "+r.URL.RequestURI())
		switch {
		case r.Method == http.MethodGet:
			_ = json.NewEncoder(w).Encode([]models.Trade{
				{ID: "t1", Ticker: "EUR/USD", Date: time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)},
			})
		case r.Method == http.MethodPost:
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(models.Trade{ID: "t2", Ticker: "GBP/USD"})
		case r.Method == http.MethodPut && strings.HasSuffix(r.URL.Path, "/missing"):
			w.WriteHeader(http.StatusNotFound)
			_ = json.NewEncoder(w).Encode(dto.NewErrorResponse("trade not found", nil))
		case r.Method == http.MethodPut:
			_ = json.NewEncoder(w).Encode(models.Trade{ID: "t1", Ticker: "EUR/USD", Comments: "edited"})
		case r.Method == http.MethodDelete:
			_ = json.NewEncoder(w).Encode(dto.MessageResponse{Message: "Trade deleted"})
		}
	}))
	return srv, &calls
}

func TestClient_ListTrades(t *testing.T) {
	srv, calls := newAPIServer(t)
	defer srv.Close()
	c := NewClient(srv.URL, srv.Client())

	trades, err := c.ListTrades(context.Background(), "ticker", "asc")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(trades) != 1 || trades[0].ID != "t1" {
		t.Fatalf("unexpected trades: %+v", trades)
	}
	if got := (*calls)[0]; got != "GET /api/trades?order=asc&sortBy=ticker" {
		t.Fatalf("sort params not sent: %q", got)
	}
}

func TestClient_CreateUpdateDelete(t *testing.T) {
	srv, _ := newAPIServer(t)
	defer srv.Close()
	c := NewClient(srv.URL, srv.Client())
	ctx := context.Background()

	req := dto.TradeRequest{Date: "2025-03-14", Time: "14:30", Ticker: "GBP/USD", GainsLosses: g(10), RiskAmount: g(5)}

	created, err := c.CreateTrade(ctx, req)
	if err != nil || created.ID != "t2" {
		t.Fatalf("create: %+v err=%v", created, err)
	}

	updated, err := c.UpdateTrade(ctx, "t1", req)
	if err != nil || updated.Comments != "edited" {
		t.Fatalf("update: %+v err=%v", updated, err)
	}

	if err := c.DeleteTrade(ctx, "t1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
}

func TestClient_ErrorCategories(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(dto.NewErrorResponse("database unavailable", nil))
	}))
	defer srv.Close()
	c := NewClient(srv.URL, srv.Client())
	ctx := context.Background()

	if _, err := c.ListTrades(ctx, "", ""); err == nil || !strings.Contains(err.Error(), "failed to load trades") {
		t.Fatalf("fetch category missing: %v", err)
	}
	req := dto.TradeRequest{Date: "2025-03-14", Time: "14:30", Ticker: "EUR/USD", GainsLosses: g(1), RiskAmount: g(1)}
	if _, err := c.CreateTrade(ctx, req); err == nil || !strings.Contains(err.Error(), "failed to save trade") {
		t.Fatalf("save category missing: %v", err)
	}
	if err := c.DeleteTrade(ctx, "x"); err == nil || !strings.Contains(err.Error(), "failed to delete trade") {
		t.Fatalf("delete category missing: %v", err)
	}
	// The server's message rides along for diagnostics.
	if _, err := c.ListTrades(ctx, "", ""); !strings.Contains(err.Error(), "database unavailable") {
		t.Fatalf("server message lost: %v", err)
	}
}

func TestClient_UpdateNotFound(t *testing.T) {
	srv, _ := newAPIServer(t)
	defer srv.Close()
	c := NewClient(srv.URL, srv.Client())

	req := dto.TradeRequest{Date: "2025-03-14", Time: "14:30", Ticker: "EUR/USD", GainsLosses: g(1), RiskAmount: g(1)}
	_, err := c.UpdateTrade(context.Background(), "missing", req)
	if err == nil || !strings.Contains(err.Error(), "404") {
		t.Fatalf("expected not-found error, got %v", err)
	}
}
