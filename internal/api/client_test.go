package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/110782829/moomoo-chatgpt-trader/internal/models"
)

func TestConnect(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/connect" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var req ConnectRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Host != "127.0.0.1" || req.Port != 11111 {
			t.Errorf("request = %+v", req)
		}
		json.NewEncoder(w).Encode(ConnectResult{Status: "connected", Host: req.Host, Port: req.Port})
	}))
	defer srv.Close()

	c := New(srv.URL)
	res, err := c.Connect(context.Background(), ConnectRequest{Host: "127.0.0.1", Port: 11111})
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	if res.Status != "connected" || res.Port != 11111 {
		t.Errorf("result = %+v", res)
	}
}

func TestStatusErrorDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Not connected"})
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.ListAccounts(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("error type = %T, want *StatusError", err)
	}
	if se.Status != http.StatusBadRequest || se.Detail != "Not connected" {
		t.Errorf("status error = %+v", se)
	}
}

func TestSelectAccountPayload(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/accounts/select" {
			t.Errorf("path = %s", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&got)
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}))
	defer srv.Close()

	c := New(srv.URL)
	if err := c.SelectAccount(context.Background(), "123456", models.EnvReal); err != nil {
		t.Fatalf("SelectAccount: %v", err)
	}
	if got["account_id"] != "123456" || got["trd_env"] != "REAL" {
		t.Errorf("payload = %v", got)
	}
}

func TestRiskConfigRoundTrip(t *testing.T) {
	stored := models.DefaultRiskConfig()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/risk/config" {
			t.Errorf("path = %s", r.URL.Path)
		}
		switch r.Method {
		case http.MethodGet:
			json.NewEncoder(w).Encode(stored)
		case http.MethodPost:
			json.NewDecoder(r.Body).Decode(&stored)
			json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
		}
	}))
	defer srv.Close()

	c := New(srv.URL)
	ctx := context.Background()

	cfg, err := c.RiskConfig(ctx)
	if err != nil {
		t.Fatalf("RiskConfig: %v", err)
	}
	if cfg.MaxUSDPerTrade != 1000 || !cfg.Enabled {
		t.Errorf("config = %+v", cfg)
	}

	cfg.MaxUSDPerTrade = 2500
	cfg.Enabled = false
	if err := c.SetRiskConfig(ctx, *cfg); err != nil {
		t.Fatalf("SetRiskConfig: %v", err)
	}
	if stored.MaxUSDPerTrade != 2500 || stored.Enabled {
		t.Errorf("stored = %+v", stored)
	}
}

func TestBacktestMA(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/backtest/ma-crossover" {
			t.Errorf("path = %s", r.URL.Path)
		}
		var req models.BacktestRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.Slow <= req.Fast {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]string{"detail": "slow must be > fast"})
			return
		}
		json.NewEncoder(w).Encode(models.BacktestResult{
			Metrics: map[string]float64{"total_return": 0.12, "max_drawdown": -0.04},
			TradesSample: []models.BacktestTrade{
				{Side: "BUY", EntryPx: 100, ExitPx: 105, Qty: 1, PnL: 5},
			},
		})
	}))
	defer srv.Close()

	c := New(srv.URL)
	ctx := context.Background()

	res, err := c.BacktestMA(ctx, models.BacktestRequest{Symbol: "AAPL", Fast: 20, Slow: 50, KType: "K_1M", Qty: 1})
	if err != nil {
		t.Fatalf("BacktestMA: %v", err)
	}
	if res.Metrics["total_return"] != 0.12 || len(res.TradesSample) != 1 {
		t.Errorf("result = %+v", res)
	}

	// Parameter validation surfaces as a StatusError.
	_, err = c.BacktestMA(ctx, models.BacktestRequest{Symbol: "AAPL", Fast: 50, Slow: 20})
	var se *StatusError
	if !errors.As(err, &se) || se.Status != http.StatusBadRequest {
		t.Errorf("err = %v, want 400 StatusError", err)
	}
}

func TestBaseURLTrimsTrailingSlash(t *testing.T) {
	c := New("http://localhost:8000/")
	if c.BaseURL() != "http://localhost:8000" {
		t.Errorf("base = %q", c.BaseURL())
	}
	if New("").BaseURL() != DefaultBaseURL {
		t.Errorf("empty base = %q, want default", New("").BaseURL())
	}
}
