// Package models defines the domain types exchanged with the trading bot
// API and persisted locally.
package models

import "time"

// TradeEnv selects the trading environment for the active account.
type TradeEnv string

const (
	EnvSimulate TradeEnv = "SIMULATE"
	EnvReal     TradeEnv = "REAL"
)

// Valid reports whether the environment is one of the known values.
func (e TradeEnv) Valid() bool {
	return e == EnvSimulate || e == EnvReal
}

// Account is one trading account reported by the gateway.
type Account struct {
	ID      string   `json:"account_id"`
	Env     TradeEnv `json:"trd_env"`
	AccType string   `json:"acc_type,omitempty"`
}

// Position is an open position for the active account.
type Position struct {
	Symbol      string  `json:"symbol"`
	Qty         float64 `json:"qty"`
	AvgPrice    float64 `json:"avg_price"`
	MarketValue float64 `json:"market_value"`
	PnL         float64 `json:"pnl"`
}

// Order is an order for the active account.
type Order struct {
	ID        string  `json:"order_id"`
	Symbol    string  `json:"symbol"`
	Side      string  `json:"side"`
	OrderType string  `json:"order_type"`
	Qty       float64 `json:"qty"`
	Price     float64 `json:"price"`
	Status    string  `json:"status"`
	CreatedAt string  `json:"created_at"`
}

// TradingHours is a daily trading window in the bot's local market time.
type TradingHours struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// RiskConfig mirrors the bot's risk limits file.
type RiskConfig struct {
	Enabled               bool         `json:"enabled"`
	MaxUSDPerTrade        float64      `json:"max_usd_per_trade"`
	MaxOpenPositions      int          `json:"max_open_positions"`
	MaxDailyLossUSD       float64      `json:"max_daily_loss_usd"`
	SymbolWhitelist       []string     `json:"symbol_whitelist"`
	TradingHoursPT        TradingHours `json:"trading_hours_pt"`
	FlattenBeforeCloseMin int          `json:"flatten_before_close_min"`
}

// DefaultRiskConfig matches the bot's defaults for a fresh install.
func DefaultRiskConfig() RiskConfig {
	return RiskConfig{
		Enabled:               true,
		MaxUSDPerTrade:        1000,
		MaxOpenPositions:      5,
		MaxDailyLossUSD:       200,
		SymbolWhitelist:       []string{},
		TradingHoursPT:        TradingHours{Start: "06:30", End: "13:00"},
		FlattenBeforeCloseMin: 5,
	}
}

// StrategyStatus describes the bot's running MA-crossover strategy.
type StrategyStatus struct {
	Active        bool    `json:"active"`
	Symbol        string  `json:"symbol"`
	Fast          int     `json:"fast"`
	Slow          int     `json:"slow"`
	KType         string  `json:"ktype"`
	Qty           float64 `json:"qty"`
	SizeMode      string  `json:"size_mode"`
	DollarSize    float64 `json:"dollar_size"`
	StopLossPct   float64 `json:"stop_loss_pct"`
	TakeProfitPct float64 `json:"take_profit_pct"`
	IntervalSec   int     `json:"interval_sec"`
	AllowReal     bool    `json:"allow_real"`
}

// BacktestRequest parameterizes an MA-crossover backtest run.
type BacktestRequest struct {
	Symbol             string  `json:"symbol"`
	Fast               int     `json:"fast"`
	Slow               int     `json:"slow"`
	KType              string  `json:"ktype"`
	Qty                float64 `json:"qty"`
	SizeMode           string  `json:"size_mode,omitempty"`
	DollarSize         float64 `json:"dollar_size,omitempty"`
	StopLossPct        float64 `json:"stop_loss_pct,omitempty"`
	TakeProfitPct      float64 `json:"take_profit_pct,omitempty"`
	CommissionPerShare float64 `json:"commission_per_share,omitempty"`
	SlippageBps        float64 `json:"slippage_bps,omitempty"`
}

// BacktestTrade is one round trip from a backtest's trade sample.
type BacktestTrade struct {
	EntryTS string  `json:"entry_ts"`
	ExitTS  string  `json:"exit_ts"`
	Side    string  `json:"side"`
	EntryPx float64 `json:"entry_px"`
	ExitPx  float64 `json:"exit_px"`
	Qty     float64 `json:"qty"`
	PnL     float64 `json:"pnl"`
}

// BacktestResult is the bot's backtest response: summary metrics plus a
// capped sample of trades.
type BacktestResult struct {
	Metrics      map[string]float64 `json:"metrics"`
	TradesSample []BacktestTrade    `json:"trades_sample"`
}

// ActivityItem is one entry in the dashboard's activity feed: an order,
// fill or strategy event from the bot's event stream, or a local action.
type ActivityItem struct {
	Timestamp time.Time `json:"timestamp"`
	Kind      string    `json:"kind"`
	Symbol    string    `json:"symbol,omitempty"`
	Message   string    `json:"message"`
}

// KTypes lists the candle intervals the bot accepts, in menu order.
func KTypes() []string {
	return []string{"K_1M", "K_5M", "K_15M", "K_30M", "K_60M", "K_DAY"}
}
