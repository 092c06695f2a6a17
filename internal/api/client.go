// Package api is the HTTP client for the trading bot. All trading and
// backtest logic lives on the bot side; this package only shuttles opaque
// request/response payloads.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/110782829/moomoo-chatgpt-trader/internal/models"
)

// DefaultBaseURL is the bot API served by the local uvicorn process.
const DefaultBaseURL = "http://127.0.0.1:8000"

// StatusError is a non-2xx response with the bot's decoded detail message.
type StatusError struct {
	Status int
	Detail string
}

func (e *StatusError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("api: status %d", e.Status)
	}
	return fmt.Sprintf("api: status %d: %s", e.Status, e.Detail)
}

// Client talks to the trading bot API.
type Client struct {
	baseURL string
	http    *http.Client
	log     *slog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) ClientOption {
	return func(c *Client) { c.http = h }
}

// WithLogger sets the request logger.
func WithLogger(log *slog.Logger) ClientOption {
	return func(c *Client) { c.log = log }
}

// New creates a client for the bot at baseURL.
func New(baseURL string, opts ...ClientOption) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
		log:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the configured API base.
func (c *Client) BaseURL() string { return c.baseURL }

// do issues one JSON request and decodes the response into out (when out
// is non-nil). Non-2xx responses decode the FastAPI error envelope into a
// StatusError.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()
	c.log.Debug("api request", "method", method, "path", path, "status", resp.StatusCode, "dur", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

// decodeError extracts the bot's {"detail": ...} error payload.
func decodeError(resp *http.Response) error {
	se := &StatusError{Status: resp.StatusCode}
	var payload struct {
		Detail string `json:"detail"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil {
		se.Detail = payload.Detail
	}
	return se
}

// ConnectRequest parameterizes a gateway connection.
type ConnectRequest struct {
	Host     string `json:"host,omitempty"`
	Port     int    `json:"port,omitempty"`
	ClientID int    `json:"client_id,omitempty"`
}

// ConnectResult reports the gateway the bot connected to.
type ConnectResult struct {
	Status string `json:"status"`
	Host   string `json:"host"`
	Port   int    `json:"port"`
}

// Connect asks the bot to open its gateway connection.
func (c *Client) Connect(ctx context.Context, req ConnectRequest) (*ConnectResult, error) {
	var out ConnectResult
	if err := c.do(ctx, http.MethodPost, "/connect", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Disconnect tears the bot's gateway connection down.
func (c *Client) Disconnect(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/disconnect", nil, nil)
}

// Health checks that the bot API is reachable.
func (c *Client) Health(ctx context.Context) error {
	var out struct {
		Status string `json:"status"`
	}
	return c.do(ctx, http.MethodGet, "/", nil, &out)
}

// ListAccounts returns the accounts available on the gateway.
func (c *Client) ListAccounts(ctx context.Context) ([]models.Account, error) {
	var out []models.Account
	if err := c.do(ctx, http.MethodGet, "/accounts", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SelectAccount activates an account in the given environment.
func (c *Client) SelectAccount(ctx context.Context, accountID string, env models.TradeEnv) error {
	body := struct {
		AccountID string `json:"account_id"`
		TrdEnv    string `json:"trd_env"`
	}{accountID, string(env)}
	return c.do(ctx, http.MethodPost, "/accounts/select", body, nil)
}

// ActiveAccount reports the currently selected account and environment.
func (c *Client) ActiveAccount(ctx context.Context) (*models.Account, error) {
	var out models.Account
	if err := c.do(ctx, http.MethodGet, "/accounts/active", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Positions returns current positions for the active account.
func (c *Client) Positions(ctx context.Context) ([]models.Position, error) {
	var out []models.Position
	if err := c.do(ctx, http.MethodGet, "/positions", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Orders returns orders for the active account.
func (c *Client) Orders(ctx context.Context) ([]models.Order, error) {
	var out []models.Order
	if err := c.do(ctx, http.MethodGet, "/orders", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// PlaceOrderRequest parameterizes an order.
type PlaceOrderRequest struct {
	Symbol    string  `json:"symbol"`
	Qty       float64 `json:"qty"`
	Side      string  `json:"side"`
	OrderType string  `json:"order_type"`
	Price     float64 `json:"price,omitempty"`
}

// PlaceOrder submits an order for the active account.
func (c *Client) PlaceOrder(ctx context.Context, req PlaceOrderRequest) (*models.Order, error) {
	var out models.Order
	if err := c.do(ctx, http.MethodPost, "/orders/place", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CancelOrder cancels an order by ID.
func (c *Client) CancelOrder(ctx context.Context, orderID string) error {
	body := struct {
		OrderID string `json:"order_id"`
	}{orderID}
	return c.do(ctx, http.MethodPost, "/orders/cancel", body, nil)
}

// RiskConfig fetches the bot's risk limits.
func (c *Client) RiskConfig(ctx context.Context) (*models.RiskConfig, error) {
	var out models.RiskConfig
	if err := c.do(ctx, http.MethodGet, "/risk/config", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SetRiskConfig replaces the bot's risk limits.
func (c *Client) SetRiskConfig(ctx context.Context, cfg models.RiskConfig) error {
	return c.do(ctx, http.MethodPost, "/risk/config", cfg, nil)
}

// StrategyStatus reports the running strategy, if any.
func (c *Client) StrategyStatus(ctx context.Context) (*models.StrategyStatus, error) {
	var out models.StrategyStatus
	if err := c.do(ctx, http.MethodGet, "/strategy/status", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// StartMACrossover starts the MA-crossover strategy on the bot.
func (c *Client) StartMACrossover(ctx context.Context, status models.StrategyStatus) error {
	return c.do(ctx, http.MethodPost, "/strategy/ma-crossover/start", status, nil)
}

// StopStrategy stops the running strategy.
func (c *Client) StopStrategy(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/strategy/stop", nil, nil)
}

// BacktestMA runs an MA-crossover backtest on the bot's local bar data.
func (c *Client) BacktestMA(ctx context.Context, req models.BacktestRequest) (*models.BacktestResult, error) {
	var out models.BacktestResult
	if err := c.do(ctx, http.MethodPost, "/backtest/ma-crossover", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
