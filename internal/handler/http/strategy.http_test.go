package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/krobus00/trade-exec-service/internal/config"
	"github.com/krobus00/trade-exec-service/internal/entity"
	"github.com/krobus00/trade-exec-service/internal/service/execution"
	"github.com/krobus00/trade-exec-service/internal/service/strategy"
	"github.com/shopspring/decimal"
)

type mockExchange struct {
	price  decimal.Decimal
	orders []entity.OrderRequest
}

func (m *mockExchange) CurrentPrice(ctx context.Context, symbol string) (entity.PriceQuote, error) {
	return entity.PriceQuote{Symbol: symbol, Price: m.price, ObservedAt: time.Now().UTC()}, nil
}

func (m *mockExchange) PlaceOrder(ctx context.Context, order entity.OrderRequest) (json.RawMessage, error) {
	m.orders = append(m.orders, order)
	return json.RawMessage(`{"orderId":1}`), nil
}

func (m *mockExchange) PlaceBracketOrder(ctx context.Context, order entity.BracketOrderRequest) (json.RawMessage, error) {
	return json.RawMessage(`{"orderListId":1}`), nil
}

type noopPacer struct{}

func (noopPacer) Pause(ctx context.Context, d time.Duration) error { return nil }

func setTestConfig(t *testing.T) {
	t.Helper()

	previous := config.Env
	config.Env = &config.EnvConfig{
		Env: "development",
		APIKeys: []config.APIKeyConfig{
			{Name: "test", Key: "test-key", Active: true},
			{Name: "inactive", Key: "inactive-key", Active: false},
			{Name: "expired", Key: "expired-key", Active: true, ExpiredAt: "2020-01-01"},
		},
	}
	t.Cleanup(func() { config.Env = previous })
}

func newTestHandler(mock *mockExchange) *Handler {
	strategyService := strategy.NewService(mock, config.StrategyConfig{
		Bracket: config.BracketStrategyConfig{DefaultOffsetPct: decimal.NewFromFloat(0.01)},
		Grid: config.GridStrategyConfig{
			DefaultSteps:    5,
			DefaultLowerPct: decimal.NewFromFloat(0.98),
			DefaultUpperPct: decimal.NewFromFloat(1.02),
			PaceInterval:    time.Millisecond,
		},
		Twap: config.TwapStrategyConfig{DefaultChunks: 4, DefaultInterval: time.Second},
	}, noopPacer{})

	return NewStrategyHTTPHandler(execution.NewService(strategyService, nil, nil, nil))
}

func newTestMux(mock *mockExchange) *http.ServeMux {
	mux := http.NewServeMux()
	newTestHandler(mock).Register(mux)
	return mux
}

func TestBanner(t *testing.T) {
	setTestConfig(t)
	mux := newTestMux(&mockExchange{})

	recorder := httptest.NewRecorder()
	mux.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))

	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", recorder.Code)
	}
	if !strings.Contains(recorder.Body.String(), "/v1/strategies/oco") {
		t.Errorf("banner should list the strategy endpoints, got %s", recorder.Body.String())
	}
}

func TestSimulate(t *testing.T) {
	setTestConfig(t)
	mock := &mockExchange{}
	mux := newTestMux(mock)

	recorder := httptest.NewRecorder()
	mux.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/simulate?symbol=ETHUSDT&side=SELL&quantity=0.5", nil))

	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", recorder.Code, recorder.Body.String())
	}

	var result entity.StrategyResult
	if err := json.Unmarshal(recorder.Body.Bytes(), &result); err != nil {
		t.Fatalf("response parse failed: %v", err)
	}

	if result.Outcome != entity.OutcomeSimulated {
		t.Errorf("outcome = %s, want SIMULATED", result.Outcome)
	}
	if result.Symbol != "ETHUSDT" {
		t.Errorf("symbol = %s, want ETHUSDT", result.Symbol)
	}
	if len(mock.orders) != 0 {
		t.Errorf("orders placed = %d, want 0 in simulation mode", len(mock.orders))
	}
}

func TestMarketOrderRequiresAPIKey(t *testing.T) {
	setTestConfig(t)
	mux := newTestMux(&mockExchange{})

	body := strings.NewReader(`{"symbol":"BTCUSDT","side":"BUY","quantity":"0.001"}`)
	recorder := httptest.NewRecorder()
	mux.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/v1/orders/market", body))

	if recorder.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", recorder.Code)
	}
}

func TestMarketOrderRejectsBadAPIKeys(t *testing.T) {
	setTestConfig(t)
	mux := newTestMux(&mockExchange{})

	for _, key := range []string{"wrong-key", "inactive-key", "expired-key"} {
		body := strings.NewReader(`{"symbol":"BTCUSDT","side":"BUY","quantity":"0.001"}`)
		req := httptest.NewRequest(http.MethodPost, "/v1/orders/market", body)
		req.Header.Set("X-API-Key", key)

		recorder := httptest.NewRecorder()
		mux.ServeHTTP(recorder, req)

		if recorder.Code != http.StatusUnauthorized {
			t.Errorf("key %q: status = %d, want 401", key, recorder.Code)
		}
	}
}

func TestMarketOrder(t *testing.T) {
	setTestConfig(t)
	mock := &mockExchange{}
	mux := newTestMux(mock)

	body := strings.NewReader(`{"symbol":"BTCUSDT","side":"BUY","quantity":"0.001"}`)
	req := httptest.NewRequest(http.MethodPost, "/v1/orders/market", body)
	req.Header.Set("X-API-Key", "test-key")

	recorder := httptest.NewRecorder()
	mux.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", recorder.Code, recorder.Body.String())
	}
	if len(mock.orders) != 1 {
		t.Fatalf("orders placed = %d, want 1", len(mock.orders))
	}

	var result entity.StrategyResult
	if err := json.Unmarshal(recorder.Body.Bytes(), &result); err != nil {
		t.Fatalf("response parse failed: %v", err)
	}
	if result.Outcome != entity.OutcomeExecuted {
		t.Errorf("outcome = %s, want EXECUTED", result.Outcome)
	}
}

func TestMarketOrderRejectedInputIsBadRequest(t *testing.T) {
	setTestConfig(t)
	mux := newTestMux(&mockExchange{})

	body := strings.NewReader(`{"symbol":"BTC-USDT","side":"BUY","quantity":"0.001"}`)
	req := httptest.NewRequest(http.MethodPost, "/v1/orders/market", body)
	req.Header.Set("X-API-Key", "test-key")

	recorder := httptest.NewRecorder()
	mux.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", recorder.Code)
	}
}

func TestMarketOrderMethodNotAllowed(t *testing.T) {
	setTestConfig(t)
	mux := newTestMux(&mockExchange{})

	recorder := httptest.NewRecorder()
	mux.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/v1/orders/market", nil))

	if recorder.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", recorder.Code)
	}
}

func TestOcoEndpoint(t *testing.T) {
	setTestConfig(t)
	mock := &mockExchange{price: decimal.NewFromInt(50000)}
	mux := newTestMux(mock)

	body := strings.NewReader(`{"symbol":"BTCUSDT","side":"BUY","quantity":"0.001","take_profit_offset":"100","stop_offset":"150"}`)
	req := httptest.NewRequest(http.MethodPost, "/v1/strategies/oco", body)
	req.Header.Set("X-API-Key", "test-key")

	recorder := httptest.NewRecorder()
	mux.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", recorder.Code, recorder.Body.String())
	}

	var result entity.StrategyResult
	if err := json.Unmarshal(recorder.Body.Bytes(), &result); err != nil {
		t.Fatalf("response parse failed: %v", err)
	}
	if result.Strategy != entity.StrategyBracket {
		t.Errorf("strategy = %s, want oco", result.Strategy)
	}
	if result.TakeProfitPrice == nil || result.TakeProfitPrice.String() != "49900" {
		t.Errorf("take profit = %v, want 49900", result.TakeProfitPrice)
	}
}

func TestAsyncWithoutJetstream(t *testing.T) {
	setTestConfig(t)
	mux := newTestMux(&mockExchange{})

	body := strings.NewReader(`{"symbol":"BTCUSDT","side":"BUY","quantity":"0.001"}`)
	req := httptest.NewRequest(http.MethodPost, "/v1/strategies/twap/async", body)
	req.Header.Set("X-API-Key", "test-key")

	recorder := httptest.NewRecorder()
	mux.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", recorder.Code)
	}
}
