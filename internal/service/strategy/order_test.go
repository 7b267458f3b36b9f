package strategy

import (
	"context"
	"testing"

	"github.com/krobus00/trade-exec-service/internal/entity"
)

func TestMarketOrder(t *testing.T) {
	mock := &mockExchange{}
	service := newTestService(mock, &recordingPacer{})

	result := service.MarketOrder(context.Background(), MarketOrderInput{
		Symbol:   "ethusdt",
		Side:     "buy",
		Quantity: "0.5",
	})

	if result.Outcome != entity.OutcomeExecuted {
		t.Fatalf("outcome = %s, want EXECUTED (reason: %s)", result.Outcome, result.Reason)
	}
	if len(mock.orders) != 1 {
		t.Fatalf("orders placed = %d, want 1", len(mock.orders))
	}

	order := mock.orders[0]
	if order.Symbol != "ETHUSDT" || order.Side != entity.OrderSideBuy || order.Type != entity.OrderTypeMarket {
		t.Errorf("order = %+v, want MARKET BUY ETHUSDT", order)
	}
	if len(result.Orders) != 1 || result.Orders[0].Status != entity.OutcomeExecuted {
		t.Errorf("child orders = %+v, want one EXECUTED entry", result.Orders)
	}
}

func TestMarketOrderSimulate(t *testing.T) {
	mock := &mockExchange{}
	service := newTestService(mock, &recordingPacer{})

	result := service.MarketOrder(context.Background(), MarketOrderInput{
		Symbol:   "BTCUSDT",
		Side:     "BUY",
		Quantity: "0.001",
		Simulate: true,
	})

	if result.Outcome != entity.OutcomeSimulated {
		t.Fatalf("outcome = %s, want SIMULATED", result.Outcome)
	}
	if len(mock.orders) != 0 {
		t.Errorf("orders placed = %d, want 0 in simulation mode", len(mock.orders))
	}
	if len(result.Orders) != 1 || result.Orders[0].Status != entity.OutcomeSimulated {
		t.Errorf("child orders = %+v, want one SIMULATED echo", result.Orders)
	}
}

func TestMarketOrderExchangeFailure(t *testing.T) {
	mock := &mockExchange{orderErrs: []error{errExchangeDown}}
	service := newTestService(mock, &recordingPacer{})

	result := service.MarketOrder(context.Background(), MarketOrderInput{
		Symbol:   "BTCUSDT",
		Side:     "BUY",
		Quantity: "0.001",
	})

	if result.Outcome != entity.OutcomeFailed {
		t.Fatalf("outcome = %s, want FAILED", result.Outcome)
	}
}

func TestMarketOrderRejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name  string
		input MarketOrderInput
	}{
		{"bad symbol", MarketOrderInput{Symbol: "BTCEUR", Side: "BUY", Quantity: "1"}},
		{"bad side", MarketOrderInput{Symbol: "BTCUSDT", Side: "BOTH", Quantity: "1"}},
		{"bad quantity", MarketOrderInput{Symbol: "BTCUSDT", Side: "BUY", Quantity: "x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &mockExchange{}
			service := newTestService(mock, &recordingPacer{})

			result := service.MarketOrder(context.Background(), tt.input)
			if result.Outcome != entity.OutcomeRejected {
				t.Errorf("outcome = %s, want REJECTED", result.Outcome)
			}
			if len(mock.orders) != 0 {
				t.Errorf("orders placed = %d, want 0", len(mock.orders))
			}
		})
	}
}

func TestLimitOrder(t *testing.T) {
	mock := &mockExchange{}
	service := newTestService(mock, &recordingPacer{})

	result := service.LimitOrder(context.Background(), LimitOrderInput{
		Symbol:   "BTCUSDT",
		Side:     "SELL",
		Quantity: "0.01",
		Price:    "51000",
	})

	if result.Outcome != entity.OutcomeExecuted {
		t.Fatalf("outcome = %s, want EXECUTED", result.Outcome)
	}

	order := mock.orders[0]
	if order.Type != entity.OrderTypeLimit {
		t.Errorf("type = %s, want LIMIT", order.Type)
	}
	if order.TimeInForce != entity.TimeInForceGTC {
		t.Errorf("timeInForce = %s, want GTC", order.TimeInForce)
	}
	if order.Price == nil || order.Price.String() != "51000" {
		t.Errorf("price = %v, want 51000", order.Price)
	}
}

func TestLimitOrderRejectsInvalidPrice(t *testing.T) {
	mock := &mockExchange{}
	service := newTestService(mock, &recordingPacer{})

	result := service.LimitOrder(context.Background(), LimitOrderInput{
		Symbol:   "BTCUSDT",
		Side:     "BUY",
		Quantity: "0.01",
		Price:    "-1",
	})

	if result.Outcome != entity.OutcomeRejected {
		t.Fatalf("outcome = %s, want REJECTED", result.Outcome)
	}
	if len(mock.orders) != 0 {
		t.Errorf("orders placed = %d, want 0", len(mock.orders))
	}
}
