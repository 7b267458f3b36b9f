package strategy

import (
	"context"
	"testing"

	"github.com/krobus00/trade-exec-service/internal/entity"
	"github.com/shopspring/decimal"
)

func TestBuildGridPlan(t *testing.T) {
	plan := BuildGridPlan(
		decimal.NewFromInt(50000),
		decimal.NewFromFloat(0.98),
		decimal.NewFromFloat(1.02),
		5,
	)

	if !plan.LowerPrice.Equal(decimal.NewFromInt(49000)) {
		t.Errorf("lower price = %s, want 49000", plan.LowerPrice)
	}
	if !plan.UpperPrice.Equal(decimal.NewFromInt(51000)) {
		t.Errorf("upper price = %s, want 51000", plan.UpperPrice)
	}
	if !plan.StepGap.Equal(decimal.NewFromInt(500)) {
		t.Errorf("step gap = %s, want 500", plan.StepGap)
	}

	want := []string{"49000", "49500", "50000", "50500", "51000"}
	if len(plan.Rungs) != len(want) {
		t.Fatalf("rungs = %d, want %d", len(plan.Rungs), len(want))
	}
	for i, rung := range plan.Rungs {
		if rung.String() != want[i] {
			t.Errorf("rung[%d] = %s, want %s", i, rung, want[i])
		}
	}

	for i := 1; i < len(plan.Rungs); i++ {
		if !plan.Rungs[i].GreaterThan(plan.Rungs[i-1]) {
			t.Errorf("rungs not ascending at index %d: %s <= %s", i, plan.Rungs[i], plan.Rungs[i-1])
		}
	}
}

func TestBuildGridPlanSingleStep(t *testing.T) {
	plan := BuildGridPlan(
		decimal.NewFromInt(50000),
		decimal.NewFromFloat(0.98),
		decimal.NewFromFloat(1.02),
		1,
	)

	if len(plan.Rungs) != 1 {
		t.Fatalf("rungs = %d, want 1", len(plan.Rungs))
	}
	if !plan.Rungs[0].Equal(decimal.NewFromInt(49000)) {
		t.Errorf("rung[0] = %s, want the lower bound 49000", plan.Rungs[0])
	}
}

func TestBuildGridPlanRoundsToTwoDecimals(t *testing.T) {
	plan := BuildGridPlan(
		decimal.RequireFromString("1234.5678"),
		decimal.NewFromFloat(0.98),
		decimal.NewFromFloat(1.02),
		3,
	)

	for i, rung := range plan.Rungs {
		if rung.Exponent() < -2 {
			t.Errorf("rung[%d] = %s carries more than 2 decimal places", i, rung)
		}
	}
}

func TestGrid(t *testing.T) {
	mock := &mockExchange{price: decimal.NewFromInt(50000)}
	pacer := &recordingPacer{}
	service := newTestService(mock, pacer)

	result := service.Grid(context.Background(), GridInput{
		Symbol:   "btcusdt",
		Side:     "buy",
		Quantity: "0.001",
	})

	if result.Outcome != entity.OutcomeExecuted {
		t.Fatalf("outcome = %s, want EXECUTED (reason: %s)", result.Outcome, result.Reason)
	}
	if result.Submitted != 5 || result.Succeeded != 5 {
		t.Errorf("submitted/succeeded = %d/%d, want 5/5", result.Submitted, result.Succeeded)
	}
	if len(mock.orders) != 5 {
		t.Fatalf("orders placed = %d, want 5", len(mock.orders))
	}

	// One pause between each pair of rungs, none after the last.
	if len(pacer.pauses) != 4 {
		t.Errorf("pauses = %d, want 4", len(pacer.pauses))
	}

	wantPrices := []string{"49000", "49500", "50000", "50500", "51000"}
	for i, order := range mock.orders {
		if order.Type != entity.OrderTypeLimit {
			t.Errorf("order[%d] type = %s, want LIMIT", i, order.Type)
		}
		if order.TimeInForce != entity.TimeInForceGTC {
			t.Errorf("order[%d] timeInForce = %s, want GTC", i, order.TimeInForce)
		}
		if order.Price == nil || order.Price.String() != wantPrices[i] {
			t.Errorf("order[%d] price = %v, want %s", i, order.Price, wantPrices[i])
		}
		if order.Symbol != "BTCUSDT" {
			t.Errorf("order[%d] symbol = %s, want BTCUSDT", i, order.Symbol)
		}
	}
}

func TestGridPartialFailure(t *testing.T) {
	mock := &mockExchange{
		price:     decimal.NewFromInt(50000),
		orderErrs: []error{nil, errExchangeDown, nil, nil, nil},
	}
	service := newTestService(mock, &recordingPacer{})

	result := service.Grid(context.Background(), GridInput{
		Symbol:   "BTCUSDT",
		Side:     "BUY",
		Quantity: "0.001",
	})

	if result.Outcome != entity.OutcomeExecuted {
		t.Fatalf("outcome = %s, want EXECUTED", result.Outcome)
	}
	if result.Succeeded != 4 || result.Submitted != 5 {
		t.Errorf("submitted/succeeded = %d/%d, want 5/4", result.Submitted, result.Succeeded)
	}
	if result.Reason != "1 of 5 rungs failed" {
		t.Errorf("reason = %q, want %q", result.Reason, "1 of 5 rungs failed")
	}
	if len(mock.orders) != 5 {
		t.Errorf("orders placed = %d, want all 5 despite the failure", len(mock.orders))
	}
}

func TestGridAllRungsFail(t *testing.T) {
	mock := &mockExchange{
		price:     decimal.NewFromInt(50000),
		orderErrs: []error{errExchangeDown, errExchangeDown, errExchangeDown, errExchangeDown, errExchangeDown},
	}
	service := newTestService(mock, &recordingPacer{})

	result := service.Grid(context.Background(), GridInput{
		Symbol:   "BTCUSDT",
		Side:     "BUY",
		Quantity: "0.001",
	})

	if result.Outcome != entity.OutcomeFailed {
		t.Fatalf("outcome = %s, want FAILED", result.Outcome)
	}
}

func TestGridRejectsInvertedBounds(t *testing.T) {
	mock := &mockExchange{price: decimal.NewFromInt(50000)}
	service := newTestService(mock, &recordingPacer{})

	result := service.Grid(context.Background(), GridInput{
		Symbol:   "BTCUSDT",
		Side:     "BUY",
		Quantity: "0.001",
		LowerPct: "1.02",
		UpperPct: "0.98",
	})

	if result.Outcome != entity.OutcomeRejected {
		t.Fatalf("outcome = %s, want REJECTED", result.Outcome)
	}
	if len(mock.orders) != 0 {
		t.Errorf("orders placed = %d, want 0 for a rejected run", len(mock.orders))
	}
}

func TestGridRejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name  string
		input GridInput
	}{
		{"bad symbol", GridInput{Symbol: "BTC-USDT", Side: "BUY", Quantity: "1"}},
		{"bad side", GridInput{Symbol: "BTCUSDT", Side: "HOLD", Quantity: "1"}},
		{"bad quantity", GridInput{Symbol: "BTCUSDT", Side: "BUY", Quantity: "-1"}},
		{"bad steps", GridInput{Symbol: "BTCUSDT", Side: "BUY", Quantity: "1", Steps: -3}},
		{"bad lower pct", GridInput{Symbol: "BTCUSDT", Side: "BUY", Quantity: "1", LowerPct: "abc"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &mockExchange{price: decimal.NewFromInt(50000)}
			service := newTestService(mock, &recordingPacer{})

			result := service.Grid(context.Background(), tt.input)
			if result.Outcome != entity.OutcomeRejected {
				t.Errorf("outcome = %s, want REJECTED", result.Outcome)
			}
			if len(mock.orders) != 0 {
				t.Errorf("orders placed = %d, want 0", len(mock.orders))
			}
		})
	}
}

func TestGridPriceUnavailable(t *testing.T) {
	mock := &mockExchange{priceErr: errExchangeDown}
	service := newTestService(mock, &recordingPacer{})

	result := service.Grid(context.Background(), GridInput{
		Symbol:   "BTCUSDT",
		Side:     "BUY",
		Quantity: "0.001",
	})

	if result.Outcome != entity.OutcomeFailed {
		t.Fatalf("outcome = %s, want FAILED", result.Outcome)
	}
	if len(mock.orders) != 0 {
		t.Errorf("orders placed = %d, want 0 without a price", len(mock.orders))
	}
}
