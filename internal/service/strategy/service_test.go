package strategy

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/krobus00/trade-exec-service/internal/config"
	"github.com/krobus00/trade-exec-service/internal/entity"
	"github.com/shopspring/decimal"
)

type mockExchange struct {
	price    decimal.Decimal
	priceErr error

	orders     []entity.OrderRequest
	orderErrs  []error
	brackets   []entity.BracketOrderRequest
	bracketErr error

	response json.RawMessage
}

func (m *mockExchange) CurrentPrice(ctx context.Context, symbol string) (entity.PriceQuote, error) {
	if m.priceErr != nil {
		return entity.PriceQuote{}, m.priceErr
	}

	return entity.PriceQuote{Symbol: symbol, Price: m.price, ObservedAt: time.Now().UTC()}, nil
}

func (m *mockExchange) PlaceOrder(ctx context.Context, order entity.OrderRequest) (json.RawMessage, error) {
	call := len(m.orders)
	m.orders = append(m.orders, order)

	if call < len(m.orderErrs) && m.orderErrs[call] != nil {
		return nil, m.orderErrs[call]
	}

	if m.response != nil {
		return m.response, nil
	}

	return json.RawMessage(`{"orderId":1}`), nil
}

func (m *mockExchange) PlaceBracketOrder(ctx context.Context, order entity.BracketOrderRequest) (json.RawMessage, error) {
	m.brackets = append(m.brackets, order)

	if m.bracketErr != nil {
		return nil, m.bracketErr
	}

	if m.response != nil {
		return m.response, nil
	}

	return json.RawMessage(`{"orderListId":1}`), nil
}

type recordingPacer struct {
	pauses []time.Duration
	err    error
}

func (p *recordingPacer) Pause(ctx context.Context, d time.Duration) error {
	if p.err != nil {
		return p.err
	}

	p.pauses = append(p.pauses, d)
	return nil
}

func testStrategyConfig() config.StrategyConfig {
	return config.StrategyConfig{
		Bracket: config.BracketStrategyConfig{
			DefaultOffsetPct: decimal.NewFromFloat(0.01),
		},
		Grid: config.GridStrategyConfig{
			DefaultSteps:    5,
			DefaultLowerPct: decimal.NewFromFloat(0.98),
			DefaultUpperPct: decimal.NewFromFloat(1.02),
			PaceInterval:    500 * time.Millisecond,
		},
		Twap: config.TwapStrategyConfig{
			DefaultChunks:   4,
			DefaultInterval: 10 * time.Second,
		},
	}
}

func newTestService(mock *mockExchange, pacer *recordingPacer) *Service {
	return NewService(mock, testStrategyConfig(), pacer)
}

var errExchangeDown = errors.New("connection refused")
