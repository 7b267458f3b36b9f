package strategy

import (
	"context"
	"strings"

	"github.com/krobus00/trade-exec-service/internal/entity"
	"github.com/krobus00/trade-exec-service/internal/exchange"
	"github.com/sirupsen/logrus"
)

type MarketOrderInput struct {
	Symbol   string
	Side     string
	Quantity string
	// Simulate echoes a synthetic fill without touching the exchange.
	Simulate bool
}

type LimitOrderInput struct {
	Symbol   string
	Side     string
	Quantity string
	Price    string
}

// MarketOrder places one MARKET order, or echoes a simulated fill in demo
// mode.
func (s *Service) MarketOrder(ctx context.Context, input MarketOrderInput) *entity.StrategyResult {
	result := newResult(entity.StrategyMarket)

	if !exchange.ValidSymbol(input.Symbol) {
		return rejected(result, "invalid symbol format: "+input.Symbol)
	}
	side, ok := exchange.ValidSide(input.Side)
	if !ok {
		return rejected(result, "invalid side: "+input.Side)
	}
	quantity, ok := exchange.ValidQuantity(input.Quantity)
	if !ok {
		return rejected(result, "invalid quantity: "+input.Quantity)
	}

	symbol := strings.ToUpper(input.Symbol)
	result.Symbol = symbol
	result.Side = side
	result.Quantity = quantity

	child := entity.ChildOrderResult{
		Symbol:   symbol,
		Side:     side,
		Type:     entity.OrderTypeMarket,
		Quantity: quantity,
	}

	if input.Simulate {
		logrus.WithFields(logrus.Fields{
			"symbol":   symbol,
			"side":     side,
			"quantity": quantity.String(),
		}).Info("market order executed in simulation mode")

		child.Status = entity.OutcomeSimulated
		result.Outcome = entity.OutcomeSimulated
		result.Reason = "simulation mode, no order sent to the exchange"
		result.Submitted = 1
		result.Succeeded = 1
		result.Orders = append(result.Orders, child)
		return finish(result)
	}

	logrus.WithFields(logrus.Fields{
		"symbol":   symbol,
		"side":     side,
		"quantity": quantity.String(),
	}).Info("placing MARKET order")

	result.Submitted = 1
	response, err := s.exchange.PlaceOrder(ctx, entity.OrderRequest{
		Symbol:   symbol,
		Side:     side,
		Type:     entity.OrderTypeMarket,
		Quantity: quantity,
	})
	if err != nil {
		logrus.WithError(err).WithField("symbol", symbol).Error("market order failed")
		child.Status = entity.OutcomeFailed
		child.Error = err.Error()
		result.Orders = append(result.Orders, child)
		return failed(result, err.Error())
	}

	child.Status = entity.OutcomeExecuted
	child.Response = response
	result.Succeeded = 1
	result.Orders = append(result.Orders, child)
	result.Outcome = entity.OutcomeExecuted
	result.Response = response
	return finish(result)
}

// LimitOrder places one GTC LIMIT order.
func (s *Service) LimitOrder(ctx context.Context, input LimitOrderInput) *entity.StrategyResult {
	result := newResult(entity.StrategyLimit)

	if !exchange.ValidSymbol(input.Symbol) {
		return rejected(result, "invalid symbol format: "+input.Symbol)
	}
	side, ok := exchange.ValidSide(input.Side)
	if !ok {
		return rejected(result, "invalid side: "+input.Side)
	}
	quantity, ok := exchange.ValidQuantity(input.Quantity)
	if !ok {
		return rejected(result, "invalid quantity: "+input.Quantity)
	}
	price, ok := exchange.ValidPrice(input.Price)
	if !ok {
		return rejected(result, "invalid price: "+input.Price)
	}

	symbol := strings.ToUpper(input.Symbol)
	result.Symbol = symbol
	result.Side = side
	result.Quantity = quantity

	logrus.WithFields(logrus.Fields{
		"symbol":   symbol,
		"side":     side,
		"quantity": quantity.String(),
		"price":    price.String(),
	}).Info("placing LIMIT order")

	child := entity.ChildOrderResult{
		Symbol:   symbol,
		Side:     side,
		Type:     entity.OrderTypeLimit,
		Quantity: quantity,
		Price:    decimalPtr(price),
	}

	result.Submitted = 1
	response, err := s.exchange.PlaceOrder(ctx, entity.OrderRequest{
		Symbol:      symbol,
		Side:        side,
		Type:        entity.OrderTypeLimit,
		Quantity:    quantity,
		Price:       decimalPtr(price),
		TimeInForce: entity.TimeInForceGTC,
	})
	if err != nil {
		logrus.WithError(err).WithField("symbol", symbol).Error("limit order failed")
		child.Status = entity.OutcomeFailed
		child.Error = err.Error()
		result.Orders = append(result.Orders, child)
		return failed(result, err.Error())
	}

	child.Status = entity.OutcomeExecuted
	child.Response = response
	result.Succeeded = 1
	result.Orders = append(result.Orders, child)
	result.Outcome = entity.OutcomeExecuted
	result.Response = response
	return finish(result)
}
