package strategy

import (
	"context"
	"errors"
	"strings"

	"github.com/krobus00/trade-exec-service/internal/entity"
	"github.com/krobus00/trade-exec-service/internal/exchange"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type BracketInput struct {
	Symbol   string
	Side     string
	Quantity string
	// TakeProfitOffset and StopOffset are absolute price offsets from the
	// current price; empty means 1% of the current price.
	TakeProfitOffset string
	StopOffset       string
}

// Bracket places one OCO order with a take-profit and a stop leg derived
// from the current price. An insufficient-balance rejection degrades to a
// simulated result so the strategy stays demonstrable without funded capital.
func (s *Service) Bracket(ctx context.Context, input BracketInput) *entity.StrategyResult {
	result := newResult(entity.StrategyBracket)

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

	var tpOffset, stopOffset decimal.Decimal
	if strings.TrimSpace(input.TakeProfitOffset) != "" {
		tpOffset, ok = exchange.ValidOffset(input.TakeProfitOffset, "TP")
		if !ok {
			return rejected(result, "invalid TP offset: "+input.TakeProfitOffset)
		}
	}
	if strings.TrimSpace(input.StopOffset) != "" {
		stopOffset, ok = exchange.ValidOffset(input.StopOffset, "Stop")
		if !ok {
			return rejected(result, "invalid Stop offset: "+input.StopOffset)
		}
	}

	symbol := strings.ToUpper(input.Symbol)
	result.Symbol = symbol
	result.Side = side
	result.Quantity = quantity

	quote, err := s.exchange.CurrentPrice(ctx, symbol)
	if err != nil {
		logrus.WithError(err).WithField("symbol", symbol).Error("failed to fetch current price")
		return failed(result, "price unavailable: "+err.Error())
	}
	currentPrice := quote.Price

	if tpOffset.IsZero() {
		tpOffset = currentPrice.Mul(s.cfg.Bracket.DefaultOffsetPct)
	}
	if stopOffset.IsZero() {
		stopOffset = currentPrice.Mul(s.cfg.Bracket.DefaultOffsetPct)
	}

	var takeProfitPrice, stopPrice decimal.Decimal
	if side == entity.OrderSideBuy {
		takeProfitPrice = currentPrice.Sub(tpOffset).Round(2)
		stopPrice = currentPrice.Add(stopOffset).Round(2)
		if takeProfitPrice.GreaterThanOrEqual(currentPrice) || stopPrice.LessThanOrEqual(currentPrice) {
			return rejected(result, "for BUY OCO: TP must be below current price, Stop above current price")
		}
	} else {
		takeProfitPrice = currentPrice.Add(tpOffset).Round(2)
		stopPrice = currentPrice.Sub(stopOffset).Round(2)
		if takeProfitPrice.LessThanOrEqual(currentPrice) || stopPrice.GreaterThanOrEqual(currentPrice) {
			return rejected(result, "for SELL OCO: TP must be above current price, Stop below current price")
		}
	}

	result.TakeProfitPrice = decimalPtr(takeProfitPrice)
	result.StopPrice = decimalPtr(stopPrice)

	logrus.WithFields(logrus.Fields{
		"symbol":            symbol,
		"side":              side,
		"quantity":          quantity.String(),
		"current_price":     currentPrice.String(),
		"take_profit_price": takeProfitPrice.String(),
		"stop_price":        stopPrice.String(),
	}).Info("placing OCO bracket order")

	result.Submitted = 1
	response, err := s.exchange.PlaceBracketOrder(ctx, entity.BracketOrderRequest{
		Symbol:          symbol,
		Side:            side,
		Quantity:        quantity,
		TakeProfitPrice: takeProfitPrice,
		StopPrice:       stopPrice,
	})
	if err != nil {
		var apiErr *exchange.APIError
		if errors.As(err, &apiErr) && apiErr.InsufficientBalance() {
			logrus.WithFields(logrus.Fields{
				"symbol":            symbol,
				"side":              side,
				"quantity":          quantity.String(),
				"take_profit_price": takeProfitPrice.String(),
				"stop_price":        stopPrice.String(),
			}).Info("account balance insufficient, simulating OCO order")

			result.Orders = append(result.Orders, entity.ChildOrderResult{
				Symbol:   symbol,
				Side:     side,
				Type:     entity.OrderTypeLimitMaker,
				Quantity: quantity,
				Price:    decimalPtr(takeProfitPrice),
				Status:   entity.OutcomeSimulated,
			}, entity.ChildOrderResult{
				Symbol:   symbol,
				Side:     side,
				Type:     entity.OrderTypeStopLossLimit,
				Quantity: quantity,
				Price:    decimalPtr(stopPrice),
				Status:   entity.OutcomeSimulated,
			})
			result.Succeeded = 1
			result.Outcome = entity.OutcomeSimulated
			result.Reason = "account balance insufficient, order simulated"
			return finish(result)
		}

		logrus.WithError(err).WithFields(logrus.Fields{
			"symbol": symbol,
			"side":   side,
		}).Error("failed to place OCO order")
		return failed(result, err.Error())
	}

	result.Succeeded = 1
	result.Outcome = entity.OutcomeExecuted
	result.Response = response
	return finish(result)
}
