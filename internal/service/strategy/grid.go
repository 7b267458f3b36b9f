package strategy

import (
	"context"
	"fmt"
	"strings"

	"github.com/krobus00/trade-exec-service/internal/entity"
	"github.com/krobus00/trade-exec-service/internal/exchange"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type GridInput struct {
	Symbol   string
	Side     string
	Quantity string // per rung
	Steps    int    // 0 means configured default (5)
	LowerPct string // empty means configured default (0.98)
	UpperPct string // empty means configured default (1.02)
}

// BuildGridPlan derives the ladder of rung prices around the current price.
// Bounds and rungs are rounded to 2 decimal places; the gap divisor is
// clamped to 1 so a single-step grid does not divide by zero.
func BuildGridPlan(currentPrice, lowerPct, upperPct decimal.Decimal, steps int) entity.GridPlan {
	if steps < 1 {
		steps = 1
	}

	lowerPrice := currentPrice.Mul(lowerPct).Round(2)
	upperPrice := currentPrice.Mul(upperPct).Round(2)

	divisor := steps - 1
	if divisor < 1 {
		divisor = 1
	}
	stepGap := upperPrice.Sub(lowerPrice).Div(decimal.NewFromInt(int64(divisor)))

	rungs := make([]decimal.Decimal, 0, steps)
	for i := 0; i < steps; i++ {
		rungs = append(rungs, lowerPrice.Add(stepGap.Mul(decimal.NewFromInt(int64(i)))).Round(2))
	}

	return entity.GridPlan{
		LowerPrice: lowerPrice,
		UpperPrice: upperPrice,
		StepCount:  steps,
		StepGap:    stepGap.Round(2),
		Rungs:      rungs,
	}
}

// Grid places one LIMIT order per rung, ascending, paced between
// submissions. Rungs are independent best-effort submissions: a failed rung
// is logged and the remaining rungs still go out.
func (s *Service) Grid(ctx context.Context, input GridInput) *entity.StrategyResult {
	result := newResult(entity.StrategyGrid)

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

	steps := input.Steps
	if steps == 0 {
		steps = s.cfg.Grid.DefaultSteps
	}
	if steps < 1 {
		return rejected(result, fmt.Sprintf("invalid step count: %d", input.Steps))
	}

	lowerPct := s.cfg.Grid.DefaultLowerPct
	if strings.TrimSpace(input.LowerPct) != "" {
		lowerPct, ok = exchange.ValidOffset(input.LowerPct, "lower percentage")
		if !ok {
			return rejected(result, "invalid lower percentage: "+input.LowerPct)
		}
	}
	upperPct := s.cfg.Grid.DefaultUpperPct
	if strings.TrimSpace(input.UpperPct) != "" {
		upperPct, ok = exchange.ValidOffset(input.UpperPct, "upper percentage")
		if !ok {
			return rejected(result, "invalid upper percentage: "+input.UpperPct)
		}
	}
	if lowerPct.GreaterThanOrEqual(upperPct) {
		return rejected(result, "lower percentage must be below upper percentage")
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

	plan := BuildGridPlan(quote.Price, lowerPct, upperPct, steps)

	logrus.WithFields(logrus.Fields{
		"symbol":      symbol,
		"side":        side,
		"steps":       plan.StepCount,
		"lower_price": plan.LowerPrice.String(),
		"upper_price": plan.UpperPrice.String(),
		"step_gap":    plan.StepGap.String(),
	}).Info("placing grid orders")

	for i, rungPrice := range plan.Rungs {
		child := entity.ChildOrderResult{
			Symbol:   symbol,
			Side:     side,
			Type:     entity.OrderTypeLimit,
			Quantity: quantity,
			Price:    decimalPtr(rungPrice),
		}

		result.Submitted++
		response, err := s.exchange.PlaceOrder(ctx, entity.OrderRequest{
			Symbol:      symbol,
			Side:        side,
			Type:        entity.OrderTypeLimit,
			Quantity:    quantity,
			Price:       decimalPtr(rungPrice),
			TimeInForce: entity.TimeInForceGTC,
		})
		if err != nil {
			logrus.WithError(err).WithFields(logrus.Fields{
				"symbol": symbol,
				"rung":   i,
				"price":  rungPrice.String(),
			}).Error("grid rung failed")
			child.Status = entity.OutcomeFailed
			child.Error = err.Error()
		} else {
			child.Status = entity.OutcomeExecuted
			child.Response = response
			result.Succeeded++
		}
		result.Orders = append(result.Orders, child)

		if i < len(plan.Rungs)-1 {
			if err := s.pacer.Pause(ctx, s.cfg.Grid.PaceInterval); err != nil {
				return failed(result, "grid interrupted: "+err.Error())
			}
		}
	}

	if result.Succeeded == 0 {
		return failed(result, "all grid rungs failed")
	}

	result.Outcome = entity.OutcomeExecuted
	if result.Succeeded < result.Submitted {
		result.Reason = fmt.Sprintf("%d of %d rungs failed", result.Submitted-result.Succeeded, result.Submitted)
	}
	return finish(result)
}
