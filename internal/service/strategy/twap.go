package strategy

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/krobus00/trade-exec-service/internal/entity"
	"github.com/krobus00/trade-exec-service/internal/exchange"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type TwapInput struct {
	Symbol          string
	Side            string
	Quantity        string // total quantity across all chunks
	Chunks          int    // 0 means configured default
	IntervalSeconds int    // 0 means configured default
}

// BuildTwapPlan splits the total quantity into equal chunks rounded to the
// base-asset precision of 6 decimal places.
func BuildTwapPlan(totalQuantity decimal.Decimal, chunks int, interval time.Duration) entity.TwapPlan {
	if chunks < 1 {
		chunks = 1
	}

	return entity.TwapPlan{
		ChunkQuantity: totalQuantity.Div(decimal.NewFromInt(int64(chunks))).Round(6),
		ChunkCount:    chunks,
		Interval:      interval,
	}
}

// Twap submits one MARKET order per chunk, pausing between chunks but not
// after the last. Chunks are independent best-effort submissions: a failed
// chunk is logged and the remaining chunks still go out.
func (s *Service) Twap(ctx context.Context, input TwapInput) *entity.StrategyResult {
	result := newResult(entity.StrategyTwap)

	if !exchange.ValidSymbol(input.Symbol) {
		return rejected(result, "invalid symbol format: "+input.Symbol)
	}
	side, ok := exchange.ValidSide(input.Side)
	if !ok {
		return rejected(result, "invalid side: "+input.Side)
	}
	totalQuantity, ok := exchange.ValidQuantity(input.Quantity)
	if !ok {
		return rejected(result, "invalid quantity: "+input.Quantity)
	}

	chunks := input.Chunks
	if chunks == 0 {
		chunks = s.cfg.Twap.DefaultChunks
	}
	if chunks < 1 {
		return rejected(result, fmt.Sprintf("invalid chunk count: %d", input.Chunks))
	}

	interval := s.cfg.Twap.DefaultInterval
	if input.IntervalSeconds > 0 {
		interval = time.Duration(input.IntervalSeconds) * time.Second
	} else if input.IntervalSeconds < 0 {
		return rejected(result, fmt.Sprintf("invalid interval: %d", input.IntervalSeconds))
	}

	symbol := strings.ToUpper(input.Symbol)
	result.Symbol = symbol
	result.Side = side
	result.Quantity = totalQuantity

	plan := BuildTwapPlan(totalQuantity, chunks, interval)
	if plan.ChunkQuantity.LessThanOrEqual(decimal.Zero) {
		return rejected(result, "chunk quantity rounds to zero, increase total quantity or reduce chunks")
	}

	logrus.WithFields(logrus.Fields{
		"symbol":         symbol,
		"side":           side,
		"total_quantity": totalQuantity.String(),
		"chunks":         plan.ChunkCount,
		"chunk_quantity": plan.ChunkQuantity.String(),
		"interval":       plan.Interval.String(),
	}).Info("starting TWAP order")

	for i := 0; i < plan.ChunkCount; i++ {
		logrus.Infof("placing TWAP chunk %d/%d", i+1, plan.ChunkCount)

		child := entity.ChildOrderResult{
			Symbol:   symbol,
			Side:     side,
			Type:     entity.OrderTypeMarket,
			Quantity: plan.ChunkQuantity,
		}

		result.Submitted++
		response, err := s.exchange.PlaceOrder(ctx, entity.OrderRequest{
			Symbol:   symbol,
			Side:     side,
			Type:     entity.OrderTypeMarket,
			Quantity: plan.ChunkQuantity,
		})
		if err != nil {
			logrus.WithError(err).WithFields(logrus.Fields{
				"symbol": symbol,
				"chunk":  i + 1,
			}).Error("TWAP chunk failed")
			child.Status = entity.OutcomeFailed
			child.Error = err.Error()
		} else {
			child.Status = entity.OutcomeExecuted
			child.Response = response
			result.Succeeded++
		}
		result.Orders = append(result.Orders, child)

		if i < plan.ChunkCount-1 {
			if err := s.pacer.Pause(ctx, plan.Interval); err != nil {
				return failed(result, "TWAP interrupted: "+err.Error())
			}
		}
	}

	if result.Succeeded == 0 {
		return failed(result, "all TWAP chunks failed")
	}

	result.Outcome = entity.OutcomeExecuted
	if result.Succeeded < result.Submitted {
		result.Reason = fmt.Sprintf("%d of %d chunks failed", result.Submitted-result.Succeeded, result.Submitted)
	}
	return finish(result)
}
