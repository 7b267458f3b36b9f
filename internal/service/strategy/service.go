package strategy

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/krobus00/trade-exec-service/internal/config"
	"github.com/krobus00/trade-exec-service/internal/entity"
	"github.com/shopspring/decimal"
)

// Pacer is the self-imposed delay between child order submissions. It is a
// rate-limit courtesy to the exchange, not a synchronization primitive; tests
// substitute a zero-delay implementation.
type Pacer interface {
	Pause(ctx context.Context, d time.Duration) error
}

type SleepPacer struct{}

func (SleepPacer) Pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}

	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Service holds the strategy layer: the single-order primitives plus the
// bracket, grid and TWAP strategies built on them. Each invocation is
// stateless; nothing is shared across calls beyond the read-only config.
type Service struct {
	exchange entity.Exchange
	cfg      config.StrategyConfig
	pacer    Pacer
}

func NewService(exchange entity.Exchange, cfg config.StrategyConfig, pacer Pacer) *Service {
	if pacer == nil {
		pacer = SleepPacer{}
	}

	return &Service{
		exchange: exchange,
		cfg:      cfg,
		pacer:    pacer,
	}
}

func newResult(strategyName string) *entity.StrategyResult {
	return &entity.StrategyResult{
		RequestID: uuid.NewString(),
		Strategy:  strategyName,
		StartedAt: time.Now().UTC(),
	}
}

func finish(result *entity.StrategyResult) *entity.StrategyResult {
	result.FinishedAt = time.Now().UTC()
	return result
}

func rejected(result *entity.StrategyResult, reason string) *entity.StrategyResult {
	result.Outcome = entity.OutcomeRejected
	result.Reason = reason
	return finish(result)
}

func failed(result *entity.StrategyResult, reason string) *entity.StrategyResult {
	result.Outcome = entity.OutcomeFailed
	result.Reason = reason
	return finish(result)
}

func decimalPtr(d decimal.Decimal) *decimal.Decimal {
	return &d
}
