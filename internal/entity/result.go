package entity

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

type Outcome string

const (
	OutcomeExecuted  Outcome = "EXECUTED"
	OutcomeSimulated Outcome = "SIMULATED"
	OutcomeRejected  Outcome = "REJECTED"
	OutcomeFailed    Outcome = "FAILED"
)

const (
	StrategyMarket  = "market"
	StrategyLimit   = "limit"
	StrategyBracket = "oco"
	StrategyGrid    = "grid"
	StrategyTwap    = "twap"
)

// ChildOrderResult records one child order submission. Grid and TWAP runs
// carry one entry per rung/chunk; single-order strategies carry exactly one.
type ChildOrderResult struct {
	Symbol   string           `json:"symbol"`
	Side     OrderSide        `json:"side"`
	Type     OrderType        `json:"type"`
	Quantity decimal.Decimal  `json:"quantity"`
	Price    *decimal.Decimal `json:"price,omitempty"`
	Status   Outcome          `json:"status"`
	Response json.RawMessage  `json:"response,omitempty"`
	Error    string           `json:"error,omitempty"`
}

// StrategyResult is the tagged outcome every strategy invocation returns.
// Exactly one of the four outcomes applies:
//
//	EXECUTED  - the exchange accepted the order(s); Response/Orders carry details
//	SIMULATED - insufficient balance (or demo mode); the echoed order is synthetic
//	REJECTED  - local validation failed before any network call
//	FAILED    - transport failure, price unavailable, or an exchange error
type StrategyResult struct {
	RequestID string  `json:"request_id"`
	Strategy  string  `json:"strategy"`
	Outcome   Outcome `json:"outcome"`
	Reason    string  `json:"reason,omitempty"`

	Symbol   string          `json:"symbol,omitempty"`
	Side     OrderSide       `json:"side,omitempty"`
	Quantity decimal.Decimal `json:"quantity,omitempty"`

	TakeProfitPrice *decimal.Decimal `json:"take_profit_price,omitempty"`
	StopPrice       *decimal.Decimal `json:"stop_price,omitempty"`

	Submitted int                `json:"submitted"`
	Succeeded int                `json:"succeeded"`
	Orders    []ChildOrderResult `json:"orders,omitempty"`
	Response  json.RawMessage    `json:"response,omitempty"`

	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

// GridPlan is the ladder of limit prices derived from the current price.
// Rungs are evenly spaced, rounded to 2 decimal places, ascending.
type GridPlan struct {
	LowerPrice decimal.Decimal   `json:"lower_price"`
	UpperPrice decimal.Decimal   `json:"upper_price"`
	StepCount  int               `json:"step_count"`
	StepGap    decimal.Decimal   `json:"step_gap"`
	Rungs      []decimal.Decimal `json:"rungs"`
}

// TwapPlan divides a total quantity into equal market-order chunks.
// ChunkQuantity is rounded to 6 decimal places (base-asset precision).
type TwapPlan struct {
	ChunkQuantity decimal.Decimal `json:"chunk_quantity"`
	ChunkCount    int             `json:"chunk_count"`
	Interval      time.Duration   `json:"interval"`
}
