package entity

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

type ExecutionLog struct {
	ID              string           `db:"id" json:"id"`
	RequestID       string           `db:"request_id" json:"request_id"`
	Strategy        string           `db:"strategy" json:"strategy"`
	Symbol          string           `db:"symbol" json:"symbol"`
	Side            OrderSide        `db:"side" json:"side"`
	Quantity        decimal.Decimal  `db:"quantity" json:"quantity"`
	TakeProfitPrice *decimal.Decimal `db:"take_profit_price" json:"take_profit_price"`
	StopPrice       *decimal.Decimal `db:"stop_price" json:"stop_price"`
	Outcome         string           `db:"outcome" json:"outcome"`
	Reason          sql.NullString   `db:"reason" json:"reason"`
	Submitted       int              `db:"submitted" json:"submitted"`
	Succeeded       int              `db:"succeeded" json:"succeeded"`
	Response        sql.NullString   `db:"response" json:"response"`
	StartedAt       time.Time        `db:"started_at" json:"started_at"`
	FinishedAt      time.Time        `db:"finished_at" json:"finished_at"`
	CreatedAt       time.Time        `db:"created_at" json:"created_at"`
}

func (e ExecutionLog) TableName() string {
	return "execution_logs"
}
