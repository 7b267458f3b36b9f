package entity

import (
	"context"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

type OrderType string
type OrderSide string

const (
	OrderSideBuy  OrderSide = "BUY"
	OrderSideSell OrderSide = "SELL"

	OrderTypeLimit         OrderType = "LIMIT"
	OrderTypeMarket        OrderType = "MARKET"
	OrderTypeStopLossLimit OrderType = "STOP_LOSS_LIMIT"
	OrderTypeLimitMaker    OrderType = "LIMIT_MAKER"

	TimeInForceGTC = "GTC"
)

// OrderRequest describes a single MARKET or LIMIT child order. Price and
// TimeInForce are only set for the LIMIT type.
type OrderRequest struct {
	Symbol      string
	Side        OrderSide
	Type        OrderType
	Quantity    decimal.Decimal
	Price       *decimal.Decimal
	TimeInForce string
}

// BracketOrderRequest pairs a LIMIT_MAKER take-profit leg with a
// STOP_LOSS_LIMIT stop leg on the exchange's OCO endpoint. Which leg sits
// above the current price depends on the side.
type BracketOrderRequest struct {
	Symbol          string
	Side            OrderSide
	Quantity        decimal.Decimal
	TakeProfitPrice decimal.Decimal
	StopPrice       decimal.Decimal
}

// PriceQuote is fetched fresh per strategy invocation and never cached.
type PriceQuote struct {
	Symbol     string
	Price      decimal.Decimal
	ObservedAt time.Time
}

// Exchange is the execution primitive the strategies are built on.
type Exchange interface {
	CurrentPrice(ctx context.Context, symbol string) (PriceQuote, error)
	PlaceOrder(ctx context.Context, order OrderRequest) (json.RawMessage, error)
	PlaceBracketOrder(ctx context.Context, order BracketOrderRequest) (json.RawMessage, error)
}
