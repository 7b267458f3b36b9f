package exchange

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/krobus00/trade-exec-service/internal/config"
	"github.com/krobus00/trade-exec-service/internal/entity"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const (
	tickerPricePath = "/api/v3/ticker/price"
	orderPath       = "/api/v3/order"
	ocoOrderPath    = "/api/v3/orderList/oco"

	// CodeInsufficientBalance is the exchange error code for an account
	// balance too small to cover the order.
	CodeInsufficientBalance = -2010
)

// APIError is a non-success response carrying the exchange's {code, msg} body.
type APIError struct {
	StatusCode int
	Code       int
	Msg        string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("exchange rejected request: status=%d code=%d msg=%s", e.StatusCode, e.Code, e.Msg)
}

func (e *APIError) InsufficientBalance() bool {
	return e.Code == CodeInsufficientBalance
}

// Client places single orders against the exchange REST API. Every call is
// fire and forget: no retry, no order-status polling, no caching.
type Client struct {
	apiKey     string
	baseURL    string
	recvWindow int64
	httpClient *http.Client
	signer     *Signer
	nowMilli   func() int64
}

func NewClient(exchangeConfig config.ExchangeConfig) *Client {
	return &Client{
		apiKey:     strings.TrimSpace(exchangeConfig.APIKey),
		baseURL:    strings.TrimRight(strings.TrimSpace(exchangeConfig.BaseURL), "/"),
		recvWindow: exchangeConfig.RecvWindow,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		signer:     NewSigner(exchangeConfig.APISecret),
		nowMilli:   func() int64 { return time.Now().UnixMilli() },
	}
}

// CurrentPrice issues one unauthenticated ticker lookup. A transient failure
// here aborts the invoking strategy; the quote is never cached.
func (c *Client) CurrentPrice(ctx context.Context, symbol string) (entity.PriceQuote, error) {
	endpoint := c.baseURL + tickerPricePath + "?symbol=" + url.QueryEscape(strings.ToUpper(symbol))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return entity.PriceQuote{}, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return entity.PriceQuote{}, fmt.Errorf("fetch price: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return entity.PriceQuote{}, err
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return entity.PriceQuote{}, newAPIError(resp.StatusCode, body)
	}

	var tickerResp struct {
		Symbol string `json:"symbol"`
		Price  string `json:"price"`
	}
	if err := json.Unmarshal(body, &tickerResp); err != nil {
		return entity.PriceQuote{}, fmt.Errorf("ticker price parse failed: status=%d body=%s", resp.StatusCode, string(body))
	}

	price, err := decimal.NewFromString(tickerResp.Price)
	if err != nil || price.LessThanOrEqual(decimal.Zero) {
		return entity.PriceQuote{}, fmt.Errorf("ticker returned invalid price: %q", tickerResp.Price)
	}

	return entity.PriceQuote{
		Symbol:     strings.ToUpper(symbol),
		Price:      price,
		ObservedAt: time.Now().UTC(),
	}, nil
}

// PlaceOrder submits one MARKET or LIMIT order. The signed query string
// carries the fields in a fixed order so identical inputs produce
// structurally identical payloads.
func (c *Client) PlaceOrder(ctx context.Context, order entity.OrderRequest) (json.RawMessage, error) {
	if err := c.checkCredentials(); err != nil {
		return nil, err
	}

	pairs := []string{
		"symbol=" + strings.ToUpper(order.Symbol),
		"side=" + string(order.Side),
		"type=" + string(order.Type),
		"quantity=" + order.Quantity.String(),
	}

	if order.Type == entity.OrderTypeLimit {
		if order.Price == nil {
			return nil, fmt.Errorf("limit order requires a price")
		}

		timeInForce := order.TimeInForce
		if timeInForce == "" {
			timeInForce = entity.TimeInForceGTC
		}

		pairs = append(pairs,
			"price="+order.Price.String(),
			"timeInForce="+timeInForce,
		)
	}

	pairs = c.appendRequestWindow(pairs)

	body, err := c.postSigned(ctx, orderPath, pairs)
	if err != nil {
		return nil, err
	}

	logFields := logrus.Fields{
		"symbol":   order.Symbol,
		"side":     order.Side,
		"type":     order.Type,
		"quantity": order.Quantity.String(),
	}
	if order.Price != nil {
		logFields["price"] = order.Price.String()
	}
	logrus.WithFields(logFields).Info("order placed")

	return body, nil
}

// PlaceBracketOrder submits one OCO order pairing a LIMIT_MAKER take-profit
// leg with a STOP_LOSS_LIMIT stop leg. The leg above the current price is the
// stop for BUY and the take-profit for SELL, per the exchange convention.
func (c *Client) PlaceBracketOrder(ctx context.Context, order entity.BracketOrderRequest) (json.RawMessage, error) {
	if err := c.checkCredentials(); err != nil {
		return nil, err
	}

	pairs := []string{
		"symbol=" + strings.ToUpper(order.Symbol),
		"side=" + string(order.Side),
		"quantity=" + order.Quantity.String(),
	}

	if order.Side == entity.OrderSideBuy {
		pairs = append(pairs,
			"aboveType="+string(entity.OrderTypeStopLossLimit),
			"abovePrice="+order.StopPrice.String(),
			"aboveStopPrice="+order.StopPrice.String(),
			"aboveTimeInForce="+entity.TimeInForceGTC,
			"belowType="+string(entity.OrderTypeLimitMaker),
			"belowPrice="+order.TakeProfitPrice.String(),
		)
	} else {
		pairs = append(pairs,
			"aboveType="+string(entity.OrderTypeLimitMaker),
			"abovePrice="+order.TakeProfitPrice.String(),
			"belowType="+string(entity.OrderTypeStopLossLimit),
			"belowPrice="+order.StopPrice.String(),
			"belowStopPrice="+order.StopPrice.String(),
			"belowTimeInForce="+entity.TimeInForceGTC,
		)
	}

	pairs = c.appendRequestWindow(pairs)

	body, err := c.postSigned(ctx, ocoOrderPath, pairs)
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"symbol":            order.Symbol,
		"side":              order.Side,
		"quantity":          order.Quantity.String(),
		"take_profit_price": order.TakeProfitPrice.String(),
		"stop_price":        order.StopPrice.String(),
	}).Info("bracket order placed")

	return body, nil
}

func (c *Client) appendRequestWindow(pairs []string) []string {
	return append(pairs,
		"timestamp="+strconv.FormatInt(c.nowMilli(), 10),
		"recvWindow="+strconv.FormatInt(c.recvWindow, 10),
	)
}

func (c *Client) postSigned(ctx context.Context, path string, pairs []string) (json.RawMessage, error) {
	endpoint := c.baseURL + path + "?" + c.signer.Sign(pairs)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-MBX-APIKEY", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("place order: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := newAPIError(resp.StatusCode, body)
		logrus.WithField("path", path).Info(apiErr.Error())
		return nil, apiErr
	}

	return json.RawMessage(body), nil
}

func (c *Client) checkCredentials() error {
	if c.apiKey == "" || c.signer.secret == "" {
		return fmt.Errorf("exchange credentials are missing in config")
	}

	return nil
}

func newAPIError(statusCode int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: statusCode, Msg: "unknown error"}

	var errResp struct {
		Code int    `json:"code"`
		Msg  string `json:"msg"`
	}
	if err := json.Unmarshal(body, &errResp); err == nil {
		apiErr.Code = errResp.Code
		if errResp.Msg != "" {
			apiErr.Msg = errResp.Msg
		}
	} else if len(body) > 0 {
		apiErr.Msg = string(body)
	}

	return apiErr
}
