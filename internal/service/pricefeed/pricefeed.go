package pricefeed

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"github.com/krobus00/trade-exec-service/internal/config"
	"github.com/krobus00/trade-exec-service/internal/infrastructure"
	"github.com/sirupsen/logrus"
)

const (
	defaultWSURL         = "wss://stream.testnet.binance.vision/ws"
	pingInterval         = 2 * time.Minute
	reconnectBaseBackoff = 1 * time.Second
	reconnectMaxBackoff  = 30 * time.Second
	reconnectFactor      = 2.0
)

// PriceSink receives the latest observed price per symbol.
type PriceSink interface {
	SetLatestPrice(ctx context.Context, symbol string, price string) error
}

// Feed keeps a websocket subscription to the exchange miniTicker stream for
// the watched symbols and pushes every tick to the sink and the price gauge.
type Feed struct {
	wsURL   string
	symbols []string
	sink    PriceSink
	rng     *rand.Rand
}

func NewFeed(cfg config.ExchangeConfig, sink PriceSink) (*Feed, error) {
	if len(cfg.WatchedSymbols) == 0 {
		return nil, errors.New("exchange watched_symbols is required for the price feed")
	}

	wsURL := strings.TrimSpace(cfg.WSURL)
	if wsURL == "" {
		wsURL = defaultWSURL
	}

	symbols := make([]string, 0, len(cfg.WatchedSymbols))
	for _, symbol := range cfg.WatchedSymbols {
		symbol = strings.TrimSpace(symbol)
		if symbol != "" {
			symbols = append(symbols, strings.ToUpper(symbol))
		}
	}

	return &Feed{
		wsURL:   wsURL,
		symbols: symbols,
		sink:    sink,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}, nil
}

// Run blocks until the context is cancelled, reconnecting with jittered
// exponential backoff whenever the stream drops.
func (f *Feed) Run(ctx context.Context) error {
	attempt := 0
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := f.subscribe(ctx)
		if err == nil || errors.Is(err, context.Canceled) {
			return ctx.Err()
		}

		delay := f.reconnectDelay(attempt)
		attempt++
		logrus.WithFields(logrus.Fields{
			"attempt":  attempt,
			"retry_in": delay.String(),
		}).Warnf("price feed disconnected: %v", err)

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (f *Feed) subscribe(ctx context.Context) error {
	logrus.Infof("connecting to %s", f.wsURL)

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, f.wsURL, nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	conn.SetPongHandler(func(string) error {
		return nil
	})

	params := make([]string, 0, len(f.symbols))
	for _, symbol := range f.symbols {
		params = append(params, strings.ToLower(symbol)+"@miniTicker")
	}

	err = conn.WriteJSON(map[string]any{
		"method": "SUBSCRIBE",
		"params": params,
		"id":     1,
	})
	if err != nil {
		return err
	}

	logrus.WithField("symbols", f.symbols).Info("price feed subscribed")

	go func() {
		ticker := time.NewTicker(pingInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					logrus.Error(err)
					return
				}
			case <-ctx.Done():
				_ = conn.Close()
				return
			}
		}
	}()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		_, message, err := conn.ReadMessage()
		if err != nil {
			return err
		}

		symbol, price, ok := parseMiniTicker(message)
		if !ok {
			continue
		}

		f.observe(ctx, symbol, price)
	}
}

func (f *Feed) observe(ctx context.Context, symbol, price string) {
	if value, err := strconv.ParseFloat(price, 64); err == nil {
		infrastructure.SetLatestPriceMetric(symbol, value)
	}

	if f.sink != nil {
		if err := f.sink.SetLatestPrice(ctx, symbol, price); err != nil {
			logrus.WithError(err).WithField("symbol", symbol).Error("failed to store latest price")
		}
	}
}

func (f *Feed) reconnectDelay(attempt int) time.Duration {
	backoff := float64(reconnectBaseBackoff) * math.Pow(reconnectFactor, float64(attempt))
	if backoff > float64(reconnectMaxBackoff) {
		backoff = float64(reconnectMaxBackoff)
	}

	jitter := time.Duration(f.rng.Int63n(int64(time.Second)))
	delay := time.Duration(backoff) + jitter
	if delay > reconnectMaxBackoff {
		return reconnectMaxBackoff
	}

	return delay
}

func parseMiniTicker(message []byte) (symbol string, price string, ok bool) {
	var payload struct {
		Event  string `json:"e"`
		Symbol string `json:"s"`
		Close  string `json:"c"`
	}

	if err := json.Unmarshal(message, &payload); err != nil {
		return "", "", false
	}

	if payload.Event != "24hrMiniTicker" || payload.Symbol == "" || payload.Close == "" {
		return "", "", false
	}

	return payload.Symbol, payload.Close, true
}
