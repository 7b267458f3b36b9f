package pricefeed

import (
	"testing"
	"time"

	"github.com/krobus00/trade-exec-service/internal/config"
)

func TestParseMiniTicker(t *testing.T) {
	tests := []struct {
		name       string
		message    string
		wantSymbol string
		wantPrice  string
		wantOK     bool
	}{
		{
			name:       "valid tick",
			message:    `{"e":"24hrMiniTicker","s":"BTCUSDT","c":"50123.45","o":"49000.00"}`,
			wantSymbol: "BTCUSDT",
			wantPrice:  "50123.45",
			wantOK:     true,
		},
		{
			name:    "subscription ack",
			message: `{"result":null,"id":1}`,
			wantOK:  false,
		},
		{
			name:    "other event",
			message: `{"e":"kline","s":"BTCUSDT","c":"50123.45"}`,
			wantOK:  false,
		},
		{
			name:    "missing close",
			message: `{"e":"24hrMiniTicker","s":"BTCUSDT"}`,
			wantOK:  false,
		},
		{
			name:    "not json",
			message: `ping`,
			wantOK:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			symbol, price, ok := parseMiniTicker([]byte(tt.message))
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if !tt.wantOK {
				return
			}
			if symbol != tt.wantSymbol || price != tt.wantPrice {
				t.Errorf("parsed (%s, %s), want (%s, %s)", symbol, price, tt.wantSymbol, tt.wantPrice)
			}
		})
	}
}

func TestNewFeedRequiresSymbols(t *testing.T) {
	_, err := NewFeed(config.ExchangeConfig{}, nil)
	if err == nil {
		t.Fatal("NewFeed() expected error without watched symbols, got nil")
	}
}

func TestNewFeedNormalizesSymbols(t *testing.T) {
	feed, err := NewFeed(config.ExchangeConfig{
		WatchedSymbols: []string{" btcusdt ", "ETHUSDT", ""},
	}, nil)
	if err != nil {
		t.Fatalf("NewFeed() error = %v", err)
	}

	if len(feed.symbols) != 2 {
		t.Fatalf("symbols = %v, want the two non-empty entries", feed.symbols)
	}
	if feed.symbols[0] != "BTCUSDT" || feed.symbols[1] != "ETHUSDT" {
		t.Errorf("symbols = %v, want upper-cased [BTCUSDT ETHUSDT]", feed.symbols)
	}
	if feed.wsURL != defaultWSURL {
		t.Errorf("ws url = %s, want the default %s", feed.wsURL, defaultWSURL)
	}
}

func TestReconnectDelayBounded(t *testing.T) {
	feed, err := NewFeed(config.ExchangeConfig{WatchedSymbols: []string{"BTCUSDT"}}, nil)
	if err != nil {
		t.Fatalf("NewFeed() error = %v", err)
	}

	for attempt := 0; attempt < 20; attempt++ {
		delay := feed.reconnectDelay(attempt)
		if delay <= 0 {
			t.Fatalf("delay at attempt %d = %s, want positive", attempt, delay)
		}
		if delay > reconnectMaxBackoff {
			t.Fatalf("delay at attempt %d = %s, exceeds cap %s", attempt, delay, reconnectMaxBackoff)
		}
	}

	if feed.reconnectDelay(0) > 2*time.Second {
		t.Errorf("first retry delay = %s, want a short initial backoff", feed.reconnectDelay(0))
	}
}
