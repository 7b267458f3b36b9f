package entity

// StrategyRunRequest is the wire form of a strategy invocation. Numeric
// fields stay strings so the validators see exactly what the caller sent.
type StrategyRunRequest struct {
	RequestID string `json:"request_id"`
	Strategy  string `json:"strategy"`
	Symbol    string `json:"symbol"`
	Side      string `json:"side"`
	Quantity  string `json:"quantity"`

	// LIMIT orders only.
	Price string `json:"price,omitempty"`

	// Bracket (OCO) only; empty means default to 1% of the current price.
	TakeProfitOffset string `json:"take_profit_offset,omitempty"`
	StopOffset       string `json:"stop_offset,omitempty"`

	// Grid only; zero values fall back to configured defaults.
	Steps    int    `json:"steps,omitempty"`
	LowerPct string `json:"lower_pct,omitempty"`
	UpperPct string `json:"upper_pct,omitempty"`

	// TWAP only.
	Chunks          int `json:"chunks,omitempty"`
	IntervalSeconds int `json:"interval_seconds,omitempty"`

	// Market order demo mode: echo a simulated fill without touching the
	// exchange.
	Simulate bool `json:"simulate,omitempty"`
}

type StrategyRunEvent struct {
	RetryCount int                `json:"retry"`
	Data       StrategyRunRequest `json:"data"`
}

type StrategyRunCompletedEvent struct {
	Data StrategyResult `json:"data"`
}
