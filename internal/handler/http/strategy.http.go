package http

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/krobus00/trade-exec-service/internal/config"
	"github.com/krobus00/trade-exec-service/internal/entity"
	"github.com/krobus00/trade-exec-service/internal/service/execution"
)

var (
	errAPIKeyMissing  = errors.New("api key is required")
	errAPIKeyInvalid  = errors.New("invalid api key")
	errAPIKeyInactive = errors.New("api key is inactive")
	errAPIKeyExpired  = errors.New("api key is expired")
)

type StrategyRunHTTPRequest struct {
	ApiKey    string `json:"api_key"`
	RequestID string `json:"request_id"`
	Symbol    string `json:"symbol"`
	Side      string `json:"side"`
	Quantity  string `json:"quantity"`

	Price string `json:"price,omitempty"`

	TakeProfitOffset string `json:"take_profit_offset,omitempty"`
	StopOffset       string `json:"stop_offset,omitempty"`

	Steps    int    `json:"steps,omitempty"`
	LowerPct string `json:"lower_pct,omitempty"`
	UpperPct string `json:"upper_pct,omitempty"`

	Chunks          int `json:"chunks,omitempty"`
	IntervalSeconds int `json:"interval_seconds,omitempty"`

	Simulate bool `json:"simulate,omitempty"`
}

type StrategyRunAsyncResponse struct {
	RequestID string `json:"request_id"`
	Strategy  string `json:"strategy"`
	Status    string `json:"status"`
}

type StatusResponse struct {
	Service      string                  `json:"service"`
	Env          string                  `json:"env"`
	RecentRuns   []entity.StrategyResult `json:"recent_runs"`
	LatestPrices map[string]string       `json:"latest_prices"`
}

type Handler struct {
	executionService *execution.Service
}

func NewStrategyHTTPHandler(executionService *execution.Service) *Handler {
	return &Handler{executionService: executionService}
}

func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/", h.Banner)
	mux.HandleFunc("/status", h.Status)
	mux.HandleFunc("/simulate", h.Simulate)

	mux.HandleFunc("/v1/orders/market", h.runHandler(entity.StrategyMarket))
	mux.HandleFunc("/v1/orders/limit", h.runHandler(entity.StrategyLimit))
	mux.HandleFunc("/v1/strategies/oco", h.runHandler(entity.StrategyBracket))
	mux.HandleFunc("/v1/strategies/grid", h.runHandler(entity.StrategyGrid))
	mux.HandleFunc("/v1/strategies/twap", h.runHandler(entity.StrategyTwap))

	mux.HandleFunc("/v1/orders/market/async", h.runAsyncHandler(entity.StrategyMarket))
	mux.HandleFunc("/v1/orders/limit/async", h.runAsyncHandler(entity.StrategyLimit))
	mux.HandleFunc("/v1/strategies/oco/async", h.runAsyncHandler(entity.StrategyBracket))
	mux.HandleFunc("/v1/strategies/grid/async", h.runAsyncHandler(entity.StrategyGrid))
	mux.HandleFunc("/v1/strategies/twap/async", h.runAsyncHandler(entity.StrategyTwap))
}

func (h *Handler) Banner(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		writeJSON(w, http.StatusNotFound, map[string]any{"error": "not found"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"service": config.ServiceName,
		"version": config.ServiceVersion,
		"endpoints": []string{
			"GET /status",
			"GET /simulate",
			"POST /v1/orders/market",
			"POST /v1/orders/limit",
			"POST /v1/strategies/oco",
			"POST /v1/strategies/grid",
			"POST /v1/strategies/twap",
		},
	})
}

func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]any{"error": "method not allowed"})
		return
	}

	env := ""
	var watched []string
	if config.Env != nil {
		env = config.Env.Env
		watched = config.Env.Exchange.WatchedSymbols
	}

	writeJSON(w, http.StatusOK, StatusResponse{
		Service:      config.ServiceName,
		Env:          env,
		RecentRuns:   h.executionService.RecentRuns(r.Context()),
		LatestPrices: h.executionService.LatestPrices(r.Context(), watched),
	})
}

// Simulate runs a market order in simulation mode so the service can be
// exercised without credentials or balance. Parameters default to a small
// BTCUSDT buy.
func (h *Handler) Simulate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]any{"error": "method not allowed"})
		return
	}

	query := r.URL.Query()
	symbol := strings.TrimSpace(query.Get("symbol"))
	if symbol == "" {
		symbol = "BTCUSDT"
	}
	side := strings.TrimSpace(query.Get("side"))
	if side == "" {
		side = "BUY"
	}
	quantity := strings.TrimSpace(query.Get("quantity"))
	if quantity == "" {
		quantity = "0.001"
	}

	result := h.executionService.Run(r.Context(), entity.StrategyRunRequest{
		Strategy: entity.StrategyMarket,
		Symbol:   symbol,
		Side:     side,
		Quantity: quantity,
		Simulate: true,
	})

	writeJSON(w, statusForOutcome(result.Outcome), result)
}

func (h *Handler) runHandler(strategyName string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, ok := h.decodeRunRequest(w, r)
		if !ok {
			return
		}

		result := h.executionService.Run(r.Context(), mapHTTPRequestToRunRequest(strategyName, req))
		writeJSON(w, statusForOutcome(result.Outcome), result)
	}
}

func (h *Handler) runAsyncHandler(strategyName string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, ok := h.decodeRunRequest(w, r)
		if !ok {
			return
		}

		requestID, err := h.executionService.RunAsync(r.Context(), mapHTTPRequestToRunRequest(strategyName, req))
		if err != nil {
			switch {
			case errors.Is(err, execution.ErrJetstreamNotConfigured):
				writeJSON(w, http.StatusServiceUnavailable, map[string]any{"error": err.Error()})
			case errors.Is(err, execution.ErrPublishRunEventFailed):
				writeJSON(w, http.StatusBadGateway, map[string]any{"error": err.Error()})
			default:
				writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "internal server error"})
			}
			return
		}

		writeJSON(w, http.StatusAccepted, StrategyRunAsyncResponse{
			RequestID: requestID,
			Strategy:  strategyName,
			Status:    "queued",
		})
	}
}

func (h *Handler) decodeRunRequest(w http.ResponseWriter, r *http.Request) (*StrategyRunHTTPRequest, bool) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]any{"error": "method not allowed"})
		return nil, false
	}

	defer r.Body.Close()

	var req StrategyRunHTTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid json body"})
		return nil, false
	}

	if err := validateAPIKey(resolveAPIKey(r, &req)); err != nil {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"error": err.Error()})
		return nil, false
	}

	if strings.TrimSpace(req.Symbol) == "" || strings.TrimSpace(req.Side) == "" || strings.TrimSpace(req.Quantity) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "missing required fields"})
		return nil, false
	}

	return &req, true
}

func mapHTTPRequestToRunRequest(strategyName string, req *StrategyRunHTTPRequest) entity.StrategyRunRequest {
	return entity.StrategyRunRequest{
		RequestID:        strings.TrimSpace(req.RequestID),
		Strategy:         strategyName,
		Symbol:           req.Symbol,
		Side:             req.Side,
		Quantity:         req.Quantity,
		Price:            req.Price,
		TakeProfitOffset: req.TakeProfitOffset,
		StopOffset:       req.StopOffset,
		Steps:            req.Steps,
		LowerPct:         req.LowerPct,
		UpperPct:         req.UpperPct,
		Chunks:           req.Chunks,
		IntervalSeconds:  req.IntervalSeconds,
		Simulate:         req.Simulate,
	}
}

func statusForOutcome(outcome entity.Outcome) int {
	switch outcome {
	case entity.OutcomeExecuted, entity.OutcomeSimulated:
		return http.StatusOK
	case entity.OutcomeRejected:
		return http.StatusBadRequest
	default:
		return http.StatusBadGateway
	}
}

func writeJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(payload)
}

func resolveAPIKey(r *http.Request, req *StrategyRunHTTPRequest) string {
	if headerKey := strings.TrimSpace(r.Header.Get("X-API-Key")); headerKey != "" {
		return headerKey
	}

	return strings.TrimSpace(req.ApiKey)
}

func validateAPIKey(rawAPIKey string) error {
	apiKey := strings.TrimSpace(rawAPIKey)
	if apiKey == "" {
		return errAPIKeyMissing
	}

	if config.Env == nil || len(config.Env.APIKeys) == 0 {
		return errAPIKeyInvalid
	}

	now := time.Now().UTC()
	for _, candidate := range config.Env.APIKeys {
		storedKey := strings.TrimSpace(candidate.Key)
		if storedKey == "" {
			continue
		}

		if subtle.ConstantTimeCompare([]byte(apiKey), []byte(storedKey)) != 1 {
			continue
		}

		if !candidate.Active {
			return errAPIKeyInactive
		}

		expiredAt, hasExpiry, err := parseExpiry(candidate.ExpiredAt)
		if err != nil {
			return errAPIKeyInvalid
		}
		if !hasExpiry {
			return nil
		}

		if !now.Before(expiredAt) {
			return errAPIKeyExpired
		}

		return nil
	}

	return errAPIKeyInvalid
}

func parseExpiry(value any) (time.Time, bool, error) {
	if value == nil {
		return time.Time{}, false, nil
	}

	switch v := value.(type) {
	case time.Time:
		if v.IsZero() {
			return time.Time{}, false, nil
		}
		return v.UTC(), true, nil
	case string:
		raw := strings.TrimSpace(v)
		if raw == "" {
			return time.Time{}, false, nil
		}

		if parsed, err := time.Parse(time.RFC3339, raw); err == nil {
			return parsed.UTC(), true, nil
		}

		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return time.Time{}, false, err
		}

		return parsed.UTC().Add(24 * time.Hour), true, nil
	default:
		return time.Time{}, false, errors.New("unsupported expiry type")
	}
}
