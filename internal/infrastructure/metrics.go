package infrastructure

import (
	"net/http"

	"github.com/krobus00/trade-exec-service/internal/entity"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	strategyRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "exec_strategy_runs_total",
			Help: "Strategy runs by strategy and outcome",
		},
		[]string{"strategy", "outcome"},
	)

	childOrders = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "exec_child_orders_total",
			Help: "Child orders submitted by order type and status",
		},
		[]string{"type", "status"},
	)

	latestPrice = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "exec_latest_price",
			Help: "Latest observed price per symbol from the price feed",
		},
		[]string{"symbol"},
	)
)

func init() {
	prometheus.MustRegister(strategyRuns, childOrders, latestPrice)
}

func ObserveStrategyRun(result *entity.StrategyResult) {
	if result == nil {
		return
	}

	strategyRuns.WithLabelValues(result.Strategy, string(result.Outcome)).Inc()
	for _, order := range result.Orders {
		childOrders.WithLabelValues(string(order.Type), string(order.Status)).Inc()
	}
}

func SetLatestPriceMetric(symbol string, price float64) {
	latestPrice.WithLabelValues(symbol).Set(price)
}

// MetricsHandler serves the Prometheus text exposition format.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
