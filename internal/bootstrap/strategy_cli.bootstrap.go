package bootstrap

import (
	"context"
	"os"

	"github.com/goccy/go-json"
	"github.com/krobus00/trade-exec-service/internal/config"
	"github.com/krobus00/trade-exec-service/internal/entity"
	"github.com/krobus00/trade-exec-service/internal/exchange"
	"github.com/krobus00/trade-exec-service/internal/service/execution"
	"github.com/krobus00/trade-exec-service/internal/service/strategy"
	"github.com/spf13/cobra"
)

// RunStrategyOnce executes one strategy invocation from command flags and
// prints the result as JSON. No audit sinks are wired; the one-shot commands
// mirror running a single script against the exchange.
func RunStrategyOnce(cmd *cobra.Command, strategyName string) {
	req := entity.StrategyRunRequest{Strategy: strategyName}

	req.Symbol, _ = cmd.Flags().GetString("symbol")
	req.Side, _ = cmd.Flags().GetString("side")
	req.Quantity, _ = cmd.Flags().GetString("quantity")
	req.Price, _ = cmd.Flags().GetString("price")
	req.TakeProfitOffset, _ = cmd.Flags().GetString("tp-offset")
	req.StopOffset, _ = cmd.Flags().GetString("stop-offset")
	req.Steps, _ = cmd.Flags().GetInt("steps")
	req.LowerPct, _ = cmd.Flags().GetString("lower-pct")
	req.UpperPct, _ = cmd.Flags().GetString("upper-pct")
	req.Chunks, _ = cmd.Flags().GetInt("chunks")
	req.IntervalSeconds, _ = cmd.Flags().GetInt("interval")
	req.Simulate, _ = cmd.Flags().GetBool("simulate")

	exchangeClient := exchange.NewClient(config.Env.Exchange)
	strategyService := strategy.NewService(exchangeClient, config.Env.Strategy, nil)
	executionService := execution.NewService(strategyService, nil, nil, nil)

	result := executionService.Run(context.Background(), req)

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	_ = encoder.Encode(result)

	if result.Outcome == entity.OutcomeFailed {
		os.Exit(1)
	}
}
