/*
Copyright © 2026 Michael Putera Wardana <michaelputeraw@gmail.com>
*/
package cmd

import (
	"github.com/krobus00/trade-exec-service/internal/bootstrap"
	"github.com/spf13/cobra"
)

// strategyWorkerCmd represents the strategy-worker command
var strategyWorkerCmd = &cobra.Command{
	Use:   "strategy-worker",
	Short: "Start the queued strategy run worker",
	Long: `The strategy worker consumes queued strategy runs from jetstream and
executes them against the exchange with the same audit trail as the gateway.`,
	Run: bootstrap.StartStrategyWorker,
}

func init() {
	rootCmd.AddCommand(strategyWorkerCmd)
}
