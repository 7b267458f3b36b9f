/*
Copyright © 2026 Michael Putera Wardana <michaelputeraw@gmail.com>
*/
package cmd

import (
	"github.com/krobus00/trade-exec-service/internal/bootstrap"
	"github.com/krobus00/trade-exec-service/internal/entity"
	"github.com/spf13/cobra"
)

// gridCmd represents the grid command
var gridCmd = &cobra.Command{
	Use:   "grid",
	Short: "Place a ladder of LIMIT orders around the current price",
	Long: `Place evenly spaced GTC LIMIT orders between a lower and an upper bound
derived from the current price, paced between submissions.`,
	Run: func(cmd *cobra.Command, args []string) {
		bootstrap.RunStrategyOnce(cmd, entity.StrategyGrid)
	},
}

func init() {
	rootCmd.AddCommand(gridCmd)
	gridCmd.Flags().String("symbol", "BTCUSDT", "trading pair, must end in USDT")
	gridCmd.Flags().String("side", "BUY", "BUY or SELL")
	gridCmd.Flags().String("quantity", "0.001", "base asset quantity per rung")
	gridCmd.Flags().Int("steps", 0, "number of rungs (default 5)")
	gridCmd.Flags().String("lower-pct", "", "lower bound as a fraction of the current price (default 0.98)")
	gridCmd.Flags().String("upper-pct", "", "upper bound as a fraction of the current price (default 1.02)")
}
