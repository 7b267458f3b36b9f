/*
Copyright © 2026 Michael Putera Wardana <michaelputeraw@gmail.com>
*/
package cmd

import (
	"github.com/krobus00/trade-exec-service/internal/bootstrap"
	"github.com/krobus00/trade-exec-service/internal/entity"
	"github.com/spf13/cobra"
)

// marketOrderCmd represents the market-order command
var marketOrderCmd = &cobra.Command{
	Use:   "market-order",
	Short: "Place a single MARKET order",
	Long: `Place a single MARKET order, or echo a simulated fill with --simulate
without touching the exchange.`,
	Run: func(cmd *cobra.Command, args []string) {
		bootstrap.RunStrategyOnce(cmd, entity.StrategyMarket)
	},
}

func init() {
	rootCmd.AddCommand(marketOrderCmd)
	marketOrderCmd.Flags().String("symbol", "BTCUSDT", "trading pair, must end in USDT")
	marketOrderCmd.Flags().String("side", "BUY", "BUY or SELL")
	marketOrderCmd.Flags().String("quantity", "0.001", "base asset quantity")
	marketOrderCmd.Flags().Bool("simulate", false, "echo a simulated fill instead of sending the order")
}
