/*
Copyright © 2026 Michael Putera Wardana <michaelputeraw@gmail.com>
*/
package cmd

import (
	"github.com/krobus00/trade-exec-service/internal/bootstrap"
	"github.com/krobus00/trade-exec-service/internal/entity"
	"github.com/spf13/cobra"
)

// limitOrderCmd represents the limit-order command
var limitOrderCmd = &cobra.Command{
	Use:   "limit-order",
	Short: "Place a single GTC LIMIT order",
	Long:  `Place a single good-till-cancelled LIMIT order at the given price.`,
	Run: func(cmd *cobra.Command, args []string) {
		bootstrap.RunStrategyOnce(cmd, entity.StrategyLimit)
	},
}

func init() {
	rootCmd.AddCommand(limitOrderCmd)
	limitOrderCmd.Flags().String("symbol", "BTCUSDT", "trading pair, must end in USDT")
	limitOrderCmd.Flags().String("side", "BUY", "BUY or SELL")
	limitOrderCmd.Flags().String("quantity", "0.001", "base asset quantity")
	limitOrderCmd.Flags().String("price", "", "limit price")
}
