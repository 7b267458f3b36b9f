/*
Copyright © 2026 Michael Putera Wardana <michaelputeraw@gmail.com>
*/
package cmd

import (
	"github.com/krobus00/trade-exec-service/internal/bootstrap"
	"github.com/krobus00/trade-exec-service/internal/entity"
	"github.com/spf13/cobra"
)

// ocoCmd represents the oco command
var ocoCmd = &cobra.Command{
	Use:   "oco",
	Short: "Place an OCO bracket around the current price",
	Long: `Place a one-cancels-the-other bracket with a take-profit and a stop leg
derived from the current price. Offsets default to 1% of the price; an
insufficient-balance rejection degrades to a simulated result.`,
	Run: func(cmd *cobra.Command, args []string) {
		bootstrap.RunStrategyOnce(cmd, entity.StrategyBracket)
	},
}

func init() {
	rootCmd.AddCommand(ocoCmd)
	ocoCmd.Flags().String("symbol", "BTCUSDT", "trading pair, must end in USDT")
	ocoCmd.Flags().String("side", "BUY", "BUY or SELL")
	ocoCmd.Flags().String("quantity", "0.001", "base asset quantity")
	ocoCmd.Flags().String("tp-offset", "", "absolute take-profit offset from the current price")
	ocoCmd.Flags().String("stop-offset", "", "absolute stop offset from the current price")
}
