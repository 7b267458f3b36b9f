/*
Copyright © 2026 Michael Putera Wardana <michaelputeraw@gmail.com>
*/
package cmd

import (
	"github.com/krobus00/trade-exec-service/internal/bootstrap"
	"github.com/krobus00/trade-exec-service/internal/entity"
	"github.com/spf13/cobra"
)

// twapCmd represents the twap command
var twapCmd = &cobra.Command{
	Use:   "twap",
	Short: "Split a MARKET order into timed equal chunks",
	Long: `Split a total quantity into equal MARKET order chunks submitted at a fixed
interval to average the execution price over time.`,
	Run: func(cmd *cobra.Command, args []string) {
		bootstrap.RunStrategyOnce(cmd, entity.StrategyTwap)
	},
}

func init() {
	rootCmd.AddCommand(twapCmd)
	twapCmd.Flags().String("symbol", "BTCUSDT", "trading pair, must end in USDT")
	twapCmd.Flags().String("side", "BUY", "BUY or SELL")
	twapCmd.Flags().String("quantity", "0.01", "total base asset quantity")
	twapCmd.Flags().Int("chunks", 0, "number of chunks (default 4)")
	twapCmd.Flags().Int("interval", 0, "seconds between chunks (default 10)")
}
