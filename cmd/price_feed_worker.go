/*
Copyright © 2026 Michael Putera Wardana <michaelputeraw@gmail.com>
*/
package cmd

import (
	"github.com/krobus00/trade-exec-service/internal/bootstrap"
	"github.com/spf13/cobra"
)

// priceFeedWorkerCmd represents the price-feed-worker command
var priceFeedWorkerCmd = &cobra.Command{
	Use:   "price-feed-worker",
	Short: "Start the websocket price feed worker",
	Long: `The price feed worker subscribes to the exchange miniTicker stream for the
watched symbols and keeps the latest prices in the cache and the price gauge.`,
	Run: bootstrap.StartPriceFeedWorker,
}

func init() {
	rootCmd.AddCommand(priceFeedWorkerCmd)
}
