/*
Copyright © 2026 Michael Putera Wardana <michaelputeraw@gmail.com>
*/
package cmd

import (
	"github.com/krobus00/trade-exec-service/internal/bootstrap"
	"github.com/spf13/cobra"
)

// gatewayCmd represents the gateway command
var gatewayCmd = &cobra.Command{
	Use:   "gateway",
	Short: "Start the HTTP execution gateway",
	Long: `The gateway exposes the strategy endpoints over HTTP: single MARKET and
LIMIT orders, OCO brackets, grid ladders and TWAP runs, each with a
synchronous and a queued async variant, plus the status and simulate views.`,
	Run: bootstrap.StartGateway,
}

func init() {
	rootCmd.AddCommand(gatewayCmd)
}
