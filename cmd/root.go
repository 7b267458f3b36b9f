/*
Copyright © 2026 Michael Putera Wardana <michaelputeraw@gmail.com>
*/
package cmd

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/krobus00/trade-exec-service/internal/config"
	"github.com/krobus00/trade-exec-service/internal/constant"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var configPath string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "trade-exec-service",
	Short: "Trading order execution service for Binance-compatible exchanges",
	Long: `trade-exec-service places MARKET, LIMIT and OCO bracket orders and runs
grid and TWAP execution strategies against a Binance-compatible REST API.

It ships an HTTP gateway, a jetstream worker for queued strategy runs, a
websocket price feed worker and one-shot commands for each strategy.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// .env is optional; exchange credentials usually live there.
		_ = godotenv.Load()

		err := config.LoadConfig(configPath)
		if err != nil {
			return err
		}

		logrus.SetReportCaller(config.Env.Log.ShowCaller)

		if config.Env.Env == constant.ProductionEnvironment {
			logrus.SetFormatter(&logrus.JSONFormatter{})
		}

		logLevel, err := logrus.ParseLevel(config.Env.Log.LogLevel)
		if err != nil {
			return err
		}
		logrus.SetLevel(logLevel)

		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path (default: ./config.yml)")
}
