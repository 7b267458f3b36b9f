package bootstrap

import (
	"context"
	"errors"

	"github.com/krobus00/trade-exec-service/internal/config"
	"github.com/krobus00/trade-exec-service/internal/service/execution"
	"github.com/krobus00/trade-exec-service/internal/service/pricefeed"
	"github.com/krobus00/trade-exec-service/internal/util"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// StartPriceFeedWorker streams miniTicker prices for the watched symbols into
// the cache and the price gauge.
func StartPriceFeedWorker(cmd *cobra.Command, args []string) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdownOps := map[string]operation{}

	recentStore := newRecentRunStore(shutdownOps)

	var sink pricefeed.PriceSink
	if recentStore != nil {
		sink = recentStore
	}

	feed, err := pricefeed.NewFeed(config.Env.Exchange, sink)
	util.ContinueOrFatal(err)

	go func() {
		err := feed.Run(ctx)
		if err != nil && !errors.Is(err, context.Canceled) {
			logrus.Error(err)
		}
	}()

	logrus.Info("price feed worker started")

	wait := gracefulShutdown(ctx, config.Env.GracefulShutdownTimeout, shutdownOps)

	<-wait
}

var _ pricefeed.PriceSink = (*execution.RecentRunStore)(nil)
