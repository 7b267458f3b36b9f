package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/krobus00/trade-exec-service/internal/config"
	"github.com/krobus00/trade-exec-service/internal/exchange"
	httpHandler "github.com/krobus00/trade-exec-service/internal/handler/http"
	"github.com/krobus00/trade-exec-service/internal/infrastructure"
	"github.com/krobus00/trade-exec-service/internal/repository"
	"github.com/krobus00/trade-exec-service/internal/service/execution"
	"github.com/krobus00/trade-exec-service/internal/service/strategy"
	"github.com/krobus00/trade-exec-service/internal/util"
	"github.com/nats-io/nats.go"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// StartGateway runs the HTTP API. The execution-log database, jetstream and
// the recent-run cache are each optional; the gateway degrades to synchronous
// runs without them.
func StartGateway(cmd *cobra.Command, args []string) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdownOps := map[string]operation{}

	var execLogRepo *repository.ExecutionLogRepository
	if dbCfg, ok := config.Env.Database["execution"]; ok && strings.TrimSpace(dbCfg.DSN) != "" {
		db, err := infrastructure.NewPostgresConnection(ctx, dbCfg)
		util.ContinueOrFatal(err)
		infrastructure.StartPostgresHealthCheck(ctx, db, dbCfg.PingInterval)

		execLogRepo = repository.NewExecutionLogRepository(db)
		shutdownOps["database"] = func(ctx context.Context) error {
			cancel()
			return db.Close()
		}
	} else {
		logrus.Warn("execution database is not configured, audit rows disabled")
	}

	executionService, err := buildExecutionService(ctx, execLogRepo, shutdownOps, true)
	util.ContinueOrFatal(err)

	strategyHTTPHandler := httpHandler.NewStrategyHTTPHandler(executionService)
	httpMux := http.NewServeMux()
	strategyHTTPHandler.Register(httpMux)
	httpMux.Handle("/metrics", infrastructure.MetricsHandler())

	httpPort := fmt.Sprintf(":%s", config.Env.Port["gateway_http"])
	httpServer := infrastructure.NewHTTPServerWithConfig(infrastructure.HTTPServerConfig{
		Addr:            httpPort,
		ShutdownTimeout: config.Env.GracefulShutdownTimeout,
	}, httpMux)

	go func() {
		err := httpServer.Start()
		if err != nil {
			logrus.Error(err)
		}
	}()
	logrus.Info(fmt.Sprintf("http server started on %s", httpPort))

	shutdownOps["http"] = func(ctx context.Context) error {
		return httpServer.Shutdown(ctx)
	}

	wait := gracefulShutdown(ctx, config.Env.GracefulShutdownTimeout, shutdownOps)

	<-wait
}

// buildExecutionService wires the exchange client, the strategy layer and the
// optional audit sinks. When initStream is set the strategy_run stream is
// created or updated so async runs can be queued.
func buildExecutionService(ctx context.Context, execLogRepo *repository.ExecutionLogRepository, shutdownOps map[string]operation, initStream bool) (*execution.Service, error) {
	exchangeClient := exchange.NewClient(config.Env.Exchange)
	strategyService := strategy.NewService(exchangeClient, config.Env.Strategy, nil)

	var js nats.JetStreamContext
	if strings.TrimSpace(config.Env.NatsJetstream.URL) != "" {
		nc, jsCtx, err := infrastructure.NewJetstream()
		if err != nil {
			return nil, err
		}

		js = jsCtx
		shutdownOps["nats connection"] = func(ctx context.Context) error {
			return infrastructure.CloseJetstream(nc)
		}
	} else {
		logrus.Warn("nats jetstream is not configured, async runs disabled")
	}

	recentStore := newRecentRunStore(shutdownOps)

	executionService := execution.NewService(strategyService, execLogRepo, js, recentStore)

	if js != nil && initStream {
		if err := executionService.JetstreamEventInit(ctx); err != nil {
			return nil, err
		}
	}

	return executionService, nil
}

func newRecentRunStore(shutdownOps map[string]operation) *execution.RecentRunStore {
	redisCfg, ok := config.Env.Redis["cache"]
	if !ok || strings.TrimSpace(redisCfg.CacheDSN) == "" {
		logrus.Warn("redis cache is not configured, recent-run view disabled")
		return nil
	}

	recentStore, err := execution.NewRecentRunStore(redisCfg.CacheDSN)
	if err != nil {
		logrus.WithError(err).Warn("failed to connect to redis cache, recent-run view disabled")
		return nil
	}

	shutdownOps["redis"] = func(ctx context.Context) error {
		return recentStore.Close()
	}

	return recentStore
}
