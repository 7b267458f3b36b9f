package bootstrap

import (
	"context"
	"strings"

	"github.com/krobus00/trade-exec-service/internal/config"
	"github.com/krobus00/trade-exec-service/internal/infrastructure"
	"github.com/krobus00/trade-exec-service/internal/repository"
	"github.com/krobus00/trade-exec-service/internal/util"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// StartStrategyWorker consumes queued strategy runs from jetstream and
// executes them with the same audit trail as the gateway.
func StartStrategyWorker(cmd *cobra.Command, args []string) {
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

	executionService, err := buildExecutionService(ctx, execLogRepo, shutdownOps, false)
	util.ContinueOrFatal(err)

	err = executionService.JetstreamEventSubscribe(ctx)
	util.ContinueOrFatal(err)

	logrus.Info("strategy worker started")

	wait := gracefulShutdown(ctx, config.Env.GracefulShutdownTimeout, shutdownOps)

	<-wait
}
