package constant

const (
	DevelopmentEnvironment = "development"
	ProductionEnvironment  = "production"
)

const (
	StrategyRunStreamName         = "strategy_run"
	StrategyRunStreamSubjectAll   = "strategy_run.*"
	StrategyRunStreamSubjectQueue = "strategy_run.queued"
	StrategyRunStreamSubjectDone  = "strategy_run.completed"

	StrategyRunQueueName  = "strategy_run_queue"
	StrategyRunQueueGroup = "strategy_run_group"
)

const (
	RecentRunsKey     = "trade-exec:recent-runs"
	LatestPriceKeyFmt = "trade-exec:latest-price:%s"
)
