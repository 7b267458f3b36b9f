package execution

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/krobus00/trade-exec-service/internal/config"
	"github.com/krobus00/trade-exec-service/internal/constant"
	"github.com/krobus00/trade-exec-service/internal/entity"
	"github.com/krobus00/trade-exec-service/internal/infrastructure"
	"github.com/krobus00/trade-exec-service/internal/repository"
	"github.com/krobus00/trade-exec-service/internal/service/strategy"
	"github.com/krobus00/trade-exec-service/internal/util"
	"github.com/nats-io/nats.go"
	"github.com/sirupsen/logrus"
)

var (
	ErrUnknownStrategy        = errors.New("unknown strategy")
	ErrPublishRunEventFailed  = errors.New("failed to publish strategy run event")
	ErrJetstreamNotConfigured = errors.New("jetstream is not configured")
)

// Service dispatches strategy runs and handles the audit trail around them:
// execution-log rows, completed-run events, the recent-run cache and run
// metrics. Every audit sink is optional; the strategies run the same without
// them.
type Service struct {
	strategies  *strategy.Service
	execLogRepo *repository.ExecutionLogRepository
	js          nats.JetStreamContext
	recentStore *RecentRunStore
}

func NewService(strategies *strategy.Service, execLogRepo *repository.ExecutionLogRepository, js nats.JetStreamContext, recentStore *RecentRunStore) *Service {
	return &Service{
		strategies:  strategies,
		execLogRepo: execLogRepo,
		js:          js,
		recentStore: recentStore,
	}
}

// Run executes one strategy invocation synchronously and records it.
func (s *Service) Run(ctx context.Context, req entity.StrategyRunRequest) *entity.StrategyResult {
	var result *entity.StrategyResult

	switch strings.ToLower(strings.TrimSpace(req.Strategy)) {
	case entity.StrategyMarket:
		result = s.strategies.MarketOrder(ctx, strategy.MarketOrderInput{
			Symbol:   req.Symbol,
			Side:     req.Side,
			Quantity: req.Quantity,
			Simulate: req.Simulate,
		})
	case entity.StrategyLimit:
		result = s.strategies.LimitOrder(ctx, strategy.LimitOrderInput{
			Symbol:   req.Symbol,
			Side:     req.Side,
			Quantity: req.Quantity,
			Price:    req.Price,
		})
	case entity.StrategyBracket:
		result = s.strategies.Bracket(ctx, strategy.BracketInput{
			Symbol:           req.Symbol,
			Side:             req.Side,
			Quantity:         req.Quantity,
			TakeProfitOffset: req.TakeProfitOffset,
			StopOffset:       req.StopOffset,
		})
	case entity.StrategyGrid:
		result = s.strategies.Grid(ctx, strategy.GridInput{
			Symbol:   req.Symbol,
			Side:     req.Side,
			Quantity: req.Quantity,
			Steps:    req.Steps,
			LowerPct: req.LowerPct,
			UpperPct: req.UpperPct,
		})
	case entity.StrategyTwap:
		result = s.strategies.Twap(ctx, strategy.TwapInput{
			Symbol:          req.Symbol,
			Side:            req.Side,
			Quantity:        req.Quantity,
			Chunks:          req.Chunks,
			IntervalSeconds: req.IntervalSeconds,
		})
	default:
		now := time.Now().UTC()
		result = &entity.StrategyResult{
			RequestID:  uuid.NewString(),
			Strategy:   req.Strategy,
			Outcome:    entity.OutcomeRejected,
			Reason:     ErrUnknownStrategy.Error() + ": " + req.Strategy,
			StartedAt:  now,
			FinishedAt: now,
		}
	}

	if strings.TrimSpace(req.RequestID) != "" {
		result.RequestID = req.RequestID
	}

	s.audit(ctx, result)

	return result
}

// RunAsync queues a strategy run on the jetstream work queue.
func (s *Service) RunAsync(ctx context.Context, req entity.StrategyRunRequest) (string, error) {
	if s.js == nil {
		return "", ErrJetstreamNotConfigured
	}

	if strings.TrimSpace(req.RequestID) == "" {
		req.RequestID = uuid.NewString()
	}

	err := util.PublishEvent(s.js, constant.StrategyRunStreamSubjectQueue, entity.StrategyRunEvent{
		RetryCount: 0,
		Data:       req,
	})
	if err != nil {
		logrus.Error(err)
		return "", ErrPublishRunEventFailed
	}

	return req.RequestID, nil
}

func (s *Service) JetstreamEventInit(ctx context.Context) error {
	streamConfig := &nats.StreamConfig{
		Name:      constant.StrategyRunStreamName,
		Subjects:  []string{constant.StrategyRunStreamSubjectAll},
		Retention: nats.LimitsPolicy,
		Storage:   nats.FileStorage,
		MaxAge:    24 * time.Hour,
	}

	stream, err := s.js.StreamInfo(constant.StrategyRunStreamName, nats.Context(ctx))
	if err != nil && !errors.Is(err, nats.ErrStreamNotFound) {
		logrus.Error(err)
		return err
	}

	if stream == nil {
		logrus.Infof("creating stream: %s", constant.StrategyRunStreamName)
		_, err = s.js.AddStream(streamConfig, nats.Context(ctx))
		return err
	}

	logrus.Infof("updating stream: %s", constant.StrategyRunStreamName)
	_, err = s.js.UpdateStream(streamConfig, nats.Context(ctx))
	if err != nil {
		logrus.Error(err)
		return err
	}

	return nil
}

func (s *Service) JetstreamEventSubscribe(ctx context.Context) error {
	err := s.JetstreamEventInit(ctx)
	if err != nil {
		logrus.Error(err)
		return err
	}

	_, err = s.js.QueueSubscribe(
		constant.StrategyRunStreamSubjectQueue,
		constant.StrategyRunQueueName,
		func(msg *nats.Msg) {
			err := util.ProcessWithTimeout(s.runTimeout(), msg, s.handleStrategyRunEvent)
			if err != nil {
				logrus.Errorf("error processing message: %v", err)
				return
			}

			err = msg.Ack()
			if err != nil {
				logrus.Errorf("failed to acknowledge message: %v", err)
				return
			}
		},
		nats.ManualAck(),
		nats.Durable(constant.StrategyRunQueueGroup),
	)
	if err != nil {
		return err
	}

	return nil
}

func (s *Service) runTimeout() time.Duration {
	if config.Env != nil {
		if timeout, ok := config.Env.NatsJetstream.TimeoutHandler["run_strategy"]; ok && timeout > 0 {
			return timeout
		}
	}

	// Grid and TWAP runs block on pacing between children, so the worker
	// budget has to cover the whole sequence.
	return 10 * time.Minute
}

func (s *Service) handleStrategyRunEvent(ctx context.Context, msg *nats.Msg) error {
	logger := logrus.WithFields(logrus.Fields{
		"req": string(msg.Data),
	})

	var event *entity.StrategyRunEvent
	err := json.Unmarshal(msg.Data, &event)
	if err != nil {
		logger.Error(err)
		return err
	}

	result := s.Run(ctx, event.Data)

	logger.WithFields(logrus.Fields{
		"request_id": result.RequestID,
		"strategy":   result.Strategy,
		"outcome":    result.Outcome,
	}).Info("queued strategy run completed")

	return nil
}

// audit records a completed run on every configured sink. Audit failures are
// logged and swallowed: the exchange already has the orders, losing a log row
// must not turn an executed run into a failed one.
func (s *Service) audit(ctx context.Context, result *entity.StrategyResult) {
	infrastructure.ObserveStrategyRun(result)

	if s.execLogRepo != nil {
		if err := s.execLogRepo.Create(ctx, mapResultToExecutionLog(result)); err != nil {
			logrus.WithError(err).WithField("request_id", result.RequestID).Error("failed to persist execution log")
		}
	}

	if s.js != nil {
		err := util.PublishEvent(s.js, constant.StrategyRunStreamSubjectDone, entity.StrategyRunCompletedEvent{Data: *result})
		if err != nil {
			logrus.WithError(err).WithField("request_id", result.RequestID).Error("failed to publish completed run event")
		}
	}

	if s.recentStore != nil {
		if err := s.recentStore.Push(ctx, result); err != nil {
			logrus.WithError(err).WithField("request_id", result.RequestID).Error("failed to cache recent run")
		}
	}
}

func mapResultToExecutionLog(result *entity.StrategyResult) *entity.ExecutionLog {
	now := time.Now().UTC()

	reason := sql.NullString{String: result.Reason, Valid: result.Reason != ""}

	response := sql.NullString{}
	if len(result.Response) > 0 {
		response = sql.NullString{String: string(result.Response), Valid: true}
	} else if len(result.Orders) > 0 {
		if payload, err := json.Marshal(result.Orders); err == nil {
			response = sql.NullString{String: string(payload), Valid: true}
		}
	}

	return &entity.ExecutionLog{
		RequestID:       result.RequestID,
		Strategy:        result.Strategy,
		Symbol:          result.Symbol,
		Side:            result.Side,
		Quantity:        result.Quantity,
		TakeProfitPrice: result.TakeProfitPrice,
		StopPrice:       result.StopPrice,
		Outcome:         string(result.Outcome),
		Reason:          reason,
		Submitted:       result.Submitted,
		Succeeded:       result.Succeeded,
		Response:        response,
		StartedAt:       result.StartedAt,
		FinishedAt:      result.FinishedAt,
		CreatedAt:       now,
	}
}

// RecentRuns serves the status endpoint; it degrades to an empty view when
// the cache is not configured.
func (s *Service) RecentRuns(ctx context.Context) []entity.StrategyResult {
	if s.recentStore == nil {
		return []entity.StrategyResult{}
	}

	results, err := s.recentStore.Recent(ctx)
	if err != nil {
		logrus.WithError(err).Error("failed to read recent runs")
		return []entity.StrategyResult{}
	}

	return results
}

// LatestPrices reads the price-feed snapshot for the watched symbols.
func (s *Service) LatestPrices(ctx context.Context, symbols []string) map[string]string {
	prices := make(map[string]string, len(symbols))
	if s.recentStore == nil {
		return prices
	}

	for _, symbol := range symbols {
		price, found, err := s.recentStore.LatestPrice(ctx, symbol)
		if err != nil {
			logrus.WithError(err).WithField("symbol", symbol).Error("failed to read latest price")
			continue
		}
		if found {
			prices[strings.ToUpper(symbol)] = price
		}
	}

	return prices
}
