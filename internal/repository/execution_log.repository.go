package repository

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/krobus00/trade-exec-service/internal/entity"
)

type ExecutionLogRepository struct {
	db *sqlx.DB
}

func NewExecutionLogRepository(db *sqlx.DB) *ExecutionLogRepository {
	return &ExecutionLogRepository{db: db}
}

func (r *ExecutionLogRepository) Create(ctx context.Context, executionLog *entity.ExecutionLog) error {
	queryBuilder := sq.StatementBuilder.
		PlaceholderFormat(sq.Dollar).
		Insert(executionLog.TableName()).
		Columns(
			"request_id",
			"strategy",
			"symbol",
			"side",
			"quantity",
			"take_profit_price",
			"stop_price",
			"outcome",
			"reason",
			"submitted",
			"succeeded",
			"response",
			"started_at",
			"finished_at",
			"created_at",
		).
		Values(
			executionLog.RequestID,
			executionLog.Strategy,
			executionLog.Symbol,
			executionLog.Side,
			executionLog.Quantity,
			executionLog.TakeProfitPrice,
			executionLog.StopPrice,
			executionLog.Outcome,
			executionLog.Reason,
			executionLog.Submitted,
			executionLog.Succeeded,
			executionLog.Response,
			executionLog.StartedAt,
			executionLog.FinishedAt,
			executionLog.CreatedAt,
		).
		Suffix("RETURNING id")

	query, args, err := queryBuilder.ToSql()
	if err != nil {
		return err
	}

	var id string
	err = r.db.QueryRowContext(ctx, query, args...).Scan(&id)
	if err != nil {
		return err
	}

	executionLog.ID = id

	return nil
}

func (r *ExecutionLogRepository) GetByRequestID(ctx context.Context, requestID string) (*entity.ExecutionLog, error) {
	var executionLog entity.ExecutionLog
	err := r.db.GetContext(ctx, &executionLog, "SELECT * FROM execution_logs WHERE request_id = $1", requestID)
	if err != nil {
		return nil, err
	}
	return &executionLog, nil
}

func (r *ExecutionLogRepository) GetRecent(ctx context.Context, limit uint64) ([]entity.ExecutionLog, error) {
	if limit == 0 {
		limit = 20
	}

	queryBuilder := sq.StatementBuilder.
		PlaceholderFormat(sq.Dollar).
		Select("*").
		From("execution_logs").
		OrderBy("created_at desc").
		Limit(limit)

	query, args, err := queryBuilder.ToSql()
	if err != nil {
		return nil, err
	}

	var executionLogs []entity.ExecutionLog
	err = r.db.SelectContext(ctx, &executionLogs, query, args...)
	if err != nil {
		return nil, err
	}

	return executionLogs, nil
}

func (r *ExecutionLogRepository) GetByOutcome(ctx context.Context, outcomes []string) ([]entity.ExecutionLog, error) {
	if len(outcomes) == 0 {
		return []entity.ExecutionLog{}, nil
	}

	queryBuilder := sq.StatementBuilder.
		PlaceholderFormat(sq.Dollar).
		Select("*").
		From("execution_logs").
		Where(sq.Eq{"outcome": outcomes}).
		OrderBy("created_at desc")

	query, args, err := queryBuilder.ToSql()
	if err != nil {
		return nil, err
	}

	var executionLogs []entity.ExecutionLog
	err = r.db.SelectContext(ctx, &executionLogs, query, args...)
	if err != nil {
		return nil, err
	}

	return executionLogs, nil
}
