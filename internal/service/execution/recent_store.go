package execution

import (
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"github.com/krobus00/trade-exec-service/internal/constant"
	"github.com/krobus00/trade-exec-service/internal/entity"
	"github.com/redis/go-redis/v9"
)

const recentRunsLimit = 20

// RecentRunStore keeps a capped list of the latest strategy run summaries
// plus the latest observed prices for the status endpoint. The strategies
// themselves never read from it; losing redis loses nothing but the quick
// status view.
type RecentRunStore struct {
	client *redis.Client
}

func NewRecentRunStore(cacheDSN string) (*RecentRunStore, error) {
	if cacheDSN == "" {
		return nil, fmt.Errorf("redis cache_dsn is required")
	}

	options, err := redis.ParseURL(cacheDSN)
	if err != nil {
		return nil, fmt.Errorf("parse redis cache_dsn: %w", err)
	}

	return &RecentRunStore{client: redis.NewClient(options)}, nil
}

func (s *RecentRunStore) Push(ctx context.Context, result *entity.StrategyResult) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.LPush(ctx, constant.RecentRunsKey, payload)
	pipe.LTrim(ctx, constant.RecentRunsKey, 0, recentRunsLimit-1)
	_, err = pipe.Exec(ctx)

	return err
}

func (s *RecentRunStore) Recent(ctx context.Context) ([]entity.StrategyResult, error) {
	rawRuns, err := s.client.LRange(ctx, constant.RecentRunsKey, 0, recentRunsLimit-1).Result()
	if err != nil {
		return nil, err
	}

	results := make([]entity.StrategyResult, 0, len(rawRuns))
	for _, rawRun := range rawRuns {
		var result entity.StrategyResult
		if err := json.Unmarshal([]byte(rawRun), &result); err != nil {
			continue
		}
		results = append(results, result)
	}

	return results, nil
}

func (s *RecentRunStore) SetLatestPrice(ctx context.Context, symbol string, price string) error {
	key := fmt.Sprintf(constant.LatestPriceKeyFmt, strings.ToUpper(symbol))
	return s.client.Set(ctx, key, price, 0).Err()
}

func (s *RecentRunStore) LatestPrice(ctx context.Context, symbol string) (string, bool, error) {
	key := fmt.Sprintf(constant.LatestPriceKeyFmt, strings.ToUpper(symbol))
	price, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return "", false, nil
		}
		return "", false, err
	}

	return price, true, nil
}

func (s *RecentRunStore) Close() error {
	return s.client.Close()
}
