package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/puzzleboard/internal/model"
	"github.com/mcoot/puzzleboard/internal/storage"
)

// Concurrent writers to the same records retry the transaction this often
const maxTxAttempts = 3

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Record operations

func (s *Storage) SaveRecords(ctx context.Context, records []model.ScoreRecord) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	candidates := storage.Earliest(records)
	keys := make([]string, len(candidates))
	for i, r := range candidates {
		keys[i] = recordKey(r.Key())
	}

	for attempt := 0; attempt < maxTxAttempts; attempt++ {
		stored := 0
		err := s.client.Watch(ctx, func(tx *redis.Tx) error {
			updates, err := laterPosted(ctx, tx, keys, candidates)
			if err != nil || len(updates) == 0 {
				return err
			}
			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				for _, r := range updates {
					data, err := json.Marshal(r)
					if err != nil {
						return err
					}
					key := recordKey(r.Key())
					pipe.Set(ctx, key, data, 0)
					pipe.SAdd(ctx, recordsIndexKey(), key)
					pipe.SAdd(ctx, dayIndexKey(r.Day), key)
					pipe.SAdd(ctx, daysKey(), string(r.Day))
				}
				return nil
			})
			if err == nil {
				stored = len(updates)
			}
			return err
		}, keys...)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return 0, err
		}
		return stored, nil
	}
	return 0, fmt.Errorf("save records: %w", redis.TxFailedErr)
}

// laterPosted returns the candidates that have no stored result yet or were
// posted before the stored one
func laterPosted(ctx context.Context, tx *redis.Tx, keys []string, candidates []model.ScoreRecord) ([]model.ScoreRecord, error) {
	current, err := tx.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}
	updates := make([]model.ScoreRecord, 0, len(candidates))
	for i, r := range candidates {
		if data, ok := current[i].(string); ok {
			var existing model.ScoreRecord
			if err := json.Unmarshal([]byte(data), &existing); err != nil {
				return nil, err
			}
			if !r.PostedAt.Before(existing.PostedAt) {
				continue
			}
		}
		updates = append(updates, r)
	}
	return updates, nil
}

func (s *Storage) ListRecords(ctx context.Context, filter model.RecordFilter) ([]model.ScoreRecord, error) {
	index := recordsIndexKey()
	if filter.Day != "" {
		index = dayIndexKey(filter.Day)
	}

	keys, err := s.client.SMembers(ctx, index).Result()
	if err != nil {
		return nil, err
	}
	result := []model.ScoreRecord{}
	if len(keys) == 0 {
		return result, nil
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}
	for _, v := range values {
		data, ok := v.(string)
		if !ok {
			continue
		}
		var r model.ScoreRecord
		if err := json.Unmarshal([]byte(data), &r); err != nil {
			return nil, err
		}
		if filter.Matches(r) {
			result = append(result, r)
		}
	}
	storage.SortRecords(result)
	return result, nil
}

func (s *Storage) ListDays(ctx context.Context) ([]model.Day, error) {
	members, err := s.client.SMembers(ctx, daysKey()).Result()
	if err != nil {
		return nil, err
	}
	days := make([]model.Day, len(members))
	for i, m := range members {
		days[i] = model.Day(m)
	}
	storage.SortDays(days)
	return days, nil
}

// Import operations

func (s *Storage) SaveImport(ctx context.Context, imp *model.Import) error {
	data, err := json.Marshal(imp)
	if err != nil {
		return err
	}

	// Use pipeline for atomic save + index update
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, importKey(imp.ID), data, s.cfg.ImportTTL)
	pipe.ZAdd(ctx, importsIndexKey(), redis.Z{
		Score:  float64(imp.CreatedAt.Unix()),
		Member: string(imp.ID),
	})
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetImport(ctx context.Context, id model.ImportID) (*model.Import, error) {
	data, err := s.client.Get(ctx, importKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrImportNotFound
		}
		return nil, err
	}

	var imp model.Import
	if err := json.Unmarshal(data, &imp); err != nil {
		return nil, err
	}
	return &imp, nil
}

func (s *Storage) ListImports(ctx context.Context, limit int) ([]*model.Import, error) {
	stop := int64(-1)
	if limit > 0 {
		stop = int64(limit - 1)
	}
	ids, err := s.client.ZRevRange(ctx, importsIndexKey(), 0, stop).Result()
	if err != nil {
		return nil, err
	}
	result := []*model.Import{}
	if len(ids) == 0 {
		return result, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = importKey(model.ImportID(id))
	}
	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	var expired []any
	for i, v := range values {
		data, ok := v.(string)
		if !ok {
			expired = append(expired, ids[i])
			continue
		}
		var imp model.Import
		if err := json.Unmarshal([]byte(data), &imp); err != nil {
			return nil, err
		}
		result = append(result, &imp)
	}
	if len(expired) > 0 {
		// Clean up index entries whose import has expired
		if err := s.client.ZRem(ctx, importsIndexKey(), expired...).Err(); err != nil {
			return nil, err
		}
	}
	storage.SortImports(result)
	return result, nil
}

// Lifecycle

func (s *Storage) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}
