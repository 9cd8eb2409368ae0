// Package postgres stores score records in PostgreSQL via pgx.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mcoot/puzzleboard/internal/model"
	"github.com/mcoot/puzzleboard/internal/storage"
)

// Storage is a Postgres-backed implementation of the storage interface
type Storage struct {
	pool *pgxpool.Pool
}

// New connects to Postgres and ensures the schema exists
func New(ctx context.Context, cfg Config) (*Storage, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = cfg.MinConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	s := &Storage{pool: pool}
	if err := s.Migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

// Migrate creates the tables if they do not exist
func (s *Storage) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}
	return nil
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Record operations

func (s *Storage) SaveRecords(ctx context.Context, records []model.ScoreRecord) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	ordered := storage.Earliest(records)
	batch := &pgx.Batch{}
	for _, r := range ordered {
		var ceo *int32
		if r.CEOPercent != nil {
			v := int32(*r.CEOPercent)
			ceo = &v
		}
		batch.Queue(insertRecordSQL,
			r.Day.Time(), string(r.Game), string(r.Player),
			r.GameNumber, r.Value, string(r.Metric), ceo, r.PostedAt)
	}

	results := s.pool.SendBatch(ctx, batch)
	stored := 0
	for range ordered {
		tag, err := results.Exec()
		if err != nil {
			_ = results.Close()
			return 0, fmt.Errorf("insert record: %w", err)
		}
		stored += int(tag.RowsAffected())
	}
	if err := results.Close(); err != nil {
		return 0, err
	}
	return stored, nil
}

func (s *Storage) ListRecords(ctx context.Context, filter model.RecordFilter) ([]model.ScoreRecord, error) {
	var day, game any
	if filter.Day != "" {
		day = filter.Day.Time()
	}
	if filter.Game != "" {
		game = string(filter.Game)
	}

	rows, err := s.pool.Query(ctx, selectRecordsSQL, day, game)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []model.ScoreRecord{}
	for rows.Next() {
		var (
			r        model.ScoreRecord
			recDay   time.Time
			recGame  string
			player   string
			metric   string
			ceo      *int32
			postedAt time.Time
		)
		if err := rows.Scan(&recDay, &recGame, &player, &r.GameNumber, &r.Value, &metric, &ceo, &postedAt); err != nil {
			return nil, err
		}
		r.Day = model.DayOf(recDay.UTC())
		r.Game = model.GameName(recGame)
		r.Player = model.PlayerName(player)
		r.Metric = model.Metric(metric)
		r.PostedAt = postedAt.UTC()
		if ceo != nil {
			v := int(*ceo)
			r.CEOPercent = &v
		}
		result = append(result, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	storage.SortRecords(result)
	return result, nil
}

func (s *Storage) ListDays(ctx context.Context) ([]model.Day, error) {
	rows, err := s.pool.Query(ctx, selectDaysSQL)
	if err != nil {
		return nil, err
	}
	days, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.Day, error) {
		var t time.Time
		err := row.Scan(&t)
		return model.DayOf(t.UTC()), err
	})
	if err != nil {
		return nil, err
	}
	if days == nil {
		days = []model.Day{}
	}
	return days, nil
}

// Import operations

func (s *Storage) SaveImport(ctx context.Context, imp *model.Import) error {
	_, err := s.pool.Exec(ctx, insertImportSQL,
		string(imp.ID), imp.Source, imp.LinesScanned,
		imp.RecordsExtracted, imp.RecordsStored, imp.CreatedAt)
	return err
}

func (s *Storage) GetImport(ctx context.Context, id model.ImportID) (*model.Import, error) {
	imp, err := scanImport(s.pool.QueryRow(ctx, selectImportSQL, string(id)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrImportNotFound
		}
		return nil, err
	}
	return imp, nil
}

func (s *Storage) ListImports(ctx context.Context, limit int) ([]*model.Import, error) {
	if limit <= 0 {
		limit = math.MaxInt32
	}
	rows, err := s.pool.Query(ctx, selectImportsSQL, limit)
	if err != nil {
		return nil, err
	}
	imports, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*model.Import, error) {
		return scanImport(row)
	})
	if err != nil {
		return nil, err
	}
	if imports == nil {
		imports = []*model.Import{}
	}
	return imports, nil
}

func scanImport(row pgx.Row) (*model.Import, error) {
	var (
		imp model.Import
		id  string
	)
	if err := row.Scan(&id, &imp.Source, &imp.LinesScanned, &imp.RecordsExtracted, &imp.RecordsStored, &imp.CreatedAt); err != nil {
		return nil, err
	}
	imp.ID = model.ImportID(id)
	imp.CreatedAt = imp.CreatedAt.UTC()
	return &imp, nil
}

// Lifecycle

func (s *Storage) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close releases the connection pool
func (s *Storage) Close() error {
	s.pool.Close()
	return nil
}

// Truncate removes all rows. Intended for tests against a shared database.
func (s *Storage) Truncate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `truncate score_records, imports`)
	return err
}
