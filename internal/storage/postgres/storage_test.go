package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/mcoot/puzzleboard/internal/model"
	"github.com/mcoot/puzzleboard/internal/storage"
	"github.com/mcoot/puzzleboard/internal/storage/storagetest"
)

// startPostgres runs a throwaway Postgres container and returns its DSN
func startPostgres(t *testing.T) string {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping postgres container in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	ctr, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("puzzleboard"),
		tcpostgres.WithUsername("puzzleboard"),
		tcpostgres.WithPassword("puzzleboard"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = testcontainers.TerminateContainer(ctr)
	})

	dsn, err := ctr.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	return dsn
}

func TestStorageContract(t *testing.T) {
	dsn := startPostgres(t)

	suite.Run(t, &storagetest.Suite{
		NewStorage: func(t *testing.T) storage.Storage {
			ctx := context.Background()
			store, err := New(ctx, Config{DSN: dsn, MaxConns: 4})
			require.NoError(t, err)
			require.NoError(t, store.Truncate(ctx))
			return store
		},
	})
}

func TestMigrateIsIdempotent(t *testing.T) {
	dsn := startPostgres(t)
	ctx := context.Background()

	store, err := New(ctx, Config{DSN: dsn})
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Migrate(ctx))

	stored, err := store.SaveRecords(ctx, []model.ScoreRecord{{
		Day:      "2025-03-12",
		Player:   "Alice",
		Game:     "Zip",
		Value:    30,
		Metric:   model.MetricTime,
		PostedAt: time.Date(2025, 3, 12, 9, 0, 0, 0, time.UTC),
	}})
	require.NoError(t, err)
	require.Equal(t, 1, stored)
}

func TestNewRejectsBadDSN(t *testing.T) {
	_, err := New(context.Background(), Config{DSN: "://bad"})
	require.Error(t, err)
}
