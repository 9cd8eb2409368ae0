package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/puzzleboard/internal/model"
	"github.com/mcoot/puzzleboard/internal/storage"
	"github.com/mcoot/puzzleboard/internal/storage/storagetest"
)

func TestStorageSuite(t *testing.T) {
	suite.Run(t, &storagetest.Suite{
		NewStorage: func(t *testing.T) storage.Storage { return New() },
	})
}

func TestConcurrentSaves(t *testing.T) {
	s := New()
	ctx := context.Background()
	base := time.Date(2025, 3, 12, 8, 0, 0, 0, time.UTC)

	var wg sync.WaitGroup
	stored := make([]int, 8)
	for i := range stored {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			n, err := s.SaveRecords(ctx, []model.ScoreRecord{{
				Day:      "2025-03-12",
				Player:   "Alice",
				Game:     "Zip",
				Value:    10 + i,
				PostedAt: base.Add(time.Duration(i) * time.Second),
			}})
			if err != nil {
				t.Error(err)
			}
			stored[i] = n
		}(i)
	}
	wg.Wait()

	total := 0
	for _, n := range stored {
		total += n
	}
	if total != 1 {
		t.Fatalf("expected exactly one stored record, got %d", total)
	}
	records, _ := s.ListRecords(ctx, model.RecordFilter{})
	if len(records) != 1 {
		t.Fatalf("expected one record, got %d", len(records))
	}
}
