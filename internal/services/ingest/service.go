// Package ingest persists the records found in chat exports.
package ingest

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/mcoot/puzzleboard/internal/dependencies/clock"
	"github.com/mcoot/puzzleboard/internal/dependencies/ids"
	"github.com/mcoot/puzzleboard/internal/metrics"
	"github.com/mcoot/puzzleboard/internal/model"
	"github.com/mcoot/puzzleboard/internal/services/extractor"
	"github.com/mcoot/puzzleboard/internal/storage"
)

// ServiceInterface defines the ingest operations
type ServiceInterface interface {
	Import(ctx context.Context, source string, r io.Reader) (*Result, error)
	ImportFile(ctx context.Context, path string) (*Result, error)
}

// Result is a stored import and the records it extracted
type Result struct {
	Import  *model.Import
	Records []model.ScoreRecord
	Stats   extractor.Stats
}

// Service runs chat exports through the extractor into storage
type Service struct {
	extractor *extractor.Service
	storage   storage.Storage
	clock     clock.Clock
	ids       ids.Generator
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

var _ ServiceInterface = (*Service)(nil)

// New creates a new ingest service
func New(
	ext *extractor.Service,
	storage storage.Storage,
	clock clock.Clock,
	ids ids.Generator,
	metrics *metrics.Metrics,
	logger *slog.Logger,
) *Service {
	return &Service{
		extractor: ext,
		storage:   storage,
		clock:     clock,
		ids:       ids,
		metrics:   metrics,
		logger:    logger,
	}
}

// Import extracts records from r, stores the new ones and records the import
func (s *Service) Import(ctx context.Context, source string, r io.Reader) (*Result, error) {
	result, err := s.importReader(ctx, source, r)
	if err != nil {
		s.metrics.ObserveImportFailure()
		s.logger.Warn("import failed",
			slog.String("source", source),
			slog.String("error", err.Error()),
		)
		return nil, err
	}
	return result, nil
}

// ImportFile imports the chat export at path
func (s *Service) ImportFile(ctx context.Context, path string) (*Result, error) {
	if path == "" {
		return nil, model.ErrEmptyInput
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", model.ErrInputNotFound, path)
		}
		return nil, fmt.Errorf("open input: %w", err)
	}
	defer f.Close()
	return s.Import(ctx, filepath.Base(path), f)
}

func (s *Service) importReader(ctx context.Context, source string, r io.Reader) (*Result, error) {
	extracted, err := s.extractor.Extract(r)
	if err != nil {
		return nil, err
	}
	if extracted.Stats.LinesScanned == 0 {
		return nil, model.ErrEmptyInput
	}

	stored, err := s.storage.SaveRecords(ctx, extracted.Records)
	if err != nil {
		return nil, fmt.Errorf("save records: %w", err)
	}

	if source == "" {
		source = "upload"
	}
	imp := &model.Import{
		ID:               s.ids.NewImportID(),
		Source:           source,
		LinesScanned:     extracted.Stats.LinesScanned,
		RecordsExtracted: extracted.Stats.Records,
		RecordsStored:    stored,
		CreatedAt:        s.clock.Now(),
	}
	if err := s.storage.SaveImport(ctx, imp); err != nil {
		return nil, fmt.Errorf("save import: %w", err)
	}

	s.metrics.ObserveImport(imp, extracted.Records)
	s.logger.Info("chat imported",
		slog.String("import_id", string(imp.ID)),
		slog.String("source", imp.Source),
		slog.Int("lines", imp.LinesScanned),
		slog.Int("extracted", imp.RecordsExtracted),
		slog.Int("stored", imp.RecordsStored),
	)

	return &Result{
		Import:  imp,
		Records: extracted.Records,
		Stats:   extracted.Stats,
	}, nil
}
