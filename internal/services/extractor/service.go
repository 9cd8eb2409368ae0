// Package extractor turns a chat export into score records.
package extractor

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/mcoot/puzzleboard/internal/games"
	"github.com/mcoot/puzzleboard/internal/model"
)

const maxLineSize = 1 << 20

// Options configures how chat lines are read
type Options struct {
	DateOrder      DateOrder
	Location       *time.Location
	ExcludeSenders []model.PlayerName
}

// Stats counts what happened to the input
type Stats struct {
	LinesScanned int `json:"lines_scanned"`
	Messages     int `json:"messages"`
	Records      int `json:"records"`
	Skipped      int `json:"skipped"`
	Excluded     int `json:"excluded"`
}

// Result is the output of one extraction run
type Result struct {
	Records []model.ScoreRecord
	Stats   Stats
}

// ServiceInterface defines the extractor operations
type ServiceInterface interface {
	Extract(r io.Reader) (*Result, error)
	ExtractFile(path string) (*Result, error)
	Messages(r io.Reader) ([]model.ChatLine, Stats, error)
}

// Service extracts score records from chat lines
type Service struct {
	catalogue *games.Catalogue
	opts      Options
	excluded  map[model.PlayerName]struct{}
	logger    *slog.Logger
}

var _ ServiceInterface = (*Service)(nil)

// New creates a new extractor
func New(catalogue *games.Catalogue, opts Options, logger *slog.Logger) *Service {
	if opts.DateOrder == "" {
		opts.DateOrder = DayMonthYear
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	excluded := make(map[model.PlayerName]struct{}, len(opts.ExcludeSenders))
	for _, sender := range opts.ExcludeSenders {
		excluded[model.PlayerName(strings.TrimSpace(string(sender)))] = struct{}{}
	}
	return &Service{
		catalogue: catalogue,
		opts:      opts,
		excluded:  excluded,
		logger:    logger,
	}
}

// ExtractFile opens path and extracts its records
func (s *Service) ExtractFile(path string) (*Result, error) {
	if strings.TrimSpace(path) == "" {
		return nil, model.ErrEmptyInput
	}
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", model.ErrInputNotFound, path)
		}
		return nil, fmt.Errorf("open input: %w", err)
	}
	defer f.Close()
	return s.Extract(f)
}

// Extract reads a whole chat export and returns the recognised records,
// ordered by day and then by position in the chat.
func (s *Service) Extract(r io.Reader) (*Result, error) {
	messages, stats, err := s.Messages(r)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Records: []model.ScoreRecord{},
		Stats:   stats,
	}

	for _, msg := range messages {
		if _, ok := s.excluded[msg.Sender]; ok {
			result.Stats.Excluded++
			continue
		}
		rec, ok := s.recordFrom(msg)
		if !ok {
			result.Stats.Skipped++
			continue
		}
		result.Records = append(result.Records, rec)
	}

	slices.SortStableFunc(result.Records, func(a, b model.ScoreRecord) int {
		return strings.Compare(string(a.Day), string(b.Day))
	})
	result.Stats.Records = len(result.Records)

	s.logger.Debug("chat extracted",
		slog.Int("lines", result.Stats.LinesScanned),
		slog.Int("messages", result.Stats.Messages),
		slog.Int("records", result.Stats.Records),
		slog.Int("skipped", result.Stats.Skipped),
		slog.Int("excluded", result.Stats.Excluded),
	)
	return result, nil
}

// Messages groups raw lines into messages. Lines without a header are
// appended to the previous message; lines before the first header and
// system notices without a sender are dropped. A line longer than
// maxLineSize is counted as skipped and ends the current message, so the
// lines following it are dropped until the next header.
func (s *Service) Messages(r io.Reader) ([]model.ChatLine, Stats, error) {
	reader := bufio.NewReaderSize(r, 64*1024)

	var (
		messages []model.ChatLine
		current  *model.ChatLine
		body     strings.Builder
		stats    Stats
	)
	flush := func() {
		if current != nil {
			current.Body = body.String()
			messages = append(messages, *current)
		}
		current = nil
		body.Reset()
	}

	for {
		raw, tooLong, err := readLine(reader)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, stats, fmt.Errorf("read chat: %w", err)
		}
		stats.LinesScanned++

		if tooLong {
			s.logger.Debug("oversized line skipped", slog.Int("line", stats.LinesScanned))
			stats.Skipped++
			flush()
			continue
		}

		line := cleanLine(raw)
		h, ok := parseHeader(line, s.opts.DateOrder, s.opts.Location)
		if !ok {
			if current != nil {
				body.WriteByte('\n')
				body.WriteString(line)
			} else if strings.TrimSpace(line) != "" {
				s.logger.Debug("line outside a message", slog.Int("line", stats.LinesScanned))
			}
			continue
		}

		flush()
		sender, text, ok := splitSender(h.rest)
		if !ok {
			s.logger.Debug("system message skipped", slog.Int("line", stats.LinesScanned))
			continue
		}
		current = &model.ChatLine{
			Timestamp: h.timestamp,
			Sender:    sender,
		}
		body.WriteString(text)
	}
	flush()

	stats.Messages = len(messages)
	return messages, stats, nil
}

// readLine returns the next line without its terminator. A line longer than
// maxLineSize is consumed whole and reported with tooLong set.
func readLine(r *bufio.Reader) (string, bool, error) {
	var (
		buf     []byte
		read    bool
		tooLong bool
	)
	for {
		chunk, isPrefix, err := r.ReadLine()
		if err != nil {
			if errors.Is(err, io.EOF) && read {
				return string(buf), tooLong, nil
			}
			return "", false, err
		}
		read = true
		if !tooLong {
			if len(buf)+len(chunk) > maxLineSize {
				tooLong = true
				buf = nil
			} else {
				buf = append(buf, chunk...)
			}
		}
		if !isPrefix {
			return string(buf), tooLong, nil
		}
	}
}

func (s *Service) recordFrom(msg model.ChatLine) (model.ScoreRecord, bool) {
	res, ok := s.catalogue.Match(msg.Body)
	if !ok {
		return model.ScoreRecord{}, false
	}
	return model.ScoreRecord{
		Day:        model.DayOf(msg.Timestamp),
		Player:     msg.Sender,
		Game:       res.Game,
		GameNumber: res.Number,
		Value:      res.Value,
		Metric:     res.Metric,
		CEOPercent: findCEOPercent(msg.Body),
		PostedAt:   msg.Timestamp,
	}, true
}
