package factory

import (
	"context"
	"strings"
	"time"

	"github.com/mcoot/puzzleboard/internal/config"
	"github.com/mcoot/puzzleboard/internal/dependencies/mocks"
	"github.com/mcoot/puzzleboard/internal/storage/memory"
	"github.com/mcoot/puzzleboard/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock *mocks.MockClock
	MockIDs   *mocks.MockIDs
}

// NewTestApp creates an App configured for testing with mocked dependencies.
// The clock starts at 2025-03-14 12:00 UTC.
func NewTestApp() *TestApp {
	return NewTestAppWithConfig(config.Default())
}

// NewTestAppWithConfig is NewTestApp with a custom configuration
func NewTestAppWithConfig(cfg config.Config) *TestApp {
	mockClock := mocks.NewMockClock(time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC))
	mockIDs := mocks.NewMockIDs()

	app, err := newWithDependencies(cfg, memory.New(), mockClock, mockIDs, testutil.NopLogger())
	if err != nil {
		panic(err)
	}

	return &TestApp{
		App:       app,
		MockClock: mockClock,
		MockIDs:   mockIDs,
	}
}

// LoadChat imports chat lines into the app's storage
func (t *TestApp) LoadChat(lines ...string) error {
	_, err := t.IngestService.Import(context.Background(), "test.txt", strings.NewReader(strings.Join(lines, "\n")))
	return err
}

// SampleChat is a small two-day chat used across handler tests.
// Alice wins Zip both days; Bob wins Queens and Pinpoint.
var SampleChat = []string{
	"[12/03/2025 08:01:10] Alice: Zip #10 | 0:21 🏁",
	"With 1 backtrack 🛑",
	"I'm in the Top 3% of CEOs",
	"[12/03/2025 08:05:00] Bob: Zip #10 | 0:35",
	"[12/03/2025 08:07:30] Bob: Queens #300 | 1:10 👑",
	"[12/03/2025 08:09:00] Carol: Queens #300 | 1:40",
	"[12/03/2025 09:00:00] Carol: who else is stuck on today's Tango?",
	"[13/03/2025 07:55:00] Alice: Zip #11 | 0:18",
	"[13/03/2025 08:30:00] Carol: Zip #11 | 0:30",
	"[13/03/2025 08:40:00] Bob: Pinpoint #200 | 2 guesses",
}
