package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/mcoot/puzzleboard/internal/games"
	"github.com/mcoot/puzzleboard/internal/model"
	"github.com/mcoot/puzzleboard/internal/services/ranking"
)

func sampleReport(t *testing.T) *model.Report {
	t.Helper()
	base := time.Date(2025, 3, 12, 9, 0, 0, 0, time.UTC)
	ceo := 4
	records := []model.ScoreRecord{
		{Day: "2025-03-12", Player: "Alice", Game: "Zip", Value: 25, Metric: model.MetricTime, CEOPercent: &ceo, PostedAt: base},
		{Day: "2025-03-12", Player: "Bob", Game: "Zip", Value: 40, Metric: model.MetricTime, PostedAt: base.Add(time.Minute)},
		{Day: "2025-03-12", Player: "Bob", Game: "Pinpoint", Value: 2, Metric: model.MetricGuesses, PostedAt: base.Add(2 * time.Minute)},
	}
	return ranking.New(games.Default(), ranking.TieSplit).Report(records, model.AllTime)
}

func TestWriteWorkbook(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteWorkbook(&buf, sampleReport(t)))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetLeaderboard, "Zip", "Pinpoint", SheetWins, SheetTimes, SheetPlacements}, f.GetSheetList())

	rows, err := f.GetRows(SheetLeaderboard)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Rank", "Player", "Points", "Wins", "Games played"}, rows[0])
	assert.Equal(t, []string{"1", "Bob", "8", "1", "2"}, rows[1])
	assert.Equal(t, []string{"2", "Alice", "5", "1", "1"}, rows[2])

	zip, err := f.GetRows("Zip")
	require.NoError(t, err)
	require.Len(t, zip, 3)
	assert.Equal(t, []string{"Alice", "5", "1", "1", "0:25", "0:25", "4"}, zip[1])

	times, err := f.GetRows(SheetTimes)
	require.NoError(t, err)
	assert.Equal(t, []string{"Alice", "0:25", "1", "0:25"}, times[1])

	placements, err := f.GetRows(SheetPlacements)
	require.NoError(t, err)
	require.Len(t, placements, 4)
	assert.Equal(t, []string{"2025-03-12", "Pinpoint", "1", "Bob", "2 guesses", "5"}, placements[3])
}

func TestWriteWorkbookEmptyReport(t *testing.T) {
	var buf bytes.Buffer
	report := ranking.New(games.Default(), ranking.TieSplit).Report(nil, model.AllTime)
	require.NoError(t, WriteWorkbook(&buf, report))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{SheetLeaderboard, SheetWins, SheetTimes, SheetPlacements}, f.GetSheetList())
}

func TestLeaderboardChart(t *testing.T) {
	png, err := LeaderboardChart("All time", sampleReport(t).Leaderboard)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG")))
}

func TestLeaderboardChartWithoutPoints(t *testing.T) {
	_, err := LeaderboardChart("Empty", nil)
	assert.ErrorIs(t, err, model.ErrNoRecords)

	_, err = LeaderboardChart("Zero", []model.LeaderboardEntry{{Rank: 1, Player: "Alice"}})
	assert.ErrorIs(t, err, model.ErrNoRecords)
}

func TestSheetName(t *testing.T) {
	assert.Equal(t, "Mini Sudoku", sheetName("Mini Sudoku"))
	assert.Equal(t, "a b (c)", sheetName("a/b [c]"))
	assert.Len(t, sheetName("a very long game name that keeps going"), 31)
}
