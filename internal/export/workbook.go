// Package export renders reports as spreadsheets and charts.
package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/mcoot/puzzleboard/internal/games"
	"github.com/mcoot/puzzleboard/internal/model"
)

// Sheet names used by WriteWorkbook besides the per-game sheets
const (
	SheetLeaderboard = "Leaderboard"
	SheetWins        = "Wins"
	SheetTimes       = "Average time"
	SheetPlacements  = "Placements"
)

type sheet struct {
	name string
	rows [][]any
}

// WriteWorkbook writes the report as an XLSX workbook: the leaderboard, one
// sheet per game, the wins table, the time summary and every placement.
func WriteWorkbook(w io.Writer, report *model.Report) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(f.GetActiveSheetIndex()), SheetLeaderboard); err != nil {
		return err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	sheets := []sheet{{SheetLeaderboard, leaderboardRows(report)}}
	for _, g := range report.Games {
		sheets = append(sheets, sheet{sheetName(string(g.Game)), gameRows(g)})
	}
	sheets = append(sheets,
		sheet{SheetWins, winsRows(report)},
		sheet{SheetTimes, timeRows(report)},
		sheet{SheetPlacements, placementRows(report)},
	)

	for i, sh := range sheets {
		if i > 0 {
			if _, err := f.NewSheet(sh.name); err != nil {
				return fmt.Errorf("create sheet %q: %w", sh.name, err)
			}
		}
		if err := writeRows(f, sh.name, sh.rows, bold); err != nil {
			return fmt.Errorf("write sheet %q: %w", sh.name, err)
		}
	}

	return f.Write(w)
}

func writeRows(f *excelize.File, name string, rows [][]any, headerStyle int) error {
	for idx, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, idx+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(name, cell, &row); err != nil {
			return err
		}
	}
	if len(rows) > 0 && len(rows[0]) > 0 {
		last, err := excelize.ColumnNumberToName(len(rows[0]))
		if err != nil {
			return err
		}
		if err := f.SetColWidth(name, "A", last, 16); err != nil {
			return err
		}
		if err := f.SetRowStyle(name, 1, 1, headerStyle); err != nil {
			return err
		}
	}
	return nil
}

func leaderboardRows(report *model.Report) [][]any {
	rows := [][]any{{"Rank", "Player", "Points", "Wins", "Games played"}}
	for _, e := range report.Leaderboard {
		rows = append(rows, []any{e.Rank, string(e.Player), float64(e.Points), e.Wins, e.GamesPlayed})
	}
	return rows
}

func gameRows(g model.GameReport) [][]any {
	rows := [][]any{{"Player", "Points", "Wins", "Plays", "Average", "Best", "Average CEO %"}}
	for _, st := range g.Standings {
		var ceo any = ""
		if st.AverageCEO != nil {
			ceo = *st.AverageCEO
		}
		rows = append(rows, []any{
			string(st.Player),
			float64(st.Points),
			st.Wins,
			st.Plays,
			games.FormatAverage(g.Metric, st.AverageValue),
			games.FormatValue(g.Metric, st.BestValue),
			ceo,
		})
	}
	return rows
}

func winsRows(report *model.Report) [][]any {
	rows := [][]any{{"Player", "Times #1"}}
	for _, e := range report.Wins {
		rows = append(rows, []any{string(e.Player), e.Wins})
	}
	return rows
}

func timeRows(report *model.Report) [][]any {
	rows := [][]any{{"Player", "Total time", "Games played", "Average time"}}
	for _, e := range report.TimeSummary {
		rows = append(rows, []any{
			string(e.Player),
			games.FormatDuration(e.TotalSeconds),
			e.GamesPlayed,
			games.FormatAverage(model.MetricTime, e.AverageSeconds),
		})
	}
	return rows
}

func placementRows(report *model.Report) [][]any {
	metrics := make(map[model.GameName]model.Metric, len(report.Games))
	for _, g := range report.Games {
		metrics[g.Game] = g.Metric
	}

	rows := [][]any{{"Day", "Game", "Position", "Player", "Result", "Points"}}
	for _, p := range report.Placements {
		rows = append(rows, []any{
			string(p.Day),
			string(p.Game),
			p.Position,
			string(p.Player),
			games.FormatValue(metrics[p.Game], p.Value),
			float64(p.Points),
		})
	}
	return rows
}

var sheetNameCleaner = strings.NewReplacer(":", " ", "\\", " ", "/", " ", "?", " ", "*", " ", "[", "(", "]", ")")

// sheetName makes a game name usable as a worksheet name
func sheetName(name string) string {
	name = sheetNameCleaner.Replace(name)
	if len(name) > 31 {
		name = name[:31]
	}
	return name
}
