package export

import (
	"bytes"
	"fmt"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/mcoot/puzzleboard/internal/model"
)

// MaxChartPlayers caps the bars drawn by LeaderboardChart
const MaxChartPlayers = 12

const (
	barWidth   = 48
	barSpacing = 16
)

var (
	barColor    = drawing.ColorFromHex("2f6f4f")
	leaderColor = drawing.ColorFromHex("c9a227")
	textColor   = drawing.ColorFromHex("1f2933")
)

// LeaderboardChart renders the top of a leaderboard as a PNG bar chart.
// It returns model.ErrNoRecords when nobody has scored.
func LeaderboardChart(title string, entries []model.LeaderboardEntry) ([]byte, error) {
	if len(entries) > MaxChartPlayers {
		entries = entries[:MaxChartPlayers]
	}

	var top float64
	bars := make([]chart.Value, 0, len(entries))
	for _, e := range entries {
		points := float64(e.Points)
		if points > top {
			top = points
		}
		fill := barColor
		if e.Rank == 1 {
			fill = leaderColor
		}
		bars = append(bars, chart.Value{
			Label: fmt.Sprintf("%s (%g)", e.Player, points),
			Value: points,
			Style: chart.Style{
				FillColor:   fill,
				StrokeColor: fill,
			},
		})
	}
	if top <= 0 {
		return nil, model.ErrNoRecords
	}

	graph := chart.BarChart{
		Title:      title,
		TitleStyle: chart.Style{FontColor: textColor},
		Width:      160 + len(bars)*(barWidth+barSpacing),
		Height:     420,
		BarWidth:   barWidth,
		BarSpacing: barSpacing,
		Background: chart.Style{
			Padding: chart.Box{Top: 48, Left: 16, Right: 16, Bottom: 16},
		},
		XAxis: chart.Style{FontColor: textColor},
		YAxis: chart.YAxis{
			Style: chart.Style{FontColor: textColor},
			Range: &chart.ContinuousRange{Min: 0, Max: top},
		},
		Bars: bars,
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}
