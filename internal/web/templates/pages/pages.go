package pages

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"io"
	"strconv"

	"github.com/a-h/templ"

	"github.com/mcoot/puzzleboard/internal/games"
	"github.com/mcoot/puzzleboard/internal/model"
	"github.com/mcoot/puzzleboard/internal/web/templates/layout"
)

//go:embed html/*.html
var files embed.FS

var views = template.Must(template.New("").Funcs(template.FuncMap{
	"points":        formatPoints,
	"value":         games.FormatValue,
	"average":       games.FormatAverage,
	"duration":      games.FormatDuration,
	"averageTime":   formatAverageTime,
	"ceo":           formatCEO,
	"scopeQuery":    scopeQuery,
	"isSelectedDay": isSelectedDay,
}).ParseFS(files, "html/*.html"))

// DashboardData is everything the dashboard shows
type DashboardData struct {
	layout.PageData
	Report            *model.Report
	Days              []model.Day
	Imports           []*model.Import
	UploadKeyRequired bool
}

// ErrorData describes a failed page
type ErrorData struct {
	layout.PageData
	Status  int
	Message string
}

// Dashboard renders the leaderboard page
func Dashboard(data DashboardData) templ.Component {
	return render("dashboard", data)
}

// Error renders an error page
func Error(data ErrorData) templ.Component {
	return render("error", data)
}

func render(name string, data any) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		return views.ExecuteTemplate(w, name, data)
	})
}

func formatPoints(p model.Points) string {
	return strconv.FormatFloat(float64(p), 'f', -1, 64)
}

func formatAverageTime(seconds float64) string {
	return games.FormatAverage(model.MetricTime, seconds)
}

func formatCEO(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.0f%%", *v)
}

func scopeQuery(s model.Scope) string {
	if s.IsAllTime() {
		return ""
	}
	return "?day=" + string(s.Day)
}

func isSelectedDay(s model.Scope, d model.Day) bool {
	return s.Day == d
}
