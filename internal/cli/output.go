package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/mcoot/puzzleboard/internal/api/response"
	"github.com/mcoot/puzzleboard/internal/services/extractor"
)

// Output handles formatting output based on the configured format
type Output struct {
	w      io.Writer
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(w io.Writer, format string) *Output {
	return &Output{w: w, format: format}
}

// ParseResult is what the parse command prints
type ParseResult struct {
	Records []response.Record `json:"records"`
	Stats   extractor.Stats   `json:"stats"`
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		o.printJSON(map[string]string{"message": msg})
	} else {
		fmt.Fprintln(o.w, msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case response.Report:
		o.printReport(v)
	case ParseResult:
		o.printParseResult(v)
	case response.ImportResult:
		o.printImportResult(v)
	case response.Health:
		fmt.Fprintf(o.w, "Status: %s\nStorage: %s\n", v.Status, v.Storage)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

func (o *Output) table() *tabwriter.Writer {
	return tabwriter.NewWriter(o.w, 0, 0, 2, ' ', 0)
}

func points(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64)
}

func (o *Output) printReport(r response.Report) {
	title := "all time"
	if r.Scope != "all" {
		title = r.Scope
	}
	fmt.Fprintf(o.w, "Leaderboard (%s)\n", title)
	if len(r.Leaderboard) == 0 {
		fmt.Fprintln(o.w, "No results.")
		return
	}

	tw := o.table()
	fmt.Fprintln(tw, "RANK\tPLAYER\tPOINTS\tWINS\tGAMES")
	for _, e := range r.Leaderboard {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%d\n", e.Rank, e.Player, points(e.Points), e.Wins, e.GamesPlayed)
	}
	_ = tw.Flush()

	for _, g := range r.Games {
		fmt.Fprintf(o.w, "\n%s\n", g.Game)
		tw = o.table()
		fmt.Fprintln(tw, "PLAYER\tPOINTS\tWINS\tPLAYS\tAVERAGE\tBEST\tCEO")
		for _, s := range g.Standings {
			ceo := "-"
			if s.AverageCEO != nil {
				ceo = fmt.Sprintf("%.0f%%", *s.AverageCEO)
			}
			fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\t%s\t%s\n", s.Player, points(s.Points), s.Wins, s.Plays, s.Average, s.Best, ceo)
		}
		_ = tw.Flush()
	}

	if len(r.TimeSummary) > 0 {
		fmt.Fprintln(o.w, "\nTime played")
		tw = o.table()
		fmt.Fprintln(tw, "PLAYER\tTOTAL\tGAMES")
		for _, t := range r.TimeSummary {
			fmt.Fprintf(tw, "%s\t%s\t%d\n", t.Player, t.Total, t.GamesPlayed)
		}
		_ = tw.Flush()
	}

	if len(r.Placements) > 0 {
		fmt.Fprintln(o.w, "\nPlacements")
		tw = o.table()
		fmt.Fprintln(tw, "DAY\tGAME\tPOS\tPLAYER\tPOINTS")
		for _, p := range r.Placements {
			fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n", p.Day, p.Game, p.Position, p.Player, points(p.Points))
		}
		_ = tw.Flush()
	}
}

func (o *Output) printParseResult(p ParseResult) {
	tw := o.table()
	fmt.Fprintln(tw, "DAY\tPLAYER\tGAME\tNUMBER\tRESULT\tCEO")
	for _, r := range p.Records {
		ceo := "-"
		if r.CEOPercent != nil {
			ceo = strconv.Itoa(*r.CEOPercent) + "%"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%s\n", r.Day, r.Player, r.Game, r.GameNumber, r.Display, ceo)
	}
	_ = tw.Flush()

	s := p.Stats
	fmt.Fprintf(o.w, "\n%d results from %d messages (%d lines, %d skipped, %d excluded)\n",
		s.Records, s.Messages, s.LinesScanned, s.Skipped, s.Excluded)
}

func (o *Output) printImportResult(r response.ImportResult) {
	fmt.Fprintf(o.w, "Import: %s\n", r.Import.ID)
	fmt.Fprintf(o.w, "Source: %s\n", r.Import.Source)
	fmt.Fprintf(o.w, "Lines scanned: %d\n", r.Import.LinesScanned)
	fmt.Fprintf(o.w, "Results found: %d\n", r.Import.RecordsExtracted)
	fmt.Fprintf(o.w, "New results stored: %d\n", r.Import.RecordsStored)
}
