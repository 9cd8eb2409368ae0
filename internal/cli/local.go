package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mcoot/puzzleboard/internal/api/response"
	"github.com/mcoot/puzzleboard/internal/config"
	"github.com/mcoot/puzzleboard/internal/export"
	"github.com/mcoot/puzzleboard/internal/factory"
	"github.com/mcoot/puzzleboard/internal/model"
)

func newRankCmd() *cobra.Command {
	var placements bool

	cmd := &cobra.Command{
		Use:   "rank",
		Short: "Print the leaderboard",
		Long: `Print the leaderboard for the whole history, or for one day with --day.

The chat export given with --input is parsed directly. Without --input the
records already imported into redis or postgres storage are ranked.`,
		Example: `  puzzleboard rank -i "WhatsApp Chat.txt"
  puzzleboard rank -i chat.txt --day 2025-03-12
  puzzleboard rank -i chat.txt --day yesterday -o json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			report, err := buildReport(cmd.Context(), app)
			if err != nil {
				return err
			}
			out.Print(response.ReportFromModel(report, placements))
			return nil
		},
	}

	cmd.Flags().String("day", "", "Day to rank: YYYY-MM-DD, today or yesterday (default all time)")
	cmd.Flags().BoolVar(&placements, "placements", false, "Include every per-game placement")
	return cmd
}

// buildReport ranks the configured input, falling back to stored records
// when no input is given and storage is persistent.
func buildReport(ctx context.Context, app *factory.App) (*model.Report, error) {
	scope, err := app.Dates.Parse(cfg.Day)
	if err != nil {
		return nil, err
	}

	if cfg.Input == "" {
		if cfg.Storage == config.StorageMemory {
			return nil, fmt.Errorf("%w: pass --input or use redis or postgres storage", model.ErrEmptyInput)
		}
		return app.LeaderboardService.Report(ctx, scope)
	}

	result, err := app.Extractor.ExtractFile(cfg.Input)
	if err != nil {
		return nil, err
	}
	return app.RankingService.Report(result.Records, scope), nil
}

func newParseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse",
		Short: "Print the game results found in a chat export",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			result, err := app.Extractor.ExtractFile(cfg.Input)
			if err != nil {
				return err
			}
			out.Print(ParseResult{
				Records: response.RecordsFromModel(result.Records),
				Stats:   result.Stats,
			})
			return nil
		},
	}
}

func newExportCmd() *cobra.Command {
	var (
		outPath   string
		chartPath string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the report to an XLSX workbook",
		Example: `  puzzleboard export -i chat.txt --out report.xlsx
  puzzleboard export -i chat.txt --day 2025-03-12 --out day.xlsx --chart day.png`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			report, err := buildReport(cmd.Context(), app)
			if err != nil {
				return err
			}

			var buf bytes.Buffer
			if err := export.WriteWorkbook(&buf, report); err != nil {
				return fmt.Errorf("build workbook: %w", err)
			}
			if err := os.WriteFile(outPath, buf.Bytes(), 0o644); err != nil {
				return fmt.Errorf("write workbook: %w", err)
			}

			if chartPath != "" {
				png, err := export.LeaderboardChart("Leaderboard "+report.Scope.String(), report.Leaderboard)
				if err != nil {
					return fmt.Errorf("build chart: %w", err)
				}
				if err := os.WriteFile(chartPath, png, 0o644); err != nil {
					return fmt.Errorf("write chart: %w", err)
				}
			}

			out.PrintMessage(fmt.Sprintf("Wrote %s", outPath))
			return nil
		},
	}

	cmd.Flags().String("day", "", "Day to export: YYYY-MM-DD, today or yesterday (default all time)")
	cmd.Flags().StringVar(&outPath, "out", "report.xlsx", "Workbook path")
	cmd.Flags().StringVar(&chartPath, "chart", "", "Also write a PNG leaderboard chart to this path")
	return cmd
}

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import",
		Short: "Store the results of a chat export in the configured storage",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			result, err := app.IngestService.ImportFile(cmd.Context(), cfg.Input)
			if err != nil {
				return err
			}
			out.Print(response.ImportResult{
				Import: response.ImportFromModel(result.Import),
				Stats:  result.Stats,
			})
			return nil
		},
	}
}
