package cli

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mcoot/puzzleboard/internal/api/response"
	"github.com/mcoot/puzzleboard/internal/config"
	"github.com/mcoot/puzzleboard/internal/model"
)

func newRemoteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remote",
		Short: "Talk to a running puzzleboard server",
	}

	cmd.PersistentFlags().String("server-url", config.Default().ServerURL, "Server URL (env: PUZZLEBOARD_SERVER_URL)")
	cmd.PersistentFlags().String("upload-key", "", "Upload key (env: PUZZLEBOARD_UPLOAD_KEY)")

	cmd.AddCommand(newRemoteLeaderboardCmd())
	cmd.AddCommand(newRemoteUploadCmd())
	cmd.AddCommand(newRemoteHealthCmd())
	return cmd
}

func newClient() *Client {
	return NewClient(cfg.ServerURL, cfg.UploadKey)
}

func newRemoteLeaderboardCmd() *cobra.Command {
	var placements bool

	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Print the server's leaderboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			query := url.Values{}
			if cfg.Day != "" {
				query.Set("day", cfg.Day)
			}
			if placements {
				query.Set("placements", "true")
			}

			var report response.Report
			if err := newClient().Get("/api/v1/leaderboard", query, &report); err != nil {
				return err
			}
			out.Print(report)
			return nil
		},
	}

	cmd.Flags().String("day", "", "Day to rank: YYYY-MM-DD, today or yesterday (default all time)")
	cmd.Flags().BoolVar(&placements, "placements", false, "Include every per-game placement")
	return cmd
}

func newRemoteUploadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "upload [FILE]",
		Short: "Upload a chat export to the server",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := cfg.Input
			if len(args) == 1 {
				path = args[0]
			}
			if path == "" {
				return model.ErrEmptyInput
			}

			f, err := os.Open(path)
			if err != nil {
				if os.IsNotExist(err) {
					return fmt.Errorf("%w: %s", model.ErrInputNotFound, path)
				}
				return err
			}
			defer f.Close()

			var result response.ImportResult
			if err := newClient().Upload(filepath.Base(path), f, &result); err != nil {
				return err
			}
			out.Print(result)
			return nil
		},
	}
}

func newRemoteHealthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check server health",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Health
			if err := newClient().Get("/api/v1/health", nil, &result); err != nil {
				return err
			}
			out.Print(result)
			return nil
		},
	}
}
