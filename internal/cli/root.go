package cli

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/mcoot/puzzleboard/internal/config"
	"github.com/mcoot/puzzleboard/internal/factory"
)

var (
	cfg    config.Config
	out    *Output
	logger *slog.Logger
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	var format string

	rootCmd := &cobra.Command{
		Use:   "puzzleboard",
		Short: "Leaderboards for LinkedIn games shared in a WhatsApp group",
		Long: `puzzleboard reads a WhatsApp chat export, picks out the LinkedIn game
results people posted (Tango, Queens, Mini Sudoku, Zip, Crossclimb,
Pinpoint) and ranks the players. Each game and day awards 5, 3 and 1 points
to the three best results.

Settings come from flags, PUZZLEBOARD_* environment variables or a YAML file
given with --config.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.Load(cmd.Flags())
			if err != nil {
				return err
			}
			cfg = loaded

			level, _ := cfg.Level()
			logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
			out = NewOutput(cmd.OutOrStdout(), format)
			return nil
		},
		SilenceUsage: true,
	}

	config.RegisterFlags(rootCmd.PersistentFlags())
	rootCmd.PersistentFlags().StringVarP(&format, "output", "o", "text", "Output format: text, json")

	rootCmd.AddCommand(newRankCmd())
	rootCmd.AddCommand(newParseCmd())
	rootCmd.AddCommand(newExportCmd())
	rootCmd.AddCommand(newImportCmd())
	rootCmd.AddCommand(newRemoteCmd())
	rootCmd.AddCommand(newHashKeyCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

// newApp wires the application for commands that read chats or storage.
// The caller closes it.
func newApp(ctx context.Context) (*factory.App, error) {
	return factory.New(ctx, cfg, logger)
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
