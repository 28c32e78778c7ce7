// Package cli provides the dashboard command line: the HTTP server plus a
// couple of read-only inspection commands that reuse the server's wiring.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"go-workspace-dashboard/internal/config"
	"go-workspace-dashboard/internal/logger"
)

// Version is set at build time with -ldflags "-X go-workspace-dashboard/internal/cli.Version=...".
var Version = "dev"

var (
	cfg *config.Config
	log *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:           "dashboard",
	Short:         "Workspace admin dashboard backend",
	Long:          `dashboard serves the workspace admin API: files, memory databases, cron jobs, processes and logs.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
		log = logger.New(os.Stdout, cfg.LogFormat, cfg.LogLevel)
		slog.SetDefault(log)
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Version = Version
	rootCmd.AddCommand(serveCmd, workspacesCmd, tablesCmd)
}
