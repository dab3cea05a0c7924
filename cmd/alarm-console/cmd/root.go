package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/alarm-scheduler/internal/config"
	"github.com/oshokin/alarm-scheduler/internal/service/console"
	"github.com/oshokin/alarm-scheduler/internal/version"
)

var (
	// configPath to the configuration YAML file.
	configPath string
	// monitorMode overrides the configured monitor strategy.
	monitorMode string
	// verbose lifts engine logging to debug level.
	verbose bool
	// noColor disables colored event output.
	noColor bool

	// rootCmd represents the base command running the interactive console.
	rootCmd = &cobra.Command{
		Use:   "alarm-console",
		Short: "Run the interactive alarm scheduling console.",
		Long: `Starts an interactive session that schedules alarms typed at the prompt.

Request lines follow the form:
  Start_Alarm(id): Group(group) seconds message
  Change_Alarm(id): Group(group) seconds message

Pending alarms are rendered every few seconds by a bounded pool of display
workers, with alarms of one group sharing a worker, and go off once their
deadline passes. The monitor strategy is either "event" (a timer armed for
the nearest deadline) or "poll" (fixed-interval sweeps).`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			options := &console.Options{
				ConfigPath:  configPath,
				MonitorMode: monitorMode,
				Verbose:     verbose,
				NoColor:     noColor,
			}

			return console.Run(ctx, options)
		},
	}
)

// Execute runs the alarm-console CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	// Setup command flags with consistent naming and descriptions.
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "",
		"path to configuration file (default "+config.DefaultConfigFilename+")")
	rootCmd.Flags().StringVarP(&monitorMode, "mode", "m", "",
		`monitor strategy: "event" or "poll" (defaults to the configured mode)`)
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "show engine debug logs on the terminal")
	rootCmd.Flags().BoolVar(&noColor, "no-color", false, "disable colored event output")
}
