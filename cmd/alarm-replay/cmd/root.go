package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/oshokin/alarm-scheduler/internal/config"
	"github.com/oshokin/alarm-scheduler/internal/service/replay"
	"github.com/oshokin/alarm-scheduler/internal/version"
)

var (
	// configPath to the configuration YAML file.
	configPath string
	// linger keeps the session alive after the script ends.
	linger time.Duration

	// rootCmd represents the base command replaying an alarm script.
	rootCmd = &cobra.Command{
		Use:   "alarm-replay <script>",
		Short: "Replay a scripted alarm session and print a summary.",
		Long: `Feeds a script of alarm requests to the scheduling engine and prints the
resulting event stream followed by a summary.

Scripts contain one request per line in the console grammar, plus blank
lines, "#" comments and "sleep <duration>" directives that pause the feed.
The session lingers after the last line so pending alarms can expire.`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			options := &replay.Options{
				ConfigPath: configPath,
				ScriptPath: args[0],
				Linger:     linger,
			}

			return replay.Run(ctx, options)
		},
	}
)

// Execute runs the alarm-replay CLI and exits with non-zero status on error.
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
	rootCmd.Flags().DurationVarP(&linger, "linger", "l", replay.DefaultLinger,
		"how long to keep running after the script ends")
}
