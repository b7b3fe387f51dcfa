// Package root defines the missionctl command tree.
package root

import (
	"cmp"
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/missionctl/missionctl/pkg/config"
	"github.com/missionctl/missionctl/pkg/control"
	"github.com/missionctl/missionctl/pkg/logging"
	"github.com/missionctl/missionctl/pkg/paths"
)

type rootFlags struct {
	debugMode   bool
	logFilePath string
	logFile     io.Closer

	serverURL string
	token     string
}

var flags rootFlags

func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "missionctl",
		Short: "missionctl - operator console for a remote coding agent",
		Long:  "missionctl is a terminal console for observing and driving the control session of a remote autonomous coding agent",
		Example: `  missionctl tui
  missionctl send "fix the failing test"
  missionctl watch`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Initialize logging before anything else so logs don't break the TUI
			if err := flags.setupLogging(); err != nil {
				// If logging setup fails, fall back to stderr so we still get logs
				slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
					Level: slog.LevelDebug,
				})))
			}
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if flags.logFile != nil {
				if err := flags.logFile.Close(); err != nil {
					slog.Error("Failed to close log file", "error", err)
				}
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	cmd.PersistentFlags().BoolVarP(&flags.debugMode, "debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().StringVar(&flags.logFilePath, "log-file", "", "Path to debug log file (default: ~/.missionctl/missionctl.debug.log; only used with --debug)")
	cmd.PersistentFlags().StringVarP(&flags.serverURL, "server", "s", "", "Control backend base URL (overrides config)")
	cmd.PersistentFlags().StringVar(&flags.token, "token", "", "Bearer token for the backend (overrides config)")

	cmd.AddCommand(newTUICmd())
	cmd.AddCommand(newWatchCmd())
	cmd.AddCommand(newSendCmd())
	cmd.AddCommand(newStatusCmd())
	cmd.AddCommand(newCancelCmd())
	cmd.AddCommand(newDemoCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

func Execute(ctx context.Context, args ...string) error {
	cmd := NewRootCmd()
	cmd.SetArgs(args)
	return cmd.ExecuteContext(ctx)
}

// newControlClient builds the API client from flags and the user config.
func newControlClient() (*control.Client, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	var opts []control.ClientOption
	if token := cfg.AuthToken(flags.token); token != "" {
		opts = append(opts, control.WithToken(token))
	}
	return control.NewClient(cfg.Server(flags.serverURL), opts...)
}

// setupLogging configures slog. When --debug is enabled, logs go to a
// rotating file so they never corrupt the terminal UI; otherwise logging is
// discarded entirely.
func (f *rootFlags) setupLogging() error {
	if !f.debugMode {
		slog.SetDefault(slog.New(slog.DiscardHandler))
		return nil
	}

	path := cmp.Or(strings.TrimSpace(f.logFilePath), filepath.Join(paths.DataDir(), "missionctl.debug.log"))

	logFile, err := logging.NewRotatingFile(path)
	if err != nil {
		return err
	}
	f.logFile = logFile

	slog.SetDefault(slog.New(slog.NewTextHandler(logFile, &slog.HandlerOptions{Level: slog.LevelDebug})))
	return nil
}
