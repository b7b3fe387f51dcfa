package root

import (
	tea "charm.land/bubbletea/v2"
	"github.com/spf13/cobra"

	"github.com/missionctl/missionctl/pkg/config"
	"github.com/missionctl/missionctl/pkg/tui"
)

func newTUICmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive operator console",
		Long:  "Open a terminal console showing the live control-session conversation, with message, tool-widget, and cancel controls",
		Args:  cobra.NoArgs,
		RunE:  runTUICommand,
	}
}

func runTUICommand(cmd *cobra.Command, _ []string) error {
	client, err := newControlClient()
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	m := tui.New(cmd.Context(), client, cfg.ConsoleTheme())

	p := tea.NewProgram(m, tea.WithContext(cmd.Context()))
	_, err = p.Run()
	return err
}
