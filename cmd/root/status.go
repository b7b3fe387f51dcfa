package root

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the control-session state",
		Args:  cobra.NoArgs,
		RunE:  runStatusCommand,
	}
}

func runStatusCommand(cmd *cobra.Command, _ []string) error {
	client, err := newControlClient()
	if err != nil {
		return err
	}

	status, err := client.Status(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "state: %s\nqueued: %d\n", status.State, status.QueueLen)
	return nil
}
