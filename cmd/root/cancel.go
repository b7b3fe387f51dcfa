package root

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCancelCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cancel",
		Short: "Cancel the in-flight agent run",
		Args:  cobra.NoArgs,
		RunE:  runCancelCommand,
	}
}

func runCancelCommand(cmd *cobra.Command, _ []string) error {
	client, err := newControlClient()
	if err != nil {
		return err
	}

	if err := client.CancelRun(cmd.Context()); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), "cancel requested")
	return nil
}
