package root

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func newSendCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "send <message>",
		Short: "Queue a message for the agent",
		Long:  `Queue a message for the control session. Pass "-" to read the message from stdin.`,
		Args:  cobra.ExactArgs(1),
		RunE:  runSendCommand,
	}
}

func runSendCommand(cmd *cobra.Command, args []string) error {
	content := args[0]
	if content == "-" {
		buf, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("failed to read from stdin: %w", err)
		}
		content = string(buf)
	}
	if strings.TrimSpace(content) == "" {
		return fmt.Errorf("message is empty")
	}

	client, err := newControlClient()
	if err != nil {
		return err
	}

	resp, err := client.SendMessage(cmd.Context(), content)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "queued %s\n", resp.ID)
	return nil
}
