package root

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/missionctl/missionctl/pkg/control"
	"github.com/missionctl/missionctl/pkg/uitool"
)

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Print control-session events as plain text",
		Long:  "Subscribe to the control session and print each event as one line, for piping and scripting. Exits when the stream ends.",
		Args:  cobra.NoArgs,
		RunE:  runWatchCommand,
	}
	cmd.Flags().Bool("all-tools", false, "Include internal (non-UI) tool traffic")
	return cmd
}

func runWatchCommand(cmd *cobra.Command, _ []string) error {
	allTools, _ := cmd.Flags().GetBool("all-tools")

	client, err := newControlClient()
	if err != nil {
		return err
	}

	sub, err := client.Subscribe(cmd.Context())
	if err != nil {
		return err
	}
	defer sub.Close()

	out := cmd.OutOrStdout()
	stateColor := color.New(color.FgCyan)
	userColor := color.New(color.FgMagenta, color.Bold)
	agentColor := color.New(color.FgGreen, color.Bold)
	toolColor := color.New(color.FgYellow)
	errColor := color.New(color.FgRed)

	for event := range sub.Events() {
		switch e := event.(type) {
		case *control.StatusEvent:
			fmt.Fprintf(out, "%s state=%s queued=%d\n", stateColor.Sprint("status"), e.State, e.QueueLen)
		case *control.UserMessageEvent:
			fmt.Fprintf(out, "%s %s\n", userColor.Sprint("user"), e.Content)
		case *control.AssistantMessageEvent:
			label := agentColor.Sprint("agent")
			if !e.Success {
				label = errColor.Sprint("agent(failed)")
			}
			fmt.Fprintf(out, "%s %s\n", label, e.Content)
		case *control.ToolCallEvent:
			if !allTools && !uitool.IsUITool(e.Name) {
				continue
			}
			fmt.Fprintf(out, "%s call %s id=%s args=%s\n", toolColor.Sprint("tool"), e.Name, e.ToolCallID, e.Args)
		case *control.ToolResultEvent:
			if !allTools && !uitool.IsUITool(e.Name) {
				continue
			}
			fmt.Fprintf(out, "%s result id=%s %s\n", toolColor.Sprint("tool"), e.ToolCallID, e.Result)
		case *control.ErrorEvent:
			fmt.Fprintf(out, "%s %s\n", errColor.Sprint("error"), e.Message)
		}
	}

	return sub.Err()
}
