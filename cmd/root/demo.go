package root

import (
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/missionctl/missionctl/pkg/stub"
)

func newDemoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run a scripted local backend",
		Long: `Run a scripted control backend on localhost for trying out the console.
The toy agent echoes messages; send "pick ..." or "table ..." to see the
interactive tools. Point another missionctl at it with --server.`,
		Args: cobra.NoArgs,
		RunE: runDemoCommand,
	}
	cmd.Flags().String("listen", "localhost:7465", "Address to listen on")
	return cmd
}

func runDemoCommand(cmd *cobra.Command, _ []string) error {
	addr, _ := cmd.Flags().GetString("listen")

	backend := stub.New()
	defer backend.Close()

	eg, ctx := errgroup.WithContext(cmd.Context())
	eg.Go(func() error {
		return backend.Run(ctx, addr)
	})
	return eg.Wait()
}
