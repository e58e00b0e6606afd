package main

import (
	"os"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "worker",
		Short: "Offline tools for dependency graph documents",
		Long: `worker loads a YAML or JSON dependency document and runs the same
analyses the API serves: stats, cycles, topological order, impact and paths.`,
		SilenceUsage: true,
	}
	root.AddCommand(
		newAnalyzeCmd(),
		newDotCmd(),
		newExportCmd(),
		newImpactCmd(),
		newPathCmd(),
		newEventsCmd(),
	)
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
