package main

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
)

func newImpactCmd() *cobra.Command {
	var (
		depth  int
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "impact <file> <node>",
		Short: "Show which nodes are affected if a node fails",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := loadService(args[0])
			if err != nil {
				return err
			}
			var maxDepth *int
			if cmd.Flags().Changed("depth") {
				maxDepth = &depth
			}
			res, err := svc.AnalyzeImpact(args[1], maxDepth)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), res)
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%s %s (%d affected)\n", text.FgHiCyan.Sprint(res.Source), text.Bold.Sprint(res.Severity), res.ImpactCount)
			if res.ImpactCount == 0 {
				return nil
			}
			t := newTable(w)
			t.AppendHeader(table.Row{"NODE", "DEPTH"})
			for _, id := range res.ImpactedNodes {
				t.AppendRow(table.Row{id, res.Depths[id]})
			}
			t.Render()
			return nil
		},
	}
	cmd.Flags().IntVar(&depth, "depth", 0, "limit traversal depth (unbounded when unset)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}
