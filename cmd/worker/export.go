package main

import (
	"fmt"
	"os"

	"github.com/GoSim-25-26J-441/go-depgraph-backend/internal/dependency_graph/graph/export"
	"github.com/GoSim-25-26J-441/go-depgraph-backend/internal/dependency_graph/ingest/mapper"
	"github.com/spf13/cobra"
)

func newExportCmd() *cobra.Command {
	var (
		format string
		out    string
		title  string
		source bool
	)
	cmd := &cobra.Command{
		Use:   "export <file>",
		Short: "Normalize a document and write it as json, yaml or dot",
		Long: `export loads a document and writes the graph export (nodes, edges, stats).
With --source it writes the nodes/edges notation instead, which can be fed back
to "PUT /api/graph" or to another worker command.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}
			g, err := loadGraph(args[0])
			if err != nil {
				return err
			}

			var v any = g.Export()
			if source {
				if f == export.FormatDOT {
					return fmt.Errorf("--source supports json and yaml only")
				}
				v = mapper.FromGraph(g)
			}

			var b []byte
			switch f {
			case export.FormatYAML:
				b, err = export.MarshalYAML(v)
			case export.FormatDOT:
				b = []byte(export.ToDOT(g.Export(), title))
			default:
				b, err = export.MarshalJSON(v)
			}
			if err != nil {
				return err
			}

			if out == "" {
				_, err = cmd.OutOrStdout().Write(b)
				return err
			}
			switch f {
			case export.FormatYAML:
				err = export.WriteYAML(out, v)
			case export.FormatJSON:
				err = export.WriteJSON(out, v)
			default:
				err = os.WriteFile(out, b, 0o644)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote: %s (%d nodes, %d edges)\n", out, g.NodeCount(), g.EdgeCount())
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "json", "output format: json, yaml or dot")
	cmd.Flags().StringVarP(&out, "out", "o", "", "write to this file instead of stdout")
	cmd.Flags().StringVar(&title, "title", "", "graph title for dot output")
	cmd.Flags().BoolVar(&source, "source", false, "write the loadable nodes/edges notation instead of the export")
	return cmd
}
