package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/GoSim-25-26J-441/go-depgraph-backend/internal/dependency_graph/graph/export"
	"github.com/GoSim-25-26J-441/go-depgraph-backend/internal/dependency_graph/utils"
	"github.com/spf13/cobra"
)

func newDotCmd() *cobra.Command {
	var (
		out    string
		title  string
		svg    bool
		dotBin string
		marks  []string
	)
	cmd := &cobra.Command{
		Use:   "dot <file>",
		Short: "Render the graph as Graphviz DOT, optionally as SVG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := loadService(args[0])
			if err != nil {
				return err
			}
			if title == "" {
				title = strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
			}
			dot := export.ToDOT(svc.GraphData(), title, marks...)

			if out == "" {
				_, err := fmt.Fprint(cmd.OutOrStdout(), dot)
				return err
			}
			if err := os.WriteFile(out, []byte(dot), 0o644); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote: %s\n", out)

			if svg {
				ctx := cmd.Context()
				if ctx == nil {
					ctx = context.Background()
				}
				b, err := utils.RenderDOT(ctx, dot, "svg", dotBin)
				if err != nil {
					return err
				}
				svgPath := strings.TrimSuffix(out, filepath.Ext(out)) + ".svg"
				if err := os.WriteFile(svgPath, b, 0o644); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote: %s\n", svgPath)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "write DOT to this file instead of stdout")
	cmd.Flags().StringVar(&title, "title", "", "graph title (defaults to the file name)")
	cmd.Flags().BoolVar(&svg, "svg", false, "also render an SVG next to --out (needs graphviz)")
	cmd.Flags().StringVar(&dotBin, "dot-bin", envOr("GRAPHVIZ_DOT", "dot"), "graphviz dot binary")
	cmd.Flags().StringSliceVar(&marks, "highlight", nil, "node ids to highlight")
	return cmd
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
