package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/GoSim-25-26J-441/go-depgraph-backend/internal/dependency_graph/domain"
	"github.com/GoSim-25-26J-441/go-depgraph-backend/internal/dependency_graph/service"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
)

type analysis struct {
	Stats      service.GraphStats       `json:"stats"`
	Cycles     service.CycleReport      `json:"cycles"`
	Topology   service.Topology         `json:"topology"`
	Validation service.ValidationReport `json:"validation"`
}

func newAnalyzeCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "analyze <file>",
		Short: "Print stats, cycles and topological order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := loadService(args[0])
			if err != nil {
				return err
			}
			res := analysis{
				Stats:      svc.Stats(),
				Cycles:     svc.FindCycles(),
				Topology:   svc.Topology(),
				Validation: svc.Validate(),
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), res)
			}
			printAnalysis(cmd.OutOrStdout(), res)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of tables")
	return cmd
}

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	return t
}

func printAnalysis(w io.Writer, res analysis) {
	st := res.Stats

	t := newTable(w)
	t.SetTitle("Graph")
	t.AppendHeader(table.Row{"METRIC", "VALUE"})
	t.AppendRows([]table.Row{
		{"nodes", st.NodeCount},
		{"edges", st.EdgeCount},
		{"components", st.ConnectedComponents},
		{"density", fmt.Sprintf("%.4f", st.Density)},
		{"avg in-degree", fmt.Sprintf("%.2f", st.AvgInDegree)},
		{"avg out-degree", fmt.Sprintf("%.2f", st.AvgOutDegree)},
		{"max in-degree", st.MaxInDegree},
		{"max out-degree", st.MaxOutDegree},
		{"dag", st.IsDAG},
	})
	t.Render()

	if len(st.CriticalNodes) > 0 {
		t = newTable(w)
		t.SetTitle("Critical nodes")
		t.AppendHeader(table.Row{"NODE", "TYPE", "IMPACT", "DEPENDENTS"})
		for _, n := range st.CriticalNodes {
			t.AppendRow(table.Row{n.ID, n.Type, n.ImpactCount, n.Dependents})
		}
		t.Render()
	}

	if res.Cycles.HasCycles {
		fmt.Fprintln(w, text.FgRed.Sprintf("Cycles (%d):", res.Cycles.Count))
		for _, c := range res.Cycles.Cycles {
			fmt.Fprintf(w, "  - %s\n", domain.FormatCycle(c))
		}
	} else {
		fmt.Fprintln(w, text.FgGreen.Sprint("No cycles"))
		fmt.Fprintf(w, "Order: %s\n", strings.Join(res.Topology.Order, ", "))
	}

	for _, issue := range res.Validation.Issues {
		fmt.Fprintf(w, "%s %s\n", text.FgYellow.Sprint("issue:"), issue)
	}
}
