package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path <file> <from> <to>",
		Short: "Print the shortest dependency path between two nodes",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := loadService(args[0])
			if err != nil {
				return err
			}
			res, err := svc.FindPath(args[1], args[2])
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s (%d hops)\n", strings.Join(res.Path, " -> "), res.Length)
			return err
		},
	}
}
