package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/flowlattice/workflowcore/internal/projector"
	"github.com/flowlattice/workflowcore/internal/wire"
)

func newProjectCommand() *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "project <net.json>",
		Short: "Project a Petri net into an executable DAG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			n, err := wire.UnmarshalNet(data)
			if err != nil {
				return err
			}

			dag, err := projector.Project(n)
			if err != nil {
				return err
			}

			out, err := wire.MarshalDAG(dag)
			if err != nil {
				return err
			}

			if outPath == "" {
				fmt.Fprintln(cmd.OutOrStdout(), string(out))
				return nil
			}
			return os.WriteFile(outPath, out, 0o644)
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "write the projected DAG JSON to this path instead of stdout")
	return cmd
}
