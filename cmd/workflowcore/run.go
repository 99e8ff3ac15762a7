package main

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/flowlattice/workflowcore/internal/engine"
	"github.com/flowlattice/workflowcore/internal/intent"
	"github.com/flowlattice/workflowcore/internal/memstore"
	"github.com/flowlattice/workflowcore/internal/model"
	"github.com/flowlattice/workflowcore/internal/petri"
	"github.com/flowlattice/workflowcore/internal/plugin"
	"github.com/flowlattice/workflowcore/internal/plugins"
	"github.com/flowlattice/workflowcore/internal/projector"
	"github.com/flowlattice/workflowcore/internal/wire"
)

func newRunCommand() *cobra.Command {
	var intentPath string
	var executionTimeoutMs int64
	var tracePath string

	cmd := &cobra.Command{
		Use:   "run [dag.json]",
		Short: "Execute a DAG, either read directly or built from an IntentSpec via the Petri-net builder and projector",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dag, err := resolveDAG(args, intentPath)
			if err != nil {
				return err
			}

			registry := plugin.NewRegistry()
			if err := registerDemoPlugins(registry, dag); err != nil {
				return err
			}

			dispatcher := plugin.NewBreakerDispatcher(registry)
			eng := engine.New(dispatcher, dispatcher, nil)

			cfg := model.DefaultRuntimeExecutionConfig()
			if executionTimeoutMs > 0 {
				cfg.ExecutionTimeoutMs = executionTimeoutMs
			}

			execCtx := model.NewExecutionContext(uuid.NewString(), memstore.NewInMemory())

			agg, err := eng.Execute(cmd.Context(), dag, execCtx, cfg)
			if err != nil {
				return err
			}

			printAggregate(cmd, agg)

			if tracePath != "" {
				f, err := os.Create(tracePath)
				if err != nil {
					return err
				}
				defer f.Close()
				if err := wire.WriteTraceND(f, agg.Trace); err != nil {
					return err
				}
			}

			if agg.NodesFailed > 0 {
				return fmt.Errorf("%d node(s) failed", agg.NodesFailed)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&intentPath, "intent", "", "build the DAG from an IntentSpec (YAML) via the Petri-net builder and projector instead of reading a dag.json")
	cmd.Flags().Int64Var(&executionTimeoutMs, "execution-timeout-ms", 0, "override executionTimeoutMs (0 = none)")
	cmd.Flags().StringVar(&tracePath, "trace-out", "", "write the ND-JSON trace to this path")
	return cmd
}

func resolveDAG(args []string, intentPath string) (*model.DAG, error) {
	if intentPath != "" {
		data, err := os.ReadFile(intentPath)
		if err != nil {
			return nil, err
		}
		spec, err := intent.LoadYAML(data)
		if err != nil {
			return nil, err
		}
		net, err := petri.BuildFromIntent(spec)
		if err != nil {
			return nil, err
		}
		return projector.Project(net)
	}

	if len(args) == 0 {
		return nil, fmt.Errorf("run requires either a dag.json argument or --intent")
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return nil, err
	}
	return wire.UnmarshalDAG(data)
}

// registerDemoPlugins wires a no-op fixture plugin claiming every action the
// DAG's nodes reference, so `run` can execute ad hoc DAGs without bespoke
// plugin configuration. Real deployments inject their own registry.
func registerDemoPlugins(registry *plugin.Registry, dag *model.DAG) error {
	seen := make(map[string]bool)
	var actions []string
	for _, n := range dag.Nodes() {
		if !seen[n.Action] {
			seen[n.Action] = true
			actions = append(actions, n.Action)
		}
	}
	return registry.Register(plugins.NewNoOp("demo", actions...))
}

func printAggregate(cmd *cobra.Command, agg model.AggregateResult) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s %s\n", style(titleStyle, "execution:"), agg.ExecutionID)
	fmt.Fprintf(out, "  succeeded: %s\n", style(okStyle, humanize.Comma(int64(agg.NodesSucceeded))))
	fmt.Fprintf(out, "  failed:    %s\n", style(failStyle, humanize.Comma(int64(agg.NodesFailed))))
	fmt.Fprintf(out, "  skipped:   %s\n", style(dimStyle, humanize.Comma(int64(agg.NodesSkipped))))
}
