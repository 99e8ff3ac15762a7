package main

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/flowlattice/workflowcore/internal/model"
	"github.com/flowlattice/workflowcore/internal/verifier"
	"github.com/flowlattice/workflowcore/internal/wire"
)

func newValidateCommand() *cobra.Command {
	var kBound int
	var maxTimeMs int64

	cmd := &cobra.Command{
		Use:   "validate <net.json>",
		Short: "Run the bounded state-space verifier over a Petri net",
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

			cfg := model.DefaultValidationConfig()
			if kBound > 0 {
				cfg.KBound = kBound
			}
			if maxTimeMs > 0 {
				cfg.MaxTimeMs = maxTimeMs
			}

			report := verifier.Verify(n, cfg)
			printReport(cmd, report)

			if report.Status == model.StatusFail {
				return fmt.Errorf("validation failed")
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&kBound, "k-bound", 0, "override the default state exploration bound")
	cmd.Flags().Int64Var(&maxTimeMs, "max-time-ms", 0, "override the default exploration wall-clock budget")
	return cmd
}

func printReport(cmd *cobra.Command, report model.ValidationReport) {
	out := cmd.OutOrStdout()
	statusStyle := okStyle
	if report.Status != model.StatusPass {
		statusStyle = failStyle
	}
	fmt.Fprintf(out, "%s %s\n", style(titleStyle, "status:"), style(statusStyle, string(report.Status)))
	fmt.Fprintf(out, "%s %s states\n", style(dimStyle, "explored:"), humanize.Comma(int64(report.StatesExplored)))
	for _, check := range model.AllChecks {
		res, ok := report.Checks[check]
		if !ok {
			continue
		}
		fmt.Fprintf(out, "  %-14s %s — %s\n", check, res.Status, res.Message)
	}
	if report.Counterexample != nil {
		fmt.Fprintf(out, "%s %s\n", style(titleStyle, "counterexample:"), report.Counterexample.Description)
		fmt.Fprintf(out, "  path: %v\n", report.Counterexample.PathToFailure)
	}
	for _, h := range report.Hints {
		fmt.Fprintf(out, "hint: %s\n", h)
	}
}
