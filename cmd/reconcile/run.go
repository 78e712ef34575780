package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/jhoicas/Vallas-api/internal/application/reconciliation"
)

func newRunCmd(e *env) *cobra.Command {
	names := lo.Map(reconciliation.Sweeps(), func(s reconciliation.Sweep, _ int) string { return string(s) })
	return &cobra.Command{
		Use:   "run <barrido>|all",
		Short: "Ejecuta un barrido de conciliación",
		Long: "Ejecuta un barrido con el mismo candado que el planificador.\n" +
			"Barridos: " + strings.Join(names, ", ") + ".",
		Example: `  # Mora del día
  reconcile run overdue

  # Todos los barridos en orden
  reconcile run all`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: append(names, "all"),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c, closeAll, err := e.open(ctx)
			if err != nil {
				return err
			}
			defer closeAll()

			var results []reconciliation.SweepResult
			if args[0] == "all" {
				results, err = c.Runner.RunAll(ctx)
			} else {
				sweep, perr := reconciliation.ParseSweep(args[0])
				if perr != nil {
					return perr
				}
				var res reconciliation.SweepResult
				res, err = c.Runner.Run(ctx, sweep)
				results = []reconciliation.SweepResult{res}
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "BARRIDO\tPROCESADOS\tAFECTADOS\tOMITIDOS\tFALLIDOS\tDURACIÓN")
			for _, r := range results {
				var elapsed string
				if !r.StartedAt.IsZero() && !r.FinishedAt.IsZero() {
					elapsed = r.FinishedAt.Sub(r.StartedAt).String()
				}
				fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\t%s\n", r.Sweep, r.Processed, r.Affected, r.Skipped, r.Failed, elapsed)
			}
			if ferr := w.Flush(); ferr != nil {
				return ferr
			}
			return err
		},
	}
}
