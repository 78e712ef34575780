package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newDebtCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:     "debt <billboard-id>",
		Short:   "Muestra la deuda actual de una valla",
		Example: "  reconcile debt 6f1c2a9e-5b1d-4c43-9a57-0d2f8c1e7b10",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c, closeAll, err := e.open(ctx)
			if err != nil {
				return err
			}
			defer closeAll()

			b, snap, err := c.Debt.CalculateDebt(ctx, args[0])
			if err != nil {
				return err
			}

			m := c.Money
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "Valla\t%s (%s)\n", b.Code, b.Status)
			fmt.Fprintf(w, "Instalación\t%s\n", snap.InstallDate.Format("2006-01-02"))
			fmt.Fprintf(w, "Tarifa anual\t%s\n", m.Format(snap.AnnualRate))
			fmt.Fprintf(w, "Años facturados\t%d\n", snap.YearsSinceInstall)
			fmt.Fprintf(w, "Total adeudado\t%s\n", m.Format(snap.TotalOwed))
			fmt.Fprintf(w, "Total pagado\t%s\n", m.Format(snap.TotalPaid))
			fmt.Fprintf(w, "Deuda actual\t%s\n", m.Format(snap.CurrentDebt))
			fmt.Fprintf(w, "Años en mora\t%d\n", snap.YearsInDebt)
			fmt.Fprintf(w, "Recargo\t%s\n", m.Format(snap.PenaltyAmount))
			fmt.Fprintf(w, "IVA\t%s\n", m.Format(snap.TaxAmount))
			fmt.Fprintf(w, "Total con recargo e IVA\t%s\n", m.Format(snap.TotalWithPenaltiesAndTax))
			if snap.NextPaymentDue != nil {
				fmt.Fprintf(w, "Próximo vencimiento\t%s\n", snap.NextPaymentDue.Format("2006-01-02"))
			}
			if snap.RateUnresolved {
				fmt.Fprintln(w, "Aviso\tsin tarifa resoluble, deuda reportada en cero")
			}
			return w.Flush()
		},
	}
}
