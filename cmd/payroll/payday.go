package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/warp/payroll-engine/api"
	"github.com/warp/payroll-engine/payroll"
)

type paydayOptions struct {
	Date string
}

func newPaydayCmd(a *app) *cobra.Command {
	var opts paydayOptions

	cmd := &cobra.Command{
		Use:   "payday",
		Short: "Run payday once and print the payments written",
		RunE: func(cmd *cobra.Command, args []string) error {
			date := payroll.Today()
			if opts.Date != "" {
				d, err := payroll.ParseDate(opts.Date)
				if err != nil {
					return fmt.Errorf("invalid --date (use YYYY-MM-DD): %w", err)
				}
				date = d
			}

			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			handler := api.NewHandler(store, a.logger, payroll.WithWorkers(a.cfg.Workers))
			record, run, err := handler.RunPayday(cmd.Context(), date)

			out := cmd.OutOrStdout()
			if run != nil {
				tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "EMPLOYEE\tGROSS\tDEDUCTION\tNET\tMETHOD")
				for _, p := range run.Payments {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
						p.EmployeeID, p.Gross.StringFixed(2), p.Deduction.StringFixed(2), p.Net.StringFixed(2), p.Method)
				}
				tw.Flush()
				fmt.Fprintf(out, "run %s: %s, payments: %d, total net: %s\n",
					record.ID, date.Format(payroll.DateLayout), len(run.Payments), run.Total().StringFixed(2))
			}
			return err
		},
	}
	cmd.Flags().StringVarP(&opts.Date, "date", "d", "", "Pay date YYYY-MM-DD (default today)")
	return cmd
}
