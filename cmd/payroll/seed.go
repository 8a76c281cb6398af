package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/warp/payroll-engine/enrollment"
	"github.com/warp/payroll-engine/payroll"
	"github.com/warp/payroll-engine/seed"
)

type seedOptions struct {
	Employees int
	Date      string
	Seed      int64
}

func newSeedCmd(a *app) *cobra.Command {
	var opts seedOptions

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Enroll fake employees with activity for the next payday",
		RunE: func(cmd *cobra.Command, args []string) error {
			payDate := payroll.Today()
			if opts.Date != "" {
				d, err := payroll.ParseDate(opts.Date)
				if err != nil {
					return fmt.Errorf("invalid --date (use YYYY-MM-DD): %w", err)
				}
				payDate = d
			}

			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			svc := enrollment.NewService(store, enrollment.WithLogger(a.logger))
			sum, err := seed.Generate(cmd.Context(), svc, seed.Options{
				Employees: opts.Employees,
				PayDate:   payDate,
				Seed:      opts.Seed,
			})
			if err != nil {
				return err
			}

			a.logger.Info("seeded", zap.Int("employees", sum.Employees))
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d employees, %d time records, %d sales, %d deductions\n",
				sum.Employees, sum.TimeRecords, sum.SalesRecords, sum.Deductions)
			return nil
		},
	}
	cmd.Flags().IntVarP(&opts.Employees, "employees", "n", 10, "Number of employees to enroll")
	cmd.Flags().StringVarP(&opts.Date, "date", "d", "", "Pay date the activity leads up to (default today)")
	cmd.Flags().Int64Var(&opts.Seed, "seed", 0, "Random seed for reproducible data (0 = random)")
	return cmd
}
