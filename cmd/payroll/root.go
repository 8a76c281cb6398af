package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/warp/payroll-engine/config"
	"github.com/warp/payroll-engine/store/sqlite"
)

// app carries what every subcommand needs once PersistentPreRunE has run.
type app struct {
	cfg    config.Config
	logger *zap.Logger
}

type rootOptions struct {
	DBPath  string
	Env     string
	Workers int
}

func newRootCmd() *cobra.Command {
	var (
		opts rootOptions
		a    = &app{logger: zap.NewNop()}
	)

	rootCmd := &cobra.Command{
		Use:           "payroll",
		Short:         "Pay hourly, salaried and commissioned employees.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			flags := cmd.Flags()
			if flags.Changed("db") {
				cfg.DBPath = opts.DBPath
			}
			if flags.Changed("env") {
				cfg.Environment = opts.Env
			}
			if flags.Changed("workers") {
				cfg.Workers = opts.Workers
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			logger, err := cfg.NewLogger()
			if err != nil {
				return fmt.Errorf("failed to build logger: %w", err)
			}
			a.cfg = cfg
			a.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.logger.Sync()
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.DBPath, "db", "", "SQLite database path (overrides PAYROLL_DB)")
	rootCmd.PersistentFlags().StringVar(&opts.Env, "env", "", "development or production (overrides PAYROLL_ENV)")
	rootCmd.PersistentFlags().IntVarP(&opts.Workers, "workers", "w", 1, "Employees paid concurrently (overrides PAYROLL_WORKERS)")

	rootCmd.AddCommand(
		newServeCmd(a),
		newPaydayCmd(a),
		newSeedCmd(a),
	)
	return rootCmd
}

func (a *app) openStore() (*sqlite.Store, error) {
	store, err := sqlite.New(a.cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	return store, nil
}
