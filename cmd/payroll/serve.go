package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/warp/payroll-engine/api"
	"github.com/warp/payroll-engine/payroll"
)

type serveOptions struct {
	Addr      string
	Scheduler bool
}

func newServeCmd(a *app) *cobra.Command {
	var opts serveOptions

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the payroll HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("addr") {
				a.cfg.Addr = opts.Addr
			}
			if cmd.Flags().Changed("scheduler") {
				a.cfg.SchedulerEnabled = opts.Scheduler
			}
			return serve(cmd.Context(), a)
		},
	}
	cmd.Flags().StringVarP(&opts.Addr, "addr", "a", ":8080", "HTTP listen address (overrides PAYROLL_ADDR)")
	cmd.Flags().BoolVar(&opts.Scheduler, "scheduler", false, "Run payday automatically once a day")
	return cmd
}

func serve(ctx context.Context, a *app) error {
	log := a.logger

	store, err := a.openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	handler := api.NewHandler(store, log, payroll.WithWorkers(a.cfg.Workers))

	scheduler := api.NewPaydayScheduler(handler)
	scheduler.Enabled = a.cfg.SchedulerEnabled
	scheduler.CheckInterval = a.cfg.SchedulerInterval
	scheduler.Start()
	defer scheduler.Stop()

	server := &http.Server{
		Addr:         a.cfg.Addr,
		Handler:      api.NewRouter(handler),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("server starting", zap.String("addr", a.cfg.Addr), zap.String("db", a.cfg.DBPath))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	// Wait for interrupt signal
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}

	log.Info("server stopped")
	return nil
}
