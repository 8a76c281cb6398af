/*
scheduler.go - Automated payday scheduler

PURPOSE:
  Periodically checks whether today's payday has run and, if not, runs it
  through the same path as POST /api/payday.

DESIGN:
  - Runs a background goroutine with configurable check interval
  - Skips a date that already has a completed run
  - A failed run is retried on the next tick
  - Records runs for audit and UI display

  The once-per-day guard is Handler.RunPaydayOnce, which checks and runs
  under the payday lock. The engine itself pays again on every invocation.

CONFIGURATION:
  - CheckInterval: How often to check (default: 1 hour)
  - Enabled: Whether scheduler is active (default: true)

USAGE:
  scheduler := NewPaydayScheduler(handler)
  scheduler.Start()
  // ... later
  scheduler.Stop()

SEE ALSO:
  - handlers.go: RunPayday, RunPaydayOnce, TriggerPayday (manual payday)
*/
package api

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/warp/payroll-engine/payroll"
)

// PaydayScheduler runs payday once per calendar day.
type PaydayScheduler struct {
	Handler       *Handler
	CheckInterval time.Duration
	Enabled       bool

	now    func() time.Time
	logger *zap.Logger
	ticker *time.Ticker
	stop   chan struct{}
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// NewPaydayScheduler creates a new scheduler.
func NewPaydayScheduler(handler *Handler) *PaydayScheduler {
	return &PaydayScheduler{
		Handler:       handler,
		CheckInterval: 1 * time.Hour,
		Enabled:       true,
		now:           time.Now,
		logger:        handler.logger.Named("scheduler"),
		stop:          make(chan struct{}),
	}
}

// Start begins the scheduler.
func (ps *PaydayScheduler) Start() {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	if !ps.Enabled {
		ps.logger.Info("disabled, not starting")
		return
	}

	ps.ticker = time.NewTicker(ps.CheckInterval)
	ps.wg.Add(1)

	go ps.run()

	ps.logger.Info("started", zap.Duration("check_interval", ps.CheckInterval))
}

// Stop stops the scheduler and waits for an in-flight check.
func (ps *PaydayScheduler) Stop() {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	if ps.ticker != nil {
		ps.ticker.Stop()
		close(ps.stop)
		ps.wg.Wait()
		ps.ticker = nil
		ps.logger.Info("stopped")
	}
}

func (ps *PaydayScheduler) run() {
	defer ps.wg.Done()

	// Run immediately on start
	ps.checkAndRun(context.Background())

	for {
		select {
		case <-ps.ticker.C:
			ps.checkAndRun(context.Background())
		case <-ps.stop:
			return
		}
	}
}

// RunNow triggers an immediate check. It reports whether a payday ran.
func (ps *PaydayScheduler) RunNow(ctx context.Context) bool {
	return ps.checkAndRun(ctx)
}

func (ps *PaydayScheduler) checkAndRun(ctx context.Context) bool {
	today := payroll.Day(ps.now())
	log := ps.logger.With(zap.String("pay_date", today.Format(payroll.DateLayout)))

	record, _, ran, err := ps.Handler.RunPaydayOnce(ctx, today)
	if !ran {
		if err != nil {
			log.Error("failed to check payday status", zap.Error(err))
		} else {
			log.Debug("payday already completed")
		}
		return false
	}
	if err != nil {
		log.Error("scheduled payday failed", zap.String("run_id", record.ID), zap.Error(err))
		return true
	}
	log.Info("scheduled payday completed",
		zap.String("run_id", record.ID),
		zap.Int("payments", record.Payments),
		zap.Stringer("total_net", record.TotalNet))
	return true
}

// NextRunTime returns when the next scheduled check will occur.
func (ps *PaydayScheduler) NextRunTime() time.Time {
	return ps.now().Add(ps.CheckInterval)
}
