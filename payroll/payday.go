/*
payday.go - The payday orchestrator

ALGORITHM (per invocation):
  1. List every employee
  2. Skip employees whose scheme is not due on the date (IsPayDate)
  3. Fetch activity for the scheme's lookback window
  4. Compute gross pay (rules.go)
  5. Look up the current deduction and compute net
  6. Save one PaymentRecord carrying the employee's disbursement method

FAILURE MODEL:
  The run is not transactional. The first employee that fails aborts the
  run with a PaydayError; payments saved before it remain saved.

IDEMPOTENCY:
  None. Two invocations for the same date write two sets of payments.
  Callers that need once-per-day semantics guard it themselves (see
  api/scheduler.go).

CONCURRENCY:
  Sequential by default. WithWorkers(n) fans employees out over n
  goroutines; the first error cancels the rest.
*/
package payroll

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Engine runs payday against injected collaborators. It keeps no state
// between invocations.
type Engine struct {
	employees  EmployeeLister
	timeCards  TimeRecordSource
	sales      SalesRecordSource
	deductions DeductionSource
	payments   PaymentSink

	logger  *zap.Logger
	newID   func() PaymentID
	workers int
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithIDGenerator overrides how payment IDs are minted.
func WithIDGenerator(fn func() PaymentID) Option {
	return func(e *Engine) {
		if fn != nil {
			e.newID = fn
		}
	}
}

// WithWorkers sets how many employees are processed at once. Values below 1
// mean sequential.
func WithWorkers(n int) Option {
	return func(e *Engine) { e.workers = n }
}

// NewEngine creates an engine over the given collaborators.
func NewEngine(c Collaborators, opts ...Option) *Engine {
	e := &Engine{
		employees:  c.Employees,
		timeCards:  c.TimeCards,
		sales:      c.Sales,
		deductions: c.Deductions,
		payments:   c.Payments,
		logger:     zap.NewNop(),
		newID:      func() PaymentID { return PaymentID(uuid.NewString()) },
		workers:    1,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run summarizes one payday invocation.
type Run struct {
	Date     time.Time
	Payments []PaymentRecord
	Skipped  int
}

// Total returns the sum of net pay across the run.
func (r *Run) Total() decimal.Decimal {
	total := decimal.Zero
	for _, p := range r.Payments {
		total = total.Add(p.Net)
	}
	return total
}

// Payday pays every employee due on date. On error the returned Run holds
// the payments saved before the failure.
func (e *Engine) Payday(ctx context.Context, date time.Time) (*Run, error) {
	date = Day(date)
	run := &Run{Date: date}

	employees, err := e.employees.ListEmployees(ctx)
	if err != nil {
		return run, fmt.Errorf("failed to list employees: %w", err)
	}

	log := e.logger.With(zap.String("pay_date", date.Format(DateLayout)))
	log.Info("payday started", zap.Int("employees", len(employees)))

	if e.workers > 1 {
		err = e.payConcurrently(ctx, employees, date, run)
	} else {
		err = e.paySequentially(ctx, employees, date, run)
	}
	if err != nil {
		log.Error("payday aborted",
			zap.Int("payments_written", len(run.Payments)),
			zap.Error(err))
		return run, err
	}

	log.Info("payday completed",
		zap.Int("payments_written", len(run.Payments)),
		zap.Int("skipped", run.Skipped),
		zap.Stringer("total_net", run.Total()))
	return run, nil
}

func (e *Engine) paySequentially(ctx context.Context, employees []Employee, date time.Time, run *Run) error {
	for _, emp := range employees {
		if err := ctx.Err(); err != nil {
			return err
		}
		payment, paid, err := e.payEmployee(ctx, emp, date)
		if err != nil {
			return err
		}
		if !paid {
			run.Skipped++
			continue
		}
		run.Payments = append(run.Payments, payment)
	}
	return nil
}

func (e *Engine) payConcurrently(ctx context.Context, employees []Employee, date time.Time, run *Run) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)

	var mu sync.Mutex
	for _, emp := range employees {
		emp := emp
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			payment, paid, err := e.payEmployee(gctx, emp, date)
			if err != nil {
				return err
			}
			mu.Lock()
			defer mu.Unlock()
			if paid {
				run.Payments = append(run.Payments, payment)
			} else {
				run.Skipped++
			}
			return nil
		})
	}
	return g.Wait()
}

// payEmployee computes and saves one payment. paid is false when the
// employee is not due on date.
func (e *Engine) payEmployee(ctx context.Context, emp Employee, date time.Time) (payment PaymentRecord, paid bool, err error) {
	if !IsPayDate(emp.SchemeKind(), date) {
		return PaymentRecord{}, false, nil
	}

	fail := func(err error) (PaymentRecord, bool, error) {
		return PaymentRecord{}, false, &PaydayError{EmployeeID: emp.ID, Date: date, Err: err}
	}

	act, err := e.collectActivity(ctx, emp, date)
	if err != nil {
		return fail(err)
	}
	gross, err := GrossPay(emp, act)
	if err != nil {
		return fail(err)
	}
	net, deduction, err := e.applyDeduction(ctx, emp.ID, gross)
	if err != nil {
		return fail(err)
	}

	payment = PaymentRecord{
		ID:          e.newID(),
		EmployeeID:  emp.ID,
		Gross:       gross,
		Deduction:   deduction,
		Net:         net,
		Method:      emp.Method,
		PaymentDate: date,
	}
	if err := e.payments.SavePayment(ctx, payment); err != nil {
		return fail(fmt.Errorf("failed to save payment: %w", err))
	}

	e.logger.Debug("payment recorded",
		zap.String("employee_id", string(emp.ID)),
		zap.String("scheme", string(emp.SchemeKind())),
		zap.Stringer("gross", gross),
		zap.Stringer("net", net),
		zap.String("method", string(emp.Method)))
	return payment, true, nil
}

// collectActivity fetches only what the employee's scheme reads.
func (e *Engine) collectActivity(ctx context.Context, emp Employee, date time.Time) (Activity, error) {
	var act Activity
	window, ok := LookbackWindow(emp.SchemeKind(), date)
	if !ok {
		return act, nil
	}

	var err error
	switch emp.SchemeKind() {
	case SchemeHourly:
		act.TimeRecords, err = e.timeCards.ListTimeRecords(ctx, emp.ID, window)
		if err != nil {
			return act, fmt.Errorf("failed to list time records %s: %w", window, err)
		}
	case SchemeCommissioned:
		act.SalesRecords, err = e.sales.ListSalesRecords(ctx, emp.ID, window)
		if err != nil {
			return act, fmt.Errorf("failed to list sales records %s: %w", window, err)
		}
	}
	return act, nil
}

// applyDeduction returns net pay and the deducted amount.
func (e *Engine) applyDeduction(ctx context.Context, id EmployeeID, gross decimal.Decimal) (net, deducted decimal.Decimal, err error) {
	d, err := e.deductions.FindCurrentDeduction(ctx, id)
	if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("failed to find deduction: %w", err)
	}
	if d != nil {
		deducted = decimal.NewFromInt(d.Amount)
	}
	return ApplyDeduction(gross, d), deducted, nil
}
