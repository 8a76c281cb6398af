/*
Package sqlite provides a SQLite-backed implementation of the payroll stores.

PURPOSE:
  Implements every collaborator the payroll engine consumes, the
  enrollment store, and the bookkeeping for payday runs.

INTERFACES IMPLEMENTED:
  payroll.Store:     Employees, activity, deductions, payment writes
  enrollment.Store:  Employee, time, sales and deduction writes

KEY TABLES:
  employees:      One row per payee; scheme columns are nullable
  time_records:   Hours per day for hourly employees
  sales_records:  Sales for commissioned employees
  deductions:     Standing service charges (latest row is current)
  payments:       Append-only payment history
  payday_runs:    One row per payday invocation

STORAGE FORMATS:
  Dates are TEXT "YYYY-MM-DD" so window filters compare lexically.
  Money, rates and hours are TEXT decimal strings, never REAL.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety, same as the engine's single-writer
  assumption. WAL mode keeps readers unblocked.

USAGE:
  store, err := sqlite.New("./data/payroll.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  engine := payroll.NewEngine(payroll.CollaboratorsFrom(store))

SEE ALSO:
  - payroll/store.go: Collaborator interfaces
  - payroll/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/warp/payroll-engine/enrollment"
	"github.com/warp/payroll-engine/payroll"
)

// Store implements all storage interfaces using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

var (
	_ payroll.Store    = (*Store)(nil)
	_ enrollment.Store = (*Store)(nil)
)

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// Each connection to ":memory:" is its own database.
	if strings.Contains(dbPath, ":memory:") {
		db.SetMaxOpenConns(1)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS employees (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		address TEXT NOT NULL,
		scheme TEXT NOT NULL,
		method TEXT NOT NULL,
		hourly_rate TEXT,
		monthly_pay TEXT,
		commission_rate TEXT,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS time_records (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL,
		date TEXT NOT NULL,
		hours TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	-- Hot path: per-employee window scans during payday
	CREATE INDEX IF NOT EXISTS idx_time_records_employee_date
		ON time_records(employee_id, date);

	CREATE TABLE IF NOT EXISTS sales_records (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL,
		date TEXT NOT NULL,
		amount INTEGER NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_sales_records_employee_date
		ON sales_records(employee_id, date);

	CREATE TABLE IF NOT EXISTS deductions (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL,
		amount INTEGER NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_deductions_employee
		ON deductions(employee_id, created_at);

	-- Payments (append-only, never updated)
	CREATE TABLE IF NOT EXISTS payments (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL,
		gross TEXT NOT NULL,
		deduction TEXT NOT NULL,
		net TEXT NOT NULL,
		method TEXT NOT NULL,
		payment_date TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_payments_employee
		ON payments(employee_id, payment_date);

	CREATE TABLE IF NOT EXISTS payday_runs (
		id TEXT PRIMARY KEY,
		pay_date TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'running',
		payments INTEGER DEFAULT 0,
		total_net TEXT DEFAULT '0',
		error TEXT,
		started_at TEXT NOT NULL,
		completed_at TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_payday_runs_date
		ON payday_runs(pay_date, status);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// EMPLOYEE STORE
// =============================================================================

// SaveEmployee inserts or replaces an employee.
func (s *Store) SaveEmployee(ctx context.Context, emp payroll.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if emp.Scheme == nil {
		return &payroll.MissingFieldError{EmployeeID: emp.ID, Field: "scheme"}
	}

	var hourlyRate, monthlyPay, commissionRate sql.NullString
	switch sc := emp.Scheme.(type) {
	case payroll.Hourly:
		hourlyRate = decimalString(sc.Rate)
	case payroll.Salaried:
		monthlyPay = decimalString(sc.MonthlyPay)
	case payroll.Commissioned:
		monthlyPay = decimalString(sc.MonthlyPay)
		commissionRate = decimalString(sc.CommissionRate)
	}

	query := `
		INSERT INTO employees (id, name, address, scheme, method, hourly_rate, monthly_pay, commission_rate, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			address = excluded.address,
			scheme = excluded.scheme,
			method = excluded.method,
			hourly_rate = excluded.hourly_rate,
			monthly_pay = excluded.monthly_pay,
			commission_rate = excluded.commission_rate
	`

	_, err := s.db.ExecContext(ctx, query,
		emp.ID, emp.Name, emp.Address, emp.Scheme.Kind(), emp.Method,
		hourlyRate, monthlyPay, commissionRate,
		time.Now().UTC().Format(timestampLayout),
	)
	if err != nil {
		return fmt.Errorf("failed to save employee: %w", err)
	}
	return nil
}

// GetEmployee retrieves an employee by ID. Returns (nil, nil) when absent.
func (s *Store) GetEmployee(ctx context.Context, id payroll.EmployeeID) (*payroll.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, employeeSelect+" WHERE id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("failed to query employee: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	emp, err := scanEmployee(rows)
	if err != nil {
		return nil, err
	}
	return &emp, nil
}

// ListEmployees returns all employees in enrollment order.
func (s *Store) ListEmployees(ctx context.Context) ([]payroll.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, employeeSelect+" ORDER BY rowid")
	if err != nil {
		return nil, fmt.Errorf("failed to query employees: %w", err)
	}
	defer rows.Close()

	var employees []payroll.Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, emp)
	}
	return employees, rows.Err()
}

// DeleteEmployee removes an employee. Activity and payments are kept.
func (s *Store) DeleteEmployee(ctx context.Context, id payroll.EmployeeID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM employees WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete employee: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return payroll.ErrEmployeeNotFound
	}
	return nil
}

// timestampLayout is fixed width so TEXT timestamps sort chronologically.
const timestampLayout = "2006-01-02T15:04:05.000000000Z"

const employeeSelect = `
	SELECT id, name, address, scheme, method, hourly_rate, monthly_pay, commission_rate
	FROM employees`

func scanEmployee(rows *sql.Rows) (payroll.Employee, error) {
	var (
		emp                                    payroll.Employee
		scheme, method                         string
		hourlyRate, monthlyPay, commissionRate sql.NullString
	)
	if err := rows.Scan(&emp.ID, &emp.Name, &emp.Address, &scheme, &method,
		&hourlyRate, &monthlyPay, &commissionRate); err != nil {
		return emp, fmt.Errorf("failed to scan employee: %w", err)
	}

	m, err := payroll.ParseDisbursementMethod(method)
	if err != nil {
		return emp, fmt.Errorf("employee %s: %w", emp.ID, err)
	}
	emp.Method = m

	kind, err := payroll.ParseSchemeKind(scheme)
	if err != nil {
		return emp, fmt.Errorf("employee %s: %w", emp.ID, err)
	}

	// A missing required column does not fail the read. The employee is
	// listed with an incomplete scheme and fails when payday computes it.
	var missing string
	required := func(field string, v sql.NullString) (decimal.Decimal, error) {
		if !v.Valid {
			if missing == "" {
				missing = field
			}
			return decimal.Zero, nil
		}
		d, err := decimal.NewFromString(v.String)
		if err != nil {
			return decimal.Zero, fmt.Errorf("employee %s: %w: %s %q", emp.ID, payroll.ErrInvalidRecord, field, v.String)
		}
		return d, nil
	}

	switch kind {
	case payroll.SchemeHourly:
		rate, err := required("hourly_rate", hourlyRate)
		if err != nil {
			return emp, err
		}
		emp.Scheme = payroll.Hourly{Rate: rate}
	case payroll.SchemeSalaried:
		pay, err := required("monthly_pay", monthlyPay)
		if err != nil {
			return emp, err
		}
		emp.Scheme = payroll.Salaried{MonthlyPay: pay}
	case payroll.SchemeCommissioned:
		pay, err := required("monthly_pay", monthlyPay)
		if err != nil {
			return emp, err
		}
		rate, err := required("commission_rate", commissionRate)
		if err != nil {
			return emp, err
		}
		emp.Scheme = payroll.Commissioned{MonthlyPay: pay, CommissionRate: rate}
	}
	if missing != "" {
		emp.Scheme = payroll.IncompleteScheme(kind, missing)
	}
	return emp, nil
}

// =============================================================================
// ACTIVITY STORE
// =============================================================================

func (s *Store) SaveTimeRecord(ctx context.Context, r payroll.TimeRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO time_records (id, employee_id, date, hours, created_at) VALUES (?, ?, ?, ?, ?)",
		r.ID, r.EmployeeID, r.Date.Format(payroll.DateLayout), r.Hours.String(),
		time.Now().UTC().Format(timestampLayout),
	)
	if err != nil {
		return fmt.Errorf("failed to save time record: %w", err)
	}
	return nil
}

func (s *Store) SaveSalesRecord(ctx context.Context, r payroll.SalesRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO sales_records (id, employee_id, date, amount, created_at) VALUES (?, ?, ?, ?, ?)",
		r.ID, r.EmployeeID, r.Date.Format(payroll.DateLayout), r.Amount,
		time.Now().UTC().Format(timestampLayout),
	)
	if err != nil {
		return fmt.Errorf("failed to save sales record: %w", err)
	}
	return nil
}

// ListTimeRecords returns records dated in [w.From, w.To).
func (s *Store) ListTimeRecords(ctx context.Context, id payroll.EmployeeID, w payroll.Window) ([]payroll.TimeRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, employee_id, date, hours
		FROM time_records
		WHERE employee_id = ? AND date >= ? AND date < ?
		ORDER BY date ASC, created_at ASC
	`, id, w.From.Format(payroll.DateLayout), w.To.Format(payroll.DateLayout))
	if err != nil {
		return nil, fmt.Errorf("failed to query time records: %w", err)
	}
	defer rows.Close()

	var records []payroll.TimeRecord
	for rows.Next() {
		var (
			r           payroll.TimeRecord
			date, hours string
		)
		if err := rows.Scan(&r.ID, &r.EmployeeID, &date, &hours); err != nil {
			return nil, fmt.Errorf("failed to scan time record: %w", err)
		}
		if r.Date, err = payroll.ParseDate(date); err != nil {
			return nil, fmt.Errorf("time record %s: %w", r.ID, err)
		}
		if r.Hours, err = decimal.NewFromString(hours); err != nil {
			return nil, fmt.Errorf("time record %s: %w", r.ID, err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// ListSalesRecords returns sales dated in [w.From, w.To).
func (s *Store) ListSalesRecords(ctx context.Context, id payroll.EmployeeID, w payroll.Window) ([]payroll.SalesRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, employee_id, date, amount
		FROM sales_records
		WHERE employee_id = ? AND date >= ? AND date < ?
		ORDER BY date ASC, created_at ASC
	`, id, w.From.Format(payroll.DateLayout), w.To.Format(payroll.DateLayout))
	if err != nil {
		return nil, fmt.Errorf("failed to query sales records: %w", err)
	}
	defer rows.Close()

	var records []payroll.SalesRecord
	for rows.Next() {
		var (
			r    payroll.SalesRecord
			date string
		)
		if err := rows.Scan(&r.ID, &r.EmployeeID, &date, &r.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan sales record: %w", err)
		}
		if r.Date, err = payroll.ParseDate(date); err != nil {
			return nil, fmt.Errorf("sales record %s: %w", r.ID, err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// =============================================================================
// DEDUCTION STORE
// =============================================================================

func (s *Store) SaveDeduction(ctx context.Context, d payroll.DeductionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	createdAt := d.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO deductions (id, employee_id, amount, created_at) VALUES (?, ?, ?, ?)",
		d.ID, d.EmployeeID, d.Amount, createdAt.UTC().Format(timestampLayout),
	)
	if err != nil {
		return fmt.Errorf("failed to save deduction: %w", err)
	}
	return nil
}

// FindCurrentDeduction returns the latest deduction, or (nil, nil).
func (s *Store) FindCurrentDeduction(ctx context.Context, id payroll.EmployeeID) (*payroll.DeductionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		d         payroll.DeductionRecord
		createdAt string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, employee_id, amount, created_at
		FROM deductions
		WHERE employee_id = ?
		ORDER BY created_at DESC, rowid DESC
		LIMIT 1
	`, id).Scan(&d.ID, &d.EmployeeID, &d.Amount, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query deduction: %w", err)
	}
	if d.CreatedAt, err = time.Parse(timestampLayout, createdAt); err != nil {
		return nil, fmt.Errorf("deduction %s: %w", d.ID, err)
	}
	return &d, nil
}

// =============================================================================
// PAYMENT STORE - Append-only
// =============================================================================

// SavePayment appends a payment. There is no update path.
func (s *Store) SavePayment(ctx context.Context, p payroll.PaymentRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO payments (id, employee_id, gross, deduction, net, method, payment_date, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		p.ID, p.EmployeeID, p.Gross.String(), p.Deduction.String(), p.Net.String(),
		p.Method, p.PaymentDate.Format(payroll.DateLayout),
		time.Now().UTC().Format(timestampLayout),
	)
	if err != nil {
		return fmt.Errorf("failed to save payment: %w", err)
	}
	return nil
}

const paymentSelect = `
	SELECT id, employee_id, gross, deduction, net, method, payment_date
	FROM payments`

// ListPayments returns an employee's payments, oldest first. An empty id
// lists every payment.
func (s *Store) ListPayments(ctx context.Context, id payroll.EmployeeID) ([]payroll.PaymentRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := paymentSelect + " ORDER BY payment_date ASC, rowid ASC"
	args := []any{}
	if id != "" {
		query = paymentSelect + " WHERE employee_id = ? ORDER BY payment_date ASC, rowid ASC"
		args = append(args, id)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query payments: %w", err)
	}
	defer rows.Close()

	var payments []payroll.PaymentRecord
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

// GetPayment returns ErrPaymentNotFound for an unknown ID.
func (s *Store) GetPayment(ctx context.Context, id payroll.PaymentID) (*payroll.PaymentRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, paymentSelect+" WHERE id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("failed to query payment: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, payroll.ErrPaymentNotFound
	}
	p, err := scanPayment(rows)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func scanPayment(rows *sql.Rows) (payroll.PaymentRecord, error) {
	var (
		p                                  payroll.PaymentRecord
		gross, deduction, net, method, day string
	)
	if err := rows.Scan(&p.ID, &p.EmployeeID, &gross, &deduction, &net, &method, &day); err != nil {
		return p, fmt.Errorf("failed to scan payment: %w", err)
	}

	var err error
	if p.Gross, err = decimal.NewFromString(gross); err != nil {
		return p, fmt.Errorf("payment %s: %w", p.ID, err)
	}
	if p.Deduction, err = decimal.NewFromString(deduction); err != nil {
		return p, fmt.Errorf("payment %s: %w", p.ID, err)
	}
	if p.Net, err = decimal.NewFromString(net); err != nil {
		return p, fmt.Errorf("payment %s: %w", p.ID, err)
	}
	if p.PaymentDate, err = payroll.ParseDate(day); err != nil {
		return p, fmt.Errorf("payment %s: %w", p.ID, err)
	}
	p.Method = payroll.DisbursementMethod(method)
	return p, nil
}

// =============================================================================
// PAYDAY RUNS
// =============================================================================

type RunStatus string

const (
	RunRunning   RunStatus = "running"
	RunCompleted RunStatus = "completed"
	RunFailed    RunStatus = "failed"
)

// PaydayRun records one payday invocation.
type PaydayRun struct {
	ID          string
	PayDate     time.Time
	Status      RunStatus
	Payments    int
	TotalNet    decimal.Decimal
	Error       string
	StartedAt   time.Time
	CompletedAt *time.Time
}

// StartRun records a payday as running.
func (s *Store) StartRun(ctx context.Context, run PaydayRun) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO payday_runs (id, pay_date, status, started_at)
		VALUES (?, ?, ?, ?)
	`, run.ID, run.PayDate.Format(payroll.DateLayout), RunRunning, run.StartedAt.UTC().Format(timestampLayout))
	if err != nil {
		return fmt.Errorf("failed to start payday run: %w", err)
	}
	return nil
}

// FinishRun records the outcome of a run.
func (s *Store) FinishRun(ctx context.Context, run PaydayRun) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	completedAt := time.Now().UTC()
	if run.CompletedAt != nil {
		completedAt = run.CompletedAt.UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		UPDATE payday_runs
		SET status = ?, payments = ?, total_net = ?, error = ?, completed_at = ?
		WHERE id = ?
	`, run.Status, run.Payments, run.TotalNet.String(), nullString(run.Error),
		completedAt.Format(timestampLayout), run.ID)
	if err != nil {
		return fmt.Errorf("failed to finish payday run: %w", err)
	}
	return nil
}

// HasCompletedRun reports whether a run for payDate finished successfully.
func (s *Store) HasCompletedRun(ctx context.Context, payDate time.Time) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM payday_runs WHERE pay_date = ? AND status = ?",
		payDate.Format(payroll.DateLayout), RunCompleted,
	).Scan(&count)
	return count > 0, err
}

// ListRuns returns runs, most recent first.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]PaydayRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, pay_date, status, payments, total_net, error, started_at, completed_at
		FROM payday_runs
		ORDER BY started_at DESC, rowid DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query payday runs: %w", err)
	}
	defer rows.Close()

	var runs []PaydayRun
	for rows.Next() {
		var (
			r                          PaydayRun
			payDate, totalNet, started string
			errText, completed         sql.NullString
		)
		if err := rows.Scan(&r.ID, &payDate, &r.Status, &r.Payments, &totalNet, &errText, &started, &completed); err != nil {
			return nil, fmt.Errorf("failed to scan payday run: %w", err)
		}
		var err error
		if r.PayDate, err = payroll.ParseDate(payDate); err != nil {
			return nil, fmt.Errorf("payday run %s: %w", r.ID, err)
		}
		if r.TotalNet, err = decimal.NewFromString(totalNet); err != nil {
			return nil, fmt.Errorf("payday run %s: %w", r.ID, err)
		}
		if r.StartedAt, err = time.Parse(timestampLayout, started); err != nil {
			return nil, fmt.Errorf("payday run %s: %w", r.ID, err)
		}
		if completed.Valid {
			t, err := time.Parse(timestampLayout, completed.String)
			if err != nil {
				return nil, fmt.Errorf("payday run %s: %w", r.ID, err)
			}
			r.CompletedAt = &t
		}
		r.Error = errText.String
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// =============================================================================
// HELPERS
// =============================================================================

func decimalString(d decimal.Decimal) sql.NullString {
	return sql.NullString{String: d.String(), Valid: true}
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
