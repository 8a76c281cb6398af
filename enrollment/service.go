/*
Package enrollment creates and validates the records payday reads.

PURPOSE:
  The payroll engine assumes its inputs are well formed. This package is
  where that is enforced: an employee is stored with exactly the fields
  its pay scheme needs, time records only attach to hourly employees,
  sales records only to commissioned employees.

VALIDATION RULES:
  Employees:
    hourly       -> hourly_rate required
    salaried     -> monthly_pay required
    commissioned -> monthly_pay and commission_rate required
    fields belonging to another scheme are rejected
  Time records:   employee exists, is hourly, hours >= 0
  Sales records:  employee exists, is commissioned, amount >= 0
  Deductions:     employee exists, amount >= 0

SEE ALSO:
  - payroll/types.go: Record types
  - store/sqlite/sqlite.go: Production Store
*/
package enrollment

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/warp/payroll-engine/payroll"
)

// Store persists enrollment records.
type Store interface {
	SaveEmployee(ctx context.Context, emp payroll.Employee) error
	// GetEmployee returns (nil, nil) when the employee does not exist.
	GetEmployee(ctx context.Context, id payroll.EmployeeID) (*payroll.Employee, error)
	DeleteEmployee(ctx context.Context, id payroll.EmployeeID) error
	SaveTimeRecord(ctx context.Context, r payroll.TimeRecord) error
	SaveSalesRecord(ctx context.Context, r payroll.SalesRecord) error
	SaveDeduction(ctx context.Context, d payroll.DeductionRecord) error
}

// Service validates and stores enrollment records.
type Service struct {
	store  Store
	logger *zap.Logger
	newID  func() string
	now    func() time.Time
}

type Option func(*Service)

func WithLogger(l *zap.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

func WithIDGenerator(fn func() string) Option {
	return func(s *Service) { s.newID = fn }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(store Store, opts ...Option) *Service {
	s := &Service{
		store:  store,
		logger: zap.NewNop(),
		newID:  uuid.NewString,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// =============================================================================
// EMPLOYEES
// =============================================================================

// EmployeeRequest describes a new employee. Only the numeric fields of the
// chosen scheme may be set.
type EmployeeRequest struct {
	Name           string
	Address        string
	Scheme         payroll.SchemeKind
	Method         payroll.DisbursementMethod
	HourlyRate     *decimal.Decimal
	MonthlyPay     *decimal.Decimal
	CommissionRate *decimal.Decimal
}

// AddEmployee validates req and stores a new employee with a fresh ID.
func (s *Service) AddEmployee(ctx context.Context, req EmployeeRequest) (payroll.Employee, error) {
	if strings.TrimSpace(req.Name) == "" {
		return payroll.Employee{}, fmt.Errorf("%w: name is required", payroll.ErrInvalidRecord)
	}
	if strings.TrimSpace(req.Address) == "" {
		return payroll.Employee{}, fmt.Errorf("%w: address is required", payroll.ErrInvalidRecord)
	}
	if req.Method == "" {
		return payroll.Employee{}, &payroll.MissingFieldError{Field: "method"}
	}
	if !req.Method.Valid() {
		return payroll.Employee{}, fmt.Errorf("%w: unknown disbursement method %q", payroll.ErrInvalidRecord, req.Method)
	}

	scheme, err := buildScheme(req)
	if err != nil {
		return payroll.Employee{}, err
	}

	emp := payroll.Employee{
		ID:      payroll.EmployeeID(s.newID()),
		Name:    req.Name,
		Address: req.Address,
		Scheme:  scheme,
		Method:  req.Method,
	}
	if err := s.store.SaveEmployee(ctx, emp); err != nil {
		return payroll.Employee{}, fmt.Errorf("failed to save employee: %w", err)
	}

	s.logger.Info("employee enrolled",
		zap.String("employee_id", string(emp.ID)),
		zap.String("scheme", string(scheme.Kind())))
	return emp, nil
}

func buildScheme(req EmployeeRequest) (payroll.PayScheme, error) {
	if req.Scheme == "" {
		return nil, &payroll.MissingFieldError{Field: "scheme"}
	}
	kind, err := payroll.ParseSchemeKind(string(req.Scheme))
	if err != nil {
		return nil, err
	}

	switch kind {
	case payroll.SchemeHourly:
		if req.HourlyRate == nil {
			return nil, &payroll.MissingFieldError{Field: "hourly_rate"}
		}
		if err := rejectExtra(kind, map[string]*decimal.Decimal{
			"monthly_pay": req.MonthlyPay, "commission_rate": req.CommissionRate,
		}); err != nil {
			return nil, err
		}
		if err := nonNegative("hourly_rate", *req.HourlyRate); err != nil {
			return nil, err
		}
		return payroll.Hourly{Rate: *req.HourlyRate}, nil

	case payroll.SchemeSalaried:
		if req.MonthlyPay == nil {
			return nil, &payroll.MissingFieldError{Field: "monthly_pay"}
		}
		if err := rejectExtra(kind, map[string]*decimal.Decimal{
			"hourly_rate": req.HourlyRate, "commission_rate": req.CommissionRate,
		}); err != nil {
			return nil, err
		}
		if err := nonNegative("monthly_pay", *req.MonthlyPay); err != nil {
			return nil, err
		}
		return payroll.Salaried{MonthlyPay: *req.MonthlyPay}, nil

	default:
		if req.MonthlyPay == nil {
			return nil, &payroll.MissingFieldError{Field: "monthly_pay"}
		}
		if req.CommissionRate == nil {
			return nil, &payroll.MissingFieldError{Field: "commission_rate"}
		}
		if err := rejectExtra(kind, map[string]*decimal.Decimal{"hourly_rate": req.HourlyRate}); err != nil {
			return nil, err
		}
		if err := nonNegative("monthly_pay", *req.MonthlyPay); err != nil {
			return nil, err
		}
		if err := nonNegative("commission_rate", *req.CommissionRate); err != nil {
			return nil, err
		}
		return payroll.Commissioned{MonthlyPay: *req.MonthlyPay, CommissionRate: *req.CommissionRate}, nil
	}
}

func rejectExtra(kind payroll.SchemeKind, fields map[string]*decimal.Decimal) error {
	for name, v := range fields {
		if v != nil {
			return fmt.Errorf("%w: %s does not apply to %s employees", payroll.ErrInvalidRecord, name, kind)
		}
	}
	return nil
}

func nonNegative(field string, v decimal.Decimal) error {
	if v.IsNegative() {
		return fmt.Errorf("%w: %s must not be negative", payroll.ErrInvalidRecord, field)
	}
	return nil
}

// GetEmployee returns the employee or ErrEmployeeNotFound.
func (s *Service) GetEmployee(ctx context.Context, id payroll.EmployeeID) (payroll.Employee, error) {
	emp, err := s.store.GetEmployee(ctx, id)
	if err != nil {
		return payroll.Employee{}, err
	}
	if emp == nil {
		return payroll.Employee{}, fmt.Errorf("%w: %s", payroll.ErrEmployeeNotFound, id)
	}
	return *emp, nil
}

// DeleteEmployee removes the employee. Activity and payments are kept.
func (s *Service) DeleteEmployee(ctx context.Context, id payroll.EmployeeID) error {
	if _, err := s.GetEmployee(ctx, id); err != nil {
		return err
	}
	if err := s.store.DeleteEmployee(ctx, id); err != nil {
		return err
	}
	s.logger.Info("employee deleted", zap.String("employee_id", string(id)))
	return nil
}

// requireScheme loads the employee and checks its scheme.
func (s *Service) requireScheme(ctx context.Context, id payroll.EmployeeID, want payroll.SchemeKind) error {
	emp, err := s.GetEmployee(ctx, id)
	if err != nil {
		return err
	}
	if emp.SchemeKind() != want {
		return fmt.Errorf("%w: employee %s is %s, not %s", payroll.ErrWrongScheme, id, emp.SchemeKind(), want)
	}
	return nil
}

// =============================================================================
// ACTIVITY AND DEDUCTIONS
// =============================================================================

// AddTimeRecord logs hours worked by an hourly employee on date.
func (s *Service) AddTimeRecord(ctx context.Context, id payroll.EmployeeID, date time.Time, hours decimal.Decimal) (payroll.TimeRecord, error) {
	if hours.IsNegative() {
		return payroll.TimeRecord{}, fmt.Errorf("%w: hours must not be negative", payroll.ErrInvalidRecord)
	}
	if err := s.requireScheme(ctx, id, payroll.SchemeHourly); err != nil {
		return payroll.TimeRecord{}, err
	}

	r := payroll.TimeRecord{
		ID:         payroll.RecordID(s.newID()),
		EmployeeID: id,
		Date:       payroll.Day(date),
		Hours:      hours,
	}
	if err := s.store.SaveTimeRecord(ctx, r); err != nil {
		return payroll.TimeRecord{}, fmt.Errorf("failed to save time record: %w", err)
	}
	return r, nil
}

// AddSalesRecord logs a sale by a commissioned employee on date.
func (s *Service) AddSalesRecord(ctx context.Context, id payroll.EmployeeID, date time.Time, amount int64) (payroll.SalesRecord, error) {
	if amount < 0 {
		return payroll.SalesRecord{}, fmt.Errorf("%w: sale amount must not be negative", payroll.ErrInvalidRecord)
	}
	if err := s.requireScheme(ctx, id, payroll.SchemeCommissioned); err != nil {
		return payroll.SalesRecord{}, err
	}

	r := payroll.SalesRecord{
		ID:         payroll.RecordID(s.newID()),
		EmployeeID: id,
		Date:       payroll.Day(date),
		Amount:     amount,
	}
	if err := s.store.SaveSalesRecord(ctx, r); err != nil {
		return payroll.SalesRecord{}, fmt.Errorf("failed to save sales record: %w", err)
	}
	return r, nil
}

// AddDeduction sets the employee's current service charge. Earlier
// deductions stay on record but are no longer current.
func (s *Service) AddDeduction(ctx context.Context, id payroll.EmployeeID, amount int64) (payroll.DeductionRecord, error) {
	if amount < 0 {
		return payroll.DeductionRecord{}, fmt.Errorf("%w: deduction amount must not be negative", payroll.ErrInvalidRecord)
	}
	if _, err := s.GetEmployee(ctx, id); err != nil {
		return payroll.DeductionRecord{}, err
	}

	d := payroll.DeductionRecord{
		ID:         payroll.RecordID(s.newID()),
		EmployeeID: id,
		Amount:     amount,
		CreatedAt:  s.now().UTC(),
	}
	if err := s.store.SaveDeduction(ctx, d); err != nil {
		return payroll.DeductionRecord{}, fmt.Errorf("failed to save deduction: %w", err)
	}
	return d, nil
}
