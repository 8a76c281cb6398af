/*
Package payroll provides the payday computation engine.

PURPOSE:
  This package decides who is paid on a given date, how much, and with
  which disbursement method. Persistence is not its concern: employees and
  their activity are read through small collaborator interfaces, and the
  resulting payments are handed to a write-only sink.

KEY CONCEPTS IN THIS FILE (types.go):
  - Employee: A payee enrolled under exactly one pay scheme
  - PayScheme: Closed set of variants (Hourly, Salaried, Commissioned)
  - TimeRecord / SalesRecord: Activity that feeds gross pay
  - DeductionRecord: Standing recurring charge subtracted from gross
  - PaymentRecord: Immutable output of one payday for one employee

DESIGN PRINCIPLES:
  1. Structural invariants: each scheme variant carries only its own fields
  2. Precision: Uses decimal.Decimal for money and hours
  3. Read-only inputs: the engine never mutates an Employee or a record
  4. Append-only output: payments are written once and never read back

USAGE:
  emp := payroll.Employee{
      ID:     "emp-123",
      Name:   "Elsa",
      Scheme: payroll.Hourly{Rate: decimal.NewFromInt(10)},
      Method: payroll.MethodHeldByManager,
  }

SEE ALSO:
  - rules.go: Gross pay per scheme
  - payday.go: The orchestrator
  - store.go: Collaborator interfaces
*/
package payroll

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

type EmployeeID string
type RecordID string
type PaymentID string

// =============================================================================
// PAY SCHEME - Closed sum type, one variant per way of computing gross pay
// =============================================================================

// SchemeKind names a pay scheme variant.
type SchemeKind string

const (
	SchemeHourly       SchemeKind = "hourly"
	SchemeSalaried     SchemeKind = "salaried"
	SchemeCommissioned SchemeKind = "commissioned"
)

// ParseSchemeKind converts a stored or user-supplied string to a SchemeKind.
func ParseSchemeKind(s string) (SchemeKind, error) {
	switch k := SchemeKind(s); k {
	case SchemeHourly, SchemeSalaried, SchemeCommissioned:
		return k, nil
	}
	return "", fmt.Errorf("%w: unknown pay scheme %q", ErrInvalidRecord, s)
}

// PayScheme is implemented only by Hourly, Salaried and Commissioned, plus
// the placeholder returned by IncompleteScheme. The unexported marker keeps
// the set closed to this package.
type PayScheme interface {
	Kind() SchemeKind
	isPayScheme()
}

// Hourly employees are paid per hour worked, with compounding overtime.
type Hourly struct {
	Rate decimal.Decimal
}

// Salaried employees are paid a fixed monthly amount.
type Salaried struct {
	MonthlyPay decimal.Decimal
}

// Commissioned employees are paid a base monthly amount plus a fraction of
// every sale (CommissionRate 0.01 = 1%).
type Commissioned struct {
	MonthlyPay     decimal.Decimal
	CommissionRate decimal.Decimal
}

func (Hourly) Kind() SchemeKind       { return SchemeHourly }
func (Salaried) Kind() SchemeKind     { return SchemeSalaried }
func (Commissioned) Kind() SchemeKind { return SchemeCommissioned }

func (Hourly) isPayScheme()       {}
func (Salaried) isPayScheme()     {}
func (Commissioned) isPayScheme() {}

// IncompleteScheme stands in for a stored scheme that lacks a required
// field. The employee still lists and reports its kind; computing gross pay
// for it fails with a MissingFieldError naming field.
func IncompleteScheme(kind SchemeKind, field string) PayScheme {
	return incompleteScheme{kind: kind, field: field}
}

type incompleteScheme struct {
	kind  SchemeKind
	field string
}

func (s incompleteScheme) Kind() SchemeKind { return s.kind }
func (incompleteScheme) isPayScheme()       {}

var (
	_ PayScheme = Hourly{}
	_ PayScheme = Salaried{}
	_ PayScheme = Commissioned{}
	_ PayScheme = incompleteScheme{}
)

// =============================================================================
// DISBURSEMENT METHOD - Recorded on the payment, never executed here
// =============================================================================

type DisbursementMethod string

const (
	MethodHeldByManager DisbursementMethod = "held_by_manager"
	MethodDirect        DisbursementMethod = "direct"
	MethodMail          DisbursementMethod = "mail"
)

func (m DisbursementMethod) Valid() bool {
	switch m {
	case MethodHeldByManager, MethodDirect, MethodMail:
		return true
	}
	return false
}

// ParseDisbursementMethod converts a stored or user-supplied string.
func ParseDisbursementMethod(s string) (DisbursementMethod, error) {
	m := DisbursementMethod(s)
	if !m.Valid() {
		return "", fmt.Errorf("%w: unknown disbursement method %q", ErrInvalidRecord, s)
	}
	return m, nil
}

// =============================================================================
// EMPLOYEE
// =============================================================================

// Employee is one payee. Name and Address are opaque to the engine.
type Employee struct {
	ID      EmployeeID
	Name    string
	Address string
	Scheme  PayScheme
	Method  DisbursementMethod
}

// SchemeKind returns the kind of the employee's scheme, or "" when unset.
func (e Employee) SchemeKind() SchemeKind {
	if e.Scheme == nil {
		return ""
	}
	return e.Scheme.Kind()
}

// =============================================================================
// ACTIVITY RECORDS
// =============================================================================

// TimeRecord is one day's worked hours for an hourly employee.
type TimeRecord struct {
	ID         RecordID
	EmployeeID EmployeeID
	Date       time.Time
	Hours      decimal.Decimal
}

// SalesRecord is one sale attributed to a commissioned employee.
// Amount is in whole currency units.
type SalesRecord struct {
	ID         RecordID
	EmployeeID EmployeeID
	Date       time.Time
	Amount     int64
}

// DeductionRecord is a standing service charge. When an employee has several,
// the most recently created one is current.
type DeductionRecord struct {
	ID         RecordID
	EmployeeID EmployeeID
	Amount     int64
	CreatedAt  time.Time
}

// =============================================================================
// PAYMENT RECORD - Output of one payday for one employee
// =============================================================================

// PaymentRecord is written exactly once per eligible employee per payday.
// Net may be negative when the deduction exceeds gross.
type PaymentRecord struct {
	ID          PaymentID
	EmployeeID  EmployeeID
	Gross       decimal.Decimal
	Deduction   decimal.Decimal
	Net         decimal.Decimal
	Method      DisbursementMethod
	PaymentDate time.Time
}
