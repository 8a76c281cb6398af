/*
store.go - Collaborator interfaces consumed by the engine

PURPOSE:
  The engine owns no persistence. It reads employees, activity and
  deductions through four read interfaces and writes payments through one
  write interface. Any storage can sit behind them.

KEY INTERFACES:
  EmployeeLister:    Bulk listing, each employee processed once per run
  TimeRecordSource:  Time records for one employee within a Window
  SalesRecordSource: Sales records for one employee within a Window
  DeductionSource:   Current deduction, nil when none
  PaymentSink:       Append-only payment writes

WINDOWING CONTRACT:
  Sources return records dated in [Window.From, Window.To). From is the
  start of the lookback, To is the pay date itself.

IMPLEMENTATIONS:
  - payroll/store/memory.go: In-memory for testing
  - store/sqlite/sqlite.go: SQLite
*/
package payroll

import "context"

type EmployeeLister interface {
	ListEmployees(ctx context.Context) ([]Employee, error)
}

type TimeRecordSource interface {
	ListTimeRecords(ctx context.Context, employeeID EmployeeID, window Window) ([]TimeRecord, error)
}

type SalesRecordSource interface {
	ListSalesRecords(ctx context.Context, employeeID EmployeeID, window Window) ([]SalesRecord, error)
}

type DeductionSource interface {
	// FindCurrentDeduction returns (nil, nil) when the employee owes nothing.
	FindCurrentDeduction(ctx context.Context, employeeID EmployeeID) (*DeductionRecord, error)
}

// PaymentSink persists payments. Errors are propagated, never retried.
type PaymentSink interface {
	SavePayment(ctx context.Context, p PaymentRecord) error
}

// Collaborators bundles what the engine needs. A single store may fill
// every field.
type Collaborators struct {
	Employees  EmployeeLister
	TimeCards  TimeRecordSource
	Sales      SalesRecordSource
	Deductions DeductionSource
	Payments   PaymentSink
}

// Store is satisfied by any backend implementing every collaborator.
type Store interface {
	EmployeeLister
	TimeRecordSource
	SalesRecordSource
	DeductionSource
	PaymentSink
}

// CollaboratorsFrom fills every collaborator from one store.
func CollaboratorsFrom(s Store) Collaborators {
	return Collaborators{
		Employees:  s,
		TimeCards:  s,
		Sales:      s,
		Deductions: s,
		Payments:   s,
	}
}
