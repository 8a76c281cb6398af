// Package store provides in-memory payroll store implementations.
package store

import (
	"context"
	"sort"
	"sync"

	"github.com/warp/payroll-engine/payroll"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

// Memory implements payroll.Store and enrollment.Store.
type Memory struct {
	mu         sync.RWMutex
	employees  []payroll.Employee
	timeCards  map[payroll.EmployeeID][]payroll.TimeRecord
	sales      map[payroll.EmployeeID][]payroll.SalesRecord
	deductions map[payroll.EmployeeID][]payroll.DeductionRecord
	payments   []payroll.PaymentRecord
}

var _ payroll.Store = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{
		timeCards:  make(map[payroll.EmployeeID][]payroll.TimeRecord),
		sales:      make(map[payroll.EmployeeID][]payroll.SalesRecord),
		deductions: make(map[payroll.EmployeeID][]payroll.DeductionRecord),
	}
}

// =============================================================================
// EMPLOYEES
// =============================================================================

// SaveEmployee inserts or replaces an employee, keeping enrollment order.
func (m *Memory) SaveEmployee(_ context.Context, emp payroll.Employee) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.employees {
		if m.employees[i].ID == emp.ID {
			m.employees[i] = emp
			return nil
		}
	}
	m.employees = append(m.employees, emp)
	return nil
}

// GetEmployee returns (nil, nil) when the employee does not exist.
func (m *Memory) GetEmployee(_ context.Context, id payroll.EmployeeID) (*payroll.Employee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, emp := range m.employees {
		if emp.ID == id {
			emp := emp
			return &emp, nil
		}
	}
	return nil, nil
}

func (m *Memory) DeleteEmployee(_ context.Context, id payroll.EmployeeID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, emp := range m.employees {
		if emp.ID == id {
			m.employees = append(m.employees[:i], m.employees[i+1:]...)
			return nil
		}
	}
	return payroll.ErrEmployeeNotFound
}

func (m *Memory) ListEmployees(_ context.Context) ([]payroll.Employee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]payroll.Employee, len(m.employees))
	copy(result, m.employees)
	return result, nil
}

// =============================================================================
// ACTIVITY
// =============================================================================

func (m *Memory) SaveTimeRecord(_ context.Context, r payroll.TimeRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.timeCards[r.EmployeeID] = insertByDate(m.timeCards[r.EmployeeID], r, func(r payroll.TimeRecord) int64 { return r.Date.Unix() })
	return nil
}

func (m *Memory) SaveSalesRecord(_ context.Context, r payroll.SalesRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sales[r.EmployeeID] = insertByDate(m.sales[r.EmployeeID], r, func(r payroll.SalesRecord) int64 { return r.Date.Unix() })
	return nil
}

func (m *Memory) ListTimeRecords(_ context.Context, id payroll.EmployeeID, w payroll.Window) ([]payroll.TimeRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []payroll.TimeRecord
	for _, r := range m.timeCards[id] {
		if w.Contains(r.Date) {
			result = append(result, r)
		}
	}
	return result, nil
}

func (m *Memory) ListSalesRecords(_ context.Context, id payroll.EmployeeID, w payroll.Window) ([]payroll.SalesRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []payroll.SalesRecord
	for _, r := range m.sales[id] {
		if w.Contains(r.Date) {
			result = append(result, r)
		}
	}
	return result, nil
}

// insertByDate keeps records ordered by date; equal dates keep insertion order.
func insertByDate[T any](records []T, r T, key func(T) int64) []T {
	i := sort.Search(len(records), func(i int) bool {
		return key(records[i]) > key(r)
	})
	var zero T
	records = append(records, zero)
	copy(records[i+1:], records[i:])
	records[i] = r
	return records
}

// =============================================================================
// DEDUCTIONS
// =============================================================================

func (m *Memory) SaveDeduction(_ context.Context, d payroll.DeductionRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.deductions[d.EmployeeID] = append(m.deductions[d.EmployeeID], d)
	return nil
}

// FindCurrentDeduction returns the most recently saved deduction.
func (m *Memory) FindCurrentDeduction(_ context.Context, id payroll.EmployeeID) (*payroll.DeductionRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ds := m.deductions[id]
	if len(ds) == 0 {
		return nil, nil
	}
	d := ds[len(ds)-1]
	return &d, nil
}

// =============================================================================
// PAYMENTS - Append-only
// =============================================================================

func (m *Memory) SavePayment(_ context.Context, p payroll.PaymentRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.payments = append(m.payments, p)
	return nil
}

// ListPayments returns payments in write order. An empty id lists all.
func (m *Memory) ListPayments(_ context.Context, id payroll.EmployeeID) ([]payroll.PaymentRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []payroll.PaymentRecord
	for _, p := range m.payments {
		if id == "" || p.EmployeeID == id {
			result = append(result, p)
		}
	}
	return result, nil
}

func (m *Memory) GetPayment(_ context.Context, id payroll.PaymentID) (*payroll.PaymentRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, p := range m.payments {
		if p.ID == id {
			p := p
			return &p, nil
		}
	}
	return nil, payroll.ErrPaymentNotFound
}
