package enrollment_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/payroll-engine/enrollment"
	"github.com/warp/payroll-engine/payroll"
	"github.com/warp/payroll-engine/payroll/store"
)

func newTestService(t *testing.T) (*enrollment.Service, *store.Memory) {
	t.Helper()
	mem := store.NewMemory()
	n := 0
	svc := enrollment.NewService(mem, enrollment.WithIDGenerator(func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}))
	return svc, mem
}

func amount(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

var day = payroll.Date(2025, time.March, 10)

func TestAddEmployee_PerScheme(t *testing.T) {
	svc, mem := newTestService(t)
	ctx := context.Background()

	h, err := svc.AddEmployee(ctx, enrollment.EmployeeRequest{
		Name: "Elsa", Address: "Berlin", Scheme: payroll.SchemeHourly,
		Method: payroll.MethodHeldByManager, HourlyRate: amount("10"),
	})
	require.NoError(t, err)
	assert.Equal(t, payroll.Hourly{Rate: decimal.RequireFromString("10")}, h.Scheme)

	s, err := svc.AddEmployee(ctx, enrollment.EmployeeRequest{
		Name: "Olaf", Address: "Arendelle", Scheme: payroll.SchemeSalaried,
		Method: payroll.MethodMail, MonthlyPay: amount("3000"),
	})
	require.NoError(t, err)
	assert.Equal(t, payroll.SchemeSalaried, s.SchemeKind())

	c, err := svc.AddEmployee(ctx, enrollment.EmployeeRequest{
		Name: "Kenny", Address: "NY", Scheme: payroll.SchemeCommissioned,
		Method: payroll.MethodDirect, MonthlyPay: amount("1000"), CommissionRate: amount("0.01"),
	})
	require.NoError(t, err)
	assert.Equal(t, payroll.SchemeCommissioned, c.SchemeKind())

	all, err := mem.ListEmployees(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
	assert.Equal(t, payroll.EmployeeID("id-1"), all[0].ID)
}

func TestAddEmployee_MissingRequiredField(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		req   enrollment.EmployeeRequest
		field string
	}{
		{"hourly without rate", enrollment.EmployeeRequest{Scheme: payroll.SchemeHourly}, "hourly_rate"},
		{"salaried without monthly pay", enrollment.EmployeeRequest{Scheme: payroll.SchemeSalaried}, "monthly_pay"},
		{"commissioned without base", enrollment.EmployeeRequest{Scheme: payroll.SchemeCommissioned, CommissionRate: amount("0.1")}, "monthly_pay"},
		{"commissioned without rate", enrollment.EmployeeRequest{Scheme: payroll.SchemeCommissioned, MonthlyPay: amount("100")}, "commission_rate"},
		{"no scheme", enrollment.EmployeeRequest{}, "scheme"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.req.Name, tt.req.Address, tt.req.Method = "A", "B", payroll.MethodDirect
			_, err := svc.AddEmployee(ctx, tt.req)

			var missing *payroll.MissingFieldError
			require.ErrorAs(t, err, &missing)
			assert.Equal(t, tt.field, missing.Field)
		})
	}
}

func TestAddEmployee_RejectsFieldsOfOtherSchemes(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.AddEmployee(context.Background(), enrollment.EmployeeRequest{
		Name: "A", Address: "B", Scheme: payroll.SchemeSalaried, Method: payroll.MethodDirect,
		MonthlyPay: amount("100"), HourlyRate: amount("10"),
	})

	assert.ErrorIs(t, err, payroll.ErrInvalidRecord)
}

func TestAddEmployee_InvalidInput(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	base := enrollment.EmployeeRequest{
		Name: "A", Address: "B", Scheme: payroll.SchemeHourly, Method: payroll.MethodDirect, HourlyRate: amount("10"),
	}

	noName := base
	noName.Name = " "
	_, err := svc.AddEmployee(ctx, noName)
	assert.ErrorIs(t, err, payroll.ErrInvalidRecord)

	badMethod := base
	badMethod.Method = "pigeon"
	_, err = svc.AddEmployee(ctx, badMethod)
	assert.ErrorIs(t, err, payroll.ErrInvalidRecord)

	noMethod := base
	noMethod.Method = ""
	_, err = svc.AddEmployee(ctx, noMethod)
	assert.ErrorIs(t, err, payroll.ErrMissingField)

	negative := base
	negative.HourlyRate = amount("-1")
	_, err = svc.AddEmployee(ctx, negative)
	assert.ErrorIs(t, err, payroll.ErrInvalidRecord)
}

func TestAddTimeRecord(t *testing.T) {
	svc, mem := newTestService(t)
	ctx := context.Background()
	h, err := svc.AddEmployee(ctx, enrollment.EmployeeRequest{
		Name: "Elsa", Address: "Berlin", Scheme: payroll.SchemeHourly,
		Method: payroll.MethodDirect, HourlyRate: amount("10"),
	})
	require.NoError(t, err)
	s, err := svc.AddEmployee(ctx, enrollment.EmployeeRequest{
		Name: "Olaf", Address: "Arendelle", Scheme: payroll.SchemeSalaried,
		Method: payroll.MethodDirect, MonthlyPay: amount("10"),
	})
	require.NoError(t, err)

	// Hourly employee: accepted, date truncated to the day
	r, err := svc.AddTimeRecord(ctx, h.ID, day.Add(17*time.Hour), decimal.NewFromInt(6))
	require.NoError(t, err)
	assert.Equal(t, day, r.Date)

	recs, err := mem.ListTimeRecords(ctx, h.ID, payroll.Window{From: day, To: day.AddDate(0, 0, 1)})
	require.NoError(t, err)
	assert.Len(t, recs, 1)

	// Salaried employee: wrong scheme
	_, err = svc.AddTimeRecord(ctx, s.ID, day, decimal.NewFromInt(6))
	assert.ErrorIs(t, err, payroll.ErrWrongScheme)

	// Unknown employee
	_, err = svc.AddTimeRecord(ctx, "ghost", day, decimal.NewFromInt(6))
	assert.ErrorIs(t, err, payroll.ErrEmployeeNotFound)

	// Negative hours
	_, err = svc.AddTimeRecord(ctx, h.ID, day, decimal.NewFromInt(-1))
	assert.ErrorIs(t, err, payroll.ErrInvalidRecord)
}

func TestAddSalesRecord(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	c, err := svc.AddEmployee(ctx, enrollment.EmployeeRequest{
		Name: "Kenny", Address: "NY", Scheme: payroll.SchemeCommissioned,
		Method: payroll.MethodDirect, MonthlyPay: amount("1000"), CommissionRate: amount("0.01"),
	})
	require.NoError(t, err)
	h, err := svc.AddEmployee(ctx, enrollment.EmployeeRequest{
		Name: "Elsa", Address: "Berlin", Scheme: payroll.SchemeHourly,
		Method: payroll.MethodDirect, HourlyRate: amount("10"),
	})
	require.NoError(t, err)

	_, err = svc.AddSalesRecord(ctx, c.ID, day, 250)
	assert.NoError(t, err)

	_, err = svc.AddSalesRecord(ctx, h.ID, day, 250)
	assert.ErrorIs(t, err, payroll.ErrWrongScheme)

	_, err = svc.AddSalesRecord(ctx, c.ID, day, -5)
	assert.ErrorIs(t, err, payroll.ErrInvalidRecord)
}

func TestAddDeduction_LatestIsCurrent(t *testing.T) {
	svc, mem := newTestService(t)
	ctx := context.Background()
	s, err := svc.AddEmployee(ctx, enrollment.EmployeeRequest{
		Name: "Olaf", Address: "Arendelle", Scheme: payroll.SchemeSalaried,
		Method: payroll.MethodDirect, MonthlyPay: amount("10"),
	})
	require.NoError(t, err)

	_, err = svc.AddDeduction(ctx, s.ID, 10)
	require.NoError(t, err)
	_, err = svc.AddDeduction(ctx, s.ID, 15)
	require.NoError(t, err)

	d, err := mem.FindCurrentDeduction(ctx, s.ID)
	require.NoError(t, err)
	require.NotNil(t, d)
	assert.Equal(t, int64(15), d.Amount)

	_, err = svc.AddDeduction(ctx, "ghost", 10)
	assert.ErrorIs(t, err, payroll.ErrEmployeeNotFound)
}

func TestDeleteEmployee(t *testing.T) {
	svc, mem := newTestService(t)
	ctx := context.Background()
	s, err := svc.AddEmployee(ctx, enrollment.EmployeeRequest{
		Name: "Olaf", Address: "Arendelle", Scheme: payroll.SchemeSalaried,
		Method: payroll.MethodDirect, MonthlyPay: amount("10"),
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteEmployee(ctx, s.ID))

	all, err := mem.ListEmployees(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	_, err = svc.GetEmployee(ctx, s.ID)
	assert.True(t, payroll.IsNotFound(err))
	assert.ErrorIs(t, svc.DeleteEmployee(ctx, s.ID), payroll.ErrEmployeeNotFound)
}
