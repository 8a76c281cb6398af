package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/payroll-engine/payroll"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

var payDate = payroll.Date(2025, time.March, 14)

func TestEmployees_RoundTripEveryScheme(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	emps := []payroll.Employee{
		{ID: "h", Name: "Elsa", Address: "Berlin", Scheme: payroll.Hourly{Rate: d("10.25")}, Method: payroll.MethodHeldByManager},
		{ID: "s", Name: "Olaf", Address: "Arendelle", Scheme: payroll.Salaried{MonthlyPay: d("3000")}, Method: payroll.MethodMail},
		{ID: "c", Name: "Kenny", Address: "NY", Scheme: payroll.Commissioned{MonthlyPay: d("1000"), CommissionRate: d("0.01")}, Method: payroll.MethodDirect},
	}
	for _, e := range emps {
		require.NoError(t, store.SaveEmployee(ctx, e))
	}

	got, err := store.ListEmployees(ctx)
	require.NoError(t, err)
	require.Len(t, got, 3)

	for i, e := range emps {
		assert.Equal(t, e.ID, got[i].ID, "enrollment order is kept")
		assert.Equal(t, e.Method, got[i].Method)
		assert.Equal(t, e.SchemeKind(), got[i].SchemeKind())
	}
	assert.True(t, got[0].Scheme.(payroll.Hourly).Rate.Equal(d("10.25")))
	c := got[2].Scheme.(payroll.Commissioned)
	assert.True(t, c.MonthlyPay.Equal(d("1000")))
	assert.True(t, c.CommissionRate.Equal(d("0.01")))

	one, err := store.GetEmployee(ctx, "s")
	require.NoError(t, err)
	require.NotNil(t, one)
	assert.Equal(t, "Arendelle", one.Address)

	missing, err := store.GetEmployee(ctx, "nobody")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestEmployees_MissingSchemeColumnIsListed(t *testing.T) {
	// GIVEN: An hourly row written without its rate
	store := newTestStore(t)
	ctx := context.Background()
	insertEmployeeWithoutRate(t, store, "bad")

	// WHEN: Listing employees
	emps, err := store.ListEmployees(ctx)

	// THEN: The row is listed and keeps its kind
	require.NoError(t, err)
	require.Len(t, emps, 1)
	assert.Equal(t, payroll.SchemeHourly, emps[0].SchemeKind())

	// AND: Computing its pay names the missing field
	_, err = payroll.GrossPay(emps[0], payroll.Activity{})
	var missing *payroll.MissingFieldError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, payroll.EmployeeID("bad"), missing.EmployeeID)
	assert.Equal(t, "hourly_rate", missing.Field)
}

func TestPayday_IncompleteRowAbortsAtThatEmployee(t *testing.T) {
	// GIVEN: A valid employee, an hourly one without a rate, then another valid one
	store := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.SaveEmployee(ctx, payroll.Employee{
		ID: "first", Name: "F", Address: "A", Scheme: payroll.Salaried{MonthlyPay: d("1000")}, Method: payroll.MethodDirect,
	}))
	insertEmployeeWithoutRate(t, store, "broken")
	require.NoError(t, store.SaveEmployee(ctx, payroll.Employee{
		ID: "last", Name: "L", Address: "A", Scheme: payroll.Salaried{MonthlyPay: d("1000")}, Method: payroll.MethodDirect,
	}))

	// WHEN: Running payday
	run, err := payroll.NewEngine(payroll.CollaboratorsFrom(store)).Payday(ctx, payDate)

	// THEN: The run fails naming the broken employee and field
	var paydayErr *payroll.PaydayError
	require.ErrorAs(t, err, &paydayErr)
	assert.Equal(t, payroll.EmployeeID("broken"), paydayErr.EmployeeID)
	var missing *payroll.MissingFieldError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "hourly_rate", missing.Field)

	// AND: The earlier payment is kept, the later employee is never paid
	assert.Len(t, run.Payments, 1)
	first, err := store.ListPayments(ctx, "first")
	require.NoError(t, err)
	assert.Len(t, first, 1)
	last, err := store.ListPayments(ctx, "last")
	require.NoError(t, err)
	assert.Empty(t, last)
}

func insertEmployeeWithoutRate(t *testing.T, store *Store, id string) {
	t.Helper()
	_, err := store.db.Exec(`
		INSERT INTO employees (id, name, address, scheme, method, created_at)
		VALUES (?, 'Bad', 'Nowhere', 'hourly', 'direct', '2025-01-01T00:00:00.000000000Z')
	`, id)
	require.NoError(t, err)
}

func TestCorruptRowsAreReported(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.db.Exec(`INSERT INTO deductions (id, employee_id, amount, created_at) VALUES ('d', 's', 10, 'yesterday')`)
	require.NoError(t, err)
	_, err = store.FindCurrentDeduction(ctx, "s")
	assert.ErrorContains(t, err, "deduction d")

	_, err = store.db.Exec(`INSERT INTO payday_runs (id, pay_date, status, total_net, started_at) VALUES ('r', '2025-03-14', 'completed', 'lots', '2025-03-14T06:00:00.000000000Z')`)
	require.NoError(t, err)
	_, err = store.ListRuns(ctx, 10)
	assert.ErrorContains(t, err, "payday run r")
}

func TestDeleteEmployee(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.SaveEmployee(ctx, payroll.Employee{
		ID: "s", Name: "Olaf", Address: "A", Scheme: payroll.Salaried{MonthlyPay: d("1")}, Method: payroll.MethodMail,
	}))

	require.NoError(t, store.DeleteEmployee(ctx, "s"))
	assert.ErrorIs(t, store.DeleteEmployee(ctx, "s"), payroll.ErrEmployeeNotFound)
}

func TestTimeRecords_HalfOpenWindow(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	for i, offset := range []int{-8, -7, -1, 0} {
		require.NoError(t, store.SaveTimeRecord(ctx, payroll.TimeRecord{
			ID:         payroll.RecordID(rune('a' + i)),
			EmployeeID: "h",
			Date:       payDate.AddDate(0, 0, offset),
			Hours:      d("7.5"),
		}))
	}

	w, _ := payroll.LookbackWindow(payroll.SchemeHourly, payDate)
	recs, err := store.ListTimeRecords(ctx, "h", w)
	require.NoError(t, err)

	require.Len(t, recs, 2)
	assert.Equal(t, payDate.AddDate(0, 0, -7), recs[0].Date)
	assert.Equal(t, payDate.AddDate(0, 0, -1), recs[1].Date)
	assert.True(t, recs[0].Hours.Equal(d("7.5")))

	other, err := store.ListTimeRecords(ctx, "someone-else", w)
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestSalesRecords_HalfOpenWindow(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	for i, offset := range []int{-15, -14, -3} {
		require.NoError(t, store.SaveSalesRecord(ctx, payroll.SalesRecord{
			ID:         payroll.RecordID(rune('a' + i)),
			EmployeeID: "c",
			Date:       payDate.AddDate(0, 0, offset),
			Amount:     int64(100 * (i + 1)),
		}))
	}

	w, _ := payroll.LookbackWindow(payroll.SchemeCommissioned, payDate)
	recs, err := store.ListSalesRecords(ctx, "c", w)
	require.NoError(t, err)

	require.Len(t, recs, 2)
	assert.Equal(t, int64(200), recs[0].Amount)
	assert.Equal(t, int64(300), recs[1].Amount)
}

func TestDeductions_LatestIsCurrent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	none, err := store.FindCurrentDeduction(ctx, "s")
	require.NoError(t, err)
	assert.Nil(t, none)

	t0 := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	require.NoError(t, store.SaveDeduction(ctx, payroll.DeductionRecord{ID: "d1", EmployeeID: "s", Amount: 10, CreatedAt: t0}))
	require.NoError(t, store.SaveDeduction(ctx, payroll.DeductionRecord{ID: "d2", EmployeeID: "s", Amount: 25, CreatedAt: t0.Add(time.Minute)}))

	cur, err := store.FindCurrentDeduction(ctx, "s")
	require.NoError(t, err)
	require.NotNil(t, cur)
	assert.Equal(t, payroll.RecordID("d2"), cur.ID)
	assert.Equal(t, int64(25), cur.Amount)
	assert.True(t, cur.CreatedAt.Equal(t0.Add(time.Minute)))
}

func TestPayments_AppendAndRead(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	p := payroll.PaymentRecord{
		ID: "p1", EmployeeID: "c", Gross: d("1005.5"), Deduction: d("10"), Net: d("995.5"),
		Method: payroll.MethodDirect, PaymentDate: payDate,
	}
	require.NoError(t, store.SavePayment(ctx, p))
	require.NoError(t, store.SavePayment(ctx, payroll.PaymentRecord{
		ID: "p2", EmployeeID: "h", Gross: d("0"), Deduction: d("5"), Net: d("-5"),
		Method: payroll.MethodMail, PaymentDate: payDate,
	}))

	got, err := store.GetPayment(ctx, "p1")
	require.NoError(t, err)
	assert.True(t, got.Net.Equal(d("995.5")))
	assert.True(t, got.Gross.Equal(d("1005.5")))
	assert.Equal(t, payroll.MethodDirect, got.Method)
	assert.Equal(t, payDate, got.PaymentDate)

	_, err = store.GetPayment(ctx, "nope")
	assert.ErrorIs(t, err, payroll.ErrPaymentNotFound)

	forC, err := store.ListPayments(ctx, "c")
	require.NoError(t, err)
	assert.Len(t, forC, 1)

	all, err := store.ListPayments(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	// Duplicate IDs are rejected: payments are never overwritten
	assert.Error(t, store.SavePayment(ctx, p))
}

func TestPaydayRuns(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	started := time.Date(2025, 3, 14, 6, 0, 0, 0, time.UTC)

	done, err := store.HasCompletedRun(ctx, payDate)
	require.NoError(t, err)
	assert.False(t, done)

	run := PaydayRun{ID: "run-1", PayDate: payDate, StartedAt: started}
	require.NoError(t, store.StartRun(ctx, run))

	done, err = store.HasCompletedRun(ctx, payDate)
	require.NoError(t, err)
	assert.False(t, done, "running is not completed")

	run.Status = RunCompleted
	run.Payments = 3
	run.TotalNet = d("4200.5")
	require.NoError(t, store.FinishRun(ctx, run))

	done, err = store.HasCompletedRun(ctx, payDate)
	require.NoError(t, err)
	assert.True(t, done)

	runs, err := store.ListRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, RunCompleted, runs[0].Status)
	assert.Equal(t, 3, runs[0].Payments)
	assert.True(t, runs[0].TotalNet.Equal(d("4200.5")))
	assert.Equal(t, payDate, runs[0].PayDate)
	assert.NotNil(t, runs[0].CompletedAt)
	assert.Empty(t, runs[0].Error)
}

func TestEngineOverSQLite(t *testing.T) {
	// GIVEN: One employee per scheme in SQLite
	store := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.SaveEmployee(ctx, payroll.Employee{ID: "h", Name: "H", Address: "A", Scheme: payroll.Hourly{Rate: d("10")}, Method: payroll.MethodHeldByManager}))
	require.NoError(t, store.SaveEmployee(ctx, payroll.Employee{ID: "s", Name: "S", Address: "A", Scheme: payroll.Salaried{MonthlyPay: d("3000")}, Method: payroll.MethodMail}))
	require.NoError(t, store.SaveEmployee(ctx, payroll.Employee{ID: "c", Name: "C", Address: "A", Scheme: payroll.Commissioned{MonthlyPay: d("1000"), CommissionRate: d("0.01")}, Method: payroll.MethodDirect}))
	require.NoError(t, store.SaveTimeRecord(ctx, payroll.TimeRecord{ID: "t1", EmployeeID: "h", Date: payDate.AddDate(0, 0, -1), Hours: d("20")}))
	require.NoError(t, store.SaveTimeRecord(ctx, payroll.TimeRecord{ID: "t2", EmployeeID: "h", Date: payDate.AddDate(0, 0, -8), Hours: d("8")}))
	for i, amt := range []int64{100, 200, 250} {
		require.NoError(t, store.SaveSalesRecord(ctx, payroll.SalesRecord{ID: payroll.RecordID(rune('x' + i)), EmployeeID: "c", Date: payDate.AddDate(0, 0, -i-1), Amount: amt}))
	}
	require.NoError(t, store.SaveDeduction(ctx, payroll.DeductionRecord{ID: "d", EmployeeID: "c", Amount: 10}))

	// WHEN: Running payday
	run, err := payroll.NewEngine(payroll.CollaboratorsFrom(store)).Payday(ctx, payDate)
	require.NoError(t, err)

	// THEN: One payment each, persisted with exact amounts
	assert.Len(t, run.Payments, 3)
	want := map[payroll.EmployeeID]string{"h": "290", "s": "3000", "c": "995.5"}
	for id, net := range want {
		ps, err := store.ListPayments(ctx, id)
		require.NoError(t, err)
		require.Len(t, ps, 1)
		assert.True(t, ps[0].Net.Equal(d(net)), "%s: want %s, got %s", id, net, ps[0].Net)
		assert.Equal(t, payDate, ps[0].PaymentDate)
	}
}
