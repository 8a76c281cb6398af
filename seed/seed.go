/*
Package seed fills a payroll database with fake but valid demo data.

PURPOSE:
  Gives a fresh install something to pay. Employees are spread evenly over
  the three pay schemes and receive activity inside the lookback window of
  the given pay date, so the next payday produces non-trivial payments.

GENERATION:
  employee i % 3 == 0  -> hourly, 5 time records in the last 7 days
  employee i % 3 == 1  -> salaried
  employee i % 3 == 2  -> commissioned, 3 sales in the last 14 days
  every second employee gets a standing deduction

  Everything goes through enrollment.Service so seeded data passes the
  same validation as data entered through the API.
*/
package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit"
	"github.com/shopspring/decimal"

	"github.com/warp/payroll-engine/enrollment"
	"github.com/warp/payroll-engine/payroll"
)

// Enroller is the subset of enrollment.Service the generator needs.
type Enroller interface {
	AddEmployee(ctx context.Context, req enrollment.EmployeeRequest) (payroll.Employee, error)
	AddTimeRecord(ctx context.Context, id payroll.EmployeeID, date time.Time, hours decimal.Decimal) (payroll.TimeRecord, error)
	AddSalesRecord(ctx context.Context, id payroll.EmployeeID, date time.Time, amount int64) (payroll.SalesRecord, error)
	AddDeduction(ctx context.Context, id payroll.EmployeeID, amount int64) (payroll.DeductionRecord, error)
}

type Options struct {
	Employees int
	// PayDate anchors the activity windows. Defaults to today.
	PayDate time.Time
	// Seed makes the output reproducible when non-zero.
	Seed int64
}

// Summary counts what Generate created.
type Summary struct {
	Employees    int
	TimeRecords  int
	SalesRecords int
	Deductions   int
}

var methods = []payroll.DisbursementMethod{
	payroll.MethodHeldByManager,
	payroll.MethodDirect,
	payroll.MethodMail,
}

// Generate enrolls opts.Employees fake employees with activity.
func Generate(ctx context.Context, svc Enroller, opts Options) (Summary, error) {
	var sum Summary
	if opts.Employees <= 0 {
		return sum, nil
	}
	if opts.Seed != 0 {
		gofakeit.Seed(opts.Seed)
	}
	payDate := payroll.Day(opts.PayDate)
	if opts.PayDate.IsZero() {
		payDate = payroll.Today()
	}

	for i := 0; i < opts.Employees; i++ {
		req := enrollment.EmployeeRequest{
			Name:    gofakeit.Name(),
			Address: fmt.Sprintf("%s, %s", gofakeit.Street(), gofakeit.City()),
			Method:  methods[i%len(methods)],
		}
		switch i % 3 {
		case 0:
			req.Scheme = payroll.SchemeHourly
			req.HourlyRate = money(gofakeit.Number(12, 45))
		case 1:
			req.Scheme = payroll.SchemeSalaried
			req.MonthlyPay = money(gofakeit.Number(2500, 7000))
		default:
			req.Scheme = payroll.SchemeCommissioned
			req.MonthlyPay = money(gofakeit.Number(1200, 3000))
			rate := decimal.New(int64(gofakeit.Number(1, 10)), -2)
			req.CommissionRate = &rate
		}

		emp, err := svc.AddEmployee(ctx, req)
		if err != nil {
			return sum, fmt.Errorf("failed to seed employee %d: %w", i, err)
		}
		sum.Employees++

		switch req.Scheme {
		case payroll.SchemeHourly:
			for day := 1; day <= 5; day++ {
				hours := decimal.NewFromInt(int64(gofakeit.Number(4, 11)))
				if _, err := svc.AddTimeRecord(ctx, emp.ID, payDate.AddDate(0, 0, -day), hours); err != nil {
					return sum, fmt.Errorf("failed to seed time record: %w", err)
				}
				sum.TimeRecords++
			}
		case payroll.SchemeCommissioned:
			for n := 0; n < 3; n++ {
				date := payDate.AddDate(0, 0, -gofakeit.Number(1, payroll.CommissionLookbackDays))
				if _, err := svc.AddSalesRecord(ctx, emp.ID, date, int64(gofakeit.Number(100, 5000))); err != nil {
					return sum, fmt.Errorf("failed to seed sales record: %w", err)
				}
				sum.SalesRecords++
			}
		}

		if i%2 == 1 {
			if _, err := svc.AddDeduction(ctx, emp.ID, int64(gofakeit.Number(5, 60))); err != nil {
				return sum, fmt.Errorf("failed to seed deduction: %w", err)
			}
			sum.Deductions++
		}
	}
	return sum, nil
}

func money(n int) *decimal.Decimal {
	d := decimal.NewFromInt(int64(n))
	return &d
}
