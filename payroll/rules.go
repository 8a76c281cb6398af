package payroll

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// ELIGIBILITY RULE
// =============================================================================

// IsPayDate reports whether employees of the given scheme are paid on date.
//
// Every scheme is currently due on every date. Weekly, end-of-month and
// biweekly calendars have never been implemented, so callers must not rely
// on any date filtering here.
//
// TODO: replace with per-scheme pay calendars (hourly on Fridays, salaried on
// the last weekday of the month, commissioned every other Friday).
func IsPayDate(kind SchemeKind, date time.Time) bool {
	return true
}

// =============================================================================
// PAY SCHEME RULES
// =============================================================================

var (
	overtimeThreshold  = decimal.NewFromInt(8)
	overtimeMultiplier = decimal.RequireFromString("1.5")
)

// Wage computes pay for one day's hours. Every 8-hour block past the first
// is paid at 1.5x the rate of the block before it:
//
//	Wage(10, 20) = 8*10 + 8*15 + 4*22.5 = 290
func Wage(rate, hours decimal.Decimal) decimal.Decimal {
	if hours.GreaterThan(overtimeThreshold) {
		return overtimeThreshold.Mul(rate).
			Add(Wage(rate.Mul(overtimeMultiplier), hours.Sub(overtimeThreshold)))
	}
	return hours.Mul(rate)
}

// HourlyGross sums Wage over each record independently; hours are never
// pooled across days.
func HourlyGross(rate decimal.Decimal, records []TimeRecord) decimal.Decimal {
	total := decimal.Zero
	for _, r := range records {
		total = total.Add(Wage(rate, r.Hours))
	}
	return total
}

// CommissionedGross is the base pay plus amount*rate for every sale.
func CommissionedGross(base, rate decimal.Decimal, sales []SalesRecord) decimal.Decimal {
	total := base
	for _, s := range sales {
		total = total.Add(decimal.NewFromInt(s.Amount).Mul(rate))
	}
	return total
}

// Activity holds the records fetched for one employee's lookback window.
type Activity struct {
	TimeRecords  []TimeRecord
	SalesRecords []SalesRecord
}

// GrossPay computes gross pay for emp from the activity in its window.
// Records that do not belong to the employee's scheme are ignored.
func GrossPay(emp Employee, act Activity) (decimal.Decimal, error) {
	switch s := emp.Scheme.(type) {
	case nil:
		return decimal.Zero, &MissingFieldError{EmployeeID: emp.ID, Field: "scheme"}
	case incompleteScheme:
		return decimal.Zero, &MissingFieldError{EmployeeID: emp.ID, Field: s.field}
	case Hourly:
		return HourlyGross(s.Rate, act.TimeRecords), nil
	case Salaried:
		return s.MonthlyPay, nil
	case Commissioned:
		return CommissionedGross(s.MonthlyPay, s.CommissionRate, act.SalesRecords), nil
	default:
		return decimal.Zero, fmt.Errorf("employee %s: %w: %T", emp.ID, ErrUnknownScheme, s)
	}
}

// =============================================================================
// DEDUCTION RULE
// =============================================================================

// ApplyDeduction subtracts the deduction from gross when one is present.
// The result is not floored at zero.
func ApplyDeduction(gross decimal.Decimal, d *DeductionRecord) decimal.Decimal {
	if d == nil {
		return gross
	}
	return gross.Sub(decimal.NewFromInt(d.Amount))
}
