package payroll

import (
	"time"
)

// DateLayout is the calendar-date format used on the wire and in storage.
const DateLayout = "2006-01-02"

const (
	// HourlyLookbackDays is how far back time records count toward one payday.
	HourlyLookbackDays = 7
	// CommissionLookbackDays is how far back sales count toward one payday.
	CommissionLookbackDays = 14
)

// Date returns midnight UTC of the given calendar day.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Day truncates t to its calendar day in UTC.
func Day(t time.Time) time.Time {
	t = t.UTC()
	return Date(t.Year(), t.Month(), t.Day())
}

// Today returns the current calendar day.
func Today() time.Time {
	return Day(time.Now())
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	return Day(t), nil
}

// =============================================================================
// WINDOW - Half-open range of activity considered by one payday
// =============================================================================

// Window is the half-open date range [From, To).
type Window struct {
	From time.Time
	To   time.Time
}

// Contains reports whether t's calendar day falls in [From, To).
func (w Window) Contains(t time.Time) bool {
	d := Day(t)
	return !d.Before(Day(w.From)) && d.Before(Day(w.To))
}

func (w Window) String() string {
	return "[" + w.From.Format(DateLayout) + ", " + w.To.Format(DateLayout) + ")"
}

// LookbackWindow returns the activity window for a scheme on payDate.
// Salaried pay reads no activity, so ok is false for it.
func LookbackWindow(kind SchemeKind, payDate time.Time) (w Window, ok bool) {
	payDate = Day(payDate)
	switch kind {
	case SchemeHourly:
		return Window{From: payDate.AddDate(0, 0, -HourlyLookbackDays), To: payDate}, true
	case SchemeCommissioned:
		return Window{From: payDate.AddDate(0, 0, -CommissionLookbackDays), To: payDate}, true
	default:
		return Window{}, false
	}
}
