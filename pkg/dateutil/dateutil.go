package dateutil

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateOnly truncates t to midnight in its own location. All due-date
// comparisons are date-only.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// AddMonths returns t shifted by the given number of calendar months.
func AddMonths(t time.Time, months int) time.Time {
	return t.AddDate(0, months, 0)
}

// IsPastDue reports whether due falls strictly before today. A payment due
// exactly today is not past due.
func IsPastDue(due, today time.Time) bool {
	return DateOnly(due).Before(DateOnly(today))
}

// WithinDays reports whether due falls on or after today and no more than
// days days ahead.
func WithinDays(due, today time.Time, days int) bool {
	d := DateOnly(due)
	n := DateOnly(today)
	return !d.Before(n) && !d.After(n.AddDate(0, 0, days))
}

// SameDate reports whether a and b fall on the same calendar date.
func SameDate(a, b time.Time) bool {
	return DateOnly(a).Equal(DateOnly(b))
}

// SplitAmount divides total into equal installments, rounded to 2 decimal
// places for currency.
func SplitAmount(total decimal.Decimal, installments int) decimal.Decimal {
	if installments <= 0 {
		return total
	}
	return total.Div(decimal.NewFromInt(int64(installments))).Round(2)
}
