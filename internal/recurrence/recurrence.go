// Package recurrence computes due-date advancement for recurring
// transactions.
package recurrence

import (
	"time"

	apperrors "finledger/internal/errors"
	"finledger/internal/models"
)

// NextDate returns the date exactly one frequency unit after d.
//
// Month and year steps are calendar-accurate: when the source day does not
// exist in the target month the result is clamped to the last valid day
// (Jan 31 + 1 month = Feb 29 in a leap year, Feb 28 otherwise). Go's
// time.AddDate would normalize Jan 31 + 1 month into March, which is the
// wrong behavior for a billing-style schedule.
func NextDate(d time.Time, frequency models.Frequency) (time.Time, error) {
	switch frequency {
	case models.FrequencyDaily:
		return d.AddDate(0, 0, 1), nil
	case models.FrequencyWeekly:
		return d.AddDate(0, 0, 7), nil
	case models.FrequencyMonthly:
		return addMonths(d, 1), nil
	case models.FrequencyYearly:
		return addMonths(d, 12), nil
	default:
		return time.Time{}, apperrors.ErrInvalidFrequency
	}
}

// addMonths advances d by n months, clamping the day of month to the length
// of the target month.
func addMonths(d time.Time, n int) time.Time {
	year, month, day := d.Date()
	m := int(month) + n
	year += (m - 1) / 12
	month = time.Month((m-1)%12 + 1)

	if last := daysIn(year, month); day > last {
		day = last
	}
	h, min, sec := d.Clock()
	return time.Date(year, month, day, h, min, sec, d.Nanosecond(), d.Location())
}

// daysIn returns the number of days in the given month.
func daysIn(year int, month time.Month) int {
	// Day 0 of the next month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
