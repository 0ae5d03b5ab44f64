// Package calendar provides the date arithmetic behind schedule generation:
// payment-frequency date stepping, period counting, and day-count
// conventions used for interest accrual.
package calendar

import (
	"fmt"
	"time"
)

// ---------------------------------------------------------------------------
// Frequency – immutable value object
// ---------------------------------------------------------------------------

// Frequency represents how often scheduled payments fall due.
type Frequency struct {
	value string
}

const (
	freqMonthly     = "MONTHLY"
	freqSemiMonthly = "SEMI_MONTHLY"
	freqBiWeekly    = "BI_WEEKLY"
	freqWeekly      = "WEEKLY"
	freqQuarterly   = "QUARTERLY"
	freqSemiAnnual  = "SEMI_ANNUAL"
	freqAnnual      = "ANNUAL"
)

var (
	FrequencyMonthly     = Frequency{value: freqMonthly}
	FrequencySemiMonthly = Frequency{value: freqSemiMonthly}
	FrequencyBiWeekly    = Frequency{value: freqBiWeekly}
	FrequencyWeekly      = Frequency{value: freqWeekly}
	FrequencyQuarterly   = Frequency{value: freqQuarterly}
	FrequencySemiAnnual  = Frequency{value: freqSemiAnnual}
	FrequencyAnnual      = Frequency{value: freqAnnual}
)

var validFrequencies = map[string]Frequency{
	freqMonthly:     FrequencyMonthly,
	freqSemiMonthly: FrequencySemiMonthly,
	freqBiWeekly:    FrequencyBiWeekly,
	freqWeekly:      FrequencyWeekly,
	freqQuarterly:   FrequencyQuarterly,
	freqSemiAnnual:  FrequencySemiAnnual,
	freqAnnual:      FrequencyAnnual,
}

// NewFrequency creates a Frequency from a raw string.
func NewFrequency(s string) (Frequency, error) {
	f, ok := validFrequencies[s]
	if !ok {
		return Frequency{}, fmt.Errorf("invalid payment frequency: %q", s)
	}
	return f, nil
}

// String returns the string representation of the frequency.
func (f Frequency) String() string { return f.value }

// IsZero returns true if the frequency has not been initialised.
func (f Frequency) IsZero() bool { return f.value == "" }

// Equal returns true when both frequencies carry the same value.
func (f Frequency) Equal(other Frequency) bool { return f.value == other.value }

// PeriodsPerYear returns the number of payment periods in one year.
// It panics on an uninitialised frequency.
func (f Frequency) PeriodsPerYear() int {
	switch f.value {
	case freqMonthly:
		return 12
	case freqSemiMonthly:
		return 24
	case freqBiWeekly:
		return 26
	case freqWeekly:
		return 52
	case freqQuarterly:
		return 4
	case freqSemiAnnual:
		return 2
	case freqAnnual:
		return 1
	default:
		panic(fmt.Sprintf("calendar: unsupported payment frequency %q", f.value))
	}
}

// ---------------------------------------------------------------------------
// Date stepping and period counting
// ---------------------------------------------------------------------------

// StepDate advances a due date by one payment period.
//
// Monthly, quarterly, semi-annual and annual stepping is month-end aware: a
// date that is the last day of its month lands on the last day of the target
// month (Jan 31 + 1 month = Feb 28/29, never Mar 3). Weekly and bi-weekly
// stepping adds a fixed 7/14 calendar days. Semi-monthly alternates between
// the 15th and the 1st of the following month.
func StepDate(date time.Time, f Frequency) time.Time {
	switch f.value {
	case freqMonthly:
		return addMonthsEndAware(date, 1)
	case freqQuarterly:
		return addMonthsEndAware(date, 3)
	case freqSemiAnnual:
		return addMonthsEndAware(date, 6)
	case freqAnnual:
		return addMonthsEndAware(date, 12)
	case freqBiWeekly:
		return date.AddDate(0, 0, 14)
	case freqWeekly:
		return date.AddDate(0, 0, 7)
	case freqSemiMonthly:
		return stepSemiMonthly(date)
	default:
		panic(fmt.Sprintf("calendar: unsupported payment frequency %q", f.value))
	}
}

// CountPeriods converts a term expressed in months to the number of payment
// periods at the given frequency.
func CountPeriods(termMonths int, f Frequency) int {
	switch f.value {
	case freqMonthly:
		return termMonths
	case freqSemiMonthly:
		return termMonths * 2
	case freqBiWeekly:
		return int(float64(termMonths) * 365.25 / 12.0 / 14.0)
	case freqWeekly:
		return int(float64(termMonths) * 365.25 / 12.0 / 7.0)
	case freqQuarterly:
		return ceilDiv(termMonths, 3)
	case freqSemiAnnual:
		return ceilDiv(termMonths, 6)
	case freqAnnual:
		return ceilDiv(termMonths, 12)
	default:
		panic(fmt.Sprintf("calendar: unsupported payment frequency %q", f.value))
	}
}

// MonthsBetween returns the number of whole months from start to end,
// rounding partial months up. Used to express an effective term for
// schedules whose final payment falls beyond the nominal maturity.
func MonthsBetween(start, end time.Time) int {
	if !end.After(start) {
		return 0
	}
	months := (end.Year()-start.Year())*12 + int(end.Month()) - int(start.Month())
	if end.Day() > start.Day() {
		months++
	}
	if months < 1 {
		months = 1
	}
	return months
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

func addMonthsEndAware(date time.Time, months int) time.Time {
	y, m, d := date.Date()
	firstOfTarget := time.Date(y, m, 1, 0, 0, 0, 0, date.Location()).AddDate(0, months, 0)
	lastOfTarget := daysInMonth(firstOfTarget.Year(), firstOfTarget.Month())

	day := d
	if d == daysInMonth(y, m) || d > lastOfTarget {
		day = lastOfTarget
	}
	return time.Date(firstOfTarget.Year(), firstOfTarget.Month(), day, 0, 0, 0, 0, date.Location())
}

func stepSemiMonthly(date time.Time) time.Time {
	y, m, d := date.Date()
	if d >= 15 {
		first := time.Date(y, m, 1, 0, 0, 0, 0, date.Location()).AddDate(0, 1, 0)
		return first
	}
	return time.Date(y, m, 15, 0, 0, 0, 0, date.Location())
}

func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, -1).Day()
}
