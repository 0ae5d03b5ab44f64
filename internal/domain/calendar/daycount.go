package calendar

import (
	"fmt"
	"time"
)

// ---------------------------------------------------------------------------
// DayCountConvention – immutable value object
// ---------------------------------------------------------------------------

// DayCountConvention is the rule used to count days between two dates for
// interest accrual.
type DayCountConvention struct {
	value string
}

const (
	convThirty360    = "30/360"
	convActual360    = "ACTUAL/360"
	convActual365    = "ACTUAL/365"
	convActualActual = "ACTUAL/ACTUAL"
)

var (
	Thirty360    = DayCountConvention{value: convThirty360}
	Actual360    = DayCountConvention{value: convActual360}
	Actual365    = DayCountConvention{value: convActual365}
	ActualActual = DayCountConvention{value: convActualActual}
)

var validConventions = map[string]DayCountConvention{
	convThirty360:    Thirty360,
	convActual360:    Actual360,
	convActual365:    Actual365,
	convActualActual: ActualActual,
}

// NewDayCountConvention creates a DayCountConvention from a raw string.
func NewDayCountConvention(s string) (DayCountConvention, error) {
	c, ok := validConventions[s]
	if !ok {
		return DayCountConvention{}, fmt.Errorf("invalid day-count convention: %q", s)
	}
	return c, nil
}

// String returns the string representation of the convention.
func (c DayCountConvention) String() string { return c.value }

// IsZero returns true if the convention has not been initialised.
func (c DayCountConvention) IsZero() bool { return c.value == "" }

// Equal returns true when both conventions carry the same value.
func (c DayCountConvention) Equal(other DayCountConvention) bool {
	return c.value == other.value
}

// ---------------------------------------------------------------------------
// Day counting
// ---------------------------------------------------------------------------

// DayCount returns the number of accrual days from start to end under the
// given convention. It panics on an uninitialised convention; that indicates
// a caller/engine version mismatch, not bad user data.
//
// 30/360 applies the U.S. adjustment rule: a start day of 31 is clamped to
// 30, and the end day is clamped to 30 only when the start day was already
// at or clamped to 30. The actual conventions count calendar days.
func DayCount(start, end time.Time, c DayCountConvention) int {
	switch c.value {
	case convThirty360:
		return days360(start, end)
	case convActual360, convActual365, convActualActual:
		return actualDays(start, end)
	default:
		panic(fmt.Sprintf("calendar: unsupported day-count convention %q", c.value))
	}
}

// DaysInYear returns the accrual-year denominator for the convention.
// For ACTUAL/ACTUAL the denominator depends on whether the accrual year is a
// leap year, so the accrual start date must be supplied.
func DaysInYear(c DayCountConvention, accrualStart time.Time) int {
	switch c.value {
	case convThirty360, convActual360:
		return 360
	case convActual365:
		return 365
	case convActualActual:
		if isLeapYear(accrualStart.Year()) {
			return 366
		}
		return 365
	default:
		panic(fmt.Sprintf("calendar: unsupported day-count convention %q", c.value))
	}
}

func days360(start, end time.Time) int {
	y1, m1, d1 := start.Date()
	y2, m2, d2 := end.Date()

	if d1 == 31 {
		d1 = 30
	}
	if d2 == 31 && d1 >= 30 {
		d2 = 30
	}
	return (y2-y1)*360 + int(m2-m1)*30 + (d2 - d1)
}

func actualDays(start, end time.Time) int {
	s := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	e := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
	return int(e.Sub(s).Hours() / 24)
}

func isLeapYear(year int) bool {
	switch {
	case year%400 == 0:
		return true
	case year%100 == 0:
		return false
	default:
		return year%4 == 0
	}
}
