package service

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/LendPeak/LendPeak2-sub000/internal/domain/calendar"
	"github.com/LendPeak/LendPeak2-sub000/pkg/money"
)

// ---------------------------------------------------------------------------
// InterestCalculator – standalone and per-period accrual
// ---------------------------------------------------------------------------

// InterestCalculator provides simple and compound interest plus day-level
// accrual under the supported day-count conventions. Every monetary result
// passes through the rounding config before being returned.
type InterestCalculator struct{}

// NewInterestCalculator returns a new calculator instance.
func NewInterestCalculator() *InterestCalculator {
	return &InterestCalculator{}
}

// SimpleInterest returns principal * rate * years.
func (c *InterestCalculator) SimpleInterest(
	principal, annualRate, years decimal.Decimal,
	cfg money.RoundingConfig,
) decimal.Decimal {
	interest := principal.Mul(money.Percent(annualRate)).Mul(years)
	return money.Round(interest, cfg)
}

// CompoundInterest returns the interest earned when compounding at the given
// frequency: P * ((1 + r/m)^n - 1) with n whole compounding periods over the
// term (partial trailing periods do not compound).
func (c *InterestCalculator) CompoundInterest(
	principal, annualRate, years decimal.Decimal,
	compoundsPerYear int,
	cfg money.RoundingConfig,
) decimal.Decimal {
	if compoundsPerYear <= 0 {
		return money.Round(decimal.Zero, cfg)
	}
	m := decimal.NewFromInt(int64(compoundsPerYear))
	periods := years.Mul(m).IntPart()
	if periods <= 0 {
		return money.Round(decimal.Zero, cfg)
	}

	ratePerPeriod := money.Percent(annualRate).Div(m)
	factor := one.Add(ratePerPeriod).Pow(decimal.NewFromInt(periods))
	return money.Round(principal.Mul(factor.Sub(one)), cfg)
}

// DailyInterest returns one day of interest on the balance. The denominator
// follows the day-count convention; for ACTUAL/ACTUAL it depends on whether
// the accrual date falls in a leap year.
func (c *InterestCalculator) DailyInterest(
	balance, annualRate decimal.Decimal,
	conv calendar.DayCountConvention,
	accrualDate time.Time,
	cfg money.RoundingConfig,
) decimal.Decimal {
	denominator := decimal.NewFromInt(int64(calendar.DaysInYear(conv, accrualDate)))
	interest := balance.Mul(money.Percent(annualRate)).Div(denominator)
	return money.Round(interest, cfg)
}

// AccruedInterest returns the interest accrued on principal between two
// dates under the given convention.
func (c *InterestCalculator) AccruedInterest(
	principal, annualRate decimal.Decimal,
	start, end time.Time,
	conv calendar.DayCountConvention,
	cfg money.RoundingConfig,
) decimal.Decimal {
	days := decimal.NewFromInt(int64(calendar.DayCount(start, end, conv)))
	denominator := decimal.NewFromInt(int64(calendar.DaysInYear(conv, start)))
	dailyRate := money.Percent(annualRate).Div(denominator)
	return money.Round(days.Mul(dailyRate).Mul(principal), cfg)
}

// PeriodInterest returns one regular period of interest on the balance.
func (c *InterestCalculator) PeriodInterest(
	balance, periodRate decimal.Decimal,
	cfg money.RoundingConfig,
) decimal.Decimal {
	return money.Round(balance.Mul(periodRate), cfg)
}
