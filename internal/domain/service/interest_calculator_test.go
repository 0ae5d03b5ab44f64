package service_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/LendPeak/LendPeak2-sub000/internal/domain/calendar"
	"github.com/LendPeak/LendPeak2-sub000/internal/domain/service"
	"github.com/LendPeak/LendPeak2-sub000/pkg/money"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestSimpleInterest(t *testing.T) {
	calc := service.NewInterestCalculator()
	cfg := money.DefaultRounding()

	// 10,000 at 5% for 2 years = 1,000.
	got := calc.SimpleInterest(dec("10000"), dec("5"), dec("2"), cfg)
	assert.True(t, got.Equal(dec("1000")), "got %s", got)

	assert.True(t, calc.SimpleInterest(dec("10000"), decimal.Zero, dec("2"), cfg).IsZero())
}

func TestCompoundInterest(t *testing.T) {
	calc := service.NewInterestCalculator()
	cfg := money.DefaultRounding()

	// 10,000 at 6% compounded monthly for 1 year: (1+0.005)^12 - 1 = ~6.1678%.
	got := calc.CompoundInterest(dec("10000"), dec("6"), dec("1"), 12, cfg)
	assertApprox(t, dec("616.78"), got, "0.01")

	// Annual compounding for 1 year equals simple interest.
	annual := calc.CompoundInterest(dec("10000"), dec("6"), dec("1"), 1, cfg)
	assert.True(t, annual.Equal(dec("600")), "got %s", annual)

	// Degenerate compounding frequency.
	assert.True(t, calc.CompoundInterest(dec("10000"), dec("6"), dec("1"), 0, cfg).IsZero())
}

func TestDailyInterest_Denominators(t *testing.T) {
	calc := service.NewInterestCalculator()
	cfg := money.RoundingConfig{Method: money.RoundHalfEven, DecimalPlaces: 6}
	balance := dec("36500")
	rate := dec("10")

	// balance * 0.10 / denominator
	act365 := calc.DailyInterest(balance, rate, calendar.Actual365, date(2025, time.March, 1), cfg)
	assert.True(t, act365.Equal(dec("10")), "got %s", act365)

	act360 := calc.DailyInterest(balance, rate, calendar.Actual360, date(2025, time.March, 1), cfg)
	assertApprox(t, dec("10.138889"), act360, "0.000001")

	// Leap year under ACTUAL/ACTUAL uses 366.
	leap := calc.DailyInterest(balance, rate, calendar.ActualActual, date(2024, time.March, 1), cfg)
	assertApprox(t, dec("9.972678"), leap, "0.000001")
}

func TestAccruedInterest(t *testing.T) {
	calc := service.NewInterestCalculator()
	cfg := money.DefaultRounding()

	// 100,000 at 6% for 30 days under 30/360: 100000 * 0.06 * 30/360 = 500.
	got := calc.AccruedInterest(dec("100000"), dec("6"),
		date(2025, time.January, 1), date(2025, time.February, 1), calendar.Thirty360, cfg)
	assert.True(t, got.Equal(dec("500")), "got %s", got)

	// Same window under ACTUAL/365: 31 days.
	act := calc.AccruedInterest(dec("100000"), dec("6"),
		date(2025, time.January, 1), date(2025, time.February, 1), calendar.Actual365, cfg)
	assertApprox(t, dec("509.59"), act, "0.01")
}

func TestPeriodInterest(t *testing.T) {
	calc := service.NewInterestCalculator()
	cfg := money.DefaultRounding()

	monthlyRate := dec("6").Div(dec("100")).Div(dec("12"))
	got := calc.PeriodInterest(dec("100000"), monthlyRate, cfg)
	assert.True(t, got.Equal(dec("500")), "got %s", got)
}
