package service_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LendPeak/LendPeak2-sub000/internal/domain/model"
	"github.com/LendPeak/LendPeak2-sub000/internal/domain/service"
)

func newGenerator() *service.ScheduleGenerator {
	return service.NewScheduleGenerator(service.NewPaymentCalculator(), service.NewInterestCalculator())
}

func monthlyTerms(principal, rate string, termMonths int, opts model.TermsOptions) model.LoanTerms {
	return model.NewLoanTerms(dec(principal), dec(rate), termMonths, date(2025, time.January, 1), opts)
}

// assertScheduleInvariants checks the row and aggregate invariants every
// generated schedule must satisfy.
func assertScheduleInvariants(t *testing.T, s model.AmortizationSchedule) {
	t.Helper()

	prevBalance := s.Terms.Principal
	sumPrincipal := decimal.Zero
	for _, p := range s.Payments {
		assert.True(t, p.Principal.Add(p.Interest).Equal(p.TotalPayment),
			"row %d: principal %s + interest %s != total %s",
			p.Number, p.Principal, p.Interest, p.TotalPayment)
		assert.True(t, p.BeginningBalance.Sub(p.Principal).Equal(p.EndingBalance),
			"row %d: beginning %s - principal %s != ending %s",
			p.Number, p.BeginningBalance, p.Principal, p.EndingBalance)
		assert.True(t, p.EndingBalance.LessThanOrEqual(prevBalance),
			"row %d: ending balance %s increased above %s", p.Number, p.EndingBalance, prevBalance)
		prevBalance = p.EndingBalance
		sumPrincipal = sumPrincipal.Add(p.Principal)
	}

	assert.True(t, sumPrincipal.Sub(s.Terms.Principal).Abs().LessThanOrEqual(dec("0.01")),
		"principal sum %s differs from original %s by more than one rounding unit",
		sumPrincipal, s.Terms.Principal)
}

func TestGenerate_30YearMortgage(t *testing.T) {
	gen := newGenerator()
	terms := monthlyTerms("100000", "5", 360, model.TermsOptions{})

	s := gen.Generate(terms)
	require.Len(t, s.Payments, 360)

	first := s.Payments[0]
	assert.Equal(t, 1, first.Number)
	assert.True(t, first.DueDate.Equal(date(2025, time.February, 1)))
	assertApprox(t, dec("536.82"), first.TotalPayment, "0.02")
	assertApprox(t, dec("416.67"), first.Interest, "0.01")

	last := s.Payments[359]
	assert.True(t, last.EndingBalance.IsZero(),
		"final balance should be exactly zero, got %s", last.EndingBalance)
	assert.True(t, s.TotalPrincipal.Equal(dec("100000")))
	assert.True(t, s.LastPaymentDate.Equal(last.DueDate))
	assert.True(t, s.EffectiveRate.GreaterThan(decimal.Zero))

	assertScheduleInvariants(t, s)
}

func TestGenerate_SinglePayment(t *testing.T) {
	gen := newGenerator()
	terms := monthlyTerms("100000", "6", 1, model.TermsOptions{})

	s := gen.Generate(terms)
	require.Len(t, s.Payments, 1)

	p := s.Payments[0]
	assert.True(t, p.Interest.Equal(dec("500")), "interest: %s", p.Interest)
	assert.True(t, p.Principal.Equal(dec("100000")), "principal: %s", p.Principal)
	assert.True(t, p.TotalPayment.Equal(dec("100500")), "total: %s", p.TotalPayment)
	assert.True(t, p.EndingBalance.IsZero())
	assertScheduleInvariants(t, s)
}

func TestGenerate_ZeroRate(t *testing.T) {
	gen := newGenerator()
	terms := monthlyTerms("1200", "0", 12, model.TermsOptions{})

	s := gen.Generate(terms)
	require.Len(t, s.Payments, 12)

	for _, p := range s.Payments {
		assert.True(t, p.Interest.IsZero(), "row %d: zero-rate interest must be 0, got %s", p.Number, p.Interest)
		assertApprox(t, dec("100"), p.Principal, "0.01")
	}
	assert.True(t, s.TotalInterest.IsZero())
	assert.True(t, s.EffectiveRate.IsZero())
	assertScheduleInvariants(t, s)
}

func TestGenerate_ZeroRateRoundingDrift(t *testing.T) {
	gen := newGenerator()
	// 1000/12 does not divide evenly at two decimal places; the drift
	// has to land on the final row, never mid-schedule.
	terms := monthlyTerms("1000", "0", 12, model.TermsOptions{})

	s := gen.Generate(terms)
	require.Len(t, s.Payments, 12)

	for _, p := range s.Payments[:11] {
		assert.True(t, dec("83.33").Equal(p.Principal), "row %d: principal %s", p.Number, p.Principal)
		assert.True(t, p.Interest.IsZero(), "row %d: zero-rate interest must be 0, got %s", p.Number, p.Interest)
	}
	last := s.Payments[11]
	assert.True(t, dec("83.37").Equal(last.Principal), "final row absorbs the drift, got %s", last.Principal)
	assert.True(t, dec("83.37").Equal(last.TotalPayment), "final total rebuilt from rounded parts, got %s", last.TotalPayment)
	assert.True(t, last.EndingBalance.IsZero(), "final balance must be 0, got %s", last.EndingBalance)

	assert.True(t, dec("1000").Equal(s.TotalPrincipal), "principal must sum exactly, got %s", s.TotalPrincipal)
	assert.True(t, s.TotalInterest.IsZero())
	assertScheduleInvariants(t, s)
}

func TestGenerate_InterestOnly(t *testing.T) {
	gen := newGenerator()
	terms := monthlyTerms("10000", "12", 12, model.TermsOptions{
		InterestType: model.InterestTypeInterestOnly,
	})

	s := gen.Generate(terms)
	require.Len(t, s.Payments, 12)

	for _, p := range s.Payments[:11] {
		assert.True(t, p.Principal.IsZero(), "row %d should defer principal", p.Number)
		assert.True(t, p.Interest.Equal(dec("100")), "row %d interest: %s", p.Number, p.Interest)
	}

	last := s.Payments[11]
	assert.True(t, last.Principal.Equal(dec("10000")), "final row repays the balance, got %s", last.Principal)
	assert.True(t, last.TotalPayment.Equal(dec("10100")))
	assert.True(t, last.EndingBalance.IsZero())
	assertScheduleInvariants(t, s)
}

func TestGenerate_BalloonAppendsTerminalPayment(t *testing.T) {
	gen := newGenerator()
	balloon := dec("30000")
	terms := monthlyTerms("100000", "5", 60, model.TermsOptions{
		BalloonAmount: &balloon,
	})

	s := gen.Generate(terms)
	require.Len(t, s.Payments, 61, "60 scheduled rows plus the balloon row")

	scheduledLast := s.Payments[59]
	assert.True(t, scheduledLast.EndingBalance.Equal(dec("30000")),
		"row 60 must leave exactly the balloon outstanding, got %s", scheduledLast.EndingBalance)

	balloonRow := s.Payments[60]
	assert.Equal(t, 61, balloonRow.Number)
	assert.True(t, balloonRow.Interest.IsZero())
	assert.True(t, balloonRow.Principal.Equal(dec("30000")))
	assert.True(t, balloonRow.EndingBalance.IsZero())

	assert.True(t, s.TotalPrincipal.Equal(dec("100000")))
	assertScheduleInvariants(t, s)
}

func TestGenerate_BalloonDateOverridesTerminalDueDate(t *testing.T) {
	gen := newGenerator()
	balloon := dec("5000")
	balloonDate := date(2026, time.March, 15)
	terms := monthlyTerms("20000", "4", 12, model.TermsOptions{
		BalloonAmount: &balloon,
		BalloonDate:   &balloonDate,
	})

	s := gen.Generate(terms)
	last, ok := s.FinalPayment()
	require.True(t, ok)
	assert.True(t, last.DueDate.Equal(balloonDate))
	assert.True(t, s.LastPaymentDate.Equal(balloonDate))
}

func TestGenerate_IrregularFirstPeriod(t *testing.T) {
	gen := newGenerator()
	firstDue := date(2025, time.February, 15) // natural first due date is Feb 1
	terms := monthlyTerms("100000", "5", 12, model.TermsOptions{
		FirstPaymentDate: &firstDue,
	})

	s := gen.Generate(terms)
	require.NotEmpty(t, s.Payments)

	first := s.Payments[0]
	assert.True(t, first.DueDate.Equal(firstDue))
	// 44 days under 30/360: 100000 * 0.05 * 44/360 = 611.11, well above the
	// regular 416.67.
	assert.True(t, first.Interest.Equal(dec("611.11")), "stub interest: %s", first.Interest)

	// Following periods revert to the regular rate path and step from the
	// first payment date.
	second := s.Payments[1]
	assert.True(t, second.DueDate.Equal(date(2025, time.March, 15)))
	assertScheduleInvariants(t, s)
}

func TestApplyPrepayment_ReducesBalanceAndReplays(t *testing.T) {
	gen := newGenerator()
	terms := monthlyTerms("12000", "6", 12, model.TermsOptions{})
	original := gen.Generate(terms)

	prepayDate := date(2025, time.April, 15) // after payment 3, before payment 4
	revised := gen.ApplyPrepayment(original, dec("2000"), prepayDate, true)

	// Rows before the prepayment are untouched.
	for i := 0; i < 3; i++ {
		assert.True(t, revised.Payments[i].TotalPayment.Equal(original.Payments[i].TotalPayment),
			"retained row %d changed", i+1)
	}

	// The replayed stream starts from the reduced balance.
	fourth := revised.Payments[3]
	expectedBeginning := original.Payments[2].EndingBalance.Sub(dec("2000"))
	assert.True(t, fourth.BeginningBalance.Equal(expectedBeginning),
		"got %s, want %s", fourth.BeginningBalance, expectedBeginning)

	// Holding the payment constant against a smaller balance shortens the loan.
	assert.Less(t, len(revised.Payments), len(original.Payments))
	last, ok := revised.FinalPayment()
	require.True(t, ok)
	assert.True(t, last.EndingBalance.IsZero())
}

func TestApplyPrepayment_FullPayoffTruncates(t *testing.T) {
	gen := newGenerator()
	terms := monthlyTerms("12000", "6", 12, model.TermsOptions{})
	original := gen.Generate(terms)

	prepayDate := date(2025, time.April, 15)
	remaining := original.Payments[2].EndingBalance

	revised := gen.ApplyPrepayment(original, remaining, prepayDate, true)
	assert.Len(t, revised.Payments, 3)
	assert.True(t, revised.LastPaymentDate.Equal(prepayDate),
		"payoff date becomes the last payment date")
}

func TestApplyPrepayment_NotToPrincipalLeavesScheduleAlone(t *testing.T) {
	gen := newGenerator()
	terms := monthlyTerms("12000", "6", 12, model.TermsOptions{})
	original := gen.Generate(terms)

	revised := gen.ApplyPrepayment(original, dec("2000"), date(2025, time.April, 15), false)
	assert.Equal(t, len(original.Payments), len(revised.Payments))
	assert.True(t, revised.TotalInterest.Equal(original.TotalInterest))
}

func TestApplyPrepayment_AfterMaturityIsNoop(t *testing.T) {
	gen := newGenerator()
	terms := monthlyTerms("12000", "6", 12, model.TermsOptions{})
	original := gen.Generate(terms)

	revised := gen.ApplyPrepayment(original, dec("2000"), date(2030, time.January, 1), true)
	assert.Equal(t, len(original.Payments), len(revised.Payments))
}

func TestGenerate_BalloonEqualToPrincipalIsDefined(t *testing.T) {
	gen := newGenerator()
	// Balloon just below principal: the scheduled rows carry almost pure
	// interest and the terminal row repays the balloon.
	balloon := dec("99999")
	terms := monthlyTerms("100000", "5", 12, model.TermsOptions{
		BalloonAmount: &balloon,
	})

	s := gen.Generate(terms)
	last, ok := s.FinalPayment()
	require.True(t, ok)
	assert.True(t, last.EndingBalance.IsZero())
	assertScheduleInvariants(t, s)
}
