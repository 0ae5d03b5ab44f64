package service

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/LendPeak/LendPeak2-sub000/internal/domain/calendar"
	"github.com/LendPeak/LendPeak2-sub000/internal/domain/model"
	"github.com/LendPeak/LendPeak2-sub000/pkg/money"
)

// ---------------------------------------------------------------------------
// ScheduleGenerator – drives the payment calculator period by period
// ---------------------------------------------------------------------------

// ScheduleGenerator produces full amortization schedules and recalculates
// them after principal prepayments.
type ScheduleGenerator struct {
	payments *PaymentCalculator
	interest *InterestCalculator
}

// NewScheduleGenerator wires the generator's calculator dependencies.
func NewScheduleGenerator(payments *PaymentCalculator, interest *InterestCalculator) *ScheduleGenerator {
	return &ScheduleGenerator{payments: payments, interest: interest}
}

// Generate computes the complete payment schedule for the given terms.
//
// Zero rates, single-payment terms and balloons equal to the principal are
// all valid inputs with defined output. Malformed frequency or day-count
// values panic inside the calendar package; they indicate a programming
// error, not bad user data.
func (g *ScheduleGenerator) Generate(terms model.LoanTerms) model.AmortizationSchedule {
	cfg := terms.Rounding
	periods := calendar.CountPeriods(terms.TermMonths, terms.Frequency)
	periodRate := terms.PeriodRate()

	balloonAmt := decimal.Zero
	if terms.HasBalloon() {
		balloonAmt = *terms.BalloonAmount
	}

	levelPayment := g.levelPayment(terms, periodRate, periods, cfg)

	rows := make([]model.ScheduledPayment, 0, periods+1)
	balance := terms.Principal
	prevDate := terms.StartDate
	cumInterest := decimal.Zero
	cumPrincipal := decimal.Zero

	for i := 1; i <= periods; i++ {
		naturalDue := calendar.StepDate(prevDate, terms.Frequency)
		due := naturalDue
		if i == 1 && terms.FirstPaymentDate != nil {
			due = *terms.FirstPaymentDate
		}

		var interest decimal.Decimal
		if i == 1 && !due.Equal(naturalDue) {
			// Irregular stub period: accrue over the actual elapsed days
			// under the contract's day-count convention.
			interest = g.interest.AccruedInterest(
				balance, terms.AnnualRate, terms.StartDate, due, terms.DayCount, cfg)
		} else {
			interest = g.interest.PeriodInterest(balance, periodRate, cfg)
		}

		principalPart := g.principalComponent(terms, levelPayment, interest, balance, balloonAmt, i, periods)
		if principalPart.GreaterThan(balance) {
			principalPart = balance
		}
		principalPart = money.Round(principalPart, cfg)

		// The row total is rebuilt from the rounded components; the
		// pre-rounding level payment is never trusted here.
		total := interest.Add(principalPart)

		beginning := balance
		balance = balance.Sub(principalPart)
		if balance.LessThan(decimal.Zero) {
			balance = decimal.Zero
		}

		cumInterest = cumInterest.Add(interest)
		cumPrincipal = cumPrincipal.Add(principalPart)

		rows = append(rows, model.ScheduledPayment{
			Number:              i,
			DueDate:             due,
			Principal:           principalPart,
			Interest:            interest,
			TotalPayment:        total,
			BeginningBalance:    beginning,
			EndingBalance:       balance,
			CumulativeInterest:  cumInterest,
			CumulativePrincipal: cumPrincipal,
		})
		prevDate = due
	}

	// A balloon amount still outstanding becomes one terminal payment of
	// pure principal.
	if terms.HasBalloon() && balance.GreaterThan(decimal.Zero) {
		due := calendar.StepDate(prevDate, terms.Frequency)
		if terms.BalloonDate != nil {
			due = *terms.BalloonDate
		}
		principalPart := money.Round(balance, cfg)
		cumPrincipal = cumPrincipal.Add(principalPart)

		rows = append(rows, model.ScheduledPayment{
			Number:              len(rows) + 1,
			DueDate:             due,
			Principal:           principalPart,
			Interest:            decimal.Zero,
			TotalPayment:        principalPart,
			BeginningBalance:    balance,
			EndingBalance:       decimal.Zero,
			CumulativeInterest:  cumInterest,
			CumulativePrincipal: cumPrincipal,
		})
	}

	return g.assemble(terms, rows)
}

// ApplyPrepayment recalculates a schedule after a principal prepayment.
//
// Payments due on or before the prepayment date are retained unchanged. The
// balance at that point is reduced by the prepayment; when it reaches zero
// the schedule is truncated and the prepayment date becomes the last payment
// date. Otherwise the remaining payments are replayed holding the original
// payment amount constant, deriving each period's interest from the original
// row's implied rate, stopping early once the balance is exhausted.
//
// Prepayments not applied to principal leave the schedule unchanged: they
// advance the paid-through date, which is servicing state the engine does
// not own.
func (g *ScheduleGenerator) ApplyPrepayment(
	schedule model.AmortizationSchedule,
	amount decimal.Decimal,
	date time.Time,
	applyToPrincipal bool,
) model.AmortizationSchedule {
	if !applyToPrincipal || len(schedule.Payments) == 0 {
		return schedule
	}

	terms := schedule.Terms
	cfg := terms.Rounding

	idx := len(schedule.Payments)
	for i, p := range schedule.Payments {
		if p.DueDate.After(date) {
			idx = i
			break
		}
	}
	if idx == len(schedule.Payments) {
		// Prepayment after the final due date: nothing left to replan.
		return schedule
	}

	rows := make([]model.ScheduledPayment, idx, len(schedule.Payments))
	copy(rows, schedule.Payments[:idx])

	balance := terms.Principal
	cumInterest := decimal.Zero
	cumPrincipal := decimal.Zero
	if idx > 0 {
		prior := rows[idx-1]
		balance = prior.EndingBalance
		cumInterest = prior.CumulativeInterest
		cumPrincipal = prior.CumulativePrincipal
	}

	balance = balance.Sub(amount)
	if balance.LessThanOrEqual(decimal.Zero) {
		// The prepayment clears the loan: truncate and close out on the
		// prepayment date.
		s := g.assemble(terms, rows)
		s.LoanID = schedule.LoanID
		s.LastPaymentDate = date
		return s
	}

	for j := idx; j < len(schedule.Payments); j++ {
		orig := schedule.Payments[j]

		impliedRate := money.SafeDivide(orig.Interest, orig.BeginningBalance, decimal.Zero)
		interest := money.Round(balance.Mul(impliedRate), cfg)

		principalPart := orig.TotalPayment.Sub(interest)
		if principalPart.GreaterThan(balance) {
			principalPart = balance
		}
		principalPart = money.Round(principalPart, cfg)
		total := interest.Add(principalPart)

		beginning := balance
		balance = balance.Sub(principalPart)
		if balance.LessThan(decimal.Zero) {
			balance = decimal.Zero
		}

		cumInterest = cumInterest.Add(interest)
		cumPrincipal = cumPrincipal.Add(principalPart)

		rows = append(rows, model.ScheduledPayment{
			Number:              len(rows) + 1,
			DueDate:             orig.DueDate,
			Principal:           principalPart,
			Interest:            interest,
			TotalPayment:        total,
			BeginningBalance:    beginning,
			EndingBalance:       balance,
			CumulativeInterest:  cumInterest,
			CumulativePrincipal: cumPrincipal,
		})

		if balance.IsZero() {
			break
		}
	}

	s := g.assemble(terms, rows)
	s.LoanID = schedule.LoanID
	return s
}

// levelPayment picks the payment formula for the contract's interest type
// and balloon presence. Simple-interest contracts amortize like standard
// ones; the distinction only matters for standalone accrual.
func (g *ScheduleGenerator) levelPayment(
	terms model.LoanTerms,
	periodRate decimal.Decimal,
	periods int,
	cfg money.RoundingConfig,
) decimal.Decimal {
	if terms.InterestType.Equal(model.InterestTypeInterestOnly) {
		return g.payments.InterestOnlyPayment(terms.Principal, periodRate, cfg)
	}
	if terms.HasBalloon() {
		return g.payments.BalloonAdjustedPayment(terms.Principal, *terms.BalloonAmount, periodRate, periods, cfg)
	}
	return g.payments.AmortizingPayment(terms.Principal, periodRate, periods, cfg)
}

// principalComponent sizes the principal share of payment i of n.
func (g *ScheduleGenerator) principalComponent(
	terms model.LoanTerms,
	levelPayment, interest, balance, balloonAmt decimal.Decimal,
	i, periods int,
) decimal.Decimal {
	if i == periods {
		// Final scheduled payment: leave exactly the balloon outstanding,
		// or absorb the whole balance to kill residual rounding drift.
		remainder := balance.Sub(balloonAmt)
		if remainder.LessThan(decimal.Zero) {
			remainder = decimal.Zero
		}
		return remainder
	}
	if terms.InterestType.Equal(model.InterestTypeInterestOnly) {
		return decimal.Zero
	}
	return levelPayment.Sub(interest)
}

// assemble computes aggregate totals and the approximate annualised rate.
func (g *ScheduleGenerator) assemble(
	terms model.LoanTerms,
	rows []model.ScheduledPayment,
) model.AmortizationSchedule {
	totalInterest := decimal.Zero
	totalPrincipal := decimal.Zero
	totalPayments := decimal.Zero
	var lastDate time.Time

	for _, p := range rows {
		totalInterest = totalInterest.Add(p.Interest)
		totalPrincipal = totalPrincipal.Add(p.Principal)
		totalPayments = totalPayments.Add(p.TotalPayment)
		lastDate = p.DueDate
	}

	effectiveTermMonths := terms.TermMonths
	if !lastDate.IsZero() {
		if m := calendar.MonthsBetween(terms.StartDate, lastDate); m > 0 {
			effectiveTermMonths = m
		}
	}

	// Approximate annualised rate: interest share of principal spread over
	// the effective term. This deliberately differs from the Newton
	// effective-rate solver; callers rely on both outputs.
	effectiveRate := decimal.Zero
	if effectiveTermMonths > 0 {
		ratio := money.SafeDivide(totalInterest, terms.Principal, decimal.Zero)
		annualised := ratio.
			Mul(decimal.NewFromInt(12)).
			Div(decimal.NewFromInt(int64(effectiveTermMonths))).
			Mul(hundred)
		effectiveRate = money.Round(annualised, money.RoundingConfig{Method: money.RoundHalfEven, DecimalPlaces: 3})
	}

	return model.AmortizationSchedule{
		LoanID:          terms.ID,
		Terms:           terms,
		Payments:        rows,
		TotalInterest:   totalInterest,
		TotalPrincipal:  totalPrincipal,
		TotalPayments:   totalPayments,
		EffectiveRate:   effectiveRate,
		LastPaymentDate: lastDate,
	}
}
