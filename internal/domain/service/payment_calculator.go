// Package service contains the calculation engine proper: payment formulas,
// schedule generation, interest accrual, balloon detection and balloon
// restructuring strategies. Every service here is stateless; all inputs are
// explicit and all outputs are new values, so any operation can be invoked
// concurrently without locking.
package service

import (
	"github.com/shopspring/decimal"

	"github.com/LendPeak/LendPeak2-sub000/pkg/money"
)

// ---------------------------------------------------------------------------
// PaymentCalculator – closed-form payment formulas and rate solvers
// ---------------------------------------------------------------------------

// PaymentCalculator computes level payment amounts and solves for effective
// rates. All monetary outputs are rounded through the supplied config before
// being returned.
type PaymentCalculator struct{}

// NewPaymentCalculator returns a new calculator instance.
func NewPaymentCalculator() *PaymentCalculator {
	return &PaymentCalculator{}
}

var (
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)

	// rateFloor is the smallest period rate the solvers will consider.
	// Clamping here keeps the present-value function defined when an
	// iteration overshoots into negative territory.
	rateFloor = decimal.NewFromFloat(0.000001)
)

// AmortizingPayment returns the level payment that fully amortizes principal
// over n periods at the given period rate:
//
//	P * r * (1+r)^n / ((1+r)^n - 1)
//
// A zero period rate degenerates to principal / n.
func (c *PaymentCalculator) AmortizingPayment(
	principal, periodRate decimal.Decimal,
	periods int,
	cfg money.RoundingConfig,
) decimal.Decimal {
	if periods <= 0 {
		return money.Round(decimal.Zero, cfg)
	}
	n := decimal.NewFromInt(int64(periods))
	if periodRate.IsZero() {
		return money.Round(principal.Div(n), cfg)
	}

	factor := one.Add(periodRate).Pow(n)
	payment := principal.Mul(periodRate).Mul(factor).Div(factor.Sub(one))
	return money.Round(payment, cfg)
}

// InterestOnlyPayment returns the per-period payment covering interest only.
func (c *PaymentCalculator) InterestOnlyPayment(
	principal, periodRate decimal.Decimal,
	cfg money.RoundingConfig,
) decimal.Decimal {
	return money.Round(principal.Mul(periodRate), cfg)
}

// BalloonAdjustedPayment sizes the level payment for a loan that leaves a
// balloon amount outstanding at maturity. The balloon is discounted to
// present value and removed from the principal before the amortizing formula
// is applied; at a zero rate the balloon is subtracted directly.
func (c *PaymentCalculator) BalloonAdjustedPayment(
	principal, balloon, periodRate decimal.Decimal,
	periods int,
	cfg money.RoundingConfig,
) decimal.Decimal {
	if periods <= 0 {
		return money.Round(decimal.Zero, cfg)
	}
	n := decimal.NewFromInt(int64(periods))
	if periodRate.IsZero() {
		return money.Round(principal.Sub(balloon).Div(n), cfg)
	}

	discount := one.Add(periodRate).Pow(n)
	balloonPV := balloon.Div(discount)
	return c.AmortizingPayment(principal.Sub(balloonPV), periodRate, periods, cfg)
}

// EffectiveRate solves for the period rate that equates the present value of
// the level payment stream (plus the discounted balloon, when present) to
// the principal, using Newton-Raphson iteration, and returns the
// nominal-equivalent annual rate in percentage points.
//
// The solver is seeded at 5% spread over the period count, runs at most 100
// iterations with a 1e-6 tolerance on the present-value difference, and
// estimates the derivative with a 1e-4 rate perturbation. Non-convergence is
// not an error: the best available estimate is returned.
func (c *PaymentCalculator) EffectiveRate(
	principal, payment decimal.Decimal,
	periods, periodsPerYear int,
	balloon *decimal.Decimal,
) decimal.Decimal {
	if periods <= 0 || principal.IsZero() || payment.IsZero() {
		return decimal.Zero
	}

	balloonAmt := decimal.Zero
	if balloon != nil {
		balloonAmt = *balloon
	}

	tolerance := decimal.NewFromFloat(0.000001)
	perturbation := decimal.NewFromFloat(0.0001)

	rate := decimal.NewFromFloat(0.05).Div(decimal.NewFromInt(int64(periods)))
	if rate.LessThan(rateFloor) {
		rate = rateFloor
	}

	for i := 0; i < 100; i++ {
		diff := c.presentValue(payment, rate, periods, balloonAmt).Sub(principal)
		if diff.Abs().LessThan(tolerance) {
			break
		}

		bumped := c.presentValue(payment, rate.Add(perturbation), periods, balloonAmt).Sub(principal)
		derivative := bumped.Sub(diff).Div(perturbation)
		if derivative.IsZero() {
			break
		}

		rate = rate.Sub(diff.Div(derivative))
		if rate.LessThan(rateFloor) {
			rate = rateFloor
		}
	}

	annual := rate.Mul(decimal.NewFromInt(int64(periodsPerYear))).Mul(hundred)
	return money.Round(annual, money.RoundingConfig{Method: money.RoundHalfEven, DecimalPlaces: 4})
}

// APR computes the annual percentage rate of a level-payment loan whose
// financed fees reduce the net amount received, by bisection over the annual
// rate in [0%, 100%]. It runs at most 100 iterations with a 1e-5 tolerance
// on the present-value difference and returns the best midpoint even when
// the loop exhausts without reaching tolerance.
func (c *PaymentCalculator) APR(
	principal, payment decimal.Decimal,
	termMonths int,
	fees decimal.Decimal,
) decimal.Decimal {
	if termMonths <= 0 || payment.IsZero() {
		return decimal.Zero
	}

	netPrincipal := principal.Sub(fees)
	if netPrincipal.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}

	tolerance := decimal.NewFromFloat(0.00001)
	twelve := decimal.NewFromInt(12)

	lo := decimal.Zero
	hi := hundred
	mid := lo

	for i := 0; i < 100; i++ {
		mid = lo.Add(hi).Div(decimal.NewFromInt(2))
		monthlyRate := money.Percent(mid).Div(twelve)

		diff := c.presentValue(payment, monthlyRate, termMonths, decimal.Zero).Sub(netPrincipal)
		if diff.Abs().LessThan(tolerance) {
			break
		}

		// Present value falls as the rate rises.
		if diff.GreaterThan(decimal.Zero) {
			lo = mid
		} else {
			hi = mid
		}
	}

	return money.Round(mid, money.RoundingConfig{Method: money.RoundHalfEven, DecimalPlaces: 4})
}

// presentValue discounts a level payment stream of n periods, plus an
// optional balloon at maturity, at the given period rate.
func (c *PaymentCalculator) presentValue(
	payment, periodRate decimal.Decimal,
	periods int,
	balloon decimal.Decimal,
) decimal.Decimal {
	n := decimal.NewFromInt(int64(periods))
	if periodRate.IsZero() {
		return payment.Mul(n).Add(balloon)
	}

	discount := one.Add(periodRate).Pow(n)
	annuity := payment.Mul(one.Sub(one.Div(discount))).Div(periodRate)
	return annuity.Add(balloon.Div(discount))
}
