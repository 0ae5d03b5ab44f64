package usecase

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/LendPeak/LendPeak2-sub000/internal/application/dto"
	"github.com/LendPeak/LendPeak2-sub000/internal/domain/calendar"
	"github.com/LendPeak/LendPeak2-sub000/internal/domain/model"
	"github.com/LendPeak/LendPeak2-sub000/internal/domain/service"
	"github.com/LendPeak/LendPeak2-sub000/pkg/money"
)

// CalculatePaymentUseCase computes the per-period payment plus the derived
// effective rate and APR, without materialising a schedule.
type CalculatePaymentUseCase struct {
	validator  *service.Validator
	calculator *service.PaymentCalculator
}

// NewCalculatePaymentUseCase wires dependencies.
func NewCalculatePaymentUseCase(
	validator *service.Validator,
	calculator *service.PaymentCalculator,
) *CalculatePaymentUseCase {
	return &CalculatePaymentUseCase{
		validator:  validator,
		calculator: calculator,
	}
}

// Execute validates the terms and runs the payment math. Invalid terms come
// back inside the response, not as an error.
func (uc *CalculatePaymentUseCase) Execute(
	_ context.Context,
	req dto.CalculatePaymentRequest,
) (dto.PaymentCalculationResponse, error) {
	terms, verrs := termsFromRequest(req.Terms, uc.validator)
	if len(verrs) > 0 {
		return dto.PaymentCalculationResponse{ValidationErrors: verrs}, nil
	}

	periods := calendar.CountPeriods(terms.TermMonths, terms.Frequency)
	periodRate := terms.PeriodRate()
	cfg := terms.Rounding

	var payment decimal.Decimal
	switch {
	case terms.InterestType.Equal(model.InterestTypeInterestOnly):
		payment = uc.calculator.InterestOnlyPayment(terms.Principal, periodRate, cfg)
	case terms.HasBalloon():
		payment = uc.calculator.BalloonAdjustedPayment(
			terms.Principal, *terms.BalloonAmount, periodRate, periods, cfg)
	default:
		payment = uc.calculator.AmortizingPayment(terms.Principal, periodRate, periods, cfg)
	}

	// Lifetime totals: every scheduled payment plus whatever balance is
	// still due at maturity (the balloon, or the whole principal on an
	// interest-only contract).
	totalPayments := payment.Mul(decimal.NewFromInt(int64(periods)))
	switch {
	case terms.InterestType.Equal(model.InterestTypeInterestOnly):
		totalPayments = totalPayments.Add(terms.Principal)
	case terms.HasBalloon():
		totalPayments = totalPayments.Add(*terms.BalloonAmount)
	}
	totalPayments = money.Round(totalPayments, cfg)
	totalInterest := money.Round(totalPayments.Sub(terms.Principal), cfg)

	effective := uc.calculator.EffectiveRate(
		terms.Principal, payment, periods, terms.Frequency.PeriodsPerYear(), terms.BalloonAmount)
	apr := uc.calculator.APR(terms.Principal, payment, terms.TermMonths, req.Fees)

	return dto.PaymentCalculationResponse{
		Payment:       payment,
		TotalInterest: totalInterest,
		TotalPayments: totalPayments,
		EffectiveRate: effective,
		APR:           apr,
	}, nil
}
