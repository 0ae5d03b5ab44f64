// Package model holds the value objects exchanged with the calculation
// engine: loan terms, schedule rows, balloon configuration and structured
// validation errors. Every value is created fresh per calculation and is
// immutable once returned.
package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/LendPeak/LendPeak2-sub000/internal/domain/calendar"
	"github.com/LendPeak/LendPeak2-sub000/pkg/money"
)

// ---------------------------------------------------------------------------
// InterestType – immutable value object
// ---------------------------------------------------------------------------

// InterestType selects how interest accrues over the life of the loan.
type InterestType struct {
	value string
}

const (
	interestAmortized    = "AMORTIZED"
	interestInterestOnly = "INTEREST_ONLY"
	interestSimple       = "SIMPLE"
)

var (
	InterestTypeAmortized    = InterestType{value: interestAmortized}
	InterestTypeInterestOnly = InterestType{value: interestInterestOnly}
	InterestTypeSimple       = InterestType{value: interestSimple}
)

var validInterestTypes = map[string]InterestType{
	interestAmortized:    InterestTypeAmortized,
	interestInterestOnly: InterestTypeInterestOnly,
	interestSimple:       InterestTypeSimple,
}

// NewInterestType creates an InterestType from a raw string.
func NewInterestType(s string) (InterestType, error) {
	t, ok := validInterestTypes[s]
	if !ok {
		return InterestType{}, fmt.Errorf("invalid interest type: %q", s)
	}
	return t, nil
}

// String returns the string representation of the interest type.
func (t InterestType) String() string { return t.value }

// IsZero returns true if the interest type has not been initialised.
func (t InterestType) IsZero() bool { return t.value == "" }

// Equal returns true when both interest types carry the same value.
func (t InterestType) Equal(other InterestType) bool { return t.value == other.value }

// ---------------------------------------------------------------------------
// LoanTerms
// ---------------------------------------------------------------------------

// LoanTerms describes one installment loan contract. The engine never
// mutates a LoanTerms value after construction.
type LoanTerms struct {
	ID               string
	Principal        decimal.Decimal
	AnnualRate       decimal.Decimal // percentage points, e.g. 5.25 means 5.25%
	TermMonths       int
	Frequency        calendar.Frequency
	StartDate        time.Time
	FirstPaymentDate *time.Time // optional; may create an irregular first period
	InterestType     InterestType
	DayCount         calendar.DayCountConvention
	BalloonAmount    *decimal.Decimal
	BalloonDate      *time.Time
	Rounding         money.RoundingConfig
}

// TermsOptions carries the optional parts of a loan contract. Zero-value
// fields fall back to the documented defaults.
type TermsOptions struct {
	Frequency        calendar.Frequency          // default MONTHLY
	FirstPaymentDate *time.Time                  // default: one natural step after StartDate
	InterestType     InterestType                // default AMORTIZED
	DayCount         calendar.DayCountConvention // default 30/360
	BalloonAmount    *decimal.Decimal
	BalloonDate      *time.Time
	Rounding         money.RoundingConfig // default banker's at 2 places
}

// NewLoanTerms assembles a LoanTerms value from the mandatory contract
// parameters plus options, filling defaults. It performs no domain
// validation; see service.Validator for that.
func NewLoanTerms(
	principal decimal.Decimal,
	annualRate decimal.Decimal,
	termMonths int,
	startDate time.Time,
	opts TermsOptions,
) LoanTerms {
	frequency := opts.Frequency
	if frequency.IsZero() {
		frequency = calendar.FrequencyMonthly
	}
	interestType := opts.InterestType
	if interestType.IsZero() {
		interestType = InterestTypeAmortized
	}
	dayCount := opts.DayCount
	if dayCount.IsZero() {
		dayCount = calendar.Thirty360
	}
	rounding := opts.Rounding
	if rounding.Method.IsZero() {
		rounding = money.DefaultRounding()
	}

	return LoanTerms{
		ID:               uuid.New().String(),
		Principal:        principal,
		AnnualRate:       annualRate,
		TermMonths:       termMonths,
		Frequency:        frequency,
		StartDate:        startDate,
		FirstPaymentDate: opts.FirstPaymentDate,
		InterestType:     interestType,
		DayCount:         dayCount,
		BalloonAmount:    opts.BalloonAmount,
		BalloonDate:      opts.BalloonDate,
		Rounding:         rounding,
	}
}

// HasBalloon reports whether the contract carries a positive balloon amount.
func (t LoanTerms) HasBalloon() bool {
	return t.BalloonAmount != nil && t.BalloonAmount.GreaterThan(decimal.Zero)
}

// PeriodRate returns the unrounded per-period interest rate as a fraction
// (5.25% annual, monthly frequency -> 0.004375).
func (t LoanTerms) PeriodRate() decimal.Decimal {
	return money.Percent(t.AnnualRate).Div(decimal.NewFromInt(int64(t.Frequency.PeriodsPerYear())))
}

// WithTermMonths returns a copy of the terms with a new term length and no
// balloon. Used by contract-extension restructuring.
func (t LoanTerms) WithTermMonths(termMonths int) LoanTerms {
	next := t
	next.TermMonths = termMonths
	next.BalloonAmount = nil
	next.BalloonDate = nil
	return next
}
