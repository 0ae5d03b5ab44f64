package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ScheduledPayment is an immutable value object representing one row of an
// amortization schedule.
//
// Invariants maintained by the generator for every row:
//
//	Principal + Interest == TotalPayment        (exactly, after rounding)
//	BeginningBalance - Principal == EndingBalance
type ScheduledPayment struct {
	Number              int // 1-based payment index
	DueDate             time.Time
	Principal           decimal.Decimal
	Interest            decimal.Decimal
	TotalPayment        decimal.Decimal
	BeginningBalance    decimal.Decimal
	EndingBalance       decimal.Decimal
	CumulativeInterest  decimal.Decimal
	CumulativePrincipal decimal.Decimal
}

// AmortizationSchedule is the full payment plan for one set of loan terms.
// Payments are ordered by payment number; the sum of all Principal fields
// equals the original principal within one rounding unit.
type AmortizationSchedule struct {
	LoanID          string
	Terms           LoanTerms
	Payments        []ScheduledPayment
	TotalInterest   decimal.Decimal
	TotalPrincipal  decimal.Decimal
	TotalPayments   decimal.Decimal
	EffectiveRate   decimal.Decimal // approximate annualised rate, 3 decimal places
	LastPaymentDate time.Time
}

// PaymentCount returns the number of scheduled payments.
func (s AmortizationSchedule) PaymentCount() int { return len(s.Payments) }

// FinalPayment returns the last scheduled payment and true, or a zero value
// and false for an empty schedule.
func (s AmortizationSchedule) FinalPayment() (ScheduledPayment, bool) {
	if len(s.Payments) == 0 {
		return ScheduledPayment{}, false
	}
	return s.Payments[len(s.Payments)-1], true
}

// ClonePayments returns a defensive copy of the payment rows.
func (s AmortizationSchedule) ClonePayments() []ScheduledPayment {
	if s.Payments == nil {
		return nil
	}
	out := make([]ScheduledPayment, len(s.Payments))
	copy(out, s.Payments)
	return out
}
