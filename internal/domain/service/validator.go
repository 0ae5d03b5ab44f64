package service

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/LendPeak/LendPeak2-sub000/internal/domain/model"
)

// ---------------------------------------------------------------------------
// Validator – pure domain-constraint checks
// ---------------------------------------------------------------------------

// Domain limits. Values beyond these are reported as MAX_VALUE_EXCEEDED.
var (
	maxPrincipal  = decimal.NewFromInt(100_000_000)
	maxRate       = decimal.NewFromInt(100)
	maxTermMonths = 600
)

// Validator checks calculation inputs against domain constraints. Problems
// come back as structured errors so one pass can report every issue;
// invalid input is never an error or a panic.
type Validator struct{}

// NewValidator returns a new validator instance.
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateLoanTerms checks one set of loan terms. An empty slice means the
// terms are acceptable.
func (v *Validator) ValidateLoanTerms(terms model.LoanTerms) []model.ValidationError {
	var errs []model.ValidationError

	switch {
	case terms.Principal.IsZero():
		errs = append(errs, model.ValidationError{
			Field: "principal", Message: "principal is required", Code: model.CodeRequiredField})
	case terms.Principal.LessThan(decimal.Zero):
		errs = append(errs, model.ValidationError{
			Field: "principal", Message: "principal must be positive", Code: model.CodeInvalidValue})
	case terms.Principal.GreaterThan(maxPrincipal):
		errs = append(errs, model.ValidationError{
			Field: "principal", Message: "principal exceeds the maximum supported amount", Code: model.CodeMaxValueExceeded})
	}

	if terms.AnnualRate.LessThan(decimal.Zero) {
		errs = append(errs, model.ValidationError{
			Field: "annualRate", Message: "annual rate cannot be negative", Code: model.CodeInvalidValue})
	} else if terms.AnnualRate.GreaterThan(maxRate) {
		errs = append(errs, model.ValidationError{
			Field: "annualRate", Message: "annual rate cannot exceed 100%", Code: model.CodeMaxValueExceeded})
	}

	switch {
	case terms.TermMonths <= 0:
		errs = append(errs, model.ValidationError{
			Field: "termMonths", Message: "term must be at least one month", Code: model.CodeInvalidValue})
	case terms.TermMonths > maxTermMonths:
		errs = append(errs, model.ValidationError{
			Field: "termMonths", Message: "term exceeds the maximum supported length", Code: model.CodeMaxValueExceeded})
	}

	if terms.StartDate.IsZero() {
		errs = append(errs, model.ValidationError{
			Field: "startDate", Message: "start date is required", Code: model.CodeInvalidDate})
	}

	if terms.FirstPaymentDate != nil && !terms.StartDate.IsZero() &&
		!terms.FirstPaymentDate.After(terms.StartDate) {
		errs = append(errs, model.ValidationError{
			Field: "firstPaymentDate", Message: "first payment date must be after the start date", Code: model.CodeInvalidDateRange})
	}

	if terms.BalloonAmount != nil {
		switch {
		case terms.BalloonAmount.LessThanOrEqual(decimal.Zero):
			errs = append(errs, model.ValidationError{
				Field: "balloonAmount", Message: "balloon amount must be positive", Code: model.CodeInvalidValue})
		case terms.BalloonAmount.GreaterThanOrEqual(terms.Principal):
			errs = append(errs, model.ValidationError{
				Field: "balloonAmount", Message: "balloon amount must be less than the principal", Code: model.CodeInvalidValue})
		}
	}

	if terms.BalloonDate != nil && !terms.StartDate.IsZero() &&
		!terms.BalloonDate.After(terms.StartDate) {
		errs = append(errs, model.ValidationError{
			Field: "balloonDate", Message: "balloon date must be after the start date", Code: model.CodeInvalidDateRange})
	}

	return errs
}

// ValidatePrepayment checks a prepayment request against the schedule it
// applies to.
func (v *Validator) ValidatePrepayment(
	schedule model.AmortizationSchedule,
	amount decimal.Decimal,
	date time.Time,
) []model.ValidationError {
	var errs []model.ValidationError

	switch {
	case amount.IsZero():
		errs = append(errs, model.ValidationError{
			Field: "amount", Message: "prepayment amount is required", Code: model.CodeRequiredField})
	case amount.LessThan(decimal.Zero):
		errs = append(errs, model.ValidationError{
			Field: "amount", Message: "prepayment amount must be positive", Code: model.CodeInvalidValue})
	case amount.GreaterThan(schedule.Terms.Principal):
		errs = append(errs, model.ValidationError{
			Field: "amount", Message: "prepayment exceeds the original principal", Code: model.CodeMaxValueExceeded})
	}

	if date.IsZero() {
		errs = append(errs, model.ValidationError{
			Field: "date", Message: "prepayment date is required", Code: model.CodeInvalidDate})
	} else {
		if date.Before(schedule.Terms.StartDate) {
			errs = append(errs, model.ValidationError{
				Field: "date", Message: "prepayment date precedes the loan start date", Code: model.CodeInvalidDateRange})
		}
		if !schedule.LastPaymentDate.IsZero() && date.After(schedule.LastPaymentDate) {
			errs = append(errs, model.ValidationError{
				Field: "date", Message: "prepayment date is after the final scheduled payment", Code: model.CodeInvalidDateRange})
		}
	}

	return errs
}
