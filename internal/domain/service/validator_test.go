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

func findValidationError(errs []model.ValidationError, field string) (model.ValidationError, bool) {
	for _, e := range errs {
		if e.Field == field {
			return e, true
		}
	}
	return model.ValidationError{}, false
}

func TestValidateLoanTerms_Acceptable(t *testing.T) {
	v := service.NewValidator()

	terms := monthlyTerms("100000", "5", 360, model.TermsOptions{})
	assert.Empty(t, v.ValidateLoanTerms(terms))

	// Zero rate and single-month terms are legitimate contracts.
	assert.Empty(t, v.ValidateLoanTerms(monthlyTerms("1200", "0", 1, model.TermsOptions{})))
}

func TestValidateLoanTerms_Principal(t *testing.T) {
	v := service.NewValidator()

	t.Run("missing", func(t *testing.T) {
		errs := v.ValidateLoanTerms(monthlyTerms("0", "5", 12, model.TermsOptions{}))
		e, ok := findValidationError(errs, "principal")
		require.True(t, ok)
		assert.Equal(t, model.CodeRequiredField, e.Code)
	})

	t.Run("negative", func(t *testing.T) {
		errs := v.ValidateLoanTerms(monthlyTerms("-5000", "5", 12, model.TermsOptions{}))
		e, ok := findValidationError(errs, "principal")
		require.True(t, ok)
		assert.Equal(t, model.CodeInvalidValue, e.Code)
	})

	t.Run("over the ceiling", func(t *testing.T) {
		errs := v.ValidateLoanTerms(monthlyTerms("100000001", "5", 12, model.TermsOptions{}))
		e, ok := findValidationError(errs, "principal")
		require.True(t, ok)
		assert.Equal(t, model.CodeMaxValueExceeded, e.Code)
	})
}

func TestValidateLoanTerms_RateAndTerm(t *testing.T) {
	v := service.NewValidator()

	errs := v.ValidateLoanTerms(monthlyTerms("10000", "-1", 12, model.TermsOptions{}))
	e, ok := findValidationError(errs, "annualRate")
	require.True(t, ok)
	assert.Equal(t, model.CodeInvalidValue, e.Code)

	errs = v.ValidateLoanTerms(monthlyTerms("10000", "101", 12, model.TermsOptions{}))
	e, ok = findValidationError(errs, "annualRate")
	require.True(t, ok)
	assert.Equal(t, model.CodeMaxValueExceeded, e.Code)

	errs = v.ValidateLoanTerms(monthlyTerms("10000", "5", 0, model.TermsOptions{}))
	e, ok = findValidationError(errs, "termMonths")
	require.True(t, ok)
	assert.Equal(t, model.CodeInvalidValue, e.Code)

	errs = v.ValidateLoanTerms(monthlyTerms("10000", "5", 601, model.TermsOptions{}))
	e, ok = findValidationError(errs, "termMonths")
	require.True(t, ok)
	assert.Equal(t, model.CodeMaxValueExceeded, e.Code)
}

func TestValidateLoanTerms_Dates(t *testing.T) {
	v := service.NewValidator()

	t.Run("start date required", func(t *testing.T) {
		terms := model.NewLoanTerms(dec("10000"), dec("5"), 12, time.Time{}, model.TermsOptions{})
		errs := v.ValidateLoanTerms(terms)
		e, ok := findValidationError(errs, "startDate")
		require.True(t, ok)
		assert.Equal(t, model.CodeInvalidDate, e.Code)
	})

	t.Run("first payment before start", func(t *testing.T) {
		first := date(2024, time.December, 1)
		errs := v.ValidateLoanTerms(monthlyTerms("10000", "5", 12, model.TermsOptions{
			FirstPaymentDate: &first,
		}))
		e, ok := findValidationError(errs, "firstPaymentDate")
		require.True(t, ok)
		assert.Equal(t, model.CodeInvalidDateRange, e.Code)
	})
}

func TestValidateLoanTerms_Balloon(t *testing.T) {
	v := service.NewValidator()

	t.Run("non-positive", func(t *testing.T) {
		balloon := decimal.Zero
		errs := v.ValidateLoanTerms(monthlyTerms("10000", "5", 12, model.TermsOptions{
			BalloonAmount: &balloon,
		}))
		e, ok := findValidationError(errs, "balloonAmount")
		require.True(t, ok)
		assert.Equal(t, model.CodeInvalidValue, e.Code)
	})

	t.Run("at or above principal", func(t *testing.T) {
		balloon := dec("10000")
		errs := v.ValidateLoanTerms(monthlyTerms("10000", "5", 12, model.TermsOptions{
			BalloonAmount: &balloon,
		}))
		_, ok := findValidationError(errs, "balloonAmount")
		assert.True(t, ok)
	})

	t.Run("balloon date before start", func(t *testing.T) {
		balloon := dec("3000")
		balloonDate := date(2024, time.June, 1)
		errs := v.ValidateLoanTerms(monthlyTerms("10000", "5", 12, model.TermsOptions{
			BalloonAmount: &balloon,
			BalloonDate:   &balloonDate,
		}))
		e, ok := findValidationError(errs, "balloonDate")
		require.True(t, ok)
		assert.Equal(t, model.CodeInvalidDateRange, e.Code)
	})

	t.Run("valid balloon", func(t *testing.T) {
		balloon := dec("3000")
		errs := v.ValidateLoanTerms(monthlyTerms("10000", "5", 12, model.TermsOptions{
			BalloonAmount: &balloon,
		}))
		assert.Empty(t, errs)
	})
}

func TestValidateLoanTerms_ReportsAllProblemsAtOnce(t *testing.T) {
	v := service.NewValidator()

	terms := model.NewLoanTerms(dec("-1"), dec("150"), 0, time.Time{}, model.TermsOptions{})
	errs := v.ValidateLoanTerms(terms)
	assert.GreaterOrEqual(t, len(errs), 4, "one pass reports every violated field")
}

func TestValidatePrepayment(t *testing.T) {
	v := service.NewValidator()
	schedule := newGenerator().Generate(monthlyTerms("12000", "6", 12, model.TermsOptions{}))

	t.Run("acceptable", func(t *testing.T) {
		errs := v.ValidatePrepayment(schedule, dec("2000"), date(2025, time.April, 15))
		assert.Empty(t, errs)
	})

	t.Run("amount required", func(t *testing.T) {
		errs := v.ValidatePrepayment(schedule, decimal.Zero, date(2025, time.April, 15))
		e, ok := findValidationError(errs, "amount")
		require.True(t, ok)
		assert.Equal(t, model.CodeRequiredField, e.Code)
	})

	t.Run("negative amount", func(t *testing.T) {
		errs := v.ValidatePrepayment(schedule, dec("-100"), date(2025, time.April, 15))
		e, ok := findValidationError(errs, "amount")
		require.True(t, ok)
		assert.Equal(t, model.CodeInvalidValue, e.Code)
	})

	t.Run("amount over principal", func(t *testing.T) {
		errs := v.ValidatePrepayment(schedule, dec("12001"), date(2025, time.April, 15))
		e, ok := findValidationError(errs, "amount")
		require.True(t, ok)
		assert.Equal(t, model.CodeMaxValueExceeded, e.Code)
	})

	t.Run("date required", func(t *testing.T) {
		errs := v.ValidatePrepayment(schedule, dec("2000"), time.Time{})
		e, ok := findValidationError(errs, "date")
		require.True(t, ok)
		assert.Equal(t, model.CodeInvalidDate, e.Code)
	})

	t.Run("date before start", func(t *testing.T) {
		errs := v.ValidatePrepayment(schedule, dec("2000"), date(2024, time.June, 1))
		e, ok := findValidationError(errs, "date")
		require.True(t, ok)
		assert.Equal(t, model.CodeInvalidDateRange, e.Code)
	})

	t.Run("date after maturity", func(t *testing.T) {
		errs := v.ValidatePrepayment(schedule, dec("2000"), date(2030, time.January, 1))
		e, ok := findValidationError(errs, "date")
		require.True(t, ok)
		assert.Equal(t, model.CodeInvalidDateRange, e.Code)
	})
}
