package usecase

import (
	"github.com/LendPeak/LendPeak2-sub000/internal/application/dto"
	"github.com/LendPeak/LendPeak2-sub000/internal/domain/calendar"
	"github.com/LendPeak/LendPeak2-sub000/internal/domain/model"
	"github.com/LendPeak/LendPeak2-sub000/internal/domain/service"
	"github.com/LendPeak/LendPeak2-sub000/pkg/money"
)

// termsFromRequest parses a terms request into a domain LoanTerms value.
// Unparseable enum fields come back as validation errors alongside whatever
// the domain validator finds, so a single response reports every problem.
func termsFromRequest(req dto.LoanTermsRequest, validator *service.Validator) (model.LoanTerms, []model.ValidationError) {
	var errs []model.ValidationError
	opts := model.TermsOptions{
		FirstPaymentDate: req.FirstPaymentDate,
		BalloonAmount:    req.BalloonAmount,
		BalloonDate:      req.BalloonDate,
	}

	if req.Frequency != "" {
		f, err := calendar.NewFrequency(req.Frequency)
		if err != nil {
			errs = append(errs, model.ValidationError{
				Field: "frequency", Message: err.Error(), Code: model.CodeInvalidValue})
		} else {
			opts.Frequency = f
		}
	}
	if req.InterestType != "" {
		it, err := model.NewInterestType(req.InterestType)
		if err != nil {
			errs = append(errs, model.ValidationError{
				Field: "interestType", Message: err.Error(), Code: model.CodeInvalidValue})
		} else {
			opts.InterestType = it
		}
	}
	if req.DayCount != "" {
		dc, err := calendar.NewDayCountConvention(req.DayCount)
		if err != nil {
			errs = append(errs, model.ValidationError{
				Field: "dayCount", Message: err.Error(), Code: model.CodeInvalidValue})
		} else {
			opts.DayCount = dc
		}
	}
	if req.RoundingMethod != "" {
		m, err := money.NewRoundingMethod(req.RoundingMethod)
		if err != nil {
			errs = append(errs, model.ValidationError{
				Field: "roundingMethod", Message: err.Error(), Code: model.CodeInvalidValue})
		} else {
			var places int32 = money.DefaultDecimalPlaces
			if req.DecimalPlaces != nil {
				places = *req.DecimalPlaces
			}
			opts.Rounding = money.RoundingConfig{Method: m, DecimalPlaces: places}
		}
	}

	terms := model.NewLoanTerms(req.Principal, req.AnnualRate, req.TermMonths, req.StartDate, opts)
	if req.LoanID != "" {
		terms.ID = req.LoanID
	}

	errs = append(errs, validator.ValidateLoanTerms(terms)...)
	return terms, errs
}

func toPaymentResponse(p model.ScheduledPayment) dto.ScheduledPaymentResponse {
	return dto.ScheduledPaymentResponse{
		Number:              p.Number,
		DueDate:             p.DueDate,
		Principal:           p.Principal,
		Interest:            p.Interest,
		TotalPayment:        p.TotalPayment,
		BeginningBalance:    p.BeginningBalance,
		EndingBalance:       p.EndingBalance,
		CumulativeInterest:  p.CumulativeInterest,
		CumulativePrincipal: p.CumulativePrincipal,
	}
}

func toScheduleResponse(s model.AmortizationSchedule) dto.ScheduleResponse {
	payments := make([]dto.ScheduledPaymentResponse, len(s.Payments))
	for i, p := range s.Payments {
		payments[i] = toPaymentResponse(p)
	}
	return dto.ScheduleResponse{
		LoanID:          s.LoanID,
		Payments:        payments,
		TotalInterest:   s.TotalInterest,
		TotalPrincipal:  s.TotalPrincipal,
		TotalPayments:   s.TotalPayments,
		EffectiveRate:   s.EffectiveRate,
		LastPaymentDate: s.LastPaymentDate,
	}
}

func toBalloonResultResponse(r model.BalloonDetectionResult) dto.BalloonResultResponse {
	return dto.BalloonResultResponse{
		Payment:        toPaymentResponse(r.Payment),
		RegularPayment: r.RegularPayment,
		ExcessPercent:  r.ExcessPercent,
		ExcessAmount:   r.ExcessAmount,
	}
}
