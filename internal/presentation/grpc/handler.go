package grpc

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/LendPeak/LendPeak2-sub000/internal/application/dto"
	"github.com/LendPeak/LendPeak2-sub000/internal/application/usecase"
	"github.com/LendPeak/LendPeak2-sub000/internal/domain/model"
	"github.com/LendPeak/LendPeak2-sub000/internal/domain/port"
)

const wireDateLayout = "2006-01-02"

// CalcHandler implements the gRPC loan calculation service handler.
type CalcHandler struct {
	UnimplementedLoanCalcServiceServer

	calculatePayment *usecase.CalculatePaymentUseCase
	generateSchedule *usecase.GenerateScheduleUseCase
	getSchedule      *usecase.GetScheduleUseCase
	applyPrepayment  *usecase.ApplyPrepaymentUseCase
	detectBalloons   *usecase.DetectBalloonsUseCase
	applyStrategy    *usecase.ApplyBalloonStrategyUseCase
}

// NewCalcHandler creates a new gRPC calculation handler.
func NewCalcHandler(
	calculatePayment *usecase.CalculatePaymentUseCase,
	generateSchedule *usecase.GenerateScheduleUseCase,
	getSchedule *usecase.GetScheduleUseCase,
	applyPrepayment *usecase.ApplyPrepaymentUseCase,
	detectBalloons *usecase.DetectBalloonsUseCase,
	applyStrategy *usecase.ApplyBalloonStrategyUseCase,
) *CalcHandler {
	return &CalcHandler{
		calculatePayment: calculatePayment,
		generateSchedule: generateSchedule,
		getSchedule:      getSchedule,
		applyPrepayment:  applyPrepayment,
		detectBalloons:   detectBalloons,
		applyStrategy:    applyStrategy,
	}
}

// ---------------------------------------------------------------------------
// wire messages
// ---------------------------------------------------------------------------

// LoanTermsMessage carries loan contract parameters over the wire. Decimal
// fields are strings so precision survives the codec; dates use YYYY-MM-DD.
type LoanTermsMessage struct {
	LoanID           string `json:"loan_id,omitempty"`
	Principal        string `json:"principal"`
	AnnualRate       string `json:"annual_rate"`
	TermMonths       int    `json:"term_months"`
	StartDate        string `json:"start_date"`
	FirstPaymentDate string `json:"first_payment_date,omitempty"`
	Frequency        string `json:"frequency,omitempty"`
	InterestType     string `json:"interest_type,omitempty"`
	DayCount         string `json:"day_count,omitempty"`
	BalloonAmount    string `json:"balloon_amount,omitempty"`
	BalloonDate      string `json:"balloon_date,omitempty"`
	RoundingMethod   string `json:"rounding_method,omitempty"`
	DecimalPlaces    *int32 `json:"decimal_places,omitempty"`
}

// CalculatePaymentRequest represents the gRPC request for calculating a payment.
type CalculatePaymentRequest struct {
	Terms LoanTermsMessage `json:"terms"`
	Fees  string           `json:"fees,omitempty"`
}

// CalculatePaymentResponse represents the gRPC response for a payment calculation.
type CalculatePaymentResponse struct {
	Payment          string                   `json:"payment"`
	TotalInterest    string                   `json:"total_interest"`
	TotalPayments    string                   `json:"total_payments"`
	EffectiveRate    string                   `json:"effective_rate"`
	APR              string                   `json:"apr"`
	ValidationErrors []ValidationErrorMessage `json:"validation_errors,omitempty"`
}

// GenerateScheduleRequest represents the gRPC request for generating a schedule.
type GenerateScheduleRequest struct {
	Terms LoanTermsMessage `json:"terms"`
}

// GetScheduleRequest represents the gRPC request for retrieving a schedule.
type GetScheduleRequest struct {
	LoanID string `json:"loan_id"`
}

// ApplyPrepaymentRequest represents the gRPC request for applying a prepayment.
type ApplyPrepaymentRequest struct {
	LoanID           string `json:"loan_id"`
	Amount           string `json:"amount"`
	Date             string `json:"date"`
	ApplyToPrincipal bool   `json:"apply_to_principal"`
}

// DetectBalloonsRequest represents the gRPC request for balloon detection.
type DetectBalloonsRequest struct {
	LoanID            string `json:"loan_id"`
	PercentThreshold  string `json:"percent_threshold,omitempty"`
	AbsoluteThreshold string `json:"absolute_threshold,omitempty"`
	Logic             string `json:"logic,omitempty"`
	Region            string `json:"region,omitempty"`
	LoanType          string `json:"loan_type,omitempty"`
}

// ApplyBalloonStrategyRequest represents the gRPC request for restructuring
// a schedule around its largest balloon payment.
type ApplyBalloonStrategyRequest struct {
	LoanID   string                 `json:"loan_id"`
	Strategy string                 `json:"strategy"`
	Split    *SplitPaymentsMessage  `json:"split,omitempty"`
	Extend   *ExtendContractMessage `json:"extend,omitempty"`
	Hybrid   *HybridMessage         `json:"hybrid,omitempty"`
}

// SplitPaymentsMessage configures the split-payments strategy.
type SplitPaymentsMessage struct {
	NumberOfPayments   int    `json:"number_of_payments"`
	Distribution       string `json:"distribution,omitempty"`
	MaxPaymentIncrease string `json:"max_payment_increase,omitempty"`
}

// ExtendContractMessage configures the extend-contract strategy.
type ExtendContractMessage struct {
	MaxExtensionMonths    int    `json:"max_extension_months"`
	TargetPaymentIncrease string `json:"target_payment_increase,omitempty"`
	RequiresApproval      bool   `json:"requires_approval"`
}

// HybridMessage configures the hybrid strategy thresholds.
type HybridMessage struct {
	SmallBalloonThreshold string `json:"small_balloon_threshold,omitempty"`
	LargeBalloonThreshold string `json:"large_balloon_threshold,omitempty"`
}

// ValidationErrorMessage reports one user-correctable input problem.
type ValidationErrorMessage struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// ScheduledPaymentMessage represents one schedule row.
type ScheduledPaymentMessage struct {
	Number              int    `json:"number"`
	DueDate             string `json:"due_date"`
	Principal           string `json:"principal"`
	Interest            string `json:"interest"`
	TotalPayment        string `json:"total_payment"`
	BeginningBalance    string `json:"beginning_balance"`
	EndingBalance       string `json:"ending_balance"`
	CumulativeInterest  string `json:"cumulative_interest"`
	CumulativePrincipal string `json:"cumulative_principal"`
}

// ScheduleResponse represents the gRPC response carrying a full schedule.
type ScheduleResponse struct {
	LoanID           string                    `json:"loan_id"`
	Payments         []ScheduledPaymentMessage `json:"payments"`
	TotalInterest    string                    `json:"total_interest"`
	TotalPrincipal   string                    `json:"total_principal"`
	TotalPayments    string                    `json:"total_payments"`
	EffectiveRate    string                    `json:"effective_rate"`
	LastPaymentDate  string                    `json:"last_payment_date"`
	ValidationErrors []ValidationErrorMessage  `json:"validation_errors,omitempty"`
}

// BalloonResultMessage describes one flagged payment.
type BalloonResultMessage struct {
	Payment        ScheduledPaymentMessage `json:"payment"`
	RegularPayment string                  `json:"regular_payment"`
	ExcessPercent  string                  `json:"excess_percent"`
	ExcessAmount   string                  `json:"excess_amount"`
}

// ComplianceMessage reports regulatory checks against the largest balloon.
type ComplianceMessage struct {
	Compliant  bool     `json:"compliant"`
	Violations []string `json:"violations,omitempty"`
}

// DetectBalloonsResponse represents the gRPC response for balloon detection.
type DetectBalloonsResponse struct {
	Results    []BalloonResultMessage `json:"results"`
	Largest    *BalloonResultMessage  `json:"largest,omitempty"`
	Compliance *ComplianceMessage     `json:"compliance,omitempty"`
}

// StrategyResponse represents the gRPC response for a balloon restructuring.
type StrategyResponse struct {
	Success                bool              `json:"success"`
	Message                string            `json:"message"`
	Schedule               *ScheduleResponse `json:"schedule,omitempty"`
	ExtensionMonths        int               `json:"extension_months,omitempty"`
	RequiresApproval       bool              `json:"requires_approval,omitempty"`
	RequiresBorrowerChoice bool              `json:"requires_borrower_choice,omitempty"`
	Warnings               []string          `json:"warnings,omitempty"`
}

// ---------------------------------------------------------------------------
// RPC methods
// ---------------------------------------------------------------------------

// CalculatePayment handles the gRPC CalculatePayment request.
func (h *CalcHandler) CalculatePayment(ctx context.Context, req *CalculatePaymentRequest) (*CalculatePaymentResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	terms, err := termsFromMessage(req.Terms)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	fees, err := optionalAmount("fees", req.Fees)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	result, err := h.calculatePayment.Execute(ctx, dto.CalculatePaymentRequest{
		Terms: terms,
		Fees:  fees,
	})
	if err != nil {
		return nil, toStatusError(err)
	}

	return &CalculatePaymentResponse{
		Payment:          result.Payment.String(),
		TotalInterest:    result.TotalInterest.String(),
		TotalPayments:    result.TotalPayments.String(),
		EffectiveRate:    result.EffectiveRate.String(),
		APR:              result.APR.String(),
		ValidationErrors: toValidationMessages(result.ValidationErrors),
	}, nil
}

// GenerateSchedule handles the gRPC GenerateSchedule request.
func (h *CalcHandler) GenerateSchedule(ctx context.Context, req *GenerateScheduleRequest) (*ScheduleResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	terms, err := termsFromMessage(req.Terms)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	result, err := h.generateSchedule.Execute(ctx, dto.GenerateScheduleRequest{Terms: terms})
	if err != nil {
		return nil, toStatusError(err)
	}
	return toScheduleMessage(result), nil
}

// GetSchedule handles the gRPC GetSchedule request.
func (h *CalcHandler) GetSchedule(ctx context.Context, req *GetScheduleRequest) (*ScheduleResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	if req.LoanID == "" {
		return nil, status.Error(codes.InvalidArgument, "loan_id is required")
	}

	result, err := h.getSchedule.Execute(ctx, dto.GetScheduleRequest{LoanID: req.LoanID})
	if err != nil {
		return nil, toStatusError(err)
	}
	return toScheduleMessage(result), nil
}

// ApplyPrepayment handles the gRPC ApplyPrepayment request.
func (h *CalcHandler) ApplyPrepayment(ctx context.Context, req *ApplyPrepaymentRequest) (*ScheduleResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	if req.LoanID == "" {
		return nil, status.Error(codes.InvalidArgument, "loan_id is required")
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, fmt.Sprintf("invalid amount: %v", err))
	}
	date, err := time.Parse(wireDateLayout, req.Date)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, fmt.Sprintf("invalid date: %v", err))
	}

	result, err := h.applyPrepayment.Execute(ctx, dto.ApplyPrepaymentRequest{
		LoanID:           req.LoanID,
		Amount:           amount,
		Date:             date,
		ApplyToPrincipal: req.ApplyToPrincipal,
	})
	if err != nil {
		return nil, toStatusError(err)
	}
	return toScheduleMessage(result), nil
}

// DetectBalloons handles the gRPC DetectBalloons request.
func (h *CalcHandler) DetectBalloons(ctx context.Context, req *DetectBalloonsRequest) (*DetectBalloonsResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	if req.LoanID == "" {
		return nil, status.Error(codes.InvalidArgument, "loan_id is required")
	}

	percent, err := optionalAmount("percent_threshold", req.PercentThreshold)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	absolute, err := optionalAmount("absolute_threshold", req.AbsoluteThreshold)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	result, err := h.detectBalloons.Execute(ctx, dto.DetectBalloonsRequest{
		LoanID:            req.LoanID,
		PercentThreshold:  percent,
		AbsoluteThreshold: absolute,
		Logic:             req.Logic,
		Region:            req.Region,
		LoanType:          req.LoanType,
	})
	if err != nil {
		return nil, toStatusError(err)
	}

	resp := &DetectBalloonsResponse{
		Results: make([]BalloonResultMessage, 0, len(result.Results)),
	}
	for _, r := range result.Results {
		resp.Results = append(resp.Results, toBalloonResultMessage(r))
	}
	if result.Largest != nil {
		largest := toBalloonResultMessage(*result.Largest)
		resp.Largest = &largest
	}
	if result.Compliance != nil {
		resp.Compliance = &ComplianceMessage{
			Compliant:  result.Compliance.Compliant,
			Violations: result.Compliance.Violations,
		}
	}
	return resp, nil
}

// ApplyBalloonStrategy handles the gRPC ApplyBalloonStrategy request.
func (h *CalcHandler) ApplyBalloonStrategy(ctx context.Context, req *ApplyBalloonStrategyRequest) (*StrategyResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	if req.LoanID == "" {
		return nil, status.Error(codes.InvalidArgument, "loan_id is required")
	}
	if req.Strategy == "" {
		return nil, status.Error(codes.InvalidArgument, "strategy is required")
	}

	ucReq := dto.ApplyBalloonStrategyRequest{
		LoanID:   req.LoanID,
		Strategy: req.Strategy,
	}
	if req.Split != nil {
		maxIncrease, err := optionalAmount("split.max_payment_increase", req.Split.MaxPaymentIncrease)
		if err != nil {
			return nil, status.Error(codes.InvalidArgument, err.Error())
		}
		ucReq.Split = dto.SplitPaymentsOptions{
			NumberOfPayments:   req.Split.NumberOfPayments,
			Distribution:       req.Split.Distribution,
			MaxPaymentIncrease: maxIncrease,
		}
	}
	if req.Extend != nil {
		targetIncrease, err := optionalAmount("extend.target_payment_increase", req.Extend.TargetPaymentIncrease)
		if err != nil {
			return nil, status.Error(codes.InvalidArgument, err.Error())
		}
		ucReq.Extend = dto.ExtendContractOptions{
			MaxExtensionMonths:    req.Extend.MaxExtensionMonths,
			TargetPaymentIncrease: targetIncrease,
			RequiresApproval:      req.Extend.RequiresApproval,
		}
	}
	if req.Hybrid != nil {
		small, err := optionalAmount("hybrid.small_balloon_threshold", req.Hybrid.SmallBalloonThreshold)
		if err != nil {
			return nil, status.Error(codes.InvalidArgument, err.Error())
		}
		large, err := optionalAmount("hybrid.large_balloon_threshold", req.Hybrid.LargeBalloonThreshold)
		if err != nil {
			return nil, status.Error(codes.InvalidArgument, err.Error())
		}
		ucReq.Hybrid = dto.HybridOptions{
			SmallBalloonThreshold: small,
			LargeBalloonThreshold: large,
		}
	}

	result, err := h.applyStrategy.Execute(ctx, ucReq)
	if err != nil {
		return nil, toStatusError(err)
	}

	resp := &StrategyResponse{
		Success:                result.Success,
		Message:                result.Message,
		ExtensionMonths:        result.ExtensionMonths,
		RequiresApproval:       result.RequiresApproval,
		RequiresBorrowerChoice: result.RequiresBorrowerChoice,
		Warnings:               result.Warnings,
	}
	if result.Schedule != nil {
		resp.Schedule = toScheduleMessage(*result.Schedule)
	}
	return resp, nil
}

// ---------------------------------------------------------------------------
// mapping helpers
// ---------------------------------------------------------------------------

func termsFromMessage(msg LoanTermsMessage) (dto.LoanTermsRequest, error) {
	principal, err := decimal.NewFromString(msg.Principal)
	if err != nil {
		return dto.LoanTermsRequest{}, fmt.Errorf("invalid principal: %w", err)
	}
	rate, err := decimal.NewFromString(msg.AnnualRate)
	if err != nil {
		return dto.LoanTermsRequest{}, fmt.Errorf("invalid annual_rate: %w", err)
	}
	startDate, err := time.Parse(wireDateLayout, msg.StartDate)
	if err != nil {
		return dto.LoanTermsRequest{}, fmt.Errorf("invalid start_date: %w", err)
	}

	req := dto.LoanTermsRequest{
		LoanID:         msg.LoanID,
		Principal:      principal,
		AnnualRate:     rate,
		TermMonths:     msg.TermMonths,
		StartDate:      startDate,
		Frequency:      msg.Frequency,
		InterestType:   msg.InterestType,
		DayCount:       msg.DayCount,
		RoundingMethod: msg.RoundingMethod,
		DecimalPlaces:  msg.DecimalPlaces,
	}

	if msg.FirstPaymentDate != "" {
		d, err := time.Parse(wireDateLayout, msg.FirstPaymentDate)
		if err != nil {
			return dto.LoanTermsRequest{}, fmt.Errorf("invalid first_payment_date: %w", err)
		}
		req.FirstPaymentDate = &d
	}
	if msg.BalloonAmount != "" {
		amt, err := decimal.NewFromString(msg.BalloonAmount)
		if err != nil {
			return dto.LoanTermsRequest{}, fmt.Errorf("invalid balloon_amount: %w", err)
		}
		req.BalloonAmount = &amt
	}
	if msg.BalloonDate != "" {
		d, err := time.Parse(wireDateLayout, msg.BalloonDate)
		if err != nil {
			return dto.LoanTermsRequest{}, fmt.Errorf("invalid balloon_date: %w", err)
		}
		req.BalloonDate = &d
	}
	return req, nil
}

func optionalAmount(field, raw string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Zero, nil
	}
	amt, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("invalid %s: %w", field, err)
	}
	return amt, nil
}

func toStatusError(err error) error {
	if errors.Is(err, port.ErrNotFound) {
		return status.Error(codes.NotFound, err.Error())
	}
	return status.Error(codes.Internal, err.Error())
}

func toValidationMessages(errs []model.ValidationError) []ValidationErrorMessage {
	if len(errs) == 0 {
		return nil
	}
	out := make([]ValidationErrorMessage, 0, len(errs))
	for _, e := range errs {
		out = append(out, ValidationErrorMessage{
			Field:   e.Field,
			Message: e.Message,
			Code:    string(e.Code),
		})
	}
	return out
}

func toPaymentMessage(p dto.ScheduledPaymentResponse) ScheduledPaymentMessage {
	return ScheduledPaymentMessage{
		Number:              p.Number,
		DueDate:             p.DueDate.Format(wireDateLayout),
		Principal:           p.Principal.String(),
		Interest:            p.Interest.String(),
		TotalPayment:        p.TotalPayment.String(),
		BeginningBalance:    p.BeginningBalance.String(),
		EndingBalance:       p.EndingBalance.String(),
		CumulativeInterest:  p.CumulativeInterest.String(),
		CumulativePrincipal: p.CumulativePrincipal.String(),
	}
}

func toScheduleMessage(s dto.ScheduleResponse) *ScheduleResponse {
	payments := make([]ScheduledPaymentMessage, 0, len(s.Payments))
	for _, p := range s.Payments {
		payments = append(payments, toPaymentMessage(p))
	}
	msg := &ScheduleResponse{
		LoanID:           s.LoanID,
		Payments:         payments,
		TotalInterest:    s.TotalInterest.String(),
		TotalPrincipal:   s.TotalPrincipal.String(),
		TotalPayments:    s.TotalPayments.String(),
		EffectiveRate:    s.EffectiveRate.String(),
		ValidationErrors: toValidationMessages(s.ValidationErrors),
	}
	if !s.LastPaymentDate.IsZero() {
		msg.LastPaymentDate = s.LastPaymentDate.Format(wireDateLayout)
	}
	return msg
}

func toBalloonResultMessage(r dto.BalloonResultResponse) BalloonResultMessage {
	return BalloonResultMessage{
		Payment:        toPaymentMessage(r.Payment),
		RegularPayment: r.RegularPayment.String(),
		ExcessPercent:  r.ExcessPercent.String(),
		ExcessAmount:   r.ExcessAmount.String(),
	}
}
