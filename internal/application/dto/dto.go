package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/LendPeak/LendPeak2-sub000/internal/domain/model"
)

// ---------------------------------------------------------------------------
// Request DTOs
// ---------------------------------------------------------------------------

// LoanTermsRequest carries the contract parameters shared by the calculation
// endpoints. Enumerated fields are raw strings; the use case layer parses
// them and reports bad values as validation errors.
type LoanTermsRequest struct {
	LoanID           string           `json:"loan_id,omitempty"`
	Principal        decimal.Decimal  `json:"principal"`
	AnnualRate       decimal.Decimal  `json:"annual_rate"`
	TermMonths       int              `json:"term_months"`
	StartDate        time.Time        `json:"start_date"`
	FirstPaymentDate *time.Time       `json:"first_payment_date,omitempty"`
	Frequency        string           `json:"frequency,omitempty"`
	InterestType     string           `json:"interest_type,omitempty"`
	DayCount         string           `json:"day_count,omitempty"`
	BalloonAmount    *decimal.Decimal `json:"balloon_amount,omitempty"`
	BalloonDate      *time.Time       `json:"balloon_date,omitempty"`
	RoundingMethod   string           `json:"rounding_method,omitempty"`
	DecimalPlaces    *int32           `json:"decimal_places,omitempty"`
}

// CalculatePaymentRequest asks for the per-period payment and the derived
// rate figures without generating a full schedule.
type CalculatePaymentRequest struct {
	Terms LoanTermsRequest `json:"terms"`
	Fees  decimal.Decimal  `json:"fees"`
}

// GenerateScheduleRequest asks for a complete amortization schedule.
type GenerateScheduleRequest struct {
	Terms LoanTermsRequest `json:"terms"`
}

// GetScheduleRequest identifies a stored schedule to retrieve.
type GetScheduleRequest struct {
	LoanID string `json:"loan_id"`
}

// ApplyPrepaymentRequest recalculates a stored schedule after a prepayment.
type ApplyPrepaymentRequest struct {
	LoanID           string          `json:"loan_id"`
	Amount           decimal.Decimal `json:"amount"`
	Date             time.Time       `json:"date"`
	ApplyToPrincipal bool            `json:"apply_to_principal"`
}

// DetectBalloonsRequest scans a stored schedule for balloon payments.
// Threshold fields default to the standard detection configuration when
// left zero.
type DetectBalloonsRequest struct {
	LoanID            string          `json:"loan_id"`
	PercentThreshold  decimal.Decimal `json:"percent_threshold"`
	AbsoluteThreshold decimal.Decimal `json:"absolute_threshold"`
	Logic             string          `json:"logic,omitempty"`
	Region            string          `json:"region,omitempty"`
	LoanType          string          `json:"loan_type,omitempty"`
}

// ApplyBalloonStrategyRequest restructures a stored schedule around its
// largest balloon payment. Strategy selects the variant; only the matching
// config block is read.
type ApplyBalloonStrategyRequest struct {
	LoanID   string                `json:"loan_id"`
	Strategy string                `json:"strategy"` // SPLIT_PAYMENTS, EXTEND_CONTRACT or HYBRID
	Split    SplitPaymentsOptions  `json:"split,omitempty"`
	Extend   ExtendContractOptions `json:"extend,omitempty"`
	Hybrid   HybridOptions         `json:"hybrid,omitempty"`
}

// SplitPaymentsOptions configures the split-payments strategy.
type SplitPaymentsOptions struct {
	NumberOfPayments   int             `json:"number_of_payments"`
	Distribution       string          `json:"distribution,omitempty"` // EQUAL or GRADUATED
	MaxPaymentIncrease decimal.Decimal `json:"max_payment_increase"`
}

// ExtendContractOptions configures the extend-contract strategy.
type ExtendContractOptions struct {
	MaxExtensionMonths    int             `json:"max_extension_months"`
	TargetPaymentIncrease decimal.Decimal `json:"target_payment_increase"`
	RequiresApproval      bool            `json:"requires_approval"`
}

// HybridOptions configures the hybrid strategy's dispatch thresholds.
type HybridOptions struct {
	SmallBalloonThreshold decimal.Decimal `json:"small_balloon_threshold"`
	LargeBalloonThreshold decimal.Decimal `json:"large_balloon_threshold"`
}

// ---------------------------------------------------------------------------
// Response DTOs
// ---------------------------------------------------------------------------

// PaymentCalculationResponse carries the per-period payment, the lifetime
// totals and both derived annualised rates.
type PaymentCalculationResponse struct {
	Payment          decimal.Decimal         `json:"payment"`
	TotalInterest    decimal.Decimal         `json:"total_interest"`
	TotalPayments    decimal.Decimal         `json:"total_payments"`
	EffectiveRate    decimal.Decimal         `json:"effective_rate"`
	APR              decimal.Decimal         `json:"apr"`
	ValidationErrors []model.ValidationError `json:"validation_errors,omitempty"`
}

// ScheduledPaymentResponse represents a single schedule row.
type ScheduledPaymentResponse struct {
	Number              int             `json:"number"`
	DueDate             time.Time       `json:"due_date"`
	Principal           decimal.Decimal `json:"principal"`
	Interest            decimal.Decimal `json:"interest"`
	TotalPayment        decimal.Decimal `json:"total_payment"`
	BeginningBalance    decimal.Decimal `json:"beginning_balance"`
	EndingBalance       decimal.Decimal `json:"ending_balance"`
	CumulativeInterest  decimal.Decimal `json:"cumulative_interest"`
	CumulativePrincipal decimal.Decimal `json:"cumulative_principal"`
}

// ScheduleResponse is the external representation of an amortization
// schedule.
type ScheduleResponse struct {
	LoanID           string                     `json:"loan_id"`
	Payments         []ScheduledPaymentResponse `json:"payments"`
	TotalInterest    decimal.Decimal            `json:"total_interest"`
	TotalPrincipal   decimal.Decimal            `json:"total_principal"`
	TotalPayments    decimal.Decimal            `json:"total_payments"`
	EffectiveRate    decimal.Decimal            `json:"effective_rate"`
	LastPaymentDate  time.Time                  `json:"last_payment_date"`
	ValidationErrors []model.ValidationError    `json:"validation_errors,omitempty"`
}

// BalloonResultResponse describes one flagged payment.
type BalloonResultResponse struct {
	Payment        ScheduledPaymentResponse `json:"payment"`
	RegularPayment decimal.Decimal          `json:"regular_payment"`
	ExcessPercent  decimal.Decimal          `json:"excess_percent"`
	ExcessAmount   decimal.Decimal          `json:"excess_amount"`
}

// ComplianceResponse reports regulatory checks against the largest balloon.
type ComplianceResponse struct {
	Compliant  bool     `json:"compliant"`
	Violations []string `json:"violations,omitempty"`
}

// DetectBalloonsResponse carries every flagged payment plus the compliance
// verdict for the largest one.
type DetectBalloonsResponse struct {
	Results    []BalloonResultResponse `json:"results"`
	Largest    *BalloonResultResponse  `json:"largest,omitempty"`
	Compliance *ComplianceResponse     `json:"compliance,omitempty"`
}

// StrategyResponse reports the outcome of a balloon restructuring.
type StrategyResponse struct {
	Success                bool              `json:"success"`
	Message                string            `json:"message"`
	Schedule               *ScheduleResponse `json:"schedule,omitempty"`
	ExtensionMonths        int               `json:"extension_months,omitempty"`
	RequiresApproval       bool              `json:"requires_approval,omitempty"`
	RequiresBorrowerChoice bool              `json:"requires_borrower_choice,omitempty"`
	Warnings               []string          `json:"warnings,omitempty"`
}
