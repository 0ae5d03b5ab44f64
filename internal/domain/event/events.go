package event

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/LendPeak/LendPeak2-sub000/pkg/events"
)

// DomainEvent is an alias for the shared pkg/events.DomainEvent interface.
type DomainEvent = events.DomainEvent

// ---------------------------------------------------------------------------
// Schedule Events
// ---------------------------------------------------------------------------

// ScheduleGenerated is raised when an amortization schedule is computed for a
// loan.
type ScheduleGenerated struct {
	events.BaseEvent
	Principal     decimal.Decimal `json:"principal"`
	AnnualRate    decimal.Decimal `json:"annual_rate"`
	TermMonths    int             `json:"term_months"`
	PaymentCount  int             `json:"payment_count"`
	TotalInterest decimal.Decimal `json:"total_interest"`
}

func NewScheduleGenerated(
	loanID string,
	principal, annualRate decimal.Decimal,
	termMonths, paymentCount int,
	totalInterest decimal.Decimal,
) ScheduleGenerated {
	return ScheduleGenerated{
		BaseEvent:     events.NewBaseEvent("calc.schedule.generated", loanID, "AmortizationSchedule"),
		Principal:     principal,
		AnnualRate:    annualRate,
		TermMonths:    termMonths,
		PaymentCount:  paymentCount,
		TotalInterest: totalInterest,
	}
}

// PrepaymentApplied is raised when a principal prepayment restructures an
// existing schedule.
type PrepaymentApplied struct {
	events.BaseEvent
	Amount           decimal.Decimal `json:"amount"`
	PrepaymentDate   time.Time       `json:"prepayment_date"`
	ApplyToPrincipal bool            `json:"apply_to_principal"`
	RemainingCount   int             `json:"remaining_payment_count"`
	InterestSaved    decimal.Decimal `json:"interest_saved"`
}

func NewPrepaymentApplied(
	loanID string,
	amount decimal.Decimal,
	prepaymentDate time.Time,
	applyToPrincipal bool,
	remainingCount int,
	interestSaved decimal.Decimal,
) PrepaymentApplied {
	return PrepaymentApplied{
		BaseEvent:        events.NewBaseEvent("calc.prepayment.applied", loanID, "AmortizationSchedule"),
		Amount:           amount,
		PrepaymentDate:   prepaymentDate,
		ApplyToPrincipal: applyToPrincipal,
		RemainingCount:   remainingCount,
		InterestSaved:    interestSaved,
	}
}

// ---------------------------------------------------------------------------
// Balloon Events
// ---------------------------------------------------------------------------

// BalloonDetected is raised when schedule analysis flags one or more balloon
// payments.
type BalloonDetected struct {
	events.BaseEvent
	BalloonCount   int             `json:"balloon_count"`
	LargestPayment decimal.Decimal `json:"largest_payment"`
	ExcessPercent  decimal.Decimal `json:"excess_percent"`
	ExcessAmount   decimal.Decimal `json:"excess_amount"`
}

func NewBalloonDetected(
	loanID string,
	balloonCount int,
	largestPayment, excessPercent, excessAmount decimal.Decimal,
) BalloonDetected {
	return BalloonDetected{
		BaseEvent:      events.NewBaseEvent("calc.balloon.detected", loanID, "AmortizationSchedule"),
		BalloonCount:   balloonCount,
		LargestPayment: largestPayment,
		ExcessPercent:  excessPercent,
		ExcessAmount:   excessAmount,
	}
}

// BalloonStrategyApplied is raised when a restructuring strategy produces a
// revised schedule or term.
type BalloonStrategyApplied struct {
	events.BaseEvent
	Strategy        string `json:"strategy"`
	Success         bool   `json:"success"`
	ExtensionMonths int    `json:"extension_months,omitempty"`
	Message         string `json:"message"`
}

func NewBalloonStrategyApplied(
	loanID, strategy string,
	success bool,
	extensionMonths int,
	message string,
) BalloonStrategyApplied {
	return BalloonStrategyApplied{
		BaseEvent:       events.NewBaseEvent("calc.balloon.strategy_applied", loanID, "AmortizationSchedule"),
		Strategy:        strategy,
		Success:         success,
		ExtensionMonths: extensionMonths,
		Message:         message,
	}
}

// BalloonNotificationScheduled is raised when regulatory notification dates
// are computed ahead of a balloon payment.
type BalloonNotificationScheduled struct {
	events.BaseEvent
	BalloonDate       time.Time   `json:"balloon_date"`
	NotificationDates []time.Time `json:"notification_dates"`
	Region            string      `json:"region"`
}

func NewBalloonNotificationScheduled(
	loanID string,
	balloonDate time.Time,
	notificationDates []time.Time,
	region string,
) BalloonNotificationScheduled {
	return BalloonNotificationScheduled{
		BaseEvent:         events.NewBaseEvent("calc.balloon.notification_scheduled", loanID, "AmortizationSchedule"),
		BalloonDate:       balloonDate,
		NotificationDates: notificationDates,
		Region:            region,
	}
}
