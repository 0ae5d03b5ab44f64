package model

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// Balloon detection
// ---------------------------------------------------------------------------

// ThresholdLogic selects how the percentage and absolute balloon thresholds
// combine.
type ThresholdLogic struct {
	value string
}

const (
	logicAnd = "AND"
	logicOr  = "OR"
)

var (
	ThresholdLogicAnd = ThresholdLogic{value: logicAnd}
	ThresholdLogicOr  = ThresholdLogic{value: logicOr}
)

// NewThresholdLogic creates a ThresholdLogic from a raw string.
func NewThresholdLogic(s string) (ThresholdLogic, error) {
	switch s {
	case logicAnd:
		return ThresholdLogicAnd, nil
	case logicOr:
		return ThresholdLogicOr, nil
	default:
		return ThresholdLogic{}, fmt.Errorf("invalid threshold logic: %q", s)
	}
}

// String returns the string representation of the logic.
func (l ThresholdLogic) String() string { return l.value }

// IsAnd reports whether both thresholds must be met.
func (l ThresholdLogic) IsAnd() bool { return l.value == logicAnd }

// BalloonDetectionConfig controls how payments are tested against the
// regular-payment baseline.
type BalloonDetectionConfig struct {
	Enabled           bool
	PercentThreshold  decimal.Decimal // excess percentage that flags a payment
	AbsoluteThreshold decimal.Decimal // excess amount that flags a payment
	Logic             ThresholdLogic  // AND / OR combination, default OR
}

// DefaultBalloonDetection returns the standard detection configuration:
// a payment is a balloon when it exceeds the regular payment by 50% or by
// 500 monetary units, whichever comes first.
func DefaultBalloonDetection() BalloonDetectionConfig {
	return BalloonDetectionConfig{
		Enabled:           true,
		PercentThreshold:  decimal.NewFromInt(50),
		AbsoluteThreshold: decimal.NewFromInt(500),
		Logic:             ThresholdLogicOr,
	}
}

// BalloonCheck is the outcome of testing a single payment.
type BalloonCheck struct {
	IsBalloon     bool
	ExcessPercent decimal.Decimal
	ExcessAmount  decimal.Decimal
}

// BalloonDetectionResult identifies one flagged payment within a schedule.
type BalloonDetectionResult struct {
	Payment        ScheduledPayment
	RegularPayment decimal.Decimal // statistical median of the schedule
	ExcessPercent  decimal.Decimal
	ExcessAmount   decimal.Decimal
}

// ComplianceReport is the outcome of the regulatory balloon checks. It never
// blocks a calculation; it only reports.
type ComplianceReport struct {
	Compliant  bool
	Violations []string
}

// ---------------------------------------------------------------------------
// Balloon strategy configuration – closed tagged union
// ---------------------------------------------------------------------------

// DistributionMethod selects how a split-payment redistribution is shaped.
type DistributionMethod struct {
	value string
}

const (
	distributionEqual     = "EQUAL"
	distributionGraduated = "GRADUATED"
)

var (
	DistributionEqual     = DistributionMethod{value: distributionEqual}
	DistributionGraduated = DistributionMethod{value: distributionGraduated}
)

// NewDistributionMethod creates a DistributionMethod from a raw string.
func NewDistributionMethod(s string) (DistributionMethod, error) {
	switch s {
	case distributionEqual:
		return DistributionEqual, nil
	case distributionGraduated:
		return DistributionGraduated, nil
	default:
		return DistributionMethod{}, fmt.Errorf("invalid distribution method: %q", s)
	}
}

// String returns the string representation of the method.
func (m DistributionMethod) String() string { return m.value }

// IsGraduated reports whether shares ramp up toward the balloon.
func (m DistributionMethod) IsGraduated() bool { return m.value == distributionGraduated }

// BalloonStrategyConfig is a closed set of restructuring strategies. The
// sealed marker method keeps the set exhaustive at compile time; the
// strategy engine panics on variants it does not know.
type BalloonStrategyConfig interface {
	balloonStrategy()
}

// SplitPaymentsConfig redistributes the balloon excess across the payments
// immediately preceding the balloon.
type SplitPaymentsConfig struct {
	NumberOfPayments   int                // payments absorbing the redistribution
	Distribution       DistributionMethod // equal or graduated shares
	MaxPaymentIncrease decimal.Decimal    // cap on per-payment increase, percent
}

func (SplitPaymentsConfig) balloonStrategy() {}

// ExtendContractConfig amortizes the balloon balance over additional months
// at a bounded payment level.
type ExtendContractConfig struct {
	MaxExtensionMonths    int
	TargetPaymentIncrease decimal.Decimal // fraction over the regular payment, e.g. 0.10
	RequiresApproval      bool
}

func (ExtendContractConfig) balloonStrategy() {}

// HybridConfig dispatches to split-payments for small balloons and
// contract extension for large ones; the middle band requires a borrower
// decision.
type HybridConfig struct {
	SmallBalloonThreshold decimal.Decimal // excess at or below this splits
	LargeBalloonThreshold decimal.Decimal // excess at or above this extends
	Split                 SplitPaymentsConfig
	Extend                ExtendContractConfig
}

func (HybridConfig) balloonStrategy() {}

// StrategyResult reports the outcome of applying a balloon strategy.
// Success=false with a message is the normal rejection path; it is never an
// error.
type StrategyResult struct {
	Success                bool
	Message                string
	Schedule               *AmortizationSchedule // revised schedule when the strategy produced one
	ExtensionMonths        int                   // extend-contract only
	RequiresApproval       bool
	RequiresBorrowerChoice bool
	Warnings               []string
}
