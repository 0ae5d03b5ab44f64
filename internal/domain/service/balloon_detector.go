package service

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/LendPeak/LendPeak2-sub000/internal/domain/model"
	"github.com/LendPeak/LendPeak2-sub000/pkg/money"
)

// ---------------------------------------------------------------------------
// Compliance rules
// ---------------------------------------------------------------------------

// ComplianceRegionRule holds regulatory limits for one region.
type ComplianceRegionRule struct {
	MaxBalloonPercent   decimal.Decimal // zero means no regional percentage cap
	MaxBalloonAmount    decimal.Decimal // zero means no regional amount cap
	ProhibitedLoanTypes []string
	MinNotificationDays int
}

// ComplianceRules is the policy configuration the compliance checks execute.
// The engine never chooses policy; callers pass the rules that apply.
type ComplianceRules struct {
	GlobalMaxPercent decimal.Decimal
	Regions          map[string]ComplianceRegionRule
}

// DefaultComplianceRules returns the built-in system defaults. Callers with
// their own regulatory tables replace this wholesale.
func DefaultComplianceRules() ComplianceRules {
	return ComplianceRules{
		GlobalMaxPercent: decimal.NewFromInt(300),
		Regions: map[string]ComplianceRegionRule{
			"US": {
				MaxBalloonPercent:   decimal.NewFromInt(200),
				MaxBalloonAmount:    decimal.NewFromInt(50_000),
				ProhibitedLoanTypes: []string{"PAYDAY"},
				MinNotificationDays: 90,
			},
			"EU": {
				MaxBalloonPercent:   decimal.NewFromInt(150),
				ProhibitedLoanTypes: []string{"PAYDAY", "TITLE"},
				MinNotificationDays: 60,
			},
		},
	}
}

// ---------------------------------------------------------------------------
// BalloonDetector
// ---------------------------------------------------------------------------

// BalloonDetector flags disproportionately large payments within a schedule
// and runs the regulatory reporting checks around them.
type BalloonDetector struct{}

// NewBalloonDetector returns a new detector instance.
func NewBalloonDetector() *BalloonDetector {
	return &BalloonDetector{}
}

// IsPaymentBalloon tests a single payment against the regular-payment
// baseline, combining the percentage and absolute threshold tests per the
// configured logic. Both excess measures are always reported, rounded.
func (d *BalloonDetector) IsPaymentBalloon(
	payment, regularPayment decimal.Decimal,
	cfg model.BalloonDetectionConfig,
) model.BalloonCheck {
	rounding := money.DefaultRounding()

	excessAmount := money.Round(payment.Sub(regularPayment), rounding)
	excessPercent := money.Round(
		money.SafeDivide(payment.Sub(regularPayment), regularPayment, decimal.Zero).Mul(hundred),
		rounding,
	)

	percentHit := excessPercent.GreaterThanOrEqual(cfg.PercentThreshold)
	absoluteHit := excessAmount.GreaterThanOrEqual(cfg.AbsoluteThreshold)

	var isBalloon bool
	if cfg.Logic.IsAnd() {
		isBalloon = percentHit && absoluteHit
	} else {
		isBalloon = percentHit || absoluteHit
	}
	// A payment at or below the baseline is never a balloon, regardless of
	// threshold configuration.
	if excessAmount.LessThanOrEqual(decimal.Zero) {
		isBalloon = false
	}

	return model.BalloonCheck{
		IsBalloon:     isBalloon,
		ExcessPercent: excessPercent,
		ExcessAmount:  excessAmount,
	}
}

// DetectBalloonPayments scans a schedule for balloon payments. The regular
// payment baseline is the statistical median of all non-zero payments; even
// counts average the two middle values. Results come back in schedule order.
// A disabled config or empty schedule yields no results.
func (d *BalloonDetector) DetectBalloonPayments(
	schedule model.AmortizationSchedule,
	cfg model.BalloonDetectionConfig,
) []model.BalloonDetectionResult {
	if !cfg.Enabled || len(schedule.Payments) == 0 {
		return nil
	}

	regular := medianPayment(schedule.Payments)
	if regular.IsZero() {
		return nil
	}

	var results []model.BalloonDetectionResult
	for _, p := range schedule.Payments {
		check := d.IsPaymentBalloon(p.TotalPayment, regular, cfg)
		if !check.IsBalloon {
			continue
		}
		results = append(results, model.BalloonDetectionResult{
			Payment:        p,
			RegularPayment: regular,
			ExcessPercent:  check.ExcessPercent,
			ExcessAmount:   check.ExcessAmount,
		})
	}
	return results
}

// FindLargestBalloonPayment reduces detected results to the one with the
// greatest absolute excess. The second return value is false when no balloon
// was detected.
func (d *BalloonDetector) FindLargestBalloonPayment(
	results []model.BalloonDetectionResult,
) (model.BalloonDetectionResult, bool) {
	if len(results) == 0 {
		return model.BalloonDetectionResult{}, false
	}
	largest := results[0]
	for _, r := range results[1:] {
		if r.ExcessAmount.GreaterThan(largest.ExcessAmount) {
			largest = r
		}
	}
	return largest, true
}

// ValidateBalloonCompliance checks a detected balloon against the global cap
// and any region-specific overrides. It reports violations; it never blocks
// the calculation.
func (d *BalloonDetector) ValidateBalloonCompliance(
	result model.BalloonDetectionResult,
	region, loanType string,
	rules ComplianceRules,
) model.ComplianceReport {
	var violations []string

	if rules.GlobalMaxPercent.GreaterThan(decimal.Zero) &&
		result.ExcessPercent.GreaterThan(rules.GlobalMaxPercent) {
		violations = append(violations, fmt.Sprintf(
			"balloon excess %s%% exceeds global maximum %s%%",
			result.ExcessPercent, rules.GlobalMaxPercent))
	}

	if rule, ok := rules.Regions[region]; ok {
		if rule.MaxBalloonPercent.GreaterThan(decimal.Zero) &&
			result.ExcessPercent.GreaterThan(rule.MaxBalloonPercent) {
			violations = append(violations, fmt.Sprintf(
				"balloon excess %s%% exceeds %s maximum %s%%",
				result.ExcessPercent, region, rule.MaxBalloonPercent))
		}
		if rule.MaxBalloonAmount.GreaterThan(decimal.Zero) &&
			result.ExcessAmount.GreaterThan(rule.MaxBalloonAmount) {
			violations = append(violations, fmt.Sprintf(
				"balloon excess %s exceeds %s maximum amount %s",
				result.ExcessAmount, region, rule.MaxBalloonAmount))
		}
		for _, prohibited := range rule.ProhibitedLoanTypes {
			if prohibited == loanType {
				violations = append(violations, fmt.Sprintf(
					"balloon payments are prohibited for %s loans in %s", loanType, region))
				break
			}
		}
	}

	return model.ComplianceReport{
		Compliant:  len(violations) == 0,
		Violations: violations,
	}
}

// NotificationSchedule computes the dates on which balloon notices must go
// out: one per requested lead time, each that many calendar days before the
// balloon date, plus the region's minimum lead time when the requested set
// does not already include it. Dates come back sorted ascending, earliest
// notification first.
func (d *BalloonDetector) NotificationSchedule(
	balloonDate time.Time,
	leadDays []int,
	region string,
	rules ComplianceRules,
) []time.Time {
	days := make(map[int]struct{}, len(leadDays)+1)
	for _, ld := range leadDays {
		if ld > 0 {
			days[ld] = struct{}{}
		}
	}
	if rule, ok := rules.Regions[region]; ok && rule.MinNotificationDays > 0 {
		days[rule.MinNotificationDays] = struct{}{}
	}

	dates := make([]time.Time, 0, len(days))
	for ld := range days {
		dates = append(dates, balloonDate.AddDate(0, 0, -ld))
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates
}

// medianPayment returns the median of all non-zero payment totals.
func medianPayment(rows []model.ScheduledPayment) decimal.Decimal {
	amounts := make([]decimal.Decimal, 0, len(rows))
	for _, p := range rows {
		if !p.TotalPayment.IsZero() {
			amounts = append(amounts, p.TotalPayment)
		}
	}
	if len(amounts) == 0 {
		return decimal.Zero
	}

	sort.Slice(amounts, func(i, j int) bool { return amounts[i].LessThan(amounts[j]) })

	mid := len(amounts) / 2
	if len(amounts)%2 == 1 {
		return amounts[mid]
	}
	return amounts[mid-1].Add(amounts[mid]).Div(decimal.NewFromInt(2))
}
