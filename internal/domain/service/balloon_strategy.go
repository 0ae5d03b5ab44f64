package service

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/LendPeak/LendPeak2-sub000/internal/domain/model"
	"github.com/LendPeak/LendPeak2-sub000/pkg/money"
)

// ---------------------------------------------------------------------------
// BalloonStrategyEngine – balloon restructuring
// ---------------------------------------------------------------------------

// BalloonStrategyEngine transforms a schedule containing a detected balloon
// into a revised schedule or term under a pluggable strategy. Rejections are
// reported through StrategyResult.Success, never as errors.
type BalloonStrategyEngine struct {
	generator *ScheduleGenerator
}

// NewBalloonStrategyEngine wires the engine's generator dependency.
func NewBalloonStrategyEngine(generator *ScheduleGenerator) *BalloonStrategyEngine {
	return &BalloonStrategyEngine{generator: generator}
}

// Apply dispatches on the strategy variant. The config set is closed; an
// unknown variant is a caller/engine version mismatch and panics.
func (e *BalloonStrategyEngine) Apply(
	schedule model.AmortizationSchedule,
	result model.BalloonDetectionResult,
	cfg model.BalloonStrategyConfig,
	terms model.LoanTerms,
) model.StrategyResult {
	switch c := cfg.(type) {
	case model.SplitPaymentsConfig:
		return e.ApplySplitPayments(schedule, result, c)
	case model.ExtendContractConfig:
		return e.ApplyExtendContract(schedule, result, c, terms)
	case model.HybridConfig:
		return e.ApplyHybrid(schedule, result, c, terms)
	default:
		panic(fmt.Sprintf("service: unsupported balloon strategy config %T", cfg))
	}
}

// ApplySplitPayments redistributes the balloon's excess over the regular
// payment across the payments immediately preceding it, using equal shares
// or a graduated ramp from 0.5x to 1.5x of the equal share. It rejects when
// fewer than two payments can absorb the distribution or when any payment's
// percentage increase would exceed the configured cap.
func (e *BalloonStrategyEngine) ApplySplitPayments(
	schedule model.AmortizationSchedule,
	result model.BalloonDetectionResult,
	cfg model.SplitPaymentsConfig,
) model.StrategyResult {
	rounding := schedule.Terms.Rounding

	balloonIdx := -1
	for i, p := range schedule.Payments {
		if p.Number == result.Payment.Number {
			balloonIdx = i
			break
		}
	}
	if balloonIdx < 0 {
		return model.StrategyResult{
			Success: false,
			Message: fmt.Sprintf("payment %d is not part of the schedule", result.Payment.Number),
		}
	}

	count := cfg.NumberOfPayments
	if count > balloonIdx {
		count = balloonIdx
	}
	if count < 2 {
		return model.StrategyResult{
			Success: false,
			Message: "at least 2 payments are required to absorb a split distribution",
		}
	}

	excess := result.ExcessAmount
	if excess.LessThanOrEqual(decimal.Zero) {
		return model.StrategyResult{
			Success: false,
			Message: "balloon payment has no excess to redistribute",
		}
	}

	shares := distributionShares(excess, count, cfg.Distribution, rounding)
	firstIdx := balloonIdx - count

	// Reject before mutating anything if a share would push a payment past
	// the configured increase cap.
	if cfg.MaxPaymentIncrease.GreaterThan(decimal.Zero) {
		for i, share := range shares {
			target := schedule.Payments[firstIdx+i]
			increase := money.SafeDivide(share, target.TotalPayment, decimal.Zero).Mul(hundred)
			if increase.GreaterThan(cfg.MaxPaymentIncrease) {
				return model.StrategyResult{
					Success: false,
					Message: fmt.Sprintf(
						"payment %d would increase by %s%%, above the %s%% cap",
						target.Number, money.Round(increase, rounding), cfg.MaxPaymentIncrease),
				}
			}
		}
	}

	rows := schedule.ClonePayments()
	distributed := decimal.Zero
	for i, share := range shares {
		row := &rows[firstIdx+i]
		row.Principal = row.Principal.Add(share)
		row.TotalPayment = row.Interest.Add(row.Principal)
		distributed = distributed.Add(share)
	}

	balloonRow := &rows[balloonIdx]
	balloonRow.Principal = money.Round(balloonRow.Principal.Sub(distributed), rounding)
	if balloonRow.Principal.LessThan(decimal.Zero) {
		balloonRow.Principal = decimal.Zero
	}
	balloonRow.TotalPayment = balloonRow.Interest.Add(balloonRow.Principal)

	rebuildRunningBalances(rows, schedule.Terms.Principal)

	revised := e.generator.assemble(schedule.Terms, rows)
	revised.LoanID = schedule.LoanID

	return model.StrategyResult{
		Success:  true,
		Message:  fmt.Sprintf("redistributed %s across %d payments", distributed, count),
		Schedule: &revised,
	}
}

// ApplyExtendContract amortizes the outstanding balloon balance at a bounded
// target payment, counting the months needed to reach zero. It fails when
// the target payment does not cover even the first period's interest or when
// payoff is not reached within the configured maximum extension.
func (e *BalloonStrategyEngine) ApplyExtendContract(
	schedule model.AmortizationSchedule,
	result model.BalloonDetectionResult,
	cfg model.ExtendContractConfig,
	terms model.LoanTerms,
) model.StrategyResult {
	monthlyRate := money.Percent(terms.AnnualRate).Div(decimal.NewFromInt(12))
	target := result.RegularPayment.Mul(one.Add(cfg.TargetPaymentIncrease))

	balance := result.Payment.Principal
	if balance.LessThanOrEqual(decimal.Zero) {
		return model.StrategyResult{
			Success: false,
			Message: "balloon payment carries no principal balance to extend",
		}
	}

	if target.LessThanOrEqual(balance.Mul(monthlyRate)) {
		return model.StrategyResult{
			Success: false,
			Message: fmt.Sprintf(
				"target payment %s does not cover the first period's interest",
				money.Round(target, terms.Rounding)),
		}
	}

	months := 0
	remaining := balance
	for remaining.GreaterThan(decimal.Zero) {
		months++
		if months > cfg.MaxExtensionMonths {
			return model.StrategyResult{
				Success: false,
				Message: fmt.Sprintf(
					"balance not amortized within the maximum extension of %d months",
					cfg.MaxExtensionMonths),
			}
		}
		interest := remaining.Mul(monthlyRate)
		remaining = remaining.Add(interest).Sub(target)
	}

	extended := e.generator.Generate(terms.WithTermMonths(terms.TermMonths + months))
	extended.LoanID = schedule.LoanID

	res := model.StrategyResult{
		Success:          true,
		Message:          fmt.Sprintf("contract extended by %d months", months),
		Schedule:         &extended,
		ExtensionMonths:  months,
		RequiresApproval: cfg.RequiresApproval,
	}
	if cfg.RequiresApproval {
		res.Warnings = append(res.Warnings, "contract extension requires lender approval")
	}
	return res
}

// ApplyHybrid dispatches by balloon size: small excesses split, large ones
// extend, and the band in between is returned to the borrower to decide,
// without mutating the schedule.
func (e *BalloonStrategyEngine) ApplyHybrid(
	schedule model.AmortizationSchedule,
	result model.BalloonDetectionResult,
	cfg model.HybridConfig,
	terms model.LoanTerms,
) model.StrategyResult {
	excess := result.ExcessAmount

	if excess.LessThanOrEqual(cfg.SmallBalloonThreshold) {
		return e.ApplySplitPayments(schedule, result, cfg.Split)
	}
	if excess.GreaterThanOrEqual(cfg.LargeBalloonThreshold) {
		return e.ApplyExtendContract(schedule, result, cfg.Extend, terms)
	}

	return model.StrategyResult{
		Success:                false,
		RequiresBorrowerChoice: true,
		Message: fmt.Sprintf(
			"balloon excess %s is between the automatic thresholds; borrower must choose a strategy",
			excess),
	}
}

// distributionShares splits excess into count shares. Equal distribution
// gives identical shares; graduated distribution ramps linearly from 0.5x to
// 1.5x of the equal share so the increase builds toward the balloon. The
// final share absorbs the rounding remainder either way.
func distributionShares(
	excess decimal.Decimal,
	count int,
	method model.DistributionMethod,
	cfg money.RoundingConfig,
) []decimal.Decimal {
	shares := make([]decimal.Decimal, count)
	equal := excess.Div(decimal.NewFromInt(int64(count)))

	allocated := decimal.Zero
	for i := 0; i < count-1; i++ {
		share := equal
		if method.IsGraduated() {
			// weight_i = 0.5 + i/(count-1), spanning 0.5 .. 1.5.
			weight := decimal.NewFromFloat(0.5).Add(
				decimal.NewFromInt(int64(i)).Div(decimal.NewFromInt(int64(count - 1))))
			share = equal.Mul(weight)
		}
		share = money.Round(share, cfg)
		shares[i] = share
		allocated = allocated.Add(share)
	}
	shares[count-1] = money.Round(excess.Sub(allocated), cfg)
	return shares
}

// rebuildRunningBalances recomputes beginning/ending balances and cumulative
// totals after payment rows have been modified in place.
func rebuildRunningBalances(rows []model.ScheduledPayment, principal decimal.Decimal) {
	balance := principal
	cumInterest := decimal.Zero
	cumPrincipal := decimal.Zero

	for i := range rows {
		rows[i].BeginningBalance = balance
		balance = balance.Sub(rows[i].Principal)
		if balance.LessThan(decimal.Zero) {
			balance = decimal.Zero
		}
		rows[i].EndingBalance = balance

		cumInterest = cumInterest.Add(rows[i].Interest)
		cumPrincipal = cumPrincipal.Add(rows[i].Principal)
		rows[i].CumulativeInterest = cumInterest
		rows[i].CumulativePrincipal = cumPrincipal
	}
}
