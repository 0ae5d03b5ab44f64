package service_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LendPeak/LendPeak2-sub000/internal/domain/model"
	"github.com/LendPeak/LendPeak2-sub000/internal/domain/service"
)

// balloonFixture generates a real balloon schedule and runs detection on it,
// returning everything a strategy test needs.
func balloonFixture(t *testing.T) (model.AmortizationSchedule, model.BalloonDetectionResult, model.LoanTerms) {
	t.Helper()

	balloon := dec("30000")
	terms := monthlyTerms("100000", "5", 60, model.TermsOptions{
		BalloonAmount: &balloon,
	})
	schedule := newGenerator().Generate(terms)

	results := service.NewBalloonDetector().DetectBalloonPayments(schedule, model.DefaultBalloonDetection())
	require.NotEmpty(t, results, "the balloon row must be detected")
	largest, ok := service.NewBalloonDetector().FindLargestBalloonPayment(results)
	require.True(t, ok)

	return schedule, largest, terms
}

func newStrategyEngine() *service.BalloonStrategyEngine {
	return service.NewBalloonStrategyEngine(newGenerator())
}

func TestApplySplitPayments_EqualDistribution(t *testing.T) {
	engine := newStrategyEngine()
	schedule, result, _ := balloonFixture(t)

	out := engine.ApplySplitPayments(schedule, result, model.SplitPaymentsConfig{
		NumberOfPayments: 12,
		Distribution:     model.DistributionEqual,
	})
	require.True(t, out.Success, out.Message)
	require.NotNil(t, out.Schedule)

	revised := *out.Schedule
	assert.True(t, revised.TotalPrincipal.Equal(schedule.TotalPrincipal),
		"redistribution must conserve principal: %s vs %s",
		revised.TotalPrincipal, schedule.TotalPrincipal)

	// The twelve rows before the balloon each absorb one equal share.
	balloonIdx := len(schedule.Payments) - 1
	share := result.ExcessAmount.Div(decimal.NewFromInt(12)).Round(2)
	boosted := revised.Payments[balloonIdx-12]
	original := schedule.Payments[balloonIdx-12]
	assert.True(t, boosted.TotalPayment.Sub(original.TotalPayment).Sub(share).Abs().LessThanOrEqual(dec("0.01")),
		"boosted row should grow by one share: %s vs %s", boosted.TotalPayment, original.TotalPayment)

	// The balloon row shrinks by the full distributed excess.
	assert.True(t, revised.Payments[balloonIdx].TotalPayment.LessThan(schedule.Payments[balloonIdx].TotalPayment))

	last, ok := revised.FinalPayment()
	require.True(t, ok)
	assert.True(t, last.EndingBalance.IsZero())
}

func TestApplySplitPayments_GraduatedRampsUp(t *testing.T) {
	engine := newStrategyEngine()
	schedule, result, _ := balloonFixture(t)

	out := engine.ApplySplitPayments(schedule, result, model.SplitPaymentsConfig{
		NumberOfPayments: 10,
		Distribution:     model.DistributionGraduated,
	})
	require.True(t, out.Success, out.Message)

	balloonIdx := len(schedule.Payments) - 1
	firstShare := out.Schedule.Payments[balloonIdx-10].TotalPayment.
		Sub(schedule.Payments[balloonIdx-10].TotalPayment)
	lastShare := out.Schedule.Payments[balloonIdx-1].TotalPayment.
		Sub(schedule.Payments[balloonIdx-1].TotalPayment)

	assert.True(t, firstShare.LessThan(lastShare),
		"graduated shares must ramp: first %s, last %s", firstShare, lastShare)
}

func TestApplySplitPayments_Rejections(t *testing.T) {
	engine := newStrategyEngine()

	t.Run("too few payments before the balloon", func(t *testing.T) {
		s := scheduleWithPayments("500", "5500")
		out := engine.ApplySplitPayments(s, model.BalloonDetectionResult{
			Payment:      s.Payments[1],
			ExcessAmount: dec("5000"),
		}, model.SplitPaymentsConfig{NumberOfPayments: 4, Distribution: model.DistributionEqual})
		assert.False(t, out.Success)
		assert.Contains(t, out.Message, "at least 2 payments")
	})

	t.Run("no excess to redistribute", func(t *testing.T) {
		s := scheduleWithPayments("500", "500", "500", "500")
		out := engine.ApplySplitPayments(s, model.BalloonDetectionResult{
			Payment:      s.Payments[3],
			ExcessAmount: decimal.Zero,
		}, model.SplitPaymentsConfig{NumberOfPayments: 2, Distribution: model.DistributionEqual})
		assert.False(t, out.Success)
		assert.Contains(t, out.Message, "no excess")
	})

	t.Run("payment not in schedule", func(t *testing.T) {
		s := scheduleWithPayments("500", "500", "5500")
		out := engine.ApplySplitPayments(s, model.BalloonDetectionResult{
			Payment:      model.ScheduledPayment{Number: 99},
			ExcessAmount: dec("5000"),
		}, model.SplitPaymentsConfig{NumberOfPayments: 2, Distribution: model.DistributionEqual})
		assert.False(t, out.Success)
		assert.Contains(t, out.Message, "not part of the schedule")
	})

	t.Run("increase cap exceeded", func(t *testing.T) {
		schedule, result, _ := balloonFixture(t)
		out := engine.ApplySplitPayments(schedule, result, model.SplitPaymentsConfig{
			NumberOfPayments:   12,
			Distribution:       model.DistributionEqual,
			MaxPaymentIncrease: dec("1"), // a 1% cap cannot absorb a 30000 balloon
		})
		assert.False(t, out.Success)
		assert.Contains(t, out.Message, "cap")
	})
}

func TestApplyExtendContract_AmortizesBalloon(t *testing.T) {
	engine := newStrategyEngine()
	schedule, result, terms := balloonFixture(t)

	out := engine.ApplyExtendContract(schedule, result, model.ExtendContractConfig{
		MaxExtensionMonths:    60,
		TargetPaymentIncrease: dec("0.10"),
	}, terms)
	require.True(t, out.Success, out.Message)
	require.NotNil(t, out.Schedule)

	assert.Greater(t, out.ExtensionMonths, 0)
	assert.LessOrEqual(t, out.ExtensionMonths, 60)
	assert.False(t, out.RequiresApproval)
	assert.Empty(t, out.Warnings)

	// The extended schedule re-amortizes without a balloon tail.
	assert.Len(t, out.Schedule.Payments, terms.TermMonths+out.ExtensionMonths)
	last, ok := out.Schedule.FinalPayment()
	require.True(t, ok)
	assert.True(t, last.EndingBalance.IsZero())
}

func TestApplyExtendContract_ApprovalWarning(t *testing.T) {
	engine := newStrategyEngine()
	schedule, result, terms := balloonFixture(t)

	out := engine.ApplyExtendContract(schedule, result, model.ExtendContractConfig{
		MaxExtensionMonths:    60,
		TargetPaymentIncrease: dec("0.10"),
		RequiresApproval:      true,
	}, terms)
	require.True(t, out.Success)
	assert.True(t, out.RequiresApproval)
	require.Len(t, out.Warnings, 1)
	assert.Contains(t, out.Warnings[0], "approval")
}

func TestApplyExtendContract_Rejections(t *testing.T) {
	engine := newStrategyEngine()
	schedule, _, terms := balloonFixture(t)

	t.Run("target does not cover interest", func(t *testing.T) {
		// A 100 regular payment plus 10% cannot service 30000 at 5% annual
		// (125 of monthly interest).
		out := engine.ApplyExtendContract(schedule, model.BalloonDetectionResult{
			Payment:        model.ScheduledPayment{Principal: dec("30000")},
			RegularPayment: dec("100"),
		}, model.ExtendContractConfig{
			MaxExtensionMonths:    120,
			TargetPaymentIncrease: dec("0.10"),
		}, terms)
		assert.False(t, out.Success)
		assert.Contains(t, out.Message, "does not cover")
	})

	t.Run("maximum extension too short", func(t *testing.T) {
		out := engine.ApplyExtendContract(schedule, model.BalloonDetectionResult{
			Payment:        model.ScheduledPayment{Principal: dec("30000")},
			RegularPayment: dec("150"),
		}, model.ExtendContractConfig{
			MaxExtensionMonths:    12,
			TargetPaymentIncrease: dec("0.10"),
		}, terms)
		assert.False(t, out.Success)
		assert.Contains(t, out.Message, "maximum extension")
	})

	t.Run("no principal balance", func(t *testing.T) {
		out := engine.ApplyExtendContract(schedule, model.BalloonDetectionResult{
			Payment:        model.ScheduledPayment{Principal: decimal.Zero},
			RegularPayment: dec("1000"),
		}, model.ExtendContractConfig{
			MaxExtensionMonths:    60,
			TargetPaymentIncrease: dec("0.10"),
		}, terms)
		assert.False(t, out.Success)
		assert.Contains(t, out.Message, "no principal")
	})
}

func TestApplyHybrid(t *testing.T) {
	engine := newStrategyEngine()
	schedule, result, terms := balloonFixture(t)

	split := model.SplitPaymentsConfig{NumberOfPayments: 12, Distribution: model.DistributionEqual}
	extend := model.ExtendContractConfig{MaxExtensionMonths: 60, TargetPaymentIncrease: dec("0.10")}

	t.Run("small balloon splits", func(t *testing.T) {
		cfg := model.HybridConfig{
			SmallBalloonThreshold: result.ExcessAmount.Add(dec("1")),
			LargeBalloonThreshold: result.ExcessAmount.Add(dec("10000")),
			Split:                 split,
			Extend:                extend,
		}
		out := engine.ApplyHybrid(schedule, result, cfg, terms)
		require.True(t, out.Success, out.Message)
		assert.Equal(t, 0, out.ExtensionMonths, "split path must not extend the term")
	})

	t.Run("large balloon extends", func(t *testing.T) {
		cfg := model.HybridConfig{
			SmallBalloonThreshold: dec("100"),
			LargeBalloonThreshold: result.ExcessAmount.Sub(dec("1")),
			Split:                 split,
			Extend:                extend,
		}
		out := engine.ApplyHybrid(schedule, result, cfg, terms)
		require.True(t, out.Success, out.Message)
		assert.Greater(t, out.ExtensionMonths, 0)
	})

	t.Run("middle band defers to the borrower", func(t *testing.T) {
		cfg := model.HybridConfig{
			SmallBalloonThreshold: dec("100"),
			LargeBalloonThreshold: result.ExcessAmount.Add(dec("10000")),
			Split:                 split,
			Extend:                extend,
		}
		out := engine.ApplyHybrid(schedule, result, cfg, terms)
		assert.False(t, out.Success)
		assert.True(t, out.RequiresBorrowerChoice)
		assert.Nil(t, out.Schedule)
	})
}

func TestApply_DispatchesByVariant(t *testing.T) {
	engine := newStrategyEngine()
	schedule, result, terms := balloonFixture(t)

	out := engine.Apply(schedule, result, model.SplitPaymentsConfig{
		NumberOfPayments: 12,
		Distribution:     model.DistributionEqual,
	}, terms)
	assert.True(t, out.Success)

	out = engine.Apply(schedule, result, model.ExtendContractConfig{
		MaxExtensionMonths:    60,
		TargetPaymentIncrease: dec("0.10"),
	}, terms)
	assert.True(t, out.Success)
}
