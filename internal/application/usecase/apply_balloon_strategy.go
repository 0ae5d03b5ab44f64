package usecase

import (
	"context"
	"fmt"

	"github.com/LendPeak/LendPeak2-sub000/internal/application/dto"
	"github.com/LendPeak/LendPeak2-sub000/internal/domain/event"
	"github.com/LendPeak/LendPeak2-sub000/internal/domain/model"
	"github.com/LendPeak/LendPeak2-sub000/internal/domain/port"
	"github.com/LendPeak/LendPeak2-sub000/internal/domain/service"
)

// Strategy selector values accepted by ApplyBalloonStrategyRequest.
const (
	StrategySplitPayments  = "SPLIT_PAYMENTS"
	StrategyExtendContract = "EXTEND_CONTRACT"
	StrategyHybrid         = "HYBRID"
)

// ApplyBalloonStrategyUseCase restructures a stored schedule around its
// largest detected balloon payment.
type ApplyBalloonStrategyUseCase struct {
	detector  *service.BalloonDetector
	engine    *service.BalloonStrategyEngine
	termsRepo port.LoanTermsRepository
	schedules port.ScheduleRepository
	cache     port.ScheduleCache
	publisher port.EventPublisher
}

// NewApplyBalloonStrategyUseCase wires dependencies.
func NewApplyBalloonStrategyUseCase(
	detector *service.BalloonDetector,
	engine *service.BalloonStrategyEngine,
	termsRepo port.LoanTermsRepository,
	schedules port.ScheduleRepository,
	cache port.ScheduleCache,
	publisher port.EventPublisher,
) *ApplyBalloonStrategyUseCase {
	return &ApplyBalloonStrategyUseCase{
		detector:  detector,
		engine:    engine,
		termsRepo: termsRepo,
		schedules: schedules,
		cache:     cache,
		publisher: publisher,
	}
}

// Execute applies the requested strategy. Strategy rejections are reported
// through the response's Success flag; only infrastructure and request
// parsing failures are errors.
func (uc *ApplyBalloonStrategyUseCase) Execute(
	ctx context.Context,
	req dto.ApplyBalloonStrategyRequest,
) (dto.StrategyResponse, error) {
	schedule, err := uc.schedules.FindByLoanID(ctx, req.LoanID)
	if err != nil {
		return dto.StrategyResponse{}, fmt.Errorf("find schedule: %w", err)
	}
	terms, err := uc.termsRepo.FindByID(ctx, req.LoanID)
	if err != nil {
		return dto.StrategyResponse{}, fmt.Errorf("find terms: %w", err)
	}

	results := uc.detector.DetectBalloonPayments(schedule, model.DefaultBalloonDetection())
	largest, ok := uc.detector.FindLargestBalloonPayment(results)
	if !ok {
		return dto.StrategyResponse{
			Success: false,
			Message: "no balloon payment detected in the schedule",
		}, nil
	}

	cfg, err := uc.strategyConfig(req)
	if err != nil {
		return dto.StrategyResponse{}, err
	}

	result := uc.engine.Apply(schedule, largest, cfg, terms)

	if result.Success && result.Schedule != nil {
		if err := uc.schedules.Save(ctx, *result.Schedule); err != nil {
			return dto.StrategyResponse{}, fmt.Errorf("save schedule: %w", err)
		}
		if err := uc.cache.Set(ctx, *result.Schedule, scheduleCacheTTL); err != nil {
			return dto.StrategyResponse{}, fmt.Errorf("cache schedule: %w", err)
		}
	}

	evt := event.NewBalloonStrategyApplied(
		schedule.LoanID, req.Strategy, result.Success, result.ExtensionMonths, result.Message)
	if err := uc.publisher.Publish(ctx, evt); err != nil {
		return dto.StrategyResponse{}, fmt.Errorf("publish events: %w", err)
	}

	resp := dto.StrategyResponse{
		Success:                result.Success,
		Message:                result.Message,
		ExtensionMonths:        result.ExtensionMonths,
		RequiresApproval:       result.RequiresApproval,
		RequiresBorrowerChoice: result.RequiresBorrowerChoice,
		Warnings:               result.Warnings,
	}
	if result.Schedule != nil {
		s := toScheduleResponse(*result.Schedule)
		resp.Schedule = &s
	}
	return resp, nil
}

// strategyConfig builds the domain strategy variant from the request.
func (uc *ApplyBalloonStrategyUseCase) strategyConfig(
	req dto.ApplyBalloonStrategyRequest,
) (model.BalloonStrategyConfig, error) {
	split, err := splitConfig(req.Split)
	if err != nil {
		return nil, err
	}

	switch req.Strategy {
	case StrategySplitPayments:
		return split, nil
	case StrategyExtendContract:
		return extendConfig(req.Extend), nil
	case StrategyHybrid:
		return model.HybridConfig{
			SmallBalloonThreshold: req.Hybrid.SmallBalloonThreshold,
			LargeBalloonThreshold: req.Hybrid.LargeBalloonThreshold,
			Split:                 split,
			Extend:                extendConfig(req.Extend),
		}, nil
	default:
		return nil, fmt.Errorf("unknown balloon strategy %q", req.Strategy)
	}
}

func splitConfig(opts dto.SplitPaymentsOptions) (model.SplitPaymentsConfig, error) {
	distribution := model.DistributionEqual
	if opts.Distribution != "" {
		var err error
		distribution, err = model.NewDistributionMethod(opts.Distribution)
		if err != nil {
			return model.SplitPaymentsConfig{}, fmt.Errorf("parse distribution: %w", err)
		}
	}
	return model.SplitPaymentsConfig{
		NumberOfPayments:   opts.NumberOfPayments,
		Distribution:       distribution,
		MaxPaymentIncrease: opts.MaxPaymentIncrease,
	}, nil
}

func extendConfig(opts dto.ExtendContractOptions) model.ExtendContractConfig {
	return model.ExtendContractConfig{
		MaxExtensionMonths:    opts.MaxExtensionMonths,
		TargetPaymentIncrease: opts.TargetPaymentIncrease,
		RequiresApproval:      opts.RequiresApproval,
	}
}
