package usecase

import (
	"context"
	"fmt"

	"github.com/LendPeak/LendPeak2-sub000/internal/application/dto"
	"github.com/LendPeak/LendPeak2-sub000/internal/domain/event"
	"github.com/LendPeak/LendPeak2-sub000/internal/domain/port"
	"github.com/LendPeak/LendPeak2-sub000/internal/domain/service"
)

// ApplyPrepaymentUseCase recalculates a stored schedule after a principal
// prepayment and persists the revision.
type ApplyPrepaymentUseCase struct {
	validator *service.Validator
	generator *service.ScheduleGenerator
	schedules port.ScheduleRepository
	cache     port.ScheduleCache
	publisher port.EventPublisher
}

// NewApplyPrepaymentUseCase wires dependencies.
func NewApplyPrepaymentUseCase(
	validator *service.Validator,
	generator *service.ScheduleGenerator,
	schedules port.ScheduleRepository,
	cache port.ScheduleCache,
	publisher port.EventPublisher,
) *ApplyPrepaymentUseCase {
	return &ApplyPrepaymentUseCase{
		validator: validator,
		generator: generator,
		schedules: schedules,
		cache:     cache,
		publisher: publisher,
	}
}

// Execute applies the prepayment. Invalid requests come back inside the
// response, not as an error.
func (uc *ApplyPrepaymentUseCase) Execute(
	ctx context.Context,
	req dto.ApplyPrepaymentRequest,
) (dto.ScheduleResponse, error) {
	schedule, err := uc.schedules.FindByLoanID(ctx, req.LoanID)
	if err != nil {
		return dto.ScheduleResponse{}, fmt.Errorf("find schedule: %w", err)
	}

	if verrs := uc.validator.ValidatePrepayment(schedule, req.Amount, req.Date); len(verrs) > 0 {
		return dto.ScheduleResponse{ValidationErrors: verrs}, nil
	}

	revised := uc.generator.ApplyPrepayment(schedule, req.Amount, req.Date, req.ApplyToPrincipal)

	if err := uc.schedules.Save(ctx, revised); err != nil {
		return dto.ScheduleResponse{}, fmt.Errorf("save schedule: %w", err)
	}
	if err := uc.cache.Set(ctx, revised, scheduleCacheTTL); err != nil {
		return dto.ScheduleResponse{}, fmt.Errorf("cache schedule: %w", err)
	}

	interestSaved := schedule.TotalInterest.Sub(revised.TotalInterest)
	evt := event.NewPrepaymentApplied(
		revised.LoanID,
		req.Amount,
		req.Date,
		req.ApplyToPrincipal,
		revised.PaymentCount(),
		interestSaved,
	)
	if err := uc.publisher.Publish(ctx, evt); err != nil {
		return dto.ScheduleResponse{}, fmt.Errorf("publish events: %w", err)
	}

	return toScheduleResponse(revised), nil
}
