package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/LendPeak/LendPeak2-sub000/internal/application/dto"
	"github.com/LendPeak/LendPeak2-sub000/internal/domain/port"
)

// GetScheduleUseCase retrieves a stored schedule, reading through the cache.
type GetScheduleUseCase struct {
	schedules port.ScheduleRepository
	cache     port.ScheduleCache
	logger    *slog.Logger
}

// NewGetScheduleUseCase wires dependencies.
func NewGetScheduleUseCase(
	schedules port.ScheduleRepository,
	cache port.ScheduleCache,
	logger *slog.Logger,
) *GetScheduleUseCase {
	return &GetScheduleUseCase{
		schedules: schedules,
		cache:     cache,
		logger:    logger,
	}
}

// Execute returns the schedule for a loan ID. Cache misses and cache
// failures both fall through to the repository; only repository failures
// surface as errors.
func (uc *GetScheduleUseCase) Execute(
	ctx context.Context,
	req dto.GetScheduleRequest,
) (dto.ScheduleResponse, error) {
	cached, err := uc.cache.Get(ctx, req.LoanID)
	if err == nil {
		return toScheduleResponse(cached), nil
	}
	if !errors.Is(err, port.ErrNotFound) {
		uc.logger.WarnContext(ctx, "schedule cache read failed",
			"loan_id", req.LoanID, "error", err)
	}

	schedule, err := uc.schedules.FindByLoanID(ctx, req.LoanID)
	if err != nil {
		return dto.ScheduleResponse{}, fmt.Errorf("find schedule: %w", err)
	}

	if err := uc.cache.Set(ctx, schedule, scheduleCacheTTL); err != nil {
		uc.logger.WarnContext(ctx, "schedule cache write failed",
			"loan_id", req.LoanID, "error", err)
	}

	return toScheduleResponse(schedule), nil
}
