package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/LendPeak/LendPeak2-sub000/internal/application/dto"
	"github.com/LendPeak/LendPeak2-sub000/internal/domain/event"
	"github.com/LendPeak/LendPeak2-sub000/internal/domain/model"
	"github.com/LendPeak/LendPeak2-sub000/internal/domain/port"
	"github.com/LendPeak/LendPeak2-sub000/internal/domain/service"
	"github.com/LendPeak/LendPeak2-sub000/pkg/events"
)

// scheduleCacheTTL bounds how long a cached schedule may serve reads before
// falling back to the repository.
const scheduleCacheTTL = 24 * time.Hour

// GenerateScheduleUseCase validates loan terms, generates the amortization
// schedule, persists it and announces the result.
type GenerateScheduleUseCase struct {
	validator *service.Validator
	generator *service.ScheduleGenerator
	detector  *service.BalloonDetector
	termsRepo port.LoanTermsRepository
	schedules port.ScheduleRepository
	cache     port.ScheduleCache
	publisher port.EventPublisher
}

// NewGenerateScheduleUseCase wires dependencies.
func NewGenerateScheduleUseCase(
	validator *service.Validator,
	generator *service.ScheduleGenerator,
	detector *service.BalloonDetector,
	termsRepo port.LoanTermsRepository,
	schedules port.ScheduleRepository,
	cache port.ScheduleCache,
	publisher port.EventPublisher,
) *GenerateScheduleUseCase {
	return &GenerateScheduleUseCase{
		validator: validator,
		generator: generator,
		detector:  detector,
		termsRepo: termsRepo,
		schedules: schedules,
		cache:     cache,
		publisher: publisher,
	}
}

// Execute generates and stores a schedule. Invalid terms come back inside
// the response, not as an error; infrastructure failures are errors.
func (uc *GenerateScheduleUseCase) Execute(
	ctx context.Context,
	req dto.GenerateScheduleRequest,
) (dto.ScheduleResponse, error) {
	terms, verrs := termsFromRequest(req.Terms, uc.validator)
	if len(verrs) > 0 {
		return dto.ScheduleResponse{ValidationErrors: verrs}, nil
	}

	schedule := uc.generator.Generate(terms)

	if err := uc.termsRepo.Save(ctx, terms); err != nil {
		return dto.ScheduleResponse{}, fmt.Errorf("save terms: %w", err)
	}
	if err := uc.schedules.Save(ctx, schedule); err != nil {
		return dto.ScheduleResponse{}, fmt.Errorf("save schedule: %w", err)
	}
	if err := uc.cache.Set(ctx, schedule, scheduleCacheTTL); err != nil {
		return dto.ScheduleResponse{}, fmt.Errorf("cache schedule: %w", err)
	}

	if err := uc.publisher.Publish(ctx, uc.collectEvents(terms, schedule)...); err != nil {
		return dto.ScheduleResponse{}, fmt.Errorf("publish events: %w", err)
	}

	return toScheduleResponse(schedule), nil
}

// collectEvents gathers the generation event plus a detection event when the
// standard configuration flags a balloon.
func (uc *GenerateScheduleUseCase) collectEvents(
	terms model.LoanTerms,
	schedule model.AmortizationSchedule,
) []event.DomainEvent {
	collector := &events.EventCollector{}
	collector.Record(event.NewScheduleGenerated(
		schedule.LoanID,
		terms.Principal,
		terms.AnnualRate,
		terms.TermMonths,
		schedule.PaymentCount(),
		schedule.TotalInterest,
	))

	results := uc.detector.DetectBalloonPayments(schedule, model.DefaultBalloonDetection())
	if largest, ok := uc.detector.FindLargestBalloonPayment(results); ok {
		collector.Record(event.NewBalloonDetected(
			schedule.LoanID,
			len(results),
			largest.Payment.TotalPayment,
			largest.ExcessPercent,
			largest.ExcessAmount,
		))
	}
	return collector.ClearEvents()
}
