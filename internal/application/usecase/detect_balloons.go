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

// standardNoticeLeadDays are the lead times, in days before the balloon due
// date, for which borrower notices are scheduled. Regional minimums from the
// compliance rules are merged in by the detector.
var standardNoticeLeadDays = []int{30, 60, 90}

// DetectBalloonsUseCase scans a stored schedule for balloon payments and
// checks the largest one against the compliance rules.
type DetectBalloonsUseCase struct {
	detector  *service.BalloonDetector
	rules     service.ComplianceRules
	schedules port.ScheduleRepository
	publisher port.EventPublisher
}

// NewDetectBalloonsUseCase wires dependencies. The compliance rules are
// injected so deployments can replace the built-in regulatory table.
func NewDetectBalloonsUseCase(
	detector *service.BalloonDetector,
	rules service.ComplianceRules,
	schedules port.ScheduleRepository,
	publisher port.EventPublisher,
) *DetectBalloonsUseCase {
	return &DetectBalloonsUseCase{
		detector:  detector,
		rules:     rules,
		schedules: schedules,
		publisher: publisher,
	}
}

// Execute runs detection with the requested thresholds, falling back to the
// standard configuration for fields left unset.
func (uc *DetectBalloonsUseCase) Execute(
	ctx context.Context,
	req dto.DetectBalloonsRequest,
) (dto.DetectBalloonsResponse, error) {
	schedule, err := uc.schedules.FindByLoanID(ctx, req.LoanID)
	if err != nil {
		return dto.DetectBalloonsResponse{}, fmt.Errorf("find schedule: %w", err)
	}

	cfg := model.DefaultBalloonDetection()
	if !req.PercentThreshold.IsZero() {
		cfg.PercentThreshold = req.PercentThreshold
	}
	if !req.AbsoluteThreshold.IsZero() {
		cfg.AbsoluteThreshold = req.AbsoluteThreshold
	}
	if req.Logic != "" {
		logic, err := model.NewThresholdLogic(req.Logic)
		if err != nil {
			return dto.DetectBalloonsResponse{}, fmt.Errorf("parse threshold logic: %w", err)
		}
		cfg.Logic = logic
	}

	results := uc.detector.DetectBalloonPayments(schedule, cfg)

	resp := dto.DetectBalloonsResponse{
		Results: make([]dto.BalloonResultResponse, len(results)),
	}
	for i, r := range results {
		resp.Results[i] = toBalloonResultResponse(r)
	}

	largest, ok := uc.detector.FindLargestBalloonPayment(results)
	if !ok {
		return resp, nil
	}

	largestResp := toBalloonResultResponse(largest)
	resp.Largest = &largestResp

	report := uc.detector.ValidateBalloonCompliance(largest, req.Region, req.LoanType, uc.rules)
	resp.Compliance = &dto.ComplianceResponse{
		Compliant:  report.Compliant,
		Violations: report.Violations,
	}

	noticeDates := uc.detector.NotificationSchedule(
		largest.Payment.DueDate, standardNoticeLeadDays, req.Region, uc.rules)

	evts := []event.DomainEvent{
		event.NewBalloonDetected(
			schedule.LoanID,
			len(results),
			largest.Payment.TotalPayment,
			largest.ExcessPercent,
			largest.ExcessAmount,
		),
		event.NewBalloonNotificationScheduled(
			schedule.LoanID,
			largest.Payment.DueDate,
			noticeDates,
			req.Region,
		),
	}
	if err := uc.publisher.Publish(ctx, evts...); err != nil {
		return dto.DetectBalloonsResponse{}, fmt.Errorf("publish events: %w", err)
	}

	return resp, nil
}
