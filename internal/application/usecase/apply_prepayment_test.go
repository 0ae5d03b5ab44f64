package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LendPeak/LendPeak2-sub000/internal/application/dto"
	"github.com/LendPeak/LendPeak2-sub000/internal/application/usecase"
	"github.com/LendPeak/LendPeak2-sub000/internal/domain/model"
	"github.com/LendPeak/LendPeak2-sub000/internal/domain/service"
)

func storedSchedule() model.AmortizationSchedule {
	terms := model.NewLoanTerms(
		decimal.NewFromInt(12000), decimal.NewFromInt(6), 12,
		time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC),
		model.TermsOptions{},
	)
	terms.ID = "loan-001"
	return newGenerator().Generate(terms)
}

func TestApplyPrepayment_Execute(t *testing.T) {
	newUseCase := func(
		schedules *mockScheduleRepository,
		cache *mockScheduleCache,
		publisher *mockEventPublisher,
	) *usecase.ApplyPrepaymentUseCase {
		return usecase.NewApplyPrepaymentUseCase(
			service.NewValidator(), newGenerator(), schedules, cache, publisher,
		)
	}

	t.Run("applies a prepayment and persists the revision", func(t *testing.T) {
		original := storedSchedule()
		schedules := &mockScheduleRepository{
			findFunc: func(_ context.Context, loanID string) (model.AmortizationSchedule, error) {
				return original, nil
			},
		}
		cache := &mockScheduleCache{}
		publisher := &mockEventPublisher{}

		uc := newUseCase(schedules, cache, publisher)

		resp, err := uc.Execute(context.Background(), dto.ApplyPrepaymentRequest{
			LoanID:           "loan-001",
			Amount:           decimal.NewFromInt(2000),
			Date:             time.Date(2025, time.April, 15, 0, 0, 0, 0, time.UTC),
			ApplyToPrincipal: true,
		})

		require.NoError(t, err)
		assert.Empty(t, resp.ValidationErrors)
		assert.Less(t, len(resp.Payments), len(original.Payments),
			"a principal prepayment shortens the schedule")
		assert.True(t, resp.TotalInterest.LessThan(original.TotalInterest))

		require.Len(t, schedules.savedSchedules, 1)
		require.Len(t, cache.stored, 1)

		require.Len(t, publisher.publishedEvents, 1)
		assert.Equal(t, "calc.prepayment.applied", publisher.publishedEvents[0].EventType())
	})

	t.Run("rejects an invalid prepayment as data", func(t *testing.T) {
		schedules := &mockScheduleRepository{
			findFunc: func(_ context.Context, _ string) (model.AmortizationSchedule, error) {
				return storedSchedule(), nil
			},
		}
		cache := &mockScheduleCache{}
		publisher := &mockEventPublisher{}

		uc := newUseCase(schedules, cache, publisher)

		resp, err := uc.Execute(context.Background(), dto.ApplyPrepaymentRequest{
			LoanID:           "loan-001",
			Amount:           decimal.NewFromInt(-500),
			Date:             time.Date(2025, time.April, 15, 0, 0, 0, 0, time.UTC),
			ApplyToPrincipal: true,
		})

		require.NoError(t, err)
		assert.NotEmpty(t, resp.ValidationErrors)
		assert.Empty(t, schedules.savedSchedules)
		assert.Empty(t, publisher.publishedEvents)
	})

	t.Run("fails when the schedule does not exist", func(t *testing.T) {
		schedules := &mockScheduleRepository{}
		cache := &mockScheduleCache{}
		publisher := &mockEventPublisher{}

		uc := newUseCase(schedules, cache, publisher)

		_, err := uc.Execute(context.Background(), dto.ApplyPrepaymentRequest{
			LoanID:           "missing",
			Amount:           decimal.NewFromInt(2000),
			Date:             time.Date(2025, time.April, 15, 0, 0, 0, 0, time.UTC),
			ApplyToPrincipal: true,
		})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "find schedule")
	})
}
