package port

import (
	"context"
	"errors"
	"time"

	"github.com/LendPeak/LendPeak2-sub000/internal/domain/event"
	"github.com/LendPeak/LendPeak2-sub000/internal/domain/model"
)

// ErrNotFound is returned by repositories and caches when no record matches.
var ErrNotFound = errors.New("not found")

// ---------------------------------------------------------------------------
// Repository ports (driven/secondary adapters)
// ---------------------------------------------------------------------------

// LoanTermsRepository persists and retrieves loan terms.
type LoanTermsRepository interface {
	Save(ctx context.Context, terms model.LoanTerms) error
	FindByID(ctx context.Context, id string) (model.LoanTerms, error)
}

// ScheduleRepository persists and retrieves generated schedules.
type ScheduleRepository interface {
	Save(ctx context.Context, schedule model.AmortizationSchedule) error
	FindByLoanID(ctx context.Context, loanID string) (model.AmortizationSchedule, error)
	DeleteByLoanID(ctx context.Context, loanID string) error
}

// ---------------------------------------------------------------------------
// Cache port
// ---------------------------------------------------------------------------

// ScheduleCache is a read-through cache in front of the schedule repository.
type ScheduleCache interface {
	Get(ctx context.Context, loanID string) (model.AmortizationSchedule, error)
	Set(ctx context.Context, schedule model.AmortizationSchedule, ttl time.Duration) error
	Invalidate(ctx context.Context, loanID string) error
}

// ---------------------------------------------------------------------------
// Event publisher port
// ---------------------------------------------------------------------------

// EventPublisher publishes domain events to external consumers.
type EventPublisher interface {
	Publish(ctx context.Context, events ...event.DomainEvent) error
}
