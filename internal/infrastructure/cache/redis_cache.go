package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/LendPeak/LendPeak2-sub000/internal/domain/calendar"
	"github.com/LendPeak/LendPeak2-sub000/internal/domain/model"
	"github.com/LendPeak/LendPeak2-sub000/internal/domain/port"
	"github.com/LendPeak/LendPeak2-sub000/pkg/money"
)

// ScheduleCache implements port.ScheduleCache on Redis. Schedules are stored
// as JSON under a per-loan key; the domain value objects are flattened to
// their string forms and rebuilt through their constructors on read.
type ScheduleCache struct {
	client *redis.Client
}

// NewScheduleCache creates a Redis-backed schedule cache.
func NewScheduleCache(client *redis.Client) *ScheduleCache {
	return &ScheduleCache{client: client}
}

func scheduleKey(loanID string) string {
	return "calc:schedule:" + loanID
}

// Get returns the cached schedule for a loan, or port.ErrNotFound on a miss.
func (c *ScheduleCache) Get(ctx context.Context, loanID string) (model.AmortizationSchedule, error) {
	raw, err := c.client.Get(ctx, scheduleKey(loanID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return model.AmortizationSchedule{}, port.ErrNotFound
	}
	if err != nil {
		return model.AmortizationSchedule{}, fmt.Errorf("cache get: %w", err)
	}

	var rec scheduleRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return model.AmortizationSchedule{}, fmt.Errorf("decode cached schedule: %w", err)
	}
	return rec.toModel()
}

// Set stores a schedule under its loan ID for the given TTL.
func (c *ScheduleCache) Set(ctx context.Context, schedule model.AmortizationSchedule, ttl time.Duration) error {
	raw, err := json.Marshal(newScheduleRecord(schedule))
	if err != nil {
		return fmt.Errorf("encode schedule: %w", err)
	}
	if err := c.client.Set(ctx, scheduleKey(schedule.LoanID), raw, ttl).Err(); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

// Invalidate removes the cached schedule for a loan.
func (c *ScheduleCache) Invalidate(ctx context.Context, loanID string) error {
	if err := c.client.Del(ctx, scheduleKey(loanID)).Err(); err != nil {
		return fmt.Errorf("cache invalidate: %w", err)
	}
	return nil
}

// ---------------------------------------------------------------------------
// wire representation
// ---------------------------------------------------------------------------

type scheduleRecord struct {
	LoanID          string          `json:"loan_id"`
	Terms           termsRecord     `json:"terms"`
	Payments        []paymentRecord `json:"payments"`
	TotalInterest   decimal.Decimal `json:"total_interest"`
	TotalPrincipal  decimal.Decimal `json:"total_principal"`
	TotalPayments   decimal.Decimal `json:"total_payments"`
	EffectiveRate   decimal.Decimal `json:"effective_rate"`
	LastPaymentDate time.Time       `json:"last_payment_date"`
}

type termsRecord struct {
	ID               string           `json:"id"`
	Principal        decimal.Decimal  `json:"principal"`
	AnnualRate       decimal.Decimal  `json:"annual_rate"`
	TermMonths       int              `json:"term_months"`
	Frequency        string           `json:"frequency"`
	StartDate        time.Time        `json:"start_date"`
	FirstPaymentDate *time.Time       `json:"first_payment_date,omitempty"`
	InterestType     string           `json:"interest_type"`
	DayCount         string           `json:"day_count"`
	BalloonAmount    *decimal.Decimal `json:"balloon_amount,omitempty"`
	BalloonDate      *time.Time       `json:"balloon_date,omitempty"`
	RoundingMethod   string           `json:"rounding_method"`
	DecimalPlaces    int32            `json:"decimal_places"`
}

type paymentRecord struct {
	Number              int             `json:"number"`
	DueDate             time.Time       `json:"due_date"`
	Principal           decimal.Decimal `json:"principal"`
	Interest            decimal.Decimal `json:"interest"`
	TotalPayment        decimal.Decimal `json:"total_payment"`
	BeginningBalance    decimal.Decimal `json:"beginning_balance"`
	EndingBalance       decimal.Decimal `json:"ending_balance"`
	CumulativeInterest  decimal.Decimal `json:"cumulative_interest"`
	CumulativePrincipal decimal.Decimal `json:"cumulative_principal"`
}

func newScheduleRecord(s model.AmortizationSchedule) scheduleRecord {
	payments := make([]paymentRecord, len(s.Payments))
	for i, p := range s.Payments {
		payments[i] = paymentRecord{
			Number:              p.Number,
			DueDate:             p.DueDate,
			Principal:           p.Principal,
			Interest:            p.Interest,
			TotalPayment:        p.TotalPayment,
			BeginningBalance:    p.BeginningBalance,
			EndingBalance:       p.EndingBalance,
			CumulativeInterest:  p.CumulativeInterest,
			CumulativePrincipal: p.CumulativePrincipal,
		}
	}
	return scheduleRecord{
		LoanID: s.LoanID,
		Terms: termsRecord{
			ID:               s.Terms.ID,
			Principal:        s.Terms.Principal,
			AnnualRate:       s.Terms.AnnualRate,
			TermMonths:       s.Terms.TermMonths,
			Frequency:        s.Terms.Frequency.String(),
			StartDate:        s.Terms.StartDate,
			FirstPaymentDate: s.Terms.FirstPaymentDate,
			InterestType:     s.Terms.InterestType.String(),
			DayCount:         s.Terms.DayCount.String(),
			BalloonAmount:    s.Terms.BalloonAmount,
			BalloonDate:      s.Terms.BalloonDate,
			RoundingMethod:   s.Terms.Rounding.Method.String(),
			DecimalPlaces:    s.Terms.Rounding.DecimalPlaces,
		},
		Payments:        payments,
		TotalInterest:   s.TotalInterest,
		TotalPrincipal:  s.TotalPrincipal,
		TotalPayments:   s.TotalPayments,
		EffectiveRate:   s.EffectiveRate,
		LastPaymentDate: s.LastPaymentDate,
	}
}

func (r scheduleRecord) toModel() (model.AmortizationSchedule, error) {
	frequency, err := calendar.NewFrequency(r.Terms.Frequency)
	if err != nil {
		return model.AmortizationSchedule{}, fmt.Errorf("cached frequency: %w", err)
	}
	interestType, err := model.NewInterestType(r.Terms.InterestType)
	if err != nil {
		return model.AmortizationSchedule{}, fmt.Errorf("cached interest type: %w", err)
	}
	dayCount, err := calendar.NewDayCountConvention(r.Terms.DayCount)
	if err != nil {
		return model.AmortizationSchedule{}, fmt.Errorf("cached day count: %w", err)
	}
	roundingMethod, err := money.NewRoundingMethod(r.Terms.RoundingMethod)
	if err != nil {
		return model.AmortizationSchedule{}, fmt.Errorf("cached rounding method: %w", err)
	}

	payments := make([]model.ScheduledPayment, len(r.Payments))
	for i, p := range r.Payments {
		payments[i] = model.ScheduledPayment{
			Number:              p.Number,
			DueDate:             p.DueDate,
			Principal:           p.Principal,
			Interest:            p.Interest,
			TotalPayment:        p.TotalPayment,
			BeginningBalance:    p.BeginningBalance,
			EndingBalance:       p.EndingBalance,
			CumulativeInterest:  p.CumulativeInterest,
			CumulativePrincipal: p.CumulativePrincipal,
		}
	}

	return model.AmortizationSchedule{
		LoanID: r.LoanID,
		Terms: model.LoanTerms{
			ID:               r.Terms.ID,
			Principal:        r.Terms.Principal,
			AnnualRate:       r.Terms.AnnualRate,
			TermMonths:       r.Terms.TermMonths,
			Frequency:        frequency,
			StartDate:        r.Terms.StartDate,
			FirstPaymentDate: r.Terms.FirstPaymentDate,
			InterestType:     interestType,
			DayCount:         dayCount,
			BalloonAmount:    r.Terms.BalloonAmount,
			BalloonDate:      r.Terms.BalloonDate,
			Rounding: money.RoundingConfig{
				Method:        roundingMethod,
				DecimalPlaces: r.Terms.DecimalPlaces,
			},
		},
		Payments:        payments,
		TotalInterest:   r.TotalInterest,
		TotalPrincipal:  r.TotalPrincipal,
		TotalPayments:   r.TotalPayments,
		EffectiveRate:   r.EffectiveRate,
		LastPaymentDate: r.LastPaymentDate,
	}, nil
}
