package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/LendPeak/LendPeak2-sub000/internal/domain/calendar"
	"github.com/LendPeak/LendPeak2-sub000/internal/domain/model"
	"github.com/LendPeak/LendPeak2-sub000/internal/domain/port"
	"github.com/LendPeak/LendPeak2-sub000/pkg/money"
)

// LoanTermsRepo implements port.LoanTermsRepository.
type LoanTermsRepo struct {
	pool *pgxpool.Pool
}

// NewLoanTermsRepo creates a new PostgreSQL-backed terms repository.
func NewLoanTermsRepo(pool *pgxpool.Pool) *LoanTermsRepo {
	return &LoanTermsRepo{pool: pool}
}

// Save upserts a set of loan terms.
func (r *LoanTermsRepo) Save(ctx context.Context, terms model.LoanTerms) error {
	query := `
		INSERT INTO loan_terms (
			id, principal, annual_rate, term_months, frequency,
			start_date, first_payment_date, interest_type, day_count,
			balloon_amount, balloon_date, rounding_method, decimal_places,
			updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
		ON CONFLICT (id) DO UPDATE SET
			principal          = EXCLUDED.principal,
			annual_rate        = EXCLUDED.annual_rate,
			term_months        = EXCLUDED.term_months,
			frequency          = EXCLUDED.frequency,
			start_date         = EXCLUDED.start_date,
			first_payment_date = EXCLUDED.first_payment_date,
			interest_type      = EXCLUDED.interest_type,
			day_count          = EXCLUDED.day_count,
			balloon_amount     = EXCLUDED.balloon_amount,
			balloon_date       = EXCLUDED.balloon_date,
			rounding_method    = EXCLUDED.rounding_method,
			decimal_places     = EXCLUDED.decimal_places,
			updated_at         = EXCLUDED.updated_at
	`
	_, err := r.pool.Exec(ctx, query,
		terms.ID, terms.Principal, terms.AnnualRate, terms.TermMonths, terms.Frequency.String(),
		terms.StartDate, terms.FirstPaymentDate, terms.InterestType.String(), terms.DayCount.String(),
		terms.BalloonAmount, terms.BalloonDate, terms.Rounding.Method.String(), terms.Rounding.DecimalPlaces,
		time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("save loan terms: %w", err)
	}
	return nil
}

// FindByID retrieves loan terms by ID.
func (r *LoanTermsRepo) FindByID(ctx context.Context, id string) (model.LoanTerms, error) {
	query := `
		SELECT id, principal, annual_rate, term_months, frequency,
		 				start_date, first_payment_date, interest_type, day_count,
		 				balloon_amount, balloon_date, rounding_method, decimal_places
		FROM loan_terms
		WHERE id = $1
	`
	return scanTermsRow(r.pool.QueryRow(ctx, query, id))
}

func scanTermsRow(s scannable) (model.LoanTerms, error) {
	var (
		id				string
		principal, annualRate		decimal.Decimal
		termMonths			int
		frequencyStr			string
		startDate			time.Time
		firstPaymentDate		*time.Time
		interestTypeStr, dayCount	string
		balloonAmount			*decimal.Decimal
		balloonDate			*time.Time
		roundingMethod			string
		decimalPlaces			int32
	)

	err := s.Scan(
		&id, &principal, &annualRate, &termMonths, &frequencyStr,
		&startDate, &firstPaymentDate, &interestTypeStr, &dayCount,
		&balloonAmount, &balloonDate, &roundingMethod, &decimalPlaces,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.LoanTerms{}, port.ErrNotFound
	}
	if err != nil {
		return model.LoanTerms{}, fmt.Errorf("scan loan terms: %w", err)
	}

	frequency, err := calendar.NewFrequency(frequencyStr)
	if err != nil {
		return model.LoanTerms{}, fmt.Errorf("parse frequency: %w", err)
	}
	interestType, err := model.NewInterestType(interestTypeStr)
	if err != nil {
		return model.LoanTerms{}, fmt.Errorf("parse interest type: %w", err)
	}
	convention, err := calendar.NewDayCountConvention(dayCount)
	if err != nil {
		return model.LoanTerms{}, fmt.Errorf("parse day count: %w", err)
	}
	method, err := money.NewRoundingMethod(roundingMethod)
	if err != nil {
		return model.LoanTerms{}, fmt.Errorf("parse rounding method: %w", err)
	}

	return model.LoanTerms{
		ID:               id,
		Principal:        principal,
		AnnualRate:       annualRate,
		TermMonths:       termMonths,
		Frequency:        frequency,
		StartDate:        startDate,
		FirstPaymentDate: firstPaymentDate,
		InterestType:     interestType,
		DayCount:         convention,
		BalloonAmount:    balloonAmount,
		BalloonDate:      balloonDate,
		Rounding:         money.RoundingConfig{Method: method, DecimalPlaces: decimalPlaces},
	}, nil
}
