package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/LendPeak/LendPeak2-sub000/internal/domain/model"
	"github.com/LendPeak/LendPeak2-sub000/internal/domain/port"
	pkgpostgres "github.com/LendPeak/LendPeak2-sub000/pkg/postgres"
)

// ScheduleRepo implements port.ScheduleRepository. A schedule is stored as a
// header row plus one row per payment; saving replaces the payment rows
// wholesale because a recalculation invalidates every downstream row.
type ScheduleRepo struct {
	pool *pgxpool.Pool
}

// NewScheduleRepo creates a new PostgreSQL-backed schedule repository.
func NewScheduleRepo(pool *pgxpool.Pool) *ScheduleRepo {
	return &ScheduleRepo{pool: pool}
}

// Save persists a schedule and its payment rows in one transaction.
func (r *ScheduleRepo) Save(ctx context.Context, schedule model.AmortizationSchedule) error {
	return pkgpostgres.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		headerQuery := `
			INSERT INTO schedules (
				loan_id, total_interest, total_principal, total_payments,
				effective_rate, last_payment_date, updated_at
			) VALUES ($1,$2,$3,$4,$5,$6,$7)
			ON CONFLICT (loan_id) DO UPDATE SET
				total_interest    = EXCLUDED.total_interest,
				total_principal   = EXCLUDED.total_principal,
				total_payments    = EXCLUDED.total_payments,
				effective_rate    = EXCLUDED.effective_rate,
				last_payment_date = EXCLUDED.last_payment_date,
				updated_at        = EXCLUDED.updated_at
		`
		_, err := tx.Exec(ctx, headerQuery,
			schedule.LoanID, schedule.TotalInterest, schedule.TotalPrincipal, schedule.TotalPayments,
			schedule.EffectiveRate, schedule.LastPaymentDate, time.Now().UTC(),
		)
		if err != nil {
			return fmt.Errorf("save schedule header: %w", err)
		}

		if _, err := tx.Exec(ctx,
			`DELETE FROM scheduled_payments WHERE loan_id = $1`, schedule.LoanID); err != nil {
			return fmt.Errorf("clear scheduled payments: %w", err)
		}

		rowQuery := `
			INSERT INTO scheduled_payments (
				loan_id, number, due_date, principal, interest, total_payment,
				beginning_balance, ending_balance, cumulative_interest, cumulative_principal
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		`
		for _, p := range schedule.Payments {
			_, err := tx.Exec(ctx, rowQuery,
				schedule.LoanID, p.Number, p.DueDate, p.Principal, p.Interest, p.TotalPayment,
				p.BeginningBalance, p.EndingBalance, p.CumulativeInterest, p.CumulativePrincipal,
			)
			if err != nil {
				return fmt.Errorf("save scheduled payment %d: %w", p.Number, err)
			}
		}
		return nil
	})
}

// FindByLoanID retrieves a schedule with its terms and payment rows.
func (r *ScheduleRepo) FindByLoanID(ctx context.Context, loanID string) (model.AmortizationSchedule, error) {
	terms, err := r.loadTerms(ctx, loanID)
	if err != nil {
		return model.AmortizationSchedule{}, err
	}

	headerQuery := `
		SELECT total_interest, total_principal, total_payments,
		       effective_rate, last_payment_date
		FROM schedules
		WHERE loan_id = $1
	`
	var (
		totalInterest, totalPrincipal, totalPayments, effectiveRate decimal.Decimal
		lastPaymentDate                                             time.Time
	)
	err = r.pool.QueryRow(ctx, headerQuery, loanID).Scan(
		&totalInterest, &totalPrincipal, &totalPayments, &effectiveRate, &lastPaymentDate)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.AmortizationSchedule{}, port.ErrNotFound
	}
	if err != nil {
		return model.AmortizationSchedule{}, fmt.Errorf("scan schedule header: %w", err)
	}

	payments, err := r.loadPayments(ctx, loanID)
	if err != nil {
		return model.AmortizationSchedule{}, err
	}

	return model.AmortizationSchedule{
		LoanID:          loanID,
		Terms:           terms,
		Payments:        payments,
		TotalInterest:   totalInterest,
		TotalPrincipal:  totalPrincipal,
		TotalPayments:   totalPayments,
		EffectiveRate:   effectiveRate,
		LastPaymentDate: lastPaymentDate,
	}, nil
}

// DeleteByLoanID removes a schedule and its payment rows.
func (r *ScheduleRepo) DeleteByLoanID(ctx context.Context, loanID string) error {
	return pkgpostgres.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx,
			`DELETE FROM scheduled_payments WHERE loan_id = $1`, loanID); err != nil {
			return fmt.Errorf("delete scheduled payments: %w", err)
		}
		if _, err := tx.Exec(ctx,
			`DELETE FROM schedules WHERE loan_id = $1`, loanID); err != nil {
			return fmt.Errorf("delete schedule: %w", err)
		}
		return nil
	})
}

// ---------------------------------------------------------------------------
// internal helpers
// ---------------------------------------------------------------------------

func (r *ScheduleRepo) loadTerms(ctx context.Context, loanID string) (model.LoanTerms, error) {
	query := `
		SELECT id, principal, annual_rate, term_months, frequency,
		       start_date, first_payment_date, interest_type, day_count,
		       balloon_amount, balloon_date, rounding_method, decimal_places
		FROM loan_terms
		WHERE id = $1
	`
	return scanTermsRow(r.pool.QueryRow(ctx, query, loanID))
}

func (r *ScheduleRepo) loadPayments(ctx context.Context, loanID string) ([]model.ScheduledPayment, error) {
	query := `
		SELECT number, due_date, principal, interest, total_payment,
		       beginning_balance, ending_balance, cumulative_interest, cumulative_principal
		FROM scheduled_payments
		WHERE loan_id = $1
		ORDER BY number
	`
	rows, err := r.pool.Query(ctx, query, loanID)
	if err != nil {
		return nil, fmt.Errorf("query scheduled payments: %w", err)
	}
	defer rows.Close()

	var payments []model.ScheduledPayment
	for rows.Next() {
		var p model.ScheduledPayment
		err := rows.Scan(
			&p.Number, &p.DueDate, &p.Principal, &p.Interest, &p.TotalPayment,
			&p.BeginningBalance, &p.EndingBalance, &p.CumulativeInterest, &p.CumulativePrincipal,
		)
		if err != nil {
			return nil, fmt.Errorf("scan scheduled payment: %w", err)
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}
