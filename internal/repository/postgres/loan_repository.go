package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"loan-service/internal/apperr"
	"loan-service/internal/models"
)

// LoanRepo is a PostgreSQL implementation of the repository.LoanRepository interface
type LoanRepo struct {
	db *sql.DB
}

// NewLoanRepository creates a new LoanRepo
func NewLoanRepository(db *sql.DB) *LoanRepo {
	return &LoanRepo{db: db}
}

// Create creates a new loan with its stepped rates in a single transaction
func (r *LoanRepo) Create(ctx context.Context, loan *models.Loan) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	query := `INSERT INTO loans (loan_id, customer_id, principal, interest_type, base_rate,
			  tenure_months, start_date, status)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`

	var id int
	err = tx.QueryRowContext(
		ctx,
		query,
		loan.LoanID,
		loan.CustomerID,
		loan.Principal,
		loan.InterestRate.Type,
		loan.InterestRate.BaseRate,
		loan.TenureMonths,
		loan.StartDate,
		loan.Status,
	).Scan(&id)

	if err != nil {
		return 0, fmt.Errorf("failed to create loan: %w", err)
	}

	for number, rate := range loan.InterestRate.SteppedRates {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO stepped_rates (loan_id, installment_number, rate) VALUES ($1, $2, $3)`,
			id, number, rate)
		if err != nil {
			return 0, fmt.Errorf("failed to create stepped rate: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return id, nil
}

// GetByID gets a loan by ID regardless of status
func (r *LoanRepo) GetByID(ctx context.Context, id int) (*models.Loan, error) {
	return r.getLoan(ctx, `SELECT id, loan_id, customer_id, principal, interest_type, base_rate,
		   tenure_months, start_date, status, created_at, updated_at
		   FROM loans WHERE id = $1`, id)
}

// GetActiveByID gets a loan by ID, scoped to ACTIVE loans
func (r *LoanRepo) GetActiveByID(ctx context.Context, id int) (*models.Loan, error) {
	return r.getLoan(ctx, `SELECT id, loan_id, customer_id, principal, interest_type, base_rate,
		   tenure_months, start_date, status, created_at, updated_at
		   FROM loans WHERE id = $1 AND status = 'ACTIVE'`, id)
}

func (r *LoanRepo) getLoan(ctx context.Context, query string, id int) (*models.Loan, error) {
	loan := &models.Loan{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&loan.ID,
		&loan.LoanID,
		&loan.CustomerID,
		&loan.Principal,
		&loan.InterestRate.Type,
		&loan.InterestRate.BaseRate,
		&loan.TenureMonths,
		&loan.StartDate,
		&loan.Status,
		&loan.CreatedAt,
		&loan.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("loan not found with ID: %d", id)
		}
		return nil, fmt.Errorf("failed to get loan: %w", err)
	}

	if loan.InterestRate.Type == models.InterestTypeStep {
		if err := r.loadSteppedRates(ctx, loan); err != nil {
			return nil, err
		}
	}

	return loan, nil
}

func (r *LoanRepo) loadSteppedRates(ctx context.Context, loan *models.Loan) error {
	rows, err := r.db.QueryContext(ctx,
		`SELECT installment_number, rate FROM stepped_rates WHERE loan_id = $1`, loan.ID)
	if err != nil {
		return fmt.Errorf("failed to get stepped rates: %w", err)
	}
	defer rows.Close()

	rates := make(map[int]decimal.Decimal)
	for rows.Next() {
		var number int
		var rate decimal.Decimal
		if err := rows.Scan(&number, &rate); err != nil {
			return fmt.Errorf("failed to scan stepped rate: %w", err)
		}
		rates[number] = rate
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("rows error: %w", err)
	}

	loan.InterestRate.SteppedRates = rates
	return nil
}

// Update updates a loan's base rate and status
func (r *LoanRepo) Update(ctx context.Context, loan *models.Loan) error {
	query := `UPDATE loans
			  SET base_rate = $1, status = $2, updated_at = NOW()
			  WHERE id = $3`

	result, err := r.db.ExecContext(ctx, query, loan.InterestRate.BaseRate, loan.Status, loan.ID)
	if err != nil {
		return fmt.Errorf("failed to update loan: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return apperr.NotFound("loan not found with ID: %d", loan.ID)
	}

	return nil
}
