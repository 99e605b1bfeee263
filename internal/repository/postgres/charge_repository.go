package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"loan-service/internal/apperr"
	"loan-service/internal/models"
)

// ChargeRepo is a PostgreSQL implementation of the repository.ChargeRepository interface
type ChargeRepo struct {
	db *sql.DB
}

// NewChargeRepository creates a new ChargeRepo
func NewChargeRepository(db *sql.DB) *ChargeRepo {
	return &ChargeRepo{db: db}
}

// Create creates a new charge
func (r *ChargeRepo) Create(ctx context.Context, charge *models.Charge) (int, error) {
	query := `INSERT INTO charges (loan_id, type, amount, applied_date, description, paid)
			  VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`

	var id int
	err := r.db.QueryRowContext(
		ctx,
		query,
		charge.LoanID,
		charge.Type,
		charge.Amount,
		charge.AppliedDate,
		charge.Description,
		charge.Paid,
	).Scan(&id)

	if err != nil {
		return 0, fmt.Errorf("failed to create charge: %w", err)
	}

	return id, nil
}

// GetByID gets a charge by ID
func (r *ChargeRepo) GetByID(ctx context.Context, id int) (*models.Charge, error) {
	query := `SELECT id, loan_id, type, amount, applied_date, description, paid, created_at, updated_at
			  FROM charges WHERE id = $1`

	charge := &models.Charge{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&charge.ID,
		&charge.LoanID,
		&charge.Type,
		&charge.Amount,
		&charge.AppliedDate,
		&charge.Description,
		&charge.Paid,
		&charge.CreatedAt,
		&charge.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("charge not found with ID: %d", id)
		}
		return nil, fmt.Errorf("failed to get charge: %w", err)
	}

	return charge, nil
}

// GetByLoanID gets all charges of a loan
func (r *ChargeRepo) GetByLoanID(ctx context.Context, loanID int) ([]*models.Charge, error) {
	query := `SELECT id, loan_id, type, amount, applied_date, description, paid, created_at, updated_at
			  FROM charges
			  WHERE loan_id = $1
			  ORDER BY applied_date`

	rows, err := r.db.QueryContext(ctx, query, loanID)
	if err != nil {
		return nil, fmt.Errorf("failed to get charges: %w", err)
	}
	defer rows.Close()

	return r.scanCharges(rows)
}

// GetUnpaidByLoanID gets the unpaid charges of a loan
func (r *ChargeRepo) GetUnpaidByLoanID(ctx context.Context, loanID int) ([]*models.Charge, error) {
	query := `SELECT id, loan_id, type, amount, applied_date, description, paid, created_at, updated_at
			  FROM charges
			  WHERE loan_id = $1 AND paid = false
			  ORDER BY applied_date`

	rows, err := r.db.QueryContext(ctx, query, loanID)
	if err != nil {
		return nil, fmt.Errorf("failed to get unpaid charges: %w", err)
	}
	defer rows.Close()

	return r.scanCharges(rows)
}

// Update updates a charge's paid flag
func (r *ChargeRepo) Update(ctx context.Context, charge *models.Charge) error {
	query := `UPDATE charges SET paid = $1, updated_at = NOW() WHERE id = $2`

	result, err := r.db.ExecContext(ctx, query, charge.Paid, charge.ID)
	if err != nil {
		return fmt.Errorf("failed to update charge: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return apperr.NotFound("charge not found with ID: %d", charge.ID)
	}

	return nil
}

// Delete deletes a charge by ID
func (r *ChargeRepo) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM charges WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete charge: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return apperr.NotFound("charge not found with ID: %d", id)
	}

	return nil
}

func (r *ChargeRepo) scanCharges(rows *sql.Rows) ([]*models.Charge, error) {
	var charges []*models.Charge

	for rows.Next() {
		charge := &models.Charge{}
		err := rows.Scan(
			&charge.ID,
			&charge.LoanID,
			&charge.Type,
			&charge.Amount,
			&charge.AppliedDate,
			&charge.Description,
			&charge.Paid,
			&charge.CreatedAt,
			&charge.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan charge: %w", err)
		}

		charges = append(charges, charge)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return charges, nil
}
