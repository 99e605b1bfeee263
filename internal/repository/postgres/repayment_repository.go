package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"loan-service/internal/apperr"
	"loan-service/internal/models"
)

// RepaymentRepo is a PostgreSQL implementation of the repository.RepaymentRepository interface
type RepaymentRepo struct {
	db *sql.DB
}

// NewRepaymentRepository creates a new RepaymentRepo
func NewRepaymentRepository(db *sql.DB) *RepaymentRepo {
	return &RepaymentRepo{db: db}
}

// Create creates a new repayment record. The transaction ID carries a unique
// constraint, so a concurrent duplicate surfaces as a conflict here even when
// the prior existence check passed.
func (r *RepaymentRepo) Create(ctx context.Context, repayment *models.Repayment) (int, error) {
	query := `INSERT INTO repayments (loan_id, installment_id, amount, payment_date, mode, transaction_id)
			  VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`

	var id int
	err := r.db.QueryRowContext(
		ctx,
		query,
		repayment.LoanID,
		repayment.InstallmentID,
		repayment.Amount,
		repayment.PaymentDate,
		repayment.Mode,
		repayment.TransactionID,
	).Scan(&id)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return 0, apperr.Conflict("duplicate transaction ID: %s", repayment.TransactionID)
		}
		return 0, fmt.Errorf("failed to create repayment: %w", err)
	}

	return id, nil
}

// ExistsByTransactionID reports whether a repayment with the given transaction ID exists
func (r *RepaymentRepo) ExistsByTransactionID(ctx context.Context, transactionID string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM repayments WHERE transaction_id = $1)`

	var exists bool
	err := r.db.QueryRowContext(ctx, query, transactionID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check transaction ID: %w", err)
	}

	return exists, nil
}

// GetByLoanID gets all repayments of a loan ordered by payment date
func (r *RepaymentRepo) GetByLoanID(ctx context.Context, loanID int) ([]*models.Repayment, error) {
	query := `SELECT r.id, r.loan_id, r.installment_id, i.installment_number,
			 r.amount, r.payment_date, r.mode, r.transaction_id, r.created_at
			 FROM repayments r
			 JOIN installments i ON r.installment_id = i.id
			 WHERE r.loan_id = $1
			 ORDER BY r.payment_date`

	rows, err := r.db.QueryContext(ctx, query, loanID)
	if err != nil {
		return nil, fmt.Errorf("failed to get repayments: %w", err)
	}
	defer rows.Close()

	var repayments []*models.Repayment

	for rows.Next() {
		repayment := &models.Repayment{}
		err := rows.Scan(
			&repayment.ID,
			&repayment.LoanID,
			&repayment.InstallmentID,
			&repayment.InstallmentNumber,
			&repayment.Amount,
			&repayment.PaymentDate,
			&repayment.Mode,
			&repayment.TransactionID,
			&repayment.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan repayment: %w", err)
		}

		repayments = append(repayments, repayment)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return repayments, nil
}
