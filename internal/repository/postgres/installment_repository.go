package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"loan-service/internal/apperr"
	"loan-service/internal/models"
)

// InstallmentRepo is a PostgreSQL implementation of the repository.InstallmentRepository interface
type InstallmentRepo struct {
	db *sql.DB
}

// NewInstallmentRepository creates a new InstallmentRepo
func NewInstallmentRepository(db *sql.DB) *InstallmentRepo {
	return &InstallmentRepo{db: db}
}

// CreateBatch inserts a full schedule in a single transaction
func (r *InstallmentRepo) CreateBatch(ctx context.Context, installments []*models.Installment) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	valueStrings := make([]string, 0, len(installments))
	valueArgs := make([]interface{}, 0, len(installments)*7)

	for i, inst := range installments {
		valueStrings = append(valueStrings, fmt.Sprintf("($%d, $%d, $%d, $%d, $%d, $%d, $%d)",
			i*7+1, i*7+2, i*7+3, i*7+4, i*7+5, i*7+6, i*7+7))

		valueArgs = append(valueArgs,
			inst.LoanID,
			inst.Number,
			inst.DueDate,
			inst.PrincipalComponent,
			inst.InterestComponent,
			inst.TotalAmount,
			inst.Status,
		)
	}

	stmt := fmt.Sprintf(`INSERT INTO installments
						(loan_id, installment_number, due_date, principal_component,
						 interest_component, total_amount, status)
						VALUES %s`, strings.Join(valueStrings, ","))

	_, err = tx.ExecContext(ctx, stmt, valueArgs...)
	if err != nil {
		return fmt.Errorf("failed to insert installments: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetByLoanID gets all installments of a loan ordered by installment number
func (r *InstallmentRepo) GetByLoanID(ctx context.Context, loanID int) ([]*models.Installment, error) {
	query := `SELECT id, loan_id, installment_number, due_date, principal_component,
			 interest_component, total_amount, status, created_at, updated_at
			 FROM installments
			 WHERE loan_id = $1
			 ORDER BY installment_number`

	rows, err := r.db.QueryContext(ctx, query, loanID)
	if err != nil {
		return nil, fmt.Errorf("failed to get installments: %w", err)
	}
	defer rows.Close()

	return r.scanInstallments(rows)
}

// GetByLoanIDFrom gets the installments of a loan with number >= fromNumber,
// ordered by installment number
func (r *InstallmentRepo) GetByLoanIDFrom(ctx context.Context, loanID, fromNumber int) ([]*models.Installment, error) {
	query := `SELECT id, loan_id, installment_number, due_date, principal_component,
			 interest_component, total_amount, status, created_at, updated_at
			 FROM installments
			 WHERE loan_id = $1 AND installment_number >= $2
			 ORDER BY installment_number`

	rows, err := r.db.QueryContext(ctx, query, loanID, fromNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to get installments: %w", err)
	}
	defer rows.Close()

	return r.scanInstallments(rows)
}

// Update updates an installment's interest, total and status
func (r *InstallmentRepo) Update(ctx context.Context, installment *models.Installment) error {
	query := `UPDATE installments
			 SET interest_component = $1, total_amount = $2, status = $3, updated_at = NOW()
			 WHERE id = $4`

	result, err := r.db.ExecContext(
		ctx,
		query,
		installment.InterestComponent,
		installment.TotalAmount,
		installment.Status,
		installment.ID,
	)

	if err != nil {
		return fmt.Errorf("failed to update installment: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return apperr.NotFound("installment not found with ID: %d", installment.ID)
	}

	return nil
}

// MarkOverdue flips all DUE installments past their due date to LATE and
// returns the number of rows affected
func (r *InstallmentRepo) MarkOverdue(ctx context.Context, asOf time.Time) (int64, error) {
	query := `UPDATE installments
			 SET status = $1, updated_at = NOW()
			 WHERE status = $2 AND due_date < $3`

	result, err := r.db.ExecContext(ctx, query,
		models.InstallmentStatusLate, models.InstallmentStatusDue, asOf)
	if err != nil {
		return 0, fmt.Errorf("failed to mark overdue installments: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rows, nil
}

// ExistsUnsettled reports whether the loan still has DUE or LATE installments
func (r *InstallmentRepo) ExistsUnsettled(ctx context.Context, loanID int) (bool, error) {
	query := `SELECT EXISTS(
				 SELECT 1 FROM installments
				 WHERE loan_id = $1 AND status IN ($2, $3))`

	var exists bool
	err := r.db.QueryRowContext(ctx, query, loanID,
		models.InstallmentStatusDue, models.InstallmentStatusLate).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check unsettled installments: %w", err)
	}

	return exists, nil
}

func (r *InstallmentRepo) scanInstallments(rows *sql.Rows) ([]*models.Installment, error) {
	var installments []*models.Installment

	for rows.Next() {
		inst := &models.Installment{}
		err := rows.Scan(
			&inst.ID,
			&inst.LoanID,
			&inst.Number,
			&inst.DueDate,
			&inst.PrincipalComponent,
			&inst.InterestComponent,
			&inst.TotalAmount,
			&inst.Status,
			&inst.CreatedAt,
			&inst.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan installment: %w", err)
		}

		installments = append(installments, inst)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return installments, nil
}
