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

// CustomerRepo is a PostgreSQL implementation of the repository.CustomerRepository interface
type CustomerRepo struct {
	db *sql.DB
}

// NewCustomerRepository creates a new CustomerRepo
func NewCustomerRepository(db *sql.DB) *CustomerRepo {
	return &CustomerRepo{db: db}
}

// Create creates a new customer
func (r *CustomerRepo) Create(ctx context.Context, customer *models.Customer) (int, error) {
	query := `INSERT INTO customers (customer_id, name, email) VALUES ($1, $2, $3) RETURNING id`

	var id int
	err := r.db.QueryRowContext(ctx, query, customer.CustomerID, customer.Name, customer.Email).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to create customer: %w", err)
	}

	return id, nil
}

// GetByID gets a customer by ID
func (r *CustomerRepo) GetByID(ctx context.Context, id int) (*models.Customer, error) {
	query := `SELECT id, customer_id, name, email, created_at, updated_at
			  FROM customers WHERE id = $1`

	customer := &models.Customer{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&customer.ID,
		&customer.CustomerID,
		&customer.Name,
		&customer.Email,
		&customer.CreatedAt,
		&customer.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("customer not found with ID: %d", id)
		}
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}

	return customer, nil
}

// GetByEmail gets a customer by email
func (r *CustomerRepo) GetByEmail(ctx context.Context, email string) (*models.Customer, error) {
	query := `SELECT id, customer_id, name, email, created_at, updated_at
			  FROM customers WHERE email = $1`

	customer := &models.Customer{}
	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&customer.ID,
		&customer.CustomerID,
		&customer.Name,
		&customer.Email,
		&customer.CreatedAt,
		&customer.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("customer not found with email: %s", email)
		}
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}

	return customer, nil
}

// GetAll gets a page of customers ordered by ID
func (r *CustomerRepo) GetAll(ctx context.Context, limit, offset int) ([]*models.Customer, error) {
	query := `SELECT id, customer_id, name, email, created_at, updated_at
			  FROM customers
			  ORDER BY id
			  LIMIT $1 OFFSET $2`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to get customers: %w", err)
	}
	defer rows.Close()

	var customers []*models.Customer
	for rows.Next() {
		customer := &models.Customer{}
		err := rows.Scan(
			&customer.ID,
			&customer.CustomerID,
			&customer.Name,
			&customer.Email,
			&customer.CreatedAt,
			&customer.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan customer: %w", err)
		}

		customers = append(customers, customer)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return customers, nil
}

// Update updates a customer
func (r *CustomerRepo) Update(ctx context.Context, customer *models.Customer) error {
	query := `UPDATE customers SET name = $1, email = $2, updated_at = NOW() WHERE id = $3`

	result, err := r.db.ExecContext(ctx, query, customer.Name, customer.Email, customer.ID)
	if err != nil {
		return fmt.Errorf("failed to update customer: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return apperr.NotFound("customer not found with ID: %d", customer.ID)
	}

	return nil
}

// Delete deletes a customer by ID
func (r *CustomerRepo) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "foreign_key_violation" {
			return apperr.Conflict("customer %d has loans and cannot be deleted", id)
		}
		return fmt.Errorf("failed to delete customer: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return apperr.NotFound("customer not found with ID: %d", id)
	}

	return nil
}
