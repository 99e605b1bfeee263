package models

import (
	"strings"
	"time"

	"loan-service/internal/apperr"
)

// Customer represents a loan customer
type Customer struct {
	ID         int       `json:"id" db:"id"`
	CustomerID string    `json:"customer_id" db:"customer_id"`
	Name       string    `json:"name" db:"name"`
	Email      string    `json:"email" db:"email"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

// CustomerRequest represents a customer create/update request
type CustomerRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Validate validates customer data
func (r *CustomerRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return apperr.Validation("name is required")
	}

	if !strings.Contains(r.Email, "@") {
		return apperr.Validation("email should be valid")
	}

	return nil
}
