package models

import (
	"time"

	"github.com/shopspring/decimal"

	"loan-service/internal/apperr"
)

// LoanStatus defines the status of a loan account
type LoanStatus string

const (
	LoanStatusActive     LoanStatus = "ACTIVE"
	LoanStatusForeclosed LoanStatus = "FORECLOSED"
)

// Loan represents a loan account
type Loan struct {
	ID           int             `json:"id" db:"id"`
	LoanID       string          `json:"loan_id" db:"loan_id"`
	CustomerID   int             `json:"customer_id" db:"customer_id"`
	Principal    decimal.Decimal `json:"principal" db:"principal"`
	InterestRate InterestRate    `json:"interest_rate"`
	TenureMonths int             `json:"tenure_months" db:"tenure_months"`
	StartDate    time.Time       `json:"start_date" db:"start_date"`
	Status       LoanStatus      `json:"status" db:"status"`
	CreatedAt    time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at" db:"updated_at"`
}

// CreateLoanRequest represents a loan origination request
type CreateLoanRequest struct {
	CustomerID    int                     `json:"customer_id"`
	Principal     decimal.Decimal         `json:"principal"`
	InterestType  InterestType            `json:"interest_type"`
	InterestRate  *decimal.Decimal        `json:"interest_rate,omitempty"`
	TenureMonths  int                     `json:"tenure_months"`
	SteppedRates  map[int]decimal.Decimal `json:"stepped_rates,omitempty"`
	CreditScore   int                     `json:"credit_score"`
	MonthlyIncome decimal.Decimal         `json:"monthly_income"`
}

// Validate validates a loan origination request
func (r *CreateLoanRequest) Validate() error {
	if r.CustomerID <= 0 {
		return apperr.Validation("customer ID is required")
	}

	if r.Principal.LessThanOrEqual(decimal.Zero) {
		return apperr.Validation("principal amount must be greater than 0")
	}

	if r.TenureMonths <= 0 {
		return apperr.Validation("tenure must be greater than 0")
	}

	if !ValidInterestType(r.InterestType) {
		return apperr.Validation("unknown interest type: %s", r.InterestType)
	}

	if r.InterestType == InterestTypeStep && len(r.SteppedRates) == 0 {
		return apperr.Validation("stepped rates are required for STEP interest type")
	}

	if r.InterestType == InterestTypeFixed && r.InterestRate == nil {
		return apperr.Validation("interest rate is required for FIXED interest type")
	}

	if r.InterestRate != nil && r.InterestRate.IsNegative() {
		return apperr.Validation("interest rate cannot be negative")
	}

	if r.MonthlyIncome.LessThanOrEqual(decimal.Zero) {
		return apperr.Validation("monthly income must be greater than 0")
	}

	return nil
}

// ForeclosureRequest represents an early closure request
type ForeclosureRequest struct {
	ForeclosureDate time.Time `json:"foreclosure_date"`
}

// Validate validates a foreclosure request
func (r *ForeclosureRequest) Validate() error {
	if r.ForeclosureDate.IsZero() {
		return apperr.Validation("foreclosure date is required")
	}
	return nil
}

// LoanResponse represents a loan for API responses
type LoanResponse struct {
	ID           int             `json:"id"`
	LoanID       string          `json:"loan_id"`
	CustomerID   int             `json:"customer_id"`
	Principal    decimal.Decimal `json:"principal"`
	InterestType InterestType    `json:"interest_type"`
	BaseRate     decimal.Decimal `json:"base_rate"`
	TenureMonths int             `json:"tenure_months"`
	StartDate    time.Time       `json:"start_date"`
	Status       LoanStatus      `json:"status"`
}

// ToLoanResponse converts a Loan to a LoanResponse
func (l *Loan) ToLoanResponse() *LoanResponse {
	return &LoanResponse{
		ID:           l.ID,
		LoanID:       l.LoanID,
		CustomerID:   l.CustomerID,
		Principal:    l.Principal,
		InterestType: l.InterestRate.Type,
		BaseRate:     l.InterestRate.BaseRate,
		TenureMonths: l.TenureMonths,
		StartDate:    l.StartDate,
		Status:       l.Status,
	}
}
