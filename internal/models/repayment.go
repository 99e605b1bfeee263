package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"loan-service/internal/apperr"
)

// Repayment represents a payment settled against an installment.
// Records are immutable once created.
type Repayment struct {
	ID                int             `json:"id" db:"id"`
	LoanID            int             `json:"loan_id" db:"loan_id"`
	InstallmentID     int             `json:"installment_id" db:"installment_id"`
	InstallmentNumber int             `json:"installment_number" db:"installment_number"`
	Amount            decimal.Decimal `json:"amount" db:"amount"`
	PaymentDate       time.Time       `json:"payment_date" db:"payment_date"`
	Mode              string          `json:"mode" db:"mode"`
	TransactionID     string          `json:"transaction_id" db:"transaction_id"`
	CreatedAt         time.Time       `json:"created_at" db:"created_at"`
}

// RepaymentRequest represents an incoming payment
type RepaymentRequest struct {
	Amount        decimal.Decimal `json:"amount"`
	PaymentDate   time.Time       `json:"payment_date"`
	Mode          string          `json:"mode"` // UPI, ONLINE, CASH
	TransactionID string          `json:"transaction_id"`
}

// Validate validates a repayment request
func (r *RepaymentRequest) Validate() error {
	if r.Amount.LessThanOrEqual(decimal.Zero) {
		return apperr.Validation("payment amount must be greater than 0")
	}

	if strings.TrimSpace(r.TransactionID) == "" {
		return apperr.Validation("transaction ID is required")
	}

	if r.PaymentDate.IsZero() {
		return apperr.Validation("payment date is required")
	}

	return nil
}

// RepaymentResult describes what an accepted payment settled
type RepaymentResult struct {
	Message           string          `json:"message"`
	ChargesSettled    int             `json:"charges_settled"`
	ChargesAmount     decimal.Decimal `json:"charges_amount"`
	InstallmentNumber int             `json:"installment_number,omitempty"`
	InstallmentAmount decimal.Decimal `json:"installment_amount,omitempty"`
}
