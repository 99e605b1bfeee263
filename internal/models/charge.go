package models

import (
	"time"

	"github.com/shopspring/decimal"

	"loan-service/internal/apperr"
)

// ChargeType defines the category of an ad-hoc fee
type ChargeType string

const (
	ChargeTypeLateFee             ChargeType = "LATE_FEE"
	ChargeTypeForeclosure         ChargeType = "FORECLOSURE"
	ChargeTypeProcessingFee       ChargeType = "PROCESSING_FEE"
	ChargeTypeBounceCharge        ChargeType = "BOUNCE_CHARGE"
	ChargeTypeLegalFee            ChargeType = "LEGAL_FEE"
	ChargeTypeDocumentationCharge ChargeType = "DOCUMENTATION_CHARGE"
	ChargeTypeOther               ChargeType = "OTHER"
)

// ValidChargeType checks whether the given value is a known charge type
func ValidChargeType(t ChargeType) bool {
	switch t {
	case ChargeTypeLateFee, ChargeTypeForeclosure, ChargeTypeProcessingFee,
		ChargeTypeBounceCharge, ChargeTypeLegalFee, ChargeTypeDocumentationCharge,
		ChargeTypeOther:
		return true
	}
	return false
}

// Charge represents an ad-hoc fee applied to a loan
type Charge struct {
	ID          int             `json:"id" db:"id"`
	LoanID      int             `json:"loan_id" db:"loan_id"`
	Type        ChargeType      `json:"type" db:"type"`
	Amount      decimal.Decimal `json:"amount" db:"amount"`
	AppliedDate time.Time       `json:"applied_date" db:"applied_date"`
	Description string          `json:"description" db:"description"`
	Paid        bool            `json:"paid" db:"paid"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at" db:"updated_at"`
}

// ChargeRequest represents a request to add a charge to a loan
type ChargeRequest struct {
	Type        ChargeType      `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	AppliedDate time.Time       `json:"applied_date"`
	Description string          `json:"description,omitempty"`
}

// Validate validates a charge request
func (r *ChargeRequest) Validate() error {
	if !ValidChargeType(r.Type) {
		return apperr.Validation("unknown charge type: %s", r.Type)
	}

	if r.Amount.LessThanOrEqual(decimal.Zero) {
		return apperr.Validation("charge amount must be positive")
	}

	if r.AppliedDate.IsZero() {
		return apperr.Validation("applied date is required")
	}

	return nil
}

// ChargeListResponse represents the charges of a loan with their total
type ChargeListResponse struct {
	LoanID       int             `json:"loan_id"`
	Charges      []*Charge       `json:"charges"`
	TotalCharges decimal.Decimal `json:"total_charges"`
}
