package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// InstallmentStatus defines the status of a scheduled installment
type InstallmentStatus string

const (
	InstallmentStatusDue  InstallmentStatus = "DUE"
	InstallmentStatusPaid InstallmentStatus = "PAID"
	InstallmentStatusLate InstallmentStatus = "LATE"
)

// Installment represents one scheduled obligation of a loan
type Installment struct {
	ID                 int               `json:"id" db:"id"`
	LoanID             int               `json:"loan_id" db:"loan_id"`
	Number             int               `json:"installment_number" db:"installment_number"`
	DueDate            time.Time         `json:"due_date" db:"due_date"`
	PrincipalComponent decimal.Decimal   `json:"principal_component" db:"principal_component"`
	InterestComponent  decimal.Decimal   `json:"interest_component" db:"interest_component"`
	TotalAmount        decimal.Decimal   `json:"total_amount" db:"total_amount"`
	Status             InstallmentStatus `json:"status" db:"status"`
	CreatedAt          time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time         `json:"updated_at" db:"updated_at"`
}

// Outstanding returns the amount still owed on the installment given the
// repayments already linked to it, rounded to currency precision.
func (i *Installment) Outstanding(repayments []*Repayment) decimal.Decimal {
	paid := decimal.Zero
	for _, r := range repayments {
		if r.InstallmentID == i.ID {
			paid = paid.Add(r.Amount)
		}
	}
	return i.TotalAmount.Sub(paid).Round(2)
}

// MarkLateIfOverdue flips a DUE installment past its due date to LATE.
// Returns true when the status changed.
func (i *Installment) MarkLateIfOverdue(now time.Time) bool {
	if i.Status == InstallmentStatusDue && now.After(i.DueDate) {
		i.Status = InstallmentStatusLate
		return true
	}
	return false
}

// ScheduleResponse represents a loan schedule for API responses
type ScheduleResponse struct {
	LoanID       int              `json:"loan_id"`
	Installments []*Installment   `json:"installments"`
	Summary      *ScheduleSummary `json:"summary"`
}

// ScheduleSummary represents aggregate statistics for a loan schedule
type ScheduleSummary struct {
	TotalInstallments int             `json:"total_installments"`
	TotalPrincipal    decimal.Decimal `json:"total_principal"`
	TotalInterest     decimal.Decimal `json:"total_interest"`
	TotalAmount       decimal.Decimal `json:"total_amount"`
	PaidInstallments  int             `json:"paid_installments"`
	PaidAmount        decimal.Decimal `json:"paid_amount"`
	DueInstallments   int             `json:"due_installments"`
	DueAmount         decimal.Decimal `json:"due_amount"`
	LateInstallments  int             `json:"late_installments"`
	LateAmount        decimal.Decimal `json:"late_amount"`
}

// SummarizeSchedule calculates aggregate statistics for a schedule
func SummarizeSchedule(installments []*Installment) *ScheduleSummary {
	summary := &ScheduleSummary{
		TotalInstallments: len(installments),
		TotalPrincipal:    decimal.Zero,
		TotalInterest:     decimal.Zero,
		TotalAmount:       decimal.Zero,
		PaidAmount:        decimal.Zero,
		DueAmount:         decimal.Zero,
		LateAmount:        decimal.Zero,
	}

	for _, inst := range installments {
		summary.TotalPrincipal = summary.TotalPrincipal.Add(inst.PrincipalComponent)
		summary.TotalInterest = summary.TotalInterest.Add(inst.InterestComponent)
		summary.TotalAmount = summary.TotalAmount.Add(inst.TotalAmount)

		switch inst.Status {
		case InstallmentStatusPaid:
			summary.PaidInstallments++
			summary.PaidAmount = summary.PaidAmount.Add(inst.TotalAmount)
		case InstallmentStatusDue:
			summary.DueInstallments++
			summary.DueAmount = summary.DueAmount.Add(inst.TotalAmount)
		case InstallmentStatusLate:
			summary.LateInstallments++
			summary.LateAmount = summary.LateAmount.Add(inst.TotalAmount)
		}
	}

	return summary
}
