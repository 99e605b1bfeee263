package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"loan-service/internal/apperr"
	"loan-service/internal/models"
)

func TestRepaymentApply_ExactMatch(t *testing.T) {
	svc := NewService(newTestDeps())
	customer := seedCustomer(t, svc)
	loan := createTestLoan(t, svc, customer.ID)

	result, err := svc.Repayment.Apply(context.Background(), loan.ID, &models.RepaymentRequest{
		Amount:        decimal.NewFromInt(1100),
		PaymentDate:   time.Now(),
		Mode:          "UPI",
		TransactionID: "TX-001",
	})
	if err != nil {
		t.Fatalf("expected exact payment to succeed: %v", err)
	}

	if result.InstallmentNumber != 1 {
		t.Errorf("expected installment 1 settled, got %d", result.InstallmentNumber)
	}
	if !result.InstallmentAmount.Equal(decimal.NewFromInt(1100)) {
		t.Errorf("expected installment amount 1100, got %s", result.InstallmentAmount)
	}

	schedule, err := svc.Schedule.GetSchedule(context.Background(), loan.ID)
	if err != nil {
		t.Fatalf("failed to get schedule: %v", err)
	}
	if schedule.Installments[0].Status != models.InstallmentStatusPaid {
		t.Errorf("expected first installment PAID, got %s", schedule.Installments[0].Status)
	}
	if schedule.Summary.PaidInstallments != 1 {
		t.Errorf("expected 1 paid installment, got %d", schedule.Summary.PaidInstallments)
	}
}

func TestRepaymentApply_MismatchRejected(t *testing.T) {
	svc := NewService(newTestDeps())
	customer := seedCustomer(t, svc)
	loan := createTestLoan(t, svc, customer.ID)

	for _, amount := range []int64{1000, 1200, 2200} {
		_, err := svc.Repayment.Apply(context.Background(), loan.ID, &models.RepaymentRequest{
			Amount:        decimal.NewFromInt(amount),
			PaymentDate:   time.Now(),
			Mode:          "UPI",
			TransactionID: "TX-MISMATCH",
		})
		if !apperr.IsKind(err, apperr.KindValidation) {
			t.Fatalf("amount %d: expected validation error, got %v", amount, err)
		}
		if !strings.Contains(err.Error(), "1100.00") {
			t.Errorf("amount %d: expected the error to name the expected amount, got %q", amount, err)
		}
	}

	schedule, err := svc.Schedule.GetSchedule(context.Background(), loan.ID)
	if err != nil {
		t.Fatalf("failed to get schedule: %v", err)
	}
	if schedule.Summary.PaidInstallments != 0 {
		t.Errorf("rejected payments must not settle installments, got %d paid",
			schedule.Summary.PaidInstallments)
	}
}

func TestRepaymentApply_DuplicateTransaction(t *testing.T) {
	svc := NewService(newTestDeps())
	customer := seedCustomer(t, svc)
	loan := createTestLoan(t, svc, customer.ID)

	req := &models.RepaymentRequest{
		Amount:        decimal.NewFromInt(1100),
		PaymentDate:   time.Now(),
		Mode:          "UPI",
		TransactionID: "TX-DUP",
	}

	if _, err := svc.Repayment.Apply(context.Background(), loan.ID, req); err != nil {
		t.Fatalf("first payment failed: %v", err)
	}

	_, err := svc.Repayment.Apply(context.Background(), loan.ID, req)
	if !apperr.IsKind(err, apperr.KindConflict) {
		t.Fatalf("expected conflict on duplicate transaction ID, got %v", err)
	}

	schedule, err := svc.Schedule.GetSchedule(context.Background(), loan.ID)
	if err != nil {
		t.Fatalf("failed to get schedule: %v", err)
	}
	if schedule.Summary.PaidInstallments != 1 {
		t.Errorf("duplicate must not settle anything: expected 1 paid, got %d",
			schedule.Summary.PaidInstallments)
	}
}

func TestRepaymentApply_ChargesFirst(t *testing.T) {
	svc := NewService(newTestDeps())
	customer := seedCustomer(t, svc)
	loan := createTestLoan(t, svc, customer.ID)

	_, err := svc.Charge.Add(context.Background(), loan.ID, &models.ChargeRequest{
		Type:        models.ChargeTypeLateFee,
		Amount:      decimal.NewFromInt(50),
		AppliedDate: time.Now(),
	})
	if err != nil {
		t.Fatalf("failed to add charge: %v", err)
	}

	// 50 settles the charge, the remaining 1100 matches installment 1
	result, err := svc.Repayment.Apply(context.Background(), loan.ID, &models.RepaymentRequest{
		Amount:        decimal.NewFromInt(1150),
		PaymentDate:   time.Now(),
		Mode:          "UPI",
		TransactionID: "TX-CHARGE-1",
	})
	if err != nil {
		t.Fatalf("expected payment to succeed: %v", err)
	}

	if result.ChargesSettled != 1 {
		t.Errorf("expected 1 charge settled, got %d", result.ChargesSettled)
	}
	if !result.ChargesAmount.Equal(decimal.NewFromInt(50)) {
		t.Errorf("expected charges amount 50, got %s", result.ChargesAmount)
	}
	if result.InstallmentNumber != 1 {
		t.Errorf("expected installment 1 settled, got %d", result.InstallmentNumber)
	}

	charges, err := svc.Charge.List(context.Background(), loan.ID)
	if err != nil {
		t.Fatalf("failed to list charges: %v", err)
	}
	if !charges.Charges[0].Paid {
		t.Error("expected the charge to be marked paid")
	}
}

func TestRepaymentApply_MismatchLeavesChargesUnpaid(t *testing.T) {
	svc := NewService(newTestDeps())
	customer := seedCustomer(t, svc)
	loan := createTestLoan(t, svc, customer.ID)

	_, err := svc.Charge.Add(context.Background(), loan.ID, &models.ChargeRequest{
		Type:        models.ChargeTypeLateFee,
		Amount:      decimal.NewFromInt(50),
		AppliedDate: time.Now(),
	})
	if err != nil {
		t.Fatalf("failed to add charge: %v", err)
	}

	// 1200 covers the 50 charge but the remaining 1150 matches no installment,
	// so the whole payment is rejected and the charge must stay unpaid
	_, err = svc.Repayment.Apply(context.Background(), loan.ID, &models.RepaymentRequest{
		Amount:        decimal.NewFromInt(1200),
		PaymentDate:   time.Now(),
		Mode:          "UPI",
		TransactionID: "TX-MISMATCH-CHARGE",
	})
	if !apperr.IsKind(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	charges, err := svc.Charge.List(context.Background(), loan.ID)
	if err != nil {
		t.Fatalf("failed to list charges: %v", err)
	}
	if charges.Charges[0].Paid {
		t.Error("rejected payment must not settle the charge")
	}

	history, err := svc.Repayment.History(context.Background(), loan.ID)
	if err != nil {
		t.Fatalf("failed to get history: %v", err)
	}
	if len(history) != 0 {
		t.Errorf("rejected payment must not be recorded, got %d repayments", len(history))
	}
}

func TestRepaymentApply_ChargesOnly(t *testing.T) {
	svc := NewService(newTestDeps())
	customer := seedCustomer(t, svc)
	loan := createTestLoan(t, svc, customer.ID)

	_, err := svc.Charge.Add(context.Background(), loan.ID, &models.ChargeRequest{
		Type:        models.ChargeTypeProcessingFee,
		Amount:      decimal.NewFromInt(200),
		AppliedDate: time.Now(),
	})
	if err != nil {
		t.Fatalf("failed to add charge: %v", err)
	}

	result, err := svc.Repayment.Apply(context.Background(), loan.ID, &models.RepaymentRequest{
		Amount:        decimal.NewFromInt(200),
		PaymentDate:   time.Now(),
		Mode:          "CASH",
		TransactionID: "TX-CHARGE-ONLY",
	})
	if err != nil {
		t.Fatalf("expected charge-only payment to succeed: %v", err)
	}

	if result.ChargesSettled != 1 {
		t.Errorf("expected 1 charge settled, got %d", result.ChargesSettled)
	}
	if result.InstallmentNumber != 0 {
		t.Errorf("charge-only payment must not touch installments, got installment %d",
			result.InstallmentNumber)
	}
}

func TestRepaymentApply_UncoverableChargeLeftUnpaid(t *testing.T) {
	svc := NewService(newTestDeps())
	customer := seedCustomer(t, svc)
	loan := createTestLoan(t, svc, customer.ID)

	_, err := svc.Charge.Add(context.Background(), loan.ID, &models.ChargeRequest{
		Type:        models.ChargeTypeLegalFee,
		Amount:      decimal.NewFromInt(5000),
		AppliedDate: time.Now(),
	})
	if err != nil {
		t.Fatalf("failed to add charge: %v", err)
	}

	// 1100 cannot cover the 5000 charge, so allocation skips to the
	// installment and settles it exactly
	result, err := svc.Repayment.Apply(context.Background(), loan.ID, &models.RepaymentRequest{
		Amount:        decimal.NewFromInt(1100),
		PaymentDate:   time.Now(),
		Mode:          "UPI",
		TransactionID: "TX-SKIP-CHARGE",
	})
	if err != nil {
		t.Fatalf("expected payment to succeed: %v", err)
	}

	if result.ChargesSettled != 0 {
		t.Errorf("expected no charges settled, got %d", result.ChargesSettled)
	}
	if result.InstallmentNumber != 1 {
		t.Errorf("expected installment 1 settled, got %d", result.InstallmentNumber)
	}
}

func TestRepaymentApply_NoUnpaidInstallment(t *testing.T) {
	svc := NewService(newTestDeps())
	customer := seedCustomer(t, svc)
	loan := createTestLoan(t, svc, customer.ID)

	payOff(t, svc, loan.ID)

	_, err := svc.Repayment.Apply(context.Background(), loan.ID, &models.RepaymentRequest{
		Amount:        decimal.NewFromInt(1100),
		PaymentDate:   time.Now(),
		Mode:          "UPI",
		TransactionID: "TX-EXTRA",
	})
	if !apperr.IsKind(err, apperr.KindBusinessRule) {
		t.Fatalf("expected business rule error on a fully paid loan, got %v", err)
	}
}

func TestRepaymentHistory(t *testing.T) {
	svc := NewService(newTestDeps())
	customer := seedCustomer(t, svc)
	loan := createTestLoan(t, svc, customer.ID)

	for i, tx := range []string{"TX-H1", "TX-H2"} {
		_, err := svc.Repayment.Apply(context.Background(), loan.ID, &models.RepaymentRequest{
			Amount:        decimal.NewFromInt(1100),
			PaymentDate:   time.Now().Add(time.Duration(i) * time.Hour),
			Mode:          "UPI",
			TransactionID: tx,
		})
		if err != nil {
			t.Fatalf("payment %s failed: %v", tx, err)
		}
	}

	history, err := svc.Repayment.History(context.Background(), loan.ID)
	if err != nil {
		t.Fatalf("failed to get history: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("expected 2 repayments, got %d", len(history))
	}
	if history[0].TransactionID != "TX-H1" || history[1].TransactionID != "TX-H2" {
		t.Error("expected history ordered by payment date")
	}
}

func TestRepaymentApply_InvalidRequest(t *testing.T) {
	svc := NewService(newTestDeps())

	tests := []struct {
		name string
		req  *models.RepaymentRequest
	}{
		{"zero amount", &models.RepaymentRequest{Amount: decimal.Zero, PaymentDate: time.Now(), TransactionID: "TX"}},
		{"missing transaction ID", &models.RepaymentRequest{Amount: decimal.NewFromInt(100), PaymentDate: time.Now()}},
		{"missing payment date", &models.RepaymentRequest{Amount: decimal.NewFromInt(100), TransactionID: "TX"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Repayment.Apply(context.Background(), 1, tt.req)
			if !apperr.IsKind(err, apperr.KindValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}
