package service

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"loan-service/internal/apperr"
	"loan-service/internal/models"
	"loan-service/internal/repository"
)

// RepaymentSvc is an implementation of the service.RepaymentService interface
type RepaymentSvc struct {
	repos  *repository.Repository
	logger *logrus.Logger
	email  EmailService
	locks  *loanLocks
}

// NewRepaymentService creates a new RepaymentSvc
func NewRepaymentService(deps Dependencies, locks *loanLocks, email EmailService) *RepaymentSvc {
	return &RepaymentSvc{
		repos:  deps.Repos,
		logger: deps.Logger,
		email:  email,
		locks:  locks,
	}
}

// Apply allocates an incoming payment: unpaid charges are settled first (full
// charges only), then the remainder must exactly match the outstanding amount
// of the earliest unpaid installment. Partial EMI payment and overpayment
// carry-forward are rejected, not absorbed.
func (s *RepaymentSvc) Apply(ctx context.Context, loanID int, req *models.RepaymentRequest) (*models.RepaymentResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	s.locks.Lock(loanID)
	defer s.locks.Unlock(loanID)

	loan, err := s.repos.Loan.GetByID(ctx, loanID)
	if err != nil {
		return nil, err
	}

	exists, err := s.repos.Repayment.ExistsByTransactionID(ctx, req.TransactionID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperr.Conflict("duplicate transaction ID: %s", req.TransactionID)
	}

	remaining := req.Amount

	result := &models.RepaymentResult{
		ChargesAmount: decimal.Zero,
	}

	charges, err := s.repos.Charge.GetUnpaidByLoanID(ctx, loan.ID)
	if err != nil {
		return nil, err
	}

	// Plan the whole allocation before touching storage: a rejected payment
	// must leave charges and installments exactly as they were.
	var covered []*models.Charge
	for _, charge := range charges {
		if remaining.LessThan(charge.Amount) {
			// No partial charge settlement: stop at the first uncoverable charge
			break
		}

		remaining = remaining.Sub(charge.Amount)
		covered = append(covered, charge)
	}

	if remaining.LessThanOrEqual(decimal.Zero) {
		if err := s.settleCharges(ctx, covered, result); err != nil {
			return nil, err
		}

		result.Message = "charges settled"
		s.logger.Infof("Repayment %s settled %d charges on loan %d",
			req.TransactionID, result.ChargesSettled, loan.ID)
		return result, nil
	}

	installments, err := s.repos.Installment.GetByLoanID(ctx, loan.ID)
	if err != nil {
		return nil, err
	}

	repayments, err := s.repos.Repayment.GetByLoanID(ctx, loan.ID)
	if err != nil {
		return nil, err
	}

	for _, inst := range installments {
		if inst.Status == models.InstallmentStatusPaid {
			continue
		}

		outstanding := inst.Outstanding(repayments)

		if !remaining.Round(2).Equal(outstanding) {
			return nil, apperr.Validation(
				"amount after charges does not match the next due installment: expected %s",
				outstanding.StringFixed(2))
		}

		if err := s.settleCharges(ctx, covered, result); err != nil {
			return nil, err
		}

		repayment := &models.Repayment{
			LoanID:        loan.ID,
			InstallmentID: inst.ID,
			Amount:        remaining,
			PaymentDate:   req.PaymentDate,
			Mode:          req.Mode,
			TransactionID: req.TransactionID,
		}

		if _, err := s.repos.Repayment.Create(ctx, repayment); err != nil {
			return nil, err
		}

		inst.Status = models.InstallmentStatusPaid
		if err := s.repos.Installment.Update(ctx, inst); err != nil {
			return nil, err
		}

		result.Message = "repayment processed"
		result.InstallmentNumber = inst.Number
		result.InstallmentAmount = remaining

		s.logger.Infof("Repayment %s settled installment %d of loan %d",
			req.TransactionID, inst.Number, loan.ID)

		go func(customerID int) {
			ctx := context.Background()
			if err := s.email.SendPaymentReceipt(ctx, customerID, loan, result); err != nil {
				s.logger.Warnf("Failed to send payment receipt: %v", err)
			}
		}(loan.CustomerID)

		return result, nil
	}

	return nil, apperr.BusinessRule("no due installment matches payment")
}

func (s *RepaymentSvc) settleCharges(ctx context.Context, charges []*models.Charge, result *models.RepaymentResult) error {
	for _, charge := range charges {
		charge.Paid = true
		if err := s.repos.Charge.Update(ctx, charge); err != nil {
			return err
		}

		result.ChargesSettled++
		result.ChargesAmount = result.ChargesAmount.Add(charge.Amount)
	}

	return nil
}

// History returns all repayments of a loan ordered by payment date
func (s *RepaymentSvc) History(ctx context.Context, loanID int) ([]*models.Repayment, error) {
	loan, err := s.repos.Loan.GetByID(ctx, loanID)
	if err != nil {
		return nil, err
	}

	return s.repos.Repayment.GetByLoanID(ctx, loan.ID)
}
