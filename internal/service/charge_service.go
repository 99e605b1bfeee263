package service

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"loan-service/internal/apperr"
	"loan-service/internal/models"
	"loan-service/internal/repository"
)

// ChargeSvc is an implementation of the service.ChargeService interface
type ChargeSvc struct {
	repos  *repository.Repository
	logger *logrus.Logger
	locks  *loanLocks
}

// NewChargeService creates a new ChargeSvc
func NewChargeService(deps Dependencies, locks *loanLocks) *ChargeSvc {
	return &ChargeSvc{
		repos:  deps.Repos,
		logger: deps.Logger,
		locks:  locks,
	}
}

// Add applies a new charge to a loan
func (s *ChargeSvc) Add(ctx context.Context, loanID int, req *models.ChargeRequest) (*models.Charge, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	s.locks.Lock(loanID)
	defer s.locks.Unlock(loanID)

	loan, err := s.repos.Loan.GetByID(ctx, loanID)
	if err != nil {
		return nil, err
	}

	charge := &models.Charge{
		LoanID:      loan.ID,
		Type:        req.Type,
		Amount:      req.Amount,
		AppliedDate: req.AppliedDate,
		Description: req.Description,
		Paid:        false,
	}

	id, err := s.repos.Charge.Create(ctx, charge)
	if err != nil {
		return nil, err
	}
	charge.ID = id

	s.logger.Infof("Charge %d (%s, %s) added to loan %d",
		charge.ID, charge.Type, charge.Amount.StringFixed(2), loan.ID)

	return charge, nil
}

// List returns all charges of a loan with their total
func (s *ChargeSvc) List(ctx context.Context, loanID int) (*models.ChargeListResponse, error) {
	loan, err := s.repos.Loan.GetByID(ctx, loanID)
	if err != nil {
		return nil, err
	}

	charges, err := s.repos.Charge.GetByLoanID(ctx, loan.ID)
	if err != nil {
		return nil, err
	}

	total := decimal.Zero
	for _, charge := range charges {
		total = total.Add(charge.Amount)
	}

	return &models.ChargeListResponse{
		LoanID:       loan.ID,
		Charges:      charges,
		TotalCharges: total,
	}, nil
}

// Remove deletes an unpaid charge from a loan. The charge must belong to the
// referenced loan and must not have been settled.
func (s *ChargeSvc) Remove(ctx context.Context, loanID, chargeID int) error {
	s.locks.Lock(loanID)
	defer s.locks.Unlock(loanID)

	loan, err := s.repos.Loan.GetByID(ctx, loanID)
	if err != nil {
		return err
	}

	charge, err := s.repos.Charge.GetByID(ctx, chargeID)
	if err != nil {
		return err
	}

	if charge.LoanID != loan.ID {
		return apperr.NotFound("charge does not belong to the specified loan")
	}

	if charge.Paid {
		return apperr.BusinessRule("paid charge cannot be removed")
	}

	if err := s.repos.Charge.Delete(ctx, charge.ID); err != nil {
		return err
	}

	s.logger.Infof("Charge %d removed from loan %d", charge.ID, loan.ID)

	return nil
}
