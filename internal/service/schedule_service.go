package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"loan-service/internal/apperr"
	"loan-service/internal/models"
	"loan-service/internal/repository"
)

// ScheduleSvc is an implementation of the service.ScheduleService interface
type ScheduleSvc struct {
	repos  *repository.Repository
	logger *logrus.Logger
	locks  *loanLocks
}

// NewScheduleService creates a new ScheduleSvc
func NewScheduleService(deps Dependencies, locks *loanLocks) *ScheduleSvc {
	return &ScheduleSvc{
		repos:  deps.Repos,
		logger: deps.Logger,
		locks:  locks,
	}
}

// Generate expands the loan into its installment schedule and persists it
func (s *ScheduleSvc) Generate(ctx context.Context, loan *models.Loan) error {
	installments, err := models.GenerateSchedule(loan.Principal, loan.TenureMonths, &loan.InterestRate, loan.StartDate)
	if err != nil {
		return err
	}

	for _, inst := range installments {
		inst.LoanID = loan.ID
	}

	if err := s.repos.Installment.CreateBatch(ctx, installments); err != nil {
		return fmt.Errorf("failed to store schedule: %w", err)
	}

	s.logger.Infof("Schedule generated for loan %d: %d installments", loan.ID, len(installments))

	return nil
}

// GetSchedule returns the full schedule of a loan with summary statistics.
// DUE installments past their due date are flipped to LATE on the way out.
func (s *ScheduleSvc) GetSchedule(ctx context.Context, loanID int) (*models.ScheduleResponse, error) {
	loan, err := s.repos.Loan.GetByID(ctx, loanID)
	if err != nil {
		return nil, err
	}

	installments, err := s.repos.Installment.GetByLoanID(ctx, loan.ID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	for _, inst := range installments {
		if inst.MarkLateIfOverdue(now) {
			if err := s.repos.Installment.Update(ctx, inst); err != nil {
				s.logger.Warnf("Failed to mark installment %d late: %v", inst.ID, err)
			}
		}
	}

	return &models.ScheduleResponse{
		LoanID:       loan.ID,
		Installments: installments,
		Summary:      models.SummarizeSchedule(installments),
	}, nil
}

// MarkOverdue flips every DUE installment past its due date to LATE. Run
// periodically by the background scheduler; GetSchedule applies the same
// transition on read so the sweep is a catch-up, not a correctness requirement.
func (s *ScheduleSvc) MarkOverdue(ctx context.Context) (int64, error) {
	marked, err := s.repos.Installment.MarkOverdue(ctx, time.Now())
	if err != nil {
		return 0, err
	}

	if marked > 0 {
		s.logger.Infof("Marked %d installments as late", marked)
	}

	return marked, nil
}

// UpdateAfterRateChange recomputes the interest and total components of all
// installments from effectiveFrom onward against the original principal, and
// records the new rate as the loan's steady-state base rate. Principal
// components are never touched. PAID installments keep their settled amounts:
// the selection considers them when checking that effectiveFrom is within the
// tenure, but their stored components are not rewritten.
func (s *ScheduleSvc) UpdateAfterRateChange(ctx context.Context, loanID int, newRate decimal.Decimal, effectiveFrom int) (*models.ScheduleResponse, error) {
	if newRate.IsNegative() {
		return nil, apperr.Validation("interest rate cannot be negative")
	}
	if effectiveFrom < 1 {
		return nil, apperr.Validation("effective installment number must be greater than 0")
	}

	s.locks.Lock(loanID)
	defer s.locks.Unlock(loanID)

	loan, err := s.repos.Loan.GetByID(ctx, loanID)
	if err != nil {
		return nil, err
	}

	installments, err := s.repos.Installment.GetByLoanIDFrom(ctx, loan.ID, effectiveFrom)
	if err != nil {
		return nil, err
	}

	if len(installments) == 0 {
		return nil, apperr.NotFound("no installments found from installment number: %d", effectiveFrom)
	}

	for _, inst := range installments {
		if inst.Status == models.InstallmentStatusPaid {
			continue
		}

		inst.InterestComponent = models.MonthlyInterest(loan.Principal, newRate)
		inst.TotalAmount = inst.PrincipalComponent.Add(inst.InterestComponent)

		if err := s.repos.Installment.Update(ctx, inst); err != nil {
			return nil, err
		}
	}

	loan.InterestRate.BaseRate = newRate
	if err := s.repos.Loan.Update(ctx, loan); err != nil {
		return nil, err
	}

	s.logger.Infof("Rate change applied to loan %d: %s%% from installment %d",
		loan.ID, newRate.String(), effectiveFrom)

	return s.GetSchedule(ctx, loanID)
}
