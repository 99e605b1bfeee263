package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"loan-service/configs"
	"loan-service/internal/apperr"
	"loan-service/internal/models"
	"loan-service/internal/repository"
)

// LoanSvc is an implementation of the service.LoanService interface
type LoanSvc struct {
	repos     *repository.Repository
	logger    *logrus.Logger
	config    *configs.Config
	risk      RiskAssessor
	benchmark BenchmarkRateService
	schedule  *ScheduleSvc
	email     EmailService
	locks     *loanLocks
}

// NewLoanService creates a new LoanSvc
func NewLoanService(deps Dependencies, locks *loanLocks, schedule *ScheduleSvc, email EmailService) *LoanSvc {
	return &LoanSvc{
		repos:     deps.Repos,
		logger:    deps.Logger,
		config:    deps.Config,
		risk:      NewRiskAssessor(deps),
		benchmark: NewBenchmarkRateService(deps),
		schedule:  schedule,
		email:     email,
		locks:     locks,
	}
}

// Create originates a new loan: risk screening, rate resolution, persistence
// and schedule generation
func (s *LoanSvc) Create(ctx context.Context, req *models.CreateLoanRequest) (*models.LoanResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	customer, err := s.repos.Customer.GetByID(ctx, req.CustomerID)
	if err != nil {
		return nil, err
	}

	assessment := s.risk.Assess(ctx, req)
	if !assessment.Approved {
		return nil, apperr.BusinessRule("loan rejected: %s", assessment.Reason).WithDetails(assessment)
	}

	baseRate, err := s.resolveBaseRate(ctx, req)
	if err != nil {
		return nil, err
	}

	interestRate := models.InterestRate{
		Type:     req.InterestType,
		BaseRate: baseRate,
	}

	if req.InterestType == models.InterestTypeStep {
		// Normalized once at origination; lookups never re-walk the sparse map
		interestRate.SteppedRates = models.NormalizeSteppedRates(req.SteppedRates, req.TenureMonths)
	}

	loan := &models.Loan{
		LoanID:       uuid.New().String(),
		CustomerID:   customer.ID,
		Principal:    req.Principal,
		InterestRate: interestRate,
		TenureMonths: req.TenureMonths,
		StartDate:    time.Now(),
		Status:       models.LoanStatusActive,
	}

	id, err := s.repos.Loan.Create(ctx, loan)
	if err != nil {
		return nil, err
	}
	loan.ID = id

	if err := s.schedule.Generate(ctx, loan); err != nil {
		return nil, err
	}

	s.logger.Infof("Loan created: %d for customer %d, principal %s, tenure %d months",
		loan.ID, customer.ID, loan.Principal.StringFixed(2), loan.TenureMonths)

	go func() {
		ctx := context.Background()
		if err := s.email.SendLoanApproved(ctx, customer.ID, loan); err != nil {
			s.logger.Warnf("Failed to send loan approval notification: %v", err)
		}
	}()

	return loan.ToLoanResponse(), nil
}

// resolveBaseRate determines the annual base rate for the loan. FLOATING loans
// without an explicit rate take benchmark + margin; the configured default
// stands in when the feed is unreachable.
func (s *LoanSvc) resolveBaseRate(ctx context.Context, req *models.CreateLoanRequest) (decimal.Decimal, error) {
	if req.InterestRate != nil {
		return *req.InterestRate, nil
	}

	if req.InterestType != models.InterestTypeFloating {
		return decimal.Zero, nil
	}

	keyRate, err := s.benchmark.KeyRate(ctx)
	if err != nil {
		s.logger.Warnf("Failed to get benchmark rate: %v. Using default rate of %s%%.",
			err, s.config.Benchmark.DefaultRate)
		keyRate, err = decimal.NewFromString(s.config.Benchmark.DefaultRate)
		if err != nil {
			return decimal.Zero, apperr.Validation("invalid default benchmark rate configured")
		}
	}

	margin, err := decimal.NewFromString(s.config.Benchmark.Margin)
	if err != nil {
		return decimal.Zero, apperr.Validation("invalid benchmark margin configured")
	}

	return keyRate.Add(margin), nil
}

// GetByID gets a loan by ID
func (s *LoanSvc) GetByID(ctx context.Context, loanID int) (*models.LoanResponse, error) {
	loan, err := s.repos.Loan.GetByID(ctx, loanID)
	if err != nil {
		return nil, err
	}

	return loan.ToLoanResponse(), nil
}

// Foreclose closes a loan early. Eligible only when no installment remains DUE
// or LATE and no charge remains unpaid; the transition is one-way and scoped
// to ACTIVE loans, so a repeated foreclosure fails.
func (s *LoanSvc) Foreclose(ctx context.Context, loanID int, foreclosureDate time.Time) (*models.LoanResponse, error) {
	s.locks.Lock(loanID)
	defer s.locks.Unlock(loanID)

	loan, err := s.repos.Loan.GetActiveByID(ctx, loanID)
	if err != nil {
		if apperr.IsKind(err, apperr.KindNotFound) {
			if _, lookupErr := s.repos.Loan.GetByID(ctx, loanID); lookupErr == nil {
				return nil, apperr.BusinessRule("loan is already foreclosed")
			}
		}
		return nil, err
	}

	unsettled, err := s.repos.Installment.ExistsUnsettled(ctx, loan.ID)
	if err != nil {
		return nil, err
	}
	if unsettled {
		return nil, apperr.BusinessRule("loan cannot be foreclosed: unpaid installments exist")
	}

	unpaidCharges, err := s.repos.Charge.GetUnpaidByLoanID(ctx, loan.ID)
	if err != nil {
		return nil, err
	}
	if len(unpaidCharges) > 0 {
		return nil, apperr.BusinessRule("loan cannot be foreclosed: outstanding charges exist")
	}

	loan.Status = models.LoanStatusForeclosed
	if err := s.repos.Loan.Update(ctx, loan); err != nil {
		return nil, err
	}

	s.logger.Infof("Loan %d foreclosed effective %s", loan.ID, foreclosureDate.Format("2006-01-02"))

	go func() {
		ctx := context.Background()
		if err := s.email.SendForeclosureNotice(ctx, loan.CustomerID, loan); err != nil {
			s.logger.Warnf("Failed to send foreclosure notice: %v", err)
		}
	}()

	return loan.ToLoanResponse(), nil
}
