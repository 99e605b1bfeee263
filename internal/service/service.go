package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"loan-service/configs"
	"loan-service/internal/models"
	"loan-service/internal/repository"
)

// LoanService defines methods for loan origination and lifecycle
type LoanService interface {
	Create(ctx context.Context, req *models.CreateLoanRequest) (*models.LoanResponse, error)
	GetByID(ctx context.Context, loanID int) (*models.LoanResponse, error)
	Foreclose(ctx context.Context, loanID int, foreclosureDate time.Time) (*models.LoanResponse, error)
}

// ScheduleService defines methods for installment schedules
type ScheduleService interface {
	GetSchedule(ctx context.Context, loanID int) (*models.ScheduleResponse, error)
	UpdateAfterRateChange(ctx context.Context, loanID int, newRate decimal.Decimal, effectiveFrom int) (*models.ScheduleResponse, error)
	MarkOverdue(ctx context.Context) (int64, error)
}

// RepaymentService defines methods for payment allocation
type RepaymentService interface {
	Apply(ctx context.Context, loanID int, req *models.RepaymentRequest) (*models.RepaymentResult, error)
	History(ctx context.Context, loanID int) ([]*models.Repayment, error)
}

// ChargeService defines methods for the charge ledger
type ChargeService interface {
	Add(ctx context.Context, loanID int, req *models.ChargeRequest) (*models.Charge, error)
	List(ctx context.Context, loanID int) (*models.ChargeListResponse, error)
	Remove(ctx context.Context, loanID, chargeID int) error
}

// CustomerService defines methods for customer management
type CustomerService interface {
	Create(ctx context.Context, req *models.CustomerRequest) (*models.Customer, error)
	GetByID(ctx context.Context, id int) (*models.Customer, error)
	List(ctx context.Context, limit, offset int) ([]*models.Customer, error)
	Update(ctx context.Context, id int, req *models.CustomerRequest) (*models.Customer, error)
	Delete(ctx context.Context, id int) error
}

// UserService defines methods for API users
type UserService interface {
	Register(ctx context.Context, reg *models.UserRegistration) (int, error)
	Login(ctx context.Context, login *models.UserLogin) (*models.TokenResponse, error)
}

// EmailService defines methods for customer notifications
type EmailService interface {
	SendLoanApproved(ctx context.Context, customerID int, loan *models.Loan) error
	SendPaymentReceipt(ctx context.Context, customerID int, loan *models.Loan, result *models.RepaymentResult) error
	SendForeclosureNotice(ctx context.Context, customerID int, loan *models.Loan) error
}

// RiskAssessor evaluates a loan origination request. Implementations never
// fail: a remote assessor degrades to a conservative rejection instead of
// propagating transport errors.
type RiskAssessor interface {
	Assess(ctx context.Context, req *models.CreateLoanRequest) *models.RiskAssessment
}

// BenchmarkRateService provides the central bank benchmark rate used for
// FLOATING loans created without an explicit base rate
type BenchmarkRateService interface {
	KeyRate(ctx context.Context) (decimal.Decimal, error)
}

// Dependencies contains dependencies for services
type Dependencies struct {
	Repos  *repository.Repository
	Logger *logrus.Logger
	Config *configs.Config
}

// Service is a composition of all services
type Service struct {
	Loan      LoanService
	Schedule  ScheduleService
	Repayment RepaymentService
	Charge    ChargeService
	Customer  CustomerService
	User      UserService
	Email     EmailService
}

// NewService creates a new service with all sub-services. Mutating loan
// operations share a per-loan lock registry so concurrent requests against the
// same loan are serialized while distinct loans proceed in parallel.
func NewService(deps Dependencies) *Service {
	locks := newLoanLocks()
	email := NewEmailService(deps)
	schedule := NewScheduleService(deps, locks)

	return &Service{
		Loan:      NewLoanService(deps, locks, schedule, email),
		Schedule:  schedule,
		Repayment: NewRepaymentService(deps, locks, email),
		Charge:    NewChargeService(deps, locks),
		Customer:  NewCustomerService(deps),
		User:      NewUserService(deps),
		Email:     email,
	}
}
