package repository

import (
	"context"
	"database/sql"
	"time"

	"loan-service/internal/models"
	"loan-service/internal/repository/postgres"
)

// LoanRepository defines methods for loan account storage
type LoanRepository interface {
	Create(ctx context.Context, loan *models.Loan) (int, error)
	GetByID(ctx context.Context, id int) (*models.Loan, error)
	GetActiveByID(ctx context.Context, id int) (*models.Loan, error)
	Update(ctx context.Context, loan *models.Loan) error
}

// InstallmentRepository defines methods for installment storage
type InstallmentRepository interface {
	CreateBatch(ctx context.Context, installments []*models.Installment) error
	GetByLoanID(ctx context.Context, loanID int) ([]*models.Installment, error)
	GetByLoanIDFrom(ctx context.Context, loanID, fromNumber int) ([]*models.Installment, error)
	Update(ctx context.Context, installment *models.Installment) error
	MarkOverdue(ctx context.Context, asOf time.Time) (int64, error)
	ExistsUnsettled(ctx context.Context, loanID int) (bool, error)
}

// ChargeRepository defines methods for charge storage
type ChargeRepository interface {
	Create(ctx context.Context, charge *models.Charge) (int, error)
	GetByID(ctx context.Context, id int) (*models.Charge, error)
	GetByLoanID(ctx context.Context, loanID int) ([]*models.Charge, error)
	GetUnpaidByLoanID(ctx context.Context, loanID int) ([]*models.Charge, error)
	Update(ctx context.Context, charge *models.Charge) error
	Delete(ctx context.Context, id int) error
}

// RepaymentRepository defines methods for repayment storage
type RepaymentRepository interface {
	Create(ctx context.Context, repayment *models.Repayment) (int, error)
	ExistsByTransactionID(ctx context.Context, transactionID string) (bool, error)
	GetByLoanID(ctx context.Context, loanID int) ([]*models.Repayment, error)
}

// CustomerRepository defines methods for customer storage
type CustomerRepository interface {
	Create(ctx context.Context, customer *models.Customer) (int, error)
	GetByID(ctx context.Context, id int) (*models.Customer, error)
	GetByEmail(ctx context.Context, email string) (*models.Customer, error)
	GetAll(ctx context.Context, limit, offset int) ([]*models.Customer, error)
	Update(ctx context.Context, customer *models.Customer) error
	Delete(ctx context.Context, id int) error
}

// UserRepository defines methods for user storage
type UserRepository interface {
	Create(ctx context.Context, user *models.User) (int, error)
	GetByID(ctx context.Context, id int) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

// Repository is a composition of all repositories
type Repository struct {
	DB          *sql.DB
	Loan        LoanRepository
	Installment InstallmentRepository
	Charge      ChargeRepository
	Repayment   RepaymentRepository
	Customer    CustomerRepository
	User        UserRepository
}

// NewRepository creates a new repository with all sub-repositories
func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		DB:          db,
		Loan:        postgres.NewLoanRepository(db),
		Installment: postgres.NewInstallmentRepository(db),
		Charge:      postgres.NewChargeRepository(db),
		Repayment:   postgres.NewRepaymentRepository(db),
		Customer:    postgres.NewCustomerRepository(db),
		User:        postgres.NewUserRepository(db),
	}
}
