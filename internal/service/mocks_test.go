package service

import (
	"context"
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"loan-service/configs"
	"loan-service/internal/apperr"
	"loan-service/internal/models"
	"loan-service/internal/repository"
)

// In-memory repository doubles. Slices keep the insertion order the SQL
// implementations guarantee with ORDER BY.

type mockLoanRepo struct {
	loans  []*models.Loan
	nextID int
}

func (m *mockLoanRepo) Create(ctx context.Context, loan *models.Loan) (int, error) {
	m.nextID++
	loan.ID = m.nextID
	m.loans = append(m.loans, loan)
	return loan.ID, nil
}

func (m *mockLoanRepo) GetByID(ctx context.Context, id int) (*models.Loan, error) {
	for _, l := range m.loans {
		if l.ID == id {
			return l, nil
		}
	}
	return nil, apperr.NotFound("loan not found with ID: %d", id)
}

func (m *mockLoanRepo) GetActiveByID(ctx context.Context, id int) (*models.Loan, error) {
	for _, l := range m.loans {
		if l.ID == id && l.Status == models.LoanStatusActive {
			return l, nil
		}
	}
	return nil, apperr.NotFound("loan not found with ID: %d", id)
}

func (m *mockLoanRepo) Update(ctx context.Context, loan *models.Loan) error {
	for i, l := range m.loans {
		if l.ID == loan.ID {
			m.loans[i] = loan
			return nil
		}
	}
	return apperr.NotFound("loan not found with ID: %d", loan.ID)
}

type mockInstallmentRepo struct {
	installments []*models.Installment
	nextID       int
}

func (m *mockInstallmentRepo) CreateBatch(ctx context.Context, installments []*models.Installment) error {
	for _, inst := range installments {
		m.nextID++
		inst.ID = m.nextID
		m.installments = append(m.installments, inst)
	}
	return nil
}

func (m *mockInstallmentRepo) GetByLoanID(ctx context.Context, loanID int) ([]*models.Installment, error) {
	var result []*models.Installment
	for _, inst := range m.installments {
		if inst.LoanID == loanID {
			result = append(result, inst)
		}
	}
	return result, nil
}

func (m *mockInstallmentRepo) GetByLoanIDFrom(ctx context.Context, loanID, fromNumber int) ([]*models.Installment, error) {
	var result []*models.Installment
	for _, inst := range m.installments {
		if inst.LoanID == loanID && inst.Number >= fromNumber {
			result = append(result, inst)
		}
	}
	return result, nil
}

func (m *mockInstallmentRepo) Update(ctx context.Context, installment *models.Installment) error {
	for i, inst := range m.installments {
		if inst.ID == installment.ID {
			m.installments[i] = installment
			return nil
		}
	}
	return apperr.NotFound("installment not found with ID: %d", installment.ID)
}

func (m *mockInstallmentRepo) MarkOverdue(ctx context.Context, asOf time.Time) (int64, error) {
	var marked int64
	for _, inst := range m.installments {
		if inst.MarkLateIfOverdue(asOf) {
			marked++
		}
	}
	return marked, nil
}

func (m *mockInstallmentRepo) ExistsUnsettled(ctx context.Context, loanID int) (bool, error) {
	for _, inst := range m.installments {
		if inst.LoanID == loanID &&
			(inst.Status == models.InstallmentStatusDue || inst.Status == models.InstallmentStatusLate) {
			return true, nil
		}
	}
	return false, nil
}

type mockChargeRepo struct {
	charges []*models.Charge
	nextID  int
}

func (m *mockChargeRepo) Create(ctx context.Context, charge *models.Charge) (int, error) {
	m.nextID++
	charge.ID = m.nextID
	m.charges = append(m.charges, charge)
	return charge.ID, nil
}

func (m *mockChargeRepo) GetByID(ctx context.Context, id int) (*models.Charge, error) {
	for _, c := range m.charges {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, apperr.NotFound("charge not found with ID: %d", id)
}

func (m *mockChargeRepo) GetByLoanID(ctx context.Context, loanID int) ([]*models.Charge, error) {
	var result []*models.Charge
	for _, c := range m.charges {
		if c.LoanID == loanID {
			result = append(result, c)
		}
	}
	return result, nil
}

func (m *mockChargeRepo) GetUnpaidByLoanID(ctx context.Context, loanID int) ([]*models.Charge, error) {
	var result []*models.Charge
	for _, c := range m.charges {
		if c.LoanID == loanID && !c.Paid {
			result = append(result, c)
		}
	}
	return result, nil
}

func (m *mockChargeRepo) Update(ctx context.Context, charge *models.Charge) error {
	for i, c := range m.charges {
		if c.ID == charge.ID {
			m.charges[i] = charge
			return nil
		}
	}
	return apperr.NotFound("charge not found with ID: %d", charge.ID)
}

func (m *mockChargeRepo) Delete(ctx context.Context, id int) error {
	for i, c := range m.charges {
		if c.ID == id {
			m.charges = append(m.charges[:i], m.charges[i+1:]...)
			return nil
		}
	}
	return apperr.NotFound("charge not found with ID: %d", id)
}

type mockRepaymentRepo struct {
	repayments []*models.Repayment
	nextID     int
}

func (m *mockRepaymentRepo) Create(ctx context.Context, repayment *models.Repayment) (int, error) {
	for _, r := range m.repayments {
		if r.TransactionID == repayment.TransactionID {
			return 0, apperr.Conflict("duplicate transaction ID: %s", repayment.TransactionID)
		}
	}
	m.nextID++
	repayment.ID = m.nextID
	m.repayments = append(m.repayments, repayment)
	return repayment.ID, nil
}

func (m *mockRepaymentRepo) ExistsByTransactionID(ctx context.Context, transactionID string) (bool, error) {
	for _, r := range m.repayments {
		if r.TransactionID == transactionID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockRepaymentRepo) GetByLoanID(ctx context.Context, loanID int) ([]*models.Repayment, error) {
	var result []*models.Repayment
	for _, r := range m.repayments {
		if r.LoanID == loanID {
			result = append(result, r)
		}
	}
	return result, nil
}

type mockCustomerRepo struct {
	customers []*models.Customer
	nextID    int
}

func (m *mockCustomerRepo) Create(ctx context.Context, customer *models.Customer) (int, error) {
	m.nextID++
	customer.ID = m.nextID
	m.customers = append(m.customers, customer)
	return customer.ID, nil
}

func (m *mockCustomerRepo) GetByID(ctx context.Context, id int) (*models.Customer, error) {
	for _, c := range m.customers {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, apperr.NotFound("customer not found with ID: %d", id)
}

func (m *mockCustomerRepo) GetByEmail(ctx context.Context, email string) (*models.Customer, error) {
	for _, c := range m.customers {
		if c.Email == email {
			return c, nil
		}
	}
	return nil, apperr.NotFound("customer not found with email: %s", email)
}

func (m *mockCustomerRepo) GetAll(ctx context.Context, limit, offset int) ([]*models.Customer, error) {
	var result []*models.Customer
	for i, c := range m.customers {
		if i < offset {
			continue
		}
		if len(result) == limit {
			break
		}
		result = append(result, c)
	}
	return result, nil
}

func (m *mockCustomerRepo) Update(ctx context.Context, customer *models.Customer) error {
	for i, c := range m.customers {
		if c.ID == customer.ID {
			m.customers[i] = customer
			return nil
		}
	}
	return apperr.NotFound("customer not found with ID: %d", customer.ID)
}

func (m *mockCustomerRepo) Delete(ctx context.Context, id int) error {
	for i, c := range m.customers {
		if c.ID == id {
			m.customers = append(m.customers[:i], m.customers[i+1:]...)
			return nil
		}
	}
	return apperr.NotFound("customer not found with ID: %d", id)
}

type mockUserRepo struct {
	users  []*models.User
	nextID int
}

func (m *mockUserRepo) Create(ctx context.Context, user *models.User) (int, error) {
	m.nextID++
	user.ID = m.nextID
	m.users = append(m.users, user)
	return user.ID, nil
}

func (m *mockUserRepo) GetByID(ctx context.Context, id int) (*models.User, error) {
	for _, u := range m.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, apperr.NotFound("user not found with ID: %d", id)
}

func (m *mockUserRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, apperr.NotFound("user not found with username: %s", username)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, apperr.NotFound("user not found with email: %s", email)
}

func newTestRepos() *repository.Repository {
	return &repository.Repository{
		Loan:        &mockLoanRepo{},
		Installment: &mockInstallmentRepo{},
		Charge:      &mockChargeRepo{},
		Repayment:   &mockRepaymentRepo{},
		Customer:    &mockCustomerRepo{},
		User:        &mockUserRepo{},
	}
}

func newTestDeps() Dependencies {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	return Dependencies{
		Repos:  newTestRepos(),
		Logger: logger,
		Config: &configs.Config{
			JWT: configs.JWTConfig{
				Secret: "test-secret",
				TTL:    1,
			},
			Benchmark: configs.BenchmarkConfig{
				DefaultRate: "7.0",
				Margin:      "5.0",
			},
		},
	}
}
