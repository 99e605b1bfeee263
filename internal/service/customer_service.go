package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"loan-service/internal/apperr"
	"loan-service/internal/models"
	"loan-service/internal/repository"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// CustomerSvc is an implementation of the service.CustomerService interface
type CustomerSvc struct {
	repos  *repository.Repository
	logger *logrus.Logger
}

// NewCustomerService creates a new CustomerSvc
func NewCustomerService(deps Dependencies) *CustomerSvc {
	return &CustomerSvc{
		repos:  deps.Repos,
		logger: deps.Logger,
	}
}

// generateCustomerID produces an identifier in the form CUST-YYYYMMDD-xxxxxxxx.
// The random suffix keeps identifiers collision-free across restarts without
// any process-local counter state.
func generateCustomerID() string {
	return fmt.Sprintf("CUST-%s-%s",
		time.Now().Format("20060102"),
		uuid.New().String()[:8])
}

// Create creates a new customer
func (s *CustomerSvc) Create(ctx context.Context, req *models.CustomerRequest) (*models.Customer, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.repos.Customer.GetByEmail(ctx, req.Email); err == nil {
		return nil, apperr.Conflict("customer already exists with email: %s", req.Email)
	}

	customer := &models.Customer{
		CustomerID: generateCustomerID(),
		Name:       req.Name,
		Email:      req.Email,
	}

	id, err := s.repos.Customer.Create(ctx, customer)
	if err != nil {
		return nil, err
	}
	customer.ID = id

	s.logger.Infof("Customer created: %d (%s)", customer.ID, customer.CustomerID)

	return customer, nil
}

// GetByID gets a customer by ID
func (s *CustomerSvc) GetByID(ctx context.Context, id int) (*models.Customer, error) {
	return s.repos.Customer.GetByID(ctx, id)
}

// List returns a page of customers ordered by ID
func (s *CustomerSvc) List(ctx context.Context, limit, offset int) ([]*models.Customer, error) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if offset < 0 {
		offset = 0
	}

	return s.repos.Customer.GetAll(ctx, limit, offset)
}

// Update updates a customer's name and email
func (s *CustomerSvc) Update(ctx context.Context, id int, req *models.CustomerRequest) (*models.Customer, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	customer, err := s.repos.Customer.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Email != customer.Email {
		if existing, err := s.repos.Customer.GetByEmail(ctx, req.Email); err == nil && existing.ID != customer.ID {
			return nil, apperr.Conflict("customer already exists with email: %s", req.Email)
		}
	}

	customer.Name = req.Name
	customer.Email = req.Email

	if err := s.repos.Customer.Update(ctx, customer); err != nil {
		return nil, err
	}

	s.logger.Infof("Customer updated: %d", customer.ID)

	return customer, nil
}

// Delete deletes a customer
func (s *CustomerSvc) Delete(ctx context.Context, id int) error {
	if err := s.repos.Customer.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Infof("Customer deleted: %d", id)

	return nil
}
