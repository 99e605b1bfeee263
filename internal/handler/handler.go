package handler

import (
	"github.com/sirupsen/logrus"

	"loan-service/configs"
	"loan-service/internal/service"
)

// Dependencies contains handler dependencies
type Dependencies struct {
	Services *service.Service
	Logger   *logrus.Logger
	Config   *configs.Config
}

// Handler contains all HTTP handlers for the application
type Handler struct {
	User      *UserHandler
	Customer  *CustomerHandler
	Loan      *LoanHandler
	Schedule  *ScheduleHandler
	Repayment *RepaymentHandler
	Charge    *ChargeHandler
}

// NewHandler creates a new Handler with all subhandlers
func NewHandler(deps Dependencies) *Handler {
	return &Handler{
		User:      NewUserHandler(deps.Services.User, deps.Logger, deps.Config),
		Customer:  NewCustomerHandler(deps.Services.Customer, deps.Logger, deps.Config),
		Loan:      NewLoanHandler(deps.Services.Loan, deps.Logger, deps.Config),
		Schedule:  NewScheduleHandler(deps.Services.Schedule, deps.Logger, deps.Config),
		Repayment: NewRepaymentHandler(deps.Services.Repayment, deps.Logger, deps.Config),
		Charge:    NewChargeHandler(deps.Services.Charge, deps.Logger, deps.Config),
	}
}
