package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"loan-service/configs"
	"loan-service/internal/models"
	"loan-service/internal/service"
	"loan-service/pkg/utils"
)

// CustomerHandler handles customer-related HTTP requests
type CustomerHandler struct {
	customerService service.CustomerService
	logger          *logrus.Logger
	config          *configs.Config
}

// NewCustomerHandler creates a new CustomerHandler
func NewCustomerHandler(customerService service.CustomerService, logger *logrus.Logger, config *configs.Config) *CustomerHandler {
	return &CustomerHandler{
		customerService: customerService,
		logger:          logger,
		config:          config,
	}
}

// Create handles customer creation
func (h *CustomerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var customerRequest models.CustomerRequest
	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(&customerRequest); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	defer r.Body.Close()

	customer, err := h.customerService.Create(r.Context(), &customerRequest)
	if err != nil {
		h.logger.Warnf("Failed to create customer: %v", err)
		utils.RespondWithAppError(w, err)
		return
	}

	utils.RespondWithSuccess(w, http.StatusCreated, "customer created successfully", customer)
}

// GetByID handles retrieving a specific customer by ID
func (h *CustomerHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	customerID, err := strconv.Atoi(vars["id"])
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid customer ID")
		return
	}

	customer, err := h.customerService.GetByID(r.Context(), customerID)
	if err != nil {
		h.logger.Warnf("Failed to get customer: %v", err)
		utils.RespondWithAppError(w, err)
		return
	}

	utils.RespondWithSuccess(w, http.StatusOK, "customer retrieved successfully", customer)
}

// List handles retrieving a page of customers
func (h *CustomerHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	customers, err := h.customerService.List(r.Context(), limit, offset)
	if err != nil {
		h.logger.Warnf("Failed to list customers: %v", err)
		utils.RespondWithAppError(w, err)
		return
	}

	utils.RespondWithSuccess(w, http.StatusOK, "customers retrieved successfully", customers)
}

// Update handles updating customer information
func (h *CustomerHandler) Update(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	customerID, err := strconv.Atoi(vars["id"])
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid customer ID")
		return
	}

	var customerRequest models.CustomerRequest
	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(&customerRequest); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	defer r.Body.Close()

	customer, err := h.customerService.Update(r.Context(), customerID, &customerRequest)
	if err != nil {
		h.logger.Warnf("Failed to update customer: %v", err)
		utils.RespondWithAppError(w, err)
		return
	}

	utils.RespondWithSuccess(w, http.StatusOK, "customer updated successfully", customer)
}

// Delete handles removing a customer
func (h *CustomerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	customerID, err := strconv.Atoi(vars["id"])
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid customer ID")
		return
	}

	if err := h.customerService.Delete(r.Context(), customerID); err != nil {
		h.logger.Warnf("Failed to delete customer: %v", err)
		utils.RespondWithAppError(w, err)
		return
	}

	utils.RespondWithSuccess(w, http.StatusOK, "customer deleted successfully", nil)
}
