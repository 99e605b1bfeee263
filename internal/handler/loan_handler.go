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

// LoanHandler handles loan-related HTTP requests
type LoanHandler struct {
	loanService service.LoanService
	logger      *logrus.Logger
	config      *configs.Config
}

// NewLoanHandler creates a new LoanHandler
func NewLoanHandler(loanService service.LoanService, logger *logrus.Logger, config *configs.Config) *LoanHandler {
	return &LoanHandler{
		loanService: loanService,
		logger:      logger,
		config:      config,
	}
}

// Create handles loan origination
func (h *LoanHandler) Create(w http.ResponseWriter, r *http.Request) {
	var loanRequest models.CreateLoanRequest
	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(&loanRequest); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	defer r.Body.Close()

	loan, err := h.loanService.Create(r.Context(), &loanRequest)
	if err != nil {
		h.logger.Warnf("Failed to create loan: %v", err)
		utils.RespondWithAppError(w, err)
		return
	}

	utils.RespondWithSuccess(w, http.StatusCreated, "loan created successfully", loan)
}

// GetByID handles retrieving a specific loan by ID
func (h *LoanHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	loanID, err := strconv.Atoi(vars["id"])
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid loan ID")
		return
	}

	loan, err := h.loanService.GetByID(r.Context(), loanID)
	if err != nil {
		h.logger.Warnf("Failed to get loan: %v", err)
		utils.RespondWithAppError(w, err)
		return
	}

	utils.RespondWithSuccess(w, http.StatusOK, "loan retrieved successfully", loan)
}

// Foreclose handles early closure of a loan
func (h *LoanHandler) Foreclose(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	loanID, err := strconv.Atoi(vars["id"])
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid loan ID")
		return
	}

	var foreclosureRequest models.ForeclosureRequest
	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(&foreclosureRequest); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	defer r.Body.Close()

	if err := foreclosureRequest.Validate(); err != nil {
		utils.RespondWithAppError(w, err)
		return
	}

	loan, err := h.loanService.Foreclose(r.Context(), loanID, foreclosureRequest.ForeclosureDate)
	if err != nil {
		h.logger.Warnf("Failed to foreclose loan: %v", err)
		utils.RespondWithAppError(w, err)
		return
	}

	utils.RespondWithSuccess(w, http.StatusOK, "loan foreclosed successfully", loan)
}
