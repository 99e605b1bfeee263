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

// RepaymentHandler handles repayment-related HTTP requests
type RepaymentHandler struct {
	repaymentService service.RepaymentService
	logger           *logrus.Logger
	config           *configs.Config
}

// NewRepaymentHandler creates a new RepaymentHandler
func NewRepaymentHandler(repaymentService service.RepaymentService, logger *logrus.Logger, config *configs.Config) *RepaymentHandler {
	return &RepaymentHandler{
		repaymentService: repaymentService,
		logger:           logger,
		config:           config,
	}
}

// Apply handles an incoming payment against a loan
func (h *RepaymentHandler) Apply(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	loanID, err := strconv.Atoi(vars["id"])
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid loan ID")
		return
	}

	var repaymentRequest models.RepaymentRequest
	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(&repaymentRequest); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	defer r.Body.Close()

	result, err := h.repaymentService.Apply(r.Context(), loanID, &repaymentRequest)
	if err != nil {
		h.logger.Warnf("Failed to apply repayment: %v", err)
		utils.RespondWithAppError(w, err)
		return
	}

	utils.RespondWithSuccess(w, http.StatusOK, "repayment processed successfully", result)
}

// History handles retrieving the repayment history of a loan
func (h *RepaymentHandler) History(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	loanID, err := strconv.Atoi(vars["id"])
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid loan ID")
		return
	}

	repayments, err := h.repaymentService.History(r.Context(), loanID)
	if err != nil {
		h.logger.Warnf("Failed to get repayment history: %v", err)
		utils.RespondWithAppError(w, err)
		return
	}

	utils.RespondWithSuccess(w, http.StatusOK, "repayment history retrieved successfully", repayments)
}
