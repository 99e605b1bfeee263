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

// ChargeHandler handles charge-related HTTP requests
type ChargeHandler struct {
	chargeService service.ChargeService
	logger        *logrus.Logger
	config        *configs.Config
}

// NewChargeHandler creates a new ChargeHandler
func NewChargeHandler(chargeService service.ChargeService, logger *logrus.Logger, config *configs.Config) *ChargeHandler {
	return &ChargeHandler{
		chargeService: chargeService,
		logger:        logger,
		config:        config,
	}
}

// Add handles applying a new charge to a loan
func (h *ChargeHandler) Add(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	loanID, err := strconv.Atoi(vars["id"])
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid loan ID")
		return
	}

	var chargeRequest models.ChargeRequest
	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(&chargeRequest); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	defer r.Body.Close()

	charge, err := h.chargeService.Add(r.Context(), loanID, &chargeRequest)
	if err != nil {
		h.logger.Warnf("Failed to add charge: %v", err)
		utils.RespondWithAppError(w, err)
		return
	}

	utils.RespondWithSuccess(w, http.StatusCreated, "charge added successfully", charge)
}

// List handles retrieving all charges of a loan
func (h *ChargeHandler) List(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	loanID, err := strconv.Atoi(vars["id"])
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid loan ID")
		return
	}

	charges, err := h.chargeService.List(r.Context(), loanID)
	if err != nil {
		h.logger.Warnf("Failed to list charges: %v", err)
		utils.RespondWithAppError(w, err)
		return
	}

	utils.RespondWithSuccess(w, http.StatusOK, "charges retrieved successfully", charges)
}

// Remove handles removing an unpaid charge from a loan
func (h *ChargeHandler) Remove(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	loanID, err := strconv.Atoi(vars["id"])
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid loan ID")
		return
	}

	chargeID, err := strconv.Atoi(vars["chargeId"])
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid charge ID")
		return
	}

	if err := h.chargeService.Remove(r.Context(), loanID, chargeID); err != nil {
		h.logger.Warnf("Failed to remove charge: %v", err)
		utils.RespondWithAppError(w, err)
		return
	}

	utils.RespondWithSuccess(w, http.StatusOK, "charge removed successfully", nil)
}
