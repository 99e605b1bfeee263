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

// ScheduleHandler handles schedule-related HTTP requests
type ScheduleHandler struct {
	scheduleService service.ScheduleService
	logger          *logrus.Logger
	config          *configs.Config
}

// NewScheduleHandler creates a new ScheduleHandler
func NewScheduleHandler(scheduleService service.ScheduleService, logger *logrus.Logger, config *configs.Config) *ScheduleHandler {
	return &ScheduleHandler{
		scheduleService: scheduleService,
		logger:          logger,
		config:          config,
	}
}

// Get handles retrieving the repayment schedule for a loan
func (h *ScheduleHandler) Get(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	loanID, err := strconv.Atoi(vars["id"])
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid loan ID")
		return
	}

	schedule, err := h.scheduleService.GetSchedule(r.Context(), loanID)
	if err != nil {
		h.logger.Warnf("Failed to get schedule: %v", err)
		utils.RespondWithAppError(w, err)
		return
	}

	utils.RespondWithSuccess(w, http.StatusOK, "schedule retrieved successfully", schedule)
}

// RateChange handles a base rate revision and schedule recalculation
func (h *ScheduleHandler) RateChange(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	loanID, err := strconv.Atoi(vars["id"])
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid loan ID")
		return
	}

	var rateChangeRequest models.RateChangeRequest
	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(&rateChangeRequest); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	defer r.Body.Close()

	if err := rateChangeRequest.Validate(); err != nil {
		utils.RespondWithAppError(w, err)
		return
	}

	schedule, err := h.scheduleService.UpdateAfterRateChange(
		r.Context(), loanID, rateChangeRequest.NewRate, rateChangeRequest.EffectiveFrom)
	if err != nil {
		h.logger.Warnf("Failed to apply rate change: %v", err)
		utils.RespondWithAppError(w, err)
		return
	}

	utils.RespondWithSuccess(w, http.StatusOK, "rate change applied successfully", schedule)
}
