package handler

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"

	"loan-service/configs"
	"loan-service/internal/models"
	"loan-service/internal/service"
	"loan-service/pkg/utils"
)

// UserHandler handles user-related HTTP requests
type UserHandler struct {
	userService service.UserService
	logger      *logrus.Logger
	config      *configs.Config
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService service.UserService, logger *logrus.Logger, config *configs.Config) *UserHandler {
	return &UserHandler{
		userService: userService,
		logger:      logger,
		config:      config,
	}
}

// Register handles user registration
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var userReg models.UserRegistration
	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(&userReg); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	defer r.Body.Close()

	userID, err := h.userService.Register(r.Context(), &userReg)
	if err != nil {
		h.logger.Warnf("Failed to register user: %v", err)
		utils.RespondWithAppError(w, err)
		return
	}

	utils.RespondWithSuccess(w, http.StatusCreated, "user registered successfully", map[string]interface{}{
		"user_id": userID,
	})
}

// Login handles user login
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var loginReq models.UserLogin
	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(&loginReq); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	defer r.Body.Close()

	tokenResponse, err := h.userService.Login(r.Context(), &loginReq)
	if err != nil {
		h.logger.Warnf("Failed to login user: %v", err)
		utils.RespondWithError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	utils.RespondWithSuccess(w, http.StatusOK, "login successful", tokenResponse)
}
