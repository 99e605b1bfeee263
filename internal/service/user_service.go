package service

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"

	"loan-service/internal/apperr"
	"loan-service/internal/models"
	"loan-service/internal/repository"
	"loan-service/pkg/crypto"
)

// UserSvc is an implementation of the service.UserService interface
type UserSvc struct {
	repos     *repository.Repository
	logger    *logrus.Logger
	hasher    *crypto.PasswordHasher
	jwtSecret string
	jwtTTL    time.Duration
}

// NewUserService creates a new UserSvc
func NewUserService(deps Dependencies) *UserSvc {
	return &UserSvc{
		repos:     deps.Repos,
		logger:    deps.Logger,
		hasher:    crypto.NewPasswordHasher(),
		jwtSecret: deps.Config.JWT.Secret,
		jwtTTL:    time.Duration(deps.Config.JWT.TTL) * time.Hour,
	}
}

// Register registers a new API user
func (s *UserSvc) Register(ctx context.Context, reg *models.UserRegistration) (int, error) {
	if err := reg.ValidateRegistration(); err != nil {
		return 0, err
	}

	if _, err := s.repos.User.GetByUsername(ctx, reg.Username); err == nil {
		return 0, apperr.Conflict("username already exists")
	}

	if _, err := s.repos.User.GetByEmail(ctx, reg.Email); err == nil {
		return 0, apperr.Conflict("email already exists")
	}

	user := reg.ToUser()

	hashedPassword, err := s.hasher.HashPassword(user.Password)
	if err != nil {
		return 0, err
	}
	user.PassHash = hashedPassword

	id, err := s.repos.User.Create(ctx, user)
	if err != nil {
		return 0, err
	}

	s.logger.Infof("User registered: %d", id)

	return id, nil
}

// Login logs in a user and returns a JWT token
func (s *UserSvc) Login(ctx context.Context, login *models.UserLogin) (*models.TokenResponse, error) {
	user, err := s.repos.User.GetByUsername(ctx, login.Username)
	if err != nil {
		return nil, apperr.Validation("invalid credentials")
	}

	if !s.hasher.CheckPasswordHash(login.Password, user.PassHash) {
		return nil, apperr.Validation("invalid credentials")
	}

	expirationTime := time.Now().Add(s.jwtTTL)

	claims := jwt.MapClaims{
		"user_id": user.ID,
		"exp":     expirationTime.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return nil, err
	}

	s.logger.Infof("User logged in: %d", user.ID)

	return &models.TokenResponse{
		Token:     tokenString,
		ExpiresAt: expirationTime.Unix(),
	}, nil
}
