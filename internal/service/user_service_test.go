package service

import (
	"context"
	"testing"

	"loan-service/internal/apperr"
	"loan-service/internal/models"
)

func TestUserRegisterAndLogin(t *testing.T) {
	svc := NewService(newTestDeps())

	userID, err := svc.User.Register(context.Background(), &models.UserRegistration{
		Username: "operator",
		Email:    "operator@example.com",
		Password: "password123",
	})
	if err != nil {
		t.Fatalf("registration failed: %v", err)
	}
	if userID == 0 {
		t.Fatal("expected a persisted user ID")
	}

	token, err := svc.User.Login(context.Background(), &models.UserLogin{
		Username: "operator",
		Password: "password123",
	})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if token.Token == "" {
		t.Error("expected a signed token")
	}
	if token.ExpiresAt == 0 {
		t.Error("expected an expiry timestamp")
	}
}

func TestUserLogin_WrongPassword(t *testing.T) {
	svc := NewService(newTestDeps())

	_, err := svc.User.Register(context.Background(), &models.UserRegistration{
		Username: "operator",
		Email:    "operator@example.com",
		Password: "password123",
	})
	if err != nil {
		t.Fatalf("registration failed: %v", err)
	}

	_, err = svc.User.Login(context.Background(), &models.UserLogin{
		Username: "operator",
		Password: "wrong-password",
	})
	if !apperr.IsKind(err, apperr.KindValidation) {
		t.Fatalf("expected rejection with wrong password, got %v", err)
	}
}

func TestUserRegister_Duplicate(t *testing.T) {
	svc := NewService(newTestDeps())

	reg := &models.UserRegistration{
		Username: "operator",
		Email:    "operator@example.com",
		Password: "password123",
	}
	if _, err := svc.User.Register(context.Background(), reg); err != nil {
		t.Fatalf("first registration failed: %v", err)
	}

	_, err := svc.User.Register(context.Background(), &models.UserRegistration{
		Username: "operator",
		Email:    "other@example.com",
		Password: "password123",
	})
	if !apperr.IsKind(err, apperr.KindConflict) {
		t.Fatalf("expected conflict on duplicate username, got %v", err)
	}

	_, err = svc.User.Register(context.Background(), &models.UserRegistration{
		Username: "operator2",
		Email:    "operator@example.com",
		Password: "password123",
	})
	if !apperr.IsKind(err, apperr.KindConflict) {
		t.Fatalf("expected conflict on duplicate email, got %v", err)
	}
}

func TestUserRegister_Invalid(t *testing.T) {
	svc := NewService(newTestDeps())

	tests := []struct {
		name string
		reg  *models.UserRegistration
	}{
		{"short username", &models.UserRegistration{Username: "ab", Email: "a@b.com", Password: "password123"}},
		{"bad email", &models.UserRegistration{Username: "operator", Email: "nope", Password: "password123"}},
		{"short password", &models.UserRegistration{Username: "operator", Email: "a@b.com", Password: "short"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.User.Register(context.Background(), tt.reg)
			if !apperr.IsKind(err, apperr.KindValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}
