package service

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"loan-service/internal/models"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestRuleBasedAssess_LowCreditScore(t *testing.T) {
	assessor := NewRuleBasedRiskAssessor()

	assessment := assessor.Assess(context.Background(), &models.CreateLoanRequest{
		Principal:     decimal.NewFromInt(12000),
		TenureMonths:  12,
		CreditScore:   599,
		MonthlyIncome: decimal.NewFromInt(100000),
	})

	if assessment.Approved {
		t.Fatal("expected rejection below the minimum credit score")
	}
	if !strings.Contains(assessment.Reason, "credit score") {
		t.Errorf("unexpected reason: %s", assessment.Reason)
	}
	if assessment.RiskScore != 0 {
		t.Errorf("expected risk score 0, got %f", assessment.RiskScore)
	}
}

func TestRuleBasedAssess_HighDebtToIncome(t *testing.T) {
	assessor := NewRuleBasedRiskAssessor()

	// 120000/12 = 10000 monthly against 20000 income: ratio 0.5
	assessment := assessor.Assess(context.Background(), &models.CreateLoanRequest{
		Principal:     decimal.NewFromInt(120000),
		TenureMonths:  12,
		CreditScore:   700,
		MonthlyIncome: decimal.NewFromInt(20000),
	})

	if assessment.Approved {
		t.Fatal("expected rejection above the debt-to-income limit")
	}
	if !strings.Contains(assessment.Reason, "debt-to-income") {
		t.Errorf("unexpected reason: %s", assessment.Reason)
	}
}

func TestRuleBasedAssess_Approved(t *testing.T) {
	assessor := NewRuleBasedRiskAssessor()

	// 12000/12 = 1000 monthly against 10000 income: ratio 0.1
	assessment := assessor.Assess(context.Background(), &models.CreateLoanRequest{
		Principal:     decimal.NewFromInt(12000),
		TenureMonths:  12,
		CreditScore:   700,
		MonthlyIncome: decimal.NewFromInt(10000),
	})

	if !assessment.Approved {
		t.Fatalf("expected approval, got rejection: %s", assessment.Reason)
	}
	if assessment.RiskScore <= 0.85 || assessment.RiskScore > 1.0 {
		t.Errorf("expected risk score near 0.9, got %f", assessment.RiskScore)
	}
}

func TestFallbackAssess_RemoteSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"approved": true, "risk_score": 0.82, "reason": "model approved"}`))
	}))
	defer server.Close()

	assessor := NewFallbackRiskAssessor(
		NewRemoteRiskScorer(server.URL, time.Second), testLogger())

	assessment := assessor.Assess(context.Background(), &models.CreateLoanRequest{
		Principal:    decimal.NewFromInt(12000),
		TenureMonths: 12,
	})

	if !assessment.Approved {
		t.Fatal("expected the remote approval to pass through")
	}
	if assessment.RiskScore != 0.82 {
		t.Errorf("expected risk score 0.82, got %f", assessment.RiskScore)
	}
}

func TestFallbackAssess_RemoteFailureRejects(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	server.Close() // unreachable endpoint

	assessor := NewFallbackRiskAssessor(
		NewRemoteRiskScorer(server.URL, time.Second), testLogger())

	assessment := assessor.Assess(context.Background(), &models.CreateLoanRequest{
		Principal:    decimal.NewFromInt(12000),
		TenureMonths: 12,
	})

	if assessment.Approved {
		t.Fatal("an unreachable scorer must reject, never approve")
	}
	if assessment.Reason != "service unavailable" {
		t.Errorf("unexpected reason: %s", assessment.Reason)
	}
}

func TestFallbackAssess_RemoteErrorStatusRejects(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	assessor := NewFallbackRiskAssessor(
		NewRemoteRiskScorer(server.URL, time.Second), testLogger())

	assessment := assessor.Assess(context.Background(), &models.CreateLoanRequest{})
	if assessment.Approved {
		t.Fatal("a failing scorer must reject, never approve")
	}
}
