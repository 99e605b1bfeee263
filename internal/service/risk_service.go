package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"loan-service/internal/models"
)

const (
	minCreditScore       = 600
	maxDebtToIncomeRatio = 0.4
)

// NewRiskAssessor selects the risk strategy from configuration: the remote
// scorer wrapped in a timeout-and-fallback decorator when a service URL is
// configured, the rule-based evaluator otherwise.
func NewRiskAssessor(deps Dependencies) RiskAssessor {
	if deps.Config.Risk.URL != "" {
		return NewFallbackRiskAssessor(
			NewRemoteRiskScorer(deps.Config.Risk.URL, time.Duration(deps.Config.Risk.TimeoutSeconds)*time.Second),
			deps.Logger,
		)
	}
	return NewRuleBasedRiskAssessor()
}

// RuleBasedRiskAssessor screens origination requests on credit score and
// debt-to-income ratio
type RuleBasedRiskAssessor struct{}

// NewRuleBasedRiskAssessor creates a new RuleBasedRiskAssessor
func NewRuleBasedRiskAssessor() *RuleBasedRiskAssessor {
	return &RuleBasedRiskAssessor{}
}

// Assess evaluates the request. The monthly obligation is a simple-interest
// approximation, deliberately independent of the schedule's own math: a cheap
// screening heuristic, not the authoritative installment amount.
func (a *RuleBasedRiskAssessor) Assess(ctx context.Context, req *models.CreateLoanRequest) *models.RiskAssessment {
	if req.CreditScore < minCreditScore {
		return &models.RiskAssessment{
			Approved:  false,
			RiskScore: 0,
			Reason:    fmt.Sprintf("credit score is below minimum requirement of %d", minCreditScore),
		}
	}

	monthlyInstallment := req.Principal.Div(decimal.NewFromInt(int64(req.TenureMonths)))
	if req.InterestRate != nil {
		annualInterest := req.Principal.Mul(req.InterestRate.Div(decimal.NewFromInt(100)))
		monthlyInstallment = monthlyInstallment.Add(annualInterest.Div(decimal.NewFromInt(12)))
	}

	debtToIncome := monthlyInstallment.Div(req.MonthlyIncome).InexactFloat64()

	if debtToIncome > maxDebtToIncomeRatio {
		return &models.RiskAssessment{
			Approved:  false,
			RiskScore: debtToIncome,
			Reason: fmt.Sprintf("debt-to-income ratio %.2f exceeds maximum of %.1f",
				debtToIncome, maxDebtToIncomeRatio),
		}
	}

	return &models.RiskAssessment{
		Approved:  true,
		RiskScore: 1.0 - debtToIncome,
		Reason:    "approved based on credit score and income analysis",
	}
}

// RemoteRiskScorer calls an external scoring service over HTTP
type RemoteRiskScorer struct {
	url    string
	client *http.Client
}

// NewRemoteRiskScorer creates a new RemoteRiskScorer with a bounded timeout
func NewRemoteRiskScorer(url string, timeout time.Duration) *RemoteRiskScorer {
	return &RemoteRiskScorer{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

// Score posts the origination request to the scoring service
func (s *RemoteRiskScorer) Score(ctx context.Context, req *models.CreateLoanRequest) (*models.RiskAssessment, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode risk request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create risk request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("risk service call failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("risk service returned status %d", resp.StatusCode)
	}

	var assessment models.RiskAssessment
	if err := json.NewDecoder(resp.Body).Decode(&assessment); err != nil {
		return nil, fmt.Errorf("failed to decode risk response: %w", err)
	}

	return &assessment, nil
}

// FallbackRiskAssessor wraps a remote scorer and degrades to a conservative
// rejection when the call fails. Credit decisions fail closed: an unreachable
// scorer must never approve a loan or surface a transport error to the caller.
type FallbackRiskAssessor struct {
	scorer *RemoteRiskScorer
	logger *logrus.Logger
}

// NewFallbackRiskAssessor creates a new FallbackRiskAssessor
func NewFallbackRiskAssessor(scorer *RemoteRiskScorer, logger *logrus.Logger) *FallbackRiskAssessor {
	return &FallbackRiskAssessor{scorer: scorer, logger: logger}
}

// Assess delegates to the remote scorer, rejecting conservatively on failure
func (a *FallbackRiskAssessor) Assess(ctx context.Context, req *models.CreateLoanRequest) *models.RiskAssessment {
	assessment, err := a.scorer.Score(ctx, req)
	if err != nil {
		a.logger.Errorf("Risk service unavailable, falling back to rejection: %v", err)
		return &models.RiskAssessment{
			Approved:  false,
			RiskScore: 0,
			Reason:    "service unavailable",
		}
	}

	return assessment
}
