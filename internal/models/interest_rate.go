package models

import (
	"sort"

	"github.com/shopspring/decimal"

	"loan-service/internal/apperr"
)

// InterestType defines the rate policy of a loan
type InterestType string

const (
	InterestTypeFixed    InterestType = "FIXED"
	InterestTypeFloating InterestType = "FLOATING"
	InterestTypeStep     InterestType = "STEP"
)

// ValidInterestType checks whether the given value is a known interest type
func ValidInterestType(t InterestType) bool {
	switch t {
	case InterestTypeFixed, InterestTypeFloating, InterestTypeStep:
		return true
	}
	return false
}

// InterestRate represents a loan's rate policy. BaseRate is the annual rate in
// percent for FIXED and FLOATING loans. SteppedRates maps installment number to
// annual rate for STEP loans; it is normalized to a dense 1..tenure map at
// origination and stored that way.
type InterestRate struct {
	Type         InterestType            `json:"type"`
	BaseRate     decimal.Decimal         `json:"base_rate"`
	SteppedRates map[int]decimal.Decimal `json:"stepped_rates,omitempty"`
}

// RateChangeRequest represents a base rate revision for a FLOATING loan
type RateChangeRequest struct {
	NewRate       decimal.Decimal `json:"new_rate"`
	EffectiveFrom int             `json:"effective_from"` // installment number
}

// Validate validates a rate change request
func (r *RateChangeRequest) Validate() error {
	if r.NewRate.IsNegative() {
		return apperr.Validation("new rate cannot be negative")
	}

	if r.EffectiveFrom < 1 {
		return apperr.Validation("effective from installment must be at least 1")
	}

	return nil
}

// RateForInstallment returns the annual rate effective for installment n.
// For STEP loans this is the rate of the greatest step key <= n, or zero when n
// precedes every step.
func (ir *InterestRate) RateForInstallment(n int) (decimal.Decimal, error) {
	if ir.Type != InterestTypeStep {
		return ir.BaseRate, nil
	}

	if len(ir.SteppedRates) == 0 {
		return decimal.Zero, apperr.Validation("stepped rates are required for STEP interest type")
	}

	if rate, ok := ir.SteppedRates[n]; ok {
		return rate, nil
	}

	// Sparse map: fall back to the most recent applicable step
	best := 0
	rate := decimal.Zero
	for k, v := range ir.SteppedRates {
		if k <= n && k > best {
			best = k
			rate = v
		}
	}

	return rate, nil
}

// NormalizeSteppedRates expands a sparse step map into a dense mapping for every
// installment 1..tenure by carrying the most recent applicable rate forward.
// Installments before the first step get a zero rate.
func NormalizeSteppedRates(steps map[int]decimal.Decimal, tenureMonths int) map[int]decimal.Decimal {
	keys := make([]int, 0, len(steps))
	for k := range steps {
		keys = append(keys, k)
	}
	sort.Ints(keys)

	expanded := make(map[int]decimal.Decimal, tenureMonths)
	for i := 1; i <= tenureMonths; i++ {
		rate := decimal.Zero
		for j := len(keys) - 1; j >= 0; j-- {
			if i >= keys[j] {
				rate = steps[keys[j]]
				break
			}
		}
		expanded[i] = rate
	}

	return expanded
}
