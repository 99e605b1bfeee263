package models

import (
	"time"

	"github.com/shopspring/decimal"

	"loan-service/internal/apperr"
)

var (
	monthsPerYear = decimal.NewFromInt(12)
	percent       = decimal.NewFromInt(100)
)

// GenerateSchedule expands a principal, tenure and rate policy into the full
// installment schedule.
//
// The amortization is flat: the principal component is principal/tenure for
// every installment, and interest is charged on the original principal each
// month rather than on a declining balance. This mirrors the upstream product
// definition and must not be changed to an annuity or declining-balance
// formula without a coordinated rate migration.
//
// The final installment absorbs the rounding remainder of the principal split
// so the components always sum to the principal exactly.
func GenerateSchedule(principal decimal.Decimal, tenureMonths int, rate *InterestRate, startDate time.Time) ([]*Installment, error) {
	if principal.LessThanOrEqual(decimal.Zero) {
		return nil, apperr.Validation("principal amount must be greater than 0")
	}
	if tenureMonths <= 0 {
		return nil, apperr.Validation("tenure must be greater than 0")
	}
	if rate.Type == InterestTypeStep && len(rate.SteppedRates) == 0 {
		return nil, apperr.Validation("stepped rates are required for STEP interest type")
	}

	months := decimal.NewFromInt(int64(tenureMonths))
	principalComponent := principal.Div(months).Round(2)
	finalComponent := principal.Sub(principalComponent.Mul(months.Sub(decimal.NewFromInt(1))))

	installments := make([]*Installment, 0, tenureMonths)
	for i := 1; i <= tenureMonths; i++ {
		annualRate, err := rate.RateForInstallment(i)
		if err != nil {
			return nil, err
		}

		component := principalComponent
		if i == tenureMonths {
			component = finalComponent
		}

		interestComponent := MonthlyInterest(principal, annualRate)

		installments = append(installments, &Installment{
			Number:             i,
			DueDate:            startDate.AddDate(0, i, 0),
			PrincipalComponent: component,
			InterestComponent:  interestComponent,
			TotalAmount:        component.Add(interestComponent),
			Status:             InstallmentStatusDue,
		})
	}

	return installments, nil
}

// MonthlyInterest returns one month of interest on the original principal at
// the given annual percentage rate, rounded to currency precision.
func MonthlyInterest(principal, annualRate decimal.Decimal) decimal.Decimal {
	return principal.Mul(annualRate).Div(monthsPerYear).Div(percent).Round(2)
}
