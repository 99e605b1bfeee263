package models

// RiskAssessment is the outcome of a credit risk evaluation. It is produced per
// origination request and embedded in the rejection error when the loan is
// declined; it is not persisted on its own.
type RiskAssessment struct {
	Approved  bool    `json:"approved"`
	RiskScore float64 `json:"risk_score"`
	Reason    string  `json:"reason"`
}
