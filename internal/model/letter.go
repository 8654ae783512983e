package model

import "time"

// Letter delivery modes as persisted. Previews are never persisted.
const (
	LetterModeDraft = "draft"
	LetterModeSent  = "sent"
)

// FeeLetterPreview is the full outcome of one preview pipeline run: the
// resolved records, the effective parameters, the calculation, and the
// rendered document. Discarded once returned; only send operations persist.
type FeeLetterPreview struct {
	Investor        InvestorRecord
	Company         CompanyRecord
	Terms           FeeTerms
	Params          EffectiveParameters
	Result          CalculationResult
	SubscriptionRef string
	Subject         string
	Body            string
}

// FeeLetter is one persisted generated letter.
type FeeLetter struct {
	ID              string    `json:"id"`
	SubscriptionRef string    `json:"subscriptionRef"`
	ClientRef       string    `json:"clientRef"`
	InvestorName    string    `json:"investorName"`
	InvestorEmail   string    `json:"investorEmail"`
	CompanyName     string    `json:"companyName"`
	FundType        string    `json:"fundType"`
	Convention      string    `json:"convention"`
	Mode            string    `json:"mode"`
	MessageID       string    `json:"messageId,omitempty"`
	Subject         string    `json:"subject"`
	Body            string    `json:"body"`
	CreatedAt       time.Time `json:"createdAt"`
}

// FeeLetterAudit records the figures of an issued letter exactly as
// presented, as two-decimal strings. Stored alongside the letter row in the
// same transaction so the audit trail can never drift from the letters.
type FeeLetterAudit struct {
	ID                 string    `json:"id"`
	LetterID           string    `json:"letterId"`
	StatedAmount       string    `json:"statedAmount"`
	Investment         string    `json:"investment"`
	UpfrontRatePct     string    `json:"upfrontRatePct"`
	AMCYears13RatePct  string    `json:"amcYears13RatePct"`
	AMCYears45RatePct  string    `json:"amcYears45RatePct"`
	CarryRatePct       string    `json:"carryRatePct"`
	UpfrontTotal       string    `json:"upfrontTotal"`
	AMCYears13Total    string    `json:"amcYears13Total"`
	AMCYears45Total    string    `json:"amcYears45Total"`
	TotalFees          string    `json:"totalFees"`
	TotalTransfer      string    `json:"totalTransfer"`
	SharePrice         string    `json:"sharePrice"`
	ShareQuantity      string    `json:"shareQuantity"`
	CreatedAt          time.Time `json:"createdAt"`
}

// FeeLetterDetail is a letter joined with its audit figures.
type FeeLetterDetail struct {
	Letter FeeLetter      `json:"letter"`
	Audit  FeeLetterAudit `json:"audit"`
}

// FeeLetterDelivery reports the outcome of a send operation.
type FeeLetterDelivery struct {
	LetterID  string `json:"letterId"`
	Mode      string `json:"mode"`
	MessageID string `json:"messageId,omitempty"`
	To        string `json:"to"`
}
