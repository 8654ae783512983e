package model

import "strings"

// Investor classification values. The set is closed: overrides and loaded
// records must use one of these.
const (
	ClassificationRetail               = "retail"
	ClassificationProfessional         = "professional"
	ClassificationEligibleCounterparty = "eligible_counterparty"
)

// ValidClassification contains the allowed investor classification values.
var ValidClassification = map[string]bool{
	ClassificationRetail:               true,
	ClassificationProfessional:         true,
	ClassificationEligibleCounterparty: true,
}

// InvestorRecord is one row of the investor collection. Records are immutable
// once loaded; the client reference is unique across the dataset.
type InvestorRecord struct {
	ClientRef      string `json:"clientRef"`
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	Email          string `json:"email"`
	Salutation     string `json:"salutation"`
	Classification string `json:"classification"`
}

// FullName returns the display name used for resolution and letters.
func (i InvestorRecord) FullName() string {
	return strings.TrimSpace(i.FirstName + " " + i.LastName)
}
