package model

import "github.com/shopspring/decimal"

// Fund type values. KIC marks knowledge-intensive companies, which carry a
// higher subscription ceiling than plain EIS.
const (
	FundTypeEIS = "EIS"
	FundTypeKIC = "KIC"
)

// ValidFundType contains the allowed fund type values.
var ValidFundType = map[string]bool{
	FundTypeEIS: true,
	FundTypeKIC: true,
}

// Share class values issued by portfolio companies.
const (
	ShareClassOrdinary   = "Ordinary"
	ShareClassAOrdinary  = "A Ordinary"
	ShareClassBOrdinary  = "B Ordinary"
	ShareClassPreference = "Preference"
)

// ValidShareClass contains the allowed share class values.
var ValidShareClass = map[string]bool{
	ShareClassOrdinary:   true,
	ShareClassAOrdinary:  true,
	ShareClassBOrdinary:  true,
	ShareClassPreference: true,
}

// CompanyRecord is one row of the company collection. The legal name is
// unique across the dataset and matched exactly, case-sensitively, during
// resolution. SharePrice is always positive once loaded.
type CompanyRecord struct {
	LegalName  string          `json:"legalName"`
	FundType   string          `json:"fundType"`
	ShareClass string          `json:"shareClass"`
	SharePrice decimal.Decimal `json:"sharePrice"`
}
