// Package request defines the JSON request bodies accepted by the API.
package request

import (
	"github.com/shopspring/decimal"

	"github.com/meridiancap/Fee-Letter-Backend/internal/model"
)

// LetterRequest is the body for previewing or sending a fee letter.
// Amount accepts a JSON number or a numeric string. Overrides replace
// individual fee-sheet values for this request only; To redirects a send
// away from the investor's email on file and is ignored by previews.
type LetterRequest struct {
	Investor  string             `json:"investor"`
	Company   string             `json:"company"`
	Amount    decimal.Decimal    `json:"amount"`
	Overrides *model.OverrideSet `json:"overrides,omitempty"`
	To        string             `json:"to,omitempty"`
}

// ParseRequest is the body for free-text extraction.
type ParseRequest struct {
	Text string `json:"text"`
}
