package validation

import (
	"fmt"
	"net/mail"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/meridiancap/Fee-Letter-Backend/internal/api/request"
	"github.com/meridiancap/Fee-Letter-Backend/internal/model"
)

// ValidateLetterRequest validates a preview or send request body.
// Checks structural problems only; override rate bounds and classification
// values are enforced by the merge step, which knows the canonical forms.
//
// Required fields:
//   - investor: client reference or name fragment, non-blank
//   - company: exact company name, non-blank
//   - amount: must be greater than zero
//
// Returns a validation Error with field-specific error messages if validation fails.
func ValidateLetterRequest(req request.LetterRequest) error {
	errors := make(map[string]string)

	if strings.TrimSpace(req.Investor) == "" {
		errors["investor"] = "investor is required"
	}

	if strings.TrimSpace(req.Company) == "" {
		errors["company"] = "company is required"
	}

	if req.Amount.LessThanOrEqual(decimal.Zero) {
		errors["amount"] = "amount must be greater than zero"
	}

	if req.Overrides != nil && req.Overrides.Convention != nil && !model.ValidConvention[*req.Overrides.Convention] {
		errors["overrides.convention"] = fmt.Sprintf("invalid convention: %s", *req.Overrides.Convention)
	}

	if req.To != "" {
		if _, err := mail.ParseAddress(req.To); err != nil {
			errors["to"] = "to must be a valid email address"
		}
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}

	return nil
}

// ValidateParseRequest validates a free-text extraction request body.
func ValidateParseRequest(req request.ParseRequest) error {
	errors := make(map[string]string)

	if strings.TrimSpace(req.Text) == "" {
		errors["text"] = "text is required"
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}

	return nil
}
