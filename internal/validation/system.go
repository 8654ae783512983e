package validation

import (
	"strings"

	"github.com/meridiancap/Fee-Letter-Backend/internal/api/request"
)

// ValidateMailTokenRequest validates a mail token storage request body.
// The token itself is opaque to this service; only presence is checked.
func ValidateMailTokenRequest(req request.MailTokenRequest) error {
	errors := make(map[string]string)

	if strings.TrimSpace(req.Token) == "" {
		errors["token"] = "token is required"
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}

	return nil
}
