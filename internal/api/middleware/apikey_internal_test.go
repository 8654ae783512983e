package middleware

import (
	"encoding/hex"
	"testing"
	"time"
)

// TestTimeTokenWindows tests the rolling window helpers.
// This is an internal test (package middleware, not middleware_test) because
// timeTokenAt and validTimeToken are unexported.
func TestTimeTokenWindows(t *testing.T) {
	const apiKey = "internal-test-key"

	t.Run("accepts the previous window's token", func(t *testing.T) {
		previous := timeTokenAt(apiKey, time.Now().Add(-timeTokenWindow))

		if !validTimeToken(apiKey, previous) {
			t.Error("Expected previous-window token to validate")
		}
	})

	t.Run("rejects a token two windows old", func(t *testing.T) {
		stale := timeTokenAt(apiKey, time.Now().Add(-2*timeTokenWindow))

		if validTimeToken(apiKey, stale) {
			t.Error("Expected stale token to be rejected")
		}
	})

	t.Run("rejects a token minted with a different key", func(t *testing.T) {
		other := timeTokenAt("some-other-key", time.Now())

		if validTimeToken(apiKey, other) {
			t.Error("Expected token minted with a different key to be rejected")
		}
	})

	t.Run("token is hex-encoded HMAC-SHA256", func(t *testing.T) {
		token := GenerateTimeToken(apiKey)

		if len(token) != 64 {
			t.Errorf("Expected 64 hex characters, got %d", len(token))
		}
		if _, err := hex.DecodeString(token); err != nil {
			t.Errorf("Expected hex token, got error: %v", err)
		}
	})
}
