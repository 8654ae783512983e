package middleware

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/meridiancap/Fee-Letter-Backend/internal/api/response"
)

// timeTokenWindow is the granularity of the rolling time token. Validation
// accepts the current window and the one before it, so a token stays usable
// for at least one full window after it was generated.
const timeTokenWindow = time.Minute

// APIKeyMiddleware guards internal endpoints with a shared API key plus a
// rolling time token. Callers send the key in X-API-Key and a token from
// GenerateTimeToken in X-Time-Token. The key is read from INTERNAL_API_KEY
// on every request so a restart is not needed to rotate it.
func APIKeyMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		expectedKey := os.Getenv("INTERNAL_API_KEY")
		if expectedKey == "" {
			response.RespondError(w, http.StatusInternalServerError, "authentication misconfigured", "Authentication not loaded")
			return
		}

		apiKey := r.Header.Get("X-API-Key")
		if apiKey == "" {
			response.RespondError(w, http.StatusUnauthorized, "unauthorized", "Missing API key")
			return
		}

		if subtle.ConstantTimeCompare([]byte(apiKey), []byte(expectedKey)) != 1 {
			response.RespondError(w, http.StatusUnauthorized, "unauthorized", "Invalid API key")
			return
		}

		timeToken := r.Header.Get("X-Time-Token")
		if timeToken == "" {
			response.RespondError(w, http.StatusUnauthorized, "unauthorized", "Missing Time token")
			return
		}

		if !validTimeToken(apiKey, timeToken) {
			response.RespondError(w, http.StatusUnauthorized, "unauthorized", "Time token is invalid or expired")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// GenerateTimeToken derives the time token for the current window from the
// API key. Clients regenerate it per request; the server never stores it.
func GenerateTimeToken(apiKey string) string {
	return timeTokenAt(apiKey, time.Now())
}

func timeTokenAt(apiKey string, at time.Time) string {
	window := at.UTC().Truncate(timeTokenWindow).Unix()
	mac := hmac.New(sha256.New, []byte(apiKey))
	mac.Write([]byte(strconv.FormatInt(window, 10)))
	return hex.EncodeToString(mac.Sum(nil))
}

func validTimeToken(apiKey, token string) bool {
	now := time.Now()
	for _, at := range []time.Time{now, now.Add(-timeTokenWindow)} {
		if hmac.Equal([]byte(token), []byte(timeTokenAt(apiKey, at))) {
			return true
		}
	}
	return false
}
