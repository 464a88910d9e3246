package middleware

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"os"

	api "framestat/internal/api/application"
)

// APIKeyAuth middleware validates the X-API-Key header against FRAMESTAT_API_KEY
func APIKeyAuth(next http.Handler) http.Handler {
	return APIKeyAuthWithKey(os.Getenv("FRAMESTAT_API_KEY"))(next)
}

// APIKeyAuthWithKey middleware validates the X-API-Key header against expectedKey
func APIKeyAuthWithKey(expectedKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if expectedKey == "" {
			// If no API key is set, reject all requests
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				respondJSONError(w, http.StatusInternalServerError, "API key not configured")
			})
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			apiKey := r.Header.Get("X-API-Key")
			if apiKey == "" || subtle.ConstantTimeCompare([]byte(apiKey), []byte(expectedKey)) != 1 {
				respondJSONError(w, http.StatusUnauthorized, "Invalid or missing API key")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// respondJSONError sends a JSON error response
func respondJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	response := api.ErrorResponse{Error: message}
	json.NewEncoder(w).Encode(response)
}
