package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/preston-bernstein/courtside/internal/http/requestutil"
	"github.com/preston-bernstein/courtside/internal/logging"
)

// HeaderAPIKey is the request header holding the shared API secret.
const HeaderAPIKey = "X-API-Key"

// APIKey rejects requests whose X-API-Key differs from key with 401.
// An empty key disables the check.
func APIKey(key string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if key == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !requestutil.SecretMatches(r.Header.Get(HeaderAPIKey), key) {
				logging.Warn(logging.FromContext(r.Context(), logger), "api key rejected",
					slog.String(logging.FieldPath, r.URL.Path),
					slog.String("client_ip", requestutil.ClientIP(r)),
				)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_ = json.NewEncoder(w).Encode(map[string]string{"error": "Unauthorized"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
