package api

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"

	"github.com/llmwatch/console/internal/config"
)

// Login exchanges the configured console token for a signed session token.
func Login(cfg config.AuthConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if cfg.JWTSecret == "" {
			http.Error(w, "Auth is not configured", http.StatusNotFound)
			return
		}

		var req struct {
			Token string `json:"token"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		if subtle.ConstantTimeCompare([]byte(req.Token), []byte(cfg.ConsoleToken)) != 1 {
			http.Error(w, "Invalid console token", http.StatusUnauthorized)
			return
		}

		now := time.Now()
		claims := jwt.RegisteredClaims{
			Subject:   "console",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(cfg.SessionTTL)),
		}
		signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.JWTSecret))
		if err != nil {
			log.Error().Err(err).Msg("Failed to sign session token")
			http.Error(w, "Failed to create session", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{"session_token": signed})
	}
}

// RequireSession validates the bearer session token on every request.
// With no JWT secret configured the console runs open (local-only use).
func RequireSession(cfg config.AuthConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if cfg.JWTSecret == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			raw, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || raw == "" {
				http.Error(w, "Missing session token", http.StatusUnauthorized)
				return
			}

			_, err := jwt.ParseWithClaims(raw, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return []byte(cfg.JWTSecret), nil
			})
			if err != nil {
				http.Error(w, "Invalid session token", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
