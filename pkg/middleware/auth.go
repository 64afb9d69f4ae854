package middleware

import (
	"context"
	"net/http"
	"strings"

	"reserva/pkg/logger"
	"reserva/pkg/model"
)

const IdentityKey contextKey = "identity"

// IdentityVerifier resolves a bearer token to a verified identity. The user
// service client implements it; tests substitute a stub.
type IdentityVerifier interface {
	VerifyToken(ctx context.Context, token string) (*model.Identity, error)
}

// Authentication verifies the Authorization header against the user service
// and stores the resulting identity in the request context. Every booking
// operation is scoped by that identity; handlers never accept a
// caller-supplied owner id.
func Authentication(verifier IdentityVerifier, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractBearerToken(r)
			if token == "" {
				rejectUnauthorized(w, "Authentication required")
				return
			}

			identity, err := verifier.VerifyToken(r.Context(), token)
			if err != nil {
				log.Warn("Token verification failed",
					"request_id", requestIDFromContext(r.Context()),
					"path", r.URL.Path,
					"error", err,
				)
				rejectUnauthorized(w, "Invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), IdentityKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IdentityFromContext returns the verified caller, if any.
func IdentityFromContext(ctx context.Context) (*model.Identity, bool) {
	identity, ok := ctx.Value(IdentityKey).(*model.Identity)
	return identity, ok && identity != nil
}

func extractBearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, prefix))
}

func rejectUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"` + message + `"}`))
}
