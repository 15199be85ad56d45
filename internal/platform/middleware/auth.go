package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
)

// TokenValidator validates registrar capability tokens.
type TokenValidator interface {
	ValidateToken(tokenString string) (*RegistrarClaims, error)
}

// RegistrarClaims represents the claims we expect from the token validator.
type RegistrarClaims struct {
	Subject string
}

type contextKeyRegistrar struct{}

// ContextKeyRegistrar is exported for use in handlers.
var ContextKeyRegistrar = contextKeyRegistrar{}

// GetRegistrar retrieves the authenticated registrar subject from the context.
func GetRegistrar(ctx context.Context) string {
	subject, ok := ctx.Value(ContextKeyRegistrar).(string)
	if !ok {
		return ""
	}
	return subject
}

// RequireRegistrar gates an endpoint on a valid registrar capability token.
// The verification and issuance request endpoints are restricted to the
// registrar role; who holds that role is an external access-control concern.
func RequireRegistrar(validator TokenValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			authHeader := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(authHeader, "Bearer ")
			if !ok {
				logger.WarnContext(ctx, "unauthorized access - missing token",
					"request_id", GetRequestID(ctx),
					"path", r.URL.Path,
				)
				writeUnauthorized(w)
				return
			}

			claims, err := validator.ValidateToken(token)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - invalid token",
					"error", err,
					"request_id", GetRequestID(ctx),
					"path", r.URL.Path,
				)
				writeUnauthorized(w)
				return
			}

			ctx = context.WithValue(ctx, ContextKeyRegistrar, claims.Subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func writeUnauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"unauthorized"}`))
}
