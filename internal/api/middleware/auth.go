// Package middleware provides HTTP middleware for request validation and processing.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/api/response"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/validation"
)

type contextKey string

const callerKey contextKey = "caller"

// TokenVerifier resolves a bearer token to the caller's principal.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// WithCaller returns a copy of ctx carrying the caller's principal.
func WithCaller(ctx context.Context, principal string) context.Context {
	return context.WithValue(ctx, callerKey, principal)
}

// CallerFrom returns the principal attached by Authenticate.
func CallerFrom(ctx context.Context) (string, bool) {
	principal, ok := ctx.Value(callerKey).(string)
	return principal, ok && principal != ""
}

// Authenticate returns a middleware that requires an `Authorization: Bearer <token>`
// header and attaches the token's principal to the request context.
// Returns 401 Unauthorized when the header is missing or the token does not verify.
func Authenticate(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, found := strings.CutPrefix(header, "Bearer ")
			if !found || strings.TrimSpace(token) == "" {
				response.RespondError(w, http.StatusUnauthorized, "authentication required", "missing bearer token")
				return
			}

			principal, err := verifier.Verify(strings.TrimSpace(token))
			if err != nil {
				response.RespondError(w, http.StatusUnauthorized, "authentication failed", err.Error())
				return
			}

			next.ServeHTTP(w, r.WithContext(WithCaller(r.Context(), principal)))
		})
	}
}

// ValidatePortfolioIDMiddleware validates that the id URL parameter is a positive integer.
// Returns 400 Bad Request if the portfolio ID is missing or invalid.
//
// Example usage in router:
//
//	r.Route("/{id}", func(r chi.Router) {
//	    r.Use(middleware.ValidatePortfolioIDMiddleware)
//	    r.Get("/", handler.Portfolio)
//	})
func ValidatePortfolioIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := validation.ParsePortfolioID(chi.URLParam(r, "id")); err != nil {
			response.RespondError(w, http.StatusBadRequest, "invalid portfolio ID", err.Error())
			return
		}

		next.ServeHTTP(w, r)
	})
}
