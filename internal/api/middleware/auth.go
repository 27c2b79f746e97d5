package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/hitasa/salesshare/internal/api/response"
	"github.com/hitasa/salesshare/internal/auth"
	"github.com/hitasa/salesshare/internal/policy"
)

const identityKey contextKey = "identity"

// Authenticator resolves a raw bearer token to an Identity.
type Authenticator interface {
	Authenticate(ctx context.Context, rawToken string) (*auth.Identity, error)
}

// Auth is middleware that extracts the Authorization bearer token and
// resolves it to an Identity. Missing or invalid tokens return 401.
func Auth(authenticator Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := GetRequestID(r.Context())

			header := r.Header.Get("Authorization")
			rawToken, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || rawToken == "" {
				response.Err(w, http.StatusUnauthorized, "UNAUTHORIZED", "Bearer token is required", requestID)
				return
			}

			identity, err := authenticator.Authenticate(r.Context(), rawToken)
			if err != nil {
				if errors.Is(err, auth.ErrInvalidToken) {
					response.Err(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid or expired token", requestID)
					return
				}
				response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Authentication failed", requestID)
				return
			}

			ctx := context.WithValue(r.Context(), identityKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetIdentity retrieves the authenticated Identity from the request context.
func GetIdentity(ctx context.Context) *auth.Identity {
	if id, ok := ctx.Value(identityKey).(*auth.Identity); ok {
		return id
	}
	return nil
}

// Actor converts the context identity into a policy actor, or nil when
// unauthenticated.
func Actor(ctx context.Context) *policy.Actor {
	identity := GetIdentity(ctx)
	if identity == nil {
		return nil
	}
	return &policy.Actor{UserID: identity.UserID, Email: identity.Email}
}
