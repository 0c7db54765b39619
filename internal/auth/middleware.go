package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/smarttrip/tripplanner/internal/domain"
)

type ctxKey struct{}

// TokenParser is the part of TokenIssuer the middleware needs.
type TokenParser interface {
	Parse(token string) (uuid.UUID, error)
}

// DenyFunc writes the response for a rejected request. err wraps
// domain.ErrUnauthorized.
type DenyFunc func(w http.ResponseWriter, r *http.Request, err error)

// RequireUser rejects requests without a valid "Authorization: Bearer"
// token and stores the authenticated user ID on the context of the rest.
func RequireUser(p TokenParser, deny DenyFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				deny(w, r, missingToken)
				return
			}
			userID, err := p.Parse(token)
			if err != nil {
				deny(w, r, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
		})
	}
}

var missingToken = errors.Join(domain.ErrUnauthorized, errors.New("missing bearer token"))

func bearerToken(r *http.Request) (string, bool) {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// WithUserID returns a copy of ctx carrying userID.
func WithUserID(ctx context.Context, userID uuid.UUID) context.Context {
	return context.WithValue(ctx, ctxKey{}, userID)
}

// UserIDFromContext returns the user ID stored by RequireUser.
func UserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(ctxKey{}).(uuid.UUID)
	return id, ok
}
