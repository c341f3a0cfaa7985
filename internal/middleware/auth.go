// AngelaMos | 2026
// auth.go

package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/kostapp/kost-api/internal/core"
)

const (
	SubjectUIDKey contextKey = "subject_uid"
)

// TokenVerifier is the external identity provider contract: given a bearer
// credential, yield a stable subject identifier.
type TokenVerifier interface {
	VerifySubject(ctx context.Context, token string) (string, error)
}

func Authenticator(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ExtractToken(r)

			if token == "" {
				core.JSONError(
					w,
					core.UnauthorizedError("missing authorization token"),
				)
				return
			}

			uid, err := verifier.VerifySubject(r.Context(), token)
			if err != nil {
				handleAuthError(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), SubjectUIDKey, uid)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func ExtractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}

	return strings.TrimSpace(parts[1])
}

func handleAuthError(w http.ResponseWriter, err error) {
	if core.IsAppError(err) {
		core.JSONError(w, err)
		return
	}

	switch {
	case errors.Is(err, core.ErrTokenExpired):
		core.JSONError(w, core.TokenExpiredError())
	default:
		core.JSONError(w, core.TokenInvalidError())
	}
}

// GetSubjectUID returns the authenticated caller's external subject
// identifier, or "" when the request is unauthenticated.
func GetSubjectUID(ctx context.Context) string {
	if uid, ok := ctx.Value(SubjectUIDKey).(string); ok {
		return uid
	}
	return ""
}

func IsAuthenticated(ctx context.Context) bool {
	return GetSubjectUID(ctx) != ""
}
