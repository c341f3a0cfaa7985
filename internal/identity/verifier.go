// AngelaMos | 2026
// verifier.go

package identity

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/lestrrat-go/jwx/v3/jwt"

	"github.com/kostapp/kost-api/internal/config"
	"github.com/kostapp/kost-api/internal/core"
)

// Verifier checks Firebase ID tokens against the provider's published JWKS.
// It is constructed once at startup and injected into the auth middleware;
// nothing in this codebase lazily self-initializes an identity client.
type Verifier struct {
	jwksURL  string
	issuer   string
	audience string
	cacheTTL time.Duration

	mu        sync.RWMutex
	keySet    jwk.Set
	fetchedAt time.Time
}

func NewVerifier(ctx context.Context, cfg config.FirebaseConfig) (*Verifier, error) {
	v := &Verifier{
		jwksURL:  cfg.JWKSURL,
		issuer:   "https://securetoken.google.com/" + cfg.ProjectID,
		audience: cfg.ProjectID,
		cacheTTL: cfg.CacheTTL,
	}

	if v.cacheTTL <= 0 {
		v.cacheTTL = time.Hour
	}

	if _, err := v.keys(ctx); err != nil {
		return nil, fmt.Errorf("prime jwks cache: %w", err)
	}

	return v, nil
}

// VerifySubject validates the token signature, issuer, audience and expiry,
// and returns the stable subject identifier (the provider UID).
func (v *Verifier) VerifySubject(ctx context.Context, tokenString string) (string, error) {
	set, err := v.keys(ctx)
	if err != nil {
		return "", fmt.Errorf("verify token: %w", err)
	}

	token, err := jwt.Parse(
		[]byte(tokenString),
		jwt.WithKeySet(set),
		jwt.WithValidate(true),
		jwt.WithIssuer(v.issuer),
		jwt.WithAudience(v.audience),
	)
	if err != nil {
		if isTokenExpiredError(err) {
			return "", fmt.Errorf("verify token: %w", core.ErrTokenExpired)
		}
		return "", fmt.Errorf("verify token: %w", core.ErrTokenInvalid)
	}

	subject, ok := token.Subject()
	if !ok || subject == "" {
		return "", fmt.Errorf(
			"verify token: missing subject: %w",
			core.ErrTokenInvalid,
		)
	}

	return subject, nil
}

func (v *Verifier) keys(ctx context.Context) (jwk.Set, error) {
	v.mu.RLock()
	if v.keySet != nil && time.Since(v.fetchedAt) < v.cacheTTL {
		set := v.keySet
		v.mu.RUnlock()
		return set, nil
	}
	v.mu.RUnlock()

	v.mu.Lock()
	defer v.mu.Unlock()

	if v.keySet != nil && time.Since(v.fetchedAt) < v.cacheTTL {
		return v.keySet, nil
	}

	fetchCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	set, err := jwk.Fetch(fetchCtx, v.jwksURL)
	if err != nil {
		// Serve the stale set rather than failing every request while the
		// provider endpoint is unreachable.
		if v.keySet != nil {
			return v.keySet, nil
		}
		return nil, fmt.Errorf("fetch jwks: %w", err)
	}

	v.keySet = set
	v.fetchedAt = time.Now()

	return set, nil
}

func isTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "exp") &&
		strings.Contains(errStr, "not satisfied")
}
