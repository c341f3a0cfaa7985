// AngelaMos | 2026
// middleware.go

package authz

import (
	"net/http"

	"github.com/kostapp/kost-api/internal/core"
)

// RequireOwner gates a route group to owner profiles. The scope itself is
// discarded; downstream handlers resolve their own.
func RequireOwner(resolver *Resolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, caller, err := RequestScope(r, resolver)
			if err != nil {
				WriteScopeError(w, err)
				return
			}
			if !caller.IsOwner() {
				core.Forbidden(w, "owner access required")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
