package authz

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/parleyhq/parley/pkg/api"
	"github.com/parleyhq/parley/pkg/auth"
	"github.com/parleyhq/parley/pkg/storage"
)

// SpaceIDParam is the route parameter naming the space identifier.
const SpaceIDParam = "spaceID"

// Require returns the authorizer stage for routes that need the given
// capabilities on the space named in the request path. The requirement
// is bound statically at route-registration time.
//
// Anonymous requests are rejected with 401; a verified subject whose
// grant does not satisfy the requirement gets 403. An absent grant row
// behaves as the all-false grant.
func Require(perms storage.PermissionStore, required Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			spaceID, err := strconv.ParseInt(chi.URLParam(r, SpaceIDParam), 10, 64)
			if err != nil {
				api.WriteError(w, api.NewBadRequest("invalid space id"))
				return
			}

			identity := auth.IdentityFromContext(r.Context())
			if identity.Anonymous() {
				api.WriteError(w, api.NewAuthenticationRequired())
				return
			}

			grantStr, err := perms.FindPermissions(r.Context(), spaceID, identity.Subject)
			if err != nil && !errors.Is(err, storage.ErrNotFound) {
				slog.Error("permission lookup failed",
					"space_id", spaceID,
					"subject", identity.Subject,
					"error", err,
				)
				api.WriteError(w, api.NewDatabaseError(err))
				return
			}

			if !required.IsAllowed(Parse(grantStr)) {
				api.WriteError(w, api.NewForbidden())
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
