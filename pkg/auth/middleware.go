package auth

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/parleyhq/parley/pkg/api"
	"github.com/parleyhq/parley/pkg/storage"
)

// Authenticate returns the authenticator stage. It resolves an optional
// Basic credential to a verified subject and stores the resulting
// Identity in the request context.
//
// Missing credentials and failed verification both yield an anonymous
// identity rather than a rejection; only a syntactically invalid
// username is terminal (BadRequest, before any persistence lookup).
// Enforcement of "must be authenticated" belongs to RequireAuthentication.
func Authenticate(creds storage.CredentialStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			username, password, ok := r.BasicAuth()
			if !ok {
				next.ServeHTTP(w, r.WithContext(SetIdentity(r.Context(), &Identity{})))
				return
			}

			if apiErr := api.ValidateUsername(username); apiErr != nil {
				api.WriteError(w, apiErr)
				return
			}

			identity := &Identity{}
			hash, err := creds.FindPasswordHash(r.Context(), username)
			switch {
			case errors.Is(err, storage.ErrNotFound):
				// Unknown user: anonymous.
			case err != nil:
				slog.Error("credential lookup failed", "username", username, "error", err)
				api.WriteError(w, api.NewDatabaseError(err))
				return
			default:
				valid, verr := VerifyPassword(hash, password)
				if verr != nil {
					// Malformed stored hash: anonymous, but worth surfacing.
					slog.Warn("stored password hash unusable", "username", username, "error", verr)
				} else if valid {
					identity.Subject = username
				}
			}

			next.ServeHTTP(w, r.WithContext(SetIdentity(r.Context(), identity)))
		})
	}
}

// RequireAuthentication returns the route-attachable enforcement stage.
// Anonymous requests are rejected with 401 and a WWW-Authenticate
// challenge naming the expected credential scheme.
func RequireAuthentication(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if IdentityFromContext(r.Context()).Anonymous() {
			api.WriteError(w, api.NewAuthenticationRequired())
			return
		}
		next.ServeHTTP(w, r)
	})
}
