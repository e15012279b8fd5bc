package routes

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/parleyhq/parley/pkg/api"
	"github.com/parleyhq/parley/pkg/auth"
	"github.com/parleyhq/parley/pkg/storage"
)

// handlers holds the resource handlers' shared dependencies.
type handlers struct {
	store storage.Store
}

// createSpace handles POST /spaces. The route requires authentication;
// the declared owner must be the authenticated subject, who receives a
// full rwd grant on the new space.
func (h *handlers) createSpace(w http.ResponseWriter, r *http.Request) {
	var payload api.CreateSpaceRequest
	if apiErr := decodeJSON(r, &payload); apiErr != nil {
		api.WriteError(w, apiErr)
		return
	}

	if payload.Name == "" || len(payload.Name) > 255 {
		api.WriteError(w, api.NewBadRequest("space name must be between 1 and 255 characters"))
		return
	}
	if apiErr := api.ValidateUsername(payload.Owner); apiErr != nil {
		api.WriteError(w, apiErr)
		return
	}

	identity := auth.IdentityFromContext(r.Context())
	if payload.Owner != identity.Subject {
		api.WriteError(w, api.NewBadRequest("owner must match authenticated user"))
		return
	}

	spaceID, err := h.store.CreateSpace(r.Context(), payload.Name, payload.Owner)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}

	api.WriteJSON(w, http.StatusCreated, api.CreateSpaceResponse{
		Name: payload.Name,
		URI:  fmt.Sprintf("%s/%d", strings.TrimSuffix(r.URL.Path, "/"), spaceID),
	})
}
