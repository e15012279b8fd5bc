package routes

import (
	"errors"
	"net/http"

	"github.com/parleyhq/parley/pkg/api"
	"github.com/parleyhq/parley/pkg/auth"
	"github.com/parleyhq/parley/pkg/storage"
)

// registerUser handles POST /users. Registration is public: the route
// carries no require-auth or authorizer stage.
func (h *handlers) registerUser(w http.ResponseWriter, r *http.Request) {
	var payload api.RegisterUserRequest
	if apiErr := decodeJSON(r, &payload); apiErr != nil {
		api.WriteError(w, apiErr)
		return
	}

	if apiErr := api.ValidateUsername(payload.Username); apiErr != nil {
		api.WriteError(w, apiErr)
		return
	}
	if apiErr := api.ValidatePassword(payload.Password); apiErr != nil {
		api.WriteError(w, apiErr)
		return
	}

	hash, err := auth.HashPassword(payload.Password)
	if err != nil {
		api.WriteError(w, api.NewServerError(err))
		return
	}

	if err := h.store.CreateUser(r.Context(), payload.Username, hash); err != nil {
		if errors.Is(err, storage.ErrConflict) {
			api.WriteError(w, api.NewConflict("username already taken"))
			return
		}
		writeStoreError(w, r, err)
		return
	}

	api.WriteJSON(w, http.StatusCreated, api.RegisterUserResponse{Username: payload.Username})
}
