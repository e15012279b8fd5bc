package routes

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/parleyhq/parley/pkg/api"
)

// postMessage handles POST /spaces/{spaceID}/messages. The route
// requires authentication and a write grant on the space.
func (h *handlers) postMessage(w http.ResponseWriter, r *http.Request) {
	spaceID, apiErr := idParam(r, "spaceID")
	if apiErr != nil {
		api.WriteError(w, apiErr)
		return
	}

	var payload api.PostMessageRequest
	if apiErr := decodeJSON(r, &payload); apiErr != nil {
		api.WriteError(w, apiErr)
		return
	}
	if payload.Message == "" || len(payload.Message) > 1024 {
		api.WriteError(w, api.NewBadRequest("message must be between 1 and 1024 characters"))
		return
	}
	if apiErr := api.ValidateUsername(payload.Author); apiErr != nil {
		api.WriteError(w, apiErr)
		return
	}

	msgID, err := h.store.PostMessage(r.Context(), spaceID, payload.Author, payload.Message)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}

	api.WriteJSON(w, http.StatusCreated, api.PostMessageResponse{
		URI: fmt.Sprintf("%s/%d", strings.TrimSuffix(r.URL.Path, "/"), msgID),
	})
}

// readMessage handles GET /spaces/{spaceID}/messages/{msgID}. Requires
// a read grant on the space.
func (h *handlers) readMessage(w http.ResponseWriter, r *http.Request) {
	spaceID, apiErr := idParam(r, "spaceID")
	if apiErr != nil {
		api.WriteError(w, apiErr)
		return
	}
	msgID, apiErr := idParam(r, "msgID")
	if apiErr != nil {
		api.WriteError(w, apiErr)
		return
	}

	msg, err := h.store.GetMessage(r.Context(), spaceID, msgID)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}

	api.WriteJSON(w, http.StatusOK, api.ReadMessageResponse{
		Author:  msg.Author,
		Message: msg.Text,
		Time:    msg.Time,
		URI:     r.URL.Path,
	})
}

// findMessages handles GET /spaces/{spaceID}/messages?since=RFC3339.
// Without a since parameter it returns the last 24 hours. Requires a
// read grant on the space.
func (h *handlers) findMessages(w http.ResponseWriter, r *http.Request) {
	spaceID, apiErr := idParam(r, "spaceID")
	if apiErr != nil {
		api.WriteError(w, apiErr)
		return
	}

	since := time.Now().Add(-24 * time.Hour)
	if raw := r.URL.Query().Get("since"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			api.WriteError(w, api.NewBadRequest("invalid since parameter"))
			return
		}
		since = parsed
	}

	ids, err := h.store.FindMessagesSince(r.Context(), spaceID, since)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	if ids == nil {
		ids = []int64{}
	}

	api.WriteJSON(w, http.StatusOK, ids)
}

// deleteMessage handles DELETE /spaces/{spaceID}/messages/{msgID}.
// Requires a delete grant on the space.
func (h *handlers) deleteMessage(w http.ResponseWriter, r *http.Request) {
	spaceID, apiErr := idParam(r, "spaceID")
	if apiErr != nil {
		api.WriteError(w, apiErr)
		return
	}
	msgID, apiErr := idParam(r, "msgID")
	if apiErr != nil {
		api.WriteError(w, apiErr)
		return
	}

	if err := h.store.DeleteMessage(r.Context(), spaceID, msgID); err != nil {
		writeStoreError(w, r, err)
		return
	}

	api.WriteJSON(w, http.StatusOK, struct{}{})
}
