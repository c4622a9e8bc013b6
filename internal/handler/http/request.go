package http

import (
	"net/http"

	"github.com/MKhiriev/agricheck/internal/app"
	"github.com/MKhiriev/agricheck/internal/logger"
	"github.com/MKhiriev/agricheck/internal/utils"
	"github.com/go-chi/render"
)

// decodeAndValidate reads a JSON body into dst and runs the struct
// validator over it. On failure the 400 response is already written.
func (h *Handler) decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	log := logger.FromRequest(r)

	if err := render.DecodeJSON(r.Body, dst); err != nil {
		log.Debug().Err(err).Msg("invalid JSON body")
		utils.WriteError(w, http.StatusBadRequest, app.MsgInvalidDataProvided)
		return false
	}

	if err := h.validator.Validate(r.Context(), dst); err != nil {
		log.Debug().Err(err).Msg("request failed validation")
		h.writeServiceError(w, r, err)
		return false
	}
	return true
}

// writeServiceError maps err to its status and message. Server side
// failures are logged with the underlying cause.
func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFromError(err)
	if status >= http.StatusInternalServerError {
		logger.FromRequest(r).Err(err).Int("status", status).Msg("request failed")
	}
	utils.WriteError(w, status, messageFromError(err))
}

// userID returns the id stored by the auth middleware.
func (h *Handler) userID(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, app.MsgTokenInvalidOrExpired)
	}
	return userID, ok
}

func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, data any, status int) {
	if _, err := utils.WriteJSON(w, data, status); err != nil {
		logger.FromRequest(r).Err(err).Msg("error writing response")
	}
}
