package http

import (
	"net/http"

	"github.com/MKhiriev/agricheck/internal/app"
	"github.com/MKhiriev/agricheck/models"
)

func (h *Handler) profile(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	user, err := h.services.UserService.Profile(r.Context(), userID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	h.writeJSON(w, r, user, http.StatusOK)
}

func (h *Handler) updateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	var request models.UpdateProfileRequest
	if !h.decodeAndValidate(w, r, &request) {
		return
	}

	user, err := h.services.UserService.UpdateProfile(r.Context(), userID, request.Name)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	h.writeJSON(w, r, user, http.StatusOK)
}

func (h *Handler) updateSecurityQuestions(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	var request models.UpdateSecurityQuestionsRequest
	if !h.decodeAndValidate(w, r, &request) {
		return
	}

	if err := h.services.UserService.UpdateSecurityQuestions(r.Context(), userID, request.SecurityQuestions); err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	h.writeJSON(w, r, models.MessageResponse{Message: app.MsgSecurityQuestionsUpdated}, http.StatusOK)
}

func (h *Handler) stats(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	stats, err := h.services.UserService.Stats(r.Context(), userID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	h.writeJSON(w, r, stats, http.StatusOK)
}
