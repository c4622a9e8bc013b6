package http

import (
	"net/http"

	"github.com/MKhiriev/agricheck/internal/logger"
)

// health always answers 200. Classifier readiness is reported in the body.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, r, h.services.AppInfoService.Health(r.Context()), http.StatusOK)
}

func (h *Handler) getServerVersion(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(h.services.AppInfoService.GetAppVersion(r.Context()))); err != nil {
		logger.FromRequest(r).Err(err).Msg("error writing version")
	}
}
