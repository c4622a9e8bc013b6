package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/MKhiriev/agricheck/internal/app"
	"github.com/MKhiriev/agricheck/internal/utils"
)

// withTimeout cancels the request context after the configured timeout.
// When the handler returns without having written a response because the
// deadline passed, 504 with the uniform error body is sent.
func (h *Handler) withTimeout(next http.Handler) http.Handler {
	if h.requestTimeout <= 0 {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), h.requestTimeout)
		defer cancel()

		tw := &responseWriter{ResponseWriter: w}
		next.ServeHTTP(tw, r.WithContext(ctx))

		if !tw.wroteHeader && errors.Is(ctx.Err(), context.DeadlineExceeded) {
			utils.WriteError(tw, http.StatusGatewayTimeout, app.MsgRequestTimeout)
		}
	})
}
