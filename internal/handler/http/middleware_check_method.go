// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"

	"github.com/MKhiriev/agricheck/internal/app"
	"github.com/MKhiriev/agricheck/internal/utils"
	"github.com/go-chi/chi/v5"
)

// CheckHTTPMethod is installed as the router's MethodNotAllowed handler.
// A method that no route accepts for the path gets the JSON 404 body instead
// of chi's plain 405. Matching goes through [chi.Mux.Match] so URL params and
// mounted subrouters are resolved.
func CheckHTTPMethod(router *chi.Mux) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		if !router.Match(chi.NewRouteContext(), r.Method, r.URL.Path) {
			utils.WriteError(w, http.StatusNotFound, app.MsgNotFound)
			return
		}

		router.ServeHTTP(w, r)
	}
}

func (h *Handler) notFound(w http.ResponseWriter, r *http.Request) {
	utils.WriteError(w, http.StatusNotFound, app.MsgNotFound)
}
