package http

import (
	"net/http"
	"slices"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID)
	router.Use(h.withLogging)
	router.Use(cors.Handler(corsOptions(h.corsOrigins)))
	router.Use(h.withTimeout)

	// routes without authorization
	router.Group(func(r chi.Router) {
		r.Get("/health", h.health)
		r.Get("/version", h.getServerVersion)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", h.register)
			r.Post("/login", h.login)
			r.Post("/forgot-password", h.forgotPassword)
			r.Post("/reset-password", h.resetPassword)
			r.Post("/forgot-password-security-questions", h.securityQuestions)
			r.Post("/verify-security-answer", h.verifySecurityAnswer)
			r.Post("/reset-password-security-questions", h.resetPasswordSecurityQuestions)
		})
	})

	// routes with authorization
	router.Group(func(r chi.Router) {
		r.Use(h.auth)

		r.Route("/users", func(r chi.Router) {
			r.Get("/me", h.profile)
			r.Put("/me", h.updateProfile)
			r.Put("/me/security-questions", h.updateSecurityQuestions)
			r.Get("/stats", h.stats)
		})

		r.Route("/scans", func(r chi.Router) {
			r.Post("/scan", h.scan)
			r.Post("/", h.saveScan)
			r.Get("/history", h.history)
			r.Get("/diseases", h.diseases)
			r.Get("/image/{scanID}", h.scanImage)
			r.Delete("/{scanID}", h.deleteScan)
		})
	})

	router.NotFound(h.notFound)
	router.MethodNotAllowed(CheckHTTPMethod(router))

	return router
}

// corsOptions allows credentials only for an explicit origin list. With a
// wildcard origin any site could send the user's cookies along.
func corsOptions(origins []string) cors.Options {
	return cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{traceIDHeader},
		AllowCredentials: !slices.Contains(origins, "*"),
		MaxAge:           300,
	}
}
