package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/MKhiriev/agricheck/internal/app"
	"github.com/MKhiriev/agricheck/internal/logger"
	"github.com/MKhiriev/agricheck/internal/service"
	"github.com/MKhiriev/agricheck/internal/utils"
)

const bearerScheme = "bearer"

// auth is an HTTP middleware that enforces bearer token authentication.
//
// It extracts the token from the "Authorization" header, resolves the user
// via [service.AuthService.Authenticate] and stores the user id in the
// request context with [utils.WithUserID].
//
// The middleware rejects requests with HTTP 401 Unauthorized when the header
// is missing or malformed, when the token is invalid or expired, or when
// the token names a user that no longer exists.
func (h *Handler) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromRequest(r)

		tokenString, err := getTokenFromAuthHeader(r.Header.Get("Authorization"))
		if err != nil {
			log.Info().Err(err).Msg("request without usable bearer token")
			unauthorized(w, app.MsgTokenInvalidOrExpired)
			return
		}

		ctx := r.Context()
		user, err := h.services.AuthService.Authenticate(ctx, tokenString)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrSessionUserNotFound):
				log.Info().Err(err).Msg("token names unknown user")
				unauthorized(w, app.MsgSessionUserNotFound)
			case errors.Is(err, service.ErrInvalidAccessToken):
				log.Info().Err(err).Msg("invalid access token")
				unauthorized(w, app.MsgTokenInvalidOrExpired)
			default:
				h.writeServiceError(w, r, err)
			}
			return
		}

		next.ServeHTTP(w, r.WithContext(utils.WithUserID(ctx, user.UserID)))
	})
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	utils.WriteError(w, http.StatusUnauthorized, message)
}

// getTokenFromAuthHeader extracts the token from a raw "Authorization"
// header value of the form "Bearer <token>". The scheme is matched
// case-insensitively.
func getTokenFromAuthHeader(authHeader string) (string, error) {
	if authHeader == "" {
		return "", ErrEmptyAuthorizationHeader
	}

	scheme, tokenString, _ := strings.Cut(strings.TrimLeft(authHeader, " "), " ")
	if !strings.EqualFold(scheme, bearerScheme) {
		return "", ErrInvalidAuthorizationHeader
	}

	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return "", ErrEmptyToken
	}

	return tokenString, nil
}
