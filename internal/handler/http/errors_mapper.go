package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/MKhiriev/agricheck/internal/app"
	"github.com/MKhiriev/agricheck/internal/service"
	"github.com/MKhiriev/agricheck/internal/validators"
)

var errorStatusMap = map[error]int{
	service.ErrInvalidDataProvided: http.StatusBadRequest,
	validators.ErrInvalidRequest:   http.StatusBadRequest,

	service.ErrEmailAlreadyRegistered: http.StatusBadRequest,
	service.ErrInvalidCredentials:     http.StatusUnauthorized,
	service.ErrInvalidAccessToken:     http.StatusUnauthorized,
	service.ErrSessionUserNotFound:    http.StatusUnauthorized,

	service.ErrUserNotFound:           http.StatusNotFound,
	service.ErrInvalidQuestionIndex:   http.StatusBadRequest,
	service.ErrSecurityQuestionNotSet: http.StatusBadRequest,
	service.ErrWrongSecurityAnswer:    http.StatusBadRequest,
	service.ErrEmptyPassword:          http.StatusBadRequest,
	service.ErrPasswordTooShort:       http.StatusBadRequest,
	service.ErrInvalidResetToken:      http.StatusBadRequest,
	service.ErrResetTokenExpired:      http.StatusBadRequest,

	service.ErrFileNotImage:        http.StatusBadRequest,
	service.ErrImageUndecodable:    http.StatusBadRequest,
	service.ErrImageTooLarge:       http.StatusRequestEntityTooLarge,
	service.ErrImageTooBlurry:      http.StatusBadRequest,
	service.ErrImageNotLeaf:        http.StatusBadRequest,
	service.ErrLowConfidence:       http.StatusBadRequest,
	service.ErrUncertainDiagnosis:  http.StatusBadRequest,
	service.ErrModelNotReady:       http.StatusServiceUnavailable,
	service.ErrInvalidHistoryQuery: http.StatusBadRequest,
	service.ErrScanNotFound:        http.StatusNotFound,
	service.ErrScanNotOwned:        http.StatusNotFound,
	service.ErrImageNotFound:       http.StatusNotFound,

	service.ErrInternal: http.StatusInternalServerError,
}

func statusFromError(err error) int {
	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status
		}
	}
	return http.StatusInternalServerError
}

// errorMessages is matched in order. Errors that wrap ErrInternal come
// before it.
var errorMessages = []struct {
	target  error
	message string
}{
	{service.ErrInvalidDataProvided, app.MsgInvalidDataProvided},
	{validators.ErrInvalidRequest, app.MsgInvalidDataProvided},
	{service.ErrEmailAlreadyRegistered, app.MsgEmailAlreadyRegistered},
	{service.ErrInvalidCredentials, app.MsgInvalidCredentials},
	{service.ErrInvalidAccessToken, app.MsgTokenInvalidOrExpired},
	{service.ErrSessionUserNotFound, app.MsgSessionUserNotFound},
	{service.ErrUserNotFound, app.MsgUserNotFound},
	{service.ErrInvalidQuestionIndex, app.MsgInvalidQuestionIndex},
	{service.ErrSecurityQuestionNotSet, app.MsgSecurityQuestionMissing},
	{service.ErrWrongSecurityAnswer, app.MsgWrongSecurityAnswer},
	{service.ErrEmptyPassword, app.MsgEmptyPassword},
	{service.ErrPasswordTooShort, app.MsgPasswordTooShort},
	{service.ErrInvalidResetToken, app.MsgInvalidResetToken},
	{service.ErrResetTokenExpired, app.MsgResetTokenExpired},
	{service.ErrPasswordUpdateFailed, app.MsgPasswordUpdateFailed},
	{service.ErrFileNotImage, app.MsgFileNotImage},
	{service.ErrImageUndecodable, app.MsgImageUnreadable},
	{service.ErrImageTooLarge, app.MsgImageDimensionsTooLarge},
	{service.ErrImageNotLeaf, app.MsgImageNotLeaf},
	{service.ErrModelNotReady, app.MsgModelNotLoaded},
	{service.ErrScanProcessing, app.MsgScanProcessingFailed},
	{service.ErrInvalidHistoryQuery, app.MsgInvalidDataProvided},
	{service.ErrScanNotFound, app.MsgScanNotFound},
	{service.ErrScanNotOwned, app.MsgScanNotOwned},
	{service.ErrImageNotFound, app.MsgImageNotFound},
}

// messageFromError returns the client facing text for err. Raw error text
// never leaks into the response.
func messageFromError(err error) string {
	var fieldErr *validators.FieldError
	if errors.As(err, &fieldErr) {
		return fieldMessage(fieldErr)
	}

	var rejection *service.RejectionError
	if errors.As(err, &rejection) {
		switch {
		case errors.Is(rejection.Err, service.ErrImageTooBlurry):
			return fmt.Sprintf(app.MsgImageTooBlurry, rejection.BlurScore)
		case errors.Is(rejection.Err, service.ErrLowConfidence):
			return fmt.Sprintf(app.MsgLowConfidence, rejection.Confidence)
		case errors.Is(rejection.Err, service.ErrUncertainDiagnosis):
			return fmt.Sprintf(app.MsgUncertainDiagnosis, rejection.Confidence, rejection.RunnerUpConfidence)
		}
	}

	for _, m := range errorMessages {
		if errors.Is(err, m.target) {
			return m.message
		}
	}
	return app.MsgInternalServerError
}

// fieldMessage names the failing field and rule. A short password gets the
// same text the service returns for it.
func fieldMessage(e *validators.FieldError) string {
	if e.Rule == "min" && (e.Field == "password" || e.Field == "new_password") {
		return app.MsgPasswordTooShort
	}
	return fmt.Sprintf(app.MsgInvalidField, e.Field, e.Rule)
}
