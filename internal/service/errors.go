package service

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidDataProvided = errors.New("invalid data provided")
	ErrInternal            = errors.New("internal error")

	ErrEmailAlreadyRegistered = errors.New("email already registered")
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrInvalidAccessToken     = errors.New("invalid or expired access token")
	ErrSessionUserNotFound    = errors.New("user of the session not found")

	ErrUserNotFound           = errors.New("user not found")
	ErrInvalidQuestionIndex   = errors.New("invalid security question index")
	ErrSecurityQuestionNotSet = errors.New("security question not set")
	ErrWrongSecurityAnswer    = errors.New("wrong security answer")
	ErrEmptyPassword          = errors.New("password is empty")
	ErrPasswordTooShort       = errors.New("password is too short")
	ErrInvalidResetToken      = errors.New("invalid reset token")
	ErrResetTokenExpired      = errors.New("reset token expired")
	ErrPasswordUpdateFailed   = fmt.Errorf("%w: password update failed", ErrInternal)

	ErrFileNotImage        = errors.New("uploaded file is not an image")
	ErrImageUndecodable    = errors.New("image cannot be decoded")
	ErrImageTooLarge       = errors.New("image dimensions are too large")
	ErrImageTooBlurry      = errors.New("image is too blurry")
	ErrImageNotLeaf        = errors.New("image does not look like a rice leaf")
	ErrModelNotReady       = errors.New("classifier model is not loaded")
	ErrLowConfidence       = errors.New("prediction confidence too low")
	ErrUncertainDiagnosis  = errors.New("prediction is ambiguous")
	ErrScanProcessing      = fmt.Errorf("%w: scan processing failed", ErrInternal)
	ErrInvalidHistoryQuery = errors.New("invalid scan history query")
	ErrScanNotFound        = errors.New("scan not found")
	ErrScanNotOwned        = errors.New("scan not found or not owned by user")
	ErrImageNotFound       = errors.New("scan image not found")
)

// RejectionError is returned when an uploaded photo is refused. It carries
// the measurement behind the decision so the transport layer can report it.
type RejectionError struct {
	// Err is one of the image or prediction sentinels.
	Err error

	// BlurScore is set for ErrImageTooBlurry.
	BlurScore float64

	// Confidence is the top-class percentage, set for ErrLowConfidence and
	// ErrUncertainDiagnosis.
	Confidence float64

	// RunnerUpConfidence is the second-class percentage, set for
	// ErrUncertainDiagnosis.
	RunnerUpConfidence float64
}

func (e *RejectionError) Error() string {
	switch {
	case errors.Is(e.Err, ErrImageTooBlurry):
		return fmt.Sprintf("%s: blur score %.1f", e.Err, e.BlurScore)
	case errors.Is(e.Err, ErrUncertainDiagnosis):
		return fmt.Sprintf("%s: %.1f%% vs %.1f%%", e.Err, e.Confidence, e.RunnerUpConfidence)
	case errors.Is(e.Err, ErrLowConfidence):
		return fmt.Sprintf("%s: %.1f%%", e.Err, e.Confidence)
	default:
		return e.Err.Error()
	}
}

func (e *RejectionError) Unwrap() error {
	return e.Err
}
