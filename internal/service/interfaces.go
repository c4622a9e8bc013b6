package service

import (
	"context"
	"time"

	"github.com/MKhiriev/agricheck/internal/imaging"
	"github.com/MKhiriev/agricheck/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/service_mock.go -package=mock

type AuthService interface {
	RegisterUser(ctx context.Context, request models.RegisterRequest) (models.User, error)
	Login(ctx context.Context, email, password string) (models.Token, error)
	Authenticate(ctx context.Context, tokenString string) (models.User, error)
}

// PasswordResetService implements both recovery pathways. Every issued reset
// token is persisted on the user row and is redeemable once.
type PasswordResetService interface {
	SecurityQuestions(ctx context.Context, email string) ([]models.SecurityQuestion, error)
	VerifySecurityAnswer(ctx context.Context, email string, index int, answer string) (string, error)
	ResetPassword(ctx context.Context, email, resetToken, newPassword string) error

	ForgotPassword(ctx context.Context, email string) (string, error)
	ResetPasswordWithToken(ctx context.Context, resetToken, newPassword string) error
}

type UserService interface {
	Profile(ctx context.Context, userID string) (models.User, error)
	UpdateProfile(ctx context.Context, userID, name string) (models.User, error)
	UpdateSecurityQuestions(ctx context.Context, userID string, questions []models.SecurityQuestionAnswer) error
	Stats(ctx context.Context, userID string) (models.UserStats, error)
}

type ScanService interface {
	Scan(ctx context.Context, userID string, upload models.ImageUpload) (models.Scan, error)
	SaveScan(ctx context.Context, userID string, request models.SaveScanRequest) (models.Scan, error)
	History(ctx context.Context, query models.ScanHistoryQuery) (models.ScanHistory, error)
	Image(ctx context.Context, userID, scanID string) (models.ScanImage, error)
	Diseases(ctx context.Context, userID string) ([]string, error)
	DeleteScan(ctx context.Context, userID, scanID string) error
}

type AppInfoService interface {
	GetAppVersion(ctx context.Context) string
	Health(ctx context.Context) models.HealthResponse
}

// ImageGate screens uploaded photos before classification.
type ImageGate interface {
	Assess(ctx context.Context, data []byte) imaging.Assessment
}

// Classifier is the loaded disease model.
type Classifier interface {
	Ready() bool
	ModelName() string
	Predict(ctx context.Context, data []byte, threshold float64) (models.Prediction, error)
}

// CredentialHasher digests passwords and security answers.
type CredentialHasher interface {
	HashPassword(secret string) (string, error)
	VerifyPassword(secret, digest string) bool
	HashSecurityAnswer(answer string) (string, error)
	VerifySecurityAnswer(answer, digest string) bool
}

// TokenManager issues and verifies signed tokens.
type TokenManager interface {
	Issue(subject string, ttl time.Duration, purpose models.TokenPurpose) (models.Token, error)
	Verify(tokenString string, purpose models.TokenPurpose) (string, error)
}
