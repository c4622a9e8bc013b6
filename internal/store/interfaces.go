package store

import (
	"context"
	"time"

	"github.com/MKhiriev/agricheck/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

type UserRepository interface {
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	FindUserByEmail(ctx context.Context, email string) (models.User, error)
	FindUserByID(ctx context.Context, userID string) (models.User, error)
	UpdateName(ctx context.Context, userID, name string) (models.User, error)
	UpdateSecurityQuestions(ctx context.Context, userID string, questions, answerHashes [models.SecurityQuestionCount]string) error

	// SetResetToken stores token and its expiry on the user row, replacing
	// any pending token.
	SetResetToken(ctx context.Context, userID, token string, expires time.Time) error

	// RedeemResetToken sets the new password hash and clears both reset
	// token fields in one transaction, but only while the row still holds
	// token. Otherwise it returns ErrResetTokenMismatch.
	RedeemResetToken(ctx context.Context, userID, token, passwordHash string) error

	// ClearExpiredResetTokens clears reset tokens that expired before now and
	// returns the number of rows changed.
	ClearExpiredResetTokens(ctx context.Context, now time.Time) (int64, error)
}

type ScanRepository interface {
	CreateScan(ctx context.Context, scan models.Scan) (models.Scan, error)
	FindScan(ctx context.Context, userID, scanID string) (models.Scan, error)
	ListScans(ctx context.Context, query models.ScanHistoryQuery) (models.ScanHistory, error)
	ListDiseases(ctx context.Context, userID string) ([]string, error)
	DeleteScan(ctx context.Context, userID, scanID string) error
	Stats(ctx context.Context, userID string) (models.UserStats, error)
}

// ImageStore keeps uploaded scan photos under opaque keys.
type ImageStore interface {
	Save(ctx context.Context, key string, data []byte, contentType string) error
	Load(ctx context.Context, key string) (models.ScanImage, error)
	Delete(ctx context.Context, key string) error
}

// idGenerator produces primary keys for new rows.
type idGenerator interface {
	Generate() string
}
