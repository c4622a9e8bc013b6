package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/MKhiriev/agricheck/internal/logger"
	"github.com/MKhiriev/agricheck/internal/mock"
	"github.com/MKhiriev/agricheck/internal/security"
	"github.com/MKhiriev/agricheck/internal/store"
	"github.com/MKhiriev/agricheck/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const (
	testSignKey = "test-sign-key"
	testIssuer  = "agricheck-test"
)

func newTestTokens(t *testing.T) *security.TokenIssuer {
	t.Helper()
	tokens, err := security.NewTokenIssuer(testSignKey, testIssuer)
	require.NoError(t, err)
	return tokens
}

type authDeps struct {
	users  *mock.MockUserRepository
	hasher *mock.MockCredentialHasher
	tokens *security.TokenIssuer
}

func newTestAuthService(t *testing.T) (AuthService, authDeps) {
	t.Helper()
	ctrl := gomock.NewController(t)
	deps := authDeps{
		users:  mock.NewMockUserRepository(ctrl),
		hasher: mock.NewMockCredentialHasher(ctrl),
		tokens: newTestTokens(t),
	}
	return NewAuthService(deps.users, deps.hasher, deps.tokens, time.Hour, logger.Nop()), deps
}

// ─────────────────────────────────────────────
// RegisterUser
// ─────────────────────────────────────────────

func TestRegisterUser_Success(t *testing.T) {
	svc, deps := newTestAuthService(t)

	deps.hasher.EXPECT().HashPassword("secret123").Return("pw-digest", nil)
	deps.hasher.EXPECT().HashSecurityAnswer("Fluffy").Return("a0-digest", nil)
	deps.hasher.EXPECT().HashSecurityAnswer("Manila").Return("a2-digest", nil)
	deps.users.EXPECT().CreateUser(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, user models.User) (models.User, error) {
			assert.Equal(t, "juan@example.com", user.Email)
			assert.Equal(t, "Juan", user.Name)
			assert.Equal(t, "pw-digest", user.PasswordHash)
			assert.Equal(t, [3]string{"Pet name?", "", "Birth city?"}, user.SecurityQuestions)
			assert.Equal(t, [3]string{"a0-digest", "", "a2-digest"}, user.SecurityAnswerHashes)
			user.UserID = "user-1"
			return user, nil
		})

	user, err := svc.RegisterUser(context.Background(), models.RegisterRequest{
		Email:    "juan@example.com",
		Name:     "Juan",
		Password: "secret123",
		SecurityQuestions: []models.SecurityQuestionAnswer{
			{Question: "  Pet name? ", Answer: "Fluffy"},
			{Question: "", Answer: "skipped"},
			{Question: "Birth city?", Answer: "Manila"},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, "user-1", user.UserID)
}

func TestRegisterUser_Duplicate(t *testing.T) {
	svc, deps := newTestAuthService(t)

	deps.hasher.EXPECT().HashPassword(gomock.Any()).Return("pw-digest", nil)
	deps.users.EXPECT().CreateUser(gomock.Any(), gomock.Any()).
		Return(models.User{}, store.ErrEmailAlreadyExists)

	_, err := svc.RegisterUser(context.Background(), models.RegisterRequest{Email: "juan@example.com", Password: "secret123"})

	assert.ErrorIs(t, err, ErrEmailAlreadyRegistered)
}

func TestRegisterUser_InvalidData(t *testing.T) {
	svc, _ := newTestAuthService(t)

	tests := []struct {
		name    string
		request models.RegisterRequest
	}{
		{name: "empty email", request: models.RegisterRequest{Password: "secret123"}},
		{name: "empty password", request: models.RegisterRequest{Email: "juan@example.com"}},
		{name: "too many questions", request: models.RegisterRequest{
			Email:             "juan@example.com",
			Password:          "secret123",
			SecurityQuestions: make([]models.SecurityQuestionAnswer, 4),
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.RegisterUser(context.Background(), tt.request)
			assert.ErrorIs(t, err, ErrInvalidDataProvided)
		})
	}
}

func TestRegisterUser_StoreError(t *testing.T) {
	svc, deps := newTestAuthService(t)

	deps.hasher.EXPECT().HashPassword(gomock.Any()).Return("pw-digest", nil)
	deps.users.EXPECT().CreateUser(gomock.Any(), gomock.Any()).
		Return(models.User{}, errors.New("disk full"))

	_, err := svc.RegisterUser(context.Background(), models.RegisterRequest{Email: "juan@example.com", Password: "secret123"})

	assert.ErrorIs(t, err, ErrInternal)
}

// ─────────────────────────────────────────────
// Login
// ─────────────────────────────────────────────

func TestLogin_Success(t *testing.T) {
	svc, deps := newTestAuthService(t)

	deps.users.EXPECT().FindUserByEmail(gomock.Any(), "juan@example.com").
		Return(models.User{UserID: "user-1", PasswordHash: "pw-digest"}, nil)
	deps.hasher.EXPECT().VerifyPassword("secret123", "pw-digest").Return(true)

	token, err := svc.Login(context.Background(), "juan@example.com", "secret123")

	require.NoError(t, err)
	assert.Equal(t, "user-1", token.Subject)
	assert.Equal(t, models.PurposeAccess, token.Purpose)

	subject, err := deps.tokens.Verify(token.SignedString, models.PurposeAccess)
	require.NoError(t, err)
	assert.Equal(t, "user-1", subject)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	t.Run("unknown email", func(t *testing.T) {
		svc, deps := newTestAuthService(t)
		deps.users.EXPECT().FindUserByEmail(gomock.Any(), gomock.Any()).Return(models.User{}, store.ErrUserNotFound)

		_, err := svc.Login(context.Background(), "nobody@example.com", "secret123")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("wrong password", func(t *testing.T) {
		svc, deps := newTestAuthService(t)
		deps.users.EXPECT().FindUserByEmail(gomock.Any(), gomock.Any()).Return(models.User{UserID: "user-1", PasswordHash: "pw-digest"}, nil)
		deps.hasher.EXPECT().VerifyPassword("wrong", "pw-digest").Return(false)

		_, err := svc.Login(context.Background(), "juan@example.com", "wrong")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestLogin_StoreError(t *testing.T) {
	svc, deps := newTestAuthService(t)
	deps.users.EXPECT().FindUserByEmail(gomock.Any(), gomock.Any()).Return(models.User{}, errors.New("connection reset"))

	_, err := svc.Login(context.Background(), "juan@example.com", "secret123")

	assert.ErrorIs(t, err, ErrInternal)
}

// ─────────────────────────────────────────────
// Authenticate
// ─────────────────────────────────────────────

func TestAuthenticate(t *testing.T) {
	svc, deps := newTestAuthService(t)
	access, err := deps.tokens.Issue("user-1", time.Hour, models.PurposeAccess)
	require.NoError(t, err)
	reset, err := deps.tokens.Issue("juan@example.com", time.Hour, models.PurposePasswordReset)
	require.NoError(t, err)

	t.Run("valid token", func(t *testing.T) {
		deps.users.EXPECT().FindUserByID(gomock.Any(), "user-1").Return(models.User{UserID: "user-1", Email: "juan@example.com"}, nil)

		user, err := svc.Authenticate(context.Background(), access.SignedString)
		require.NoError(t, err)
		assert.Equal(t, "juan@example.com", user.Email)
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := svc.Authenticate(context.Background(), "not-a-jwt")
		assert.ErrorIs(t, err, ErrInvalidAccessToken)
	})

	t.Run("reset token used as access token", func(t *testing.T) {
		_, err := svc.Authenticate(context.Background(), reset.SignedString)
		assert.ErrorIs(t, err, ErrInvalidAccessToken)
	})

	t.Run("user deleted", func(t *testing.T) {
		deps.users.EXPECT().FindUserByID(gomock.Any(), "user-1").Return(models.User{}, store.ErrUserNotFound)

		_, err := svc.Authenticate(context.Background(), access.SignedString)
		assert.ErrorIs(t, err, ErrSessionUserNotFound)
	})
}
