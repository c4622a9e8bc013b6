// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

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

const resetEmail = "maria@example.com"

type resetDeps struct {
	users  *mock.MockUserRepository
	hasher *mock.MockCredentialHasher
	tokens *security.TokenIssuer
}

func newTestPasswordResetService(t *testing.T) (*passwordResetService, resetDeps) {
	t.Helper()
	ctrl := gomock.NewController(t)
	deps := resetDeps{
		users:  mock.NewMockUserRepository(ctrl),
		hasher: mock.NewMockCredentialHasher(ctrl),
		tokens: newTestTokens(t),
	}
	svc := NewPasswordResetService(deps.users, deps.hasher, deps.tokens, logger.Nop()).(*passwordResetService)
	return svc, deps
}

// userWithPendingToken returns a user holding a freshly issued reset token.
func userWithPendingToken(t *testing.T, tokens *security.TokenIssuer, subject string) (models.User, string) {
	t.Helper()
	token, err := tokens.Issue(subject, security.ResetTokenTTL, models.PurposePasswordReset)
	require.NoError(t, err)
	expires := token.ExpiresAt
	return models.User{
		UserID:            "user-1",
		Email:             resetEmail,
		ResetToken:        token.SignedString,
		ResetTokenExpires: &expires,
	}, token.SignedString
}

// inMemoryUser backs the repository mock with a single mutable row.
func inMemoryUser(deps resetDeps, user *models.User) {
	deps.users.EXPECT().FindUserByEmail(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, email string) (models.User, error) {
			if email != user.Email {
				return models.User{}, store.ErrUserNotFound
			}
			return *user, nil
		}).AnyTimes()
	deps.users.EXPECT().SetResetToken(gomock.Any(), user.UserID, gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, _ string, token string, expires time.Time) error {
			user.ResetToken = token
			user.ResetTokenExpires = &expires
			return nil
		}).AnyTimes()
	deps.users.EXPECT().RedeemResetToken(gomock.Any(), user.UserID, gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, _ string, token, passwordHash string) error {
			if user.ResetToken == "" || user.ResetToken != token {
				return store.ErrResetTokenMismatch
			}
			user.PasswordHash = passwordHash
			user.ResetToken = ""
			user.ResetTokenExpires = nil
			return nil
		}).AnyTimes()
}

func TestPasswordReset_SecurityQuestionFlow(t *testing.T) {
	svc, deps := newTestPasswordResetService(t)
	user := &models.User{
		UserID:               "user-1",
		Email:                resetEmail,
		PasswordHash:         "pw:old-password",
		SecurityQuestions:    [3]string{"Pet name?", "Birth city?", "First school?"},
		SecurityAnswerHashes: [3]string{"ans:fluffy", "ans:manila", "ans:rizal elementary"},
	}
	inMemoryUser(deps, user)
	deps.hasher.EXPECT().VerifySecurityAnswer(gomock.Any(), gomock.Any()).DoAndReturn(
		func(answer, digest string) bool {
			return "ans:"+security.NormalizeAnswer(answer) == digest
		}).AnyTimes()
	deps.hasher.EXPECT().HashPassword(gomock.Any()).DoAndReturn(
		func(secret string) (string, error) { return "pw:" + secret, nil }).AnyTimes()
	ctx := context.Background()

	questions, err := svc.SecurityQuestions(ctx, resetEmail)
	require.NoError(t, err)
	assert.Equal(t, []models.SecurityQuestion{
		{Question: "Pet name?", Index: 0},
		{Question: "Birth city?", Index: 1},
		{Question: "First school?", Index: 2},
	}, questions)

	_, err = svc.VerifySecurityAnswer(ctx, resetEmail, 1, "Quezon City")
	require.ErrorIs(t, err, ErrWrongSecurityAnswer)

	token, err := svc.VerifySecurityAnswer(ctx, resetEmail, 1, "  MANILA ")
	require.NoError(t, err)
	assert.Equal(t, token, user.ResetToken)
	require.NotNil(t, user.ResetTokenExpires)
	assert.WithinDuration(t, time.Now().Add(security.ResetTokenTTL), *user.ResetTokenExpires, 5*time.Second)

	require.NoError(t, svc.ResetPassword(ctx, resetEmail, token, "new-password-1"))
	assert.Equal(t, "pw:new-password-1", user.PasswordHash)
	assert.Empty(t, user.ResetToken)
	assert.Nil(t, user.ResetTokenExpires)

	err = svc.ResetPassword(ctx, resetEmail, token, "new-password-2")
	assert.ErrorIs(t, err, ErrInvalidResetToken, "a reset token is single-use")
	assert.Equal(t, "pw:new-password-1", user.PasswordHash)
}

func TestPasswordReset_ForgotPasswordFlow(t *testing.T) {
	svc, deps := newTestPasswordResetService(t)
	user := &models.User{UserID: "user-1", Email: resetEmail, PasswordHash: "pw:old-password"}
	inMemoryUser(deps, user)
	deps.hasher.EXPECT().HashPassword("new-password-1").Return("pw:new-password-1", nil)
	ctx := context.Background()

	token, err := svc.ForgotPassword(ctx, resetEmail)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.Equal(t, token, user.ResetToken)

	require.NoError(t, svc.ResetPasswordWithToken(ctx, token, "new-password-1"))
	assert.Equal(t, "pw:new-password-1", user.PasswordHash)

	err = svc.ResetPasswordWithToken(ctx, token, "new-password-2")
	assert.ErrorIs(t, err, ErrInvalidResetToken)
}

func TestForgotPassword_UnknownEmail(t *testing.T) {
	svc, deps := newTestPasswordResetService(t)
	deps.users.EXPECT().FindUserByEmail(gomock.Any(), "nobody@example.com").Return(models.User{}, store.ErrUserNotFound)

	token, err := svc.ForgotPassword(context.Background(), "nobody@example.com")

	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestSecurityQuestions_UnknownEmail(t *testing.T) {
	svc, deps := newTestPasswordResetService(t)
	deps.users.EXPECT().FindUserByEmail(gomock.Any(), gomock.Any()).Return(models.User{}, store.ErrUserNotFound)

	questions, err := svc.SecurityQuestions(context.Background(), "nobody@example.com")

	require.NoError(t, err)
	assert.NotNil(t, questions)
	assert.Empty(t, questions)
}

func TestVerifySecurityAnswer_Errors(t *testing.T) {
	configured := models.User{
		UserID:               "user-1",
		Email:                resetEmail,
		SecurityQuestions:    [3]string{"Pet name?", "", ""},
		SecurityAnswerHashes: [3]string{"ans:fluffy", "", ""},
	}

	tests := []struct {
		name    string
		user    models.User
		findErr error
		index   int
		wantErr error
	}{
		{name: "unknown user", findErr: store.ErrUserNotFound, index: 0, wantErr: ErrUserNotFound},
		{name: "store failure", findErr: errors.New("timeout"), index: 0, wantErr: ErrInternal},
		{name: "index too large", user: configured, index: 3, wantErr: ErrInvalidQuestionIndex},
		{name: "negative index", user: configured, index: -1, wantErr: ErrInvalidQuestionIndex},
		{name: "question not set", user: configured, index: 2, wantErr: ErrSecurityQuestionNotSet},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, deps := newTestPasswordResetService(t)
			deps.users.EXPECT().FindUserByEmail(gomock.Any(), resetEmail).Return(tt.user, tt.findErr)

			token, err := svc.VerifySecurityAnswer(context.Background(), resetEmail, tt.index, "fluffy")

			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, token)
		})
	}
}

func TestResetPassword_PasswordRules(t *testing.T) {
	svc, _ := newTestPasswordResetService(t)

	tests := []struct {
		name     string
		password string
		wantErr  error
	}{
		{name: "empty", password: "", wantErr: ErrEmptyPassword},
		{name: "blank", password: "    ", wantErr: ErrEmptyPassword},
		{name: "short after trimming", password: "  abc1234  ", wantErr: ErrPasswordTooShort},
		{name: "multibyte counts characters", password: "ñññññññ", wantErr: ErrPasswordTooShort},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, svc.ResetPassword(context.Background(), resetEmail, "token", tt.password), tt.wantErr)
			assert.ErrorIs(t, svc.ResetPasswordWithToken(context.Background(), "token", tt.password), tt.wantErr)
		})
	}
}

func TestResetPassword_UnknownUser(t *testing.T) {
	svc, deps := newTestPasswordResetService(t)
	deps.users.EXPECT().FindUserByEmail(gomock.Any(), gomock.Any()).Return(models.User{}, store.ErrUserNotFound)

	err := svc.ResetPassword(context.Background(), "nobody@example.com", "token", "new-password-1")

	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestResetPassword_TokenChecks(t *testing.T) {
	t.Run("no pending token", func(t *testing.T) {
		svc, deps := newTestPasswordResetService(t)
		deps.users.EXPECT().FindUserByEmail(gomock.Any(), resetEmail).Return(models.User{UserID: "user-1", Email: resetEmail}, nil)

		err := svc.ResetPassword(context.Background(), resetEmail, "token", "new-password-1")
		assert.ErrorIs(t, err, ErrInvalidResetToken)
	})

	t.Run("different token", func(t *testing.T) {
		svc, deps := newTestPasswordResetService(t)
		user, _ := userWithPendingToken(t, deps.tokens, resetEmail)
		other, err := deps.tokens.Issue(resetEmail, time.Hour, models.PurposePasswordReset)
		require.NoError(t, err)
		deps.users.EXPECT().FindUserByEmail(gomock.Any(), resetEmail).Return(user, nil)

		err = svc.ResetPassword(context.Background(), resetEmail, other.SignedString+"x", "new-password-1")
		assert.ErrorIs(t, err, ErrInvalidResetToken)
	})

	t.Run("persisted expiry passed", func(t *testing.T) {
		svc, deps := newTestPasswordResetService(t)
		user, token := userWithPendingToken(t, deps.tokens, resetEmail)
		svc.now = func() time.Time { return user.ResetTokenExpires.Add(time.Second) }
		deps.users.EXPECT().FindUserByEmail(gomock.Any(), resetEmail).Return(user, nil)

		err := svc.ResetPassword(context.Background(), resetEmail, token, "new-password-1")
		assert.ErrorIs(t, err, ErrResetTokenExpired)
	})

	t.Run("no persisted expiry", func(t *testing.T) {
		svc, deps := newTestPasswordResetService(t)
		user, token := userWithPendingToken(t, deps.tokens, resetEmail)
		user.ResetTokenExpires = nil
		deps.users.EXPECT().FindUserByEmail(gomock.Any(), resetEmail).Return(user, nil)

		err := svc.ResetPassword(context.Background(), resetEmail, token, "new-password-1")
		assert.ErrorIs(t, err, ErrResetTokenExpired)
	})

	t.Run("subject mismatch", func(t *testing.T) {
		svc, deps := newTestPasswordResetService(t)
		user, token := userWithPendingToken(t, deps.tokens, "someone-else@example.com")
		deps.users.EXPECT().FindUserByEmail(gomock.Any(), resetEmail).Return(user, nil)

		err := svc.ResetPassword(context.Background(), resetEmail, token, "new-password-1")
		assert.ErrorIs(t, err, ErrInvalidResetToken)
	})

	t.Run("access token persisted as reset token", func(t *testing.T) {
		svc, deps := newTestPasswordResetService(t)
		access, err := deps.tokens.Issue(resetEmail, time.Hour, models.PurposeAccess)
		require.NoError(t, err)
		expires := access.ExpiresAt
		user := models.User{UserID: "user-1", Email: resetEmail, ResetToken: access.SignedString, ResetTokenExpires: &expires}
		deps.users.EXPECT().FindUserByEmail(gomock.Any(), resetEmail).Return(user, nil)

		err = svc.ResetPassword(context.Background(), resetEmail, access.SignedString, "new-password-1")
		assert.ErrorIs(t, err, ErrInvalidResetToken)
	})
}

func TestResetPassword_ConcurrentRedemptionLost(t *testing.T) {
	svc, deps := newTestPasswordResetService(t)
	user, token := userWithPendingToken(t, deps.tokens, resetEmail)
	deps.users.EXPECT().FindUserByEmail(gomock.Any(), resetEmail).Return(user, nil)
	deps.hasher.EXPECT().HashPassword("new-password-1").Return("pw:new-password-1", nil)
	deps.users.EXPECT().RedeemResetToken(gomock.Any(), "user-1", token, "pw:new-password-1").Return(store.ErrResetTokenMismatch)

	err := svc.ResetPassword(context.Background(), resetEmail, token, "new-password-1")

	assert.ErrorIs(t, err, ErrInvalidResetToken)
}

func TestResetPassword_PersistenceFailure(t *testing.T) {
	svc, deps := newTestPasswordResetService(t)
	user, token := userWithPendingToken(t, deps.tokens, resetEmail)
	deps.users.EXPECT().FindUserByEmail(gomock.Any(), resetEmail).Return(user, nil)
	deps.hasher.EXPECT().HashPassword(gomock.Any()).Return("pw:new-password-1", nil)
	deps.users.EXPECT().RedeemResetToken(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("tx aborted"))

	err := svc.ResetPassword(context.Background(), resetEmail, token, "new-password-1")

	assert.ErrorIs(t, err, ErrPasswordUpdateFailed)
	assert.ErrorIs(t, err, ErrInternal)
}

func TestResetPasswordWithToken_Garbage(t *testing.T) {
	svc, _ := newTestPasswordResetService(t)

	err := svc.ResetPasswordWithToken(context.Background(), "garbage", "new-password-1")

	assert.ErrorIs(t, err, ErrInvalidResetToken)
}

func TestVerifySecurityAnswer_PersistFailure(t *testing.T) {
	svc, deps := newTestPasswordResetService(t)
	user := models.User{
		UserID:               "user-1",
		Email:                resetEmail,
		SecurityQuestions:    [3]string{"Pet name?", "", ""},
		SecurityAnswerHashes: [3]string{"ans:fluffy", "", ""},
	}
	deps.users.EXPECT().FindUserByEmail(gomock.Any(), resetEmail).Return(user, nil)
	deps.hasher.EXPECT().VerifySecurityAnswer("fluffy", "ans:fluffy").Return(true)
	deps.users.EXPECT().SetResetToken(gomock.Any(), "user-1", gomock.Any(), gomock.Any()).Return(errors.New("read-only database"))

	token, err := svc.VerifySecurityAnswer(context.Background(), resetEmail, 0, "fluffy")

	assert.ErrorIs(t, err, ErrInternal)
	assert.Empty(t, token)
}
