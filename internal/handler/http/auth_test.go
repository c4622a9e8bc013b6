package http

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/MKhiriev/agricheck/internal/app"
	"github.com/MKhiriev/agricheck/internal/service"
	"github.com/MKhiriev/agricheck/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestRegister(t *testing.T) {
	valid := models.RegisterRequest{
		Email:    "juan@example.com",
		Name:     "Juan",
		Password: "secret123",
		SecurityQuestions: []models.SecurityQuestionAnswer{
			{Question: "Pet name?", Answer: "Fluffy"},
		},
	}

	t.Run("created", func(t *testing.T) {
		router, m := newTestServer(t)
		m.auth.EXPECT().RegisterUser(gomock.Any(), valid).
			Return(models.User{UserID: testUserID, Email: valid.Email, Name: valid.Name, Role: models.RoleUser, PasswordHash: "pw-digest"}, nil)

		rec := serve(router, jsonRequest(t, http.MethodPost, "/auth/register", valid))

		require.Equal(t, http.StatusCreated, rec.Code)
		body := decodeBody[map[string]any](t, rec)
		assert.Equal(t, testUserID, body["id"])
		assert.Equal(t, "juan@example.com", body["email"])
		assert.NotContains(t, rec.Body.String(), "pw-digest")
	})

	t.Run("duplicate email", func(t *testing.T) {
		router, m := newTestServer(t)
		m.auth.EXPECT().RegisterUser(gomock.Any(), gomock.Any()).Return(models.User{}, service.ErrEmailAlreadyRegistered)

		rec := serve(router, jsonRequest(t, http.MethodPost, "/auth/register", valid))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, models.ErrorResponse{Status: http.StatusBadRequest, Message: app.MsgEmailAlreadyRegistered}, decodeError(t, rec))
	})

	invalid := []struct {
		name        string
		body        any
		wantMessage string
	}{
		{name: "malformed json", body: `{"email":`, wantMessage: app.MsgInvalidDataProvided},
		{name: "empty body", body: nil, wantMessage: app.MsgInvalidDataProvided},
		{
			name:        "bad email",
			body:        models.RegisterRequest{Email: "not-an-email", Password: "secret123"},
			wantMessage: fmt.Sprintf(app.MsgInvalidField, "email", "email"),
		},
		{
			name:        "short password",
			body:        models.RegisterRequest{Email: "juan@example.com", Password: "short"},
			wantMessage: app.MsgPasswordTooShort,
		},
		{
			name: "blank answer",
			body: models.RegisterRequest{
				Email:             "juan@example.com",
				Password:          "secret123",
				SecurityQuestions: []models.SecurityQuestionAnswer{{Question: "Pet?", Answer: "   "}},
			},
			wantMessage: fmt.Sprintf(app.MsgInvalidField, "security_questions[0].answer", "notblank"),
		},
		{
			name: "four questions",
			body: models.RegisterRequest{
				Email:             "juan@example.com",
				Password:          "secret123",
				SecurityQuestions: make([]models.SecurityQuestionAnswer, 4),
			},
			wantMessage: fmt.Sprintf(app.MsgInvalidField, "security_questions", "max"),
		},
	}
	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			router, _ := newTestServer(t)

			rec := serve(router, jsonRequest(t, http.MethodPost, "/auth/register", tt.body))

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.wantMessage, decodeError(t, rec).Message)
		})
	}
}

func TestLogin(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		router, m := newTestServer(t)
		m.auth.EXPECT().Login(gomock.Any(), "juan@example.com", "secret123").
			Return(models.Token{SignedString: "signed.jwt.value", Subject: testUserID, Purpose: models.PurposeAccess}, nil)

		rec := serve(router, jsonRequest(t, http.MethodPost, "/auth/login", models.LoginRequest{Email: "juan@example.com", Password: "secret123"}))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, models.TokenResponse{AccessToken: "signed.jwt.value", TokenType: "bearer"}, decodeBody[models.TokenResponse](t, rec))
	})

	t.Run("invalid credentials", func(t *testing.T) {
		router, m := newTestServer(t)
		m.auth.EXPECT().Login(gomock.Any(), gomock.Any(), gomock.Any()).Return(models.Token{}, service.ErrInvalidCredentials)

		rec := serve(router, jsonRequest(t, http.MethodPost, "/auth/login", models.LoginRequest{Email: "juan@example.com", Password: "wrong"}))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, app.MsgInvalidCredentials, decodeError(t, rec).Message)
	})
}

func TestForgotPassword(t *testing.T) {
	t.Run("known email", func(t *testing.T) {
		router, m := newTestServer(t)
		m.reset.EXPECT().ForgotPassword(gomock.Any(), "juan@example.com").Return("reset.jwt", nil)

		rec := serve(router, jsonRequest(t, http.MethodPost, "/auth/forgot-password", models.ForgotPasswordRequest{Email: "juan@example.com"}))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, models.ForgotPasswordResponse{Message: app.MsgForgotPasswordAccepted, ResetToken: "reset.jwt"},
			decodeBody[models.ForgotPasswordResponse](t, rec))
	})

	t.Run("unknown email answers the same", func(t *testing.T) {
		router, m := newTestServer(t)
		m.reset.EXPECT().ForgotPassword(gomock.Any(), "nobody@example.com").Return("", nil)

		rec := serve(router, jsonRequest(t, http.MethodPost, "/auth/forgot-password", models.ForgotPasswordRequest{Email: "nobody@example.com"}))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.NotContains(t, rec.Body.String(), "reset_token")
		assert.Equal(t, app.MsgForgotPasswordAccepted, decodeBody[models.ForgotPasswordResponse](t, rec).Message)
	})
}

func TestResetPassword(t *testing.T) {
	tests := []struct {
		name        string
		serviceErr  error
		wantStatus  int
		wantMessage string
	}{
		{name: "success", wantStatus: http.StatusOK, wantMessage: app.MsgPasswordResetSuccess},
		{name: "expired", serviceErr: service.ErrResetTokenExpired, wantStatus: http.StatusBadRequest, wantMessage: app.MsgResetTokenExpired},
		{name: "replayed", serviceErr: service.ErrInvalidResetToken, wantStatus: http.StatusBadRequest, wantMessage: app.MsgInvalidResetToken},
		{name: "short password", serviceErr: service.ErrPasswordTooShort, wantStatus: http.StatusBadRequest, wantMessage: app.MsgPasswordTooShort},
		{name: "persistence failure", serviceErr: service.ErrPasswordUpdateFailed, wantStatus: http.StatusInternalServerError, wantMessage: app.MsgPasswordUpdateFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, m := newTestServer(t)
			m.reset.EXPECT().ResetPasswordWithToken(gomock.Any(), "reset.jwt", "newsecret1").Return(tt.serviceErr)

			rec := serve(router, jsonRequest(t, http.MethodPost, "/auth/reset-password", models.ResetPasswordRequest{Token: "reset.jwt", NewPassword: "newsecret1"}))

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantMessage)
		})
	}
}

func TestSecurityQuestionFlow(t *testing.T) {
	t.Run("questions", func(t *testing.T) {
		router, m := newTestServer(t)
		m.reset.EXPECT().SecurityQuestions(gomock.Any(), "juan@example.com").
			Return([]models.SecurityQuestion{{Question: "Pet name?", Index: 0}, {Question: "Birth city?", Index: 2}}, nil)

		rec := serve(router, jsonRequest(t, http.MethodPost, "/auth/forgot-password-security-questions", models.ForgotPasswordRequest{Email: "juan@example.com"}))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"questions":[{"question":"Pet name?","index":0},{"question":"Birth city?","index":2}]}`, rec.Body.String())
	})

	t.Run("questions for unknown email", func(t *testing.T) {
		router, m := newTestServer(t)
		m.reset.EXPECT().SecurityQuestions(gomock.Any(), gomock.Any()).Return(nil, nil)

		rec := serve(router, jsonRequest(t, http.MethodPost, "/auth/forgot-password-security-questions", models.ForgotPasswordRequest{Email: "nobody@example.com"}))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"questions":[]}`, rec.Body.String())
	})

	t.Run("verify answer", func(t *testing.T) {
		router, m := newTestServer(t)
		m.reset.EXPECT().VerifySecurityAnswer(gomock.Any(), "juan@example.com", 2, "Manila").Return("reset.jwt", nil)

		rec := serve(router, jsonRequest(t, http.MethodPost, "/auth/verify-security-answer",
			models.VerifySecurityAnswerRequest{Email: "juan@example.com", QuestionIndex: 2, Answer: "Manila"}))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "reset.jwt", decodeBody[models.ResetTokenResponse](t, rec).ResetToken)
	})

	verifyErrors := []struct {
		err         error
		wantStatus  int
		wantMessage string
	}{
		{service.ErrUserNotFound, http.StatusNotFound, app.MsgUserNotFound},
		{service.ErrInvalidQuestionIndex, http.StatusBadRequest, app.MsgInvalidQuestionIndex},
		{service.ErrSecurityQuestionNotSet, http.StatusBadRequest, app.MsgSecurityQuestionMissing},
		{service.ErrWrongSecurityAnswer, http.StatusBadRequest, app.MsgWrongSecurityAnswer},
	}
	for _, tt := range verifyErrors {
		t.Run("verify answer "+tt.err.Error(), func(t *testing.T) {
			router, m := newTestServer(t)
			m.reset.EXPECT().VerifySecurityAnswer(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return("", tt.err)

			rec := serve(router, jsonRequest(t, http.MethodPost, "/auth/verify-security-answer",
				models.VerifySecurityAnswerRequest{Email: "juan@example.com", QuestionIndex: 5, Answer: "x"}))

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantMessage, decodeError(t, rec).Message)
		})
	}

	t.Run("reset with security token", func(t *testing.T) {
		router, m := newTestServer(t)
		m.reset.EXPECT().ResetPassword(gomock.Any(), "juan@example.com", "reset.jwt", "newsecret1").Return(nil)

		rec := serve(router, jsonRequest(t, http.MethodPost, "/auth/reset-password-security-questions",
			models.ResetPasswordSecurityQuestionsRequest{Email: "juan@example.com", ResetToken: "reset.jwt", NewPassword: "newsecret1"}))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, app.MsgPasswordResetSuccess, decodeBody[models.MessageResponse](t, rec).Message)
	})
}
