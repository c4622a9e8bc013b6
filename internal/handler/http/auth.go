// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"

	"github.com/MKhiriev/agricheck/internal/app"
	"github.com/MKhiriev/agricheck/models"
)

const tokenTypeBearer = "bearer"

// register creates an account and responds with 201 and the public user.
func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var request models.RegisterRequest
	if !h.decodeAndValidate(w, r, &request) {
		return
	}

	user, err := h.services.AuthService.RegisterUser(r.Context(), request)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	h.writeJSON(w, r, user, http.StatusCreated)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var request models.LoginRequest
	if !h.decodeAndValidate(w, r, &request) {
		return
	}

	token, err := h.services.AuthService.Login(r.Context(), request.Email, request.Password)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	h.writeJSON(w, r, models.TokenResponse{AccessToken: token.SignedString, TokenType: tokenTypeBearer}, http.StatusOK)
}

// forgotPassword answers 200 with the same message whether or not the
// account exists. The reset token is only included for a known email.
func (h *Handler) forgotPassword(w http.ResponseWriter, r *http.Request) {
	var request models.ForgotPasswordRequest
	if !h.decodeAndValidate(w, r, &request) {
		return
	}

	resetToken, err := h.services.PasswordResetService.ForgotPassword(r.Context(), request.Email)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	h.writeJSON(w, r, models.ForgotPasswordResponse{
		Message:    app.MsgForgotPasswordAccepted,
		ResetToken: resetToken,
	}, http.StatusOK)
}

func (h *Handler) resetPassword(w http.ResponseWriter, r *http.Request) {
	var request models.ResetPasswordRequest
	if !h.decodeAndValidate(w, r, &request) {
		return
	}

	if err := h.services.PasswordResetService.ResetPasswordWithToken(r.Context(), request.Token, request.NewPassword); err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	h.writeJSON(w, r, models.MessageResponse{Message: app.MsgPasswordResetSuccess}, http.StatusOK)
}

func (h *Handler) securityQuestions(w http.ResponseWriter, r *http.Request) {
	var request models.ForgotPasswordRequest
	if !h.decodeAndValidate(w, r, &request) {
		return
	}

	questions, err := h.services.PasswordResetService.SecurityQuestions(r.Context(), request.Email)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	if questions == nil {
		questions = []models.SecurityQuestion{}
	}

	h.writeJSON(w, r, models.SecurityQuestionsResponse{Questions: questions}, http.StatusOK)
}

func (h *Handler) verifySecurityAnswer(w http.ResponseWriter, r *http.Request) {
	var request models.VerifySecurityAnswerRequest
	if !h.decodeAndValidate(w, r, &request) {
		return
	}

	resetToken, err := h.services.PasswordResetService.VerifySecurityAnswer(r.Context(), request.Email, request.QuestionIndex, request.Answer)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	h.writeJSON(w, r, models.ResetTokenResponse{ResetToken: resetToken}, http.StatusOK)
}

func (h *Handler) resetPasswordSecurityQuestions(w http.ResponseWriter, r *http.Request) {
	var request models.ResetPasswordSecurityQuestionsRequest
	if !h.decodeAndValidate(w, r, &request) {
		return
	}

	err := h.services.PasswordResetService.ResetPassword(r.Context(), request.Email, request.ResetToken, request.NewPassword)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	h.writeJSON(w, r, models.MessageResponse{Message: app.MsgPasswordResetSuccess}, http.StatusOK)
}
