// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/MKhiriev/agricheck/internal/logger"
	"github.com/MKhiriev/agricheck/internal/security"
	"github.com/MKhiriev/agricheck/internal/store"
	"github.com/MKhiriev/agricheck/models"
)

// MinPasswordLength is the minimum number of characters of a new password
// after trimming.
const MinPasswordLength = 8

// passwordResetService implements PasswordResetService.
//
// Both pathways share one redemption: the supplied token must equal the
// token persisted on the user row, the persisted expiry must be in the
// future and the signature, purpose and subject must verify. The repository
// clears the token in the same statement that stores the new password hash.
type passwordResetService struct {
	userRepository store.UserRepository
	hasher         CredentialHasher
	tokens         TokenManager

	now func() time.Time

	logger *logger.Logger
}

func NewPasswordResetService(userRepository store.UserRepository, hasher CredentialHasher, tokens TokenManager, logger *logger.Logger) PasswordResetService {
	return &passwordResetService{
		userRepository: userRepository,
		hasher:         hasher,
		tokens:         tokens,
		now:            time.Now,
		logger:         logger,
	}
}

// SecurityQuestions returns the configured questions of the account. Unknown
// emails yield an empty list so the endpoint cannot be used to probe for
// accounts.
func (s *passwordResetService) SecurityQuestions(ctx context.Context, email string) ([]models.SecurityQuestion, error) {
	user, err := s.userRepository.FindUserByEmail(ctx, email)
	if errors.Is(err, store.ErrUserNotFound) {
		return []models.SecurityQuestion{}, nil
	}
	if err != nil {
		logger.FromContext(ctx).Err(err).Msg("error finding user by email")
		return nil, fmt.Errorf("%w: %w", ErrInternal, err)
	}

	return user.ConfiguredSecurityQuestions(), nil
}

// VerifySecurityAnswer checks the answer for the question at index and, on
// success, issues and persists a reset token.
func (s *passwordResetService) VerifySecurityAnswer(ctx context.Context, email string, index int, answer string) (string, error) {
	log := logger.FromContext(ctx)

	user, err := s.findUser(ctx, email)
	if err != nil {
		return "", err
	}

	if index < 0 || index >= models.SecurityQuestionCount {
		return "", ErrInvalidQuestionIndex
	}
	if !user.HasSecurityQuestion(index) {
		return "", ErrSecurityQuestionNotSet
	}
	if !s.hasher.VerifySecurityAnswer(answer, user.SecurityAnswerHashes[index]) {
		log.Info().Str("user_id", user.UserID).Int("question_index", index).Msg("wrong security answer")
		return "", ErrWrongSecurityAnswer
	}

	return s.issueResetToken(ctx, user)
}

// ResetPassword redeems resetToken for the account of email.
func (s *passwordResetService) ResetPassword(ctx context.Context, email, resetToken, newPassword string) error {
	if err := validateNewPassword(newPassword); err != nil {
		return err
	}

	user, err := s.findUser(ctx, email)
	if err != nil {
		return err
	}

	return s.redeem(ctx, user, resetToken, newPassword)
}

// ForgotPassword issues and persists a reset token for email. For an unknown
// email it returns an empty token and no error.
func (s *passwordResetService) ForgotPassword(ctx context.Context, email string) (string, error) {
	user, err := s.userRepository.FindUserByEmail(ctx, email)
	if errors.Is(err, store.ErrUserNotFound) {
		logger.FromContext(ctx).Info().Msg("password reset requested for unknown email")
		return "", nil
	}
	if err != nil {
		logger.FromContext(ctx).Err(err).Msg("error finding user by email")
		return "", fmt.Errorf("%w: %w", ErrInternal, err)
	}

	return s.issueResetToken(ctx, user)
}

// ResetPasswordWithToken takes the email from the signed token and redeems it
// like ResetPassword.
func (s *passwordResetService) ResetPasswordWithToken(ctx context.Context, resetToken, newPassword string) error {
	if err := validateNewPassword(newPassword); err != nil {
		return err
	}

	email, err := s.tokens.Verify(resetToken, models.PurposePasswordReset)
	if err != nil {
		logger.FromContext(ctx).Debug().Err(err).Msg("reset token rejected")
		return ErrInvalidResetToken
	}

	user, err := s.findUser(ctx, email)
	if err != nil {
		return err
	}

	return s.redeem(ctx, user, resetToken, newPassword)
}

func (s *passwordResetService) findUser(ctx context.Context, email string) (models.User, error) {
	user, err := s.userRepository.FindUserByEmail(ctx, email)
	if errors.Is(err, store.ErrUserNotFound) {
		return models.User{}, ErrUserNotFound
	}
	if err != nil {
		logger.FromContext(ctx).Err(err).Msg("error finding user by email")
		return models.User{}, fmt.Errorf("%w: %w", ErrInternal, err)
	}
	return user, nil
}

func (s *passwordResetService) issueResetToken(ctx context.Context, user models.User) (string, error) {
	log := logger.FromContext(ctx)

	token, err := s.tokens.Issue(user.Email, security.ResetTokenTTL, models.PurposePasswordReset)
	if err != nil {
		log.Err(err).Msg("error issuing reset token")
		return "", fmt.Errorf("%w: %w", ErrInternal, err)
	}

	if err = s.userRepository.SetResetToken(ctx, user.UserID, token.SignedString, token.ExpiresAt); err != nil {
		log.Err(err).Str("user_id", user.UserID).Msg("error persisting reset token")
		return "", fmt.Errorf("%w: %w", ErrInternal, err)
	}

	log.Info().Str("user_id", user.UserID).Time("expires_at", token.ExpiresAt).Msg("reset token issued")
	return token.SignedString, nil
}

func (s *passwordResetService) redeem(ctx context.Context, user models.User, resetToken, newPassword string) error {
	log := logger.FromContext(ctx)

	if user.ResetToken == "" || user.ResetToken != resetToken {
		return ErrInvalidResetToken
	}
	if _, active := user.ActiveResetToken(s.now()); !active {
		return ErrResetTokenExpired
	}

	email, err := s.tokens.Verify(resetToken, models.PurposePasswordReset)
	if err != nil || email != user.Email {
		log.Info().Str("user_id", user.UserID).Msg("reset token failed verification")
		return ErrInvalidResetToken
	}

	passwordHash, err := s.hasher.HashPassword(newPassword)
	if err != nil {
		log.Err(err).Msg("error hashing new password")
		return fmt.Errorf("%w: %w", ErrPasswordUpdateFailed, err)
	}

	err = s.userRepository.RedeemResetToken(ctx, user.UserID, resetToken, passwordHash)
	if errors.Is(err, store.ErrResetTokenMismatch) {
		log.Info().Str("user_id", user.UserID).Msg("reset token already redeemed")
		return ErrInvalidResetToken
	}
	if err != nil {
		log.Err(err).Str("user_id", user.UserID).Msg("error updating password")
		return fmt.Errorf("%w: %w", ErrPasswordUpdateFailed, err)
	}

	log.Info().Str("user_id", user.UserID).Msg("password reset")
	return nil
}

func validateNewPassword(password string) error {
	trimmed := strings.TrimSpace(password)
	if trimmed == "" {
		return ErrEmptyPassword
	}
	if utf8.RuneCountInString(trimmed) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	return nil
}
