package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/agricheck/internal/logger"
	"github.com/MKhiriev/agricheck/internal/store"
	"github.com/MKhiriev/agricheck/models"
)

type userService struct {
	userRepository store.UserRepository
	scanRepository store.ScanRepository
	hasher         CredentialHasher

	logger *logger.Logger
}

func NewUserService(userRepository store.UserRepository, scanRepository store.ScanRepository, hasher CredentialHasher, logger *logger.Logger) UserService {
	return &userService{
		userRepository: userRepository,
		scanRepository: scanRepository,
		hasher:         hasher,
		logger:         logger,
	}
}

func (s *userService) Profile(ctx context.Context, userID string) (models.User, error) {
	user, err := s.userRepository.FindUserByID(ctx, userID)
	if err != nil {
		return models.User{}, s.mapUserError(ctx, userID, err)
	}
	return user, nil
}

func (s *userService) UpdateProfile(ctx context.Context, userID, name string) (models.User, error) {
	user, err := s.userRepository.UpdateName(ctx, userID, name)
	if err != nil {
		return models.User{}, s.mapUserError(ctx, userID, err)
	}

	logger.FromContext(ctx).Info().Str("user_id", userID).Msg("profile updated")
	return user, nil
}

// UpdateSecurityQuestions replaces the whole question set. Slots beyond the
// supplied pairs are cleared.
func (s *userService) UpdateSecurityQuestions(ctx context.Context, userID string, pairs []models.SecurityQuestionAnswer) error {
	if len(pairs) == 0 || len(pairs) > models.SecurityQuestionCount {
		return ErrInvalidDataProvided
	}

	questions, answerHashes, err := hashSecurityQuestions(s.hasher, pairs)
	if err != nil {
		logger.FromContext(ctx).Err(err).Msg("error hashing security answers")
		return fmt.Errorf("%w: %w", ErrInternal, err)
	}

	if err = s.userRepository.UpdateSecurityQuestions(ctx, userID, questions, answerHashes); err != nil {
		return s.mapUserError(ctx, userID, err)
	}

	logger.FromContext(ctx).Info().Str("user_id", userID).Msg("security questions updated")
	return nil
}

func (s *userService) Stats(ctx context.Context, userID string) (models.UserStats, error) {
	stats, err := s.scanRepository.Stats(ctx, userID)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("user_id", userID).Msg("error computing user stats")
		return models.UserStats{}, fmt.Errorf("%w: %w", ErrInternal, err)
	}
	return stats, nil
}

func (s *userService) mapUserError(ctx context.Context, userID string, err error) error {
	if errors.Is(err, store.ErrUserNotFound) {
		return ErrSessionUserNotFound
	}
	logger.FromContext(ctx).Err(err).Str("user_id", userID).Msg("user repository error")
	return fmt.Errorf("%w: %w", ErrInternal, err)
}
