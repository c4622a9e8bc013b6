package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MKhiriev/agricheck/internal/logger"
	"github.com/MKhiriev/agricheck/internal/store"
	"github.com/MKhiriev/agricheck/models"
)

// authService is the concrete implementation of AuthService.
// It handles user registration, credential verification and access token
// lifecycle using a UserRepository for persistence.
type authService struct {
	// userRepository is the data-access layer used to create and look up users.
	userRepository store.UserRepository

	// hasher digests passwords and security answers with bcrypt.
	hasher CredentialHasher

	// tokens signs and verifies access tokens.
	tokens TokenManager

	// tokenDuration controls how long a newly issued access token remains
	// valid.
	tokenDuration time.Duration

	logger *logger.Logger
}

// NewAuthService constructs a new AuthService.
//
// The returned service is safe for concurrent use; all state is read-only after
// construction.
func NewAuthService(userRepository store.UserRepository, hasher CredentialHasher, tokens TokenManager, tokenDuration time.Duration, logger *logger.Logger) AuthService {
	return &authService{
		userRepository: userRepository,
		hasher:         hasher,
		tokens:         tokens,
		tokenDuration:  tokenDuration,
		logger:         logger,
	}
}

// RegisterUser creates a new account from request.
//
// The password and every security answer are hashed before persistence.
// Returns the persisted user (with a server-assigned UserID) or:
//   - ErrInvalidDataProvided if email or password is empty or more than
//     three security questions are supplied.
//   - ErrEmailAlreadyRegistered if the email is taken.
func (a *authService) RegisterUser(ctx context.Context, request models.RegisterRequest) (models.User, error) {
	log := logger.FromContext(ctx)

	if request.Email == "" || request.Password == "" || len(request.SecurityQuestions) > models.SecurityQuestionCount {
		log.Error().Str("email", request.Email).Msg("invalid registration data provided")
		return models.User{}, ErrInvalidDataProvided
	}

	passwordHash, err := a.hasher.HashPassword(request.Password)
	if err != nil {
		log.Err(err).Msg("error hashing password")
		return models.User{}, fmt.Errorf("%w: %w", ErrInternal, err)
	}

	questions, answerHashes, err := hashSecurityQuestions(a.hasher, request.SecurityQuestions)
	if err != nil {
		log.Err(err).Msg("error hashing security answers")
		return models.User{}, fmt.Errorf("%w: %w", ErrInternal, err)
	}

	user, err := a.userRepository.CreateUser(ctx, models.User{
		Email:                request.Email,
		Name:                 request.Name,
		PasswordHash:         passwordHash,
		SecurityQuestions:    questions,
		SecurityAnswerHashes: answerHashes,
	})
	if errors.Is(err, store.ErrEmailAlreadyExists) {
		log.Info().Str("email", request.Email).Msg("email already registered")
		return models.User{}, ErrEmailAlreadyRegistered
	}
	if err != nil {
		log.Err(err).Str("email", request.Email).Msg("user creation ended with error")
		return models.User{}, fmt.Errorf("%w: user creation ended with error: %w", ErrInternal, err)
	}

	log.Info().Str("user_id", user.UserID).Msg("user registered")
	return user, nil
}

// Login checks the credentials and issues an access token whose subject is
// the user id. An unknown email and a wrong password are indistinguishable
// to the caller.
func (a *authService) Login(ctx context.Context, email, password string) (models.Token, error) {
	log := logger.FromContext(ctx)

	user, err := a.userRepository.FindUserByEmail(ctx, email)
	if errors.Is(err, store.ErrUserNotFound) {
		log.Info().Str("email", email).Msg("login attempt for unknown email")
		return models.Token{}, ErrInvalidCredentials
	}
	if err != nil {
		log.Err(err).Msg("error finding user by email")
		return models.Token{}, fmt.Errorf("%w: %w", ErrInternal, err)
	}

	if !a.hasher.VerifyPassword(password, user.PasswordHash) {
		log.Info().Str("user_id", user.UserID).Msg("wrong password")
		return models.Token{}, ErrInvalidCredentials
	}

	token, err := a.tokens.Issue(user.UserID, a.tokenDuration, models.PurposeAccess)
	if err != nil {
		log.Err(err).Msg("error issuing access token")
		return models.Token{}, fmt.Errorf("%w: %w", ErrInternal, err)
	}

	return token, nil
}

// Authenticate verifies an access token and loads the user it was issued to.
func (a *authService) Authenticate(ctx context.Context, tokenString string) (models.User, error) {
	log := logger.FromContext(ctx)

	userID, err := a.tokens.Verify(tokenString, models.PurposeAccess)
	if err != nil {
		log.Debug().Err(err).Msg("access token rejected")
		return models.User{}, ErrInvalidAccessToken
	}

	user, err := a.userRepository.FindUserByID(ctx, userID)
	if errors.Is(err, store.ErrUserNotFound) {
		return models.User{}, ErrSessionUserNotFound
	}
	if err != nil {
		log.Err(err).Str("user_id", userID).Msg("error finding user of the session")
		return models.User{}, fmt.Errorf("%w: %w", ErrInternal, err)
	}

	return user, nil
}

// hashSecurityQuestions lays the supplied pairs into the fixed slots,
// trimming question texts and hashing normalized answers.
func hashSecurityQuestions(hasher CredentialHasher, pairs []models.SecurityQuestionAnswer) (questions, answerHashes [models.SecurityQuestionCount]string, err error) {
	for i, pair := range pairs {
		if i >= models.SecurityQuestionCount {
			break
		}
		question := strings.TrimSpace(pair.Question)
		if question == "" || strings.TrimSpace(pair.Answer) == "" {
			continue
		}
		digest, err := hasher.HashSecurityAnswer(pair.Answer)
		if err != nil {
			return questions, answerHashes, err
		}
		questions[i] = question
		answerHashes[i] = digest
	}
	return questions, answerHashes, nil
}
