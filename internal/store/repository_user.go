package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/agricheck/internal/logger"
	"github.com/MKhiriev/agricheck/models"
)

// userRepository is the SQL implementation of [UserRepository] over the
// "users" table. It works unchanged on PostgreSQL and SQLite.
//
// All methods obtain a context-scoped logger via [logger.FromContext] for
// structured, request-level tracing of database interactions.
type userRepository struct {
	db     *DB
	ids    idGenerator
	logger *logger.Logger
}

// NewUserRepository constructs a [UserRepository] backed by the provided
// database connection and logger.
func NewUserRepository(db *DB, ids idGenerator, logger *logger.Logger) UserRepository {
	logger.Debug().Msg("creating user repository")
	return &userRepository{
		db:     db,
		ids:    ids,
		logger: logger,
	}
}

// CreateUser assigns an id and creation time, inserts the account and
// returns it.
//
// A unique violation on email maps to [ErrEmailAlreadyExists].
func (r *userRepository) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	log := logger.FromContext(ctx)

	user.UserID = r.ids.Generate()
	user.CreatedAt = time.Now().UTC()
	if user.Role == "" {
		user.Role = models.RoleUser
	}

	_, err := r.db.ExecContext(ctx, createUser,
		user.UserID, user.Email, user.Name, user.PasswordHash, user.Role,
		nullString(user.SecurityQuestions[0]), nullString(user.SecurityQuestions[1]), nullString(user.SecurityQuestions[2]),
		nullString(user.SecurityAnswerHashes[0]), nullString(user.SecurityAnswerHashes[1]), nullString(user.SecurityAnswerHashes[2]),
		user.CreatedAt,
	)
	if err != nil {
		if r.db.errorClassificator.IsUniqueViolation(err) {
			log.Warn().Str("func", "*userRepository.CreateUser").Msg("email already registered")
			return models.User{}, ErrEmailAlreadyExists
		}
		log.Err(err).Str("func", "*userRepository.CreateUser").Msg("error inserting user")
		return models.User{}, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return user, nil
}

// FindUserByEmail returns the account registered with email or
// [ErrUserNotFound].
func (r *userRepository) FindUserByEmail(ctx context.Context, email string) (models.User, error) {
	return r.findUser(ctx, "*userRepository.FindUserByEmail", findUserByEmail, email)
}

// FindUserByID returns the account with userID or [ErrUserNotFound].
func (r *userRepository) FindUserByID(ctx context.Context, userID string) (models.User, error) {
	return r.findUser(ctx, "*userRepository.FindUserByID", findUserByID, userID)
}

func (r *userRepository) findUser(ctx context.Context, fn, query string, arg string) (models.User, error) {
	log := logger.FromContext(ctx)

	user, err := scanUser(r.db.QueryRowContext(ctx, query, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrUserNotFound
	}
	if err != nil {
		log.Err(err).Str("func", fn).Msg("error: scanning error")
		return models.User{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return user, nil
}

// UpdateName changes the display name and returns the updated account.
func (r *userRepository) UpdateName(ctx context.Context, userID, name string) (models.User, error) {
	if err := r.execAffectingUser(ctx, "*userRepository.UpdateName", updateUserName, name, userID); err != nil {
		return models.User{}, err
	}
	return r.FindUserByID(ctx, userID)
}

// UpdateSecurityQuestions replaces all three question slots. Empty strings
// clear a slot.
func (r *userRepository) UpdateSecurityQuestions(ctx context.Context, userID string, questions, answerHashes [models.SecurityQuestionCount]string) error {
	return r.execAffectingUser(ctx, "*userRepository.UpdateSecurityQuestions", updateSecurityQuestions,
		nullString(questions[0]), nullString(questions[1]), nullString(questions[2]),
		nullString(answerHashes[0]), nullString(answerHashes[1]), nullString(answerHashes[2]),
		userID,
	)
}

func (r *userRepository) SetResetToken(ctx context.Context, userID, token string, expires time.Time) error {
	return r.execAffectingUser(ctx, "*userRepository.SetResetToken", setResetToken, token, expires.UTC(), userID)
}

// RedeemResetToken updates the password and clears the reset token inside a
// transaction guarded by the stored token value. Zero affected rows means
// the token was already redeemed or replaced.
func (r *userRepository) RedeemResetToken(ctx context.Context, userID, token, passwordHash string) error {
	log := logger.FromContext(ctx)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).Str("func", "*userRepository.RedeemResetToken").Msg("failed to begin transaction")
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, redeemResetToken, passwordHash, userID, token)
	if err != nil {
		log.Err(err).Str("func", "*userRepository.RedeemResetToken").Msg("failed to update password")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	if affected == 0 {
		log.Warn().Str("func", "*userRepository.RedeemResetToken").Str("user_id", userID).Msg("reset token no longer stored")
		return ErrResetTokenMismatch
	}

	if commitErr := tx.Commit(); commitErr != nil {
		log.Err(commitErr).Str("func", "*userRepository.RedeemResetToken").Msg("failed to commit transaction")
		return fmt.Errorf("%w: %w", ErrCommitingTransaction, commitErr)
	}

	log.Info().Str("func", "*userRepository.RedeemResetToken").Str("user_id", userID).Msg("password reset")
	return nil
}

func (r *userRepository) ClearExpiredResetTokens(ctx context.Context, now time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx, clearExpiredResetTokens, now.UTC())
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	return result.RowsAffected()
}

// execAffectingUser runs a single-row UPDATE and maps zero affected rows to
// [ErrUserNotFound].
func (r *userRepository) execAffectingUser(ctx context.Context, fn, query string, args ...any) error {
	log := logger.FromContext(ctx)

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", fn).Msg("failed to execute statement")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	if affected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func scanUser(row *sql.Row) (models.User, error) {
	var (
		user      models.User
		questions [models.SecurityQuestionCount]sql.NullString
		answers   [models.SecurityQuestionCount]sql.NullString
		token     sql.NullString
		expires   sql.NullTime
	)

	err := row.Scan(
		&user.UserID, &user.Email, &user.Name, &user.PasswordHash, &user.Role,
		&questions[0], &questions[1], &questions[2],
		&answers[0], &answers[1], &answers[2],
		&token, &expires, &user.CreatedAt,
	)
	if err != nil {
		return models.User{}, err
	}

	for i := range questions {
		user.SecurityQuestions[i] = questions[i].String
		user.SecurityAnswerHashes[i] = answers[i].String
	}
	if token.Valid && expires.Valid {
		exp := expires.Time.UTC()
		user.ResetToken = token.String
		user.ResetTokenExpires = &exp
	}
	user.CreatedAt = user.CreatedAt.UTC()

	return user, nil
}

// nullString stores empty strings as NULL.
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
