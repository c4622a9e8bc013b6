package store

import "errors"

// Sentinel errors returned by repository methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrEmailAlreadyExists is returned when an attempt to register a new user
	// fails because a user with the same email already exists in the database.
	ErrEmailAlreadyExists = errors.New("email already exists")

	// ErrUserNotFound is returned when a query expected to match a user
	// record produces an empty result set.
	ErrUserNotFound = errors.New("user was not found")

	// ErrScanNotFound is returned when a scan does not exist or belongs to
	// another user. The two cases are not distinguished.
	ErrScanNotFound = errors.New("scan was not found")

	// ErrResetTokenMismatch is returned by RedeemResetToken when no row holds
	// the supplied token, typically because a concurrent redemption won.
	ErrResetTokenMismatch = errors.New("reset token does not match the stored token")

	// ErrImageNotFound is returned by image stores for unknown keys.
	ErrImageNotFound = errors.New("image was not found")

	// ErrInvalidImageKey is returned for keys that are empty or try to leave
	// the store's namespace.
	ErrInvalidImageKey = errors.New("invalid image key")
)

// Low-level database operation errors. These are returned (or wrapped) by
// repository methods when a SQL-level operation fails before any domain logic
// can be applied.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails.
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a SELECT or similar
	// read-only query against the database fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrBeginningTransaction is returned when the database driver cannot
	// start a new transaction.
	ErrBeginningTransaction = errors.New("failed to begin transaction")

	// ErrCommitingTransaction is returned when committing an open transaction
	// fails. The transaction is considered rolled back at this point.
	ErrCommitingTransaction = errors.New("failed to commit transaction")

	// ErrExecutingStatement is returned when executing a DML statement
	// (INSERT, UPDATE, DELETE) fails.
	ErrExecutingStatement = errors.New("failed to execute statement")

	// ErrScanningRow is returned when scanning column values from a single
	// result row into a destination struct fails.
	ErrScanningRow = errors.New("failed to scan row")

	// ErrScanningRows is returned when scanning column values during
	// multi-row iteration fails, typically mid-result-set.
	ErrScanningRows = errors.New("failed to scan rows")

	// ErrUnsupportedDialect is returned by migrations and connection setup
	// for an unknown SQL dialect.
	ErrUnsupportedDialect = errors.New("unsupported sql dialect")
)
