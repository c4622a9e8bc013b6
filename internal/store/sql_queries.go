package store

import (
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/agricheck/models"
)

// Positional $n placeholders are used for both backends. SQLite numbers
// parameters by first appearance, so every query introduces $1, $2, ...
// in ascending order.
const (
	createUser = `INSERT INTO users (user_id, email, name, password_hash, role,
        security_question_1, security_question_2, security_question_3,
        security_answer_1, security_answer_2, security_answer_3, created_at)
    VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);`

	userColumns = `user_id, email, name, password_hash, role,
        security_question_1, security_question_2, security_question_3,
        security_answer_1, security_answer_2, security_answer_3,
        reset_token, reset_token_expires, created_at`

	findUserByEmail = `SELECT ` + userColumns + `
    FROM users
    WHERE email = $1;`

	findUserByID = `SELECT ` + userColumns + `
    FROM users
    WHERE user_id = $1;`

	updateUserName = `UPDATE users SET name = $1 WHERE user_id = $2;`

	updateSecurityQuestions = `UPDATE users
    SET security_question_1 = $1, security_question_2 = $2, security_question_3 = $3,
        security_answer_1 = $4, security_answer_2 = $5, security_answer_3 = $6
    WHERE user_id = $7;`

	setResetToken = `UPDATE users
    SET reset_token = $1, reset_token_expires = $2
    WHERE user_id = $3;`

	redeemResetToken = `UPDATE users
    SET password_hash = $1, reset_token = NULL, reset_token_expires = NULL
    WHERE user_id = $2 AND reset_token = $3;`

	clearExpiredResetTokens = `UPDATE users
    SET reset_token = NULL, reset_token_expires = NULL
    WHERE reset_token_expires IS NOT NULL AND reset_token_expires < $1;`

	createScan = `INSERT INTO scans (scan_id, user_id, image_path, disease_name, confidence, recommendations, created_at)
    VALUES ($1, $2, $3, $4, $5, $6, $7);`

	scanColumns = `scan_id, user_id, image_path, disease_name, confidence, recommendations, created_at`

	findScan = `SELECT ` + scanColumns + `
    FROM scans
    WHERE scan_id = $1 AND user_id = $2;`

	listDiseases = `SELECT DISTINCT disease_name
    FROM scans
    WHERE user_id = $1
    ORDER BY disease_name;`

	deleteScan = `DELETE FROM scans WHERE scan_id = $1 AND user_id = $2;`

	userStats = `SELECT COUNT(*),
        COALESCE(SUM(CASE WHEN disease_name = $1 THEN 1 ELSE 0 END), 0)
    FROM scans
    WHERE user_id = $2;`
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// likeEscaper escapes LIKE wildcards so user input matches literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// scanHistoryFilter restricts a query to the user's scans and, when set,
// to disease names containing q.Disease case-insensitively.
func scanHistoryFilter(q models.ScanHistoryQuery) sq.And {
	filter := sq.And{sq.Eq{"user_id": q.UserID}}
	if q.Disease != "" {
		pattern := "%" + likeEscaper.Replace(strings.ToLower(q.Disease)) + "%"
		filter = append(filter, sq.Expr(`LOWER(disease_name) LIKE ? ESCAPE '\'`, pattern))
	}
	return filter
}

// buildScanHistoryQuery builds the page query of a history listing. Both
// sort orders are descending; created_at breaks confidence ties.
func buildScanHistoryQuery(q models.ScanHistoryQuery) (string, []any, error) {
	orderBy := []string{"created_at DESC", "scan_id DESC"}
	if q.SortBy == models.ScanSortByConfidence {
		orderBy = append([]string{"confidence DESC"}, orderBy...)
	}

	query, args, err := psql.
		Select(strings.Split(scanColumns, ", ")...).
		From("scans").
		Where(scanHistoryFilter(q)).
		OrderBy(orderBy...).
		Limit(uint64(q.Limit)).
		Offset(uint64(q.Offset)).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

// buildScanCountQuery counts the rows matching the history filter before
// pagination.
func buildScanCountQuery(q models.ScanHistoryQuery) (string, []any, error) {
	query, args, err := psql.
		Select("COUNT(*)").
		From("scans").
		Where(scanHistoryFilter(q)).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}
