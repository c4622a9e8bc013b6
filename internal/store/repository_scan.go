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

// scanRepository is the SQL implementation of [ScanRepository] over the
// "scans" table. Every read and delete is scoped to the owning user.
type scanRepository struct {
	*DB
	ids    idGenerator
	logger *logger.Logger
}

func NewScanRepository(db *DB, ids idGenerator, logger *logger.Logger) ScanRepository {
	return &scanRepository{
		DB:     db,
		ids:    ids,
		logger: logger,
	}
}

// CreateScan assigns an id and creation time and inserts the scan.
func (s *scanRepository) CreateScan(ctx context.Context, scan models.Scan) (models.Scan, error) {
	log := logger.FromContext(ctx)

	scan.ScanID = s.ids.Generate()
	scan.CreatedAt = time.Now().UTC()

	var recommendations sql.NullString
	if scan.Recommendations != nil {
		recommendations = sql.NullString{String: *scan.Recommendations, Valid: true}
	}

	_, err := s.DB.ExecContext(ctx, createScan,
		scan.ScanID, scan.UserID, scan.ImagePath, scan.DiseaseName, scan.Confidence, recommendations, scan.CreatedAt)
	if err != nil {
		log.Err(err).
			Str("func", "scanRepository.CreateScan").
			Str("user_id", scan.UserID).
			Msg("failed to insert scan")
		return models.Scan{}, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	log.Debug().
		Str("func", "scanRepository.CreateScan").
		Str("scan_id", scan.ScanID).
		Str("disease", scan.DiseaseName).
		Msg("scan saved")

	return scan, nil
}

// FindScan returns the scan with scanID if it belongs to userID, otherwise
// [ErrScanNotFound].
func (s *scanRepository) FindScan(ctx context.Context, userID, scanID string) (models.Scan, error) {
	log := logger.FromContext(ctx)

	scan, err := scanScan(s.DB.QueryRowContext(ctx, findScan, scanID, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Scan{}, ErrScanNotFound
	}
	if err != nil {
		log.Err(err).
			Str("func", "scanRepository.FindScan").
			Str("scan_id", scanID).
			Msg("failed to scan row")
		return models.Scan{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return scan, nil
}

// ListScans returns one page of the user's history and the number of rows
// matching the filter before pagination.
func (s *scanRepository) ListScans(ctx context.Context, q models.ScanHistoryQuery) (models.ScanHistory, error) {
	log := logger.FromContext(ctx)

	countQuery, countArgs, err := buildScanCountQuery(q)
	if err != nil {
		return models.ScanHistory{}, err
	}

	var total int
	if err = s.DB.QueryRowContext(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		log.Err(err).
			Str("func", "scanRepository.ListScans").
			Str("user_id", q.UserID).
			Msg("failed to count scans")
		return models.ScanHistory{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	query, args, err := buildScanHistoryQuery(q)
	if err != nil {
		return models.ScanHistory{}, err
	}

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "scanRepository.ListScans").
			Str("user_id", q.UserID).
			Msg("failed to execute history query")
		return models.ScanHistory{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	scans := make([]models.Scan, 0, q.Limit)
	for rows.Next() {
		scan, scanErr := scanScan(rows)
		if scanErr != nil {
			log.Err(scanErr).
				Str("func", "scanRepository.ListScans").
				Str("user_id", q.UserID).
				Msg("failed to scan history row")
			return models.ScanHistory{}, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}
		scans = append(scans, scan)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).
			Str("func", "scanRepository.ListScans").
			Str("user_id", q.UserID).
			Msg("error occurred during rows iteration")
		return models.ScanHistory{}, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return models.ScanHistory{Scans: scans, Total: total}, nil
}

// ListDiseases returns the distinct disease names of the user's scans in
// alphabetical order.
func (s *scanRepository) ListDiseases(ctx context.Context, userID string) ([]string, error) {
	rows, err := s.DB.QueryContext(ctx, listDiseases, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	diseases := make([]string, 0, 4)
	for rows.Next() {
		var name string
		if err = rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		diseases = append(diseases, name)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return diseases, nil
}

// DeleteScan removes the scan if it belongs to userID, otherwise returns
// [ErrScanNotFound].
func (s *scanRepository) DeleteScan(ctx context.Context, userID, scanID string) error {
	log := logger.FromContext(ctx)

	result, err := s.DB.ExecContext(ctx, deleteScan, scanID, userID)
	if err != nil {
		log.Err(err).
			Str("func", "scanRepository.DeleteScan").
			Str("scan_id", scanID).
			Msg("failed to delete scan")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	if affected == 0 {
		return ErrScanNotFound
	}

	log.Info().
		Str("func", "scanRepository.DeleteScan").
		Str("scan_id", scanID).
		Str("user_id", userID).
		Msg("scan deleted")
	return nil
}

// Stats counts the user's scans. Reports equals the total number of scans.
func (s *scanRepository) Stats(ctx context.Context, userID string) (models.UserStats, error) {
	var total, healthy int
	if err := s.DB.QueryRowContext(ctx, userStats, models.HealthyDiseaseName, userID).Scan(&total, &healthy); err != nil {
		return models.UserStats{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return models.UserStats{
		TotalScans:   total,
		HealthyCrops: healthy,
		Diseases:     total - healthy,
		Reports:      total,
	}, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanScan(row rowScanner) (models.Scan, error) {
	var (
		scan            models.Scan
		recommendations sql.NullString
	)

	err := row.Scan(
		&scan.ScanID,
		&scan.UserID,
		&scan.ImagePath,
		&scan.DiseaseName,
		&scan.Confidence,
		&recommendations,
		&scan.CreatedAt,
	)
	if err != nil {
		return models.Scan{}, err
	}

	if recommendations.Valid {
		scan.Recommendations = &recommendations.String
	}
	scan.CreatedAt = scan.CreatedAt.UTC()

	return scan, nil
}
