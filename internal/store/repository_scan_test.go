package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/agricheck/internal/logger"
	"github.com/MKhiriev/agricheck/models"
)

var scanRowColumns = []string{"scan_id", "user_id", "image_path", "disease_name", "confidence", "recommendations", "created_at"}

func newTestScanRepo(t *testing.T) (*scanRepository, sqlmock.Sqlmock) {
	db, mock := newMockDB(t)
	return &scanRepository{DB: db, ids: fixedIDs{id: "scan-1"}, logger: logger.Nop()}, mock
}

func TestCreateScan(t *testing.T) {
	repo, mock := newTestScanRepo(t)
	advice := "Magpatuloy sa regular na pagdidilig."

	mock.ExpectExec("INSERT INTO scans").
		WithArgs("scan-1", "user-1", "a.jpg", "Healthy", 91.5, advice, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	scan, err := repo.CreateScan(context.Background(), models.Scan{
		UserID:          "user-1",
		ImagePath:       "a.jpg",
		DiseaseName:     "Healthy",
		Confidence:      91.5,
		Recommendations: &advice,
	})
	require.NoError(t, err)

	assert.Equal(t, "scan-1", scan.ScanID)
	assert.False(t, scan.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateScan_NilRecommendations(t *testing.T) {
	repo, mock := newTestScanRepo(t)

	mock.ExpectExec("INSERT INTO scans").
		WithArgs("scan-1", "user-1", "", "Leaf Blast", 70.0, nil, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	_, err := repo.CreateScan(context.Background(), models.Scan{UserID: "user-1", DiseaseName: "Leaf Blast", Confidence: 70})

	require.NoError(t, err)
}

func TestCreateScan_Error(t *testing.T) {
	repo, mock := newTestScanRepo(t)

	mock.ExpectExec("INSERT INTO scans").WillReturnError(errors.New("foreign key violation"))

	_, err := repo.CreateScan(context.Background(), models.Scan{UserID: "ghost"})

	assert.ErrorIs(t, err, ErrExecutingStatement)
}

func TestFindScan(t *testing.T) {
	repo, mock := newTestScanRepo(t)
	created := time.Date(2026, 2, 10, 5, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT (.+) FROM scans\\s+WHERE scan_id = \\$1 AND user_id = \\$2").
		WithArgs("scan-1", "user-1").
		WillReturnRows(sqlmock.NewRows(scanRowColumns).
			AddRow("scan-1", "user-1", "a.png", "Tungro Virus", 88.2, nil, created))

	scan, err := repo.FindScan(context.Background(), "user-1", "scan-1")
	require.NoError(t, err)

	assert.Equal(t, "Tungro Virus", scan.DiseaseName)
	assert.Nil(t, scan.Recommendations)
	assert.Equal(t, created, scan.CreatedAt)
}

func TestFindScan_OtherOwner(t *testing.T) {
	repo, mock := newTestScanRepo(t)

	mock.ExpectQuery("SELECT (.+) FROM scans").
		WithArgs("scan-1", "intruder").
		WillReturnRows(sqlmock.NewRows(scanRowColumns))

	_, err := repo.FindScan(context.Background(), "intruder", "scan-1")

	assert.ErrorIs(t, err, ErrScanNotFound)
}

func TestListScans(t *testing.T) {
	repo, mock := newTestScanRepo(t)
	now := time.Now().UTC()

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM scans").
		WithArgs("user-1", "%blast%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectQuery("SELECT scan_id, (.+) FROM scans WHERE (.+) ORDER BY confidence DESC, created_at DESC, scan_id DESC LIMIT 2 OFFSET 1").
		WithArgs("user-1", "%blast%").
		WillReturnRows(sqlmock.NewRows(scanRowColumns).
			AddRow("s2", "user-1", "b.jpg", "Leaf Blast", 90.0, "advice", now).
			AddRow("s3", "user-1", "c.jpg", "Leaf Blast", 75.0, nil, now))

	history, err := repo.ListScans(context.Background(), models.ScanHistoryQuery{
		UserID:  "user-1",
		Limit:   2,
		Offset:  1,
		Disease: "BLAST",
		SortBy:  models.ScanSortByConfidence,
	})
	require.NoError(t, err)

	assert.Equal(t, 3, history.Total)
	require.Len(t, history.Scans, 2)
	assert.Equal(t, "s2", history.Scans[0].ScanID)
	require.NotNil(t, history.Scans[0].Recommendations)
	assert.Equal(t, "advice", *history.Scans[0].Recommendations)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListScans_EmptyPageIsNotNil(t *testing.T) {
	repo, mock := newTestScanRepo(t)

	mock.ExpectQuery("SELECT COUNT").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery("SELECT scan_id").
		WillReturnRows(sqlmock.NewRows(scanRowColumns))

	history, err := repo.ListScans(context.Background(), models.ScanHistoryQuery{UserID: "user-1", Limit: 50})
	require.NoError(t, err)

	assert.NotNil(t, history.Scans)
	assert.Empty(t, history.Scans)
}

func TestListScans_CountFailure(t *testing.T) {
	repo, mock := newTestScanRepo(t)

	mock.ExpectQuery("SELECT COUNT").WillReturnError(errors.New("timeout"))

	_, err := repo.ListScans(context.Background(), models.ScanHistoryQuery{UserID: "user-1", Limit: 50})

	assert.ErrorIs(t, err, ErrExecutingQuery)
}

func TestListScans_RowError(t *testing.T) {
	repo, mock := newTestScanRepo(t)

	mock.ExpectQuery("SELECT COUNT").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectQuery("SELECT scan_id").
		WillReturnRows(sqlmock.NewRows(scanRowColumns).
			AddRow("s1", "user-1", "", "Healthy", 99.0, nil, time.Now()).
			RowError(0, errors.New("connection reset")))

	_, err := repo.ListScans(context.Background(), models.ScanHistoryQuery{UserID: "user-1", Limit: 50})

	assert.ErrorIs(t, err, ErrScanningRows)
}

func TestListDiseases(t *testing.T) {
	repo, mock := newTestScanRepo(t)

	mock.ExpectQuery("SELECT DISTINCT disease_name").
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"disease_name"}).AddRow("Healthy").AddRow("Leaf Blast"))

	diseases, err := repo.ListDiseases(context.Background(), "user-1")

	require.NoError(t, err)
	assert.Equal(t, []string{"Healthy", "Leaf Blast"}, diseases)
}

func TestDeleteScan(t *testing.T) {
	repo, mock := newTestScanRepo(t)

	mock.ExpectExec("DELETE FROM scans WHERE scan_id = \\$1 AND user_id = \\$2").
		WithArgs("scan-1", "user-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.DeleteScan(context.Background(), "user-1", "scan-1"))
}

func TestDeleteScan_NotOwned(t *testing.T) {
	repo, mock := newTestScanRepo(t)

	mock.ExpectExec("DELETE FROM scans").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.DeleteScan(context.Background(), "intruder", "scan-1")

	assert.ErrorIs(t, err, ErrScanNotFound)
}

func TestStats(t *testing.T) {
	repo, mock := newTestScanRepo(t)

	mock.ExpectQuery("SELECT COUNT\\(\\*\\),").
		WithArgs(models.HealthyDiseaseName, "user-1").
		WillReturnRows(sqlmock.NewRows([]string{"count", "healthy"}).AddRow(7, 4))

	stats, err := repo.Stats(context.Background(), "user-1")
	require.NoError(t, err)

	assert.Equal(t, models.UserStats{TotalScans: 7, HealthyCrops: 4, Diseases: 3, Reports: 7}, stats)
}
