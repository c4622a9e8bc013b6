package models

import "time"

// HealthyDiseaseName is the display name the classifier reports for leaves
// without disease. Statistics count scans with this name as healthy crops.
const HealthyDiseaseName = "Healthy"

// Scan is a persisted diagnosis result. Rows are immutable except for
// deletion.
type Scan struct {
	// ScanID is the UUIDv7 identifier of the scan.
	ScanID string `json:"id"`

	// UserID is the owner of the scan.
	UserID string `json:"user_id"`

	// ImagePath is the image store key of the uploaded photo. Empty for
	// manually saved results.
	ImagePath string `json:"image_path"`

	// DiseaseName is the display name of the predicted class.
	DiseaseName string `json:"disease_name"`

	// Confidence is the prediction confidence in percent (0–100).
	Confidence float64 `json:"confidence"`

	// Recommendations is the guidance text shown to the farmer.
	Recommendations *string `json:"recommendations"`

	// CreatedAt is the time the scan was recorded.
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the name of the database table
// associated with the Scan model.
func (s Scan) TableName() string {
	return "scans"
}

// ScanSort selects the ordering of a history listing. Both orders are
// descending.
type ScanSort string

const (
	ScanSortByDate       ScanSort = "date"
	ScanSortByConfidence ScanSort = "confidence"
)

// ScanHistoryQuery describes one page of a user's scan history.
type ScanHistoryQuery struct {
	UserID string

	// Limit is the page size, 1..100.
	Limit int

	// Offset is the number of rows skipped, ≥ 0.
	Offset int

	// Disease filters by case-insensitive substring of the disease name.
	// Empty means no filter.
	Disease string

	SortBy ScanSort
}

// ScanHistory is a page of scans plus the total number of rows matching the
// filter before pagination.
type ScanHistory struct {
	Scans []Scan `json:"scans"`
	Total int    `json:"total"`
}

// ScanImage is the stored photo of a scan with its media type.
type ScanImage struct {
	Data      []byte
	MediaType string
}

// ImageUpload is a photo received from the client.
type ImageUpload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// UserStats summarizes a user's scans.
type UserStats struct {
	TotalScans   int `json:"total_scans"`
	HealthyCrops int `json:"healthy_crops"`
	Diseases     int `json:"diseases"`
	Reports      int `json:"reports"`
}
