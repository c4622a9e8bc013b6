// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/MKhiriev/agricheck/internal/imaging"
	"github.com/MKhiriev/agricheck/internal/inference"
	"github.com/MKhiriev/agricheck/internal/logger"
	"github.com/MKhiriev/agricheck/internal/store"
	"github.com/MKhiriev/agricheck/internal/utils"
	"github.com/MKhiriev/agricheck/models"
)

// Acceptance rules applied to a prediction before it is stored.
const (
	// PredictionThreshold is the probability passed to the classifier for
	// its IsConfident flag.
	PredictionThreshold = 0.65

	// MinConfidence is the lowest top-class percentage that is stored.
	MinConfidence = 50.0

	// A prediction is ambiguous when the top two classes are closer than
	// UncertaintyGap points and the top class is below UncertaintyCeiling.
	UncertaintyGap     = 15.0
	UncertaintyCeiling = 60.0
)

// History paging bounds.
const (
	DefaultHistoryLimit = 50
	MaxHistoryLimit     = 100
)

const defaultUploadExt = ".jpg"

// scanService runs uploaded photos through the gate and the classifier and
// manages the resulting scan records.
//
// An upload is written to the image store before it is assessed. Every path
// that does not end in a stored scan removes it again.
type scanService struct {
	scanRepository store.ScanRepository
	images         store.ImageStore
	gate           ImageGate
	classifier     Classifier

	// imageKey returns a fresh image store key with the given extension.
	imageKey func(ext string) string

	logger *logger.Logger
}

func NewScanService(scanRepository store.ScanRepository, images store.ImageStore, gate ImageGate, classifier Classifier, logger *logger.Logger) ScanService {
	return &scanService{
		scanRepository: scanRepository,
		images:         images,
		gate:           gate,
		classifier:     classifier,
		imageKey:       utils.NewUUIDGenerator().Filename,
		logger:         logger,
	}
}

func (s *scanService) Scan(ctx context.Context, userID string, upload models.ImageUpload) (models.Scan, error) {
	log := logger.FromContext(ctx)

	if !strings.HasPrefix(upload.ContentType, "image/") {
		return models.Scan{}, ErrFileNotImage
	}

	key := s.imageKey(uploadExt(upload.Filename))
	if err := s.images.Save(ctx, key, upload.Data, upload.ContentType); err != nil {
		log.Err(err).Str("key", key).Msg("error saving uploaded image")
		return models.Scan{}, fmt.Errorf("%w: %w", ErrScanProcessing, err)
	}

	stored := false
	defer func() {
		if stored {
			return
		}
		if err := s.images.Delete(context.WithoutCancel(ctx), key); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("error removing rejected upload")
		}
	}()

	assessment := s.gate.Assess(ctx, upload.Data)
	if !assessment.Accepted {
		log.Info().
			Str("reason", assessment.Reason.String()).
			Float64("blur_score", assessment.BlurScore).
			Float64("green_ratio", assessment.GreenRatio).
			Float64("edge_density", assessment.EdgeDensity).
			Msg("upload rejected by image gate")
		return models.Scan{}, rejectionFromAssessment(assessment)
	}

	if !s.classifier.Ready() {
		log.Warn().Str("model", s.classifier.ModelName()).Msg("scan requested while classifier is in mock mode")
		return models.Scan{}, ErrModelNotReady
	}

	prediction, err := s.classifier.Predict(ctx, upload.Data, PredictionThreshold)
	if errors.Is(err, inference.ErrInvalidImage) {
		return models.Scan{}, &RejectionError{Err: ErrImageUndecodable}
	}
	if err != nil {
		log.Err(err).Msg("error running classifier")
		return models.Scan{}, fmt.Errorf("%w: %w", ErrScanProcessing, err)
	}

	if err = checkPrediction(prediction); err != nil {
		log.Info().Err(err).Str("disease", prediction.DiseaseName).Msg("prediction rejected")
		return models.Scan{}, err
	}

	recommendations := prediction.Recommendations
	scan, err := s.scanRepository.CreateScan(ctx, models.Scan{
		UserID:          userID,
		ImagePath:       key,
		DiseaseName:     prediction.DiseaseName,
		Confidence:      prediction.Confidence,
		Recommendations: &recommendations,
	})
	if err != nil {
		log.Err(err).Msg("error saving scan")
		return models.Scan{}, fmt.Errorf("%w: %w", ErrScanProcessing, err)
	}

	stored = true
	log.Info().
		Str("scan_id", scan.ScanID).
		Str("disease", scan.DiseaseName).
		Float64("confidence", scan.Confidence).
		Bool("soft_blur", assessment.SoftBlur).
		Msg("scan stored")
	return scan, nil
}

// SaveScan stores a result computed elsewhere. Such scans have no image.
func (s *scanService) SaveScan(ctx context.Context, userID string, request models.SaveScanRequest) (models.Scan, error) {
	if request.DiseaseName == "" || request.Confidence < 0 || request.Confidence > 100 {
		return models.Scan{}, ErrInvalidDataProvided
	}

	scan, err := s.scanRepository.CreateScan(ctx, models.Scan{
		UserID:          userID,
		DiseaseName:     request.DiseaseName,
		Confidence:      request.Confidence,
		Recommendations: request.Recommendations,
	})
	if err != nil {
		logger.FromContext(ctx).Err(err).Msg("error saving scan")
		return models.Scan{}, fmt.Errorf("%w: %w", ErrInternal, err)
	}
	return scan, nil
}

func (s *scanService) History(ctx context.Context, query models.ScanHistoryQuery) (models.ScanHistory, error) {
	if query.Limit == 0 {
		query.Limit = DefaultHistoryLimit
	}
	if query.SortBy == "" {
		query.SortBy = models.ScanSortByDate
	}
	if query.Limit < 1 || query.Limit > MaxHistoryLimit || query.Offset < 0 {
		return models.ScanHistory{}, ErrInvalidHistoryQuery
	}
	if query.SortBy != models.ScanSortByDate && query.SortBy != models.ScanSortByConfidence {
		return models.ScanHistory{}, ErrInvalidHistoryQuery
	}

	history, err := s.scanRepository.ListScans(ctx, query)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("user_id", query.UserID).Msg("error listing scans")
		return models.ScanHistory{}, fmt.Errorf("%w: %w", ErrInternal, err)
	}
	return history, nil
}

// Image returns the stored photo of one of the user's scans.
func (s *scanService) Image(ctx context.Context, userID, scanID string) (models.ScanImage, error) {
	scan, err := s.findScan(ctx, userID, scanID, ErrScanNotFound)
	if err != nil {
		return models.ScanImage{}, err
	}
	if scan.ImagePath == "" {
		return models.ScanImage{}, ErrImageNotFound
	}

	img, err := s.images.Load(ctx, scan.ImagePath)
	if errors.Is(err, store.ErrImageNotFound) || errors.Is(err, store.ErrInvalidImageKey) {
		logger.FromContext(ctx).Warn().Str("scan_id", scanID).Str("key", scan.ImagePath).Msg("scan image missing from store")
		return models.ScanImage{}, ErrImageNotFound
	}
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("key", scan.ImagePath).Msg("error loading scan image")
		return models.ScanImage{}, fmt.Errorf("%w: %w", ErrInternal, err)
	}
	return img, nil
}

func (s *scanService) Diseases(ctx context.Context, userID string) ([]string, error) {
	diseases, err := s.scanRepository.ListDiseases(ctx, userID)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("user_id", userID).Msg("error listing diseases")
		return nil, fmt.Errorf("%w: %w", ErrInternal, err)
	}
	return diseases, nil
}

// DeleteScan removes one of the user's scans. Removing its image is best
// effort and never fails the call.
func (s *scanService) DeleteScan(ctx context.Context, userID, scanID string) error {
	log := logger.FromContext(ctx)

	scan, err := s.findScan(ctx, userID, scanID, ErrScanNotOwned)
	if err != nil {
		return err
	}

	if scan.ImagePath != "" {
		if err = s.images.Delete(ctx, scan.ImagePath); err != nil {
			log.Warn().Err(err).Str("key", scan.ImagePath).Msg("error removing scan image")
		}
	}

	err = s.scanRepository.DeleteScan(ctx, userID, scanID)
	if errors.Is(err, store.ErrScanNotFound) {
		return ErrScanNotOwned
	}
	if err != nil {
		log.Err(err).Str("scan_id", scanID).Msg("error deleting scan")
		return fmt.Errorf("%w: %w", ErrInternal, err)
	}

	log.Info().Str("scan_id", scanID).Msg("scan deleted")
	return nil
}

func (s *scanService) findScan(ctx context.Context, userID, scanID string, notFound error) (models.Scan, error) {
	scan, err := s.scanRepository.FindScan(ctx, userID, scanID)
	if errors.Is(err, store.ErrScanNotFound) {
		return models.Scan{}, notFound
	}
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("scan_id", scanID).Msg("error finding scan")
		return models.Scan{}, fmt.Errorf("%w: %w", ErrInternal, err)
	}
	return scan, nil
}

func rejectionFromAssessment(a imaging.Assessment) error {
	switch a.Reason {
	case imaging.ReasonTooBlurry:
		return &RejectionError{Err: ErrImageTooBlurry, BlurScore: a.BlurScore}
	case imaging.ReasonNotLeaf:
		return &RejectionError{Err: ErrImageNotLeaf}
	case imaging.ReasonTooLarge:
		return &RejectionError{Err: ErrImageTooLarge}
	default:
		return &RejectionError{Err: ErrImageUndecodable}
	}
}

// checkPrediction applies the low-confidence and ambiguity rules.
func checkPrediction(p models.Prediction) error {
	if p.Confidence < MinConfidence {
		return &RejectionError{Err: ErrLowConfidence, Confidence: p.Confidence}
	}

	_, second, ok := p.RunnerUp()
	if !ok {
		return nil
	}
	top := p.ConfidenceRaw * 100
	if top-second < UncertaintyGap && top < UncertaintyCeiling {
		return &RejectionError{Err: ErrUncertainDiagnosis, Confidence: top, RunnerUpConfidence: second}
	}
	return nil
}

// uploadExt returns the extension of the client file name. An empty name
// yields .jpg. Extensions with anything but letters and digits are dropped.
func uploadExt(filename string) string {
	if filename == "" {
		return defaultUploadExt
	}
	ext := filepath.Ext(filename)
	for _, r := range strings.TrimPrefix(ext, ".") {
		if !('a' <= r && r <= 'z' || 'A' <= r && r <= 'Z' || '0' <= r && r <= '9') {
			return ""
		}
	}
	return ext
}
