package service

import (
	"context"

	"github.com/MKhiriev/agricheck/internal/logger"
	"github.com/MKhiriev/agricheck/models"
)

const healthStatusOK = "ok"

type appInfoService struct {
	appVersion string
	classifier Classifier

	logger *logger.Logger
}

// NewAppInfoService reports version and classifier readiness. An empty
// version is reported as "N/A".
func NewAppInfoService(buildInfo models.AppBuildInfo, version string, classifier Classifier, logger *logger.Logger) AppInfoService {
	if version == "" {
		version = buildInfo.BuildVersion()
	}

	return &appInfoService{
		appVersion: version,
		classifier: classifier,
		logger:     logger,
	}
}

func (s *appInfoService) GetAppVersion(ctx context.Context) string {
	return s.appVersion
}

// Health always reports status "ok". A server without a loaded model is
// alive but not ready.
func (s *appInfoService) Health(ctx context.Context) models.HealthResponse {
	return models.HealthResponse{
		Status:     healthStatusOK,
		ModelReady: s.classifier.Ready(),
		Model:      s.classifier.ModelName(),
		Version:    s.appVersion,
	}
}
