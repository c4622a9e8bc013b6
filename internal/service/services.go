package service

import (
	"fmt"

	"github.com/MKhiriev/agricheck/internal/config"
	"github.com/MKhiriev/agricheck/internal/logger"
	"github.com/MKhiriev/agricheck/internal/security"
	"github.com/MKhiriev/agricheck/internal/store"
	"github.com/MKhiriev/agricheck/models"
)

type Services struct {
	AuthService          AuthService
	PasswordResetService PasswordResetService
	UserService          UserService
	ScanService          ScanService
	AppInfoService       AppInfoService
}

// NewServices wires the services to the storages, the image gate and the
// loaded classifier.
func NewServices(storages *store.Storages, gate ImageGate, classifier Classifier, buildInfo models.AppBuildInfo, cfg config.StructuredConfig, logger *logger.Logger) (*Services, error) {
	tokens, err := security.NewTokenIssuer(cfg.App.TokenSignKey, cfg.App.TokenIssuer)
	if err != nil {
		return nil, fmt.Errorf("error creating token issuer: %w", err)
	}
	hasher := security.NewHasher()

	return &Services{
		AuthService:          NewAuthService(storages.UserRepository, hasher, tokens, cfg.App.TokenDuration, logger),
		PasswordResetService: NewPasswordResetService(storages.UserRepository, hasher, tokens, logger),
		UserService:          NewUserService(storages.UserRepository, storages.ScanRepository, hasher, logger),
		ScanService:          NewScanService(storages.ScanRepository, storages.ImageStore, gate, classifier, logger),
		AppInfoService:       NewAppInfoService(buildInfo, cfg.App.Version, classifier, logger),
	}, nil
}
