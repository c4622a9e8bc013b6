package http

import (
	"time"

	"github.com/MKhiriev/agricheck/internal/config"
	"github.com/MKhiriev/agricheck/internal/logger"
	"github.com/MKhiriev/agricheck/internal/service"
	"github.com/MKhiriev/agricheck/internal/validators"
)

// multipartMemory is the part of a multipart upload kept in memory before
// spilling to temporary files.
const multipartMemory = 10 << 20

type Handler struct {
	services  *service.Services
	validator validators.Validator

	maxUploadSize  int64
	requestTimeout time.Duration
	corsOrigins    []string

	logger *logger.Logger
}

func NewHandler(services *service.Services, validator validators.Validator, cfg config.StructuredConfig, logger *logger.Logger) *Handler {
	logger.Info().Msg("http handler created")
	return &Handler{
		services:       services,
		validator:      validator,
		maxUploadSize:  cfg.Server.MaxUploadSize,
		requestTimeout: cfg.Server.RequestTimeout,
		corsOrigins:    cfg.App.CORSOrigins,
		logger:         logger,
	}
}
