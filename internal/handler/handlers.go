package handler

import (
	"errors"

	"github.com/MKhiriev/agricheck/internal/config"
	"github.com/MKhiriev/agricheck/internal/handler/grpc"
	"github.com/MKhiriev/agricheck/internal/handler/http"
	"github.com/MKhiriev/agricheck/internal/logger"
	"github.com/MKhiriev/agricheck/internal/service"
	"github.com/MKhiriev/agricheck/internal/validators"
)

var errNoTransportAddress = errors.New("no HTTP or gRPC address configured")

// Handlers holds one handler per configured transport. A nil field means the
// transport is disabled.
type Handlers struct {
	HTTP *http.Handler
	GRPC *grpc.Handler
}

func NewHandlers(services *service.Services, cfg config.StructuredConfig, logger *logger.Logger) (*Handlers, error) {
	logger.Info().Msg("creating new handlers...")

	handlers := &Handlers{}

	if cfg.Server.HTTPAddress != "" {
		handlers.HTTP = http.NewHandler(services, validators.NewRequestValidator(), cfg, logger)
	}
	if cfg.Server.GRPCAddress != "" {
		handlers.GRPC = grpc.NewHandler(services, logger)
	}

	if handlers.HTTP == nil && handlers.GRPC == nil {
		return nil, errNoTransportAddress
	}

	return handlers, nil
}
