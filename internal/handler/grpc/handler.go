// Package grpc exposes the standard gRPC health service for the agricheck
// server. The serving status of the classifier follows model readiness so
// orchestrators can route traffic away from an instance in mock mode.
package grpc

import (
	"context"

	"github.com/MKhiriev/agricheck/internal/logger"
	"github.com/MKhiriev/agricheck/internal/service"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// ClassifierService is the health service name reported for the classifier.
const ClassifierService = "agricheck.Classifier"

// Handler is the root gRPC transport handler.
//
// It owns a [health.Server]. The overall status ("") is SERVING while the
// process runs; [ClassifierService] is SERVING only when a model is loaded.
type Handler struct {
	services *service.Services
	health   *health.Server

	logger *logger.Logger
}

// NewHandler constructs a [Handler]. The services are not consulted until
// [Handler.Register].
func NewHandler(services *service.Services, logger *logger.Logger) *Handler {
	logger.Debug().Msg("gRPC handler created")
	return &Handler{
		services: services,
		health:   health.NewServer(),
		logger:   logger,
	}
}

// Register refreshes the serving status and attaches the health service to
// srv.
func (h *Handler) Register(ctx context.Context, srv *grpc.Server) {
	h.RefreshStatus(ctx)
	healthpb.RegisterHealthServer(srv, h.health)
}

// RefreshStatus sets the classifier status from the current model
// readiness.
func (h *Handler) RefreshStatus(ctx context.Context) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	report := h.services.AppInfoService.Health(ctx)
	if report.ModelReady {
		status = healthpb.HealthCheckResponse_SERVING
	}

	h.health.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	h.health.SetServingStatus(ClassifierService, status)
	h.logger.Info().Str("model", report.Model).Str("status", status.String()).Msg("gRPC health status updated")
}

// Shutdown marks every service NOT_SERVING. Later status updates are
// ignored.
func (h *Handler) Shutdown() {
	h.health.Shutdown()
}

// Health returns the health server, for in-process checks.
func (h *Handler) Health() healthpb.HealthServer {
	return h.health
}
