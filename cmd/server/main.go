package main

import (
	"context"
	"fmt"

	"github.com/MKhiriev/agricheck/internal/config"
	"github.com/MKhiriev/agricheck/internal/handler"
	"github.com/MKhiriev/agricheck/internal/imaging"
	"github.com/MKhiriev/agricheck/internal/inference"
	"github.com/MKhiriev/agricheck/internal/logger"
	"github.com/MKhiriev/agricheck/internal/server"
	"github.com/MKhiriev/agricheck/internal/service"
	"github.com/MKhiriev/agricheck/internal/store"
	"github.com/MKhiriev/agricheck/internal/workers"
	"github.com/MKhiriev/agricheck/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewLogger("agricheck-server")
	cfg, err := config.GetStructuredConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	log.Debug().
		Str("http_address", cfg.Server.HTTPAddress).
		Str("grpc_address", cfg.Server.GRPCAddress).
		Str("model_path", cfg.App.ModelPath).
		Dur("janitor_interval", cfg.Workers.JanitorInterval).
		Msg("received configs")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	storages, err := store.NewStorages(ctx, cfg.Storage, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating storages")
	}
	defer func() {
		if err := storages.Close(); err != nil {
			log.Err(err).Msg("error closing storages")
		}
	}()

	classifier := inference.NewAdapter(ctx, cfg.App, log)
	defer func() {
		if err := classifier.Close(); err != nil {
			log.Err(err).Msg("error closing classifier")
		}
	}()

	buildInfo := models.NewAppBuildInfo(buildVersion, buildDate, buildCommit)
	services, err := service.NewServices(storages, imaging.NewGate(log), classifier, buildInfo, *cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating services")
	}

	handlers, err := handler.NewHandlers(services, *cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating handlers")
	}

	srv, err := server.NewServer(ctx, handlers, cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}

	background := workers.NewWorkers(storages, cfg.Workers, log)
	workersDone := make(chan struct{})
	go func() {
		background.Run(ctx)
		close(workersDone)
	}()

	// blocks until a stop signal
	srv.RunServer()

	cancel()
	<-workersDone
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}

	if buildDate == "" {
		buildDate = "N/A"
	}

	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
