package main

import (
	"log"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/rs/zerolog"

	"experiment-funnel-service/internal/amplitude"
	"experiment-funnel-service/internal/catalog"
	"experiment-funnel-service/internal/config"
	"experiment-funnel-service/internal/controller"
	"experiment-funnel-service/internal/export"
	httpserver "experiment-funnel-service/internal/http"
	"experiment-funnel-service/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()
	if cfg.AppMode == config.ModeDevelopment {
		logger = logger.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	funnels := amplitude.NewFunnelClient(cfg)
	experiments := amplitude.NewExperimentClient(cfg)
	resolver := service.NewExperimentResolver(experiments)
	loader := catalog.NewLoader(logger)

	analysisService := service.NewAnalysisService(funnels, resolver, loader, cfg, logger)
	analysisController := controller.NewAnalysisController(analysisService, resolver, export.Excel{})

	server := httpserver.NewServer(cfg, analysisController)

	logger.Info().Str("addr", cfg.HTTPPort).Msg("starting server")
	if err := server.Listen(cfg.HTTPPort); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}
