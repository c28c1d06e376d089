package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/amaumene/openmovie/internal/config"
	"github.com/amaumene/openmovie/internal/controllers"
	"github.com/amaumene/openmovie/internal/mapper"
	"github.com/amaumene/openmovie/internal/metrics"
	"github.com/amaumene/openmovie/internal/models"
	"github.com/amaumene/openmovie/internal/repository"
	"github.com/amaumene/openmovie/internal/services/tmdb"
	"github.com/amaumene/openmovie/internal/telemetry"
	"github.com/amaumene/openmovie/internal/utils"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"
)

// app is the composition root shared by the commands
type app struct {
	cfg       *config.Config
	logger    *logrus.Logger
	registry  *prometheus.Registry
	telemetry *telemetry.Provider
	home      *controllers.HomeController
}

// newApp wires every component in dependency order. The controller starts
// both subscriptions before newApp returns.
func newApp(ctx context.Context, logOut io.Writer) (*app, error) {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	// 2. Setup logger
	logger := utils.NewLogger(cfg.LogLevel, logOut)
	logger.WithFields(logrus.Fields{
		"version":  version,
		"base_url": cfg.TMDBBaseURL,
		"language": cfg.Language,
	}).Info("Configuration loaded")

	// 3. Metrics and tracing
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	recorder := metrics.New(registry)

	tp := telemetry.NewProvider(telemetry.Config{
		Enabled:        cfg.TracingEnabled,
		ServiceName:    "openmovie",
		ServiceVersion: version,
	}, logger)

	// 4. Initialize services
	client, err := tmdb.NewClient(cfg, logger,
		tmdb.WithMetrics(recorder),
		tmdb.WithTracerProvider(tp.TracerProvider()),
	)
	if err != nil {
		tp.Shutdown(context.Background())
		return nil, fmt.Errorf("failed to initialize TMDb client: %w", err)
	}
	logger.Info("TMDb client initialized")

	// 5. Repository and controller
	genres := models.DefaultGenres()
	logger.WithField("genres", genres.Len()).Debug("Genre table loaded")
	repo := repository.NewMovieRepository(client, mapper.NewMovieMapper(genres),
		repository.Options{APIKey: cfg.TMDBAPIKey, IncludeAdult: cfg.IncludeAdult}, recorder, logger)
	home := controllers.NewHomeController(ctx, repo, recorder, logger)
	logger.Info("Home controller started")

	return &app{
		cfg:       cfg,
		logger:    logger,
		registry:  registry,
		telemetry: tp,
		home:      home,
	}, nil
}

// Close stops the controller and flushes spans
func (a *app) Close() {
	a.home.Close()
	if err := a.telemetry.Shutdown(context.Background()); err != nil {
		a.logger.WithError(err).Warn("Failed to shut down tracer provider")
	}
}
