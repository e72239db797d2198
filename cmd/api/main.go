package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/octobees/vc-scout/internal/config"
	"github.com/octobees/vc-scout/internal/enrich"
	"github.com/octobees/vc-scout/internal/gemini"
	"github.com/octobees/vc-scout/internal/handler"
	"github.com/octobees/vc-scout/internal/logger"
	middlewarepkg "github.com/octobees/vc-scout/internal/middleware"
	"github.com/octobees/vc-scout/internal/repository"
	"github.com/octobees/vc-scout/internal/router"
	"github.com/octobees/vc-scout/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		zap.NewExample().Fatal("failed to load config", zap.Error(err))
	}

	log := logger.New(cfg.LogLevel, cfg.LogFormat)
	defer func() { _ = log.Sync() }()

	companiesRepo, err := repository.NewSeedCompaniesRepository(cfg.SeedFile)
	if err != nil {
		log.Fatal("failed to load company directory", zap.Error(err))
	}
	companiesService := service.NewCompaniesService(companiesRepo, nil)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	// Without a key both the generator and the model lister stay nil; the affected
	// endpoints answer 500 instead of failing startup.
	var (
		generator enrich.Generator
		lister    handler.ModelLister
	)
	if cfg.GeminiAPIKey != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		model, err := gemini.New(ctx, gemini.Config{
			APIKey:   cfg.GeminiAPIKey,
			Model:    cfg.GeminiModel,
			Endpoint: cfg.GeminiEndpoint,
		})
		cancel()
		if err != nil {
			log.Fatal("failed to create model client", zap.Error(err))
		}
		generator, lister = model, model
		log.Info("model client ready", zap.String("model", model.Model()))
	} else {
		log.Warn("GEMINI_API_KEY not set; enrichment requests will fail")
	}

	fetcher := enrich.NewFetcher(
		enrich.WithFetchTimeout(cfg.FetchTimeout),
		enrich.WithMaxFetchBytes(cfg.FetchMaxBytes),
		enrich.WithPrivateTargetsBlocked(cfg.FetchBlockPrivate),
	)
	enrichService := enrich.NewService(fetcher, generator,
		enrich.WithLogger(log.Named("enrich")),
		enrich.WithMetrics(enrich.NewMetrics(registry)),
		enrich.WithModelTimeout(cfg.ModelTimeout),
	)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middlewarepkg.RequestID())
	e.Use(middlewarepkg.Logging(log.Named("http")))
	e.Use(middlewarepkg.Metrics(registry))
	e.Use(echoMiddleware.Recover())

	router.Register(e, cfg, router.Handlers{
		Companies: handler.NewCompaniesHandler(companiesService),
		Import:    handler.NewImportHandler(),
		Enrich:    handler.NewEnrichHandler(enrichService, log.Named("enrich")),
		Models:    handler.NewModelsHandler(lister),
		Metrics:   promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
	})

	serverErr := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("port", cfg.Port))
		serverErr <- e.Start(":" + cfg.Port)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		log.Info("shutting down", zap.String("signal", sig.String()))
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server error", zap.Error(err))
		}
		return
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}
}
