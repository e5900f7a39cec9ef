package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/reclamo-io/platform/pkg/common/config"
	"github.com/reclamo-io/platform/pkg/common/database"
	"github.com/reclamo-io/platform/pkg/common/kafka"
	"github.com/reclamo-io/platform/pkg/common/logger"
	"github.com/reclamo-io/platform/pkg/common/middleware"
	"github.com/reclamo-io/platform/pkg/complaints"
	"github.com/reclamo-io/platform/pkg/enrichment"
)

func main() {
	_ = godotenv.Load()
	logger.Init()
	cfg := config.Load()

	db, err := database.GetPostgres()
	if err != nil {
		logger.Log.WithError(err).Fatal("failed to connect to postgres")
	}

	repo := complaints.NewRepository(db)
	if err := repo.AutoMigrate(); err != nil {
		logger.Log.WithError(err).Fatal("failed to migrate complaint tables")
	}

	rules, err := enrichment.LoadRules(cfg.ClassifierRulesPath)
	if err != nil {
		logger.Log.WithError(err).WithField("path", cfg.ClassifierRulesPath).
			Warn("failed to load classifier rules, using defaults")
	}

	llm := enrichment.NewLLMClient(enrichment.LLMConfig{
		APIKey:  cfg.LLMAPIKey,
		BaseURL: cfg.LLMBaseURL,
		Model:   cfg.LLMModelName,
		Timeout: cfg.ClassifierTimeout,
	})

	enricher := enrichment.NewEnricher(
		enrichment.NewSentimentClient(enrichment.SentimentConfig{
			APIKey:  cfg.SentimentAPIKey,
			BaseURL: cfg.SentimentBaseURL,
			Timeout: cfg.ClassifierTimeout,
		}),
		enrichment.NewCategoryClassifier(llm, rules),
		enrichment.NewSpamDetector(llm, rules),
		enrichment.NewGeoClient(enrichment.GeoConfig{
			BaseURL:  cfg.GeoBaseURL,
			Timeout:  cfg.ClassifierTimeout,
			CacheTTL: cfg.GeoCacheTTL,
		}, database.GetRedis()),
	)

	var producer *kafka.Producer
	if cfg.EventsEnabled {
		producer = kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer producer.Close()
	}

	var events complaints.EventPublisher
	if producer != nil {
		events = producer
	}

	svc := complaints.NewService(enricher, repo, events)
	handler := complaints.NewHTTPHandler(svc, cfg.AdminAPIKey, cfg.MaxRequestBody)

	router := mux.NewRouter()
	router.Use(middleware.Recovery, middleware.Logging)
	router.Use(middleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst))

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	}).Methods(http.MethodGet)

	router.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ready"}`))
	}).Methods(http.MethodGet)

	handler.Register(router)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Log.WithFields(map[string]interface{}{
			"host": cfg.ServerHost,
			"port": cfg.ServerPort,
		}).Info("Complaints Service started")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.WithError(err).Fatal("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("Shutting down Complaints Service...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Log.WithError(err).Error("server forced to shutdown")
	}

	database.ClosePostgres()
	database.CloseRedis()

	logger.Log.Info("Complaints Service stopped")
}
