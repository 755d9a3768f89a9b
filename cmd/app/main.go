package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"dispatch/cmd"
	httpin "dispatch/internal/adapters/in/http"
	"dispatch/internal/adapters/out/postgres"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

func main() {
	configs := getConfigs()
	logger := newLogger(configs.LogLevel)

	db, err := openDatabase(configs)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if configs.DBAutoMigrate {
		if err := postgres.Migrate(db); err != nil {
			log.Fatalf("Failed to migrate database: %v", err)
		}
	}

	app, err := cmd.NewCompositionRoot(configs, db, logger)
	if err != nil {
		log.Fatalf("Failed to build application: %v", err)
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Error("Failed to close application", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		_ = app.Sessions().Run(ctx)
	}()

	if consumer := app.CreateOfferConsumer(); consumer != nil {
		defer func() { _ = consumer.Close() }()
		go func() {
			if err := consumer.Start(ctx); err != nil {
				logger.Error("Offer consumer stopped", "error", err)
			}
		}()
	}

	jobManager := app.CreateJobManager()
	if err := jobManager.StartAll(); err != nil {
		log.Fatalf("Failed to start jobs: %v", err)
	}
	defer jobManager.StopAll()

	startWebServer(ctx, app, configs.HTTPPort, logger)
}

func getConfigs() cmd.Config {
	// A missing .env file is fine; the environment may be set directly.
	_ = godotenv.Load(".env")

	return cmd.Config{
		HTTPPort:                 envOr("HTTP_PORT", "8080"),
		DBHost:                   os.Getenv("DB_HOST"),
		DBPort:                   envOr("DB_PORT", "5432"),
		DBUser:                   os.Getenv("DB_USER"),
		DBPassword:               os.Getenv("DB_PASSWORD"),
		DBName:                   os.Getenv("DB_NAME"),
		DBSslMode:                envOr("DB_SSLMODE", "disable"),
		DBAutoMigrate:            envBool("DB_AUTO_MIGRATE"),
		KafkaHost:                os.Getenv("KAFKA_HOST"),
		KafkaConsumerGroup:       envOr("KAFKA_CONSUMER_GROUP", "dispatch"),
		KafkaOfferTopic:          envOr("KAFKA_OFFER_TOPIC", "driver.offers"),
		KafkaOfferOutcomeTopic:   envOr("KAFKA_OFFER_OUTCOME_TOPIC", "driver.offer-outcomes"),
		BatchOfferTimeoutSeconds: envInt("BATCH_OFFER_TIMEOUT_SECONDS", 15),
		OrderOfferTimeoutSeconds: envInt("ORDER_OFFER_TIMEOUT_SECONDS", 30),
		HubGridCenterLat:         envFloat("HUB_GRID_CENTER_LAT"),
		HubGridCenterLng:         envFloat("HUB_GRID_CENTER_LNG"),
		LogLevel:                 envOr("LOG_LEVEL", "info"),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	return err == nil && v
}

func envInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		log.Fatalf("Invalid %s: %v", key, err)
	}
	return v
}

func envFloat(key string) float64 {
	raw := os.Getenv(key)
	if raw == "" {
		return 0
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		log.Fatalf("Invalid %s: %v", key, err)
	}
	return v
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}

func openDatabase(configs cmd.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		configs.DBHost, configs.DBPort, configs.DBUser, configs.DBPassword, configs.DBName, configs.DBSslMode)
	return gorm.Open(gormpostgres.Open(dsn), &gorm.Config{})
}

func startWebServer(ctx context.Context, app *cmd.CompositionRoot, port string, logger *slog.Logger) {
	doc, err := httpin.LoadOpenAPI(ctx)
	if err != nil {
		log.Fatalf("Failed to load API description: %v", err)
	}
	validator, err := httpin.RequestValidator(doc)
	if err != nil {
		log.Fatalf("Failed to build request validator: %v", err)
	}
	if err := httpin.RegisterDocs(doc); err != nil {
		log.Fatalf("Failed to register API docs: %v", err)
	}

	e := echo.New()
	e.HideBanner = true
	app.CreateHTTPServer().Register(e, validator)

	go func() {
		if err := e.Start(fmt.Sprintf("0.0.0.0:%s", port)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			e.Logger.Fatal(err)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", "error", err)
	}
}
