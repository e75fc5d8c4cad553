// Package main initializes and starts the SettlementKeeper user-data
// server, setting up configuration, logging, database connections,
// repositories, services, and handlers.
package main

import (
	"cmp"
	"context"
	"fmt"
	"time"

	nethttp "net/http"

	"github.com/avdeyev/SettlementKeeper/internal/config"
	"github.com/avdeyev/SettlementKeeper/internal/db"
	"github.com/avdeyev/SettlementKeeper/internal/logger"
	"github.com/avdeyev/SettlementKeeper/internal/repository"
	"github.com/avdeyev/SettlementKeeper/internal/server/handler/http"
	"github.com/avdeyev/SettlementKeeper/internal/service"
	"go.uber.org/zap"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

func main() {
	// Parse command-line and environment configuration.
	options := config.Parse()
	addr := options.Port
	dbName := options.DatabaseDSN

	// Print build metadata (or "N/A" if unset).
	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	// Initialize structured logging.
	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init("Info"); err != nil {
		log.Log.Fatal("failed to init logger", zap.Error(err))
	}
	zapLogger := log.Log

	// Initialize PostgreSQL connection.
	postgresDB, err := db.InitPostgres(dbName)
	if err != nil {
		zapLogger.Fatal("cannot init database", zap.Error(err))
	}

	// Purge soft-deleted settlements in the background.
	db.StartSoftDeleteCleaner(context.Background(), postgresDB,
		time.Hour,       // interval
		30*24*time.Hour, // retention: 30 days
		zapLogger,
	)

	// Initialize repositories for accounts and settlement data.
	authRepo := repository.NewPostgresAuthRepository(postgresDB)
	userDataRepo := repository.NewPostgresUserDataRepository(postgresDB)

	// Initialize business-logic services.
	authService := service.NewAuthService(authRepo)
	userDataService := service.NewUserDataService(userDataRepo)

	// Create HTTP handlers for registration and user-data endpoints.
	authHandler := &http.AuthHandler{AuthService: authService}
	userDataHandler := &http.UserDataHandler{UserDataService: userDataService}

	// Build the router with middleware and routes.
	router := http.NewRouter(authHandler, userDataHandler, authService, zapLogger)

	server := &nethttp.Server{
		Addr:    addr,
		Handler: router,
	}

	zapLogger.Info("starting HTTP server", zap.String("addr", addr))
	if err := server.ListenAndServe(); err != nil {
		zapLogger.Fatal("failed to start HTTP server", zap.Error(err))
	}
}
