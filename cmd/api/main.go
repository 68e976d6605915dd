package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/joho/godotenv"
	"github.com/joshua-takyi/tripdesk/internal/config"
	"github.com/joshua-takyi/tripdesk/internal/connect"
	"github.com/joshua-takyi/tripdesk/internal/container"
	"github.com/joshua-takyi/tripdesk/internal/helpers"
	"github.com/joshua-takyi/tripdesk/internal/routes"
	"github.com/lmittmann/tint"
	"go.mongodb.org/mongo-driver/mongo"
)

func main() {
	// Load environment variables
	_ = godotenv.Load(".env.local")

	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := setupLogger(cfg)
	logger.Info("Starting Tripdesk API server", "environment", cfg.Environment)

	rootCtx, stop := context.WithCancel(context.Background())
	defer stop()

	supaClient, err := connect.InitSupabase(cfg)
	if err != nil {
		logger.Error("Failed to connect to Supabase", "error", err)
		os.Exit(1)
	}
	logger.Info("Connected to Supabase successfully")

	var mongoClient *mongo.Client
	if cfg.MongoEnabled() {
		mongoClient, err = connect.MongoDBConnect(rootCtx, cfg)
		if err != nil {
			logger.Error("Failed to connect to MongoDB", "error", err)
			os.Exit(1)
		}
		logger.Info("Connected to MongoDB successfully")
	} else {
		logger.Warn("MONGODB_URI not set, view tracking and saved trips are disabled")
	}

	var cld *cloudinary.Cloudinary
	if cfg.CloudinaryEnabled() {
		cld, err = connect.CloudinaryCredentials(cfg)
		if err != nil {
			logger.Error("Failed to initialize Cloudinary", "error", err)
			os.Exit(1)
		}
		logger.Info("Trip images stored in Cloudinary", "cloud", cfg.CloudinaryName)
	}

	validator := helpers.NewTokenValidator(rootCtx, cfg.SupabaseURL, cfg.SupabaseJWTKey, cfg.IsDevelopment(), logger)
	defer validator.Close()

	appContainer := container.NewContainer(logger, cfg, supaClient, mongoClient, cld, validator)

	if mongoClient != nil {
		idxCtx, cancel := context.WithTimeout(rootCtx, 15*time.Second)
		if err := appContainer.Views.EnsureIndexes(idxCtx); err != nil {
			logger.Error("Failed to create MongoDB indexes", "error", err)
		}
		cancel()
	}

	router := routes.SetupRoutes(appContainer)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	if err := connect.MongoDBDisconnect(mongoClient); err != nil {
		logger.Error("Error disconnecting from MongoDB", "error", err)
	}

	logger.Info("Server exited")
}

func setupLogger(cfg *config.Config) *slog.Logger {
	level := parseLevel(cfg.LogLevel)

	var handler slog.Handler
	if cfg.IsProduction() {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	} else {
		handler = tint.NewHandler(os.Stdout, &tint.Options{Level: slog.LevelDebug, TimeFormat: time.Kitchen})
	}
	return slog.New(handler)
}

func parseLevel(raw string) slog.Level {
	switch strings.ToLower(raw) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}
