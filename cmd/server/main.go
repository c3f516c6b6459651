package main

import (
	"alcyxob/gym-membership/internal/api"
	"alcyxob/gym-membership/internal/config"
	"alcyxob/gym-membership/internal/logging"
	"alcyxob/gym-membership/internal/notify"
	"alcyxob/gym-membership/internal/repository/mongo"
	"alcyxob/gym-membership/internal/service"
	"alcyxob/gym-membership/internal/storage"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

// @title Gym Membership API
// @version 1.0
// @description Members, check-ins and attendance-driven training plans.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		slog.Error("config_load_failed", "error", err)
		os.Exit(1)
	}

	_, flush := logging.Setup(cfg.Log, cfg.Rollbar, version)
	defer flush()
	slog.Info("server_starting", "version", version, "address", cfg.Server.Address)

	loc, err := cfg.Gym.Location()
	if err != nil {
		fatal("timezone_invalid", err)
	}

	// --- Database Connection ---
	dbClient, err := mongo.ConnectDB(cfg.Database.URI)
	if err != nil {
		fatal("mongo_connect_failed", err)
	}
	defer func() {
		if err := mongo.DisconnectDB(dbClient); err != nil {
			slog.Error("mongo_disconnect_failed", "error", err)
		}
	}()
	appDB := dbClient.Database(cfg.Database.Name)
	slog.Info("mongo_connected", "database", cfg.Database.Name)

	// --- Ensure Indexes ---
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
		defer cancel()
		if err := mongo.EnsureIndexes(ctx, appDB); err != nil {
			slog.Error("index_creation_failed", "error", err)
			return
		}
		slog.Info("indexes_ready")
	}()

	// --- Report Storage ---
	var reports storage.ReportStorage
	if cfg.Reports.Enabled {
		reports, err = storage.NewS3Storage(context.Background(), cfg.S3)
		if err != nil {
			fatal("s3_init_failed", err)
		}
	}

	// --- Notifications ---
	sender, err := notify.NewSender(cfg.Notify)
	if err != nil {
		fatal("notify_init_failed", err)
	}
	dispatcher := notify.NewEmailDispatcher(sender, cfg.Notify.AppName)

	// --- Repositories and Services ---
	userRepo := mongo.NewMongoUserRepository(appDB)
	memberRepo := mongo.NewMongoMemberRepository(appDB)

	authService := service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.Expiration)
	memberService := service.NewMemberService(memberRepo)
	planService := service.NewPlanService(memberRepo, dispatcher, reports, loc)

	// --- HTTP ---
	if cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default() // Includes Logger and Recovery middleware
	api.SetupRoutes(router, loc, authService, memberService, planService)

	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second, // Completion sends mail and uploads the report inline
		IdleTimeout:  120 * time.Second,
	}

	// --- Graceful Shutdown ---
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fatal("listen_failed", err)
		}
	}()
	slog.Info("server_listening", "address", cfg.Server.Address)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("server_shutting_down")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		slog.Error("server_forced_shutdown", "error", err)
	}
	slog.Info("server_exited")
}

func fatal(event string, err error) {
	slog.Error(event, "error", err)
	os.Exit(1)
}
