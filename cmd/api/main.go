package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-jobboard-backend/config"
	_ "go-jobboard-backend/docs" // Important for Swagger
	v1 "go-jobboard-backend/internal/delivery/http/v1"
	"go-jobboard-backend/internal/domain"
	"go-jobboard-backend/internal/repository/postgres"
	"go-jobboard-backend/internal/usecase"
	"go-jobboard-backend/migrations"
	"go-jobboard-backend/pkg/auth"
	"go-jobboard-backend/pkg/database"
	"go-jobboard-backend/pkg/logger"
	"go-jobboard-backend/pkg/redis"
	"go-jobboard-backend/pkg/security"
	"go-jobboard-backend/pkg/security/antivirus"
	"go-jobboard-backend/pkg/storage"
	"go-jobboard-backend/pkg/validation"

	"github.com/gin-gonic/gin"
)

// @title           Job Board API
// @version         1.0
// @description     Job board backend: accounts, profiles, jobs, saved jobs and applications.
// @host            localhost:3000
// @BasePath        /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Setup Loggers
	logger.Init(cfg.LogLevel)
	logger.Log.Info("Starting job board backend", "port", cfg.Port)

	env := "development"
	if gin.Mode() == gin.ReleaseMode {
		env = "production"
	}
	secLog := security.InitSecurityLogger("jobboard-api", env)
	defer secLog.Sync()

	ctx := context.Background()

	// 3. Setup Database
	dbPool, err := database.NewPostgresConnection(ctx, cfg.DBUrl)
	if err != nil {
		logger.Log.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	if cfg.AutoMigrate {
		if err := database.Migrate(ctx, dbPool, migrations.FS); err != nil {
			logger.Log.Error("Failed to apply migrations", "error", err)
			os.Exit(1)
		}
	}

	// 4. Setup Redis (optional)
	var revoked auth.RevocationStore = auth.NewMemoryRevocationStore()
	var loginTracker *security.LoginTracker
	if cfg.RedisURL != "" {
		if err := redis.Initialize(redis.Config{URL: cfg.RedisURL, Password: cfg.RedisPassword}); err != nil {
			logger.Log.Warn("Redis unavailable, using in-memory rate limiting and token revocation", "error", err)
		} else {
			revoked = auth.NewRedisRevocationStore(redis.Client())
			loginTracker = security.NewLoginTracker(security.DefaultLoginTrackerConfig(), redis.Client())
			defer redis.Close()
		}
	}

	if loginTracker == nil {
		loginTracker = security.NewLoginTracker(security.DefaultLoginTrackerConfig(), nil)
	}

	// 5. Setup File Storage
	files, err := newFileStorage(ctx, cfg)
	if err != nil {
		logger.Log.Error("Failed to set up file storage", "driver", cfg.StorageDriver, "error", err)
		os.Exit(1)
	}

	// 6. Setup Repositories
	userRepo := postgres.NewUserRepository(dbPool)
	profileRepo := postgres.NewProfileRepository(dbPool)
	jobRepo := postgres.NewJobRepository(dbPool)
	savedJobRepo := postgres.NewSavedJobRepository(dbPool)
	applicationRepo := postgres.NewApplicationRepository(dbPool)

	// 7. Setup UseCases
	validate := validation.New()
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTExpiresIn)

	authUC := usecase.NewAuthUsecase(userRepo, profileRepo, tokens, revoked, validate, secLog, loginTracker)
	profileUC := usecase.NewProfileUsecase(profileRepo, files, validate, secLog)
	jobUC := usecase.NewJobUsecase(jobRepo, validate)
	savedJobUC := usecase.NewSavedJobUsecase(savedJobRepo)
	applicationUC := usecase.NewApplicationUsecase(applicationRepo, files, validate)
	healthUC := usecase.NewHealthUsecase(
		map[string]usecase.HealthCheck{"database": dbPool.Ping},
		map[string]usecase.HealthCheck{"redis": redis.HealthCheck},
	)

	// 8. Setup Router
	router := v1.NewRouter(v1.RouterDeps{
		AuthUC:        authUC,
		ProfileUC:     profileUC,
		JobUC:         jobUC,
		SavedJobUC:    savedJobUC,
		ApplicationUC: applicationUC,
		HealthUC:      healthUC,
		Tokens:        tokens,
		Revoked:       revoked,
		Config:        cfg,
	})

	// 9. Start Server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Error("Listen failed", "error", err)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Server forced to shutdown", "error", err)
	}

	logger.Log.Info("Server exiting")
}

func newFileStorage(ctx context.Context, cfg *config.Config) (domain.FileStorage, error) {
	var backend storage.Backend
	if cfg.StorageDriver == "s3" {
		s3Storage, err := storage.NewS3Storage(ctx, storage.S3Config{
			Provider:        storage.S3Provider(cfg.S3Provider),
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretKey,
			Region:          cfg.S3Region,
			Bucket:          cfg.S3Bucket,
			PublicURL:       cfg.S3PublicURL,
			WasabiEndpoint:  cfg.WasabiEndpoint,
		})
		if err != nil {
			return nil, err
		}
		backend = s3Storage
	} else {
		local, err := storage.NewLocalStorage(cfg.UploadDir, cfg.PublicBaseURL)
		if err != nil {
			return nil, err
		}
		backend = local
	}

	if cfg.ClamAVAddress == "" {
		return backend, nil
	}
	scanner := antivirus.NewClamAVScanner(cfg.ClamAVAddress)
	if !scanner.Available(ctx) {
		logger.Log.Warn("ClamAV not reachable at startup, uploads will fail until it is", "address", cfg.ClamAVAddress)
	}
	return storage.NewScanningStorage(backend, scanner), nil
}
