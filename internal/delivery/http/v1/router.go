package v1

import (
	"net/http"
	"time"

	"go-jobboard-backend/config"
	"go-jobboard-backend/internal/delivery/http/middleware"
	"go-jobboard-backend/internal/delivery/http/response"
	"go-jobboard-backend/internal/domain"
	"go-jobboard-backend/internal/usecase"
	"go-jobboard-backend/pkg/auth"
	"go-jobboard-backend/pkg/metrics"
	"go-jobboard-backend/pkg/validation"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type RouterDeps struct {
	AuthUC        domain.AuthUsecase
	ProfileUC     domain.ProfileUsecase
	JobUC         domain.JobUsecase
	SavedJobUC    domain.SavedJobUsecase
	ApplicationUC domain.ApplicationUsecase
	HealthUC      usecase.HealthUsecase
	Tokens        *auth.TokenManager
	Revoked       auth.RevocationStore
	Config        *config.Config
}

func NewRouter(deps RouterDeps) *gin.Engine {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		validation.RegisterValidators(v)
	}

	cfg := deps.Config
	window := time.Duration(cfg.RateLimitWindowSeconds) * time.Second

	r := gin.New()

	// Global Middlewares
	r.Use(middleware.CORSMiddleware([]string{cfg.FrontendURL}, gin.Mode() == gin.ReleaseMode)) // CORS must be first
	r.Use(gin.Recovery())
	r.Use(gin.Logger())
	r.Use(middleware.RequestID())
	r.Use(middleware.SecurityHeadersMiddleware())
	r.Use(metrics.GinMiddleware())
	r.Use(middleware.ErrorHandler())

	r.GET("/metrics", gin.WrapH(metrics.Handler()))
	if cfg.StorageDriver == "local" {
		r.Static("/uploads", cfg.UploadDir)
	}

	api := r.Group("/api")
	api.Use(middleware.RateLimitMiddleware(middleware.GlobalRateLimitConfig(cfg.RateLimitGlobalThreshold, window)))

	api.GET("/health", func(c *gin.Context) {
		status, ok := deps.HealthUC.Check(c.Request.Context())
		if !ok {
			response.Error(c, http.StatusServiceUnavailable, "System unavailable", status)
			return
		}
		response.Success(c, http.StatusOK, "System operational", status)
	})

	// Swagger
	api.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	authLimit := middleware.RateLimitMiddleware(middleware.AuthRateLimitConfig(cfg.RateLimitAuthThreshold, window))
	uploadLimit := middleware.RateLimitMiddleware(middleware.UploadRateLimitConfig(cfg.RateLimitUploadThreshold, window))

	// Protected routes
	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(deps.Tokens, deps.Revoked))

	NewAuthHandler(api, protected, deps.AuthUC, authLimit)
	NewProfileHandler(protected, deps.ProfileUC, cfg.MaxUploadBytes(), uploadLimit)
	NewJobHandler(protected, deps.JobUC)
	NewSavedJobHandler(protected, deps.SavedJobUC)
	NewApplicationHandler(protected, deps.ApplicationUC, cfg.MaxUploadBytes(), uploadLimit)

	return r
}
