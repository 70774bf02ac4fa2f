package main

import (
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/coursehub/coursehub-api/api/swagger"
	"github.com/coursehub/coursehub-api/internal/handler"
	internalmiddleware "github.com/coursehub/coursehub-api/internal/middleware"
	"github.com/coursehub/coursehub-api/internal/repository"
	"github.com/coursehub/coursehub-api/internal/service"
	"github.com/coursehub/coursehub-api/pkg/cache"
	"github.com/coursehub/coursehub-api/pkg/config"
	"github.com/coursehub/coursehub-api/pkg/database"
	"github.com/coursehub/coursehub-api/pkg/logger"
	"github.com/coursehub/coursehub-api/pkg/media"
	corsmiddleware "github.com/coursehub/coursehub-api/pkg/middleware/cors"
	reqidmiddleware "github.com/coursehub/coursehub-api/pkg/middleware/requestid"
	"github.com/coursehub/coursehub-api/pkg/payment"
)

// @title CourseHub API
// @version 1.0.0
// @description Course management platform with paid enrollment
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		// Redis only backs the course-list cache; run degraded without it.
		logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
		redisClient = nil
	}

	validate := validator.New()

	userRepo := repository.NewUserRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	materialRepo := repository.NewMaterialRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	metricsSvc := service.NewMetricsService()
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Courses.CacheTTL, logr,
		cfg.Courses.CacheEnabled && redisClient != nil)
	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		Secret:     cfg.JWT.Secret,
		Expiration: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	userSvc := service.NewUserService(userRepo, logr)
	courseSvc := service.NewCourseService(courseRepo, userRepo, cacheSvc, validate, logr)
	enrollmentSvc := service.NewEnrollmentService(enrollmentRepo, courseRepo, validate, logr)

	paymentClient := payment.NewClient(cfg.Payment)
	webhookVerifier := payment.NewWebhookVerifier(cfg.Payment.WebhookSecret, cfg.Payment.SignatureMaxAge)
	paymentSvc := service.NewPaymentService(paymentClient, webhookVerifier, enrollmentSvc, metricsSvc, validate, logr)

	mediaClient := media.NewClient(cfg.Media)
	materialSvc := service.NewMaterialService(materialRepo, courseRepo, mediaClient, metricsSvc, cfg.Materials, validate, logr)
	reportSvc := service.NewReportService(enrollmentRepo, userRepo, courseRepo, logr)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metricsSvc))

	handler.Register(r, cfg.APIPrefix, handler.Handlers{
		Auth:       handler.NewAuthHandler(authSvc, int(cfg.JWT.Expiration.Seconds()), cfg.Env == config.EnvProduction),
		Users:      handler.NewUserHandler(userSvc),
		Courses:    handler.NewCourseHandler(courseSvc),
		Enrollment: handler.NewEnrollmentHandler(enrollmentSvc),
		Payments:   handler.NewPaymentHandler(paymentSvc),
		Materials:  handler.NewMaterialHandler(materialSvc),
		Reports:    handler.NewReportHandler(reportSvc),
		Health:     handler.NewHealthHandler(db, redisClient, metricsSvc),
	}, authSvc)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
