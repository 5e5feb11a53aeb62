package main

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/jflow/juridica-flow-api/api/swagger"
	"github.com/jflow/juridica-flow-api/internal/handler"
	"github.com/jflow/juridica-flow-api/internal/middleware"
	"github.com/jflow/juridica-flow-api/internal/priority"
	"github.com/jflow/juridica-flow-api/internal/repository"
	"github.com/jflow/juridica-flow-api/internal/service"
	"github.com/jflow/juridica-flow-api/pkg/cache"
	"github.com/jflow/juridica-flow-api/pkg/config"
	"github.com/jflow/juridica-flow-api/pkg/database"
	"github.com/jflow/juridica-flow-api/pkg/logger"
	corsmiddleware "github.com/jflow/juridica-flow-api/pkg/middleware/cors"
	reqidmiddleware "github.com/jflow/juridica-flow-api/pkg/middleware/requestid"
)

// @title Juridica Flow API
// @version 1.0.0
// @description Legal request intake, prioritization and workload reporting
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
	defer db.Close() //nolint:errcheck

	metricsSvc := service.NewMetricsService()

	cachingEnabled := cfg.Priority.CacheEnabled || cfg.Reports.CacheEnabled
	var cacheRepo *repository.CacheRepository
	if cachingEnabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Fatalw("failed to connect to redis", "error", err)
		}
		cacheRepo = repository.NewCacheRepository(redisClient, logr)
		defer cacheRepo.Close() //nolint:errcheck
	}
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Priority.CacheTTL, logr, cachingEnabled)

	unitRepo := repository.NewUnitRepository(db)
	userRepo := repository.NewUserRepository(db)
	requestRepo := repository.NewRequestRepository(db)

	weights := priority.Weights{
		Deadline:   cfg.Priority.DeadlineWeight,
		Complexity: cfg.Priority.ComplexityWeight,
		Age:        cfg.Priority.AgeWeight,
	}

	validate := validator.New()

	unitSvc := service.NewUnitService(unitRepo, validate, logr)
	userSvc := service.NewUserService(userRepo, validate, logr)
	requestSvc := service.NewRequestService(service.RequestServiceParams{
		Requests:  requestRepo,
		Units:     unitRepo,
		Users:     userRepo,
		Cache:     cacheSvc,
		Validator: validate,
		Logger:    logr,
	})
	prioritySvc := service.NewPriorityService(service.PriorityServiceParams{
		Snapshots: requestRepo,
		Cache:     cacheSvc,
		Logger:    logr,
		Weights:   weights,
		CacheTTL:  cfg.Priority.CacheTTL,
	})
	reportSvc := service.NewReportService(service.ReportServiceParams{
		Snapshots: requestRepo,
		Cache:     cacheSvc,
		Logger:    logr,
		Weights:   weights,
		CacheTTL:  cfg.Reports.CacheTTL,
	})

	unitHandler := handler.NewUnitHandler(unitSvc)
	userHandler := handler.NewUserHandler(userSvc)
	requestHandler := handler.NewRequestHandler(requestSvc)
	priorityHandler := handler.NewPriorityHandler(prioritySvc)
	reportHandler := handler.NewReportHandler(reportSvc, cfg.Reports.ExportEnabled)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))
	r.Use(middleware.WithResponseMeta())

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	{
		api.POST("/units", unitHandler.Create)
		api.GET("/units", unitHandler.List)

		api.POST("/users", userHandler.Create)
		api.GET("/users", userHandler.List)

		api.POST("/requests", requestHandler.Create)
		api.GET("/requests", requestHandler.List)
		api.GET("/requests/:id", requestHandler.Get)
		api.POST("/requests/:id/assign/:userId", requestHandler.Assign)
		api.PATCH("/requests/:id/status", requestHandler.UpdateStatus)
		api.DELETE("/requests/:id", requestHandler.Delete)

		api.GET("/priorities", priorityHandler.Ranked)
		api.GET("/priorities/upcoming", priorityHandler.Upcoming)

		api.GET("/reports", reportHandler.Report)
		api.GET("/reports/export", reportHandler.Export)
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
