package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/medready/enroll-advisor-api/internal/handler"
	"github.com/medready/enroll-advisor-api/internal/middleware"
	"github.com/medready/enroll-advisor-api/internal/repository"
	"github.com/medready/enroll-advisor-api/internal/service"
	"github.com/medready/enroll-advisor-api/pkg/bridge"
	"github.com/medready/enroll-advisor-api/pkg/cache"
	"github.com/medready/enroll-advisor-api/pkg/config"
	"github.com/medready/enroll-advisor-api/pkg/database"
	"github.com/medready/enroll-advisor-api/pkg/llm"
	"github.com/medready/enroll-advisor-api/pkg/logger"
	corsmiddleware "github.com/medready/enroll-advisor-api/pkg/middleware/cors"
	reqidmiddleware "github.com/medready/enroll-advisor-api/pkg/middleware/requestid"
)

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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	// Postgres and Redis are both optional at startup: the advisor keeps
	// answering (without audit trail / snapshot cache) when either is down.
	var prescreenRepo *repository.PrescreenRepository
	var decisionRepo *repository.DecisionRepository
	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Warn("postgres unavailable, running without persistence", zap.Error(err))
	} else {
		prescreenRepo = repository.NewPrescreenRepository(db)
		decisionRepo = repository.NewDecisionRepository(db)
	}

	var cacheRepo *repository.CacheRepository
	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, running without snapshot cache", zap.Error(err))
	} else {
		cacheRepo = repository.NewCacheRepository(redisClient, logr)
	}

	metricsSvc := service.NewMetricsService()
	validate := validator.New()

	catalogRepo := repository.NewCatalogRepository(cfg.Catalog, logr)

	var catalogSvc *service.CatalogService
	if cacheRepo != nil {
		catalogSvc = service.NewCatalogService(catalogRepo, cacheRepo, cfg.Catalog.CacheTTL, metricsSvc, logr)
	} else {
		catalogSvc = service.NewCatalogService(catalogRepo, nil, cfg.Catalog.CacheTTL, metricsSvc, logr)
	}

	bridgeClient := bridge.NewClient(cfg.Bridge, logr)

	normalizer := service.NewGoalNormalizer()
	matcher := service.NewCourseMatcher(normalizer, cfg.Recommendation.MaxCourses, logr)
	planner := service.NewPaymentPlanner(service.PaymentPlannerConfig{
		DownPaymentPercent: cfg.Recommendation.DownPaymentPercent,
		PayInFullDiscount:  cfg.Recommendation.PayInFullDiscount,
	}, logr)
	selector := service.NewScheduleSelector(logr)

	recommendationParams := service.RecommendationServiceParams{
		Normalizer: normalizer,
		Matcher:    matcher,
		Planner:    planner,
		Selector:   selector,
		Catalog:    catalogSvc,
		Schedules:  bridgeClient,
		Metrics:    metricsSvc,
		Logger:     logr,
	}
	if decisionRepo != nil {
		recommendationParams.Decisions = decisionRepo
	}
	recommendationSvc := service.NewRecommendationService(recommendationParams)

	var llmClient llm.Client
	if cfg.LLM.Endpoint != "" && cfg.LLM.APIKey != "" {
		llmClient = llm.NewOpenAI(cfg.LLM.Endpoint, cfg.LLM.APIKey, cfg.LLM.Model, cfg.LLM.Timeout)
	} else {
		logr.Warn("llm endpoint not configured, using mock client")
		llmClient = llm.NewMock()
	}

	chatParams := service.ChatServiceParams{
		Client:  llmClient,
		Syncer:  bridgeClient,
		Metrics: metricsSvc,
		Logger:  logr,
	}
	if decisionRepo != nil {
		chatParams.Decisions = decisionRepo
	}
	chatSvc := service.NewChatService(chatParams)

	prescreenParams := service.PrescreenServiceParams{
		Validator:  validate,
		Automation: bridgeClient,
		Engine:     recommendationSvc,
		Metrics:    metricsSvc,
		Logger:     logr,
	}
	if prescreenRepo != nil {
		prescreenParams.Records = prescreenRepo
	}
	prescreenSvc := service.NewPrescreenService(prescreenParams)

	chatHandler := handler.NewChatHandler(chatSvc)
	prescreenHandler := handler.NewPrescreenHandler(prescreenSvc)
	recommendationHandler := handler.NewRecommendationHandler(recommendationSvc, catalogSvc, validate)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.POST("/chat", chatHandler.Reply)
	r.POST("/prescreen", prescreenHandler.Submit)
	r.POST("/recommendations", recommendationHandler.Recommend)

	ops := r.Group("/ops", middleware.BridgeKey(cfg.Ops.BridgeKey))
	ops.POST("/catalog/refresh", recommendationHandler.RefreshCatalog)
	ops.GET("/metrics", metricsHandler.Scrape)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
