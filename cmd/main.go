package main

import (
	"label-service/internal/handler"
	mid "label-service/internal/middleware"
	"label-service/internal/repository"
	"label-service/pkg/catalog"
	"label-service/pkg/config"
	"label-service/pkg/database"
	"label-service/pkg/jwtutil"
	"label-service/pkg/logger"
	"label-service/prometheus"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	// Load .env file; fall back to real environment variables when absent
	_ = godotenv.Load()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		// Can't use structured logger yet since it's not initialized
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	logger.InitLogger(appConfig)
	log := logger.GetLogger()
	defer log.Sync()

	log.Info("Starting label-service",
		zap.String("environment", appConfig.Server.Env),
		zap.String("port", appConfig.Server.Port))

	// Initialize JWT utility
	jwtutil.Initialize(&appConfig.JWT)
	log.Info("JWT utility initialized")

	// Initialize Prometheus metrics
	prometheus.InitMetrics(appConfig)
	log.Info("Prometheus metrics initialized",
		zap.String("metrics_prefix", appConfig.Metrics.Prefix))

	// Initialize database
	if err := database.InitDB(appConfig, log); err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	log.Info("Database connection established")

	// Wire the template store, catalog client and handlers
	store := repository.NewGormTemplateStore(database.GetDB())
	catalogClient := catalog.NewClient(appConfig.Catalog.BaseURL, appConfig.Catalog.Timeout, log)
	templateHandler := handler.NewTemplateHandler(store)
	renderHandler := handler.NewRenderHandler(store, catalogClient, appConfig.Designer.CurrencySymbol)

	// Initialize Echo instance
	e := echo.New()

	// Middleware
	e.Use(middleware.Recover())
	e.Use(mid.RequestIDMiddleware)
	e.Use(mid.MetricsMiddleware)

	// Metrics endpoint
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Health check endpoint
	e.GET("/health", handler.Health)

	// Template API routes - Apply auth middleware to validate JWT and extract tenant ID
	templateAPI := e.Group("/api/templates", mid.AuthMiddleware)
	templateAPI.GET("", templateHandler.ListTemplates)
	templateAPI.POST("", templateHandler.SaveTemplate)
	templateAPI.POST("/render", renderHandler.RenderInline)
	templateAPI.GET("/:id", templateHandler.GetTemplate)
	templateAPI.PUT("/:id", templateHandler.UpdateTemplate)
	templateAPI.DELETE("/:id", templateHandler.DeleteTemplate)
	templateAPI.POST("/:id/render", renderHandler.RenderStored)

	// Start server
	port := appConfig.Server.Port
	log.Info("Starting server", zap.String("port", port))
	if err := e.Start(":" + port); err != nil {
		log.Fatal("Server error", zap.Error(err))
	}
}
