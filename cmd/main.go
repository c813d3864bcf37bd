package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"preseason-api/internal/config"
	"preseason-api/internal/handlers"
	"preseason-api/internal/ingest"
	"preseason-api/internal/middleware"
	"preseason-api/internal/repository"
	"preseason-api/internal/services"
)

// @title Preseason Ordering API
// @version 1.0.0
// @description Wholesale preseason order management: catalog uploads, order copy, price comparison
// @license.name MIT
// @license.url https://opensource.org/licenses/MIT
// @BasePath /api/v1

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg := config.Load()

	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	if cfg.Environment == "production" {
		logger.SetLevel(logrus.InfoLevel)
	} else {
		logger.SetLevel(logrus.DebugLevel)
	}

	// Initialize Redis client
	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Printf("WARNING: Failed to parse Redis URL: %v (continuing without Redis)", err)
		redisOpts = &redis.Options{Addr: "localhost:6379"}
	}
	redisClient := redis.NewClient(redisOpts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Printf("WARNING: Failed to connect to Redis: %v (snapshot caching will be disabled)", err)
		redisClient = nil
	} else {
		log.Println("✓ Redis connected successfully")
	}
	cancel()

	// Field schema: built-in unless overridden from file
	schema := ingest.DefaultProductSchema()
	if cfg.FieldSchemaPath != "" {
		schema, err = ingest.LoadSchemaFile(cfg.FieldSchemaPath)
		if err != nil {
			log.Fatal("Failed to load field schema:", err)
		}
		log.Printf("✓ Field schema loaded from %s (%d fields)", cfg.FieldSchemaPath, len(schema))
	}

	// Repositories
	catalogRepo := repository.NewCatalogRepository(db, redisClient)
	orderRepo := repository.NewOrderRepository(db)
	uploadRepo := repository.NewUploadRepository(db)

	// Core services
	engine := ingest.NewEngine(catalogRepo, schema, logger)
	orderService := services.NewOrderService(catalogRepo, orderRepo, logger)
	variantService := services.NewVariantService(catalogRepo, orderRepo, logger)
	compareService := services.NewCompareService(catalogRepo, logger)
	exportService := services.NewExportService(catalogRepo, orderRepo)

	// Handlers
	uploadHandler := handlers.NewUploadHandler(engine, schema, uploadRepo, logger)
	orderHandler := handlers.NewOrderHandler(orderRepo, orderService, variantService, exportService, logger)
	compareHandler := handlers.NewCompareHandler(compareService)

	// Initialize Gin router
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.CORS())
	router.MaxMultipartMemory = cfg.MaxUploadBytes

	router.GET("/health", handlers.HealthCheck)
	router.GET("/ready", handlers.HealthCheck)

	api := router.Group("/api/v1")
	api.Use(middleware.UserContext())
	{
		uploads := api.Group("/uploads")
		{
			uploads.GET("/schema", uploadHandler.GetSchema)
			uploads.POST("/preview", uploadHandler.Preview)
			uploads.POST("", uploadHandler.Ingest)
			uploads.GET("", uploadHandler.List)
		}

		orders := api.Group("/orders")
		{
			orders.POST("", orderHandler.Create)
			orders.GET("", orderHandler.List)
			orders.GET("/:id", orderHandler.Get)
			orders.GET("/:id/families", orderHandler.Families)
			orders.POST("/:id/copy", orderHandler.Copy)
			orders.GET("/:id/export", orderHandler.Export)
		}

		api.GET("/comparisons/prices", compareHandler.ComparePrices)
	}

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.Port
	}

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("Preseason API starting on port %s", port)
		if err := router.Run(":" + port); err != nil {
			log.Fatal("Failed to start server:", err)
		}
	}()

	<-quit
	log.Println("Shutting down preseason-api...")
}
