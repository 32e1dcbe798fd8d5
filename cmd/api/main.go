package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"cryptofolio/internal/config"
	"cryptofolio/internal/database"
	"cryptofolio/internal/handlers"
	"cryptofolio/internal/logger"
	"cryptofolio/internal/middleware"
	"cryptofolio/internal/prices"
	"cryptofolio/internal/services"
	"cryptofolio/internal/validator"

	_ "cryptofolio/internal/docs" // Import swagger docs
)

// @title           Cryptofolio API
// @version         1.0
// @description     Cryptofolio tracks a crypto portfolio from its trade history: holdings reconciled from trades, live valuations, and rebalance suggestions against target allocations.

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Create database manager
	dbManager, err := database.NewManager(cfg)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	// Run migrations
	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Register custom binding validators
	validator.Register()

	// Initialize services
	db := dbManager.DB()
	userService := services.NewUserService(db)
	assetService := services.NewAssetService(db)
	holdingService := services.NewHoldingService(db)
	tradeService := services.NewTradeService(db, assetService, holdingService)
	targetService := services.NewTargetService(db, assetService)

	// Price feed: polls CoinGecko for every non-cash asset the users track
	priceClient := prices.NewClient(http.DefaultClient, cfg.CoinGeckoBaseURL)
	priceFeed := prices.NewFeed(priceClient, assetService, cfg.PricePollInterval, log)

	portfolioService := services.NewPortfolioService(holdingService, targetService, priceFeed)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService, cfg.JWTSecret)
	assetHandler := handlers.NewAssetHandler(assetService)
	tradeHandler := handlers.NewTradeHandler(tradeService)
	holdingHandler := handlers.NewHoldingHandler(holdingService)
	targetHandler := handlers.NewTargetHandler(targetService)
	portfolioHandler := handlers.NewPortfolioHandler(portfolioService)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API v1 group
	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware(cfg.JWTSecret))

	// User profile
	protected.GET("/profile", authHandler.GetProfile)
	protected.DELETE("/profile", authHandler.DeleteAccount)

	// Asset routes
	assets := protected.Group("/assets")
	assets.POST("", assetHandler.CreateAsset)
	assets.GET("", assetHandler.GetAssets)
	assets.GET("/:id", assetHandler.GetAsset)
	assets.PUT("/:id", assetHandler.UpdateAsset)
	assets.DELETE("/:id", assetHandler.DeleteAsset)
	assets.POST("/:id/trades", tradeHandler.CreateTrade)
	assets.GET("/:id/trades", tradeHandler.GetAssetTrades)
	assets.GET("/:id/holding", holdingHandler.GetAssetHolding)
	assets.POST("/:id/holding/reconcile", holdingHandler.ReconcileAssetHolding)

	// Trade routes
	trades := protected.Group("/trades")
	trades.GET("", tradeHandler.GetTrades)
	trades.GET("/:id", tradeHandler.GetTrade)
	trades.PUT("/:id", tradeHandler.UpdateTrade)
	trades.DELETE("/:id", tradeHandler.DeleteTrade)

	// Holding routes
	protected.GET("/holdings", holdingHandler.GetHoldings)

	// Target allocation routes
	targets := protected.Group("/targets")
	targets.POST("", targetHandler.CreateTarget)
	targets.GET("", targetHandler.GetTargets)
	targets.PUT("/:id", targetHandler.UpdateTarget)
	targets.DELETE("/:id", targetHandler.DeleteTarget)

	// Portfolio routes
	protected.GET("/portfolio", portfolioHandler.GetOverview)
	protected.GET("/portfolio/rebalance", portfolioHandler.GetRebalancePlan)

	// Start the background price poller
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	priceFeed.Start(ctx)
	defer priceFeed.Stop()

	log.Infof("Starting Cryptofolio backend server on port %s", cfg.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", cfg.Port)
	return router.Run(":" + cfg.Port)
}
