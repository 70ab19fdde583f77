package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/random"

	"kantin/internal/caching"
	"kantin/internal/cart"
	"kantin/internal/handlers"
	"kantin/internal/jobs"
	"kantin/internal/jobs/background"
	"kantin/internal/middleware"
	"kantin/internal/models"
	"kantin/internal/repositories"
	"kantin/internal/services"
	"kantin/pkg/database"
)

const version = "1.0.0"

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Database connection
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	pool, err := database.NewPool(databaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	// JWT configuration
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = random.String(32) // Generate random secret for development
		log.Printf("WARNING: Using generated JWT secret; tokens will not survive a restart")
	}

	// Redis configuration
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}
	redisPassword := os.Getenv("REDIS_PASSWORD")
	redisDB := 0
	if redisDBStr := os.Getenv("REDIS_DB"); redisDBStr != "" {
		if db, err := strconv.Atoi(redisDBStr); err == nil {
			redisDB = db
		}
	}

	// MinIO configuration
	minioEndpoint := os.Getenv("MINIO_ENDPOINT")
	if minioEndpoint == "" {
		minioEndpoint = "localhost:9000"
	}
	minioAccessKey := os.Getenv("MINIO_ACCESS_KEY")
	if minioAccessKey == "" {
		minioAccessKey = "minioadmin" // Default for development
	}
	minioSecretKey := os.Getenv("MINIO_SECRET_KEY")
	if minioSecretKey == "" {
		minioSecretKey = "minioadmin" // Default for development
	}
	useSSL := os.Getenv("MINIO_USE_SSL") == "true"

	minioSvc, err := services.NewMinioService(minioEndpoint, minioAccessKey, minioSecretKey, useSSL)
	if err != nil {
		log.Fatalf("Failed to initialize MinIO service: %v", err)
	}
	if err := minioSvc.EnsureBucketExists(context.Background(), services.MenuBucket); err != nil {
		log.Printf("WARNING: Failed to ensure menu image bucket: %v", err)
	}

	// Repositories
	profileRepo := repositories.NewProfileRepo(pool)
	walletRepo := repositories.NewWalletRepo(pool)
	menuItemRepo := repositories.NewMenuItemRepo(pool)
	transactionRepo := repositories.NewTransactionRepo(pool)

	// Cache service
	cacheSvc := caching.NewRedisCacheService(redisAddr, redisPassword, redisDB)

	// Per-user carts live in memory; a restart empties them.
	carts := cart.NewStore()

	// Services
	qrisSvc := services.NewQRISService(os.Getenv("QRIS_MERCHANT_ID"))
	pinSvc := services.NewPINService(walletRepo)
	menuSvc := services.NewMenuService(menuItemRepo, cacheSvc, minioSvc)
	orderSvc := services.NewOrderService(pool, carts, cacheSvc)
	walletSvc := services.NewWalletService(pool, cacheSvc, qrisSvc)

	// Handlers
	authHandlers := handlers.NewAuthHandlers(profileRepo, walletRepo, jwtSecret)
	menuHandlers := handlers.NewMenuHandlers(menuSvc)
	cartHandlers := handlers.NewCartHandlers(carts, menuSvc)
	orderHandlers := handlers.NewOrderHandlers(orderSvc)
	walletHandlers := handlers.NewWalletHandlers(walletSvc, pinSvc)
	healthHandlers := handlers.NewHealthHandlers(pool, version)

	// Background jobs
	stockAlertSvc := jobs.NewStockAlertService(menuItemRepo)
	scheduler := background.NewJobScheduler(stockAlertSvc, cacheSvc, transactionRepo)
	if err := scheduler.Start(); err != nil {
		log.Printf("Failed to start job scheduler: %v", err)
	}
	defer scheduler.Stop()

	// Echo instance
	e := echo.New()

	// Global middleware
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Pre(echoMiddleware.RemoveTrailingSlash())

	// Health endpoints (no auth required)
	e.GET("/health", healthHandlers.HealthCheck)
	e.GET("/health/ready", healthHandlers.ReadinessCheck)
	e.GET("/health/live", healthHandlers.LivenessCheck)

	// API routes
	v1 := e.Group("/v1")

	// Authentication routes (no JWT required for signup/login)
	auth := v1.Group("/auth")
	auth.POST("/signup", authHandlers.Signup)
	auth.POST("/login", authHandlers.Login)

	// Protected routes
	protected := v1.Group("")
	protected.Use(echojwt.WithConfig(middleware.JWTConfig(jwtSecret)))
	protected.Use(middleware.LoadProfile(profileRepo))

	protected.GET("/me", authHandlers.Me)
	protected.GET("/students", authHandlers.ListPeers)

	// Menu (read-only for everyone signed in)
	protected.GET("/menu", menuHandlers.ListMenu)
	protected.GET("/menu/:id", menuHandlers.GetItem)

	// Cart
	protected.GET("/cart", cartHandlers.GetCart)
	protected.POST("/cart/items", cartHandlers.AddItem)
	protected.PUT("/cart/items/:id", cartHandlers.UpdateQuantity)
	protected.DELETE("/cart/items/:id", cartHandlers.RemoveItem)
	protected.DELETE("/cart", cartHandlers.ClearCart)

	// Orders
	protected.POST("/checkout", orderHandlers.Checkout)
	protected.GET("/orders", orderHandlers.ListMyOrders)

	// Wallet
	protected.GET("/wallet", walletHandlers.GetWallet)
	protected.GET("/wallet/transactions", walletHandlers.ListTransactions)
	protected.POST("/wallet/pin/verify", walletHandlers.VerifyPIN)
	protected.PUT("/wallet/pin", walletHandlers.ChangePIN)
	protected.POST("/wallet/topup", walletHandlers.RequestTopup)
	protected.POST("/wallet/topup/confirm", walletHandlers.ConfirmTopup)
	protected.POST("/transfers", walletHandlers.Transfer)

	// Staff routes (canteen role only)
	staff := protected.Group("/staff")
	staff.Use(middleware.RequireRole(models.RoleCanteen))

	staff.POST("/menu", menuHandlers.CreateItem)
	staff.PUT("/menu/:id", menuHandlers.UpdateItem)
	staff.DELETE("/menu/:id", menuHandlers.DeleteItem)
	staff.POST("/menu/:id/image", menuHandlers.UploadItemImage)

	staff.GET("/orders", orderHandlers.ListIncomingOrders)
	staff.PUT("/orders/:id/ready", orderHandlers.MarkReady)
	staff.PUT("/orders/:id/complete", orderHandlers.CompleteOrder)
	staff.GET("/sales-summary", orderHandlers.SalesSummary)

	// Start server
	portStr := os.Getenv("PORT")
	if portStr == "" {
		portStr = "8080"
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		log.Fatalf("Invalid port %s: %v", portStr, err)
	}

	log.Printf("Kantin server v%s starting on port %d", version, port)

	e.Logger.Fatal(e.Start(fmt.Sprintf(":%d", port)))
}
