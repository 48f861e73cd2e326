package main

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/websocket/v2"
	"github.com/joho/godotenv"
	"github.com/DevKor-github/onboarding-team2-be/internal/cache"
	"github.com/DevKor-github/onboarding-team2-be/internal/handlers"
	"github.com/DevKor-github/onboarding-team2-be/internal/httpx"
	"github.com/DevKor-github/onboarding-team2-be/internal/middleware"
	"github.com/DevKor-github/onboarding-team2-be/internal/repository"
	"github.com/DevKor-github/onboarding-team2-be/internal/service"
	"github.com/DevKor-github/onboarding-team2-be/internal/storage"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET is required")
	}

	// Initialize Fiber app
	app := fiber.New(fiber.Config{
		AppName: "Chat Backend",
		// Support avatar uploads up to 5MB + overhead.
		BodyLimit: 8 * 1024 * 1024, // 8MB
	})

	// Middleware
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     os.Getenv("ALLOWED_ORIGINS"),
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET, POST, PUT, DELETE, OPTIONS",
		AllowCredentials: true,
	}))

	// Initialize database connection
	db, err := repository.InitDB()
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Initialize Redis cache
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}
	redisPassword := os.Getenv("REDIS_PASSWORD")
	redisDB := 0
	if dbStr := os.Getenv("REDIS_DB"); dbStr != "" {
		if parsedDB, err := strconv.Atoi(dbStr); err == nil {
			redisDB = parsedDB
		}
	}

	redisCache := cache.NewRedisCache(redisAddr, redisPassword, redisDB)
	if err := redisCache.Ping(); err != nil {
		log.Printf("WARNING: Redis connection failed: %v. Running without cache.", err)
		redisCache = nil
	} else {
		log.Println("Redis cache connected successfully")
	}

	unreadCache := cache.NewUnreadCache(redisCache)
	messageCache := cache.NewMessageCache(redisCache)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	roomRepo := repository.NewRoomRepository(db)
	messageRepo := repository.NewMessageRepository(db)

	// Initialize services
	authService := service.NewAuthService(userRepo)
	userService := service.NewUserService(userRepo)
	unreadService := service.NewUnreadService(roomRepo, messageRepo, unreadCache)
	roomService := service.NewRoomService(roomRepo, messageRepo, unreadService)
	chatService := service.NewChatService(roomRepo, messageRepo, roomService, unreadService, messageCache)

	// Optional startup admin seed
	if email := os.Getenv("ADMIN_EMAIL"); email != "" {
		username := os.Getenv("ADMIN_USERNAME")
		password := os.Getenv("ADMIN_PASSWORD")
		if username == "" || password == "" {
			log.Fatal("ADMIN_USERNAME and ADMIN_PASSWORD are required when ADMIN_EMAIL is set")
		}
		if err := authService.EnsureAdmin(username, email, password); err != nil {
			log.Fatal("Failed to seed admin user:", err)
		}
	}

	// Initialize S3/MinIO storage (best-effort; feature endpoints return 503 if missing)
	var s3Store *storage.S3Storage
	if cfg, err := storage.LoadS3ConfigFromEnv(); err != nil {
		log.Printf("WARNING: S3 storage not configured: %v", err)
	} else if st, err := storage.NewS3Storage(cfg); err != nil {
		log.Printf("WARNING: Failed to initialize S3 storage: %v", err)
	} else {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := st.EnsureBucket(ctx); err != nil {
			log.Printf("WARNING: Failed to ensure S3 bucket: %v", err)
		}
		cancel()
		s3Store = st
		log.Printf("S3 storage initialized successfully (bucket=%s)", cfg.Bucket)
	}

	avatarService := service.NewAvatarService(userRepo, s3Store)

	// Initialize handlers
	wsHandler := handlers.NewWebSocketHandler(chatService, roomService, unreadService)
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	roomHandler := handlers.NewRoomHandler(roomService, unreadService, wsHandler.GetHub())
	messageHandler := handlers.NewMessageHandler(chatService, unreadService, wsHandler.GetHub())
	avatarHandler := handlers.NewAvatarHandler(avatarService)
	mediaHandler := handlers.NewMediaHandler(s3Store)

	// Public routes
	api := app.Group("/api", middleware.OriginAllowed())
	auth := api.Group("/auth", limiter.New(limiter.Config{
		Max:        20,
		Expiration: time.Minute,
	}))
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	api.Get("/users/check-username", userHandler.CheckUsername) // Public endpoint for username check

	// Protected routes
	protected := api.Group("/", middleware.AuthRequired())
	protected.Get("/users/me", userHandler.GetMe)
	protected.Put("/users/me", userHandler.UpdateMe)
	protected.Post(
		"/users/me/avatar",
		limiter.New(limiter.Config{
			Max:        10,
			Expiration: 10 * time.Minute,
			KeyGenerator: func(c *fiber.Ctx) string {
				if uid, err := httpx.LocalUint(c, "userID"); err == nil {
					return "avatar:" + strconv.FormatUint(uint64(uid), 10)
				}
				return c.IP()
			},
		}),
		avatarHandler.UploadMyAvatar,
	)
	protected.Delete("/users/me/avatar", avatarHandler.DeleteMyAvatar)
	protected.Get("/media/avatars/*", mediaHandler.GetAvatar)
	protected.Get("/users/search", userHandler.SearchUsers)
	protected.Get("/users/by-username/:username", userHandler.GetUserByUsername)
	protected.Get("/users/:id", userHandler.GetUser)

	// Room routes
	protected.Post("/rooms", roomHandler.CreateRoom)
	protected.Get("/rooms", roomHandler.ListRooms)
	protected.Get("/rooms/joined", roomHandler.ListJoinedRooms)
	protected.Post("/rooms/unread", roomHandler.GetUnreadBatch)
	protected.Get("/rooms/:id", roomHandler.GetRoom)
	protected.Post("/rooms/:id/join", roomHandler.JoinRoom)
	protected.Post("/rooms/:id/leave", roomHandler.LeaveRoom)
	protected.Get("/rooms/:id/unread", roomHandler.GetUnreadCount)
	protected.Get("/rooms/:id/unread/messages", roomHandler.GetUnreadPerMessage)

	// Message routes
	protected.Get("/rooms/:id/messages", messageHandler.GetMessages)
	protected.Post("/rooms/:id/messages", messageHandler.SendMessage)
	protected.Post("/rooms/:id/read", messageHandler.MarkRead)

	// WebSocket route (websocket upgrade needs special handling)
	app.Use(
		"/ws",
		middleware.OriginAllowed(),
		middleware.AuthRequired(),
		func(c *fiber.Ctx) error {
			// Upgrade to WebSocket
			if websocket.IsWebSocketUpgrade(c) {
				return c.Next()
			}
			return fiber.ErrUpgradeRequired
		},
	)
	app.Get("/ws", websocket.New(wsHandler.HandleWebSocket))

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
		})
	})

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on port %s...", port)
	if err := app.Listen(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
