package main

import (
	"cms-admin-panel/internal/auth"
	"cms-admin-panel/internal/config"
	"cms-admin-panel/internal/db"
	"cms-admin-panel/internal/lock"
	"cms-admin-panel/internal/logger"
	"cms-admin-panel/internal/media"
	"cms-admin-panel/internal/middleware"
	"cms-admin-panel/internal/post"
	"cms-admin-panel/internal/revision"
	"cms-admin-panel/internal/site"
	"cms-admin-panel/internal/stats"
	"cms-admin-panel/internal/user"
	"cms-admin-panel/internal/worker"
	appRedis "cms-admin-panel/redis"
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	config.LoadConfig()

	// Initialize structured logging
	logger.Init(config.AppConfig.Environment)

	// Connect to database
	db.ConnectDb()
	defer db.CloseDb()

	// Migrate database schema
	db.Migrate()

	// Seed the initial admin account
	db.SeedData()

	// Initialize Redis
	appRedis.InitRedis()
	cache := appRedis.NewCache(appRedis.RedisClient)

	// Background workers (cache writes, media file cleanup)
	pool := worker.NewWorkerPool(4)
	defer pool.Shutdown()

	// Initialize repositories
	userRepo := user.NewRepository(db.AppDb)
	postRepo := post.NewRepository(db.AppDb)
	revisionRepo := revision.NewRepository(db.AppDb)
	lockRepo := lock.NewRepository(db.AppDb)
	mediaRepo := media.NewRepository(db.AppDb)

	// Initialize services
	googleClient := auth.NewGoogleClient(
		config.AppConfig.GoogleClientID,
		config.AppConfig.GoogleClientSecret,
		config.AppConfig.GoogleRedirectURI,
	)
	userService := user.NewService(userRepo).WithGoogle(googleClient)
	lockService := lock.NewService(lockRepo)
	revisionService := revision.NewService(revisionRepo, postRepo)
	mediaService := media.NewService(mediaRepo, config.AppConfig.UploadDir, pool)
	postService := post.NewService(postRepo, lockService, revisionService, mediaService, cache)
	siteService := site.NewService(postRepo, cache)
	statsService := stats.NewService(db.AppDb)

	// Initialize handlers
	userHandler := user.NewHandler(userService, googleClient)
	postHandler := post.NewHandler(postService)
	mediaHandler := media.NewHandler(mediaService)
	siteHandler := site.NewHandler(siteService)
	statsHandler := stats.NewHandler(statsService)

	authMiddleware := &middleware.Auth{UserService: userService}

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.ErrorHandler())

	// cors setting
	corsConfig := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
	}

	if config.AppConfig.Environment == "development" {
		// Allow all origins in development
		corsConfig.AllowAllOrigins = true
	} else {
		// Restrict origins in production
		corsConfig.AllowOrigins = []string{config.AppConfig.FrontendAddress}
	}
	router.Use(cors.New(corsConfig))

	// Public site routes
	router.GET("/site/posts", siteHandler.Latest)
	router.GET("/site/posts/:slug", siteHandler.Show)

	// Auth routes
	router.POST("/register", userHandler.Register)
	router.POST("/login", userHandler.Login)
	router.GET("/auth/google/login", userHandler.GoogleLogin)
	router.GET("/auth/google/callback", userHandler.GoogleCallback)

	// Authenticated admin-panel routes
	panel := router.Group("/", authMiddleware.RequireAuth())
	panel.DELETE("/logout", userHandler.Logout)
	panel.GET("/profile", userHandler.GetProfile)

	panel.GET("/posts", postHandler.Index)
	panel.POST("/posts", postHandler.Create)
	panel.GET("/posts/:id", postHandler.Show)
	panel.GET("/posts/:id/edit", postHandler.Edit)
	panel.PUT("/posts/:id", postHandler.Update)
	panel.GET("/posts/:id/lock", postHandler.LockStatus)
	panel.GET("/posts/:id/revisions", postHandler.Revisions)
	panel.GET("/revisions/:id", postHandler.ShowRevision)
	panel.POST("/revisions/:id/restore", postHandler.RestoreRevision)

	// Admin-only routes
	admin := panel.Group("/", authMiddleware.RequireAdmin())
	admin.DELETE("/posts/:id", postHandler.Delete)
	admin.DELETE("/posts/:id/force", postHandler.ForceDelete)
	admin.GET("/posts/trash", postHandler.Trash)
	admin.POST("/posts/:id/restore", postHandler.RestoreFromTrash)

	admin.GET("/users", userHandler.Index)
	admin.POST("/users", userHandler.Create)
	admin.PUT("/users/:id", userHandler.Update)
	admin.POST("/users/:id/reset-password", userHandler.ResetPassword)
	admin.POST("/users/:id/disable", userHandler.Disable)
	admin.POST("/users/:id/enable", userHandler.Enable)

	admin.GET("/media", mediaHandler.Index)
	admin.POST("/media", mediaHandler.Upload)
	admin.DELETE("/media/:id", mediaHandler.Delete)

	admin.GET("/stats", statsHandler.Show)

	// Serve uploaded files
	router.Static("/uploads", config.AppConfig.UploadDir)

	// Server configuration
	serverPort := config.AppConfig.ServerPort
	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", serverPort),
		Handler: router.Handler(),
	}

	// Start server
	go func() {
		log.Printf("Server listening on port %s", serverPort)
		err := server.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Println("Server shutdown error:", err)
	}

	<-ctx.Done()
	log.Println("Server shutdown complete")
}
