package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"

	"github.com/dtinth/auden/config"
	"github.com/dtinth/auden/handlers"
	"github.com/dtinth/auden/middleware"
	"github.com/dtinth/auden/models"
	"github.com/dtinth/auden/routes"
	"github.com/dtinth/auden/services"
	"github.com/dtinth/auden/store"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Auto-migrate database models
	if err := db.AutoMigrate(&models.User{}); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Initialize Redis
	redisClient := config.InitRedis(cfg)

	// Initialize realtime tree and restore the latest snapshot
	tree := store.NewMemoryStore()
	snapshotter := store.NewSnapshotter(tree, redisClient, cfg.EventNamespace)
	if err := snapshotter.Restore(context.Background()); err != nil {
		log.Printf("Failed to restore tree snapshot: %v", err)
	}
	go snapshotter.Run(context.Background(), cfg.SnapshotInterval)

	// Initialize services
	authService := services.NewAuthService(db, tree, cfg.JWTSecret)
	screenService := services.NewScreenService(tree)
	voteService := services.NewVoteService(tree)
	quizService := services.NewQuizService(tree)
	freestyleService := services.NewFreestyleService(tree)
	presenceService := services.NewPresenceService(tree)

	// Initialize WebSocket hub
	hub := services.NewHub(tree, authService, presenceService)
	go hub.Run()

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	screenHandler := handlers.NewScreenHandler(screenService, presenceService)
	voteHandler := handlers.NewVoteHandler(voteService)
	quizHandler := handlers.NewQuizHandler(quizService)
	freestyleHandler := handlers.NewFreestyleHandler(freestyleService)

	// Setup Gin router
	router := gin.Default()

	// Add CORS middleware
	router.Use(middleware.CORS())

	// Setup routes
	routes.SetupRoutes(router, authHandler, screenHandler, voteHandler, quizHandler, freestyleHandler, hub, authService, cfg.JWTSecret)

	// Start server
	log.Printf("Server starting on port %s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
