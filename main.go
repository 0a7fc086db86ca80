package main

import (
	"devflow/config"
	"devflow/handlers"
	"devflow/middleware"
	"devflow/models"
	"devflow/routes"
	"devflow/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg := config.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	// Initialize database
	db, err := config.InitDB(cfg)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}

	// Auto-migrate database models
	err = db.AutoMigrate(
		&models.User{},
		&models.Question{},
		&models.Tag{},
		&models.Answer{},
		&models.Interaction{},
	)
	if err != nil {
		logger.Fatal("failed to migrate database", zap.Error(err))
	}

	// Initialize Redis
	redisClient := config.InitRedis(cfg)

	// Initialize services
	revalidator := services.NewRedisRevalidator(redisClient, cfg.RevalidateChannel, logger)
	questionService := services.NewQuestionService(db, revalidator, logger)
	tagService := services.NewTagService(db, logger)
	searchService := services.NewSearchService(db, logger)

	// Initialize handlers
	questionHandler := handlers.NewQuestionHandler(questionService)
	tagHandler := handlers.NewTagHandler(tagService)
	searchHandler := handlers.NewSearchHandler(searchService)

	// Setup Gin router
	router := gin.Default()

	// Add CORS middleware
	router.Use(middleware.CORS())

	// Setup routes
	routes.SetupRoutes(router, questionHandler, tagHandler, searchHandler)

	// Start server
	logger.Info("server starting", zap.String("port", cfg.Port))
	if err := router.Run(":" + cfg.Port); err != nil {
		logger.Fatal("failed to start server", zap.Error(err))
	}
}
