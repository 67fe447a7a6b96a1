package main

import (
	"log"
	"time"

	"acta_backend/internal/clock"
	"acta_backend/internal/config"
	"acta_backend/internal/database"
	"acta_backend/internal/handlers"
	"acta_backend/internal/migrations"
	"acta_backend/internal/redis"
	"acta_backend/internal/repository"
	"acta_backend/internal/services"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.Initialize(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	if err := migrations.RunMigrations(db); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Initialize Redis
	redisClient, err := redis.Initialize(cfg.RedisURL)
	if err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}

	clk := clock.Real()

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	statsRepo := repository.NewStatsRepository(db)

	// Initialize services
	userService := services.NewUserService(userRepo, redisClient, time.Duration(cfg.SessionTTL)*time.Second)
	categoryService := services.NewCategoryService(categoryRepo)
	statsUpdater := services.NewStatsUpdater(taskRepo, statsRepo, categoryRepo, clk)
	taskService := services.NewTaskService(taskRepo, commentRepo, statsUpdater, clk)
	rollupService := services.NewRollupService(taskRepo, categoryRepo, clk)
	statsService := services.NewStatsService(statsRepo, clk)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService, categoryService)
	taskHandler := handlers.NewTaskHandler(taskService)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	analyticsHandler := handlers.NewAnalyticsHandler(rollupService, statsService)

	// Setup routes
	router := gin.Default()

	api := router.Group("/api")
	{
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)

		authed := api.Group("", handlers.AuthRequired(userService))
		{
			authed.POST("/auth/logout", authHandler.Logout)

			authed.GET("/tasks", taskHandler.ListTasks)
			authed.POST("/tasks", taskHandler.CreateTask)
			authed.GET("/tasks/today", taskHandler.TasksDueToday)
			authed.GET("/tasks/overdue", taskHandler.OverdueTasks)
			authed.GET("/tasks/completed", taskHandler.RecentlyCompletedTasks)
			authed.GET("/tasks/upcoming", taskHandler.UpcomingTasks)
			authed.GET("/tasks/:id", taskHandler.GetTask)
			authed.PUT("/tasks/:id", taskHandler.UpdateTask)
			authed.PATCH("/tasks/:id/status", taskHandler.UpdateTaskStatus)
			authed.DELETE("/tasks/:id", taskHandler.DeleteTask)
			authed.GET("/tasks/:id/comments", taskHandler.ListComments)
			authed.POST("/tasks/:id/comments", taskHandler.AddComment)
			authed.GET("/tasks/:id/attachments", taskHandler.ListAttachments)
			authed.POST("/tasks/:id/attachments", taskHandler.AddAttachment)

			authed.GET("/categories", categoryHandler.ListCategories)
			authed.POST("/categories", categoryHandler.CreateCategory)
			authed.GET("/categories/:id", categoryHandler.GetCategory)
			authed.PUT("/categories/:id", categoryHandler.UpdateCategory)
			authed.DELETE("/categories/:id", categoryHandler.DeleteCategory)

			authed.GET("/analytics/overview", analyticsHandler.Overview)
			authed.GET("/analytics/daily", analyticsHandler.DailyStats)
			authed.GET("/analytics/weekly", analyticsHandler.WeeklyStats)
			authed.GET("/analytics/trends", analyticsHandler.Trends)
			authed.GET("/analytics/categories", analyticsHandler.CategoryStats)
		}
	}

	// Start server
	log.Printf("Server starting on port %s", cfg.ServerPort)
	if err := router.Run(":" + cfg.ServerPort); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
