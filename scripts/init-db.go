package main

import (
	"fmt"
	"log"

	"acta_backend/internal/config"
	"acta_backend/internal/database"
	"acta_backend/internal/migrations"
	"acta_backend/internal/models"
	"acta_backend/internal/repository"
	"acta_backend/internal/services"
)

func main() {
	fmt.Println("Initializing database...")

	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.Initialize(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Force recreate all tables
	fmt.Println("Dropping existing tables...")
	err = db.Migrator().DropTable(
		&models.User{},
		&models.Category{},
		&models.Task{},
		&models.TaskComment{},
		&models.TaskAttachment{},
		&models.DailyStats{},
		&models.WeeklyStats{},
	)
	if err != nil {
		log.Printf("Warning: Error dropping tables: %v", err)
	}

	// Create tables and seed data
	if err := migrations.RunMigrations(db); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Seed default categories for every existing user
	fmt.Println("Creating default categories...")
	userRepo := repository.NewUserRepository(db)
	categoryService := services.NewCategoryService(repository.NewCategoryRepository(db))

	users, err := userRepo.GetAll()
	if err != nil {
		log.Fatal("Failed to list users:", err)
	}
	for _, user := range users {
		created, err := categoryService.CreateDefaultCategories(user.ID)
		if err != nil {
			log.Printf("Warning: Failed to create categories for %s: %v", user.Email, err)
			continue
		}
		if created > 0 {
			fmt.Printf("Created %d categories for %s\n", created, user.Email)
		}
	}

	fmt.Println("Database initialization completed successfully!")
}
