package migrations

import (
	"errors"
	"log"

	"acta_backend/internal/database"
	"acta_backend/internal/models"
	"acta_backend/internal/repository"
	"acta_backend/internal/services"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// RunMigrations creates the schema and seed data. Safe to run repeatedly.
func RunMigrations(db *gorm.DB) error {
	log.Println("Running database migrations...")

	if err := database.AutoMigrate(db); err != nil {
		return err
	}

	if err := createDefaultData(db); err != nil {
		log.Printf("Warning: Failed to create default data: %v", err)
	}

	log.Println("Database migrations completed successfully!")
	return nil
}

// createDefaultData creates the admin account and its default categories.
func createDefaultData(db *gorm.DB) error {
	log.Println("Creating default data...")

	userRepo := repository.NewUserRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	categoryService := services.NewCategoryService(categoryRepo)

	admin, err := userRepo.GetByEmail("admin@acta.local")
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	if admin == nil {
		log.Println("Creating admin user...")
		hash, err := bcrypt.GenerateFromPassword([]byte("changeme123"), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		admin = &models.User{
			Email:        "admin@acta.local",
			PasswordHash: string(hash),
			FirstName:    "Admin",
			Role:         string(models.RoleAdmin),
			IsActive:     true,
		}
		if err := userRepo.Create(admin); err != nil {
			return err
		}
		log.Println("Admin user created (admin@acta.local / changeme123)")
	} else {
		log.Println("Admin user already exists")
	}

	created, err := categoryService.CreateDefaultCategories(admin.ID)
	if err != nil {
		return err
	}
	if created > 0 {
		log.Printf("Created %d default categories for admin", created)
	}

	log.Println("Default data created successfully!")
	return nil
}
