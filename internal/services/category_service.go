package services

import (
	"errors"
	"fmt"

	"acta_backend/internal/models"
	"acta_backend/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DefaultCategories are seeded for every new user.
var DefaultCategories = []models.Category{
	{Name: "Work", Color: "#3b82f6", Icon: "briefcase", IsDefault: true},
	{Name: "Personal", Color: "#10b981", Icon: "user", IsDefault: true},
	{Name: "Health", Color: "#ef4444", Icon: "heart", IsDefault: true},
	{Name: "Learning", Color: "#8b5cf6", Icon: "book", IsDefault: true},
	{Name: "Finance", Color: "#f59e0b", Icon: "dollar", IsDefault: true},
}

type CategoryService interface {
	CreateCategory(category *models.Category) error
	GetCategoryByID(id uuid.UUID) (*models.Category, error)
	GetCategoriesByUser(userID uuid.UUID) ([]models.Category, error)
	UpdateCategory(category *models.Category) error
	DeleteCategory(id uuid.UUID) error
	CreateDefaultCategories(userID uuid.UUID) (int, error)
}

type categoryService struct {
	categoryRepo repository.CategoryRepository
}

func NewCategoryService(categoryRepo repository.CategoryRepository) CategoryService {
	return &categoryService{categoryRepo: categoryRepo}
}

func (s *categoryService) CreateCategory(category *models.Category) error {
	existing, err := s.categoryRepo.GetByName(category.UserID, category.Name)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	if existing != nil {
		return fmt.Errorf("category %q already exists", category.Name)
	}
	return s.categoryRepo.Create(category)
}

func (s *categoryService) GetCategoryByID(id uuid.UUID) (*models.Category, error) {
	return s.categoryRepo.GetByID(id)
}

func (s *categoryService) GetCategoriesByUser(userID uuid.UUID) ([]models.Category, error) {
	return s.categoryRepo.GetByUserID(userID)
}

func (s *categoryService) UpdateCategory(category *models.Category) error {
	return s.categoryRepo.Update(category)
}

func (s *categoryService) DeleteCategory(id uuid.UUID) error {
	return s.categoryRepo.Delete(id)
}

// CreateDefaultCategories seeds the default set for a user, skipping names
// that already exist. Returns how many were created.
func (s *categoryService) CreateDefaultCategories(userID uuid.UUID) (int, error) {
	created := 0
	for _, def := range DefaultCategories {
		_, err := s.categoryRepo.GetByName(userID, def.Name)
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return created, err
		}
		category := def
		category.UserID = userID
		if err := s.categoryRepo.Create(&category); err != nil {
			return created, err
		}
		created++
	}
	return created, nil
}
