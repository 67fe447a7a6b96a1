package repository

import (
	"acta_backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CategoryRepository interface {
	Create(category *models.Category) error
	GetByID(id uuid.UUID) (*models.Category, error)
	GetByUserID(userID uuid.UUID) ([]models.Category, error)
	GetByName(userID uuid.UUID, name string) (*models.Category, error)
	Update(category *models.Category) error
	Delete(id uuid.UUID) error
}

type categoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(category *models.Category) error {
	return r.db.Create(category).Error
}

func (r *categoryRepository) GetByID(id uuid.UUID) (*models.Category, error) {
	var category models.Category
	err := r.db.First(&category, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) GetByUserID(userID uuid.UUID) ([]models.Category, error) {
	var categories []models.Category
	err := r.db.Where("user_id = ?", userID).Order("name").Find(&categories).Error
	return categories, err
}

func (r *categoryRepository) GetByName(userID uuid.UUID, name string) (*models.Category, error) {
	var category models.Category
	err := r.db.First(&category, "user_id = ? AND name = ?", userID, name).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) Update(category *models.Category) error {
	return r.db.Save(category).Error
}

func (r *categoryRepository) Delete(id uuid.UUID) error {
	// Tasks keep existing with a NULL category reference.
	if err := r.db.Model(&models.Task{}).Where("category_id = ?", id).Update("category_id", nil).Error; err != nil {
		return err
	}
	return r.db.Delete(&models.Category{}, "id = ?", id).Error
}
