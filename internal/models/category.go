package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Category struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	UserID      uuid.UUID `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_categories_user_name,priority:1"`
	Name        string    `json:"name" gorm:"size:100;not null;uniqueIndex:idx_categories_user_name,priority:2"`
	Description string    `json:"description"`
	Color       string    `json:"color" gorm:"size:7;default:'#3B82F6'"` // hex color for display
	Icon        string    `json:"icon" gorm:"size:50"`
	IsDefault   bool      `json:"is_default" gorm:"default:false"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
