package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TaskComment struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	TaskID     uuid.UUID `json:"task_id" gorm:"type:uuid;not null;index"`
	UserID     uuid.UUID `json:"user_id" gorm:"type:uuid;not null"`
	Content    string    `json:"content" gorm:"not null"`
	IsInternal bool      `json:"is_internal" gorm:"default:false"` // visible to assignees only
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (c *TaskComment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// TaskAttachment stores attachment metadata; file contents live outside the database.
type TaskAttachment struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	TaskID     uuid.UUID `json:"task_id" gorm:"type:uuid;not null;index"`
	UserID     uuid.UUID `json:"user_id" gorm:"type:uuid;not null"`
	FileName   string    `json:"file_name" gorm:"size:255;not null"`
	FilePath   string    `json:"file_path" gorm:"size:512"`
	FileSize   int64     `json:"file_size"`
	FileType   string    `json:"file_type" gorm:"size:100"`
	UploadedAt time.Time `json:"uploaded_at" gorm:"autoCreateTime"`
}

func (a *TaskAttachment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
