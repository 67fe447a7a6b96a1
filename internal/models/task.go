package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Task struct {
	ID             uuid.UUID        `json:"id" gorm:"type:uuid;primaryKey"`
	UserID         uuid.UUID        `json:"user_id" gorm:"type:uuid;not null;index:idx_tasks_user_status,priority:1"`
	Title          string           `json:"title" gorm:"size:200;not null"`
	Description    string           `json:"description"`
	Status         string           `json:"status" gorm:"size:20;default:'pending';index:idx_tasks_user_status,priority:2"` // pending, in_progress, completed, cancelled
	Priority       string           `json:"priority" gorm:"size:10;default:'medium';index"`                                 // low, medium, high, urgent
	CategoryID     *uuid.UUID       `json:"category_id" gorm:"type:uuid;index"`
	Category       *Category        `json:"category,omitempty" gorm:"constraint:OnDelete:SET NULL"`
	DueDate        *time.Time       `json:"due_date" gorm:"index"`
	StartDate      *time.Time       `json:"start_date"`
	EstimatedHours *decimal.Decimal `json:"estimated_hours" gorm:"type:decimal(5,2)"`
	ActualHours    *decimal.Decimal `json:"actual_hours" gorm:"type:decimal(5,2)"`
	CompletedAt    *time.Time       `json:"completed_at"`
	Tags           StringList       `json:"tags" gorm:"type:jsonb"`
	Position       int              `json:"position" gorm:"default:0"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

type TaskStatus string

const (
	StatusPending    TaskStatus = "pending"
	StatusInProgress TaskStatus = "in_progress"
	StatusCompleted  TaskStatus = "completed"
	StatusCancelled  TaskStatus = "cancelled"
)

func ValidStatus(s string) bool {
	switch TaskStatus(s) {
	case StatusPending, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
	PriorityUrgent TaskPriority = "urgent"
)

// IsOverdue reports whether the task is past due and still open, relative to now.
func (t *Task) IsOverdue(now time.Time) bool {
	if t.DueDate == nil {
		return false
	}
	if t.Status == string(StatusCompleted) || t.Status == string(StatusCancelled) {
		return false
	}
	return now.After(*t.DueDate)
}

// StringList is a JSON-encoded list of tags.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	return json.Marshal(l)
}

func (l *StringList) Scan(src interface{}) error {
	if src == nil {
		*l = StringList{}
		return nil
	}
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("unsupported type %T for StringList", src)
	}
}
