package repository

import (
	"acta_backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CommentRepository interface {
	Create(comment *models.TaskComment) error
	GetByTaskID(taskID uuid.UUID) ([]models.TaskComment, error)
	Delete(id uuid.UUID) error

	CreateAttachment(attachment *models.TaskAttachment) error
	GetAttachmentsByTaskID(taskID uuid.UUID) ([]models.TaskAttachment, error)
	DeleteAttachment(id uuid.UUID) error
}

type commentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(comment *models.TaskComment) error {
	return r.db.Create(comment).Error
}

func (r *commentRepository) GetByTaskID(taskID uuid.UUID) ([]models.TaskComment, error) {
	var comments []models.TaskComment
	err := r.db.Where("task_id = ?", taskID).Order("created_at").Find(&comments).Error
	return comments, err
}

func (r *commentRepository) Delete(id uuid.UUID) error {
	return r.db.Delete(&models.TaskComment{}, "id = ?", id).Error
}

func (r *commentRepository) CreateAttachment(attachment *models.TaskAttachment) error {
	return r.db.Create(attachment).Error
}

func (r *commentRepository) GetAttachmentsByTaskID(taskID uuid.UUID) ([]models.TaskAttachment, error) {
	var attachments []models.TaskAttachment
	err := r.db.Where("task_id = ?", taskID).Order("uploaded_at DESC").Find(&attachments).Error
	return attachments, err
}

func (r *commentRepository) DeleteAttachment(id uuid.UUID) error {
	return r.db.Delete(&models.TaskAttachment{}, "id = ?", id).Error
}
