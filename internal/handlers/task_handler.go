package handlers

import (
	"errors"
	"net/http"
	"time"

	"acta_backend/internal/models"
	"acta_backend/internal/repository"
	"acta_backend/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type TaskHandler struct {
	taskService services.TaskService
}

func NewTaskHandler(taskService services.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

type taskRequest struct {
	Title          string           `json:"title" binding:"required"`
	Description    string           `json:"description"`
	Status         string           `json:"status"`
	Priority       string           `json:"priority"`
	CategoryID     *uuid.UUID       `json:"category_id"`
	DueDate        *time.Time       `json:"due_date"`
	StartDate      *time.Time       `json:"start_date"`
	EstimatedHours *decimal.Decimal `json:"estimated_hours"`
	ActualHours    *decimal.Decimal `json:"actual_hours"`
	Tags           []string         `json:"tags"`
	Position       int              `json:"position"`
}

func (h *TaskHandler) ListTasks(c *gin.Context) {
	filter := repository.TaskFilter{
		Status:   c.Query("status"),
		Priority: c.Query("priority"),
		Search:   c.Query("search"),
	}
	if raw := c.Query("category_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category_id"})
			return
		}
		filter.CategoryID = &id
	}

	tasks, err := h.taskService.GetTasksByUser(currentUserID(c), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list tasks"})
		return
	}
	c.JSON(http.StatusOK, tasks)
}

func (h *TaskHandler) CreateTask(c *gin.Context) {
	if currentUserRole(c) == string(models.RoleViewer) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Viewers cannot create tasks"})
		return
	}

	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	task := &models.Task{
		UserID:         currentUserID(c),
		Title:          req.Title,
		Description:    req.Description,
		Status:         req.Status,
		Priority:       req.Priority,
		CategoryID:     req.CategoryID,
		DueDate:        req.DueDate,
		StartDate:      req.StartDate,
		EstimatedHours: req.EstimatedHours,
		ActualHours:    req.ActualHours,
		Tags:           req.Tags,
		Position:       req.Position,
	}
	if err := h.taskService.CreateTask(task); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, task)
}

func (h *TaskHandler) GetTask(c *gin.Context) {
	task, ok := h.ownedTask(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, task)
}

func (h *TaskHandler) UpdateTask(c *gin.Context) {
	task, ok := h.ownedTask(c)
	if !ok {
		return
	}

	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	task.Title = req.Title
	task.Description = req.Description
	if req.Status != "" {
		task.Status = req.Status
	}
	if req.Priority != "" {
		task.Priority = req.Priority
	}
	task.CategoryID = req.CategoryID
	task.Category = nil
	task.DueDate = req.DueDate
	task.StartDate = req.StartDate
	task.EstimatedHours = req.EstimatedHours
	task.ActualHours = req.ActualHours
	task.Tags = req.Tags
	task.Position = req.Position

	if err := h.taskService.UpdateTask(task); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, task)
}

func (h *TaskHandler) UpdateTaskStatus(c *gin.Context) {
	task, ok := h.ownedTask(c)
	if !ok {
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	updated, err := h.taskService.UpdateTaskStatus(task.ID, req.Status)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *TaskHandler) DeleteTask(c *gin.Context) {
	task, ok := h.ownedTask(c)
	if !ok {
		return
	}
	if err := h.taskService.DeleteTask(task.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete task"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (h *TaskHandler) TasksDueToday(c *gin.Context) {
	h.listWith(c, h.taskService.GetTasksDueToday)
}

func (h *TaskHandler) OverdueTasks(c *gin.Context) {
	h.listWith(c, h.taskService.GetOverdueTasks)
}

func (h *TaskHandler) RecentlyCompletedTasks(c *gin.Context) {
	h.listWith(c, h.taskService.GetRecentlyCompletedTasks)
}

func (h *TaskHandler) UpcomingTasks(c *gin.Context) {
	h.listWith(c, h.taskService.GetUpcomingTasks)
}

func (h *TaskHandler) ListComments(c *gin.Context) {
	task, ok := h.ownedTask(c)
	if !ok {
		return
	}
	comments, err := h.taskService.GetComments(task.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list comments"})
		return
	}
	c.JSON(http.StatusOK, comments)
}

func (h *TaskHandler) AddComment(c *gin.Context) {
	task, ok := h.ownedTask(c)
	if !ok {
		return
	}

	var req struct {
		Content    string `json:"content" binding:"required"`
		IsInternal bool   `json:"is_internal"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	comment := &models.TaskComment{
		TaskID:     task.ID,
		UserID:     currentUserID(c),
		Content:    req.Content,
		IsInternal: req.IsInternal,
	}
	if err := h.taskService.AddComment(comment); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add comment"})
		return
	}
	c.JSON(http.StatusCreated, comment)
}

func (h *TaskHandler) ListAttachments(c *gin.Context) {
	task, ok := h.ownedTask(c)
	if !ok {
		return
	}
	attachments, err := h.taskService.GetAttachments(task.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list attachments"})
		return
	}
	c.JSON(http.StatusOK, attachments)
}

// AddAttachment registers attachment metadata; the file itself is stored
// elsewhere.
func (h *TaskHandler) AddAttachment(c *gin.Context) {
	task, ok := h.ownedTask(c)
	if !ok {
		return
	}

	var req struct {
		FileName string `json:"file_name" binding:"required"`
		FilePath string `json:"file_path"`
		FileSize int64  `json:"file_size"`
		FileType string `json:"file_type"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	attachment := &models.TaskAttachment{
		TaskID:   task.ID,
		UserID:   currentUserID(c),
		FileName: req.FileName,
		FilePath: req.FilePath,
		FileSize: req.FileSize,
		FileType: req.FileType,
	}
	if err := h.taskService.AddAttachment(attachment); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add attachment"})
		return
	}
	c.JSON(http.StatusCreated, attachment)
}

func (h *TaskHandler) listWith(c *gin.Context, fetch func(uuid.UUID) ([]models.Task, error)) {
	tasks, err := fetch(currentUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list tasks"})
		return
	}
	c.JSON(http.StatusOK, tasks)
}

// ownedTask loads the :id task and enforces that it belongs to the caller.
func (h *TaskHandler) ownedTask(c *gin.Context) (*models.Task, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task id"})
		return nil, false
	}

	task, err := h.taskService.GetTaskByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load task"})
		}
		return nil, false
	}
	if task.UserID != currentUserID(c) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		return nil, false
	}
	return task, true
}
