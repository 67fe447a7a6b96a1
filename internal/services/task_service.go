package services

import (
	"fmt"
	"log"

	"acta_backend/internal/clock"
	"acta_backend/internal/models"
	"acta_backend/internal/repository"

	"github.com/google/uuid"
)

type TaskService interface {
	CreateTask(task *models.Task) error
	GetTaskByID(id uuid.UUID) (*models.Task, error)
	GetTasksByUser(userID uuid.UUID, filter repository.TaskFilter) ([]models.Task, error)
	UpdateTask(task *models.Task) error
	UpdateTaskStatus(id uuid.UUID, status string) (*models.Task, error)
	DeleteTask(id uuid.UUID) error

	GetTasksDueToday(userID uuid.UUID) ([]models.Task, error)
	GetOverdueTasks(userID uuid.UUID) ([]models.Task, error)
	GetRecentlyCompletedTasks(userID uuid.UUID) ([]models.Task, error)
	GetUpcomingTasks(userID uuid.UUID) ([]models.Task, error)

	AddComment(comment *models.TaskComment) error
	GetComments(taskID uuid.UUID) ([]models.TaskComment, error)
	AddAttachment(attachment *models.TaskAttachment) error
	GetAttachments(taskID uuid.UUID) ([]models.TaskAttachment, error)
}

type taskService struct {
	taskRepo    repository.TaskRepository
	commentRepo repository.CommentRepository
	stats       StatsUpdater
	clock       clock.Clock
}

func NewTaskService(
	taskRepo repository.TaskRepository,
	commentRepo repository.CommentRepository,
	stats StatsUpdater,
	clk clock.Clock,
) TaskService {
	return &taskService{
		taskRepo:    taskRepo,
		commentRepo: commentRepo,
		stats:       stats,
		clock:       clk,
	}
}

func (s *taskService) CreateTask(task *models.Task) error {
	if task.Status == "" {
		task.Status = string(models.StatusPending)
	}
	if !models.ValidStatus(task.Status) {
		return fmt.Errorf("invalid task status %q", task.Status)
	}
	if task.Priority == "" {
		task.Priority = string(models.PriorityMedium)
	}
	s.applyCompletionTransition(task)

	if err := s.taskRepo.Create(task); err != nil {
		return err
	}
	s.notifyStats(task, true, "")
	return nil
}

func (s *taskService) GetTaskByID(id uuid.UUID) (*models.Task, error) {
	return s.taskRepo.GetByID(id)
}

func (s *taskService) GetTasksByUser(userID uuid.UUID, filter repository.TaskFilter) ([]models.Task, error) {
	return s.taskRepo.ListByUser(userID, filter)
}

func (s *taskService) UpdateTask(task *models.Task) error {
	if !models.ValidStatus(task.Status) {
		return fmt.Errorf("invalid task status %q", task.Status)
	}
	previous, err := s.taskRepo.GetByID(task.ID)
	if err != nil {
		return err
	}

	s.applyCompletionTransition(task)
	if err := s.taskRepo.Update(task); err != nil {
		return err
	}
	s.notifyStats(task, false, previous.Status)
	return nil
}

func (s *taskService) UpdateTaskStatus(id uuid.UUID, status string) (*models.Task, error) {
	if !models.ValidStatus(status) {
		return nil, fmt.Errorf("invalid task status %q", status)
	}
	task, err := s.taskRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	previousStatus := task.Status
	task.Status = status
	s.applyCompletionTransition(task)
	if err := s.taskRepo.Update(task); err != nil {
		return nil, err
	}
	s.notifyStats(task, false, previousStatus)
	return task, nil
}

func (s *taskService) DeleteTask(id uuid.UUID) error {
	return s.taskRepo.Delete(id)
}

func (s *taskService) GetTasksDueToday(userID uuid.UUID) ([]models.Task, error) {
	today := clock.StartOfDay(s.clock.Now())
	return s.taskRepo.ListDueBetween(userID, today, today.AddDate(0, 0, 1))
}

func (s *taskService) GetOverdueTasks(userID uuid.UUID) ([]models.Task, error) {
	today := clock.StartOfDay(s.clock.Now())
	return s.taskRepo.ListOverdueAsOf(userID, today)
}

// GetRecentlyCompletedTasks returns completions from the last seven days.
func (s *taskService) GetRecentlyCompletedTasks(userID uuid.UUID) ([]models.Task, error) {
	now := s.clock.Now()
	return s.taskRepo.ListCompletedBetween(userID, now.AddDate(0, 0, -7), now)
}

// GetUpcomingTasks returns open tasks due within the next seven days.
func (s *taskService) GetUpcomingTasks(userID uuid.UUID) ([]models.Task, error) {
	today := clock.StartOfDay(s.clock.Now())
	tasks, err := s.taskRepo.ListDueBetween(userID, today, today.AddDate(0, 0, 8))
	if err != nil {
		return nil, err
	}
	open := tasks[:0]
	for _, t := range tasks {
		if t.Status == string(models.StatusPending) || t.Status == string(models.StatusInProgress) {
			open = append(open, t)
		}
	}
	return open, nil
}

func (s *taskService) AddComment(comment *models.TaskComment) error {
	if _, err := s.taskRepo.GetByID(comment.TaskID); err != nil {
		return err
	}
	return s.commentRepo.Create(comment)
}

func (s *taskService) GetComments(taskID uuid.UUID) ([]models.TaskComment, error) {
	return s.commentRepo.GetByTaskID(taskID)
}

func (s *taskService) AddAttachment(attachment *models.TaskAttachment) error {
	if _, err := s.taskRepo.GetByID(attachment.TaskID); err != nil {
		return err
	}
	return s.commentRepo.CreateAttachment(attachment)
}

func (s *taskService) GetAttachments(taskID uuid.UUID) ([]models.TaskAttachment, error) {
	return s.commentRepo.GetAttachmentsByTaskID(taskID)
}

// applyCompletionTransition keeps completed_at in lockstep with status:
// non-null exactly when the task is completed.
func (s *taskService) applyCompletionTransition(task *models.Task) {
	if task.Status == string(models.StatusCompleted) {
		if task.CompletedAt == nil {
			now := s.clock.Now()
			task.CompletedAt = &now
		}
	} else {
		task.CompletedAt = nil
	}
}

// notifyStats feeds the incremental updater. The task write has already
// committed, so an updater failure is logged and swallowed; the row stays
// stale until the next batch run.
func (s *taskService) notifyStats(task *models.Task, wasCreated bool, previousStatus string) {
	if s.stats == nil {
		return
	}
	if err := s.stats.OnTaskSaved(task, wasCreated, previousStatus); err != nil {
		log.Printf("Stats update failed for task %s: %v", task.ID, err)
	}
}
