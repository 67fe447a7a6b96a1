package services

import (
	"fmt"
	"time"

	"acta_backend/internal/models"
	"acta_backend/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// In-memory repository fakes backing the service tests. Query semantics
// mirror the gorm implementations: half-open [from, to) ranges, overdue
// relative to the given day start.

type fakeTaskRepo struct {
	tasks   []*models.Task
	failFor map[uuid.UUID]error // injects per-user query failures
}

func newFakeTaskRepo() *fakeTaskRepo {
	return &fakeTaskRepo{failFor: map[uuid.UUID]error{}}
}

func (r *fakeTaskRepo) userErr(userID uuid.UUID) error {
	return r.failFor[userID]
}

func (r *fakeTaskRepo) Create(task *models.Task) error {
	if task.ID == uuid.Nil {
		task.ID = uuid.New()
	}
	stored := *task
	r.tasks = append(r.tasks, &stored)
	return nil
}

func (r *fakeTaskRepo) GetByID(id uuid.UUID) (*models.Task, error) {
	for _, t := range r.tasks {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeTaskRepo) ListByUser(userID uuid.UUID, filter repository.TaskFilter) ([]models.Task, error) {
	var out []models.Task
	for _, t := range r.tasks {
		if t.UserID != userID {
			continue
		}
		if filter.Status != "" && t.Status != filter.Status {
			continue
		}
		if filter.Priority != "" && t.Priority != filter.Priority {
			continue
		}
		if filter.CategoryID != nil && (t.CategoryID == nil || *t.CategoryID != *filter.CategoryID) {
			continue
		}
		out = append(out, *t)
	}
	return out, nil
}

func (r *fakeTaskRepo) Update(task *models.Task) error {
	for i, t := range r.tasks {
		if t.ID == task.ID {
			stored := *task
			r.tasks[i] = &stored
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *fakeTaskRepo) Delete(id uuid.UUID) error {
	for i, t := range r.tasks {
		if t.ID == id {
			r.tasks = append(r.tasks[:i], r.tasks[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *fakeTaskRepo) CountByUser(userID uuid.UUID) (int, error) {
	if err := r.userErr(userID); err != nil {
		return 0, err
	}
	count := 0
	for _, t := range r.tasks {
		if t.UserID == userID {
			count++
		}
	}
	return count, nil
}

func (r *fakeTaskRepo) CountByStatus(userID uuid.UUID, statuses ...string) (int, error) {
	if err := r.userErr(userID); err != nil {
		return 0, err
	}
	count := 0
	for _, t := range r.tasks {
		if t.UserID != userID {
			continue
		}
		for _, s := range statuses {
			if t.Status == s {
				count++
				break
			}
		}
	}
	return count, nil
}

func inRange(t time.Time, from, to time.Time) bool {
	return !t.Before(from) && t.Before(to)
}

func (r *fakeTaskRepo) CountCreatedBetween(userID uuid.UUID, from, to time.Time) (int, error) {
	if err := r.userErr(userID); err != nil {
		return 0, err
	}
	count := 0
	for _, t := range r.tasks {
		if t.UserID == userID && inRange(t.CreatedAt, from, to) {
			count++
		}
	}
	return count, nil
}

func (r *fakeTaskRepo) CountCompletedBetween(userID uuid.UUID, from, to time.Time) (int, error) {
	if err := r.userErr(userID); err != nil {
		return 0, err
	}
	count := 0
	for _, t := range r.tasks {
		if t.UserID == userID && t.Status == string(models.StatusCompleted) &&
			t.CompletedAt != nil && inRange(*t.CompletedAt, from, to) {
			count++
		}
	}
	return count, nil
}

func (r *fakeTaskRepo) CountCompletedBetweenByCategory(userID, categoryID uuid.UUID, from, to time.Time) (int, error) {
	if err := r.userErr(userID); err != nil {
		return 0, err
	}
	count := 0
	for _, t := range r.tasks {
		if t.UserID == userID && t.CategoryID != nil && *t.CategoryID == categoryID &&
			t.Status == string(models.StatusCompleted) &&
			t.CompletedAt != nil && inRange(*t.CompletedAt, from, to) {
			count++
		}
	}
	return count, nil
}

func isOpen(status string) bool {
	return status == string(models.StatusPending) || status == string(models.StatusInProgress)
}

func (r *fakeTaskRepo) CountOverdueAsOf(userID uuid.UUID, dayStart time.Time) (int, error) {
	if err := r.userErr(userID); err != nil {
		return 0, err
	}
	count := 0
	for _, t := range r.tasks {
		if t.UserID == userID && t.DueDate != nil && t.DueDate.Before(dayStart) && isOpen(t.Status) {
			count++
		}
	}
	return count, nil
}

func (r *fakeTaskRepo) CountDueBetween(userID uuid.UUID, from, to time.Time) (int, error) {
	if err := r.userErr(userID); err != nil {
		return 0, err
	}
	count := 0
	for _, t := range r.tasks {
		if t.UserID == userID && t.DueDate != nil && inRange(*t.DueDate, from, to) {
			count++
		}
	}
	return count, nil
}

func (r *fakeTaskRepo) ListCreatedBetween(userID uuid.UUID, from, to time.Time) ([]models.Task, error) {
	if err := r.userErr(userID); err != nil {
		return nil, err
	}
	var out []models.Task
	for _, t := range r.tasks {
		if t.UserID == userID && inRange(t.CreatedAt, from, to) {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (r *fakeTaskRepo) ListCompletedBetween(userID uuid.UUID, from, to time.Time) ([]models.Task, error) {
	if err := r.userErr(userID); err != nil {
		return nil, err
	}
	var out []models.Task
	for _, t := range r.tasks {
		if t.UserID == userID && t.Status == string(models.StatusCompleted) &&
			t.CompletedAt != nil && inRange(*t.CompletedAt, from, to) {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (r *fakeTaskRepo) ListDueBetween(userID uuid.UUID, from, to time.Time) ([]models.Task, error) {
	if err := r.userErr(userID); err != nil {
		return nil, err
	}
	var out []models.Task
	for _, t := range r.tasks {
		if t.UserID == userID && t.DueDate != nil && inRange(*t.DueDate, from, to) {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (r *fakeTaskRepo) ListOverdueAsOf(userID uuid.UUID, dayStart time.Time) ([]models.Task, error) {
	if err := r.userErr(userID); err != nil {
		return nil, err
	}
	var out []models.Task
	for _, t := range r.tasks {
		if t.UserID == userID && t.DueDate != nil && t.DueDate.Before(dayStart) && isOpen(t.Status) {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (r *fakeTaskRepo) SumActualHoursCompletedBetween(userID uuid.UUID, from, to time.Time) (decimal.Decimal, error) {
	if err := r.userErr(userID); err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, t := range r.tasks {
		if t.UserID == userID && t.Status == string(models.StatusCompleted) &&
			t.CompletedAt != nil && inRange(*t.CompletedAt, from, to) && t.ActualHours != nil {
			total = total.Add(*t.ActualHours)
		}
	}
	return total, nil
}

func (r *fakeTaskRepo) CountsByCategory(userID uuid.UUID, dayStart time.Time) ([]repository.CategoryCounts, error) {
	if err := r.userErr(userID); err != nil {
		return nil, err
	}
	byCategory := map[uuid.UUID]*repository.CategoryCounts{}
	for _, t := range r.tasks {
		if t.UserID != userID || t.CategoryID == nil {
			continue
		}
		c, ok := byCategory[*t.CategoryID]
		if !ok {
			c = &repository.CategoryCounts{CategoryID: *t.CategoryID}
			byCategory[*t.CategoryID] = c
		}
		c.Total++
		switch t.Status {
		case string(models.StatusCompleted):
			c.Completed++
		case string(models.StatusPending):
			c.Pending++
		}
		if t.DueDate != nil && t.DueDate.Before(dayStart) && isOpen(t.Status) {
			c.Overdue++
		}
	}
	var out []repository.CategoryCounts
	for _, c := range byCategory {
		out = append(out, *c)
	}
	return out, nil
}

type fakeStatsRepo struct {
	daily  map[string]*models.DailyStats
	weekly map[string]*models.WeeklyStats
}

func newFakeStatsRepo() *fakeStatsRepo {
	return &fakeStatsRepo{
		daily:  map[string]*models.DailyStats{},
		weekly: map[string]*models.WeeklyStats{},
	}
}

func dailyKey(userID uuid.UUID, date time.Time) string {
	return userID.String() + "/" + date.Format("2006-01-02")
}

func weeklyKey(userID uuid.UUID, year, week int) string {
	return fmt.Sprintf("%s/%d/%d", userID, year, week)
}

func (r *fakeStatsRepo) GetDaily(userID uuid.UUID, date time.Time) (*models.DailyStats, error) {
	if s, ok := r.daily[dailyKey(userID, date)]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeStatsRepo) GetOrCreateDaily(userID uuid.UUID, date time.Time) (*models.DailyStats, bool, error) {
	if s, ok := r.daily[dailyKey(userID, date)]; ok {
		return s, false, nil
	}
	s := &models.DailyStats{
		ID:             uuid.New(),
		UserID:         userID,
		Date:           date,
		CategoriesData: models.CategoryBreakdown{},
	}
	r.daily[dailyKey(userID, date)] = s
	return s, true, nil
}

func (r *fakeStatsRepo) SaveDaily(stats *models.DailyStats) error {
	r.daily[dailyKey(stats.UserID, stats.Date)] = stats
	return nil
}

func (r *fakeStatsRepo) ListDailyRange(userID uuid.UUID, from, to time.Time) ([]models.DailyStats, error) {
	var out []models.DailyStats
	for _, s := range r.daily {
		if s.UserID == userID && !s.Date.Before(from) && !s.Date.After(to) {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *fakeStatsRepo) GetOrCreateWeekly(userID uuid.UUID, year, week int, start, end time.Time) (*models.WeeklyStats, bool, error) {
	if s, ok := r.weekly[weeklyKey(userID, year, week)]; ok {
		return s, false, nil
	}
	s := &models.WeeklyStats{
		ID:                   uuid.New(),
		UserID:               userID,
		Year:                 year,
		WeekNumber:           week,
		StartDate:            start,
		EndDate:              end,
		WeeklyCategoriesData: models.CategoryBreakdown{},
		DailyBreakdown:       models.DailyBreakdown{},
	}
	r.weekly[weeklyKey(userID, year, week)] = s
	return s, true, nil
}

func (r *fakeStatsRepo) SaveWeekly(stats *models.WeeklyStats) error {
	r.weekly[weeklyKey(stats.UserID, stats.Year, stats.WeekNumber)] = stats
	return nil
}

func (r *fakeStatsRepo) ListWeeklySince(userID uuid.UUID, from time.Time) ([]models.WeeklyStats, error) {
	var out []models.WeeklyStats
	for _, s := range r.weekly {
		if s.UserID == userID && !s.StartDate.Before(from) {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *fakeStatsRepo) CountDailyBefore(cutoff time.Time) (int, error) {
	count := 0
	for _, s := range r.daily {
		if s.Date.Before(cutoff) {
			count++
		}
	}
	return count, nil
}

func (r *fakeStatsRepo) DeleteDailyBefore(cutoff time.Time) (int, error) {
	deleted := 0
	for k, s := range r.daily {
		if s.Date.Before(cutoff) {
			delete(r.daily, k)
			deleted++
		}
	}
	return deleted, nil
}

func (r *fakeStatsRepo) CountWeeklyBefore(cutoff time.Time) (int, error) {
	count := 0
	for _, s := range r.weekly {
		if s.StartDate.Before(cutoff) {
			count++
		}
	}
	return count, nil
}

func (r *fakeStatsRepo) DeleteWeeklyBefore(cutoff time.Time) (int, error) {
	deleted := 0
	for k, s := range r.weekly {
		if s.StartDate.Before(cutoff) {
			delete(r.weekly, k)
			deleted++
		}
	}
	return deleted, nil
}

type fakeCategoryRepo struct {
	categories map[uuid.UUID]*models.Category
}

func newFakeCategoryRepo() *fakeCategoryRepo {
	return &fakeCategoryRepo{categories: map[uuid.UUID]*models.Category{}}
}

func (r *fakeCategoryRepo) Create(category *models.Category) error {
	if category.ID == uuid.Nil {
		category.ID = uuid.New()
	}
	r.categories[category.ID] = category
	return nil
}

func (r *fakeCategoryRepo) GetByID(id uuid.UUID) (*models.Category, error) {
	if c, ok := r.categories[id]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeCategoryRepo) GetByUserID(userID uuid.UUID) ([]models.Category, error) {
	var out []models.Category
	for _, c := range r.categories {
		if c.UserID == userID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *fakeCategoryRepo) GetByName(userID uuid.UUID, name string) (*models.Category, error) {
	for _, c := range r.categories {
		if c.UserID == userID && c.Name == name {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeCategoryRepo) Update(category *models.Category) error {
	r.categories[category.ID] = category
	return nil
}

func (r *fakeCategoryRepo) Delete(id uuid.UUID) error {
	delete(r.categories, id)
	return nil
}

type fakeUserRepo struct {
	users []models.User
}

func (r *fakeUserRepo) Create(user *models.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	r.users = append(r.users, *user)
	return nil
}

func (r *fakeUserRepo) GetByID(id uuid.UUID) (*models.User, error) {
	for i := range r.users {
		if r.users[i].ID == id {
			return &r.users[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) GetByEmail(email string) (*models.User, error) {
	for i := range r.users {
		if r.users[i].Email == email {
			return &r.users[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) GetAll() ([]models.User, error) {
	return r.users, nil
}

func (r *fakeUserRepo) Update(user *models.User) error {
	for i := range r.users {
		if r.users[i].ID == user.ID {
			r.users[i] = *user
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) Delete(id uuid.UUID) error {
	for i := range r.users {
		if r.users[i].ID == id {
			r.users = append(r.users[:i], r.users[i+1:]...)
			return nil
		}
	}
	return nil
}
