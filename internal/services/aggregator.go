package services

import (
	"fmt"
	"log"
	"time"

	"acta_backend/internal/clock"
	"acta_backend/internal/models"
	"acta_backend/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const aggregateLockName = "analytics:aggregate"

// JobLocker serializes batch runs. The redis client satisfies it in
// production; a nil locker disables locking.
type JobLocker interface {
	AcquireLock(name string, ttl time.Duration) (bool, error)
	ReleaseLock(name string) error
	SetLastRun(job string, at time.Time) error
}

// RunOptions selects what the batch aggregator recomputes.
type RunOptions struct {
	Date      time.Time // zero means today
	UserEmail string    // empty means all users
	Days      int       // number of days back from Date, default 7
	Weekly    bool      // also roll the week containing Date into WeeklyStats
}

// RunSummary reports created/updated row counts for a batch run.
type RunSummary struct {
	Users         int
	DailyCreated  int
	DailyUpdated  int
	WeeklyCreated int
	WeeklyUpdated int
	Failures      int
}

// Aggregator is the authoritative repair path: it rebuilds daily rows in full
// from the task table, so running it twice with the same arguments yields the
// same rows.
type Aggregator interface {
	Run(opts RunOptions) (*RunSummary, error)
}

type aggregator struct {
	userRepo  repository.UserRepository
	taskRepo  repository.TaskRepository
	statsRepo repository.StatsRepository
	clock     clock.Clock
	locker    JobLocker
}

func NewAggregator(
	userRepo repository.UserRepository,
	taskRepo repository.TaskRepository,
	statsRepo repository.StatsRepository,
	clk clock.Clock,
	locker JobLocker,
) Aggregator {
	return &aggregator{
		userRepo:  userRepo,
		taskRepo:  taskRepo,
		statsRepo: statsRepo,
		clock:     clk,
		locker:    locker,
	}
}

func (a *aggregator) Run(opts RunOptions) (*RunSummary, error) {
	if opts.Days <= 0 {
		opts.Days = 7
	}
	targetDate := opts.Date
	if targetDate.IsZero() {
		targetDate = a.clock.Now()
	}
	targetDate = clock.StartOfDay(targetDate)

	users, err := a.resolveUsers(opts.UserEmail)
	if err != nil {
		return nil, err
	}

	if a.locker != nil {
		ok, err := a.locker.AcquireLock(aggregateLockName, 30*time.Minute)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("analytics aggregation is already running")
		}
		defer a.locker.ReleaseLock(aggregateLockName)
	}

	summary := &RunSummary{Users: len(users)}
	log.Printf("Calculating analytics for %d users...", len(users))

	for i := 0; i < opts.Days; i++ {
		calcDate := targetDate.AddDate(0, 0, -i)
		for _, user := range users {
			created, err := a.calculateDailyStats(user.ID, calcDate)
			if err != nil {
				// One user's failure must not sink the rest of the batch.
				log.Printf("Failed to calculate daily stats for %s on %s: %v",
					user.Email, calcDate.Format("2006-01-02"), err)
				summary.Failures++
				continue
			}
			if created {
				summary.DailyCreated++
				log.Printf("Created daily stats for %s on %s", user.Email, calcDate.Format("2006-01-02"))
			} else {
				summary.DailyUpdated++
				log.Printf("Updated daily stats for %s on %s", user.Email, calcDate.Format("2006-01-02"))
			}
		}
	}

	if opts.Weekly {
		for _, user := range users {
			created, err := a.calculateWeeklyStats(user.ID, targetDate)
			if err != nil {
				log.Printf("Failed to calculate weekly stats for %s: %v", user.Email, err)
				summary.Failures++
				continue
			}
			year, week := targetDate.ISOWeek()
			if created {
				summary.WeeklyCreated++
				log.Printf("Created weekly stats for %s (week %d, %d)", user.Email, week, year)
			} else {
				summary.WeeklyUpdated++
				log.Printf("Updated weekly stats for %s (week %d, %d)", user.Email, week, year)
			}
		}
	}

	if a.locker != nil {
		if err := a.locker.SetLastRun("analytics:aggregate", a.clock.Now()); err != nil {
			log.Printf("Failed to record aggregation run marker: %v", err)
		}
	}

	log.Printf("Analytics calculated for %d users (%d failures)", len(users), summary.Failures)
	return summary, nil
}

func (a *aggregator) resolveUsers(email string) ([]models.User, error) {
	if email == "" {
		return a.userRepo.GetAll()
	}
	user, err := a.userRepo.GetByEmail(email)
	if err != nil {
		return nil, fmt.Errorf("unknown user %q: %w", email, err)
	}
	return []models.User{*user}, nil
}

// calculateDailyStats rebuilds one (user, date) row from scratch.
func (a *aggregator) calculateDailyStats(userID uuid.UUID, calcDate time.Time) (bool, error) {
	dayEnd := calcDate.AddDate(0, 0, 1)

	stats, created, err := a.statsRepo.GetOrCreateDaily(userID, calcDate)
	if err != nil {
		return false, err
	}

	tasksCreated, err := a.taskRepo.CountCreatedBetween(userID, calcDate, dayEnd)
	if err != nil {
		return created, err
	}
	tasksCompleted, err := a.taskRepo.CountCompletedBetween(userID, calcDate, dayEnd)
	if err != nil {
		return created, err
	}
	tasksOverdue, err := a.taskRepo.CountOverdueAsOf(userID, calcDate)
	if err != nil {
		return created, err
	}
	hoursWorked, err := a.taskRepo.SumActualHoursCompletedBetween(userID, calcDate, dayEnd)
	if err != nil {
		return created, err
	}

	stats.TasksCreated = tasksCreated
	stats.TasksCompleted = tasksCompleted
	stats.TasksOverdue = tasksOverdue
	stats.HoursWorked = hoursWorked.Round(2)
	stats.ProductivityScore = models.ProductivityScoreFor(tasksCreated, tasksCompleted)

	breakdown, err := a.buildCategoryBreakdown(userID, calcDate, dayEnd)
	if err != nil {
		return created, err
	}
	stats.CategoriesData = breakdown

	if err := a.statsRepo.SaveDaily(stats); err != nil {
		return created, err
	}
	return created, nil
}

// buildCategoryBreakdown rebuilds the per-category slice of a daily row.
// Entries are seeded on first sight in either pass, so a category with only
// same-day completions still gets counted.
func (a *aggregator) buildCategoryBreakdown(userID uuid.UUID, dayStart, dayEnd time.Time) (models.CategoryBreakdown, error) {
	breakdown := models.CategoryBreakdown{}

	createdTasks, err := a.taskRepo.ListCreatedBetween(userID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}
	for _, task := range createdTasks {
		if task.Category == nil {
			continue
		}
		id := task.Category.ID.String()
		breakdown.Seed(id, task.Category.Name, task.Category.Color)
		breakdown.AddCreated(id, 1)
	}

	completedTasks, err := a.taskRepo.ListCompletedBetween(userID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}
	for _, task := range completedTasks {
		if task.Category == nil {
			continue
		}
		id := task.Category.ID.String()
		breakdown.Seed(id, task.Category.Name, task.Category.Color)
		breakdown.AddCompleted(id, 1)
	}

	return breakdown, nil
}

// calculateWeeklyStats rolls the daily rows of the ISO week containing
// targetDate into the user's weekly row.
func (a *aggregator) calculateWeeklyStats(userID uuid.UUID, targetDate time.Time) (bool, error) {
	weekStart := clock.WeekStart(targetDate)
	weekEnd := weekStart.AddDate(0, 0, 6)
	year, week := targetDate.ISOWeek()

	stats, created, err := a.statsRepo.GetOrCreateWeekly(userID, year, week, weekStart, weekEnd)
	if err != nil {
		return false, err
	}

	dailyRows, err := a.statsRepo.ListDailyRange(userID, weekStart, weekEnd)
	if err != nil {
		return created, err
	}

	stats.StartDate = weekStart
	stats.EndDate = weekEnd
	stats.TotalTasksCreated = 0
	stats.TotalTasksCompleted = 0
	stats.TotalTasksOverdue = 0
	stats.TotalHoursWorked = decimal.Zero
	weeklyCategories := models.CategoryBreakdown{}

	scoreSum := decimal.Zero
	scoredDays := 0
	byDate := make(map[string]models.DailyStats, len(dailyRows))

	for _, row := range dailyRows {
		stats.TotalTasksCreated += row.TasksCreated
		stats.TotalTasksCompleted += row.TasksCompleted
		stats.TotalTasksOverdue += row.TasksOverdue
		stats.TotalHoursWorked = stats.TotalHoursWorked.Add(row.HoursWorked)

		// Zero-score days are excluded from the average, not averaged in.
		if row.ProductivityScore.GreaterThan(decimal.Zero) {
			scoreSum = scoreSum.Add(row.ProductivityScore)
			scoredDays++
		}

		weeklyCategories.Merge(row.CategoriesData)
		byDate[row.Date.Format("2006-01-02")] = row
	}

	if scoredDays > 0 {
		stats.AverageProductivityScore = scoreSum.Div(decimal.NewFromInt(int64(scoredDays))).Round(2)
	} else {
		stats.AverageProductivityScore = decimal.Zero
	}
	stats.TotalHoursWorked = stats.TotalHoursWorked.Round(2)
	stats.WeeklyCategoriesData = weeklyCategories

	// Exactly seven entries, Monday through Sunday, zero-filled where no
	// daily row exists.
	breakdown := make(models.DailyBreakdown, 0, 7)
	for i := 0; i < 7; i++ {
		day := weekStart.AddDate(0, 0, i)
		key := day.Format("2006-01-02")
		if row, ok := byDate[key]; ok {
			breakdown = append(breakdown, models.DayEntry{
				Date:              key,
				TasksCreated:      row.TasksCreated,
				TasksCompleted:    row.TasksCompleted,
				ProductivityScore: row.ProductivityScore.InexactFloat64(),
			})
		} else {
			breakdown = append(breakdown, models.ZeroEntry(day))
		}
	}
	stats.DailyBreakdown = breakdown

	if err := a.statsRepo.SaveWeekly(stats); err != nil {
		return created, err
	}
	return created, nil
}
