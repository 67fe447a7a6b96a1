package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// CategoryDayStats is one category's slice of a daily row. Name and color are
// snapshots taken when the entry was first seeded; later category renames do
// not propagate into historical rows.
type CategoryDayStats struct {
	Name           string `json:"name"`
	Color          string `json:"color"`
	TasksCreated   int    `json:"tasks_created"`
	TasksCompleted int    `json:"tasks_completed"`
}

// CategoryBreakdown maps category id -> per-day counters. Stored as a jsonb
// column on DailyStats and WeeklyStats.
type CategoryBreakdown map[string]CategoryDayStats

// Seed adds a zeroed entry for the category if one is not present.
func (b CategoryBreakdown) Seed(id, name, color string) {
	if _, ok := b[id]; !ok {
		b[id] = CategoryDayStats{Name: name, Color: color}
	}
}

func (b CategoryBreakdown) AddCreated(id string, n int) {
	e := b[id]
	e.TasksCreated += n
	b[id] = e
}

func (b CategoryBreakdown) AddCompleted(id string, n int) {
	e := b[id]
	e.TasksCompleted += n
	b[id] = e
}

// SetCompleted overwrites the completed counter; the incremental updater
// recounts from the task table rather than incrementing.
func (b CategoryBreakdown) SetCompleted(id string, n int) {
	e := b[id]
	e.TasksCompleted = n
	b[id] = e
}

// Merge sums other's counters into b, seeding entries on first sight and
// keeping the first-seen name/color snapshot.
func (b CategoryBreakdown) Merge(other CategoryBreakdown) {
	for id, stats := range other {
		b.Seed(id, stats.Name, stats.Color)
		b.AddCreated(id, stats.TasksCreated)
		b.AddCompleted(id, stats.TasksCompleted)
	}
}

func (b CategoryBreakdown) Value() (driver.Value, error) {
	if b == nil {
		b = CategoryBreakdown{}
	}
	return json.Marshal(b)
}

func (b *CategoryBreakdown) Scan(src interface{}) error {
	if src == nil {
		*b = CategoryBreakdown{}
		return nil
	}
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, b)
	case string:
		return json.Unmarshal([]byte(v), b)
	default:
		return fmt.Errorf("unsupported type %T for CategoryBreakdown", src)
	}
}

// DayEntry is one day of a weekly breakdown.
type DayEntry struct {
	Date              string  `json:"date"` // YYYY-MM-DD
	TasksCreated      int     `json:"tasks_created"`
	TasksCompleted    int     `json:"tasks_completed"`
	ProductivityScore float64 `json:"productivity_score"`
}

// DailyBreakdown is the ordered Monday..Sunday sequence embedded in a weekly
// row. Always seven entries; days without a daily row are zero-filled.
type DailyBreakdown []DayEntry

// ZeroEntry returns a zero-filled entry for the given day.
func ZeroEntry(day time.Time) DayEntry {
	return DayEntry{Date: day.Format("2006-01-02")}
}

func (d DailyBreakdown) Value() (driver.Value, error) {
	if d == nil {
		d = DailyBreakdown{}
	}
	return json.Marshal(d)
}

func (d *DailyBreakdown) Scan(src interface{}) error {
	if src == nil {
		*d = DailyBreakdown{}
		return nil
	}
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, d)
	case string:
		return json.Unmarshal([]byte(v), d)
	default:
		return fmt.Errorf("unsupported type %T for DailyBreakdown", src)
	}
}
