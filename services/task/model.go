package task

import (
	"time"
)

// Source tags where a task instance came from.
type Source string

const (
	// SourceUser marks tasks created through user action.
	SourceUser Source = "user"
	// SourceRepeat marks tasks spawned by the recurrence engine. Same-day
	// repeat spawns are detected through this tag.
	SourceRepeat Source = "repeat"
)

const (
	MinEffort = 1
	MaxEffort = 7
	MinImpact = 1
	MaxImpact = 7
)

// Task is one actionable item. Only recurrence-relevant fields live here;
// Completed is nil while the task is still open.
type Task struct {
	ID                string     `gorm:"column:id;primaryKey;type:char(20)"`
	UserID            string     `gorm:"column:user_id;index;not null"`
	Title             string     `gorm:"column:title;type:varchar(255);not null"`
	Description       string     `gorm:"column:description;type:text"`
	Effort            int        `gorm:"column:effort"`
	Impact            int        `gorm:"column:impact"`
	ScheduledStart    *time.Time `gorm:"column:scheduled_start"`
	Due               *time.Time `gorm:"column:due"`
	Completed         *time.Time `gorm:"column:completed"`
	RecurringConfigID *string    `gorm:"column:recurring_config_id;index"`
	Source            Source     `gorm:"column:source;type:varchar(20);default:'user'"`
	CreatedAt         time.Time  `gorm:"column:created_at"`
	UpdatedAt         time.Time  `gorm:"autoUpdateTime"`
}

func (Task) TableName() string {
	return "tasks"
}

// ClampScore forces effort/impact into their valid range.
func ClampScore(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
