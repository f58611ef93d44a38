package recurring

import (
	"time"

	"gorm.io/datatypes"
)

// Unit is the recurrence granularity.
type Unit string

const (
	UnitDay   Unit = "day"
	UnitWeek  Unit = "week"
	UnitMonth Unit = "month"
)

// Weekdays holds the per-weekday toggles of a weekly rule. The zero value
// (no day enabled) is treated as missing data, never as "every day".
type Weekdays struct {
	Monday    bool `json:"mon"`
	Tuesday   bool `json:"tue"`
	Wednesday bool `json:"wed"`
	Thursday  bool `json:"thu"`
	Friday    bool `json:"fri"`
	Saturday  bool `json:"sat"`
	Sunday    bool `json:"sun"`
}

// Enabled reports whether the given weekday is toggled on.
func (w Weekdays) Enabled(d time.Weekday) bool {
	switch d {
	case time.Monday:
		return w.Monday
	case time.Tuesday:
		return w.Tuesday
	case time.Wednesday:
		return w.Wednesday
	case time.Thursday:
		return w.Thursday
	case time.Friday:
		return w.Friday
	case time.Saturday:
		return w.Saturday
	default:
		return w.Sunday
	}
}

// Any reports whether at least one weekday is toggled on.
func (w Weekdays) Any() bool {
	return w.Monday || w.Tuesday || w.Wednesday || w.Thursday || w.Friday || w.Saturday || w.Sunday
}

// RecurringConfig is one user-defined repeating task template. The config
// always points at the most recently spawned (or seed) task, which acts as
// the template and temporal anchor for the next spawn.
type RecurringConfig struct {
	ID     string `gorm:"column:id;primaryKey;type:char(20)"`
	UserID string `gorm:"column:user_id;index;not null"`
	Unit   Unit   `gorm:"column:unit;type:varchar(10);not null"`
	Amount int    `gorm:"column:amount;not null"`
	// ActiveWeekdays is only meaningful for week rules.
	ActiveWeekdays   datatypes.JSONType[Weekdays] `gorm:"column:active_weekdays"`
	MostRecentTaskID string                       `gorm:"column:most_recent_task_id;not null"`
	// LastRunDate is the idempotency marker: the engine takes at most one
	// terminal action per config per calendar day.
	LastRunDate *time.Time `gorm:"column:last_run_date;index"`
	CreatedAt   time.Time  `gorm:"autoCreateTime"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime"`
}

func (RecurringConfig) TableName() string {
	return "recurring_configs"
}
