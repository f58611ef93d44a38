package task

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"quatro-backend/pkg/dateutil"
)

// Repository describes database operations available for tasks.
type Repository interface {
	Create(ctx context.Context, t *Task) error
	// FindByID returns (nil, nil) when the task does not exist; the store
	// has no foreign keys, so dangling references are an expected input.
	FindByID(ctx context.Context, id string) (*Task, error)
	// FindSpawnedOn returns a task spawned by the recurrence engine for the
	// given config on day's calendar date, or (nil, nil).
	FindSpawnedOn(ctx context.Context, recurringConfigID string, day time.Time) (*Task, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository returns a gorm backed Repository implementation.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Create(ctx context.Context, t *Task) error {
	if r == nil || r.db == nil {
		return gorm.ErrInvalidDB
	}

	t.Effort = ClampScore(t.Effort, MinEffort, MaxEffort)
	t.Impact = ClampScore(t.Impact, MinImpact, MaxImpact)

	return r.db.WithContext(ctx).Create(t).Error
}

func (r *gormRepository) FindByID(ctx context.Context, id string) (*Task, error) {
	if r == nil || r.db == nil {
		return nil, gorm.ErrInvalidDB
	}

	var t Task
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *gormRepository) FindSpawnedOn(ctx context.Context, recurringConfigID string, day time.Time) (*Task, error) {
	if r == nil || r.db == nil {
		return nil, gorm.ErrInvalidDB
	}

	start := dateutil.StartOfDay(day)
	end := start.AddDate(0, 0, 1)

	var t Task
	err := r.db.WithContext(ctx).
		Where("recurring_config_id = ? AND source = ?", recurringConfigID, SourceRepeat).
		Where("created_at >= ? AND created_at < ?", start, end).
		Order("created_at DESC").
		First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}
