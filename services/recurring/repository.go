package recurring

import (
	"context"
	"time"

	"gorm.io/gorm"

	"quatro-backend/pkg/dateutil"
)

// UpdateFields is the partial update applied to a config after a terminal
// spawn decision. Both fields are pure overwrites, so re-applying them is
// harmless under retried invocations.
type UpdateFields struct {
	LastRunDate      *time.Time
	MostRecentTaskID *string
}

// Repository describes database operations available for recurring configs.
type Repository interface {
	Create(ctx context.Context, cfg *RecurringConfig) error
	// FindDue returns all configs not yet processed on now's calendar day.
	FindDue(ctx context.Context, now time.Time) ([]*RecurringConfig, error)
	Update(ctx context.Context, id string, fields UpdateFields) error
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository returns a gorm backed Repository implementation.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Create(ctx context.Context, cfg *RecurringConfig) error {
	if r == nil || r.db == nil {
		return gorm.ErrInvalidDB
	}
	return r.db.WithContext(ctx).Create(cfg).Error
}

func (r *gormRepository) FindDue(ctx context.Context, now time.Time) ([]*RecurringConfig, error) {
	if r == nil || r.db == nil {
		return nil, gorm.ErrInvalidDB
	}

	startOfDay := dateutil.StartOfDay(now)

	var configs []*RecurringConfig
	err := r.db.WithContext(ctx).
		Where("last_run_date IS NULL OR last_run_date < ?", startOfDay).
		Order("id ASC").
		Find(&configs).Error
	if err != nil {
		return nil, err
	}
	return configs, nil
}

func (r *gormRepository) Update(ctx context.Context, id string, fields UpdateFields) error {
	if r == nil || r.db == nil {
		return gorm.ErrInvalidDB
	}

	updates := map[string]any{}
	if fields.LastRunDate != nil {
		updates["last_run_date"] = *fields.LastRunDate
	}
	if fields.MostRecentTaskID != nil {
		updates["most_recent_task_id"] = *fields.MostRecentTaskID
	}
	if len(updates) == 0 {
		return nil
	}

	res := r.db.WithContext(ctx).
		Model(&RecurringConfig{}).
		Where("id = ?", id).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
