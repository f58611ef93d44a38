package recurring

import (
	"context"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"quatro-backend/pkg/config"
	"quatro-backend/pkg/dateutil"
	"quatro-backend/pkg/errutil"
	"quatro-backend/services/task"
)

// CycleReport summarises one pass over the due recurring configs.
type CycleReport struct {
	RanAt          time.Time `json:"ran_at"`
	Total          int       `json:"total"`
	Created        int       `json:"created"`
	Skipped        int       `json:"skipped"`
	Errors         int       `json:"errors"`
	CreatedTaskIDs []string  `json:"created_task_ids"`
}

type outcome int

const (
	outcomeSkipped outcome = iota
	outcomeCreated
	outcomeErrored
)

// Service spawns task instances from recurring configs. Configs are
// processed independently; one config's failure never aborts the batch.
type Service struct {
	configs     Repository
	tasks       task.Repository
	node        *snowflake.Node
	workerLimit int

	mu         sync.Mutex
	lastReport *CycleReport
}

type Params struct {
	fx.In
	Configs Repository
	Tasks   task.Repository
	Node    *snowflake.Node
	Config  *config.Config
}

func NewService(p Params) *Service {
	limit := p.Config.Recurrence.WorkerLimit
	if limit < 1 {
		limit = 1
	}
	return &Service{
		configs:     p.Configs,
		tasks:       p.Tasks,
		node:        p.Node,
		workerLimit: limit,
	}
}

// RunCycle evaluates every due config against now and spawns at most one new
// task per config. It is safe under overlapping or retried invocations: the
// per-config last-run marker plus the same-day spawn re-check make the spawn
// decision idempotent at calendar-day granularity.
func (s *Service) RunCycle(ctx context.Context, now time.Time) (*CycleReport, error) {
	report := &CycleReport{RanAt: now, CreatedTaskIDs: []string{}}

	configs, err := s.configs.FindDue(ctx, now)
	if err != nil {
		zap.L().Error("failed to load due recurring configs", zap.Error(err))
		return report, errutil.Persistence("load due recurring configs", errutil.WithErr(err))
	}
	report.Total = len(configs)

	var mu sync.Mutex
	g := errgroup.Group{}
	// No two configs touch each other's records, so bounded parallelism is
	// harmless; the limit keeps store write pressure low.
	g.SetLimit(s.workerLimit)

	for _, cfg := range configs {
		cfg := cfg
		g.Go(func() error {
			result, createdID := s.processConfig(ctx, cfg, now)

			mu.Lock()
			defer mu.Unlock()
			switch result {
			case outcomeCreated:
				report.Created++
				report.CreatedTaskIDs = append(report.CreatedTaskIDs, createdID)
			case outcomeErrored:
				report.Errors++
			default:
				report.Skipped++
			}
			return nil
		})
	}
	_ = g.Wait()

	zap.L().Info("recurring tasks processed",
		zap.Time("now", now),
		zap.Int("total", report.Total),
		zap.Int("created", report.Created),
		zap.Int("skipped", report.Skipped),
		zap.Int("errors", report.Errors),
	)

	s.mu.Lock()
	s.lastReport = report
	s.mu.Unlock()

	return report, nil
}

// LastReport returns the most recent cycle report, or nil before any cycle.
func (s *Service) LastReport() *CycleReport {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastReport
}

func (s *Service) processConfig(ctx context.Context, cfg *RecurringConfig, now time.Time) (outcome, string) {
	log := zap.L().With(
		zap.String("config_id", cfg.ID),
		zap.String("user_id", cfg.UserID),
	)

	// FindDue already filters on last_run_date, but a concurrent invocation
	// may have stamped it after our read.
	if cfg.LastRunDate != nil && dateutil.SameCalendarDay(*cfg.LastRunDate, now) {
		log.Debug("skipping config already processed today")
		return outcomeSkipped, ""
	}

	if cfg.MostRecentTaskID == "" {
		log.Error("config has no anchor task reference")
		return outcomeErrored, ""
	}

	anchor, err := s.tasks.FindByID(ctx, cfg.MostRecentTaskID)
	if err != nil {
		log.Error("failed to load anchor task", zap.Error(err))
		return outcomeErrored, ""
	}
	if anchor == nil {
		// Orphaned config: the anchor was deleted out from under it. Leave
		// the config untouched so a data fix gets picked up next cycle.
		log.Error("anchor task missing",
			zap.String("task_id", cfg.MostRecentTaskID),
			zap.String("status", string(errutil.StatusDataIntegrity)),
		)
		return outcomeErrored, ""
	}
	if anchor.ScheduledStart == nil {
		log.Error("anchor task has no scheduled start",
			zap.String("task_id", anchor.ID),
			zap.String("status", string(errutil.StatusDataIntegrity)),
		)
		return outcomeErrored, ""
	}

	applicable, err := Applies(cfg, *anchor.ScheduledStart, now)
	if err != nil {
		log.Error("rule evaluation failed", zap.Error(err))
		return outcomeErrored, ""
	}
	if !applicable {
		log.Debug("skipping config because rule does not apply today")
		return outcomeSkipped, ""
	}

	newStart := dateutil.Reanchor(*anchor.ScheduledStart, now)

	if anchor.Completed == nil {
		// An incomplete anchor blocks spawning for this period only. Once its
		// time of day has passed, stamp the config as run so completing the
		// task later today cannot retroactively spawn a duplicate.
		if newStart.Before(now) {
			log.Debug("anchor incomplete and scheduled time passed, marking config as run today")
			s.stampLastRun(ctx, cfg.ID, now, log)
		} else {
			log.Debug("anchor incomplete, skipping config")
		}
		return outcomeSkipped, ""
	}

	// Second idempotency layer: the create/update pair below is not atomic,
	// so a crash between the two can leave a spawn unrecorded on the config.
	existing, err := s.tasks.FindSpawnedOn(ctx, cfg.ID, now)
	if err != nil {
		log.Error("failed to check for an existing same-day spawn", zap.Error(err))
		return outcomeErrored, ""
	}
	if existing != nil {
		log.Debug("skipping config because an instance was already spawned today",
			zap.String("task_id", existing.ID))
		s.stampLastRun(ctx, cfg.ID, now, log)
		return outcomeSkipped, ""
	}

	newTask := s.cloneAnchor(cfg, anchor, newStart, now)
	if err := s.tasks.Create(ctx, newTask); err != nil {
		// Deliberately no last-run update here: the next cycle retries.
		log.Error("failed to create spawned task", zap.Error(err))
		return outcomeErrored, ""
	}

	if err := s.configs.Update(ctx, cfg.ID, UpdateFields{
		LastRunDate:      &now,
		MostRecentTaskID: &newTask.ID,
	}); err != nil {
		// The task exists but the config still points at the old anchor.
		// The same-day spawn re-check above absorbs this on the next cycle.
		log.Error("spawned task but failed to update config bookkeeping",
			zap.String("task_id", newTask.ID),
			zap.Error(err),
		)
		return outcomeErrored, newTask.ID
	}

	log.Info("created recurring task instance",
		zap.String("task_id", newTask.ID),
		zap.Time("scheduled_start", newStart),
	)
	return outcomeCreated, newTask.ID
}

func (s *Service) stampLastRun(ctx context.Context, configID string, now time.Time, log *zap.Logger) {
	if err := s.configs.Update(ctx, configID, UpdateFields{LastRunDate: &now}); err != nil {
		log.Error("failed to stamp last run date", zap.Error(err))
	}
}

// cloneAnchor builds the new task instance from the anchor template. The due
// date keeps the anchor's day offset from its scheduled start, and both
// timestamps keep their original time of day.
func (s *Service) cloneAnchor(cfg *RecurringConfig, anchor *task.Task, newStart, now time.Time) *task.Task {
	var newDue *time.Time
	if anchor.Due != nil {
		offsetDays := dateutil.DiffCalendarDays(*anchor.ScheduledStart, *anchor.Due)
		due := dateutil.Reanchor(*anchor.Due, newStart.AddDate(0, 0, offsetDays))
		newDue = &due
	}

	configID := cfg.ID
	return &task.Task{
		ID:                s.node.Generate().String(),
		UserID:            cfg.UserID,
		Title:             stripRepeatMarker(anchor.Title),
		Description:       anchor.Description,
		Effort:            anchor.Effort,
		Impact:            anchor.Impact,
		ScheduledStart:    &newStart,
		Due:               newDue,
		Completed:         nil,
		RecurringConfigID: &configID,
		Source:            task.SourceRepeat,
		CreatedAt:         now,
	}
}

var repeatMarker = regexp.MustCompile(`\s*🔁+\s*$`)

// stripRepeatMarker drops the trailing repeat emoji some seed tasks carry in
// their titles.
func stripRepeatMarker(title string) string {
	return strings.TrimSpace(repeatMarker.ReplaceAllString(title, ""))
}
