package recurring

import (
	"context"
	"time"

	"github.com/hibiken/asynq"
	"github.com/robfig/cron/v3"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"quatro-backend/pkg/config"
)

// Scheduler periodically enqueues a spawn cycle. The queue gives the cycle
// at-least-once semantics; the service's idempotency markers make that safe.
type Scheduler struct {
	cron   *cron.Cron
	client *asynq.Client
	spec   string
	queue  string
}

func NewScheduler(cfg *config.Config, client *asynq.Client) *Scheduler {
	return &Scheduler{
		cron:   cron.New(),
		client: client,
		spec:   cfg.Recurrence.CronSpec,
		queue:  cfg.Recurrence.Queue,
	}
}

// StartScheduler hooks the cron loop into the fx lifecycle.
func StartScheduler(lc fx.Lifecycle, s *Scheduler) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if _, err := s.cron.AddFunc(s.spec, s.enqueueCycle); err != nil {
				return err
			}
			s.cron.Start()
			zap.L().Info("[Scheduler] started recurrence cycle scheduler", zap.String("spec", s.spec))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			stopped := s.cron.Stop()
			select {
			case <-stopped.Done():
			case <-ctx.Done():
			}
			zap.L().Info("[Scheduler] stopped")
			return nil
		},
	})
}

func (s *Scheduler) enqueueCycle() {
	t, err := NewCycleTask(time.Now())
	if err != nil {
		zap.L().Error("[Scheduler] failed to build cycle task", zap.Error(err))
		return
	}

	info, err := s.client.Enqueue(t, asynq.Queue(s.queue))
	if err != nil {
		zap.L().Error("[Scheduler] failed to enqueue cycle task", zap.Error(err))
		return
	}

	zap.L().Debug("[Scheduler] enqueued cycle task",
		zap.String("task_id", info.ID),
		zap.String("queue", info.Queue),
	)
}
