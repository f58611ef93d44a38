package recurring

import (
	"context"
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

const TaskCycleRun = "recurring:cycle:run"

// CyclePayload carries the observation timestamp the trigger saw, so the
// whole cycle evaluates against a single consistent instant even if queue
// delivery lags.
type CyclePayload struct {
	ObservedAt time.Time `json:"observed_at"`
}

func NewCycleTask(observedAt time.Time) (*asynq.Task, error) {
	payload, err := json.Marshal(CyclePayload{ObservedAt: observedAt})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskCycleRun, payload,
		asynq.MaxRetry(3),
		asynq.Timeout(5*time.Minute),
	), nil
}

// HandleCycleTask is the asynq worker entrypoint for a spawn cycle.
func (s *Service) HandleCycleTask(ctx context.Context, t *asynq.Task) error {
	var payload CyclePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		zap.L().Error("invalid cycle payload", zap.Error(err))
		return err
	}

	_, err := s.RunCycle(ctx, payload.ObservedAt)
	return err
}
