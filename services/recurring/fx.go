package recurring

import (
	"github.com/hibiken/asynq"
	"go.uber.org/fx"
)

var Module = fx.Module("recurring.service",
	fx.Provide(
		NewRepository,
		NewService,
		NewScheduler,
	),
	fx.Invoke(
		registerHandlers,
		StartScheduler,
	),
)

func registerHandlers(mux *asynq.ServeMux, svc *Service) {
	mux.HandleFunc(TaskCycleRun, svc.HandleCycleTask)
}
