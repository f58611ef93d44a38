package main

import (
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
	"gorm.io/gorm"

	asynqmod "quatro-backend/pkg/asynq"
	"quatro-backend/pkg/config"
	"quatro-backend/pkg/db"
	"quatro-backend/pkg/gen"
	"quatro-backend/pkg/logger"
	"quatro-backend/pkg/redis"
	"quatro-backend/services/health"
	"quatro-backend/services/recurring"
	"quatro-backend/services/task"
)

func main() {
	app := fx.New(
		config.Module,
		logger.Module,
		db.Module,
		redis.Module,
		gen.Module,
		asynqmod.Client,
		asynqmod.Server,
		task.Module,
		recurring.Module,
		health.Module,
		fx.Invoke(migrate),
		fxLogger,
	)

	app.Run()
}

var fxLogger = fx.WithLogger(func(cfg *config.Config, logger *zap.Logger) fxevent.Logger {
	return fxevent.NopLogger
})

func migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&recurring.RecurringConfig{},
		&task.Task{},
	)
}
