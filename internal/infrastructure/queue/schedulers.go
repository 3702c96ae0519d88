package queue

import (
	"time"

	"github.com/hibiken/asynq"

	"nutrition-backend/internal/shared"
	"nutrition-backend/pkg/logger"
)

type Scheduler struct {
	scheduler *asynq.Scheduler
}

func NewScheduler(redisAddr string) *Scheduler {
	scheduler := asynq.NewScheduler(
		asynq.RedisClientOpt{Addr: redisAddr},
		&asynq.SchedulerOpts{
			Location: time.UTC,
			LogLevel: asynq.InfoLevel,
		},
	)

	return &Scheduler{scheduler: scheduler}
}

// RegisterCronJobs wires every recurring task into the scheduler.
func (s *Scheduler) RegisterCronJobs() error {
	return s.registerStaleCartCleanupJob()
}

// Stale cart cleanup, daily at 3 AM UTC.
func (s *Scheduler) registerStaleCartCleanupJob() error {
	task := asynq.NewTask(shared.TypeCleanupStaleCarts, nil)

	_, err := s.scheduler.Register(
		"0 3 * * *",
		task,
		asynq.Queue(shared.QueueLow),
		asynq.MaxRetry(1),
		asynq.Timeout(5*time.Minute),
	)
	if err != nil {
		logger.Error("failed to register stale cart cleanup job", err)
		return err
	}

	logger.Info("stale cart cleanup job registered", map[string]interface{}{
		"cron": "0 3 * * *",
	})
	return nil
}

func (s *Scheduler) Start() error {
	return s.scheduler.Start()
}

func (s *Scheduler) Shutdown() {
	s.scheduler.Shutdown()
}
