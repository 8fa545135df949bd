package queue

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"

	"tourbooking-backend/internal/config"
	"tourbooking-backend/internal/shared"
	"tourbooking-backend/pkg/logger"
)

type Scheduler struct {
	scheduler *asynq.Scheduler
	jobConfig config.JobConfig
}

func NewScheduler(redisAddress string, jobConfig config.JobConfig) *Scheduler {
	scheduler := asynq.NewScheduler(
		asynq.RedisClientOpt{Addr: redisAddress},
		&asynq.SchedulerOpts{
			Location: time.UTC,
			LogLevel: asynq.InfoLevel,
		},
	)

	return &Scheduler{
		scheduler: scheduler,
		jobConfig: jobConfig,
	}
}

func (s *Scheduler) RegisterPaymentJobs() error {
	if err := s.registerExpireStalePaymentsJob(); err != nil {
		return err
	}

	if err := s.registerRetryWebhooksJob(); err != nil {
		return err
	}

	return nil
}

// ================================================
// JOB 1: Expire Stale Payments
// ================================================
// Bookings stuck in payment_status='pending' past the payment window
// get failed so inventory-facing reports stay honest. A customer who
// eventually pays races this job through the settlement guard; whoever
// writes first wins, the other sees a conflict.
func (s *Scheduler) registerExpireStalePaymentsJob() error {
	payload, err := json.Marshal(shared.ExpireStalePaymentsPayload{})
	if err != nil {
		return err
	}

	task := asynq.NewTask(shared.TypeExpireStalePayments, payload)

	_, err = s.scheduler.Register(
		s.jobConfig.ExpireStaleCron,
		task,
		asynq.Queue(shared.QueueDefault),
		asynq.MaxRetry(2),
		asynq.Timeout(5*time.Minute),
	)

	if err != nil {
		logger.Error("Failed to register ExpireStalePayments job", err)
		return err
	}

	logger.Info("✓ Registered ExpireStalePayments", map[string]interface{}{
		"cron": s.jobConfig.ExpireStaleCron,
	})
	return nil
}

// ================================================
// JOB 2: Retry Unprocessed Webhooks
// ================================================
// Notifications logged during a store outage are replayed until they
// settle or are marked with a permanent processing error.
func (s *Scheduler) registerRetryWebhooksJob() error {
	payload, err := json.Marshal(shared.RetryWebhooksPayload{})
	if err != nil {
		return err
	}

	task := asynq.NewTask(shared.TypeRetryWebhooks, payload)

	_, err = s.scheduler.Register(
		s.jobConfig.RetryWebhookCron,
		task,
		asynq.Queue(shared.QueueHigh),
		asynq.MaxRetry(3),
		asynq.Timeout(2*time.Minute),
	)

	if err != nil {
		logger.Error("Failed to register RetryWebhooks job", err)
		return err
	}

	logger.Info("✓ Registered RetryWebhooks", map[string]interface{}{
		"cron": s.jobConfig.RetryWebhookCron,
	})
	return nil
}

// Run starts the scheduler (blocking)
func (s *Scheduler) Run() error {
	return s.scheduler.Run()
}

// Start starts the scheduler without blocking
func (s *Scheduler) Start() error {
	return s.scheduler.Start()
}

// Shutdown stops the scheduler
func (s *Scheduler) Shutdown() {
	s.scheduler.Shutdown()
}
