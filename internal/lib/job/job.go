// Package job runs background work on Asynq, a Redis-backed queue.
//
// Tasks are enqueued through Client and consumed by the worker server
// started with Start. The daily revenue report is enqueued by the Asynq
// scheduler on a cron spec.
package job

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/deppfellow/restaurant-pos/internal/config"
)

type JobService struct {
	Client *asynq.Client

	server    *asynq.Server
	scheduler *asynq.Scheduler
	logger    *zerolog.Logger
	cfg       *config.Config

	mailer Mailer
	bills  BillSource
}

func NewJobService(logger *zerolog.Logger, cfg *config.Config) *JobService {
	redisOpt := asynq.RedisClientOpt{Addr: cfg.Redis.Address}

	client := asynq.NewClient(redisOpt)

	server := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"critical": 6,
				"default":  3,
				"low":      1,
			},
		},
	)

	return &JobService{
		Client:    client,
		server:    server,
		scheduler: asynq.NewScheduler(redisOpt, nil),
		logger:    logger,
		cfg:       cfg,
	}
}

// Start registers the task handlers, starts the workers and, when a
// manager address is configured, schedules the daily report. It returns
// once everything is running. InitHandlers must be called first.
func (j *JobService) Start() error {
	if j.mailer == nil || j.bills == nil {
		return fmt.Errorf("job handlers not initialized")
	}

	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskBillReceipt, j.handleBillReceiptTask)
	mux.HandleFunc(TaskDailyReport, j.handleDailyReportTask)

	j.logger.Info().Msg("starting background job server")

	if err := j.server.Start(mux); err != nil {
		return fmt.Errorf("start job server: %w", err)
	}

	if to := j.cfg.Reports.ManagerEmail; to != "" {
		task, err := NewDailyReportTask(to, timeZero)
		if err != nil {
			return err
		}

		entryID, err := j.scheduler.Register(j.cfg.Reports.DailyCron, task)
		if err != nil {
			return fmt.Errorf("schedule daily report: %w", err)
		}

		if err := j.scheduler.Start(); err != nil {
			return fmt.Errorf("start job scheduler: %w", err)
		}

		j.logger.Info().
			Str("entry_id", entryID).
			Str("cron", j.cfg.Reports.DailyCron).
			Msg("daily revenue report scheduled")
	}

	return nil
}

// EnqueueBillReceipt queues the receipt e-mail of a paid bill.
func (j *JobService) EnqueueBillReceipt(ctx context.Context, billID int, to string) error {
	task, err := NewBillReceiptTask(billID, to)
	if err != nil {
		return fmt.Errorf("build receipt task: %w", err)
	}

	info, err := j.Client.EnqueueContext(ctx, task)
	if err != nil {
		return fmt.Errorf("enqueue receipt task: %w", err)
	}

	j.logger.Debug().
		Str("task_id", info.ID).
		Int("bill_id", billID).
		Msg("receipt task enqueued")
	return nil
}

// Stop shuts down the scheduler and workers and closes the client.
func (j *JobService) Stop() {
	j.logger.Info().Msg("stopping background job server")
	j.scheduler.Shutdown()
	j.server.Shutdown()
	if err := j.Client.Close(); err != nil {
		j.logger.Error().Err(err).Msg("failed to close job client")
	}
}
