// Package job runs work outside the request path.
//
// Two mechanisms live here:
//   - asynq tasks on Redis, enqueued by the API and processed by workers
//     started in the serve process (batch imports)
//   - an in-process cron schedule for periodic maintenance (archival)
package job

import (
	"context"
	"fmt"
	"time"

	"github.com/deppfellow/sportspredict/internal/config"
	"github.com/hibiken/asynq"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

const (
	QueueCritical = "critical"
	QueueDefault  = "default"
	QueueLow      = "low"
)

// JobService holds the asynq client (enqueue), the asynq server (workers) and
// the cron scheduler.
type JobService struct {
	Client *asynq.Client

	server *asynq.Server
	mux    *asynq.ServeMux
	cron   *cron.Cron
	logger *zerolog.Logger
}

func redisOpt(cfg *config.Config) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}
}

// NewJobService builds the client, the worker server and the scheduler.
// Nothing runs until Start.
func NewJobService(logger *zerolog.Logger, cfg *config.Config) *JobService {
	client := asynq.NewClient(redisOpt(cfg))

	// Concurrency is split across queues by weight: roughly 6 of 10 workers
	// serve critical, 3 default and 1 low.
	server := asynq.NewServer(
		redisOpt(cfg),
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				QueueCritical: 6,
				QueueDefault:  3,
				QueueLow:      1,
			},
			Logger:   newAsynqLogger(logger),
			LogLevel: asynq.WarnLevel,
		},
	)

	scheduler := cron.New(
		cron.WithLocation(time.UTC),
		cron.WithLogger(newCronLogger(logger)),
		cron.WithChain(cron.Recover(newCronLogger(logger)), cron.SkipIfStillRunning(newCronLogger(logger))),
	)

	return &JobService{
		Client: client,
		server: server,
		mux:    asynq.NewServeMux(),
		cron:   scheduler,
		logger: logger,
	}
}

// Schedule runs fn on the standard five-field cron spec. fn receives a context
// bounded by timeout. Runs never overlap: a tick that arrives while the
// previous run is still going is skipped.
func (j *JobService) Schedule(name, spec string, timeout time.Duration, fn func(ctx context.Context) error) error {
	_, err := j.cron.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		start := time.Now()
		if err := fn(ctx); err != nil {
			j.logger.Error().
				Str("job", name).
				Dur("duration", time.Since(start)).
				Err(err).
				Msg("scheduled job failed")
			return
		}

		j.logger.Debug().
			Str("job", name).
			Dur("duration", time.Since(start)).
			Msg("scheduled job finished")
	})
	if err != nil {
		return fmt.Errorf("failed to schedule %s with %q: %w", name, spec, err)
	}

	j.logger.Info().Str("job", name).Str("schedule", spec).Msg("job scheduled")
	return nil
}

// Start starts the scheduler and the task workers. Both run in the
// background. A worker start failure is returned, but the scheduler keeps
// running, since it does not depend on Redis.
func (j *JobService) Start() error {
	j.cron.Start()

	j.logger.Info().Msg("starting background job server")
	if err := j.server.Start(j.mux); err != nil {
		return fmt.Errorf("failed to start job server: %w", err)
	}
	return nil
}

// Stop stops scheduling new runs, waits for the running ones, then shuts the
// workers down and closes the client.
func (j *JobService) Stop() {
	j.logger.Info().Msg("stopping background job server")

	<-j.cron.Stop().Done()
	j.server.Shutdown()
	if err := j.Client.Close(); err != nil {
		j.logger.Warn().Err(err).Msg("failed to close job client")
	}
}
