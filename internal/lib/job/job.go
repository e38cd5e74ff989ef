// Package job runs background work on asynq, a Redis backed task queue.
//
// The web process both enqueues tasks and runs the worker that handles them.
package job

import (
	"context"
	"fmt"

	"github.com/deppfellow/go-catalog/internal/config"
	"github.com/deppfellow/go-catalog/internal/lib/email"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
)

// WelcomeSender delivers the welcome email.
type WelcomeSender interface {
	SendWelcomeEmail(ctx context.Context, to, name, provider, catalogURL string) error
}

// JobService owns the asynq client and worker server.
type JobService struct {
	Client *asynq.Client

	server     *asynq.Server
	logger     *zerolog.Logger
	sender     WelcomeSender
	catalogURL string
}

func redisOpt(cfg *config.Config) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}
}

// NewJobService builds the client, the worker server and the email sender.
func NewJobService(logger *zerolog.Logger, cfg *config.Config) *JobService {
	server := asynq.NewServer(redisOpt(cfg), asynq.Config{
		Concurrency: 10,
		Queues: map[string]int{
			"critical": 6,
			"default":  3,
			"low":      1,
		},
		Logger:   newAsynqLogger(logger),
		LogLevel: asynq.WarnLevel,
	})

	return &JobService{
		Client:     asynq.NewClient(redisOpt(cfg)),
		server:     server,
		logger:     logger,
		sender:     email.NewClient(cfg, logger),
		catalogURL: cfg.Server.PublicURL + "/catalog",
	}
}

// Start registers the task handlers and starts the workers in the background.
func (j *JobService) Start() error {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskWelcome, j.handleWelcomeEmailTask)

	j.logger.Info().Msg("starting background job server")

	if err := j.server.Start(mux); err != nil {
		return fmt.Errorf("start job server: %w", err)
	}
	return nil
}

// Stop waits for running tasks and closes the client.
func (j *JobService) Stop() {
	j.logger.Info().Msg("stopping background job server")
	j.server.Shutdown()
	if err := j.Client.Close(); err != nil {
		j.logger.Error().Err(err).Msg("failed to close job client")
	}
}

// asynqLogger routes asynq's own logging into zerolog.
type asynqLogger struct {
	log zerolog.Logger
}

func newAsynqLogger(logger *zerolog.Logger) *asynqLogger {
	return &asynqLogger{log: logger.With().Str("component", "asynq").Logger()}
}

func (l *asynqLogger) Debug(args ...any) { l.log.Debug().Msg(fmt.Sprint(args...)) }
func (l *asynqLogger) Info(args ...any)  { l.log.Info().Msg(fmt.Sprint(args...)) }
func (l *asynqLogger) Warn(args ...any)  { l.log.Warn().Msg(fmt.Sprint(args...)) }
func (l *asynqLogger) Error(args ...any) { l.log.Error().Msg(fmt.Sprint(args...)) }
func (l *asynqLogger) Fatal(args ...any) { l.log.Fatal().Msg(fmt.Sprint(args...)) }
