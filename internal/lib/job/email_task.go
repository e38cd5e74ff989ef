package job

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
)

// TaskWelcome routes welcome email tasks.
const TaskWelcome = "email:welcome"

// WelcomeEmailPayload is the JSON body of a TaskWelcome task.
type WelcomeEmailPayload struct {
	To       string `json:"to"`
	Name     string `json:"name"`
	Provider string `json:"provider"`
}

// NewWelcomeEmailTask builds the task with three retries on the default queue.
func NewWelcomeEmailTask(to, name, provider string) (*asynq.Task, error) {
	payload, err := json.Marshal(WelcomeEmailPayload{To: to, Name: name, Provider: provider})
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(
		TaskWelcome,
		payload,
		asynq.MaxRetry(3),
		asynq.Queue("default"),
		asynq.Timeout(30*time.Second),
	), nil
}

// EnqueueWelcomeEmail queues a welcome email for a new user.
func (j *JobService) EnqueueWelcomeEmail(ctx context.Context, to, name, provider string) error {
	task, err := NewWelcomeEmailTask(to, name, provider)
	if err != nil {
		return fmt.Errorf("build welcome email task: %w", err)
	}

	info, err := j.Client.EnqueueContext(ctx, task)
	if err != nil {
		return fmt.Errorf("enqueue welcome email: %w", err)
	}

	j.logger.Debug().
		Str("task_id", info.ID).
		Str("queue", info.Queue).
		Msg("welcome email enqueued")
	return nil
}
