package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

// handleWelcomeEmailTask sends the welcome email for a newly created user.
//
// Steps:
//   - Decode the JSON payload
//   - Send the email through the configured sender
//   - Log the outcome
//
// A returned error makes asynq mark the task failed and schedule a retry.
func (j *JobService) handleWelcomeEmailTask(ctx context.Context, t *asynq.Task) error {
	var p WelcomeEmailPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		// A malformed payload never succeeds, so skip the retries.
		return fmt.Errorf("failed to unmarshal welcome email payload: %v: %w", err, asynq.SkipRetry)
	}

	log := j.logger.With().Str("type", "welcome").Str("to", p.To).Logger()
	log.Info().Msg("processing welcome email task")

	if err := j.sender.SendWelcomeEmail(ctx, p.To, p.Name, p.Provider, j.catalogURL); err != nil {
		log.Error().Err(err).Msg("failed to send welcome email")
		return err
	}

	log.Info().Msg("sent welcome email")
	return nil
}
