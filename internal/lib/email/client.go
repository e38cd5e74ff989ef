// Package email sends transactional email through Resend.
package email

import (
	"context"
	"fmt"

	"github.com/deppfellow/go-catalog/internal/config"
	"github.com/resend/resend-go/v2"
	"github.com/rs/zerolog"
)

// Client wraps the Resend API.
type Client struct {
	client *resend.Client
	from   string
	logger *zerolog.Logger
}

// NewClient builds a Client. Without an API key the client only logs what it
// would have sent, which keeps local development free of real email.
func NewClient(cfg *config.Config, logger *zerolog.Logger) *Client {
	c := &Client{
		from:   cfg.Integration.EmailFrom,
		logger: logger,
	}
	if cfg.Integration.ResendAPIKey != "" {
		c.client = resend.NewClient(cfg.Integration.ResendAPIKey)
	}
	return c
}

// SendEmail renders templateName with data and sends it to a single recipient.
func (c *Client) SendEmail(ctx context.Context, to, subject string, templateName Template, data map[string]string) error {
	body, err := Render(templateName, data)
	if err != nil {
		return err
	}

	if c.client == nil {
		c.logger.Info().
			Str("to", to).
			Str("template", string(templateName)).
			Msg("resend api key not set, email not sent")
		return nil
	}

	_, err = c.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    c.from,
		To:      []string{to},
		Subject: subject,
		Html:    body,
	})
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
