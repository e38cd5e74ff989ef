package email

import "context"

// SendWelcomeEmail greets a user after their first login.
func (c *Client) SendWelcomeEmail(ctx context.Context, to, name, provider, catalogURL string) error {
	return c.SendEmail(ctx, to, "Welcome to the Catalog!", TemplateWelcome, map[string]string{
		"UserName":   name,
		"Provider":   provider,
		"CatalogURL": catalogURL,
	})
}
