// Package lib groups the integrations that sit beside the request path:
// the Resend email client in lib/email and the asynq task queue in lib/job
// that delivers welcome emails after a first login.
package lib
