// Package notifications delivers transactional email. Sending is always
// best-effort from the caller's point of view: failures are logged, never
// surfaced to the registrant.
package notifications

import "context"

// Notifier sends the registration welcome email.
type Notifier interface {
	SendWelcome(ctx context.Context, email, name string) error
}
