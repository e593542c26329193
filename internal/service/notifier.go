package service

import "context"

// Notifier delivers a notification to a member. The contract is
// content only (subject, body); delivery is an external collaborator
// and failures are logged, never allowed to fail the calling
// operation.
type Notifier interface {
	Send(ctx context.Context, to, subject, body string) error
}

// NopNotifier discards notifications. Useful in tests and when no
// broker is configured.
type NopNotifier struct{}

func (NopNotifier) Send(context.Context, string, string, string) error { return nil }

var _ Notifier = NopNotifier{}
