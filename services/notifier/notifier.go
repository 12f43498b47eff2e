package notifier

import "context"

// Notifier delivers formatted alert text to the operator channel
type Notifier interface {
	// Notify sends an already formatted MarkdownV2 message
	Notify(ctx context.Context, text string) error

	// NotifyError sends a short failure summary, prefixed and escaped
	NotifyError(ctx context.Context, summary string) error
}

// Named is implemented by notifiers that name themselves in run summaries
type Named interface {
	Channel() string
}
