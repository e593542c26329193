package queue

// NotificationEvent is published whenever billing wants to reach a
// member (payment reminders, suspension notices). It carries the full
// rendered message so the consumer can deliver or log it without
// querying the primary database.
type NotificationEvent struct {
	To       string `json:"to"`
	Subject  string `json:"subject"`
	Body     string `json:"body"`
	QueuedAt string `json:"queued_at"`
}
