package shared

// Asynq task type names.
// The payment jobs run through the same guarded transition path as the
// HTTP callbacks, so a racing webhook and expiry job cannot both settle.
const (
	TypeExpireStalePayments = "payment:expire_stale"
	TypeRetryWebhooks       = "payment:retry_webhooks"
)

// Queue names
const (
	QueueHigh    = "high"
	QueueDefault = "default"
	QueueLow     = "low"
)

// ExpireStalePaymentsPayload carries parameters for the expiry job
type ExpireStalePaymentsPayload struct{}

// RetryWebhooksPayload carries parameters for the webhook retry job
type RetryWebhooksPayload struct{}
