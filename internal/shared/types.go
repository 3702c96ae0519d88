package shared

// Task type names shared between the API (enqueue side) and the worker.
const (
	TypeSendOrderConfirmation = "order:send_confirmation"
	TypeCleanupStaleCarts     = "cart:cleanup_stale"
)

// Queue names with their worker priorities.
const (
	QueueHigh    = "high"
	QueueDefault = "default"
	QueueLow     = "low"
)
