// Package metrics provides application metrics recording.
package metrics

// Recorder is the interface for recording application metrics.
// Implementations must be safe for concurrent use.
type Recorder interface {
	// IncProductWrite increments the counter for a product mutation.
	// Operation is one of "created", "updated", "deleted".
	IncProductWrite(operation string)

	// IncAuthAttempt increments the counter for an authentication attempt.
	// Result is "success" or "failure".
	IncAuthAttempt(result string)

	// IncFeedDelivery increments the counter for a change feed delivery.
	// Result is "delivered" or "dropped".
	IncFeedDelivery(result string)

	// SetFeedSubscribers records the current number of feed subscribers.
	SetFeedSubscribers(n int)
}
