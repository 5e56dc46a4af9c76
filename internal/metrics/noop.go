package metrics

// Noop is a Recorder that discards all metrics.
// Used when metrics collection is disabled and as a default in constructors.
type Noop struct{}

// NewNoop creates a new no-op recorder.
func NewNoop() *Noop {
	return &Noop{}
}

func (*Noop) IncProductWrite(string)  {}
func (*Noop) IncAuthAttempt(string)   {}
func (*Noop) IncFeedDelivery(string)  {}
func (*Noop) SetFeedSubscribers(int)  {}
