// Package feed implements the product change feed: an in-process
// publish/subscribe registry that decouples catalog mutation from
// notification delivery so observers react to changes without polling.
package feed

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/stockroom/stockroom/internal/metrics"
	"github.com/stockroom/stockroom/internal/model"
)

// DefaultBuffer is the per-subscription channel buffer.
const DefaultBuffer = 64

// Subscription is a handle to a registered subscriber. Events arrive on C;
// the channel is closed when the subscription is removed or the feed shuts
// down.
type Subscription struct {
	ID string
	C  <-chan model.ProductEvent

	ch     chan model.ProductEvent
	mu     sync.Mutex
	closed bool
}

// send delivers an event without blocking. Returns false if the buffer is
// full or the subscription is closed.
func (s *Subscription) send(event model.ProductEvent) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	select {
	case s.ch <- event:
		return true
	default:
		return false
	}
}

func (s *Subscription) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	close(s.ch)
}

// Feed fans product mutation events out to subscribers.
type Feed struct {
	mu     sync.RWMutex
	subs   map[string]*Subscription
	buffer int
	closed bool

	logger  *slog.Logger
	metrics metrics.Recorder
}

// New creates a feed. buffer is the per-subscription channel capacity;
// values <= 0 fall back to DefaultBuffer.
func New(buffer int, logger *slog.Logger, recorder metrics.Recorder) *Feed {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &Feed{
		subs:    make(map[string]*Subscription),
		buffer:  buffer,
		logger:  logger.With("component", "feed"),
		metrics: recorder,
	}
}

// Subscribe registers a new subscriber and returns its handle.
// Registration is bookkeeping only; it never blocks on delivery. Subscribing
// to a feed that has shut down returns a handle whose channel is already
// closed.
func (f *Feed) Subscribe() *Subscription {
	ch := make(chan model.ProductEvent, f.buffer)
	sub := &Subscription{
		ID: uuid.New().String(),
		C:  ch,
		ch: ch,
	}

	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		sub.close()
		return sub
	}
	f.subs[sub.ID] = sub
	n := len(f.subs)
	f.mu.Unlock()

	f.metrics.SetFeedSubscribers(n)
	f.logger.Debug("subscriber registered", "subscription_id", sub.ID)
	return sub
}

// Unsubscribe removes a subscriber and closes its channel.
// Idempotent: removing an unknown or already-removed handle is a no-op.
func (f *Feed) Unsubscribe(id string) {
	f.mu.Lock()
	sub, ok := f.subs[id]
	if ok {
		delete(f.subs, id)
	}
	n := len(f.subs)
	f.mu.Unlock()

	if !ok {
		return
	}

	sub.close()
	f.metrics.SetFeedSubscribers(n)
	f.logger.Debug("subscriber removed", "subscription_id", id)
}

// Publish delivers an event to every current subscriber. Best effort: a
// subscriber whose buffer is full has the event dropped (logged and counted)
// so a slow consumer never delays the publishing write or other subscribers.
// The registry lock is released before any delivery, so delivery cannot
// stall subscribe/unsubscribe.
func (f *Feed) Publish(event model.ProductEvent) {
	f.mu.RLock()
	subs := make([]*Subscription, 0, len(f.subs))
	for _, sub := range f.subs {
		subs = append(subs, sub)
	}
	f.mu.RUnlock()

	for _, sub := range subs {
		if sub.send(event) {
			f.metrics.IncFeedDelivery("delivered")
			continue
		}
		f.metrics.IncFeedDelivery("dropped")
		f.logger.Warn("event dropped for slow subscriber",
			"subscription_id", sub.ID,
			"kind", string(event.Kind()),
		)
	}
}

// Shutdown closes every subscription and rejects new ones.
// Implements server.ShutdownFunc for integration with graceful shutdown.
func (f *Feed) Shutdown(ctx context.Context) error {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return nil
	}
	f.closed = true
	subs := make([]*Subscription, 0, len(f.subs))
	for _, sub := range f.subs {
		subs = append(subs, sub)
	}
	f.subs = make(map[string]*Subscription)
	f.mu.Unlock()

	for _, sub := range subs {
		sub.close()
	}

	f.metrics.SetFeedSubscribers(0)
	f.logger.Info("feed shut down", "closed_subscriptions", len(subs))
	return nil
}
