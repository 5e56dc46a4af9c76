package handler

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/stockroom/stockroom/internal/feed"
	"github.com/stockroom/stockroom/internal/handler/dto"
)

// heartbeatInterval keeps idle SSE connections alive through proxies.
const heartbeatInterval = 30 * time.Second

// EventsHandler streams the product change feed over Server-Sent Events.
type EventsHandler struct {
	feed   *feed.Feed
	logger *slog.Logger
}

// NewEventsHandler creates a new EventsHandler.
func NewEventsHandler(f *feed.Feed, logger *slog.Logger) *EventsHandler {
	return &EventsHandler{
		feed:   f,
		logger: logger,
	}
}

// Stream handles GET /api/v1/products/events.
// Each product mutation arrives as one SSE message; the stream ends when
// the client disconnects or the server shuts down. A dropped event (slow
// consumer) is skipped, never retried: the feed is a notification channel,
// not a durable log.
func (h *EventsHandler) Stream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "STREAMING_UNSUPPORTED", "Streaming is not supported")
		return
	}

	sub := h.feed.Subscribe()
	defer h.feed.Unsubscribe(sub.ID)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	h.logger.Info("event_stream_opened", "subscription_id", sub.ID)

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			h.logger.Info("event_stream_closed", "subscription_id", sub.ID)
			return

		case <-heartbeat.C:
			fmt.Fprint(w, ": heartbeat\n\n")
			flusher.Flush()

		case event, open := <-sub.C:
			if !open {
				// Feed shut down.
				return
			}

			data, err := json.Marshal(dto.ToProductEventPayload(event))
			if err != nil {
				h.logger.Error("marshal event", "error", err)
				continue
			}

			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Kind(), data)
			flusher.Flush()
		}
	}
}
