package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go-workspace-dashboard/internal/event"
	"go-workspace-dashboard/internal/metrics"
)

type EventsHandler struct {
	bus event.Bus
}

func NewEventsHandler(bus event.Bus) *EventsHandler {
	return &EventsHandler{bus: bus}
}

// Stream pushes mutation events (file edits, job runs, kills) so that
// open dashboards can refresh without polling.
func (h *EventsHandler) Stream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, fmt.Errorf("response writer does not support flushing"))
		return
	}

	events, unsubscribe := h.bus.Subscribe()
	defer unsubscribe()

	done := metrics.SSEOpened("events")
	defer done()

	startSSE(w)
	fmt.Fprint(w, ": connected\n\n")
	flusher.Flush()

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case e, open := <-events:
			if !open {
				return
			}
			data, err := json.Marshal(e)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "id: %s\nevent: %s\ndata: %s\n\n", e.ID, e.Type, data)
			flusher.Flush()
		case <-heartbeat.C:
			fmt.Fprint(w, ": ping\n\n")
			flusher.Flush()
		}
	}
}
