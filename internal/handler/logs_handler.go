package handler

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"go-workspace-dashboard/internal/gateway"
	"go-workspace-dashboard/internal/metrics"
)

const (
	heartbeatInterval = 15 * time.Second
	streamBacklog     = 50
)

type LogsHandler struct {
	logs *gateway.LogGateway
}

func NewLogsHandler(logs *gateway.LogGateway) *LogsHandler {
	return &LogsHandler{logs: logs}
}

func (h *LogsHandler) Activity(w http.ResponseWriter, r *http.Request) {
	data, err := h.logs.Activity(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, data)
}

func (h *LogsHandler) Logs(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	data, err := h.logs.Logs(r.Context(), query.Get("source"), parseIntOrDefault(query.Get("limit"), 0))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, data)
}

// Stream tails the journal as server-sent events, one data frame per line.
// The journalctl process is killed when the client goes away.
func (h *LogsHandler) Stream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, fmt.Errorf("response writer does not support flushing"))
		return
	}

	lines, err := h.logs.Follow(r.Context(), parseIntOrDefault(r.URL.Query().Get("lines"), streamBacklog))
	if err != nil {
		writeError(w, err)
		return
	}

	done := metrics.SSEOpened("logs")
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
		case line, open := <-lines:
			if !open {
				fmt.Fprint(w, "event: end\ndata: stream closed\n\n")
				flusher.Flush()
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", strings.ReplaceAll(line, "\r", ""))
			flusher.Flush()
		case <-heartbeat.C:
			fmt.Fprint(w, ": ping\n\n")
			flusher.Flush()
		}
	}
}

func startSSE(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
}
