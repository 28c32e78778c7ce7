package event

import (
	"context"
	"log/slog"

	"go-workspace-dashboard/internal/metrics"
)

// RunAuditLog writes every mutation event to the logger and counts it until
// ctx is done.
func RunAuditLog(ctx context.Context, bus Bus, logger *slog.Logger) {
	events, unsubscribe := bus.Subscribe()
	defer unsubscribe()

	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-events:
			if !ok {
				return
			}
			metrics.RecordMutation(string(e.Type))
			logger.Info("audit", "event_id", e.ID, "type", string(e.Type), "payload", e.Payload)
		}
	}
}
