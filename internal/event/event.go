package event

import (
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	TypeFileUpdated   Type = "file.updated"
	TypeFileDeleted   Type = "file.deleted"
	TypeJobRun        Type = "cron.run"
	TypeJobToggled    Type = "cron.toggled"
	TypeProcessKilled Type = "process.killed"
)

type Event struct {
	ID        string `json:"id"`
	Type      Type   `json:"type"`
	Payload   any    `json:"payload"`
	Timestamp string `json:"timestamp"`
}

// New stamps an event with a fresh id and the current time.
func New(t Type, payload any) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      t,
		Payload:   payload,
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
	}
}

type Bus interface {
	Publish(e Event)
	Subscribe() (<-chan Event, func())
}

// Publish is a nil-safe helper for services with an optional bus.
func Publish(bus Bus, t Type, payload any) {
	if bus == nil {
		return
	}
	bus.Publish(New(t, payload))
}
