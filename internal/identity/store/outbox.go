package store

import (
	"time"

	"idlink/internal/identity/models"
)

// outboxPayload is the JSON document published to the event bus.
type outboxPayload struct {
	ID        string         `json:"id"`
	Type      string         `json:"event_type"`
	PersonID  string         `json:"person_id,omitempty"`
	Timestamp string         `json:"timestamp"`
	Data      map[string]any `json:"data,omitempty"`
}

func outboxPayloadFor(event models.AuditEvent) outboxPayload {
	p := outboxPayload{
		ID:        event.ID.String(),
		Type:      string(event.Type),
		Timestamp: event.CreatedAt.UTC().Format(time.RFC3339Nano),
		Data:      event.Payload,
	}
	if event.PersonID != nil {
		p.PersonID = event.PersonID.String()
	}
	return p
}
