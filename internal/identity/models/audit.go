package models

import (
	"time"

	id "idlink/pkg/domain"
)

// EventType names an audit event.
type EventType string

const (
	EventPersonCreated  EventType = "person_created"
	EventAccountLinked  EventType = "account_linked"
	EventDeviceLinked   EventType = "device_linked"
	EventPhoneAttached  EventType = "phone_attached"
	EventLoginSucceeded EventType = "login_succeeded"
	EventLinkCodeIssued EventType = "link_code_issued"
)

// MergeEventType is the audit type recorded for each person folded into a primary.
func MergeEventType(method MergeMethod) EventType {
	if method == "" {
		method = MergeMethodAuto
	}
	return EventType("merge_" + string(method))
}

// AuditEvent is an append-only forensic record. It is never read by
// resolution logic.
type AuditEvent struct {
	ID        id.EventID
	PersonID  *id.PersonID
	Type      EventType
	Payload   map[string]any
	CreatedAt time.Time
}

// OutboxEntry is an audit event waiting to be relayed to the event bus.
type OutboxEntry struct {
	ID        id.EventID
	PersonID  *id.PersonID
	Type      EventType
	Payload   []byte
	CreatedAt time.Time
}
