package events

import "time"

// Event type codes published on the bus. The subject on the wire is
// "events.<code>".
const (
	TypeDocumentUploaded      = "DOCUMENT_UPLOADED"
	TypeDocumentRetyped       = "DOCUMENT_RETYPED"
	TypeProcedureStarted      = "PROCEDURE_STARTED"
	TypeProcedureComplete     = "PROCEDURE_COMPLETE"
	TypeProcedureAbandoned    = "PROCEDURE_ABANDONED"
	TypeRequirementAutofilled = "REQUIREMENT_AUTOFILLED"
)

// Event is the contract for everything that crosses the event bus.
type Event interface {
	// EventType returns the unique code for this event.
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent is the generic implementation used by publishers and when
// reconstructing events off the wire.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// New builds a BaseEvent stamped with the current time.
func New(eventType string, data map[string]interface{}) BaseEvent {
	return BaseEvent{Type: eventType, Data: data, OccurredAt: time.Now()}
}
