package eventbus

import "time"

// EventType identifies an event flowing through the bus.
type EventType string

const (
	// Stage transition events emitted by the board drag controller.
	EventStageChanged       EventType = "stage.changed"
	EventStageChangeAborted EventType = "stage.change_aborted"

	// Registry events.
	EventRegistryRefreshed EventType = "registry.refreshed"
)

// Event is a single notification. Only the fields relevant to the event
// type are populated. The JSON form is what the audit log stores.
type Event struct {
	Type   EventType `json:"type"`
	ItemID string    `json:"item_id,omitempty"`
	From   string    `json:"from,omitempty"` // stage key the move started from
	To     string    `json:"to,omitempty"`   // stage key the move targeted
	Reason string    `json:"reason,omitempty"`
	Time   time.Time `json:"time"`
}
