// Package protocol defines the messages exchanged over the websocket tap.
package protocol

// MessageType defines the type of WebSocket message
type MessageType string

const (
	// TypeDecision streams one debouncer verdict to connected observers
	TypeDecision MessageType = "decision"

	// TypeStatus carries a full status snapshot
	TypeStatus MessageType = "status"

	// TypePause is sent by a client to pause or resume smoothing
	TypePause MessageType = "pause"

	// TypePing can be used for application-level heartbeats if needed
	TypePing MessageType = "ping"
)

// Message is the generic container for all WebSocket messages
type Message struct {
	Type    MessageType `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

// DecisionPayload is the payload for TypeDecision
type DecisionPayload struct {
	// TimestampMs is the arrival time of the raw event, Unix milliseconds
	TimestampMs int64 `json:"ts"`

	// Axis is "vertical" or "horizontal"
	Axis string `json:"axis"`

	// Raw is the unfiltered high-resolution delta
	Raw int32 `json:"raw"`

	// Filtered is the delta after debouncing; 0 means suppressed
	Filtered int32 `json:"filtered"`

	Suppressed bool `json:"suppressed"`
}

// StatusPayload is the payload for TypeStatus
type StatusPayload struct {
	Device        string `json:"device"`
	VirtualDevice string `json:"virtual_device"`
	Paused        bool   `json:"paused"`

	EventsIn             uint64 `json:"events_in"`
	EventsOut            uint64 `json:"events_out"`
	Cycles               uint64 `json:"cycles"`
	SuppressedVertical   uint64 `json:"suppressed_vertical"`
	SuppressedHorizontal uint64 `json:"suppressed_horizontal"`
}

// PausePayload is the payload for TypePause
type PausePayload struct {
	Paused bool `json:"paused"`
}
