package gateway

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/hypebeast/go-osc/osc"
)

// Wire protocol from the relay to control panel clients. The inbound
// direction (control messages) is owned by the translate package.

type MessageType string

const (
	TypeStatus MessageType = "status" // one-time greeting on connect
	TypeOSC    MessageType = "osc"    // inbound OSC relayed to the UI
)

// StatusMessage is sent once to every client right after it connects.
type StatusMessage struct {
	Type            MessageType `json:"type"`
	Message         string      `json:"message"`
	DestinationHost string      `json:"destinationHost"`
	DestinationPort int         `json:"destinationPort"`
}

// NewStatusMessage builds the greeting for the configured destination.
func NewStatusMessage(destHost string, destPort int) *StatusMessage {
	return &StatusMessage{
		Type:            TypeStatus,
		Message:         fmt.Sprintf("oscbridge relay connected, forwarding OSC to %s:%d", destHost, destPort),
		DestinationHost: destHost,
		DestinationPort: destPort,
	}
}

// ToJSON: marshal StatusMessage struct to JSON
func (m *StatusMessage) ToJSON() ([]byte, error) {
	data, err := json.Marshal(m)
	if err != nil {
		slog.Error("Failed to marshal status message to JSON", "error", err)
		return nil, err
	}
	return data, nil
}

// OSCEvent is the diagnostic frame for OSC traffic received from the
// visuals engine, relayed to all connected clients.
type OSCEvent struct {
	Type    MessageType   `json:"type"`
	Address string        `json:"address"`
	Args    []interface{} `json:"args"`
}

// NewOSCEvent wraps a decoded inbound OSC message.
func NewOSCEvent(msg *osc.Message) *OSCEvent {
	return &OSCEvent{
		Type:    TypeOSC,
		Address: msg.Address,
		Args:    msg.Arguments,
	}
}

// ToJSON: marshal OSCEvent struct to JSON
func (e *OSCEvent) ToJSON() ([]byte, error) {
	data, err := json.Marshal(e)
	if err != nil {
		slog.Error("Failed to marshal OSC event to JSON", "error", err)
		return nil, err
	}
	return data, nil
}
