package translate

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/hypebeast/go-osc/osc"
)

// Conversion of browser control messages into typed OSC messages.
// Only a missing or malformed address rejects a message; argument
// conversion is total and degrades unknown types to strings.

var (
	// ErrMalformedPayload means the inbound frame was not parseable as a control message.
	ErrMalformedPayload = errors.New("malformed control payload")
	// ErrInvalidAddress means the address field is missing or does not start with "/".
	ErrInvalidAddress = errors.New("invalid OSC address")
)

// ControlMessage is the JSON wire shape sent by the control panel.
// Args may be absent, a single scalar, or an ordered list.
type ControlMessage struct {
	Address string      `json:"address"`
	Args    interface{} `json:"args"`
}

// Translate parses a raw WebSocket payload and converts it to an OSC message.
func Translate(payload []byte) (*osc.Message, error) {
	var cm ControlMessage
	if err := json.Unmarshal(payload, &cm); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	return Convert(&cm)
}

// Convert validates a parsed control message and builds the OSC message.
func Convert(cm *ControlMessage) (*osc.Message, error) {
	if cm.Address == "" {
		return nil, fmt.Errorf("%w: address is missing", ErrInvalidAddress)
	}
	if !strings.HasPrefix(cm.Address, "/") {
		return nil, fmt.Errorf("%w: %q does not start with '/'", ErrInvalidAddress, cm.Address)
	}

	msg := osc.NewMessage(cm.Address)
	for _, arg := range NormalizeArgs(cm.Args) {
		msg.Append(MapArgument(arg))
	}
	return msg, nil
}

// NormalizeArgs turns the args field into an ordered list: absent (or null)
// becomes an empty list and a single scalar is wrapped as a one-element list.
func NormalizeArgs(args interface{}) []interface{} {
	switch args := args.(type) {
	case nil:
		return nil
	case []interface{}:
		return args
	default:
		return []interface{}{args}
	}
}

// MapArgument maps one JSON value to its OSC argument. The mapping is total:
// numbers become float32 (tag f), strings stay strings (tag s), booleans
// become int32 0/1 (tag i) and everything else degrades to its JSON text
// as a string argument. It never fails.
func MapArgument(v interface{}) interface{} {
	switch v := v.(type) {
	case float64:
		return float32(v)
	case string:
		return v
	case bool:
		if v {
			return int32(1)
		}
		return int32(0)
	case nil:
		return "null"
	default:
		// objects and nested arrays
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(data)
	}
}
