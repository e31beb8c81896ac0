package model

import "encoding/json"

type MessageType string

const (
	MessageTypeInvoke MessageType = "invoke"
	MessageTypeResult MessageType = "result"
	MessageTypeError  MessageType = "error"
	MessageTypePing   MessageType = "ping"
	MessageTypePong   MessageType = "pong"
)

// --- WebSocket Messages ---

// Envelope is the single frame shape exchanged between bridge clients and
// the print host. ID correlates a result or error with its invoke.
type Envelope struct {
	Type    MessageType     `json:"type"`
	ID      string          `json:"id,omitempty"`
	Command CommandName     `json:"command,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"` // Keep raw to parse into specific structs
	Result  json.RawMessage `json:"result,omitempty"`
	Error   string          `json:"error,omitempty"`
}
