package protocol

import "encoding/json"

// MessageType defines the type of a client-to-server frame
type MessageType string

const (
	// Room membership frames
	MsgTypeJoinRoom  MessageType = "join-room"
	MsgTypeLeaveRoom MessageType = "leave-room"

	// Server-side error frame
	MsgTypeError MessageType = "error"
)

// EventClientConnect is the event name of the connect acknowledgment
const EventClientConnect = "client-connect"

// ClientMessage is the envelope for all client-to-server frames
type ClientMessage struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// ParsePayload unmarshals the frame payload into the given value
func (m *ClientMessage) ParsePayload(v interface{}) error {
	return json.Unmarshal(m.Payload, v)
}

// RoomPayload carries the room key of a join or leave request.
// The key is an email-like string, treated as opaque.
type RoomPayload struct {
	Email string `json:"email"`
}

// RoomAck acknowledges a join or leave on the same channel
type RoomAck struct {
	Type     MessageType `json:"type"`
	RoomID   string      `json:"roomId"`
	ClientID string      `json:"clientId"`
}

// ErrorMessage reports a recoverable error on the push channel
type ErrorMessage struct {
	Type    MessageType `json:"type"`
	Message string      `json:"message"`
}

// NewErrorMessage builds an error frame
func NewErrorMessage(message string) *ErrorMessage {
	return &ErrorMessage{Type: MsgTypeError, Message: message}
}

// ConnectData carries the freshly issued client identifier
type ConnectData struct {
	ClientID string `json:"client-id"`
}

// ConnectAck is the first frame sent on a new channel.
// Key spelling ("event-data") differs from RoutedEvent and is part of the
// published protocol.
type ConnectAck struct {
	Event string      `json:"event"`
	Data  ConnectData `json:"event-data"`
}

// NewConnectAck builds the connect acknowledgment for a client ID
func NewConnectAck(clientID string) *ConnectAck {
	return &ConnectAck{
		Event: EventClientConnect,
		Data:  ConnectData{ClientID: clientID},
	}
}

// RoutedEvent is an event pushed to a channel via the control plane
type RoutedEvent struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"eventData"`
}

// PushRequest is the control-plane event submission body
type PushRequest struct {
	Email string          `json:"email"`
	Event string          `json:"event"`
	Data  json.RawMessage `json:"event-data"`
}

// Valid reports whether all required fields are present
func (r *PushRequest) Valid() bool {
	return r.Email != "" && r.Event != "" && len(r.Data) > 0
}
