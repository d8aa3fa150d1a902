package errors

import "errors"

// Validation errors
var (
	// ErrRoomIDRequired is returned when a join or leave request carries no room key
	ErrRoomIDRequired = errors.New("email is required")

	// ErrValidation is returned when a control-plane request is missing required fields
	ErrValidation = errors.New("email, event, event-data is required")
)

// Routing errors
var (
	// ErrClientNotFound is returned when a client is not found in the registry
	ErrClientNotFound = errors.New("client not found")

	// ErrTargetNotFound is returned when a routing target matches neither a client nor a room
	ErrTargetNotFound = errors.New("target not found")

	// ErrClientClosed is returned when sending to a client whose channel is closed
	ErrClientClosed = errors.New("client closed")

	// ErrSendBufferFull is returned when a client's outbound buffer is full
	ErrSendBufferFull = errors.New("send buffer full")
)

// Protocol errors
var (
	// ErrMalformedMessage is returned when an inbound frame fails to parse
	ErrMalformedMessage = errors.New("malformed message")

	// ErrAlreadyRegistered is returned when a client ID is registered twice
	ErrAlreadyRegistered = errors.New("client id already registered")
)

// Storage errors
var (
	// ErrStorageNotInitialized is returned when the audit store is not initialized
	ErrStorageNotInitialized = errors.New("storage not initialized")

	// ErrSessionNotFound is returned when a session record does not exist
	ErrSessionNotFound = errors.New("session not found")
)
