// Package protocol defines the wire formats of the relay: client-to-server
// frames on the push channel, server acknowledgments, routed events, and the
// control-plane request body. Field names and key spellings are part of the
// published protocol and must not change.
package protocol
