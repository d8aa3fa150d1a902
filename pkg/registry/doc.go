// Package registry provides the connection registry: the mapping from
// opaque client identifiers to live push channels.
//
// The registry owns the write side of every WebSocket it holds. Each
// registered client gets a buffered outbound queue drained by a dedicated
// writer goroutine, so callers enqueue frames without ever blocking on a
// slow peer. Register, Deregister and Lookup touch only the in-memory map
// and perform no I/O themselves.
package registry
