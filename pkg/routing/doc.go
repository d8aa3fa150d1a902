// Package routing decides whether a control-plane event targets a single
// client or fans out to a room, and dispatches it through the connection
// registry. Delivery is best-effort: one refused write never aborts the
// rest of a broadcast.
package routing
