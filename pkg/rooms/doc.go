// Package rooms provides the room directory: named groups of client
// identifiers used as broadcast targets. Rooms are created lazily on first
// join and pruned when the last member leaves, so an existing room always
// has at least one member.
package rooms
