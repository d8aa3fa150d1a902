package rooms

import (
	"sync"

	relayerr "pushrelay/pkg/errors"
)

// Directory maps room identifiers to ordered member lists. A reverse index
// from client to rooms keeps disconnect cleanup O(memberships) instead of a
// scan over every room.
type Directory struct {
	mu          sync.RWMutex
	rooms       map[string][]string
	memberships map[string]map[string]struct{}
}

// NewDirectory creates an empty room directory
func NewDirectory() *Directory {
	return &Directory{
		rooms:       make(map[string][]string),
		memberships: make(map[string]map[string]struct{}),
	}
}

// Join adds a client to a room, creating the room lazily on first join.
// Joining a room the client is already a member of is a no-op: duplicate
// member entries would mean duplicate deliveries on broadcast.
func (d *Directory) Join(roomID, clientID string) error {
	if roomID == "" {
		return relayerr.ErrRoomIDRequired
	}
	if clientID == "" {
		return relayerr.ErrClientNotFound
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if _, member := d.memberships[clientID][roomID]; member {
		return nil
	}

	d.rooms[roomID] = append(d.rooms[roomID], clientID)
	if d.memberships[clientID] == nil {
		d.memberships[clientID] = make(map[string]struct{})
	}
	d.memberships[clientID][roomID] = struct{}{}
	return nil
}

// Leave removes a client from every room it is a member of. A client with
// no memberships is a no-op.
func (d *Directory) Leave(clientID string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for roomID := range d.memberships[clientID] {
		d.removeMember(roomID, clientID)
	}
	delete(d.memberships, clientID)
}

// LeaveRoom removes a client from a single room. Returns false if the
// client was not a member.
func (d *Directory) LeaveRoom(roomID, clientID string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, member := d.memberships[clientID][roomID]; !member {
		return false
	}

	d.removeMember(roomID, clientID)
	delete(d.memberships[clientID], roomID)
	if len(d.memberships[clientID]) == 0 {
		delete(d.memberships, clientID)
	}
	return true
}

// removeMember drops clientID from a room's member list and prunes the room
// when it empties. Caller holds the lock.
func (d *Directory) removeMember(roomID, clientID string) {
	members := d.rooms[roomID]
	for i, id := range members {
		if id == clientID {
			d.rooms[roomID] = append(members[:i], members[i+1:]...)
			break
		}
	}
	if len(d.rooms[roomID]) == 0 {
		delete(d.rooms, roomID)
	}
}

// Members returns a copy of a room's member list in join order.
// An unknown room returns an empty list.
func (d *Directory) Members(roomID string) []string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	members := d.rooms[roomID]
	out := make([]string, len(members))
	copy(out, members)
	return out
}

// Rooms returns a snapshot of all rooms with their member lists
func (d *Directory) Rooms() map[string][]string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make(map[string][]string, len(d.rooms))
	for roomID, members := range d.rooms {
		copied := make([]string, len(members))
		copy(copied, members)
		out[roomID] = copied
	}
	return out
}

// Count returns the number of rooms with at least one member
func (d *Directory) Count() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.rooms)
}
