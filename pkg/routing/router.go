package routing

import (
	"encoding/json"
	"errors"

	relayerr "pushrelay/pkg/errors"
	"pushrelay/pkg/logger"
	"pushrelay/pkg/protocol"
)

// ClientRegistry is the registry surface the router needs
type ClientRegistry interface {
	SendTo(clientID string, frame []byte) error
}

// RoomDirectory is the directory surface the router needs
type RoomDirectory interface {
	Members(roomID string) []string
}

// Outcome classifies how a routing target was resolved
type Outcome int

const (
	// OutcomeNotFound means the target matched neither a client nor a room
	OutcomeNotFound Outcome = iota

	// OutcomeDirect means the target matched a live client
	OutcomeDirect

	// OutcomeRoom means the target matched a room and was fanned out
	OutcomeRoom
)

// String returns the outcome label used in responses and logs
func (o Outcome) String() string {
	switch o {
	case OutcomeDirect:
		return "delivered_direct"
	case OutcomeRoom:
		return "delivered_room"
	default:
		return "target_not_found"
	}
}

// Result reports how an event was routed
type Result struct {
	Outcome   Outcome
	Target    string
	Delivered int
	Failed    int
}

// Router resolves a routing target against the registry first and the room
// directory second, then dispatches fire-and-forget.
type Router struct {
	registry ClientRegistry
	rooms    RoomDirectory
}

// NewRouter creates a router over a registry and a room directory
func NewRouter(registry ClientRegistry, rooms RoomDirectory) *Router {
	return &Router{
		registry: registry,
		rooms:    rooms,
	}
}

// Route delivers an event to the target. A direct client match always wins
// over a room with the same identifier; the check order is the documented
// precedence rule, not an accident.
func (rt *Router) Route(target, eventName string, eventData json.RawMessage) (Result, error) {
	frame, err := json.Marshal(&protocol.RoutedEvent{Event: eventName, Data: eventData})
	if err != nil {
		return Result{Outcome: OutcomeNotFound, Target: target}, err
	}

	log := logger.Get()

	// 1. Direct client match
	err = rt.registry.SendTo(target, frame)
	if err == nil {
		return Result{Outcome: OutcomeDirect, Target: target, Delivered: 1}, nil
	}
	if !errors.Is(err, relayerr.ErrClientNotFound) {
		// The channel exists but the write was refused. Fire-and-forget:
		// counted, never propagated.
		log.WarnWith("direct delivery failed", "target", target, "error", err)
		return Result{Outcome: OutcomeDirect, Target: target, Failed: 1}, nil
	}

	// 2. Room broadcast. The member snapshot is taken under the directory's
	// lock; each member is then resolved freshly against the registry so a
	// stale entry is skipped rather than erroring.
	members := rt.rooms.Members(target)
	if len(members) > 0 {
		res := Result{Outcome: OutcomeRoom, Target: target}
		for _, memberID := range members {
			switch err := rt.registry.SendTo(memberID, frame); {
			case err == nil:
				res.Delivered++
			case errors.Is(err, relayerr.ErrClientNotFound):
				// Disconnected member not yet pruned
				log.DebugWith("skipping stale room member", "room", target, "clientID", memberID)
			default:
				res.Failed++
				log.WarnWith("room delivery failed", "room", target, "clientID", memberID, "error", err)
			}
		}
		return res, nil
	}

	// 3. No match
	return Result{Outcome: OutcomeNotFound, Target: target}, relayerr.ErrTargetNotFound
}
