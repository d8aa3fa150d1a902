package routing

import (
	"encoding/json"
	"errors"
	"testing"

	relayerr "pushrelay/pkg/errors"
)

// fakeRegistry records frames per client and simulates failures
type fakeRegistry struct {
	frames   map[string][][]byte
	failWith map[string]error
}

func newFakeRegistry(ids ...string) *fakeRegistry {
	f := &fakeRegistry{
		frames:   make(map[string][][]byte),
		failWith: make(map[string]error),
	}
	for _, id := range ids {
		f.frames[id] = nil
	}
	return f
}

func (f *fakeRegistry) SendTo(clientID string, frame []byte) error {
	if err, ok := f.failWith[clientID]; ok {
		return err
	}
	if _, ok := f.frames[clientID]; !ok {
		return relayerr.ErrClientNotFound
	}
	f.frames[clientID] = append(f.frames[clientID], frame)
	return nil
}

// fakeDirectory returns fixed member lists
type fakeDirectory struct {
	members map[string][]string
}

func (f *fakeDirectory) Members(roomID string) []string {
	return f.members[roomID]
}

func TestRouteDirect(t *testing.T) {
	reg := newFakeRegistry("client-a")
	rt := NewRouter(reg, &fakeDirectory{})

	res, err := rt.Route("client-a", "ping", json.RawMessage(`{"n":1}`))
	if err != nil {
		t.Fatalf("Route failed: %v", err)
	}
	if res.Outcome != OutcomeDirect {
		t.Errorf("Expected direct outcome, got %v", res.Outcome)
	}
	if res.Delivered != 1 {
		t.Errorf("Expected 1 delivery, got %d", res.Delivered)
	}

	frames := reg.frames["client-a"]
	if len(frames) != 1 {
		t.Fatalf("Expected 1 frame, got %d", len(frames))
	}
	want := `{"event":"ping","eventData":{"n":1}}`
	if string(frames[0]) != want {
		t.Errorf("Expected %s, got %s", want, frames[0])
	}
}

func TestRouteRoomBroadcast(t *testing.T) {
	reg := newFakeRegistry("a", "b")
	dir := &fakeDirectory{members: map[string][]string{"g@x.com": {"a", "b"}}}
	rt := NewRouter(reg, dir)

	res, err := rt.Route("g@x.com", "ping", json.RawMessage(`{}`))
	if err != nil {
		t.Fatalf("Route failed: %v", err)
	}
	if res.Outcome != OutcomeRoom {
		t.Errorf("Expected room outcome, got %v", res.Outcome)
	}
	if res.Delivered != 2 {
		t.Errorf("Expected 2 deliveries, got %d", res.Delivered)
	}
	if len(reg.frames["a"]) != 1 || len(reg.frames["b"]) != 1 {
		t.Error("Both members should receive the frame")
	}
}

func TestRouteRoomSkipsStaleMembers(t *testing.T) {
	// "gone" is in the member list but has no live channel
	reg := newFakeRegistry("a")
	dir := &fakeDirectory{members: map[string][]string{"g@x.com": {"a", "gone"}}}
	rt := NewRouter(reg, dir)

	res, err := rt.Route("g@x.com", "ping", json.RawMessage(`{}`))
	if err != nil {
		t.Fatalf("Route failed: %v", err)
	}
	if res.Delivered != 1 {
		t.Errorf("Expected 1 delivery, got %d", res.Delivered)
	}
	if res.Failed != 0 {
		t.Errorf("Stale member is skipped silently, got %d failures", res.Failed)
	}
}

func TestRouteDirectPrecedence(t *testing.T) {
	// Target collides with both a client ID and a room ID
	reg := newFakeRegistry("g@x.com", "member")
	dir := &fakeDirectory{members: map[string][]string{"g@x.com": {"member"}}}
	rt := NewRouter(reg, dir)

	res, err := rt.Route("g@x.com", "ping", json.RawMessage(`{}`))
	if err != nil {
		t.Fatalf("Route failed: %v", err)
	}
	if res.Outcome != OutcomeDirect {
		t.Errorf("Direct match must win, got %v", res.Outcome)
	}
	if len(reg.frames["member"]) != 0 {
		t.Error("Room delivery must not additionally fire")
	}
}

func TestRouteTargetNotFound(t *testing.T) {
	rt := NewRouter(newFakeRegistry(), &fakeDirectory{})

	res, err := rt.Route("nobody", "ping", json.RawMessage(`{}`))
	if !errors.Is(err, relayerr.ErrTargetNotFound) {
		t.Errorf("Expected ErrTargetNotFound, got %v", err)
	}
	if res.Outcome != OutcomeNotFound {
		t.Errorf("Expected not-found outcome, got %v", res.Outcome)
	}
}

func TestRouteDirectWriteFailureCounted(t *testing.T) {
	reg := newFakeRegistry("client-a")
	reg.failWith["client-a"] = relayerr.ErrSendBufferFull
	rt := NewRouter(reg, &fakeDirectory{})

	res, err := rt.Route("client-a", "ping", json.RawMessage(`{}`))
	if err != nil {
		t.Fatalf("Write failure must not propagate, got %v", err)
	}
	if res.Outcome != OutcomeDirect {
		t.Errorf("Expected direct outcome, got %v", res.Outcome)
	}
	if res.Failed != 1 || res.Delivered != 0 {
		t.Errorf("Expected 1 failure and 0 deliveries, got %+v", res)
	}
}

func TestRouteRoomWriteFailureDoesNotAbort(t *testing.T) {
	reg := newFakeRegistry("a", "b", "c")
	reg.failWith["b"] = relayerr.ErrSendBufferFull
	dir := &fakeDirectory{members: map[string][]string{"room": {"a", "b", "c"}}}
	rt := NewRouter(reg, dir)

	res, err := rt.Route("room", "ping", json.RawMessage(`{}`))
	if err != nil {
		t.Fatalf("Route failed: %v", err)
	}
	if res.Delivered != 2 {
		t.Errorf("Expected 2 deliveries, got %d", res.Delivered)
	}
	if res.Failed != 1 {
		t.Errorf("Expected 1 failure, got %d", res.Failed)
	}
	if len(reg.frames["c"]) != 1 {
		t.Error("Delivery must continue past a failed member")
	}
}

func TestOutcomeString(t *testing.T) {
	cases := map[Outcome]string{
		OutcomeDirect:   "delivered_direct",
		OutcomeRoom:     "delivered_room",
		OutcomeNotFound: "target_not_found",
	}
	for outcome, want := range cases {
		if outcome.String() != want {
			t.Errorf("Expected %s, got %s", want, outcome.String())
		}
	}
}
