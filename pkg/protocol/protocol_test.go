package protocol

import (
	"encoding/json"
	"testing"
)

func TestConnectAckWireFormat(t *testing.T) {
	data, err := json.Marshal(NewConnectAck("abc-123"))
	if err != nil {
		t.Fatal(err)
	}
	want := `{"event":"client-connect","event-data":{"client-id":"abc-123"}}`
	if string(data) != want {
		t.Errorf("Expected %s, got %s", want, data)
	}
}

func TestRoutedEventWireFormat(t *testing.T) {
	data, err := json.Marshal(&RoutedEvent{Event: "ping", Data: json.RawMessage(`{}`)})
	if err != nil {
		t.Fatal(err)
	}
	want := `{"event":"ping","eventData":{}}`
	if string(data) != want {
		t.Errorf("Expected %s, got %s", want, data)
	}
}

func TestClientMessageParse(t *testing.T) {
	raw := []byte(`{"type":"join-room","payload":{"email":"g@x.com"}}`)
	var msg ClientMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		t.Fatal(err)
	}
	if msg.Type != MsgTypeJoinRoom {
		t.Errorf("Expected join-room, got %s", msg.Type)
	}

	var payload RoomPayload
	if err := msg.ParsePayload(&payload); err != nil {
		t.Fatal(err)
	}
	if payload.Email != "g@x.com" {
		t.Errorf("Expected g@x.com, got %s", payload.Email)
	}
}

func TestPushRequestValid(t *testing.T) {
	cases := []struct {
		name string
		req  PushRequest
		want bool
	}{
		{"complete", PushRequest{Email: "a", Event: "e", Data: json.RawMessage(`{}`)}, true},
		{"missing email", PushRequest{Event: "e", Data: json.RawMessage(`{}`)}, false},
		{"missing event", PushRequest{Email: "a", Data: json.RawMessage(`{}`)}, false},
		{"missing event-data", PushRequest{Email: "a", Event: "e"}, false},
	}

	for _, tc := range cases {
		if got := tc.req.Valid(); got != tc.want {
			t.Errorf("%s: expected %v, got %v", tc.name, tc.want, got)
		}
	}
}

func TestRoomAckWireFormat(t *testing.T) {
	data, err := json.Marshal(&RoomAck{Type: MsgTypeJoinRoom, RoomID: "g@x.com", ClientID: "c1"})
	if err != nil {
		t.Fatal(err)
	}
	want := `{"type":"join-room","roomId":"g@x.com","clientId":"c1"}`
	if string(data) != want {
		t.Errorf("Expected %s, got %s", want, data)
	}
}
