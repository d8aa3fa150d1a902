package server

import (
	"encoding/json"
	"net/http"
	"time"

	relayerr "pushrelay/pkg/errors"
	"pushrelay/pkg/logger"
	"pushrelay/pkg/protocol"
	"pushrelay/pkg/registry"
	"pushrelay/pkg/storage"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true // In production, implement proper origin checking
	},
}

// handleWebSocket establishes a push channel: issue an identifier, register
// the connection, acknowledge, then serve the session until the channel
// closes.
func (s *Server) handleWebSocket(c *gin.Context) {
	log := logger.Get()

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.ErrorWithErr("websocket upgrade failed", err)
		return
	}

	clientID := uuid.NewString()
	client, err := s.registry.Register(clientID, conn)
	if err != nil {
		// Unreachable while IDs come from uuid, kept as a guard
		log.ErrorWithErr("failed to register client", err, "clientID", clientID)
		conn.Close()
		return
	}

	log.InfoWith("client connected", "clientID", clientID, "remoteAddr", client.RemoteAddr())

	if s.store != nil {
		rec := &storage.SessionRecord{
			ID:          clientID,
			RemoteAddr:  client.RemoteAddr(),
			Status:      "connected",
			ConnectedAt: client.ConnectedAt(),
		}
		if err := s.store.SaveSession(rec); err != nil {
			log.WarnWith("failed to save audit record", "clientID", clientID, "error", err)
		}
	}

	if err := client.SendJSON(protocol.NewConnectAck(clientID)); err != nil {
		log.WarnWith("failed to send connect ack", "clientID", clientID, "error", err)
	}

	go s.pingLoop(client)
	go s.readPump(client)
}

// readPump reads frames from the channel until it closes, then runs the
// disconnect transition.
func (s *Server) readPump(client *registry.Client) {
	log := logger.Get()
	defer s.disconnect(client.ID())

	conn := client.Conn()
	pongTimeout := time.Duration(s.config.Relay.PongTimeout) * time.Second
	conn.SetReadDeadline(time.Now().Add(pongTimeout))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongTimeout))
		return nil
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.DebugWith("websocket read error", "clientID", client.ID(), "error", err)
			}
			return
		}

		var msg protocol.ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil || msg.Type == "" {
			// Malformed frames are dropped; the session stays open
			log.WarnWith("dropping malformed frame", "clientID", client.ID(), "error", relayerr.ErrMalformedMessage)
			continue
		}

		s.handleFrame(client, &msg)
	}
}

// pingLoop keeps the channel alive; a peer that stops answering trips the
// read deadline in readPump.
func (s *Server) pingLoop(client *registry.Client) {
	interval := time.Duration(s.config.Relay.PingInterval) * time.Second
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for range ticker.C {
		if client.IsClosed() {
			return
		}
		if err := client.Ping(time.Now().Add(10 * time.Second)); err != nil {
			return
		}
	}
}

// handleFrame processes one inbound frame. Frames of a single session are
// handled in arrival order.
func (s *Server) handleFrame(client *registry.Client, msg *protocol.ClientMessage) {
	log := logger.Get()

	switch msg.Type {
	case protocol.MsgTypeJoinRoom:
		var payload protocol.RoomPayload
		if err := msg.ParsePayload(&payload); err != nil || payload.Email == "" {
			s.sendError(client, relayerr.ErrRoomIDRequired.Error())
			return
		}

		if err := s.rooms.Join(payload.Email, client.ID()); err != nil {
			s.sendError(client, err.Error())
			return
		}

		log.InfoWith("client joined room", "clientID", client.ID(), "roomID", payload.Email)
		s.sendAck(client, protocol.MsgTypeJoinRoom, payload.Email)

	case protocol.MsgTypeLeaveRoom:
		var payload protocol.RoomPayload
		if err := msg.ParsePayload(&payload); err != nil || payload.Email == "" {
			s.sendError(client, relayerr.ErrRoomIDRequired.Error())
			return
		}

		s.rooms.LeaveRoom(payload.Email, client.ID())
		log.InfoWith("client left room", "clientID", client.ID(), "roomID", payload.Email)
		s.sendAck(client, protocol.MsgTypeLeaveRoom, payload.Email)

	default:
		log.WarnWith("dropping frame with unknown type", "clientID", client.ID(), "type", msg.Type)
	}
}

// sendAck acknowledges a join or leave on the same channel
func (s *Server) sendAck(client *registry.Client, msgType protocol.MessageType, roomID string) {
	ack := &protocol.RoomAck{Type: msgType, RoomID: roomID, ClientID: client.ID()}
	if err := client.SendJSON(ack); err != nil {
		logger.Get().WarnWith("failed to send ack", "clientID", client.ID(), "error", err)
	}
}

// sendError reports a recoverable error on the push channel
func (s *Server) sendError(client *registry.Client, message string) {
	if err := client.SendJSON(protocol.NewErrorMessage(message)); err != nil {
		logger.Get().WarnWith("failed to send error frame", "clientID", client.ID(), "error", err)
	}
}

// disconnect runs the close transition: deregister, purge from every room,
// close the audit record. Safe to run more than once for the same ID.
func (s *Server) disconnect(clientID string) {
	s.registry.Deregister(clientID)
	s.rooms.Leave(clientID)

	if s.store != nil {
		if err := s.store.CloseSession(clientID, time.Now()); err != nil {
			logger.Get().WarnWith("failed to close audit record", "clientID", clientID, "error", err)
		}
	}

	logger.Get().InfoWith("client disconnected", "clientID", clientID)
}
