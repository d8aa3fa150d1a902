package registry

import (
	"sync"
	"time"

	relayerr "pushrelay/pkg/errors"
	"pushrelay/pkg/logger"

	"github.com/gorilla/websocket"
)

const defaultSendBuffer = 256

// Registry maps client identifiers to live push channels
type Registry struct {
	clients      map[string]*Client
	mu           sync.RWMutex
	sendBuffer   int
	writeTimeout time.Duration
}

// Option configures a Registry
type Option func(*Registry)

// WithSendBuffer sets the per-client outbound buffer size
func WithSendBuffer(n int) Option {
	return func(r *Registry) {
		if n > 0 {
			r.sendBuffer = n
		}
	}
}

// WithWriteTimeout sets the per-frame write deadline
func WithWriteTimeout(d time.Duration) Option {
	return func(r *Registry) {
		if d > 0 {
			r.writeTimeout = d
		}
	}
}

// NewRegistry creates an empty registry
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		clients:      make(map[string]*Client),
		sendBuffer:   defaultSendBuffer,
		writeTimeout: 10 * time.Second,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register inserts a new entry and starts its writer. The identity source
// guarantees fresh IDs, so a duplicate means a programming error upstream.
func (r *Registry) Register(id string, conn *websocket.Conn) (*Client, error) {
	client := &Client{
		id:          id,
		conn:        conn,
		send:        make(chan []byte, r.sendBuffer),
		connectedAt: time.Now(),
	}
	if conn != nil {
		client.remoteAddr = conn.RemoteAddr().String()
	}

	r.mu.Lock()
	if _, exists := r.clients[id]; exists {
		r.mu.Unlock()
		return nil, relayerr.ErrAlreadyRegistered
	}
	r.clients[id] = client
	r.mu.Unlock()

	if conn != nil {
		go client.writeLoop(r.writeTimeout, func(clientID string) {
			logger.Get().DebugWith("channel write failed, deregistering", "clientID", clientID)
			r.Deregister(clientID)
		})
	}
	return client, nil
}

// Deregister removes an entry and closes its channel. No-op if absent.
func (r *Registry) Deregister(id string) {
	r.mu.Lock()
	client, ok := r.clients[id]
	if ok {
		delete(r.clients, id)
	}
	r.mu.Unlock()

	if ok {
		client.Close()
	}
}

// Lookup returns the live channel for an identifier
func (r *Registry) Lookup(id string) (*Client, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	client, ok := r.clients[id]
	return client, ok
}

// SendTo delivers a frame to a single client.
// Returns ErrClientNotFound if the identifier has no live channel.
func (r *Registry) SendTo(id string, frame []byte) error {
	client, ok := r.Lookup(id)
	if !ok {
		return relayerr.ErrClientNotFound
	}
	return client.Send(frame)
}

// All returns a snapshot of every registered client
func (r *Registry) All() []*Client {
	r.mu.RLock()
	defer r.mu.RUnlock()

	clients := make([]*Client, 0, len(r.clients))
	for _, client := range r.clients {
		clients = append(clients, client)
	}
	return clients
}

// Count returns the number of live channels
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.clients)
}

// CloseAll deregisters and closes every channel. Used at shutdown.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	clients := r.clients
	r.clients = make(map[string]*Client)
	r.mu.Unlock()

	for _, client := range clients {
		client.Close()
	}
}
