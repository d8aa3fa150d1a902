package server

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"pushrelay/pkg/api"
	"pushrelay/pkg/config"
	"pushrelay/pkg/health"
	"pushrelay/pkg/logger"
	"pushrelay/pkg/middleware"
	"pushrelay/pkg/registry"
	"pushrelay/pkg/rooms"
	"pushrelay/pkg/routing"
	"pushrelay/pkg/storage"

	"github.com/gin-gonic/gin"
)

// Server wires the relay together: push channels, room directory, routing
// engine, control plane and introspection API on a single listener.
type Server struct {
	config   *config.ServerConfig
	registry *registry.Registry
	rooms    *rooms.Directory
	router   *routing.Router
	store    storage.Store
	monitor  *health.Monitor
	engine   *gin.Engine

	httpServer *http.Server
	serverMu   sync.Mutex
}

// NewServer creates a relay server from configuration
func NewServer(cfg *config.ServerConfig) *Server {
	log := logger.Get()

	reg := registry.NewRegistry(
		registry.WithSendBuffer(cfg.Relay.SendBuffer),
		registry.WithWriteTimeout(time.Duration(cfg.Relay.WriteTimeout)*time.Second),
	)
	directory := rooms.NewDirectory()

	store, err := storage.New(cfg.Database)
	if err != nil {
		log.ErrorWithErr("failed to open session audit store", err)
		log.Info("relay will continue without session auditing")
		store = nil
	}

	s := &Server{
		config:   cfg,
		registry: reg,
		rooms:    directory,
		router:   routing.NewRouter(reg, directory),
		store:    store,
		monitor:  health.NewMonitor(),
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestID())
	engine.Use(middleware.RequestLogger())

	// Push channel
	engine.GET("/ws", s.handleWebSocket)

	// Control plane
	engine.POST("/event", s.handlePushEvent)

	// Introspection
	engine.GET("/api/clients", s.handleClients)
	engine.GET("/api/rooms", s.handleRooms)
	engine.GET("/api/sessions", s.handleSessions)
	engine.GET("/healthz", s.handleHealth)

	s.engine = engine
	return s
}

// Handler exposes the HTTP handler, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Start starts the listener and background maintenance. Blocks until the
// server stops.
func (s *Server) Start() error {
	log := logger.Get()

	if s.store != nil {
		go s.purgeLoop()
	}

	srv := &http.Server{
		Addr:    s.config.Address,
		Handler: s.engine,
	}

	s.serverMu.Lock()
	s.httpServer = srv
	s.serverMu.Unlock()

	if s.config.TLS.Enabled {
		log.InfoWith("relay listening with TLS", "address", s.config.Address)
		return srv.ListenAndServeTLS(s.config.TLS.CertFile, s.config.TLS.KeyFile)
	}

	log.InfoWith("relay listening", "address", s.config.Address)
	return srv.ListenAndServe()
}

// Shutdown gracefully stops the server: the listener drains, every push
// channel closes, and open audit records are marked closed.
func (s *Server) Shutdown(ctx context.Context) error {
	log := logger.Get()

	s.serverMu.Lock()
	srv := s.httpServer
	s.serverMu.Unlock()

	if srv != nil {
		if err := srv.Shutdown(ctx); err != nil {
			log.ErrorWithErr("error shutting down HTTP server", err)
			srv.Close()
		}
	}

	now := time.Now()
	for _, client := range s.registry.All() {
		if s.store != nil {
			if err := s.store.CloseSession(client.ID(), now); err != nil {
				log.WarnWith("failed to close audit record", "clientID", client.ID(), "error", err)
			}
		}
	}
	s.registry.CloseAll()

	if s.store != nil {
		if err := s.store.Close(); err != nil {
			log.ErrorWithErr("error closing audit store", err)
		}
	}

	log.Info("shutdown complete")
	return nil
}

// purgeLoop drops closed audit records older than a week
func (s *Server) purgeLoop() {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		cutoff := time.Now().Add(-7 * 24 * time.Hour)
		if err := s.store.PurgeBefore(cutoff); err != nil {
			logger.Get().WarnWith("audit purge failed", "error", err)
		}
	}
}

// handleHealth reports a point-in-time health snapshot
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, s.monitor.Snapshot(s.registry.Count(), s.rooms.Count()))
}

// handleClients lists currently connected client identifiers
func (s *Server) handleClients(c *gin.Context) {
	clients := s.registry.All()
	out := make([]gin.H, 0, len(clients))
	for _, client := range clients {
		out = append(out, gin.H{
			"id":           client.ID(),
			"remote_addr":  client.RemoteAddr(),
			"connected_at": client.ConnectedAt(),
		})
	}
	api.RespondSuccess(c, out, "")
}

// handleRooms lists all rooms with their member lists
func (s *Server) handleRooms(c *gin.Context) {
	api.RespondSuccess(c, s.rooms.Rooms(), "")
}

// handleSessions returns recent session audit records
func (s *Server) handleSessions(c *gin.Context) {
	if s.store == nil {
		api.RespondError(c, http.StatusServiceUnavailable, "session auditing disabled")
		return
	}

	limit := 50
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}

	records, err := s.store.GetRecentSessions(limit)
	if err != nil {
		logger.Get().ErrorWithErr("failed to read audit records", err)
		api.RespondError(c, http.StatusInternalServerError, api.ErrInternalServer)
		return
	}
	api.RespondSuccess(c, records, "")
}
