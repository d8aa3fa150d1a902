package health

import (
	"runtime"
	"time"
)

// Status represents the health status of the relay
type Status string

const (
	StatusHealthy Status = "healthy"
)

// Snapshot represents relay health at a point in time
type Snapshot struct {
	Status     Status    `json:"status"`
	Uptime     int64     `json:"uptime_seconds"`
	Timestamp  time.Time `json:"timestamp"`
	Clients    int       `json:"connected_clients"`
	Rooms      int       `json:"active_rooms"`
	Goroutines int       `json:"goroutines"`
	MemoryMB   uint64    `json:"memory_mb"`
}

// Monitor tracks relay health metrics
type Monitor struct {
	startTime time.Time
}

// NewMonitor creates a health monitor anchored at the current time
func NewMonitor() *Monitor {
	return &Monitor{startTime: time.Now()}
}

// Snapshot captures current process and relay counters
func (m *Monitor) Snapshot(clients, rooms int) *Snapshot {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	return &Snapshot{
		Status:     StatusHealthy,
		Uptime:     int64(time.Since(m.startTime).Seconds()),
		Timestamp:  time.Now(),
		Clients:    clients,
		Rooms:      rooms,
		Goroutines: runtime.NumGoroutine(),
		MemoryMB:   mem.Alloc / 1024 / 1024,
	}
}
