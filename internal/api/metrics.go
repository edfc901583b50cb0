package api

import (
	"net/http"
	"runtime"
	"time"

	"github.com/casos-demo/casos-core/internal/caso"
)

// SystemMetrics represents the complete system metrics response.
type SystemMetrics struct {
	Timestamp     string           `json:"timestamp"`
	Version       string           `json:"version"`
	UptimeSeconds int64            `json:"uptime_seconds"`
	Runtime       RuntimeMetrics   `json:"runtime"`
	WebSocket     WSMetrics        `json:"websocket"`
	MQTT          ConnMetrics      `json:"mqtt"`
	InfluxDB      ConnMetrics      `json:"influxdb"`
	Casos         CasoMetrics      `json:"casos"`
	RateLimit     *RateMetrics     `json:"rate_limit,omitempty"`
	Database      *DatabaseMetrics `json:"database,omitempty"`
}

// RuntimeMetrics contains Go runtime statistics.
type RuntimeMetrics struct {
	Goroutines    int     `json:"goroutines"`
	MemoryAllocMB float64 `json:"memory_alloc_mb"`
	MemoryTotalMB float64 `json:"memory_total_mb"`
	NumGC         uint32  `json:"num_gc"`
}

// WSMetrics contains WebSocket hub statistics.
type WSMetrics struct {
	ConnectedClients int `json:"connected_clients"`
}

// ConnMetrics reports an optional backend connection.
type ConnMetrics struct {
	Enabled   bool `json:"enabled"`
	Connected bool `json:"connected"`
}

// CasoMetrics contains case store statistics.
type CasoMetrics struct {
	Total       int            `json:"total"`
	ByPrioridad map[string]int `json:"by_prioridad"`
	ByEstado    map[string]int `json:"by_estado"`
}

// RateMetrics contains rate limiter statistics.
type RateMetrics struct {
	TrackedClients int `json:"tracked_clients"`
}

// DatabaseMetrics contains database connection pool statistics.
type DatabaseMetrics struct {
	OpenConnections int   `json:"open_connections"`
	InUse           int   `json:"in_use"`
	Idle            int   `json:"idle"`
	WaitCount       int64 `json:"wait_count"`
}

// handleMetrics returns process and backend statistics. It carries no case
// content, only counts.
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	metrics := SystemMetrics{
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
		Version:       s.version,
		UptimeSeconds: int64(time.Since(s.startTime).Seconds()),
		Runtime: RuntimeMetrics{
			Goroutines:    runtime.NumGoroutine(),
			MemoryAllocMB: float64(memStats.Alloc) / 1024 / 1024,
			MemoryTotalMB: float64(memStats.TotalAlloc) / 1024 / 1024,
			NumGC:         memStats.NumGC,
		},
		WebSocket: WSMetrics{
			ConnectedClients: s.hub.ClientCount(),
		},
		Casos: casoMetrics(s.store.List(r.Context())),
	}

	if s.events != nil {
		metrics.MQTT = ConnMetrics{Enabled: true, Connected: s.events.IsConnected()}
	}
	if s.metrics != nil {
		metrics.InfluxDB = ConnMetrics{Enabled: true, Connected: s.metrics.IsConnected()}
	}
	if s.limiter != nil {
		metrics.RateLimit = &RateMetrics{TrackedClients: s.limiter.Len()}
	}
	if s.db != nil && s.db.DB != nil {
		dbStats := s.db.Stats()
		metrics.Database = &DatabaseMetrics{
			OpenConnections: dbStats.OpenConnections,
			InUse:           dbStats.InUse,
			Idle:            dbStats.Idle,
			WaitCount:       dbStats.WaitCount,
		}
	}

	writeJSON(w, http.StatusOK, metrics)
}

func casoMetrics(casos []caso.Caso) CasoMetrics {
	m := CasoMetrics{
		Total:       len(casos),
		ByPrioridad: make(map[string]int, len(caso.Prioridades)),
		ByEstado:    make(map[string]int),
	}
	for _, p := range caso.Prioridades {
		m.ByPrioridad[string(p)] = 0
	}
	for _, c := range casos {
		m.ByPrioridad[string(c.Prioridad)]++
		m.ByEstado[c.Estado]++
	}
	return m
}
