package server

import (
	"net/http"
	"time"
)

// HealthStatus represents the overall health of the system
type HealthStatus string

const (
	HealthStatusHealthy   HealthStatus = "healthy"
	HealthStatusDegraded  HealthStatus = "degraded"
	HealthStatusUnhealthy HealthStatus = "unhealthy"
)

// ComponentStatus represents the health of an individual component
type ComponentStatus string

const (
	ComponentStatusUp       ComponentStatus = "up"
	ComponentStatusDown     ComponentStatus = "down"
	ComponentStatusDegraded ComponentStatus = "degraded"
)

// Health represents the complete health check response
type Health struct {
	Status     HealthStatus               `json:"status"`
	Timestamp  time.Time                  `json:"timestamp"`
	Version    string                     `json:"version,omitempty"`
	Uptime     string                     `json:"uptime"`
	Components map[string]ComponentHealth `json:"components"`
}

// ComponentHealth represents the health of a single system component
type ComponentHealth struct {
	Status  ComponentStatus `json:"status"`
	Message string          `json:"message,omitempty"`
	Details any             `json:"details,omitempty"`
}

// StoreDetails describes the in-memory note store.
type StoreDetails struct {
	Notes      int  `json:"notes"`
	Timestamps bool `json:"timestamps"`
	Clear      bool `json:"clear"`
}

// HandleHealth provides a detailed health check endpoint
func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	health := s.checkHealth()

	statusCode := http.StatusOK
	if health.Status == HealthStatusUnhealthy {
		statusCode = http.StatusServiceUnavailable
	}

	writeJSON(w, statusCode, health)
}

// HandleReady is the readiness probe; it fails once shutdown has begun.
func (s *Server) HandleReady(w http.ResponseWriter, r *http.Request) {
	if !s.ready.Load() {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status":  "not_ready",
			"message": "server is not accepting traffic",
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// HandleLive provides a liveness probe (is the process running?)
func (s *Server) HandleLive(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "alive",
	})
}

func (s *Server) checkHealth() Health {
	health := Health{
		Timestamp:  time.Now().UTC(),
		Version:    s.version,
		Uptime:     time.Since(s.startedAt).Round(time.Second).String(),
		Components: make(map[string]ComponentHealth),
	}

	health.Components["store"] = s.checkStoreHealth()
	health.Components["http"] = s.checkHTTPHealth()

	health.Status = determineOverallHealth(health.Components)
	return health
}

func (s *Server) checkStoreHealth() ComponentHealth {
	return ComponentHealth{
		Status:  ComponentStatusUp,
		Message: "store healthy",
		Details: StoreDetails{
			Notes:      s.store.Len(),
			Timestamps: s.store.Timestamps(),
			Clear:      s.cfg.EnableClear,
		},
	}
}

// checkHTTPHealth degrades when more than half of the requests so far were 5xx.
func (s *Server) checkHTTPHealth() ComponentHealth {
	snap := s.metrics.Snapshot()
	details := map[string]any{
		"requests_total":     snap.RequestsTotal,
		"request_errors_5xx": snap.RequestErrors5xx,
	}

	if snap.RequestsTotal > 0 && snap.RequestErrors5xx*2 > snap.RequestsTotal {
		return ComponentHealth{
			Status:  ComponentStatusDegraded,
			Message: "high server error rate",
			Details: details,
		}
	}
	return ComponentHealth{
		Status:  ComponentStatusUp,
		Message: "http healthy",
		Details: details,
	}
}

// determineOverallHealth calculates overall health from component statuses
func determineOverallHealth(components map[string]ComponentHealth) HealthStatus {
	var (
		downCount     int
		degradedCount int
	)

	for _, component := range components {
		switch component.Status {
		case ComponentStatusDown:
			downCount++
		case ComponentStatusDegraded:
			degradedCount++
		}
	}

	if downCount > 0 {
		return HealthStatusUnhealthy
	}
	if degradedCount > 0 {
		return HealthStatusDegraded
	}
	return HealthStatusHealthy
}
