package mcp

import (
	"encoding/json"
	"net/http"
	"time"
)

// HealthResponse represents the JSON response for health endpoints.
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Service   string            `json:"service"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// livenessHandler checks if the server is running and accepting requests.
// Always returns 200 OK - no external dependencies required.
func (s *Server) livenessHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	s.logger.DebugContext(ctx, "liveness check requested")

	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Service:   "docshield-mcp",
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)
}

// readinessHandler checks if the server can serve recognition requests:
// a configuration must be loaded with a bundle for the default language.
func (s *Server) readinessHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	s.logger.DebugContext(ctx, "readiness check requested")

	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Service:   "docshield-mcp",
		Checks:    make(map[string]string),
	}

	current := s.store.Load()
	_, ok := current.Bundle(current.DefaultLanguage())
	if ok {
		response.Checks["configuration"] = "loaded"
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(response)
		return
	}

	response.Status = "unhealthy"
	response.Checks["configuration"] = "missing default language bundle"
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusServiceUnavailable)
	json.NewEncoder(w).Encode(response)
	s.logger.ErrorContext(ctx, "readiness check failed", "status", "unhealthy")
}
