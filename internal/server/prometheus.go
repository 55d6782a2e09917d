// prometheus.go - Prometheus text exposition of Server metrics
package server

import (
	"fmt"
	"net/http"
	"strings"
	"time"
)

// PrometheusHandler returns the handler behind GET /metrics.
func (s *Server) PrometheusHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(s.renderPrometheus()))
	})
}

func (s *Server) renderPrometheus() string {
	snapshot := s.metrics.Snapshot()

	var output strings.Builder

	output.WriteString("# HELP notes_info Application version info\n")
	output.WriteString("# TYPE notes_info gauge\n")
	output.WriteString(fmt.Sprintf("notes_info{version=\"%s\"} 1\n\n", prometheusLabel(s.version)))

	// Request metrics
	output.WriteString("# HELP notes_requests_total Total number of HTTP requests\n")
	output.WriteString("# TYPE notes_requests_total counter\n")
	output.WriteString(fmt.Sprintf("notes_requests_total %d\n\n", snapshot.RequestsTotal))

	output.WriteString("# HELP notes_request_errors_total HTTP error responses by class\n")
	output.WriteString("# TYPE notes_request_errors_total counter\n")
	output.WriteString(fmt.Sprintf("notes_request_errors_total{class=\"4xx\"} %d\n", snapshot.RequestErrors4xx))
	output.WriteString(fmt.Sprintf("notes_request_errors_total{class=\"5xx\"} %d\n\n", snapshot.RequestErrors5xx))

	output.WriteString("# HELP notes_request_duration_avg_ms Average HTTP request duration in milliseconds\n")
	output.WriteString("# TYPE notes_request_duration_avg_ms gauge\n")
	output.WriteString(fmt.Sprintf("notes_request_duration_avg_ms %.3f\n\n", snapshot.RequestAvgDurationMs))

	// Note metrics
	output.WriteString("# HELP notes_created_total Total number of notes created\n")
	output.WriteString("# TYPE notes_created_total counter\n")
	output.WriteString(fmt.Sprintf("notes_created_total %d\n\n", snapshot.NotesCreatedTotal))

	output.WriteString("# HELP notes_rejected_total Total number of rejected create requests\n")
	output.WriteString("# TYPE notes_rejected_total counter\n")
	output.WriteString(fmt.Sprintf("notes_rejected_total %d\n\n", snapshot.NotesRejectedTotal))

	output.WriteString("# HELP notes_clears_total Total number of clear operations\n")
	output.WriteString("# TYPE notes_clears_total counter\n")
	output.WriteString(fmt.Sprintf("notes_clears_total %d\n\n", snapshot.ClearsTotal))

	output.WriteString("# HELP notes_cleared_total Total number of notes removed by clear\n")
	output.WriteString("# TYPE notes_cleared_total counter\n")
	output.WriteString(fmt.Sprintf("notes_cleared_total %d\n\n", snapshot.NotesClearedTotal))

	output.WriteString("# HELP notes_stored Current number of notes in memory\n")
	output.WriteString("# TYPE notes_stored gauge\n")
	output.WriteString(fmt.Sprintf("notes_stored %d\n\n", s.store.Len()))

	output.WriteString("# HELP notes_uptime_seconds Application uptime in seconds\n")
	output.WriteString("# TYPE notes_uptime_seconds counter\n")
	output.WriteString(fmt.Sprintf("notes_uptime_seconds %.0f\n", time.Since(s.startedAt).Seconds()))

	return output.String()
}

// Helper function to format label safely for Prometheus
func prometheusLabel(value string) string {
	// Escape quotes and backslashes
	value = strings.ReplaceAll(value, "\\", "\\\\")
	value = strings.ReplaceAll(value, "\"", "\\\"")
	value = strings.ReplaceAll(value, "\n", "\\n")
	return value
}
