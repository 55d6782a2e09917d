package server

import (
	"sync"
	"time"
)

// Metrics holds application metrics for one Server.
type Metrics struct {
	mu sync.RWMutex

	// Note metrics
	notesCreatedTotal  int64
	notesRejectedTotal int64
	clearsTotal        int64
	notesClearedTotal  int64

	// System metrics
	requestsTotal        int64
	requestErrors5xx     int64
	requestErrors4xx     int64
	requestDurationTotal time.Duration
}

func NewMetrics() *Metrics {
	return &Metrics{}
}

// RecordNoteCreated records a successful create
func (m *Metrics) RecordNoteCreated() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notesCreatedTotal++
}

// RecordNoteRejected records a create that failed validation or decoding
func (m *Metrics) RecordNoteRejected() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notesRejectedTotal++
}

// RecordNotesCleared records one clear operation that removed n notes
func (m *Metrics) RecordNotesCleared(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clearsTotal++
	m.notesClearedTotal += int64(n)
}

// RecordRequest records an HTTP request
func (m *Metrics) RecordRequest(statusCode int, duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestsTotal++
	m.requestDurationTotal += duration

	if statusCode >= 500 {
		m.requestErrors5xx++
	} else if statusCode >= 400 {
		m.requestErrors4xx++
	}
}

// Snapshot returns a snapshot of current metrics
func (m *Metrics) Snapshot() MetricsSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return MetricsSnapshot{
		NotesCreatedTotal:    m.notesCreatedTotal,
		NotesRejectedTotal:   m.notesRejectedTotal,
		ClearsTotal:          m.clearsTotal,
		NotesClearedTotal:    m.notesClearedTotal,
		RequestsTotal:        m.requestsTotal,
		RequestErrors5xx:     m.requestErrors5xx,
		RequestErrors4xx:     m.requestErrors4xx,
		RequestAvgDurationMs: avgDuration(m.requestDurationTotal, m.requestsTotal),
	}
}

// MetricsSnapshot represents a point-in-time snapshot of metrics
type MetricsSnapshot struct {
	// Note metrics
	NotesCreatedTotal  int64 `json:"notes_created_total"`
	NotesRejectedTotal int64 `json:"notes_rejected_total"`
	ClearsTotal        int64 `json:"clears_total"`
	NotesClearedTotal  int64 `json:"notes_cleared_total"`

	// System metrics
	RequestsTotal        int64   `json:"requests_total"`
	RequestErrors5xx     int64   `json:"request_errors_5xx"`
	RequestErrors4xx     int64   `json:"request_errors_4xx"`
	RequestAvgDurationMs float64 `json:"request_avg_duration_ms"`
}

func avgDuration(total time.Duration, count int64) float64 {
	if count == 0 {
		return 0
	}
	return float64(total) / float64(time.Millisecond) / float64(count)
}
