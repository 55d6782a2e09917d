package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"notes-server/internal/notes"
)

// maxNoteBodyBytes bounds POST /api/notes bodies.
const maxNoteBodyBytes = 1 << 20

const (
	errMsgInvalidJSON  = "invalid JSON body"
	errMsgBodyTooLarge = "request body too large"
)

type errorResp struct {
	Error string `json:"error"`
}

type okResp struct {
	OK bool `json:"ok"`
}

// handleListNotes handles GET /api/notes.
// The response carries an ETag; a matching If-None-Match gets 304.
func (s *Server) handleListNotes(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(s.store.List()); err != nil {
		Error("encode notes failed", map[string]any{"rid": RequestIDFromContext(r.Context())}, err)
		writeJSON(w, http.StatusInternalServerError, errorResp{Error: "internal error"})
		return
	}

	tag := etagFor(buf.Bytes())
	w.Header().Set("ETag", tag)
	w.Header().Set("Cache-Control", "no-cache")
	if etagMatches(r.Header.Get("If-None-Match"), tag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// handleCreateNote handles POST /api/notes.
//
// Request body: {"text": "..."}; a missing, null or non-string text counts as empty.
// Response: 201 with the created note, or 400 {"error": "text is required"}.
func (s *Server) handleCreateNote(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxNoteBodyBytes)

	var req notes.CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		var typeErr *json.UnmarshalTypeError
		switch {
		case errors.As(err, &tooLarge):
			s.metrics.RecordNoteRejected()
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResp{Error: errMsgBodyTooLarge})
			return
		case errors.Is(err, io.EOF), errors.As(err, &typeErr):
			// empty body or a JSON value that is not an object: no usable text
		default:
			s.metrics.RecordNoteRejected()
			writeJSON(w, http.StatusBadRequest, errorResp{Error: errMsgInvalidJSON})
			return
		}
	}

	note, err := s.store.Create(req.EffectiveText())
	if err != nil {
		s.metrics.RecordNoteRejected()
		if errors.Is(err, notes.ErrTextRequired) {
			writeJSON(w, http.StatusBadRequest, errorResp{Error: err.Error()})
			return
		}
		Error("create note failed", map[string]any{"rid": RequestIDFromContext(r.Context())}, err)
		writeJSON(w, http.StatusInternalServerError, errorResp{Error: "internal error"})
		return
	}

	s.metrics.RecordNoteCreated()
	Debug("note created", map[string]any{
		"rid": RequestIDFromContext(r.Context()),
		"id":  note.ID,
	})
	writeJSON(w, http.StatusCreated, note)
}

// handleClearNotes handles DELETE /api/notes: drop everything and restart ids at 1.
func (s *Server) handleClearNotes(w http.ResponseWriter, r *http.Request) {
	removed := s.store.Clear()
	s.metrics.RecordNotesCleared(removed)
	Info("notes cleared", map[string]any{
		"rid":     RequestIDFromContext(r.Context()),
		"removed": removed,
	})
	writeJSON(w, http.StatusOK, okResp{OK: true})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
