package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notes-server/internal/notes"
)

func newTestServer(t *testing.T, cfg Config, opts notes.Options) *Server {
	t.Helper()
	if cfg.PublicDir == "" {
		cfg.PublicDir = t.TempDir()
	}
	cfg.Stdout = io.Discard
	return New(cfg, notes.NewStore(opts))
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decodeNotes(t *testing.T, rr *httptest.ResponseRecorder) []notes.Note {
	t.Helper()
	var list []notes.Note
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &list))
	return list
}

func TestListNotes_Fresh(t *testing.T) {
	s := newTestServer(t, Config{EnableClear: true}, notes.Options{Timestamps: true})

	rr := do(t, s.Handler(), http.MethodGet, "/api/notes", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	list := decodeNotes(t, rr)
	require.Len(t, list, 1)
	assert.Equal(t, int64(1), list[0].ID)
	assert.Equal(t, notes.BootstrapText, list[0].Text)

	_, err := time.Parse(time.RFC3339Nano, list[0].CreatedAt)
	assert.NoError(t, err, "createdAt must be ISO-8601")
}

func TestCreateNote_Success(t *testing.T) {
	s := newTestServer(t, Config{EnableClear: true}, notes.Options{Timestamps: true})
	h := s.Handler()

	rr := do(t, h, http.MethodPost, "/api/notes", `{"text":"buy milk"}`)
	require.Equal(t, http.StatusCreated, rr.Code)

	var created notes.Note
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
	assert.Equal(t, int64(2), created.ID)
	assert.Equal(t, "buy milk", created.Text)
	assert.NotEmpty(t, created.CreatedAt)

	list := decodeNotes(t, do(t, h, http.MethodGet, "/api/notes", ""))
	require.Len(t, list, 2)
	assert.Equal(t, "buy milk", list[0].Text)
	assert.Equal(t, notes.BootstrapText, list[1].Text)
}

func TestCreateNote_Rejected(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantMsg string
	}{
		{"whitespace text", `{"text":"  "}`, "text is required"},
		{"empty object", `{}`, "text is required"},
		{"missing body", "", "text is required"},
		{"null text", `{"text":null}`, "text is required"},
		{"numeric text", `{"text":7}`, "text is required"},
		{"array body", `[]`, "text is required"},
		{"malformed json", `{"text":`, "invalid JSON body"},
		{"garbage", `not json`, "invalid JSON body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, Config{}, notes.Options{})
			h := s.Handler()
			before := do(t, h, http.MethodGet, "/api/notes", "").Body.String()

			rr := do(t, h, http.MethodPost, "/api/notes", tt.body)
			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.JSONEq(t, `{"error":"`+tt.wantMsg+`"}`, rr.Body.String())

			after := do(t, h, http.MethodGet, "/api/notes", "").Body.String()
			assert.Equal(t, before, after, "list must be unchanged")
			assert.Equal(t, int64(1), s.metrics.Snapshot().NotesRejectedTotal)
		})
	}
}

func TestCreateNote_BodyTooLarge(t *testing.T) {
	s := newTestServer(t, Config{}, notes.Options{})

	big := `{"text":"` + strings.Repeat("a", maxNoteBodyBytes) + `"}`
	rr := do(t, s.Handler(), http.MethodPost, "/api/notes", big)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rr.Code)
	assert.Equal(t, 1, s.store.Len())
}

func TestCreateNote_IDsStrictlyIncreasing(t *testing.T) {
	s := newTestServer(t, Config{}, notes.Options{})
	h := s.Handler()

	for want := int64(2); want <= 21; want++ {
		rr := do(t, h, http.MethodPost, "/api/notes", `{"text":"n"}`)
		require.Equal(t, http.StatusCreated, rr.Code)

		var n notes.Note
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &n))
		assert.Equal(t, want, n.ID)
	}
}

func TestClearNotes(t *testing.T) {
	s := newTestServer(t, Config{EnableClear: true}, notes.Options{Timestamps: true})
	h := s.Handler()

	do(t, h, http.MethodPost, "/api/notes", `{"text":"x"}`)

	rr := do(t, h, http.MethodDelete, "/api/notes", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"ok":true}`, rr.Body.String())

	rr = do(t, h, http.MethodGet, "/api/notes", "")
	assert.Equal(t, "[]\n", rr.Body.String())

	do(t, h, http.MethodPost, "/api/notes", `{"text":"a"}`)
	list := decodeNotes(t, do(t, h, http.MethodGet, "/api/notes", ""))
	require.Len(t, list, 1)
	assert.Equal(t, int64(1), list[0].ID)
	assert.Equal(t, "a", list[0].Text)

	snap := s.metrics.Snapshot()
	assert.Equal(t, int64(1), snap.ClearsTotal)
	assert.Equal(t, int64(2), snap.NotesClearedTotal)
}

func TestClearAndTimestampsDisabled(t *testing.T) {
	s := newTestServer(t, Config{EnableClear: false}, notes.Options{Timestamps: false})
	h := s.Handler()

	rr := do(t, h, http.MethodPost, "/api/notes", `{"text":"plain"}`)
	require.Equal(t, http.StatusCreated, rr.Code)
	assert.JSONEq(t, `{"id":2,"text":"plain"}`, rr.Body.String())

	rr = do(t, h, http.MethodDelete, "/api/notes", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, 2, s.store.Len())
}

func TestListNotes_ETag(t *testing.T) {
	s := newTestServer(t, Config{}, notes.Options{})
	h := s.Handler()

	first := do(t, h, http.MethodGet, "/api/notes", "")
	tag := first.Header().Get("ETag")
	require.NotEmpty(t, tag)

	req := httptest.NewRequest(http.MethodGet, "/api/notes", nil)
	req.Header.Set("If-None-Match", tag)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusNotModified, rr.Code)
	assert.Empty(t, rr.Body.Bytes())

	do(t, h, http.MethodPost, "/api/notes", `{"text":"changes the list"}`)

	req = httptest.NewRequest(http.MethodGet, "/api/notes", nil)
	req.Header.Set("If-None-Match", tag)
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.NotEqual(t, tag, rr.Header().Get("ETag"))
}

func TestAPIWorkflow_OverHTTP(t *testing.T) {
	s := newTestServer(t, Config{EnableClear: true}, notes.Options{Timestamps: true})
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	client := &http.Client{Timeout: 5 * time.Second}

	post := func(body string) *http.Response {
		resp, err := client.Post(srv.URL+"/api/notes", "application/json", bytes.NewBufferString(body))
		require.NoError(t, err)
		return resp
	}

	resp := post(`{"text":"first"}`)
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(HeaderRequestID))

	// the default transport asks for gzip and decompresses transparently
	resp, err := client.Get(srv.URL + "/api/notes")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.True(t, resp.Uncompressed)

	var list []notes.Note
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	require.Len(t, list, 2)
	assert.Equal(t, "first", list[0].Text)

	req, err := http.NewRequest(http.MethodDelete, srv.URL+"/api/notes", nil)
	require.NoError(t, err)
	resp2, err := client.Do(req)
	require.NoError(t, err)
	resp2.Body.Close()
	assert.Equal(t, http.StatusOK, resp2.StatusCode)
	assert.Equal(t, 0, s.store.Len())
}
