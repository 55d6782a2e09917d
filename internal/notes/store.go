package notes

import (
	"strings"
	"sync"
	"time"
)

// Options configures a Store.
type Options struct {
	// Timestamps adds CreatedAt to every note.
	Timestamps bool
	// Now overrides the clock; defaults to time.Now.
	Now func() time.Time
}

// Store is an in-memory, newest-first list of notes.
// All methods are safe for concurrent use; each call is atomic with
// respect to every other call.
type Store struct {
	mu     sync.Mutex
	notes  []Note
	nextID int64

	timestamps bool
	now        func() time.Time
}

// NewStore returns a store seeded with the bootstrap note (id 1).
func NewStore(opts Options) *Store {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	s := &Store{
		nextID:     1,
		timestamps: opts.Timestamps,
		now:        opts.Now,
	}
	s.notes = []Note{s.newNote(BootstrapText)}
	s.nextID++
	return s
}

// newNote builds a note with the current id; callers hold mu or own s.
func (s *Store) newNote(text string) Note {
	n := Note{ID: s.nextID, Text: text}
	if s.timestamps {
		n.CreatedAt = formatTimestamp(s.now())
	}
	return n
}

// List returns a copy of all notes, newest first. Never nil.
func (s *Store) List() []Note {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Note, len(s.notes))
	copy(out, s.notes)
	return out
}

// Create trims text and prepends a new note.
// It returns ErrTextRequired, leaving the store untouched, if nothing remains.
func (s *Store) Create(text string) (Note, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Note{}, ErrTextRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	n := s.newNote(text)
	s.notes = append([]Note{n}, s.notes...)
	s.nextID++
	return n, nil
}

// Clear drops every note and resets the id counter to 1.
// It returns the number of notes removed.
func (s *Store) Clear() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := len(s.notes)
	s.notes = []Note{}
	s.nextID = 1
	return removed
}

// Len reports the current number of notes.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.notes)
}

// Timestamps reports whether notes carry CreatedAt.
func (s *Store) Timestamps() bool {
	return s.timestamps
}
