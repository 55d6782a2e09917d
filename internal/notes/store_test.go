package notes

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock() time.Time {
	return time.Date(2026, 10, 19, 12, 30, 45, 123456789, time.FixedZone("CEST", 2*60*60))
}

func TestNewStore_Bootstrap(t *testing.T) {
	s := NewStore(Options{Timestamps: true, Now: fixedClock})

	list := s.List()
	require.Len(t, list, 1)
	assert.Equal(t, int64(1), list[0].ID)
	assert.Equal(t, BootstrapText, list[0].Text)
	assert.Equal(t, "2026-10-19T10:30:45.123Z", list[0].CreatedAt)
}

func TestNewStore_NoTimestamps(t *testing.T) {
	s := NewStore(Options{})

	list := s.List()
	require.Len(t, list, 1)
	assert.Empty(t, list[0].CreatedAt)
	assert.False(t, s.Timestamps())

	data, err := json.Marshal(list[0])
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":1,"text":"`+BootstrapText+`"}`, string(data))
}

func TestCreate_PrependsAndTrims(t *testing.T) {
	s := NewStore(Options{})

	n, err := s.Create("  buy milk \n")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n.ID)
	assert.Equal(t, "buy milk", n.Text)

	list := s.List()
	require.Len(t, list, 2)
	assert.Equal(t, "buy milk", list[0].Text)
	assert.Equal(t, int64(1), list[1].ID)
}

func TestCreate_RejectsBlank(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"empty", ""},
		{"spaces", "   "},
		{"mixed whitespace", "\t\n  \r"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStore(Options{})
			before := s.List()

			_, err := s.Create(tt.text)
			assert.ErrorIs(t, err, ErrTextRequired)
			assert.Equal(t, before, s.List())

			// the rejected call must not consume an id
			n, err := s.Create("next")
			require.NoError(t, err)
			assert.Equal(t, int64(2), n.ID)
		})
	}
}

func TestClear_ResetsCounter(t *testing.T) {
	s := NewStore(Options{})
	_, err := s.Create("one")
	require.NoError(t, err)

	assert.Equal(t, 2, s.Clear())
	assert.Equal(t, 0, s.Len())
	assert.NotNil(t, s.List())

	n, err := s.Create("a")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n.ID)

	list := s.List()
	require.Len(t, list, 1)
	assert.Equal(t, "a", list[0].Text)
}

func TestList_ReturnsCopy(t *testing.T) {
	s := NewStore(Options{})
	list := s.List()
	list[0].Text = "mutated"

	assert.Equal(t, BootstrapText, s.List()[0].Text)
}

func TestCreate_SequentialIDsContiguous(t *testing.T) {
	s := NewStore(Options{})

	prev := int64(1)
	for i := 0; i < 50; i++ {
		n, err := s.Create("note")
		require.NoError(t, err)
		assert.Equal(t, prev+1, n.ID)
		prev = n.ID
	}
}

func TestCreate_ConcurrentIDsUnique(t *testing.T) {
	s := NewStore(Options{})

	const workers = 20
	const perWorker = 25

	var wg sync.WaitGroup
	ids := make(chan int64, workers*perWorker)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				n, err := s.Create("x")
				if err != nil {
					t.Error(err)
					return
				}
				ids <- n.ID
			}
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[int64]bool)
	for id := range ids {
		assert.False(t, seen[id], "duplicate id %d", id)
		seen[id] = true
	}
	total := int64(workers * perWorker)
	for id := int64(2); id <= total+1; id++ {
		assert.True(t, seen[id], "missing id %d", id)
	}

	// newest first means strictly decreasing ids
	list := s.List()
	for i := 1; i < len(list); i++ {
		assert.Greater(t, list[i-1].ID, list[i].ID)
	}
}

func TestCreateRequest_EffectiveText(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"string", `{"text":"hello"}`, "hello"},
		{"padded", `{"text":"  hello  "}`, "hello"},
		{"missing", `{}`, ""},
		{"null", `{"text":null}`, ""},
		{"number", `{"text":42}`, ""},
		{"object", `{"text":{"a":1}}`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req CreateRequest
			require.NoError(t, json.Unmarshal([]byte(tt.body), &req))
			assert.Equal(t, tt.want, req.EffectiveText())
		})
	}
}
