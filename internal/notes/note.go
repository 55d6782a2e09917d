package notes

import (
	"encoding/json"
	"errors"
	"strings"
	"time"
)

// BootstrapText is the greeting stored as note 1 when a store is created.
const BootstrapText = "Welcome! This is your first note."

// TimestampLayout renders creation times as UTC ISO-8601 with milliseconds.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// ErrTextRequired is returned by Create when the text is empty after trimming.
var ErrTextRequired = errors.New("text is required")

// Note is a single user-authored snippet.
// CreatedAt is empty when the store runs without timestamps.
type Note struct {
	ID        int64  `json:"id"`
	Text      string `json:"text"`
	CreatedAt string `json:"createdAt,omitempty"`
}

// CreateRequest is the body accepted by the create operation.
// Text stays raw so a missing, null or non-string value can fall back to "".
type CreateRequest struct {
	Text json.RawMessage `json:"text"`
}

// EffectiveText returns the trimmed text of the request, or "" when the
// field is absent, null or not a JSON string.
func (r CreateRequest) EffectiveText() string {
	if len(r.Text) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(r.Text, &s); err != nil {
		return ""
	}
	return strings.TrimSpace(s)
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}
