package server

import (
	"fmt"
	"strings"

	"github.com/cespare/xxhash"
)

// etagFor returns a strong entity tag for body.
func etagFor(body []byte) string {
	return fmt.Sprintf(`"%016x"`, xxhash.Sum64(body))
}

// etagMatches reports whether an If-None-Match header value matches tag.
// Weak validators compare equal to their strong form.
func etagMatches(header, tag string) bool {
	if header == "" {
		return false
	}
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimSpace(candidate)
		if candidate == "*" {
			return true
		}
		if strings.TrimPrefix(candidate, "W/") == tag {
			return true
		}
	}
	return false
}
