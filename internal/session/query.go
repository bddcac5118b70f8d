package session

import (
	"strings"

	"cocktailnerd/internal/config"
)

// DefaultEmptyQuery is sent when the user submits without any text.
const DefaultEmptyQuery = config.DefaultEmptyQuery

// normalizeQuery trims surrounding whitespace and substitutes placeholder for
// an empty result.
func normalizeQuery(text, placeholder string) string {
	if q := strings.TrimSpace(text); q != "" {
		return q
	}
	return placeholder
}
