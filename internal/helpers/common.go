package helpers

import (
	"strings"
)

// FirstLine returns the first non-empty line of s, trimmed of surrounding
// whitespace. Version-query output is multi-line for some tools.
func FirstLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
