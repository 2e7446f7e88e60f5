package messages

import "strings"

const MaxContentLen = 5 * 1024

// ValidContent rejects empty (after trimming) and oversized chat messages.
func ValidContent(content string) bool {
	trimmed := strings.TrimSpace(content)
	return trimmed != "" && len(content) <= MaxContentLen
}
