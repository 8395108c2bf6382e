// Package diary defines diary entries, their typed errors, and the storage
// contract shared by the CLI, the TUI, and the MCP server.
package diary

import (
	"strings"
	"time"

	"tableflip.dev/calendiary/pkg/calendar"
)

// Entry is the single plain-text note for a date.
type Entry struct {
	Date    calendar.Date `json:"date"`
	Content string        `json:"content"`
	Updated time.Time     `json:"updated,omitempty"`
}

// New returns an entry for date with the given content.
func New(date calendar.Date, content string) Entry {
	return Entry{Date: date, Content: content}
}

// IsBlank reports whether content holds nothing but whitespace. Blank
// entries are treated as absent and are never stored.
func IsBlank(content string) bool {
	return strings.TrimSpace(content) == ""
}

// Blank reports whether the entry content is blank.
func (e Entry) Blank() bool {
	return IsBlank(e.Content)
}

// Preview returns the first line of the entry, trimmed to max runes.
func (e Entry) Preview(max int) string {
	line := strings.TrimSpace(e.Content)
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = strings.TrimSpace(line[:i])
	}
	runes := []rune(line)
	if max > 0 && len(runes) > max {
		if max == 1 {
			return "…"
		}
		return string(runes[:max-1]) + "…"
	}
	return line
}
