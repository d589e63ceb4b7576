// ABOUTME: Query captures what the editor is asking context for
// ABOUTME: Converts raw cursor byte offsets into line/column positions
package models

import (
	"fmt"
	"strings"
)

// Query describes the current editor state a context request is scored
// against: the code buffer, cursor position, and an optional message.
type Query struct {
	Code       string `json:"code"`
	FilePath   string `json:"file_path,omitempty"`
	Language   string `json:"language,omitempty"`
	CursorLine int    `json:"cursor_line,omitempty"` // 1-based, 0 = no cursor
	CursorCol  int    `json:"cursor_col,omitempty"`  // 1-based
	Message    string `json:"message,omitempty"`
}

// Text returns the text the query is matched on: the message when present,
// otherwise the code buffer itself.
func (q *Query) Text() string {
	if q.Message != "" {
		if q.Code != "" {
			return q.Message + "\n" + q.Code
		}
		return q.Message
	}
	return q.Code
}

// CursorPosition converts a byte offset into a 1-based line and column.
// Offsets equal to len(code) point just past the final character.
func CursorPosition(code string, offset int) (line, col int, err error) {
	if offset < 0 || offset > len(code) {
		return 0, 0, fmt.Errorf("cursor offset %d out of range [0, %d]", offset, len(code))
	}
	before := code[:offset]
	line = strings.Count(before, "\n") + 1
	if idx := strings.LastIndexByte(before, '\n'); idx >= 0 {
		col = len(before) - idx
	} else {
		col = len(before) + 1
	}
	return line, col, nil
}
