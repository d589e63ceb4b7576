// ABOUTME: Turn represents a single message in a session's conversation history
// ABOUTME: Turns are append-only and reference the chunk ids used to answer them
package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Role identifies the author of a turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one message in a session. ContextChunkIDs reference Chunk ids by
// value, not by copy; chunk content is re-derived from the originating file.
type Turn struct {
	TurnID          string    `json:"turn_id"`
	Role            Role      `json:"role"`
	Content         string    `json:"content"`
	Timestamp       time.Time `json:"timestamp"`
	ContextChunkIDs []string  `json:"context_chunk_ids,omitempty"`
}

// NewTurn creates a Turn with validation and a generated id.
func NewTurn(role Role, content string, contextChunkIDs []string) (Turn, error) {
	if role != RoleUser && role != RoleAssistant {
		return Turn{}, fmt.Errorf("invalid role %q", role)
	}
	if strings.TrimSpace(content) == "" {
		return Turn{}, errors.New("turn content cannot be empty")
	}
	return Turn{
		TurnID:          generateTurnID(),
		Role:            role,
		Content:         content,
		Timestamp:       time.Now().UTC(),
		ContextChunkIDs: contextChunkIDs,
	}, nil
}

// generateTurnID generates a unique turn identifier
func generateTurnID() string {
	return fmt.Sprintf("turn_%s_%s", time.Now().UTC().Format("20060102_150405"), uuid.New().String()[:8])
}
