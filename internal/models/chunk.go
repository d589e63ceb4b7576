// ABOUTME: Chunk represents a bounded span of source text used as one context unit
// ABOUTME: Ids are content-derived so identical input always yields identical chunks
package models

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// ChunkMetadata carries optional per-chunk details. Anything that does not
// fit the typed fields goes into Extra as plain strings.
type ChunkMetadata struct {
	LineCount int               `json:"line_count"`
	CharCount int               `json:"char_count"`
	Oversized bool              `json:"oversized,omitempty"`
	Symbols   []string          `json:"symbols,omitempty"`
	Extra     map[string]string `json:"extra,omitempty"`
}

// Chunk is a contiguous span of a source file. StartLine/EndLine are 1-based
// and inclusive and describe the non-overlapping core span; Overlap holds
// trailing lines duplicated from the previous chunk for retrieval continuity.
type Chunk struct {
	ID         string        `json:"id"`
	FilePath   string        `json:"file_path"`
	StartLine  int           `json:"start_line"`
	EndLine    int           `json:"end_line"`
	Language   string        `json:"language"`
	Content    string        `json:"content"`
	Overlap    string        `json:"overlap,omitempty"`
	TokenCount int           `json:"token_count"`
	Metadata   ChunkMetadata `json:"metadata"`
}

// RetrievalText returns the text used for similarity scoring: the overlap
// prefix (if any) followed by the core content.
func (c *Chunk) RetrievalText() string {
	if c.Overlap == "" {
		return c.Content
	}
	return c.Overlap + "\n" + c.Content
}

// ChunkID derives a stable identifier from the file path, line range, and
// content. Re-chunking unchanged input produces the same id.
func ChunkID(filePath string, startLine, endLine int, content string) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s:%d:%d:%s", filePath, startLine, endLine, content)))
	return "chunk_" + hex.EncodeToString(sum[:8])
}
