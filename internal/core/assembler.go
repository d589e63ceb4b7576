// ABOUTME: Assembler wires chunk cache, chunker, selector, and session memory together
// ABOUTME: One request in: validated, chunked, selected under budget; turns recorded only on confirmation
package core

import (
	"fmt"
	"strings"

	"github.com/aimi9933/llmprox/internal/cache"
	"github.com/aimi9933/llmprox/internal/models"
	"github.com/aimi9933/llmprox/internal/session"
	"github.com/google/uuid"
)

// recentTurnWindow is how many trailing turns feed the recency score.
const recentTurnWindow = 10

// ContextRequest is one inbound context assembly request. A zero TokenBudget
// or MaxChunks falls back to the configured defaults; CursorOffset is a byte
// offset into Code, negative meaning no cursor.
type ContextRequest struct {
	Code         string
	FilePath     string
	Language     string
	CursorOffset int
	Message      string
	SessionID    string
	MaxChunks    int
	TokenBudget  int
}

// ContextResult is the assembled context for one request.
type ContextResult struct {
	SessionID   string         `json:"session_id"`
	Chunks      []models.Chunk `json:"chunks"`
	TotalTokens int            `json:"total_tokens"`
}

// Stats reports the core's in-memory footprint.
type Stats struct {
	Sessions    int `json:"sessions"`
	Turns       int `json:"turns"`
	CachedFiles int `json:"cached_files"`
}

// Assembler is the entry point of the context assembly core. It holds no
// global state; the store and cache are injected and shared across requests.
type Assembler struct {
	chunker  *Chunker
	selector *Selector
	chunks   *cache.ChunkCache
	sessions *session.Store

	defaultBudget    int
	defaultMaxChunks int
}

// NewAssembler creates an Assembler with injected collaborators.
func NewAssembler(chunker *Chunker, selector *Selector, chunkCache *cache.ChunkCache, sessions *session.Store, defaultBudget, defaultMaxChunks int) *Assembler {
	return &Assembler{
		chunker:          chunker,
		selector:         selector,
		chunks:           chunkCache,
		sessions:         sessions,
		defaultBudget:    defaultBudget,
		defaultMaxChunks: defaultMaxChunks,
	}
}

// AssembleContext validates the request, (re)chunks the file if its content
// changed, and selects chunks under the token budget. It never appends to
// session memory: the caller records turns only after a confirmed response.
func (a *Assembler) AssembleContext(req ContextRequest) (*ContextResult, error) {
	if req.TokenBudget < 0 {
		return nil, fmt.Errorf("%w: token budget must not be negative, got %d", ErrInvalidInput, req.TokenBudget)
	}
	if req.MaxChunks < 0 {
		return nil, fmt.Errorf("%w: max chunks must not be negative, got %d", ErrInvalidInput, req.MaxChunks)
	}

	query := models.Query{
		Code:     req.Code,
		FilePath: req.FilePath,
		Message:  req.Message,
	}
	if req.CursorOffset >= 0 {
		line, col, err := models.CursorPosition(req.Code, req.CursorOffset)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		query.CursorLine = line
		query.CursorCol = col
	}

	language := req.Language
	if language == "" {
		language = models.DetectLanguage(req.FilePath)
	}
	query.Language = language

	budget := req.TokenBudget
	if budget == 0 {
		budget = a.defaultBudget
	}
	maxChunks := req.MaxChunks
	if maxChunks == 0 {
		maxChunks = a.defaultMaxChunks
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.New().String()
	}

	chunks := a.chunkFile(req.Code, req.FilePath, language)
	recent := a.sessions.RecentTurns(sessionID, recentTurnWindow)

	selected := a.selector.Select(chunks, query, recent, budget, maxChunks)

	total := 0
	for _, chunk := range selected {
		total += chunk.TokenCount
	}

	return &ContextResult{
		SessionID:   sessionID,
		Chunks:      selected,
		TotalTokens: total,
	}, nil
}

// chunkFile returns chunks for the file, reusing the cache while the content
// checksum still matches. Files without a path are chunked but not cached.
func (a *Assembler) chunkFile(code, filePath, language string) []models.Chunk {
	if filePath != "" {
		if cached, ok := a.chunks.Get(filePath, code); ok {
			return cached
		}
	}

	chunks := a.chunker.Chunk(code, filePath, language)
	if filePath != "" {
		a.chunks.Put(filePath, code, chunks)
	}
	return chunks
}

// RecordTurn appends a confirmed turn to the session, tagged with the chunk
// ids actually used to answer it. Callers invoke this only after a successful
// model response; cancelled requests simply never record.
func (a *Assembler) RecordTurn(sessionID string, role models.Role, content string, contextChunkIDs []string) (models.Turn, error) {
	if sessionID == "" {
		return models.Turn{}, fmt.Errorf("%w: session id is required", ErrInvalidInput)
	}
	turn, err := models.NewTurn(role, content, contextChunkIDs)
	if err != nil {
		return models.Turn{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	a.sessions.Append(sessionID, turn)
	return turn, nil
}

// History returns the session's turns in insertion order; unknown sessions
// yield an empty history.
func (a *Assembler) History(sessionID string) []models.Turn {
	return a.sessions.History(sessionID)
}

// ListSessions returns summaries of all live sessions.
func (a *Assembler) ListSessions() []models.SessionSummary {
	return a.sessions.ListSessions()
}

// ClearSession removes a session entirely. Clearing twice is fine.
func (a *Assembler) ClearSession(sessionID string) {
	a.sessions.Clear(sessionID)
}

// MemoryStats reports session and cache counts.
func (a *Assembler) MemoryStats() Stats {
	return Stats{
		Sessions:    a.sessions.Len(),
		Turns:       a.sessions.TurnCount(),
		CachedFiles: a.chunks.Len(),
	}
}

// FormatContext renders selected chunks into the prompt section callers
// prepend to their model requests.
func FormatContext(chunks []models.Chunk) string {
	if len(chunks) == 0 {
		return ""
	}
	sections := make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		sections = append(sections, fmt.Sprintf("Code from %s (lines %d-%d):\n%s",
			chunk.FilePath, chunk.StartLine, chunk.EndLine, chunk.Content))
	}
	return strings.Join(sections, "\n\n")
}
