// ABOUTME: MCP tool definitions and registration for the context assembly core
// ABOUTME: Exposes context assembly plus the session endpoints the API layer needs
package mcp

import (
	"github.com/aimi9933/llmprox/internal/core"
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// RegisterTools registers all MCP tools with the server
func RegisterTools(server *mcpserver.MCPServer, assembler *core.Assembler) *Handlers {
	handlers := &Handlers{assembler: assembler}

	// 1. get_context - assemble bounded context for an editor request
	server.AddTool(mcp.Tool{
		Name:        "get_context",
		Description: "Assemble bounded, semantically coherent context chunks for a source file, ordered by relevance to the cursor and message, within a token budget.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"code": map[string]interface{}{
					"type":        "string",
					"description": "Full source text of the current file",
				},
				"file_path": map[string]interface{}{
					"type":        "string",
					"description": "Path of the file (used for caching and language detection)",
				},
				"language": map[string]interface{}{
					"type":        "string",
					"description": "Language tag (detected from file_path when omitted)",
				},
				"cursor_offset": map[string]interface{}{
					"type":        "number",
					"description": "Byte offset of the cursor in code (omit for no cursor)",
				},
				"message": map[string]interface{}{
					"type":        "string",
					"description": "Optional natural-language message to match context against",
				},
				"max_chunks": map[string]interface{}{
					"type":        "number",
					"description": "Maximum number of chunks to return (default from config)",
				},
				"token_budget": map[string]interface{}{
					"type":        "number",
					"description": "Token budget across returned chunks (default from config)",
				},
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session to score recency against (created when omitted)",
				},
			},
			Required: []string{"code"},
		},
	}, handlers.GetContext)

	// 2. record_turn - append a confirmed conversation turn
	server.AddTool(mcp.Tool{
		Name:        "record_turn",
		Description: "Record a confirmed user or assistant turn in a session, tagged with the chunk ids used to answer it. Call only after a successful model response.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session to append to (created if absent)",
				},
				"role": map[string]interface{}{
					"type":        "string",
					"description": "Turn author: user or assistant",
				},
				"content": map[string]interface{}{
					"type":        "string",
					"description": "Turn content",
				},
				"context_chunk_ids": map[string]interface{}{
					"type":        "array",
					"description": "Chunk ids that backed this turn",
					"items":       map[string]interface{}{"type": "string"},
				},
			},
			Required: []string{"session_id", "role", "content"},
		},
	}, handlers.RecordTurn)

	// 3. get_history - fetch session turns in insertion order
	server.AddTool(mcp.Tool{
		Name:        "get_history",
		Description: "Get a session's conversation history in insertion order. Unknown sessions return an empty history.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session id",
				},
			},
			Required: []string{"session_id"},
		},
	}, handlers.GetHistory)

	// 4. list_sessions - summaries of all live sessions
	server.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all live sessions with message counts, last activity, and roles seen.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, handlers.ListSessions)

	// 5. clear_session - idempotent session removal
	server.AddTool(mcp.Tool{
		Name:        "clear_session",
		Description: "Remove a session and its history entirely. Clearing an absent session is not an error.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session id",
				},
			},
			Required: []string{"session_id"},
		},
	}, handlers.ClearSession)

	// 6. memory_stats - in-memory footprint of the core
	server.AddTool(mcp.Tool{
		Name:        "memory_stats",
		Description: "Report session, turn, and chunk cache counts.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, handlers.MemoryStats)

	return handlers
}
