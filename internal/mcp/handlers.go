// ABOUTME: MCP tool handler implementations for the context assembly core
// ABOUTME: Validates arguments, delegates to the assembler, returns JSON results
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aimi9933/llmprox/internal/core"
	"github.com/aimi9933/llmprox/internal/models"
	"github.com/mark3labs/mcp-go/mcp"
)

// Handlers contains the handler functions for all MCP tools
type Handlers struct {
	assembler *core.Assembler
}

// GetContext handles the get_context tool
func (h *Handlers) GetContext(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	code, err := request.RequireString("code")
	if err != nil {
		return mcp.NewToolResultError("code argument is required and must be a string"), nil
	}

	req := core.ContextRequest{
		Code:         code,
		FilePath:     request.GetString("file_path", ""),
		Language:     request.GetString("language", ""),
		CursorOffset: request.GetInt("cursor_offset", -1),
		Message:      request.GetString("message", ""),
		SessionID:    request.GetString("session_id", ""),
		MaxChunks:    request.GetInt("max_chunks", 0),
		TokenBudget:  request.GetInt("token_budget", 0),
	}

	result, err := h.assembler.AssembleContext(req)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("context assembly failed: %v", err)), nil
	}

	return jsonResult(result)
}

// RecordTurn handles the record_turn tool
func (h *Handlers) RecordTurn(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError("session_id argument is required and must be a string"), nil
	}
	role, err := request.RequireString("role")
	if err != nil {
		return mcp.NewToolResultError("role argument is required and must be a string"), nil
	}
	content, err := request.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError("content argument is required and must be a string"), nil
	}

	chunkIDs := request.GetStringSlice("context_chunk_ids", nil)

	turn, err := h.assembler.RecordTurn(sessionID, models.Role(role), content, chunkIDs)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("recording turn failed: %v", err)), nil
	}

	return jsonResult(map[string]interface{}{
		"session_id": sessionID,
		"turn_id":    turn.TurnID,
		"timestamp":  turn.Timestamp,
	})
}

// GetHistory handles the get_history tool
func (h *Handlers) GetHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError("session_id argument is required and must be a string"), nil
	}

	turns := h.assembler.History(sessionID)
	if turns == nil {
		turns = []models.Turn{}
	}

	return jsonResult(map[string]interface{}{
		"session_id": sessionID,
		"turns":      turns,
	})
}

// ListSessions handles the list_sessions tool
func (h *Handlers) ListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	summaries := h.assembler.ListSessions()
	if summaries == nil {
		summaries = []models.SessionSummary{}
	}

	return jsonResult(map[string]interface{}{
		"sessions": summaries,
	})
}

// ClearSession handles the clear_session tool
func (h *Handlers) ClearSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError("session_id argument is required and must be a string"), nil
	}

	h.assembler.ClearSession(sessionID)

	return jsonResult(map[string]interface{}{
		"session_id": sessionID,
		"cleared":    true,
	})
}

// MemoryStats handles the memory_stats tool
func (h *Handlers) MemoryStats(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(h.assembler.MemoryStats())
}

func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	responseJSON, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(responseJSON)), nil
}
