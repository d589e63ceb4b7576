// ABOUTME: Main entry point for the llmprox MCP server with stdio transport
// ABOUTME: Wires config, chunker, selector, cache, and session store together
package main

import (
	"log"

	"github.com/aimi9933/llmprox/internal/cache"
	"github.com/aimi9933/llmprox/internal/config"
	"github.com/aimi9933/llmprox/internal/core"
	"github.com/aimi9933/llmprox/internal/llm"
	"github.com/aimi9933/llmprox/internal/mcp"
	"github.com/aimi9933/llmprox/internal/session"
	"github.com/aimi9933/llmprox/internal/token"
	"github.com/joho/godotenv"
	mcpserver "github.com/mark3labs/mcp-go/server"
	openai "github.com/sashabaranov/go-openai"
)

func main() {
	// Load .env file if it exists (for API keys)
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found (this is okay for production): %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	var estimator token.Estimator = token.NewHeuristicEstimator()
	if cfg.Tokenizer == "tiktoken" {
		exact, err := token.NewTiktokenEstimator()
		if err != nil {
			log.Printf("Warning: tiktoken unavailable, using heuristic estimator: %v", err)
		} else {
			estimator = exact
		}
	}
	chunker := core.NewChunker(estimator, cfg.MaxChunkSize, cfg.OverlapRatio)

	// Use embedding-backed scoring when an API key is configured, lexical
	// scoring otherwise.
	var scorer core.Scorer = core.NewLexicalScorer()
	if cfg.OpenAIKey != "" {
		client, err := llm.NewOpenAIClientWithConfig(&llm.ClientConfig{
			APIKey:         cfg.OpenAIKey,
			BaseURL:        cfg.OpenAIBaseURL,
			EmbeddingModel: openai.EmbeddingModel(cfg.EmbeddingModel),
			Timeout:        cfg.Timeout,
			MaxRetries:     cfg.MaxRetries,
			RetryDelay:     cfg.RetryDelay,
		})
		if err != nil {
			log.Printf("Warning: embedding client unavailable, using lexical scoring: %v", err)
		} else {
			scorer = core.NewEmbeddingScorer(client)
		}
	}

	selector := core.NewSelector(scorer, core.Weights{
		Similarity: cfg.SimilarityWeight,
		Proximity:  cfg.ProximityWeight,
		Recency:    cfg.RecencyWeight,
	})

	sessions := session.NewStore(cfg.MaxDialogHistory, cfg.MemoryTTL)
	defer sessions.Close()

	assembler := core.NewAssembler(chunker, selector, cache.NewChunkCache(), sessions,
		cfg.MaxContextTokens, cfg.MaxChunksPerRequest)

	server := mcpserver.NewMCPServer(
		"llmprox Context Core",
		"0.1.0",
	)
	mcp.RegisterTools(server, assembler)

	log.Println("llmprox MCP server starting on stdio...")
	if err := mcpserver.ServeStdio(server); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
