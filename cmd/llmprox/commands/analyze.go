// ABOUTME: CLI command to chunk a source file and optionally select against a query
// ABOUTME: Shows chunk boundaries, token counts, and symbols for inspection
package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/aimi9933/llmprox/internal/config"
	"github.com/aimi9933/llmprox/internal/core"
	"github.com/aimi9933/llmprox/internal/models"
	"github.com/aimi9933/llmprox/internal/token"
)

var (
	analyzeQuery  string
	analyzeBudget int
	analyzeLang   string
)

// NewAnalyzeCmd creates analyze command
func NewAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze <file>",
		Short: "Chunk a source file and show the resulting context units",
		Long: `Chunk a source file into bounded semantic units.

With --query, additionally runs selection against the query under the
given token budget and shows only the chunks that would be sent.

Examples:
  llmprox analyze main.go
  llmprox analyze app.py --query "where is the config loaded" --budget 1500
  llmprox analyze main.go --format json`,
		Args: cobra.ExactArgs(1),
		RunE: runAnalyze,
	}

	cmd.Flags().StringVar(&analyzeQuery, "query", "", "Select chunks relevant to this query")
	cmd.Flags().IntVar(&analyzeBudget, "budget", 0, "Token budget for selection (default from config)")
	cmd.Flags().StringVar(&analyzeLang, "language", "", "Language tag (detected from extension when omitted)")

	return cmd
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	path := args[0]
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading file: %w", err)
	}

	language := analyzeLang
	if language == "" {
		language = models.DetectLanguage(path)
	}

	var estimator token.Estimator = token.NewHeuristicEstimator()
	if cfg.Tokenizer == "tiktoken" {
		exact, err := token.NewTiktokenEstimator()
		if err != nil {
			return fmt.Errorf("loading tiktoken encoding: %w", err)
		}
		estimator = exact
	}
	chunker := core.NewChunker(estimator, cfg.MaxChunkSize, cfg.OverlapRatio)
	chunks := chunker.Chunk(string(data), path, language)

	if analyzeQuery != "" {
		budget := analyzeBudget
		if budget == 0 {
			budget = cfg.MaxContextTokens
		}
		selector := core.NewSelector(core.NewLexicalScorer(), core.Weights{
			Similarity: cfg.SimilarityWeight,
			Proximity:  cfg.ProximityWeight,
			Recency:    cfg.RecencyWeight,
		})
		query := models.Query{Code: string(data), FilePath: path, Language: language, Message: analyzeQuery}
		chunks = selector.Select(chunks, query, nil, budget, cfg.MaxChunksPerRequest)
	}

	if format == "json" {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(chunks)
	}

	if len(chunks) == 0 {
		if !quiet {
			fmt.Fprintln(cmd.OutOrStdout(), "No chunks produced")
		}
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tLINES\tTOKENS\tSYMBOLS")
	totalTokens := 0
	for _, chunk := range chunks {
		fmt.Fprintf(w, "%s\t%d-%d\t%d\t%s\n",
			chunk.ID, chunk.StartLine, chunk.EndLine, chunk.TokenCount,
			joinSymbols(chunk.Metadata.Symbols))
		totalTokens += chunk.TokenCount
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "\n%d chunks, %d tokens total\n", len(chunks), totalTokens)
	}
	return nil
}

func joinSymbols(symbols []string) string {
	if len(symbols) == 0 {
		return "-"
	}
	out := symbols[0]
	for _, s := range symbols[1:] {
		out += ", " + s
	}
	return out
}
