// ABOUTME: Root CLI command with global flags
// ABOUTME: Registers all subcommands and provides Execute for main
package commands

import (
	"github.com/spf13/cobra"
)

var (
	quiet  bool
	format string
)

// NewRootCmd creates the root command with all subcommands attached.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "llmprox",
		Short: "Context assembly for IDE-to-LLM requests",
		Long: `llmprox turns raw source files into bounded, semantically coherent
context for a local LLM backend.

It chunks source at structural boundaries, scores chunks against the
current cursor and message, and keeps per-session conversation memory
so multi-turn requests stay coherent without re-sending whole files.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress informational output")
	cmd.PersistentFlags().StringVar(&format, "format", "table", "Output format: table or json")

	cmd.AddCommand(NewAnalyzeCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}
