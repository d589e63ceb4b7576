// ABOUTME: Token estimation for chunk sizing and budget accounting
// ABOUTME: Default estimator is pure and deterministic so selection is reproducible
package token

import (
	"math"
	"unicode"
)

// Estimator counts approximate LLM tokens in a piece of text. Counts must be
// deterministic for identical input.
type Estimator interface {
	Count(text string) int
}

// wordTokenRatio approximates how many BPE tokens an identifier-style word
// expands to. Code averages slightly above one token per word because of
// camelCase and snake_case splits.
const wordTokenRatio = 1.3

// HeuristicEstimator approximates token counts from word and punctuation runs
// without any model files. It is language-agnostic and side-effect-free.
type HeuristicEstimator struct{}

// NewHeuristicEstimator returns the default estimator.
func NewHeuristicEstimator() *HeuristicEstimator {
	return &HeuristicEstimator{}
}

// Count returns the approximate token count of text. Words scale by a fixed
// ratio; each punctuation rune counts as one token, matching how BPE
// tokenizers treat symbols in source code.
func (e *HeuristicEstimator) Count(text string) int {
	if text == "" {
		return 0
	}

	words := 0
	punct := 0
	inWord := false
	for _, r := range text {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_':
			if !inWord {
				words++
				inWord = true
			}
		case unicode.IsSpace(r):
			inWord = false
		default:
			punct++
			inWord = false
		}
	}

	return int(math.Ceil(float64(words)*wordTokenRatio)) + punct
}
