// ABOUTME: Exact token counting backed by the cl100k_base BPE encoding
// ABOUTME: Optional alternative to the heuristic estimator when accuracy matters
package token

import (
	"fmt"

	tiktoken "github.com/pkoukk/tiktoken-go"
)

// TiktokenEstimator counts tokens with the cl100k_base encoding used by
// GPT-4-family models, a close approximation for most code models.
type TiktokenEstimator struct {
	enc *tiktoken.Tiktoken
}

// NewTiktokenEstimator loads the cl100k_base encoding. It needs the encoding
// data available, so callers should fall back to the heuristic estimator when
// this fails.
func NewTiktokenEstimator() (*TiktokenEstimator, error) {
	enc, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		return nil, fmt.Errorf("loading cl100k_base encoding: %w", err)
	}
	return &TiktokenEstimator{enc: enc}, nil
}

// Count returns the exact cl100k_base token count of text.
func (e *TiktokenEstimator) Count(text string) int {
	return len(e.enc.Encode(text, nil, nil))
}
