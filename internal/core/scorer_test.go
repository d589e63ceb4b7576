// ABOUTME: Tests for lexical and embedding-backed similarity scoring
// ABOUTME: Verifies reflexivity, symmetry, range, and embedding fallback
package core

import (
	"errors"
	"math"
	"testing"
)

func TestLexicalScorer_Reflexive(t *testing.T) {
	s := NewLexicalScorer()

	texts := []string{
		"",
		"func main() {}",
		"def compute_total(items):\n    return sum(items)",
	}
	for _, text := range texts {
		if got := s.Similarity(text, text); got != 1.0 {
			t.Errorf("Similarity(x, x) = %f for %q, want 1.0", got, text)
		}
	}
}

func TestLexicalScorer_Symmetric(t *testing.T) {
	s := NewLexicalScorer()

	a := "parse the configuration file"
	b := "config file parser with validation"
	if ab, ba := s.Similarity(a, b), s.Similarity(b, a); ab != ba {
		t.Errorf("Similarity(a, b) = %f but Similarity(b, a) = %f", ab, ba)
	}
}

func TestLexicalScorer_Range(t *testing.T) {
	s := NewLexicalScorer()

	pairs := [][2]string{
		{"alpha beta gamma", "alpha beta delta"},
		{"totally unrelated words", "nothing in common here"},
		{"x", "y"},
	}
	for _, p := range pairs {
		got := s.Similarity(p[0], p[1])
		if got < 0 || got > 1 {
			t.Errorf("Similarity(%q, %q) = %f, want [0, 1]", p[0], p[1], got)
		}
	}
}

func TestLexicalScorer_DisjointIsZero(t *testing.T) {
	s := NewLexicalScorer()

	if got := s.Similarity("apple banana", "window curtain"); got != 0 {
		t.Errorf("Similarity of disjoint texts = %f, want 0", got)
	}
}

func TestLexicalScorer_SharedTermsScoreHigher(t *testing.T) {
	s := NewLexicalScorer()

	query := "load the session store"
	related := "func NewStore() creates the session store"
	unrelated := "regex boundary pattern matching"

	if s.Similarity(query, related) <= s.Similarity(query, unrelated) {
		t.Error("related text did not outscore unrelated text")
	}
}

// fakeEmbedder returns fixed vectors per text for testing.
type fakeEmbedder struct {
	vectors map[string][]float64
	calls   int
}

func (f *fakeEmbedder) GenerateEmbedding(text string) ([]float64, error) {
	f.calls++
	vec, ok := f.vectors[text]
	if !ok {
		return nil, errors.New("no vector")
	}
	return vec, nil
}

func TestEmbeddingScorer_CosineOfVectors(t *testing.T) {
	emb := &fakeEmbedder{vectors: map[string][]float64{
		"a": {1, 0},
		"b": {0.6, 0.8},
	}}
	s := NewEmbeddingScorer(emb)

	got := s.Similarity("a", "b")
	if math.Abs(got-0.6) > 1e-9 {
		t.Errorf("Similarity = %f, want 0.6", got)
	}
}

func TestEmbeddingScorer_CachesEmbeddings(t *testing.T) {
	emb := &fakeEmbedder{vectors: map[string][]float64{
		"a": {1, 0},
		"b": {0, 1},
	}}
	s := NewEmbeddingScorer(emb)

	s.Similarity("a", "b")
	s.Similarity("a", "b")
	if emb.calls != 2 {
		t.Errorf("embedder called %d times, want 2 (one per distinct text)", emb.calls)
	}
}

func TestEmbeddingScorer_FallsBackOnError(t *testing.T) {
	emb := &fakeEmbedder{vectors: map[string][]float64{}}
	s := NewEmbeddingScorer(emb)

	// Both embeddings fail; lexical fallback still sees the shared terms.
	got := s.Similarity("shared words here", "shared words there")
	if got <= 0 {
		t.Errorf("fallback Similarity = %f, want positive", got)
	}
}

func TestEmbeddingScorer_ClampsNegative(t *testing.T) {
	emb := &fakeEmbedder{vectors: map[string][]float64{
		"a": {1, 0},
		"b": {-1, 0},
	}}
	s := NewEmbeddingScorer(emb)

	if got := s.Similarity("a", "b"); got != 0 {
		t.Errorf("Similarity of opposed vectors = %f, want 0", got)
	}
}
