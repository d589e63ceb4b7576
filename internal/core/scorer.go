// ABOUTME: Scorer computes content similarity between chunks and queries
// ABOUTME: Lexical cosine similarity by default, embedding-backed variant available
package core

import (
	"math"
	"strings"
	"sync"
	"unicode"
)

// Scorer measures how similar two pieces of text are. Implementations must be
// symmetric and reflexive: Similarity(x, x) == 1. The Selector only depends
// on this interface, so swapping in an embedding model changes no selection
// logic.
type Scorer interface {
	Similarity(a, b string) float64
}

// LexicalScorer scores texts by cosine similarity over normalized term
// frequency vectors. Pure and deterministic.
type LexicalScorer struct{}

// NewLexicalScorer returns the default scorer.
func NewLexicalScorer() *LexicalScorer {
	return &LexicalScorer{}
}

// Similarity returns a score in [0, 1].
func (s *LexicalScorer) Similarity(a, b string) float64 {
	if a == b {
		return 1.0
	}

	ta := termFrequencies(a)
	tb := termFrequencies(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0.0
	}

	var dot, normA, normB float64
	for term, fa := range ta {
		normA += fa * fa
		if fb, ok := tb[term]; ok {
			dot += fa * fb
		}
	}
	for _, fb := range tb {
		normB += fb * fb
	}

	if normA == 0 || normB == 0 {
		return 0.0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// termFrequencies lowercases text and counts identifier-style terms, with
// camelCase words split into their parts.
func termFrequencies(text string) map[string]float64 {
	freq := make(map[string]float64)
	var word strings.Builder

	flush := func() {
		if word.Len() >= 2 {
			freq[strings.ToLower(word.String())]++
		}
		word.Reset()
	}

	var prev rune
	for _, r := range text {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			// Break camelCase transitions into separate terms.
			if unicode.IsUpper(r) && unicode.IsLower(prev) {
				flush()
			}
			word.WriteRune(r)
		default:
			flush()
		}
		prev = r
	}
	flush()

	return freq
}

// Embedder produces embedding vectors for text. Satisfied by the OpenAI
// client in internal/llm.
type Embedder interface {
	GenerateEmbedding(text string) ([]float64, error)
}

// EmbeddingScorer scores texts by cosine similarity of embedding vectors,
// caching embeddings per text. On embedding failure it falls back to lexical
// scoring so selection stays total.
type EmbeddingScorer struct {
	embedder Embedder
	fallback *LexicalScorer

	mu    sync.RWMutex
	cache map[string][]float64
}

// NewEmbeddingScorer creates a scorer backed by an embedding client.
func NewEmbeddingScorer(embedder Embedder) *EmbeddingScorer {
	return &EmbeddingScorer{
		embedder: embedder,
		fallback: NewLexicalScorer(),
		cache:    make(map[string][]float64),
	}
}

// Similarity returns cosine similarity of the two texts' embeddings mapped
// into [0, 1].
func (s *EmbeddingScorer) Similarity(a, b string) float64 {
	if a == b {
		return 1.0
	}

	va, errA := s.embedding(a)
	vb, errB := s.embedding(b)
	if errA != nil || errB != nil {
		return s.fallback.Similarity(a, b)
	}

	// Cosine similarity lands in [-1, 1]; clamp the negative half to zero
	// to keep the documented [0, 1] range.
	sim := cosineSimilarity(va, vb)
	if sim < 0 {
		return 0.0
	}
	return sim
}

func (s *EmbeddingScorer) embedding(text string) ([]float64, error) {
	s.mu.RLock()
	vec, ok := s.cache[text]
	s.mu.RUnlock()
	if ok {
		return vec, nil
	}

	vec, err := s.embedder.GenerateEmbedding(text)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.cache[text] = vec
	s.mu.Unlock()
	return vec, nil
}

// cosineSimilarity calculates cosine similarity between two vectors
func cosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) {
		return 0.0
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0.0
	}

	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
}
