// ABOUTME: Tests for budget-constrained chunk selection
// ABOUTME: Verifies budget respect, ordering determinism, and the non-empty policy
package core

import (
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/aimi9933/llmprox/internal/models"
)

func testWeights() Weights {
	return Weights{Similarity: 0.6, Proximity: 0.25, Recency: 0.15}
}

func makeChunk(id, content string, startLine, endLine, tokens int) models.Chunk {
	return models.Chunk{
		ID:         id,
		FilePath:   "test.py",
		StartLine:  startLine,
		EndLine:    endLine,
		Content:    content,
		TokenCount: tokens,
	}
}

func TestSelector_EmptyPool(t *testing.T) {
	s := NewSelector(NewLexicalScorer(), testWeights())

	got := s.Select(nil, models.Query{Code: "x"}, nil, 100, 5)
	if got != nil {
		t.Errorf("Select(empty pool) = %d chunks, want none", len(got))
	}
}

func TestSelector_ZeroBudget(t *testing.T) {
	s := NewSelector(NewLexicalScorer(), testWeights())
	chunks := []models.Chunk{makeChunk("c1", "code", 1, 2, 10)}

	got := s.Select(chunks, models.Query{Code: "code"}, nil, 0, 5)
	if got != nil {
		t.Errorf("Select(budget=0) = %d chunks, want none", len(got))
	}
}

func TestSelector_BudgetRespected(t *testing.T) {
	s := NewSelector(NewLexicalScorer(), testWeights())

	var chunks []models.Chunk
	for i := 0; i < 10; i++ {
		chunks = append(chunks, makeChunk(fmt.Sprintf("c%02d", i), fmt.Sprintf("content number %d", i), i*3+1, i*3+3, 30))
	}

	got := s.Select(chunks, models.Query{Code: "content"}, nil, 100, 10)
	total := 0
	for _, chunk := range got {
		total += chunk.TokenCount
	}
	if total > 100 {
		t.Errorf("selected total = %d tokens, want <= 100", total)
	}
	if len(got) != 3 {
		t.Errorf("selected %d chunks, want 3 under the budget", len(got))
	}
}

func TestSelector_MaxChunksRespected(t *testing.T) {
	s := NewSelector(NewLexicalScorer(), testWeights())

	var chunks []models.Chunk
	for i := 0; i < 10; i++ {
		chunks = append(chunks, makeChunk(fmt.Sprintf("c%02d", i), "same content", i+1, i+1, 5))
	}

	got := s.Select(chunks, models.Query{Code: "same content"}, nil, 1000, 4)
	if len(got) != 4 {
		t.Errorf("selected %d chunks, want max_chunks limit of 4", len(got))
	}
}

func TestSelector_SmallestWhenNothingFits(t *testing.T) {
	s := NewSelector(NewLexicalScorer(), testWeights())

	chunks := []models.Chunk{
		makeChunk("c1", "big chunk one", 1, 10, 500),
		makeChunk("c2", "smaller chunk", 11, 14, 200),
		makeChunk("c3", "big chunk two", 15, 25, 400),
	}

	got := s.Select(chunks, models.Query{Code: "chunk"}, nil, 50, 5)
	if len(got) != 1 {
		t.Fatalf("selected %d chunks, want exactly 1", len(got))
	}
	if got[0].ID != "c2" {
		t.Errorf("selected %s, want the smallest chunk c2", got[0].ID)
	}
}

func TestSelector_Deterministic(t *testing.T) {
	s := NewSelector(NewLexicalScorer(), testWeights())

	var chunks []models.Chunk
	for i := 0; i < 20; i++ {
		chunks = append(chunks, makeChunk(fmt.Sprintf("c%02d", i), "identical text everywhere", i+1, i+1, 7))
	}
	query := models.Query{Code: "identical text", FilePath: "test.py", CursorLine: 5}

	first := s.Select(chunks, query, nil, 50, 6)
	for i := 0; i < 5; i++ {
		if got := s.Select(chunks, query, nil, 50, 6); !reflect.DeepEqual(got, first) {
			t.Fatal("Select() order differs across identical calls")
		}
	}
}

func TestSelector_ProximityBreaksTies(t *testing.T) {
	s := NewSelector(NewLexicalScorer(), Weights{Similarity: 0, Proximity: 1, Recency: 0})

	chunks := []models.Chunk{
		makeChunk("far", "same", 100, 110, 5),
		makeChunk("near", "same", 9, 12, 5),
		makeChunk("inside", "same", 1, 6, 5),
	}
	query := models.Query{Code: "same", FilePath: "test.py", CursorLine: 3}

	got := s.Select(chunks, query, nil, 1000, 3)
	if len(got) != 3 {
		t.Fatalf("selected %d chunks, want 3", len(got))
	}
	wantOrder := []string{"inside", "near", "far"}
	for i, want := range wantOrder {
		if got[i].ID != want {
			t.Errorf("position %d = %s, want %s", i, got[i].ID, want)
		}
	}
}

func TestSelector_RecencyBoostsReferencedChunks(t *testing.T) {
	s := NewSelector(NewLexicalScorer(), Weights{Similarity: 0, Proximity: 0, Recency: 1})

	chunks := []models.Chunk{
		makeChunk("aa", "same", 1, 2, 5),
		makeChunk("bb", "same", 3, 4, 5),
	}
	turns := []models.Turn{
		{TurnID: "t1", Role: models.RoleUser, Content: "q", Timestamp: time.Now(), ContextChunkIDs: []string{"bb"}},
	}

	got := s.Select(chunks, models.Query{Code: "same"}, turns, 1000, 2)
	if got[0].ID != "bb" {
		t.Errorf("first selected = %s, want recently used chunk bb", got[0].ID)
	}
}

func TestSelector_IDBreaksFinalTies(t *testing.T) {
	s := NewSelector(NewLexicalScorer(), testWeights())

	chunks := []models.Chunk{
		makeChunk("zz", "text", 1, 1, 5),
		makeChunk("aa", "text", 1, 1, 5),
	}

	got := s.Select(chunks, models.Query{Code: "text"}, nil, 1000, 2)
	if got[0].ID != "aa" {
		t.Errorf("first selected = %s, want aa by ascending id", got[0].ID)
	}
}
