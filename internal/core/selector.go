// ABOUTME: Selector picks and orders chunks under a token budget
// ABOUTME: Greedy best-first by composite relevance score with deterministic tie-breaks
package core

import (
	"sort"

	"github.com/aimi9933/llmprox/internal/models"
)

// Weights configures the composite relevance score.
type Weights struct {
	Similarity float64
	Proximity  float64
	Recency    float64
}

// Selector ranks a chunk pool against a query and returns the best subset
// that fits a token budget. Results are fully deterministic for identical
// input: ties break by cursor proximity, then ascending chunk id.
type Selector struct {
	scorer  Scorer
	weights Weights
}

// NewSelector creates a Selector with the given scorer and weights.
func NewSelector(scorer Scorer, weights Weights) *Selector {
	return &Selector{scorer: scorer, weights: weights}
}

// scoredChunk pairs a chunk with its composite score and cursor distance.
type scoredChunk struct {
	chunk    models.Chunk
	score    float64
	distance int
}

// Select returns up to maxChunks chunks whose summed token counts stay within
// budget, ordered by descending relevance. With a non-empty pool and positive
// budget the result is never empty: when nothing fits, the smallest single
// chunk is returned even though it exceeds the budget, so callers always get
// some context. A zero or negative budget or empty pool yields nil.
func (s *Selector) Select(chunks []models.Chunk, query models.Query, recentTurns []models.Turn, budget, maxChunks int) []models.Chunk {
	if len(chunks) == 0 || budget <= 0 {
		return nil
	}
	if maxChunks <= 0 {
		maxChunks = len(chunks)
	}

	queryText := query.Text()
	recency := recencyScores(recentTurns)

	scored := make([]scoredChunk, 0, len(chunks))
	for _, chunk := range chunks {
		sc := scoredChunk{
			chunk:    chunk,
			distance: cursorDistance(chunk, query),
		}
		sc.score = s.weights.Similarity*s.scorer.Similarity(chunk.RetrievalText(), queryText) +
			s.weights.Proximity*proximity(sc.distance) +
			s.weights.Recency*recency[chunk.ID]
		scored = append(scored, sc)
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].score != scored[j].score {
			return scored[i].score > scored[j].score
		}
		if scored[i].distance != scored[j].distance {
			return scored[i].distance < scored[j].distance
		}
		return scored[i].chunk.ID < scored[j].chunk.ID
	})

	var selected []models.Chunk
	total := 0
	for _, sc := range scored {
		if len(selected) >= maxChunks {
			break
		}
		if total+sc.chunk.TokenCount > budget {
			continue
		}
		selected = append(selected, sc.chunk)
		total += sc.chunk.TokenCount
	}

	if len(selected) > 0 {
		return selected
	}

	// Nothing fits: return the single smallest chunk even over budget.
	smallest := chunks[0]
	for _, chunk := range chunks[1:] {
		if chunk.TokenCount < smallest.TokenCount ||
			(chunk.TokenCount == smallest.TokenCount && chunk.ID < smallest.ID) {
			smallest = chunk
		}
	}
	return []models.Chunk{smallest}
}

// cursorDistance returns the line distance from the query cursor to the
// chunk's span, 0 when the cursor is inside the span. Chunks from other files
// or queries without a cursor report a distance past any real file.
func cursorDistance(chunk models.Chunk, query models.Query) int {
	const farAway = 1 << 20

	if query.CursorLine <= 0 {
		return farAway
	}
	if query.FilePath != "" && chunk.FilePath != query.FilePath {
		return farAway
	}
	if query.CursorLine < chunk.StartLine {
		return chunk.StartLine - query.CursorLine
	}
	if query.CursorLine > chunk.EndLine {
		return query.CursorLine - chunk.EndLine
	}
	return 0
}

// proximity maps a line distance to a score in (0, 1], closer is higher.
func proximity(distance int) float64 {
	return 1.0 / (1.0 + float64(distance))
}

// recencyScores maps chunk ids referenced by recent turns to a score in
// (0, 1], newest turn highest. Turns are ordered oldest first.
func recencyScores(turns []models.Turn) map[string]float64 {
	scores := make(map[string]float64)
	n := len(turns)
	for i, turn := range turns {
		weight := float64(i+1) / float64(n)
		for _, id := range turn.ContextChunkIDs {
			if weight > scores[id] {
				scores[id] = weight
			}
		}
	}
	return scores
}
