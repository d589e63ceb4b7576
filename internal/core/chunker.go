// ABOUTME: Chunker splits source files into bounded, semantically coherent chunks
// ABOUTME: Prefers structural boundaries, then blank lines, then dedents, then raw lines
package core

import (
	"regexp"
	"strings"

	"github.com/aimi9933/llmprox/internal/models"
	"github.com/aimi9933/llmprox/internal/token"
)

// boundaryPattern recognizes a structural break. When symbolGroup is positive
// the capture group at that index names the declared symbol.
type boundaryPattern struct {
	re          *regexp.Regexp
	symbolGroup int
}

// languageBoundaries maps language tags to their structural break patterns.
// Languages without an entry fall back to blank-line segmentation.
var languageBoundaries = map[string][]boundaryPattern{
	"python": {
		{re: regexp.MustCompile(`^\s*(?:async\s+def|def|class)\s+(\w+)`), symbolGroup: 1},
		{re: regexp.MustCompile(`^\s*@\w+`)},
	},
	"javascript": {
		{re: regexp.MustCompile(`^\s*(?:export\s+)?(?:default\s+)?(?:async\s+)?(?:function|class)\s+(\w+)`), symbolGroup: 1},
		{re: regexp.MustCompile(`^\s*(?:export\s+)?(?:const|let|var)\s+(\w+)\s*=`), symbolGroup: 1},
	},
	"go": {
		{re: regexp.MustCompile(`^func\s+(?:\([^)]*\)\s+)?(\w+)`), symbolGroup: 1},
		{re: regexp.MustCompile(`^type\s+(\w+)`), symbolGroup: 1},
		{re: regexp.MustCompile(`^(?:var|const)\s+`)},
	},
	"java": {
		{re: regexp.MustCompile(`^\s*(?:public|protected|private)?\s*(?:static\s+)?(?:final\s+)?(?:class|interface|enum)\s+(\w+)`), symbolGroup: 1},
		{re: regexp.MustCompile(`^\s*(?:public|protected|private)\s+[\w<>\[\],\s]+\s(\w+)\s*\(`), symbolGroup: 1},
	},
	"rust": {
		{re: regexp.MustCompile(`^\s*(?:pub\s+)?(?:async\s+)?fn\s+(\w+)`), symbolGroup: 1},
		{re: regexp.MustCompile(`^\s*(?:pub\s+)?(?:struct|enum|trait|impl)\s+(\w+)`), symbolGroup: 1},
	},
}

// typescript shares the javascript patterns.
func init() {
	languageBoundaries["typescript"] = languageBoundaries["javascript"]
}

// Chunker converts source text into an ordered sequence of chunks whose token
// estimates stay at or below the configured maximum. Chunking is
// deterministic: identical input and parameters produce identical output.
type Chunker struct {
	estimator    token.Estimator
	maxChunkSize int
	overlapRatio float64
}

// NewChunker creates a Chunker with the given size and overlap parameters.
func NewChunker(estimator token.Estimator, maxChunkSize int, overlapRatio float64) *Chunker {
	return &Chunker{
		estimator:    estimator,
		maxChunkSize: maxChunkSize,
		overlapRatio: overlapRatio,
	}
}

// Chunk splits source into ordered chunks. An empty file yields nil. A single
// line exceeding the size cap is emitted as one oversized chunk rather than
// recursing forever. Unknown languages use the generic blank-line splitter.
func (c *Chunker) Chunk(source, filePath, language string) []models.Chunk {
	if source == "" {
		return nil
	}

	lines := splitLines(source)
	patterns := languageBoundaries[language]

	boundaries := c.findBoundaries(lines, patterns)

	var spans [][2]int
	for i := 0; i < len(boundaries)-1; i++ {
		spans = append(spans, c.boundSpans(lines, boundaries[i], boundaries[i+1])...)
	}

	chunks := make([]models.Chunk, 0, len(spans))
	for _, span := range spans {
		chunks = append(chunks, c.buildChunk(lines, span[0], span[1], filePath, language, patterns))
	}

	c.addOverlap(chunks)
	return chunks
}

// findBoundaries returns sorted segment boundaries including 0 and len(lines).
// Structural languages break at declaration lines; the generic fallback
// breaks where a non-blank line follows a blank one.
func (c *Chunker) findBoundaries(lines []string, patterns []boundaryPattern) []int {
	boundaries := []int{0}

	if len(patterns) > 0 {
		for i, line := range lines {
			if i == 0 {
				continue
			}
			for _, p := range patterns {
				if p.re.MatchString(line) {
					boundaries = append(boundaries, i)
					break
				}
			}
		}
	} else {
		for i := 1; i < len(lines); i++ {
			if strings.TrimSpace(lines[i]) != "" && strings.TrimSpace(lines[i-1]) == "" {
				boundaries = append(boundaries, i)
			}
		}
	}

	boundaries = append(boundaries, len(lines))
	return dedupeSorted(boundaries)
}

// boundSpans recursively splits [lo, hi) until every span fits the token cap.
// Weaker boundaries are tried in order: blank line, dedent, raw midpoint.
func (c *Chunker) boundSpans(lines []string, lo, hi int) [][2]int {
	content := strings.Join(lines[lo:hi], "\n")
	if c.estimator.Count(content) <= c.maxChunkSize || hi-lo <= 1 {
		return [][2]int{{lo, hi}}
	}

	cut := c.chooseCut(lines, lo, hi)
	spans := c.boundSpans(lines, lo, cut)
	return append(spans, c.boundSpans(lines, cut, hi)...)
}

// chooseCut picks a split index strictly inside (lo, hi), preferring the
// candidate nearest the middle of the span.
func (c *Chunker) chooseCut(lines []string, lo, hi int) int {
	if cut := nearestCut(blankCuts(lines, lo, hi), lo, hi); cut > 0 {
		return cut
	}
	if cut := nearestCut(dedentCuts(lines, lo, hi), lo, hi); cut > 0 {
		return cut
	}
	return lo + (hi-lo)/2
}

// blankCuts returns indexes where a non-blank line follows a blank line, so
// the blank separator stays with the preceding span.
func blankCuts(lines []string, lo, hi int) []int {
	var cuts []int
	for i := lo + 1; i < hi; i++ {
		if strings.TrimSpace(lines[i]) != "" && strings.TrimSpace(lines[i-1]) == "" {
			cuts = append(cuts, i)
		}
	}
	return cuts
}

// dedentCuts returns indexes of non-blank lines at the minimum indentation of
// the span, which approximate statement boundaries inside a block.
func dedentCuts(lines []string, lo, hi int) []int {
	minIndent := -1
	for i := lo; i < hi; i++ {
		if strings.TrimSpace(lines[i]) == "" {
			continue
		}
		ind := indentWidth(lines[i])
		if minIndent < 0 || ind < minIndent {
			minIndent = ind
		}
	}
	if minIndent < 0 {
		return nil
	}

	var cuts []int
	for i := lo + 1; i < hi; i++ {
		if strings.TrimSpace(lines[i]) != "" && indentWidth(lines[i]) == minIndent {
			cuts = append(cuts, i)
		}
	}
	return cuts
}

// nearestCut picks the candidate closest to the span midpoint, lower index on
// ties. Returns 0 when there are no candidates.
func nearestCut(cuts []int, lo, hi int) int {
	mid := lo + (hi-lo)/2
	best := 0
	bestDist := hi - lo
	for _, cut := range cuts {
		dist := cut - mid
		if dist < 0 {
			dist = -dist
		}
		if best == 0 || dist < bestDist {
			best = cut
			bestDist = dist
		}
	}
	return best
}

// buildChunk assembles a chunk for lines[lo:hi] with a content-derived id.
func (c *Chunker) buildChunk(lines []string, lo, hi int, filePath, language string, patterns []boundaryPattern) models.Chunk {
	content := strings.Join(lines[lo:hi], "\n")
	tokenCount := c.estimator.Count(content)

	meta := models.ChunkMetadata{
		LineCount: hi - lo,
		CharCount: len(content),
		Oversized: tokenCount > c.maxChunkSize,
		Symbols:   extractSymbols(lines[lo:hi], patterns),
	}

	return models.Chunk{
		ID:         models.ChunkID(filePath, lo+1, hi, content),
		FilePath:   filePath,
		StartLine:  lo + 1,
		EndLine:    hi,
		Language:   language,
		Content:    content,
		TokenCount: tokenCount,
		Metadata:   meta,
	}
}

// addOverlap copies trailing lines of each chunk into the next chunk's
// Overlap field, bounded by overlapRatio * maxChunkSize tokens. The core
// spans stay untouched so concatenation still reconstructs the file.
func (c *Chunker) addOverlap(chunks []models.Chunk) {
	overlapBudget := int(c.overlapRatio * float64(c.maxChunkSize))
	if overlapBudget <= 0 {
		return
	}

	for i := 1; i < len(chunks); i++ {
		prevLines := strings.Split(chunks[i-1].Content, "\n")
		// At least the last line of the previous chunk, then as many more as
		// fit the overlap budget.
		overlap := prevLines[len(prevLines)-1:]
		for j := len(prevLines) - 2; j >= 0; j-- {
			candidate := strings.Join(prevLines[j:], "\n")
			if c.estimator.Count(candidate) > overlapBudget {
				break
			}
			overlap = prevLines[j:]
		}
		chunks[i].Overlap = strings.Join(overlap, "\n")
	}
}

// extractSymbols collects declared names matched by the language's boundary
// patterns within a span.
func extractSymbols(lines []string, patterns []boundaryPattern) []string {
	var symbols []string
	for _, line := range lines {
		for _, p := range patterns {
			if p.symbolGroup == 0 {
				continue
			}
			if m := p.re.FindStringSubmatch(line); m != nil && m[p.symbolGroup] != "" {
				symbols = append(symbols, m[p.symbolGroup])
				break
			}
		}
	}
	return symbols
}

// splitLines normalizes line endings and drops the empty trailing element a
// final newline produces, so line math stays 1-based and inclusive.
func splitLines(source string) []string {
	norm := strings.ReplaceAll(source, "\r\n", "\n")
	lines := strings.Split(norm, "\n")
	if len(lines) > 1 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

func indentWidth(line string) int {
	width := 0
	for _, r := range line {
		switch r {
		case ' ':
			width++
		case '\t':
			width += 4
		default:
			return width
		}
	}
	return width
}

func dedupeSorted(values []int) []int {
	out := values[:1]
	for _, v := range values[1:] {
		if v != out[len(out)-1] {
			out = append(out, v)
		}
	}
	return out
}
