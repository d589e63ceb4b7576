// ABOUTME: Per-file chunk cache keyed by path and validated by content checksum
// ABOUTME: Safe for concurrent readers; recompute uses locked replace
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"

	"github.com/aimi9933/llmprox/internal/models"
)

// ChunkCache memoizes chunking results per file path. Source text stays the
// ground truth: entries are only valid while the stored checksum matches the
// current content, so edits invalidate naturally.
type ChunkCache struct {
	mu    sync.RWMutex
	files map[string]*entry
}

type entry struct {
	checksum string
	chunks   []models.Chunk
}

// NewChunkCache creates an empty cache.
func NewChunkCache() *ChunkCache {
	return &ChunkCache{files: make(map[string]*entry)}
}

// Get returns the cached chunks for path when source still matches the cached
// checksum. The returned slice is a copy; callers may not reach cached state.
func (c *ChunkCache) Get(path, source string) ([]models.Chunk, bool) {
	c.mu.RLock()
	e, ok := c.files[path]
	c.mu.RUnlock()
	if !ok || e.checksum != checksum(source) {
		return nil, false
	}
	return append([]models.Chunk(nil), e.chunks...), true
}

// Put stores the chunks computed for source at path, replacing any previous
// entry wholesale.
func (c *ChunkCache) Put(path, source string, chunks []models.Chunk) {
	e := &entry{
		checksum: checksum(source),
		chunks:   append([]models.Chunk(nil), chunks...),
	}
	c.mu.Lock()
	c.files[path] = e
	c.mu.Unlock()
}

// Invalidate drops the entry for path, if any.
func (c *ChunkCache) Invalidate(path string) {
	c.mu.Lock()
	delete(c.files, path)
	c.mu.Unlock()
}

// Len returns the number of cached files.
func (c *ChunkCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.files)
}

func checksum(source string) string {
	sum := sha256.Sum256([]byte(source))
	return hex.EncodeToString(sum[:])
}
