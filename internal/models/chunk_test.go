// ABOUTME: Tests for Chunk id derivation and retrieval text
package models

import "testing"

func TestChunkID_Stable(t *testing.T) {
	a := ChunkID("file.py", 1, 5, "content")
	b := ChunkID("file.py", 1, 5, "content")
	if a != b {
		t.Errorf("ids differ for identical input: %s vs %s", a, b)
	}
}

func TestChunkID_SensitiveToInput(t *testing.T) {
	base := ChunkID("file.py", 1, 5, "content")

	if ChunkID("other.py", 1, 5, "content") == base {
		t.Error("id unchanged for different file path")
	}
	if ChunkID("file.py", 2, 5, "content") == base {
		t.Error("id unchanged for different line range")
	}
	if ChunkID("file.py", 1, 5, "edited") == base {
		t.Error("id unchanged for different content")
	}
}

func TestChunk_RetrievalText(t *testing.T) {
	c := Chunk{Content: "core"}
	if c.RetrievalText() != "core" {
		t.Errorf("RetrievalText() = %q, want core content only", c.RetrievalText())
	}

	c.Overlap = "tail of previous"
	if c.RetrievalText() != "tail of previous\ncore" {
		t.Errorf("RetrievalText() = %q, want overlap prefix", c.RetrievalText())
	}
}

func TestDetectLanguage(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"main.py", "python"},
		{"app.tsx", "typescript"},
		{"server.go", "go"},
		{"Widget.java", "java"},
		{"notes.txt", ""},
		{"Makefile", ""},
	}

	for _, tt := range tests {
		if got := DetectLanguage(tt.path); got != tt.want {
			t.Errorf("DetectLanguage(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}
