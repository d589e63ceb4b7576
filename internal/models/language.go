// ABOUTME: Language detection from file extensions
// ABOUTME: Covers the source types the proxy accepts from the IDE
package models

import (
	"path/filepath"
	"strings"
)

// extensionLanguages maps file extensions to language tags the chunker knows.
var extensionLanguages = map[string]string{
	".py":   "python",
	".js":   "javascript",
	".jsx":  "javascript",
	".ts":   "typescript",
	".tsx":  "typescript",
	".go":   "go",
	".java": "java",
	".c":    "c",
	".h":    "c",
	".cpp":  "cpp",
	".hpp":  "cpp",
	".cs":   "csharp",
	".rs":   "rust",
	".rb":   "ruby",
	".php":  "php",
}

// DetectLanguage returns the language tag for a file path, or "" when the
// extension is not recognized. Callers treat "" as the generic fallback.
func DetectLanguage(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	return extensionLanguages[ext]
}
