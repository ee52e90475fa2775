package drop

import (
	"path/filepath"
	"slices"
	"strings"
)

// DefaultSelector lists the document languages that accept drops.
var DefaultSelector = []string{"markdown", "plaintext"}

// LanguageForPath guesses a language identifier from a document's extension.
func LanguageForPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown", ".mdown", ".mkd":
		return "markdown"
	case ".txt", ".text":
		return "plaintext"
	default:
		return ""
	}
}

// matchSelector reports whether languageID is in selector. An empty selector
// matches everything.
func matchSelector(selector []string, languageID string) bool {
	if len(selector) == 0 {
		return true
	}
	return slices.Contains(selector, languageID)
}
