// Package analyzer reads language stub files with tree-sitter and derives
// catalog function records from the signatures it finds.
package analyzer

import (
	"path/filepath"
	"strings"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

// extToLanguage maps stub file extensions to canonical language names.
var extToLanguage = map[string]string{
	".py":  "python",
	".pyi": "python",
}

// langToGrammar is lazily initialized on first call via sync.Once.
var (
	langToGrammar map[string]*sitter.Language
	grammarsOnce  sync.Once
)

func initGrammars() {
	grammarsOnce.Do(func() {
		langToGrammar = map[string]*sitter.Language{
			"python": python.GetLanguage(),
		}
	})
}

// LanguageForFile returns the canonical language name for a stub path based
// on its extension. Returns ("", false) if the extension is not recognized.
func LanguageForFile(path string) (string, bool) {
	lang, ok := extToLanguage[strings.ToLower(filepath.Ext(path))]
	return lang, ok
}

// GrammarFor returns the tree-sitter Language for a canonical language name.
func GrammarFor(lang string) (*sitter.Language, bool) {
	initGrammars()
	l, ok := langToGrammar[strings.ToLower(lang)]
	return l, ok
}
