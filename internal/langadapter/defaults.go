package langadapter

import (
	"github.com/refactorlab/rfx/internal/parser"
)

// languageExtensions mirrors the extension groups NewTreeSitterParser
// registers to lazily initialize grammars.
var languageExtensions = map[string][]string{
	"javascript": {".js", ".jsx"},
	"typescript": {".ts", ".tsx"},
	"go":         {".go"},
	"python":     {".py"},
	"rust":       {".rs"},
	"java":       {".java"},
	"cpp":        {".cpp", ".cc", ".cxx", ".c", ".h", ".hpp"},
	"csharp":     {".cs"},
	"zig":        {".zig"},
	"php":        {".php", ".phtml"},
}

// NewDefaultRegistry builds a Registry covering every language the shared
// tree-sitter parser supports, all backed by one TreeSitterParser instance
// (its grammars initialize lazily per extension on first use).
func NewDefaultRegistry() *Registry {
	shared := parser.NewTreeSitterParser()
	reg := NewRegistry()
	for lang, exts := range languageExtensions {
		reg.Register(NewTreeSitterAdapter(lang, exts, shared))
	}
	return reg
}
