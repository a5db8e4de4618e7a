// Package langadapter defines the per-language parsing contract every
// analysis component (C1 through C9) builds on, and a registry for
// dispatching by file extension.
package langadapter

import (
	"github.com/refactorlab/rfx/internal/types"
)

// ImportType classifies how a module was brought into scope.
type ImportType string

const (
	ImportTypeModule  ImportType = "module"
	ImportTypeNamed   ImportType = "named"
	ImportTypeStar    ImportType = "star"
	ImportTypeInclude ImportType = "include"
)

// ImportStatement is one raw import/include line, before C6 resolves it to
// a file path.
type ImportStatement struct {
	Module     string
	Imports    []string
	ImportType ImportType
	LineNumber int
}

// LanguageAdapter is the contract every supported language must satisfy:
// parse a file into entities, and expose the raw facts (calls, identifiers,
// blocks, imports) every downstream component reads off each entity.
type LanguageAdapter interface {
	// Language returns the adapter's canonical language name (e.g. "go").
	Language() string
	// Extensions lists the file extensions this adapter claims.
	Extensions() []string
	// ParseSource parses one file into a ParseIndex: its entities and raw
	// import lines.
	ParseSource(path string, content []byte) (*types.ParseIndex, error)
	// ExtractCodeEntities returns the functions/methods/classes found in
	// content, without populating their Identifiers/Calls/BlockCount
	// (ParseSource does the full population; this is exposed separately so
	// callers can re-derive facts for an entity found elsewhere, e.g. after
	// a file-split plan regroups entities).
	ExtractCodeEntities(path string, content []byte) ([]types.CodeEntity, error)
	// ExtractFunctionCalls returns the distinct call targets referenced
	// within an entity's line span.
	ExtractFunctionCalls(entity *types.CodeEntity, content []byte) ([]string, error)
	// ExtractIdentifiers returns the distinct non-keyword identifiers
	// referenced within an entity's line span.
	ExtractIdentifiers(entity *types.CodeEntity, content []byte) ([]string, error)
	// CountDistinctBlocks counts the declaration blocks (nested functions,
	// methods, classes, etc.) that start after an entity's first line and
	// end within its span. Branches and loops are not counted.
	CountDistinctBlocks(entity *types.CodeEntity, content []byte) (int, error)
	// ExtractImports returns every import/include statement in the file.
	ExtractImports(path string, content []byte) ([]ImportStatement, error)
}

// Registry dispatches to a LanguageAdapter by file extension.
type Registry struct {
	byExt map[string]LanguageAdapter
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{byExt: make(map[string]LanguageAdapter)}
}

// Register claims every extension the adapter reports for itself.
func (r *Registry) Register(a LanguageAdapter) {
	for _, ext := range a.Extensions() {
		r.byExt[ext] = a
	}
}

// For returns the adapter registered for ext, if any.
func (r *Registry) For(ext string) (LanguageAdapter, bool) {
	a, ok := r.byExt[ext]
	return a, ok
}

// Extensions lists every extension with a registered adapter.
func (r *Registry) Extensions() []string {
	exts := make([]string, 0, len(r.byExt))
	for ext := range r.byExt {
		exts = append(exts, ext)
	}
	return exts
}
