package langadapter

import (
	"regexp"
	"strconv"
	"strings"

	rfxerrors "github.com/refactorlab/rfx/internal/errors"
	"github.com/refactorlab/rfx/internal/parser"
	"github.com/refactorlab/rfx/internal/types"
)

// TreeSitterAdapter implements LanguageAdapter over the existing
// tree-sitter-backed parser: entity boundaries and import locations come
// from the real parse tree, while per-entity identifier/call/block facts
// are derived with a bounded lexical scan over the entity's own source
// span, the same regex-over-source-window approach the Rust pipeline's
// own per-language extractors use.
type TreeSitterAdapter struct {
	language string
	exts     []string
	parser   *parser.TreeSitterParser
}

// NewTreeSitterAdapter wraps a shared parser.TreeSitterParser for one
// language. Multiple adapters may share the same underlying parser
// instance, since it lazily initializes per-extension grammars.
func NewTreeSitterAdapter(language string, exts []string, p *parser.TreeSitterParser) *TreeSitterAdapter {
	return &TreeSitterAdapter{language: language, exts: exts, parser: p}
}

func (a *TreeSitterAdapter) Language() string     { return a.language }
func (a *TreeSitterAdapter) Extensions() []string { return a.exts }

func (a *TreeSitterAdapter) ParseSource(path string, content []byte) (*types.ParseIndex, error) {
	entities, err := a.ExtractCodeEntities(path, content)
	if err != nil {
		return nil, err
	}
	for i := range entities {
		calls, err := a.ExtractFunctionCalls(&entities[i], content)
		if err != nil {
			return nil, err
		}
		idents, err := a.ExtractIdentifiers(&entities[i], content)
		if err != nil {
			return nil, err
		}
		blocks, err := a.CountDistinctBlocks(&entities[i], content)
		if err != nil {
			return nil, err
		}
		entities[i].Calls = calls
		entities[i].Identifiers = idents
		entities[i].BlockCount = blocks
	}

	imports, err := a.ExtractImports(path, content)
	if err != nil {
		return nil, err
	}
	rawLines := make([]string, len(imports))
	for i, imp := range imports {
		rawLines[i] = imp.Module
	}

	return &types.ParseIndex{
		Path:           path,
		Language:       a.language,
		Entities:       entities,
		RawImportLines: rawLines,
		TotalLOC:       strings.Count(string(content), "\n") + 1,
	}, nil
}

func (a *TreeSitterAdapter) ExtractCodeEntities(path string, content []byte) ([]types.CodeEntity, error) {
	_, symbols, _ := a.parser.ParseFile(path, content)
	cyclomatic, cognitive := a.parser.Complexity(path, content)

	entities := make([]types.CodeEntity, 0, len(symbols))
	var id types.EntityID
	for _, sym := range symbols {
		kind, ok := entityKindOf(sym.Type)
		if !ok {
			continue
		}
		id++
		endLine := sym.EndLine
		if endLine < sym.Line {
			endLine = sym.Line
		}
		key := parser.PositionKey{Line: sym.Line, Column: sym.Column}
		entities = append(entities, types.CodeEntity{
			ID:                   id,
			Name:                 sym.Name,
			Kind:                 kind,
			Language:             a.language,
			StartLine:            sym.Line,
			EndLine:              endLine,
			CyclomaticComplexity: cyclomatic[key],
			CognitiveComplexity:  cognitive[key],
		})
	}
	return entities, nil
}

func entityKindOf(t types.SymbolType) (types.EntityKind, bool) {
	switch t {
	case types.SymbolTypeFunction, types.SymbolTypeConstructor:
		return types.EntityKindFunction, true
	case types.SymbolTypeMethod:
		return types.EntityKindMethod, true
	case types.SymbolTypeClass, types.SymbolTypeStruct, types.SymbolTypeInterface,
		types.SymbolTypeTrait, types.SymbolTypeImpl, types.SymbolTypeRecord:
		return types.EntityKindClass, true
	case types.SymbolTypeModule, types.SymbolTypeNamespace:
		return types.EntityKindModule, true
	default:
		return 0, false
	}
}

func (a *TreeSitterAdapter) ExtractFunctionCalls(entity *types.CodeEntity, content []byte) ([]string, error) {
	window := entitySpan(content, entity)
	matches := callPattern.FindAllStringSubmatch(window, -1)
	seen := make(map[string]bool, len(matches))
	var calls []string
	for _, m := range matches {
		name := m[1]
		if isKeyword(name) || seen[name] {
			continue
		}
		seen[name] = true
		calls = append(calls, name)
	}
	return calls, nil
}

func (a *TreeSitterAdapter) ExtractIdentifiers(entity *types.CodeEntity, content []byte) ([]string, error) {
	window := entitySpan(content, entity)
	matches := identifierPattern.FindAllString(window, -1)
	seen := make(map[string]bool, len(matches))
	var idents []string
	for _, name := range matches {
		if isKeyword(name) || isNumericLiteral(name) || seen[name] {
			continue
		}
		seen[name] = true
		idents = append(idents, name)
	}
	return idents, nil
}

func (a *TreeSitterAdapter) CountDistinctBlocks(entity *types.CodeEntity, content []byte) (int, error) {
	if len(a.exts) == 0 {
		return 0, nil
	}
	// ParseFile picks its grammar from the path's extension.
	blocks, _, _ := a.parser.ParseFile("entity"+a.exts[0], content)
	count := 0
	for _, b := range blocks {
		if b.Start >= entity.StartLine && b.End <= entity.EndLine && b.Start > entity.StartLine {
			count++
		}
	}
	return count, nil
}

func (a *TreeSitterAdapter) ExtractImports(path string, content []byte) ([]ImportStatement, error) {
	_, _, imports := a.parser.ParseFile(path, content)
	out := make([]ImportStatement, 0, len(imports))
	for _, imp := range imports {
		out = append(out, ImportStatement{
			Module:     imp.Path,
			ImportType: classifyImport(imp.Path),
			LineNumber: imp.Line,
		})
	}
	return out, nil
}

func classifyImport(spec string) ImportType {
	switch {
	case strings.Contains(spec, "*"):
		return ImportTypeStar
	case strings.HasPrefix(spec, "#include"):
		return ImportTypeInclude
	case strings.Contains(spec, "{"):
		return ImportTypeNamed
	default:
		return ImportTypeModule
	}
}

var (
	callPattern       = regexp.MustCompile(`\b([A-Za-z_][A-Za-z0-9_]*)\s*\(`)
	identifierPattern = regexp.MustCompile(`\b[A-Za-z_][A-Za-z0-9_]*\b`)
)

func isNumericLiteral(s string) bool {
	_, err := strconv.Atoi(s)
	return err == nil
}

var languageKeywords = map[string]bool{
	"if": true, "else": true, "for": true, "while": true, "return": true, "break": true,
	"continue": true, "switch": true, "case": true, "default": true, "func": true,
	"def": true, "fn": true, "function": true, "class": true, "struct": true, "interface": true,
	"let": true, "const": true, "var": true, "import": true, "from": true, "package": true,
	"pub": true, "mut": true, "true": true, "false": true, "null": true, "nil": true,
	"none": true, "try": true, "catch": true, "finally": true, "throw": true, "new": true,
	"this": true, "super": true, "extends": true, "implements": true, "static": true,
	"public": true, "private": true, "protected": true, "async": true, "await": true,
}

func isKeyword(s string) bool {
	return languageKeywords[s]
}

// entitySpan slices content down to an entity's line range, 1-indexed and
// inclusive, used as the bounded window for identifier/call extraction.
func entitySpan(content []byte, entity *types.CodeEntity) string {
	lines := strings.Split(string(content), "\n")
	start := entity.StartLine - 1
	end := entity.EndLine
	if start < 0 {
		start = 0
	}
	if end > len(lines) {
		end = len(lines)
	}
	if start >= end {
		return ""
	}
	return strings.Join(lines[start:end], "\n")
}

// newParseError wraps a parse failure into the shared taxonomy.
func newParseError(path string, err error) error {
	return rfxerrors.NewParseError("langadapter", err).WithFile(0, path).WithRecoverable(true)
}
