package importgraph

import (
	"path"
	"strings"
)

// moduleMap maps every module-path spelling a file could plausibly be
// imported by to the relative file path that defines it. Built once per
// partition run; resolveImport tries progressively shorter prefixes
// against it.
type moduleMap map[string]string

// buildModuleMap registers, for each file, every import-spelling variant
// the supported languages use: dotted module paths (Python), relative
// paths (JS/TS), directory-as-package (Go), and the bare file stem as a
// last resort.
func buildModuleMap(nodes map[string]*fileNode) moduleMap {
	m := make(moduleMap)

	register := func(key, filePath string) {
		if key == "" {
			return
		}
		if _, exists := m[key]; !exists {
			m[key] = filePath
		}
	}

	for filePath := range nodes {
		withoutExt := stripExtension(filePath)
		dotModule := strings.ReplaceAll(withoutExt, "/", ".")
		register(dotModule, filePath)

		if stem := path.Base(withoutExt); stem != "" && stem != "mod" && stem != "index" && stem != "__init__" {
			register(stem, filePath)
		}

		switch {
		case strings.HasSuffix(filePath, ".py"):
			register(strings.TrimSuffix(dotModule, ".__init__"), filePath)
		case strings.HasSuffix(filePath, ".ts") || strings.HasSuffix(filePath, ".tsx") ||
			strings.HasSuffix(filePath, ".js") || strings.HasSuffix(filePath, ".jsx"):
			noSrc := strings.TrimPrefix(withoutExt, "src/")
			register("./"+noSrc, filePath)
			register("../"+path.Base(noSrc), filePath)
		case strings.HasSuffix(filePath, ".go"):
			register(path.Dir(filePath), filePath)
		case strings.HasSuffix(filePath, ".rs"):
			register("crate::"+strings.ReplaceAll(withoutExt, "/", "::"), filePath)
			register("crate."+dotModule, filePath)
			if path.Base(filePath) == "mod.rs" {
				parent := path.Dir(filePath)
				register(strings.ReplaceAll(parent, "/", "::"), filePath)
				register(strings.ReplaceAll(parent, "/", "."), filePath)
			}
		}
	}
	return m
}

// Resolver is the exported form of moduleMap: C6 builds it for partitioning,
// and C7/C8 reuse the exact same resolution rules when building their own
// intra-directory or intra-file dependency graphs.
type Resolver struct {
	registry moduleMap
}

// ImportSource supplies the raw import strings found in each file, keyed by
// path, so NewResolver can build its registry without depending on any
// particular file-discovery mechanism.
type ImportSource func(filePath string) []string

// NewResolver builds a Resolver's registry from files and their raw imports.
func NewResolver(files []string, imports ImportSource) *Resolver {
	nodes := make(map[string]*fileNode, len(files))
	for _, f := range files {
		var raw []string
		if imports != nil {
			raw = imports(f)
		}
		nodes[f] = &fileNode{path: f, imports: raw}
	}
	return &Resolver{registry: buildModuleMap(nodes)}
}

// Resolve maps a raw import string seen inside fromFile to one of the known
// file paths, per the same prefix-fallback cascade C6 uses.
func (r *Resolver) Resolve(imp, fromFile string) (string, bool) {
	return resolveImport(imp, fromFile, r.registry)
}

func stripExtension(p string) string {
	for _, ext := range []string{".rs", ".py", ".js", ".ts", ".tsx", ".jsx", ".go", ".java", ".php"} {
		if strings.HasSuffix(p, ext) {
			return strings.TrimSuffix(p, ext)
		}
	}
	return p
}

// resolveImport tries to map a raw import string, seen inside fromFile, to
// one of the known file paths in m. Tries an exact match, then a
// separator-normalized match, then progressively shorter dotted prefixes,
// then finally the last path component alone.
func resolveImport(imp string, fromFile string, m moduleMap) (string, bool) {
	normalized := imp
	switch {
	case strings.HasPrefix(imp, "super::"):
		parent := path.Dir(path.Dir(fromFile))
		rest := strings.TrimPrefix(imp, "super::")
		normalized = strings.ReplaceAll(parent, "/", "::") + "::" + rest
	case strings.HasPrefix(imp, "self::"):
		parent := path.Dir(fromFile)
		rest := strings.TrimPrefix(imp, "self::")
		normalized = strings.ReplaceAll(parent, "/", "::") + "::" + rest
	}

	normalized = strings.ReplaceAll(normalized, "::", ".")
	normalized = strings.ReplaceAll(normalized, "/", ".")
	normalized = strings.TrimLeft(normalized, ".")

	if p, ok := m[normalized]; ok {
		return p, true
	}
	rustStyle := strings.ReplaceAll(normalized, ".", "::")
	if p, ok := m[rustStyle]; ok {
		return p, true
	}

	parts := strings.Split(normalized, ".")
	for end := len(parts); end >= 1; end-- {
		prefix := strings.Join(parts[:end], ".")
		if p, ok := m[prefix]; ok {
			return p, true
		}
		rustPrefix := strings.Join(parts[:end], "::")
		if p, ok := m[rustPrefix]; ok {
			return p, true
		}
	}

	if last := parts[len(parts)-1]; last != "" {
		if p, ok := m[last]; ok {
			return p, true
		}
	}

	return "", false
}
