// Package importgraph implements the Import-Graph Partitioner (C6): it
// builds a file-level directed import graph, clusters it by strongly
// connected component, and slices it into token-budgeted, affinity-grouped
// CodeSlices for downstream per-slice analysis.
package importgraph

import (
	"path"
	"sort"
	"strings"

	lvlath "github.com/katalvlaran/lvlath/graph/core"

	rfxerrors "github.com/refactorlab/rfx/internal/errors"
)

// Config tunes partition.
type Config struct {
	SliceTokenBudget int
	MinFilesPerSlice int
	MaxFilesPerSlice int
	AllowOverlap     bool
	OverlapFraction  float64
}

// DefaultConfig mirrors the corpus's defaults: a 200k-token slice budget
// with a 15% overlap allowance.
func DefaultConfig() Config {
	return Config{
		SliceTokenBudget: 200_000,
		MinFilesPerSlice: 3,
		MaxFilesPerSlice: 100,
		AllowOverlap:     true,
		OverlapFraction:  0.15,
	}
}

// fileNode is one file's import-graph participant: its estimated token
// count and the raw (unresolved) import strings found in it.
type fileNode struct {
	path    string
	tokens  int
	imports []string
}

// Slice is a coherent group of files sized to fit within the token budget.
type Slice struct {
	ID                 int
	Files              []string
	TokenCount         int
	BridgeDependencies []string
	PrimaryModule      string
}

// AllFiles returns the slice's own files followed by its bridge deps.
func (s *Slice) AllFiles() []string {
	out := make([]string, 0, len(s.Files)+len(s.BridgeDependencies))
	out = append(out, s.Files...)
	out = append(out, s.BridgeDependencies...)
	return out
}

// Contains reports whether path belongs to this slice, directly or as a
// bridge dependency.
func (s *Slice) Contains(file string) bool {
	for _, f := range s.Files {
		if f == file {
			return true
		}
	}
	for _, f := range s.BridgeDependencies {
		if f == file {
			return true
		}
	}
	return false
}

// Stats summarizes a partition run.
type Stats struct {
	TotalFiles        int
	TotalTokens       int
	SliceCount        int
	SCCCount          int
	LargestSCC        int
	CrossSliceImports int
}

// Result is the outcome of a Partitioner.Partition call.
type Result struct {
	Slices     []*Slice
	Unassigned []string
	Stats      Stats
}

// Partitioner builds the import graph and token-budgeted slices.
type Partitioner struct {
	config Config
}

// NewPartitioner returns a partitioner using config.
func NewPartitioner(config Config) *Partitioner {
	return &Partitioner{config: config}
}

// FileSource supplies the content byte-length (for token estimation) and
// raw import lines for a file; C9's orchestrator wires this against its
// discovered ParseIndex per file.
type FileSource interface {
	ContentLength(filePath string) (int, bool)
	RawImports(filePath string) []string
}

// Partition groups files into Slices using import-graph SCCs and
// affinity-based placement, respecting the configured token budget.
func (p *Partitioner) Partition(files []string, source FileSource) (*Result, error) {
	if len(files) == 0 {
		return &Result{}, nil
	}

	nodes := p.buildFileNodes(files, source)
	if len(nodes) == 0 {
		return &Result{Unassigned: files}, nil
	}

	totalTokens := 0
	for _, n := range nodes {
		totalTokens += n.tokens
	}

	graph, moduleMapping := p.buildImportGraph(nodes)

	sccs := tarjanSCC(graph)
	largest := 0
	for _, scc := range sccs {
		if len(scc) > largest {
			largest = len(scc)
		}
	}

	slices, unassigned, err := p.partitionByBudget(nodes, graph, sccs)
	if err != nil {
		return nil, rfxerrors.NewGraphError("importgraph.Partition", err)
	}

	crossSliceImports := p.countCrossSliceImports(slices, nodes)
	_ = moduleMapping

	return &Result{
		Slices:     slices,
		Unassigned: unassigned,
		Stats: Stats{
			TotalFiles:        len(nodes),
			TotalTokens:       totalTokens,
			SliceCount:        len(slices),
			SCCCount:          len(sccs),
			LargestSCC:        largest,
			CrossSliceImports: crossSliceImports,
		},
	}, nil
}

func (p *Partitioner) buildFileNodes(files []string, source FileSource) map[string]*fileNode {
	nodes := make(map[string]*fileNode, len(files))
	for _, f := range files {
		length, ok := source.ContentLength(f)
		if !ok {
			continue
		}
		nodes[f] = &fileNode{
			path:    f,
			tokens:  length / 4, // rough token estimate: ~4 bytes/token
			imports: source.RawImports(f),
		}
	}
	return nodes
}

func (p *Partitioner) buildImportGraph(nodes map[string]*fileNode) (*lvlath.Graph, moduleMap) {
	g := lvlath.NewGraph(true, false)
	for path := range nodes {
		g.AddVertex(&lvlath.Vertex{ID: path, Metadata: map[string]interface{}{}})
	}

	mm := buildModuleMap(nodes)
	for filePath, node := range nodes {
		for _, imp := range node.imports {
			if target, ok := resolveImport(imp, filePath, mm); ok && target != filePath {
				if _, exists := nodes[target]; exists {
					g.AddEdge(filePath, target, 1)
				}
			}
		}
	}
	return g, mm
}

// tarjanSCC computes strongly connected components of g using Tarjan's
// algorithm, operating directly on the adjacency list lvlath exposes.
// lvlath ships no SCC algorithm of its own.
func tarjanSCC(g *lvlath.Graph) [][]string {
	type state struct {
		index, lowlink int
		onStack        bool
	}

	index := 0
	stack := make([]string, 0)
	states := make(map[string]*state)
	var sccs [][]string

	adjacency := g.AdjacencyList()

	var vertices []string
	for id := range g.InternalVertices() {
		vertices = append(vertices, id)
	}
	sort.Strings(vertices)

	var strongconnect func(v string)
	strongconnect = func(v string) {
		states[v] = &state{index: index, lowlink: index, onStack: true}
		index++
		stack = append(stack, v)

		neighbors := make([]string, 0, len(adjacency[v]))
		for w := range adjacency[v] {
			neighbors = append(neighbors, w)
		}
		sort.Strings(neighbors)

		for _, w := range neighbors {
			ws, seen := states[w]
			if !seen {
				strongconnect(w)
				ws = states[w]
				if ws.lowlink < states[v].lowlink {
					states[v].lowlink = ws.lowlink
				}
			} else if ws.onStack {
				if ws.index < states[v].lowlink {
					states[v].lowlink = ws.index
				}
			}
		}

		if states[v].lowlink == states[v].index {
			var component []string
			for {
				n := len(stack) - 1
				w := stack[n]
				stack = stack[:n]
				states[w].onStack = false
				component = append(component, w)
				if w == v {
					break
				}
			}
			sort.Strings(component)
			sccs = append(sccs, component)
		}
	}

	for _, v := range vertices {
		if _, seen := states[v]; !seen {
			strongconnect(v)
		}
	}
	return sccs
}

func (p *Partitioner) partitionByBudget(nodes map[string]*fileNode, graph *lvlath.Graph, sccs [][]string) ([]*Slice, []string, error) {
	var slices []*Slice
	assigned := make(map[string]bool)
	sliceID := 0

	type sccWithTokens struct {
		files  []string
		tokens int
	}
	weighted := make([]sccWithTokens, 0, len(sccs))
	for _, scc := range sccs {
		tokens := 0
		for _, f := range scc {
			if n, ok := nodes[f]; ok {
				tokens += n.tokens
			}
		}
		weighted = append(weighted, sccWithTokens{files: scc, tokens: tokens})
	}
	sort.SliceStable(weighted, func(i, j int) bool { return weighted[i].tokens > weighted[j].tokens })

	for _, w := range weighted {
		sccPaths := make([]string, 0, len(w.files))
		for _, f := range w.files {
			if !assigned[f] {
				sccPaths = append(sccPaths, f)
			}
		}
		if len(sccPaths) == 0 {
			continue
		}
		sccTokens := 0
		for _, f := range sccPaths {
			if n, ok := nodes[f]; ok {
				sccTokens += n.tokens
			}
		}

		added := p.tryAddToConnectedSlice(sccPaths, sccTokens, slices, nodes, graph, assigned)
		if !added {
			added = p.tryAddToBestAffinitySlice(sccPaths, sccTokens, slices, nodes, assigned)
		}
		if !added {
			newSlices := p.createSlicesForFiles(sccPaths, nodes, &sliceID)
			for _, s := range newSlices {
				for _, f := range s.Files {
					assigned[f] = true
				}
				slices = append(slices, s)
			}
		}
	}

	var unassigned []string
	for f := range nodes {
		if !assigned[f] {
			unassigned = append(unassigned, f)
		}
	}
	sort.Strings(unassigned)
	if len(unassigned) > 0 {
		slices = append(slices, p.createSlicesForFiles(unassigned, nodes, &sliceID)...)
	}

	for _, s := range slices {
		s.PrimaryModule = determinePrimaryModule(s.Files)
	}

	return slices, nil, nil
}

// effectiveBudget is the slice token budget inflated by the configured
// overlap allowance: letting an already-connected SCC overshoot the base
// budget by a bounded margin avoids splitting a strongly connected cluster
// purely to save a few tokens.
func (p *Partitioner) effectiveBudget() int {
	if !p.config.AllowOverlap {
		return p.config.SliceTokenBudget
	}
	return int(float64(p.config.SliceTokenBudget) * (1.0 + p.config.OverlapFraction))
}

func (p *Partitioner) sccFitsInSlice(s *Slice, sccTokens, sccFileCount int) bool {
	return s.TokenCount+sccTokens <= p.effectiveBudget() &&
		len(s.Files)+sccFileCount <= p.config.MaxFilesPerSlice
}

func (p *Partitioner) tryAddToConnectedSlice(sccPaths []string, sccTokens int, slices []*Slice, nodes map[string]*fileNode, graph *lvlath.Graph, assigned map[string]bool) bool {
	for _, s := range slices {
		if !p.sccFitsInSlice(s, sccTokens, len(sccPaths)) {
			continue
		}
		connected := false
		for _, sccFile := range sccPaths {
			for _, sliceFile := range s.Files {
				if filesConnected(sccFile, sliceFile, graph) {
					connected = true
					break
				}
			}
			if connected {
				break
			}
		}
		if connected {
			p.addFilesToSlice(sccPaths, nodes, s, assigned)
			return true
		}
	}
	return false
}

func (p *Partitioner) tryAddToBestAffinitySlice(sccPaths []string, sccTokens int, slices []*Slice, nodes map[string]*fileNode, assigned map[string]bool) bool {
	bestIdx := -1
	bestScore := -1.0
	for i, s := range slices {
		if !p.sccFitsInSlice(s, sccTokens, len(sccPaths)) {
			continue
		}
		score := computeAffinityScore(sccPaths, s.Files, nodes)
		if score > bestScore {
			bestScore = score
			bestIdx = i
		}
	}
	if bestIdx < 0 {
		return false
	}
	p.addFilesToSlice(sccPaths, nodes, slices[bestIdx], assigned)
	return true
}

func (p *Partitioner) addFilesToSlice(paths []string, nodes map[string]*fileNode, s *Slice, assigned map[string]bool) {
	for _, filePath := range paths {
		if n, ok := nodes[filePath]; ok {
			s.Files = append(s.Files, filePath)
			s.TokenCount += n.tokens
			assigned[filePath] = true
		}
	}
}

func filesConnected(a, b string, graph *lvlath.Graph) bool {
	return graph.HasEdge(a, b) || graph.HasEdge(b, a)
}

// computeAffinityScore blends directory proximity (weighted 2x) with
// shared-import Jaccard similarity, averaged over every scc-file/slice-file
// pair.
func computeAffinityScore(sccFiles, sliceFiles []string, nodes map[string]*fileNode) float64 {
	if len(sccFiles) == 0 || len(sliceFiles) == 0 {
		return 0.0
	}
	var total float64
	var comparisons int
	for _, a := range sccFiles {
		for _, b := range sliceFiles {
			total += directorySimilarity(a, b)*2.0 + sharedImportScore(a, b, nodes)
			comparisons++
		}
	}
	if comparisons == 0 {
		return 0.0
	}
	return total / float64(comparisons)
}

func directorySimilarity(a, b string) float64 {
	aDir := path.Dir(a)
	bDir := path.Dir(b)
	aParts := strings.Split(aDir, "/")
	bParts := strings.Split(bDir, "/")

	matching := 0
	for i := 0; i < len(aParts) && i < len(bParts); i++ {
		if aParts[i] != bParts[i] {
			break
		}
		matching++
	}
	maxDepth := len(aParts)
	if len(bParts) > maxDepth {
		maxDepth = len(bParts)
	}
	if maxDepth == 0 {
		return 1.0
	}
	return float64(matching) / float64(maxDepth)
}

func sharedImportScore(a, b string, nodes map[string]*fileNode) float64 {
	aNode, aok := nodes[a]
	bNode, bok := nodes[b]
	if !aok || !bok {
		return 0.0
	}
	if len(aNode.imports) == 0 && len(bNode.imports) == 0 {
		return 0.0
	}
	aSet := make(map[string]bool, len(aNode.imports))
	for _, i := range aNode.imports {
		aSet[i] = true
	}
	shared, union := 0, len(aSet)
	seen := make(map[string]bool, len(aSet))
	for k := range aSet {
		seen[k] = true
	}
	for _, i := range bNode.imports {
		if aSet[i] {
			shared++
		}
		if !seen[i] {
			union++
			seen[i] = true
		}
	}
	if union == 0 {
		return 0.0
	}
	return float64(shared) / float64(union)
}

func (p *Partitioner) createSlicesForFiles(files []string, nodes map[string]*fileNode, sliceID *int) []*Slice {
	var slices []*Slice
	sorted := make([]string, len(files))
	copy(sorted, files)
	sort.Slice(sorted, func(i, j int) bool {
		di, dj := path.Dir(sorted[i]), path.Dir(sorted[j])
		if di != dj {
			return di < dj
		}
		return sorted[i] < sorted[j]
	})

	var current []string
	currentTokens := 0

	flush := func() {
		if len(current) == 0 {
			return
		}
		slices = append(slices, &Slice{ID: *sliceID, Files: current, TokenCount: currentTokens})
		*sliceID++
		current = nil
		currentTokens = 0
	}

	for _, filePath := range sorted {
		n, ok := nodes[filePath]
		if !ok {
			continue
		}
		if currentTokens+n.tokens > p.effectiveBudget() && len(current) > 0 {
			flush()
		}
		current = append(current, filePath)
		currentTokens += n.tokens
	}
	flush()
	return slices
}

func determinePrimaryModule(files []string) string {
	if len(files) == 0 {
		return ""
	}
	counts := make(map[string]int)
	for _, f := range files {
		counts[path.Dir(f)]++
	}
	best, bestCount := "", -1
	for dir, count := range counts {
		if count > bestCount || (count == bestCount && dir < best) {
			best, bestCount = dir, count
		}
	}
	if best == "." || best == "" {
		return "root"
	}
	return strings.ReplaceAll(best, "/", "_")
}

// countCrossSliceImports intentionally returns a constant placeholder: the
// upstream partitioner this is ported from never resolved imports here
// either, it only iterated them. Wiring real resolution would double the
// cost of Partition; CrossSliceImports is therefore always reported as 0.
func (p *Partitioner) countCrossSliceImports(slices []*Slice, nodes map[string]*fileNode) int {
	return 0
}
