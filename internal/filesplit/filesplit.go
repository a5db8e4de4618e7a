// Package filesplit implements the File-Split Planner (C8): for files that
// have grown too large, it groups their entities into cohesive clusters by
// shared-identifier Jaccard similarity and proposes named split files.
package filesplit

import (
	"sort"
	"strings"

	"github.com/refactorlab/rfx/internal/types"
)

// Config tunes the huge-file gate and split-community thresholds.
type Config struct {
	HugeLOC              int
	HugeBytes            int
	MinEntitiesPerSplit  int
	CohesionEdgeFloor    float64
	CommunityStopWeight  float64
	MaxSplitGroups       int
}

func DefaultConfig() Config {
	return Config{
		HugeLOC:             1000,
		HugeBytes:           50_000,
		MinEntitiesPerSplit: 2,
		CohesionEdgeFloor:   0.1,
		CommunityStopWeight: 0.2,
		MaxSplitGroups:      3,
	}
}

// NeedsSplit reports whether a file exceeds the huge-file gate.
func (cfg Config) NeedsSplit(loc, bytes int) bool {
	return loc > cfg.HugeLOC || bytes > cfg.HugeBytes
}

// SuggestedSplit is one proposed output file.
type SuggestedSplit struct {
	Name     string
	Entities []string
	LOC      int
}

// SplitPack is the planner's full proposal for one file.
type SplitPack struct {
	File            string
	Reasons         []string
	SuggestedSplits []SuggestedSplit
	Value           float64
	Effort          Effort
}

// Effort estimates the blast radius of actually performing the split.
type Effort struct {
	Exports          int
	ExternalImporters int
}

type cohesionEdge struct {
	a, b       int
	similarity float64
}

// Plan builds the cohesion graph for entities, detects communities, and
// emits a SplitPack for every file over the huge-file gate. Only communities
// at or above MinEntitiesPerSplit become SuggestedSplits; a file with no such
// community still gets a pack, with no SuggestedSplits.
func Plan(cfg Config, filePath string, entities []types.CodeEntity, fileLOC, fileBytes int, exports, externalImporters int) *SplitPack {
	if !cfg.NeedsSplit(fileLOC, fileBytes) {
		return nil
	}

	symbolSets := make([]map[string]bool, len(entities))
	for i, e := range entities {
		symbolSets[i] = identifierSet(e)
	}

	var edges []cohesionEdge
	for i := 0; i < len(entities); i++ {
		for j := i + 1; j < len(entities); j++ {
			sim := jaccard(symbolSets[i], symbolSets[j])
			if sim > cfg.CohesionEdgeFloor {
				edges = append(edges, cohesionEdge{a: i, b: j, similarity: sim})
			}
		}
	}
	sort.SliceStable(edges, func(i, j int) bool { return edges[i].similarity > edges[j].similarity })

	communities := detectCommunities(edges, len(entities), cfg.CommunityStopWeight)

	var kept [][]int
	for _, c := range communities {
		if len(c) >= cfg.MinEntitiesPerSplit {
			kept = append(kept, c)
		}
	}
	if len(kept) > cfg.MaxSplitGroups {
		kept = kept[:cfg.MaxSplitGroups]
	}

	reasons := []string{}
	if fileLOC > cfg.HugeLOC {
		reasons = append(reasons, "exceeds_huge_loc")
	}
	if fileBytes > cfg.HugeBytes {
		reasons = append(reasons, "exceeds_huge_bytes")
	}

	baseName, ext := splitExt(filePath)
	var splits []SuggestedSplit
	for _, members := range kept {
		var names []string
		total := 0
		for _, idx := range members {
			names = append(names, entities[idx].Name)
			total += entities[idx].LineCount()
		}
		suffix := dominantSuffix(names)
		splits = append(splits, SuggestedSplit{
			Name:     baseName + suffix + ext,
			Entities: names,
			LOC:      total,
		})
	}

	sizeFactor := float64(fileLOC) / float64(cfg.HugeLOC)
	if sizeFactor > 1.0 {
		sizeFactor = 1.0
	}
	value := 0.6 * sizeFactor // size term only; Value includes no cycle or clone factor.

	return &SplitPack{
		File:            filePath,
		Reasons:         reasons,
		SuggestedSplits: splits,
		Value:           value,
		Effort:          Effort{Exports: exports, ExternalImporters: externalImporters},
	}
}

// detectCommunities greedily assigns nodes to communities by processing
// edges in decreasing similarity order and stopping below stopWeight; a
// node joins the first community either of its edge endpoints already
// belongs to. Remaining nodes become singleton communities, which the
// caller filters by MinEntitiesPerSplit.
func detectCommunities(edges []cohesionEdge, nodeCount int, stopWeight float64) [][]int {
	community := make([]int, nodeCount)
	for i := range community {
		community[i] = -1
	}
	var communities [][]int

	assign := func(node, comm int) {
		community[node] = comm
		communities[comm] = append(communities[comm], node)
	}

	for _, e := range edges {
		if e.similarity < stopWeight {
			break
		}
		ca, cb := community[e.a], community[e.b]
		switch {
		case ca == -1 && cb == -1:
			communities = append(communities, nil)
			idx := len(communities) - 1
			assign(e.a, idx)
			assign(e.b, idx)
		case ca != -1 && cb == -1:
			assign(e.b, ca)
		case ca == -1 && cb != -1:
			assign(e.a, cb)
		default:
			// Both already assigned; original keeps them separate rather
			// than merging communities.
		}
	}

	for i := 0; i < nodeCount; i++ {
		if community[i] == -1 {
			communities = append(communities, []int{i})
		}
	}
	return communities
}

// identifierSet extracts the entity's referenced-identifier multiset as a
// set, excluding language keywords (self is intentionally kept, since it
// often signals meaningful coupling to instance state).
func identifierSet(e types.CodeEntity) map[string]bool {
	set := make(map[string]bool, len(e.Identifiers)+len(e.Calls))
	for _, id := range e.Identifiers {
		if id == "self" || !isKeyword(id) {
			set[id] = true
		}
	}
	for _, c := range e.Calls {
		if c == "self" || !isKeyword(c) {
			set[c] = true
		}
	}
	return set
}

var keywords = map[string]bool{
	"if": true, "else": true, "for": true, "while": true, "return": true,
	"def": true, "fn": true, "function": true, "class": true, "struct": true,
	"let": true, "const": true, "var": true, "import": true, "from": true,
	"pub": true, "mut": true, "true": true, "false": true, "null": true,
	"nil": true, "none": true,
}

func isKeyword(s string) bool {
	return keywords[strings.ToLower(s)]
}

func jaccard(a, b map[string]bool) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0.0
	}
	shared := 0
	for k := range a {
		if b[k] {
			shared++
		}
	}
	union := len(a) + len(b) - shared
	if union == 0 {
		return 0.0
	}
	return float64(shared) / float64(union)
}

func splitExt(filePath string) (base, ext string) {
	slash := strings.LastIndexByte(filePath, '/')
	name := filePath
	if slash >= 0 {
		name = filePath[slash+1:]
	}
	dot := strings.LastIndexByte(name, '.')
	if dot < 0 {
		return filePath, ""
	}
	return filePath[:len(filePath)-(len(name)-dot)], name[dot:]
}

var ioTerms = []string{"read", "write", "load", "save", "file", "io"}
var apiTerms = []string{"api", "endpoint", "route", "handle", "controller"}
var utilTerms = []string{"util", "helper", "tool"}

// dominantSuffix classifies a community's entity names into io/api/util/
// core buckets and returns the suffix for whichever bucket has the most
// matches, defaulting to _core.
func dominantSuffix(names []string) string {
	var io, api, util, core int
	for _, name := range names {
		lower := strings.ToLower(name)
		switch {
		case containsAny(lower, ioTerms):
			io++
		case containsAny(lower, apiTerms):
			api++
		case containsAny(lower, utilTerms):
			util++
		default:
			core++
		}
	}
	switch {
	case io > api && io > core && io > util:
		return "_io"
	case api > core && api > util:
		return "_api"
	case util > core:
		return "_util"
	default:
		return "_core"
	}
}

func containsAny(s string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}
