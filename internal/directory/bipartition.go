package directory

import (
	"path"
	"sort"
	"strconv"
	"strings"

	lvlath "github.com/katalvlaran/lvlath/graph/core"

	"github.com/refactorlab/rfx/internal/importgraph"
)

// Partition is one cluster of a bipartitioned directory.
type Partition struct {
	Name  string
	Files []string
}

// ReorgPlan is the emitted reorganization proposal for one directory.
type ReorgPlan struct {
	DirectoryPath    string
	Partitions       []Partition
	CutSize          int
	FilesMoved       int
	ImportUpdatesEst int
}

// FileImports supplies the raw import strings per file, the same shape C6's
// resolver expects.
type FileImports func(filePath string) []string

// Bipartition builds the intra-directory dependency graph (via the same
// resolver C6 uses), picks a target cluster count, and runs a deterministic
// multi-pass balanced partition to reduce cross-cluster cut size.
func Bipartition(cfg Config, dirPath string, files []string, imports FileImports) *ReorgPlan {
	if len(files) == 0 {
		return &ReorgPlan{DirectoryPath: dirPath}
	}

	resolver := importgraph.NewResolver(files, importgraph.ImportSource(imports))
	g := lvlath.NewGraph(true, false)
	fileSet := make(map[string]bool, len(files))
	for _, f := range files {
		fileSet[f] = true
		g.AddVertex(&lvlath.Vertex{ID: f, Metadata: map[string]interface{}{}})
	}
	for _, f := range files {
		for _, imp := range imports(f) {
			if target, ok := resolver.Resolve(imp, f); ok && fileSet[target] && target != f {
				g.AddEdge(f, target, 1)
			}
		}
	}

	k := targetClusterCount(cfg, len(files))
	assignment := balancedPartition(files, g, k, cfg.BalanceTolerance)

	groups := make(map[int][]string)
	for file, cluster := range assignment {
		groups[cluster] = append(groups[cluster], file)
	}

	var partitions []Partition
	usedNames := make(map[string]bool)
	clusterIDs := make([]int, 0, len(groups))
	for id := range groups {
		clusterIDs = append(clusterIDs, id)
	}
	sort.Ints(clusterIDs)
	for idx, id := range clusterIDs {
		members := groups[id]
		sort.Strings(members)
		name := canonicalPartitionName(members, cfg.NameList, idx, usedNames)
		usedNames[name] = true
		partitions = append(partitions, Partition{Name: name, Files: members})
	}

	cut := cutSize(g, assignment)
	return &ReorgPlan{
		DirectoryPath:    dirPath,
		Partitions:       partitions,
		CutSize:          cut,
		FilesMoved:       len(files),
		ImportUpdatesEst: 2 * len(files),
	}
}

// targetClusterCount picks k within [MinClusters, MaxClusters], scaling
// roughly with sqrt(files) so small directories don't over-split.
func targetClusterCount(cfg Config, files int) int {
	k := 2
	for k*k < files {
		k++
	}
	if k < cfg.MinClusters {
		k = cfg.MinClusters
	}
	if k > cfg.MaxClusters {
		k = cfg.MaxClusters
	}
	if k > files {
		k = files
	}
	if k < 1 {
		k = 1
	}
	return k
}

// balancedPartition seeds k clusters by farthest-first traversal over node
// degree (highest-degree node first, then the node least connected to
// already-seeded clusters), then repeatedly reassigns boundary nodes to the
// neighboring cluster that reduces cut size, subject to a balance
// constraint. Deterministic given the input file order: all iteration is
// over the sorted file slice, never a map.
func balancedPartition(files []string, g *lvlath.Graph, k int, tolerance float64) map[string]int {
	sorted := make([]string, len(files))
	copy(sorted, files)
	sort.Strings(sorted)

	assignment := make(map[string]int, len(sorted))
	if k <= 1 {
		for _, f := range sorted {
			assignment[f] = 0
		}
		return assignment
	}

	degree := make(map[string]int, len(sorted))
	adj := g.AdjacencyList()
	for _, f := range sorted {
		degree[f] = len(adj[f])
		for _, neighbors := range adj {
			for n := range neighbors {
				if n == f {
					degree[f]++
				}
			}
		}
	}

	seeds := make([]string, 0, k)
	seeded := make(map[string]bool)
	best := sorted[0]
	for _, f := range sorted {
		if degree[f] > degree[best] {
			best = f
		}
	}
	seeds = append(seeds, best)
	seeded[best] = true

	for len(seeds) < k && len(seeds) < len(sorted) {
		var farthest string
		farthestDist := -1
		for _, f := range sorted {
			if seeded[f] {
				continue
			}
			minDistToSeed := len(sorted) + 1
			for _, s := range seeds {
				d := graphDistance(adj, s, f)
				if d < minDistToSeed {
					minDistToSeed = d
				}
			}
			if minDistToSeed > farthestDist {
				farthestDist = minDistToSeed
				farthest = f
			}
		}
		seeds = append(seeds, farthest)
		seeded[farthest] = true
	}

	for i, s := range seeds {
		assignment[s] = i
	}
	target := (len(sorted) + k - 1) / k
	maxSize := int(float64(target) * (1.0 + tolerance))
	if maxSize < target {
		maxSize = target
	}

	clusterSize := make([]int, k)
	for _, c := range assignment {
		clusterSize[c]++
	}

	remaining := make([]string, 0, len(sorted)-len(seeds))
	for _, f := range sorted {
		if !seeded[f] {
			remaining = append(remaining, f)
		}
	}

	for _, f := range remaining {
		bestCluster, bestAffinity := 0, -1
		for c := 0; c < k; c++ {
			if clusterSize[c] >= maxSize {
				continue
			}
			affinity := 0
			for neighbor := range adj[f] {
				if assignment[neighbor] == c {
					affinity++
				}
			}
			for other, neighbors := range adj {
				if _, ok := neighbors[f]; ok && assignment[other] == c {
					affinity++
				}
			}
			if affinity > bestAffinity {
				bestAffinity = affinity
				bestCluster = c
			}
		}
		assignment[f] = bestCluster
		clusterSize[bestCluster]++
	}

	improveBoundary(sorted, adj, assignment, clusterSize, maxSize, k)
	return assignment
}

// graphDistance is a small bounded BFS (unweighted hop count); returns a
// large sentinel if unreachable within the node count.
func graphDistance(adj map[string]map[string][]*lvlath.Edge, from, to string) int {
	if from == to {
		return 0
	}
	visited := map[string]bool{from: true}
	frontier := []string{from}
	dist := 0
	for len(frontier) > 0 {
		dist++
		var next []string
		for _, n := range frontier {
			for neighbor := range adj[n] {
				if neighbor == to {
					return dist
				}
				if !visited[neighbor] {
					visited[neighbor] = true
					next = append(next, neighbor)
				}
			}
		}
		frontier = next
	}
	return len(adj) + 1
}

// improveBoundary runs a fixed number of passes moving a boundary node to a
// neighboring cluster when doing so strictly reduces the cut without
// violating the balance cap.
func improveBoundary(sorted []string, adj map[string]map[string][]*lvlath.Edge, assignment map[string]int, clusterSize []int, maxSize, k int) {
	for pass := 0; pass < 3; pass++ {
		improved := false
		for _, f := range sorted {
			current := assignment[f]
			cutToCluster := make([]int, k)
			for neighbor := range adj[f] {
				cutToCluster[assignment[neighbor]]++
			}
			for other, neighbors := range adj {
				if _, ok := neighbors[f]; ok {
					cutToCluster[assignment[other]]++
				}
			}
			bestCluster, bestCut := current, cutToCluster[current]
			for c := 0; c < k; c++ {
				if c == current || clusterSize[c] >= maxSize {
					continue
				}
				if cutToCluster[c] > bestCut {
					bestCut = cutToCluster[c]
					bestCluster = c
				}
			}
			if bestCluster != current {
				clusterSize[current]--
				clusterSize[bestCluster]++
				assignment[f] = bestCluster
				improved = true
			}
		}
		if !improved {
			break
		}
	}
}

func cutSize(g *lvlath.Graph, assignment map[string]int) int {
	adj := g.AdjacencyList()
	cut := 0
	for from, neighbors := range adj {
		for to := range neighbors {
			if assignment[from] != assignment[to] {
				cut++
			}
		}
	}
	return cut
}

var genericStems = map[string]bool{
	"index": true, "main": true, "mod": true, "lib": true, "__init__": true, "util": true,
}

// canonicalPartitionName picks the longest common non-generic token shared
// across the cluster's file stems, falling back to an indexed name from
// cfg's name list.
func canonicalPartitionName(files []string, nameList []string, idx int, used map[string]bool) string {
	tokenSets := make([][]string, 0, len(files))
	for _, f := range files {
		stem := strings.TrimSuffix(path.Base(f), path.Ext(f))
		tokenSets = append(tokenSets, strings.Split(stem, "_"))
	}
	counts := make(map[string]int)
	for _, tokens := range tokenSets {
		seen := make(map[string]bool)
		for _, t := range tokens {
			if t == "" || genericStems[t] || seen[t] {
				continue
			}
			seen[t] = true
			counts[t]++
		}
	}
	best, bestCount := "", 1
	var names []string
	for t := range counts {
		names = append(names, t)
	}
	sort.Strings(names)
	for _, t := range names {
		c := counts[t]
		if c < 2 {
			continue
		}
		if c > bestCount || (c == bestCount && len(t) > len(best)) {
			best, bestCount = t, c
		}
	}
	if best != "" && !used[best] {
		return best
	}
	if idx < len(nameList) && !used[nameList[idx]] {
		return nameList[idx]
	}
	return "partition_" + strconv.Itoa(idx)
}
