package mapper

// #region summarize

// Summarize counts connected components and independent cycles of a mapper
// graph. Cycles = E - N + components (first Betti number of the nerve seen
// as a 1-complex). Heuristic connectivity counts, not homology.
func Summarize(g Graph) Summary {
	index := make(map[string]int, len(g.Nodes))
	parent := make([]int, len(g.Nodes))
	for i, n := range g.Nodes {
		index[n.ID] = i
		parent[i] = i
	}

	var find func(int) int
	find = func(i int) int {
		if parent[i] != i {
			parent[i] = find(parent[i])
		}
		return parent[i]
	}

	for _, e := range g.Edges {
		a, ok := index[e.Source]
		if !ok {
			continue
		}
		b, ok := index[e.Target]
		if !ok {
			continue
		}
		ra, rb := find(a), find(b)
		if ra != rb {
			parent[rb] = ra
		}
	}

	roots := map[int]struct{}{}
	for i := range parent {
		roots[find(i)] = struct{}{}
	}

	components := len(roots)
	cycles := len(g.Edges) - len(g.Nodes) + components
	if cycles < 0 {
		cycles = 0
	}
	return Summary{
		Nodes:      len(g.Nodes),
		Edges:      len(g.Edges),
		Components: components,
		Cycles:     cycles,
	}
}

// #endregion summarize
