package mapper

import "math"

// #region single-linkage

// singleLinkage partitions points with union-find: two points land in the
// same part iff a chain of pairwise distances strictly below epsilon
// connects them. The resulting partition is independent of input order.
func singleLinkage(points []DataPoint, epsilon float64) [][]DataPoint {
	parent := make([]int, len(points))
	for i := range parent {
		parent[i] = i
	}

	var find func(int) int
	find = func(i int) int {
		if parent[i] != i {
			parent[i] = find(parent[i])
		}
		return parent[i]
	}
	union := func(a, b int) {
		ra, rb := find(a), find(b)
		if ra != rb {
			parent[rb] = ra
		}
	}

	for i := range points {
		for j := i + 1; j < len(points); j++ {
			if euclidean(points[i].Vector, points[j].Vector) < epsilon {
				union(i, j)
			}
		}
	}

	// Group by root, preserving input order within each part.
	order := []int{}
	groups := map[int][]DataPoint{}
	for i, p := range points {
		root := find(i)
		if _, seen := groups[root]; !seen {
			order = append(order, root)
		}
		groups[root] = append(groups[root], p)
	}

	parts := make([][]DataPoint, 0, len(order))
	for _, root := range order {
		parts = append(parts, groups[root])
	}
	return parts
}

// #endregion single-linkage

// #region distance

// euclidean computes the L2 distance between raw vectors.
// Callers guarantee equal dimensions (validated in Run).
func euclidean(a, b []float64) float64 {
	var sumSq float64
	for i := range a {
		d := a[i] - b[i]
		sumSq += d * d
	}
	return math.Sqrt(sumSq)
}

// #endregion distance
