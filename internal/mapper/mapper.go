package mapper

import (
	"fmt"
	"math"
	"sort"
)

// #region run

// Run builds a topological graph over the given points: an L2-norm filter,
// an overlapping interval cover, per-interval single-linkage clustering,
// and a nerve graph of the resulting clusters.
// Pure: no state outlives the call, and validation precedes all work.
func Run(points []DataPoint, cfg Config) (Graph, error) {
	if err := validateConfig(cfg); err != nil {
		return Graph{}, err
	}
	if len(points) == 0 {
		return Graph{}, nil
	}
	filter, err := filterValues(points)
	if err != nil {
		return Graph{}, err
	}

	intervals := buildCover(filter, cfg)

	// Cluster each interval independently; empty intervals are skipped.
	var clusters []cluster
	for idx, iv := range intervals {
		members := iv.collect(points, filter)
		if len(members) == 0 {
			continue
		}
		for _, part := range singleLinkage(members, cfg.Epsilon) {
			clusters = append(clusters, cluster{
				id:       fmt.Sprintf("i%d-c%d", idx, len(clusters)),
				interval: idx,
				points:   part,
			})
		}
	}

	return assemble(clusters), nil
}

// #endregion run

// #region validate

func validateConfig(cfg Config) error {
	if cfg.Resolution <= 0 {
		return fmt.Errorf("%w: resolution %d must be positive", ErrInvalidConfig, cfg.Resolution)
	}
	if cfg.Overlap < 0 || cfg.Overlap >= 1 {
		return fmt.Errorf("%w: overlap %.4f must be in [0, 1)", ErrInvalidConfig, cfg.Overlap)
	}
	if cfg.Epsilon <= 0 {
		return fmt.Errorf("%w: epsilon %.4f must be positive", ErrInvalidConfig, cfg.Epsilon)
	}
	return nil
}

// filterValues computes the L2-norm projection per point, validating that
// every vector is non-empty and all dimensions agree.
func filterValues(points []DataPoint) ([]float64, error) {
	dim := len(points[0].Vector)
	values := make([]float64, len(points))
	for i, p := range points {
		if len(p.Vector) == 0 {
			return nil, fmt.Errorf("%w: point %q has empty vector", ErrInvalidInput, p.ID)
		}
		if len(p.Vector) != dim {
			return nil, fmt.Errorf("%w: point %q has dimension %d, expected %d",
				ErrInvalidInput, p.ID, len(p.Vector), dim)
		}
		var sumSq float64
		for _, x := range p.Vector {
			sumSq += x * x
		}
		values[i] = math.Sqrt(sumSq)
	}
	return values, nil
}

// #endregion validate

// #region cover

// interval is one member of the cover, inclusive on both ends.
type interval struct {
	lo float64
	hi float64
}

func (iv interval) collect(points []DataPoint, filter []float64) []DataPoint {
	var members []DataPoint
	for i, p := range points {
		if filter[i] >= iv.lo && filter[i] <= iv.hi {
			members = append(members, p)
		}
	}
	return members
}

// buildCover partitions [min, max] of the filter values into Resolution
// overlapping intervals. Successive starts are offset by width*(1-Overlap),
// so consecutive intervals overlap by the configured fraction.
// When max == min the cover degenerates to zero-width intervals and every
// point lands in interval 0.
func buildCover(filter []float64, cfg Config) []interval {
	lo, hi := filter[0], filter[0]
	for _, v := range filter[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}

	if hi == lo {
		return []interval{{lo: lo, hi: hi}}
	}

	width := (hi - lo) / (float64(cfg.Resolution) * (1 - cfg.Overlap))
	step := width * (1 - cfg.Overlap)

	intervals := make([]interval, cfg.Resolution)
	for i := range intervals {
		start := lo + float64(i)*step
		intervals[i] = interval{lo: start, hi: start + width}
	}
	return intervals
}

// #endregion cover

// #region assemble

type cluster struct {
	id       string
	interval int
	points   []DataPoint
}

// assemble produces the output graph: one node per cluster, edges between
// clusters from intervals at most 1 apart that share points. Same-interval
// clusters are disjoint by construction, so only consecutive interval pairs
// are compared.
func assemble(clusters []cluster) Graph {
	var g Graph
	for _, c := range clusters {
		members := make([]string, len(c.points))
		for i, p := range c.points {
			members[i] = p.ID
		}
		sort.Strings(members)
		g.Nodes = append(g.Nodes, GraphNode{
			ID:       c.id,
			Size:     len(c.points),
			Members:  members,
			Interval: c.interval,
		})
	}

	for i, a := range clusters {
		for _, b := range clusters[i+1:] {
			if b.interval-a.interval > 1 {
				break
			}
			if w := overlapCount(a, b); w > 0 {
				g.Edges = append(g.Edges, GraphEdge{Source: a.id, Target: b.id, Weight: w})
			}
		}
	}
	return g
}

func overlapCount(a, b cluster) int {
	ids := make(map[string]struct{}, len(a.points))
	for _, p := range a.points {
		ids[p.ID] = struct{}{}
	}
	count := 0
	for _, p := range b.points {
		if _, ok := ids[p.ID]; ok {
			count++
		}
	}
	return count
}

// #endregion assemble
