package mapper

import (
	"errors"
	"math"
	"testing"
)

func testConfig() Config {
	return Config{Resolution: 4, Overlap: 0.25, Epsilon: 1.0}
}

func TestRunEmptyInput(t *testing.T) {
	g, err := Run(nil, testConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(g.Nodes) != 0 || len(g.Edges) != 0 {
		t.Fatalf("expected empty graph, got %d nodes %d edges", len(g.Nodes), len(g.Edges))
	}
}

func TestRunRejectsBadConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"zero resolution", Config{Resolution: 0, Overlap: 0.2, Epsilon: 1}},
		{"negative resolution", Config{Resolution: -3, Overlap: 0.2, Epsilon: 1}},
		{"overlap one", Config{Resolution: 5, Overlap: 1.0, Epsilon: 1}},
		{"negative overlap", Config{Resolution: 5, Overlap: -0.1, Epsilon: 1}},
		{"zero epsilon", Config{Resolution: 5, Overlap: 0.2, Epsilon: 0}},
	}
	points := []DataPoint{{ID: "a", Vector: []float64{1}}}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Run(points, tt.cfg)
			if !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestRunRejectsBadVectors(t *testing.T) {
	tests := []struct {
		name   string
		points []DataPoint
	}{
		{"empty vector", []DataPoint{{ID: "a", Vector: nil}}},
		{"mismatched dims", []DataPoint{
			{ID: "a", Vector: []float64{1, 2}},
			{ID: "b", Vector: []float64{1}},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Run(tt.points, testConfig())
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestCoverSpansFilterRange(t *testing.T) {
	filter := []float64{1.0, 2.5, 4.0, 7.0}
	cfg := Config{Resolution: 5, Overlap: 0.4, Epsilon: 1}

	intervals := buildCover(filter, cfg)

	if len(intervals) != cfg.Resolution {
		t.Fatalf("expected %d intervals, got %d", cfg.Resolution, len(intervals))
	}
	if intervals[0].lo != 1.0 {
		t.Fatalf("first interval starts at %.4f, want 1.0", intervals[0].lo)
	}
	last := intervals[len(intervals)-1]
	if last.hi < 7.0 {
		t.Fatalf("last interval ends at %.6f, leaving %.6f uncovered", last.hi, 7.0)
	}

	// Every filter value lands in at least one interval: no gaps in [min, max].
	for _, v := range filter {
		covered := false
		for _, iv := range intervals {
			if v >= iv.lo && v <= iv.hi {
				covered = true
				break
			}
		}
		if !covered {
			t.Fatalf("filter value %.4f not covered by any interval", v)
		}
	}

	// Consecutive intervals overlap by the configured fraction of the width.
	width := intervals[0].hi - intervals[0].lo
	for i := 1; i < len(intervals); i++ {
		overlap := intervals[i-1].hi - intervals[i].lo
		if math.Abs(overlap-cfg.Overlap*width) > 1e-9 {
			t.Fatalf("interval %d overlaps by %.6f, want %.6f", i, overlap, cfg.Overlap*width)
		}
	}
}

func TestRunDegenerateSingleValue(t *testing.T) {
	// All points share one filter value and one location: one cluster in interval 0.
	points := []DataPoint{
		{ID: "a", Vector: []float64{3, 4}},
		{ID: "b", Vector: []float64{3, 4}},
		{ID: "c", Vector: []float64{3, 4}},
	}
	g, err := Run(points, testConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(g.Nodes) != 1 {
		t.Fatalf("expected 1 node, got %d", len(g.Nodes))
	}
	if g.Nodes[0].Interval != 0 {
		t.Fatalf("expected interval 0, got %d", g.Nodes[0].Interval)
	}
	if g.Nodes[0].Size != 3 {
		t.Fatalf("expected size 3, got %d", g.Nodes[0].Size)
	}
}

func TestRunResolutionExceedsPointCount(t *testing.T) {
	points := []DataPoint{
		{ID: "a", Vector: []float64{0}},
		{ID: "b", Vector: []float64{10}},
	}
	g, err := Run(points, Config{Resolution: 50, Overlap: 0.2, Epsilon: 0.5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Empty intervals are skipped silently; only occupied ones produce nodes.
	if len(g.Nodes) == 0 {
		t.Fatal("expected nodes from occupied intervals")
	}
	for _, n := range g.Nodes {
		if n.Size == 0 {
			t.Fatalf("node %s has zero size", n.ID)
		}
	}
}

func TestEdgesRespectIntervalAdjacencyAndWeight(t *testing.T) {
	// A tight line of points so neighboring intervals share cluster members.
	var points []DataPoint
	for i := 0; i < 20; i++ {
		points = append(points, DataPoint{
			ID:     string(rune('a' + i)),
			Vector: []float64{float64(i) * 0.3},
		})
	}
	g, err := Run(points, Config{Resolution: 4, Overlap: 0.5, Epsilon: 0.5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(g.Edges) == 0 {
		t.Fatal("expected overlap edges between adjacent intervals")
	}

	intervalOf := map[string]int{}
	for _, n := range g.Nodes {
		intervalOf[n.ID] = n.Interval
	}
	for _, e := range g.Edges {
		if e.Weight <= 0 {
			t.Fatalf("edge %s-%s has non-positive weight %d", e.Source, e.Target, e.Weight)
		}
		d := intervalOf[e.Source] - intervalOf[e.Target]
		if d < 0 {
			d = -d
		}
		if d > 1 {
			t.Fatalf("edge %s-%s spans intervals %d apart", e.Source, e.Target, d)
		}
	}
}

func TestClusterChainProperty(t *testing.T) {
	// Every pair inside a final cluster must be linked by a chain of
	// sub-epsilon hops through that cluster's own members.
	var points []DataPoint
	coords := []float64{0, 0.4, 0.8, 5, 5.3, 9}
	for i, c := range coords {
		points = append(points, DataPoint{ID: string(rune('a' + i)), Vector: []float64{c}})
	}
	const eps = 0.5
	g, err := Run(points, Config{Resolution: 1, Overlap: 0.0, Epsilon: eps})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	byID := map[string][]float64{}
	for _, p := range points {
		byID[p.ID] = p.Vector
	}
	for _, n := range g.Nodes {
		for _, start := range n.Members {
			reached := map[string]bool{start: true}
			frontier := []string{start}
			for len(frontier) > 0 {
				cur := frontier[0]
				frontier = frontier[1:]
				for _, other := range n.Members {
					if !reached[other] && euclidean(byID[cur], byID[other]) < eps {
						reached[other] = true
						frontier = append(frontier, other)
					}
				}
			}
			for _, other := range n.Members {
				if !reached[other] {
					t.Fatalf("cluster %s: no epsilon chain from %s to %s", n.ID, start, other)
				}
			}
		}
	}
}
