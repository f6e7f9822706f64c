package mapper

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// canonical reduces a partition to a comparable form: each part becomes a
// sorted id slice, and parts are sorted by their first id.
func canonical(parts [][]DataPoint) [][]string {
	out := make([][]string, 0, len(parts))
	for _, part := range parts {
		ids := make([]string, len(part))
		for i, p := range part {
			ids[i] = p.ID
		}
		sort.Strings(ids)
		out = append(out, ids)
	}
	sort.Slice(out, func(i, j int) bool { return out[i][0] < out[j][0] })
	return out
}

func TestSingleLinkagePartitionIsOrderIndependent(t *testing.T) {
	points := []DataPoint{
		{ID: "a", Vector: []float64{0, 0}},
		{ID: "b", Vector: []float64{0.3, 0}},
		{ID: "c", Vector: []float64{0.6, 0}},
		{ID: "d", Vector: []float64{5, 5}},
		{ID: "e", Vector: []float64{5.2, 5}},
		{ID: "f", Vector: []float64{-3, 7}},
	}
	const eps = 0.5

	want := canonical(singleLinkage(points, eps))

	rng := rand.New(rand.NewSource(42))
	for trial := 0; trial < 20; trial++ {
		shuffled := make([]DataPoint, len(points))
		copy(shuffled, points)
		rng.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})

		got := canonical(singleLinkage(shuffled, eps))
		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("trial %d: partition differs (-want +got):\n%s", trial, diff)
		}
	}
}

func TestSingleLinkageStrictEpsilon(t *testing.T) {
	// Distance exactly epsilon does not merge.
	points := []DataPoint{
		{ID: "a", Vector: []float64{0}},
		{ID: "b", Vector: []float64{1}},
	}
	parts := singleLinkage(points, 1.0)
	if len(parts) != 2 {
		t.Fatalf("expected 2 singleton parts at distance == epsilon, got %d", len(parts))
	}

	parts = singleLinkage(points, 1.0001)
	if len(parts) != 1 {
		t.Fatalf("expected 1 part below epsilon, got %d", len(parts))
	}
}

func TestSummarizeCountsComponentsAndCycles(t *testing.T) {
	g := Graph{
		Nodes: []GraphNode{
			{ID: "n1"}, {ID: "n2"}, {ID: "n3"}, {ID: "n4"},
		},
		Edges: []GraphEdge{
			{Source: "n1", Target: "n2", Weight: 1},
			{Source: "n2", Target: "n3", Weight: 1},
			{Source: "n3", Target: "n1", Weight: 1}, // triangle: one cycle
		},
	}
	s := Summarize(g)
	if s.Components != 2 {
		t.Fatalf("expected 2 components, got %d", s.Components)
	}
	if s.Cycles != 1 {
		t.Fatalf("expected 1 cycle, got %d", s.Cycles)
	}
	if s.Nodes != 4 || s.Edges != 3 {
		t.Fatalf("unexpected counts: %+v", s)
	}
}

func TestSummarizeEmptyGraph(t *testing.T) {
	s := Summarize(Graph{})
	if s.Components != 0 || s.Cycles != 0 {
		t.Fatalf("expected zero summary, got %+v", s)
	}
}
