package lattice

import (
	"errors"
	"fmt"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNewRejectsBadDimensions(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"zero width", Config{Width: 0, Height: 4}},
		{"zero height", Config{Width: 4, Height: 0}},
		{"negative", Config{Width: -1, Height: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.cfg)
			if !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestCornerNeighborsWrapAround(t *testing.T) {
	l, err := New(Config{Width: 4, Height: 4})
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	// Corner agent plus occupants of all four wrapped neighbor cells.
	place := func(id string, x, y int) {
		c, ok := l.RegisterAt(id, x, y)
		if !ok || c.X != x || c.Y != y {
			t.Fatalf("failed to place %s at (%d,%d), got (%d,%d) ok=%v", id, x, y, c.X, c.Y, ok)
		}
	}
	place("corner", 0, 0)
	place("east", 1, 0)
	place("west", 3, 0) // wraps to (0-1) mod 4
	place("south", 0, 1)
	place("north", 0, 3) // wraps to (0-1) mod 4

	got := l.Neighbors("corner")
	sort.Strings(got)
	want := []string{"east", "north", "south", "west"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("neighbors mismatch (-want +got):\n%s", diff)
	}
}

func TestNeighborsSkipEmptyCells(t *testing.T) {
	l, _ := New(Config{Width: 4, Height: 4})
	l.RegisterAt("a", 0, 0)
	l.RegisterAt("b", 1, 0)

	got := l.Neighbors("a")
	if len(got) != 1 || got[0] != "b" {
		t.Fatalf("expected [b], got %v", got)
	}
}

func TestNeighborsUnknownAgent(t *testing.T) {
	l, _ := New(Config{Width: 4, Height: 4})
	if got := l.Neighbors("ghost"); len(got) != 0 {
		t.Fatalf("expected empty neighbors for unknown agent, got %v", got)
	}
}

func TestRegisterFullGridNotPlaced(t *testing.T) {
	l, _ := New(Config{Width: 2, Height: 2, PlacementAttempts: 50})
	l.Seed(7)

	placed := 0
	for i := 0; i < 10; i++ {
		if _, ok := l.Register(fmt.Sprintf("agent-%d", i)); ok {
			placed++
		}
	}
	if placed != 4 {
		t.Fatalf("expected exactly 4 placements on a 2x2 grid, got %d", placed)
	}
	if _, ok := l.Register("overflow"); ok {
		t.Fatal("expected NotPlaced on a full grid")
	}
}

func TestRegisterIdempotent(t *testing.T) {
	l, _ := New(Config{Width: 4, Height: 4})
	first, ok := l.RegisterAt("a", 2, 2)
	if !ok {
		t.Fatal("placement failed")
	}
	second, ok := l.Register("a")
	if !ok || second != first {
		t.Fatalf("re-register moved agent: %v -> %v", first, second)
	}
	if l.Occupancy() != 1 {
		t.Fatalf("expected occupancy 1, got %d", l.Occupancy())
	}
}

func TestRegisterAtOccupiedFallsBack(t *testing.T) {
	l, _ := New(Config{Width: 4, Height: 4})
	l.Seed(3)
	l.RegisterAt("a", 1, 1)
	c, ok := l.RegisterAt("b", 1, 1)
	if !ok {
		t.Fatal("expected fallback placement to succeed")
	}
	if c.X == 1 && c.Y == 1 {
		t.Fatal("b placed on an occupied cell")
	}
}

func TestGridAndIndexAgree(t *testing.T) {
	l, _ := New(Config{Width: 5, Height: 3})
	l.Seed(11)
	for i := 0; i < 10; i++ {
		l.Register(fmt.Sprintf("agent-%d", i))
	}
	l.Remove("agent-3")
	l.Remove("ghost")

	snap := l.Snapshot()
	fromGrid := map[string]Coord{}
	for _, row := range snap {
		for _, cell := range row {
			if cell.AgentID != "" {
				fromGrid[cell.AgentID] = Coord{X: cell.X, Y: cell.Y}
			}
		}
	}
	for id, c := range fromGrid {
		loc, ok := l.Locate(id)
		if !ok || loc != c {
			t.Fatalf("index disagrees with grid for %s: grid %v, index %v ok=%v", id, c, loc, ok)
		}
	}
	if len(fromGrid) != l.Occupancy() {
		t.Fatalf("grid holds %d agents, index holds %d", len(fromGrid), l.Occupancy())
	}
}

func TestStabilizerCheckerboard(t *testing.T) {
	l, _ := New(Config{Width: 4, Height: 4})
	for _, row := range l.Snapshot() {
		for _, cell := range row {
			want := 1
			if (cell.X+cell.Y)%2 != 0 {
				want = -1
			}
			if cell.Stabilizer != want {
				t.Fatalf("cell (%d,%d) stabilizer %d, want %d", cell.X, cell.Y, cell.Stabilizer, want)
			}
		}
	}
}

func TestSnapshotIsDeepCopy(t *testing.T) {
	l, _ := New(Config{Width: 2, Height: 2})
	l.RegisterAt("a", 0, 0)
	snap := l.Snapshot()
	snap[0][0].AgentID = "tampered"

	again := l.Snapshot()
	if again[0][0].AgentID != "a" {
		t.Fatal("snapshot mutation leaked into the lattice")
	}
}

func TestReset(t *testing.T) {
	l, _ := New(Config{Width: 3, Height: 3})
	l.RegisterAt("a", 0, 0)
	l.Reset()
	if l.Occupancy() != 0 {
		t.Fatalf("expected empty lattice after reset, got %d", l.Occupancy())
	}
	if _, ok := l.Locate("a"); ok {
		t.Fatal("agent survived reset")
	}
}
