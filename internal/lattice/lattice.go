package lattice

import (
	"fmt"
	"math/rand"
	"sync"
)

// #region lattice

// Lattice places agents on a fixed-size toroidal grid and answers von
// Neumann neighbor queries with wraparound. The grid and the agent→coord
// index mutate together under one mutex; partial updates are never visible.
type Lattice struct {
	mu     sync.Mutex
	cfg    Config
	grid   [][]Cell
	agents map[string]Coord
	rng    *rand.Rand
}

// New creates a lattice with the given dimensions.
func New(cfg Config) (*Lattice, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("%w: grid %dx%d must have positive dimensions", ErrInvalidConfig, cfg.Width, cfg.Height)
	}
	if cfg.PlacementAttempts <= 0 {
		cfg.PlacementAttempts = DefaultConfig().PlacementAttempts
	}
	l := &Lattice{
		cfg:    cfg,
		agents: make(map[string]Coord),
		rng:    rand.New(rand.NewSource(rand.Int63())),
	}
	l.initGrid()
	return l, nil
}

// Seed fixes the random-placement sequence. Test hook.
func (l *Lattice) Seed(seed int64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.rng = rand.New(rand.NewSource(seed))
}

func (l *Lattice) initGrid() {
	l.grid = make([][]Cell, l.cfg.Height)
	for y := range l.grid {
		l.grid[y] = make([]Cell, l.cfg.Width)
		for x := range l.grid[y] {
			stab := 1
			if (x+y)%2 != 0 {
				stab = -1
			}
			l.grid[y][x] = Cell{X: x, Y: y, Stabilizer: stab}
		}
	}
}

// #endregion lattice

// #region register

// Register places an agent on a random free cell. Returns false when the
// attempt budget runs out; a full grid is an expected steady state, not
// an error. Re-registering a placed agent returns its current coordinate.
func (l *Lattice) Register(agentID string) (Coord, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if c, ok := l.agents[agentID]; ok {
		return c, true
	}
	return l.scanRandom(agentID)
}

// RegisterAt places an agent on the named cell if free, falling back to the
// random scan otherwise. Coordinates wrap.
func (l *Lattice) RegisterAt(agentID string, x, y int) (Coord, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if c, ok := l.agents[agentID]; ok {
		return c, true
	}
	x = mod(x, l.cfg.Width)
	y = mod(y, l.cfg.Height)
	if l.grid[y][x].AgentID == "" {
		l.occupy(agentID, x, y)
		return Coord{X: x, Y: y}, true
	}
	return l.scanRandom(agentID)
}

// scanRandom probes up to the attempt budget for a free cell.
// Caller holds the mutex.
func (l *Lattice) scanRandom(agentID string) (Coord, bool) {
	for i := 0; i < l.cfg.PlacementAttempts; i++ {
		x := l.rng.Intn(l.cfg.Width)
		y := l.rng.Intn(l.cfg.Height)
		if l.grid[y][x].AgentID == "" {
			l.occupy(agentID, x, y)
			return Coord{X: x, Y: y}, true
		}
	}
	return Coord{}, false
}

// occupy writes both the grid cell and the reverse index. Caller holds the
// mutex; the two writes form one critical section.
func (l *Lattice) occupy(agentID string, x, y int) {
	l.grid[y][x].AgentID = agentID
	l.agents[agentID] = Coord{X: x, Y: y}
}

// Remove frees an agent's cell. Returns false for an unknown agent.
func (l *Lattice) Remove(agentID string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	c, ok := l.agents[agentID]
	if !ok {
		return false
	}
	l.grid[c.Y][c.X].AgentID = ""
	l.grid[c.Y][c.X].State = nil
	delete(l.agents, agentID)
	return true
}

// #endregion register

// #region neighbors

// Neighbors returns the occupants of the four von Neumann neighbor cells,
// computed with wraparound. Unknown agents get an empty result.
func (l *Lattice) Neighbors(agentID string) []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	c, ok := l.agents[agentID]
	if !ok {
		return nil
	}
	offsets := [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	var out []string
	for _, off := range offsets {
		x := mod(c.X+off[0], l.cfg.Width)
		y := mod(c.Y+off[1], l.cfg.Height)
		if id := l.grid[y][x].AgentID; id != "" {
			out = append(out, id)
		}
	}
	return out
}

// Locate returns an agent's coordinate, false if unregistered.
func (l *Lattice) Locate(agentID string) (Coord, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	c, ok := l.agents[agentID]
	return c, ok
}

// #endregion neighbors

// #region snapshot

// Snapshot returns a deep copy of the grid for inspection and visualization.
func (l *Lattice) Snapshot() [][]Cell {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([][]Cell, len(l.grid))
	for y, row := range l.grid {
		out[y] = make([]Cell, len(row))
		copy(out[y], row)
	}
	return out
}

// Occupancy returns the number of placed agents.
func (l *Lattice) Occupancy() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.agents)
}

// Reset clears all placements, keeping dimensions.
func (l *Lattice) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.agents = make(map[string]Coord)
	l.initGrid()
}

// #endregion snapshot

// #region helpers

// mod wraps v into [0, n) for negative and oversized inputs.
func mod(v, n int) int {
	return ((v % n) + n) % n
}

// #endregion helpers
