package lattice

import "errors"

// #region errors

// ErrInvalidConfig marks nonsensical grid dimensions.
var ErrInvalidConfig = errors.New("invalid config")

// #endregion errors

// #region cell

// Cell is one grid position. Stabilizer alternates +1/-1 on a checkerboard;
// AgentID is empty while the cell is unoccupied.
type Cell struct {
	X          int    `json:"x"`
	Y          int    `json:"y"`
	AgentID    string `json:"agent_id,omitempty"`
	State      any    `json:"state,omitempty"`
	Stabilizer int    `json:"stabilizer"`
}

// Coord addresses one cell.
type Coord struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// #endregion cell

// #region config

// Config holds grid dimensions and the random-placement attempt budget.
type Config struct {
	Width             int
	Height            int
	PlacementAttempts int // random cells probed before giving up
}

// DefaultConfig returns a grid sized for small agent swarms.
func DefaultConfig() Config {
	return Config{
		Width:             8,
		Height:            8,
		PlacementAttempts: 100,
	}
}

// #endregion config
